package main

import (
	"fmt"
	"log/slog"
	"os"

	"cortex/internal/llm"
	"cortex/internal/session"
	"cortex/internal/settings"
	"cortex/internal/store"
	"cortex/internal/ui"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine, the API key may come from the environment.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	prefsPath, err := settings.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving config directory: %v\n", err)
		os.Exit(1)
	}
	prefs := settings.NewStore(prefsPath)

	history, err := store.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening conversation history: %v\n", err)
		os.Exit(1)
	}
	defer history.Close()

	client := llm.NewClient(os.Getenv(llm.APIKeyEnv), llm.DefaultBaseURL)
	controller := session.NewController(history, prefs, client)

	p := ui.NewProgram(controller)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
