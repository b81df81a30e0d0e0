// Package llm is the boundary adapter over the Hack Club chat-completion
// proxy. It exposes a single request/response call plus an error taxonomy;
// retries and fallbacks are the caller's decision, never the adapter's.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"cortex/internal/models"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// DefaultBaseURL is the Hack Club OpenAI-compatible proxy.
	DefaultBaseURL = "https://ai.hackclub.com/proxy/v1"

	// APIKeyEnv names the environment variable holding the credential.
	APIKeyEnv = "HACKCLUB_API_KEY"
)

var (
	// ErrNotConfigured means no API credential is available.
	ErrNotConfigured = errors.New("hack club api key not configured")

	// ErrUnavailable means the completion backend could not be reached.
	ErrUnavailable = errors.New("completion backend unavailable")

	// ErrUnexpectedResponse means the provider answered but without the
	// expected content field.
	ErrUnexpectedResponse = errors.New("unexpected completion response shape")
)

type Client struct {
	api        openai.Client
	configured bool
}

// NewClient builds an adapter for the given credential and base URL. An
// empty apiKey yields a client whose Complete always reports
// ErrNotConfigured; construction itself never fails, so a misconfigured
// session can still run and surface the problem in the chat.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey == "" {
		return &Client{configured: false}
	}
	api := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	return &Client{api: api, configured: true}
}

// Complete submits one non-streaming completion request and returns the
// assistant's text. model must be non-empty and msgs must contain at least
// one user or system message.
func (c *Client) Complete(ctx context.Context, model string, msgs []models.Message) (string, error) {
	if model == "" {
		return "", fmt.Errorf("complete: model must not be empty")
	}
	if !hasPromptMessage(msgs) {
		return "", fmt.Errorf("complete: messages must include a user or system entry")
	}
	if !c.configured {
		return "", ErrNotConfigured
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: toParams(msgs),
	}
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrUnexpectedResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func hasPromptMessage(msgs []models.Message) bool {
	for _, m := range msgs {
		if m.Role == models.RoleUser || m.Role == models.RoleSystem {
			return true
		}
	}
	return false
}

func toParams(msgs []models.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case models.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case models.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// classify maps a raw client error onto the adapter taxonomy. Provider-side
// failures keep their cause in the message; connectivity problems collapse
// into ErrUnavailable so the caller can tell "down" from "broken".
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("provider error (status %d): %w", apiErr.StatusCode, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, urlErr.Err)
	}
	return fmt.Errorf("completion transport error: %w", err)
}
