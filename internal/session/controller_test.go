package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"cortex/internal/llm"
	"cortex/internal/models"
	"cortex/internal/settings"
)

// fakeStore is an in-memory ConversationStore that records the collections
// handed to SaveAll.
type fakeStore struct {
	conversations []models.Conversation
	saveErr       error
	saveCalls     int
}

func (f *fakeStore) LoadAll() []models.Conversation {
	return cloneConversations(f.conversations)
}

func (f *fakeStore) SaveAll(convs []models.Conversation) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.conversations = cloneConversations(convs)
	return nil
}

func cloneConversations(convs []models.Conversation) []models.Conversation {
	out := make([]models.Conversation, 0, len(convs))
	for _, c := range convs {
		out = append(out, c.Clone())
	}
	return out
}

// fakeCompleter returns a canned reply or error and captures the last
// submitted window.
type fakeCompleter struct {
	reply  string
	err    error
	calls  int
	window []models.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, model string, msgs []models.Message) (string, error) {
	f.calls++
	f.window = append([]models.Message(nil), msgs...)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestController(t *testing.T, store *fakeStore, completer *fakeCompleter) *Controller {
	t.Helper()
	prefs := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))
	return NewController(store, prefs, completer)
}

func TestSendMessageAppendsUserAndReply(t *testing.T) {
	completer := &fakeCompleter{reply: "hello"}
	ctrl := newTestController(t, &fakeStore{}, completer)

	reply, err := ctrl.SendMessage(context.Background(), "hi")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if reply.Role != models.RoleAssistant || reply.Content != "hello" {
		t.Errorf("reply = %+v, want assistant %q", reply, "hello")
	}

	state := ctrl.State()
	if len(state.Messages) != 2 {
		t.Fatalf("state has %d messages, want 2", len(state.Messages))
	}
	if state.Messages[0].Role != models.RoleUser || state.Messages[0].Content != "hi" {
		t.Errorf("first message = %+v, want user %q", state.Messages[0], "hi")
	}
	if state.Messages[1].Role != models.RoleAssistant || state.Messages[1].Content != "hello" {
		t.Errorf("second message = %+v, want assistant %q", state.Messages[1], "hello")
	}
}

func TestSendMessageSubmitsWindowedContext(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	ctrl := newTestController(t, &fakeStore{}, completer)

	if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	want := []models.Message{{Role: models.RoleUser, Content: "hi"}}
	if len(completer.window) != 1 || completer.window[0] != want[0] {
		t.Errorf("submitted window = %+v, want %+v", completer.window, want)
	}

	// Window is capped at the last three transcript entries.
	for _, text := range []string{"two", "three", "four"} {
		if _, err := ctrl.SendMessage(context.Background(), text); err != nil {
			t.Fatalf("SendMessage(%q): %v", text, err)
		}
	}
	if len(completer.window) != 3 {
		t.Errorf("submitted window has %d messages, want 3", len(completer.window))
	}
	if last := completer.window[len(completer.window)-1]; last.Content != "four" {
		t.Errorf("last window entry = %+v, want the new user message", last)
	}
}

func TestSetContextWindow(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	ctrl := newTestController(t, &fakeStore{}, completer)
	ctrl.SetContextWindow(1)

	for _, text := range []string{"one", "two"} {
		if _, err := ctrl.SendMessage(context.Background(), text); err != nil {
			t.Fatalf("SendMessage(%q): %v", text, err)
		}
	}
	if len(completer.window) != 1 {
		t.Fatalf("submitted window has %d messages, want 1", len(completer.window))
	}
	if completer.window[0].Content != "two" {
		t.Errorf("window entry = %+v, want the latest user turn", completer.window[0])
	}

	// Values below 1 leave the window unchanged.
	ctrl.SetContextWindow(0)
	if _, err := ctrl.SendMessage(context.Background(), "three"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if len(completer.window) != 1 {
		t.Errorf("submitted window has %d messages after ignored resize, want 1", len(completer.window))
	}
}

func TestSendMessageIncludesProfileSystemMessage(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	ctrl := newTestController(t, &fakeStore{}, completer)

	if err := ctrl.SetProfile(models.Profile{Name: "Ana", Email: "a@b.com"}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if len(completer.window) != 2 {
		t.Fatalf("submitted window has %d messages, want 2", len(completer.window))
	}
	sys := completer.window[0]
	if sys.Role != models.RoleSystem {
		t.Fatalf("first window entry role = %q, want system", sys.Role)
	}
	want := "My name is Ana, my email is a@b.com. Please use this information when relevant to provide personalized responses."
	if sys.Content != want {
		t.Errorf("system message = %q, want %q", sys.Content, want)
	}
}

func TestSendMessageRejectsBlankInput(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	ctrl := newTestController(t, &fakeStore{}, completer)

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := ctrl.SendMessage(context.Background(), text); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("SendMessage(%q) err = %v, want ErrEmptyMessage", text, err)
		}
	}
	if completer.calls != 0 {
		t.Errorf("completer called %d times for blank input, want 0", completer.calls)
	}
	if got := ctrl.State().Messages; len(got) != 0 {
		t.Errorf("state mutated by rejected input: %+v", got)
	}
}

func TestSendMessageNotConfiguredMarker(t *testing.T) {
	completer := &fakeCompleter{err: llm.ErrNotConfigured}
	ctrl := newTestController(t, &fakeStore{}, completer)

	reply, err := ctrl.SendMessage(context.Background(), "hi")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if reply.Content != markerNotConfigured {
		t.Errorf("reply = %q, want %q", reply.Content, markerNotConfigured)
	}

	state := ctrl.State()
	if len(state.Messages) != 2 {
		t.Fatalf("state has %d messages, want user plus diagnostic reply", len(state.Messages))
	}
}

func TestSendMessageUnavailableMarker(t *testing.T) {
	completer := &fakeCompleter{err: llm.ErrUnavailable}
	ctrl := newTestController(t, &fakeStore{}, completer)

	reply, err := ctrl.SendMessage(context.Background(), "hi")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if !strings.HasPrefix(reply.Content, markerUnavailable) {
		t.Errorf("reply = %q, want prefix %q", reply.Content, markerUnavailable)
	}
}

func TestSendMessageGenericErrorMarker(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("boom")}
	ctrl := newTestController(t, &fakeStore{}, completer)

	reply, err := ctrl.SendMessage(context.Background(), "hi")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if !strings.HasPrefix(reply.Content, markerGenericError) {
		t.Errorf("reply = %q, want prefix %q", reply.Content, markerGenericError)
	}
}

func TestSendMessageProducesExactlyOneReply(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	ctrl := newTestController(t, &fakeStore{}, completer)

	for i := 0; i < 3; i++ {
		if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}
	if completer.calls != 3 {
		t.Errorf("completer called %d times, want 3", completer.calls)
	}
	if got := len(ctrl.State().Messages); got != 6 {
		t.Errorf("state has %d messages after 3 sends, want 6", got)
	}
}

func TestStartNewConversationArchivesAndResets(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{reply: "hello"}
	ctrl := newTestController(t, store, completer)

	if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if err := ctrl.StartNewConversation(); err != nil {
		t.Fatalf("StartNewConversation: %v", err)
	}

	if got := ctrl.State().Messages; len(got) != 0 {
		t.Errorf("state not reset: %+v", got)
	}
	convs := ctrl.Conversations()
	if len(convs) != 1 {
		t.Fatalf("have %d conversations, want 1", len(convs))
	}
	if len(convs[0].Messages) != 2 {
		t.Errorf("archived conversation has %d messages, want 2", len(convs[0].Messages))
	}
	if store.saveCalls == 0 {
		t.Error("StartNewConversation did not persist")
	}
}

func TestStartNewConversationPrependsNewest(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	ctrl := newTestController(t, &fakeStore{}, completer)

	for i := 0; i < 2; i++ {
		if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
		if err := ctrl.StartNewConversation(); err != nil {
			t.Fatalf("StartNewConversation: %v", err)
		}
	}

	convs := ctrl.Conversations()
	if len(convs) != 2 {
		t.Fatalf("have %d conversations, want 2", len(convs))
	}
	if !convs[0].CreatedAt.After(convs[1].CreatedAt) && !convs[0].CreatedAt.Equal(convs[1].CreatedAt) {
		t.Errorf("newest conversation is not first: %v then %v", convs[0].CreatedAt, convs[1].CreatedAt)
	}
}

func TestStartNewConversationEmptyStateIsNoop(t *testing.T) {
	store := &fakeStore{}
	ctrl := newTestController(t, store, &fakeCompleter{reply: "ok"})

	if err := ctrl.StartNewConversation(); err != nil {
		t.Fatalf("StartNewConversation: %v", err)
	}
	if len(ctrl.Conversations()) != 0 {
		t.Error("empty session archived as a conversation")
	}
	if store.saveCalls != 0 {
		t.Errorf("SaveAll called %d times for empty session, want 0", store.saveCalls)
	}
}

func TestStartNewConversationSaveFailureKeepsState(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	ctrl := newTestController(t, store, &fakeCompleter{reply: "ok"})

	if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if err := ctrl.StartNewConversation(); err == nil {
		t.Fatal("expected save failure to propagate")
	}
	if got := ctrl.State().Messages; len(got) != 2 {
		t.Errorf("state discarded on failed save: %d messages", len(got))
	}
	if len(ctrl.Conversations()) != 0 {
		t.Error("conversation list mutated on failed save")
	}
}

func TestSelectConversation(t *testing.T) {
	completer := &fakeCompleter{reply: "hello"}
	ctrl := newTestController(t, &fakeStore{}, completer)

	if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if err := ctrl.StartNewConversation(); err != nil {
		t.Fatalf("StartNewConversation: %v", err)
	}
	id := ctrl.Conversations()[0].ID

	if err := ctrl.SelectConversation(id); err != nil {
		t.Fatalf("SelectConversation: %v", err)
	}
	state := ctrl.State()
	if state.SelectedID != id {
		t.Errorf("SelectedID = %q, want %q", state.SelectedID, id)
	}
	if len(state.Messages) != 2 {
		t.Errorf("resumed transcript has %d messages, want 2", len(state.Messages))
	}

	// The resumed transcript is a copy of the stored one.
	if _, err := ctrl.SendMessage(context.Background(), "more"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got := len(ctrl.Conversations()[0].Messages); got != 2 {
		t.Errorf("stored conversation mutated through selection: %d messages", got)
	}
}

func TestSelectConversationUnknownID(t *testing.T) {
	ctrl := newTestController(t, &fakeStore{}, &fakeCompleter{})

	if err := ctrl.SelectConversation("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteConversation(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{reply: "ok"}
	ctrl := newTestController(t, store, completer)

	for i := 0; i < 2; i++ {
		if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
		if err := ctrl.StartNewConversation(); err != nil {
			t.Fatalf("StartNewConversation: %v", err)
		}
	}
	convs := ctrl.Conversations()
	keep, remove := convs[0].ID, convs[1].ID

	if err := ctrl.DeleteConversation(remove); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	got := ctrl.Conversations()
	if len(got) != 1 || got[0].ID != keep {
		t.Errorf("after delete have %+v, want only %q", got, keep)
	}
	if len(store.conversations) != 1 {
		t.Errorf("store holds %d conversations after delete, want 1", len(store.conversations))
	}
}

func TestDeleteSelectedConversationClearsSession(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	ctrl := newTestController(t, &fakeStore{}, completer)

	if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if err := ctrl.StartNewConversation(); err != nil {
		t.Fatalf("StartNewConversation: %v", err)
	}
	id := ctrl.Conversations()[0].ID
	if err := ctrl.SelectConversation(id); err != nil {
		t.Fatalf("SelectConversation: %v", err)
	}

	if err := ctrl.DeleteConversation(id); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	state := ctrl.State()
	if state.SelectedID != "" || len(state.Messages) != 0 {
		t.Errorf("session not cleared after deleting its conversation: %+v", state)
	}
}

func TestDeleteOtherConversationKeepsSession(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	ctrl := newTestController(t, &fakeStore{}, completer)

	if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if err := ctrl.StartNewConversation(); err != nil {
		t.Fatalf("StartNewConversation: %v", err)
	}
	other := ctrl.Conversations()[0].ID

	if _, err := ctrl.SendMessage(context.Background(), "new chat"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if err := ctrl.DeleteConversation(other); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}
	if got := len(ctrl.State().Messages); got != 2 {
		t.Errorf("active session lost messages after unrelated delete: %d", got)
	}
}

func TestClearAllConversations(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{reply: "ok"}
	ctrl := newTestController(t, store, completer)

	for i := 0; i < 3; i++ {
		if _, err := ctrl.SendMessage(context.Background(), "hi"); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
		if err := ctrl.StartNewConversation(); err != nil {
			t.Fatalf("StartNewConversation: %v", err)
		}
	}

	if err := ctrl.ClearAllConversations(); err != nil {
		t.Fatalf("ClearAllConversations: %v", err)
	}
	if len(ctrl.Conversations()) != 0 {
		t.Error("conversations remain after clear")
	}
	if len(store.conversations) != 0 {
		t.Error("store not emptied by clear")
	}
}

func TestSettingsMutationsPersist(t *testing.T) {
	prefs := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"))
	ctrl := NewController(&fakeStore{}, prefs, &fakeCompleter{reply: "ok"})

	if err := ctrl.SetModel("hackclub/model2"); err != nil {
		t.Fatalf("SetModel: %v", err)
	}
	if err := ctrl.SetTheme(settings.ThemeTransparent); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}

	reloaded := prefs.Load()
	if reloaded.ModelName != "hackclub/model2" {
		t.Errorf("persisted model = %q, want %q", reloaded.ModelName, "hackclub/model2")
	}
	if reloaded.Theme != settings.ThemeTransparent {
		t.Errorf("persisted theme = %q, want %q", reloaded.Theme, settings.ThemeTransparent)
	}
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	ctrl := newTestController(t, &fakeStore{}, &fakeCompleter{})

	if err := ctrl.SetTheme("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
}
