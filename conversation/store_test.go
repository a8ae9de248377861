package conversation

import (
	"context"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	state, err := store.Load(ctx, "thread-1")
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if state.ThreadID != "thread-1" {
		t.Fatalf("thread id = %q", state.ThreadID)
	}
	if state.PendingModeCount() != 0 {
		t.Fatalf("fresh state has pending modes")
	}

	state.Email = EmailDraft{To: "Amogh", ResolvedEmail: "amogh@ufl.edu", Subject: "hi", Body: "hello"}
	state.AwaitingConfirmation = true
	state.AppendTurn("user", "send an email to Amogh")
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save error = %v", err)
	}

	loaded, err := store.Load(ctx, "thread-1")
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if !loaded.AwaitingConfirmation {
		t.Fatalf("awaiting confirmation lost on reload")
	}
	if loaded.Email.ResolvedEmail != "amogh@ufl.edu" {
		t.Fatalf("draft lost on reload: %+v", loaded.Email)
	}
	if len(loaded.History) != 1 {
		t.Fatalf("history length = %d", len(loaded.History))
	}
}

func TestClearResetsDraftNotHistory(t *testing.T) {
	state := State{ThreadID: "t", Provider: "gmail"}
	state.AppendTurn("user", "hello")
	state.Email = EmailDraft{To: "Raj", Subject: "s", Body: "b"}
	state.Calendar = &CalendarDraft{Title: "sync", Start: time.Now(), End: time.Now().Add(time.Hour)}
	state.AwaitingConfirmation = true
	state.EmailSent = true

	state.Clear()

	if state.PendingModeCount() != 0 {
		t.Fatalf("pending modes after clear")
	}
	if !state.Email.Empty() || state.Calendar != nil || state.EmailSent {
		t.Fatalf("draft fields survived clear: %+v", state)
	}
	if len(state.History) != 1 || state.Provider != "gmail" {
		t.Fatalf("history/provider should survive clear")
	}
}

func TestRecentHistoryWindow(t *testing.T) {
	state := State{ThreadID: "t"}
	for i := 0; i < 20; i++ {
		state.AppendTurn("user", "m")
	}
	if got := len(state.RecentHistory(14)); got != 14 {
		t.Fatalf("recent history = %d, want 14", got)
	}
	if got := len(state.RecentHistory(0)); got != 20 {
		t.Fatalf("unbounded history = %d, want 20", got)
	}
}

func TestSanitizeThreadID(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()
	state, err := store.Load(ctx, "User A/B:7")
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save error = %v", err)
	}
}
