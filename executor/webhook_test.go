package executor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWebhookSendEmail(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/email" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, "secret")
	err := hook.SendEmail(context.Background(), EmailRequest{Provider: "gmail", To: "amogh@ufl.edu", Subject: "hi", Body: "hello"})
	if err != nil {
		t.Fatalf("SendEmail error = %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("auth header = %q", gotAuth)
	}
}

func TestWebhookCreateEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"event_id":"ev-42"}`))
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, "")
	id, err := hook.CreateEvent(context.Background(), EventRequest{
		Provider: "outlook",
		Title:    "Project sync",
		Start:    time.Now(),
		End:      time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent error = %v", err)
	}
	if id != "ev-42" {
		t.Fatalf("event id = %q", id)
	}
}

func TestWebhookAuthExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, "stale")
	err := hook.SendEmail(context.Background(), EmailRequest{To: "a@b.com"})
	if !errors.Is(err, ErrAuthExpired) {
		t.Fatalf("err = %v, want ErrAuthExpired", err)
	}
}

func TestWebhookProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	hook := NewWebhook(server.URL, "")
	_, err := hook.CreateEvent(context.Background(), EventRequest{Title: "x"})
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
}
