// Package executor is the side-effect boundary: the only code that
// actually sends email or creates calendar events. The dispatcher calls
// it exclusively from the confirm branch.
package executor

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAuthExpired means the provider needs re-authentication. The
	// staged draft is preserved so the confirm can be retried.
	ErrAuthExpired = errors.New("executor: auth expired")
	// ErrProvider wraps transient or permanent backend failures. The
	// state machine never retries on its own.
	ErrProvider = errors.New("executor: provider error")
)

type EmailRequest struct {
	Provider string `json:"provider"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

type EventRequest struct {
	Provider    string    `json:"provider"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
}

type Executor interface {
	SendEmail(ctx context.Context, req EmailRequest) error
	CreateEvent(ctx context.Context, req EventRequest) (eventID string, err error)
}
