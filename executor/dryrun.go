package executor

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// DryRun logs what it would do and succeeds. It is the default for
// local chat sessions, where wiring real provider credentials is not
// worth a misdirected email.
type DryRun struct {
	Logger *slog.Logger
}

func NewDryRun(logger *slog.Logger) *DryRun {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRun{Logger: logger}
}

func (d *DryRun) SendEmail(ctx context.Context, req EmailRequest) error {
	d.Logger.Info("dry-run send_email",
		"provider", req.Provider,
		"to", req.To,
		"subject", req.Subject,
	)
	return nil
}

func (d *DryRun) CreateEvent(ctx context.Context, req EventRequest) (string, error) {
	eventID := uuid.NewString()
	d.Logger.Info("dry-run create_event",
		"provider", req.Provider,
		"title", req.Title,
		"start", req.Start,
		"end", req.End,
		"event_id", eventID,
	)
	return eventID, nil
}
