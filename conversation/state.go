// Package conversation holds the per-thread state the turn dispatcher
// reads and mutates: in-progress drafts, pending sub-flow markers and
// the message history handed to the decision agent.
package conversation

import (
	"time"

	"github.com/ankithreddys/orchestrai/contacts"
)

type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

type EmailDraft struct {
	To            string `json:"to,omitempty"`
	ResolvedEmail string `json:"resolved_email,omitempty"`
	Subject       string `json:"subject,omitempty"`
	Body          string `json:"body,omitempty"`
	Polished      bool   `json:"polished,omitempty"`
}

// Complete reports whether all user-facing fields are filled. Recipient
// resolution is tracked separately via ResolvedEmail.
func (d EmailDraft) Complete() bool {
	return d.To != "" && d.Subject != "" && d.Body != ""
}

func (d EmailDraft) Empty() bool {
	return d.To == "" && d.ResolvedEmail == "" && d.Subject == "" && d.Body == ""
}

type CalendarDraft struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
}

// CaptureDraft tracks the new-contact sub-flow. Query is the recipient
// token that failed to resolve; Accepted flips once the user agrees to
// create the contact (or starts supplying its fields).
type CaptureDraft struct {
	Query     string `json:"query"`
	Accepted  bool   `json:"accepted"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (c CaptureDraft) MissingFields() []string {
	var missing []string
	if c.FirstName == "" {
		missing = append(missing, "first name")
	}
	if c.LastName == "" {
		missing = append(missing, "last name")
	}
	if c.Email == "" {
		missing = append(missing, "email")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// State is the per-thread record, loaded at the start of a turn and
// persisted at the end. At most one of AwaitingConfirmation,
// PendingCapture and PendingDisambiguation may be set at a time.
type State struct {
	ThreadID string `json:"thread_id"`
	// Provider selects the mail/calendar backend (gmail or outlook).
	Provider string `json:"provider,omitempty"`

	AwaitingConfirmation  bool               `json:"awaiting_confirmation,omitempty"`
	PendingCapture        *CaptureDraft      `json:"pending_capture,omitempty"`
	PendingDisambiguation []contacts.Contact `json:"pending_disambiguation,omitempty"`

	Email    EmailDraft     `json:"email_draft"`
	Calendar *CalendarDraft `json:"calendar_draft,omitempty"`

	// EmailSent marks a partial execution: the email went out but the
	// paired calendar event is still staged for a retried confirm.
	EmailSent bool `json:"email_sent,omitempty"`

	History []Turn `json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PendingModeCount counts active pending modes; the dispatcher relies
// on this never exceeding one.
func (s *State) PendingModeCount() int {
	n := 0
	if s.AwaitingConfirmation {
		n++
	}
	if s.PendingCapture != nil {
		n++
	}
	if len(s.PendingDisambiguation) > 0 {
		n++
	}
	return n
}

// Clear resets drafts and flags to the pre-draft baseline. History and
// provider selection survive; they belong to the thread, not the draft.
func (s *State) Clear() {
	s.AwaitingConfirmation = false
	s.PendingCapture = nil
	s.PendingDisambiguation = nil
	s.Email = EmailDraft{}
	s.Calendar = nil
	s.EmailSent = false
}

func (s *State) AppendTurn(role, content string) {
	s.History = append(s.History, Turn{Role: role, Content: content, At: time.Now().UTC()})
}

// RecentHistory returns the last max non-system turns, oldest first.
func (s *State) RecentHistory(max int) []Turn {
	if max <= 0 || len(s.History) <= max {
		out := make([]Turn, len(s.History))
		copy(out, s.History)
		return out
	}
	out := make([]Turn, max)
	copy(out, s.History[len(s.History)-max:])
	return out
}
