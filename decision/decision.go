// Package decision wraps every classification and generation step the
// dispatcher needs behind typed request/response operations. All
// nondeterminism lives behind the Agent interface; each result field is
// optional and the caller must tolerate absence.
package decision

import (
	"context"
	"errors"
	"time"

	"github.com/ankithreddys/orchestrai/conversation"
)

// ErrUnavailable signals a malformed or failed capability call. Callers
// treat it as "classification unknown", never as a fatal error.
var ErrUnavailable = errors.New("decision: capability unavailable")

// SlotUpdate is a slot-extraction result. Empty strings mean the agent
// was not confident about that field this turn.
type SlotUpdate struct {
	Intent  string `json:"intent"` // send_email | not_email | unknown
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// MeetingSignal reports whether timing language in a draft calls for a
// paired calendar event.
type MeetingSignal struct {
	CreateEvent bool
	Title       string
	Start       *time.Time
	End         *time.Time
	Attendees   []string
	Location    string
	Description string
}

type ConfirmationKind string

const (
	ConfirmationConfirm    ConfirmationKind = "confirm"
	ConfirmationCancel     ConfirmationKind = "cancel"
	ConfirmationMoreDetail ConfirmationKind = "more_detail"
	ConfirmationUnrelated  ConfirmationKind = "unrelated"
	ConfirmationUnknown    ConfirmationKind = "unknown"
)

type GeneralKind string

const (
	GeneralSmallTalk GeneralKind = "small_talk"
	GeneralLookup    GeneralKind = "lookup_contact"
	GeneralTask      GeneralKind = "task"
	GeneralUnknown   GeneralKind = "unknown"
)

type GeneralIntent struct {
	Kind GeneralKind
	// Query is the person being asked about when Kind is lookup_contact.
	Query string
}

type ContactFields struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Polished struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Agent is the full set of decision capabilities the dispatcher uses.
type Agent interface {
	// ExtractSlots pulls recipient/subject/body updates from the
	// conversation, given the draft assembled so far.
	ExtractSlots(ctx context.Context, history []conversation.Turn, draft conversation.EmailDraft) (SlotUpdate, error)
	// SuggestSubject proposes a subject line from contextual topic
	// language. It never proposes body content.
	SuggestSubject(ctx context.Context, history []conversation.Turn, draft conversation.EmailDraft) (string, error)
	// Polish rewrites a complete draft's subject and body into final form.
	Polish(ctx context.Context, draft conversation.EmailDraft) (Polished, error)
	// DetectMeeting classifies meeting intent on a draft body.
	DetectMeeting(ctx context.Context, history []conversation.Turn, draft conversation.EmailDraft) (MeetingSignal, error)
	// ClassifyConfirmation routes a turn that arrived while an action
	// set was staged.
	ClassifyConfirmation(ctx context.Context, history []conversation.Turn, text string) (ConfirmationKind, error)
	// ClassifyGeneral routes a turn that arrived with no pending mode.
	ClassifyGeneral(ctx context.Context, history []conversation.Turn, text string) (GeneralIntent, error)
	// ExtractContact pulls new-contact fields from free text.
	ExtractContact(ctx context.Context, text string) (ContactFields, error)
	// Compose renders a conversational reply for small talk and
	// unrelated asides.
	Compose(ctx context.Context, history []conversation.Turn, instruction string) (string, error)
}
