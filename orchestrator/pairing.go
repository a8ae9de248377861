package orchestrator

import (
	"context"
	"time"

	"github.com/ankithreddys/orchestrai/conversation"
	"github.com/ankithreddys/orchestrai/decision"
)

// pairMeeting asks the meeting-intent classifier whether the email's
// timing language calls for a calendar event, and stages one alongside
// the email if so. Pairing is strictly additive: the email draft is
// never touched.
func (o *Orchestrator) pairMeeting(ctx context.Context, st *conversation.State) {
	if st.Calendar != nil {
		return
	}
	signal, err := o.agent.DetectMeeting(ctx, st.RecentHistory(decision.DefaultMaxHistory), st.Email)
	if err != nil {
		o.logger.Warn("meeting detection unavailable", "thread", st.ThreadID, "error", err)
		return
	}
	if draft, ok := calendarFromSignal(signal, st.Email); ok {
		st.Calendar = &draft
	}
}

// tryCalendarOnly handles a direct calendar request with no email
// attached: classify the conversation itself and stage the event alone.
func (o *Orchestrator) tryCalendarOnly(ctx context.Context, st *conversation.State) (string, bool) {
	last := ""
	if n := len(st.History); n > 0 {
		last = st.History[n-1].Content
	}
	signal, err := o.agent.DetectMeeting(ctx, st.RecentHistory(decision.DefaultMaxHistory), conversation.EmailDraft{Body: last})
	if err != nil {
		o.logger.Warn("meeting detection unavailable", "thread", st.ThreadID, "error", err)
		return "", false
	}
	draft, ok := calendarFromSignal(signal, conversation.EmailDraft{})
	if !ok {
		return "", false
	}
	st.Calendar = &draft
	st.AwaitingConfirmation = true
	return o.renderSummary(st), true
}

func calendarFromSignal(signal decision.MeetingSignal, email conversation.EmailDraft) (conversation.CalendarDraft, bool) {
	if !signal.CreateEvent || signal.Title == "" || signal.Start == nil {
		return conversation.CalendarDraft{}, false
	}
	draft := conversation.CalendarDraft{
		Title:       signal.Title,
		Start:       *signal.Start,
		Attendees:   signal.Attendees,
		Location:    signal.Location,
		Description: signal.Description,
	}
	if signal.End != nil {
		draft.End = *signal.End
	} else {
		draft.End = draft.Start.Add(time.Hour)
	}
	if len(draft.Attendees) == 0 && email.ResolvedEmail != "" {
		draft.Attendees = []string{email.ResolvedEmail}
	}
	if draft.Description == "" {
		draft.Description = email.Body
	}
	return draft, true
}
