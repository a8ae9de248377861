package orchestrator

import (
	"context"

	"github.com/ankithreddys/orchestrai/conversation"
	"github.com/ankithreddys/orchestrai/decision"
)

// continueDraft runs one slot-filling pass: extract what the latest
// turn provided, merge it into the draft, then advance as far as the
// draft allows.
func (o *Orchestrator) continueDraft(ctx context.Context, st *conversation.State) string {
	update, err := o.agent.ExtractSlots(ctx, st.RecentHistory(decision.DefaultMaxHistory), st.Email)
	if err != nil {
		o.logger.Warn("slot extraction failed", "thread", st.ThreadID, "error", err)
		update = decision.SlotUpdate{Intent: "unknown"}
	}

	if update.Intent == "not_email" && st.Email.Empty() && st.Calendar == nil {
		if reply, ok := o.tryCalendarOnly(ctx, st); ok {
			return reply
		}
		return msgIdleHint
	}

	o.mergeSlots(st, update)
	return o.advanceDraft(ctx, st)
}

// mergeSlots folds a nullable extraction into the draft. Confirmed
// fields survive unless the new turn supersedes them; a changed
// recipient restarts resolution.
func (o *Orchestrator) mergeSlots(st *conversation.State, update decision.SlotUpdate) {
	edited := false
	if update.To != "" && update.To != st.Email.To {
		st.Email.To = update.To
		st.Email.ResolvedEmail = ""
	}
	if update.Subject != "" && update.Subject != st.Email.Subject {
		st.Email.Subject = update.Subject
		edited = true
	}
	if update.Body != "" && update.Body != st.Email.Body {
		st.Email.Body = update.Body
		edited = true
	}
	if edited && st.Email.Polished && o.cfg.RepolishOnEdit {
		st.Email.Polished = false
	}
}

// advanceDraft moves the draft toward staging. Recipient resolution
// strictly precedes subject/body prompting: even when a turn carried
// subject or body text, the user-facing question stays recipient-focused
// until the address is pinned down.
func (o *Orchestrator) advanceDraft(ctx context.Context, st *conversation.State) string {
	if st.Email.To == "" && st.Email.ResolvedEmail == "" {
		return msgAskRecipient
	}
	if st.Email.ResolvedEmail == "" {
		reply, resolved := o.resolveRecipient(ctx, st, st.Email.To)
		if !resolved {
			return reply
		}
	}

	missingSubject := st.Email.Subject == ""
	missingBody := st.Email.Body == ""

	if missingSubject {
		// Autofill proposes a subject from topic language; it never
		// touches the body.
		subject, err := o.agent.SuggestSubject(ctx, st.RecentHistory(decision.DefaultMaxHistory), st.Email)
		if err != nil {
			o.logger.Debug("subject autofill unavailable", "thread", st.ThreadID, "error", err)
		} else if subject != "" {
			st.Email.Subject = subject
			missingSubject = false
		}
	}

	switch {
	case missingSubject && missingBody:
		return msgAskSubjectAndBody
	case missingSubject:
		return msgAskSubject
	case missingBody:
		return msgAskBody
	}

	if !st.Email.Polished {
		polished, err := o.agent.Polish(ctx, st.Email)
		if err != nil {
			o.logger.Warn("polish unavailable, staging raw draft", "thread", st.ThreadID, "error", err)
		} else {
			if polished.Subject != "" {
				st.Email.Subject = polished.Subject
			}
			if polished.Body != "" {
				st.Email.Body = polished.Body
			}
			st.Email.Polished = true
		}
	}

	o.pairMeeting(ctx, st)

	st.AwaitingConfirmation = true
	return o.renderSummary(st)
}
