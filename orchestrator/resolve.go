package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ankithreddys/orchestrai/contacts"
	"github.com/ankithreddys/orchestrai/conversation"
	"github.com/ankithreddys/orchestrai/decision"
)

// resolveRecipient turns a human-entered recipient token into a
// concrete address. It reports resolved=false when a sub-flow
// (disambiguation or capture) now owns the conversation.
func (o *Orchestrator) resolveRecipient(ctx context.Context, st *conversation.State, token string) (reply string, resolved bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return msgAskRecipient, false
	}
	if contacts.IsValidEmail(token) {
		st.Email.ResolvedEmail = token
		return "", true
	}

	res := o.dir.Find(token)
	switch res.Kind {
	case contacts.MatchResolved:
		st.Email.To = res.Contact.FullName()
		st.Email.ResolvedEmail = res.Contact.Email
		return "", true
	case contacts.MatchAmbiguous:
		st.PendingDisambiguation = res.Candidates
		return renderDisambiguation(token, res.Candidates), false
	default:
		st.PendingCapture = &conversation.CaptureDraft{Query: token}
		return fmt.Sprintf("I couldn't find %q in your contacts. Should I create a new contact for them, or would you like to use a different recipient?", token), false
	}
}

// handleDisambiguation consumes the turn after an ambiguous match. The
// user selects by index or by a disambiguating detail; naming a wholly
// different person restarts resolution with an acknowledgement.
func (o *Orchestrator) handleDisambiguation(ctx context.Context, st *conversation.State, text string) string {
	candidates := st.PendingDisambiguation
	if isHardCancel(text) {
		st.Clear()
		return msgCancelled
	}

	if chosen, ok := selectCandidate(candidates, text); ok {
		st.PendingDisambiguation = nil
		st.Email.To = chosen.FullName()
		st.Email.ResolvedEmail = chosen.Email
		return o.advanceDraft(ctx, st)
	}

	// The reply names someone outside the listed candidates: restart
	// resolution with the extracted name and say so.
	st.PendingDisambiguation = nil
	st.Email.To = o.restartRecipient(ctx, st, text)
	st.Email.ResolvedEmail = ""
	ack := fmt.Sprintf("None of the listed matches fit, so I'm looking up %q instead.", st.Email.To)
	return ack + "\n" + o.advanceDraft(ctx, st)
}

// restartRecipient picks the person to resolve next when the user walks
// away from a sub-flow by naming someone else. The name comes from slot
// extraction over the conversation, so "no, I meant Sarah Lee" restarts
// with "Sarah Lee"; the trimmed text stands in only when extraction has
// no recipient to offer.
func (o *Orchestrator) restartRecipient(ctx context.Context, st *conversation.State, text string) string {
	update, err := o.agent.ExtractSlots(ctx, st.RecentHistory(decision.DefaultMaxHistory), st.Email)
	if err != nil {
		o.logger.Warn("slot extraction failed", "thread", st.ThreadID, "error", err)
		return strings.TrimSpace(text)
	}
	if update.To != "" {
		return update.To
	}
	return strings.TrimSpace(text)
}

// selectCandidate accepts a 1-based index or a detail (name fragment,
// email, local part) that singles out exactly one candidate.
func selectCandidate(candidates []contacts.Contact, text string) (contacts.Contact, bool) {
	trimmed := strings.TrimSpace(text)
	if idx, err := strconv.Atoi(trimmed); err == nil {
		if idx >= 1 && idx <= len(candidates) {
			return candidates[idx-1], true
		}
		return contacts.Contact{}, false
	}

	normalized := contacts.Normalize(trimmed)
	if normalized == "" {
		return contacts.Contact{}, false
	}
	var matched []contacts.Contact
	for _, c := range candidates {
		details := []string{
			contacts.Normalize(c.FullName()),
			contacts.Normalize(c.FirstName),
			contacts.Normalize(c.LastName),
			contacts.Normalize(c.LocalPart()),
			contacts.Normalize(c.Email),
		}
		for _, detail := range details {
			if detail != "" && (detail == normalized || strings.Contains(normalized, detail)) {
				matched = append(matched, c)
				break
			}
		}
	}
	if len(matched) == 1 {
		return matched[0], true
	}
	return contacts.Contact{}, false
}

// handleCapture advances the new-contact sub-flow. Fields may arrive
// together or across turns; supplied fields are never re-asked.
func (o *Orchestrator) handleCapture(ctx context.Context, st *conversation.State, text string) string {
	capture := st.PendingCapture
	if isHardCancel(text) {
		st.Clear()
		return msgCancelled
	}

	if !capture.Accepted {
		switch {
		case isAffirmative(text):
			capture.Accepted = true
			return fmt.Sprintf("Great - please share their %s.", joinFields(capture.MissingFields()))
		case isDecline(text):
			// Declined creation: keep the draft, drop the unresolved
			// recipient and ask again.
			st.PendingCapture = nil
			st.Email.To = ""
			st.Email.ResolvedEmail = ""
			return "Okay, I won't create a contact. Who should receive this email instead?"
		}
		// Neither yes nor no: either the fields arrived directly, or
		// the user named a different person.
		fields, err := o.agent.ExtractContact(ctx, text)
		if err != nil {
			o.logger.Warn("contact extraction failed", "thread", st.ThreadID, "error", err)
			return msgAskCaptureDecision
		}
		fields = decision.RepairContactFields(fields)
		if fields == (decision.ContactFields{}) {
			st.PendingCapture = nil
			st.Email.To = o.restartRecipient(ctx, st, text)
			st.Email.ResolvedEmail = ""
			reply, resolved := o.resolveRecipient(ctx, st, st.Email.To)
			if resolved {
				return o.advanceDraft(ctx, st)
			}
			return reply
		}
		capture.Accepted = true
		mergeCaptureFields(capture, fields)
	} else {
		fields, err := o.agent.ExtractContact(ctx, text)
		if err != nil {
			o.logger.Warn("contact extraction failed", "thread", st.ThreadID, "error", err)
			return fmt.Sprintf("Sorry, I didn't catch that. I still need their %s.", joinFields(capture.MissingFields()))
		}
		mergeCaptureFields(capture, decision.RepairContactFields(fields))
	}

	if missing := capture.MissingFields(); len(missing) > 0 {
		return fmt.Sprintf("Almost there - I still need their %s.", joinFields(missing))
	}

	saved, err := o.dir.Create(ctx, contacts.Contact{
		FirstName: capture.FirstName,
		LastName:  capture.LastName,
		Email:     capture.Email,
		Phone:     capture.Phone,
	})
	if err != nil {
		o.logger.Error("contact create failed", "thread", st.ThreadID, "error", err)
		if errors.Is(err, contacts.ErrValidation) {
			capture.Email = ""
			return "I couldn't save that contact - the email address doesn't look valid. Could you double-check it?"
		}
		// Storage trouble, not bad input. Keep the fields so the next
		// reply retries the save.
		return "I couldn't save that contact just now - nothing was lost. Reply with anything to retry, or `cancel` to stop."
	}

	st.PendingCapture = nil
	st.Email.To = saved.FullName()
	st.Email.ResolvedEmail = saved.Email
	ack := fmt.Sprintf("Saved contact: %s <%s>.", saved.FullName(), saved.Email)
	return ack + "\n" + o.advanceDraft(ctx, st)
}

func mergeCaptureFields(capture *conversation.CaptureDraft, fields decision.ContactFields) {
	if fields.FirstName != "" {
		capture.FirstName = fields.FirstName
	}
	if fields.LastName != "" {
		capture.LastName = fields.LastName
	}
	if fields.Email != "" {
		capture.Email = fields.Email
	}
	if fields.Phone != "" {
		capture.Phone = fields.Phone
	}
}

func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	case 2:
		return fields[0] + " and " + fields[1]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + ", and " + fields[len(fields)-1]
	}
}

func isAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "yes please", "yeah", "yep", "ok", "okay", "sure", "go ahead", "create", "create it", "please do":
		return true
	}
	return false
}

func isDecline(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "no", "n", "nope", "no thanks":
		return true
	}
	return false
}

func isHardCancel(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "cancel", "stop", "never mind", "nevermind", "forget it":
		return true
	}
	return false
}
