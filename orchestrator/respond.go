package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/ankithreddys/orchestrai/contacts"
	"github.com/ankithreddys/orchestrai/conversation"
)

const (
	msgClarify            = "I'm not sure I followed that. Could you rephrase what you'd like me to do?"
	msgIdleHint           = "Ask me to send an email or create a calendar event."
	msgCancelled          = "Cancelled. I did not execute any action."
	msgConfirmOrCancel    = "Reply `confirm` to execute or `cancel`."
	msgAskRecipient       = "Who should receive this email? A name or an email address works."
	msgAskSubjectAndBody  = "Got it. What should the subject line and the message body say?"
	msgAskSubject         = "What should the subject line be?"
	msgAskBody            = "What should the email say?"
	msgAskCaptureDecision = "Should I create a new contact, or would you like to use a different recipient?"
)

// renderSummary presents the staged action set verbatim for
// confirmation.
func (o *Orchestrator) renderSummary(st *conversation.State) string {
	lines := []string{"Please confirm before I execute:"}
	if st.Email.ResolvedEmail != "" {
		lines = append(lines,
			"",
			fmt.Sprintf("Email To: %s", st.Email.ResolvedEmail),
			fmt.Sprintf("Subject: %s", st.Email.Subject),
			fmt.Sprintf("Body: %s", st.Email.Body),
		)
	}
	if st.Calendar != nil {
		lines = append(lines,
			"",
			fmt.Sprintf("Event: %s", st.Calendar.Title),
			fmt.Sprintf("Start: %s", st.Calendar.Start.Format(time.RFC3339)),
			fmt.Sprintf("End: %s", st.Calendar.End.Format(time.RFC3339)),
		)
		if st.Calendar.Location != "" {
			lines = append(lines, fmt.Sprintf("Location: %s", st.Calendar.Location))
		}
	}
	lines = append(lines, "", msgConfirmOrCancel)
	return strings.Join(lines, "\n")
}

// renderDisambiguation lists candidates for the user to choose from,
// by index or by a distinguishing detail.
func renderDisambiguation(query string, candidates []contacts.Contact) string {
	lines := []string{fmt.Sprintf("I found multiple matches for %q. Please choose one:", query)}
	for i, c := range candidates {
		if i >= 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s <%s>", i+1, c.FullName(), c.Email))
	}
	return strings.Join(lines, "\n")
}

// renderContactLookup answers a lookup-only query straight from the
// directory, without opening a draft.
func (o *Orchestrator) renderContactLookup(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "Please tell me whose contact details you need."
	}

	if contacts.IsValidEmail(query) {
		c, ok := o.dir.FindByEmail(query)
		if !ok {
			return fmt.Sprintf("I could not find contact details for %q.", query)
		}
		return contactDetails(c)
	}

	res := o.dir.Find(query)
	switch res.Kind {
	case contacts.MatchResolved:
		return contactDetails(res.Contact)
	case contacts.MatchAmbiguous:
		lines := []string{fmt.Sprintf("I found multiple contacts for %q:", query)}
		for i, c := range res.Candidates {
			if i >= 5 {
				break
			}
			phone := c.Phone
			if phone == "" {
				phone = "N/A"
			}
			lines = append(lines, fmt.Sprintf("- %s <%s> | phone: %s", c.FullName(), c.Email, phone))
		}
		return strings.Join(lines, "\n")
	default:
		return fmt.Sprintf("I could not find contact details for %q.", query)
	}
}

func contactDetails(c contacts.Contact) string {
	phone := c.Phone
	if phone == "" {
		phone = "N/A"
	}
	return strings.Join([]string{
		"Contact details:",
		fmt.Sprintf("First Name: %s", c.FirstName),
		fmt.Sprintf("Last Name: %s", c.LastName),
		fmt.Sprintf("Email: %s", c.Email),
		fmt.Sprintf("Phone: %s", phone),
	}, "\n")
}
