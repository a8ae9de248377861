package decision

import (
	"context"
	"strings"

	"github.com/ankithreddys/orchestrai/conversation"
)

func (a *LLMAgent) ExtractSlots(ctx context.Context, history []conversation.Turn, draft conversation.EmailDraft) (SlotUpdate, error) {
	payload := map[string]any{
		"existing_draft": draftPayload(draft),
		"history":        a.historyPayload(history),
		"rules": []string{
			"Extract email fields the user provided or updated this turn.",
			"intent: send_email when the user is drafting or updating an email, not_email when clearly unrelated, unknown otherwise.",
			"to: the recipient name or email address, only if stated.",
			"subject: only if stated or explicitly changed.",
			"body: only if the user supplied message text.",
			"Keep existing draft values unless the user updates them; report only fields you are confident about.",
			"If the user only provides a recipient, fill only to.",
		},
	}
	sys := "You are an email slot-filling agent. Return ONLY JSON with keys: " +
		"intent (string), to (string), subject (string), body (string). Use \"\" for fields not provided."

	var out SlotUpdate
	if err := a.callJSON(ctx, sys, payload, &out); err != nil {
		return SlotUpdate{Intent: "unknown"}, err
	}
	out.Intent = normalizeSlotIntent(out.Intent)
	out.To = strings.TrimSpace(out.To)
	out.Subject = strings.TrimSpace(out.Subject)
	out.Body = strings.TrimSpace(out.Body)
	return out, nil
}

func normalizeSlotIntent(intent string) string {
	switch strings.TrimSpace(strings.ToLower(intent)) {
	case "send_email":
		return "send_email"
	case "not_email":
		return "not_email"
	default:
		return "unknown"
	}
}

func (a *LLMAgent) SuggestSubject(ctx context.Context, history []conversation.Turn, draft conversation.EmailDraft) (string, error) {
	payload := map[string]any{
		"draft":   draftPayload(draft),
		"history": a.historyPayload(history),
		"rules": []string{
			"Propose a concise subject line from the conversation's topic language.",
			"Return \"\" if there is no contextual topic to work from.",
			"Never invent or return body content.",
		},
	}
	sys := "You suggest an email subject line. Return ONLY JSON: {\"subject\":\"...\"}."

	var out struct {
		Subject string `json:"subject"`
	}
	if err := a.callJSON(ctx, sys, payload, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Subject), nil
}

func (a *LLMAgent) Polish(ctx context.Context, draft conversation.EmailDraft) (Polished, error) {
	payload := map[string]any{
		"draft": draftPayload(draft),
		"rules": []string{
			"Rewrite the subject and body into polished final form.",
			"Keep the user's meaning, tone and every concrete detail (who/what/when/where).",
			"Keep it concise and professional unless the user's style is explicitly casual.",
		},
	}
	sys := "You polish a complete email draft. Return ONLY JSON: {\"subject\":\"...\",\"body\":\"...\"}."

	var out Polished
	if err := a.callJSON(ctx, sys, payload, &out); err != nil {
		return Polished{}, err
	}
	out.Subject = strings.TrimSpace(out.Subject)
	out.Body = strings.TrimSpace(out.Body)
	return out, nil
}
