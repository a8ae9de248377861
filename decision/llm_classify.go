package decision

import (
	"context"
	"strings"

	"github.com/ankithreddys/orchestrai/conversation"
)

func (a *LLMAgent) ClassifyConfirmation(ctx context.Context, history []conversation.Turn, text string) (ConfirmationKind, error) {
	payload := map[string]any{
		"message": text,
		"history": a.historyPayload(history),
		"rules": []string{
			"An action set is staged and awaiting the user's confirmation.",
			"confirm: the user clearly approves executing the staged actions.",
			"cancel: the user clearly declines or aborts.",
			"more_detail: the user supplies or changes draft details instead of deciding.",
			"unrelated: the message has nothing to do with the staged actions.",
			"When in doubt, never answer confirm.",
		},
	}
	sys := "You classify a reply to a confirmation prompt. Return ONLY JSON: " +
		"{\"decision\":\"confirm|cancel|more_detail|unrelated\"}."

	var out struct {
		Decision string `json:"decision"`
	}
	if err := a.callJSON(ctx, sys, payload, &out); err != nil {
		return ConfirmationUnknown, err
	}
	switch strings.TrimSpace(strings.ToLower(out.Decision)) {
	case "confirm":
		return ConfirmationConfirm, nil
	case "cancel":
		return ConfirmationCancel, nil
	case "more_detail":
		return ConfirmationMoreDetail, nil
	case "unrelated":
		return ConfirmationUnrelated, nil
	default:
		return ConfirmationUnknown, nil
	}
}

func (a *LLMAgent) ClassifyGeneral(ctx context.Context, history []conversation.Turn, text string) (GeneralIntent, error) {
	payload := map[string]any{
		"message": text,
		"history": a.historyPayload(history),
		"rules": []string{
			"small_talk: greetings, chit-chat, questions not asking for any action.",
			"lookup_contact: the user asks to retrieve/show someone's contact details; set query to the person name or email.",
			"task: the user wants an email sent or a calendar event created, or is continuing such a request.",
			"unknown: none of the above fits.",
		},
	}
	sys := "You classify the user's general intent. Return ONLY JSON: " +
		"{\"intent\":\"small_talk|lookup_contact|task|unknown\",\"query\":\"...\"}."

	var out struct {
		Intent string `json:"intent"`
		Query  string `json:"query"`
	}
	if err := a.callJSON(ctx, sys, payload, &out); err != nil {
		return GeneralIntent{Kind: GeneralUnknown}, err
	}
	intent := GeneralIntent{Query: strings.TrimSpace(out.Query)}
	switch strings.TrimSpace(strings.ToLower(out.Intent)) {
	case "small_talk":
		intent.Kind = GeneralSmallTalk
	case "lookup_contact":
		intent.Kind = GeneralLookup
	case "task":
		intent.Kind = GeneralTask
	default:
		intent.Kind = GeneralUnknown
	}
	return intent, nil
}

func (a *LLMAgent) Compose(ctx context.Context, history []conversation.Turn, instruction string) (string, error) {
	payload := map[string]any{
		"instruction": instruction,
		"history":     a.historyPayload(history),
		"rules": []string{
			"Write one short, friendly reply to the user.",
			"Use the same language as the user.",
			"Do not mention internal state, drafts or classifications unless the instruction says to.",
		},
	}
	sys := "You compose the assistant's next reply. Return ONLY JSON: {\"reply\":\"...\"}."

	var out struct {
		Reply string `json:"reply"`
	}
	if err := a.callJSON(ctx, sys, payload, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Reply), nil
}
