package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ankithreddys/orchestrai/conversation"
	"github.com/ankithreddys/orchestrai/internal/jsonutil"
	"github.com/ankithreddys/orchestrai/llm"
)

// DefaultMaxHistory bounds how many recent turns each capability sees.
const DefaultMaxHistory = 14

// LLMAgent implements Agent on a chat-completion client.
type LLMAgent struct {
	Client     llm.Client
	Model      string
	MaxHistory int
}

func NewLLMAgent(client llm.Client, model string) *LLMAgent {
	return &LLMAgent{
		Client:     client,
		Model:      strings.TrimSpace(model),
		MaxHistory: DefaultMaxHistory,
	}
}

func (a *LLMAgent) callJSON(ctx context.Context, system string, payload map[string]any, out any) error {
	if a == nil || a.Client == nil {
		return fmt.Errorf("%w: nil llm client", ErrUnavailable)
	}
	if strings.TrimSpace(a.Model) == "" {
		return fmt.Errorf("%w: empty llm model", ErrUnavailable)
	}
	input, _ := json.Marshal(payload)
	res, err := a.Client.Chat(ctx, llm.Request{
		Model:     a.Model,
		ForceJSON: true,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: string(input)},
		},
		Parameters: map[string]any{
			"temperature": 0.0,
			"max_tokens":  1024,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	raw := strings.TrimSpace(res.Text)
	if raw == "" {
		return fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	if err := jsonutil.DecodeWithFallback(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (a *LLMAgent) historyPayload(history []conversation.Turn) []llm.Message {
	max := a.MaxHistory
	if max <= 0 {
		max = DefaultMaxHistory
	}
	out := make([]llm.Message, 0, max)
	for _, turn := range history {
		role := strings.TrimSpace(strings.ToLower(turn.Role))
		if role == "system" || role == "" {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		out = append(out, llm.Message{Role: role, Content: turn.Content})
	}
	if len(out) <= max {
		return out
	}
	return out[len(out)-max:]
}

func draftPayload(draft conversation.EmailDraft) map[string]any {
	return map[string]any{
		"to":             draft.To,
		"resolved_email": draft.ResolvedEmail,
		"subject":        draft.Subject,
		"body":           draft.Body,
	}
}
