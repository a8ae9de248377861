package decision

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ankithreddys/orchestrai/conversation"
	"github.com/ankithreddys/orchestrai/llm"
)

type cannedClient struct {
	text string
	err  error
	last llm.Request
}

func (c *cannedClient) Chat(ctx context.Context, req llm.Request) (llm.Result, error) {
	c.last = req
	if c.err != nil {
		return llm.Result{}, c.err
	}
	return llm.Result{Text: c.text}, nil
}

func TestExtractSlotsNormalizes(t *testing.T) {
	client := &cannedClient{text: `{"intent":"SEND_EMAIL","to":" Amogh ","subject":"","body":" let's sync "}`}
	agent := NewLLMAgent(client, "gpt-test")
	update, err := agent.ExtractSlots(context.Background(), nil, conversation.EmailDraft{})
	if err != nil {
		t.Fatalf("ExtractSlots error = %v", err)
	}
	if update.Intent != "send_email" || update.To != "Amogh" || update.Body != "let's sync" {
		t.Fatalf("update = %+v", update)
	}
	if !client.last.ForceJSON {
		t.Fatalf("slot extraction must force json output")
	}
}

func TestExtractSlotsFailureIsUnavailable(t *testing.T) {
	client := &cannedClient{err: fmt.Errorf("transport down")}
	agent := NewLLMAgent(client, "gpt-test")
	update, err := agent.ExtractSlots(context.Background(), nil, conversation.EmailDraft{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if update.Intent != "unknown" {
		t.Fatalf("fallback intent = %q, want unknown", update.Intent)
	}
}

func TestClassifyConfirmationMapping(t *testing.T) {
	cases := map[string]ConfirmationKind{
		`{"decision":"confirm"}`:     ConfirmationConfirm,
		`{"decision":"CANCEL"}`:      ConfirmationCancel,
		`{"decision":"more_detail"}`: ConfirmationMoreDetail,
		`{"decision":"unrelated"}`:   ConfirmationUnrelated,
		`{"decision":"gibberish"}`:   ConfirmationUnknown,
	}
	for raw, want := range cases {
		agent := NewLLMAgent(&cannedClient{text: raw}, "gpt-test")
		got, err := agent.ClassifyConfirmation(context.Background(), nil, "some reply")
		if err != nil {
			t.Fatalf("ClassifyConfirmation(%s) error = %v", raw, err)
		}
		if got != want {
			t.Errorf("ClassifyConfirmation(%s) = %v, want %v", raw, got, want)
		}
	}
}

func TestDetectMeetingParsesTimes(t *testing.T) {
	client := &cannedClient{text: `{"create_calendar_event":true,"title":"Project sync","start_time":"2026-09-02T15:00:00Z","end_time":""}`}
	agent := NewLLMAgent(client, "gpt-test")
	signal, err := agent.DetectMeeting(context.Background(), nil, conversation.EmailDraft{Body: "let's sync tomorrow at 3pm"})
	if err != nil {
		t.Fatalf("DetectMeeting error = %v", err)
	}
	if !signal.CreateEvent || signal.Title != "Project sync" {
		t.Fatalf("signal = %+v", signal)
	}
	if signal.Start == nil || signal.End != nil {
		t.Fatalf("times = %+v / %+v", signal.Start, signal.End)
	}
}

func TestDetectMeetingSkipsEmptyBody(t *testing.T) {
	client := &cannedClient{text: `{"create_calendar_event":true}`}
	agent := NewLLMAgent(client, "gpt-test")
	signal, err := agent.DetectMeeting(context.Background(), nil, conversation.EmailDraft{})
	if err != nil {
		t.Fatalf("DetectMeeting error = %v", err)
	}
	if signal.CreateEvent {
		t.Fatalf("meeting detected without a body")
	}
	if client.last.Model != "" {
		t.Fatalf("client called for empty body")
	}
}

func TestHistoryPayloadWindow(t *testing.T) {
	agent := NewLLMAgent(&cannedClient{}, "gpt-test")
	var history []conversation.Turn
	for i := 0; i < 30; i++ {
		history = append(history, conversation.Turn{Role: "user", Content: "m"})
	}
	history = append(history, conversation.Turn{Role: "system", Content: "hidden"})
	msgs := agent.historyPayload(history)
	if len(msgs) != DefaultMaxHistory {
		t.Fatalf("history window = %d, want %d", len(msgs), DefaultMaxHistory)
	}
	for _, m := range msgs {
		if m.Role == "system" {
			t.Fatalf("system turn leaked into payload")
		}
	}
}

func TestRepairContactFields(t *testing.T) {
	fields := RepairContactFields(ContactFields{
		FirstName: "fname",
		LastName:  "lname",
		Email:     "pranay.p@x.com",
		Phone:     "3525550000",
	})
	if fields.FirstName != "Pranay" || fields.LastName != "P" {
		t.Fatalf("repaired = %+v", fields)
	}

	fields = RepairContactFields(ContactFields{Email: "amogh@ufl.edu"})
	if fields.FirstName != "Amogh" || fields.LastName != "" {
		t.Fatalf("single-token repair = %+v", fields)
	}

	fields = RepairContactFields(ContactFields{FirstName: "Raj", LastName: "Kumar", Email: "rk@x.com"})
	if fields.FirstName != "Raj" || fields.LastName != "Kumar" {
		t.Fatalf("valid names must not be rewritten: %+v", fields)
	}
}
