package decision

import (
	"context"
	"strings"
	"time"

	"github.com/ankithreddys/orchestrai/conversation"
)

type meetingResponse struct {
	CreateCalendarEvent bool     `json:"create_calendar_event"`
	Title               string   `json:"title"`
	StartTime           string   `json:"start_time"`
	EndTime             string   `json:"end_time"`
	Attendees           []string `json:"attendees"`
	Location            string   `json:"location"`
	Description         string   `json:"description"`
}

func (a *LLMAgent) DetectMeeting(ctx context.Context, history []conversation.Turn, draft conversation.EmailDraft) (MeetingSignal, error) {
	if strings.TrimSpace(draft.Body) == "" {
		return MeetingSignal{}, nil
	}
	payload := map[string]any{
		"email": map[string]any{
			"to":      draft.ResolvedEmail,
			"subject": draft.Subject,
			"body":    draft.Body,
		},
		"history": a.historyPayload(history),
		"now":     time.Now().UTC().Format(time.RFC3339),
		"rules": []string{
			"Decide whether the user wants a calendar event in addition to the email.",
			"Set create_calendar_event=true only when meeting/time/date cues are present.",
			"Use ISO 8601 datetimes for start_time and end_time.",
			"If end_time is unknown, leave it empty.",
		},
	}
	sys := "You detect meeting intent in an email draft. Return ONLY JSON with keys: " +
		"create_calendar_event (boolean), title (string), start_time (string), end_time (string), " +
		"attendees (array of strings), location (string), description (string)."

	var out meetingResponse
	if err := a.callJSON(ctx, sys, payload, &out); err != nil {
		return MeetingSignal{}, err
	}

	signal := MeetingSignal{
		CreateEvent: out.CreateCalendarEvent,
		Title:       strings.TrimSpace(out.Title),
		Attendees:   trimAll(out.Attendees),
		Location:    strings.TrimSpace(out.Location),
		Description: strings.TrimSpace(out.Description),
	}
	if t, ok := parseTime(out.StartTime); ok {
		signal.Start = &t
	}
	if t, ok := parseTime(out.EndTime); ok {
		signal.End = &t
	}
	return signal, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
