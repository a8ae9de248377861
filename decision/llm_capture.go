package decision

import (
	"context"
	"strings"
)

func (a *LLMAgent) ExtractContact(ctx context.Context, text string) (ContactFields, error) {
	payload := map[string]any{
		"message": text,
		"rules": []string{
			"Extract contact details into first_name, last_name, email, phone.",
			"Understand natural language and shorthand labels (fname/lname/phno).",
			"Never output label words as names: for 'fname Amogh', first_name is 'Amogh'.",
			"Return values only if they are real person details; use \"\" otherwise.",
		},
	}
	sys := "You extract contact details from user text. Return ONLY JSON with keys: " +
		"first_name, last_name, email, phone (all strings)."

	var out ContactFields
	if err := a.callJSON(ctx, sys, payload, &out); err != nil {
		return ContactFields{}, err
	}
	out.FirstName = strings.TrimSpace(out.FirstName)
	out.LastName = strings.TrimSpace(out.LastName)
	out.Email = strings.TrimSpace(out.Email)
	out.Phone = strings.TrimSpace(out.Phone)
	return out, nil
}

var captureLabelWords = map[string]bool{
	"fname":  true,
	"lname":  true,
	"email":  true,
	"mail":   true,
	"phone":  true,
	"phno":   true,
	"number": true,
	"mobile": true,
}

// RepairContactFields fixes the common extraction mistakes: label words
// leaking into name fields, and missing names that can be derived from
// the email local part.
func RepairContactFields(fields ContactFields) ContactFields {
	if captureLabelWords[strings.ToLower(fields.FirstName)] {
		fields.FirstName = ""
	}
	if captureLabelWords[strings.ToLower(fields.LastName)] {
		fields.LastName = ""
	}

	if fields.Email != "" && strings.Contains(fields.Email, "@") && (fields.FirstName == "" || fields.LastName == "") {
		localPart := strings.SplitN(fields.Email, "@", 2)[0]
		cleaned := strings.NewReplacer("_", ".", "-", ".").Replace(localPart)
		tokens := make([]string, 0, 2)
		for _, tok := range strings.Split(cleaned, ".") {
			if tok != "" {
				tokens = append(tokens, tok)
			}
		}
		switch {
		case len(tokens) >= 2:
			if fields.FirstName == "" {
				fields.FirstName = titleToken(tokens[0])
			}
			if fields.LastName == "" {
				fields.LastName = titleToken(tokens[1])
			}
		case len(tokens) == 1 && fields.FirstName == "":
			fields.FirstName = titleToken(tokens[0])
		}
	}
	return fields
}

func titleToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	return strings.ToUpper(token[:1]) + strings.ToLower(token[1:])
}
