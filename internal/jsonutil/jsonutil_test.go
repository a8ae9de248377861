package jsonutil

import "testing"

type payload struct {
	Intent  string `json:"intent"`
	Subject string `json:"subject"`
}

func TestDecodeStrict(t *testing.T) {
	var out payload
	if err := DecodeWithFallback(`{"intent":"send_email","subject":"hi"}`, &out); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if out.Intent != "send_email" {
		t.Fatalf("intent = %q", out.Intent)
	}
}

func TestDecodeFenced(t *testing.T) {
	raw := "```json\n{\"intent\":\"send_email\"}\n```"
	var out payload
	if err := DecodeWithFallback(raw, &out); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if out.Intent != "send_email" {
		t.Fatalf("intent = %q", out.Intent)
	}
}

func TestDecodeEmbeddedObject(t *testing.T) {
	raw := `Sure, here you go: {"intent":"send_email","subject":"a {nested} brace"} hope that helps`
	var out payload
	if err := DecodeWithFallback(raw, &out); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if out.Subject != "a {nested} brace" {
		t.Fatalf("subject = %q", out.Subject)
	}
}

func TestDecodeNoJSON(t *testing.T) {
	var out payload
	if err := DecodeWithFallback("no structured data here", &out); err == nil {
		t.Fatalf("expected error for non-json input")
	}
}
