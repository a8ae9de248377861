// Package jsonutil decodes JSON produced by language models, which may
// arrive wrapped in markdown fences or surrounded by prose.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeWithFallback tries a strict decode first, then strips code
// fences, then falls back to the first balanced JSON object or array
// found in the text.
func DecodeWithFallback(raw string, out any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("jsonutil: empty input")
	}
	if err := json.Unmarshal([]byte(raw), out); err == nil {
		return nil
	}
	stripped := stripFences(raw)
	if stripped != raw {
		if err := json.Unmarshal([]byte(stripped), out); err == nil {
			return nil
		}
	}
	candidate := firstBalanced(stripped)
	if candidate == "" {
		return fmt.Errorf("jsonutil: no json payload found")
	}
	if err := json.Unmarshal([]byte(candidate), out); err != nil {
		return fmt.Errorf("jsonutil: decode fallback: %w", err)
	}
	return nil
}

func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func firstBalanced(raw string) string {
	start := -1
	var open, close rune
	for i, r := range raw {
		if r == '{' {
			start, open, close = i, '{', '}'
			break
		}
		if r == '[' {
			start, open, close = i, '[', ']'
			break
		}
	}
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := rune(raw[i])
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
