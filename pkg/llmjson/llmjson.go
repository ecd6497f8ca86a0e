// Package llmjson extracts structured objects from free-form model output.
//
// Model replies are untrusted: they may be wrapped in markdown fences, padded
// with prose, or carry trailing commas. Parse tolerates all three.
package llmjson

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrEmpty is returned when the text contains nothing to parse.
	ErrEmpty = errors.New("llmjson: empty input")
	// ErrNoObject is returned when no balanced {...} block is found.
	ErrNoObject = errors.New("llmjson: no json object found")
)

// Parse decodes the outermost JSON object found in text into a map.
func Parse(text string) (map[string]any, error) {
	var out map[string]any
	if err := Unmarshal(text, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Unmarshal decodes the outermost JSON object found in text into v.
func Unmarshal(text string, v any) error {
	text = StripFences(text)
	if text == "" {
		return ErrEmpty
	}

	obj, ok := ExtractObject(text)
	if !ok {
		return ErrNoObject
	}

	if err := json.Unmarshal([]byte(obj), v); err == nil {
		return nil
	}
	return json.Unmarshal([]byte(RepairTrailingCommas(obj)), v)
}

// StripFences removes a surrounding ```json ... ``` (or bare ```) block.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}

	body := text[start+3:]
	// Drop the language tag on the opening fence line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		tag := strings.TrimSpace(body[:nl])
		if tag == "" || !strings.ContainsAny(tag, "{}[]\"") {
			body = body[nl+1:]
		}
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// ExtractObject returns the first balanced top-level {...} block in text,
// skipping braces that appear inside string literals.
func ExtractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// RepairTrailingCommas drops commas that directly precede a closing } or ].
func RepairTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}

		if c == ',' {
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}
