package interpret

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrNoJSON        = errors.New("no JSON object found in completion")
	ErrMalformedJSON = errors.New("completion contains malformed JSON")
)

// Extract finds the JSON object in a completion. The whole string is tried
// first; otherwise each '{' is scanned for a balanced object and the first
// one that decodes wins.
func Extract(raw string) (map[string]any, error) {
	if doc, err := decodeObject(strings.TrimSpace(raw)); err == nil {
		return doc, nil
	}

	first := strings.IndexByte(raw, '{')
	if first < 0 {
		return nil, ErrNoJSON
	}

	var firstErr error
	for start := first; start >= 0; {
		candidate := raw[start:]
		if end := balancedEnd(raw, start); end >= 0 {
			candidate = raw[start : end+1]
		}
		doc, err := decodeObject(candidate)
		if err == nil {
			return doc, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += 1 + next
	}
	return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, firstErr)
}

// balancedEnd returns the index of the '}' closing the object opened at
// start, or -1. Braces inside string literals are ignored.
func balancedEnd(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
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
				return i
			}
		}
	}
	return -1
}

// decodeObject requires s to be exactly one JSON object. Numbers are kept
// as json.Number so integer checks stay exact.
func decodeObject(s string) (map[string]any, error) {
	if s == "" {
		return nil, errors.New("empty input")
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON value")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected JSON object, got %T", v)
	}
	return obj, nil
}
