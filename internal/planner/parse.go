package planner

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
)

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_+-]*")
	trailingFence = regexp.MustCompile("```$")
)

// ParseModelJSON decodes model text into an untyped document. A surrounding
// markdown code fence (with or without a language tag) is removed first.
// Malformed JSON returns a *ParseError.
func ParseModelJSON(raw string) (any, error) {
	text := trimModelText(raw)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	text = trimModelText(text)

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	return doc, nil
}

// trimModelText trims whitespace and byte-order marks from both ends.
func trimModelText(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
}
