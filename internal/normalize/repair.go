package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// curly quote replacements applied before parsing; models frequently emit
// typographic quotes inside otherwise valid JSON.
var quoteReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// Repair attempts to recover a JSON value from free-form model output. The
// chain strips code fences and curly quotes, tries a direct parse, then the
// first balanced {...} substring, each with a trailing-comma retry. The
// second return is false when nothing parseable was found.
func Repair(payload string) (any, bool) {
	cleaned := strings.TrimSpace(payload)
	if cleaned == "" {
		return nil, false
	}
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = quoteReplacer.Replace(cleaned)

	candidates := []string{cleaned}
	if balanced := balancedObject(cleaned); balanced != "" {
		candidates = append(candidates, balanced)
	}

	for _, candidate := range candidates {
		var v any
		if err := json.Unmarshal([]byte(candidate), &v); err == nil {
			return v, true
		}
		fixed := trailingCommaRe.ReplaceAllString(candidate, "$1")
		if err := json.Unmarshal([]byte(fixed), &v); err == nil {
			return v, true
		}
	}
	return nil, false
}

// balancedObject extracts the first brace-balanced {...} substring,
// respecting quoted strings and escapes, or returns "" when none closes.
func balancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
