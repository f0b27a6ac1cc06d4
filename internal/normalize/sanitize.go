package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// bannedTermsRe matches self-referential vocabulary the model is forbidden to
// emit; occurrences are rewritten so dashboard text never leaks test framing.
var bannedTermsRe = regexp.MustCompile(`(?i)\b(mock data|mock|simulation|dummy)\b`)

const bannedReplacement = "live context"

var whitespaceRe = regexp.MustCompile(`\s+`)

// sanitizeText collapses any value to bounded display text: stringify, trim,
// rewrite banned terms, collapse whitespace runs, and truncate to maxLen
// runes. nil collapses to the empty string.
func sanitizeText(value any, maxLen int) string {
	if value == nil {
		return ""
	}
	text := strings.TrimSpace(stringifyAny(value))
	text = bannedTermsRe.ReplaceAllString(text, bannedReplacement)
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	return truncate(text, maxLen)
}

// truncate bounds s to max runes. Rune-based so repeated passes are stable.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// stringifyAny renders scalars naturally and containers via fmt as a last
// resort, mirroring the tolerant display conversion upstream shapes need.
func stringifyAny(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(t)
	}
}

// clampInt coerces a loosely typed numeric value into [lower, upper] via
// round-then-clamp. Unparseable values yield def.
func clampInt(value any, def, lower, upper int) int {
	f, ok := toFloat(value)
	if !ok {
		return def
	}
	n := int(math.Round(f))
	if n < lower {
		n = lower
	}
	if n > upper {
		n = upper
	}
	return n
}

// clampScore applies the common [0,100] bounds.
func clampScore(value any, def int) int {
	return clampInt(value, def, 0, 100)
}

func toFloat(value any) (float64, bool) {
	switch t := value.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// coerceStringList accepts a bare string as a single-element list, sanitizes
// each element, drops empties, and bounds both item length and item count.
// Any other non-list shape yields nil.
func coerceStringList(value any, maxItems, itemLen int) []string {
	var items []any
	switch t := value.(type) {
	case string:
		items = []any{t}
	case []any:
		items = t
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	default:
		return nil
	}

	var out []string
	for _, item := range items {
		if text := sanitizeText(item, itemLen); text != "" {
			out = append(out, text)
		}
		if len(out) >= maxItems {
			break
		}
	}
	return out
}

// titleCase capitalizes words the way enum labels are stored (High, Medium,
// Positive, ...).
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// truthy reports whether a decoded JSON value carries usable content,
// matching the "first non-empty source wins" selection between new and
// legacy field names.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// orValue returns a when truthy, otherwise b.
func orValue(a, b any) any {
	if truthy(a) {
		return a
	}
	return b
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}
