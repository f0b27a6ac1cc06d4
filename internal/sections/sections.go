package sections

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// navTextRe marks sections that look like navigation chrome rather than prose.
var navTextRe = regexp.MustCompile(`(?i)home|menu|sign in|login|cart|wishlist|cookie|privacy|terms`)

// Score rates a single section of extracted text. Content-dense prose in the
// 50-600 character band scores highest; empty or navigational sections score
// negative and are excluded from selection.
func Score(section string) int {
	text := strings.TrimSpace(section)
	if text == "" {
		return -10
	}
	if navTextRe.MatchString(text) {
		return -5
	}

	score := 0
	n := utf8.RuneCountInString(text)
	switch {
	case n >= 50 && n <= 600:
		score += 3
	case n >= 25:
		score++
	}
	if n <= 90 {
		score++
	}
	if strings.HasSuffix(text, ":") {
		score++
	}
	if strings.Count(text, " ") < 4 {
		score--
	}
	return score
}

type scored struct {
	index   int
	section string
	score   int
}

// Prioritize selects sections of text to fit a character budget, favouring
// high-scoring sections first. Selection happens in two phases: a
// bucket-priority fill (score>=3, then ==2, then ==1), and, when less than 65%
// of the budget was used, an original-order top-up over all remaining
// non-negative sections. The phases intentionally use different orderings;
// downstream consumers depend on the resulting bias toward early high-scoring
// sections. The final output restores original section order and is hard
// truncated to maxChars.
func Prioritize(text string, maxChars int) string {
	if text == "" || maxChars <= 0 {
		return ""
	}

	base := strings.ReplaceAll(text, "\r", "\n")
	parts := splitSections(base)

	rows := make([]scored, 0, len(parts))
	for i, s := range parts {
		rows = append(rows, scored{index: i, section: s, score: Score(s)})
	}

	var high, medium, low []scored
	for _, r := range rows {
		switch {
		case r.score >= 3:
			high = append(high, r)
		case r.score == 2:
			medium = append(medium, r)
		case r.score == 1:
			low = append(low, r)
		}
	}

	ordered := make([]scored, 0, len(high)+len(medium)+len(low))
	ordered = append(ordered, high...)
	ordered = append(ordered, medium...)
	ordered = append(ordered, low...)

	selected := make([]scored, 0, len(ordered))
	taken := make(map[int]struct{}, len(ordered))
	used := 0

	for _, r := range ordered {
		if _, ok := taken[r.index]; ok {
			continue
		}
		cost := utf8.RuneCountInString(r.section) + 2
		if used+cost > maxChars {
			continue
		}
		selected = append(selected, r)
		taken[r.index] = struct{}{}
		used += cost
		if used >= maxChars {
			break
		}
	}

	if used < int(float64(maxChars)*0.65) {
		for _, r := range rows {
			if _, ok := taken[r.index]; ok {
				continue
			}
			if r.score < 0 {
				continue
			}
			cost := utf8.RuneCountInString(r.section) + 2
			if used+cost > maxChars {
				continue
			}
			selected = append(selected, r)
			taken[r.index] = struct{}{}
			used += cost
			if used >= maxChars {
				break
			}
		}
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].index < selected[j].index })
	chunks := make([]string, 0, len(selected))
	for _, r := range selected {
		chunks = append(chunks, r.section)
	}
	out := strings.Join(chunks, "\n\n")
	if utf8.RuneCountInString(out) > maxChars {
		out = string([]rune(out)[:maxChars])
	}
	return out
}

var blankLineRe = regexp.MustCompile(`\n{2,}`)

// splitSections splits on blank lines first; sparse documents that produce
// fewer than 6 sections are re-split on single newlines so short line-based
// pages still yield a usable section list.
func splitSections(base string) []string {
	trim := func(raw []string) []string {
		out := make([]string, 0, len(raw))
		for _, s := range raw {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
		return out
	}
	parts := trim(blankLineRe.Split(base, -1))
	if len(parts) < 6 {
		parts = trim(strings.Split(base, "\n"))
	}
	return parts
}
