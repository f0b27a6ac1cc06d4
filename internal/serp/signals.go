package serp

import "strings"

// extractAIText pulls displayable text out of an AI-overview payload. Direct
// text/snippet fields win; otherwise text_blocks and sections are flattened.
func extractAIText(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	if direct := firstString(payload, "text", "snippet"); direct != "" {
		return direct
	}
	if text := joinTextBlocks(asList(payload["text_blocks"])); text != "" {
		return text
	}
	return joinTextBlocks(asList(payload["sections"]))
}

// joinTextBlocks flattens a heterogeneous block list into one snippet string.
func joinTextBlocks(blocks []any) string {
	var snippets []string
	for _, block := range blocks {
		switch t := block.(type) {
		case map[string]any:
			if s := firstString(t, "snippet", "text"); s != "" {
				snippets = append(snippets, s)
			}
		case string:
			snippets = append(snippets, t)
		}
	}
	return cleanJoin(snippets)
}

// extractCitations reads a source/reference/citation list off a payload and
// normalizes each entry into a positioned Citation. Entries with no url,
// title, or domain at all are dropped.
func extractCitations(payload map[string]any) []Citation {
	if payload == nil {
		return nil
	}
	rows := asList(payload["sources"])
	if len(rows) == 0 {
		rows = asList(payload["references"])
	}
	if len(rows) == 0 {
		rows = asList(payload["citations"])
	}

	var out []Citation
	for _, row := range rows {
		src := asMap(row)
		if src == nil {
			continue
		}
		c := Citation{
			URL:    firstString(src, "link", "url"),
			Title:  firstString(src, "title", "source"),
			Domain: firstString(src, "domain", "displayed_link"),
		}
		if c.URL == "" && c.Title == "" && c.Domain == "" {
			continue
		}
		c.Position = len(out) + 1
		out = append(out, c)
	}
	return out
}

// citationsFromRows builds Citations from result rows (shopping, local packs)
// whose link/title/domain keys differ from overview sources.
func citationsFromRows(rows []any) []Citation {
	var out []Citation
	for _, row := range rows {
		item := asMap(row)
		if item == nil {
			continue
		}
		c := Citation{
			URL:    firstString(item, "link", "url", "product_link"),
			Domain: firstString(item, "source", "domain", "displayed_link"),
			Title:  firstString(item, "title", "name"),
		}
		if c.URL == "" && c.Domain == "" && c.Title == "" {
			continue
		}
		c.Position = len(out) + 1
		out = append(out, c)
	}
	return out
}

// ecommerceSignal condenses shopping/product listings into context text.
func ecommerceSignal(data map[string]any) (Context, bool) {
	keys := []string{"shopping_results", "inline_shopping_results", "shopping_ads", "popular_products", "products"}
	var products []any
	for _, key := range keys {
		rows := asList(data[key])
		if len(rows) > 6 {
			rows = rows[:6]
		}
		products = append(products, rows...)
	}

	var snippets []string
	limit := products
	if len(limit) > 8 {
		limit = limit[:8]
	}
	for _, row := range limit {
		item := asMap(row)
		if item == nil {
			continue
		}
		line := cleanJoin([]string{
			firstString(item, "title", "name"),
			stringify(item["price"]),
			firstString(item, "source", "merchant"),
			stringify(item["snippet"]),
		})
		if line != "" {
			snippets = append(snippets, line)
		}
	}

	if len(snippets) == 0 {
		// Image results sometimes carry usable product lines.
		images := asList(data["images_results"])
		if len(images) > 6 {
			images = images[:6]
		}
		for _, row := range images {
			item := asMap(row)
			if item == nil {
				continue
			}
			line := cleanJoin([]string{
				stringify(item["title"]),
				stringify(item["source"]),
				stringify(item["snippet"]),
			})
			if line != "" {
				snippets = append(snippets, line)
			}
		}
	}

	if len(snippets) == 0 {
		return Context{}, false
	}
	return Context{
		Text:       cleanJoin(snippets),
		SourceType: SourceShoppingGraph,
		FetchMode:  ModeCategoryEcommerce,
		Confidence: ConfidenceMedium,
		Citations:  citationsFromRows(products),
	}, true
}

// localSignal condenses local business pack rows into context text.
func localSignal(data map[string]any) (Context, bool) {
	var rows []any
	for _, key := range []string{"local_results", "local_pack", "places", "maps_results"} {
		list := asList(data[key])
		if len(list) > 6 {
			list = list[:6]
		}
		rows = append(rows, list...)
	}
	if len(rows) == 0 {
		return Context{}, false
	}

	var snippets []string
	limit := rows
	if len(limit) > 8 {
		limit = limit[:8]
	}
	for _, row := range limit {
		item := asMap(row)
		if item == nil {
			continue
		}
		line := cleanJoin([]string{
			firstString(item, "title", "name"),
			stringify(item["rating"]),
			stringify(item["address"]),
			stringify(item["phone"]),
			stringify(item["snippet"]),
		})
		if line != "" {
			snippets = append(snippets, line)
		}
	}
	if len(snippets) == 0 {
		return Context{}, false
	}
	return Context{
		Text:       cleanJoin(snippets),
		SourceType: SourceLocalPack,
		FetchMode:  ModeCategoryLocal,
		Confidence: ConfidenceMedium,
		Citations:  citationsFromRows(rows),
	}, true
}

// saasSignal uses related/people-also-ask questions as intent evidence.
func saasSignal(data map[string]any) (Context, bool) {
	questions := relatedQuestions(data)
	if len(questions) == 0 {
		return Context{}, false
	}
	return Context{
		Text:       cleanJoin(questions),
		SourceType: SourceRelatedQuestions,
		FetchMode:  ModeCategorySaaS,
		Confidence: ConfidenceMedium,
	}, true
}

func relatedQuestions(data map[string]any) []string {
	var questions []string
	for _, key := range []string{"related_questions", "people_also_ask"} {
		rows := asList(data[key])
		if len(rows) > 6 {
			rows = rows[:6]
		}
		for _, row := range rows {
			var q string
			if item := asMap(row); item != nil {
				q = firstString(item, "question", "title", "snippet")
			} else {
				q = strings.TrimSpace(stringify(row))
			}
			if q != "" {
				questions = append(questions, q)
			}
		}
	}
	return questions
}
