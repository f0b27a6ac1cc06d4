package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// densityExtract is the high-fidelity first tier. It walks the parsed tree
// collecting only text that lives inside content-bearing block elements,
// which favours precision over recall: chrome text in bare divs and spans is
// ignored unless it sits inside a paragraph, heading, list, or table. Tables
// are included; comment nodes are excluded.
func densityExtract(rawHTML string) string {
	node, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil || node == nil {
		return ""
	}

	body := findFirst(node, "body")
	if body == nil {
		body = node
	}

	var b strings.Builder
	collectBlocks(&b, body, false)
	return normalizeBlocks(b.String())
}

// contentBlocks are elements whose text is trusted as page content.
var contentBlocks = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "td": true, "th": true, "caption": true, "blockquote": true,
	"pre": true, "dt": true, "dd": true, "figcaption": true,
}

func collectBlocks(b *strings.Builder, n *html.Node, inBlock bool) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.ElementNode:
		name := strings.ToLower(n.Data)
		switch name {
		case "script", "style", "svg", "noscript", "iframe", "footer", "nav", "header", "aside", "form":
			return
		}
		if hasBoilerplateAttrs(n) {
			return
		}
		if contentBlocks[name] {
			inBlock = true
		}
	case html.TextNode:
		if inBlock {
			b.WriteString(n.Data)
		}
		return
	}

	entered := false
	if n.Type == html.ElementNode && contentBlocks[strings.ToLower(n.Data)] {
		entered = true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectBlocks(b, c, inBlock)
	}

	if entered {
		switch strings.ToLower(n.Data) {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre":
			b.WriteString("\n\n")
		default:
			b.WriteString("\n")
		}
	}
}

func hasBoilerplateAttrs(n *html.Node) bool {
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" {
			continue
		}
		if boilerplateRe.MatchString(attr.Val) {
			return true
		}
	}
	return false
}

func findFirst(n *html.Node, tag string) *html.Node {
	var res *html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if res != nil {
			return
		}
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			res = cur
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
			if res != nil {
				return
			}
		}
	}
	dfs(n)
	return res
}

// normalizeBlocks collapses whitespace runs within lines and squeezes repeated
// blank lines down to one so section splitting stays meaningful.
func normalizeBlocks(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := collapseSpaces(line)
		if trimmed == "" {
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, trimmed)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	return strings.Join(out, "\n")
}
