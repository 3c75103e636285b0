package search

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanSnippet strips HTML tags and entities from a search result
// snippet and collapses runs of whitespace. Tavily content fields often
// carry fragments of the source page's markup.
func CleanSnippet(snippet string) string {
	if snippet == "" {
		return ""
	}

	text := snippet
	if strings.ContainsAny(snippet, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
		if err == nil {
			text = doc.Text()
		}
	}

	return strings.Join(strings.Fields(text), " ")
}

// Summary renders a short textual digest of the top results, suitable
// for folding into a trajectory note. limit caps how many results are
// included; zero or negative means all.
func Summary(results []Result, limit int) string {
	if len(results) == 0 {
		return ""
	}
	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}

	var sb strings.Builder
	sb.WriteString("Market signals: ")
	for i := 0; i < limit; i++ {
		r := results[i]
		snippet := r.Content
		if len(snippet) > 160 {
			snippet = snippet[:157] + "..."
		}
		if i > 0 {
			sb.WriteString(" | ")
		}
		if r.Title != "" {
			sb.WriteString(fmt.Sprintf("%s: %s", r.Title, snippet))
		} else {
			sb.WriteString(snippet)
		}
	}
	return sb.String()
}
