package scrape

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// MaxExtractLen bounds every extraction result handed to summarization.
const MaxExtractLen = 8000

// ErrNoContent reports that no strategy matched and the fallback extractor
// came back empty. Callers skip the current item, never abort the cycle.
var ErrNoContent = errors.New("no qualifying content found")

// Strategy is one declarative rule for locating qualifying text: a CSS
// selector plus the minimum text length that counts as a real match.
// Strategies are static configuration, ordered most-specific first.
type Strategy struct {
	Selector   string
	MinTextLen int
}

// Synthetic strategies reported when the fallback chain produced the text.
var (
	readabilityFallback = Strategy{Selector: "(readability)"}
	bodyTextFallback    = Strategy{Selector: "(body)"}
)

// ResolveText tries each strategy in order and returns the first match
// whose first element carries at least MinTextLen characters of trimmed
// text. Deterministically first-wins, not best-wins. When every strategy
// misses, a readability pass over the raw HTML and then the full body text
// serve as fallbacks, truncated to MaxExtractLen.
func ResolveText(page *Page, strategies []Strategy) (string, Strategy, error) {
	for _, strategy := range strategies {
		sel := page.Doc.Find(strategy.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(sel.Text())
		// Floors count characters, not bytes, like every other limit here.
		if utf8.RuneCountInString(text) >= strategy.MinTextLen {
			return truncate(text, MaxExtractLen), strategy, nil
		}
	}

	if text := readableText(page); text != "" {
		return truncate(text, MaxExtractLen), readabilityFallback, nil
	}

	text := strings.TrimSpace(page.Doc.Find("body").Text())
	if text == "" {
		return "", Strategy{}, ErrNoContent
	}

	return truncate(text, MaxExtractLen), bodyTextFallback, nil
}

// ResolveNodes returns the selection of the first strategy matching at
// least one element, for callers that enumerate elements rather than
// extract a single text block.
func ResolveNodes(page *Page, strategies []Strategy) (*goquery.Selection, Strategy, bool) {
	for _, strategy := range strategies {
		sel := page.Doc.Find(strategy.Selector)
		if sel.Length() > 0 {
			return sel, strategy, true
		}
	}
	return nil, Strategy{}, false
}

func readableText(page *Page) string {
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(page.RawHTML), page.URL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
