// Package excerpt turns the rendered DOM snapshot of a product page into a
// compact Markdown digest for the analysis stage: main content extracted and
// converted, plus structured product signals (title, price, breadcrumbs)
// picked straight out of the raw HTML.
package excerpt

import (
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

// maxExcerptTokens caps the Markdown digest so one region's prompt stays well
// inside the analysis model's context window alongside five screenshots.
const maxExcerptTokens = 4000

// Excerpt is the text half of the evidence: what the page says, as opposed to
// what it looks like.
type Excerpt struct {
	// Markdown is the main page content, readability-extracted and converted.
	Markdown string

	// Metadata recovered from the document head and Open Graph tags.
	Title       string
	Description string
	SiteName    string
	Language    string

	// Product signals picked from the raw DOM. Empty when not found; the
	// analysis stage treats absence itself as evidence.
	ProductName string
	Price       string
	Breadcrumbs []string

	// EstimatedTokens is the heuristic token count of Markdown after capping.
	EstimatedTokens int
}

// Builder converts page snapshots into excerpts. The Markdown converter is
// created once and reused; it is goroutine-safe.
type Builder struct {
	mdConverter *converter.Converter
}

func NewBuilder() *Builder {
	return &Builder{mdConverter: newMarkdownConverter()}
}

// Build produces the excerpt for one captured page. Every stage degrades
// rather than fails: a page that defeats readability still yields a raw-HTML
// conversion, and a page that defeats the converter still yields its visible
// text. Build never returns an error because the analysis stage can work from
// screenshots alone; it only loses grounding quality.
func (b *Builder) Build(rawHTML, sourceURL string) *Excerpt {
	ex := &Excerpt{}
	if strings.TrimSpace(rawHTML) == "" {
		return ex
	}

	article, ok := extractContent(rawHTML, sourceURL)
	ex.Title = article.Title
	ex.Description = article.Excerpt
	ex.SiteName = article.SiteName
	ex.Language = article.Language

	md, err := b.mdConverter.ConvertString(article.Content, converter.WithDomain(sourceURL))
	if err != nil {
		slog.Warn("excerpt: markdown conversion failed, using plain text",
			"url", sourceURL, "error", err)
		md = article.TextContent
	}
	ex.Markdown = capTokens(md, maxExcerptTokens)
	ex.EstimatedTokens = EstimateTokens(ex.Markdown)

	if !ok {
		slog.Debug("excerpt: built from raw HTML fallback", "url", sourceURL)
	}

	picks := pickProductSignals(rawHTML)
	ex.ProductName = picks.name
	ex.Price = picks.price
	ex.Breadcrumbs = picks.breadcrumbs
	if ex.Title == "" {
		ex.Title = picks.name
	}

	return ex
}

// capTokens truncates text so its estimated token count stays within budget.
// Cuts on a rune boundary at the estimated character position.
func capTokens(text string, budget int) string {
	if budget <= 0 {
		return ""
	}
	if EstimateTokens(text) <= budget {
		return text
	}
	runes := []rune(text)
	limit := budget * charsPerToken
	if limit >= len(runes) {
		return text
	}
	return string(runes[:limit])
}
