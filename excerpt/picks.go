package excerpt

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// productSignals are the structured facts pulled straight from the DOM,
// independent of readability's idea of "main content".
type productSignals struct {
	name        string
	price       string
	breadcrumbs []string
}

// nameSelectors, priceSelectors: ordered by specificity. Structured-data
// attributes first, then the conventional class names retail platforms use.
var (
	nameSelectors = []string{
		`[itemprop="name"]`,
		`h1[data-testid*="product"]`,
		`h1.product-name`,
		`h1.product-title`,
		`h1`,
	}
	priceSelectors = []string{
		`[itemprop="price"]`,
		`[data-testid*="price"]`,
		`.product-price`,
		`.price`,
	}
	breadcrumbSelectors = []string{
		`nav[aria-label="breadcrumb" i] a`,
		`nav[aria-label="Breadcrumbs" i] a`,
		`.breadcrumb a`,
		`.breadcrumbs a`,
		`ol.breadcrumb a`,
	}
)

// pickProductSignals extracts name, price and breadcrumb trail from raw HTML.
// Selector compilation errors are impossible at runtime (the lists are
// constant), so failures here mean the signal is genuinely absent.
func pickProductSignals(rawHTML string) productSignals {
	var sig productSignals

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return sig
	}

	sig.name = firstMatchText(doc, nameSelectors)
	sig.price = firstMatchText(doc, priceSelectors)
	sig.breadcrumbs = breadcrumbTrail(rawHTML)
	return sig
}

// firstMatchText returns the trimmed text of the first element matched by
// the first selector that matches anything.
func firstMatchText(doc *html.Node, selectors []string) string {
	for _, raw := range selectors {
		sel, err := cascadia.Parse(raw)
		if err != nil {
			continue
		}
		node := cascadia.Query(doc, sel)
		if node == nil {
			continue
		}
		if text := strings.TrimSpace(nodeText(node)); text != "" {
			return text
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// breadcrumbTrail collects the breadcrumb link texts in document order,
// deduplicated, capped at 8 entries.
func breadcrumbTrail(rawHTML string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var trail []string
	for _, raw := range breadcrumbSelectors {
		doc.Find(raw).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if text == "" || len(trail) >= 8 {
				return
			}
			if _, ok := seen[text]; ok {
				return
			}
			seen[text] = struct{}{}
			trail = append(trail, text)
		})
		if len(trail) > 0 {
			break
		}
	}
	return trail
}
