package excerpt

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length for readability output
// to count as a real extraction. PDPs are content-sparse compared to
// articles, so the threshold is deliberately low; below it we assume the
// algorithm latched onto boilerplate and fall back to the full HTML.
const minContentLength = 50

// extractContent runs the Mozilla Readability algorithm on the snapshot.
// The second return reports whether real extraction happened; on any failure
// the raw HTML is wrapped so the pipeline proceeds uniformly.
func extractContent(rawHTML, sourceURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("excerpt: invalid source URL, using raw HTML",
			"url", sourceURL, "error", err)
		return fallbackArticle(rawHTML), false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("excerpt: readability extraction failed, using raw HTML",
			"url", sourceURL, "error", err)
		return fallbackArticle(rawHTML), false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Warn("excerpt: extracted content too short, using raw HTML",
			"url", sourceURL, "length", len(article.TextContent))
		return fallbackArticle(rawHTML), false
	}

	return article, true
}

func fallbackArticle(rawHTML string) readability.Article {
	return readability.Article{
		Content:     rawHTML,
		TextContent: rawHTML,
	}
}
