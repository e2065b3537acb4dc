package simhash

import (
	"strings"

	"golang.org/x/net/html"
)

// domShingleSize is the n-gram width over the tag sequence. Single tags are
// too common to discriminate; triples capture local nesting order.
const domShingleSize = 3

// invisibleTags never render, so churn in analytics scripts, meta tags or
// stylesheet links must not count as a layout change.
var invisibleTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
	"meta":     true,
	"link":     true,
	"title":    true,
	"base":     true,
}

// FingerprintDOM fingerprints the rendered tag structure of a page snapshot,
// ignoring text, attributes and non-rendered tags. It answers the question
// the text fingerprint cannot: a size chart moved below the fold reads the
// same while looking entirely different.
func FingerprintDOM(doc string) uint64 {
	tags := renderedTags(doc)
	if len(tags) == 0 {
		return 0
	}

	grams := shingles(tags, domShingleSize)
	if len(grams) == 0 {
		// Fewer tags than one shingle: hash the raw sequence.
		return Fingerprint(strings.Join(tags, " "))
	}
	return Fingerprint(strings.Join(grams, " "))
}

// renderedTags tokenizes HTML and collects opening tag names in document
// order, skipping tags that never render.
func renderedTags(doc string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(doc))
	var tags []string

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return tags
		case html.StartTagToken, html.SelfClosingTagToken:
			tn, _ := tokenizer.TagName()
			if tag := string(tn); !invisibleTags[tag] {
				tags = append(tags, tag)
			}
		}
	}
}

// shingles builds overlapping n-grams from the tag sequence. Returns nil
// when the sequence is shorter than n.
func shingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		out = append(out, strings.Join(tokens[i:i+n], "_"))
	}
	return out
}
