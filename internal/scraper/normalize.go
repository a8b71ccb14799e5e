package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// skippedElements never contribute visible text
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// spaceReplacer maps space look-alikes to an ordinary space
var spaceReplacer = strings.NewReplacer(
	"\u00a0", " ", // no-break space
	"\u202f", " ", // narrow no-break space
)

// NormalizeLines flattens markup into its visible text, one entry per text
// line, in document order. Every text node starts a new line. Lines are
// trimmed and empty lines are dropped, so the result never contains "".
func NormalizeLines(markup string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// Treat unparseable input as plain text
		return appendLines(nil, markup)
	}

	lines := make([]string, 0, 64)
	collectText(doc.Selection, &lines)
	return lines
}

// collectText walks the children of sel depth-first, appending text nodes
func collectText(sel *goquery.Selection, lines *[]string) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		node := child.Get(0)
		switch node.Type {
		case html.TextNode:
			*lines = appendLines(*lines, node.Data)
		case html.ElementNode:
			if skippedElements[strings.ToLower(node.Data)] {
				return
			}
			collectText(child, lines)
		}
	})
}

// appendLines splits text on line breaks and appends the cleaned, non-empty lines
func appendLines(lines []string, text string) []string {
	for _, ln := range strings.FieldsFunc(text, isLineBreak) {
		ln = spaceReplacer.Replace(ln)
		ln = strings.TrimSpace(norm.NFC.String(ln))
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
