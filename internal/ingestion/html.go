package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelectors = "p, div, section, article, header, footer, ul, ol, table, tr, h1, h2, h3, h4, h5, h6, li, dt, dd"

// ExtractHTMLText parses an HTML resume and returns its visible text with
// block elements on separate lines. Headings become markdown headings and
// list items become bullets.
func ExtractHTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("head, script, style, noscript, template, nav, svg").Remove()
	doc.Find("br").ReplaceWithHtml("\n")

	doc.Find("h1, h2, h3, h4, h5, h6").PrependHtml("# ")
	doc.Find("li").PrependHtml("- ")
	doc.Find(blockSelectors).AppendHtml("\n")

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	return cleanWhitespace(root.Text()), nil
}

// cleanWhitespace trims every line and drops the empty ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
