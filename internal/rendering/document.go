package rendering

import (
	"fmt"
	"strings"
)

// Page sizes understood by the @page rule.
const (
	PageA4     = "A4"
	PageLetter = "Letter"
)

// Document is a rendered resume: body markup plus its stylesheet.
type Document struct {
	Markup string
	CSS    string
	// PageSize is the CSS page size. Empty means A4.
	PageSize string
}

// HTML merges the markup and stylesheet into one standalone HTML5 document.
func (d *Document) HTML() string {
	size := d.PageSize
	if size == "" {
		size = PageA4
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html lang="en">` + "\n<head>\n")
	b.WriteString(`<meta charset="utf-8">` + "\n")
	b.WriteString("<title>Resume</title>\n<style>\n")
	fmt.Fprintf(&b, "@page { size: %s; margin: 0.4in; }\n", cssValue(size))
	b.WriteString(d.CSS)
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(d.Markup)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
