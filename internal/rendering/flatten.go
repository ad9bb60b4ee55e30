package rendering

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/layout"
)

// Flattened is a template reduced to markup with {{field}} placeholders plus a
// stylesheet. It is the stored form of a template.
type Flattened struct {
	Markup string `json:"markup"`
	CSS    string `json:"css"`
}

// Repeat block markers. A block is expanded once per entry of the named collection.
const (
	repeatOpen  = "<!--rb:repeat %s-->"
	repeatClose = "<!--rb:end %s-->"
)

// Flatten validates placements and composes the template markup and stylesheet.
func Flatten(t *layout.Template) (*Flattened, error) {
	if t == nil {
		return nil, &TemplateError{Message: "template is nil"}
	}
	if !t.LayoutType.Valid() {
		return nil, &TemplateError{Message: fmt.Sprintf("unknown layout type %q", t.LayoutType)}
	}
	if err := t.Validate(); err != nil {
		var pe *layout.PlacementError
		if errors.As(err, &pe) {
			return nil, &MissingPlacementError{SectionID: pe.SectionID, Location: pe.Location, Cause: err}
		}
		return nil, &TemplateError{Message: "invalid template", Cause: err}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="rb-page rb-layout-%s">`, cssIdent(string(t.LayoutType)))
	b.WriteString("\n")

	switch t.LayoutType {
	case layout.LayoutSingleColumn:
		writeRegion(&b, "main", "rb-main", t.Main)
	case layout.LayoutLeftSidebar:
		b.WriteString(`<div class="rb-columns">` + "\n")
		writeRegion(&b, "aside", "rb-sidebar", t.Sidebar)
		writeRegion(&b, "main", "rb-main", t.Main)
		b.WriteString("</div>\n")
	case layout.LayoutRightSidebar:
		b.WriteString(`<div class="rb-columns">` + "\n")
		writeRegion(&b, "main", "rb-main", t.Main)
		writeRegion(&b, "aside", "rb-sidebar", t.Sidebar)
		b.WriteString("</div>\n")
	case layout.LayoutGrid:
		for _, row := range t.Rows {
			writeGridRow(&b, row)
		}
	case layout.LayoutCustom:
		for _, row := range t.CustomRows {
			writeCustomRow(&b, row)
		}
	}

	b.WriteString("</div>\n")

	return &Flattened{
		Markup: b.String(),
		CSS:    stylesheet(t),
	}, nil
}

func writeRegion(b *strings.Builder, tag, class string, sections []layout.Section) {
	fmt.Fprintf(b, `<%s class="%s">`+"\n", tag, class)
	for _, s := range sections {
		writeSection(b, s)
	}
	fmt.Fprintf(b, "</%s>\n", tag)
}

func writeGridRow(b *strings.Builder, row layout.Row) {
	fmt.Fprintf(b, `<div class="rb-row" data-row-id="%s" style="grid-template-columns: repeat(%d, 1fr);">`+"\n",
		EscapeHTML(row.ID), len(row.Cells))
	for _, cell := range row.Cells {
		fmt.Fprintf(b, `<div class="rb-cell" data-cell-id="%s">`+"\n", EscapeHTML(cell.ID))
		for _, s := range cell.Sections {
			writeSection(b, s)
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")
}

func writeCustomRow(b *strings.Builder, row layout.CustomRow) {
	fmt.Fprintf(b, `<div class="rb-custom-row rb-custom-row-%s" data-row-id="%s">`+"\n",
		cssIdent(string(row.Kind)), EscapeHTML(row.ID))
	for _, col := range row.Columns {
		fmt.Fprintf(b, `<div class="rb-column" data-column-id="%s" style="width: %s%%;">`+"\n",
			EscapeHTML(col.ID), formatPercent(col.Width))
		for _, s := range col.Sections {
			writeSection(b, s)
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")
}

func writeSection(b *strings.Builder, s layout.Section) {
	fmt.Fprintf(b, `<section class="rb-section rb-section-%s" data-section-id="%s"`,
		cssIdent(string(s.Type)), EscapeHTML(s.ID))
	if css := sectionCSS(s.Style); css != "" {
		fmt.Fprintf(b, ` style="%s"`, css)
	}
	b.WriteString(">\n")
	if s.Title != "" {
		fmt.Fprintf(b, `<h2 class="rb-section-title">%s</h2>`+"\n", EscapeHTML(s.Title))
	}

	fields := s.Fields.Enabled()
	switch {
	case s.Type == layout.SectionHeader:
		writeHeaderFields(b, fields)
	default:
		if coll, ok := s.Type.Collection(); ok {
			fmt.Fprintf(b, repeatOpen+"\n", coll)
			b.WriteString(`<div class="rb-entry" data-entry-id="{{id}}">` + "\n")
			writeFieldPairs(b, fields)
			b.WriteString("</div>\n")
			fmt.Fprintf(b, repeatClose+"\n", coll)
		} else {
			writeFieldPairs(b, fields)
		}
	}
	b.WriteString("</section>\n")
}

// writeHeaderFields emits identity fields. Name and title lead, the rest form
// an inline contact list.
func writeHeaderFields(b *strings.Builder, fields []layout.Field) {
	var contact []layout.Field
	for _, f := range fields {
		switch f.Key {
		case "photoUrl":
			fmt.Fprintf(b, `<img class="rb-photo" src="%s" alt="%s">`+"\n", placeholder(f.Key), EscapeHTML(f.Label))
		case "name":
			fmt.Fprintf(b, `<h1 class="rb-name">%s</h1>`+"\n", placeholder(f.Key))
		case "title":
			fmt.Fprintf(b, `<p class="rb-headline">%s</p>`+"\n", placeholder(f.Key))
		default:
			contact = append(contact, f)
		}
	}
	if len(contact) == 0 {
		return
	}
	b.WriteString(`<ul class="rb-contact">` + "\n")
	for _, f := range contact {
		fmt.Fprintf(b, `<li class="rb-field rb-field-%s">%s</li>`+"\n", cssIdent(f.Key), placeholder(f.Key))
	}
	b.WriteString("</ul>\n")
}

func writeFieldPairs(b *strings.Builder, fields []layout.Field) {
	for _, f := range fields {
		fmt.Fprintf(b, `<div class="rb-field rb-field-%s">`, cssIdent(f.Key))
		if f.Label != "" {
			fmt.Fprintf(b, `<span class="rb-label">%s</span> `, EscapeHTML(f.Label))
		}
		fmt.Fprintf(b, `<span class="rb-value">%s</span></div>`+"\n", placeholder(f.Key))
	}
}

func placeholder(key string) string {
	return "{{" + cssIdent(key) + "}}"
}

func sectionCSS(s layout.Style) string {
	if len(s) == 0 {
		return ""
	}
	clean := make(layout.Style, len(s))
	for k, v := range s {
		clean[cssIdent(k)] = cssValue(v)
	}
	return clean.CSS()
}

// formatPercent prints at most two decimals without trailing zeros.
func formatPercent(w float64) string {
	s := strconv.FormatFloat(w, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
