// Package observability provides Prometheus metrics for the service and
// formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// shorten truncates s to n runes, marking the cut with "...".
func shorten(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintResume outputs a summary of a parsed or loaded resume.
func (p *Printer) PrintResume(r *types.Resume) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(r.Name)))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", orDash(r.Title)))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orDash(r.Email)))
	sb.WriteString("\n")

	for _, c := range types.AllCollections {
		entries, _ := r.Entries(c)
		if len(entries) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-15s %d\n", string(c)+":", len(entries)))
	}

	if len(r.Experience) > 0 {
		sb.WriteString("\nRecent positions:\n")
		count := min(len(r.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := r.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", orDash(e.Position), orDash(e.Company)))
		}
		if len(r.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(r.Experience)-maxItemsToShow))
		}
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTemplate outputs the layout type and the sections per location.
func (p *Printer) PrintTemplate(t *layout.Template) {
	if t == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", orDash(t.Name)))
	sb.WriteString(fmt.Sprintf("Layout:   %s\n", t.LayoutType))
	sb.WriteString(fmt.Sprintf("Sections: %d\n", len(t.Sections())))

	sections := t.Sections()
	if len(sections) > 0 {
		sb.WriteString("\n")
	}
	for _, s := range sections {
		title := s.Title
		if title == "" {
			title = string(s.Type)
		}
		sb.WriteString(fmt.Sprintf("  • %s @ %s\n", title, s.Location))
	}

	p.printBox("TEMPLATE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUpload outputs metadata about an ingested document.
func (p *Printer) PrintUpload(m *ingestion.Metadata) {
	if m == nil {
		return
	}

	content := fmt.Sprintf("File:     %s\nKind:     %s\nChars:    %d\nSHA256:   %s",
		orDash(m.Filename), m.Kind, m.Chars, m.Hash)
	p.printBox("UPLOADED DOCUMENT", content)
}

// PrintExport outputs where a PDF was written.
func (p *Printer) PrintExport(path string, size int, elapsed time.Duration) {
	content := fmt.Sprintf("Output:   %s\nSize:     %d bytes\nElapsed:  %s",
		path, size, elapsed.Round(time.Millisecond))
	p.printBox("PDF EXPORTED", content)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
