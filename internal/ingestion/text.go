// Package ingestion turns uploaded resume documents into clean plain text
// that the resume parser can work with.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	spaceRun = regexp.MustCompile(`\s+`)
	blankRun = regexp.MustCompile(`\n\n\n+`)
)

// CleanText cleans and normalizes text content while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = blankRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := len(line) - len(trimmed)
	prefix := ""
	if indent > 0 {
		prefix = strings.Repeat(" ", indent)
	}

	// Word processors export bullets as • or ·; the parser prompt expects markdown.
	if isBulletLine(trimmed) {
		_, item, _ := strings.Cut(trimmed, " ")
		return prefix + bulletMarker(trimmed) + " " + spaceRun.ReplaceAllString(strings.TrimSpace(item), " ")
	}

	return prefix + spaceRun.ReplaceAllString(strings.TrimSpace(line), " ")
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

func bulletMarker(trimmed string) string {
	if strings.HasPrefix(trimmed, "* ") {
		return "*"
	}
	return "-"
}

// IngestFile reads a resume document from disk and returns its cleaned text.
func IngestFile(path string) (*Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Ingest(filepath.Base(path), "", data)
}
