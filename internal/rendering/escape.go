package rendering

import "strings"

// EscapeHTML escapes text for use in HTML element content and quoted attributes.
// Curly braces are escaped too so a value can never form a placeholder token.
// Special characters: & < > " ' { }
func EscapeHTML(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + len(text)/4)

	for _, r := range text {
		switch r {
		case '&':
			result.WriteString("&amp;")
		case '<':
			result.WriteString("&lt;")
		case '>':
			result.WriteString("&gt;")
		case '"':
			result.WriteString("&#34;")
		case '\'':
			result.WriteString("&#39;")
		case '{':
			result.WriteString("&#123;")
		case '}':
			result.WriteString("&#125;")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// escapeMultiline escapes text and turns newlines into <br> tags.
func escapeMultiline(text string) string {
	escaped := EscapeHTML(strings.ReplaceAll(text, "\r\n", "\n"))
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

// cssIdent keeps only characters that are safe in a class name.
func cssIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// cssValue strips characters that could close a declaration or an attribute.
func cssValue(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ';', '{', '}', '<', '>', '"':
			return -1
		}
		return r
	}, s)
}
