package rendering

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/types"
)

var (
	repeatBlock = regexp.MustCompile(`(?s)<!--rb:repeat ([A-Za-z0-9_-]+)-->\n?(.*?)<!--rb:end ([A-Za-z0-9_-]+)-->\n?`)
	token       = regexp.MustCompile(`\{\{([A-Za-z0-9_-]+)\}\}`)
)

// Render flattens t and fills it with the data of r.
func Render(t *layout.Template, r *types.Resume) (*Document, error) {
	if t == nil {
		return nil, &RenderError{Message: "no template to render"}
	}
	flat, err := Flatten(t)
	if err != nil {
		return nil, err
	}
	return RenderMarkup(flat.Markup, flat.CSS, r)
}

// RenderMarkup expands repeat blocks once per collection entry and replaces
// {{field}} tokens with escaped resume values. Inside a block only the entry's
// own values apply; outside, the top-level fields do. Tokens without a value
// are left as literal text. A nil resume renders as an empty one.
func RenderMarkup(markup, css string, r *types.Resume) (*Document, error) {
	if r == nil {
		r = types.NewResume()
	}
	if err := checkBlocks(markup); err != nil {
		return nil, err
	}

	fields := r.Fields()
	var b strings.Builder
	last := 0
	for _, loc := range repeatBlock.FindAllStringSubmatchIndex(markup, -1) {
		b.WriteString(substitute(markup[last:loc[0]], fields))
		last = loc[1]

		block := markup[loc[0]:loc[1]]
		name, body, end := markup[loc[2]:loc[3]], markup[loc[4]:loc[5]], markup[loc[6]:loc[7]]
		if name != end {
			log.Printf("[render] mismatched repeat markers %q and %q left unexpanded", name, end)
			b.WriteString(substitute(block, fields))
			continue
		}
		entries, ok := r.Entries(types.Collection(name))
		if !ok {
			log.Printf("[render] unknown collection %q left unexpanded", name)
			b.WriteString(substitute(block, fields))
			continue
		}
		for _, entry := range entries {
			b.WriteString(substitute(body, entry))
		}
	}
	b.WriteString(substitute(markup[last:], fields))

	return &Document{Markup: b.String(), CSS: css}, nil
}

// substitute replaces each token whose key is present in values. Replacement
// values are escaped, so they cannot introduce new tokens.
func substitute(s string, values map[string]string) string {
	return token.ReplaceAllStringFunc(s, func(tok string) string {
		key := tok[2 : len(tok)-2]
		v, ok := values[key]
		if !ok {
			return tok
		}
		return escapeMultiline(v)
	})
}

// checkBlocks rejects markup whose repeat markers are unbalanced.
func checkBlocks(markup string) error {
	opens := strings.Count(markup, "<!--rb:repeat ")
	closes := strings.Count(markup, "<!--rb:end ")
	if opens != closes {
		return &TemplateError{Message: fmt.Sprintf("unbalanced repeat markers: %d open, %d close", opens, closes)}
	}
	return nil
}
