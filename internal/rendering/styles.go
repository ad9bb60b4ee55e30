package rendering

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/layout"
)

const baseCSS = `*, *::before, *::after { box-sizing: border-box; }
body { margin: 0; font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11pt; color: #222; line-height: 1.4; }
.rb-page { width: 100%; }
.rb-section { margin-bottom: 12px; break-inside: avoid; }
.rb-section-title { font-size: 13pt; margin: 0 0 6px; text-transform: uppercase; letter-spacing: 0.04em; }
.rb-name { font-size: 22pt; margin: 0; }
.rb-headline { margin: 2px 0 6px; font-size: 12pt; color: #555; }
.rb-contact { list-style: none; margin: 0; padding: 0; display: flex; flex-wrap: wrap; gap: 4px 12px; }
.rb-photo { width: 96px; height: 96px; object-fit: cover; border-radius: 50%; float: right; }
.rb-entry { margin-bottom: 8px; }
.rb-label { font-weight: 600; }
`

var layoutCSS = map[layout.LayoutType]string{
	layout.LayoutSingleColumn: `.rb-main { padding: 0; }
`,
	layout.LayoutLeftSidebar: `.rb-columns { display: grid; grid-template-columns: 30% 70%; gap: 16px; }
.rb-sidebar { background: #f4f5f7; padding: 12px; }
`,
	layout.LayoutRightSidebar: `.rb-columns { display: grid; grid-template-columns: 70% 30%; gap: 16px; }
.rb-sidebar { background: #f4f5f7; padding: 12px; }
`,
	layout.LayoutGrid: `.rb-row { display: grid; gap: 16px; margin-bottom: 12px; }
`,
	layout.LayoutCustom: `.rb-custom-row { display: flex; gap: 0; margin-bottom: 12px; }
.rb-column { padding: 0 8px; }
`,
}

// stylesheet returns the base rules, the rules of the layout type and the
// template theme applied to the page wrapper.
func stylesheet(t *layout.Template) string {
	var b strings.Builder
	b.WriteString(baseCSS)
	b.WriteString(layoutCSS[t.LayoutType])
	if css := sectionCSS(t.Theme); css != "" {
		b.WriteString(".rb-page { ")
		b.WriteString(css)
		b.WriteString(" }\n")
	}
	return b.String()
}
