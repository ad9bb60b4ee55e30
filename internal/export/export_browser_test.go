//go:build browser

package export

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findChrome(t *testing.T) string {
	t.Helper()
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("Chrome not installed")
	return ""
}

func TestChromeExporter_PrintsPDF(t *testing.T) {
	exp, err := NewChromeExporter(Options{ChromePath: findChrome(t)})
	require.NoError(t, err)

	s := layout.NewStore(layout.New("Browser", layout.LayoutLeftSidebar))
	s.AddSection(layout.SectionHeader, "", layout.Main())
	s.AddSection(layout.SectionSkills, "Skills", layout.Sidebar())
	r := types.NewResume()
	r.Name = "Ada Lovelace"
	r.Skills = []types.Skill{{Name: "Mathematics", Level: 5}}
	r.Normalize()

	doc, err := rendering.Render(s.Template(), r)
	require.NoError(t, err)

	pdf, err := exp.Export(context.Background(), doc.HTML())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestChromeExporter_UnresolvableImageDoesNotHang(t *testing.T) {
	exp, err := NewChromeExporter(Options{
		ChromePath:  findChrome(t),
		Timeout:     30 * time.Second,
		LoadTimeout: 2 * time.Second,
	})
	require.NoError(t, err)

	// 10.255.255.1 is unroutable, so the request hangs instead of failing.
	html := `<!DOCTYPE html><html><body><p>Photo below</p><img src="http://10.255.255.1/photo.png"></body></html>`

	start := time.Now()
	pdf, err := exp.Export(context.Background(), html)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Less(t, time.Since(start), 25*time.Second)
}
