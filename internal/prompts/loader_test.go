package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("parsing.json", "parse-resume")
	require.NoError(t, err)
	assert.Contains(t, prompt, "structured JSON")
	assert.Contains(t, prompt, "{{.ResumeText}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("parsing.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	result := Format("Hello {{.Name}}, text: {{.ResumeText}} {{.Missing}}", map[string]string{
		"Name":       "Alice",
		"ResumeText": "contains {{.Name}}",
	})
	// Substituted values are not expanded again.
	assert.Equal(t, "Hello Alice, text: contains {{.Name}} {{.Missing}}", result)
}

func TestList(t *testing.T) {
	keys, err := List("parsing.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"parse-resume"}, keys)
}
