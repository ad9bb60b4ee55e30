package parsing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

func TestParseResumeText_Success(t *testing.T) {
	client := &fakeClient{response: "```json\n" + `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"experience": [{"company": "Analytical Engine Co", "position": "Programmer", "current": true}],
		"skills": [{"name": "Mathematics", "level": "5"}, "Notation"]
	}` + "\n```"}
	parser := NewLLMParser(client)

	resume, err := parser.ParseResumeText(context.Background(), "Ada Lovelace\nada@example.com")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", resume.Name)
	require.Len(t, resume.Experience, 1)
	assert.True(t, resume.Experience[0].Current)
	assert.NotEmpty(t, resume.Experience[0].ID)
	require.Len(t, resume.Skills, 2)
	assert.Equal(t, 5, resume.Skills[0].Level)
	assert.Equal(t, "Notation", resume.Skills[1].Name)
	assert.NotNil(t, resume.References)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "ada@example.com")
	assert.NotContains(t, client.prompts[0], "{{.ResumeText}}")
}

func TestParseResumeText_EmptyInputSkipsModel(t *testing.T) {
	client := &fakeClient{}
	resume, err := NewLLMParser(client).ParseResumeText(context.Background(), "   \n ")
	require.NoError(t, err)
	assert.Equal(t, "", resume.Name)
	assert.Empty(t, client.prompts)
}

func TestParseResumeText_APIError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}

	_, err := NewLLMParser(client).ParseResumeText(context.Background(), "Ada")
	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.False(t, apiErr.Blocked())
}

func TestParseResumeText_Blocked(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("gemini-2.5-flash: %w: safety filter", llm.ErrBlocked)}

	_, err := NewLLMParser(client).ParseResumeText(context.Background(), "Ada")
	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Blocked())
}

func TestParseResumeText_NoClient(t *testing.T) {
	_, err := NewLLMParser(nil).ParseResumeText(context.Background(), "Ada")
	var apiErr *APICallError
	assert.ErrorAs(t, err, &apiErr)
}

func TestParseResumeText_NoJSON(t *testing.T) {
	client := &fakeClient{response: "Sorry, I cannot help with that."}

	_, err := NewLLMParser(client).ParseResumeText(context.Background(), "Ada")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "no JSON object")
	assert.Equal(t, "Sorry, I cannot help with that.", parseErr.Response)
}

func TestParseResumeText_MalformedJSON(t *testing.T) {
	client := &fakeClient{response: `{"name": "Ada",}`}

	_, err := NewLLMParser(client).ParseResumeText(context.Background(), "Ada")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseResumeText_TruncatesInput(t *testing.T) {
	client := &fakeClient{response: `{}`}
	long := strings.Repeat("é", MaxInputRunes+500)

	_, err := NewLLMParser(client).ParseResumeText(context.Background(), long)
	require.NoError(t, err)
	assert.Equal(t, MaxInputRunes, strings.Count(client.prompts[0], "é"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "αβ", truncate("αβγ", 2))
}
