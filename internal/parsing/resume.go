// Package parsing turns raw resume text into a structured Resume using a language model.
package parsing

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/types"
)

// MaxInputRunes bounds the resume text sent to the model.
const MaxInputRunes = 30000

// responseSnippet is how much failed model output ParseError keeps.
const responseSnippet = 200

// ResumeParser extracts a resume from raw text. The result may be sparse;
// callers must tolerate any field being empty.
type ResumeParser interface {
	ParseResumeText(ctx context.Context, rawText string) (*types.Resume, error)
}

// LLMParser is a ResumeParser backed by an llm.Client.
type LLMParser struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMParser creates a parser using the standard model tier.
func NewLLMParser(client llm.Client) *LLMParser {
	return &LLMParser{client: client, tier: llm.TierStandard}
}

// ParseResumeText prompts the model with rawText and decodes its answer leniently.
func (p *LLMParser) ParseResumeText(ctx context.Context, rawText string) (*types.Resume, error) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return types.NewResume(), nil
	}
	if p.client == nil {
		return nil, &APICallError{Message: "no model client configured"}
	}

	prompt := buildPrompt(truncate(rawText, MaxInputRunes))

	responseText, err := p.client.GenerateJSON(ctx, prompt, p.tier)
	if err != nil {
		apiErr := &APICallError{Message: "failed to generate content from LLM", Cause: err}
		if apiErr.Blocked() {
			log.Printf("[parse] model refused resume text (%d runes)", utf8.RuneCountInString(rawText))
		}
		return nil, apiErr
	}

	resume, err := decodeResume(responseText)
	if err != nil {
		log.Printf("[parse] unusable model output: %v", err)
		return nil, err
	}

	log.Printf("[parse] extracted %d experience, %d education, %d skills entries",
		len(resume.Experience), len(resume.Education), len(resume.Skills))
	return resume, nil
}

func buildPrompt(resumeText string) string {
	template := prompts.MustGet("parsing.json", "parse-resume")
	return prompts.Format(template, map[string]string{
		"ResumeText": resumeText,
	})
}

// decodeResume parses the model output into a normalized Resume. Any JSON
// object is accepted; unknown or mistyped keys are ignored.
func decodeResume(text string) (*types.Resume, error) {
	obj := llm.ExtractJSONObject(llm.CleanJSONBlock(text))
	if obj == "" {
		return nil, &ParseError{Message: "no JSON object in response", Response: truncate(text, responseSnippet)}
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(obj), &m); err != nil {
		return nil, &ParseError{
			Message:  "failed to parse JSON response",
			Response: truncate(obj, responseSnippet),
			Cause:    err,
		}
	}

	return types.ResumeFromMap(m), nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
