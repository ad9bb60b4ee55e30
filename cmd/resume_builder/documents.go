package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// readTemplateFile loads and schema-checks a layout tree from disk.
func readTemplateFile(path string) (*layout.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	if err := schemas.ValidateTemplate(data); err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return layout.Decode(data)
}

// readResumeFile loads and schema-checks resume JSON from disk.
func readResumeFile(path string) (*types.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	if err := schemas.ValidateResume(data); err != nil {
		return nil, fmt.Errorf("resume %s: %w", path, err)
	}
	resume := types.NewResume()
	if err := json.Unmarshal(data, resume); err != nil {
		return nil, fmt.Errorf("failed to decode resume: %w", err)
	}
	resume.Normalize()
	return resume, nil
}

// renderFiles renders the resume at resumePath with the template at templatePath.
func renderFiles(templatePath, resumePath, pageSize string) (*layout.Template, *types.Resume, *rendering.Document, error) {
	tmpl, err := readTemplateFile(templatePath)
	if err != nil {
		return nil, nil, nil, err
	}
	resume, err := readResumeFile(resumePath)
	if err != nil {
		return nil, nil, nil, err
	}
	doc, err := rendering.Render(tmpl, resume)
	if err != nil {
		return nil, nil, nil, err
	}
	doc.PageSize = pageSize
	return tmpl, resume, doc, nil
}

// newModelClient creates the Gemini client, honouring a model override.
func newModelClient(ctx context.Context, cfg *config.Config) (*llm.GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	modelConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		modelConfig = modelConfig.WithModel(llm.TierStandard, cfg.Model)
	}
	return llm.NewGeminiClient(ctx, modelConfig, cfg.APIKey)
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
