package generator

import (
	"context"
	"errors"
	"fmt"

	"repo_analyzer/markup"
)

// Agent turns repository input into rendered reports.
type Agent struct {
	llm      LLMClient
	renderer markup.Renderer
	language string
}

func NewAgent(llm LLMClient, renderer markup.Renderer, language string) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if renderer == nil {
		renderer = markup.NewConverter(markup.ListWrapAll)
	}
	return &Agent{llm: llm, renderer: renderer, language: language}, nil
}

// Generate produces one report: prompt, completion, clean-up, HTML.
func (a *Agent) Generate(ctx context.Context, kind ReportKind, in Input) (Report, error) {
	prompt, err := BuildPrompt(kind, in, a.language)
	if err != nil {
		return Report{}, err
	}

	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return Report{}, fmt.Errorf("generate %s: %w", kind, err)
	}
	md, err := PostProcess(raw)
	if err != nil {
		return Report{}, fmt.Errorf("generate %s: %w", kind, err)
	}
	html, err := a.renderer.Render(md)
	if err != nil {
		return Report{}, fmt.Errorf("render %s: %w", kind, err)
	}
	return Report{Kind: kind, Markdown: md, HTML: html}, nil
}
