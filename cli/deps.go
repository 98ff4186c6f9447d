package cli

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"repo_analyzer/analyzer"
	"repo_analyzer/config"
	"repo_analyzer/exporter"
	"repo_analyzer/generator"
	"repo_analyzer/github"
	"repo_analyzer/markup"
)

const openAIBaseURL = "https://api.openai.com/v1"

func buildLLM(cfg config.LLMConfig) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		MaxTokens: cfg.MaxTokens,
	}
	switch cfg.Provider {
	case "mock":
		return generator.MockLLM{}, nil
	case "", "groq":
		return generator.NewOpenAILLMFromConfig(settings)
	case "openai":
		if settings.BaseURL == "" {
			settings.BaseURL = openAIBaseURL
		}
		return generator.NewOpenAILLMFromConfig(settings)
	case "deepseek":
		// OpenAI-compatible, but there is no default endpoint.
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLMFromConfig(settings)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}

func buildRenderer(cfg config.MarkupConfig) (markup.Renderer, error) {
	mode, ok := markup.ParseListWrapMode(cfg.ListWrap)
	if !ok {
		return nil, fmt.Errorf("markup list_wrap %q not supported", cfg.ListWrap)
	}
	return markup.NewRenderer(cfg.Renderer, mode)
}

func buildCoordinator(cfg config.Config, verbose bool, logger *log.Logger) (*analyzer.Coordinator, error) {
	llm, err := buildLLM(cfg.LLM)
	if err != nil {
		return nil, err
	}
	renderer, err := buildRenderer(cfg.Markup)
	if err != nil {
		return nil, err
	}
	agent, err := generator.NewAgent(llm, renderer, cfg.ReportLanguage)
	if err != nil {
		return nil, err
	}
	gh := github.New(github.Settings{BaseURL: cfg.GitHub.BaseURL, Token: cfg.GitHub.Token},
		&http.Client{Timeout: 30 * time.Second}, verbose, logger)
	return analyzer.New(gh, agent, analyzer.Options{
		MaxDepth:   cfg.GitHub.MaxDepth,
		MaxEntries: cfg.GitHub.MaxEntries,
		Verbose:    verbose,
		Logger:     logger,
	})
}

func buildExporter(cfg config.Config, verbose bool, logger *log.Logger) (*exporter.Exporter, error) {
	loc, err := exporter.NewLocale(cfg.Locale)
	if err != nil {
		return nil, err
	}
	return exporter.New(exporter.Options{
		Meta: exporter.Metadata{
			Title:    cfg.PDF.Title,
			Author:   cfg.PDF.Author,
			Subject:  cfg.PDF.Subject,
			Keywords: cfg.PDF.Keywords,
		},
		Locale:  loc,
		Verbose: verbose,
		Logger:  logger,
	}), nil
}
