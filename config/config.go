// Package config loads the analyzer configuration from JSON or YAML and
// resolves secrets from the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"repo_analyzer/generator"
	"repo_analyzer/github"
)

const (
	DefaultPath       = "config/config.json"
	DefaultAPIKeyEnv  = "GROQ_API_KEY"
	DefaultTokenEnv   = "GITHUB_TOKEN"
	DefaultServerAddr = ":8080"
	DefaultTimeout    = 180
)

// Config holds everything the CLI and the web server need.
type Config struct {
	LLM            LLMConfig    `json:"llm" yaml:"llm"`
	GitHub         GitHubConfig `json:"github" yaml:"github"`
	Markup         MarkupConfig `json:"markup" yaml:"markup"`
	PDF            PDFConfig    `json:"pdf" yaml:"pdf"`
	Locale         string       `json:"locale,omitempty" yaml:"locale" validate:"omitempty,bcp47_language_tag"`
	ReportLanguage string       `json:"report_language,omitempty" yaml:"report_language"`
	ServerAddr     string       `json:"server_addr,omitempty" yaml:"server_addr"`
	TimeoutSeconds int          `json:"timeout_seconds,omitempty" yaml:"timeout_seconds" validate:"gte=1,lte=3600"`
}

// LLMConfig selects the chat endpoint.
type LLMConfig struct {
	Provider  string `json:"provider,omitempty" yaml:"provider" validate:"oneof=groq openai deepseek mock"`
	Model     string `json:"model,omitempty" yaml:"model"`
	APIKey    string `json:"api_key,omitempty" yaml:"api_key"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url" validate:"omitempty,url"`
	MaxTokens int    `json:"max_tokens,omitempty" yaml:"max_tokens" validate:"gte=1,lte=32768"`
}

type GitHubConfig struct {
	BaseURL    string `json:"base_url,omitempty" yaml:"base_url" validate:"omitempty,url"`
	Token      string `json:"token,omitempty" yaml:"token"`
	TokenEnv   string `json:"token_env,omitempty" yaml:"token_env"`
	MaxDepth   int    `json:"max_depth,omitempty" yaml:"max_depth" validate:"gte=1,lte=5"`
	MaxEntries int    `json:"max_entries,omitempty" yaml:"max_entries" validate:"gte=1,lte=100"`
}

type MarkupConfig struct {
	Renderer string `json:"renderer,omitempty" yaml:"renderer" validate:"oneof=pipeline commonmark"`
	ListWrap string `json:"list_wrap,omitempty" yaml:"list_wrap" validate:"oneof=all first"`
}

// PDFConfig is written into the exported document's metadata.
type PDFConfig struct {
	Title    string `json:"title,omitempty" yaml:"title"`
	Author   string `json:"author,omitempty" yaml:"author"`
	Subject  string `json:"subject,omitempty" yaml:"subject"`
	Keywords string `json:"keywords,omitempty" yaml:"keywords"`
}

// Defaults returns a usable configuration without any file.
func Defaults() Config {
	return Config{
		LLM: LLMConfig{
			Provider:  "groq",
			Model:     generator.DefaultModel,
			APIKeyEnv: DefaultAPIKeyEnv,
			MaxTokens: generator.DefaultMaxTokens,
		},
		GitHub: GitHubConfig{
			BaseURL:    github.DefaultBaseURL,
			TokenEnv:   DefaultTokenEnv,
			MaxDepth:   github.DefaultMaxDepth,
			MaxEntries: github.DefaultMaxEntries,
		},
		Markup: MarkupConfig{Renderer: "pipeline", ListWrap: "all"},
		PDF: PDFConfig{
			Title:    "Repository Analysis",
			Author:   "GitHub Repository Analyzer",
			Subject:  "AI-generated repository report",
			Keywords: "github, analysis, report",
		},
		Locale:         "en-US",
		ReportLanguage: "English",
		ServerAddr:     DefaultServerAddr,
		TimeoutSeconds: DefaultTimeout,
	}
}

var validate = validator.New()

// LoadConfig reads path and fills unset fields from Defaults; a missing
// file yields the defaults. A .env file in the working directory is loaded
// first, without overriding variables that are already set.
func LoadConfig(path string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, err
	default:
		if err := decode(path, data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.fillDefaults()
	cfg.resolveSecrets()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func (c *Config) fillDefaults() {
	d := Defaults()
	c.LLM.Provider = orString(c.LLM.Provider, d.LLM.Provider)
	c.LLM.Model = orString(c.LLM.Model, d.LLM.Model)
	c.LLM.APIKeyEnv = orString(c.LLM.APIKeyEnv, d.LLM.APIKeyEnv)
	c.LLM.MaxTokens = orInt(c.LLM.MaxTokens, d.LLM.MaxTokens)

	c.GitHub.BaseURL = orString(c.GitHub.BaseURL, d.GitHub.BaseURL)
	c.GitHub.TokenEnv = orString(c.GitHub.TokenEnv, d.GitHub.TokenEnv)
	c.GitHub.MaxDepth = orInt(c.GitHub.MaxDepth, d.GitHub.MaxDepth)
	c.GitHub.MaxEntries = orInt(c.GitHub.MaxEntries, d.GitHub.MaxEntries)

	c.Markup.Renderer = orString(c.Markup.Renderer, d.Markup.Renderer)
	c.Markup.ListWrap = orString(c.Markup.ListWrap, d.Markup.ListWrap)

	c.PDF.Title = orString(c.PDF.Title, d.PDF.Title)
	c.PDF.Author = orString(c.PDF.Author, d.PDF.Author)
	c.PDF.Subject = orString(c.PDF.Subject, d.PDF.Subject)
	c.PDF.Keywords = orString(c.PDF.Keywords, d.PDF.Keywords)

	c.Locale = orString(c.Locale, d.Locale)
	c.ReportLanguage = orString(c.ReportLanguage, d.ReportLanguage)
	c.ServerAddr = orString(c.ServerAddr, d.ServerAddr)
	c.TimeoutSeconds = orInt(c.TimeoutSeconds, d.TimeoutSeconds)
}

func (c *Config) resolveSecrets() {
	if c.LLM.APIKey == "" && c.LLM.APIKeyEnv != "" {
		c.LLM.APIKey = os.Getenv(c.LLM.APIKeyEnv)
	}
	if c.GitHub.Token == "" && c.GitHub.TokenEnv != "" {
		c.GitHub.Token = os.Getenv(c.GitHub.TokenEnv)
	}
}

// Validate checks field constraints plus the rules tags cannot express.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	if c.LLM.Provider != "mock" && c.LLM.APIKey == "" {
		return fmt.Errorf("invalid config: llm.api_key is empty and %s is not set", c.LLM.APIKeyEnv)
	}
	if c.LLM.Provider == "deepseek" && c.LLM.BaseURL == "" {
		return errors.New("invalid config: llm provider deepseek requires base_url")
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("%s must be %s %s", fe.Namespace(), fe.Tag(), fe.Param())
	case "url":
		return fmt.Sprintf("%s is not a valid url", fe.Namespace())
	default:
		return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}
}
