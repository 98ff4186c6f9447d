package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "from-env")
	t.Setenv("GITHUB_TOKEN", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, 1, cfg.GitHub.MaxDepth)
	assert.Equal(t, 20, cfg.GitHub.MaxEntries)
	assert.Equal(t, "all", cfg.Markup.ListWrap)
	assert.Equal(t, ":8080", cfg.ServerAddr)
}

func TestLoadConfig_JSON(t *testing.T) {
	t.Setenv("MY_KEY", "k1")
	t.Setenv("MY_GH", "gh1")
	path := writeFile(t, "config.json", `{
		"llm": {"provider": "openai", "model": "gpt-4o-mini", "api_key_env": "MY_KEY", "max_tokens": 1000},
		"github": {"token_env": "MY_GH", "max_depth": 2, "max_entries": 10},
		"markup": {"renderer": "commonmark", "list_wrap": "first"},
		"locale": "pt-BR",
		"timeout_seconds": 60
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "k1", cfg.LLM.APIKey)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	assert.Equal(t, "gh1", cfg.GitHub.Token)
	assert.Equal(t, 2, cfg.GitHub.MaxDepth)
	assert.Equal(t, "commonmark", cfg.Markup.Renderer)
	assert.Equal(t, "first", cfg.Markup.ListWrap)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
	// untouched sections keep defaults
	assert.Equal(t, "Repository Analysis", cfg.PDF.Title)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
llm:
  provider: mock
report_language: Spanish
pdf:
  title: Informe
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "Spanish", cfg.ReportLanguage)
	assert.Equal(t, "Informe", cfg.PDF.Title)
}

func TestLoadConfig_ExplicitKeyWins(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "from-env")
	path := writeFile(t, "config.json", `{"llm": {"api_key": "inline"}}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "inline", cfg.LLM.APIKey)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "k")
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad json", `{`, "parse"},
		{"unknown provider", `{"llm": {"provider": "bard"}}`, "Provider"},
		{"bad list wrap", `{"markup": {"list_wrap": "some"}}`, "ListWrap"},
		{"depth too large", `{"github": {"max_depth": 9}}`, "MaxDepth"},
		{"bad locale", `{"locale": "not a tag!"}`, "Locale"},
		{"deepseek without base", `{"llm": {"provider": "deepseek"}}`, "base_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "config.json", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_MissingAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	_, err := LoadConfig(writeFile(t, "config.json", `{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROQ_API_KEY")

	cfg, err := LoadConfig(writeFile(t, "config.json", `{"llm": {"provider": "mock"}}`))
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.APIKey)
}
