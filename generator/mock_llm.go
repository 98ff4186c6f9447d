package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM returns canned Markdown without calling a model; for local runs.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	first := prompt.User
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	var sb strings.Builder
	sb.WriteString("## Offline report\n\n")
	sb.WriteString(fmt.Sprintf("Generated without a model (temperature %.1f).\n\n", prompt.Temperature))
	sb.WriteString("- **Request:** " + strings.TrimSpace(first) + "\n")
	sb.WriteString("- **Prompt size:** " + fmt.Sprint(len(prompt.User)) + " bytes\n")
	return sb.String(), nil
}
