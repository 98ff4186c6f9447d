package generator

import (
	"fmt"
	"sort"
	"strings"
)

// Prompt is one chat request: a single user message plus sampling settings.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Temperatures per report kind.
var temperatures = map[ReportKind]float64{
	KindSummary:       0.7,
	KindStructure:     0.7,
	KindDocumentation: 0.5,
	KindSuggestions:   0.8,
}

const (
	summaryReadmeLimit = 2000
	docsReadmeLimit    = 1500
	packageJSONLimit   = 1000
)

// BuildPrompt returns the prompt for kind. language is the natural
// language the report should be written in.
func BuildPrompt(kind ReportKind, in Input, language string) (Prompt, error) {
	if language == "" {
		language = "English"
	}
	var user string
	switch kind {
	case KindSummary:
		user = summaryPrompt(in, language)
	case KindStructure:
		user = structurePrompt(in, language)
	case KindDocumentation:
		user = documentationPrompt(in, language)
	case KindSuggestions:
		user = suggestionsPrompt(in, language)
	default:
		return Prompt{}, fmt.Errorf("unknown report kind %q", kind)
	}
	return Prompt{User: user, Temperature: temperatures[kind]}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func mark(ok bool, yes, no string) string {
	if ok {
		return "[x] " + yes
	}
	return "[ ] " + no
}

func fileNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func summaryPrompt(in Input, language string) string {
	var sb strings.Builder
	sb.WriteString("You are an experienced code analyst. Analyze this GitHub repository and write a concise, professional summary in Markdown.\n\n")
	sb.WriteString("REPOSITORY:\n")
	sb.WriteString(fmt.Sprintf("- Name: %s\n", in.Info.Name))
	sb.WriteString(fmt.Sprintf("- Description: %s\n", in.Info.Description))
	sb.WriteString(fmt.Sprintf("- Main language: %s\n", in.Info.Language))
	sb.WriteString(fmt.Sprintf("- Stars: %d\n", in.Info.Stars))
	sb.WriteString(fmt.Sprintf("- Forks: %d\n\n", in.Info.Forks))

	sb.WriteString("LANGUAGES:\n")
	for _, l := range in.Languages.Sorted() {
		sb.WriteString(fmt.Sprintf("- %s: %d bytes\n", l.Name, l.Bytes))
	}

	sb.WriteString(fmt.Sprintf("\nREADME (first %d characters):\n", summaryReadmeLimit))
	sb.WriteString(truncate(in.Files["README.md"], summaryReadmeLimit))
	sb.WriteString("\n\nPACKAGE.JSON:\n")
	sb.WriteString(truncate(in.Files["package.json"], packageJSONLimit))

	sb.WriteString(fmt.Sprintf("\n\nWrite the summary in %s using this Markdown structure:\n\n", language))
	sb.WriteString("## Main Goal\n[2-3 sentences describing the purpose of the project]\n\n")
	sb.WriteString("## Key Technologies\n- [List the key technologies]\n\n")
	sb.WriteString("## Target Audience\n[Who should use this project]\n\n")
	sb.WriteString("## Highlights\n- [Main differentiators and features]\n\n")
	sb.WriteString("Be direct and professional. Use Markdown for formatting.")
	return sb.String()
}

func structurePrompt(in Input, language string) string {
	var sb strings.Builder
	sb.WriteString("As a software architecture analyst, analyze the structure of this project in Markdown:\n\n")
	sb.WriteString("MAIN FILES:\n")
	sb.WriteString(strings.Join(fileNames(in.Files), ", "))
	sb.WriteString("\n\nLANGUAGES:\n")
	sb.WriteString(strings.Join(in.Languages.Names(), ", "))
	sb.WriteString("\n\nSTRUCTURE:\n")
	sb.WriteString(in.Structure)

	sb.WriteString(fmt.Sprintf("\n\nWrite a structured analysis in %s using this Markdown structure:\n\n", language))
	sb.WriteString("## Architecture Type\n[Identify: MVC, microservices, monolith, etc]\n\n")
	sb.WriteString("## Organization\n[Explain the folder structure and conventions]\n\n")
	sb.WriteString("## Detected Patterns\n[List the code patterns you identified]\n\n")
	sb.WriteString("## Structure Quality\n**Score:** [1-10]/10\n\n")
	sb.WriteString("### Strengths\n- [List the positives]\n\n")
	sb.WriteString("### Areas of Attention\n- [List what could improve]\n\n")
	sb.WriteString("Be technical but understandable.")
	return sb.String()
}

func documentationPrompt(in Input, language string) string {
	readme, ok := in.Files["README.md"]
	if !ok {
		readme = "No README"
	}
	_, hasPackageJSON := in.Files["package.json"]
	_, hasRequirements := in.Files["requirements.txt"]

	var sb strings.Builder
	sb.WriteString("As a technical writer, create professional Markdown documentation for this project:\n\n")
	sb.WriteString(fmt.Sprintf("PROJECT: %s\n", in.Info.Name))
	sb.WriteString(fmt.Sprintf("DESCRIPTION: %s\n", in.Info.Description))
	sb.WriteString(fmt.Sprintf("LANGUAGE: %s\n\n", in.Info.Language))
	sb.WriteString("EXISTING README:\n")
	sb.WriteString(truncate(readme, docsReadmeLimit))
	sb.WriteString("\n\nDEPENDENCY FILES:\n")
	sb.WriteString(mark(hasPackageJSON, "package.json found", "package.json not found") + "\n")
	sb.WriteString(mark(hasRequirements, "requirements.txt found", "requirements.txt not found") + "\n")

	sb.WriteString(fmt.Sprintf("\nWrite complete documentation in %s using this Markdown structure:\n\n", language))
	sb.WriteString(fmt.Sprintf("# %s\n\n", in.Info.Name))
	sb.WriteString("## Overview\n[Clear description of what the project does]\n\n")
	sb.WriteString("## Getting Started\n\n### Prerequisites\n[List required tools]\n\n")
	sb.WriteString("### Installation\n```bash\n[Installation commands]\n```\n\n")
	sb.WriteString("### Basic Usage\n[Practical examples]\n\n")
	sb.WriteString("## Project Structure\n[Explain the organization]\n\n")
	sb.WriteString("## Contributing\n[Instructions for contributors]\n\n")
	sb.WriteString("## License\n[License information]\n\n")
	sb.WriteString("Use complete Markdown.")
	return sb.String()
}

func suggestionsPrompt(in Input, language string) string {
	st := in.Stats
	var sb strings.Builder
	sb.WriteString("As a software engineering consultant, analyze this project and suggest improvements in Markdown:\n\n")
	sb.WriteString(fmt.Sprintf("PROJECT: %s\n", in.Info.Name))
	sb.WriteString(fmt.Sprintf("LANGUAGE: %s\n", in.Info.Language))
	sb.WriteString(fmt.Sprintf("STARS: %d\n\n", in.Info.Stars))
	sb.WriteString("CURRENT STATUS:\n")
	sb.WriteString("- README: " + mark(st.HasDocs, "present", "missing") + "\n")
	sb.WriteString("- Tests: " + mark(st.HasTests, "detected", "not detected") + "\n")
	sb.WriteString("- CI/CD: " + mark(st.HasCI, "configured", "not configured") + "\n")
	sb.WriteString("- License: " + mark(st.HasLicense, "present", "missing") + "\n\n")
	sb.WriteString("LANGUAGES:\n")
	sb.WriteString(strings.Join(in.Languages.Names(), ", "))
	sb.WriteString("\n\nSTRUCTURE:\n")
	sb.WriteString(in.Structure)

	sb.WriteString(fmt.Sprintf("\n\nWrite prioritized suggestions in %s using this Markdown structure:\n\n", language))
	sb.WriteString("## Urgent\n[2-3 critical improvements to make immediately]\n\n")
	sb.WriteString("## Important\n[3-4 relevant improvements for the next steps]\n\n")
	sb.WriteString("## Good Practices\n[2-3 long-term suggestions]\n\n")
	sb.WriteString("## Extra Tips\n[Recommended tools, libraries, resources]\n\n")
	sb.WriteString("## Action Plan\n1. [First step]\n2. [Second step]\n3. [Third step]\n\n")
	sb.WriteString("Be specific and practical.")
	return sb.String()
}
