package generator

import "repo_analyzer/github"

// ReportKind names one of the four generated reports.
type ReportKind string

const (
	KindSummary       ReportKind = "summary"
	KindStructure     ReportKind = "structure"
	KindDocumentation ReportKind = "documentation"
	KindSuggestions   ReportKind = "suggestions"
)

// ReportKinds lists the reports in generation and export order.
var ReportKinds = []ReportKind{KindSummary, KindStructure, KindDocumentation, KindSuggestions}

// Input is everything the prompts are built from.
type Input struct {
	Info      github.RepoInfo
	Files     map[string]string
	Languages github.Languages
	Structure string // FormatStructure output
	Stats     github.Stats
}

// Report is one generated report, as Markdown and rendered HTML.
type Report struct {
	Kind     ReportKind `json:"kind"`
	Markdown string     `json:"markdown"`
	HTML     string     `json:"html"`
}
