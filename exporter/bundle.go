package exporter

import (
	"fmt"
	"strings"
	"time"

	"repo_analyzer/apperr"
	"repo_analyzer/generator"
	"repo_analyzer/github"
)

// Bundle is a completed analysis: the repository snapshot and its four
// reports. It is not modified after the analyzer hands it out.
type Bundle struct {
	Repo      github.RepoInfo                           `json:"repo"`
	Reports   map[generator.ReportKind]generator.Report `json:"reports"`
	CreatedAt time.Time                                 `json:"created_at"`
}

// Check reports apperr.ErrMissingData unless every report is present.
func (b *Bundle) Check() error {
	if b == nil {
		return apperr.ErrMissingData
	}
	if b.Repo.Name == "" {
		return fmt.Errorf("%w: repository info", apperr.ErrMissingData)
	}
	for _, kind := range generator.ReportKinds {
		r, ok := b.Reports[kind]
		if !ok || strings.TrimSpace(r.HTML) == "" {
			return fmt.Errorf("%w: %s report", apperr.ErrMissingData, kind)
		}
	}
	return nil
}

// FileName is the download name of a bundle's PDF, e.g. owner_repo_analysis.pdf.
func FileName(repo github.RepoInfo) string {
	return strings.Replace(repo.Name, "/", "_", 1) + "_analysis.pdf"
}
