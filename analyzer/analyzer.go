// Package analyzer runs the analysis chain for one repository: metadata,
// tree, files and languages from GitHub, then the four generated reports.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"repo_analyzer/exporter"
	"repo_analyzer/generator"
	"repo_analyzer/github"
)

// Source is the repository metadata side of the chain.
type Source interface {
	GetInfo(ctx context.Context, ref github.RepoRef) (github.RepoInfo, error)
	BuildFileTree(ctx context.Context, ref github.RepoRef, maxDepth, maxEntries int) []github.Node
	GetImportantFiles(ctx context.Context, ref github.RepoRef) map[string]string
	GetLanguages(ctx context.Context, ref github.RepoRef) (github.Languages, error)
}

// Generator produces one report.
type Generator interface {
	Generate(ctx context.Context, kind generator.ReportKind, in generator.Input) (generator.Report, error)
}

// Step is a progress notification sent before a step starts.
type Step struct {
	Index   int    `json:"index"` // 1-based
	Total   int    `json:"total"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

const (
	StepInfo      = "info"
	StepTree      = "tree"
	StepFiles     = "files"
	StepLanguages = "languages"
)

var stepMessages = map[string]string{
	StepInfo:                            "Fetching repository information...",
	StepTree:                            "Analyzing file structure...",
	StepFiles:                           "Reading important files...",
	StepLanguages:                       "Identifying languages...",
	string(generator.KindSummary):       "Generating summary...",
	string(generator.KindStructure):     "Analyzing architecture...",
	string(generator.KindDocumentation): "Generating documentation...",
	string(generator.KindSuggestions):   "Creating improvement suggestions...",
}

// TotalSteps is the number of progress notifications of a full run.
var TotalSteps = 4 + len(generator.ReportKinds)

type Options struct {
	MaxDepth   int
	MaxEntries int
	Verbose    bool
	Logger     *log.Logger
	Now        func() time.Time
}

// Coordinator sequences the chain. It keeps no state between runs.
type Coordinator struct {
	src  Source
	gen  Generator
	opts Options
}

func New(src Source, gen Generator, opts Options) (*Coordinator, error) {
	if src == nil || gen == nil {
		return nil, errors.New("analyzer: source and generator are required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Coordinator{src: src, gen: gen, opts: opts}, nil
}

func (c *Coordinator) infof(format string, args ...interface{}) {
	if !c.opts.Verbose {
		return
	}
	c.opts.Logger.Printf("[INFO] "+format, args...)
}

type run struct {
	ctx      context.Context
	progress func(Step)
	index    int
}

func (r *run) step(name string) error {
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	r.index++
	if r.progress != nil {
		r.progress(Step{Index: r.index, Total: TotalSteps, Name: name, Message: stepMessages[name]})
	}
	return nil
}

// Run analyzes rawURL. Steps run strictly in order and the first failure
// ends the run; the bundle is only returned when every step succeeded.
// progress may be nil.
func (c *Coordinator) Run(ctx context.Context, rawURL string, progress func(Step)) (*exporter.Bundle, error) {
	ref, err := github.ParseRepoURL(rawURL)
	if err != nil {
		return nil, err
	}
	r := &run{ctx: ctx, progress: progress}
	c.infof("Analyzing %s", ref)

	if err := r.step(StepInfo); err != nil {
		return nil, err
	}
	info, err := c.src.GetInfo(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StepInfo, err)
	}

	if err := r.step(StepTree); err != nil {
		return nil, err
	}
	tree := c.src.BuildFileTree(ctx, ref, c.opts.MaxDepth, c.opts.MaxEntries)
	structure := github.FormatStructure(tree)

	if err := r.step(StepFiles); err != nil {
		return nil, err
	}
	files := c.src.GetImportantFiles(ctx, ref)

	if err := r.step(StepLanguages); err != nil {
		return nil, err
	}
	langs, err := c.src.GetLanguages(ctx, ref)
	if err != nil {
		c.opts.Logger.Printf("[WARN] languages for %s: %v", ref, err)
		langs = github.Languages{}
	}

	in := generator.Input{
		Info:      info,
		Files:     files,
		Languages: langs,
		Structure: structure,
		Stats:     github.CalculateStats(langs, files, tree),
	}
	reports := make(map[generator.ReportKind]generator.Report, len(generator.ReportKinds))
	for _, kind := range generator.ReportKinds {
		if err := r.step(string(kind)); err != nil {
			return nil, err
		}
		rep, err := c.gen.Generate(ctx, kind, in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		reports[kind] = rep
	}

	c.infof("Analysis of %s complete: %d files, %d languages", ref, len(files), len(langs))
	return &exporter.Bundle{Repo: info, Reports: reports, CreatedAt: c.opts.Now()}, nil
}
