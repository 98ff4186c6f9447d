package exporter

import (
	"fmt"
	"html/template"
	"io"

	"repo_analyzer/generator"
	"repo_analyzer/github"
)

var reportPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Repo.Name}} - Repository Analysis</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #0f172a; color: #e2e8f0; }
header { background: #0ea5e9; color: #fff; padding: 24px 32px; }
main { max-width: 960px; margin: 0 auto; padding: 24px 32px; }
.card { background: #1e293b; border-radius: 8px; padding: 16px 20px; margin-bottom: 24px; }
.card img { width: 48px; height: 48px; border-radius: 50%; float: right; }
.stats span { margin-right: 24px; color: #94a3b8; }
section h2.kind { color: #0ea5e9; border-left: 5px solid #0ea5e9; padding-left: 8px; }
pre { background: #020617; padding: 12px; overflow-x: auto; }
footer { color: #94a3b8; font-size: 12px; padding: 16px 32px; }
</style>
</head>
<body>
<header><h1>GitHub Analyzer</h1><p>AI Repository Analysis</p></header>
<main>
<div class="card">
{{if .Repo.Avatar}}<img src="{{.Repo.Avatar}}" alt="">{{end}}
<h2><a href="{{.Repo.URL}}">{{.Repo.Name}}</a></h2>
<p>{{.Repo.Description}}</p>
<p class="stats"><span>{{.Stars}} stars</span><span>{{.Forks}} forks</span><span>{{.Repo.Language}}</span></p>
</div>
{{range .Sections}}<section id="{{.Kind}}">
<h2 class="kind">{{.Title}}</h2>
{{.Body}}
</section>
{{end}}</main>
<footer>Generated on {{.Date}}</footer>
</body>
</html>
`))

type htmlSection struct {
	Kind  generator.ReportKind
	Title string
	Body  template.HTML
}

// RenderHTML writes b as a self-contained HTML page. Report bodies are
// inserted as rendered, without escaping.
func (e *Exporter) RenderHTML(b *Bundle, w io.Writer) error {
	if err := b.Check(); err != nil {
		return err
	}
	loc := e.opts.Locale
	data := struct {
		Lang     string
		Repo     github.RepoInfo
		Stars    string
		Forks    string
		Date     string
		Sections []htmlSection
	}{
		Lang:  loc.Tag.String(),
		Repo:  b.Repo,
		Stars: loc.Number(b.Repo.Stars),
		Forks: loc.Number(b.Repo.Forks),
		Date:  loc.Date(e.opts.Now()),
	}
	for _, kind := range generator.ReportKinds {
		data.Sections = append(data.Sections, htmlSection{
			Kind:  kind,
			Title: sectionTitles[kind],
			Body:  template.HTML(b.Reports[kind].HTML),
		})
	}
	if err := reportPage.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
