package github

import (
	"strings"
)

// FormatStructure renders a tree as an indented listing for prompts.
func FormatStructure(tree []Node) string {
	if len(tree) == 0 {
		return "Structure not available"
	}
	var b strings.Builder
	writeNodes(&b, tree, 0)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []Node, indent int) {
	prefix := strings.Repeat("  ", indent)
	for _, n := range nodes {
		kind := "[file]"
		if n.Type == "dir" {
			kind = "[dir]"
		}
		b.WriteString(prefix + kind + " " + n.Name + "\n")
		writeNodes(b, n.Children, indent+1)
	}
}

// Stats summarises what the fetched files and tree reveal about a project.
type Stats struct {
	TotalFiles   int    `json:"total_files"`
	Languages    int    `json:"languages"`
	MainLanguage string `json:"main_language"`
	HasTests     bool   `json:"has_tests"`
	HasDocs      bool   `json:"has_docs"`
	HasCI        bool   `json:"has_ci"`
	HasLicense   bool   `json:"has_license"`
}

// CalculateStats inspects fetched file names and tree paths.
func CalculateStats(langs Languages, files map[string]string, tree []Node) Stats {
	st := Stats{
		TotalFiles: len(files),
		Languages:  len(langs),
	}
	if sorted := langs.Sorted(); len(sorted) > 0 {
		st.MainLanguage = sorted[0].Name
	}
	_, st.HasDocs = files["README.md"]

	paths := make([]string, 0, len(files))
	for name := range files {
		paths = append(paths, name)
	}
	walk(tree, func(n Node) { paths = append(paths, n.Path) })

	for _, p := range paths {
		lower := strings.ToLower(p)
		if strings.Contains(lower, "test") || strings.Contains(lower, "spec") {
			st.HasTests = true
		}
		if strings.Contains(lower, ".github") || strings.Contains(lower, ".gitlab-ci") || strings.Contains(lower, "jenkinsfile") {
			st.HasCI = true
		}
		if strings.Contains(lower, "license") {
			st.HasLicense = true
		}
		if strings.HasPrefix(lower, "docs/") || lower == "docs" {
			st.HasDocs = true
		}
	}
	return st
}

func walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		walk(n.Children, fn)
	}
}
