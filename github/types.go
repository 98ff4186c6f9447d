package github

import (
	"sort"
	"time"
)

// RepoRef identifies a repository.
type RepoRef struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Repo }

// RepoInfo is the metadata snapshot shown on the report card.
type RepoInfo struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Language      string    `json:"language"`
	Avatar        string    `json:"avatar"`
	URL           string    `json:"url"`
	Topics        []string  `json:"topics"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Size          int       `json:"size"`
	DefaultBranch string    `json:"default_branch"`
}

// Entry is one item of a directory listing.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" or "dir"
	Size int64  `json:"size"`
}

// Node is an Entry with its (depth-limited) children.
type Node struct {
	Entry
	Children []Node `json:"children,omitempty"`
}

// Languages maps language name to bytes of code.
type Languages map[string]int64

// LanguageShare is one row of Languages.Sorted.
type LanguageShare struct {
	Name  string
	Bytes int64
}

// Sorted returns languages by descending byte count, ties by name.
func (l Languages) Sorted() []LanguageShare {
	out := make([]LanguageShare, 0, len(l))
	for name, b := range l {
		out = append(out, LanguageShare{Name: name, Bytes: b})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bytes != out[j].Bytes {
			return out[i].Bytes > out[j].Bytes
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns language names in Sorted order.
func (l Languages) Names() []string {
	sorted := l.Sorted()
	names := make([]string, len(sorted))
	for i, s := range sorted {
		names[i] = s.Name
	}
	return names
}

// repoResp mirrors the fields of GET /repos/{owner}/{repo} we use.
type repoResp struct {
	FullName      string    `json:"full_name"`
	Description   *string   `json:"description"`
	Stars         int       `json:"stargazers_count"`
	Forks         int       `json:"forks_count"`
	Language      *string   `json:"language"`
	HTMLURL       string    `json:"html_url"`
	Topics        []string  `json:"topics"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Size          int       `json:"size"`
	DefaultBranch string    `json:"default_branch"`
	Owner         struct {
		AvatarURL string `json:"avatar_url"`
	} `json:"owner"`
}

type contentResp struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type errorResp struct {
	Message string `json:"message"`
}
