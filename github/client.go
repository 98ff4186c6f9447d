// Package github reads public repository metadata from the GitHub REST API.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"repo_analyzer/apperr"
)

const (
	DefaultBaseURL    = "https://api.github.com"
	DefaultMaxDepth   = 1
	DefaultMaxEntries = 20
)

// ImportantFiles are fetched best-effort to give the model project context.
var ImportantFiles = []string{
	"README.md",
	"package.json",
	"requirements.txt",
	"setup.py",
	"Cargo.toml",
	"go.mod",
	"pom.xml",
	"build.gradle",
}

var repoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`),
	regexp.MustCompile(`^([^/]+)/([^/]+)$`),
}

// ParseRepoURL extracts owner and repo from a full GitHub URL or a bare
// "owner/repo". The first matching pattern wins; a trailing .git is dropped.
func ParseRepoURL(raw string) (RepoRef, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return RepoRef{}, apperr.ErrInvalidURL
	}
	for _, re := range repoPatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return RepoRef{Owner: m[1], Repo: strings.TrimSuffix(m[2], ".git")}, nil
		}
	}
	return RepoRef{}, fmt.Errorf("%w: %q", apperr.ErrInvalidURL, s)
}

// Settings configures a Client.
type Settings struct {
	BaseURL string
	Token   string
}

// Client talks to the GitHub REST API. Calls are sequential; a Client has
// no mutable state after construction.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	verbose bool
	logger  *log.Logger
}

func New(cfg Settings, client *http.Client, verbose bool, logger *log.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		token:   cfg.Token,
		client:  client,
		verbose: verbose,
		logger:  logger,
	}
}

func (c *Client) infof(format string, args ...interface{}) {
	if !c.verbose {
		return
	}
	c.logger.Printf("[INFO] "+format, args...)
}

// getJSON fetches path and decodes a 2xx body into v. Non-2xx responses
// come back as *apperr.UpstreamError carrying the status.
func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "repo-analyzer")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperr.Transport("github", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResp
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(body, &e)
		msg := e.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return apperr.Upstream("github", resp.StatusCode, msg)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func statusOf(err error) int {
	var up *apperr.UpstreamError
	if errors.As(err, &up) {
		return up.Status
	}
	return 0
}

func repoPath(ref RepoRef) string {
	return "/repos/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Repo)
}

func contentsPath(ref RepoRef, p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return repoPath(ref) + "/contents/" + strings.Join(segs, "/")
}

// GetInfo fetches the repository metadata. A 404 is apperr.ErrNotFound.
func (c *Client) GetInfo(ctx context.Context, ref RepoRef) (RepoInfo, error) {
	var data repoResp
	if err := c.getJSON(ctx, repoPath(ref), &data); err != nil {
		if statusOf(err) == http.StatusNotFound {
			return RepoInfo{}, fmt.Errorf("%w: %s", apperr.ErrNotFound, ref)
		}
		return RepoInfo{}, fmt.Errorf("fetch repository %s: %w", ref, err)
	}

	info := RepoInfo{
		Name:          data.FullName,
		Description:   "No description",
		Stars:         data.Stars,
		Forks:         data.Forks,
		Language:      "Not specified",
		Avatar:        data.Owner.AvatarURL,
		URL:           data.HTMLURL,
		Topics:        data.Topics,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
		Size:          data.Size,
		DefaultBranch: data.DefaultBranch,
	}
	if data.Description != nil && *data.Description != "" {
		info.Description = *data.Description
	}
	if data.Language != nil && *data.Language != "" {
		info.Language = *data.Language
	}
	if info.Topics == nil {
		info.Topics = []string{}
	}
	if info.Name == "" {
		info.Name = ref.String()
	}
	c.infof("Fetched repository %s (%d stars)", info.Name, info.Stars)
	return info, nil
}

// ListDirectory lists one directory; path "" is the repository root.
func (c *Client) ListDirectory(ctx context.Context, ref RepoRef, path string) ([]Entry, error) {
	var entries []Entry
	if err := c.getJSON(ctx, contentsPath(ref, path), &entries); err != nil {
		return nil, fmt.Errorf("list %s/%s: %w", ref, path, err)
	}
	return entries, nil
}

// BuildFileTree lists the repository breadth-first up to maxDepth levels,
// keeping the first maxEntries entries of each directory. Listing failures
// leave that directory empty.
func (c *Client) BuildFileTree(ctx context.Context, ref RepoRef, maxDepth, maxEntries int) []Node {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return c.buildTree(ctx, ref, "", 0, maxDepth, maxEntries)
}

func (c *Client) buildTree(ctx context.Context, ref RepoRef, path string, depth, maxDepth, maxEntries int) []Node {
	if depth >= maxDepth {
		return nil
	}
	entries, err := c.ListDirectory(ctx, ref, path)
	if err != nil {
		c.logger.Printf("[WARN] build tree %q: %v", path, err)
		return []Node{}
	}
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}

	tree := make([]Node, 0, len(entries))
	for _, e := range entries {
		n := Node{Entry: e}
		if e.Type == "dir" {
			n.Size = 0
			n.Children = c.buildTree(ctx, ref, e.Path, depth+1, maxDepth, maxEntries)
		}
		tree = append(tree, n)
	}
	return tree
}

// GetFileContent returns the decoded text of a file. A 404 is apperr.ErrFileMissing.
func (c *Client) GetFileContent(ctx context.Context, ref RepoRef, filename string) (string, error) {
	var data contentResp
	if err := c.getJSON(ctx, contentsPath(ref, filename), &data); err != nil {
		if statusOf(err) == http.StatusNotFound {
			return "", fmt.Errorf("%w: %s", apperr.ErrFileMissing, filename)
		}
		return "", fmt.Errorf("fetch %s: %w", filename, err)
	}
	if data.Encoding != "" && data.Encoding != "base64" {
		return data.Content, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(data.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filename, err)
	}
	return string(raw), nil
}

// GetImportantFiles fetches ImportantFiles in order. Files that are
// missing or fail to load are skipped.
func (c *Client) GetImportantFiles(ctx context.Context, ref RepoRef) map[string]string {
	files := make(map[string]string)
	for _, name := range ImportantFiles {
		content, err := c.GetFileContent(ctx, ref, name)
		if err != nil {
			c.infof("Skipping %s: %v", name, err)
			continue
		}
		files[name] = content
	}
	return files
}

// GetLanguages returns the language breakdown in bytes per language.
func (c *Client) GetLanguages(ctx context.Context, ref RepoRef) (Languages, error) {
	langs := Languages{}
	if err := c.getJSON(ctx, repoPath(ref)+"/languages", &langs); err != nil {
		return nil, fmt.Errorf("fetch languages for %s: %w", ref, err)
	}
	return langs, nil
}
