package generator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// Some models wrap the whole answer in a ```markdown fence.
	outerFenceRe = regexp.MustCompile("(?s)^```(?:markdown|md)?\\s*\n(.*)\n```$")
	crlfRe       = regexp.MustCompile(`\r\n?`)
)

// PostProcess normalises the raw model output into report Markdown.
func PostProcess(raw string) (string, error) {
	md := strings.TrimSpace(crlfRe.ReplaceAllString(raw, "\n"))
	if md == "" {
		return "", errors.New("model returned empty markdown")
	}
	if m := outerFenceRe.FindStringSubmatch(md); m != nil {
		md = strings.TrimSpace(m[1])
	}
	return md, nil
}
