// Package frontmatter splits YAML front matter from markdown documents and
// decodes the fields the site cares about.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Fields is the decoded front matter of a content document. Zero values mean
// "not set".
type Fields struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	Description     string   `yaml:"description"`
	SidebarLabel    string   `yaml:"sidebar_label"`
	SidebarPosition *float64 `yaml:"sidebar_position"`
	Slug            string   `yaml:"slug"`
	Tags            []string `yaml:"tags"`
	Draft           bool     `yaml:"draft"`
}

// Split separates YAML front matter (`---` delimited) from the markdown body.
//
// If the document does not start with a delimiter, had is false and body is
// the full input.
func Split(content []byte) (fm []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the final line without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) {
			return content[start : len(content)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// Parse splits content and decodes its front matter.
func Parse(content []byte) (Fields, []byte, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Fields{}, nil, err
	}
	if !had || len(bytes.TrimSpace(raw)) == 0 {
		return Fields{}, body, nil
	}

	var f Fields
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Fields{}, nil, fmt.Errorf("decode front matter: %w", err)
	}
	return f, body, nil
}
