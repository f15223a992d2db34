// Package frontmatter separates a leading YAML frontmatter block from a
// markdown body so the body can be tokenized on its own.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split is the result of separating frontmatter from a document.
type Split struct {
	// Raw is the YAML between the delimiters, without them.
	Raw []byte
	// Body is everything after the closing delimiter line.
	Body []byte
	// Had reports whether the document started with frontmatter.
	Had bool
	// BodyLine is the zero-based line of the original document on which
	// Body starts. Token line maps of the body are shifted by it.
	BodyLine int
}

// SplitDocument separates YAML frontmatter (`---` delimited) from the
// markdown body. Both "\n" and "\r\n" line endings are recognized.
//
// If the document does not start with a delimiter line, Had is false and
// Body is the full input.
func SplitDocument(content []byte) (Split, error) {
	nl := newline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return Split{Body: content}, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return Split{Raw: []byte{}, Body: content[start+len(open):], Had: true, BodyLine: 2}, nil
	}

	if string(content[start:]) == "---" {
		return Split{Raw: []byte{}, Body: []byte{}, Had: true, BodyLine: 2}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// a closing delimiter may end the file
		tail := []byte(nl + "---")
		if !bytes.HasSuffix(content, tail) || len(content)-len(tail) < start {
			return Split{}, ErrMissingClosingDelimiter
		}
		idx = len(content) - len(tail) - start
		closeSeq = tail
	}

	end := start + idx + len(nl)
	raw := content[start:end]
	return Split{
		Raw:      raw,
		Body:     content[start+idx+len(closeSeq):],
		Had:      true,
		BodyLine: 2 + bytes.Count(raw, []byte("\n")),
	}, nil
}

// Fields parses the frontmatter YAML. A document without frontmatter
// yields an empty map.
func (s Split) Fields() (map[string]any, error) {
	return ParseYAML(s.Raw)
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
