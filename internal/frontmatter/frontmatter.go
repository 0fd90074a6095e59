// Package frontmatter splits the `---` delimited YAML header of a post source
// from its Markdown body. The build never rewrites sources, so parsing here is
// read-only; there is no serialization counterpart.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// ErrMissingFrontMatter indicates the document has no frontmatter block at all.
var ErrMissingFrontMatter = errors.New("document does not start with a yaml frontmatter delimiter")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// Unlike generic splitters, a missing frontmatter block is an error here: every
// post source is required to carry one.
func Split(content []byte) (frontmatter []byte, body []byte, err error) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, nil, ErrMissingFrontMatter
	}

	fmStart := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[fmStart:], closeLine) {
		// Empty frontmatter block.
		return []byte{}, content[fmStart+len(closeLine):], nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[fmStart:], closeSeq)
	if idx < 0 {
		// Closing delimiter at EOF without trailing newline.
		if bytes.HasSuffix(content[fmStart:], []byte(nl+"---")) {
			return content[fmStart : len(content)-len("---")], nil, nil
		}
		return nil, nil, ErrMissingClosingDelimiter
	}

	fmEnd := fmStart + idx + len(nl)
	bodyStart := fmStart + idx + len(closeSeq)
	return content[fmStart:fmEnd], content[bodyStart:], nil
}

// Decode parses raw YAML frontmatter (without --- delimiters) into out.
func Decode(frontmatter []byte, out any) error {
	if len(frontmatter) == 0 {
		return nil
	}
	return yaml.Unmarshal(frontmatter, out)
}

func detectNewline(content []byte) string {
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			return "\r\n"
		}
		if content[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}
