package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBasic(t *testing.T) {
	doc := []byte("---\ntitle: Hello\n---\n# Body\n")
	fm, body, err := Split(doc)
	require.NoError(t, err)
	assert.Equal(t, "title: Hello\n", string(fm))
	assert.Equal(t, "# Body\n", string(body))
}

func TestSplitCRLF(t *testing.T) {
	doc := []byte("---\r\ntitle: Hello\r\n---\r\nbody\r\n")
	fm, body, err := Split(doc)
	require.NoError(t, err)
	assert.Equal(t, "title: Hello\r\n", string(fm))
	assert.Equal(t, "body\r\n", string(body))
}

func TestSplitEmptyFrontmatter(t *testing.T) {
	fm, body, err := Split([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	assert.Empty(t, fm)
	assert.Equal(t, "body\n", string(body))
}

func TestSplitMissingFrontmatter(t *testing.T) {
	_, _, err := Split([]byte("# Just markdown\n"))
	require.ErrorIs(t, err, ErrMissingFrontMatter)
}

func TestSplitMissingClosingDelimiter(t *testing.T) {
	_, _, err := Split([]byte("---\ntitle: Hello\nno closer\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestSplitCloserAtEOF(t *testing.T) {
	fm, body, err := Split([]byte("---\ntitle: Hello\n---"))
	require.NoError(t, err)
	assert.Equal(t, "title: Hello\n", string(fm))
	assert.Empty(t, body)
}

func TestSplitBodyContainingDashes(t *testing.T) {
	doc := []byte("---\ntitle: Hello\n---\nintro\n\n---\n\noutro\n")
	fm, body, err := Split(doc)
	require.NoError(t, err)
	assert.Equal(t, "title: Hello\n", string(fm))
	assert.Contains(t, string(body), "outro")
}

func TestDecodeTyped(t *testing.T) {
	var meta struct {
		Title string   `yaml:"title"`
		Tags  []string `yaml:"tags"`
	}
	err := Decode([]byte("title: Hi\ntags: [a, b]\n"), &meta)
	require.NoError(t, err)
	assert.Equal(t, "Hi", meta.Title)
	assert.Equal(t, []string{"a", "b"}, meta.Tags)
}
