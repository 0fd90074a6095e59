package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHeadingWithID(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render([]byte("## Section Title\n"))
	require.NoError(t, err)
	assert.Contains(t, out, `id="section-title"`)
	assert.Contains(t, out, "Section Title</h2>")
}

func TestRenderGFMTable(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
}

func TestRenderRawHTMLPassthrough(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render([]byte("<video src=\"clip.mp4\"></video>\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "<video")
}

func TestRenderRelativeImage(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render([]byte("![alt](photo.jpg)\n"))
	require.NoError(t, err)
	assert.Contains(t, out, `src="photo.jpg"`)
}
