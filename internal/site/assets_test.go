package site

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyOptimizedPassthrough(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	dst := filepath.Join(dir, "out", "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("plain bytes"), 0o644))

	require.NoError(t, copyOptimized(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("plain bytes"), got)
}

func TestCopyOptimizedReencodesPNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dot.png")
	dst := filepath.Join(dir, "out", "dot.png")

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(src, buf.Bytes(), 0o644))

	require.NoError(t, copyOptimized(src, dst))

	out, err := os.Open(dst)
	require.NoError(t, err)
	defer out.Close()
	decoded, err := png.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestCopyOptimizedCorruptImageFallsBack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	dst := filepath.Join(dir, "out", "broken.jpg")
	require.NoError(t, os.WriteFile(src, []byte("not a jpeg"), 0o644))

	require.NoError(t, copyOptimized(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("not a jpeg"), got)
}
