package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplatesBuiltins(t *testing.T) {
	ts, err := loadTemplates("", (&Generator{}).templateFuncs())
	require.NoError(t, err)
	assert.NotNil(t, ts.post)
	assert.NotNil(t, ts.home)
	assert.NotNil(t, ts.archive)
	assert.NotNil(t, ts.tag)
	assert.NotNil(t, ts.tagIndex)
}

func TestLoadTemplatesOverrideDir(t *testing.T) {
	dir := t.TempDir()
	for name, src := range templateFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}

	ts, err := loadTemplates(dir, (&Generator{}).templateFuncs())
	require.NoError(t, err)
	assert.NotNil(t, ts.post)
}

func TestLoadTemplatesMissingOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.html"), []byte("{{ block \"main\" . }}{{ end }}"), 0o644))

	_, err := loadTemplates(dir, (&Generator{}).templateFuncs())
	require.ErrorIs(t, err, ErrMissingTemplate)
	assert.True(t, strings.Contains(err.Error(), "post.html"))
}
