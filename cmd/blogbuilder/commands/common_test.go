package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

func TestResolveOutputDir(t *testing.T) {
	cfg := &config.Config{}
	cfg.Output.Directory = "site-out"

	assert.Equal(t, "flag-out", ResolveOutputDir("flag-out", cfg))
	assert.Equal(t, "site-out", ResolveOutputDir("", cfg))

	cfg.Output.Directory = ""
	assert.Equal(t, "./output", ResolveOutputDir("", cfg))
}

func TestNewPostContent(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	content := newPostContent("my-first-post", now)

	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, "title: My First Post\n")
	assert.Contains(t, content, "pub_date: 2026-08-29T12:00:00Z\n")
	assert.Contains(t, content, "tags: []\n")
	assert.Contains(t, content, "\n---\n")
}
