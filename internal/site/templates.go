package site

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// Templates holds the parsed page template set. Each page template is the
// shared base plus a "main" block.
type Templates struct {
	post     *template.Template
	home     *template.Template
	archive  *template.Template
	tag      *template.Template
	tagIndex *template.Template
}

// templateFiles maps override file names (inside templates_dir) to builtins.
var templateFiles = map[string]string{
	"base.html":    baseTemplate,
	"post.html":    postTemplate,
	"home.html":    homeTemplate,
	"archive.html": archiveTemplate,
	"tag.html":     tagTemplate,
	"tags.html":    tagIndexTemplate,
}

// loadTemplates parses the template set. With dir == "" the builtins are
// used; otherwise every file in templateFiles must exist in dir.
func loadTemplates(dir string, funcs template.FuncMap) (*Templates, error) {
	src := func(name string) (string, error) {
		if dir == "" {
			return templateFiles[name], nil
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) // #nosec G304 - template dir comes from config
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrMissingTemplate, path)
		}
		return string(data), nil
	}

	baseSrc, err := src("base.html")
	if err != nil {
		return nil, err
	}
	base, err := template.New("base").Funcs(funcs).Parse(baseSrc)
	if err != nil {
		return nil, fmt.Errorf("parse base template: %w", err)
	}

	page := func(name string) (*template.Template, error) {
		pageSrc, err := src(name)
		if err != nil {
			return nil, err
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.Parse(pageSrc); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		return t, nil
	}

	ts := &Templates{}
	if ts.post, err = page("post.html"); err != nil {
		return nil, err
	}
	if ts.home, err = page("home.html"); err != nil {
		return nil, err
	}
	if ts.archive, err = page("archive.html"); err != nil {
		return nil, err
	}
	if ts.tag, err = page("tag.html"); err != nil {
		return nil, err
	}
	if ts.tagIndex, err = page("tags.html"); err != nil {
		return nil, err
	}
	return ts, nil
}

// Builtin templates. Kept deliberately plain: the stylesheet carries the look.

const baseTemplate = `<!DOCTYPE html>
<html lang="{{ .Site.Language }}">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .PageTitle }} · {{ .Site.Title }}</title>
  {{- with .Site.Description }}
  <meta name="description" content="{{ . }}">
  {{- end }}
  <link rel="stylesheet" href="/css/styles.css">
  <link rel="alternate" type="application/rss+xml" title="{{ .Site.Title }}" href="/feed.xml">
  {{- with .OG }}
  <meta property="og:title" content="{{ .Title }}">
  <meta property="og:type" content="{{ .Type }}">
  <meta property="og:url" content="{{ .URL }}">
  <meta property="og:description" content="{{ .Description }}">
  {{- with .Image }}
  <meta property="og:image" content="{{ . }}">
  {{- end }}
  {{- with .PublishedTime }}
  <meta property="article:published_time" content="{{ . }}">
  {{- end }}
  {{- end }}
  {{- if .Production }}
  {{ .Analytics }}
  {{- end }}
</head>
<body>
<header>
  <nav>
    <a href="/" class="site-title">{{ .Site.Title }}</a>
    <a href="/archive/">Archive</a>
    <a href="/tags/">Tags</a>
    <a href="/feed.xml">RSS</a>
  </nav>
</header>
<main>
{{ block "main" . }}{{ end }}
</main>
<footer>
  <p>{{ with .Site.Author }}&copy; {{ . }} &middot; {{ end }}built from {{ .Commit }}</p>
</footer>
</body>
</html>
{{ define "postlist" }}
<ul class="post-list">
{{- range . }}
  <li>
    <h3><a href="{{ .Href }}">{{ .Title }}</a></h3>
    <time datetime="{{ .ISODate }}">{{ .HumanDate }}</time>
    {{- with .Summary }}
    <p class="summary">{{ . }}</p>
    {{- end }}
  </li>
{{- end }}
</ul>
{{ end }}`

const postTemplate = `{{ define "main" }}
<article>
  <header>
    <h1>{{ .Post.Title }}</h1>
    <p class="meta"><time datetime="{{ .Post.ISODate }}">{{ .Post.HumanDate }}</time></p>
    {{- if .Post.Tags }}
    <ul class="tags">
      {{- range .Post.Tags }}
      <li><a href="{{ tagURL . }}">{{ . }}</a></li>
      {{- end }}
    </ul>
    {{- end }}
  </header>
  <div class="content">
{{ .Post.BodyHTML }}
  </div>
</article>
{{ end }}`

const homeTemplate = `{{ define "main" }}
<section>
  <h1>Recent posts</h1>
  {{ template "postlist" .Posts }}
  <p><a href="/archive/">All posts &rarr;</a></p>
</section>
{{ end }}`

const archiveTemplate = `{{ define "main" }}
<section>
  <h1>Archive</h1>
  {{- range .Years }}
  <h2>{{ .Year }}</h2>
  {{- range .Months }}
  <h3>{{ .Name }}</h3>
  {{ template "postlist" .Posts }}
  {{- end }}
  {{- end }}
</section>
{{ end }}`

const tagTemplate = `{{ define "main" }}
<section>
  <h1>Tagged &ldquo;{{ .Tag }}&rdquo;</h1>
  {{ template "postlist" .Posts }}
</section>
{{ end }}`

const tagIndexTemplate = `{{ define "main" }}
<section>
  <h1>Tags</h1>
  <ul class="tag-index">
  {{- range .Tags }}
    <li><a href="{{ .Href }}">{{ .Name }}</a> <span class="count">{{ .Count }}</span></li>
  {{- end }}
  </ul>
</section>
{{ end }}`
