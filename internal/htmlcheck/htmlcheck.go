// Package htmlcheck inspects rendered HTML pages: it extracts links and
// OpenGraph metadata so the build's verify stage (and tests) can assert the
// emitted tree is internally consistent before it is published.
package htmlcheck

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL        string // The URL or path
	Tag        string // HTML tag (a, img, link, script)
	Attribute  string // Attribute containing the link (href, src)
	IsInternal bool   // True if the link targets this site
}

// Page is the inspection result for one HTML document.
type Page struct {
	Links     []Link
	OpenGraph map[string]string // og:* / article:* property -> content
	Title     string
}

// InspectFile parses an HTML file from disk.
func InspectFile(path string) (*Page, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open html file: %w", err)
	}
	defer f.Close()
	return Inspect(f)
}

// Inspect parses an HTML document and collects links and OpenGraph metadata.
func Inspect(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	page := &Page{OpenGraph: make(map[string]string)}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a", "link":
				if href := attr(n, "href"); href != "" {
					page.Links = append(page.Links, Link{URL: href, Tag: n.Data, Attribute: "href", IsInternal: isInternal(href)})
				}
			case "img", "script":
				if src := attr(n, "src"); src != "" {
					page.Links = append(page.Links, Link{URL: src, Tag: n.Data, Attribute: "src", IsInternal: isInternal(src)})
				}
			case "meta":
				prop := attr(n, "property")
				if strings.HasPrefix(prop, "og:") || strings.HasPrefix(prop, "article:") {
					page.OpenGraph[prop] = attr(n, "content")
				}
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					page.Title = n.FirstChild.Data
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return page, nil
}

// RequireOpenGraph verifies the page carries the OpenGraph tags every post
// page must have. Returns nil when all required properties are present and
// non-empty.
func (p *Page) RequireOpenGraph(props ...string) error {
	for _, prop := range props {
		if p.OpenGraph[prop] == "" {
			return fmt.Errorf("missing or empty OpenGraph property %s", prop)
		}
	}
	return nil
}

// VerifyInternalLinks checks that every internal link on the page resolves to
// a file inside root. pageDir is the directory of the page being checked,
// used to resolve relative links.
func (p *Page) VerifyInternalLinks(root, pageDir string) error {
	for _, link := range p.Links {
		if !link.IsInternal {
			continue
		}
		target := strings.SplitN(link.URL, "#", 2)[0]
		target = strings.SplitN(target, "?", 2)[0]
		if target == "" {
			continue // pure fragment
		}

		var fsPath string
		if strings.HasPrefix(target, "/") {
			fsPath = filepath.Join(root, filepath.FromSlash(target))
		} else {
			fsPath = filepath.Join(pageDir, filepath.FromSlash(target))
		}

		info, err := os.Stat(fsPath)
		if err != nil {
			return fmt.Errorf("internal link %q does not resolve under %s", link.URL, root)
		}
		// Directory links must contain an index page.
		if info.IsDir() {
			if _, err := os.Stat(filepath.Join(fsPath, "index.html")); err != nil {
				return fmt.Errorf("internal link %q resolves to a directory without index.html", link.URL)
			}
		}
	}
	return nil
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func isInternal(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
