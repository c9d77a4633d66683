package structure

import (
	"path"
	"strings"
)

// TOCItem is one heading of a rendered page.
type TOCItem struct {
	Title string
	ID    string
	Level int
}

type Page struct {
	File *File
	// Title is the resolved, possibly translated, page title.
	Title string
	// SourceTitle is the title before any translation.
	SourceTitle string
	Meta        map[string]interface{}
	Markdown    string
	Content     string
	TOC         []TOCItem
	// Locale is the locale the page content is written in.
	Locale string
}

func NewPage(f *File) *Page {
	return &Page{File: f}
}

func (p *Page) URL() string {
	return p.File.URL
}

// IsHomepage reports whether the page renders the index of its build.
func (p *Page) IsHomepage() bool {
	return p.File.CanonicalPath == "index.md" || p.File.CanonicalPath == "README.md"
}

// TitleFromPath derives a display title from a file or directory name.
func TitleFromPath(p string) string {
	base := path.Base(p)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	if base == "" {
		return base
	}
	if c := base[0]; c >= 'a' && c <= 'z' {
		base = string(c-'a'+'A') + base[1:]
	}
	return base
}

// RelativeURL returns the URL of to as seen from a page served at from. Both
// are site-root relative.
func RelativeURL(from, to string) string {
	base := from
	if !strings.HasSuffix(base, "/") {
		base = path.Dir(base)
	}
	base = strings.Trim(base, "/")
	if base == "." {
		base = ""
	}

	trailing := to == "" || strings.HasSuffix(to, "/")
	target := strings.Trim(to, "/")

	var fromParts, toParts []string
	if base != "" {
		fromParts = strings.Split(base, "/")
	}
	if target != "" {
		toParts = strings.Split(target, "/")
	}

	common := 0
	for common < len(fromParts) && common < len(toParts) && fromParts[common] == toParts[common] {
		common++
	}

	parts := make([]string, 0, len(fromParts)-common+len(toParts)-common)
	for range fromParts[common:] {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[common:]...)

	rel := strings.Join(parts, "/")
	if rel == "" {
		return "./"
	}
	if trailing {
		rel += "/"
	}
	return rel
}

// BaseURL returns the relative path from a page to the site root, without a
// trailing slash.
func BaseURL(pageURL string) string {
	rel := RelativeURL(pageURL, "")
	if rel == "./" {
		return "."
	}
	return strings.TrimSuffix(rel, "/")
}
