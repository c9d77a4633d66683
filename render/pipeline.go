package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/logfields"
	"github.com/ZacxDev/go-static-i18n/plugins"
	"github.com/ZacxDev/go-static-i18n/structure"
)

// Pipeline populates and renders the pages of one build at a time.
type Pipeline struct {
	Plugins *plugins.Registry
	Log     *slog.Logger
}

func NewPipeline(registry *plugins.Registry, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Plugins: registry, Log: log}
}

// Populate reads the source of page and converts its markdown to HTML. Links
// to other documentation files are resolved against files.
func (p *Pipeline) Populate(page *structure.Page, cfg *config.Config, files *structure.Files, dirty bool) error {
	source, err := page.File.Read()
	if err != nil {
		return errors.Wrapf(err, "error reading %s", page.File.SrcPath)
	}

	meta, body, err := splitFrontMatter(string(source))
	if err != nil {
		return errors.Wrapf(err, "error parsing front matter of %s", page.File.SrcPath)
	}
	page.Meta = meta
	page.Title = pageTitle(meta, body, page.File)
	page.SourceTitle = page.Title

	body, err = p.Plugins.PageMarkdown(body, page, cfg, files)
	if err != nil {
		return err
	}
	page.Markdown = body

	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	doc := parser.NewWithExtensions(extensions).Parse([]byte(body))
	page.TOC = p.rewrite(doc, page, files)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	page.Content = string(markdown.Render(doc, renderer))
	return nil
}

// splitFrontMatter separates a leading YAML block delimited by --- lines.
func splitFrontMatter(content string) (map[string]interface{}, string, error) {
	meta := map[string]interface{}{}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return meta, content, nil
	}
	parts := strings.SplitN(content[len("---\n"):], "\n---\n", 2)
	if len(parts) != 2 {
		return meta, content, nil
	}
	if err := yaml.Unmarshal([]byte(parts[0]), &meta); err != nil {
		return nil, "", errors.WithStack(err)
	}
	return meta, parts[1], nil
}

// pageTitle prefers the title of the front matter, then the first level one
// heading, then the file name.
func pageTitle(meta map[string]interface{}, body string, f *structure.File) string {
	if t, ok := meta["title"].(string); ok && t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimRight(strings.TrimPrefix(line, "# "), "#"))
		}
	}
	if (&structure.Page{File: f}).IsHomepage() {
		return "Home"
	}
	return structure.TitleFromPath(f.CanonicalPath)
}

// rewrite points relative links at the URL of their target file and returns
// the headings of the document.
func (p *Pipeline) rewrite(doc ast.Node, page *structure.Page, files *structure.Files) []structure.TOCItem {
	var toc []structure.TOCItem
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Link:
			n.Destination = []byte(p.resolve(string(n.Destination), page, files))
		case *ast.Image:
			n.Destination = []byte(p.resolve(string(n.Destination), page, files))
		case *ast.Heading:
			if n.HeadingID != "" {
				toc = append(toc, structure.TOCItem{
					Title: headingText(n),
					ID:    n.HeadingID,
					Level: n.Level,
				})
			}
		}
		return ast.GoToNext
	})
	return toc
}

func headingText(h *ast.Heading) string {
	var buf bytes.Buffer
	ast.WalkFunc(h, func(node ast.Node, entering bool) ast.WalkStatus {
		if entering {
			if leaf := node.AsLeaf(); leaf != nil {
				buf.Write(leaf.Literal)
			}
		}
		return ast.GoToNext
	})
	return buf.String()
}

func (p *Pipeline) resolve(dest string, page *structure.Page, files *structure.Files) string {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") || strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return dest
	}
	target, fragment, _ := strings.Cut(dest, "#")

	// Links are written against canonical paths, with the source layout as a
	// second chance.
	var f *structure.File
	for _, dir := range []string{path.Dir(page.File.CanonicalPath), path.Dir(page.File.SrcPath)} {
		if f = files.Lookup(path.Clean(path.Join(dir, target))); f != nil {
			break
		}
	}
	if f == nil {
		if structure.IsPagePath(target) {
			p.Log.Warn("Documentation file contains a link to a missing page",
				logfields.Path(page.File.SrcPath), slog.String("target", target))
		}
		return dest
	}

	rel := structure.RelativeURL(page.File.URL, f.URL)
	if fragment != "" {
		rel += "#" + fragment
	}
	return rel
}

// Render writes page below cfg.SiteDir using the layout of env. With dirty set,
// pages whose output is newer than their source are skipped.
func (p *Pipeline) Render(page *structure.Page, cfg *config.Config, files *structure.Files, nav *structure.Navigation, env *Environment, dirty bool) error {
	dest := filepath.Join(cfg.SiteDir, filepath.FromSlash(page.File.DestPath))
	rec := RenderedPage{
		URL:       page.File.URL,
		Canonical: page.File.CanonicalPath,
		Locale:    page.File.DestLocale,
		ModTime:   page.File.ModTime(),
	}
	if dirty && upToDate(dest, rec.ModTime) {
		p.Log.Debug("Skipping unchanged page", logfields.Path(page.File.DestPath))
		env.record(rec)
		return nil
	}

	ctx := p.context(page, cfg, nav)
	if err := p.Plugins.PageContext(ctx, page, cfg, nav); err != nil {
		return err
	}

	output, err := env.exec(env.layout, ctx)
	if err != nil {
		return errors.Wrapf(err, "error executing base layout for %s", page.File.SrcPath)
	}
	output, err = p.Plugins.PostPage(output, page, cfg)
	if err != nil {
		return err
	}

	if err := writeFile(dest, []byte(output)); err != nil {
		return err
	}
	env.record(rec)
	return nil
}

func (p *Pipeline) context(page *structure.Page, cfg *config.Config, nav *structure.Navigation) plugins.PageContext {
	url := page.File.URL
	base := structure.BaseURL(url)

	ctx := plugins.PageContext{
		"page":             page,
		"page_title":       pageDisplayTitle(page, nav),
		"yield":            template.HTML(page.Content),
		"toc":              page.TOC,
		"config":           cfg,
		"site_name":        cfg.SiteName,
		"lang":             themeLanguage(cfg),
		"base_url":         base,
		"home_url":         homeURL(url, page.File.DestLocale, cfg.UseDirectoryURLs),
		"canonical":        canonicalURL(cfg.SiteURL, url),
		"extra_css":        relativeAssets(url, cfg.ExtraCSS),
		"extra_javascript": relativeAssets(url, cfg.ExtraJavascript),
		"alternates":       relativeAlternates(url, cfg.Alternates),
		"nav_html":         NavHTML(nav, url, page.File),
		"has_search":       false,
		"search_prefix":    page.File.DestLocale,
		"previous_url":     "",
		"previous_title":   "",
		"next_url":         "",
		"next_title":       "",
	}
	if _, ok := cfg.Plugin("search"); ok {
		ctx["has_search"] = true
	}

	if nav == nil {
		return ctx
	}
	nodes := nav.PageNodes()
	for i, node := range nodes {
		if node.File != page.File {
			continue
		}
		if i > 0 {
			ctx["previous_url"] = structure.RelativeURL(url, nodes[i-1].File.URL)
			ctx["previous_title"] = nodes[i-1].DisplayTitle()
		}
		if i+1 < len(nodes) {
			ctx["next_url"] = structure.RelativeURL(url, nodes[i+1].File.URL)
			ctx["next_title"] = nodes[i+1].DisplayTitle()
		}
		break
	}
	return ctx
}

func pageDisplayTitle(page *structure.Page, nav *structure.Navigation) string {
	if nav != nil {
		for _, node := range nav.PageNodes() {
			if node.File == page.File && node.Title != "" {
				return node.Title
			}
		}
	}
	return page.Title
}

func themeLanguage(cfg *config.Config) string {
	switch {
	case cfg.Theme.Language != "":
		return cfg.Theme.Language
	case cfg.Theme.Locale != "":
		return cfg.Theme.Locale
	}
	return "en"
}

func homeURL(pageURL, prefix string, useDirectoryURLs bool) string {
	home := ""
	if prefix != "" {
		home = prefix + "/"
	}
	if !useDirectoryURLs {
		home += "index.html"
	}
	return structure.RelativeURL(pageURL, home)
}

func canonicalURL(siteURL, pageURL string) string {
	if siteURL == "" {
		return ""
	}
	return strings.TrimSuffix(siteURL, "/") + "/" + pageURL
}

func relativeAssets(pageURL string, assets []string) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		if config.IsURL(a) || strings.HasPrefix(a, "/") {
			out = append(out, a)
			continue
		}
		out = append(out, structure.RelativeURL(pageURL, a))
	}
	return out
}

// relativeAlternates resolves the "./" links of the language switcher against
// the page.
func relativeAlternates(pageURL string, alternates []config.Alternate) []config.Alternate {
	out := make([]config.Alternate, len(alternates))
	for i, alt := range alternates {
		if strings.HasPrefix(alt.Link, "./") {
			alt.Link = structure.RelativeURL(pageURL, alt.Link[2:])
		}
		out[i] = alt
	}
	return out
}

// NavHTML renders nav as nested lists linked relative to from, marking the
// branch of current.
func NavHTML(nav *structure.Navigation, from string, current *structure.File) template.HTML {
	if nav == nil {
		return ""
	}
	var buf strings.Builder
	writeNav(&buf, nav.Items, current, from)
	return template.HTML(buf.String())
}

func writeNav(buf *strings.Builder, nodes []*structure.Node, current *structure.File, from string) bool {
	active := false
	buf.WriteString("<ul>")
	for _, node := range nodes {
		title := html.EscapeString(node.DisplayTitle())
		switch node.Kind {
		case structure.NodeSection:
			var inner strings.Builder
			childActive := writeNav(&inner, node.Children, current, from)
			active = active || childActive
			fmt.Fprintf(buf, `<li class="section%s"><span>%s</span>%s</li>`, activeClass(childActive), title, inner.String())
		case structure.NodePage:
			isCurrent := current != nil && node.File == current
			active = active || isCurrent
			href := structure.RelativeURL(from, node.File.URL)
			fmt.Fprintf(buf, `<li class="page%s"><a href="%s">%s</a></li>`, activeClass(isCurrent), html.EscapeString(href), title)
		case structure.NodeLink:
			fmt.Fprintf(buf, `<li class="link"><a href="%s">%s</a></li>`, html.EscapeString(node.URL), title)
		}
	}
	buf.WriteString("</ul>")
	return active
}

func activeClass(active bool) string {
	if active {
		return " active"
	}
	return ""
}

// Render404 writes the not found page of a build below prefix.
func (p *Pipeline) Render404(cfg *config.Config, nav *structure.Navigation, env *Environment, prefix string) error {
	dest := "404.html"
	if prefix != "" {
		dest = prefix + "/" + dest
	}
	values := map[string]interface{}{
		"site_name": cfg.SiteName,
		"home_url":  homeURL(dest, prefix, cfg.UseDirectoryURLs),
	}
	content, err := env.exec(env.notFound, values)
	if err != nil {
		return errors.Wrap(err, "error executing 404 template")
	}

	values = map[string]interface{}{
		"page":             (*structure.Page)(nil),
		"page_title":       "404",
		"yield":            template.HTML(content),
		"toc":              []structure.TOCItem{},
		"config":           cfg,
		"site_name":        cfg.SiteName,
		"lang":             themeLanguage(cfg),
		"base_url":         structure.BaseURL(dest),
		"home_url":         homeURL(dest, prefix, cfg.UseDirectoryURLs),
		"canonical":        "",
		"extra_css":        relativeAssets(dest, cfg.ExtraCSS),
		"extra_javascript": relativeAssets(dest, cfg.ExtraJavascript),
		"alternates":       []config.Alternate{},
		"nav_html":         NavHTML(nav, dest, nil),
		"has_search":       false,
		"search_prefix":    prefix,
		"previous_url":     "",
		"previous_title":   "",
		"next_url":         "",
		"next_title":       "",
	}
	output, err := env.exec(env.layout, values)
	if err != nil {
		return errors.Wrap(err, "error executing base layout for 404 page")
	}
	return writeFile(filepath.Join(cfg.SiteDir, filepath.FromSlash(dest)), []byte(output))
}
