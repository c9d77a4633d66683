package render

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/plugins"
	"github.com/ZacxDev/go-static-i18n/structure"
)

func TestSplitFrontMatter(t *testing.T) {
	meta, body, err := splitFrontMatter("---\ntitle: Custom\ntags: [a, b]\n---\n# Heading\n")
	require.NoError(t, err)
	assert.Equal(t, "Custom", meta["title"])
	assert.Equal(t, "# Heading\n", body)

	meta, body, err = splitFrontMatter("# Plain\n")
	require.NoError(t, err)
	assert.Empty(t, meta)
	assert.Equal(t, "# Plain\n", body)

	_, _, err = splitFrontMatter("---\ntitle: [unclosed\n---\nbody")
	assert.Error(t, err)
}

func TestPageTitle(t *testing.T) {
	guide := structure.NewFile(structure.FileSpec{SrcPath: "getting-started.md"})
	index := structure.NewFile(structure.FileSpec{SrcPath: "index.fr.md", CanonicalPath: "index.md"})

	assert.Equal(t, "Meta", pageTitle(map[string]interface{}{"title": "Meta"}, "# Heading", guide))
	assert.Equal(t, "Heading", pageTitle(nil, "intro\n# Heading #\n", guide))
	assert.Equal(t, "Home", pageTitle(nil, "no heading", index))
	assert.Equal(t, "Getting started", pageTitle(nil, "## Not a title", guide))
}

func frFiles() (*structure.Files, *structure.File) {
	src := fstest.MapFS{
		"index.md":     {Data: []byte("# Home\n")},
		"guide.fr.md":  {Data: []byte("# Guide FR\n\nSee [home](index.md#top) and ![logo](img/logo.png).\n\n## Setup\n\nInstall.\n")},
		"img/logo.png": {Data: []byte("png")},
	}
	guide := structure.NewFile(structure.FileSpec{
		Source: src, SrcPath: "guide.fr.md", CanonicalPath: "guide.md",
		LocaleSuffix: "fr", Locale: "fr", Prefix: "fr", UseDirectoryURLs: true,
	})
	files := structure.NewFiles(
		structure.NewFile(structure.FileSpec{Source: src, SrcPath: "img/logo.png", UseDirectoryURLs: true}),
		structure.NewFile(structure.FileSpec{Source: src, SrcPath: "index.md", Prefix: "fr", UseDirectoryURLs: true}),
		guide,
	)
	return files, guide
}

func TestPopulateRewritesLinks(t *testing.T) {
	files, guide := frFiles()
	p := NewPipeline(plugins.NewRegistry(), nil)
	page := structure.NewPage(guide)

	require.NoError(t, p.Populate(page, &config.Config{}, files, false))
	assert.Equal(t, "Guide FR", page.Title)
	assert.Equal(t, "Guide FR", page.SourceTitle)
	assert.Contains(t, page.Content, `href="../#top"`)
	assert.Contains(t, page.Content, `src="../../img/logo.png"`)
	assert.Contains(t, page.TOC, structure.TOCItem{Title: "Setup", ID: "setup", Level: 2})
}

func TestRenderWritesPage(t *testing.T) {
	dir := t.TempDir()
	files, guide := frFiles()
	cfg := &config.Config{SiteName: "Docs", SiteDir: dir, UseDirectoryURLs: true, Theme: config.Theme{Name: "mkdocs", Locale: "fr"}}

	env, err := NewEnvironment(cfg.Theme, nil)
	require.NoError(t, err)
	p := NewPipeline(plugins.NewRegistry(), nil)

	page := structure.NewPage(guide)
	require.NoError(t, p.Populate(page, cfg, files, false))
	nav := &structure.Navigation{Items: []*structure.Node{
		{Kind: structure.NodePage, File: files.Canonical("index.md")},
		{Kind: structure.NodePage, Title: "Le guide", File: guide},
	}}
	require.NoError(t, p.Render(page, cfg, files, nav, env, false))

	out, err := os.ReadFile(filepath.Join(dir, "fr", "guide", "index.html"))
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, `lang="fr"`)
	assert.Contains(t, html, "Le guide - Docs")
	assert.Contains(t, html, `href="../../css/theme.css"`)
	assert.Contains(t, html, `class="previous" href="../"`)

	rendered := env.Rendered()
	require.Len(t, rendered, 1)
	assert.Equal(t, RenderedPage{URL: "fr/guide/", Canonical: "guide.md", Locale: "fr"}, rendered[0])

	require.NoError(t, p.Render404(cfg, nav, env, "fr"))
	_, err = os.Stat(filepath.Join(dir, "fr", "404.html"))
	assert.NoError(t, err)
}

func TestCopyStaticFilesOnce(t *testing.T) {
	dir := t.TempDir()
	files, _ := frFiles()
	env, err := NewEnvironment(config.Theme{Name: "mkdocs"}, nil)
	require.NoError(t, err)

	require.NoError(t, env.AddThemeFiles(files, true))
	assert.NotNil(t, files.Canonical("css/theme.css"))
	assert.NotNil(t, files.Canonical("js/theme.js"))

	require.NoError(t, env.CopyStaticFiles(files, dir, false))
	data, err := os.ReadFile(filepath.Join(dir, "img", "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, os.Remove(filepath.Join(dir, "img", "logo.png")))
	require.NoError(t, env.CopyStaticFiles(files, dir, false))
	_, err = os.Stat(filepath.Join(dir, "img", "logo.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestNavHTML(t *testing.T) {
	files, guide := frFiles()
	nav := &structure.Navigation{Items: []*structure.Node{
		{Kind: structure.NodeSection, Title: "Docs", Children: []*structure.Node{
			{Kind: structure.NodePage, Title: "Guide", File: guide},
		}},
		{Kind: structure.NodePage, File: files.Canonical("index.md")},
		{Kind: structure.NodeLink, Title: "Source", URL: "https://example.com"},
	}}

	out := string(NavHTML(nav, guide.URL, guide))
	assert.Contains(t, out, `<li class="section active"><span>Docs</span>`)
	assert.Contains(t, out, `<li class="page active"><a href="./">Guide</a></li>`)
	assert.Contains(t, out, `<a href="../">Index</a>`)
	assert.Contains(t, out, `<a href="https://example.com">Source</a>`)
	assert.Empty(t, NavHTML(nil, "", nil))
}
