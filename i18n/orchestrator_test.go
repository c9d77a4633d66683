package i18n

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/search"
	"github.com/ZacxDev/go-static-i18n/structure"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

type outcomes struct {
	pages    map[string]int
	outcomes []string
}

func (o *outcomes) ObservePages(locale string, n int)    { o.pages[locale] += n }
func (o *outcomes) ObserveDuplicates(n int)              {}
func (o *outcomes) ObserveBuildDuration(d time.Duration) {}
func (o *outcomes) IncBuildOutcome(outcome string)       { o.outcomes = append(o.outcomes, outcome) }

const siteConfig = `site_name: Docs
site_url: https://example.com/
plugins:
  - search
  - i18n:
      default_language: en
      languages:
        fr: Français
      nav_translations:
        fr:
          Guide: Le guide
`

func buildSite(t *testing.T, cfgYAML string, docs map[string]string) (*Result, string, *outcomes) {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"mkdocs.yml": cfgYAML})
	writeTree(t, filepath.Join(dir, "docs"), docs)

	cfg, err := config.Load(filepath.Join(dir, "mkdocs.yml"))
	require.NoError(t, err)
	rec := &outcomes{pages: map[string]int{}}
	res, err := (&Orchestrator{Config: cfg, Recorder: rec}).Build(context.Background())
	require.NoError(t, err)
	return res, filepath.Join(dir, "site"), rec
}

func TestOrchestratorBuildsEveryLocale(t *testing.T) {
	res, site, rec := buildSite(t, siteConfig, map[string]string{
		"index.md":     "# Welcome\n\nHello.\n",
		"guide.md":     "# Guide\n\nRead me.\n",
		"guide.fr.md":  "# Guide\n\nLisez moi.\n",
		"about.md":     "# About\n\nAbout us.\n",
		"notes.de.md":  "# Notizen\n",
		"img/logo.png": "png",
	})

	assert.Equal(t, []string{"success"}, rec.outcomes)
	assert.Equal(t, 3, rec.pages[""])
	assert.Equal(t, 3, rec.pages["fr"])
	assert.Equal(t, []string{"notes.de.md"}, res.Excluded)

	for _, p := range []string{
		"index.html", "guide/index.html", "about/index.html", "404.html",
		"fr/index.html", "fr/guide/index.html", "fr/about/index.html", "fr/404.html",
		"img/logo.png", "css/theme.css", "sitemap.xml",
	} {
		assert.FileExists(t, filepath.Join(site, filepath.FromSlash(p)))
	}
	assert.NoDirExists(t, filepath.Join(site, "en"))
	assert.NoFileExists(t, filepath.Join(site, "fr", "img", "logo.png"))

	frGuide := readFile(t, filepath.Join(site, "fr", "guide", "index.html"))
	assert.Contains(t, frGuide, "Lisez moi.")
	assert.Contains(t, frGuide, "Le guide - Docs")
	assert.Contains(t, frGuide, `hreflang="en" href="../../guide/"`)
	assert.Contains(t, readFile(t, filepath.Join(site, "fr", "about", "index.html")), "About us.")
	assert.Contains(t, readFile(t, filepath.Join(site, "guide", "index.html")), "Read me.")

	var fr *string
	for _, node := range res.Locales["fr"].Nav.PageNodes() {
		if node.File.CanonicalPath == "guide.md" {
			fr = &node.File.SrcPath
		}
	}
	require.NotNil(t, fr)
	assert.Equal(t, "guide.fr.md", *fr)

	// The fallback pages of fr duplicate the default entries.
	assert.Equal(t, 4, res.Duplicates)
	var doc struct {
		Config struct {
			Lang []string `json:"lang"`
		} `json:"config"`
		Docs []search.Entry `json:"docs"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(site, "search", "search_index.json"))), &doc))
	assert.Equal(t, []string{"en", "fr"}, doc.Config.Lang)
	locations := map[string]string{}
	for _, e := range doc.Docs {
		locations[e.Location] = e.Title
	}
	assert.Equal(t, "Guide", locations["guide/"])
	assert.Equal(t, "Le guide", locations["fr/guide/"])
	assert.NotContains(t, locations, "fr/")
	assert.NotContains(t, locations, "fr/about/")

	sitemap := readFile(t, filepath.Join(site, "sitemap.xml"))
	assert.Contains(t, sitemap, "<loc>https://example.com/fr/guide/</loc>")
	assert.Contains(t, sitemap, `hreflang="fr"`)
}

func TestOrchestratorConfiguredNav(t *testing.T) {
	res, site, _ := buildSite(t, siteConfig+`nav:
  - Home: index.md
  - Guide: guide.md
`, map[string]string{
		"index.md":    "# Welcome\n",
		"guide.md":    "# Guide\n\nRead me.\n",
		"guide.fr.md": "# Guide FR\n\nLisez moi.\n",
	})

	assert.Equal(t, config.List{
		config.Map{{Key: "Home", Value: config.String("index.md")}},
		config.Map{{Key: "Guide", Value: config.String("guide.fr.md")}},
	}, res.Locales["fr"].Site.Nav)
	assert.Equal(t, config.String("guide.md"), res.Root.Site.Nav.(config.List)[1].(config.Map)[0].Value)

	nodes := res.Locales["fr"].Nav.PageNodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "Le guide", nodes[1].Title)
	assert.Equal(t, "guide.fr.md", nodes[1].File.SrcPath)
	assert.Equal(t, "Guide", res.Root.Nav.PageNodes()[1].Title)

	frIndex := readFile(t, filepath.Join(site, "fr", "index.html"))
	assert.Contains(t, frIndex, `<a href="guide/">Le guide</a>`)
}

func TestOrchestratorConfiguredNavWithDefaultSuffix(t *testing.T) {
	res, site, _ := buildSite(t, siteConfig+`nav:
  - Home: index.md
  - Guide: guide.en.md
`, map[string]string{
		"index.md":    "# Welcome\n",
		"guide.md":    "# Guide\n\nRead me.\n",
		"guide.fr.md": "# Guide FR\n\nLisez moi.\n",
	})

	nodes := res.Locales["fr"].Nav.PageNodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, structure.NodePage, nodes[1].Kind)
	assert.Equal(t, "guide.fr.md", nodes[1].File.SrcPath)
	assert.Equal(t, "Le guide", nodes[1].Title)
	assert.Contains(t, readFile(t, filepath.Join(site, "fr", "index.html")), `<a href="guide/">Le guide</a>`)
}

func TestOrchestratorDefaultLanguageOnly(t *testing.T) {
	res, site, rec := buildSite(t, `site_name: Docs
plugins:
  - search
  - i18n:
      default_language: en
      default_language_only: true
      languages:
        fr: Français
`, map[string]string{
		"index.md":    "# Welcome\n",
		"index.fr.md": "# Bienvenue\n",
	})

	assert.Empty(t, res.Root.Site.Alternates)
	assert.NoDirExists(t, filepath.Join(site, "fr"))
	assert.Zero(t, rec.pages["fr"])
	assert.NotContains(t, readFile(t, filepath.Join(site, "index.html")), `hreflang="fr"`)

	var doc struct {
		Config struct {
			Lang []string `json:"lang"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(site, "search", "search_index.json"))), &doc))
	assert.Equal(t, []string{"en"}, doc.Config.Lang)
}

func TestOrchestratorDeduplicatesIdenticalTranslation(t *testing.T) {
	res, site, _ := buildSite(t, `site_name: Docs
plugins:
  - search
  - i18n:
      default_language: en
      languages:
        fr: Français
`, map[string]string{
		"guide.md":    "# Guide\n\nSame text.\n",
		"guide.fr.md": "# Guide\n\nSame text.\n",
	})

	// The page entry and its heading section are both removed from fr.
	assert.Equal(t, 2, res.Duplicates)

	var doc struct {
		Docs []search.Entry `json:"docs"`
	}
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(site, "search", "search_index.json"))), &doc))
	var locations []string
	for _, e := range doc.Docs {
		assert.Equal(t, "Guide", e.Title)
		locations = append(locations, e.Location)
	}
	assert.Equal(t, []string{"guide/", "guide/#guide"}, locations)
}

func TestOrchestratorRejectsUnknownPlugin(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"mkdocs.yml":    siteConfig + "  - blog\n",
		"docs/index.md": "# Home\n",
	})
	cfg, err := config.Load(filepath.Join(dir, "mkdocs.yml"))
	require.NoError(t, err)

	rec := &outcomes{pages: map[string]int{}}
	_, err = (&Orchestrator{Config: cfg, Recorder: rec}).Build(context.Background())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Equal(t, []string{"failed"}, rec.outcomes)
}
