package i18n

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/hooks"
	"github.com/ZacxDev/go-static-i18n/locale"
	"github.com/ZacxDev/go-static-i18n/plugins"
	"github.com/ZacxDev/go-static-i18n/render"
	"github.com/ZacxDev/go-static-i18n/search"
	"github.com/ZacxDev/go-static-i18n/structure"
)

type fakePipeline struct {
	rendered []string
}

func (f *fakePipeline) Populate(page *structure.Page, cfg *config.Config, files *structure.Files, dirty bool) error {
	page.Title = structure.TitleFromPath(page.File.CanonicalPath)
	return nil
}

func (f *fakePipeline) Render(page *structure.Page, cfg *config.Config, files *structure.Files, nav *structure.Navigation, env *render.Environment, dirty bool) error {
	f.rendered = append(f.rendered, page.File.URL+"@"+page.Locale)
	return nil
}

type fakeExporter struct {
	path  string
	calls []string
}

func (f *fakeExporter) Name() string { return "with-pdf" }

func (f *fakeExporter) OnConfig(cfg *config.Config) error {
	f.calls = append(f.calls, "config:"+f.path)
	return nil
}

func (f *fakeExporter) OnNav(nav *structure.Navigation, cfg *config.Config, files *structure.Files) error {
	f.calls = append(f.calls, "nav:"+f.path)
	return nil
}

func (f *fakeExporter) OnPostPage(output string, page *structure.Page, cfg *config.Config) (string, error) {
	return output, nil
}

func (f *fakeExporter) OnPostBuild(cfg *config.Config) error {
	f.calls = append(f.calls, "post_build:"+f.path)
	return nil
}

func (f *fakeExporter) OutputPath() string     { return f.path }
func (f *fakeExporter) SetOutputPath(p string) { f.path = p }

type driverFixture struct {
	reg     *locale.Registry
	root    *LocaleConfig
	locales map[string]*LocaleConfig
	siteDir string
}

func newDriverFixture(t *testing.T) *driverFixture {
	t.Helper()
	reg := newRegistry(t, lang("fr", "Français", true), lang("de", "Deutsch", false), lang("es", "Español", true))
	siteDir := t.TempDir()
	base := &config.Config{SiteName: "Docs", SiteDir: siteDir, UseDirectoryURLs: true, Hooks: &config.Hooks{}}
	registry := plugins.NewRegistry()

	file := func(src, canonical, loc, prefix string) *structure.File {
		return structure.NewFile(structure.FileSpec{
			SrcPath: src, CanonicalPath: canonical, LocaleSuffix: loc, Locale: loc,
			Prefix: prefix, UseDirectoryURLs: true,
		})
	}

	fx := &driverFixture{reg: reg, siteDir: siteDir}
	fx.root = &LocaleConfig{
		Locale:  reg.DefaultBuild(),
		Site:    base,
		Files:   structure.NewFiles(file("index.md", "", "", "")),
		Nav:     &structure.Navigation{},
		Plugins: registry,
	}
	fx.locales = CloneConfigs(base, reg, nil, registry)
	fx.locales["fr"].Files = structure.NewFiles(file("guide.fr.md", "guide.md", "fr", "fr"))
	fx.locales["es"].Files = structure.NewFiles(file("index.md", "", "", "es"))
	for _, lc := range fx.locales {
		lc.Nav = &structure.Navigation{}
		if lc.Files == nil {
			lc.Files = structure.NewFiles()
		}
	}
	return fx
}

func TestDriverBuildsEnabledLocalesInOrder(t *testing.T) {
	fx := newDriverFixture(t)
	pipeline := &fakePipeline{}
	exporter := &fakeExporter{path: "pdf/doc.pdf"}

	sp, err := search.NewPlugin(nil, nil)
	require.NoError(t, err)
	sp.Index().Add(search.Entry{Title: "Home", Location: "", Text: "Welcome"})
	sp.Index().Add(search.Entry{Title: "Home", Location: "es/", Text: "Welcome"})

	d := &Driver{Registry: fx.reg, Pipeline: pipeline, Exporter: exporter, Search: sp}
	removed, err := d.Run(context.Background(), fx.root, fx.locales)
	require.NoError(t, err)

	assert.Equal(t, []string{"@en", "fr/guide/@fr", "es/@en"}, pipeline.rendered)
	assert.Equal(t, []string{
		"config:pdf/doc.pdf", "nav:pdf/doc.pdf", "post_build:pdf/doc.pdf",
		"config:fr/pdf/doc.pdf", "nav:fr/pdf/doc.pdf", "post_build:fr/pdf/doc.pdf",
		"config:es/pdf/doc.pdf", "nav:es/pdf/doc.pdf", "post_build:es/pdf/doc.pdf",
	}, exporter.calls)
	assert.Equal(t, "pdf/doc.pdf", exporter.OutputPath())

	assert.Equal(t, 1, removed)
	_, err = os.Stat(filepath.Join(fx.siteDir, "search", "search_index.json"))
	assert.NoError(t, err)
}

func TestDriverDefaultLanguageOnly(t *testing.T) {
	fx := newDriverFixture(t)
	pipeline := &fakePipeline{}

	d := &Driver{Registry: fx.reg, Pipeline: pipeline, DefaultLanguageOnly: true}
	_, err := d.Run(context.Background(), fx.root, fx.locales)
	require.NoError(t, err)
	assert.Equal(t, []string{"@en"}, pipeline.rendered)
}

func TestDriverMissingLocaleConfig(t *testing.T) {
	fx := newDriverFixture(t)
	delete(fx.locales, "es")

	d := &Driver{Registry: fx.reg, Pipeline: &fakePipeline{}}
	_, err := d.Run(context.Background(), fx.root, fx.locales)
	assert.ErrorIs(t, err, locale.ErrUndefinedLocale)
}

func TestDriverRunsPreBuildHooksPerPass(t *testing.T) {
	fx := newDriverFixture(t)
	fx.root.Site.Hooks.Entries = []config.Hook{{Event: "pre_build", Command: "gen"}}

	var locales []string
	d := &Driver{Registry: fx.reg, Pipeline: &fakePipeline{}}
	d.Hooks = hooksRunner(fx.root.Site.Hooks, func(env []string) {
		locales = append(locales, env[2])
	})
	_, err := d.Run(context.Background(), fx.root, fx.locales)
	require.NoError(t, err)
	assert.Equal(t, []string{"I18N_LOCALE=", "I18N_LOCALE=fr", "I18N_LOCALE=es"}, locales)
}

func hooksRunner(h *config.Hooks, fn func(env []string)) *hooks.Runner {
	return hooks.NewRunner(h, nil).WithCommand(func(ctx context.Context, command string, env []string) error {
		fn(env)
		return nil
	})
}
