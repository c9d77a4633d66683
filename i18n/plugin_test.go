package i18n

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/plugins"
	"github.com/ZacxDev/go-static-i18n/search"
	"github.com/ZacxDev/go-static-i18n/structure"
)

func frPage(src, canonical string) *structure.Page {
	f := structure.NewFile(structure.FileSpec{
		SrcPath: src, CanonicalPath: canonical, LocaleSuffix: "fr", Locale: "fr",
		Prefix: "fr", UseDirectoryURLs: true,
	})
	p := structure.NewPage(f)
	p.Locale = "fr"
	return p
}

func TestPluginTranslatesPageTitles(t *testing.T) {
	reg := newRegistry(t, lang("fr", "Français", true))
	p := NewPlugin(reg, config.I18nOptions{NavTranslations: map[string]map[string]string{
		"fr": {"Guide": "Le guide"},
	}}, nil)

	page := frPage("guide.fr.md", "guide.md")
	page.Title, page.SourceTitle = "Guide", "Guide"
	_, err := p.OnPageMarkdown("# Guide", page, &config.Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Le guide", page.Title)

	root := structure.NewPage(structure.NewFile(structure.FileSpec{SrcPath: "guide.md"}))
	root.Title, root.SourceTitle = "Guide", "Guide"
	_, err = p.OnPageMarkdown("# Guide", root, &config.Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Guide", root.Title)
}

func TestPluginPageContext(t *testing.T) {
	fr := lang("fr", "Français", true)
	fr.Options.SiteName = "Docs FR"
	reg := newRegistry(t, fr)
	p := NewPlugin(reg, config.I18nOptions{DefaultLanguage: "en"}, nil)
	p.SetAlternates(Alternates(reg, true))

	cfg := &config.Config{SiteName: "Docs", UseDirectoryURLs: true}
	ctx := plugins.PageContext{}
	page := frPage("guide.fr.md", "guide.md")
	require.NoError(t, p.OnPageContext(ctx, page, cfg, nil))

	assert.Equal(t, "fr", ctx["i18n_page_locale"])
	assert.Equal(t, "fr", ctx["i18n_page_file_locale"])
	assert.Equal(t, "Docs FR", ctx["site_name"])
	alts := ctx["alternates"].([]config.Alternate)
	require.Len(t, alts, 2)
	assert.Equal(t, "../../guide/", alts[0].Link)
	assert.Equal(t, "./", alts[1].Link)

	root := structure.NewPage(structure.NewFile(structure.FileSpec{SrcPath: "guide.md", UseDirectoryURLs: true}))
	root.Locale = "en"
	ctx = plugins.PageContext{}
	require.NoError(t, p.OnPageContext(ctx, root, cfg, nil))
	assert.Equal(t, "Docs", ctx["site_name"])
	assert.Equal(t, "", ctx["i18n_page_file_locale"])
}

func TestReconfigureSearch(t *testing.T) {
	reg := newRegistry(t, lang("fr", "Français", true), lang("pt_BR", "Português", true))
	sp, err := search.NewPlugin(config.Map{{Key: "lang", Value: config.List{config.String("en")}}}, nil)
	require.NoError(t, err)

	ReconfigureSearch(sp, reg, slog.Default())
	assert.Equal(t, []string{"en", "fr"}, sp.Options.Lang)
	ReconfigureSearch(nil, reg, slog.Default())
}

func TestCheckNavTranslations(t *testing.T) {
	reg := newRegistry(t, lang("fr", "Français", true))
	got := CheckNavTranslations(map[string]map[string]string{
		"fr": {"Guide": "Le guide"},
		"de": {"Guide": "Anleitung"},
	}, reg, slog.Default())
	assert.Equal(t, map[string]map[string]string{"fr": {"Guide": "Le guide"}}, got)
}

func TestSetThemeLocale(t *testing.T) {
	log := slog.Default()

	cfg := &config.Config{Theme: config.Theme{Name: "material"}}
	SetDefaultThemeLocale(cfg, "en", log)
	assert.Empty(t, cfg.Theme.Language)
	SetDefaultThemeLocale(cfg, "fr", log)
	assert.Equal(t, "fr", cfg.Theme.Language)
	SetThemeLocale(cfg, "xx", log)
	assert.Equal(t, "fr", cfg.Theme.Language)
	SetThemeLocale(cfg, "pt-BR", log)
	assert.Equal(t, "pt-BR", cfg.Theme.Language)

	cfg = &config.Config{Theme: config.Theme{Name: "mkdocs"}}
	SetThemeLocale(cfg, "de", log)
	assert.Equal(t, "de", cfg.Theme.Locale)
}

func TestLoadPlugins(t *testing.T) {
	cfg := &config.Config{Plugins: []config.PluginConfig{
		{Name: "search", Options: config.Map{}},
		{Name: "i18n", Options: config.Map{}},
		{Name: "with-pdf", Options: config.Map{{Key: "output_path", Value: config.String("print/site.pdf")}}},
	}}
	reg, err := LoadPlugins(cfg, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"search", "with-pdf"}, reg.Names())
	assert.Equal(t, "print/site.pdf", exportPlugin(reg).OutputPath())
	assert.Nil(t, minifyPlugin(reg))

	cfg.Plugins = append(cfg.Plugins, config.PluginConfig{Name: "blog"})
	_, err = LoadPlugins(cfg, slog.Default())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
