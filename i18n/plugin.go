package i18n

import (
	"log/slog"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/locale"
	"github.com/ZacxDev/go-static-i18n/plugins"
	"github.com/ZacxDev/go-static-i18n/structure"
)

const Name = "i18n"

// Exporter is the lifecycle of the print export driven by the build passes.
type Exporter interface {
	plugins.ConfigListener
	plugins.NavListener
	plugins.PostPageListener
	plugins.PostBuildListener
	OutputPath() string
	SetOutputPath(string)
}

// Plugin exposes the locale of every page to templates. It is registered
// after every other plugin.
type Plugin struct {
	registry *locale.Registry
	options  config.I18nOptions
	// alternates is nil when the switcher is not contextual.
	alternates []config.Alternate
	exporter   Exporter
	log        *slog.Logger
}

func NewPlugin(reg *locale.Registry, opts config.I18nOptions, log *slog.Logger) *Plugin {
	if log == nil {
		log = slog.Default()
	}
	return &Plugin{registry: reg, options: opts, log: log}
}

func (p *Plugin) Name() string {
	return Name
}

// SetAlternates enables the contextual language switcher.
func (p *Plugin) SetAlternates(alternates []config.Alternate) {
	p.alternates = alternates
}

// SetExporter forwards rendered pages to e.
func (p *Plugin) SetExporter(e Exporter) {
	p.exporter = e
}

// buildLocale is the locale of the pass emitting page.
func (p *Plugin) buildLocale(page *structure.Page) string {
	if page.File.DestLocale != "" {
		return page.File.DestLocale
	}
	return p.registry.Default()
}

// OnPageMarkdown translates the page title with the table of its build.
// Titles end up in the previous and next links.
func (p *Plugin) OnPageMarkdown(markdown string, page *structure.Page, cfg *config.Config, files *structure.Files) (string, error) {
	table := p.options.NavTranslations[p.buildLocale(page)]
	if t, ok := table[page.SourceTitle]; ok {
		p.log.Debug("Translating page title",
			slog.String("title", page.SourceTitle), slog.String("translation", t))
		page.Title = t
	}
	return markdown, nil
}

// OnPageContext exports the locale of the page, points the language switcher
// at the current page and sets the site name of the page locale.
func (p *Plugin) OnPageContext(ctx plugins.PageContext, page *structure.Page, cfg *config.Config, nav *structure.Navigation) error {
	ctx["i18n_config"] = p.options
	ctx["i18n_page_locale"] = page.Locale
	ctx["i18n_page_file_locale"] = page.File.LocaleSuffix

	if p.alternates != nil {
		alternates := ContextualAlternates(p.alternates, page.File.URL, p.registry.Codes(), cfg.UseDirectoryURLs)
		for i, alt := range alternates {
			alternates[i].Link = pageRelative(page.File.URL, alt.Link)
		}
		ctx["alternates"] = alternates
	}

	ctx["site_name"] = p.siteName(page, cfg)
	return nil
}

func (p *Plugin) siteName(page *structure.Page, cfg *config.Config) string {
	if page.File.DestLocale == "" {
		return p.registry.DefaultBuild().SiteName
	}
	l, err := p.registry.Get(page.Locale)
	if err != nil || l.SiteName == "" {
		return cfg.SiteName
	}
	return l.SiteName
}

// pageRelative turns a link relative to the site root into one relative to
// the page served at pageURL.
func pageRelative(pageURL, link string) string {
	if len(link) < 2 || link[:2] != "./" {
		return link
	}
	return structure.RelativeURL(pageURL, link[2:])
}

// OnPostPage hands the rendered page to the export.
func (p *Plugin) OnPostPage(output string, page *structure.Page, cfg *config.Config) (string, error) {
	if p.exporter == nil {
		return output, nil
	}
	return p.exporter.OnPostPage(output, page, cfg)
}
