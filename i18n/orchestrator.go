// Package i18n builds a documentation site once per configured locale.
package i18n

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/hooks"
	"github.com/ZacxDev/go-static-i18n/locale"
	"github.com/ZacxDev/go-static-i18n/logfields"
	"github.com/ZacxDev/go-static-i18n/metrics"
	"github.com/ZacxDev/go-static-i18n/navigation"
	"github.com/ZacxDev/go-static-i18n/partition"
	"github.com/ZacxDev/go-static-i18n/plugins"
	"github.com/ZacxDev/go-static-i18n/render"
	"github.com/ZacxDev/go-static-i18n/search"
	"github.com/ZacxDev/go-static-i18n/utils"
)

// Orchestrator builds the site described by Config.
type Orchestrator struct {
	Config   *config.Config
	Dirty    bool
	Log      *slog.Logger
	Recorder metrics.Recorder
	// HookCommand replaces the starter of hook commands when set.
	HookCommand hooks.Command
}

// Result describes a finished build.
type Result struct {
	BuildID  string
	Registry *locale.Registry
	Root     *LocaleConfig
	Locales  map[string]*LocaleConfig
	Plugins  *plugins.Registry
	Env      *render.Environment
	// Excluded lists the sources tagged with an unconfigured locale.
	Excluded []string
	// Duplicates is the number of search entries removed.
	Duplicates int
}

// Build renders the root build and every locale build below the site
// directory. Any failure aborts the whole build.
func (o *Orchestrator) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	rec := o.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	if o.Log == nil {
		o.Log = slog.Default()
	}

	res, err := o.build(ctx, rec)
	rec.ObserveBuildDuration(time.Since(start))
	if err != nil {
		rec.IncBuildOutcome("failed")
		return nil, err
	}
	rec.IncBuildOutcome("success")
	o.Log.Info("Build finished", logfields.BuildID(res.BuildID),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return res, nil
}

func (o *Orchestrator) build(ctx context.Context, rec metrics.Recorder) (*Result, error) {
	cfg := o.Config
	res := &Result{BuildID: uuid.NewString()}
	log := o.Log.With(logfields.BuildID(res.BuildID))

	opts, err := cfg.I18n()
	if err != nil {
		return nil, err
	}
	reg, err := locale.NewRegistry(opts, cfg.SiteName)
	if err != nil {
		return nil, err
	}
	res.Registry = reg

	registry, err := LoadPlugins(cfg, log)
	if err != nil {
		return nil, err
	}
	res.Plugins = registry

	SetDefaultThemeLocale(cfg, reg.Default(), log)
	opts.NavTranslations = CheckNavTranslations(opts.NavTranslations, reg, log)
	i18nPlugin := NewPlugin(reg, opts, log)
	// Only the root build is rendered: no switcher, no extra search languages.
	if !opts.DefaultLanguageOnly {
		if opts.SearchReconfigure {
			ReconfigureSearch(searchPlugin(registry), reg, log)
		}
		o.configureAlternates(cfg, reg, opts, i18nPlugin, log)
	}

	env, err := render.NewEnvironment(cfg.Theme, log)
	if err != nil {
		return nil, err
	}
	res.Env = env

	// The export and the search finalization are driven by the passes.
	var exporter Exporter
	if e := exportPlugin(registry); e != nil {
		registry.Detach(e.Name())
		exporter = e
		i18nPlugin.SetExporter(e)
	}
	sp := searchPlugin(registry)
	if sp != nil {
		registry.Detach(sp.Name(), plugins.EventPostBuild)
	}
	if err := registry.Register(i18nPlugin); err != nil {
		return nil, err
	}

	sources, err := partition.Walk(cfg.DocsDir)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading docs_dir %s", cfg.DocsDir)
	}
	parts, err := partition.New(opts.DocsStructure, reg, cfg.UseDirectoryURLs, log).Partition(sources)
	if err != nil {
		return nil, err
	}
	res.Excluded = parts.Excluded

	res.Root = &LocaleConfig{
		Locale:  reg.DefaultBuild(),
		Site:    cfg,
		Files:   parts.Root,
		Env:     env,
		Plugins: registry,
	}
	if cfg.Nav != nil {
		res.Root.Nav = navigation.FromConfig(cfg.Nav, parts.Root, log)
	} else {
		res.Root.Nav = navigation.Autogenerate(parts.Root)
	}
	navigation.TranslateTitles(res.Root.Nav, opts.NavTranslations[reg.Default()])

	res.Locales = CloneConfigs(cfg, reg, env, registry)
	for code, lc := range res.Locales {
		lc.Files = parts.Locales[code]
		if cfg.Nav != nil {
			lc.Site.Nav = navigation.FixConfigNav(lc.Site.Nav, lc.Files, opts.DocsStructure, code, reg.Default())
			lc.Nav = navigation.FromConfig(lc.Site.Nav, lc.Files, log.With(logfields.Locale(code)))
		} else {
			lc.Nav = navigation.Localize(res.Root.Nav, lc.Files)
		}
		navigation.TranslateTitles(lc.Nav, opts.NavTranslations[code])
	}

	driver := &Driver{
		Registry:            reg,
		Pipeline:            render.NewPipeline(registry, log),
		Exporter:            exporter,
		Search:              sp,
		Hooks:               o.hookRunner(cfg, log),
		Recorder:            rec,
		Dirty:               o.Dirty,
		DefaultLanguageOnly: opts.DefaultLanguageOnly,
		Log:                 log,
	}
	if m := minifyPlugin(registry); m != nil {
		driver.Minify = m
	}
	res.Duplicates, err = driver.Run(ctx, res.Root, res.Locales)
	if err != nil {
		return nil, err
	}

	o.reportUnusedTranslations(res, opts, log)

	if env.HasCustomFile("sitemap.xml") {
		log.Debug("Using the sitemap.xml of the theme custom_dir")
	} else if err := utils.GenerateSitemaps(env.Rendered(), cfg.SiteURL, cfg.SiteDir, reg.Default()); err != nil {
		return nil, errors.Wrap(err, "error generating sitemap")
	}

	if err := driver.Hooks.Run(ctx, hooks.PostBuild, cfg, ""); err != nil {
		return nil, err
	}
	return res, nil
}

func (o *Orchestrator) hookRunner(cfg *config.Config, log *slog.Logger) *hooks.Runner {
	r := hooks.NewRunner(cfg.Hooks, log)
	if o.HookCommand != nil {
		r.WithCommand(o.HookCommand)
	}
	return r
}

// configureAlternates generates the language switcher unless one is
// configured in extra.alternate.
func (o *Orchestrator) configureAlternates(cfg *config.Config, reg *locale.Registry, opts config.I18nOptions, p *Plugin, log *slog.Logger) {
	if !opts.MaterialAlternate || reg.Len() < 2 {
		return
	}
	if len(cfg.Alternates) == 0 {
		cfg.Alternates = Alternates(reg, cfg.UseDirectoryURLs)
	} else {
		for _, alt := range cfg.Alternates {
			if !strings.HasPrefix(alt.Link, "./") {
				log.Info("The 'extra.alternate' configuration contains a 'link' option that should start with './'",
					slog.String("link", alt.Link))
			}
		}
	}
	if cfg.Theme.HasFeature("navigation.instant") {
		log.Warn("The contextual language switcher is not compatible with theme.features = navigation.instant")
		return
	}
	p.SetAlternates(cfg.Alternates)
}

// ReconfigureSearch adds every locale the search supports to its lang option.
func ReconfigureSearch(sp *search.Plugin, reg *locale.Registry, log *slog.Logger) {
	if sp == nil {
		return
	}
	for _, code := range reg.Codes() {
		if !search.Supported(code) {
			log.Warn("Language is not supported by the search, not setting it in the 'plugins.search.lang' option",
				logfields.Locale(code))
			continue
		}
		if !sp.HasLang(code) {
			sp.AddLang(code)
			log.Info("Adding language to the 'plugins.search.lang' option", logfields.Locale(code))
		}
	}
}

// CheckNavTranslations drops the tables keyed by a locale that is not
// configured.
func CheckNavTranslations(tables map[string]map[string]string, reg *locale.Registry, log *slog.Logger) map[string]map[string]string {
	out := make(map[string]map[string]string, len(tables))
	for _, code := range slices.Sorted(maps.Keys(tables)) {
		if !reg.Has(code) {
			log.Warn("Ignoring 'nav_translations' of an unconfigured language",
				logfields.Locale(code), slog.Any("languages", reg.Codes()))
			continue
		}
		out[code] = tables[code]
	}
	return out
}

// reportUnusedTranslations logs the translation keys that matched neither a
// navigation title nor a page title.
func (o *Orchestrator) reportUnusedTranslations(res *Result, opts config.I18nOptions, log *slog.Logger) {
	for _, code := range res.Registry.Codes() {
		table := opts.NavTranslations[code]
		if len(table) == 0 {
			continue
		}
		nav := res.Root.Nav
		if lc, ok := res.Locales[code]; ok && code != res.Registry.Default() {
			nav = lc.Nav
		}
		for _, key := range navigation.UnusedTranslations(nav, table) {
			log.Debug("Navigation translation matches no title", logfields.Locale(code), slog.String("title", key))
		}
	}
}
