package i18n

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/hooks"
	"github.com/ZacxDev/go-static-i18n/locale"
	"github.com/ZacxDev/go-static-i18n/logfields"
	"github.com/ZacxDev/go-static-i18n/metrics"
	"github.com/ZacxDev/go-static-i18n/plugins"
	"github.com/ZacxDev/go-static-i18n/render"
	"github.com/ZacxDev/go-static-i18n/search"
	"github.com/ZacxDev/go-static-i18n/structure"
)

// Pipeline populates and renders single pages.
type Pipeline interface {
	Populate(page *structure.Page, cfg *config.Config, files *structure.Files, dirty bool) error
	Render(page *structure.Page, cfg *config.Config, files *structure.Files, nav *structure.Navigation, env *render.Environment, dirty bool) error
}

type notFoundRenderer interface {
	Render404(cfg *config.Config, nav *structure.Navigation, env *render.Environment, prefix string) error
}

// Driver runs the root build and then one build per enabled locale, in
// registration order. Passes share the render environment, the plugins and the
// search index; nothing else.
type Driver struct {
	Registry *locale.Registry
	Pipeline Pipeline

	// Optional integrations, nil when not configured.
	Minify   plugins.PreBuildListener
	Exporter Exporter
	Search   *search.Plugin
	Hooks    *hooks.Runner

	Recorder            metrics.Recorder
	Dirty               bool
	DefaultLanguageOnly bool
	Log                 *slog.Logger
}

// Run builds root and every locale of locales with build enabled. It returns
// the number of search entries removed as duplicates.
func (d *Driver) Run(ctx context.Context, root *LocaleConfig, locales map[string]*LocaleConfig) (int, error) {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Recorder == nil {
		d.Recorder = metrics.NoopRecorder{}
	}

	if err := d.buildRoot(ctx, root); err != nil {
		return 0, err
	}
	last := root

	if !d.DefaultLanguageOnly {
		exportPath := ""
		if d.Exporter != nil {
			exportPath = d.Exporter.OutputPath()
			defer d.Exporter.SetOutputPath(exportPath)
		}

		for _, l := range d.Registry.Locales() {
			if !l.Build || l.Folded {
				if !l.Folded {
					d.Log.Info("Skipping locale build", logfields.Locale(l.Code))
				}
				continue
			}
			lc, ok := locales[l.Code]
			if !ok {
				return 0, errors.Wrapf(locale.ErrUndefinedLocale, "no configuration for %q", l.Code)
			}
			if err := d.buildLocale(ctx, lc, exportPath); err != nil {
				return 0, errors.Wrapf(err, "building %s documentation", l.Code)
			}
			last = lc
		}
	}

	removed := 0
	if d.Search != nil {
		removed = search.Deduplicate(d.Search.Index(), d.Registry.Codes(), d.Log)
		d.Recorder.ObserveDuplicates(removed)
		if err := d.Search.OnPostBuild(last.Site); err != nil {
			return removed, errors.Wrap(err, "plugin search: on_post_build")
		}
	}
	return removed, nil
}

func (d *Driver) buildRoot(ctx context.Context, lc *LocaleConfig) error {
	d.Log.Info("Building documentation", logfields.Locale(d.Registry.Default()))
	cfg := lc.Site

	if err := d.runHooks(ctx, lc); err != nil {
		return err
	}
	if err := lc.Plugins.Config(cfg); err != nil {
		return err
	}
	if err := lc.Plugins.PreBuild(cfg); err != nil {
		return err
	}
	if err := lc.Plugins.Nav(lc.Nav, cfg, lc.Files); err != nil {
		return err
	}
	if d.Exporter != nil {
		if err := d.Exporter.OnConfig(cfg); err != nil {
			return err
		}
		if err := d.Exporter.OnNav(lc.Nav, cfg, lc.Files); err != nil {
			return err
		}
	}

	if err := d.buildPages(lc); err != nil {
		return err
	}

	if d.Exporter != nil {
		if err := d.Exporter.OnPostBuild(cfg); err != nil {
			return errors.Wrap(err, "plugin with-pdf: on_post_build")
		}
	}
	return lc.Plugins.PostBuild(cfg)
}

func (d *Driver) buildLocale(ctx context.Context, lc *LocaleConfig, exportPath string) error {
	d.Log.Info("Building documentation", logfields.Locale(lc.Locale.Code))
	cfg := lc.Site

	SetThemeLocale(cfg, lc.Locale.Code, d.Log)
	if err := d.runHooks(ctx, lc); err != nil {
		return err
	}
	if d.Minify != nil {
		if err := d.Minify.OnPreBuild(cfg); err != nil {
			return errors.Wrap(err, "plugin minify: on_pre_build")
		}
	}

	if err := d.buildPages(lc); err != nil {
		return err
	}

	if d.Exporter != nil {
		d.Exporter.SetOutputPath(lc.Prefix + "/" + exportPath)
		if err := d.Exporter.OnConfig(cfg); err != nil {
			return err
		}
		if err := d.Exporter.OnNav(lc.Nav, cfg, lc.Files); err != nil {
			return err
		}
		if err := d.Exporter.OnPostBuild(cfg); err != nil {
			return errors.Wrap(err, "plugin with-pdf: on_post_build")
		}
	}
	return nil
}

// buildPages copies the files of the pass, then populates every page before
// rendering any.
func (d *Driver) buildPages(lc *LocaleConfig) error {
	cfg := lc.Site
	if lc.Env != nil {
		if err := lc.Env.AddThemeFiles(lc.Files, cfg.UseDirectoryURLs); err != nil {
			return err
		}
		if err := lc.Env.CopyStaticFiles(lc.Files, cfg.SiteDir, d.Dirty); err != nil {
			return err
		}
	}

	files := lc.Files.DocumentationPages()
	pages := make([]*structure.Page, 0, len(files))
	bound := make(map[*structure.File]*structure.Page, len(files))
	for _, f := range files {
		page := structure.NewPage(f)
		page.Locale = f.Locale
		if page.Locale == "" {
			page.Locale = d.Registry.Default()
		}
		if err := d.Pipeline.Populate(page, cfg, lc.Files, d.Dirty); err != nil {
			return errors.Wrapf(err, "error populating %s", f.SrcPath)
		}
		pages = append(pages, page)
		bound[f] = page
	}
	lc.Nav.Bind(bound)

	for _, page := range pages {
		if err := d.Pipeline.Render(page, cfg, lc.Files, lc.Nav, lc.Env, d.Dirty); err != nil {
			return errors.Wrapf(err, "error rendering %s", page.File.SrcPath)
		}
	}
	d.Recorder.ObservePages(lc.Prefix, len(pages))

	if r, ok := d.Pipeline.(notFoundRenderer); ok && lc.Env != nil {
		if err := r.Render404(cfg, lc.Nav, lc.Env, lc.Prefix); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) runHooks(ctx context.Context, lc *LocaleConfig) error {
	if d.Hooks == nil {
		return nil
	}
	return d.Hooks.Run(ctx, hooks.PreBuild, lc.Site, lc.Prefix)
}
