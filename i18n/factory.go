package i18n

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/export"
	"github.com/ZacxDev/go-static-i18n/logfields"
	"github.com/ZacxDev/go-static-i18n/minify"
	"github.com/ZacxDev/go-static-i18n/plugins"
	"github.com/ZacxDev/go-static-i18n/search"
)

// LoadPlugins registers the configured plugins in configuration order. The
// i18n plugin is skipped: it is built from its options and registered last.
func LoadPlugins(cfg *config.Config, log *slog.Logger) (*plugins.Registry, error) {
	registry := plugins.NewRegistry()
	for _, pc := range cfg.Plugins {
		var p plugins.Plugin
		var err error
		switch pc.Name {
		case Name:
			continue
		case search.Name:
			p, err = search.NewPlugin(pc.Options, log)
		case minify.Name:
			p, err = minify.NewPlugin(pc.Options, log)
		case export.Name:
			p, err = export.NewPlugin(pc.Options, log)
		default:
			return nil, errors.Wrapf(config.ErrInvalidConfig, "unknown plugin %q", pc.Name)
		}
		if err != nil {
			return nil, err
		}
		if err := registry.Register(p); err != nil {
			return nil, errors.Wrap(config.ErrInvalidConfig, err.Error())
		}
		log.Debug("Registered plugin", logfields.Plugin(pc.Name))
	}
	return registry, nil
}

func searchPlugin(registry *plugins.Registry) *search.Plugin {
	p, _ := registry.Get(search.Name)
	s, _ := p.(*search.Plugin)
	return s
}

func minifyPlugin(registry *plugins.Registry) *minify.Plugin {
	p, _ := registry.Get(minify.Name)
	m, _ := p.(*minify.Plugin)
	return m
}

func exportPlugin(registry *plugins.Registry) *export.Plugin {
	p, _ := registry.Get(export.Name)
	e, _ := p.(*export.Plugin)
	return e
}
