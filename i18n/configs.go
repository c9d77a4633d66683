package i18n

import (
	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/locale"
	"github.com/ZacxDev/go-static-i18n/plugins"
	"github.com/ZacxDev/go-static-i18n/render"
	"github.com/ZacxDev/go-static-i18n/structure"
)

// LocaleConfig is everything one build pass works with. Site, Files and Nav
// belong to the pass; Env and Plugins are the same for every pass, as are the
// hooks of Site.
type LocaleConfig struct {
	Locale locale.Locale
	// Prefix is the output directory of the pass; empty for the root build.
	Prefix  string
	Site    *config.Config
	Files   *structure.Files
	Nav     *structure.Navigation
	Env     *render.Environment
	Plugins *plugins.Registry
}

// CloneConfigs returns an independent copy of base for every active locale.
func CloneConfigs(base *config.Config, reg *locale.Registry, env *render.Environment, registry *plugins.Registry) map[string]*LocaleConfig {
	out := make(map[string]*LocaleConfig, reg.Len())
	for _, l := range reg.Locales() {
		out[l.Code] = &LocaleConfig{
			Locale:  l,
			Prefix:  l.Code,
			Site:    base.Clone(),
			Env:     env,
			Plugins: registry,
		}
	}
	return out
}
