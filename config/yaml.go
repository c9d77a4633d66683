package config

import (
	"maps"
	"slices"

	"github.com/pkg/errors"
)

// config/yaml.go

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type JavascriptTarget struct {
	Source string
	OutDir string
}

type Theme struct {
	Name      string
	Language  string
	Locale    string
	CustomDir string
	Features  []string
}

// HasFeature reports whether the theme enables the named feature flag.
func (t Theme) HasFeature(name string) bool {
	return slices.Contains(t.Features, name)
}

// Alternate is one entry of the language switcher.
type Alternate struct {
	Name      string
	Link      string
	FixedLink string
	Lang      string
}

type Hook struct {
	Event   string
	Command string
}

// Hooks is shared by every per-locale copy of a Config.
type Hooks struct {
	Entries []Hook
}

// For returns the hooks registered for event, in declaration order.
func (h *Hooks) For(event string) []Hook {
	if h == nil {
		return nil
	}
	var out []Hook
	for _, hook := range h.Entries {
		if hook.Event == event {
			out = append(out, hook)
		}
	}
	return out
}

type PluginConfig struct {
	Name    string
	Options Map
}

type Config struct {
	// File is the path the configuration was loaded from.
	File string

	SiteName         string
	SiteURL          string
	DocsDir          string
	SiteDir          string
	UseDirectoryURLs bool
	Theme            Theme
	Nav              Value
	Extra            Map
	Alternates       []Alternate
	ExtraCSS         []string
	ExtraJavascript  []string
	Javascript       map[string]JavascriptTarget
	Plugins          []PluginConfig
	Hooks            *Hooks
}

// Plugin returns the options of the named plugin.
func (c *Config) Plugin(name string) (Map, bool) {
	for _, p := range c.Plugins {
		if p.Name == name {
			return p.Options, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the configuration. Hooks are shared with the
// original.
func (c *Config) Clone() *Config {
	out := *c
	out.Theme.Features = slices.Clone(c.Theme.Features)
	out.Nav = Clone(c.Nav)
	if c.Extra != nil {
		out.Extra = Clone(c.Extra).(Map)
	}
	out.Alternates = slices.Clone(c.Alternates)
	out.ExtraCSS = slices.Clone(c.ExtraCSS)
	out.ExtraJavascript = slices.Clone(c.ExtraJavascript)
	out.Javascript = maps.Clone(c.Javascript)
	out.Plugins = make([]PluginConfig, len(c.Plugins))
	for i, p := range c.Plugins {
		out.Plugins[i] = PluginConfig{Name: p.Name}
		if p.Options != nil {
			out.Plugins[i].Options = Clone(p.Options).(Map)
		}
	}
	return &out
}
