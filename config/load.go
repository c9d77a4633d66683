package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	DefaultDocsDir = "docs"
	DefaultSiteDir = "site"
)

// Load reads a site configuration from a .yml/.yaml or .toml file. Relative
// directories are resolved against the directory holding the file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var root Value
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		root, err = parseTOML(data)
	default:
		root, err = parseYAML(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}

	m, ok := root.(Map)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidConfig, "%s: top level must be a mapping", filename)
	}

	cfg, err := Decode(m)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", filename)
	}
	cfg.File = filename

	base := filepath.Dir(filename)
	cfg.DocsDir = resolve(base, cfg.DocsDir)
	cfg.SiteDir = resolve(base, cfg.SiteDir)
	if cfg.Theme.CustomDir != "" {
		cfg.Theme.CustomDir = resolve(base, cfg.Theme.CustomDir)
	}
	return cfg, nil
}

func parseYAML(data []byte) (Value, error) {
	var raw yaml.MapSlice
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WithStack(err)
	}
	return FromYAML(raw), nil
}

func parseTOML(data []byte) (Value, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return FromTOML(tree), nil
}

func resolve(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// Decode builds a typed Config from a parsed configuration tree.
func Decode(m Map) (*Config, error) {
	cfg := &Config{
		DocsDir:          DefaultDocsDir,
		SiteDir:          DefaultSiteDir,
		UseDirectoryURLs: true,
		Theme:            Theme{Name: "mkdocs"},
		Hooks:            &Hooks{},
	}

	for _, item := range m {
		var err error
		switch item.Key {
		case "site_name":
			cfg.SiteName, err = decodeString(item)
		case "site_url":
			cfg.SiteURL, err = decodeString(item)
		case "docs_dir":
			cfg.DocsDir, err = decodeString(item)
		case "site_dir":
			cfg.SiteDir, err = decodeString(item)
		case "use_directory_urls":
			cfg.UseDirectoryURLs, err = decodeBool(item)
		case "theme":
			cfg.Theme, err = decodeTheme(item.Value)
		case "nav":
			if _, ok := item.Value.(List); !ok {
				err = errors.Wrap(ErrInvalidConfig, "nav must be a list")
			}
			cfg.Nav = item.Value
		case "extra":
			cfg.Extra, cfg.Alternates, err = decodeExtra(item.Value)
		case "extra_css":
			cfg.ExtraCSS, err = decodeStrings(item)
		case "extra_javascript":
			cfg.ExtraJavascript, err = decodeStrings(item)
		case "javascript":
			cfg.Javascript, err = decodeJavascript(item.Value)
		case "plugins":
			cfg.Plugins, err = decodePlugins(item.Value)
		case "hooks":
			cfg.Hooks, err = decodeHooks(item.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	if cfg.SiteName == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "site_name is required")
	}
	return cfg, nil
}

func decodeString(item MapItem) (string, error) {
	s, ok := Text(item.Value)
	if !ok {
		return "", errors.Wrapf(ErrInvalidConfig, "%s must be a string", item.Key)
	}
	return s, nil
}

func decodeBool(item MapItem) (bool, error) {
	b, ok := item.Value.(Bool)
	if !ok {
		return false, errors.Wrapf(ErrInvalidConfig, "%s must be a boolean", item.Key)
	}
	return bool(b), nil
}

func decodeStrings(item MapItem) ([]string, error) {
	list, ok := item.Value.(List)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidConfig, "%s must be a list", item.Key)
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		s, ok := Text(e)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "%s entries must be strings", item.Key)
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeTheme(v Value) (Theme, error) {
	theme := Theme{}
	if name, ok := Text(v); ok {
		theme.Name = name
		return theme, nil
	}
	m, ok := v.(Map)
	if !ok {
		return theme, errors.Wrap(ErrInvalidConfig, "theme must be a name or a mapping")
	}
	for _, item := range m {
		var err error
		switch item.Key {
		case "name":
			theme.Name, err = decodeString(item)
		case "language":
			theme.Language, err = decodeString(item)
		case "locale":
			theme.Locale, err = decodeString(item)
		case "custom_dir":
			theme.CustomDir, err = decodeString(item)
		case "features":
			theme.Features, err = decodeStrings(item)
		}
		if err != nil {
			return theme, errors.Wrap(err, "theme")
		}
	}
	if theme.Name == "" {
		theme.Name = "mkdocs"
	}
	return theme, nil
}

func decodeExtra(v Value) (Map, []Alternate, error) {
	m, ok := v.(Map)
	if !ok {
		return nil, nil, errors.Wrap(ErrInvalidConfig, "extra must be a mapping")
	}
	raw, ok := m.Get("alternate")
	if !ok {
		return m, nil, nil
	}
	list, ok := raw.(List)
	if !ok {
		return nil, nil, errors.Wrap(ErrInvalidConfig, "extra.alternate must be a list")
	}
	alternates := make([]Alternate, 0, len(list))
	for _, e := range list {
		entry, ok := e.(Map)
		if !ok {
			return nil, nil, errors.Wrap(ErrInvalidConfig, "extra.alternate entries must be mappings")
		}
		var alt Alternate
		for _, item := range entry {
			s, _ := Text(item.Value)
			switch item.Key {
			case "name":
				alt.Name = s
			case "link":
				alt.Link = s
			case "fixed_link":
				alt.FixedLink = s
			case "lang":
				alt.Lang = s
			}
		}
		alternates = append(alternates, alt)
	}
	return m, alternates, nil
}

func decodeJavascript(v Value) (map[string]JavascriptTarget, error) {
	m, ok := v.(Map)
	if !ok {
		return nil, errors.Wrap(ErrInvalidConfig, "javascript must be a mapping")
	}
	targets := make(map[string]JavascriptTarget, len(m))
	for _, item := range m {
		entry, ok := item.Value.(Map)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "javascript.%s must be a mapping", item.Key)
		}
		var target JavascriptTarget
		if src, ok := entry.Get("source"); ok {
			target.Source, _ = Text(src)
		}
		if out, ok := entry.Get("out_dir"); ok {
			target.OutDir, _ = Text(out)
		}
		if target.Source == "" {
			return nil, errors.Wrapf(ErrInvalidConfig, "javascript.%s.source is required", item.Key)
		}
		targets[item.Key] = target
	}
	return targets, nil
}

// decodePlugins accepts both a list of names (each optionally a one-key mapping
// to its options) and a mapping of name to options.
func decodePlugins(v Value) ([]PluginConfig, error) {
	var out []PluginConfig
	add := func(name string, opts Value) error {
		if opts == nil {
			out = append(out, PluginConfig{Name: name, Options: Map{}})
			return nil
		}
		m, ok := opts.(Map)
		if !ok {
			return errors.Wrapf(ErrInvalidConfig, "plugins.%s options must be a mapping", name)
		}
		out = append(out, PluginConfig{Name: name, Options: m})
		return nil
	}

	switch t := v.(type) {
	case Map:
		for _, item := range t {
			if err := add(item.Key, item.Value); err != nil {
				return nil, err
			}
		}
	case List:
		for _, e := range t {
			if name, ok := Text(e); ok {
				if err := add(name, nil); err != nil {
					return nil, err
				}
				continue
			}
			m, ok := e.(Map)
			if !ok || len(m) != 1 {
				return nil, errors.Wrap(ErrInvalidConfig, "plugins entries must be names or one-key mappings")
			}
			if err := add(m[0].Key, m[0].Value); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.Wrap(ErrInvalidConfig, "plugins must be a list or a mapping")
	}
	return out, nil
}

func decodeHooks(v Value) (*Hooks, error) {
	list, ok := v.(List)
	if !ok {
		return nil, errors.Wrap(ErrInvalidConfig, "hooks must be a list")
	}
	hooks := &Hooks{}
	for _, e := range list {
		m, ok := e.(Map)
		if !ok {
			return nil, errors.Wrap(ErrInvalidConfig, "hooks entries must be mappings")
		}
		var hook Hook
		if ev, ok := m.Get("event"); ok {
			hook.Event, _ = Text(ev)
		}
		if cmd, ok := m.Get("command"); ok {
			hook.Command, _ = Text(cmd)
		}
		switch hook.Event {
		case "pre_build", "post_build":
		default:
			return nil, errors.Wrapf(ErrInvalidConfig, "hooks: unsupported event %q", hook.Event)
		}
		if hook.Command == "" {
			return nil, errors.Wrap(ErrInvalidConfig, "hooks: command is required")
		}
		hooks.Entries = append(hooks.Entries, hook)
	}
	return hooks, nil
}
