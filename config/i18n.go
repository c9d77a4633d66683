package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// DocsStructure selects how a source file declares its locale.
type DocsStructure string

const (
	// StructureSuffix encodes the locale as a filename component: guide.fr.md.
	StructureSuffix DocsStructure = "suffix"
	// StructureFolder encodes the locale as a leading directory: fr/guide.md.
	StructureFolder DocsStructure = "folder"
)

// DefaultKey configures the display options of the default (root) build.
const DefaultKey = "default"

// LanguageOptions are the display options of one configured language.
type LanguageOptions struct {
	Name      string
	Link      string
	FixedLink string
	Build     bool
	SiteName  string
}

type LanguageEntry struct {
	Code    string
	Options LanguageOptions
}

// I18nOptions are the options of the i18n plugin.
type I18nOptions struct {
	DefaultLanguageOnly bool
	DefaultLanguage     string
	DocsStructure       DocsStructure
	// Languages keeps configuration order and may contain DefaultKey.
	Languages         []LanguageEntry
	MaterialAlternate bool
	NavTranslations   map[string]map[string]string
	SearchReconfigure bool
}

// I18n decodes the options of the i18n plugin from the site configuration.
func (c *Config) I18n() (I18nOptions, error) {
	opts, ok := c.Plugin("i18n")
	if !ok {
		return I18nOptions{}, errors.Wrap(ErrInvalidConfig, "plugins.i18n is not configured")
	}
	base := "."
	if c.File != "" {
		base = filepath.Dir(c.File)
	}
	return DecodeI18n(opts, base)
}

// DecodeI18n decodes i18n plugin options. base resolves a nav_translations
// directory given as a string.
func DecodeI18n(m Map, base string) (I18nOptions, error) {
	opts := I18nOptions{
		DocsStructure:     StructureSuffix,
		MaterialAlternate: true,
		SearchReconfigure: true,
		NavTranslations:   map[string]map[string]string{},
	}

	for _, item := range m {
		var err error
		switch item.Key {
		case "default_language_only":
			opts.DefaultLanguageOnly, err = decodeBool(item)
		case "default_language":
			opts.DefaultLanguage, err = decodeString(item)
		case "docs_structure":
			var s string
			s, err = decodeString(item)
			opts.DocsStructure = DocsStructure(s)
		case "languages":
			opts.Languages, err = decodeLanguages(item.Value)
		case "material_alternate":
			opts.MaterialAlternate, err = decodeBool(item)
		case "nav_translations":
			opts.NavTranslations, err = decodeNavTranslations(item.Value, base)
		case "search_reconfigure":
			opts.SearchReconfigure, err = decodeBool(item)
		default:
			err = errors.Wrapf(ErrInvalidConfig, "i18n: unknown option %q", item.Key)
		}
		if err != nil {
			return opts, err
		}
	}

	if opts.DefaultLanguage == "" {
		return opts, errors.Wrap(ErrInvalidConfig, "i18n: default_language is required")
	}
	if err := validateCode(opts.DefaultLanguage); err != nil {
		return opts, err
	}
	if opts.Languages == nil {
		return opts, errors.Wrap(ErrInvalidConfig, "i18n: languages is required")
	}
	switch opts.DocsStructure {
	case StructureSuffix, StructureFolder:
	default:
		return opts, errors.Wrapf(ErrInvalidConfig, "i18n: docs_structure must be %q or %q, got %q",
			StructureFolder, StructureSuffix, opts.DocsStructure)
	}
	return opts, nil
}

func validateCode(code string) error {
	if _, err := language.Parse(strings.ReplaceAll(code, "_", "-")); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "i18n: %q is not a valid language identifier", code)
	}
	return nil
}

func decodeLanguages(v Value) ([]LanguageEntry, error) {
	m, ok := v.(Map)
	if !ok {
		return nil, errors.Wrap(ErrInvalidConfig, "i18n: languages must be a mapping")
	}
	seen := map[string]bool{}
	entries := make([]LanguageEntry, 0, len(m))
	for _, item := range m {
		if seen[item.Key] {
			return nil, errors.Wrapf(ErrInvalidConfig, "i18n: language %q is configured twice", item.Key)
		}
		seen[item.Key] = true
		if item.Key != DefaultKey {
			if err := validateCode(item.Key); err != nil {
				return nil, err
			}
		}
		lo, err := decodeLanguageOptions(item.Key, item.Value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LanguageEntry{Code: item.Key, Options: lo})
	}
	return entries, nil
}

func decodeLanguageOptions(code string, v Value) (LanguageOptions, error) {
	lo := LanguageOptions{
		Name:  code,
		Link:  "./" + code + "/",
		Build: true,
	}
	if code == DefaultKey {
		lo.Link = "./"
	}
	if name, ok := Text(v); ok {
		lo.Name = name
		return lo, nil
	}
	if v == nil {
		return lo, nil
	}
	m, ok := v.(Map)
	if !ok {
		return lo, errors.Wrapf(ErrInvalidConfig, "i18n: languages.%s must be a name or a mapping", code)
	}
	for _, item := range m {
		var err error
		switch item.Key {
		case "name":
			lo.Name, err = decodeString(item)
		case "link":
			lo.Link, err = decodeString(item)
		case "fixed_link":
			if item.Value != nil {
				lo.FixedLink, err = decodeString(item)
			}
		case "build":
			lo.Build, err = decodeBool(item)
		case "site_name":
			if item.Value != nil {
				lo.SiteName, err = decodeString(item)
			}
		default:
			err = errors.Wrapf(ErrInvalidConfig, "unknown option %q", item.Key)
		}
		if err != nil {
			return lo, errors.Wrapf(err, "i18n: languages.%s", code)
		}
	}
	return lo, nil
}

func decodeNavTranslations(v Value, base string) (map[string]map[string]string, error) {
	if dir, ok := Text(v); ok {
		return loadTranslations(resolve(base, dir))
	}
	m, ok := v.(Map)
	if !ok {
		return nil, errors.Wrap(ErrInvalidConfig, "i18n: nav_translations must be a mapping or a directory")
	}
	out := make(map[string]map[string]string, len(m))
	for _, item := range m {
		table, ok := item.Value.(Map)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "i18n: nav_translations.%s must be a mapping", item.Key)
		}
		titles := make(map[string]string, len(table))
		for _, t := range table {
			s, ok := Text(t.Value)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidConfig, "i18n: nav_translations.%s.%s must be a string", item.Key, t.Key)
			}
			titles[t.Key] = s
		}
		out[item.Key] = titles
	}
	return out, nil
}

// loadTranslations reads one <locale>.yaml title table per file in dir.
func loadTranslations(dir string) (map[string]map[string]string, error) {
	translations := make(map[string]map[string]string)

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for _, file := range files {
		lang := strings.TrimSuffix(filepath.Base(file), ".yaml")
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		var langTranslations map[string]string
		if err := yaml.Unmarshal(data, &langTranslations); err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "nav translations %s: %v", file, err)
		}

		translations[lang] = langTranslations
	}

	return translations, nil
}
