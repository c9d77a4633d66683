// Package locale resolves the configured languages of a multi-locale build.
package locale

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/config"
)

// ErrUndefinedLocale is returned when a locale that was never configured is
// requested.
var ErrUndefinedLocale = errors.New("undefined locale")

// Locale is one resolved language of the site.
type Locale struct {
	Code      string
	Name      string
	Link      string
	FixedLink string
	Build     bool
	SiteName  string
	// Folded is set on a default locale that was not configured explicitly. Its
	// pages are only produced by the root build.
	Folded bool
}

// Registry holds the active locales in registration order, default first.
type Registry struct {
	defaultCode  string
	defaultBuild Locale
	codes        []string
	locales      map[string]Locale
}

// NewRegistry resolves the languages of opts. siteName back-fills every locale
// without its own site_name.
func NewRegistry(opts config.I18nOptions, siteName string) (*Registry, error) {
	if opts.DefaultLanguage == "" {
		return nil, errors.Wrap(config.ErrInvalidConfig, "default_language is required")
	}

	r := &Registry{
		defaultCode: opts.DefaultLanguage,
		locales:     map[string]Locale{},
	}

	var defaultEntry *config.LanguageOptions
	var entries []config.LanguageEntry
	for _, e := range opts.Languages {
		lo := e.Options
		if lo.SiteName == "" {
			lo.SiteName = siteName
		}
		if e.Code == config.DefaultKey {
			defaultEntry = &lo
			continue
		}
		entries = append(entries, config.LanguageEntry{Code: e.Code, Options: lo})
	}

	explicit := func(code string) (config.LanguageOptions, bool) {
		for _, e := range entries {
			if e.Code == code {
				return e.Options, true
			}
		}
		return config.LanguageOptions{}, false
	}

	if defaultEntry != nil {
		r.defaultBuild = fromOptions(r.defaultCode, *defaultEntry)
	} else {
		r.defaultBuild = Locale{
			Code:     r.defaultCode,
			Name:     config.DefaultKey,
			Link:     "./",
			Build:    true,
			SiteName: siteName,
		}
	}
	if r.defaultBuild.Name == config.DefaultKey {
		r.defaultBuild.Name = r.defaultCode
		r.defaultBuild.SiteName = siteName
		r.defaultBuild.FixedLink = ""
		if lo, ok := explicit(r.defaultCode); ok {
			r.defaultBuild.Name = lo.Name
			r.defaultBuild.SiteName = lo.SiteName
			r.defaultBuild.FixedLink = lo.FixedLink
		}
	}

	if _, ok := explicit(r.defaultCode); !ok {
		r.add(Locale{
			Code:     r.defaultCode,
			Name:     r.defaultBuild.Name,
			Link:     "./",
			Build:    len(entries) == 0,
			SiteName: siteName,
			Folded:   true,
		})
	}
	for _, e := range entries {
		r.add(fromOptions(e.Code, e.Options))
	}

	// Default first, registration order otherwise.
	if i := slices.Index(r.codes, r.defaultCode); i > 0 {
		r.codes = append([]string{r.defaultCode}, slices.Delete(r.codes, i, i+1)...)
	}
	return r, nil
}

func fromOptions(code string, lo config.LanguageOptions) Locale {
	return Locale{
		Code:      code,
		Name:      lo.Name,
		Link:      lo.Link,
		FixedLink: lo.FixedLink,
		Build:     lo.Build,
		SiteName:  lo.SiteName,
	}
}

func (r *Registry) add(l Locale) {
	r.codes = append(r.codes, l.Code)
	r.locales[l.Code] = l
}

// Default returns the default locale identifier.
func (r *Registry) Default() string {
	return r.defaultCode
}

// DefaultBuild returns the display options of the root build.
func (r *Registry) DefaultBuild() Locale {
	return r.defaultBuild
}

// Codes returns every active locale identifier, default first.
func (r *Registry) Codes() []string {
	return slices.Clone(r.codes)
}

// Has reports whether code is an active locale.
func (r *Registry) Has(code string) bool {
	_, ok := r.locales[code]
	return ok
}

// Get returns the resolved locale for code.
func (r *Registry) Get(code string) (Locale, error) {
	l, ok := r.locales[code]
	if !ok {
		return Locale{}, errors.Wrapf(ErrUndefinedLocale, "%q", code)
	}
	return l, nil
}

// Locales returns every active locale in registration order.
func (r *Registry) Locales() []Locale {
	out := make([]Locale, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.locales[code])
	}
	return out
}

// Builds returns the locales that get their own locale-prefixed build.
func (r *Registry) Builds() []Locale {
	var out []Locale
	for _, l := range r.Locales() {
		if l.Build && !l.Folded {
			out = append(out, l)
		}
	}
	return out
}

// Len returns the number of active locales.
func (r *Registry) Len() int {
	return len(r.codes)
}
