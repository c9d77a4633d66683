package handlers

import (
	"sync"

	"github.com/ZacxDev/go-static-i18n/i18n"
	"github.com/ZacxDev/go-static-i18n/search"
)

// LocaleInfo describes one build of the served site.
type LocaleInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Link   string `json:"link"`
	Prefix string `json:"prefix"`
}

// Site is the state of the last build, swapped after every rebuild.
type Site struct {
	mu      sync.RWMutex
	dir     string
	def     string
	locales []LocaleInfo
	codes   []string
	index   []search.Entry
}

func NewSite(dir string) *Site {
	return &Site{dir: dir}
}

// Dir returns the directory the site is served from.
func (s *Site) Dir() string {
	return s.dir
}

// Update records the outcome of a build.
func (s *Site) Update(res *i18n.Result) {
	reg := res.Registry
	root := reg.DefaultBuild()
	locales := []LocaleInfo{{Code: reg.Default(), Name: root.Name, Link: root.Link}}
	for _, l := range reg.Builds() {
		locales = append(locales, LocaleInfo{Code: l.Code, Name: l.Name, Link: l.Link, Prefix: l.Code})
	}

	var index []search.Entry
	if p, ok := res.Plugins.Get(search.Name); ok {
		if sp, ok := p.(*search.Plugin); ok {
			index = sp.Index().Entries()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.def = reg.Default()
	s.locales = locales
	s.codes = reg.Codes()
	s.index = index
}

// Locales returns the root build first, then every locale build.
func (s *Site) Locales() []LocaleInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]LocaleInfo(nil), s.locales...)
}

func (s *Site) Default() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.def
}

// Prefixes returns the output prefix of every built locale.
func (s *Site) Prefixes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, l := range s.locales {
		if l.Prefix != "" {
			out = append(out, l.Prefix)
		}
	}
	return out
}

// SearchEntries returns the entries of the build of code. The default locale
// owns every entry outside of a locale prefix.
func (s *Site) SearchEntries(code string) ([]search.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	known := code == s.def
	for _, l := range s.locales {
		if l.Prefix == code {
			known = true
		}
	}
	if !known {
		return nil, false
	}

	out := []search.Entry{}
	for _, e := range s.index {
		switch {
		case search.Scoped(e.Location, []string{code}):
			out = append(out, e)
		case code == s.def && !search.Scoped(e.Location, s.codes):
			out = append(out, e)
		}
	}
	return out, true
}
