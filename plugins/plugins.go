// Package plugins dispatches build events to the configured plugins.
package plugins

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/structure"
)

// Plugin is the minimal interface of a plugin. Plugins receive events by
// implementing any of the listener interfaces below.
type Plugin interface {
	Name() string
}

type ConfigListener interface {
	OnConfig(cfg *config.Config) error
}

type PreBuildListener interface {
	OnPreBuild(cfg *config.Config) error
}

type NavListener interface {
	OnNav(nav *structure.Navigation, cfg *config.Config, files *structure.Files) error
}

type PageMarkdownListener interface {
	OnPageMarkdown(markdown string, page *structure.Page, cfg *config.Config, files *structure.Files) (string, error)
}

// PageContext is the template context of one page.
type PageContext map[string]interface{}

type PageContextListener interface {
	OnPageContext(ctx PageContext, page *structure.Page, cfg *config.Config, nav *structure.Navigation) error
}

type PostPageListener interface {
	OnPostPage(output string, page *structure.Page, cfg *config.Config) (string, error)
}

type PostBuildListener interface {
	OnPostBuild(cfg *config.Config) error
}

type Event string

const (
	EventConfig       Event = "config"
	EventPreBuild     Event = "pre_build"
	EventNav          Event = "nav"
	EventPageMarkdown Event = "page_markdown"
	EventPageContext  Event = "page_context"
	EventPostPage     Event = "post_page"
	EventPostBuild    Event = "post_build"
)

var allEvents = []Event{
	EventConfig, EventPreBuild, EventNav, EventPageMarkdown,
	EventPageContext, EventPostPage, EventPostBuild,
}

type entry struct {
	plugin   Plugin
	detached map[Event]bool
}

// Registry holds the plugins in registration order. A single registry is
// shared by every locale build.
type Registry struct {
	entries []*entry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends p. Names are unique.
func (r *Registry) Register(p Plugin) error {
	if r.find(p.Name()) != nil {
		return errors.Errorf("plugin %q is already registered", p.Name())
	}
	r.entries = append(r.entries, &entry{plugin: p, detached: map[Event]bool{}})
	return nil
}

func (r *Registry) find(name string) *entry {
	for _, e := range r.entries {
		if e.plugin.Name() == name {
			return e
		}
	}
	return nil
}

// Get returns the named plugin, detached or not.
func (r *Registry) Get(name string) (Plugin, bool) {
	if e := r.find(name); e != nil {
		return e.plugin, true
	}
	return nil, false
}

// Detach stops dispatching events to the named plugin. With no events given
// the plugin is detached from every event. The plugin stays addressable with
// Get so its lifecycle can be driven explicitly.
func (r *Registry) Detach(name string, events ...Event) bool {
	e := r.find(name)
	if e == nil {
		return false
	}
	if len(events) == 0 {
		events = allEvents
	}
	for _, ev := range events {
		e.detached[ev] = true
	}
	return true
}

// Names returns the registered plugin names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.plugin.Name())
	}
	return names
}

// Attached returns the plugins receiving ev, in registration order.
func (r *Registry) Attached(ev Event) []Plugin {
	var out []Plugin
	for _, e := range r.entries {
		if !e.detached[ev] {
			out = append(out, e.plugin)
		}
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) Config(cfg *config.Config) error {
	for _, p := range r.Attached(EventConfig) {
		if l, ok := p.(ConfigListener); ok {
			if err := l.OnConfig(cfg); err != nil {
				return errors.Wrapf(err, "plugin %s: on_config", p.Name())
			}
		}
	}
	return nil
}

func (r *Registry) PreBuild(cfg *config.Config) error {
	for _, p := range r.Attached(EventPreBuild) {
		if l, ok := p.(PreBuildListener); ok {
			if err := l.OnPreBuild(cfg); err != nil {
				return errors.Wrapf(err, "plugin %s: on_pre_build", p.Name())
			}
		}
	}
	return nil
}

func (r *Registry) Nav(nav *structure.Navigation, cfg *config.Config, files *structure.Files) error {
	for _, p := range r.Attached(EventNav) {
		if l, ok := p.(NavListener); ok {
			if err := l.OnNav(nav, cfg, files); err != nil {
				return errors.Wrapf(err, "plugin %s: on_nav", p.Name())
			}
		}
	}
	return nil
}

func (r *Registry) PageMarkdown(markdown string, page *structure.Page, cfg *config.Config, files *structure.Files) (string, error) {
	for _, p := range r.Attached(EventPageMarkdown) {
		if l, ok := p.(PageMarkdownListener); ok {
			var err error
			markdown, err = l.OnPageMarkdown(markdown, page, cfg, files)
			if err != nil {
				return "", errors.Wrapf(err, "plugin %s: on_page_markdown", p.Name())
			}
		}
	}
	return markdown, nil
}

func (r *Registry) PageContext(ctx PageContext, page *structure.Page, cfg *config.Config, nav *structure.Navigation) error {
	for _, p := range r.Attached(EventPageContext) {
		if l, ok := p.(PageContextListener); ok {
			if err := l.OnPageContext(ctx, page, cfg, nav); err != nil {
				return errors.Wrapf(err, "plugin %s: on_page_context", p.Name())
			}
		}
	}
	return nil
}

func (r *Registry) PostPage(output string, page *structure.Page, cfg *config.Config) (string, error) {
	for _, p := range r.Attached(EventPostPage) {
		if l, ok := p.(PostPageListener); ok {
			var err error
			output, err = l.OnPostPage(output, page, cfg)
			if err != nil {
				return "", errors.Wrapf(err, "plugin %s: on_post_page", p.Name())
			}
		}
	}
	return output, nil
}

func (r *Registry) PostBuild(cfg *config.Config) error {
	for _, p := range r.Attached(EventPostBuild) {
		if l, ok := p.(PostBuildListener); ok {
			if err := l.OnPostBuild(cfg); err != nil {
				return errors.Wrapf(err, "plugin %s: on_post_build", p.Name())
			}
		}
	}
	return nil
}

// IsDetached reports whether the named plugin stopped receiving ev.
func (r *Registry) IsDetached(name string, ev Event) bool {
	e := r.find(name)
	return e != nil && e.detached[ev]
}

// Events lists every dispatchable event.
func Events() []Event {
	return slices.Clone(allEvents)
}
