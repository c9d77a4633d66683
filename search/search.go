// Package search builds the client side search index of a site.
package search

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/logfields"
	"github.com/ZacxDev/go-static-i18n/plugins"
	"github.com/ZacxDev/go-static-i18n/structure"
)

const Name = "search"

// IndexPath is the location of the index below the site directory.
const IndexPath = "search/search_index.json"

// Entry is one searchable document: a page or a section of a page.
type Entry struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Text     string `json:"text"`
}

// Index accumulates entries across every build of a site.
type Index struct {
	mu      sync.Mutex
	entries []Entry
}

func NewIndex() *Index {
	return &Index{}
}

func (i *Index) Add(e Entry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = append(i.entries, e)
}

// Entries returns a copy of the entries in insertion order.
func (i *Index) Entries() []Entry {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]Entry(nil), i.entries...)
}

// Replace swaps the entries of the index.
func (i *Index) Replace(entries []Entry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = entries
}

func (i *Index) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.entries)
}

// Options are the options of the search plugin.
type Options struct {
	Lang      []string
	Separator string
}

type document struct {
	Config struct {
		Lang      []string `json:"lang"`
		Separator string   `json:"separator"`
	} `json:"config"`
	Docs []Entry `json:"docs"`
}

// Plugin indexes every rendered page and writes the index after the build.
type Plugin struct {
	Options Options
	index   *Index
	log     *slog.Logger
}

// NewPlugin decodes the plugin options: lang (a code or a list of codes) and
// separator.
func NewPlugin(opts config.Map, log *slog.Logger) (*Plugin, error) {
	if log == nil {
		log = slog.Default()
	}
	p := &Plugin{
		Options: Options{Separator: `[\s\-]+`},
		index:   NewIndex(),
		log:     log,
	}
	for _, item := range opts {
		switch item.Key {
		case "lang":
			switch v := item.Value.(type) {
			case config.List:
				for _, e := range v {
					code, ok := config.Text(e)
					if !ok {
						return nil, errors.Wrap(config.ErrInvalidConfig, "plugins.search.lang entries must be strings")
					}
					p.Options.Lang = append(p.Options.Lang, code)
				}
			case nil:
			default:
				code, ok := config.Text(v)
				if !ok {
					return nil, errors.Wrap(config.ErrInvalidConfig, "plugins.search.lang must be a string or a list")
				}
				p.Options.Lang = []string{code}
			}
		case "separator":
			sep, ok := config.Text(item.Value)
			if !ok {
				return nil, errors.Wrap(config.ErrInvalidConfig, "plugins.search.separator must be a string")
			}
			p.Options.Separator = sep
		default:
			return nil, errors.Wrapf(config.ErrInvalidConfig, "plugins.search: unknown option %q", item.Key)
		}
	}
	return p, nil
}

func (p *Plugin) Name() string {
	return Name
}

// Index returns the index shared by every build.
func (p *Plugin) Index() *Index {
	return p.index
}

// HasLang reports whether code is already in the lang option.
func (p *Plugin) HasLang(code string) bool {
	for _, l := range p.Options.Lang {
		if l == code {
			return true
		}
	}
	return false
}

func (p *Plugin) AddLang(code string) {
	if !p.HasLang(code) {
		p.Options.Lang = append(p.Options.Lang, code)
	}
}

// OnPageContext adds the page and each of its sections to the index.
func (p *Plugin) OnPageContext(ctx plugins.PageContext, page *structure.Page, cfg *config.Config, nav *structure.Navigation) error {
	for _, e := range PageEntries(page) {
		p.index.Add(e)
	}
	return nil
}

// OnPostBuild writes the index below the site directory of cfg.
func (p *Plugin) OnPostBuild(cfg *config.Config) error {
	doc := document{Docs: p.index.Entries()}
	doc.Config.Lang = p.Options.Lang
	if doc.Config.Lang == nil {
		doc.Config.Lang = []string{"en"}
	}
	doc.Config.Separator = p.Options.Separator
	if doc.Docs == nil {
		doc.Docs = []Entry{}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return errors.WithStack(err)
	}
	dest := filepath.Join(cfg.SiteDir, filepath.FromSlash(IndexPath))
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return errors.WithStack(err)
	}
	p.log.Info("Wrote search index", logfields.Path(dest), logfields.Count(len(doc.Docs)))
	return nil
}

// PageEntries returns the entry of the whole page followed by one entry per
// heading section.
func PageEntries(page *structure.Page) []Entry {
	sections := splitSections(page.Content)
	var all []string
	for _, s := range sections {
		all = append(all, s.text)
	}

	entries := []Entry{{
		Title:    page.Title,
		Location: page.File.URL,
		Text:     strings.Join(nonEmpty(all), " "),
	}}
	for _, s := range sections {
		if s.id == "" {
			continue
		}
		entries = append(entries, Entry{
			Title:    s.title,
			Location: page.File.URL + "#" + s.id,
			Text:     s.text,
		})
	}
	return entries
}

type section struct {
	id    string
	title string
	text  string
}

// splitSections walks the HTML of a page and splits its text at every heading
// carrying an id.
func splitSections(content string) []section {
	z := html.NewTokenizer(strings.NewReader(content))
	sections := []section{{}}
	var text, heading strings.Builder
	inHeading := false

	flush := func() {
		cur := &sections[len(sections)-1]
		cur.text = collapse(text.String())
		text.Reset()
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			flush()
			return sections
		case html.StartTagToken:
			tok := z.Token()
			if isHeading(tok.Data) {
				id := attr(tok, "id")
				if id == "" {
					continue
				}
				flush()
				sections = append(sections, section{id: id})
				inHeading = true
				heading.Reset()
			}
		case html.EndTagToken:
			tok := z.Token()
			if inHeading && isHeading(tok.Data) {
				sections[len(sections)-1].title = collapse(heading.String())
				inHeading = false
			}
		case html.TextToken:
			if inHeading {
				heading.Write(z.Text())
				continue
			}
			text.Write(z.Text())
			text.WriteByte(' ')
		}
	}
}

func isHeading(tag string) bool {
	return len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6'
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
