// Package navigation builds and localizes the navigation tree of each build.
package navigation

import (
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/logfields"
	"github.com/ZacxDev/go-static-i18n/partition"
	"github.com/ZacxDev/go-static-i18n/structure"
)

// FromConfig builds the navigation declared by the nav option. Page references
// are resolved against files; references that resolve to nothing become links.
func FromConfig(nav config.Value, files *structure.Files, log *slog.Logger) *structure.Navigation {
	if log == nil {
		log = slog.Default()
	}
	list, _ := nav.(config.List)
	return &structure.Navigation{Items: fromList(list, files, log)}
}

func fromList(list config.List, files *structure.Files, log *slog.Logger) []*structure.Node {
	nodes := make([]*structure.Node, 0, len(list))
	for _, item := range list {
		if node := fromItem("", item, files, log); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func fromItem(title string, item config.Value, files *structure.Files, log *slog.Logger) *structure.Node {
	switch v := item.(type) {
	case config.String, config.Path:
		ref, _ := config.Text(v)
		return leaf(title, ref, files, log)
	case config.Map:
		if len(v) != 1 {
			log.Warn("Ignoring nav entry with more than one key", slog.Any("keys", v.Keys()))
			return nil
		}
		return fromItem(v[0].Key, v[0].Value, files, log)
	case config.List:
		return &structure.Node{
			Kind:        structure.NodeSection,
			Title:       title,
			SourceTitle: title,
			Children:    fromList(v, files, log),
		}
	}
	log.Warn("Ignoring unsupported nav entry", slog.String("title", title))
	return nil
}

func leaf(title, ref string, files *structure.Files, log *slog.Logger) *structure.Node {
	if config.IsURL(ref) {
		return &structure.Node{Kind: structure.NodeLink, Title: title, SourceTitle: title, URL: ref}
	}
	clean := path.Clean(strings.TrimPrefix(ref, "./"))
	if f := files.Lookup(clean); f != nil && f.IsPage() {
		return &structure.Node{Kind: structure.NodePage, Title: title, SourceTitle: title, File: f}
	}
	log.Warn("A reference in the nav configuration is not found in the documentation files",
		logfields.Path(ref))
	return &structure.Node{Kind: structure.NodeLink, Title: title, SourceTitle: title, URL: ref}
}

// Autogenerate derives a navigation from the pages of files: directories become
// sections, index pages come first, everything else sorts by path.
func Autogenerate(files *structure.Files) *structure.Navigation {
	pages := files.DocumentationPages()
	sort.SliceStable(pages, func(i, j int) bool {
		return sortKey(pages[i].CanonicalPath) < sortKey(pages[j].CanonicalPath)
	})

	nav := &structure.Navigation{}
	sections := map[string]*structure.Node{}
	var parent func(dir string) *[]*structure.Node
	parent = func(dir string) *[]*structure.Node {
		if dir == "" || dir == "." {
			return &nav.Items
		}
		if s, ok := sections[dir]; ok {
			return &s.Children
		}
		title := structure.TitleFromPath(dir)
		s := &structure.Node{Kind: structure.NodeSection, Title: title, SourceTitle: title}
		sections[dir] = s
		siblings := parent(path.Dir(dir))
		*siblings = append(*siblings, s)
		return &s.Children
	}

	for _, f := range pages {
		siblings := parent(path.Dir(f.CanonicalPath))
		*siblings = append(*siblings, &structure.Node{Kind: structure.NodePage, File: f})
	}
	return nav
}

// sortKey orders index pages ahead of their siblings.
func sortKey(canonical string) string {
	dir, base := path.Split(canonical)
	stem := strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
	if stem == "index" || stem == "readme" {
		return dir + "\x00"
	}
	return dir + "\x01" + base
}

// Localize clones base and points every page node at the file resolving the
// same canonical path in files. Nodes whose page has no counterpart keep their
// default-locale file.
func Localize(base *structure.Navigation, files *structure.Files) *structure.Navigation {
	nav := base.Clone()
	nav.Walk(func(node *structure.Node) {
		if node.Kind != structure.NodePage || node.File == nil {
			return
		}
		if f := files.Canonical(node.File.CanonicalPath); f != nil {
			node.File = f
		}
	})
	return nav
}

// TranslateTitles replaces every title found in table, recursing into
// sections. Titles are always looked up by their configured value, so applying
// the same table again changes nothing. It reports whether a title changed.
func TranslateTitles(nav *structure.Navigation, table map[string]string) bool {
	if len(table) == 0 {
		return false
	}
	translated := false
	nav.Walk(func(node *structure.Node) {
		if node.SourceTitle == "" {
			return
		}
		if t, ok := table[node.SourceTitle]; ok && node.Title != t {
			node.Title = t
			translated = true
		}
	})
	return translated
}

// UnusedTranslations returns the keys of table that match no title of nav.
func UnusedTranslations(nav *structure.Navigation, table map[string]string) []string {
	used := map[string]bool{}
	nav.Walk(func(node *structure.Node) {
		used[node.SourceTitle] = true
		if node.Page != nil {
			used[node.Page.SourceTitle] = true
		}
	})
	var unused []string
	for k := range table {
		if !used[k] {
			unused = append(unused, k)
		}
	}
	sort.Strings(unused)
	return unused
}

// FixConfigNav rewrites the references of a configured nav that name a default
// page, bare or tagged with the default locale, to the page translated for
// code. nav must be the locale's own copy of the configuration value.
func FixConfigNav(nav config.Value, files *structure.Files, mode config.DocsStructure, code, defaultCode string) config.Value {
	if nav == nil {
		return nil
	}
	for _, f := range files.DocumentationPages() {
		if f.LocaleSuffix != code {
			continue
		}
		candidates := []string{
			f.CanonicalPath,
			partition.Localized(mode, f.CanonicalPath, defaultCode),
		}
		for _, candidate := range candidates {
			nav = config.Replace(nav, candidate, f.SrcPath)
		}
	}
	return nav
}
