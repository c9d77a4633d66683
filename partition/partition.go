// Package partition splits the unified documentation tree into one file
// collection per locale.
package partition

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/locale"
	"github.com/ZacxDev/go-static-i18n/logfields"
	"github.com/ZacxDev/go-static-i18n/structure"
)

// Source is one entry of the unified file list.
type Source struct {
	FS         fs.FS
	SrcPath    string
	AbsSrcPath string
}

// Walk lists every file below docsDir, skipping dot files and directories.
func Walk(docsDir string) ([]Source, error) {
	root := os.DirFS(docsDir)
	var sources []Source
	err := fs.WalkDir(root, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		sources = append(sources, Source{
			FS:         root,
			SrcPath:    p,
			AbsSrcPath: filepath.Join(docsDir, filepath.FromSlash(p)),
		})
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].SrcPath < sources[j].SrcPath })
	return sources, nil
}

// Result holds the collection of the root build and one per locale.
type Result struct {
	Root    *structure.Files
	Locales map[string]*structure.Files
	// Excluded lists sources tagged with a locale that is not configured.
	Excluded []string
}

type Partitioner struct {
	mode             config.DocsStructure
	registry         *locale.Registry
	useDirectoryURLs bool
	log              *slog.Logger
}

func New(mode config.DocsStructure, registry *locale.Registry, useDirectoryURLs bool, log *slog.Logger) *Partitioner {
	if log == nil {
		log = slog.Default()
	}
	return &Partitioner{
		mode:             mode,
		registry:         registry,
		useDirectoryURLs: useDirectoryURLs,
		log:              log,
	}
}

type classified struct {
	src       Source
	canonical string
	tag       string
}

// Partition classifies every source and builds the per-locale collections.
func (p *Partitioner) Partition(sources []Source) (*Result, error) {
	res := &Result{Locales: map[string]*structure.Files{}}
	def := p.registry.Default()

	// canonical path -> tag -> source; "" is the untagged source.
	variants := map[string]map[string]classified{}
	var order []string
	for _, src := range sources {
		canonical, tag, unknown := p.Classify(src.SrcPath)
		if unknown != "" {
			p.log.Warn("Ignoring file tagged with an unconfigured locale",
				logfields.Path(src.SrcPath), logfields.Locale(unknown))
			res.Excluded = append(res.Excluded, src.SrcPath)
			continue
		}
		if variants[canonical] == nil {
			variants[canonical] = map[string]classified{}
			order = append(order, canonical)
		}
		if prev, ok := variants[canonical][tag]; ok {
			return nil, errors.Wrapf(config.ErrInvalidConfig, "%s and %s resolve to the same localized path %s",
				prev.src.SrcPath, src.SrcPath, canonical)
		}
		variants[canonical][tag] = classified{src: src, canonical: canonical, tag: tag}
	}

	// Root build: explicit default-locale files shadow untagged ones.
	res.Root = structure.NewFiles()
	for _, canonical := range order {
		c, ok := pick(variants[canonical], def, "")
		if !ok {
			continue
		}
		res.Root.Append(p.file(c, c.tag, ""))
	}
	shared := res.Root.StaticFiles()

	for _, code := range p.registry.Codes() {
		files := structure.NewFiles()
		for _, f := range shared {
			files.Append(f)
		}
		for _, canonical := range order {
			v := variants[canonical]
			if c, ok := v[code]; ok {
				// Explicit translation, shadows any default version.
				files.Append(p.file(c, code, code))
				continue
			}
			c, ok := pick(v, def, "")
			if !ok || !structure.IsPagePath(canonical) {
				continue
			}
			// Fallback to the default-locale page, emitted under the locale prefix.
			files.Append(p.fallback(c, code))
		}
		res.Locales[code] = files
	}
	return res, nil
}

func pick(v map[string]classified, tags ...string) (classified, bool) {
	for _, tag := range tags {
		if c, ok := v[tag]; ok {
			return c, true
		}
	}
	return classified{}, false
}

func (p *Partitioner) file(c classified, owner, prefix string) *structure.File {
	return structure.NewFile(structure.FileSpec{
		Source:           c.src.FS,
		SrcPath:          c.src.SrcPath,
		AbsSrcPath:       c.src.AbsSrcPath,
		CanonicalPath:    c.canonical,
		LocaleSuffix:     c.tag,
		Locale:           owner,
		Prefix:           prefix,
		UseDirectoryURLs: p.useDirectoryURLs,
	})
}

func (p *Partitioner) fallback(c classified, prefix string) *structure.File {
	return structure.NewFile(structure.FileSpec{
		Source:           c.src.FS,
		SrcPath:          c.src.SrcPath,
		AbsSrcPath:       c.src.AbsSrcPath,
		CanonicalPath:    c.canonical,
		Locale:           c.tag,
		Prefix:           prefix,
		UseDirectoryURLs: p.useDirectoryURLs,
	})
}

var localeLike = regexp.MustCompile(`^[a-z]{2}([-_]([A-Z]{2}|[A-Z][a-z]{3}))?$`)

// looksLikeLocale reports whether s is shaped like a short locale tag and is
// known to x/text, so that names like v1.2.md or app.min.js stay untouched.
func looksLikeLocale(s string) bool {
	if !localeLike.MatchString(s) {
		return false
	}
	_, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	return err == nil
}

// Classify returns the canonical path and the explicit locale tag of src. When
// src is tagged with a locale that is not configured, unknown holds that tag.
func (p *Partitioner) Classify(src string) (canonical, tag, unknown string) {
	if p.mode == config.StructureFolder {
		return p.classifyFolder(src)
	}
	return p.classifySuffix(src)
}

func (p *Partitioner) classifySuffix(src string) (canonical, tag, unknown string) {
	dir, base := path.Split(src)
	parts := strings.Split(base, ".")
	if len(parts) < 3 {
		return src, "", ""
	}
	candidate := parts[len(parts)-2]
	stripped := dir + strings.Join(append(parts[:len(parts)-2:len(parts)-2], parts[len(parts)-1]), ".")
	switch {
	case p.registry.Has(candidate):
		return stripped, candidate, ""
	case looksLikeLocale(candidate):
		return stripped, "", candidate
	}
	return src, "", ""
}

func (p *Partitioner) classifyFolder(src string) (canonical, tag, unknown string) {
	first, rest, ok := strings.Cut(src, "/")
	if !ok {
		return src, "", ""
	}
	switch {
	case p.registry.Has(first):
		return rest, first, ""
	case looksLikeLocale(first):
		return rest, "", first
	}
	return src, "", ""
}

// Localized returns the source path of canonical tagged with code under mode.
func Localized(mode config.DocsStructure, canonical, code string) string {
	if mode == config.StructureFolder {
		return code + "/" + canonical
	}
	dir, base := path.Split(canonical)
	ext := path.Ext(base)
	return dir + strings.TrimSuffix(base, ext) + "." + code + ext
}
