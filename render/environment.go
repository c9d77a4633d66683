// Package render turns populated pages into the HTML files of a build.
package render

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gobuffalo/plush"
	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/logfields"
	"github.com/ZacxDev/go-static-i18n/structure"
)

//go:embed theme
var themeFS embed.FS

const (
	baseLayout   = "base.plush.html"
	notFoundPage = "404.plush.html"
)

// RenderedPage records one written page for the sitemap.
type RenderedPage struct {
	URL       string
	Canonical string
	// Locale is the build the page was written by; empty for the root build.
	Locale  string
	ModTime time.Time
}

// Environment is the render state shared by the root build and every locale
// build.
type Environment struct {
	layout    *plush.Template
	notFound  *plush.Template
	customDir string
	log       *slog.Logger

	mu       sync.Mutex
	copied   map[string]bool
	rendered []RenderedPage
}

// NewEnvironment parses the layouts of theme. Templates found in the theme's
// custom_dir override the embedded ones.
func NewEnvironment(theme config.Theme, log *slog.Logger) (*Environment, error) {
	if log == nil {
		log = slog.Default()
	}
	env := &Environment{
		customDir: theme.CustomDir,
		log:       log,
		copied:    map[string]bool{},
	}

	var err error
	if env.layout, err = env.parse(baseLayout); err != nil {
		return nil, err
	}
	if env.notFound, err = env.parse(notFoundPage); err != nil {
		return nil, err
	}
	return env, nil
}

func (e *Environment) parse(name string) (*plush.Template, error) {
	var content []byte
	var err error
	if e.customDir != "" {
		content, err = os.ReadFile(filepath.Join(e.customDir, name))
		if err == nil {
			e.log.Debug("Using custom template", logfields.Path(name))
		}
	}
	if content == nil {
		content, err = themeFS.ReadFile("theme/templates/" + name)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	t, err := plush.Parse(string(content))
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing %s", name)
	}
	return t, nil
}

// HasCustomFile reports whether the theme's custom_dir provides name.
func (e *Environment) HasCustomFile(name string) bool {
	if e.customDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(e.customDir, name))
	return err == nil
}

// helpers are the template functions available to every layout.
func helpers() map[string]interface{} {
	return map[string]interface{}{
		"startsWith": func(s string, prefix string) bool {
			return strings.HasPrefix(s, prefix)
		},
		"matches": func(s string, pat string) bool {
			re := regexp.MustCompile(pat)
			return re.Match([]byte(s))
		},
		"replace": func(s string, old string, n string) string {
			return strings.Replace(s, old, n, 1)
		},
		"replaceAll": func(s string, old string, n string) string {
			return strings.ReplaceAll(s, old, n)
		},
		"replacePattern": func(s string, pat, n string) string {
			re := regexp.MustCompile(pat)
			return re.ReplaceAllString(s, n)
		},
	}
}

func (e *Environment) exec(t *plush.Template, values map[string]interface{}) (string, error) {
	ctx := plush.NewContext()
	for k, v := range helpers() {
		ctx.Set(k, v)
	}
	for k, v := range values {
		ctx.Set(k, v)
	}
	return t.Exec(ctx)
}

// AddThemeFiles adds the theme assets to files. Documentation files with the
// same path win over theme files.
func (e *Environment) AddThemeFiles(files *structure.Files, useDirectoryURLs bool) error {
	assets, err := fs.Sub(themeFS, "theme/assets")
	if err != nil {
		return errors.WithStack(err)
	}
	if err := addTree(files, assets, "", useDirectoryURLs); err != nil {
		return err
	}
	if e.customDir == "" {
		return nil
	}
	if _, err := os.Stat(e.customDir); err != nil {
		return errors.Wrapf(err, "theme custom_dir %s", e.customDir)
	}
	return addTree(files, os.DirFS(e.customDir), e.customDir, useDirectoryURLs)
}

func addTree(files *structure.Files, src fs.FS, absRoot string, useDirectoryURLs bool) error {
	return fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if d.IsDir() {
			if p != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		// Templates are rendered, never copied.
		if strings.HasSuffix(p, ".plush.html") || structure.IsPagePath(p) || strings.HasPrefix(path.Base(p), ".") {
			return nil
		}
		abs := ""
		if absRoot != "" {
			abs = filepath.Join(absRoot, filepath.FromSlash(p))
		}
		files.AppendIfMissing(structure.NewFile(structure.FileSpec{
			Source:           src,
			SrcPath:          p,
			AbsSrcPath:       abs,
			UseDirectoryURLs: useDirectoryURLs,
		}))
		return nil
	})
}

// CopyStaticFiles writes every static file of files below siteDir. Files
// already copied by an earlier build are skipped.
func (e *Environment) CopyStaticFiles(files *structure.Files, siteDir string, dirty bool) error {
	for _, f := range files.StaticFiles() {
		e.mu.Lock()
		done := e.copied[f.DestPath]
		e.copied[f.DestPath] = true
		e.mu.Unlock()
		if done {
			continue
		}

		dest := filepath.Join(siteDir, filepath.FromSlash(f.DestPath))
		if dirty && upToDate(dest, f.ModTime()) {
			continue
		}
		content, err := f.Read()
		if err != nil {
			return errors.Wrapf(err, "error reading %s", f.SrcPath)
		}
		if err := writeFile(dest, content); err != nil {
			return err
		}
		e.log.Debug("Copied static file", logfields.Path(f.DestPath))
	}
	return nil
}

func (e *Environment) record(p RenderedPage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rendered = append(e.rendered, p)
}

// Rendered returns every page written so far, in write order.
func (e *Environment) Rendered() []RenderedPage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]RenderedPage(nil), e.rendered...)
}

func upToDate(dest string, srcMod time.Time) bool {
	if srcMod.IsZero() {
		return false
	}
	info, err := os.Stat(dest)
	return err == nil && info.ModTime().After(srcMod)
}

func writeFile(dest string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
