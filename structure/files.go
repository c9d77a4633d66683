// Package structure holds the files, pages and navigation of one build.
package structure

import (
	"io/fs"
	"os"
	"path"
	"strings"
	"time"
)

type Kind int

const (
	KindStatic Kind = iota
	KindPage
)

// File is one source file bound to the build of a locale. Files are never
// mutated after partitioning.
type File struct {
	// Source is the file system SrcPath is read from.
	Source fs.FS
	// SrcPath is the slash separated path inside Source.
	SrcPath string
	// AbsSrcPath is the on-disk path when the file lives on disk.
	AbsSrcPath string
	// CanonicalPath is SrcPath with any locale marker removed.
	CanonicalPath string
	// LocaleSuffix is the explicit locale marker of the source name. It is
	// empty for untagged files and for fallback copies.
	LocaleSuffix string
	// Locale owns the content of the file; empty when shared.
	Locale string
	// DestLocale is the locale build emitting the file; empty for the root build.
	DestLocale string
	DestPath   string
	URL        string
	Kind       Kind
}

func (f *File) IsPage() bool {
	return f.Kind == KindPage
}

// Read returns the content of the file.
func (f *File) Read() ([]byte, error) {
	return fs.ReadFile(f.Source, f.SrcPath)
}

// ModTime returns the modification time of the source, or zero when unknown.
func (f *File) ModTime() time.Time {
	if f.AbsSrcPath != "" {
		if info, err := os.Stat(f.AbsSrcPath); err == nil {
			return info.ModTime()
		}
	}
	return time.Time{}
}

// IsPagePath reports whether the path names a markdown page.
func IsPagePath(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// FileSpec describes a file before its destination is computed.
type FileSpec struct {
	Source        fs.FS
	SrcPath       string
	AbsSrcPath    string
	CanonicalPath string
	LocaleSuffix  string
	Locale        string
	// Prefix is the locale directory the file is emitted under.
	Prefix           string
	UseDirectoryURLs bool
}

// NewFile computes the destination and URL of a file from its canonical path.
func NewFile(spec FileSpec) *File {
	f := &File{
		Source:        spec.Source,
		SrcPath:       spec.SrcPath,
		AbsSrcPath:    spec.AbsSrcPath,
		CanonicalPath: spec.CanonicalPath,
		LocaleSuffix:  spec.LocaleSuffix,
		Locale:        spec.Locale,
		DestLocale:    spec.Prefix,
		Kind:          KindStatic,
	}
	if f.CanonicalPath == "" {
		f.CanonicalPath = f.SrcPath
	}

	dest, url := f.CanonicalPath, f.CanonicalPath
	if IsPagePath(f.CanonicalPath) {
		f.Kind = KindPage
		dest, url = pageDest(f.CanonicalPath, spec.UseDirectoryURLs)
	}
	if spec.Prefix != "" {
		dest = spec.Prefix + "/" + dest
		url = spec.Prefix + "/" + url
	}
	f.DestPath = dest
	f.URL = url
	return f
}

func pageDest(canonical string, useDirectoryURLs bool) (dest, url string) {
	dir, base := path.Split(canonical)
	stem := strings.TrimSuffix(base, path.Ext(base))
	isIndex := strings.EqualFold(stem, "index") || strings.EqualFold(stem, "readme")

	switch {
	case isIndex:
		dest = dir + "index.html"
		if useDirectoryURLs {
			url = dir
		} else {
			url = dest
		}
	case useDirectoryURLs:
		dest = dir + stem + "/index.html"
		url = dir + stem + "/"
	default:
		dest = dir + stem + ".html"
		url = dest
	}
	return dest, url
}

// Files is an ordered collection holding at most one file per canonical path.
type Files struct {
	files       []*File
	bySrc       map[string]*File
	byCanonical map[string]*File
}

func NewFiles(files ...*File) *Files {
	c := &Files{
		bySrc:       map[string]*File{},
		byCanonical: map[string]*File{},
	}
	for _, f := range files {
		c.Append(f)
	}
	return c
}

// Append adds f. A file already holding the same canonical path is replaced in
// place, so the later file shadows the earlier one.
func (c *Files) Append(f *File) {
	if prev, ok := c.byCanonical[f.CanonicalPath]; ok {
		for i, existing := range c.files {
			if existing == prev {
				c.files[i] = f
				break
			}
		}
		delete(c.bySrc, prev.SrcPath)
	} else {
		c.files = append(c.files, f)
	}
	c.byCanonical[f.CanonicalPath] = f
	c.bySrc[f.SrcPath] = f
}

// AppendIfMissing adds f unless its canonical path is already taken.
func (c *Files) AppendIfMissing(f *File) bool {
	if _, ok := c.byCanonical[f.CanonicalPath]; ok {
		return false
	}
	c.Append(f)
	return true
}

// Get returns the file whose source path is src.
func (c *Files) Get(src string) *File {
	return c.bySrc[src]
}

// Canonical returns the file resolving the canonical path p.
func (c *Files) Canonical(p string) *File {
	return c.byCanonical[p]
}

// Lookup resolves a reference by source path first, then by canonical path.
func (c *Files) Lookup(p string) *File {
	if f := c.Get(p); f != nil {
		return f
	}
	return c.Canonical(p)
}

func (c *Files) All() []*File {
	return append([]*File(nil), c.files...)
}

func (c *Files) Len() int {
	return len(c.files)
}

func (c *Files) DocumentationPages() []*File {
	var out []*File
	for _, f := range c.files {
		if f.IsPage() {
			out = append(out, f)
		}
	}
	return out
}

func (c *Files) StaticFiles() []*File {
	var out []*File
	for _, f := range c.files {
		if !f.IsPage() {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns a collection holding the same file references.
func (c *Files) Clone() *Files {
	return NewFiles(c.files...)
}
