package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile(t *testing.T) {
	tests := []struct {
		name      string
		spec      FileSpec
		dest      string
		url       string
		kind      Kind
		canonical string
	}{
		{"page with directory urls", FileSpec{SrcPath: "guide.md", UseDirectoryURLs: true}, "guide/index.html", "guide/", KindPage, "guide.md"},
		{"index with directory urls", FileSpec{SrcPath: "a/index.md", UseDirectoryURLs: true}, "a/index.html", "a/", KindPage, "a/index.md"},
		{"page without directory urls", FileSpec{SrcPath: "guide.md"}, "guide.html", "guide.html", KindPage, "guide.md"},
		{"readme", FileSpec{SrcPath: "README.md"}, "index.html", "index.html", KindPage, "README.md"},
		{"localized page", FileSpec{SrcPath: "guide.fr.md", CanonicalPath: "guide.md", Prefix: "fr", UseDirectoryURLs: true}, "fr/guide/index.html", "fr/guide/", KindPage, "guide.md"},
		{"static", FileSpec{SrcPath: "img/logo.png", Prefix: "fr"}, "fr/img/logo.png", "fr/img/logo.png", KindStatic, "img/logo.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFile(tt.spec)
			assert.Equal(t, tt.dest, f.DestPath)
			assert.Equal(t, tt.url, f.URL)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.canonical, f.CanonicalPath)
			assert.Equal(t, tt.spec.Prefix, f.DestLocale)
		})
	}
}

func TestFilesShadowing(t *testing.T) {
	untagged := NewFile(FileSpec{SrcPath: "guide.md"})
	other := NewFile(FileSpec{SrcPath: "about.md"})
	tagged := NewFile(FileSpec{SrcPath: "guide.en.md", CanonicalPath: "guide.md", LocaleSuffix: "en"})

	files := NewFiles(untagged, other)
	files.Append(tagged)

	require.Equal(t, 2, files.Len())
	assert.Same(t, tagged, files.All()[0])
	assert.Same(t, tagged, files.Canonical("guide.md"))
	assert.Same(t, tagged, files.Lookup("guide.en.md"))
	assert.Same(t, tagged, files.Lookup("guide.md"))
	assert.Nil(t, files.Get("guide.md"))

	assert.False(t, files.AppendIfMissing(NewFile(FileSpec{SrcPath: "about.md"})))
	assert.True(t, files.AppendIfMissing(NewFile(FileSpec{SrcPath: "css/theme.css"})))
	assert.Len(t, files.DocumentationPages(), 2)
	assert.Len(t, files.StaticFiles(), 1)
}

func TestNavigationCloneAndBind(t *testing.T) {
	f := NewFile(FileSpec{SrcPath: "guide.md"})
	nav := &Navigation{Items: []*Node{
		{Kind: NodeSection, Title: "Docs", Children: []*Node{{Kind: NodePage, File: f}}},
		{Kind: NodeLink, Title: "GitHub", URL: "https://github.com"},
	}}
	page := &Page{File: f, Title: "The guide"}
	nav.Bind(map[*File]*Page{f: page})

	c := nav.Clone()
	require.Len(t, c.PageNodes(), 1)
	assert.Nil(t, c.PageNodes()[0].Page)
	assert.Equal(t, "The guide", nav.PageNodes()[0].DisplayTitle())
	assert.Equal(t, "Guide", c.PageNodes()[0].DisplayTitle())

	c.Items[0].Title = "Documentation"
	assert.Equal(t, "Docs", nav.Items[0].Title)
}
