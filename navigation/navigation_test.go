package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/structure"
)

func page(src, canonical, suffix, prefix string) *structure.File {
	return structure.NewFile(structure.FileSpec{
		SrcPath:          src,
		CanonicalPath:    canonical,
		LocaleSuffix:     suffix,
		Locale:           suffix,
		Prefix:           prefix,
		UseDirectoryURLs: true,
	})
}

func rootFiles() *structure.Files {
	return structure.NewFiles(
		page("index.md", "", "", ""),
		page("guide.md", "", "", ""),
	)
}

func TestFromConfig(t *testing.T) {
	files := rootFiles()
	nav := FromConfig(config.List{
		config.Map{{Key: "Home", Value: config.String("index.md")}},
		config.Map{{Key: "User guide", Value: config.List{
			config.String("./guide.md"),
			config.Map{{Key: "Source", Value: config.String("https://example.com/src")}},
		}}},
		config.String("missing.md"),
	}, files, nil)

	require.Len(t, nav.Items, 3)
	home := nav.Items[0]
	assert.Equal(t, structure.NodePage, home.Kind)
	assert.Equal(t, "Home", home.Title)
	assert.Same(t, files.Get("index.md"), home.File)

	section := nav.Items[1]
	assert.Equal(t, structure.NodeSection, section.Kind)
	require.Len(t, section.Children, 2)
	assert.Same(t, files.Get("guide.md"), section.Children[0].File)
	assert.Equal(t, structure.NodeLink, section.Children[1].Kind)
	assert.Equal(t, "https://example.com/src", section.Children[1].URL)

	assert.Equal(t, structure.NodeLink, nav.Items[2].Kind)
	assert.Equal(t, "missing.md", nav.Items[2].URL)
}

func TestAutogenerate(t *testing.T) {
	files := structure.NewFiles(
		page("b.md", "", "", ""),
		page("api/x.md", "", "", ""),
		page("api/index.md", "", "", ""),
		page("index.md", "", "", ""),
		structure.NewFile(structure.FileSpec{SrcPath: "img/logo.png"}),
	)
	nav := Autogenerate(files)

	require.Len(t, nav.Items, 3)
	assert.Equal(t, "index.md", nav.Items[0].File.CanonicalPath)
	assert.Equal(t, "b.md", nav.Items[1].File.CanonicalPath)
	api := nav.Items[2]
	assert.Equal(t, structure.NodeSection, api.Kind)
	assert.Equal(t, "Api", api.Title)
	require.Len(t, api.Children, 2)
	assert.Equal(t, "api/index.md", api.Children[0].File.CanonicalPath)
	assert.Equal(t, "api/x.md", api.Children[1].File.CanonicalPath)
}

func TestLocalizeKeepsPositions(t *testing.T) {
	root := FromConfig(config.List{
		config.Map{{Key: "Home", Value: config.String("index.md")}},
		config.Map{{Key: "Guide", Value: config.String("guide.md")}},
	}, rootFiles(), nil)

	frGuide := page("guide.fr.md", "guide.md", "fr", "fr")
	frIndex := page("index.md", "", "", "fr")
	fr := Localize(root, structure.NewFiles(frIndex, frGuide))

	require.Len(t, fr.Items, len(root.Items))
	for i := range root.Items {
		assert.Equal(t, root.Items[i].Title, fr.Items[i].Title)
		assert.Equal(t, root.Items[i].File.CanonicalPath, fr.Items[i].File.CanonicalPath)
	}
	assert.Same(t, frGuide, fr.Items[1].File)
	assert.Same(t, frIndex, fr.Items[0].File)
	assert.Equal(t, "guide.md", root.Items[1].File.SrcPath)
}

func TestLocalizeKeepsMissingPages(t *testing.T) {
	files := rootFiles()
	root := Autogenerate(files)
	fr := Localize(root, structure.NewFiles())
	require.Len(t, fr.Items, 2)
	assert.Same(t, files.Get("index.md"), fr.Items[0].File)
}

func TestTranslateTitlesIsIdempotent(t *testing.T) {
	nav := FromConfig(config.List{
		config.Map{{Key: "User guide", Value: config.List{config.String("guide.md")}}},
		config.Map{{Key: "Home", Value: config.String("index.md")}},
	}, rootFiles(), nil)
	table := map[string]string{"User guide": "Guide utilisateur", "Unused": "Inutilisé"}

	assert.True(t, TranslateTitles(nav, table))
	assert.Equal(t, "Guide utilisateur", nav.Items[0].Title)
	assert.Equal(t, "Home", nav.Items[1].Title)

	assert.False(t, TranslateTitles(nav, table))
	assert.Equal(t, "Guide utilisateur", nav.Items[0].Title)
	assert.False(t, TranslateTitles(nav, nil))

	assert.Equal(t, []string{"Unused"}, UnusedTranslations(nav, table))
}

func TestFixConfigNav(t *testing.T) {
	nav := config.List{
		config.Map{{Key: "Guide", Value: config.String("guide.md")}},
		config.String("about.en.md"),
		config.String("index.md"),
	}
	files := structure.NewFiles(
		page("index.md", "", "", "fr"),
		page("guide.fr.md", "guide.md", "fr", "fr"),
		page("about.fr.md", "about.md", "fr", "fr"),
	)

	got := FixConfigNav(config.Clone(nav), files, config.StructureSuffix, "fr", "en")
	assert.Equal(t, config.List{
		config.Map{{Key: "Guide", Value: config.String("guide.fr.md")}},
		config.String("about.fr.md"),
		config.String("index.md"),
	}, got)
	assert.Equal(t, config.String("guide.md"), nav[0].(config.Map)[0].Value)
	assert.Nil(t, FixConfigNav(nil, files, config.StructureSuffix, "fr", "en"))
}
