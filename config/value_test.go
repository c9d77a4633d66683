package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplace(t *testing.T) {
	nav := List{
		String("guide.md"),
		Map{{"Intro", Path("./guide.md")}},
		String("https://example.com/guide.md"),
		String("other.md"),
	}

	got := Replace(nav, "guide.md", "guide.fr.md")
	assert.Equal(t, List{
		String("guide.fr.md"),
		Map{{"Intro", Path("guide.fr.md")}},
		String("https://example.com/guide.md"),
		String("other.md"),
	}, got)
	assert.Equal(t, String("guide.md"), nav[0])
}

func TestCloneIsDeep(t *testing.T) {
	cfg := &Config{
		SiteName: "Docs",
		Nav:      List{String("index.md")},
		Plugins:  []PluginConfig{{Name: "search", Options: Map{{"lang", String("en")}}}},
		Hooks:    &Hooks{},
	}

	c := cfg.Clone()
	c.Nav.(List)[0] = String("index.fr.md")
	c.Plugins[0].Options[0].Value = String("fr")

	assert.Equal(t, String("index.md"), cfg.Nav.(List)[0])
	v, _ := cfg.Plugins[0].Options.Get("lang")
	assert.Equal(t, String("en"), v)
	assert.Same(t, cfg.Hooks, c.Hooks)
}

func TestMapSet(t *testing.T) {
	m := Map{{"a", String("1")}}
	m = m.Set("a", String("2"))
	m = m.Set("b", String("3"))
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, String("2"), v)
}
