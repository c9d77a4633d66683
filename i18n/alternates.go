package i18n

import (
	"strings"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/locale"
)

// Alternates returns the language switcher entries: the root build first when
// it is built, then every built locale in registration order. A locale named
// like the root build is already represented by it.
func Alternates(reg *locale.Registry, useDirectoryURLs bool) []config.Alternate {
	suffix := ""
	if !useDirectoryURLs {
		suffix = "index.html"
	}

	var out []config.Alternate
	root := reg.DefaultBuild()
	if root.Build {
		out = append(out, config.Alternate{
			Name:      root.Name,
			Link:      root.Link + suffix,
			FixedLink: root.FixedLink,
			Lang:      reg.Default(),
		})
	}
	for _, l := range reg.Locales() {
		if !l.Build {
			continue
		}
		if root.Build && l.Name == root.Name {
			continue
		}
		out = append(out, config.Alternate{
			Name:      l.Name,
			Link:      l.Link + suffix,
			FixedLink: l.FixedLink,
			Lang:      l.Code,
		})
	}
	return out
}

// ContextualAlternates points every switcher entry at the current page in the
// other languages. pageURL loses its locale prefix first; fixed links are kept
// as they are.
func ContextualAlternates(alternates []config.Alternate, pageURL string, codes []string, useDirectoryURLs bool) []config.Alternate {
	for _, code := range codes {
		if strings.HasPrefix(pageURL, code+"/") {
			pageURL = pageURL[len(code)+1:]
			break
		}
	}

	out := make([]config.Alternate, len(alternates))
	for i, alt := range alternates {
		if !useDirectoryURLs {
			alt.Link = strings.Replace(alt.Link, "/index.html", "", 1)
		}
		if alt.FixedLink != "" {
			alt.Link = alt.FixedLink
		} else {
			if !strings.HasSuffix(alt.Link, "/") {
				alt.Link += "/"
			}
			alt.Link += pageURL
		}
		out[i] = alt
	}
	return out
}
