package utils

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ZacxDev/go-static-i18n/render"
)

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Xhtml   string   `xml:"xmlns:xhtml,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	ChangeFreq string      `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Alternates []Alternate `xml:"xhtml:link"`
}

// Alternate is a translation of the page of its Url.
type Alternate struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// GenerateSitemaps writes siteDir/sitemap.xml for the rendered pages.
func GenerateSitemaps(pages []render.RenderedPage, siteURL, siteDir, defaultCode string) error {
	xmlOutput, err := GenerateSitemapContent(pages, siteURL, defaultCode)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(siteDir, os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	content := xml.Header + xmlOutput + "\n"
	if err := os.WriteFile(filepath.Join(siteDir, "sitemap.xml"), []byte(content), 0644); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// GenerateSitemapContent lists every page once per build that rendered it.
// Pages sharing a canonical path link to each other with hreflang alternates.
func GenerateSitemapContent(pages []render.RenderedPage, siteURL, defaultCode string) (string, error) {
	baseURL := strings.TrimSuffix(siteURL, "/")
	sitemap := Sitemap{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		Xhtml: "http://www.w3.org/1999/xhtml",
	}

	byCanonical := map[string][]render.RenderedPage{}
	for _, p := range pages {
		byCanonical[p.Canonical] = append(byCanonical[p.Canonical], p)
	}

	for _, p := range pages {
		url := Url{Loc: baseURL + "/" + p.URL}
		if !p.ModTime.IsZero() {
			url.LastMod = p.ModTime.Format("2006-01-02")
		}
		if group := byCanonical[p.Canonical]; len(group) > 1 {
			for _, alt := range group {
				lang := alt.Locale
				if lang == "" {
					lang = defaultCode
				}
				url.Alternates = append(url.Alternates, Alternate{
					Rel:      "alternate",
					HrefLang: lang,
					Href:     baseURL + "/" + alt.URL,
				})
			}
		}
		sitemap.Urls = append(sitemap.Urls, url)
	}

	xmlOutput, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(xmlOutput), nil
}
