package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/language"

	"github.com/ZacxDev/go-static-i18n/metrics"
)

// SetupRouter serves the built site: the API, the metrics of reg when given,
// a locale redirect on the home page and the files of the site directory.
func SetupRouter(site *Site, reg *prom.Registry) *mux.Router {
	router := mux.NewRouter()

	router.NotFoundHandler = Custom404Handler(site)

	router.PathPrefix("/api/").Handler(NewAPI(site))
	if reg != nil {
		router.Handle("/metrics", metrics.HTTPHandler(reg)).Methods("GET")
	}
	router.HandleFunc("/", LocaleRedirectHandler(site)).Methods("GET", "HEAD")
	router.PathPrefix("/").Handler(StaticHandler(site)).Methods("GET", "HEAD")

	return router
}

// LocaleRedirectHandler sends visitors of the home page to the build matching
// their Accept-Language header. The root build is served when it matches best.
func LocaleRedirectHandler(site *Site) http.HandlerFunc {
	static := StaticHandler(site)
	return func(w http.ResponseWriter, r *http.Request) {
		if code := preferredLocale(site, r.Header.Get("Accept-Language")); code != "" {
			http.Redirect(w, r, "/"+code+"/", http.StatusFound)
			return
		}
		static.ServeHTTP(w, r)
	}
}

// preferredLocale returns the prefix of the best matching locale build, or ""
// for the root build.
func preferredLocale(site *Site, header string) string {
	if header == "" {
		return ""
	}
	locales := site.Locales()
	if len(locales) < 2 {
		return ""
	}

	var tags []language.Tag
	var prefixes []string
	for _, l := range locales {
		tag, err := language.Parse(strings.ReplaceAll(l.Code, "_", "-"))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		prefixes = append(prefixes, l.Prefix)
	}
	if len(tags) == 0 {
		return ""
	}

	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return ""
	}
	_, idx, confidence := language.NewMatcher(tags).Match(desired...)
	if confidence == language.No {
		return ""
	}
	return prefixes[idx]
}

// StaticHandler serves the files of the site directory. Directories serve
// their index.html; anything missing gets the 404 page of its locale.
func StaticHandler(site *Site) http.Handler {
	notFound := Custom404Handler(site)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		file := filepath.Join(site.Dir(), filepath.FromSlash(name))
		info, err := os.Stat(file)
		if err == nil && info.IsDir() {
			if !strings.HasSuffix(r.URL.Path, "/") {
				http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
				return
			}
			file = filepath.Join(file, "index.html")
			info, err = os.Stat(file)
		}
		if err != nil || info.IsDir() {
			notFound.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, file)
	})
}
