package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Custom404Handler answers with the 404 page of the locale build owning the
// requested path, falling back to the 404 page of the root build.
func Custom404Handler(site *Site) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		candidates := []string{filepath.Join(site.Dir(), "404.html")}
		first, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
		for _, prefix := range site.Prefixes() {
			if prefix == first {
				candidates = append([]string{filepath.Join(site.Dir(), prefix, "404.html")}, candidates...)
				break
			}
		}

		for _, c := range candidates {
			content, err := os.ReadFile(c)
			if err != nil {
				continue
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write(content)
			return
		}
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}
