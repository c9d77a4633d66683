package search

import (
	"log/slog"
	"strings"
)

type key struct {
	title string
	text  string
}

// Scoped reports whether location belongs to the subtree of one of the locale
// prefixes.
func Scoped(location string, prefixes []string) bool {
	for _, p := range prefixes {
		if location == p || strings.HasPrefix(location, p+"/") {
			return true
		}
	}
	return false
}

// Deduplicate removes every locale scoped entry whose title and text equal
// those of a default scoped entry. Default scoped entries are never removed
// and the order of the kept entries is preserved. It returns the number of
// removed entries.
func Deduplicate(index *Index, prefixes []string, log *slog.Logger) int {
	if log == nil {
		log = slog.Default()
	}
	entries := index.Entries()

	defaults := make(map[key]bool, len(entries))
	for _, e := range entries {
		if !Scoped(e.Location, prefixes) {
			defaults[key{e.Title, e.Text}] = true
		}
	}

	kept := entries[:0]
	removed := 0
	for _, e := range entries {
		if Scoped(e.Location, prefixes) && defaults[key{e.Title, e.Text}] {
			log.Debug("Removed duplicated search entry",
				slog.String("title", e.Title), slog.String("location", e.Location))
			removed++
			continue
		}
		kept = append(kept, e)
	}
	index.Replace(kept)
	return removed
}
