package search

import "slices"

// LunrLanguages lists the languages the client side search supports.
var LunrLanguages = []string{
	"ar", "da", "de", "en", "es", "fi", "fr", "hu", "it", "ja",
	"nl", "no", "pt", "ro", "ru", "sv", "th", "tr", "vi",
}

// Supported reports whether the search can index code.
func Supported(code string) bool {
	return slices.Contains(LunrLanguages, code)
}
