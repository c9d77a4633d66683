package i18n

import (
	"log/slog"
	"slices"

	"github.com/ZacxDev/go-static-i18n/config"
	"github.com/ZacxDev/go-static-i18n/logfields"
)

// Themes configured through theme.locale.
var localeThemes = []string{"mkdocs", "readthedocs"}

const materialTheme = "material"

// MaterialLanguages are the languages the material theme ships translations
// for.
var MaterialLanguages = []string{
	"af", "ar", "az", "be", "bg", "bn", "ca", "cs", "cy", "da", "de", "el",
	"en", "eo", "es", "et", "eu", "fa", "fi", "fr", "gl", "he", "hi", "hr",
	"hu", "hy", "id", "is", "it", "ja", "ka", "kn", "ko", "ku-IQ", "lb", "lt",
	"lv", "mk", "mn", "ms", "my", "nb", "nl", "nn", "pl", "pt", "pt-BR", "ro",
	"ru", "sa", "sh", "si", "sk", "sl", "sr", "sv", "te", "th", "tl", "tr",
	"uk", "ur", "uz", "vi", "zh", "zh-Hant", "zh-TW",
}

// SetDefaultThemeLocale points the theme of the root build at the default
// language. English is the theme default and is left untouched.
func SetDefaultThemeLocale(cfg *config.Config, code string, log *slog.Logger) {
	if code == "en" {
		return
	}
	switch {
	case slices.Contains(localeThemes, cfg.Theme.Name):
		cfg.Theme.Locale = code
		log.Info("Setting the default 'theme.locale' option", logfields.Locale(code))
	case cfg.Theme.Name == materialTheme:
		cfg.Theme.Language = code
		log.Info("Setting the default 'theme.language' option", logfields.Locale(code))
	}
}

// SetThemeLocale patches the theme of a locale build. Languages the material
// theme does not know are left unset.
func SetThemeLocale(cfg *config.Config, code string, log *slog.Logger) {
	switch {
	case slices.Contains(localeThemes, cfg.Theme.Name):
		cfg.Theme.Locale = code
	case cfg.Theme.Name == materialTheme:
		if !slices.Contains(MaterialLanguages, code) {
			log.Warn("Language is not supported by the material theme, not setting the 'theme.language' option",
				logfields.Locale(code))
			return
		}
		cfg.Theme.Language = code
	}
}
