package composer

import "strings"

// Language is a supported prayer language.
type Language struct {
	Code string
	Name string
}

var languages = map[string]Language{
	"en-us": {Code: "en-US", Name: "English"},
	"es-us": {Code: "es-US", Name: "Spanish"},
	"fr-fr": {Code: "fr-FR", Name: "French"},
	"pt-br": {Code: "pt-BR", Name: "Portuguese"},
	"it-it": {Code: "it-IT", Name: "Italian"},
	"de-de": {Code: "de-DE", Name: "German"},
}

// The web client sends language names instead of codes.
var languageAliases = map[string]string{
	"english":    "en-us",
	"en":         "en-us",
	"spanish":    "es-us",
	"es":         "es-us",
	"es-es":      "es-us",
	"french":     "fr-fr",
	"fr":         "fr-fr",
	"portuguese": "pt-br",
	"pt":         "pt-br",
	"pt-pt":      "pt-br",
	"italian":    "it-it",
	"it":         "it-it",
	"german":     "de-de",
	"de":         "de-de",
}

// LookupLanguage resolves a language code or name, case-insensitively.
func LookupLanguage(s string) (Language, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := languageAliases[key]; ok {
		key = alias
	}
	lang, ok := languages[key]
	return lang, ok
}
