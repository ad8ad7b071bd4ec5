package prayer

import (
	"strings"

	"github.com/edgard/aurelia/internal/composer"
)

// DefaultVoice is used for languages without a voice of their own.
const DefaultVoice = "Kore"

var builtinVoices = map[string]string{
	"en-US": "Kore",
	"es-US": "Puck",
	"fr-FR": "Zephyr",
	"pt-BR": "Iapetus",
	"it-IT": "Orus",
	"de-DE": "Leda",
}

// Voices maps prayer languages to prebuilt TTS voice names.
type Voices struct {
	byLang   map[string]string
	fallback string
}

// NewVoices returns the built-in voice table with overrides applied. Keys of
// overrides may be language codes or names. An empty fallback means
// DefaultVoice.
func NewVoices(overrides map[string]string, fallback string) Voices {
	v := Voices{byLang: make(map[string]string, len(builtinVoices)+len(overrides)), fallback: fallback}
	if v.fallback == "" {
		v.fallback = DefaultVoice
	}
	for lang, voice := range builtinVoices {
		v.byLang[voiceKey(lang)] = voice
	}
	for lang, voice := range overrides {
		v.byLang[voiceKey(lang)] = voice
	}
	return v
}

// For returns the voice for language.
func (v Voices) For(language string) string {
	if voice, ok := v.byLang[voiceKey(language)]; ok {
		return voice
	}
	return v.fallback
}

func voiceKey(language string) string {
	if lang, ok := composer.LookupLanguage(language); ok {
		return strings.ToLower(lang.Code)
	}
	return strings.ToLower(strings.TrimSpace(language))
}
