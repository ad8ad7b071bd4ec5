package prayer

import (
	"strings"

	"github.com/edgard/aurelia/internal/composer"
)

var fallbackTemplates = map[string]string{
	"en-US": "Divine presence, as I face the challenges of {challenge}, grant me strength and wisdom. Guide my path as a {role} feeling {feeling} in this {timeOfDay} time. May peace fill my heart. Amen.",
	"fr-FR": "Présence divine, alors que je fais face aux défis de {challenge}, accorde-moi force et sagesse. Guide mon chemin en tant que {role} me sentant {feeling} en ce moment de {timeOfDay}. Que la paix remplisse mon cœur. Amen.",
	"es-US": "Presencia divina, mientras enfrento los desafíos de {challenge}, concédeme fuerza y sabiduría. Guía mi camino como {role} sintiéndome {feeling} en este tiempo de {timeOfDay}. Que la paz llene mi corazón. Amén.",
}

// Fallback renders a canned prayer for p without calling any model. It is
// used when the pipeline is unavailable. Languages other than French and
// Spanish get the English text.
func Fallback(p composer.Profile) string {
	tmpl := fallbackTemplates["en-US"]
	if lang, ok := composer.LookupLanguage(p.Language); ok {
		if t, ok := fallbackTemplates[lang.Code]; ok {
			tmpl = t
		}
	}

	r := strings.NewReplacer(
		"{challenge}", orDefault(p.Challenge, "life's journey"),
		"{role}", orDefault(p.Role, "individual"),
		"{feeling}", orDefault(p.Feeling, "hopeful"),
		"{timeOfDay}", string(p.TimeOfDay),
	)
	return r.Replace(tmpl)
}

// Title is the heading shown above a prayer.
func Title(p composer.Profile) string {
	role := strings.TrimSpace(p.Role)
	tod := string(p.TimeOfDay)
	if tod != "" {
		tod = strings.ToUpper(tod[:1]) + tod[1:]
	}
	switch {
	case role != "" && tod != "":
		return tod + " Prayer for " + role
	case tod != "":
		return tod + " Prayer"
	case role != "":
		return "Prayer for " + role
	default:
		return "Your Personal Prayer"
	}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
