package composer

import (
	"fmt"
	"strings"
	"text/template"
)

// Guidance is the religion-specific part of the system instruction.
type Guidance struct {
	Religion    string
	Text        string
	Transitions []string
}

// Prompt is the pair of strings sent to the text model. Free-text profile
// fields are interpolated verbatim; the transport is responsible for encoding.
type Prompt struct {
	System string
	User   string
}

type outline struct {
	sentences string
	parts     []string
}

var outlines = map[Length]outline{
	LengthShort: {
		sentences: LengthShort.Sentences(),
		parts:     []string{"Opening acknowledgment", "Core request or gratitude", "Closing affirmation"},
	},
	LengthMedium: {
		sentences: LengthMedium.Sentences(),
		parts: []string{
			"Opening", "Personal acknowledgment", "Specific request",
			"Comfort and strength", "Hope", "Closing",
		},
	},
	LengthLong: {
		sentences: LengthLong.Sentences(),
		parts: []string{
			"Opening", "Deep acknowledgment", "Specific situation", "Multiple requests",
			"Comfort", "Future hope", "Trust affirmation", "Closing",
		},
	},
}

// Outline returns the structural outline for a length bucket.
func Outline(l Length) []string {
	o, ok := outlines[l]
	if !ok {
		o = outlines[LengthMedium]
	}
	return append([]string(nil), o.parts...)
}

var systemTemplate = template.Must(template.New("system").Parse(
	`You are a deeply compassionate spiritual guide with authentic knowledge of {{.Religion}} prayer traditions.

RELIGIOUS AUTHENTICITY REQUIREMENTS:
{{.Guidance}}

STRUCTURAL REQUIREMENTS:
- Begin with: "{{.Greeting}}"
- End with: "{{.Ending}}"
- Length: {{.Sentences}}
- Tone: {{.Tone}}
- Focus: {{.Focus}}

QUALITY STANDARDS:
- Use authentic religious language and concepts appropriate to {{.Religion}}
- Address their specific role as {{.Role}} and their feeling of {{.Feeling}}
- Directly address the challenge: "{{.Challenge}}"
{{- if .Transitions}}
- Include natural {{.Religion}} transitional phrases such as: {{.Transitions}}
{{- else}}
- Include appropriate transitional phrases that sound natural in {{.Religion}} prayers
{{- end}}
- Avoid generic spiritual language - be specifically {{.Religion}} in approach
- Balance formal religious structure with personal, heartfelt content
- Ensure the prayer would be recognized as authentically {{.Religion}} by practitioners

The prayer should sound like it came from someone deeply familiar with {{.Religion}} prayer traditions, not a generic spiritual template.`))

var userTemplate = template.Must(template.New("user").Parse(
	`Generate a deeply personal and authentic {{.Religion}} prayer for someone in this exact situation:

PERSONAL CONTEXT:
- Role: {{.Role}}
- Current feeling: {{.Feeling}}
- Time: {{.TimeOfDay}}
- Specific challenge: "{{.Challenge}}"

EMOTIONAL & SPIRITUAL GUIDANCE:
- Primary emotional need: {{.Category}}
- Prayer approach: {{.Focus}}
- Required tone: {{.Tone}}
- Spiritual intensity needed: {{.Intensity}}

PRAYER STRUCTURE REQUIREMENTS:
- Length: {{.Sentences}}
- Follow this structure: {{.Outline}}
- Must authentically reflect {{.Religion}} prayer traditions
- Address their specific challenge and role directly
- Appropriate for {{.TimeOfDay}} spiritual reflection
{{- if .Language}}
- Write the prayer in {{.Language}}
{{- end}}

AUTHENTICITY REQUIREMENTS:
- Sound like a prayer that would be offered by someone deeply rooted in {{.Religion}}
- Use language and concepts familiar to {{.Religion}} practitioners
- Include appropriate religious concepts and worldview
- Balance formal religious structure with deeply personal content
- Avoid generic spiritual language - be specifically {{.Religion}}

The prayer should feel both traditionally {{.Religion}} and perfectly tailored to this person's exact situation.`))

type promptData struct {
	Religion    string
	Guidance    string
	Transitions string
	Greeting    string
	Ending      string
	Sentences   string
	Outline     string
	Category    Category
	Intensity   Intensity
	Tone        string
	Focus       string
	Role        string
	Feeling     string
	Challenge   string
	TimeOfDay   TimeOfDay
	Language    string
}

// Assemble renders the system instruction and the user prompt.
func Assemble(p Profile, ec EmotionalContext, greeting, ending string, g Guidance) Prompt {
	o, ok := outlines[ec.Config.Length]
	if !ok {
		o = outlines[LengthMedium]
	}

	var language string
	if lang, ok := LookupLanguage(p.Language); ok {
		language = lang.Name
	}

	data := promptData{
		Religion:    g.Religion,
		Guidance:    g.Text,
		Transitions: quoteJoin(g.Transitions),
		Greeting:    greeting,
		Ending:      ending,
		Sentences:   o.sentences,
		Outline:     strings.Join(o.parts, " + "),
		Category:    ec.Category,
		Intensity:   ec.Config.Intensity,
		Tone:        ec.Config.Tone,
		Focus:       ec.Config.Focus,
		Role:        p.Role,
		Feeling:     p.Feeling,
		Challenge:   p.Challenge,
		TimeOfDay:   p.TimeOfDay,
		Language:    language,
	}

	return Prompt{
		System: render(systemTemplate, data),
		User:   render(userTemplate, data),
	}
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

// render executes one of the package templates. They only reference fields of
// promptData, so execution into a strings.Builder cannot fail.
func render(t *template.Template, data promptData) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		panic(fmt.Sprintf("composer: render %s: %v", t.Name(), err))
	}
	return b.String()
}
