// Package composer turns a user profile into the prompts sent to the text
// model and enforces the greeting/ending structure of the returned prayer.
//
// Everything here is a pure function of its inputs plus the static tables in
// data/, except for the random choice among candidate phrases, which goes
// through an injectable Source.
package composer

import (
	"strings"
	"time"
)

// TimeOfDay is the part of the day the prayer is meant for.
type TimeOfDay string

// Times of day.
const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// ParseTimeOfDay normalises s and reports whether it names a time of day.
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	tod := TimeOfDay(strings.ToLower(strings.TrimSpace(s)))
	switch tod {
	case Morning, Afternoon, Evening, Night:
		return tod, true
	}
	return "", false
}

// TimeOfDayAt maps a wall-clock time to a time of day.
func TimeOfDayAt(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h < 12:
		return Morning
	case h < 17:
		return Afternoon
	case h < 21:
		return Evening
	default:
		return Night
	}
}

// Profile is what the user tells us about themselves. All fields are
// untrusted free text except TimeOfDay.
type Profile struct {
	Role      string    `json:"role"`
	Feeling   string    `json:"feeling"`
	TimeOfDay TimeOfDay `json:"timeOfDay"`
	Language  string    `json:"language"`
	Religion  string    `json:"religion"`
	Challenge string    `json:"challenge"`
}

// Composition is everything derived from a profile before calling the model.
type Composition struct {
	Profile  Profile
	Context  EmotionalContext
	Religion string
	Greeting string
	Ending   string
	Prompt   Prompt
}

// Finalize applies the post-processing step for this composition.
func (c *Composition) Finalize(text string) string {
	return Finalize(text, c.Greeting, c.Ending)
}

// Composer builds compositions from profiles.
type Composer struct {
	tables *Tables
	src    Source
	now    func() time.Time
}

// Option configures a Composer.
type Option func(*Composer)

// WithTables replaces the embedded tables.
func WithTables(t *Tables) Option {
	return func(c *Composer) { c.tables = t }
}

// WithSource sets the phrase selection source.
func WithSource(src Source) Option {
	return func(c *Composer) { c.src = src }
}

// WithClock sets the clock used when a profile has no valid time of day.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// New returns a Composer over the embedded tables with random phrase
// selection and the system clock.
func New(opts ...Option) *Composer {
	c := &Composer{
		tables: Builtin(),
		src:    RandomSource(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tables returns the tables in use.
func (c *Composer) Tables() *Tables { return c.tables }

// Compose classifies the profile, selects the religious template and renders
// the prompts.
func (c *Composer) Compose(p Profile) *Composition {
	if tod, ok := ParseTimeOfDay(string(p.TimeOfDay)); ok {
		p.TimeOfDay = tod
	} else {
		p.TimeOfDay = TimeOfDayAt(c.now())
	}

	ec := c.tables.Classify(p.Feeling, p.Challenge)
	tmpl := c.tables.Religion(p.Religion)
	greeting := tmpl.Greeting(ec, p.TimeOfDay, c.src)
	ending := tmpl.Ending(ec, p.TimeOfDay, c.src)

	return &Composition{
		Profile:  p,
		Context:  ec,
		Religion: tmpl.Key(),
		Greeting: greeting,
		Ending:   ending,
		Prompt:   Assemble(p, ec, greeting, ending, tmpl.Guidance()),
	}
}
