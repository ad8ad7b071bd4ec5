package composer

import "strings"

// Category is a coarse emotional classification of a user's situation.
type Category string

// Emotional categories.
const (
	CategoryGratitude   Category = "gratitude"
	CategoryStruggle    Category = "struggle"
	CategoryGrief       Category = "grief"
	CategoryCrisis      Category = "crisis"
	CategoryGuidance    Category = "guidance"
	CategoryCelebration Category = "celebration"
	CategoryHealing     Category = "healing"
	CategoryGeneral     Category = "general"
)

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryGratitude, CategoryStruggle, CategoryGrief, CategoryCrisis,
		CategoryGuidance, CategoryCelebration, CategoryHealing, CategoryGeneral:
		return true
	}
	return false
}

// Length is the prayer length bucket.
type Length string

// Length buckets.
const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Valid reports whether l is one of the three buckets.
func (l Length) Valid() bool {
	return l == LengthShort || l == LengthMedium || l == LengthLong
}

// Sentences is the sentence range requested for the bucket.
func (l Length) Sentences() string {
	switch l {
	case LengthShort:
		return "2-3 sentences"
	case LengthLong:
		return "6-8 sentences"
	default:
		return "4-6 sentences"
	}
}

// Intensity steers variant selection in the template tables.
type Intensity string

// Intensities used by the emotion table.
const (
	IntensityLight    Intensity = "light"
	IntensityMedium   Intensity = "medium"
	IntensityModerate Intensity = "moderate"
	IntensityDeep     Intensity = "deep"
	IntensityUrgent   Intensity = "urgent"
)

// FocusHopeAndStability selects the "trust" ending variant.
const FocusHopeAndStability = "hope_and_stability"

// Config is the tone and shape derived from an emotional category.
type Config struct {
	Intensity Intensity `json:"intensity"`
	Length    Length    `json:"length"`
	Tone      string    `json:"tone"`
	Focus     string    `json:"focus"`
}

// EmotionalContext is the classification result for one profile.
type EmotionalContext struct {
	Category Category `json:"category"`
	Config   Config   `json:"config"`
}

// DefaultContext is the context used when no keyword matches.
func (t *Tables) DefaultContext() EmotionalContext {
	return EmotionalContext{Category: CategoryGeneral, Config: t.fallback}
}

// Classify picks the category whose keywords occur most often in feeling and
// challenge combined, case-insensitively. Ties go to the category declared
// first; no match yields the general category with the default config.
func (t *Tables) Classify(feeling, challenge string) EmotionalContext {
	text := strings.ToLower(feeling + " " + challenge)

	best := -1
	bestScore := 0
	for i, c := range t.categories {
		score := 0
		for _, kw := range c.keywords {
			score += strings.Count(text, kw)
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		return t.DefaultContext()
	}
	return EmotionalContext{Category: t.categories[best].name, Config: t.categories[best].config}
}
