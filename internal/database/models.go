package database

import "time"

// Prayer is a generated prayer saved to an owner's history. It is written
// once and never updated.
type Prayer struct {
	ID            string `db:"id"`
	Owner         string `db:"owner"`
	Text          string `db:"text"`
	Audio         []byte `db:"audio"` // nil when loaded by ListPrayers
	AudioMIMEType string `db:"audio_mime_type"`
	Voice         string `db:"voice"`

	// Profile snapshot.
	Role      string `db:"role"`
	Feeling   string `db:"feeling"`
	TimeOfDay string `db:"time_of_day"`
	Language  string `db:"language"`
	Religion  string `db:"religion"`
	Challenge string `db:"challenge"`

	// Generation metadata.
	EmotionalCategory string `db:"emotional_category"`
	PrayerLength      string `db:"prayer_length"`
	Tone              string `db:"tone"`
	Greeting          string `db:"greeting"`
	Ending            string `db:"ending"`

	CreatedAt time.Time `db:"created_at"`
}
