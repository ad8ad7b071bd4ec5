package composer

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestComposeScenarios(t *testing.T) {
	t.Parallel()

	c := New(WithSource(FixedSource(0)))

	gratitude := c.Compose(Profile{
		Feeling:   "grateful and blessed",
		Challenge: "finding a new job",
		Religion:  "christian",
		TimeOfDay: Morning,
	})
	if gratitude.Context.Category != CategoryGratitude {
		t.Errorf("category = %q, want gratitude", gratitude.Context.Category)
	}
	if gratitude.Context.Config.Length != LengthShort || gratitude.Context.Config.Tone != "uplifting" {
		t.Errorf("config = %+v, want short/uplifting", gratitude.Context.Config)
	}
	if !strings.Contains(gratitude.Prompt.User, "2-3 sentences") {
		t.Errorf("prompt does not ask for 2-3 sentences:\n%s", gratitude.Prompt.User)
	}

	crisis := c.Compose(Profile{
		Feeling:   "desperate and hopeless",
		Challenge: "financial crisis",
		Religion:  "catholic",
		TimeOfDay: Night,
	})
	if crisis.Context.Category != CategoryCrisis || crisis.Context.Config.Length != LengthMedium {
		t.Errorf("context = %+v, want crisis/medium", crisis.Context)
	}
	if crisis.Greeting != "Jesus, I trust in You." {
		t.Errorf("greeting = %q", crisis.Greeting)
	}

	unknown := c.Compose(Profile{Religion: "zoroastrian", TimeOfDay: Evening})
	if unknown.Religion != DefaultReligion {
		t.Errorf("religion = %q, want %q", unknown.Religion, DefaultReligion)
	}
	if unknown.Greeting == "" || unknown.Ending == "" {
		t.Errorf("empty template for unknown religion: %+v", unknown)
	}
}

func TestComposeTimeOfDayFallback(t *testing.T) {
	t.Parallel()

	at := func(hour int) func() time.Time {
		return func() time.Time { return time.Date(2025, 3, 1, hour, 30, 0, 0, time.UTC) }
	}

	tests := []struct {
		input string
		hour  int
		want  TimeOfDay
	}{
		{"", 8, Morning},
		{"", 13, Afternoon},
		{"", 19, Evening},
		{"", 23, Night},
		{"dusk", 2, Morning},
		{" Evening ", 8, Evening},
	}
	for _, tt := range tests {
		c := New(WithClock(at(tt.hour)), WithSource(FixedSource(0)))
		got := c.Compose(Profile{TimeOfDay: TimeOfDay(tt.input)})
		if got.Profile.TimeOfDay != tt.want {
			t.Errorf("Compose(timeOfDay=%q at %02d:30) = %q, want %q", tt.input, tt.hour, got.Profile.TimeOfDay, tt.want)
		}
	}
}

func TestCompositionFinalize(t *testing.T) {
	t.Parallel()

	c := New(WithSource(FixedSource(0)))
	comp := c.Compose(Profile{Religion: "catholic", Feeling: "desperate", TimeOfDay: Night})

	got := comp.Finalize("Lord, stay with me tonight.")
	if !strings.HasPrefix(got, comp.Greeting+"\n\n") {
		t.Errorf("greeting not prepended: %q", got)
	}
}

const validEmotions = `
[default]
intensity = "medium"
length = "medium"
tone = "calm"
focus = "peace"

[[category]]
name = "gratitude"
intensity = "light"
length = "short"
tone = "uplifting"
focus = "praise"
keywords = ["thank"]
`

const validReligions = `
[interfaith]
guidance = "be kind"
[interfaith.greetings]
formal = ["Hello,"]
[interfaith.endings]
standard = ["Bye."]
`

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		emotions  string
		religions string
		wantErr   string
	}{
		{name: "valid", emotions: validEmotions, religions: validReligions},
		{
			name:      "missing interfaith",
			emotions:  validEmotions,
			religions: strings.ReplaceAll(validReligions, "interfaith", "other"),
			wantErr:   `religion "interfaith" is required`,
		},
		{
			name:      "missing formal greetings",
			emotions:  validEmotions,
			religions: strings.Replace(validReligions, "formal", "intimate", 1),
			wantErr:   `variant "formal" is required`,
		},
		{
			name:      "unknown variant",
			emotions:  validEmotions,
			religions: strings.Replace(validReligions, "standard", "closing", 1),
			wantErr:   `unknown variant "closing"`,
		},
		{
			name:      "greeting contains the opening of an ending",
			emotions:  validEmotions,
			religions: strings.Replace(validReligions, `["Bye."]`, `["Hello. Amen."]`, 1),
			wantErr:   "contains the opening of ending",
		},
		{
			name:      "unknown length",
			emotions:  strings.Replace(validEmotions, `length = "short"`, `length = "tiny"`, 1),
			religions: validReligions,
			wantErr:   `unknown length "tiny"`,
		},
		{
			name:      "upper-case keyword",
			emotions:  strings.Replace(validEmotions, `"thank"`, `"Thank"`, 1),
			religions: validReligions,
			wantErr:   "lower case",
		},
		{
			name:      "general is not a declarable category",
			emotions:  strings.Replace(validEmotions, `name = "gratitude"`, `name = "general"`, 1),
			religions: validReligions,
			wantErr:   "unknown category name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := fstest.MapFS{
				emotionsFile:  {Data: []byte(tt.emotions)},
				religionsFile: {Data: []byte(tt.religions)},
			}
			tables, err := Load(fsys)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Load() error = %v", err)
				}
				if got := tables.Classify("thanks a lot", "").Category; got != CategoryGratitude {
					t.Errorf("Classify() = %q, want gratitude", got)
				}
				if got := tables.Religion("anything").Name(); got != DefaultReligion {
					t.Errorf("Religion().Name() = %q, want %q", got, DefaultReligion)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
