package composer

import (
	"strings"
	"testing"
)

func allContexts(tables *Tables) []EmotionalContext {
	contexts := []EmotionalContext{tables.DefaultContext()}
	for _, c := range tables.categories {
		contexts = append(contexts, EmotionalContext{Category: c.name, Config: c.config})
	}
	return contexts
}

func TestSelectTemplateNeverEmpty(t *testing.T) {
	t.Parallel()

	tables := Builtin()
	religions := append(tables.Religions(), "zoroastrian", "", "  CATHOLIC ")
	times := []TimeOfDay{Morning, Afternoon, Evening, Night, ""}

	for _, religion := range religions {
		for _, ec := range allContexts(tables) {
			for _, tod := range times {
				for i := 0; i < 4; i++ {
					greeting, ending := tables.SelectTemplate(religion, ec, tod, FixedSource(i))
					if strings.TrimSpace(greeting) == "" || strings.TrimSpace(ending) == "" {
						t.Errorf("SelectTemplate(%q, %s, %s, %d) = (%q, %q)", religion, ec.Category, tod, i, greeting, ending)
					}
				}
			}
		}
	}
}

func TestSelectTemplateCatholicCrisis(t *testing.T) {
	t.Parallel()

	tables := Builtin()
	ec := tables.Classify("desperate and hopeless", "financial crisis")

	tmpl := tables.Religion("catholic")
	if v := tmpl.GreetingVariant(ec); v != VariantCrisis {
		t.Fatalf("greeting variant = %q, want %q", v, VariantCrisis)
	}

	greeting, ending := tables.SelectTemplate("catholic", ec, Night, FixedSource(0))
	if greeting != "Jesus, I trust in You." {
		t.Errorf("greeting = %q, want %q", greeting, "Jesus, I trust in You.")
	}
	if ending != "Sacred Heart of Jesus, I place all my trust in You. Amen." {
		t.Errorf("ending = %q, want the trust ending", ending)
	}

	for i := 0; i < 10; i++ {
		g, _ := tables.SelectTemplate("catholic", ec, Night, FixedSource(i))
		if !contains(tmpl.greetings[VariantCrisis], g) {
			t.Errorf("greeting %q is not from the catholic crisis variant", g)
		}
	}
}

func TestSelectTemplateUnknownReligion(t *testing.T) {
	t.Parallel()

	tables := Builtin()
	if got := tables.Religion("zoroastrian").Key(); got != DefaultReligion {
		t.Fatalf("Religion(zoroastrian) = %q, want %q", got, DefaultReligion)
	}

	interfaith := tables.Religion(DefaultReligion)
	ec := tables.DefaultContext()
	for i := 0; i < 5; i++ {
		greeting, ending := tables.SelectTemplate("zoroastrian", ec, Morning, FixedSource(i))
		if !contains(interfaith.greetings[VariantFormal], greeting) {
			t.Errorf("greeting %q is not an interfaith formal greeting", greeting)
		}
		if !contains(interfaith.endings[VariantStandard], ending) {
			t.Errorf("ending %q is not an interfaith standard ending", ending)
		}
	}
}

func TestVariantSelection(t *testing.T) {
	t.Parallel()

	tables := Builtin()
	ctx := func(c Category) EmotionalContext {
		for _, ec := range allContexts(tables) {
			if ec.Category == c {
				return ec
			}
		}
		t.Fatalf("no category %q", c)
		return EmotionalContext{}
	}

	tests := []struct {
		religion string
		category Category
		greeting string
		ending   string
	}{
		{"catholic", CategoryGratitude, VariantDevotional, VariantDevotional},
		{"catholic", CategoryGrief, VariantFormal, VariantLiturgical},
		{"catholic", CategoryCrisis, VariantCrisis, VariantTrust},
		{"christian", CategoryGratitude, VariantIntimate, VariantStandard},
		{"christian", CategoryStruggle, VariantFormal, VariantStandard},
		{"christian", CategoryCrisis, VariantCrisis, VariantTrust},
		{"hindu", CategoryCelebration, VariantDevotional, VariantDevotional},
		{"jewish", CategoryHealing, VariantFormal, VariantLiturgical},
		{"buddhist", CategoryGeneral, VariantFormal, VariantStandard},
		{"interfaith", CategoryGrief, VariantFormal, VariantStandard},
	}

	for _, tt := range tests {
		t.Run(tt.religion+"/"+string(tt.category), func(t *testing.T) {
			t.Parallel()

			tmpl := tables.Religion(tt.religion)
			ec := ctx(tt.category)
			if got := tmpl.GreetingVariant(ec); got != tt.greeting {
				t.Errorf("GreetingVariant() = %q, want %q", got, tt.greeting)
			}
			if got := tmpl.EndingVariant(ec); got != tt.ending {
				t.Errorf("EndingVariant() = %q, want %q", got, tt.ending)
			}
		})
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	t.Parallel()

	tables := Builtin()
	ec := tables.DefaultContext()

	a, b := NewSeededSource(42), NewSeededSource(42)
	for i := 0; i < 20; i++ {
		ga, ea := tables.SelectTemplate("christian", ec, Evening, a)
		gb, eb := tables.SelectTemplate("christian", ec, Evening, b)
		if ga != gb || ea != eb {
			t.Fatalf("draw %d differs: (%q, %q) vs (%q, %q)", i, ga, ea, gb, eb)
		}
	}
}

func TestFixedSourceClamps(t *testing.T) {
	t.Parallel()

	if got := FixedSource(-1).Intn(3); got != 0 {
		t.Errorf("FixedSource(-1).Intn(3) = %d, want 0", got)
	}
	if got := FixedSource(7).Intn(3); got != 2 {
		t.Errorf("FixedSource(7).Intn(3) = %d, want 2", got)
	}
}
