package composer

import (
	"strings"
	"testing"
)

func TestFinalize(t *testing.T) {
	t.Parallel()

	const (
		greeting = "Heavenly Father, we come before You today,"
		ending   = "In Jesus' name we pray. Amen."
	)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "conforming text is unchanged",
			text: "Heavenly Father, hear us.\n\nIn Jesus' name we pray. Amen.",
			want: "Heavenly Father, hear us.\n\nIn Jesus' name we pray. Amen.",
		},
		{
			name: "missing greeting is prepended with a blank line",
			text: "Give me strength today. In Jesus' name we pray. Amen.",
			want: greeting + "\n\nGive me strength today. In Jesus' name we pray. Amen.",
		},
		{
			name: "missing ending is appended with a blank line",
			text: "Heavenly Father, give me strength today.",
			want: "Heavenly Father, give me strength today.\n\n" + ending,
		},
		{
			name: "both missing",
			text: "Give me strength.",
			want: greeting + "\n\nGive me strength.\n\n" + ending,
		},
		{
			name: "surrounding whitespace is trimmed",
			text: "\n  Heavenly Father, thank You. In Jesus' name we pray. Amen.  \n",
			want: "Heavenly Father, thank You. In Jesus' name we pray. Amen.",
		},
		{
			name: "ending clause may appear anywhere",
			text: "Heavenly Father, In Jesus' name we pray, and we rest.",
			want: "Heavenly Father, In Jesus' name we pray, and we rest.",
		},
		{
			name: "empty text",
			text: "",
			want: greeting + "\n\n\n\n" + ending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Finalize(tt.text, greeting, ending)
			if got != tt.want {
				t.Errorf("Finalize() = %q, want %q", got, tt.want)
			}
			if again := Finalize(got, greeting, ending); again != got {
				t.Errorf("Finalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestFinalizeIdempotentAcrossTables(t *testing.T) {
	t.Parallel()

	tables := Builtin()
	inputs := []string{
		"",
		"A short prayer.",
		"  Peace be with you.\n",
		"Amen.",
	}

	for _, religion := range tables.Religions() {
		tmpl := tables.Religion(religion)
		for _, ec := range allContexts(tables) {
			for i := 0; i < 3; i++ {
				greeting := tmpl.Greeting(ec, Morning, FixedSource(i))
				ending := tmpl.Ending(ec, Morning, FixedSource(i))
				for _, in := range inputs {
					once := Finalize(in, greeting, ending)
					if twice := Finalize(once, greeting, ending); twice != once {
						t.Errorf("%s: Finalize not idempotent for %q: %q -> %q", religion, in, once, twice)
					}
				}
			}
		}
	}
}

func TestFinalizeEndsWithSelectedEnding(t *testing.T) {
	t.Parallel()

	tables := Builtin()
	const body = "Give me strength today."

	for _, religion := range tables.Religions() {
		tmpl := tables.Religion(religion)
		for _, ec := range allContexts(tables) {
			for _, greeting := range tmpl.greetings[tmpl.GreetingVariant(ec)] {
				for _, ending := range tmpl.endings[tmpl.EndingVariant(ec)] {
					got := Finalize(body, greeting, ending)
					if !strings.HasPrefix(got, greeting+"\n\n") {
						t.Errorf("%s/%s: greeting not prepended: %q", religion, ec.Category, got)
						continue
					}
					rest := strings.TrimPrefix(got, greeting)
					if !strings.Contains(rest, leadingClause(ending, ".")) {
						t.Errorf("%s/%s: ending never appended: %q", religion, ec.Category, got)
					}
					if !strings.HasSuffix(got, ending) {
						t.Errorf("%s/%s: output does not end with %q: %q", religion, ec.Category, ending, got)
					}
				}
			}
		}
	}
}

func TestLeadingClause(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, sep, want string
	}{
		{"Jesus, I trust in You.", ",", "Jesus"},
		{"Through Christ our Lord. Amen.", ".", "Through Christ our Lord"},
		{"No separator here", ",", "No separator here"},
		{"Ameen, ya Rabb al-'alamin.", ".", "Ameen, ya Rabb al-'alamin"},
	}
	for _, tt := range tests {
		if got := leadingClause(tt.in, tt.sep); got != tt.want {
			t.Errorf("leadingClause(%q, %q) = %q, want %q", tt.in, tt.sep, got, tt.want)
		}
	}
}
