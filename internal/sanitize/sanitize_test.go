package sanitize

import "testing"

func TestSanitize(t *testing.T) {
	t.Parallel()

	p := NewPlainTextPolicy()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  ", ""},
		{"plain", "Lord, guide me.", "Lord, guide me."},
		{"bold", "**Lord**, guide me.", "Lord, guide me."},
		{"paragraphs", "Lord,\n\n\n\nwatch over me.", "Lord,\n\nwatch over me."},
		{"heading", "# Evening Prayer\n\nAmen.", "Evening Prayer\n\nAmen."},
		{"html", "<b>Peace</b> & rest", "Peace & rest"},
		{"apostrophe", "God's grace", "God's grace"},
	}
	for _, tt := range tests {
		if got := p.Sanitize(tt.in); got != tt.want {
			t.Errorf("%s: Sanitize(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}
