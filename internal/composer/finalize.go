package composer

import "strings"

// Finalize makes sure text opens with the greeting and closes with the
// ending. The greeting is matched on its text before the first comma as a
// prefix, the ending on its text before the first period anywhere in the
// text. Missing parts are added in full, separated by a blank line. Finalize
// is idempotent.
func Finalize(text, greeting, ending string) string {
	text = strings.TrimSpace(text)

	if g := leadingClause(greeting, ","); g != "" && !strings.HasPrefix(text, g) {
		text = greeting + "\n\n" + text
	}
	if e := leadingClause(ending, "."); e != "" && !strings.Contains(text, e) {
		text = text + "\n\n" + ending
	}
	return strings.TrimSpace(text)
}

func leadingClause(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return strings.TrimSpace(before)
}
