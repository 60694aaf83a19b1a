package html2doc

import (
	"fmt"
	"regexp"
)

// placeholderPattern matches {{name}} tokens. Names allow alphanumeric
// characters, hyphens, underscores, and dots.
var placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z0-9_.-]+)\}\}`)

// Substitute replaces every {{name}} token in text with the string form
// of the mapped value. Names absent from the mapping are left untouched,
// never an error. Substitution is a single pass: a substituted value is
// not re-scanned, so the operation is idempotent as long as no value
// itself contains a {{...}} token matching another name.
func Substitute(text string, values map[string]any) string {
	if text == "" || len(values) == 0 {
		return text
	}

	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-2]
		if v, ok := values[name]; ok {
			return fmt.Sprint(v)
		}
		// Unknown name: token stays in place.
		return match
	})
}
