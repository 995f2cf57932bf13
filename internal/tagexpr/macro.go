package tagexpr

import (
	"fmt"
	"regexp"
	"strings"
)

// A macro reference is an @ followed by anything that isn't a delimiter.
var macroRef = regexp.MustCompile(`@[^(),|]+`)

// maxMacroPasses bounds expansion so that macros referencing each other in
// a loop fail instead of hanging.
const maxMacroPasses = 32

// ExpandMacros replaces every @name reference in the filter with that
// macro's body, parenthesized to keep its precedence intact. Macros may
// reference other macros; expansion repeats until no references remain.
func ExpandMacros(text string, macros map[string]string) (string, error) {
	for range maxMacroPasses {
		refs := macroRef.FindAllString(text, -1)
		if len(refs) == 0 {
			return text, nil
		}
		for _, ref := range refs {
			name := strings.TrimLeft(strings.TrimSpace(ref), "@")
			body, ok := macros[name]
			if !ok {
				return "", fmt.Errorf("%w: %q", ErrUnknownMacro, name)
			}
			text = strings.ReplaceAll(text, ref, "("+body+")")
		}
	}
	return "", fmt.Errorf("%w: expansion didn't settle after %d passes", ErrCyclicMacro, maxMacroPasses)
}
