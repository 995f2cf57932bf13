// Package tagexpr implements the tag filter expression language used to
// select entries by their tags. A filter is a boolean expression over tag
// names: AND is a comma, OR is a vertical bar, groups are parenthesized and
// may be negated with a leading dash, and a tag may contain * as a wildcard.
// AND and OR can't be mixed at the same level without explicit parentheses.
//
// Filters are compiled once into a Group tree and then matched against any
// number of tag sets. Both steps are pure, so compiled filters are safe to
// share between goroutines.
package tagexpr

import "errors"

var (
	// ErrSyntax is wrapped by all tokenizer and parser errors.
	ErrSyntax = errors.New("invalid syntax")
	// ErrUnknownMacro is returned when a filter references a macro that
	// isn't in the macro table.
	ErrUnknownMacro = errors.New("unknown tag macro")
	// ErrCyclicMacro is returned when macro expansion doesn't settle,
	// which means the macro definitions reference each other in a loop.
	ErrCyclicMacro = errors.New("cyclic tag macro")
)

// Compile expands macros in the filter, tokenizes it and parses it into a
// Group tree. The macro table maps macro names (without the @ prefix) to
// raw filter expressions and is only read, never modified.
func Compile(filter string, macros map[string]string) (*Group, error) {
	expanded, err := ExpandMacros(filter, macros)
	if err != nil {
		return nil, err
	}
	tokens, err := Tokenize(expanded)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}
