package tagexpr

import (
	"regexp"
	"strings"
)

// Match evaluates the compiled filter against a set of tags. It never
// fails: trees produced by Parse are always evaluable.
func (g *Group) Match(tags map[string]struct{}) bool {
	var result bool
	switch g.Mode {
	case ModeAnd:
		result = true
		for _, child := range g.Children {
			if !matchChild(child, tags) {
				result = false
				break
			}
		}
	case ModeOr:
		result = false
		for _, child := range g.Children {
			if matchChild(child, tags) {
				result = true
				break
			}
		}
	}
	return result != g.Invert
}

func matchChild(child Child, tags map[string]struct{}) bool {
	switch c := child.(type) {
	case TagPattern:
		return matchTag(string(c), tags)
	case *Group:
		return c.Match(tags)
	}
	return false
}

// matchTag checks a single leaf against the tag set. A * in the pattern
// matches one or more characters; the match is anchored at both ends of
// the candidate tag, so "x*" matches "xerxes" but neither "x" nor "axe".
func matchTag(pattern string, tags map[string]struct{}) bool {
	negated := strings.HasPrefix(pattern, "-")
	body := strings.TrimLeft(pattern, "-")
	if strings.Contains(body, "*") {
		rx, err := regexp.Compile("^" + strings.ReplaceAll(body, "*", ".+") + "$")
		if err != nil {
			// A pattern that doesn't survive translation matches nothing.
			return negated
		}
		for tag := range tags {
			if rx.MatchString(tag) {
				return !negated
			}
		}
		return negated
	}
	_, found := tags[body]
	return found != negated
}
