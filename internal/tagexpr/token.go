package tagexpr

import (
	"fmt"
	"regexp"
)

// TokenType identifies the kind of a token.
type TokenType int

const (
	StartGroup TokenType = iota
	StartNegGroup
	EndGroup
	And
	Or
	Name
)

// Token is one lexical element of a filter string. Name tokens carry the
// literal tag text, which may start with - for a negated tag.
type Token struct {
	Type   TokenType
	Lexeme string
}

var delimiterSpace = regexp.MustCompile(`\s*([(),|])\s*`)

func delimiterType(c byte) (TokenType, bool) {
	switch c {
	case '(':
		return StartGroup, true
	case ')':
		return EndGroup, true
	case ',':
		return And, true
	case '|':
		return Or, true
	}
	return 0, false
}

// Tokenize turns a filter string into a flat token stream. The whole
// expression is wrapped in a synthetic outer group so that a bare list of
// tags parses like a parenthesized one. Malformed adjacent delimiters are
// rejected here rather than in the parser.
func Tokenize(text string) ([]Token, error) {
	nospace := delimiterSpace.ReplaceAllString(text, "$1")
	tokens := []Token{{StartGroup, "("}}
	buf := ""
	for i := 0; i < len(nospace); i++ {
		c := nospace[i]
		ctype, isDelim := delimiterType(c)
		if !isDelim {
			if tokens[len(tokens)-1].Type == EndGroup {
				return nil, fmt.Errorf("%w: %q can't follow a closed group", ErrSyntax, string(c))
			}
			buf += string(c)
			continue
		}
		if buf != "" {
			switch {
			case ctype == StartGroup && buf == "-":
				// A dash directly before a parenthesis negates the group.
				ctype = StartNegGroup
			case ctype == StartGroup:
				return nil, fmt.Errorf("%w: invalid starting parenthesis", ErrSyntax)
			case buf == "-":
				return nil, fmt.Errorf(`%w: can't have a lone "-"`, ErrSyntax)
			default:
				tokens = append(tokens, Token{Name, buf})
			}
			buf = ""
		} else if last := tokens[len(tokens)-1].Type; last == StartGroup || last == EndGroup || last == And || last == Or {
			switch {
			case last == EndGroup && ctype == StartGroup:
				return nil, fmt.Errorf("%w: a group can't start directly after another ended", ErrSyntax)
			case len(tokens) == 1 && ctype != StartGroup:
				return nil, fmt.Errorf("%w: %q can't appear at the start of the filter", ErrSyntax, string(c))
			case last == StartGroup && ctype == EndGroup:
				return nil, fmt.Errorf("%w: can't have an empty group", ErrSyntax)
			case last != EndGroup && ctype != StartGroup:
				return nil, fmt.Errorf("%w: %q can't follow %q", ErrSyntax, string(c), tokens[len(tokens)-1].Lexeme)
			}
		}
		tokens = append(tokens, Token{ctype, string(c)})
	}
	if buf != "" {
		tokens = append(tokens, Token{Name, buf})
	}
	return append(tokens, Token{EndGroup, ")"}), nil
}
