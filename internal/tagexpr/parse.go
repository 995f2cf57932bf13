package tagexpr

import "fmt"

// Mode says how the children of a group are combined.
type Mode int

const (
	ModeAnd Mode = iota
	ModeOr
)

func (m Mode) String() string {
	if m == ModeAnd {
		return "AND"
	}
	return "OR"
}

// Child is a member of a group: either a nested *Group or a TagPattern leaf.
type Child interface {
	isChild()
}

// TagPattern is a leaf in the expression tree: a literal tag, a negated
// literal (-tag), or a wildcard pattern containing *.
type TagPattern string

func (TagPattern) isChild() {}

// Group is a node in the expression tree. A successfully parsed group
// always has at least one child.
type Group struct {
	Mode     Mode
	Invert   bool
	Children []Child
}

func (*Group) isChild() {}

// Equal reports whether two groups have the same structure. Child order is
// significant even though AND and OR are commutative when matching.
func (g *Group) Equal(other *Group) bool {
	if g.Mode != other.Mode || g.Invert != other.Invert || len(g.Children) != len(other.Children) {
		return false
	}
	for i, child := range g.Children {
		switch c := child.(type) {
		case TagPattern:
			o, ok := other.Children[i].(TagPattern)
			if !ok || c != o {
				return false
			}
		case *Group:
			o, ok := other.Children[i].(*Group)
			if !ok || !c.Equal(o) {
				return false
			}
		}
	}
	return true
}

func (g *Group) String() string {
	s := "<"
	if g.Invert {
		s += "NOT "
	}
	s += g.Mode.String() + " ["
	for i, child := range g.Children {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%v", child)
	}
	return s + "]>"
}

// Parse consumes a token stream from Tokenize and builds the expression
// tree. Separators fix the group's mode; seeing both kinds at one level is
// an error since precedence must be made explicit with parentheses.
func Parse(tokens []Token) (*Group, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no tokens", ErrSyntax)
	}
	p := &parser{tokens: tokens}
	return p.readGroup()
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) readGroup() (*Group, error) {
	opening := p.tokens[p.pos]
	p.pos++
	if opening.Type != StartGroup && opening.Type != StartNegGroup {
		return nil, fmt.Errorf("%w: expected a group but got %q", ErrSyntax, opening.Lexeme)
	}
	invert := opening.Type == StartNegGroup
	var children []Child
	var mode Mode
	modeSet := false
	for p.pos < len(p.tokens) {
		token := p.tokens[p.pos]
		switch token.Type {
		case EndGroup:
			p.pos++
			if len(children) == 0 {
				return nil, fmt.Errorf("%w: empty filter", ErrSyntax)
			}
			// A group holding nothing but another group collapses into
			// it, folding the negations together.
			if len(children) == 1 {
				if inner, ok := children[0].(*Group); ok {
					inner.Invert = invert != inner.Invert
					return inner, nil
				}
			}
			if !modeSet {
				mode = ModeOr
			}
			return &Group{Mode: mode, Invert: invert, Children: children}, nil
		case StartGroup, StartNegGroup:
			sub, err := p.readGroup()
			if err != nil {
				return nil, err
			}
			children = append(children, sub)
		case And, Or:
			newMode := ModeAnd
			if token.Type == Or {
				newMode = ModeOr
			}
			if modeSet && mode != newMode {
				return nil, fmt.Errorf("%w: mixed separators", ErrSyntax)
			}
			mode, modeSet = newMode, true
			p.pos++
		case Name:
			children = append(children, TagPattern(token.Lexeme))
			p.pos++
		}
	}
	return nil, fmt.Errorf("%w: group wasn't closed", ErrSyntax)
}
