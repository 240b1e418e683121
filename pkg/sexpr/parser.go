package sexpr

import (
	"fmt"
	"io"
	"strings"
)

// Parse reads a single top-level s-expression from the input. Trailing
// content after the expression is ignored.
func Parse(r io.Reader) (*Node, error) {
	l := newLexer(r)
	tok, err := l.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenEOF {
		return nil, fmt.Errorf("sexpr: empty input")
	}
	return parseFrom(l, tok)
}

// ParseString parses a single s-expression from a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func parseFrom(l *lexer, tok token) (*Node, error) {
	switch tok.kind {
	case tokenSymbol:
		return &Node{Value: tok.text, line: tok.line}, nil
	case tokenString:
		return &Node{Value: tok.text, Quoted: true, line: tok.line}, nil
	case tokenOpen:
		return parseList(l, tok.line)
	case tokenClose:
		return nil, fmt.Errorf("sexpr: line %d: unexpected ')'", tok.line)
	default:
		return nil, fmt.Errorf("sexpr: line %d: unexpected end of input", tok.line)
	}
}

func parseList(l *lexer, line int) (*Node, error) {
	n := &Node{list: true, line: line}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenClose:
			return n, nil
		case tokenEOF:
			return nil, fmt.Errorf("sexpr: line %d: unclosed list", line)
		default:
			child, err := parseFrom(l, tok)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	}
}
