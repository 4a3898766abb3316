// Package parser turns the concrete regex syntax accepted by the scanner
// generator into an internal/ast tree.
//
// Grammar (highest precedence last):
//
//	regex      := alternation
//	alternation:= concatenation ('|' concatenation)*
//	concat     := repetition+
//	repetition := atom ('*' | '+' | '?')?
//	atom       := '(' regex ')' | charClass | escape | '.' | literal
//	charClass  := '[' '^'? classItem+ ']'
//	classItem  := escape | char '-' char | char
//	escape     := '\' ( 'd'|'D'|'w'|'W'|'s'|'S'|. )
package parser

import "github.com/coregx/scangen/internal/ast"

// Parse compiles a single regular expression into an AST. On failure the
// returned error is always a *ParseError wrapping one of the sentinels in
// error.go.
func Parse(pattern string) (*ast.Node, error) {
	p := &parser{pattern: pattern}
	node, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.pattern) {
		// Leftover input means an unmatched ')'.
		return nil, p.fail(p.pos, ErrUnbalancedParen)
	}
	return node, nil
}

type parser struct {
	pattern string
	pos     int
	depth   int // open '(' groups; ')' only terminates a concat inside a group
}

func (p *parser) fail(offset int, err error) error {
	return &ParseError{Pattern: p.pattern, Offset: offset, Err: err}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.pattern)
}

func (p *parser) peek() byte {
	return p.pattern[p.pos]
}

// parseAlternation := concatenation ('|' concatenation)*
func (p *parser) parseAlternation() (*ast.Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.peek() == '|' {
		p.pos++
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = ast.NewUnion(left, right)
	}
	return left, nil
}

// parseConcat := repetition+
func (p *parser) parseConcat() (*ast.Node, error) {
	var result *ast.Node
	for !p.eof() && p.peek() != '|' && !(p.depth > 0 && p.peek() == ')') {
		rep, err := p.parseRepetition()
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = rep
		} else {
			result = ast.NewConcat(result, rep)
		}
	}
	if result == nil {
		return nil, p.fail(p.pos, ErrEmptyGroup)
	}
	return result, nil
}

// parseRepetition := atom ('*' | '+' | '?')?
func (p *parser) parseRepetition() (*ast.Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.eof() {
		return atom, nil
	}
	switch p.peek() {
	case '*':
		p.pos++
		return ast.NewKleene(atom), nil
	case '+':
		p.pos++
		// a+ desugars to Concatenation(a, Kleene(copy-of-a)).
		return ast.NewConcat(atom, ast.NewKleene(copyNode(atom))), nil
	case '?':
		p.pos++
		return ast.NewOptional(atom), nil
	default:
		return atom, nil
	}
}

// parseAtom := '(' regex ')' | charClass | escape | '.' | literal
func (p *parser) parseAtom() (*ast.Node, error) {
	if p.eof() {
		return nil, p.fail(p.pos, ErrUnexpectedEOF)
	}

	switch c := p.peek(); c {
	case '*', '+', '?':
		return nil, p.fail(p.pos, ErrDanglingRepetition)
	case '(':
		start := p.pos
		p.pos++
		p.depth++
		inner, err := p.parseAlternation()
		p.depth--
		if err != nil {
			return nil, err
		}
		if p.eof() || p.peek() != ')' {
			return nil, p.fail(start, ErrUnbalancedParen)
		}
		p.pos++
		return inner, nil
	case ')':
		return nil, p.fail(p.pos, ErrUnbalancedParen)
	case '[':
		return p.parseCharClass()
	case '\\':
		return p.parseEscapeAtom()
	case '.':
		p.pos++
		return ast.NewWildcard(), nil
	default:
		p.pos++
		return ast.NewLeaf(ast.NewByteSet(c)), nil
	}
}

// parseCharClass := '[' '^'? classItem+ ']'
func (p *parser) parseCharClass() (*ast.Node, error) {
	start := p.pos
	p.pos++ // consume '['

	negate := false
	if !p.eof() && p.peek() == '^' {
		negate = true
		p.pos++
	}

	var set ast.ByteSet
	seenItem := false
	for {
		if p.eof() {
			return nil, p.fail(start, ErrUnbalancedBracket)
		}
		if p.peek() == ']' && seenItem {
			p.pos++
			break
		}
		if p.peek() == ']' && !seenItem {
			// '[]...]' is not a supported idiom here; treat as
			// unbalanced since it can never be satisfied by classItem+.
			return nil, p.fail(start, ErrUnbalancedBracket)
		}

		lo, loSet, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		seenItem = true

		if loSet != nil {
			set.Union(*loSet)
			continue
		}

		if !p.eof() && p.peek() == '-' && p.pos+1 < len(p.pattern) && p.pattern[p.pos+1] != ']' {
			p.pos++ // consume '-'
			hi, hiSet, err := p.parseClassAtom()
			if err != nil {
				return nil, err
			}
			if hiSet != nil {
				// A predefined class can't be a range endpoint.
				return nil, p.fail(p.pos, ErrInvertedRange)
			}
			if hi < lo {
				return nil, p.fail(p.pos, ErrInvertedRange)
			}
			set.AddRange(lo, hi)
			continue
		}

		set.Add(lo)
	}

	if negate {
		set = set.Complement()
	}
	return ast.NewLeaf(set), nil
}

// parseClassAtom parses one classItem. It returns either a single byte
// (loSet == nil) or the fully expanded member set of a predefined escape
// class (loSet != nil).
func (p *parser) parseClassAtom() (byte, *ast.ByteSet, error) {
	if p.eof() {
		return 0, nil, p.fail(p.pos, ErrUnbalancedBracket)
	}
	if p.peek() == '\\' {
		return p.parseEscapeMember()
	}
	c := p.peek()
	p.pos++
	return c, nil, nil
}

// parseEscapeAtom parses a top-level '\' escape as a regex atom.
func (p *parser) parseEscapeAtom() (*ast.Node, error) {
	b, set, err := p.parseEscapeMember()
	if err != nil {
		return nil, err
	}
	if set != nil {
		return ast.NewLeaf(*set), nil
	}
	return ast.NewLeaf(ast.NewByteSet(b)), nil
}

// parseEscapeMember parses a '\' escape shared by atom and char-class
// contexts. Predefined classes (\d \D \w \W \s \S) yield a member set;
// any other escaped character is a literal (loSet == nil).
func (p *parser) parseEscapeMember() (byte, *ast.ByteSet, error) {
	start := p.pos
	p.pos++ // consume '\'
	if p.eof() {
		return 0, nil, p.fail(start, ErrTrailingBackslash)
	}
	c := p.pattern[p.pos]
	p.pos++

	switch c {
	case 'd':
		return 0, classPtr(digitClass()), nil
	case 'D':
		return 0, classPtr(digitClass().Complement()), nil
	case 'w':
		return 0, classPtr(wordClass()), nil
	case 'W':
		return 0, classPtr(wordClass().Complement()), nil
	case 's':
		return 0, classPtr(spaceClass()), nil
	case 'S':
		return 0, classPtr(spaceClass().Complement()), nil
	default:
		return c, nil, nil
	}
}

func classPtr(s ast.ByteSet) *ast.ByteSet { return &s }

func digitClass() ast.ByteSet {
	var s ast.ByteSet
	s.AddRange('0', '9')
	return s
}

func wordClass() ast.ByteSet {
	var s ast.ByteSet
	s.AddRange('0', '9')
	s.AddRange('A', 'Z')
	s.AddRange('a', 'z')
	s.Add('_')
	return s
}

func spaceClass() ast.ByteSet {
	return ast.NewByteSet(' ', '\t', '\n', '\r', '\f', '\v')
}

// copyNode deep-copies a subtree so '+' desugaring gives the repeated
// occurrence its own independent node identities.
func copyNode(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	out := &ast.Node{
		Kind:     n.Kind,
		Bytes:    n.Bytes,
		Wildcard: n.Wildcard,
		Left:     copyNode(n.Left),
		Right:    copyNode(n.Right),
	}
	return out
}
