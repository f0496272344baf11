package intrinsics

import (
	"strconv"
	"strings"

	"github.com/lyzr/stateflow/aslerrors"
)

// Parse parses expr as a single "States.Name(arg, ...)" call, the way a
// payload template's ".$" value is interpreted once it has been
// determined not to be a bare path (spec.md §4.3). The parser is strict:
// trailing input, mismatched parentheses, and empty identifiers all fail
// with *aslerrors.IntrinsicFunctionSyntaxError.
func Parse(expr string) (*Call, error) {
	p := &parser{src: expr}
	p.skipSpace()
	call, err := p.parseCall()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errAt(p.pos, "unexpected trailing input")
	}
	return call, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errAt(pos int, msg string) error {
	return &aslerrors.IntrinsicFunctionSyntaxError{Position: pos, Message: msg}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func (p *parser) parseCall() (*Call, error) {
	start := p.pos
	name := p.parseIdentifier()
	if name == "" {
		return nil, p.errAt(start, "expected a function name")
	}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return nil, p.errAt(p.pos, "expected \"(\" after function name")
	}
	p.pos++ // consume '('

	var args []Arg
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ')' {
		p.pos++
		return &Call{Name: name, Args: args}, nil
	}

	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errAt(p.pos, "unterminated argument list")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
			p.skipSpace()
			continue
		case ')':
			p.pos++
			return &Call{Name: name, Args: args}, nil
		default:
			return nil, p.errAt(p.pos, "expected \",\" or \")\"")
		}
	}
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '.' || c == '_' || (p.pos > start && c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *parser) parseArg() (Arg, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, p.errAt(p.pos, "expected an argument")
	}

	switch {
	case p.src[p.pos] == '\'':
		return p.parseString()
	case p.src[p.pos] == '$':
		return p.parsePath()
	case p.src[p.pos] == '-' || isDigit(p.src[p.pos]):
		return p.parseNumber()
	default:
		// Could be a nested function call: Name(...)
		save := p.pos
		name := p.parseIdentifier()
		p.skipSpace()
		if name != "" && p.pos < len(p.src) && p.src[p.pos] == '(' {
			p.pos = save
			return p.parseCall()
		}
		return nil, p.errAt(save, "unrecognized argument")
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (p *parser) parseString() (Arg, error) {
	start := p.pos
	p.pos++ // consume opening quote
	var b strings.Builder
	for {
		if p.pos >= len(p.src) {
			return nil, p.errAt(start, "unterminated string literal")
		}
		c := p.src[p.pos]
		if c == '\\' && p.pos+1 < len(p.src) {
			next := p.src[p.pos+1]
			if next == '\'' || next == '\\' {
				b.WriteByte(next)
				p.pos += 2
				continue
			}
		}
		if c == '\'' {
			p.pos++
			return &StringLiteral{Value: b.String()}, nil
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *parser) parsePath() (Arg, error) {
	start := p.pos
	isContext := strings.HasPrefix(p.src[p.pos:], "$$")
	p.pos++
	if isContext {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == ')' || isSpace(c) {
			break
		}
		p.pos++
	}
	path := p.src[start:p.pos]
	if isContext {
		path = "$" + path[2:]
	}
	return &PathLiteral{Path: path, Context: isContext}, nil
}

func (p *parser) parseNumber() (Arg, error) {
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	isFloat := false
	if p.pos < len(p.src) && p.src[p.pos] == '.' {
		isFloat = true
		p.pos++
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
	}
	text := p.src[start:p.pos]
	if text == "" || text == "-" {
		return nil, p.errAt(start, "malformed number literal")
	}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errAt(start, "malformed number literal")
		}
		return &NumberLiteral{IsInt: false, Float: f}, nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errAt(start, "malformed number literal")
	}
	return &NumberLiteral{IsInt: true, Int: i}, nil
}
