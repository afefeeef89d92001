package erddap

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLiteral parses the Python style literals VOTO embeds in some global
// attributes, device metadata dictionaries mostly: dicts with quoted keys,
// lists, single or double quoted strings, numbers, True/False and None.
// Anything else is a parse error rather than a guess.
func ParseLiteral(s string) (any, error) {
	p := &literalParser{input: s}
	p.skipSpace()
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.done() {
		return nil, fmt.Errorf("trailing data at offset %d", p.pos)
	}
	return v, nil
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) done() bool {
	return p.pos >= len(p.input)
}

func (p *literalParser) peek() byte {
	return p.input[p.pos]
}

func (p *literalParser) skipSpace() {
	for !p.done() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) value() (any, error) {
	if p.done() {
		return nil, fmt.Errorf("unexpected end of input at offset %d", p.pos)
	}
	switch c := p.peek(); {
	case c == '{':
		return p.dict()
	case c == '[':
		return p.list()
	case c == '\'' || c == '"':
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		return s, nil
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return p.ident()
	}
}

func (p *literalParser) dict() (any, error) {
	p.pos++ // consume {
	out := make(map[string]any)
	for {
		p.skipSpace()
		if p.done() {
			return nil, fmt.Errorf("unterminated dict at offset %d", p.pos)
		}
		if p.peek() == '}' {
			p.pos++
			return out, nil
		}

		if p.peek() != '\'' && p.peek() != '"' {
			return nil, fmt.Errorf("expected quoted key at offset %d", p.pos)
		}
		key, err := p.quoted()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.done() || p.peek() != ':' {
			return nil, fmt.Errorf("expected ':' at offset %d", p.pos)
		}
		p.pos++
		p.skipSpace()
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		out[key] = val

		p.skipSpace()
		if p.done() {
			return nil, fmt.Errorf("unterminated dict at offset %d", p.pos)
		}
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("expected ',' or '}' at offset %d", p.pos)
		}
	}
}

func (p *literalParser) list() (any, error) {
	p.pos++ // consume [
	out := []any{}
	for {
		p.skipSpace()
		if p.done() {
			return nil, fmt.Errorf("unterminated list at offset %d", p.pos)
		}
		if p.peek() == ']' {
			p.pos++
			return out, nil
		}

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)

		p.skipSpace()
		if p.done() {
			return nil, fmt.Errorf("unterminated list at offset %d", p.pos)
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
		}
	}
}

func (p *literalParser) quoted() (string, error) {
	quote := p.peek()
	p.pos++
	var sb strings.Builder
	for !p.done() {
		c := p.peek()
		p.pos++
		switch c {
		case quote:
			return sb.String(), nil
		case '\\':
			if p.done() {
				return "", fmt.Errorf("unterminated escape at offset %d", p.pos)
			}
			esc := p.peek()
			p.pos++
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			default:
				return "", fmt.Errorf("unsupported escape '\\%c' at offset %d", esc, p.pos)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return "", fmt.Errorf("unterminated string at offset %d", p.pos)
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	for !p.done() && strings.ContainsRune("+-0123456789.eE", rune(p.peek())) {
		p.pos++
	}
	text := p.input[start:p.pos]
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("invalid number %q at offset %d", text, start)
}

func (p *literalParser) ident() (any, error) {
	start := p.pos
	for !p.done() && isAlpha(p.peek()) {
		p.pos++
	}
	switch p.input[start:p.pos] {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token at offset %d", start)
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
