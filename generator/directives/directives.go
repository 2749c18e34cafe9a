// Package directives finds and expands server side include directives in rendered pages.
//
// A directive is an HTML comment that starts with a '#', followed by the directive name and a
// list of attributes:
//
//	<!--#include-solution day="1" lines="3-10" -->
//
// Attribute values are always quoted. A value that starts with three quotes can span multiple
// lines, leading whitespace of continuation lines is dropped.
package directives

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const eof = -1

// Directive is a directive found in a document. Pos and End are the byte offsets of the start
// and the end of the comment.
type Directive struct {
	Pos, End int
	Name     string
	Attrs    map[string]string
}

// Attr returns the value of the attribute name or def if the attribute is missing or empty.
func (d *Directive) Attr(name, def string) string {
	if v := d.Attrs[name]; v != "" {
		return v
	}
	return def
}

// HasAttr reports whether the attribute name is set, even if it's empty.
func (d *Directive) HasAttr(name string) bool {
	_, ok := d.Attrs[name]
	return ok
}

// PositiveInt returns the attribute name as a positive integer.
func (d *Directive) PositiveInt(name string) (int, error) {
	v, ok := d.Attrs[name]
	if !ok {
		return 0, fmt.Errorf("%s: missing attribute %s", d.Name, name)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: %s must be a positive number, got %q", d.Name, name, v)
	}
	return n, nil
}

type SyntaxError struct {
	Msg       string
	Pos       int
	Line, Col int
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("%s [%d:%d]", err.Msg, err.Line, err.Col)
}

// Parse returns all directives in in, in the order they appear.
func Parse(in []byte) (_ []Directive, err error) {
	defer func() {
		if e := recover(); e != nil {
			if e, ok := e.(*SyntaxError); ok {
				err = e
				return
			}
			panic(e)
		}
	}()

	p := parser{in: in, line: 1}

	var dirs []Directive
	for {
		dir, ok := p.parseNextDirective()
		if !ok {
			break
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

type parser struct {
	in []byte

	ch  rune
	chw int

	pos       int
	col, line int
}

func (p *parser) parseNextDirective() (Directive, bool) {
	for {
		p.next()
		if p.ch == eof {
			return Directive{}, false
		}

		pos := p.pos
		if p.ch != '<' || !p.isnext("<!--#") {
			continue
		}
		p.consume("<!--#")

		d := Directive{
			Pos:   pos,
			Name:  p.parseIdent(),
			Attrs: make(map[string]string),
		}
		for {
			p.consumeSpaces()
			if !unicode.IsLetter(p.ch) {
				break
			}
			attr := p.parseIdent()
			if !p.consume("=") {
				p.errorf("unexpected %q, expected '='", p.ch)
			}
			if _, dup := d.Attrs[attr]; dup {
				p.errorf("duplicate attribute %s", attr)
			}
			d.Attrs[attr] = p.parseValue()
		}

		if !p.consume("-->") {
			p.errorf("unexpected %q, expected '-->'", p.ch)
		}
		d.End = p.pos
		// Rewind by one character so that the next call sees the character after the directive.
		p.ch, p.chw = 0, 0
		return d, true
	}
}

func (p *parser) errorf(format string, args ...any) {
	panic(&SyntaxError{
		Msg:  fmt.Sprintf(format, args...),
		Pos:  p.pos,
		Line: p.line,
		Col:  p.col,
	})
}

func (p *parser) next() {
	if p.ch == '\n' {
		p.line++
		p.col = 0
	}
	p.pos += p.chw
	if p.pos >= len(p.in) {
		p.ch = eof
		p.chw = 0
		return
	}
	p.ch, p.chw = utf8.DecodeRune(p.in[p.pos:])
	if p.ch == utf8.RuneError && p.chw <= 1 {
		p.errorf("invalid UTF-8")
	}
	p.col++
}

func (p *parser) consumeSpaces() {
	for unicode.IsSpace(p.ch) {
		p.next()
	}
}

func (p *parser) consume(s string) bool {
	for _, r := range s {
		if p.ch != r {
			return false
		}
		p.next()
	}
	return true
}

func (p *parser) isnext(s string) bool {
	return bytes.HasPrefix(p.in[p.pos:], []byte(s))
}

func (p *parser) parseIdent() string {
	if !unicode.IsLetter(p.ch) {
		p.errorf("unexpected %q, expected identifier", p.ch)
	}
	pos := p.pos
	for unicode.IsLetter(p.ch) || unicode.IsDigit(p.ch) || p.ch == '-' || p.ch == '_' {
		p.next()
	}
	return string(p.in[pos:p.pos])
}

func (p *parser) parseValue() string {
	if p.ch != '"' {
		p.errorf("unexpected %q, expected '\"'", p.ch)
	}

	if p.isnext(`"""`) {
		p.consume(`"""`)
		var sb strings.Builder
		for !p.isnext(`"""`) {
			if p.ch == eof {
				p.errorf("unterminated tri-quoted string")
			}
			sb.WriteRune(p.ch)
			if p.ch == '\n' {
				p.next()
				p.consumeSpaces()
			} else {
				p.next()
			}
		}
		p.consume(`"""`)
		return sb.String()
	}

	p.next()
	pos := p.pos
	for p.ch != '"' {
		if p.ch == eof || p.ch == '\n' {
			p.errorf("unterminated string")
		}
		p.next()
	}
	v := string(p.in[pos:p.pos])
	p.next()
	return v
}
