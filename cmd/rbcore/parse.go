package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/rbcore/array"
	"github.com/chazu/rbcore/convert"
	"github.com/chazu/rbcore/vm"
)

// command is one parsed input line: a method sent to the working array, or
// to the Array class when the line starts with "Array.".
type command struct {
	classSide bool
	method    string
	args      []vm.Value
}

type parser struct {
	interp *vm.VM
	self   vm.Value
	src    string
	pos    int
}

// parseCommand parses `<method> <arg>...`. Arguments are separated by
// spaces or commas.
func parseCommand(interp *vm.VM, self vm.Value, line string) (*command, error) {
	p := &parser{interp: interp, self: self, src: line}
	p.skip()
	name := p.methodName()
	if name == "" {
		return nil, fmt.Errorf("expected a method name at column %d", p.pos+1)
	}
	cmd := &command{method: name}
	if rest, ok := strings.CutPrefix(name, "Array."); ok {
		cmd.classSide = true
		cmd.method = rest
	}
	for {
		p.skipSeparators()
		if p.eof() {
			return cmd, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		cmd.args = append(cmd.args, v)
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte { return p.src[p.pos] }

func (p *parser) skip() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *parser) skipSeparators() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == ',') {
		p.pos++
	}
}

// methodName reads up to the next blank so that operators such as []= and
// << are accepted.
func (p *parser) methodName() string {
	start := p.pos
	for !p.eof() && p.peek() != ' ' && p.peek() != '\t' {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) word() string {
	start := p.pos
	for !p.eof() && !strings.ContainsRune(" \t,[]\"", rune(p.peek())) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) value() (vm.Value, error) {
	p.skip()
	if p.eof() {
		return vm.Nil, fmt.Errorf("unexpected end of line")
	}
	switch p.peek() {
	case '[':
		return p.list()
	case '"':
		return p.str()
	case ':':
		p.pos++
		name := p.word()
		if name == "" {
			return vm.Nil, fmt.Errorf("empty symbol at column %d", p.pos)
		}
		return convert.Symbol.ConvertMut(p.interp, name), nil
	}

	start := p.pos
	w := p.word()
	switch w {
	case "":
		return vm.Nil, fmt.Errorf("unexpected %q at column %d", p.peek(), start+1)
	case "nil":
		return vm.Nil, nil
	case "true":
		return vm.True, nil
	case "false":
		return vm.False, nil
	case "self":
		return p.self, nil
	}
	if n, err := strconv.ParseInt(w, 10, 64); err == nil {
		return convert.Int.Convert(n), nil
	}
	if f, err := strconv.ParseFloat(w, 64); err == nil {
		return convert.Float.Convert(f), nil
	}
	return vm.Nil, fmt.Errorf("unknown literal %q at column %d", w, start+1)
}

func (p *parser) list() (vm.Value, error) {
	p.pos++ // [
	var elems []vm.Value
	for {
		p.skipSeparators()
		if p.eof() {
			return vm.Nil, fmt.Errorf("unterminated array literal")
		}
		if p.peek() == ']' {
			p.pos++
			return array.FromValues(p.interp, elems), nil
		}
		v, err := p.value()
		if err != nil {
			return vm.Nil, err
		}
		elems = append(elems, v)
	}
}

func (p *parser) str() (vm.Value, error) {
	start := p.pos
	p.pos++ // opening quote
	for !p.eof() {
		switch p.peek() {
		case '\\':
			p.pos += 2
			continue
		case '"':
			p.pos++
			s, err := strconv.Unquote(p.src[start:p.pos])
			if err != nil {
				return vm.Nil, fmt.Errorf("bad string literal at column %d: %w", start+1, err)
			}
			return convert.String.ConvertMut(p.interp, s), nil
		}
		p.pos++
	}
	return vm.Nil, fmt.Errorf("unterminated string literal at column %d", start+1)
}
