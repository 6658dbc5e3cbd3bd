// Package dsl parses the textual modular-net input format of spec.md §6:
//
//	# optional comment lines
//	{
//	  t_name: p1, p2(w), ... -> p3(w), p4, ...
//	  ...
//	}
//	module_name {
//	  p1, p2(5), p3
//	  ...
//	}
//
// Parsing happens in two stages, mirroring original_source/src/parser/'s
// split: Parse produces an untyped rawInput (names only, no cross-
// reference resolution), and Transform resolves place references into a
// *petrinet.Net, assigning extern/intern transition ids along the way.
package dsl

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrUnknownPlace is the reference error of spec.md §7: a transition names
// a place not declared in any module. It is fatal and carries the
// offending place name so callers can print a precise diagnostic.
type ErrUnknownPlace struct {
	Place string
}

func (e *ErrUnknownPlace) Error() string {
	return fmt.Sprintf("dsl: place %q referenced by a transition is not declared in any module", e.Place)
}

// ErrSyntax reports a malformed input line, with the 1-based line number.
type ErrSyntax struct {
	Line    int
	Message string
}

func (e *ErrSyntax) Error() string {
	return fmt.Sprintf("dsl: line %d: %s", e.Line, e.Message)
}

type rawPlace struct {
	name      string
	weight    uint32
	hasWeight bool
}

type rawTransition struct {
	name    string
	inputs  []rawPlace
	outputs []rawPlace
}

type rawModule struct {
	name   string
	places []rawPlace
}

type rawInput struct {
	transitions []rawTransition
	modules     []rawModule
}

// Parser parses the modular-net textual grammar (spec.md §6).
type Parser struct{}

// NewParser returns a ready-to-use Parser. The grammar has no external
// configuration, so this exists chiefly to mirror the collaborator shape
// spec.md describes (a Parser/NewParser/Parse/ParseFile trio) and the
// teacher's own parser package layout.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads filename and parses it.
func (p *Parser) ParseFile(filename string) (*rawInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("dsl: read %s: %w", filename, err)
	}
	return p.Parse(data)
}

// Parse parses modular-net source text: leading comment lines, one
// transitions block, then one or more module blocks.
func (p *Parser) Parse(data []byte) (*rawInput, error) {
	lines, err := splitSignificantLines(data)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &ErrSyntax{Line: 0, Message: "empty input"}
	}

	in := &rawInput{}
	idx := 0

	if idx >= len(lines) || lines[idx].text != "{" {
		return nil, &ErrSyntax{Line: lines[minInt(idx, len(lines)-1)].num, Message: "expected '{' to open the transitions block"}
	}
	idx++

	for idx < len(lines) && lines[idx].text != "}" {
		t, err := parseTransitionLine(lines[idx])
		if err != nil {
			return nil, err
		}
		in.transitions = append(in.transitions, t)
		idx++
	}
	if idx >= len(lines) {
		return nil, &ErrSyntax{Line: lines[len(lines)-1].num, Message: "unterminated transitions block, expected '}'"}
	}
	idx++ // consume closing '}'

	for idx < len(lines) {
		header := lines[idx]
		name, rest, selfClosing, err := splitModuleHeader(header)
		if err != nil {
			return nil, err
		}
		idx++

		module := rawModule{name: name}
		if strings.TrimSpace(rest) != "" {
			places, err := parsePlaceList(rest, header.num)
			if err != nil {
				return nil, err
			}
			module.places = append(module.places, places...)
		}

		if !selfClosing {
			for idx < len(lines) && lines[idx].text != "}" {
				places, err := parsePlaceList(lines[idx].text, lines[idx].num)
				if err != nil {
					return nil, err
				}
				module.places = append(module.places, places...)
				idx++
			}
			if idx >= len(lines) {
				return nil, &ErrSyntax{Line: lines[len(lines)-1].num, Message: fmt.Sprintf("unterminated module %q, expected '}'", name)}
			}
			idx++ // consume closing '}'
		}

		in.modules = append(in.modules, module)
	}

	if len(in.modules) == 0 {
		return nil, &ErrSyntax{Line: lines[len(lines)-1].num, Message: "input declares no modules"}
	}

	return in, nil
}

type sourceLine struct {
	num  int
	text string
}

// splitSignificantLines strips comment lines (# ...) and blank lines,
// keeping original line numbers for diagnostics.
func splitSignificantLines(data []byte) ([]sourceLine, error) {
	var out []sourceLine
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	n := 0
	for scanner.Scan() {
		n++
		trimmed := strings.TrimSpace(scanner.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, sourceLine{num: n, text: trimmed})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dsl: scan input: %w", err)
	}
	return out, nil
}

var nameStartOK = func(r byte) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}
var nameBodyOK = func(r byte) bool {
	return nameStartOK(r) || (r >= '0' && r <= '9') || r == '_'
}

func isValidName(s string) bool {
	if s == "" || !nameStartOK(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !nameBodyOK(s[i]) {
			return false
		}
	}
	return true
}

// parseTransitionLine parses `name: p1, p2(w), ... -> p3(w), ...`.
func parseTransitionLine(l sourceLine) (rawTransition, error) {
	colon := strings.IndexByte(l.text, ':')
	if colon < 0 {
		return rawTransition{}, &ErrSyntax{Line: l.num, Message: "expected ':' after transition name"}
	}
	name := strings.TrimSpace(l.text[:colon])
	if !isValidName(name) {
		return rawTransition{}, &ErrSyntax{Line: l.num, Message: fmt.Sprintf("invalid transition name %q", name)}
	}

	rest := l.text[colon+1:]
	arrow := strings.Index(rest, "->")
	if arrow < 0 {
		return rawTransition{}, &ErrSyntax{Line: l.num, Message: "expected '->' separating input and output places"}
	}
	inputs, err := parsePlaceList(rest[:arrow], l.num)
	if err != nil {
		return rawTransition{}, err
	}
	outputs, err := parsePlaceList(rest[arrow+2:], l.num)
	if err != nil {
		return rawTransition{}, err
	}
	// Transition-arc weight default is 1 (spec.md §6), distinct from the
	// module place declaration's default of 0.
	return rawTransition{name: name, inputs: applyDefault(inputs, 1), outputs: applyDefault(outputs, 1)}, nil
}

// splitModuleHeader parses `module_name {` possibly followed on the same
// line by its first places, e.g. `module_name { p1, p2(5)`. If the header
// line also carries the closing brace (a module fitting entirely on one
// line, e.g. `module_name { p1, p2 }`), selfClosing is true and no
// subsequent standalone '}' line is expected.
func splitModuleHeader(l sourceLine) (name string, rest string, selfClosing bool, err error) {
	brace := strings.IndexByte(l.text, '{')
	if brace < 0 {
		return "", "", false, &ErrSyntax{Line: l.num, Message: "expected module name followed by '{'"}
	}
	name = strings.TrimSpace(l.text[:brace])
	if !isValidName(name) {
		return "", "", false, &ErrSyntax{Line: l.num, Message: fmt.Sprintf("invalid module name %q", name)}
	}
	rest = strings.TrimSpace(l.text[brace+1:])
	if strings.HasSuffix(rest, "}") {
		selfClosing = true
		rest = strings.TrimSpace(strings.TrimSuffix(rest, "}"))
	}
	return name, rest, selfClosing, nil
}

// parsePlaceList parses a comma-separated `name` or `name(weight)` list. An
// absent weight is left at 0 and resolved by the caller's default (spec.md
// §6: default 1 for transition arcs, 0 for module place declarations).
func parsePlaceList(s string, lineNum int) ([]rawPlace, error) {
	s = strings.TrimSpace(strings.TrimSuffix(s, "}"))
	if s == "" {
		return nil, nil
	}
	var out []rawPlace
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name := part
		weight := uint32(0)
		hasWeight := false
		if open := strings.IndexByte(part, '('); open >= 0 {
			if !strings.HasSuffix(part, ")") {
				return nil, &ErrSyntax{Line: lineNum, Message: fmt.Sprintf("malformed weight in %q", part)}
			}
			name = strings.TrimSpace(part[:open])
			numStr := part[open+1 : len(part)-1]
			n, err := strconv.ParseUint(numStr, 10, 32)
			if err != nil {
				return nil, &ErrSyntax{Line: lineNum, Message: fmt.Sprintf("invalid weight %q in %q", numStr, part)}
			}
			weight = uint32(n)
			hasWeight = true
		}
		if !isValidName(name) {
			return nil, &ErrSyntax{Line: lineNum, Message: fmt.Sprintf("invalid place name %q", name)}
		}
		out = append(out, rawPlace{name: name, weight: weight, hasWeight: hasWeight})
	}
	return out, nil
}

func applyDefault(places []rawPlace, def uint32) []rawPlace {
	out := make([]rawPlace, len(places))
	for i, p := range places {
		if !p.hasWeight {
			p.weight = def
		}
		out[i] = p
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
