package page

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// SelectorEnv is the environment selector expressions evaluate against.
//
//	tag == "a" && "footnote-ref" in classes && attrs["href"] startsWith "#fn"
type SelectorEnv struct {
	Tag     string            `expr:"tag"`
	ID      string            `expr:"id"`
	Classes []string          `expr:"classes"`
	Attrs   map[string]string `expr:"attrs"`
	Text    string            `expr:"text"`
}

// Selector is a compiled element predicate. The nil selector matches nothing.
type Selector struct {
	source  string
	program *vm.Program
}

// CompileSelector compiles an expr-lang boolean expression. An empty
// source yields a selector that matches nothing.
func CompileSelector(source string) (*Selector, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return &Selector{}, nil
	}

	program, err := expr.Compile(source,
		expr.Env(SelectorEnv{}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile selector %q: %w", source, err)
	}
	return &Selector{source: source, program: program}, nil
}

// MustCompileSelector is CompileSelector for static selectors.
func MustCompileSelector(source string) *Selector {
	s, err := CompileSelector(source)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the selector source.
func (s *Selector) String() string {
	if s == nil {
		return ""
	}
	return s.source
}

// Match evaluates the selector against e. Evaluation errors count as no match.
func (s *Selector) Match(e *Element) bool {
	if s == nil || s.program == nil || e == nil {
		return false
	}

	env := SelectorEnv{
		Tag:     e.Tag,
		ID:      e.ID,
		Classes: e.classes,
		Attrs:   e.attrs,
		Text:    e.Text,
	}
	if env.Attrs == nil {
		env.Attrs = map[string]string{}
	}

	out, err := expr.Run(s.program, env)
	if err != nil {
		return false
	}
	matched, _ := out.(bool)
	return matched
}
