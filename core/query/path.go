package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Step is one field access in a path
type Step struct {
	Field string
	Array bool
}

// Path addresses a value inside a document, optionally through one reference
type Path struct {
	Steps []Step
	Deref string
	raw   string
}

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParsePath parses the path syntax described in the package documentation
func ParsePath(s string) (Path, error) {
	p := Path{raw: s}
	body := s
	if i := strings.Index(s, "->"); i >= 0 {
		body = s[:i]
		p.Deref = s[i+2:]
		if !fieldPattern.MatchString(p.Deref) {
			return Path{}, fmt.Errorf("invalid dereference field %q in path %q", p.Deref, s)
		}
	}
	if body == "" {
		return Path{}, fmt.Errorf("empty path %q", s)
	}
	for _, part := range strings.Split(body, ".") {
		step := Step{Field: part}
		if strings.HasSuffix(part, "[]") {
			step.Field = strings.TrimSuffix(part, "[]")
			step.Array = true
		}
		if !fieldPattern.MatchString(step.Field) {
			return Path{}, fmt.Errorf("invalid field %q in path %q", part, s)
		}
		p.Steps = append(p.Steps, step)
	}
	return p, nil
}

// MustPath is ParsePath for static field tables
func MustPath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the path in its source syntax
func (p Path) String() string {
	if p.raw != "" {
		return p.raw
	}
	parts := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		parts[i] = s.Field
		if s.Array {
			parts[i] += "[]"
		}
	}
	out := strings.Join(parts, ".")
	if p.Deref != "" {
		out += "->" + p.Deref
	}
	return out
}

// IsMulti reports whether the path fans out over an array step
func (p Path) IsMulti() bool {
	for _, s := range p.Steps {
		if s.Array {
			return true
		}
	}
	return false
}

// ArraySteps counts the array steps in the path
func (p Path) ArraySteps() int {
	n := 0
	for _, s := range p.Steps {
		if s.Array {
			n++
		}
	}
	return n
}
