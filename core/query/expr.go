package query

import (
	"strconv"
	"strings"
)

// Expr is a filter expression evaluated against one document
type Expr interface {
	// Eval reports whether the document satisfies the expression
	Eval(doc Document, resolve Resolver) bool

	// String renders the expression for logs and cache keys
	String() string
}

// AndExpr is satisfied when every operand is
type AndExpr struct{ Exprs []Expr }

// OrExpr is satisfied when any operand is
type OrExpr struct{ Exprs []Expr }

// TypeExpr matches the document type
type TypeExpr struct{ Type string }

// IDInExpr matches documents whose id is in the set
type IDInExpr struct{ IDs []string }

// EqExpr is case-insensitive equality against any value at the path
type EqExpr struct {
	Path  Path
	Value string
}

// ContainsExpr is case-insensitive substring matching against any value at the path
type ContainsExpr struct {
	Path  Path
	Value string
}

// PrefixExpr is case-insensitive prefix matching against any value at the path
type PrefixExpr struct {
	Path  Path
	Value string
}

// And combines expressions, flattening nested ANDs and dropping nils
func And(exprs ...Expr) Expr {
	out := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		switch x := e.(type) {
		case nil:
		case *AndExpr:
			out = append(out, x.Exprs...)
		default:
			out = append(out, e)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return &AndExpr{Exprs: out}
}

// Or combines expressions, flattening nested ORs and dropping nils
func Or(exprs ...Expr) Expr {
	out := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		switch x := e.(type) {
		case nil:
		case *OrExpr:
			out = append(out, x.Exprs...)
		default:
			out = append(out, e)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return &OrExpr{Exprs: out}
}

// TypeIs matches documents of the given type
func TypeIs(t string) Expr { return &TypeExpr{Type: t} }

// IDIn matches documents by id
func IDIn(ids ...string) Expr { return &IDInExpr{IDs: ids} }

// Eq matches when any value at the path equals v, ignoring case
func Eq(p Path, v string) Expr { return &EqExpr{Path: p, Value: v} }

// Contains matches when any value at the path contains v, ignoring case
func Contains(p Path, v string) Expr { return &ContainsExpr{Path: p, Value: v} }

// HasPrefix matches when any value at the path starts with v, ignoring case
func HasPrefix(p Path, v string) Expr { return &PrefixExpr{Path: p, Value: v} }

func (e *AndExpr) Eval(doc Document, r Resolver) bool {
	for _, x := range e.Exprs {
		if !x.Eval(doc, r) {
			return false
		}
	}
	return true
}

func (e *AndExpr) String() string { return join(e.Exprs, " && ") }

func (e *OrExpr) Eval(doc Document, r Resolver) bool {
	for _, x := range e.Exprs {
		if x.Eval(doc, r) {
			return true
		}
	}
	return false
}

func (e *OrExpr) String() string { return join(e.Exprs, " || ") }

func (e *TypeExpr) Eval(doc Document, _ Resolver) bool { return doc.Type() == e.Type }

func (e *TypeExpr) String() string { return "_type == " + strconv.Quote(e.Type) }

func (e *IDInExpr) Eval(doc Document, _ Resolver) bool {
	id := doc.ID()
	for _, x := range e.IDs {
		if x == id {
			return true
		}
	}
	return false
}

func (e *IDInExpr) String() string {
	quoted := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		quoted[i] = strconv.Quote(id)
	}
	return "_id in [" + strings.Join(quoted, ", ") + "]"
}

func (e *EqExpr) Eval(doc Document, r Resolver) bool {
	return anyValue(doc, e.Path, r, func(s string) bool { return strings.EqualFold(s, e.Value) })
}

func (e *EqExpr) String() string { return e.Path.String() + " == " + strconv.Quote(e.Value) }

func (e *ContainsExpr) Eval(doc Document, r Resolver) bool {
	needle := strings.ToLower(e.Value)
	return anyValue(doc, e.Path, r, func(s string) bool { return strings.Contains(strings.ToLower(s), needle) })
}

func (e *ContainsExpr) String() string {
	return e.Path.String() + " match " + strconv.Quote("*"+e.Value+"*")
}

func (e *PrefixExpr) Eval(doc Document, r Resolver) bool {
	needle := strings.ToLower(e.Value)
	return anyValue(doc, e.Path, r, func(s string) bool { return strings.HasPrefix(strings.ToLower(s), needle) })
}

func (e *PrefixExpr) String() string {
	return e.Path.String() + " match " + strconv.Quote(e.Value+"*")
}

func anyValue(doc Document, p Path, r Resolver, pred func(string) bool) bool {
	for _, v := range Values(doc, p, r) {
		s := Text(v)
		if s != "" && pred(s) {
			return true
		}
	}
	return false
}

func join(exprs []Expr, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// Field is a named projection entry
type Field struct {
	Name string
	Path Path
}

// Query is a single content-store request for one entity type
type Query struct {
	Type       string
	Filter     Expr
	Projection []Field
	Limit      int
}

// String renders the query in a GROQ-like form
func (q Query) String() string {
	var b strings.Builder
	b.WriteString("*[")
	if q.Filter != nil {
		b.WriteString(q.Filter.String())
	}
	b.WriteString("]{")
	for i, f := range q.Projection {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(f.Name))
		b.WriteString(": ")
		b.WriteString(f.Path.String())
	}
	b.WriteString("}")
	if q.Limit > 0 {
		b.WriteString("[0..")
		b.WriteString(strconv.Itoa(q.Limit - 1))
		b.WriteString("]")
	}
	return b.String()
}
