// ABOUTME: Compiles declarative content queries into parameterized SQLite SQL
// ABOUTME: Filters and projections run over JSON document bodies with json_each/json_extract

package sqlite

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"marketplace-search-api/core/query"
)

// Field names only ever reach SQL inside JSON path literals, so they are
// restricted to identifier characters
var (
	safeNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	maxNameLength   = 64
)

// scalar JSON types considered by matching operators
const matchableTypes = "('text','integer','real')"

func validateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}

	if !safeNamePattern.MatchString(name) {
		return fmt.Errorf("invalid name: %s (only alphanumeric and underscore allowed)", name)
	}

	if len(name) > maxNameLength {
		return fmt.Errorf("name too long: %s (max %d characters)", name, maxNameLength)
	}

	return nil
}

// QueryBuilder compiles one query.Query. Every user-supplied value is bound
// as a parameter; only validated field names are written into the SQL text.
type QueryBuilder struct {
	sql    strings.Builder
	params []interface{}
	alias  int
}

// NewQueryBuilder creates a new query builder instance
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		params: make([]interface{}, 0),
	}
}

// Compile renders q as a single SELECT returning one JSON object per match
func (qb *QueryBuilder) Compile(q query.Query) (string, []interface{}, error) {
	projection, err := qb.projection(q.Projection)
	if err != nil {
		return "", nil, err
	}

	qb.sql.WriteString("SELECT ")
	qb.sql.WriteString(projection)
	qb.sql.WriteString(" FROM documents AS d")

	if q.Filter != nil {
		where, err := qb.expr(q.Filter)
		if err != nil {
			return "", nil, err
		}
		qb.sql.WriteString(" WHERE ")
		qb.sql.WriteString(where)
	}

	qb.sql.WriteString(" ORDER BY d.rowid")
	if q.Limit > 0 {
		qb.sql.WriteString(" LIMIT ?")
		qb.params = append(qb.params, q.Limit)
	}

	return qb.sql.String(), qb.params, nil
}

func (qb *QueryBuilder) next(prefix string) string {
	qb.alias++
	return prefix + strconv.Itoa(qb.alias)
}

func (qb *QueryBuilder) expr(e query.Expr) (string, error) {
	switch x := e.(type) {
	case *query.AndExpr:
		return qb.combine(x.Exprs, " AND ", "1")
	case *query.OrExpr:
		return qb.combine(x.Exprs, " OR ", "0")
	case *query.TypeExpr:
		qb.params = append(qb.params, x.Type)
		return "d.type = ?", nil
	case *query.IDInExpr:
		if len(x.IDs) == 0 {
			return "0", nil
		}
		marks := make([]string, len(x.IDs))
		for i, id := range x.IDs {
			marks[i] = "?"
			qb.params = append(qb.params, id)
		}
		return "d.id IN (" + strings.Join(marks, ", ") + ")", nil
	case *query.EqExpr:
		return qb.match(x.Path, "LOWER(%s) = ?", strings.ToLower(x.Value))
	case *query.ContainsExpr:
		return qb.match(x.Path, `LOWER(%s) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(x.Value))+"%")
	case *query.PrefixExpr:
		return qb.match(x.Path, `LOWER(%s) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(x.Value))+"%")
	}
	return "", fmt.Errorf("unsupported expression %T", e)
}

func (qb *QueryBuilder) combine(exprs []query.Expr, sep, empty string) (string, error) {
	if len(exprs) == 0 {
		return empty, nil
	}
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		s, err := qb.expr(e)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

// cursor tracks where a path walk currently points: a JSON text expression
// and a JSON path into it, or an element of an enclosing json_each
type cursor struct {
	src  string
	path string
	elem string
}

func (c cursor) at(field string) cursor {
	if c.elem != "" {
		return cursor{src: objectOf(c.elem), path: "$." + field}
	}
	return cursor{src: c.src, path: c.path + "." + field}
}

// walk expands the path steps into json_each joins. Array steps fan out;
// the returned cursor points at the last step.
func (qb *QueryBuilder) walk(p query.Path, strictArrays bool) (cursor, []string, []string, error) {
	c := cursor{src: "d.body", path: "$"}
	var from, where []string
	for _, step := range p.Steps {
		if err := validateName(step.Field); err != nil {
			return cursor{}, nil, nil, err
		}
		c = c.at(step.Field)
		if !step.Array {
			continue
		}
		alias := qb.next("j")
		from = append(from, fmt.Sprintf("json_each(%s, '%s') AS %s", c.src, c.path, alias))
		if strictArrays {
			where = append(where, fmt.Sprintf("typeof(%s.key) = 'integer'", alias))
		}
		c = cursor{elem: alias}
	}
	return c, from, where, nil
}

// deref joins the referenced document and returns its alias with the join condition
func (qb *QueryBuilder) deref(c cursor, field string) (string, string, error) {
	if err := validateName(field); err != nil {
		return "", "", err
	}
	ref := c.at("_ref")
	alias := qb.next("r")
	return alias, fmt.Sprintf("%s.id = json_extract(%s, '%s')", alias, ref.src, ref.path), nil
}

// match builds an EXISTS over every scalar candidate at the path
func (qb *QueryBuilder) match(p query.Path, predicate string, value string) (string, error) {
	c, from, where, err := qb.walk(p, false)
	if err != nil {
		return "", err
	}

	var leaf string
	switch {
	case p.Deref != "":
		r, join, err := qb.deref(c, p.Deref)
		if err != nil {
			return "", err
		}
		leaf = qb.next("v")
		from = append(from, "documents AS "+r, fmt.Sprintf("json_each(%s.body, '$.%s') AS %s", r, p.Deref, leaf))
		where = append(where, join)
	case c.elem != "":
		leaf = c.elem
	default:
		leaf = qb.next("v")
		from = append(from, fmt.Sprintf("json_each(%s, '%s') AS %s", c.src, c.path, leaf))
	}

	where = append(where,
		fmt.Sprintf("%s.type IN %s", leaf, matchableTypes),
		fmt.Sprintf("%s.value <> ''", leaf),
		fmt.Sprintf(predicate, leaf+".value"),
	)
	qb.params = append(qb.params, value)

	return "EXISTS (SELECT 1 FROM " + strings.Join(from, ", ") + " WHERE " + strings.Join(where, " AND ") + ")", nil
}

func (qb *QueryBuilder) projection(fields []query.Field) (string, error) {
	parts := make([]string, 0, len(fields)*2)
	for _, f := range fields {
		expr, err := qb.project(f.Path)
		if err != nil {
			return "", fmt.Errorf("field %s: %w", f.Name, err)
		}
		parts = append(parts, quoteString(f.Name), expr)
	}
	return "json_object(" + strings.Join(parts, ", ") + ")", nil
}

// project renders one output value. Correlated subqueries drop the JSON
// subtype of their result, so values crossing one are re-parsed.
func (qb *QueryBuilder) project(p query.Path) (string, error) {
	c, from, where, err := qb.walk(p, true)
	if err != nil {
		return "", err
	}

	var value string
	switch {
	case p.Deref != "":
		r, join, err := qb.deref(c, p.Deref)
		if err != nil {
			return "", err
		}
		value = fmt.Sprintf("json_extract(%s.body, '$.%s')", r, p.Deref)
		from = append(from, "documents AS "+r)
		where = append(where, join)
	case c.elem != "":
		value = elementOf(c.elem)
	default:
		value = fmt.Sprintf("json_extract(%s, '%s')", c.src, c.path)
	}

	if !p.IsMulti() {
		if p.Deref == "" {
			return value, nil
		}
		return fmt.Sprintf("json_extract((SELECT json_object('v', %s) FROM %s WHERE %s), '$.v')",
			value, strings.Join(from, ", "), strings.Join(where, " AND ")), nil
	}

	where = append(where, value+" IS NOT NULL")
	return fmt.Sprintf("json((SELECT json_group_array(%s) FROM %s WHERE %s))",
		value, strings.Join(from, ", "), strings.Join(where, " AND ")), nil
}

func objectOf(alias string) string {
	return fmt.Sprintf("(CASE WHEN %s.type = 'object' THEN %s.value ELSE '{}' END)", alias, alias)
}

func elementOf(alias string) string {
	return fmt.Sprintf("(CASE WHEN %s.type IN ('object','array') THEN json(%s.value) ELSE %s.value END)", alias, alias, alias)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
