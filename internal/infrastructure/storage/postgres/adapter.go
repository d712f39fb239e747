package postgres

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"sieve/internal/domain/filter"
	"sieve/internal/domain/types"
)

// SQLAdapter implements the backend adapter over squirrel SELECT builders.
// The scope threaded through the engine is a squirrel.SelectBuilder; the
// dispatch table is populated once at construction and read-only after.
type SQLAdapter struct {
	registry *filter.Registry
}

// NewSQLAdapter builds the adapter with its full operation table.
func NewSQLAdapter() *SQLAdapter {
	a := &SQLAdapter{registry: filter.NewRegistry()}
	a.registerOperations()
	return a
}

// Name identifies the adapter in configuration-defect errors.
func (a *SQLAdapter) Name() string {
	return "postgres"
}

// BaseScope builds the initial SELECT with PostgreSQL placeholders.
func (a *SQLAdapter) BaseScope(table string, columns []string) filter.Scope {
	return squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select(columns...).
		From(table)
}

// Lookup resolves a canonical type tag and operator to an operation.
func (a *SQLAdapter) Lookup(typeTag string, op filter.Operator) (filter.Operation, bool) {
	return a.registry.Lookup(typeTag, op)
}

func (a *SQLAdapter) registerOperations() {
	r := a.registry

	str := string(types.KindString)
	r.Register(str, filter.OpEq, wrap(stringEq))
	r.Register(str, filter.OpNotEq, wrap(stringNotEq))
	r.Register(str, filter.OpEql, wrap(eq))
	r.Register(str, filter.OpNotEql, wrap(notEq))
	r.Register(str, filter.OpPrefix, wrap(match(func(v string) string { return v + "%" }, false)))
	r.Register(str, filter.OpNotPrefix, wrap(match(func(v string) string { return v + "%" }, true)))
	r.Register(str, filter.OpSuffix, wrap(match(func(v string) string { return "%" + v }, false)))
	r.Register(str, filter.OpNotSuffix, wrap(match(func(v string) string { return "%" + v }, true)))
	r.Register(str, filter.OpLike, wrap(match(func(v string) string { return "%" + v + "%" }, false)))
	r.Register(str, filter.OpNotLike, wrap(match(func(v string) string { return "%" + v + "%" }, true)))

	num := string(types.KindInteger)
	r.Register(num, filter.OpEq, wrap(eq))
	r.Register(num, filter.OpNotEq, wrap(notEq))
	r.Register(num, filter.OpEql, wrap(eq))
	r.Register(num, filter.OpNotEql, wrap(notEq))

	// ordered comparisons: "matches any" semantics across multiple values
	for _, tag := range []string{str, num} {
		r.Register(tag, filter.OpGt, wrap(ordered(func(col string, v any) squirrel.Sqlizer { return squirrel.Gt{col: v} })))
		r.Register(tag, filter.OpGte, wrap(ordered(func(col string, v any) squirrel.Sqlizer { return squirrel.GtOrEq{col: v} })))
		r.Register(tag, filter.OpLt, wrap(ordered(func(col string, v any) squirrel.Sqlizer { return squirrel.Lt{col: v} })))
		r.Register(tag, filter.OpLte, wrap(ordered(func(col string, v any) squirrel.Sqlizer { return squirrel.LtOrEq{col: v} })))
	}

	// numeric and temporal kinds share the integer table
	r.Alias(string(types.KindBigDecimal), num)
	r.Alias(string(types.KindFloat), num)
	r.Alias(string(types.KindDate), num)
	r.Alias(string(types.KindDatetime), num)

	for _, tag := range []string{string(types.KindBoolean), string(types.KindUUID)} {
		r.Register(tag, filter.OpEq, wrap(eq))
		r.Register(tag, filter.OpNotEq, wrap(notEq))
		r.Register(tag, filter.OpEql, wrap(eq))
		r.Register(tag, filter.OpNotEql, wrap(notEq))
	}

	hash := string(types.KindHash)
	r.Register(hash, filter.OpEq, wrap(hashEq(false)))
	r.Register(hash, filter.OpNotEq, wrap(hashEq(true)))
}

// condition builds one squirrel predicate for a column and value.
type condition func(column string, value any) (squirrel.Sqlizer, error)

// wrap adapts a condition into a filter.Operation, asserting the scope
// shape once in a single place.
func wrap(c condition) filter.Operation {
	return func(scope filter.Scope, attribute string, value any) (filter.Scope, error) {
		sb, ok := scope.(squirrel.SelectBuilder)
		if !ok {
			return nil, fmt.Errorf("postgres adapter: unexpected scope %T", scope)
		}
		cond, err := c(attribute, value)
		if err != nil {
			return nil, err
		}
		return sb.Where(cond), nil
	}
}

func eq(column string, value any) (squirrel.Sqlizer, error) {
	return squirrel.Eq{column: value}, nil
}

func notEq(column string, value any) (squirrel.Sqlizer, error) {
	return squirrel.NotEq{column: value}, nil
}

// stringEq is case-insensitive; eql is the case-sensitive variant.
func stringEq(column string, value any) (squirrel.Sqlizer, error) {
	return squirrel.Eq{"LOWER(" + column + ")": lowered(value)}, nil
}

func stringNotEq(column string, value any) (squirrel.Sqlizer, error) {
	return squirrel.NotEq{"LOWER(" + column + ")": lowered(value)}, nil
}

func lowered(value any) any {
	switch v := value.(type) {
	case string:
		return strings.ToLower(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = lowered(e)
		}
		return out
	default:
		return value
	}
}

// match builds ILIKE patterns: any-of across values, all-of when negated.
func match(pattern func(string) string, negate bool) condition {
	return func(column string, value any) (squirrel.Sqlizer, error) {
		var conds []squirrel.Sqlizer
		for _, e := range spread(value) {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("pattern operator needs string values, got %T", e)
			}
			if negate {
				conds = append(conds, squirrel.NotILike{column: pattern(s)})
			} else {
				conds = append(conds, squirrel.ILike{column: pattern(s)})
			}
		}
		return combine(conds, negate), nil
	}
}

// ordered builds a comparison that matches any of the supplied values.
func ordered(build func(column string, v any) squirrel.Sqlizer) condition {
	return func(column string, value any) (squirrel.Sqlizer, error) {
		var conds []squirrel.Sqlizer
		for _, e := range spread(value) {
			conds = append(conds, build(column, e))
		}
		return combine(conds, false), nil
	}
}

// hashEq uses JSONB containment so partial object literals match.
func hashEq(negate bool) condition {
	return func(column string, value any) (squirrel.Sqlizer, error) {
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal hash filter value: %w", err)
		}
		if negate {
			return squirrel.Expr("NOT ("+column+" @> ?)", string(payload)), nil
		}
		return squirrel.Expr(column+" @> ?", string(payload)), nil
	}
}

func spread(value any) []any {
	if seq, ok := value.([]any); ok {
		return seq
	}
	return []any{value}
}

func combine(conds []squirrel.Sqlizer, all bool) squirrel.Sqlizer {
	if len(conds) == 1 {
		return conds[0]
	}
	if all {
		return squirrel.And(conds)
	}
	return squirrel.Or(conds)
}
