// Package filter resolves untyped, string-keyed request parameters into
// validated, typed, operator-tagged operations applied against an opaque
// queryable scope through a pluggable backend adapter.
package filter

import (
	"context"
	"strings"

	"sieve/internal/domain/types"
)

// Operator identifies how a filter value is compared.
type Operator string

const (
	OpEq        Operator = "eq"
	OpNotEq     Operator = "not_eq"
	OpEql       Operator = "eql"
	OpNotEql    Operator = "not_eql"
	OpPrefix    Operator = "prefix"
	OpNotPrefix Operator = "not_prefix"
	OpSuffix    Operator = "suffix"
	OpNotSuffix Operator = "not_suffix"
	OpLike      Operator = "like"
	OpNotLike   Operator = "not_like"
	OpGt        Operator = "gt"
	OpGte       Operator = "gte"
	OpLt        Operator = "lt"
	OpLte       Operator = "lte"
)

// Normalize maps the wire spelling to the canonical operator name:
// a leading "!" is equivalent to the "not_" prefix.
func (op Operator) Normalize() Operator {
	if rest, ok := strings.CutPrefix(string(op), "!"); ok {
		return Operator("not_" + rest)
	}
	return op
}

// Scope is the opaque queryable accumulator. The engine threads it through
// adapter operations and never inspects its contents.
type Scope any

// Custom is a per-filter operator override. Its return value replaces the
// scope; the adapter is never consulted for that operator.
type Custom func(ctx context.Context, scope Scope, value any) (Scope, error)

// Guard gates whether a filter is usable in the current execution context.
// Supplied by resource configuration and evaluated by the outer layer, not
// by the engine.
type Guard func(ctx context.Context) (bool, error)

// Definition declares one filter of a resource. Immutable once declared;
// safe for concurrent use across requests.
type Definition struct {
	Name      string
	Type      types.Type
	Aliases   []string
	Single    bool
	Allow     []any
	Deny      []any
	Required  bool
	DependsOn string
	Operators map[Operator]Custom
	Guard     Guard
}

// Matches reports whether the definition answers to the given parameter
// name, either its own or one of its aliases.
func (d *Definition) Matches(name string) bool {
	if d.Name == name {
		return true
	}
	for _, alias := range d.Aliases {
		if alias == name {
			return true
		}
	}
	return false
}

// OpValue is one operator-to-value entry from the wire. Request parsing
// keeps entries ordered so "the first key" is well defined.
type OpValue struct {
	Op    Operator
	Value any
}

// Param pairs a parameter name (possibly an alias) with a raw value of
// unknown shape: a scalar, a string, or an ordered operator mapping.
type Param struct {
	Name string
	Raw  any
}

// Config is the read-only filter configuration of one resource.
type Config struct {
	Resource    string
	Definitions []*Definition
}

// Lookup resolves a parameter name to its definition, by name or alias.
func (c *Config) Lookup(name string) *Definition {
	for _, def := range c.Definitions {
		if def.Matches(name) {
			return def
		}
	}
	return nil
}

// Operation is one backend scope transformation, keyed by canonical type
// and operator in the adapter's dispatch table.
type Operation func(scope Scope, attribute string, value any) (Scope, error)

// Adapter is the pluggable backend. It owns the query representation and
// the per-type, per-operator scope transformations.
type Adapter interface {
	// Name identifies the adapter in configuration-defect errors.
	Name() string

	// BaseScope builds the initial scope for a table/column set.
	BaseScope(table string, columns []string) Scope

	// Lookup resolves a canonical type tag and normalized operator to an
	// operation. A miss is a configuration defect, not a user error.
	Lookup(typeTag string, op Operator) (Operation, bool)
}

// Caster casts raw literals to typed values. Implemented by the types
// package; pluggable for tests.
type Caster interface {
	Cast(attribute string, t types.Type, value any) (any, error)
}
