// Package resource holds the read-only configuration of queryable
// resources: which filters exist, their declared types, aliases, guards
// and validation sets. The filter engine treats it as input and never
// mutates it.
package resource

import (
	"context"
	"fmt"

	appctx "sieve/internal/core/context"
	"sieve/internal/core/guard"
	"sieve/internal/domain/filter"
	"sieve/internal/domain/types"
)

// Resource describes one queryable resource. Immutable after declaration;
// safe for concurrent use across simultaneous requests.
type Resource struct {
	Name        string
	Table       string
	Columns     []string
	DefaultSort string
	MaxPageSize int

	cfg *filter.Config
}

// Option customizes a resource declaration.
type Option func(*Resource)

// WithDefaultSort sets the order applied when the request names none.
func WithDefaultSort(orderBy string) Option {
	return func(r *Resource) { r.DefaultSort = orderBy }
}

// WithMaxPageSize caps the page size a request may ask for.
func WithMaxPageSize(n int) Option {
	return func(r *Resource) { r.MaxPageSize = n }
}

// New declares a resource over a table and its selectable columns.
func New(name, table string, columns []string, opts ...Option) *Resource {
	r := &Resource{
		Name:        name,
		Table:       table,
		Columns:     columns,
		DefaultSort: "id",
		MaxPageSize: 100,
		cfg:         &filter.Config{Resource: name},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Filters exposes the resource's filter configuration to the engine.
func (r *Resource) Filters() *filter.Config {
	return r.cfg
}

// FilterOption customizes a filter declaration.
type FilterOption func(*filter.Definition)

// Filter declares a filter with the given declared type name. Panics on an
// unknown type or duplicate name: declarations run at startup and a bad
// one is a programming error.
func (r *Resource) Filter(name, typeName string, opts ...FilterOption) *Resource {
	if r.cfg.Lookup(name) != nil {
		panic(fmt.Sprintf("resource %s: filter %q already declared", r.Name, name))
	}
	def := &filter.Definition{
		Name: name,
		Type: types.MustLookup(typeName),
	}
	for _, opt := range opts {
		opt(def)
	}
	r.cfg.Definitions = append(r.cfg.Definitions, def)
	return r
}

// Aliases registers alternate parameter names for the filter.
func Aliases(names ...string) FilterOption {
	return func(d *filter.Definition) { d.Aliases = append(d.Aliases, names...) }
}

// Single restricts the filter to exactly one value.
func Single() FilterOption {
	return func(d *filter.Definition) { d.Single = true }
}

// Allow declares the allow-set checked against every coerced element.
func Allow(vs ...any) FilterOption {
	return func(d *filter.Definition) { d.Allow = append(d.Allow, vs...) }
}

// Deny declares the deny-set checked against every coerced element.
func Deny(vs ...any) FilterOption {
	return func(d *filter.Definition) { d.Deny = append(d.Deny, vs...) }
}

// Required makes the filter mandatory on every request.
func Required() FilterOption {
	return func(d *filter.Definition) { d.Required = true }
}

// DependsOn requires another filter to be present whenever this one is.
func DependsOn(name string) FilterOption {
	return func(d *filter.Definition) { d.DependsOn = name }
}

// WithOperator attaches a custom callable for one operator. It takes
// precedence over the adapter for exactly that operator.
func WithOperator(op filter.Operator, fn filter.Custom) FilterOption {
	return func(d *filter.Definition) {
		if d.Operators == nil {
			d.Operators = make(map[filter.Operator]filter.Custom)
		}
		d.Operators[op] = fn
	}
}

// Guarded gates the filter behind a compiled predicate over the caller's
// identity. Evaluated by the HTTP layer, not the engine.
func Guarded(pred guard.Predicate) FilterOption {
	return func(d *filter.Definition) {
		d.Guard = func(ctx context.Context) (bool, error) {
			return pred(appctx.GuardInputs(ctx))
		}
	}
}

// GuardedExpr is Guarded with an inline CEL expression.
func GuardedExpr(expr string) FilterOption {
	return Guarded(guard.MustCompile(expr))
}
