package filter

import (
	"context"
	"fmt"

	"sieve/internal/core/apperror"
)

// Registry is the two-level dispatch table: canonical type tag to operator
// to operation. Populated at adapter construction, read-only afterwards.
type Registry struct {
	ops map[string]map[Operator]Operation
}

// NewRegistry creates an empty dispatch table.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]map[Operator]Operation)}
}

// Register installs an operation for the type tag and operator.
func (r *Registry) Register(typeTag string, op Operator, fn Operation) {
	table, ok := r.ops[typeTag]
	if !ok {
		table = make(map[Operator]Operation)
		r.ops[typeTag] = table
	}
	table[op] = fn
}

// Alias shares every operation of src with dst. Lets several canonical
// types reuse one implementation without name-based duplication.
func (r *Registry) Alias(dst, src string) {
	for op, fn := range r.ops[src] {
		r.Register(dst, op, fn)
	}
}

// Lookup resolves a type tag and operator to an operation.
func (r *Registry) Lookup(typeTag string, op Operator) (Operation, bool) {
	fn, ok := r.ops[typeTag][op]
	return fn, ok
}

// OperationKey renders the wire name of a dispatch entry, used in
// configuration-defect errors.
func OperationKey(typeTag string, op Operator) string {
	return fmt.Sprintf("filter_%s_%s", typeTag, op)
}

// Dispatch resolves the operator to a backend operation and applies it.
// A custom callable declared for exactly this operator wins and the
// adapter is never consulted. A missing adapter entry is a configuration
// defect, never a user-input error.
func Dispatch(ctx context.Context, adapter Adapter, def *Definition, op Operator, value any, scope Scope) (Scope, error) {
	if custom, ok := def.Operators[op]; ok {
		return custom(ctx, scope, value)
	}

	normalized := op.Normalize()
	tag := def.Type.Canonical()
	operation, ok := adapter.Lookup(tag, normalized)
	if !ok {
		return nil, apperror.NewAdapterNotImplemented(adapter.Name(), def.Name, OperationKey(tag, normalized))
	}
	return operation(scope, def.Name, value)
}
