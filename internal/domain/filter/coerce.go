package filter

import (
	"sieve/internal/core/apperror"
)

// Resolved is a coerced filter value tagged with its originating attribute
// and operator.
type Resolved struct {
	Attribute string
	Operator  Operator

	// Whole marks array-typed filters: Values holds one coerced unit and
	// the type system already decided scalar promotion.
	Whole  bool
	Values []any
}

// Final yields the value handed to the dispatcher. Single filters unwrap
// to their only element; array-typed filters pass their unit through.
func (r Resolved) Final(single bool) any {
	// an all-empty wire value tokenizes to nothing
	if len(r.Values) == 0 {
		return nil
	}
	if r.Whole || single {
		return r.Values[0]
	}
	if len(r.Values) == 1 {
		return r.Values[0]
	}
	return r.Values
}

// Each exposes the individual coerced elements for allow/deny checks.
// An array-typed unit unrolls into its members.
func (r Resolved) Each() []any {
	if r.Whole {
		if seq, ok := r.Values[0].([]any); ok {
			return seq
		}
	}
	return r.Values
}

// Coerce casts a tokenized value to the filter's declared type. Array
// types receive the whole value as one unit; scalar types normalize to a
// sequence first and cast element-wise.
func Coerce(resource string, def *Definition, caster Caster, op Operator, v Value) (Resolved, error) {
	resolved := Resolved{Attribute: def.Name, Operator: op}

	if def.Type.IsArray {
		unit := v.Unit()
		cast, err := caster.Cast(def.Name, def.Type, unit)
		if err != nil {
			return Resolved{}, apperror.NewCoercionFailed(resource, def.Name, unit, err)
		}
		resolved.Whole = true
		resolved.Values = []any{cast}
		return resolved, nil
	}

	elems := v.Elements()
	resolved.Values = make([]any, 0, len(elems))
	for _, elem := range elems {
		cast, err := caster.Cast(def.Name, def.Type, elem)
		if err != nil {
			return Resolved{}, apperror.NewCoercionFailed(resource, def.Name, elem, err)
		}
		resolved.Values = append(resolved.Values, cast)
	}
	return resolved, nil
}
