package filter

import (
	"fmt"

	"sieve/internal/core/apperror"
)

// CheckSingular rejects multi-element values on scalar-only filters. Runs
// on the pre-coercion tokenized value so coercion never sees the input.
func CheckSingular(resource string, def *Definition, v Value) error {
	if def.Single && v.Plural() {
		return apperror.NewSingularViolation(resource, def.Name)
	}
	return nil
}

// CheckAllowDeny verifies every individual coerced element against the
// declared allow-set and deny-set. Reports the first offending element.
func CheckAllowDeny(resource string, def *Definition, r Resolved) error {
	if len(def.Allow) == 0 && len(def.Deny) == 0 {
		return nil
	}

	allow := valueSet(def.Allow)
	deny := valueSet(def.Deny)

	for _, elem := range r.Each() {
		key := valueKey(elem)
		if len(allow) > 0 {
			if _, ok := allow[key]; !ok {
				return apperror.NewInvalidFilterValue(resource, def.Name, elem)
			}
		}
		if _, ok := deny[key]; ok {
			return apperror.NewInvalidFilterValue(resource, def.Name, elem)
		}
	}
	return nil
}

// CheckBatched runs the two request-wide checks: required filters first,
// then dependent filters. Each aggregates across every declared filter
// before raising.
func CheckBatched(cfg *Config, params []Param) error {
	present := make(map[string]bool, len(params))
	for _, p := range params {
		if def := cfg.Lookup(p.Name); def != nil {
			present[def.Name] = true
		}
	}

	var missing []string
	for _, def := range cfg.Definitions {
		if def.Required && !present[def.Name] {
			missing = append(missing, def.Name)
		}
	}
	if len(missing) > 0 {
		return apperror.NewRequiredFilterMissing(cfg.Resource, missing)
	}

	var unmet []string
	for _, def := range cfg.Definitions {
		if def.DependsOn == "" || !present[def.Name] {
			continue
		}
		if !present[def.DependsOn] {
			unmet = append(unmet, def.Name)
		}
	}
	if len(unmet) > 0 {
		return apperror.NewDependentFilterMissing(cfg.Resource, unmet)
	}

	return nil
}

// valueKey renders a value into a comparable form. Allow/deny sets are
// declared with plain Go literals while coerced elements carry typed
// values, so comparison goes through a stable string rendering.
func valueKey(v any) string {
	return fmt.Sprintf("%v", v)
}

func valueSet(vs []any) map[string]struct{} {
	if len(vs) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		set[valueKey(v)] = struct{}{}
	}
	return set
}
