package filter

import (
	"testing"
)

func TestRegistry_Alias(t *testing.T) {
	r := NewRegistry()
	r.Register("integer", OpGt, func(scope Scope, attribute string, value any) (Scope, error) {
		return scope, nil
	})
	r.Alias("date", "integer")

	if _, ok := r.Lookup("date", OpGt); !ok {
		t.Error("aliased tag must resolve the source's operations")
	}
	if _, ok := r.Lookup("date", OpEq); ok {
		t.Error("alias must not invent operations the source lacks")
	}
}

func TestOperationKey(t *testing.T) {
	if got := OperationKey("string", OpNotEq); got != "filter_string_not_eq" {
		t.Errorf("unexpected operation key %q", got)
	}
}
