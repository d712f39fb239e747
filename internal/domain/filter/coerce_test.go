package filter

import (
	"errors"
	"reflect"
	"testing"

	"sieve/internal/core/apperror"
	"sieve/internal/domain/types"
)

func TestCoerce_ScalarTypeCastsElementWise(t *testing.T) {
	caster := &mockCaster{}
	d := def("age", "integer")

	resolved, err := Coerce("employees", d, caster, OpEq, SequenceValue([]any{"1", "2"}))
	if err != nil {
		t.Fatalf("Coerce failed: %v", err)
	}
	if resolved.Whole {
		t.Error("scalar type must not coerce as a whole unit")
	}
	if !reflect.DeepEqual(resolved.Values, []any{"1", "2"}) {
		t.Errorf("values mismatch: %v", resolved.Values)
	}
	if len(caster.calls) != 2 {
		t.Errorf("expected one cast per element, got %d", len(caster.calls))
	}
}

func TestCoerce_ArrayTypeCastsWholeUnit(t *testing.T) {
	caster := &mockCaster{}
	d := def("ids", "array_of_integers")

	resolved, err := Coerce("employees", d, caster, OpEq, SequenceValue([]any{"1", "2"}))
	if err != nil {
		t.Fatalf("Coerce failed: %v", err)
	}
	if !resolved.Whole {
		t.Error("array type must coerce as a whole unit")
	}
	if len(caster.calls) != 1 {
		t.Errorf("expected a single cast of the unit, got %d", len(caster.calls))
	}
	// the unit unrolls for allow/deny checks
	if !reflect.DeepEqual(resolved.Each(), []any{"1", "2"}) {
		t.Errorf("Each mismatch: %v", resolved.Each())
	}
}

func TestCoerce_CastFailureWrapsAttribute(t *testing.T) {
	failing := &failingCaster{err: errors.New("not a number")}
	d := def("age", "integer")

	_, err := Coerce("employees", d, failing, OpEq, ScalarValue("abc"))
	if !apperror.HasCode(err, apperror.CodeCoercionFailed) {
		t.Fatalf("expected %s, got %v", apperror.CodeCoercionFailed, err)
	}
	appErr, _ := apperror.AsAppError(err)
	if appErr.Details["filter"] != "age" || appErr.Details["value"] != "abc" {
		t.Errorf("details must name the attribute and literal: %v", appErr.Details)
	}
}

func TestResolved_Final(t *testing.T) {
	tests := []struct {
		name     string
		resolved Resolved
		single   bool
		want     any
	}{
		{
			name:     "MultiElement",
			resolved: Resolved{Values: []any{"a", "b"}},
			want:     []any{"a", "b"},
		},
		{
			name:     "OneElementUnwraps",
			resolved: Resolved{Values: []any{"a"}},
			want:     "a",
		},
		{
			name:     "SingleFilterUnwraps",
			resolved: Resolved{Values: []any{"a"}},
			single:   true,
			want:     "a",
		},
		{
			name:     "WholeUnitPassesThrough",
			resolved: Resolved{Whole: true, Values: []any{[]any{"a", "b"}}},
			want:     []any{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.resolved.Final(tt.single)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Final mismatch\nwant: %#v\ngot:  %#v", tt.want, got)
			}
		})
	}
}

type failingCaster struct {
	err error
}

func (c *failingCaster) Cast(attribute string, t types.Type, value any) (any, error) {
	return nil, c.err
}
