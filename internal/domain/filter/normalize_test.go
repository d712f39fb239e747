package filter

import (
	"reflect"
	"testing"

	"sieve/internal/domain/types"
)

func TestNormalize_ScalarWrapsAsEq(t *testing.T) {
	def := &Definition{Name: "name", Type: types.MustLookup("string")}

	op, value := Normalize(def, "Jane")
	if op != OpEq || value != "Jane" {
		t.Errorf("want (eq, Jane), got (%s, %v)", op, value)
	}
}

func TestNormalize_FirstOperatorWins(t *testing.T) {
	def := &Definition{Name: "age", Type: types.MustLookup("integer")}

	op, value := Normalize(def, []OpValue{
		{Op: OpGt, Value: "30"},
		{Op: OpLt, Value: "50"},
	})
	if op != OpGt || value != "30" {
		t.Errorf("want (gt, 30), got (%s, %v)", op, value)
	}
}

func TestNormalize_DecodedMappingPicksSmallestKey(t *testing.T) {
	def := &Definition{Name: "age", Type: types.MustLookup("integer")}

	// decoded JSON objects lose wire order; resolution must still be
	// deterministic across repeated requests
	op, value := Normalize(def, map[string]any{"lt": "50", "gt": "30"})
	if op != OpGt || value != "30" {
		t.Errorf("want (gt, 30), got (%s, %v)", op, value)
	}
}

func TestNormalize_HashRejectsExplicitOperators(t *testing.T) {
	def := &Definition{Name: "settings", Type: types.MustLookup("hash")}

	// a mapping whose first key is not an operator is the literal value
	raw := map[string]any{"theme": "dark"}
	op, value := Normalize(def, raw)
	if op != OpEq {
		t.Errorf("want eq, got %s", op)
	}
	if !reflect.DeepEqual(value, raw) {
		t.Errorf("want whole mapping back, got %v", value)
	}
}

func TestNormalize_HashCollapsesTripleBraces(t *testing.T) {
	def := &Definition{Name: "settings", Type: types.MustLookup("hash")}

	op, value := Normalize(def, `{{{"a":1}}}`)
	if op != OpEq {
		t.Errorf("want eq, got %s", op)
	}
	if value != `{"a":1}` {
		t.Errorf("want collapsed braces, got %v", value)
	}
}

func TestOperator_Normalize(t *testing.T) {
	if Operator("!eq").Normalize() != OpNotEq {
		t.Error("!eq must normalize to not_eq")
	}
	if Operator("!prefix").Normalize() != OpNotPrefix {
		t.Error("!prefix must normalize to not_prefix")
	}
	if OpEq.Normalize() != OpEq {
		t.Error("eq must stay eq")
	}
	if OpNotEq.Normalize() != OpNotEq {
		t.Error("not_eq must stay not_eq")
	}
}
