// Package types is the canonical type system behind filter coercion.
// Declared filter types (including aliases like "text" or "integer_id")
// reduce to a small set of canonical kinds used for casting and for
// adapter dispatch.
package types

import (
	"fmt"
	"strings"
)

// Kind is the root semantic category a declared type reduces to.
type Kind string

const (
	KindString     Kind = "string"
	KindInteger    Kind = "integer"
	KindBigDecimal Kind = "big_decimal"
	KindFloat      Kind = "float"
	KindBoolean    Kind = "boolean"
	KindDate       Kind = "date"
	KindDatetime   Kind = "datetime"
	KindUUID       Kind = "uuid"
	KindHash       Kind = "hash"
)

// ArrayPrefix marks collection types by name ("array_of_integers").
const ArrayPrefix = "array_of_"

// Type describes one declared filter type.
type Type struct {
	Name    string
	Kind    Kind // element kind for arrays
	IsArray bool
}

// aliases maps declared type names to canonical kinds.
var aliases = map[string]Kind{
	"string":      KindString,
	"text":        KindString,
	"integer":     KindInteger,
	"integer_id":  KindInteger,
	"big_decimal": KindBigDecimal,
	"decimal":     KindBigDecimal,
	"float":       KindFloat,
	"boolean":     KindBoolean,
	"bool":        KindBoolean,
	"date":        KindDate,
	"datetime":    KindDatetime,
	"timestamp":   KindDatetime,
	"uuid":        KindUUID,
	"uuid_id":     KindUUID,
	"hash":        KindHash,
	"json":        KindHash,
}

// plurals maps plural element names used by array types ("array_of_integers").
var plurals = map[string]Kind{
	"strings":      KindString,
	"integers":     KindInteger,
	"big_decimals": KindBigDecimal,
	"decimals":     KindBigDecimal,
	"floats":       KindFloat,
	"dates":        KindDate,
	"datetimes":    KindDatetime,
	"uuids":        KindUUID,
}

// Lookup resolves a declared type name to its Type.
func Lookup(name string) (Type, error) {
	if elem, ok := strings.CutPrefix(name, ArrayPrefix); ok {
		kind, found := plurals[elem]
		if !found {
			if kind, found = aliases[elem]; !found {
				return Type{}, fmt.Errorf("unknown array element type %q", elem)
			}
		}
		return Type{Name: name, Kind: kind, IsArray: true}, nil
	}
	if name == "array" {
		// untyped collection, elements stay as decoded
		return Type{Name: name, Kind: KindString, IsArray: true}, nil
	}
	kind, ok := aliases[name]
	if !ok {
		return Type{}, fmt.Errorf("unknown type %q", name)
	}
	return Type{Name: name, Kind: kind}, nil
}

// MustLookup resolves a type name, panicking on unknown names.
// Use only in resource declarations, which run at startup.
func MustLookup(name string) Type {
	t, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Canonical returns the dispatch tag for a declared type. Arrays dispatch
// through their element kind, so one table entry serves both.
func (t Type) Canonical() string {
	return string(t.Kind)
}

// Ordered reports whether gt/gte/lt/lte comparisons make sense for the kind.
func (k Kind) Ordered() bool {
	switch k {
	case KindString, KindInteger, KindBigDecimal, KindFloat, KindDate, KindDatetime:
		return true
	}
	return false
}

// StringLike reports whether bracketed JSON literals are honored for the
// type. Collections qualify alongside plain strings.
func (t Type) StringLike() bool {
	return t.IsArray || t.Kind == KindString
}
