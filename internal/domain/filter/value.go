package filter

// ValueKind tags the shape a raw value resolved to.
type ValueKind int

const (
	// KindScalar is a single untyped token.
	KindScalar ValueKind = iota
	// KindSequence is an ordered run of tokens.
	KindSequence
	// KindStructured is an operator-free object literal (hash filters).
	KindStructured
	// KindRawLiteral is a decoded bracket literal, exempt from splitting.
	KindRawLiteral
)

// Value is the tagged variant every stage after normalization matches on.
type Value struct {
	Kind       ValueKind
	Scalar     any
	Seq        []any
	Structured map[string]any
	Literal    any
}

// ScalarValue wraps a single token.
func ScalarValue(v any) Value {
	return Value{Kind: KindScalar, Scalar: v}
}

// SequenceValue wraps an ordered token run.
func SequenceValue(vs []any) Value {
	return Value{Kind: KindSequence, Seq: vs}
}

// StructuredValue wraps an object literal.
func StructuredValue(m map[string]any) Value {
	return Value{Kind: KindStructured, Structured: m}
}

// RawLiteralValue wraps a decoded bracket literal.
func RawLiteralValue(v any) Value {
	return Value{Kind: KindRawLiteral, Literal: v}
}

// Unit returns the value as the single unit handed to array-typed casts.
func (v Value) Unit() any {
	switch v.Kind {
	case KindScalar:
		return v.Scalar
	case KindSequence:
		return v.Seq
	case KindStructured:
		return v.Structured
	default:
		return v.Literal
	}
}

// Elements flattens the value into the individual items scalar-typed casts
// iterate. Maps and nil become one-element sequences.
func (v Value) Elements() []any {
	switch v.Kind {
	case KindScalar:
		return []any{v.Scalar}
	case KindSequence:
		return v.Seq
	case KindStructured:
		return []any{v.Structured}
	default:
		if seq, ok := v.Literal.([]any); ok {
			return seq
		}
		return []any{v.Literal}
	}
}

// Plural reports whether the value carries more than one element. Used by
// the singularity check before coercion runs.
func (v Value) Plural() bool {
	switch v.Kind {
	case KindSequence:
		return len(v.Seq) > 1
	case KindRawLiteral:
		if seq, ok := v.Literal.([]any); ok {
			return len(seq) > 1
		}
	}
	return false
}
