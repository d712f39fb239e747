package filter

import (
	"sort"
	"strings"

	"sieve/internal/domain/types"
)

// Normalize reshapes a raw request value into an (operator, value) pair.
// Non-mapping values wrap as eq. Mappings honor only their first entry;
// additional operator keys are silently dropped (one operator per
// parameter). Pure, never fails.
func Normalize(def *Definition, raw any) (Operator, any) {
	op, value := splitOperator(raw)

	if def.Type.Kind == types.KindHash && !def.Type.IsArray {
		// hash filters reject explicit operators: anything but eq means the
		// mapping itself is the literal value
		if op != OpEq {
			op = OpEq
			value = wholeMapping(raw)
		}
		if s, ok := value.(string); ok {
			value = collapseBraces(s)
		}
	}

	return op, value
}

func splitOperator(raw any) (Operator, any) {
	switch v := raw.(type) {
	case []OpValue:
		if len(v) == 0 {
			return OpEq, nil
		}
		return v[0].Op, v[0].Value
	case map[string]any:
		if len(v) == 0 {
			return OpEq, nil
		}
		// decoded JSON objects lose wire order; pick the smallest key so
		// repeated requests resolve identically
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return Operator(keys[0]), v[keys[0]]
	default:
		return OpEq, raw
	}
}

// wholeMapping recovers the full original mapping for hash filters.
func wholeMapping(raw any) any {
	switch v := raw.(type) {
	case []OpValue:
		m := make(map[string]any, len(v))
		for _, kv := range v {
			m[string(kv.Op)] = kv.Value
		}
		return m
	default:
		return raw
	}
}

// collapseBraces reduces escaped triple-brace markers to single braces so a
// later object-literal parse recovers the intended syntax.
func collapseBraces(s string) string {
	s = strings.ReplaceAll(s, "{{{", "{")
	return strings.ReplaceAll(s, "}}}", "}")
}
