package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Date layouts accepted by the date/datetime kinds.
const (
	dateLayout         = "2006-01-02"
	datetimeSQLLayout  = "2006-01-02 15:04:05"
	datetimeBareLayout = "2006-01-02T15:04:05"
)

// Caster casts raw filter literals into typed values.
// The zero value is ready to use.
type Caster struct{}

// Cast converts value to the given declared type. Array types receive the
// whole value as one unit: scalars promote to a one-element collection and
// every element is cast to the element kind.
func (c Caster) Cast(attribute string, t Type, value any) (any, error) {
	if t.IsArray {
		elems := asSlice(value)
		out := make([]any, 0, len(elems))
		for _, e := range elems {
			cast, err := castScalar(t.Kind, e)
			if err != nil {
				return nil, fmt.Errorf("cast %s: %w", attribute, err)
			}
			out = append(out, cast)
		}
		return out, nil
	}

	cast, err := castScalar(t.Kind, value)
	if err != nil {
		return nil, fmt.Errorf("cast %s: %w", attribute, err)
	}
	return cast, nil
}

// asSlice promotes a scalar to a one-element slice, standard array conversion.
func asSlice(value any) []any {
	switch v := value.(type) {
	case nil:
		return []any{nil}
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

func castScalar(kind Kind, value any) (any, error) {
	// nil stays nil: adapters translate it to IS NULL / IS NOT NULL
	if value == nil {
		return nil, nil
	}

	switch kind {
	case KindString:
		return castString(value), nil
	case KindInteger:
		return castInteger(value)
	case KindBigDecimal:
		return castDecimal(value)
	case KindFloat:
		return castFloat(value)
	case KindBoolean:
		return castBoolean(value)
	case KindDate:
		return castTime(value, dateLayout)
	case KindDatetime:
		return castTime(value, time.RFC3339, datetimeSQLLayout, datetimeBareLayout, dateLayout)
	case KindUUID:
		return castUUID(value)
	case KindHash:
		return castHash(value)
	}
	return nil, fmt.Errorf("unsupported kind %q", kind)
}

func castString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func castInteger(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%v (%T) is not an integer", value, value)
}

func castDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%q is not a decimal", v)
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("%v (%T) is not a decimal", value, value)
}

func castFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a float", v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%v (%T) is not a float", value, value)
}

func castBoolean(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "t", "1":
			return true, nil
		case "false", "f", "0":
			return false, nil
		}
		return false, fmt.Errorf("%q is not a boolean", v)
	case json.Number:
		return v.String() == "1", nil
	}
	return false, fmt.Errorf("%v (%T) is not a boolean", value, value)
}

func castTime(value any, layouts ...string) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("%q is not a valid time", v)
	}
	return time.Time{}, fmt.Errorf("%v (%T) is not a valid time", value, value)
}

func castUUID(value any) (uuid.UUID, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		u, err := uuid.Parse(strings.TrimSpace(v))
		if err != nil {
			return uuid.Nil, fmt.Errorf("%q is not a uuid", v)
		}
		return u, nil
	}
	return uuid.Nil, fmt.Errorf("%v (%T) is not a uuid", value, value)
}

func castHash(value any) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case string:
		// inline object syntax recovered by the normalizer
		decoder := json.NewDecoder(bytes.NewReader([]byte(v)))
		decoder.UseNumber()
		var out map[string]any
		if err := decoder.Decode(&out); err != nil {
			return nil, fmt.Errorf("%q is not an object literal", v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%v (%T) is not an object", value, value)
}
