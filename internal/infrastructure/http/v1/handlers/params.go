package handlers

import (
	"net/url"
	"strings"

	"sieve/internal/core/apperror"
	"sieve/internal/domain/filter"
)

// parseFilterParams extracts filter[...] query parameters preserving their
// wire order, so "the first operator key" stays well defined downstream.
// Supported forms:
//
//	filter[name]=value          plain value, later duplicates override
//	filter[name][op]=value      operator entry, appended in order
func parseFilterParams(rawQuery string) ([]filter.Param, error) {
	var params []filter.Param
	index := make(map[string]int)

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(key)
		if err != nil {
			return nil, apperror.NewValidation("malformed query parameter").WithDetail("parameter", pair)
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, apperror.NewValidation("malformed query parameter").WithDetail("parameter", pair)
		}

		name, op, ok := parseFilterKey(key)
		if !ok {
			continue
		}

		if op == "" {
			if i, seen := index[name]; seen {
				params[i].Raw = value
				continue
			}
			index[name] = len(params)
			params = append(params, filter.Param{Name: name, Raw: value})
			continue
		}

		entry := filter.OpValue{Op: filter.Operator(op), Value: value}
		if i, seen := index[name]; seen {
			if ops, isOps := params[i].Raw.([]filter.OpValue); isOps {
				params[i].Raw = append(ops, entry)
			} else {
				params[i].Raw = []filter.OpValue{entry}
			}
			continue
		}
		index[name] = len(params)
		params = append(params, filter.Param{Name: name, Raw: []filter.OpValue{entry}})
	}

	return params, nil
}

// parseFilterKey splits "filter[name]" or "filter[name][op]". Returns
// ok=false for keys outside the filter namespace.
func parseFilterKey(key string) (name, op string, ok bool) {
	rest, found := strings.CutPrefix(key, "filter[")
	if !found {
		return "", "", false
	}

	close := strings.IndexByte(rest, ']')
	if close < 0 {
		return "", "", false
	}
	name = rest[:close]
	rest = rest[close+1:]

	if rest == "" {
		return name, "", name != ""
	}
	if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]") {
		return name, rest[1 : len(rest)-1], name != ""
	}
	return "", "", false
}
