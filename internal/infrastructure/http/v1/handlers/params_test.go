package handlers

import (
	"reflect"
	"testing"

	"sieve/internal/domain/filter"
)

func TestParseFilterParams(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     []filter.Param
	}{
		{
			name:     "PlainValue",
			rawQuery: "filter[name]=Jane",
			want:     []filter.Param{{Name: "name", Raw: "Jane"}},
		},
		{
			name:     "EscapedBrackets",
			rawQuery: "filter%5Bname%5D=Jane%20Doe",
			want:     []filter.Param{{Name: "name", Raw: "Jane Doe"}},
		},
		{
			name:     "OrderPreserved",
			rawQuery: "filter[b]=2&filter[a]=1",
			want: []filter.Param{
				{Name: "b", Raw: "2"},
				{Name: "a", Raw: "1"},
			},
		},
		{
			name:     "OperatorForm",
			rawQuery: "filter[age][gt]=30",
			want: []filter.Param{
				{Name: "age", Raw: []filter.OpValue{{Op: "gt", Value: "30"}}},
			},
		},
		{
			name:     "OperatorEntriesKeepOrder",
			rawQuery: "filter[age][lt]=50&filter[age][gt]=30",
			want: []filter.Param{
				{Name: "age", Raw: []filter.OpValue{
					{Op: "lt", Value: "50"},
					{Op: "gt", Value: "30"},
				}},
			},
		},
		{
			name:     "LaterPlainValueOverrides",
			rawQuery: "filter[name]=Jane&filter[name]=John",
			want:     []filter.Param{{Name: "name", Raw: "John"}},
		},
		{
			name:     "NonFilterKeysIgnored",
			rawQuery: "sort=-age&filter[name]=Jane&page[size]=10",
			want:     []filter.Param{{Name: "name", Raw: "Jane"}},
		},
		{
			name:     "BangOperator",
			rawQuery: "filter[name][!eq]=Jane",
			want: []filter.Param{
				{Name: "name", Raw: []filter.OpValue{{Op: "!eq", Value: "Jane"}}},
			},
		},
		{
			name:     "Empty",
			rawQuery: "",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFilterParams(tt.rawQuery)
			if err != nil {
				t.Fatalf("parseFilterParams failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("params mismatch\nwant: %#v\ngot:  %#v", tt.want, got)
			}
		})
	}
}

func TestParseFilterKey(t *testing.T) {
	name, op, ok := parseFilterKey("filter[status]")
	if !ok || name != "status" || op != "" {
		t.Errorf("plain form: got (%q, %q, %v)", name, op, ok)
	}

	name, op, ok = parseFilterKey("filter[status][not_eq]")
	if !ok || name != "status" || op != "not_eq" {
		t.Errorf("operator form: got (%q, %q, %v)", name, op, ok)
	}

	for _, bad := range []string{"sort", "filter[", "filter[]", "filter[a][b"} {
		if _, _, ok := parseFilterKey(bad); ok {
			t.Errorf("%q must not parse", bad)
		}
	}
}
