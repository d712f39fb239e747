package postgres

import (
	"testing"

	"sieve/internal/domain/resource"
)

func TestParseOrderBy(t *testing.T) {
	res := resource.New("employees", "employees", []string{"id", "last_name", "age"},
		resource.WithDefaultSort("last_name"))

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "Default", orderBy: "", want: "last_name ASC"},
		{name: "Ascending", orderBy: "age", want: "age ASC"},
		{name: "ExplicitAscending", orderBy: "+age", want: "age ASC"},
		{name: "Descending", orderBy: "-age", want: "age DESC"},
		{name: "UnknownColumn", orderBy: "salary", wantErr: true},
		{name: "InjectionAttempt", orderBy: "age; DROP TABLE employees", wantErr: true},
		{name: "BareMinus", orderBy: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOrderBy(res, tt.orderBy)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderBy failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExecutor_CountSQL(t *testing.T) {
	adapter := NewSQLAdapter()
	scope := adapter.BaseScope("employees", []string{"id", "age"})

	sb, err := builder(scope)
	if err != nil {
		t.Fatalf("builder failed: %v", err)
	}
	sql, _, err := sb.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}
	if sql != "SELECT id, age FROM employees" {
		t.Errorf("unexpected base SQL: %s", sql)
	}

	if _, err := builder("not a scope"); err == nil {
		t.Error("foreign scope type must be rejected")
	}
}
