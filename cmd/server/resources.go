package main

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"

	"sieve/internal/domain/filter"
	"sieve/internal/domain/resource"
)

// setupResourceRegistry declares the queryable resources and their filters.
func setupResourceRegistry() *resource.Registry {
	reg := resource.NewRegistry()

	reg.Register(resource.New("employees", "employees",
		[]string{"id", "first_name", "last_name", "email", "age", "salary", "active", "hired_on", "created_at", "settings"},
		resource.WithDefaultSort("last_name"),
		resource.WithMaxPageSize(200),
	).
		Filter("id", "integer_id").
		Filter("first_name", "string", resource.Aliases("name")).
		Filter("last_name", "string").
		Filter("email", "string", resource.Single()).
		Filter("age", "integer").
		Filter("salary", "big_decimal",
			resource.GuardedExpr(`admin || "payroll" in roles`)).
		Filter("active", "boolean").
		Filter("hired_on", "date").
		Filter("created_at", "datetime").
		Filter("settings", "hash").
		Filter("title", "string",
			// Matches against a computed column, so it needs its own SQL.
			resource.WithOperator(filter.OpEq, titleEq)))

	reg.Register(resource.New("positions", "positions",
		[]string{"id", "employee_id", "department_id", "name", "rank"},
	).
		Filter("id", "integer_id").
		Filter("employee_id", "array_of_integers").
		Filter("department_id", "integer", resource.Required()).
		Filter("name", "string").
		Filter("rank", "integer", resource.DependsOn("department_id")))

	reg.Register(resource.New("documents", "documents",
		[]string{"id", "uid", "status", "kind", "payload", "issued_at"},
		resource.WithDefaultSort("-issued_at"),
	).
		Filter("id", "integer_id").
		Filter("uid", "uuid").
		Filter("status", "string",
			resource.Allow("draft", "posted", "archived"),
			resource.Deny("deleted")).
		Filter("kind", "string").
		Filter("payload", "hash").
		Filter("issued_at", "datetime"))

	return reg
}

// titleEq matches job titles case-insensitively against the positions join.
func titleEq(_ context.Context, scope filter.Scope, value any) (filter.Scope, error) {
	sb, ok := scope.(squirrel.SelectBuilder)
	if !ok {
		return scope, nil
	}
	title, _ := value.(string)
	return sb.
		Join("positions ON positions.employee_id = employees.id").
		Where(squirrel.Eq{"LOWER(positions.name)": strings.ToLower(title)}), nil
}
