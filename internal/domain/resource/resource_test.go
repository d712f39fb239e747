package resource

import (
	"context"
	"testing"

	appctx "sieve/internal/core/context"
	"sieve/internal/domain/filter"
)

func TestResource_FilterDeclarations(t *testing.T) {
	res := New("employees", "employees", []string{"id", "first_name", "age"},
		WithDefaultSort("first_name"),
		WithMaxPageSize(50),
	).
		Filter("first_name", "string", Aliases("name")).
		Filter("age", "integer", Single(), Required()).
		Filter("rank", "integer", DependsOn("age"))

	if res.DefaultSort != "first_name" || res.MaxPageSize != 50 {
		t.Errorf("options not applied: %+v", res)
	}

	cfg := res.Filters()
	if cfg.Resource != "employees" {
		t.Errorf("config resource mismatch: %s", cfg.Resource)
	}

	if def := cfg.Lookup("name"); def == nil || def.Name != "first_name" {
		t.Error("alias must resolve to its definition")
	}

	age := cfg.Lookup("age")
	if age == nil || !age.Single || !age.Required {
		t.Errorf("age declaration incomplete: %+v", age)
	}

	if rank := cfg.Lookup("rank"); rank == nil || rank.DependsOn != "age" {
		t.Error("dependency not recorded")
	}

	if cfg.Lookup("nope") != nil {
		t.Error("unknown name must not resolve")
	}
}

func TestResource_DuplicateFilterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate declaration")
		}
	}()
	New("employees", "employees", nil).
		Filter("age", "integer").
		Filter("age", "string")
}

func TestResource_UnknownTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unknown type")
		}
	}()
	New("employees", "employees", nil).Filter("age", "number")
}

func TestGuardedExpr(t *testing.T) {
	res := New("employees", "employees", nil).
		Filter("salary", "big_decimal", GuardedExpr(`admin`))

	def := res.Filters().Lookup("salary")
	if def.Guard == nil {
		t.Fatal("guard not attached")
	}

	anon := context.Background()
	if ok, err := def.Guard(anon); err != nil || ok {
		t.Errorf("anonymous caller must be denied, got (%v, %v)", ok, err)
	}

	admin := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:  "u1",
		IsAdmin: true,
	})
	if ok, err := def.Guard(admin); err != nil || !ok {
		t.Errorf("admin must be allowed, got (%v, %v)", ok, err)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(New("b", "b", nil))
	reg.Register(New("a", "a", nil))

	if _, ok := reg.Get("a"); !ok {
		t.Error("registered resource not found")
	}
	if _, ok := reg.Get("c"); ok {
		t.Error("unregistered resource resolved")
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("names must be sorted: %v", names)
	}
}

func TestWithOperator(t *testing.T) {
	custom := func(ctx context.Context, scope filter.Scope, value any) (filter.Scope, error) {
		return scope, nil
	}
	res := New("employees", "employees", nil).
		Filter("title", "string", WithOperator(filter.OpEq, custom))

	def := res.Filters().Lookup("title")
	if def.Operators[filter.OpEq] == nil {
		t.Error("custom operator not attached")
	}
}
