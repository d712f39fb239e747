// Package guard compiles access predicates gating which filters a request
// may use. Expressions are CEL over the caller's identity and evaluate in
// the outer layer before parameters reach the engine.
package guard

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Predicate decides whether a guarded filter is usable for the request
// described by inputs. Pure and safe for concurrent use.
type Predicate func(inputs map[string]any) (bool, error)

// inputVars are the variables guard expressions may reference. They mirror
// appctx.GuardInputs.
var inputVars = []cel.EnvOption{
	cel.Variable("user_id", cel.StringType),
	cel.Variable("tenant_id", cel.StringType),
	cel.Variable("email", cel.StringType),
	cel.Variable("roles", cel.ListType(cel.StringType)),
	cel.Variable("admin", cel.BoolType),
}

// Compile builds a predicate from a CEL expression, e.g.
// `admin || "auditor" in roles`. The expression must evaluate to bool.
func Compile(expr string) (Predicate, error) {
	env, err := cel.NewEnv(inputVars...)
	if err != nil {
		return nil, fmt.Errorf("guard env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile guard %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("guard %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program guard %q: %w", expr, err)
	}

	return func(inputs map[string]any) (bool, error) {
		out, _, err := prg.Eval(withDefaults(inputs))
		if err != nil {
			return false, fmt.Errorf("eval guard %q: %w", expr, err)
		}
		allowed, ok := out.Value().(bool)
		if !ok {
			return false, fmt.Errorf("guard %q returned %T, want bool", expr, out.Value())
		}
		return allowed, nil
	}, nil
}

// MustCompile is Compile for resource declarations, which run at startup.
func MustCompile(expr string) Predicate {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// withDefaults fills absent variables so anonymous requests evaluate
// instead of erroring on unknown references.
func withDefaults(inputs map[string]any) map[string]any {
	out := map[string]any{
		"user_id":   "",
		"tenant_id": "",
		"email":     "",
		"roles":     []string{},
		"admin":     false,
	}
	for k, v := range inputs {
		out[k] = v
	}
	return out
}
