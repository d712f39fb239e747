package guard

import (
	"testing"
)

func TestCompile_RoleChecks(t *testing.T) {
	pred, err := Compile(`admin || "payroll" in roles`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	tests := []struct {
		name   string
		inputs map[string]any
		want   bool
	}{
		{
			name:   "Admin",
			inputs: map[string]any{"admin": true},
			want:   true,
		},
		{
			name:   "MatchingRole",
			inputs: map[string]any{"roles": []string{"payroll", "hr"}},
			want:   true,
		},
		{
			name:   "OtherRole",
			inputs: map[string]any{"roles": []string{"hr"}},
			want:   false,
		},
		{
			name:   "Anonymous",
			inputs: map[string]any{},
			want:   false,
		},
		{
			name:   "NilInputs",
			inputs: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pred(tt.inputs)
			if err != nil {
				t.Fatalf("predicate failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCompile_IdentityVariables(t *testing.T) {
	pred, err := Compile(`tenant_id == "acme" && email.endsWith("@acme.io")`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	ok, err := pred(map[string]any{"tenant_id": "acme", "email": "jo@acme.io"})
	if err != nil || !ok {
		t.Errorf("want allowed, got (%v, %v)", ok, err)
	}

	ok, err = pred(map[string]any{"tenant_id": "other", "email": "jo@acme.io"})
	if err != nil || ok {
		t.Errorf("want denied, got (%v, %v)", ok, err)
	}
}

func TestCompile_RejectsBadExpressions(t *testing.T) {
	if _, err := Compile(`admin ||`); err == nil {
		t.Error("expected syntax error")
	}
	if _, err := Compile(`user_id`); err == nil {
		t.Error("expected non-bool expression to be rejected")
	}
	if _, err := Compile(`unknown_var == "x"`); err == nil {
		t.Error("expected unknown variable to be rejected")
	}
}

func TestMustCompile_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustCompile(`admin ||`)
}
