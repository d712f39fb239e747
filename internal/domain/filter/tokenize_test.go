package filter

import (
	"encoding/json"
	"reflect"
	"testing"

	"sieve/internal/core/apperror"
	"sieve/internal/domain/types"
)

func stringDef(t *testing.T) *Definition {
	t.Helper()
	return &Definition{Name: "name", Type: types.MustLookup("string")}
}

func TestTokenize_CommaSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{
			name:  "PlainSequence",
			input: "a,b,c",
			want:  SequenceValue([]any{"a", "b", "c"}),
		},
		{
			name:  "SingleTokenStaysScalar",
			input: "a",
			want:  ScalarValue("a"),
		},
		{
			name:  "EmptyTokensDropped",
			input: "a,,b,",
			want:  SequenceValue([]any{"a", "b"}),
		},
		{
			name:  "BraceGroupProtectsComma",
			input: "{{a,b}},c",
			want:  SequenceValue([]any{"a,b", "c"}),
		},
		{
			name:  "BraceGroupInMiddle",
			input: "a,{{b,c}},d",
			want:  SequenceValue([]any{"a", "b,c", "d"}),
		},
		{
			name:  "LoneBraceGroupStaysScalar",
			input: "{{a,b}}",
			want:  ScalarValue("a,b"),
		},
		{
			name:  "UnmatchedBracesAreLiteral",
			input: "{{a,b",
			want:  SequenceValue([]any{"{{a", "b"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize("employees", stringDef(t), tt.input)
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q)\nwant: %#v\ngot:  %#v", tt.input, tt.want, got)
			}
		})
	}
}

func TestTokenize_BracketLiteral(t *testing.T) {
	got, err := Tokenize("employees", stringDef(t), "[1,2]")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	if got.Kind != KindRawLiteral {
		t.Fatalf("expected raw literal, got kind %d", got.Kind)
	}
	want := []any{json.Number("1"), json.Number("2")}
	if !reflect.DeepEqual(got.Literal, want) {
		t.Errorf("literal mismatch\nwant: %#v\ngot:  %#v", want, got.Literal)
	}
	if got.Plural() != true {
		t.Error("two-element literal must report plural")
	}
}

func TestTokenize_MalformedLiteral(t *testing.T) {
	_, err := Tokenize("employees", stringDef(t), "[1,2")
	if err == nil {
		t.Fatal("expected error for unterminated literal")
	}
	if !apperror.HasCode(err, apperror.CodeInvalidLiteral) {
		t.Errorf("expected %s, got %v", apperror.CodeInvalidLiteral, err)
	}
}

func TestTokenize_LiteralSkippedForNonStringLike(t *testing.T) {
	def := &Definition{Name: "age", Type: types.MustLookup("integer")}
	got, err := Tokenize("employees", def, "[1,2]")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	// integers are not string-like, so brackets are plain characters
	if got.Kind != KindScalar || got.Scalar != "[1,2]" {
		t.Errorf("expected scalar pass-through, got %#v", got)
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	first, err := Tokenize("employees", stringDef(t), "a,b")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	for _, elem := range first.Elements() {
		again, err := Tokenize("employees", stringDef(t), elem.(string))
		if err != nil {
			t.Fatalf("re-tokenize failed: %v", err)
		}
		if again.Kind != KindScalar || again.Scalar != elem {
			t.Errorf("token %q changed on re-tokenize: %#v", elem, again)
		}
	}
}
