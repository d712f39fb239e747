package filter

import (
	"bytes"
	"encoding/json"
	"strings"

	"sieve/internal/core/apperror"
)

// Tokenize splits a string value into an ordered token run under the
// delimiter/escape grammar, or decodes an inline JSON literal. Applies
// only to string values; other shapes pass the tokenizer untouched.
//
// Grammar:
//   - "[...]" on string-like or collection-like types is a JSON literal;
//     exactly one literal is returned decoded, exempt from comma-splitting
//   - "{{tok}}" protects an internal comma from acting as a delimiter
//   - the remainder splits on "," with empty tokens dropped
func Tokenize(resource string, def *Definition, s string) (Value, error) {
	var extras []any

	if def.Type.StringLike() {
		literals := bracketLiterals(s)
		if len(literals) > 0 {
			decoded := make([]any, len(literals))
			for i, lit := range literals {
				v, err := decodeLiteral(lit)
				if err != nil {
					return Value{}, apperror.NewInvalidLiteral(resource, lit)
				}
				decoded[i] = v
			}
			if len(literals) == 1 {
				return RawLiteralValue(decoded[0]), nil
			}
			// several literals in one value: each decoded literal becomes a
			// standalone element, the remainder tokenizes as usual
			for _, lit := range literals {
				s = strings.Replace(s, lit, "", 1)
			}
			extras = decoded
		}
	}

	tokens := make([]any, 0, 4)
	for _, tok := range splitProtected(s) {
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	tokens = append(tokens, extras...)

	if len(tokens) == 1 {
		if s, ok := tokens[0].(string); ok {
			return ScalarValue(s), nil
		}
		return ScalarValue(tokens[0]), nil
	}
	return SequenceValue(tokens), nil
}

// bracketLiterals extracts every bracket-delimited substring, shortest
// match first, brackets included.
func bracketLiterals(s string) []string {
	var out []string
	for i := 0; i < len(s); {
		open := strings.IndexByte(s[i:], '[')
		if open < 0 {
			break
		}
		open += i
		close := strings.IndexByte(s[open:], ']')
		if close < 0 {
			// unterminated literal: keep the tail so the decode failure
			// names the offending substring
			out = append(out, s[open:])
			break
		}
		close += open
		out = append(out, s[open:close+1])
		i = close + 1
	}
	return out
}

func decodeLiteral(lit string) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(lit)))
	decoder.UseNumber()
	var v any
	if err := decoder.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// splitProtected splits s on commas, except commas inside {{...}} groups,
// and strips the braces from each resulting token. Token order follows the
// original string. An unmatched "{{" carries no protection.
func splitProtected(s string) []string {
	if !strings.Contains(s, "{{") {
		return strings.Split(s, ",")
	}

	var tokens []string
	var cur strings.Builder
	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], "{{") {
			if close := strings.Index(s[i+2:], "}}"); close >= 0 {
				cur.WriteString(s[i+2 : i+2+close])
				i += close + 4
				continue
			}
		}
		if s[i] == ',' {
			tokens = append(tokens, cur.String())
			cur.Reset()
			i++
			continue
		}
		cur.WriteByte(s[i])
		i++
	}
	return append(tokens, cur.String())
}
