package catalog

import (
	"strconv"

	"github.com/briarql/briarql/internal/store"
	"github.com/briarql/briarql/internal/sql"
)

// coerceValue implements spec.md §4.3's coercion rule and the asymmetry
// documented at spec.md §9 ("Open question: float literals in grammar"):
// an already-lexed integer literal stays an integer; a quoted string
// literal is re-examined textually — if every rune is a digit it stays a
// string (so '1' is never the integer 1), else if it parses as a float it
// becomes a float, else it stays a string. Ported from
// original_source/src/dbms.py's parse_value.
func coerceValue(v sql.Value) store.Value {
	if !v.IsString {
		return store.IntValue(v.Int)
	}
	if isAllDigits(v.Str) {
		return store.StringValue(v.Str)
	}
	if f, err := strconv.ParseFloat(v.Str, 64); err == nil {
		return store.FloatValue(f)
	}
	return store.StringValue(v.Str)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
