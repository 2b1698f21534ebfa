package store

// Value is a single cell in a Row. It shares Key's tagged-union shape
// (integer / float / string) so that a coerced literal and a stored
// column value compare by kind-and-content, never by JSON's lossy
// "every number is a float64" interface{} decoding.
type Value struct {
	Kind KeyKind `json:"kind"`
	I    int64   `json:"i,omitempty"`
	F    float64 `json:"f,omitempty"`
	S    string  `json:"s,omitempty"`
}

func IntValue(v int64) Value    { return Value{Kind: KindInt, I: v} }
func FloatValue(v float64) Value { return Value{Kind: KindFloat, F: v} }
func StringValue(v string) Value { return Value{Kind: KindString, S: v} }

// KeyOf converts a Value into the Key used to index its row.
func (v Value) KeyOf() Key { return Key{Kind: v.Kind, I: v.I, F: v.F, S: v.S} }

// ValueOfKey converts a Key back into a Value of the same kind and
// content. SELECT projection does not use it: it reads every column,
// the key column included, from the entry's Row.
func ValueOfKey(k Key) Value { return Value{Kind: k.Kind, I: k.I, F: k.F, S: k.S} }

// Equal reports whether two values have the same kind and content. A
// string '1' and a numeric 1 are never equal, per spec.md §4.3.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.I == other.I
	case KindFloat:
		return v.F == other.F
	default:
		return v.S == other.S
	}
}

// Raw returns the plain Go value (int64, float64, or string) for
// building a SELECT row map surfaced to callers/JSON encoding.
func (v Value) Raw() interface{} {
	switch v.Kind {
	case KindInt:
		return v.I
	case KindFloat:
		return v.F
	default:
		return v.S
	}
}

// Row is a mapping from column name to value.
type Row map[string]Value

// Clone returns a shallow copy of the row, safe to mutate independently.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
