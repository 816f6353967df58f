package schema

import (
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Value is a validated input value. Exactly one of its variants is set,
// selected by Type.
type Value struct {
	typ  FieldType
	str  string
	num  float64
	b    bool
	list []string
}

func StringValue(s string) Value {
	return Value{typ: String, str: s}
}

func NumberValue(n float64) Value {
	return Value{typ: Number, num: n}
}

func BooleanValue(b bool) Value {
	return Value{typ: Boolean, b: b}
}

func StringArrayValue(items []string) Value {
	list := make([]string, len(items))
	copy(list, items)
	return Value{typ: StringArray, list: list}
}

// Type returns the variant held by v.
func (v Value) Type() FieldType {
	return v.typ
}

// QueryString coerces v to the text used as a URL query parameter value.
// Arrays are joined with commas.
func (v Value) QueryString() string {
	switch v.typ {
	case Number:
		data, _ := json.Marshal(v.num)
		return string(data)
	case Boolean:
		if v.b {
			return "true"
		}
		return "false"
	case StringArray:
		return strings.Join(v.list, ",")
	default:
		return v.str
	}
}

// MarshalJSON encodes v as its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case Number:
		return json.Marshal(v.num)
	case Boolean:
		return json.Marshal(v.b)
	case StringArray:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.str)
	}
}

// Values is an ordered mapping from field name to validated value. Iteration
// order is the order the caller supplied the inputs in.
type Values = orderedmap.OrderedMap[string, Value]

// Args is an ordered mapping of raw, not yet validated, JSON inputs.
type Args = orderedmap.OrderedMap[string, json.RawMessage]

// NewArgs returns an empty argument map.
func NewArgs() *Args {
	return orderedmap.New[string, json.RawMessage]()
}

// DecodeArgs decodes a JSON object into ordered arguments. Empty input and
// JSON null decode to an empty map.
func DecodeArgs(data []byte) (*Args, error) {
	args := NewArgs()
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return args, nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		return nil, errArgsNotObject
	}
	if err := json.Unmarshal([]byte(trimmed), args); err != nil {
		return nil, err
	}
	return args, nil
}
