package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var errArgsNotObject = errors.New("arguments must be a JSON object")

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Issues, "; ")
}

// Validate checks args against the schema and returns the typed values in the
// order args supplied them. Keys the schema does not declare are dropped, and
// JSON null is treated as absent.
func (s *Schema) Validate(args *Args) (*Values, error) {
	values := orderedmap.New[string, Value]()
	var issues []string

	if args != nil {
		for pair := args.Oldest(); pair != nil; pair = pair.Next() {
			f, ok := s.Field(pair.Key)
			if !ok || isNull(pair.Value) {
				continue
			}
			v, err := decodeValue(f, pair.Value)
			if err != nil {
				issues = append(issues, err.Error())
				continue
			}
			values.Set(f.Name, v)
		}
	}

	for _, f := range s.fields {
		if f.Optional {
			continue
		}
		if _, ok := values.Get(f.Name); ok {
			continue
		}
		if args != nil {
			if raw, present := args.Get(f.Name); present && !isNull(raw) {
				// already reported as a type mismatch
				continue
			}
		}
		issues = append(issues, fmt.Sprintf("%s: required", f.Name))
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return values, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeValue(f Field, raw json.RawMessage) (Value, error) {
	switch f.Type {
	case Number:
		var n float64
		if json.Unmarshal(raw, &n) != nil {
			return Value{}, mismatch(f)
		}
		return NumberValue(n), nil
	case Boolean:
		var b bool
		if json.Unmarshal(raw, &b) != nil {
			return Value{}, mismatch(f)
		}
		return BooleanValue(b), nil
	case StringArray:
		var items []*string
		if json.Unmarshal(raw, &items) != nil {
			return Value{}, mismatch(f)
		}
		list := make([]string, 0, len(items))
		for _, item := range items {
			if item == nil {
				return Value{}, mismatch(f)
			}
			list = append(list, *item)
		}
		return StringArrayValue(list), nil
	default:
		var str string
		if json.Unmarshal(raw, &str) != nil {
			return Value{}, mismatch(f)
		}
		return StringValue(str), nil
	}
}

func mismatch(f Field) error {
	return fmt.Errorf("%s: expected %s", f.Name, f.Type)
}
