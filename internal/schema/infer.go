package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// ParseError reports a field-descriptor literal that could not be read.
// Infer never returns it; it is only logged.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("SCHEMA_PARSE_ERROR: %v (raw: %q)", e.Cause, e.Raw)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

var (
	errInvalidLiteral = errors.New("descriptor is not valid JSON")
	errNotObject      = errors.New("descriptor is not an object")
)

// Infer builds a Schema from raw. Text starting with "{" is read as a
// field-descriptor object; anything else, including a literal that fails to
// parse, becomes the free-text schema described by raw.
func Infer(raw string, logger zerolog.Logger) *Schema {
	if !strings.HasPrefix(raw, "{") {
		return FreeText(raw)
	}

	s, err := parseDescriptor(raw)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("raw", raw).
			Msg("Falling back to free-text schema")
		return FreeText(raw)
	}
	return s
}

func parseDescriptor(raw string) (*Schema, error) {
	if !gjson.Valid(raw) {
		return nil, &ParseError{Raw: raw, Cause: errInvalidLiteral}
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return nil, &ParseError{Raw: raw, Cause: errNotObject}
	}

	var fields []Field
	doc.ForEach(func(key, value gjson.Result) bool {
		fields = append(fields, fieldFromDescriptor(key.String(), value))
		return true
	})
	return New(fields...), nil
}

func fieldFromDescriptor(name string, value gjson.Result) Field {
	if !value.IsObject() {
		return Field{Name: name, Type: String, Description: name}
	}

	f := Field{
		Name:        name,
		Type:        ParseFieldType(value.Get("type").String()),
		Description: value.Get("description").String(),
		Optional:    value.Get("optional").Bool(),
	}
	if f.Description == "" {
		f.Description = name
	}
	return f
}
