package schema

// FieldType is the closed set of types a schema field may carry.
type FieldType int

const (
	String FieldType = iota
	Number
	Boolean
	StringArray
)

// Type tags as they appear in field-descriptor literals.
const (
	tagString  = "string"
	tagNumber  = "number"
	tagBoolean = "boolean"
	tagArray   = "array"
)

// ParseFieldType maps a descriptor type tag to a FieldType.
// Unknown or empty tags resolve to String.
func ParseFieldType(tag string) FieldType {
	switch tag {
	case tagString:
		return String
	case tagNumber:
		return Number
	case tagBoolean:
		return Boolean
	case tagArray:
		return StringArray
	default:
		return String
	}
}

// Tag returns the descriptor tag for the type.
func (t FieldType) Tag() string {
	switch t {
	case Number:
		return tagNumber
	case Boolean:
		return tagBoolean
	case StringArray:
		return tagArray
	default:
		return tagString
	}
}

func (t FieldType) String() string {
	if t == StringArray {
		return "array<string>"
	}
	return t.Tag()
}

// Field describes one named entry of a Schema.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Optional    bool
}

// Required reports whether the field must be present.
func (f Field) Required() bool {
	return !f.Optional
}
