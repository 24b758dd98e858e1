package hyper

import (
	"github.com/invopop/jsonschema"
)

// FormSchema renders an affordance's form fields as a JSON Schema object so
// that generic clients can validate submissions before issuing the request.
// Each Input becomes one property; field order is preserved. Constraints map
// directly: options to enum, regexp to pattern, label to title, readonly to
// readOnly, and the default value travels as default. Hidden fields are
// omitted from the schema entirely. An affordance without inputs yields an
// empty object schema.
func FormSchema(a *Affordance) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
	if a == nil {
		return schema
	}
	for _, in := range a.inputs {
		if in.Hidden() {
			continue
		}
		prop := &jsonschema.Schema{
			Type:    schemaType(in.value),
			Default: in.value,
		}
		if in.label != "" {
			prop.Title = in.label
		}
		if in.pattern != "" {
			prop.Pattern = in.pattern
		}
		if len(in.options) > 0 {
			prop.Enum = in.Options()
		}
		if in.ReadOnly() {
			prop.ReadOnly = true
		}
		schema.Properties.Set(in.id, prop)
		if in.Required() {
			schema.Required = append(schema.Required, in.id)
		}
	}
	return schema
}

// schemaType maps a default value to the JSON Schema type of the field.
func schemaType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case float32, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "string"
	}
}
