package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema is the subset of JSON Schema used to describe tool arguments and
// results to a language model.
type Schema struct {
	// Type specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties describes map values
	AdditionalProperties *Schema `json:"additionalProperties,omitempty"`
	// Enum contains the list of allowed values
	Enum []any `json:"enum,omitempty"`
	// Examples are sample values shown to the model
	Examples []any `json:"examples,omitempty"`
}

// GenerateJSONSchema derives a schema for T by reflection.
//
// Struct fields use their json tag name; fields tagged json:"-" and
// unexported fields are skipped. A field is required when it is neither a
// pointer nor omitempty, or when its jsonschema tag says "required". The
// jsonschema tag also accepts description=..., enum=... and example=...
// entries separated by commas.
//
// A struct type that refers back to itself is emitted as a plain object at
// the point of recursion.
func GenerateJSONSchema[T any]() (*Schema, error) {
	g := &generator{building: make(map[reflect.Type]bool)}
	return g.schemaFor(reflect.TypeFor[T]())
}

type generator struct {
	building map[reflect.Type]bool
}

func (g *generator) schemaFor(t reflect.Type) (*Schema, error) {
	switch t.Kind() {
	case reflect.Pointer:
		return g.schemaFor(t.Elem())
	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Slice, reflect.Array:
		items, err := g.schemaFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case reflect.Map:
		values, err := g.schemaFor(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "object", AdditionalProperties: values}, nil
	case reflect.Struct:
		return g.structSchema(t)
	default:
		return &Schema{Type: "object"}, nil
	}
}

func (g *generator) structSchema(t reflect.Type) (*Schema, error) {
	if g.building[t] {
		return &Schema{Type: "object"}, nil
	}
	g.building[t] = true
	defer delete(g.building, t)

	schema := &Schema{Type: "object", Properties: make(map[string]*Schema)}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		fieldSchema, err := g.schemaFor(field.Type)
		if err != nil {
			return nil, err
		}
		requiredByTag, err := applyTag(field, fieldSchema)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}

		schema.Properties[name] = fieldSchema
		if requiredByTag || (field.Type.Kind() != reflect.Pointer && !omitEmpty) {
			schema.Required = append(schema.Required, name)
		}
	}
	return schema, nil
}

func jsonFieldName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, strings.Contains(opts, "omitempty"), false
}

// applyTag applies the jsonschema struct tag to schema and reports whether
// the tag marks the field as required.
func applyTag(field reflect.StructField, schema *Schema) (bool, error) {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false, nil
	}

	required := false
	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		if !hasValue {
			if key == "required" {
				required = true
			}
			continue
		}
		switch key {
		case "description":
			schema.Description = value
		case "enum", "example":
			typed, err := typedValue(field.Type, value)
			if err != nil {
				return false, fmt.Errorf("%s value %q: %w", key, value, err)
			}
			if key == "enum" {
				schema.Enum = append(schema.Enum, typed)
			} else {
				schema.Examples = append(schema.Examples, typed)
			}
		}
	}
	return required, nil
}

// typedValue converts a tag value to the Go type of the field it annotates.
func typedValue(t reflect.Type, value string) (any, error) {
	switch t.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseInt(value, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(value, 64)
	case reflect.Bool:
		return strconv.ParseBool(value)
	default:
		return nil, fmt.Errorf("unsupported field type %v", t)
	}
}

// JsonString converts the Schema to its JSON representation. Pass true to
// indent the output.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	var (
		jsonBytes []byte
		err       error
	)
	if len(indent) > 0 && indent[0] {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation of the schema.
func (s *Schema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}
