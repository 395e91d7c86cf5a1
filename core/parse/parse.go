package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/valyala/fastjson"
)

var errNotWrapped = errors.New("not a schema-wrapped value")

// ParseStringAs parses content, typically tool arguments written by a
// language model, into a value of type T.
//
// Primitive kinds (string, bool, int, float) are converted directly. Structs,
// maps and slices are decoded as JSON; when that fails the JSON is repaired
// with jsonrepair and decoded again, and finally schema-like
// {"type": ..., "value": ...} wrappers are unwrapped before a last attempt.
//
// A struct with exactly one exported string field also accepts a bare value:
// content that does not start with '{' is stored in that field, after
// decoding it if it is a JSON string literal. This lets a tool that takes a
// single expression be called with "2+3" instead of {"expression":"2+3"}.
//
// Example usage:
//
//	type Args struct {
//	    Expression string `json:"expression"`
//	}
//
//	args, err := ParseStringAs[Args](`{"expression":"200*7"}`)
//	args, err = ParseStringAs[Args](`{expression: '200*7'}`) // repaired
//	args, err = ParseStringAs[Args](`200*7`)                 // bare value
//	n, err := ParseStringAs[float64]("42")
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		if strings.HasPrefix(content, "{") {
			if unwrapped, err := tryUnwrapPrimitive(content); err == nil {
				target.SetString(unwrapped)
				return result, nil
			}
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool:
		val, err := parsePrimitive(content, strconv.ParseBool)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as bool: %w", err)
		}
		target.SetBool(val)
		return result, nil

	case reflect.Float32, reflect.Float64:
		val, err := parsePrimitive(content, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		target.SetFloat(val)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := parsePrimitive(content, func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) })
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		target.SetInt(val)
		return result, nil

	default:
		return parseComplex[T](content)
	}
}

// parsePrimitive applies convert to content, retrying on the unwrapped value
// when content is a schema-like wrapper.
func parsePrimitive[V any](content string, convert func(string) (V, error)) (V, error) {
	val, err := convert(strings.TrimSpace(content))
	if err == nil {
		return val, nil
	}
	if unwrapped, unwrapErr := tryUnwrapPrimitive(content); unwrapErr == nil {
		if val, unwrappedErr := convert(unwrapped); unwrappedErr == nil {
			return val, nil
		}
	}
	return val, err
}

func parseComplex[T any](content string) (T, error) {
	var result T

	trimmed := strings.TrimSpace(content)
	if field, ok := shorthandField(reflect.TypeFor[T]()); ok && trimmed != "" && trimmed[0] != '{' {
		reflect.ValueOf(&result).Elem().Field(field).SetString(bareString(trimmed))
		return result, nil
	}

	err := json.Unmarshal([]byte(content), &result)
	if err == nil {
		return result, nil
	}

	repairedJSON, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
	}

	err = json.Unmarshal([]byte(repairedJSON), &result)
	if err == nil {
		return result, nil
	}

	// LLMs sometimes echo the schema shape instead of plain values.
	if unwrapped, unwrapErr := unwrapSchemaValues(repairedJSON); unwrapErr == nil {
		var unwrappedResult T
		if json.Unmarshal([]byte(unwrapped), &unwrappedResult) == nil {
			return unwrappedResult, nil
		}
	}

	return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (original content: %s, repaired: %s)", result, err, content, repairedJSON)
}

// shorthandField returns the index of the only JSON-visible field of t when
// t is a struct with exactly one such field and that field is a string.
func shorthandField(t reflect.Type) (int, bool) {
	if t.Kind() != reflect.Struct {
		return 0, false
	}

	index, count := -1, 0
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("json") == "-" {
			continue
		}
		index = i
		count++
	}
	if count != 1 || t.Field(index).Type.Kind() != reflect.String {
		return 0, false
	}
	return index, true
}

// bareString decodes content when it is a JSON string literal and returns it
// unchanged otherwise.
func bareString(content string) string {
	if content[0] != '"' {
		return content
	}
	v, err := fastjson.Parse(content)
	if err != nil || v.Type() != fastjson.TypeString {
		return content
	}
	return string(v.GetStringBytes())
}

// tryUnwrapPrimitive returns the string form of the value held by a
// {"type": ..., "value": ...} wrapper.
func tryUnwrapPrimitive(content string) (string, error) {
	v, err := fastjson.Parse(content)
	if err != nil {
		return "", err
	}
	o, err := v.Object()
	if err != nil || !isSchemaWrapper(o) {
		return "", errNotWrapped
	}

	inner := o.Get("value")
	if inner.Type() == fastjson.TypeString {
		return string(inner.GetStringBytes()), nil
	}
	return string(inner.MarshalTo(nil)), nil
}

// unwrapSchemaValues replaces every {"type": ..., "value": ...} wrapper in
// jsonStr with its value.
//
// Example input:
//
//	{"expression": {"type": "string", "value": "2*3"}}
//
// Example output:
//
//	{"expression":"2*3"}
func unwrapSchemaValues(jsonStr string) (string, error) {
	var p fastjson.Parser
	v, err := p.Parse(jsonStr)
	if err != nil {
		return "", err
	}
	return string(unwrapValue(v).MarshalTo(nil)), nil
}

func unwrapValue(v *fastjson.Value) *fastjson.Value {
	switch v.Type() {
	case fastjson.TypeObject:
		o := v.GetObject()
		if isSchemaWrapper(o) {
			return unwrapValue(o.Get("value"))
		}
		var keys []string
		o.Visit(func(key []byte, _ *fastjson.Value) {
			keys = append(keys, string(key))
		})
		for _, key := range keys {
			o.Set(key, unwrapValue(o.Get(key)))
		}
	case fastjson.TypeArray:
		for i, item := range v.GetArray() {
			v.SetArrayItem(i, unwrapValue(item))
		}
	}
	return v
}

func isSchemaWrapper(o *fastjson.Object) bool {
	return o != nil && o.Len() == 2 && o.Get("type") != nil && o.Get("value") != nil
}
