package fluentspec

import (
	"reflect"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

// SchemaGenerator is the host capability for materializing a type's schema.
// Implementations register any named component schemas in the store and
// return a ref for the type itself — a $ref into the store for named types,
// an inline schema otherwise.
type SchemaGenerator func(t reflect.Type, store openapi3.Schemas) (*openapi3.SchemaRef, error)

// paramTags are the struct tags that bind request parameters. Fields
// carrying one are operation parameters, not body properties.
var paramTags = []string{"path", "query", "header", "cookie"}

// ReflectSchema is the default SchemaGenerator. Named struct types are
// registered in the store under their type name and returned as
// "#/components/schemas/<name>" refs; anonymous structs, primitives, and
// containers stay inline.
func ReflectSchema(t reflect.Type, store openapi3.Schemas) (*openapi3.SchemaRef, error) {
	return reflectType(t, store, TypeName), nil
}

// ReflectSchemaWithID returns a reflection generator keying the store with
// id instead of the type name, so a host configuring WithSchemaID keeps one
// identifier scheme across lookup and generation.
func ReflectSchemaWithID(id func(reflect.Type) string) SchemaGenerator {
	if id == nil {
		id = TypeName
	}
	return func(t reflect.Type, store openapi3.Schemas) (*openapi3.SchemaRef, error) {
		return reflectType(t, store, id), nil
	}
}

func reflectType(t reflect.Type, store openapi3.Schemas, id func(reflect.Type) string) *openapi3.SchemaRef {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t {
	case reflect.TypeFor[time.Time]():
		return inlineSchema(&openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"})
	case reflect.TypeFor[time.Duration]():
		return inlineSchema(&openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "duration"})
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		return inlineSchema(openapi3.NewStringSchema())
	case reflect.Bool:
		return inlineSchema(openapi3.NewBoolSchema())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return inlineSchema(openapi3.NewIntegerSchema())
	case reflect.Float32, reflect.Float64:
		return inlineSchema(openapi3.NewFloat64Schema())
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return inlineSchema(&openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "byte"})
		}
		items := reflectType(t.Elem(), store, id)
		return inlineSchema(&openapi3.Schema{Type: &openapi3.Types{"array"}, Items: items})
	case reflect.Map:
		obj := openapi3.NewObjectSchema()
		if t.Key().Kind() == reflect.String {
			obj.AdditionalProperties = openapi3.AdditionalProperties{Schema: reflectType(t.Elem(), store, id)}
		}
		return inlineSchema(obj)
	case reflect.Struct:
		sid := ""
		if t.Name() != "" && store != nil {
			sid = id(t)
		}
		if sid == "" {
			obj := openapi3.NewObjectSchema()
			fillObjectSchema(t, obj, store, id)
			return inlineSchema(obj)
		}
		if _, ok := store[sid]; !ok {
			obj := openapi3.NewObjectSchema()
			// Register before filling so self-referential types terminate.
			store[sid] = inlineSchema(obj)
			fillObjectSchema(t, obj, store, id)
		}
		return openapi3.NewSchemaRef("#/components/schemas/"+sid, nil)
	default:
		return inlineSchema(openapi3.NewSchema())
	}
}

// fillObjectSchema populates an object schema from a struct's non-parameter
// fields.
func fillObjectSchema(t reflect.Type, obj *openapi3.Schema, store openapi3.Schemas, id func(reflect.Type) string) {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || isParamField(f) {
			continue
		}
		name := jsonFieldName(f)
		if name == "-" {
			continue
		}

		prop := reflectType(f.Type, store, id)
		if doc := f.Tag.Get("doc"); doc != "" && prop.Value != nil {
			prop.Value.Description = doc
		}
		obj.Properties[name] = prop

		if f.Tag.Get("required") == "true" {
			obj.Required = append(obj.Required, name)
		}
	}
}

// BuildOperation assembles an operation from a request container type:
// param-tagged fields flatten into individual parameters, and a Body field
// (or, for write methods, an untagged struct) becomes the JSON request body.
func BuildOperation(method string, t reflect.Type, store openapi3.Schemas) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.Responses = openapi3.NewResponses()
	if t == nil {
		return op
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return op
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		for _, tag := range paramTags {
			val := f.Tag.Get(tag)
			if val == "" {
				continue
			}
			p := &openapi3.Parameter{
				Name:   val,
				In:     tag,
				Schema: reflectType(f.Type, store, TypeName),
			}
			if doc := f.Tag.Get("doc"); doc != "" {
				p.Description = doc
			}
			if f.Tag.Get("required") == "true" || tag == "path" {
				p.Required = true
			}
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: p})
		}
	}

	if bodyField, ok := t.FieldByName("Body"); ok {
		op.RequestBody = requestBodyRef(reflectType(bodyField.Type, store, TypeName))
	} else if !hasParamTags(t) && (method == "POST" || method == "PUT" || method == "PATCH") {
		op.RequestBody = requestBodyRef(reflectType(t, store, TypeName))
	}

	return op
}

func requestBodyRef(sr *openapi3.SchemaRef) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Required: true,
			Content:  openapi3.NewContentWithJSONSchemaRef(sr),
		},
	}
}

func inlineSchema(s *openapi3.Schema) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: s}
}

// jsonFieldName returns the JSON field name for a struct field.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

// isParamField reports whether a struct field has parameter binding tags.
func isParamField(f reflect.StructField) bool {
	for _, tag := range paramTags {
		if f.Tag.Get(tag) != "" {
			return true
		}
	}
	return false
}

// hasParamTags reports whether any exported field binds a parameter.
func hasParamTags(t reflect.Type) bool {
	for i := range t.NumField() {
		f := t.Field(i)
		if f.IsExported() && isParamField(f) {
			return true
		}
	}
	return false
}
