package fluentspec

import (
	"reflect"
	"unicode"
	"unicode/utf8"
)

// Option configures a Registry or an Augmenter.
type Option func(*options)

type options struct {
	oneValidatorPerType bool
	nameResolver        func(string) string
	schemaID            func(reflect.Type) string
	generator           SchemaGenerator
}

func defaultOptions() options {
	return options{
		oneValidatorPerType: true,
		nameResolver:        LowerCamel,
		schemaID:            TypeName,
	}
}

// schemaGenerator resolves the effective generator: an explicit override, or
// the reflection generator keyed by the configured schema-id function so a
// WithSchemaID override never diverges from generation.
func (o options) schemaGenerator() SchemaGenerator {
	if o.generator != nil {
		return o.generator
	}
	return ReflectSchemaWithID(o.schemaID)
}

// WithOneValidatorPerType controls whether validator lookup returns only the
// first applicable validator per type (default true). Enabled, it guarantees
// deterministic, non-duplicated constraint application when several
// validators could legally apply to one type.
func WithOneValidatorPerType(one bool) Option {
	return func(o *options) {
		o.oneValidatorPerType = one
	}
}

// WithNameResolver sets the function mapping declared property names to
// schema property keys. The default is LowerCamel.
func WithNameResolver(resolve func(propertyName string) string) Option {
	return func(o *options) {
		if resolve != nil {
			o.nameResolver = resolve
		}
	}
}

// WithSchemaID sets the function deriving a type's schema store identifier.
// The default is TypeName.
func WithSchemaID(id func(t reflect.Type) string) Option {
	return func(o *options) {
		if id != nil {
			o.schemaID = id
		}
	}
}

// WithGenerator sets the host capability used to materialize a schema for a
// type that is not yet in the store. The default is the ReflectSchema
// reflection generator, keyed by the configured schema-id function.
func WithGenerator(gen SchemaGenerator) Option {
	return func(o *options) {
		if gen != nil {
			o.generator = gen
		}
	}
}

// LowerCamel lowercases the first rune of a property name, matching the
// common JSON field naming of generated schemas.
func LowerCamel(name string) string {
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

// TypeName returns the type's declared name after unwrapping pointers. An
// unnamed type yields an empty identifier and is never stored.
func TypeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
