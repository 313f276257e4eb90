package fluentspec_test

import (
	"reflect"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/fluentspec"
)

type widget struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

func TestOpenAPIContext_property_node_writes_inline_schema(t *testing.T) {
	t.Parallel()

	obj := openapi3.NewObjectSchema()
	obj.Properties["label"] = openapi3.NewSchemaRef("", openapi3.NewStringSchema())
	ctx := fluentspec.NewOpenAPIContext(obj, openapi3.Schemas{})

	node := ctx.PropertyNode("label")
	assert.True(t, node.IsString())

	node.SetMaxLength(7)
	require.NotNil(t, obj.Properties["label"].Value.MaxLength)
	assert.Equal(t, uint64(7), *obj.Properties["label"].Value.MaxLength)
}

func TestOpenAPIContext_degrades_to_empty_node(t *testing.T) {
	t.Parallel()

	obj := openapi3.NewObjectSchema()
	obj.Properties["ref"] = openapi3.NewSchemaRef("#/components/schemas/Other", nil)
	obj.Properties["hollow"] = &openapi3.SchemaRef{}

	tests := map[string]struct {
		schema *openapi3.Schema
		prop   string
	}{
		"nil parent schema":   {nil, "anything"},
		"missing property":    {obj, "ghost"},
		"ref-backed property": {obj, "ref"},
		"ref without value":   {obj, "hollow"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := fluentspec.NewOpenAPIContext(tc.schema, openapi3.Schemas{})
			node := ctx.PropertyNode(tc.prop)
			assert.Equal(t, fluentspec.EmptyNode{}, node)
			assert.NotPanics(t, func() { node.SetMinLength(1) })
		})
	}
}

func TestOpenAPIContext_mark_required_is_idempotent(t *testing.T) {
	t.Parallel()

	obj := openapi3.NewObjectSchema()
	ctx := fluentspec.NewOpenAPIContext(obj, openapi3.Schemas{})

	ctx.MarkRequired("name")
	ctx.MarkRequired("name")
	assert.Equal(t, []string{"name"}, obj.Required)
}

func TestOpenAPIContext_schema_for_type_fetches_existing(t *testing.T) {
	t.Parallel()

	existing := openapi3.NewObjectSchema()
	store := openapi3.Schemas{"widget": openapi3.NewSchemaRef("", existing)}
	ctx := fluentspec.NewOpenAPIContext(nil, store)

	node := ctx.SchemaForType(reflect.TypeFor[widget]())
	node.SetPattern("^x$")
	assert.Equal(t, "^x$", existing.Pattern, "node must address the stored schema")
	assert.Len(t, store, 1, "no materialization when the store already has the type")
}

func TestOpenAPIContext_schema_for_type_materializes(t *testing.T) {
	t.Parallel()

	store := openapi3.Schemas{}
	ctx := fluentspec.NewOpenAPIContext(nil, store)

	node := ctx.SchemaForType(reflect.TypeFor[widget]())
	require.Contains(t, store, "widget", "generator registers the schema as a side effect")
	assert.NotEqual(t, fluentspec.EmptyNode{}, node)

	node.SetMinLength(1)
	assert.Equal(t, uint64(1), store["widget"].Value.MinLength)
}

func TestOpenAPIContext_schema_for_type_honors_schema_id(t *testing.T) {
	t.Parallel()

	store := openapi3.Schemas{}
	ctx := fluentspec.NewOpenAPIContext(nil, store, fluentspec.WithSchemaID(func(t reflect.Type) string {
		return "custom-" + t.Name()
	}))

	node := ctx.SchemaForType(reflect.TypeFor[widget]())
	require.Contains(t, store, "custom-widget", "default generator keys the store with the configured id")

	node.SetMinLength(1)
	assert.Equal(t, uint64(1), store["custom-widget"].Value.MinLength)

	// A second lookup finds the stored entry instead of regenerating.
	ctx.SchemaForType(reflect.TypeFor[widget]())
	assert.Len(t, store, 1)
}

func TestOpenAPIContext_schema_for_type_unnamed_degrades(t *testing.T) {
	t.Parallel()

	store := openapi3.Schemas{}
	ctx := fluentspec.NewOpenAPIContext(nil, store)

	node := ctx.SchemaForType(reflect.TypeFor[struct{ X int }]())
	// Anonymous types have no stable identifier; nothing is stored and the
	// node still accepts writes without effect beyond itself.
	assert.Empty(t, store)
	assert.NotNil(t, node)
}

func TestOpenAPIContext_generator_failure_degrades(t *testing.T) {
	t.Parallel()

	failing := func(reflect.Type, openapi3.Schemas) (*openapi3.SchemaRef, error) {
		return nil, assert.AnError
	}
	store := openapi3.Schemas{}
	ctx := fluentspec.NewOpenAPIContext(nil, store, fluentspec.WithGenerator(failing))

	node := ctx.SchemaForType(reflect.TypeFor[widget]())
	assert.Equal(t, fluentspec.EmptyNode{}, node)
	assert.Empty(t, store)
}
