package fluentspec_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/bjaus/fluentspec"
)

// treeSchema builds a small inline tree-model document by hand.
func treeSchema() *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	props.Set("name", &jsonschema.Schema{Type: "string"})
	props.Set("score", &jsonschema.Schema{Type: "number"})
	return &jsonschema.Schema{Type: "object", Properties: props}
}

func TestJSONSchemaContext_inline_property_node(t *testing.T) {
	t.Parallel()

	root := treeSchema()
	ctx := fluentspec.NewJSONSchemaContext(root, root)

	node := ctx.PropertyNode("name")
	assert.True(t, node.IsString())

	node.SetMinLength(2)
	node.SetPattern("^[a-z]+$")

	prop, ok := root.Properties.Get("name")
	require.True(t, ok)
	require.NotNil(t, prop.MinLength)
	assert.Equal(t, uint64(2), *prop.MinLength)
	assert.Equal(t, "^[a-z]+$", prop.Pattern)
}

func TestJSONSchemaContext_resolves_defs_refs(t *testing.T) {
	t.Parallel()

	role := &jsonschema.Schema{Type: "string"}
	root := treeSchema()
	root.Definitions = jsonschema.Definitions{"Role": role}
	root.Properties.Set("role", &jsonschema.Schema{Ref: "#/$defs/Role"})

	ctx := fluentspec.NewJSONSchemaContext(root, root)
	node := ctx.PropertyNode("role")

	node.SetEnum([]any{"admin", "member"})
	assert.Equal(t, []any{"admin", "member"}, role.Enum, "tree model mutates its own definitions")
}

func TestJSONSchemaContext_dangling_ref_degrades(t *testing.T) {
	t.Parallel()

	root := treeSchema()
	root.Properties.Set("role", &jsonschema.Schema{Ref: "#/$defs/Missing"})

	ctx := fluentspec.NewJSONSchemaContext(root, root)
	node := ctx.PropertyNode("role")
	assert.Equal(t, fluentspec.EmptyNode{}, node)

	assert.Equal(t, fluentspec.EmptyNode{}, ctx.PropertyNode("ghost"))
}

func TestJSONSchemaContext_mark_required(t *testing.T) {
	t.Parallel()

	root := treeSchema()
	ctx := fluentspec.NewJSONSchemaContext(root, root)

	ctx.MarkRequired("name")
	ctx.MarkRequired("name")
	assert.Equal(t, []string{"name"}, root.Required)
}

func TestJSONSchemaContext_schema_for_type_reflects_into_defs(t *testing.T) {
	t.Parallel()

	root := treeSchema()
	ctx := fluentspec.NewJSONSchemaContext(root, root)

	node := ctx.SchemaForType(reflect.TypeFor[widget]())
	require.Contains(t, root.Definitions, "widget")
	assert.NotEqual(t, fluentspec.EmptyNode{}, node)

	// A second request reuses the definition.
	again := ctx.SchemaForType(reflect.TypeFor[widget]())
	node.SetPattern("^w$")
	again.SetMinLength(3)

	def := root.Definitions["widget"]
	assert.Equal(t, "^w$", def.Pattern)
	require.NotNil(t, def.MinLength)
	assert.Equal(t, uint64(3), *def.MinLength)
}

func TestJSONSchemaNode_exclusive_bounds_are_numbers(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{Type: "number"}
	node := fluentspec.JSONSchemaNode(s)

	node.SetMinimum(mustDecimal(t, "5.1"), true)
	assert.Equal(t, json.Number("5.1"), s.ExclusiveMinimum)
	assert.Empty(t, s.Minimum)

	node.SetMinimum(mustDecimal(t, "5.1"), false)
	assert.Equal(t, json.Number("5.1"), s.Minimum)
	assert.Empty(t, s.ExclusiveMinimum)

	node.SetMaximum(mustDecimal(t, "10"), true)
	assert.Equal(t, json.Number("10"), s.ExclusiveMaximum)

	node.SetNullable(true)
	assert.Equal(t, true, s.Extras["nullable"])
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
