package fluentspec

import (
	"encoding/json"
	"path"
	"reflect"
	"slices"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// JSONSchemaContext adapts a tree-model document to the SchemaContext
// capability: schemas are inline nodes, and nested types are only
// indirected through the root schema's $defs when the reflector chose to.
//
// Unlike the reference model, a $ref-backed property here resolves through
// $defs to a concrete node — the tree owns its definitions, so mutating them
// is mutating the document being produced. Only an unresolvable ref degrades
// to EmptyNode.
type JSONSchemaContext struct {
	root      *jsonschema.Schema
	schema    *jsonschema.Schema
	reflector *jsonschema.Reflector
	idFor     func(reflect.Type) string
}

// NewJSONSchemaContext returns a context over one object schema inside a
// document rooted at root. Pass the same schema twice when augmenting a
// standalone root schema.
func NewJSONSchemaContext(root, schema *jsonschema.Schema, opts ...Option) *JSONSchemaContext {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &JSONSchemaContext{
		root:      root,
		schema:    schema,
		reflector: &jsonschema.Reflector{},
		idFor:     o.schemaID,
	}
}

// PropertyNode returns the node for a named property, resolving one level of
// $defs indirection. It never fails; unresolvable properties degrade to
// EmptyNode.
func (c *JSONSchemaContext) PropertyNode(name string) SchemaNode {
	if c.schema == nil || c.schema.Properties == nil {
		return EmptyNode{}
	}
	prop, ok := c.schema.Properties.Get(name)
	if !ok || prop == nil {
		return EmptyNode{}
	}
	if prop.Ref != "" {
		if target := c.resolveRef(prop.Ref); target != nil {
			return &jsonschemaNode{s: target}
		}
		return EmptyNode{}
	}
	return &jsonschemaNode{s: prop}
}

// MarkRequired adds the property to the current schema's required list once.
func (c *JSONSchemaContext) MarkRequired(name string) {
	if c.schema == nil {
		return
	}
	if !slices.Contains(c.schema.Required, name) {
		c.schema.Required = append(c.schema.Required, name)
	}
}

// SchemaForType returns the node for a type's schema, reflecting it into the
// root's $defs when absent.
func (c *JSONSchemaContext) SchemaForType(t reflect.Type) SchemaNode {
	if c.root == nil || c.idFor == nil {
		return EmptyNode{}
	}
	id := c.idFor(t)
	if id == "" {
		return EmptyNode{}
	}

	if s, ok := c.root.Definitions[id]; ok && s != nil {
		return &jsonschemaNode{s: s}
	}

	reflected := c.reflector.ReflectFromType(t)
	if c.root.Definitions == nil {
		c.root.Definitions = jsonschema.Definitions{}
	}
	for name, def := range reflected.Definitions {
		if _, exists := c.root.Definitions[name]; !exists {
			c.root.Definitions[name] = def
		}
	}
	if s, ok := c.root.Definitions[id]; ok && s != nil {
		return &jsonschemaNode{s: s}
	}
	return EmptyNode{}
}

// resolveRef resolves a "#/$defs/<name>" pointer against the root schema.
func (c *JSONSchemaContext) resolveRef(ref string) *jsonschema.Schema {
	if c.root == nil || !strings.HasPrefix(ref, "#/") {
		return nil
	}
	if s, ok := c.root.Definitions[path.Base(ref)]; ok {
		return s
	}
	return nil
}

// jsonschemaNode writes constraints onto an invopop draft-2020 schema.
// Exclusive bounds are numbers there, not flags, so an exclusive proposal
// lands in exclusiveMinimum/exclusiveMaximum and an inclusive one in
// minimum/maximum. Nullability has no field of its own and is carried as an
// extra property.
type jsonschemaNode struct {
	s *jsonschema.Schema
}

func (n *jsonschemaNode) IsString() bool {
	return n.s.Type == "string"
}

func (n *jsonschemaNode) SetNullable(nullable bool) {
	if n.s.Extras == nil {
		n.s.Extras = map[string]any{}
	}
	n.s.Extras["nullable"] = nullable
}

func (n *jsonschemaNode) SetMinLength(v int) {
	u := uint64(v)
	n.s.MinLength = &u
}

func (n *jsonschemaNode) SetMaxLength(v int) {
	u := uint64(v)
	n.s.MaxLength = &u
}

func (n *jsonschemaNode) SetMinimum(v decimal.Decimal, exclusive bool) {
	if exclusive {
		n.s.ExclusiveMinimum = json.Number(v.String())
		n.s.Minimum = ""
		return
	}
	n.s.Minimum = json.Number(v.String())
	n.s.ExclusiveMinimum = ""
}

func (n *jsonschemaNode) SetMaximum(v decimal.Decimal, exclusive bool) {
	if exclusive {
		n.s.ExclusiveMaximum = json.Number(v.String())
		n.s.Maximum = ""
		return
	}
	n.s.Maximum = json.Number(v.String())
	n.s.ExclusiveMaximum = ""
}

func (n *jsonschemaNode) SetPattern(pattern string) {
	n.s.Pattern = pattern
}

func (n *jsonschemaNode) SetEnum(values []any) {
	n.s.Enum = values
}
