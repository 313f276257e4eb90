package fluentspec

import (
	"path"
	"reflect"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/shopspring/decimal"
)

// OpenAPIContext adapts a reference-model document to the SchemaContext
// capability: schemas for named types live in a shared components store and
// complex or enum properties are $ref indirections into it.
//
// Property nodes backed by a $ref degrade to EmptyNode rather than resolving
// through the store: the referenced schema is shared between every usage of
// the type, and per-property constraints must not mutate it.
type OpenAPIContext struct {
	schema *openapi3.Schema
	store  openapi3.Schemas
	gen    SchemaGenerator
	idFor  func(reflect.Type) string
}

// NewOpenAPIContext returns a context over one schema and the store of the
// document that owns it. The schema may be nil, in which case every property
// lookup degrades to EmptyNode.
func NewOpenAPIContext(schema *openapi3.Schema, store openapi3.Schemas, opts ...Option) *OpenAPIContext {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &OpenAPIContext{schema: schema, store: store, gen: o.schemaGenerator(), idFor: o.schemaID}
}

// PropertyNode returns the node for a named property of the current schema.
// Missing properties, $ref-backed properties, and shape mismatches all
// degrade to EmptyNode; this method never fails.
func (c *OpenAPIContext) PropertyNode(name string) SchemaNode {
	if c.schema == nil || c.schema.Properties == nil {
		return EmptyNode{}
	}
	ref := c.schema.Properties[name]
	if ref == nil || ref.Ref != "" || ref.Value == nil {
		return EmptyNode{}
	}
	return &openapiNode{s: ref.Value}
}

// MarkRequired adds the property to the owning schema's required list once.
func (c *OpenAPIContext) MarkRequired(name string) {
	if c.schema == nil {
		return
	}
	if !slices.Contains(c.schema.Required, name) {
		c.schema.Required = append(c.schema.Required, name)
	}
}

// SchemaForType returns the node for a type's schema, materializing it
// through the generator when the store has no entry yet. Materialized
// entries are registered in the store as a side effect; the snapshot
// protocol removes them again if the final document never references them.
func (c *OpenAPIContext) SchemaForType(t reflect.Type) SchemaNode {
	if c.store == nil || c.idFor == nil {
		return EmptyNode{}
	}
	id := c.idFor(t)
	if id == "" {
		return EmptyNode{}
	}

	if sr, ok := c.store[id]; ok {
		return c.nodeFor(sr)
	}
	if c.gen == nil {
		return EmptyNode{}
	}
	sr, err := c.gen(t, c.store)
	if err != nil {
		return EmptyNode{}
	}
	return c.nodeFor(sr)
}

// nodeFor resolves a schema ref to a concrete node, following one level of
// store indirection.
func (c *OpenAPIContext) nodeFor(sr *openapi3.SchemaRef) SchemaNode {
	if sr == nil {
		return EmptyNode{}
	}
	if sr.Value != nil {
		return &openapiNode{s: sr.Value}
	}
	if sr.Ref != "" {
		if target, ok := c.store[path.Base(sr.Ref)]; ok && target != nil && target.Value != nil {
			return &openapiNode{s: target.Value}
		}
	}
	return EmptyNode{}
}

// openapiNode writes constraints onto a kin-openapi schema. Decimal bounds
// convert to the model's float64 only here, at the write boundary.
type openapiNode struct {
	s *openapi3.Schema
}

func (n *openapiNode) IsString() bool {
	return n.s.Type.Is("string")
}

func (n *openapiNode) SetNullable(nullable bool) {
	n.s.Nullable = nullable
}

func (n *openapiNode) SetMinLength(v int) {
	n.s.MinLength = uint64(v)
}

func (n *openapiNode) SetMaxLength(v int) {
	u := uint64(v)
	n.s.MaxLength = &u
}

func (n *openapiNode) SetMinimum(v decimal.Decimal, exclusive bool) {
	f := v.InexactFloat64()
	n.s.Min = &f
	n.s.ExclusiveMin = exclusive
}

func (n *openapiNode) SetMaximum(v decimal.Decimal, exclusive bool) {
	f := v.InexactFloat64()
	n.s.Max = &f
	n.s.ExclusiveMax = exclusive
}

func (n *openapiNode) SetPattern(pattern string) {
	n.s.Pattern = pattern
}

func (n *openapiNode) SetEnum(values []any) {
	n.s.Enum = values
}
