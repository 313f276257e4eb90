package fluentspec

import (
	"reflect"

	"github.com/shopspring/decimal"
)

// SchemaNode is a capability handle on the settable constraint fields of one
// schema object. It hides whether the host document model stores the schema
// inline or behind a reference.
//
// A node that cannot reach a concrete, mutable schema object is an
// EmptyNode: every write on it is a silent no-op. Degrading instead of
// failing is the contract — constraint application never faults because a
// property is represented purely as a pointer to another schema.
type SchemaNode interface {
	// IsString reports whether the underlying schema is string-typed.
	// String-only constraints (minLength from NotEmpty) key off this.
	IsString() bool

	SetNullable(nullable bool)
	SetMinLength(n int)
	SetMaxLength(n int)
	SetMinimum(v decimal.Decimal, exclusive bool)
	SetMaximum(v decimal.Decimal, exclusive bool)
	SetPattern(pattern string)
	SetEnum(values []any)
}

// EmptyNode is the no-op SchemaNode variant. It stands in wherever a
// property's schema is unreachable: a dangling reference, a shape mismatch
// in the host store, or a property the parent schema does not list.
type EmptyNode struct{}

// IsString always reports false.
func (EmptyNode) IsString() bool { return false }

// SetNullable discards the write.
func (EmptyNode) SetNullable(bool) {}

// SetMinLength discards the write.
func (EmptyNode) SetMinLength(int) {}

// SetMaxLength discards the write.
func (EmptyNode) SetMaxLength(int) {}

// SetMinimum discards the write.
func (EmptyNode) SetMinimum(decimal.Decimal, bool) {}

// SetMaximum discards the write.
func (EmptyNode) SetMaximum(decimal.Decimal, bool) {}

// SetPattern discards the write.
func (EmptyNode) SetPattern(string) {}

// SetEnum discards the write.
func (EmptyNode) SetEnum([]any) {}

// SchemaContext presents one property-bearing schema and its surrounding
// document model to the mapper. Two adapters exist: OpenAPIContext for
// reference-model documents (schemas live in a shared store, complex
// properties are $refs) and JSONSchemaContext for tree-model documents
// (schemas are inline nodes, optionally indirected through $defs).
//
// The mapper is written once against this interface and never branches on
// which adapter is active.
type SchemaContext interface {
	// PropertyNode returns the node for a named property. It never fails:
	// an unresolvable property degrades to EmptyNode.
	PropertyNode(name string) SchemaNode

	// MarkRequired records the named property as required on the owning
	// schema. Marking is idempotent.
	MarkRequired(name string)

	// SchemaForType returns the node for a type's own schema, fetching it
	// from the shared store or asking the host generator to materialize it.
	// This is the sole path by which constraint computation can introduce
	// new entries into the store; the cleanup protocol accounts for them.
	// Unresolvable types degrade to EmptyNode.
	SchemaForType(t reflect.Type) SchemaNode
}
