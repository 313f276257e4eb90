package fluentspec

import (
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/invopop/jsonschema"
)

// Augmenter applies registered rule chains to schemas a host generator has
// already produced. It owns no schemas itself: the store belongs to the
// host's generation pass, and the Augmenter only adds entries through
// materialization — entries the per-operation hook removes again when the
// final output never references them.
//
// One Augmenter may serve many sequential generation passes, but a single
// store must never be shared by overlapping passes; the host serializes
// access.
type Augmenter struct {
	reg  *Registry
	opts options
}

// New returns an Augmenter over a validator registry.
func New(reg *Registry, opts ...Option) *Augmenter {
	if reg == nil {
		reg = NewRegistry()
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Augmenter{reg: reg, opts: o}
}

// AugmentSchema is the per-type hook: the host calls it once for each
// generated type schema. Rule chains for t are mapped onto the schema's
// properties; a type without validators leaves the schema untouched.
func (a *Augmenter) AugmentSchema(t reflect.Type, schema *openapi3.Schema, store openapi3.Schemas) {
	ctx := &OpenAPIContext{schema: schema, store: store, gen: a.opts.schemaGenerator(), idFor: a.opts.schemaID}
	a.applyValidators(t, ctx)
}

// AugmentJSONSchema is the per-type hook for tree-model documents.
func (a *Augmenter) AugmentJSONSchema(t reflect.Type, root, schema *jsonschema.Schema) {
	ctx := &JSONSchemaContext{
		root:      root,
		schema:    schema,
		reflector: &jsonschema.Reflector{},
		idFor:     a.opts.schemaID,
	}
	a.applyValidators(t, ctx)
}

// AugmentOperation is the per-operation hook: the host calls it once per API
// operation with the operation's resolved parameters and the shared store.
// Constraints for t's properties land on the matching flattened parameters —
// matched by the field's binding tag (path/query/header/cookie) as well as
// the resolved property name, since generators name parameters after the
// tag; properties without a matching parameter fall back onto t's own
// stored schema (the body path).
//
// The whole pass is cleanup-guarded. Resolving property types may
// materialize schemas — typically t itself, a parameter-grouping container
// the host expands into flat parameters and never references — and every
// such schema not reachable from the operation's final parameters, request
// body, or responses is removed before returning.
func (a *Augmenter) AugmentOperation(op *openapi3.Operation, t reflect.Type, store openapi3.Schemas) error {
	if op == nil {
		return nil
	}
	snap := SnapshotStore(store)

	typeCtx := &OpenAPIContext{store: store, gen: a.opts.schemaGenerator(), idFor: a.opts.schemaID}
	if node := typeCtx.SchemaForType(t); node != nil {
		if concrete, ok := node.(*openapiNode); ok {
			typeCtx.schema = concrete.s
		}
	}

	for _, v := range a.reg.Validators(indirectType(t)) {
		for _, pr := range v.Rules() {
			name := a.opts.nameResolver(pr.Name)
			tagName := bindingName(t, pr.Name)
			applied := false
			for _, pref := range op.Parameters {
				p := pref.Value
				if p == nil || (p.Name != name && p.Name != tagName) {
					continue
				}
				pctx := &parameterContext{param: p, typeCtx: typeCtx}
				applyChain(pctx, name, pctx.PropertyNode(name), pr.Chain)
				applied = true
			}
			if !applied {
				ApplyRules(typeCtx, name, pr.Chain)
			}
		}
	}

	return snap.Cleanup(store, operationRoots(op)...)
}

// bindingName returns the parameter name a property's field binds through a
// path/query/header/cookie tag, or "" when t has no such field.
func bindingName(t reflect.Type, property string) string {
	t = indirectType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return ""
	}
	f, ok := t.FieldByName(property)
	if !ok {
		for i := range t.NumField() {
			if c := t.Field(i); c.IsExported() && strings.EqualFold(c.Name, property) {
				f, ok = c, true
				break
			}
		}
	}
	if !ok {
		return ""
	}
	for _, tag := range paramTags {
		if v := f.Tag.Get(tag); v != "" {
			return v
		}
	}
	return ""
}

// applyValidators maps every registered chain for t through a context.
func (a *Augmenter) applyValidators(t reflect.Type, ctx SchemaContext) {
	for _, v := range a.reg.Validators(indirectType(t)) {
		for _, pr := range v.Rules() {
			ApplyRules(ctx, a.opts.nameResolver(pr.Name), pr.Chain)
		}
	}
}

// operationRoots collects the schemas the operation actually emits.
func operationRoots(op *openapi3.Operation) []*openapi3.SchemaRef {
	var roots []*openapi3.SchemaRef
	for _, pref := range op.Parameters {
		if pref != nil && pref.Value != nil {
			roots = append(roots, pref.Value.Schema)
		}
	}
	if op.RequestBody != nil && op.RequestBody.Value != nil {
		for _, media := range op.RequestBody.Value.Content {
			roots = append(roots, media.Schema)
		}
	}
	if op.Responses != nil {
		for _, rref := range op.Responses.Map() {
			if rref == nil || rref.Value == nil {
				continue
			}
			for _, media := range rref.Value.Content {
				roots = append(roots, media.Schema)
			}
		}
	}
	return roots
}

// parameterContext scopes constraint application to one flattened operation
// parameter. Required marking sets the parameter's own required flag — there
// is no parent object schema once the container is expanded — and node
// lookups land on the parameter's inline schema.
type parameterContext struct {
	param   *openapi3.Parameter
	typeCtx *OpenAPIContext
}

func (c *parameterContext) PropertyNode(string) SchemaNode {
	sr := c.param.Schema
	if sr == nil || sr.Ref != "" || sr.Value == nil {
		return EmptyNode{}
	}
	return &openapiNode{s: sr.Value}
}

func (c *parameterContext) MarkRequired(string) {
	c.param.Required = true
}

func (c *parameterContext) SchemaForType(t reflect.Type) SchemaNode {
	return c.typeCtx.SchemaForType(t)
}
