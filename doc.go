// Package fluentspec translates declarative validation rules into structural
// constraints on generated API schemas, so documented schemas match what the
// validation layer actually enforces at runtime.
//
// Validators declare rule chains per property and are registered for the
// types they validate:
//
//	reg := fluentspec.NewRegistry()
//	fluentspec.Register[CreateUser](reg, fluentspec.NewValidator().
//	    RuleFor("Name", fluentspec.NotEmpty(), fluentspec.MaximumLength(100)).
//	    RuleFor("Email", fluentspec.EmailAddress()).
//	    RuleFor("Age", fluentspec.InclusiveBetween(0, 150)))
//
// A host schema generator then invokes the augmentation hooks: once per
// generated type schema, and once per API operation with the operation's
// resolved parameter list and the shared components store:
//
//	a := fluentspec.New(reg)
//	a.AugmentSchema(reflect.TypeFor[CreateUser](), schema, doc.Components.Schemas)
//	err := a.AugmentOperation(op, reflect.TypeFor[ListReq](), doc.Components.Schemas)
//
// Two host document models are supported behind one mapping engine:
// reference-model OpenAPI documents (github.com/getkin/kin-openapi), where
// complex properties are $refs into a shared store, and tree-model JSON
// Schema documents (github.com/invopop/jsonschema), where schemas nest
// inline. Constraint application never fails on an unreachable property
// schema — it degrades to a no-op node — and schemas materialized only to
// answer a constraint question are removed again unless the final document
// references them.
package fluentspec
