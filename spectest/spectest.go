// Package spectest provides test helpers for asserting constraints in
// augmented schema documents.
package spectest

import (
	"path"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"
)

// Schema returns the stored schema for an identifier, failing the test when
// the store has no concrete entry.
func Schema(t testing.TB, store openapi3.Schemas, id string) *openapi3.Schema {
	t.Helper()
	sr, ok := store[id]
	require.True(t, ok, "store has no schema %q", id)
	require.NotNil(t, sr.Value, "schema %q is not concrete", id)
	return sr.Value
}

// Property returns a property schema of a stored schema, following a $ref
// through the store when the property is an indirection.
func Property(t testing.TB, store openapi3.Schemas, id, name string) *openapi3.Schema {
	t.Helper()
	s := Schema(t, store, id)
	prop, ok := s.Properties[name]
	require.True(t, ok, "schema %q has no property %q", id, name)
	return Resolve(t, store, prop)
}

// Resolve follows a schema ref to its concrete schema, through the store if
// necessary.
func Resolve(t testing.TB, store openapi3.Schemas, sr *openapi3.SchemaRef) *openapi3.Schema {
	t.Helper()
	require.NotNil(t, sr)
	if sr.Value != nil {
		return sr.Value
	}
	require.NotEmpty(t, sr.Ref, "schema ref has neither value nor $ref")
	target, ok := store[path.Base(sr.Ref)]
	require.True(t, ok, "unresolvable ref %q", sr.Ref)
	require.NotNil(t, target.Value, "ref %q resolves to a non-concrete schema", sr.Ref)
	return target.Value
}

// Parameter returns the named operation parameter, failing the test when it
// is absent.
func Parameter(t testing.TB, op *openapi3.Operation, name string) *openapi3.Parameter {
	t.Helper()
	for _, pref := range op.Parameters {
		if pref.Value != nil && pref.Value.Name == name {
			return pref.Value
		}
	}
	require.Failf(t, "parameter not found", "operation has no parameter %q", name)
	return nil
}
