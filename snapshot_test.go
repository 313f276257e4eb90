package fluentspec_test

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/fluentspec"
)

func storeWith(ids ...string) openapi3.Schemas {
	store := openapi3.Schemas{}
	for _, id := range ids {
		store[id] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
	}
	return store
}

func TestCleanup_removes_unreferenced_created_entries(t *testing.T) {
	t.Parallel()

	store := storeWith("Existing")
	snap := fluentspec.SnapshotStore(store)

	store["Transient"] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
	store["AlsoTransient"] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema())

	require.NoError(t, snap.Cleanup(store))

	assert.Contains(t, store, "Existing")
	assert.NotContains(t, store, "Transient")
	assert.NotContains(t, store, "AlsoTransient")
	assert.Len(t, store, 1, "id set returns exactly to the snapshot set")
}

func TestCleanup_keeps_created_entries_referenced_by_output(t *testing.T) {
	t.Parallel()

	store := openapi3.Schemas{}
	snap := fluentspec.SnapshotStore(store)

	store["Body"] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
	store["Orphan"] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema())

	bodyRef := openapi3.NewSchemaRef("#/components/schemas/Body", nil)
	require.NoError(t, snap.Cleanup(store, bodyRef))

	assert.Contains(t, store, "Body")
	assert.NotContains(t, store, "Orphan")
}

func TestCleanup_follows_transitive_references(t *testing.T) {
	t.Parallel()

	store := openapi3.Schemas{}
	snap := fluentspec.SnapshotStore(store)

	inner := openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
	store["Inner"] = inner

	outer := openapi3.NewObjectSchema()
	outer.Properties["child"] = openapi3.NewSchemaRef("#/components/schemas/Inner", nil)
	store["Outer"] = openapi3.NewSchemaRef("", outer)

	root := openapi3.NewSchemaRef("#/components/schemas/Outer", nil)
	require.NoError(t, snap.Cleanup(store, root))

	assert.Contains(t, store, "Outer")
	assert.Contains(t, store, "Inner", "entries reached only through another created entry survive")
}

func TestCleanup_never_removes_preexisting_entries(t *testing.T) {
	t.Parallel()

	store := storeWith("Touched", "Untouched")
	snap := fluentspec.SnapshotStore(store)

	// The span mutates a pre-existing schema but references nothing.
	store["Touched"].Value.Pattern = "^x$"

	require.NoError(t, snap.Cleanup(store))
	assert.Contains(t, store, "Touched")
	assert.Contains(t, store, "Untouched")
}

func TestCleanup_is_idempotent(t *testing.T) {
	t.Parallel()

	store := storeWith("A", "B")
	snap := fluentspec.SnapshotStore(store)

	store["Temp"] = openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
	require.NoError(t, snap.Cleanup(store))
	require.NoError(t, snap.Cleanup(store))

	assert.Len(t, store, 2)
	assert.Contains(t, store, "A")
	assert.Contains(t, store, "B")
}

func TestCleanup_without_snapshot_is_a_contract_violation(t *testing.T) {
	t.Parallel()

	var snap fluentspec.StoreSnapshot
	err := snap.Cleanup(openapi3.Schemas{})
	assert.ErrorIs(t, err, fluentspec.ErrNoSnapshot)
}

func TestCleanup_handles_cyclic_references(t *testing.T) {
	t.Parallel()

	store := openapi3.Schemas{}
	snap := fluentspec.SnapshotStore(store)

	a := openapi3.NewObjectSchema()
	a.Properties["b"] = openapi3.NewSchemaRef("#/components/schemas/B", nil)
	b := openapi3.NewObjectSchema()
	b.Properties["a"] = openapi3.NewSchemaRef("#/components/schemas/A", nil)
	store["A"] = openapi3.NewSchemaRef("", a)
	store["B"] = openapi3.NewSchemaRef("", b)

	root := openapi3.NewSchemaRef("#/components/schemas/A", nil)
	require.NoError(t, snap.Cleanup(store, root))

	assert.Contains(t, store, "A")
	assert.Contains(t, store, "B")
}
