package fluentspec

import (
	"errors"
	"path"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrNoSnapshot reports a cleanup invoked with a zero-value snapshot. That
// is a programming error in the host wiring, not a degradable condition.
var ErrNoSnapshot = errors.New("fluentspec: cleanup without a prior store snapshot")

// StoreSnapshot records the identifiers present in a schema store at the
// start of a cleanup-guarded span. Contents are not recorded: a schema that
// merely gets mutated during the span is never a cleanup candidate.
type StoreSnapshot struct {
	ids   map[string]struct{}
	taken bool
}

// SnapshotStore captures the store's current identifier set.
func SnapshotStore(store openapi3.Schemas) StoreSnapshot {
	ids := make(map[string]struct{}, len(store))
	for id := range store {
		ids[id] = struct{}{}
	}
	return StoreSnapshot{ids: ids, taken: true}
}

// Cleanup removes every store entry created since the snapshot that is not
// reachable from the given roots — the span's actually-emitted parameter,
// body, and response schemas. Entries present at snapshot time always
// survive; a created entry the final output genuinely references always
// survives, including entries reached only through another created entry.
//
// Cleanup is idempotent: with no newly referenced types the store's id set
// is exactly the snapshot set afterward, however many schemas the span
// transiently created.
func (s StoreSnapshot) Cleanup(store openapi3.Schemas, roots ...*openapi3.SchemaRef) error {
	if !s.taken {
		return ErrNoSnapshot
	}
	if store == nil {
		return nil
	}

	referenced := make(map[string]struct{})
	for _, root := range roots {
		markReferenced(root, store, referenced)
	}

	for id := range store {
		if _, existed := s.ids[id]; existed {
			continue
		}
		if _, used := referenced[id]; used {
			continue
		}
		delete(store, id)
	}
	return nil
}

// markReferenced walks a schema graph, recording every store identifier
// reachable through $refs. Ref targets are followed so transitive
// references count.
func markReferenced(sr *openapi3.SchemaRef, store openapi3.Schemas, referenced map[string]struct{}) {
	if sr == nil {
		return
	}

	if sr.Ref != "" {
		id := path.Base(sr.Ref)
		if _, seen := referenced[id]; seen {
			return
		}
		referenced[id] = struct{}{}
		markReferenced(store[id], store, referenced)
		return
	}

	s := sr.Value
	if s == nil {
		return
	}
	for _, prop := range s.Properties {
		markReferenced(prop, store, referenced)
	}
	markReferenced(s.Items, store, referenced)
	markReferenced(s.Not, store, referenced)
	if s.AdditionalProperties.Schema != nil {
		markReferenced(s.AdditionalProperties.Schema, store, referenced)
	}
	for _, ref := range s.AllOf {
		markReferenced(ref, store, referenced)
	}
	for _, ref := range s.AnyOf {
		markReferenced(ref, store, referenced)
	}
	for _, ref := range s.OneOf {
		markReferenced(ref, store, referenced)
	}
}
