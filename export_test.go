package fluentspec

import (
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/invopop/jsonschema"
)

// OpenAPINode exposes the reference-model node for constraint tests.
func OpenAPINode(s *openapi3.Schema) SchemaNode { return &openapiNode{s: s} }

// JSONSchemaNode exposes the tree-model node for constraint tests.
func JSONSchemaNode(s *jsonschema.Schema) SchemaNode { return &jsonschemaNode{s: s} }
