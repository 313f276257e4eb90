package fluentspec

import (
	"io"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// WriteDoc writes an augmented OpenAPI document as indented JSON.
func WriteDoc(w io.Writer, doc *openapi3.T) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteDocYAML writes an augmented OpenAPI document as YAML.
func WriteDocYAML(w io.Writer, doc *openapi3.T) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return yaml.NewEncoder(w).Encode(v)
}

// ServeDoc returns a handler that serves the document as JSON.
func ServeDoc(doc *openapi3.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(doc)
	})
}

// ServeDocYAML returns a handler that serves the document as YAML.
func ServeDocYAML(doc *openapi3.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		WriteDocYAML(w, doc)
	})
}
