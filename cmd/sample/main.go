// Command sample demonstrates augmenting a generated OpenAPI document with
// validation-rule constraints.
//
// Run:
//
//	go run ./cmd/sample            — serve docs on :8080
//	go run ./cmd/sample -spec      — print the augmented spec to stdout
//
// Then explore:
//
//	GET http://localhost:8080/openapi.json — augmented spec (JSON)
//	GET http://localhost:8080/openapi.yaml — augmented spec (YAML)
//	GET http://localhost:8080/docs         — docs UI
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/bjaus/fluentspec"
)

// CreateUser is the request body model for POST /users.
type CreateUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
	Role  string `json:"role"`
}

// ListUsers groups the query parameters for GET /users. The generator
// flattens it into individual parameters; its schema never appears in the
// published document.
type ListUsers struct {
	Page    int    `query:"page" doc:"Page number"`
	PerPage int    `query:"per_page" doc:"Items per page"`
	Search  string `query:"search" doc:"Name filter"`
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	specFlag := flag.Bool("spec", false, "Print the augmented spec to stdout and exit")
	flag.Parse()

	doc, err := buildDoc()
	if err != nil {
		slog.Error("spec generation failed", "err", err)
		os.Exit(1)
	}

	if *specFlag {
		if err := fluentspec.WriteDoc(os.Stdout, doc); err != nil {
			slog.Error("spec write failed", "err", err)
			os.Exit(1)
		}
		return
	}

	mux := http.NewServeMux()
	mux.Handle("GET /openapi.json", fluentspec.ServeDoc(doc))
	mux.Handle("GET /openapi.yaml", fluentspec.ServeDocYAML(doc))
	mux.Handle("GET /docs", fluentspec.ServeDocs(fluentspec.WithDocsTitle("Users API")))

	slog.Info("starting server", "addr", ":8080", "spec", "http://localhost:8080/openapi.json")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := &http.Server{Addr: ":8080", Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		//nolint:errcheck // best-effort shutdown
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
	}
	slog.Info("server stopped")
}

func buildDoc() (*openapi3.T, error) {
	reg := fluentspec.NewRegistry()

	fluentspec.Register[CreateUser](reg, fluentspec.NewValidator().
		RuleFor("Name", fluentspec.NotEmpty(), fluentspec.MaximumLength(100)).
		RuleFor("Email", fluentspec.NotEmpty(), fluentspec.EmailAddress()).
		RuleFor("Age", fluentspec.InclusiveBetween(0, 150)).
		RuleFor("Role", fluentspec.InEnum("admin", "member", "viewer")))

	fluentspec.Register[ListUsers](reg, fluentspec.NewValidator().
		RuleFor("Page", fluentspec.GreaterThan(0)).
		RuleFor("PerPage", fluentspec.InclusiveBetween(1, 100)).
		RuleFor("Search", fluentspec.MaximumLength(50)))

	a := fluentspec.New(reg)

	store := openapi3.Schemas{}

	// Host generation: POST /users carries CreateUser as its body, GET
	// /users flattens ListUsers into query parameters.
	createOp := fluentspec.BuildOperation("POST", reflect.TypeFor[struct{ Body CreateUser }](), store)
	listOp := fluentspec.BuildOperation("GET", reflect.TypeFor[ListUsers](), store)

	// Augmentation: per-type hook for every stored schema, per-operation
	// hook for each operation.
	a.AugmentSchema(reflect.TypeFor[CreateUser](), store["CreateUser"].Value, store)
	if err := a.AugmentOperation(createOp, reflect.TypeFor[CreateUser](), store); err != nil {
		return nil, err
	}
	if err := a.AugmentOperation(listOp, reflect.TypeFor[ListUsers](), store); err != nil {
		return nil, err
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: "Users API", Version: "1.0.0"},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: store,
		},
	}
	doc.Paths.Set("/users", &openapi3.PathItem{Get: listOp, Post: createOp})
	return doc, nil
}
