// Package handler executes GraphQL requests against the todo schema.  A Handler is
// created once and shared by all requests; it can be used as an HTTP handler
// (including upgrading to a websocket) or called directly through Command.
package handler

// handler.go implements the handler and it's ServeHTTP method

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/andrewwphillips/todoql/internal/relay"
	"github.com/andrewwphillips/todoql/internal/scalar"
	"github.com/andrewwphillips/todoql/internal/store"
)

type (
	// Repository is the storage used by the resolvers (implemented by store.TodoRepo)
	Repository interface {
		List(ctx context.Context, p relay.Pagination) ([]store.Todo, error)
		Total(ctx context.Context) (int, error)
		Add(ctx context.Context, description string) (scalar.ID, error)
		Complete(ctx context.Context, id scalar.ID, done bool) (bool, error)
		Edit(ctx context.Context, id scalar.ID, description string) (bool, error)
		Remove(ctx context.Context, id scalar.ID) (bool, error)
		ToggleAll(ctx context.Context, done bool) (bool, error)
		ClearCompleted(ctx context.Context) (bool, error)
	}

	// Handler stores the invariants (schema, repository and options) used by all GraphQL requests
	Handler struct {
		schema *ast.Schema
		repo   Repository

		log      logrus.FieldLogger
		auth     *Auth
		registry *prometheus.Registry
		metrics  *metrics

		noConcurrency                              bool
		initialTimeout, pingFrequency, pongTimeout time.Duration
	}
)

// New returns a handler for the schema (see schema.Load) which uses repo to resolve the queries and mutations
func New(schema *ast.Schema, repo Repository, options ...func(*Handler)) *Handler {
	h := &Handler{
		schema: schema,
		repo:   repo,
	}
	h.SetOptions(options...)
	return h
}

// ServeHTTP receives a GraphQL query as an HTTP request, executes the
// query (or mutation) and generates an HTTP response or error message
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"data": null,"errors": [{"message": "Unauthorized"}]}`))
		return
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		h.serveWS(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Decode the request (JSON)
	var g gqlRequest
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber() // allows us to distinguish ints from floats (see FixNumberVariables() below)
	if err := decoder.Decode(&g); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		buf, _ := json.Marshal(errorResult("Error decoding JSON request: " + err.Error()))
		w.Write(buf)
		return
	}

	if buf, err := json.Marshal(h.Execute(r.Context(), g)); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		buf, _ = json.Marshal(errorResult("Error encoding JSON response: " + err.Error()))
		w.Write(buf)
	} else {
		w.Write(buf)
	}
}

// FixNumberVariables goes through the structure created by the JSON decoder, converting any json.Number values to
// either an int64 or a float64.  This assumes that all the JSON numbers were decoded into a json.Number type, rather
// than int/float, by use of the json.Decode.UseNumber() method.
func FixNumberVariables(m map[string]interface{}) {
	for key, val := range m {
		m[key] = fixNumber(val)
	}
}

func fixNumber(val interface{}) interface{} {
	switch v := val.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String() // leave it for the validator to reject
	case map[string]interface{}:
		FixNumberVariables(v)
	case []interface{}:
		for i := range v {
			v[i] = fixNumber(v[i])
		}
	}
	return val
}
