package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/andrewwphillips/todoql/internal/handler"
	"github.com/andrewwphillips/todoql/internal/relay"
	"github.com/andrewwphillips/todoql/internal/scalar"
	"github.com/andrewwphillips/todoql/internal/schema"
	"github.com/andrewwphillips/todoql/internal/store"
)

type JsonObject = map[string]interface{}

// created is the (fixed) creation time of all todos added by the tests: 2023-11-14T22:13:20Z
var created = time.Unix(1700000000, 0)

var dbCount int32

// newRepo creates a todo repository in a new in-memory database, adding a todo for each description
func newRepo(t *testing.T, descriptions ...string) *store.TodoRepo {
	t.Helper()
	log, _ := test.NewNullLogger()
	dsn := fmt.Sprintf("file:handler%d?mode=memory&cache=shared", atomic.AddInt32(&dbCount, 1))
	db, err := store.Open(context.Background(), dsn, 1, log)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := store.NewTodoRepo(db, store.Clock(func() time.Time { return created }))
	for _, d := range descriptions {
		if _, err := repo.Add(context.Background(), d); err != nil {
			t.Fatalf("adding todo: %v", err)
		}
	}
	return repo
}

// newHandler creates a handler for the todo schema using repo
func newHandler(repo handler.Repository, options ...func(*handler.Handler)) *handler.Handler {
	log, _ := test.NewNullLogger()
	return handler.New(schema.MustLoad(), repo, append([]func(*handler.Handler){handler.Logger(log)}, options...)...)
}

type gqlResponse struct {
	Data   interface{}
	Errors []struct {
		Message    string
		Path       []interface{}
		Extensions JsonObject
	}
}

// post sends a query (and optional variables as JSON) to the handler and decodes the response
func post(t *testing.T, h http.Handler, query, variables string) (int, gqlResponse) {
	t.Helper()
	body, _ := json.Marshal(struct {
		Query     string          `json:"query"`
		Variables json.RawMessage `json:"variables,omitempty"`
	}{query, json.RawMessage(variables)})

	request := httptest.NewRequest("POST", "/", strings.NewReader(string(body)))
	request.Header.Add("Content-Type", "application/json")
	writer := httptest.NewRecorder()
	h.ServeHTTP(writer, request)

	var result gqlResponse
	if err := json.NewDecoder(writer.Body).Decode(&result); err != nil {
		t.Fatalf("Error decoding JSON: %v", err)
	}
	return writer.Code, result
}

// errorCode returns the code (extensions.code) of the first error, if any
func (r gqlResponse) errorCode() string {
	if len(r.Errors) == 0 {
		return ""
	}
	code, _ := r.Errors[0].Extensions["code"].(string)
	return code
}

// countingRepo records how many times the total count is requested
type countingRepo struct {
	handler.Repository
	totals int32
}

func (r *countingRepo) Total(ctx context.Context) (int, error) {
	atomic.AddInt32(&r.totals, 1)
	return r.Repository.Total(ctx)
}

// brokenRepo fails every call as if the database had gone away
type brokenRepo struct{}

var errBroken = errors.New("database is locked")

func (brokenRepo) List(context.Context, relay.Pagination) ([]store.Todo, error) { return nil, errBroken }
func (brokenRepo) Total(context.Context) (int, error)                           { return 0, errBroken }
func (brokenRepo) Add(context.Context, string) (scalar.ID, error)               { return 0, errBroken }
func (brokenRepo) Complete(context.Context, scalar.ID, bool) (bool, error)      { return false, errBroken }
func (brokenRepo) Edit(context.Context, scalar.ID, string) (bool, error)        { return false, errBroken }
func (brokenRepo) Remove(context.Context, scalar.ID) (bool, error)              { return false, errBroken }
func (brokenRepo) ToggleAll(context.Context, bool) (bool, error)                { return false, errBroken }
func (brokenRepo) ClearCompleted(context.Context) (bool, error)                 { return false, errBroken }

func Assertf(t *testing.T, succeeded bool, format string, args ...interface{}) {
	const (
		succeed = "✓" // tick
		failed  = "XXXXX"  //"✗" // cross
	)

	t.Helper()
	if !succeeded {
		t.Errorf("%-6s"+format, append([]interface{}{failed}, args...)...)
	} else {
		t.Logf("%-6s"+format, append([]interface{}{succeed}, args...)...)
	}
}

func httptestRequest(method, body string) *http.Request {
	request := httptest.NewRequest(method, "/", strings.NewReader(body))
	request.Header.Add("Content-Type", "application/json")
	return request
}

func newRecorder() *httptest.ResponseRecorder { return httptest.NewRecorder() }

// Assertf2 is like Assertf but returns whether the assertion succeeded
func Assertf2(t *testing.T, succeeded bool, format string, args ...interface{}) bool {
	t.Helper()
	Assertf(t, succeeded, format, args...)
	return succeeded
}
