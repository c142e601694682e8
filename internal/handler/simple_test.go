package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/andrewwphillips/todoql/internal/handler"
)

func TestSimple(t *testing.T) {
	// Create handler with a store holding a single todo
	h := newHandler(newRepo(t, "world"))

	// Create a HTTP request that invokes the GraphQL "listTodos" query
	request := httptest.NewRequest("POST", "/",
		strings.NewReader(`{ "query": "{ listTodos { nodes { description } } }" }`))
	request.Header.Add("Content-Type", "application/json")

	// Invoke the handler, recording the response
	writer := httptest.NewRecorder()
	h.ServeHTTP(writer, request)

	// Check the results
	if writer.Result().StatusCode != http.StatusOK {
		t.Fatalf("Unexpected response code %d", writer.Code)
	}
	var rv struct {
		Data *struct {
			ListTodos struct {
				Nodes []struct{ Description string }
			}
		}
		Errors []struct {
			Message    string
			Path       []interface{}
			Locations  []struct{ Line, Column int }
			Extensions map[string]interface{}
		}
	}
	json.Unmarshal(writer.Body.Bytes(), &rv)
	if rv.Errors != nil {
		t.Fatalf("Got unexpected error(s) - first Error: %q", rv.Errors[0].Message)
	}
	if rv.Data == nil {
		t.Fatalf("No data returned from the query")
	}
	if len(rv.Data.ListTodos.Nodes) != 1 || rv.Data.ListTodos.Nodes[0].Description != "world" {
		t.Fatalf("Expected one todo (world) got %v", rv.Data.ListTodos.Nodes)
	}
}

func TestErrorLocation(t *testing.T) {
	h := newHandler(newRepo(t))

	request := httptest.NewRequest("POST", "/",
		strings.NewReader(`{ "query": "{\n  listTodos(first: -3) { totalCount }\n}" }`))
	writer := httptest.NewRecorder()
	h.ServeHTTP(writer, request)

	var rv struct {
		Data   interface{}
		Errors []struct {
			Message   string
			Path      []interface{}
			Locations []struct{ Line, Column int }
		}
	}
	if err := json.Unmarshal(writer.Body.Bytes(), &rv); err != nil {
		t.Fatalf("Error decoding JSON: %v", err)
	}
	if len(rv.Errors) != 1 {
		t.Fatalf("Expected one error, got %v", rv.Errors)
	}
	Assertf(t, reflect.DeepEqual(rv.Errors[0].Path, []interface{}{"listTodos"}), "Expected path [listTodos], got %v", rv.Errors[0].Path)
	Assertf(t, len(rv.Errors[0].Locations) == 1 && rv.Errors[0].Locations[0].Line == 2 && rv.Errors[0].Locations[0].Column == 3,
		"Expected location 2:3, got %v", rv.Errors[0].Locations)
}

func TestFixNumberVariables(t *testing.T) {
	var vars map[string]interface{}
	decoder := json.NewDecoder(strings.NewReader(`{"i": 42, "f": 1.5, "nested": {"j": -7}, "list": [1, 2.5], "s": "3"}`))
	decoder.UseNumber()
	if err := decoder.Decode(&vars); err != nil {
		t.Fatalf("Error decoding JSON: %v", err)
	}

	handler.FixNumberVariables(vars)
	expected := map[string]interface{}{
		"i":      int64(42),
		"f":      1.5,
		"nested": map[string]interface{}{"j": int64(-7)},
		"list":   []interface{}{int64(1), 2.5},
		"s":      "3",
	}
	Assertf(t, reflect.DeepEqual(vars, expected), "Expected %v, got %v", expected, vars)
}
