package handler_test

import (
	"net/http"
	"reflect"
	"testing"

	"github.com/andrewwphillips/todoql/internal/handler"
	"github.com/andrewwphillips/todoql/internal/store"
)

const (
	id1 = "AAAAAAAAAAE"
	id2 = "AAAAAAAAAAI"
	id3 = "AAAAAAAAAAM"

	cursor1 = "MTcwMDAwMDAwMDox" // 1700000000:1
	cursor2 = "MTcwMDAwMDAwMDoy"
	cursor3 = "MTcwMDAwMDAwMDoz"

	createdAt = "2023-11-14T22:13:20Z"
)

func todoJSON(id, description string) JsonObject {
	return JsonObject{"id": id, "description": description, "done": false, "createdAt": createdAt}
}

func TestListTodos(t *testing.T) {
	happyData := map[string]struct {
		todos     []string
		lookahead bool
		query     string
		variables string
		expected  interface{}
	}{
		"Empty": {
			nil, false, `{ listTodos { totalCount nodes { id } pageInfo { hasNextPage hasPreviousPage startCursor endCursor } } }`, "",
			JsonObject{"listTodos": JsonObject{
				"totalCount": 0.0,
				"nodes":      []interface{}{},
				"pageInfo":   JsonObject{"hasNextPage": false, "hasPreviousPage": false, "startCursor": nil, "endCursor": nil},
			}},
		},
		"Default": {
			[]string{"a", "b", "c"}, false, `{ listTodos { nodes { id description done createdAt } } }`, "",
			JsonObject{"listTodos": JsonObject{
				"nodes": []interface{}{todoJSON(id1, "a"), todoJSON(id2, "b"), todoJSON(id3, "c")},
			}},
		},
		"FirstMax": {
			[]string{"a", "b", "c"}, false, `{ listTodos(first: 2147483647) { nodes { description } } }`, "",
			JsonObject{"listTodos": JsonObject{
				"nodes": []interface{}{JsonObject{"description": "a"}, JsonObject{"description": "b"}, JsonObject{"description": "c"}},
			}},
		},
		"First2": {
			[]string{"a", "b", "c"}, false,
			`{ listTodos(first: 2) { edges { cursor node { description } } pageInfo { hasNextPage startCursor endCursor } totalCount } }`, "",
			JsonObject{"listTodos": JsonObject{
				"edges": []interface{}{
					JsonObject{"cursor": cursor1, "node": JsonObject{"description": "a"}},
					JsonObject{"cursor": cursor2, "node": JsonObject{"description": "b"}},
				},
				// the store is asked for exactly 2 rows so can't know there are more
				"pageInfo":   JsonObject{"hasNextPage": false, "startCursor": cursor1, "endCursor": cursor2},
				"totalCount": 3.0,
			}},
		},
		"First2Lookahead": {
			[]string{"a", "b", "c"}, true,
			`{ listTodos(first: 2) { nodes { description } pageInfo { hasNextPage hasPreviousPage endCursor } } }`, "",
			JsonObject{"listTodos": JsonObject{
				"nodes":    []interface{}{JsonObject{"description": "a"}, JsonObject{"description": "b"}},
				"pageInfo": JsonObject{"hasNextPage": true, "hasPreviousPage": false, "endCursor": cursor2},
			}},
		},
		"After": {
			[]string{"a", "b", "c"}, false,
			`{ listTodos(first: 2, after: "` + cursor2 + `") { nodes { description } pageInfo { startCursor endCursor } } }`, "",
			JsonObject{"listTodos": JsonObject{
				"nodes":    []interface{}{JsonObject{"description": "c"}},
				"pageInfo": JsonObject{"startCursor": cursor3, "endCursor": cursor3},
			}},
		},
		"AfterLast": {
			[]string{"a", "b", "c"}, false,
			`query ($c: Cursor) { listTodos(after: $c) { nodes { description } } }`, `{"c": "` + cursor3 + `"}`,
			JsonObject{"listTodos": JsonObject{"nodes": []interface{}{}}},
		},
		"Last": {
			[]string{"a", "b", "c"}, false,
			`{ listTodos(last: 2) { nodes { description } pageInfo { hasPreviousPage startCursor endCursor } } }`, "",
			JsonObject{"listTodos": JsonObject{
				"nodes":    []interface{}{JsonObject{"description": "c"}, JsonObject{"description": "b"}},
				"pageInfo": JsonObject{"hasPreviousPage": false, "startCursor": cursor3, "endCursor": cursor2},
			}},
		},
		"LastLookahead": {
			[]string{"a", "b", "c"}, true,
			`{ listTodos(last: 2) { pageInfo { hasPreviousPage hasNextPage } } }`, "",
			JsonObject{"listTodos": JsonObject{"pageInfo": JsonObject{"hasPreviousPage": true, "hasNextPage": false}}},
		},
		"Before": {
			[]string{"a", "b", "c"}, false,
			`{ listTodos(before: "` + cursor3 + `") { nodes { description } } }`, "",
			JsonObject{"listTodos": JsonObject{"nodes": []interface{}{JsonObject{"description": "b"}, JsonObject{"description": "a"}}}},
		},
		"AfterWins": {
			[]string{"a", "b", "c"}, false,
			`{ listTodos(after: "` + cursor1 + `", before: "` + cursor3 + `") { nodes { description } } }`, "",
			JsonObject{"listTodos": JsonObject{"nodes": []interface{}{JsonObject{"description": "b"}, JsonObject{"description": "c"}}}},
		},
		"Zero": {
			[]string{"a"}, false, `{ listTodos(first: 0) { nodes { id } pageInfo { startCursor } } }`, "",
			JsonObject{"listTodos": JsonObject{"nodes": []interface{}{}, "pageInfo": JsonObject{"startCursor": nil}}},
		},
		"Variables": {
			[]string{"a", "b", "c"}, false,
			`query ($n: Int, $c: Cursor) { listTodos(first: $n, after: $c) { nodes { description } } }`,
			`{"n": 1, "c": "` + cursor1 + `"}`,
			JsonObject{"listTodos": JsonObject{"nodes": []interface{}{JsonObject{"description": "b"}}}},
		},
		"NullArgs": {
			[]string{"a"}, false, `{ listTodos(first: null, after: null) { nodes { description } } }`, "",
			JsonObject{"listTodos": JsonObject{"nodes": []interface{}{JsonObject{"description": "a"}}}},
		},
		"Alias": {
			[]string{"a", "b"}, false, `{ one: listTodos(first: 1) { nodes { d: description } } all: listTodos { totalCount } }`, "",
			JsonObject{
				"one": JsonObject{"nodes": []interface{}{JsonObject{"d": "a"}}},
				"all": JsonObject{"totalCount": 2.0},
			},
		},
		"Typename": {
			[]string{"a"}, false, `{ __typename listTodos(first: 1) { __typename edges { __typename node { __typename } } } }`, "",
			JsonObject{
				"__typename": "Query",
				"listTodos": JsonObject{
					"__typename": "TodoConnection",
					"edges":      []interface{}{JsonObject{"__typename": "TodoEdge", "node": JsonObject{"__typename": "Todo"}}},
				},
			},
		},
		"Fragments": {
			[]string{"a"}, false,
			`query { listTodos { ...Conn } } fragment Conn on TodoConnection { totalCount nodes { ... on Todo { description } } }`, "",
			JsonObject{"listTodos": JsonObject{"totalCount": 1.0, "nodes": []interface{}{JsonObject{"description": "a"}}}},
		},
		"Skip": {
			[]string{"a"}, false,
			`query ($s: Boolean!) { listTodos { totalCount @skip(if: $s) nodes @include(if: $s) { description } } }`, `{"s": true}`,
			JsonObject{"listTodos": JsonObject{"nodes": []interface{}{JsonObject{"description": "a"}}}},
		},
	}

	for name, testData := range happyData {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t, testData.todos...)
			store.Lookahead(testData.lookahead)(repo)
			code, result := post(t, newHandler(repo), testData.query, testData.variables)

			Assertf(t, code == http.StatusOK, "Expected status OK, got %d", code)
			Assertf(t, result.Errors == nil, "Expected no error and got %v", result.Errors)
			Assertf(t, reflect.DeepEqual(result.Data, testData.expected), "Expected %v, got %v", testData.expected, result.Data)
		})
	}
}

// TestTotalCountLazy checks that the total is only counted when it's asked for
func TestTotalCountLazy(t *testing.T) {
	lazyData := map[string]struct {
		query    string
		expected int32
	}{
		"NotSelected": {`{ listTodos { nodes { id } } }`, 0},
		"Selected":    {`{ listTodos { totalCount } }`, 1},
		"Fragment":    {`{ listTodos { ... on TodoConnection { totalCount } } }`, 1},
		"Skipped":     {`{ listTodos { nodes { id } totalCount @skip(if: true) } }`, 0},
		"Twice":       {`{ a: listTodos { totalCount } b: listTodos { nodes { id } } }`, 1},
	}

	for name, testData := range lazyData {
		t.Run(name, func(t *testing.T) {
			repo := &countingRepo{Repository: newRepo(t, "a", "b")}
			_, result := post(t, newHandler(repo), testData.query, "")

			Assertf(t, result.Errors == nil, "Expected no error and got %v", result.Errors)
			Assertf(t, repo.totals == testData.expected, "Expected %d total count(s), got %d", testData.expected, repo.totals)
		})
	}
}

// TestNoConcurrency checks that the same results are returned when root fields are resolved sequentially
func TestNoConcurrency(t *testing.T) {
	repo := newRepo(t, "a", "b", "c")
	query := `{ a: listTodos(first: 1) { nodes { description } } b: listTodos(last: 1) { nodes { description } } }`
	expected := JsonObject{
		"a": JsonObject{"nodes": []interface{}{JsonObject{"description": "a"}}},
		"b": JsonObject{"nodes": []interface{}{JsonObject{"description": "c"}}},
	}

	for _, on := range []bool{false, true} {
		_, result := post(t, newHandler(repo, handler.NoConcurrency(on)), query, "")
		Assertf(t, result.Errors == nil, "NoConcurrency(%v): expected no error and got %v", on, result.Errors)
		Assertf(t, reflect.DeepEqual(result.Data, expected), "NoConcurrency(%v): expected %v, got %v", on, expected, result.Data)
	}
}
