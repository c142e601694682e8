// Package todoql is a GraphQL API for a todo list, backed by a local SQLite database.
//
// The list is read with a single Relay-style connection query which pages through the
// todos using opaque cursors, for example:
//
//	{
//	  listTodos(first: 2) {
//	    edges { cursor node { id description done createdAt } }
//	    pageInfo { hasNextPage endCursor }
//	    totalCount
//	  }
//	}
//
// which returns JSON like this:
//
//	{
//	  "data": {
//	    "listTodos": {
//	      "edges": [
//	        { "cursor": "MTcwMDAwMDAwMDox", "node": { "id": "AAAAAAAAAAE", "description": "milk", ... } },
//	        ...
//	      ],
//	      "pageInfo": { "hasNextPage": false, "endCursor": "MTcwMDAwMDAwMDoy" },
//	      "totalCount": 3
//	    }
//	  }
//	}
//
// The next page is obtained by passing endCursor as the "after" argument.  Todos are changed
// with the mutations addTodo, completeTodo, editTodo, removeTodo, toggleAll and clearCompleted.
//
// An App is created once at startup.  Requests can be sent to it directly, as a JSON
// string, using App.Command (this is how the desktop shell calls it) or over HTTP and
// websockets using App.Handler.
package todoql
