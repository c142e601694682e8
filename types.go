package todoql

// types.go has the scalar and record types that appear in requests and responses

import (
	"github.com/andrewwphillips/todoql/internal/handler"
	"github.com/andrewwphillips/todoql/internal/relay"
	"github.com/andrewwphillips/todoql/internal/scalar"
	"github.com/andrewwphillips/todoql/internal/store"
)

// ID is the GraphQL ID of a todo.  It is an integer in the store but is encoded (base64url of
// its 8 big-endian bytes) in requests and responses.
type ID = scalar.ID

// Timestamp is a custom scalar for the creation time of a todo (RFC3339 in responses)
type Timestamp = scalar.Timestamp

// Cursor is the opaque position of a todo as used in the after/before arguments of listTodos
type Cursor = relay.Cursor

// Todo is a single item of the list
type Todo = store.Todo

// CommandError is returned by App.Command for a failed request - its JSON is the error response
type CommandError = handler.CommandError

// ParseID decodes the GraphQL form of an ID
func ParseID(s string) (ID, error) {
	return scalar.ParseID(s)
}

// ParseCursor decodes a cursor returned in an edge or pageInfo
func ParseCursor(s string) (Cursor, error) {
	return relay.DecodeCursor(s)
}
