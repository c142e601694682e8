// Package scalar has the custom GraphQL scalars used by the todo schema (ID and Timestamp).
// Like other custom scalars they are encoded to/decoded from strings using MarshalGQL and
// UnmarshalGQL, while String() gives the plain integer used when building cursors.
package scalar

// Marshaler is implemented by scalars that are encoded as a string in a GraphQL response
type Marshaler interface {
	MarshalGQL() (string, error)
}

// Unmarshaler is implemented by scalars that are decoded from a string argument or variable
type Unmarshaler interface {
	UnmarshalGQL(string) error
}
