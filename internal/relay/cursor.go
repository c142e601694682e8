// Package relay implements Relay style cursor connections: an opaque cursor codec,
// validation of the first/after/last/before pagination arguments and a builder
// that wraps a page of records into edges plus page info.
package relay

// cursor.go encodes and decodes cursors - base64url of "<timestamp>:<id>"

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/andrewwphillips/todoql/internal/scalar"
)

// ErrInvalidCursor is returned for any cursor string that was not produced by Cursor.String
var ErrInvalidCursor = errors.New("Invalid cursor format")

// Cursor identifies the position of a record in the (id, created_at) ordering
type Cursor struct {
	ID        scalar.ID
	CreatedAt scalar.Timestamp
}

// NewCursor makes a cursor for the record with the given ID and creation time
func NewCursor(id scalar.ID, createdAt scalar.Timestamp) Cursor {
	return Cursor{ID: id, CreatedAt: createdAt}
}

// EncodeCursor returns the opaque string form of (id, createdAt)
func EncodeCursor(id scalar.ID, createdAt scalar.Timestamp) string {
	return base64.RawURLEncoding.EncodeToString([]byte(createdAt.String() + ":" + id.String()))
}

// DecodeCursor is the inverse of EncodeCursor.  Anything malformed gives ErrInvalidCursor.
func DecodeCursor(s string) (Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil || !utf8.Valid(b) {
		return Cursor{}, ErrInvalidCursor
	}
	createdAt, id, found := strings.Cut(string(b), ":")
	if !found {
		return Cursor{}, ErrInvalidCursor
	}
	ts, err := strconv.ParseInt(createdAt, 10, 64)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{ID: scalar.ID(n), CreatedAt: scalar.Timestamp(ts)}, nil
}

// String returns the encoded cursor
func (c Cursor) String() string {
	return EncodeCursor(c.ID, c.CreatedAt)
}

// MarshalGQL encodes the cursor for a GraphQL response
func (c Cursor) MarshalGQL() (string, error) {
	return c.String(), nil
}

// UnmarshalGQL decodes a cursor argument or variable
func (c *Cursor) UnmarshalGQL(in string) error {
	tmp, err := DecodeCursor(in)
	if err != nil {
		return err
	}
	*c = tmp
	return nil
}
