package scalar

// id.go implements the GraphQL ID scalar - base64url of an 8-byte big-endian integer

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a record - it is an integer in the store but opaque to clients
type ID int64

// MarshalGQL encodes the ID as base64url (no padding) of its big-endian bytes
func (id ID) MarshalGQL() (string, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	return base64.RawURLEncoding.EncodeToString(buf[:]), nil
}

// UnmarshalGQL decodes an ID previously encoded with MarshalGQL
func (id *ID) UnmarshalGQL(in string) error {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(in, "="))
	if err != nil {
		return fmt.Errorf("Invalid ID, %w", err)
	}
	if len(b) != 8 {
		return fmt.Errorf("Invalid ID, invalid byte length %d", len(b))
	}
	*id = ID(binary.BigEndian.Uint64(b))
	return nil
}

// ParseID is a convenience wrapper around UnmarshalGQL
func ParseID(in string) (ID, error) {
	var id ID
	err := id.UnmarshalGQL(in)
	return id, err
}

// String returns the decimal value of the ID (not the wire encoding)
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
