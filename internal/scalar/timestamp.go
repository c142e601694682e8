package scalar

// timestamp.go implements a GraphQL date/time type called "Timestamp" which is held as epoch seconds

import (
	"fmt"
	"strconv"
	"time"
)

const timeFormat = time.RFC3339 // GraphQL spec says that any date/time ext. scalar type should use this format (ISO-8601)

// Timestamp is a point in time with a resolution of one second, stored as seconds since the Unix epoch
type Timestamp int64

// Now returns the current time as a Timestamp
func Now() Timestamp {
	return Timestamp(time.Now().Unix())
}

// FromTime truncates a time.Time to a Timestamp
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.Unix())
}

// Time converts back to a time.Time (UTC)
func (ts Timestamp) Time() time.Time {
	return time.Unix(int64(ts), 0).UTC()
}

// UnmarshalGQL is called to decode an RFC3339 string argument to a Timestamp
func (ts *Timestamp) UnmarshalGQL(in string) error {
	tmp, err := time.Parse(timeFormat, in)
	if err != nil {
		return fmt.Errorf("%w error in UnmarshalGQL for custom scalar Timestamp", err)
	}
	*ts = FromTime(tmp)
	return nil
}

// MarshalGQL encodes a Timestamp as an RFC3339 string
func (ts Timestamp) MarshalGQL() (string, error) {
	return ts.Time().Format(timeFormat), nil
}

// String returns the number of seconds (used in cursors, not in responses)
func (ts Timestamp) String() string {
	return strconv.FormatInt(int64(ts), 10)
}
