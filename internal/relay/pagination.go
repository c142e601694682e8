package relay

// pagination.go validates the pagination arguments of a connection field

import (
	"math"
)

// DefaultLimit is the page size used when neither first nor last is given
const DefaultLimit = 10

// Kinds of pagination errors, for use with errors.Is
var (
	ErrOutOfRange         = &Error{Code: "VALUE_OUT_OF_RANGE"}
	ErrInvalidCombination = &Error{Code: "INVALID_PARAM_COMBINATION"}
	ErrDirectionConflict  = &Error{Code: "DIRECTION_CONFLICT"}
)

type (
	// Pagination holds the standard connection arguments.  A nil field means the argument was not supplied.
	Pagination struct {
		First  *int
		After  *Cursor
		Last   *int
		Before *Cursor
	}

	// Error is a pagination argument error with a machine-readable code and the relevant bounds/params
	Error struct {
		Code       string
		Message    string
		Extensions map[string]interface{}
	}
)

func (e *Error) Error() string { return e.Message }

// Is matches any error of the same kind (code) so that errors.Is(err, ErrOutOfRange) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Validate checks the combination of arguments, in order of precedence:
// first or last out of range, first with last, first with before, last with after.
// Note that after+before and no arguments at all are allowed.
func (p Pagination) Validate() error {
	switch {
	case p.First != nil && (*p.First < 0 || *p.First > math.MaxInt32):
		return outOfRange("first")
	case p.Last != nil && (*p.Last < 0 || *p.Last > math.MaxInt32):
		return outOfRange("last")
	case p.First != nil && p.Last != nil:
		return &Error{
			Code:    ErrInvalidCombination.Code,
			Message: "Cannot use both 'first' and 'last'",
			Extensions: map[string]interface{}{
				"allowed": []interface{}{"first+after", "last+before"},
			},
		}
	case p.First != nil && p.Before != nil:
		return &Error{Code: ErrDirectionConflict.Code, Message: "'first' cannot be used with 'before'"}
	case p.After != nil && p.Last != nil:
		return &Error{Code: ErrDirectionConflict.Code, Message: "'last' cannot be used with 'after'"}
	}
	return nil
}

func outOfRange(arg string) *Error {
	return &Error{
		Code:    ErrOutOfRange.Code,
		Message: "'" + arg + "' argument must be positive number",
		Extensions: map[string]interface{}{
			"argument": arg,
			"min":      0,
			"max":      math.MaxInt32,
		},
	}
}

// Limit is the page size: first, else last, else DefaultLimit
func (p Pagination) Limit() int {
	if p.First != nil {
		return *p.First
	}
	if p.Last != nil {
		return *p.Last
	}
	return DefaultLimit
}

// Backward says whether records are read in descending (id, created_at) order.
// An after cursor always reads forward (it wins if before is also given).
func (p Pagination) Backward() bool {
	if p.After != nil {
		return false
	}
	return p.Before != nil || p.Last != nil
}
