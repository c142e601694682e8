package handler

// args.go converts argument values (literals or variables, already checked against the schema) to Go types

import (
	"fmt"

	"github.com/andrewwphillips/todoql/internal/relay"
	"github.com/andrewwphillips/todoql/internal/scalar"
)

// paginationArgs gets the standard connection arguments, any of which may be missing or null
func paginationArgs(args map[string]interface{}) (p relay.Pagination, err error) {
	if p.First, err = optionalIntArg(args, "first"); err != nil {
		return
	}
	if p.Last, err = optionalIntArg(args, "last"); err != nil {
		return
	}
	if p.After, err = optionalCursorArg(args, "after"); err != nil {
		return
	}
	p.Before, err = optionalCursorArg(args, "before")
	return
}

func optionalIntArg(args map[string]interface{}, name string) (*int, error) {
	switch v := args[name].(type) {
	case nil:
		return nil, nil
	case int64:
		i := int(v)
		return &i, nil
	case int:
		return &v, nil
	case float64: // a variable decoded without UseNumber
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("argument %q must be an integer", name)
		}
		i := int(v)
		return &i, nil
	default:
		return nil, fmt.Errorf("argument %q must be an integer not %T", name, v)
	}
}

func optionalCursorArg(args map[string]interface{}, name string) (*relay.Cursor, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &argError{code: "INVALID_CURSOR", arg: name, err: relay.ErrInvalidCursor}
	}
	var c relay.Cursor
	if err := c.UnmarshalGQL(s); err != nil {
		return nil, &argError{code: "INVALID_CURSOR", arg: name, err: err}
	}
	return &c, nil
}

func idArg(args map[string]interface{}, name string) (scalar.ID, error) {
	var id scalar.ID
	if err := id.UnmarshalGQL(fmt.Sprint(args[name])); err != nil {
		return 0, &argError{code: "INVALID_ID", arg: name, err: err}
	}
	return id, nil
}

func stringArg(args map[string]interface{}, name string) (string, error) {
	s, ok := args[name].(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", name)
	}
	return s, nil
}

func boolArg(args map[string]interface{}, name string) (bool, error) {
	b, ok := args[name].(bool)
	if !ok {
		return false, fmt.Errorf("argument %q must be a boolean", name)
	}
	return b, nil
}
