package handler

// errors.go has the errors that resolvers return and their conversion to GraphQL errors

import (
	"errors"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/andrewwphillips/todoql/internal/relay"
)

type (
	// argError is an argument value that could not be decoded (eg a malformed cursor)
	argError struct {
		code string
		arg  string
		err  error
	}

	// storeError wraps any error from the repository - the details are logged, not returned to the client
	storeError struct {
		err error
	}
)

func (e *argError) Error() string { return e.err.Error() }
func (e *argError) Unwrap() error { return e.err }

func (e *storeError) Error() string { return "store failure: " + e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

// classify gets the machine-readable code (and any other extensions) of an error
func classify(err error) (string, map[string]interface{}) {
	var relayErr *relay.Error
	var ae *argError
	var se *storeError
	switch {
	case errors.As(err, &relayErr):
		return relayErr.Code, relayErr.Extensions
	case errors.As(err, &ae):
		return ae.code, map[string]interface{}{"argument": ae.arg}
	case errors.As(err, &se):
		return "STORE_ERROR", nil
	}
	return "", nil
}

// asGQLError makes sure an error returned from the execution is a *gqlerror.Error
func asGQLError(err error) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}
	gqlErr = &gqlerror.Error{Err: err, Message: err.Error()}
	if code, extensions := classify(err); code != "" {
		gqlErr.Extensions = map[string]interface{}{"code": code}
		for k, v := range extensions {
			gqlErr.Extensions[k] = v
		}
	}
	return gqlErr
}
