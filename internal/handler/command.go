package handler

// command.go is the entry point used by the desktop shell - one JSON request in, one JSON value out

import (
	"bytes"
	"context"
	"encoding/json"
)

// CommandError is returned by Command when the request fails.  JSON is the encoded
// error response ({"data": null, "errors": [...]}) to be passed back to the shell as is.
type CommandError struct {
	JSON []byte
}

func (e *CommandError) Error() string { return string(e.JSON) }

// Command executes a request of the form {"query": ..., "variables": ..., "operationName": ...}
// and returns the JSON encoded response.  If the request fails (any errors) a *CommandError is returned.
func (h *Handler) Command(ctx context.Context, body []byte) ([]byte, error) {
	var g gqlRequest
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	result := gqlResult{}
	if err := decoder.Decode(&g); err != nil {
		result = errorResult("Error decoding JSON request: " + err.Error())
	} else {
		result = h.Execute(ctx, g)
	}

	buf, err := json.Marshal(result)
	if err != nil {
		buf, _ = json.Marshal(errorResult("Error encoding JSON response: " + err.Error()))
		return nil, &CommandError{JSON: buf}
	}
	if len(result.Errors) > 0 {
		return nil, &CommandError{JSON: buf}
	}
	return buf, nil
}
