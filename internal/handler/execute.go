package handler

// execute.go handles the execution of a GraphQL request

import (
	"context"
	"time"

	"github.com/dolmen-go/jsonmap"
	"github.com/sirupsen/logrus"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

type (
	// gqlRequest is a standard GraphQL request as decoded from JSON
	gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName,omitempty"`
		Variables     map[string]interface{} `json:"variables,omitempty"`
	}

	// gqlResult contains the result (or errors) of the request to be encoded in JSON.
	// If there are any errors there is no data (no partial results).
	gqlResult struct {
		Data   interface{}   `json:"data"`
		Errors gqlerror.List `json:"errors,omitempty"`
	}
)

func errorResult(message string) gqlResult {
	return gqlResult{Errors: gqlerror.List{{Message: message}}}
}

// Execute parses, validates and runs the request and returns the result
func (h *Handler) Execute(ctx context.Context, g gqlRequest) (r gqlResult) {
	start := time.Now()
	opType := "unknown"
	log := h.log.WithField("operation", g.OperationName)
	defer func() {
		elapsed := time.Since(start)
		h.metrics.observe(opType, len(r.Errors) == 0, elapsed)
		log = log.WithFields(logrus.Fields{"type": opType, "elapsed": elapsed})
		if len(r.Errors) > 0 {
			log.WithField("errors", r.Errors.Error()).Warn("graphql operation failed")
		} else {
			log.Debug("graphql operation")
		}
	}()

	// Since variables are sent as JSON (which does not distinguish int/float) we need to decide
	FixNumberVariables(g.Variables)

	// First analyse and validate the query string
	query, errs := gqlparser.LoadQuery(h.schema, g.Query)
	if errs != nil {
		r.Errors = errs
		return
	}

	operation := query.Operations.ForName(g.OperationName)
	if operation == nil {
		if g.OperationName == "" {
			r.Errors = gqlerror.List{gqlerror.Errorf("operation name is required when the document has more than one operation")}
		} else {
			r.Errors = gqlerror.List{gqlerror.Errorf("operation %q not found", g.OperationName)}
		}
		return
	}
	opType = string(operation.Operation)

	op := gqlOperation{Handler: h}
	var err error
	if op.variables, err = validator.VariableValues(h.schema, operation, g.Variables); err != nil {
		r.Errors = gqlerror.List{asGQLError(err)}
		return
	}

	var data jsonmap.Ordered
	switch operation.Operation {
	case ast.Query:
		data, err = op.GetSelections(ctx, operation.SelectionSet, root{}, nil)
	case ast.Mutation:
		op.isMutation = true // mutations (and their root fields) are run sequentially
		data, err = op.GetSelections(ctx, operation.SelectionSet, root{}, nil)
	default:
		r.Errors = gqlerror.List{gqlerror.Errorf("%s operations are not supported", operation.Operation)}
		return
	}
	if err != nil {
		r.Errors = gqlerror.List{asGQLError(err)}
		return
	}
	r.Data = data
	return
}
