package handler

// result.go is used to generate the query output (an ordered JSON object per selection set)

import (
	"context"
	"errors"
	"fmt"

	"github.com/dolmen-go/jsonmap"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"golang.org/x/sync/errgroup"

	"github.com/andrewwphillips/todoql/internal/relay"
	"github.com/andrewwphillips/todoql/internal/scalar"
	"github.com/andrewwphillips/todoql/internal/store"
)

type (
	// gqlOperation controls an operation (query/mutation) of a GraphQL request
	gqlOperation struct {
		*Handler // required for the repository, schema etc

		isMutation bool
		variables  map[string]interface{} // variables valid for this op (extracted from the request)
	}

	// root is the parent "object" of the fields of the query and mutation types
	root struct{}
)

// GetSelections resolves the selections of an object.  Returns a jsonmap.Ordered (a map of values and a slice
// that remembers the order they were added) with an entry for each selected field (or alias) where the value is:
//
//	a) scalar value (stored in an interface{})
//	b) a nested jsonmap.Ordered if the field is an object
//	c) a slice (ie []interface{}) for a list
//
// The root fields of a query are resolved concurrently unless the NoConcurrency option is on.
// The first error stops the whole operation.
func (op *gqlOperation) GetSelections(ctx context.Context, set ast.SelectionSet, parent interface{}, path ast.Path,
) (jsonmap.Ordered, error) {
	fields := op.collectFields(set)
	values := make([]interface{}, len(fields))

	if _, isRoot := parent.(root); isRoot && !op.isMutation && !op.noConcurrency && len(fields) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for i, astField := range fields {
			i, astField := i, astField
			g.Go(func() (err error) {
				values[i], err = op.wrapResolve(gctx, astField, parent, path)
				return
			})
		}
		if err := g.Wait(); err != nil {
			return jsonmap.Ordered{}, err
		}
	} else {
		for i, astField := range fields {
			var err error
			if values[i], err = op.wrapResolve(ctx, astField, parent, path); err != nil {
				return jsonmap.Ordered{}, err
			}
		}
	}

	r := jsonmap.Ordered{
		Data:  make(map[string]interface{}, len(fields)),
		Order: make([]string, 0, len(fields)),
	}
	for i, astField := range fields {
		r.Order = append(r.Order, astField.Alias)
		r.Data[astField.Alias] = values[i]
	}
	return r, nil
}

// collectFields flattens fragments and removes fields excluded by @skip/@include.  Fields with the same
// response name (alias) are merged into one, with their selection sets combined.
func (op *gqlOperation) collectFields(set ast.SelectionSet) []*ast.Field {
	var r []*ast.Field
	index := make(map[string]int)

	var collect func(set ast.SelectionSet)
	collect = func(set ast.SelectionSet) {
		for _, s := range set {
			switch sel := s.(type) {
			case *ast.Field:
				if op.directiveBypass(sel.Directives) {
					continue
				}
				if i, ok := index[sel.Alias]; ok {
					merged := *r[i]
					merged.SelectionSet = append(append(ast.SelectionSet{}, merged.SelectionSet...), sel.SelectionSet...)
					r[i] = &merged
					continue
				}
				index[sel.Alias] = len(r)
				r = append(r, sel)

			case *ast.InlineFragment:
				if !op.directiveBypass(sel.Directives) {
					collect(sel.SelectionSet)
				}

			case *ast.FragmentSpread:
				if !op.directiveBypass(sel.Directives) && sel.Definition != nil {
					collect(sel.Definition.SelectionSet)
				}
			}
		}
	}
	collect(set)
	return r
}

// directiveBypass handles the standard "skip" and "include" directives
// Returns: true if a directive indicates the selection is not to be processed
func (op *gqlOperation) directiveBypass(directives ast.DirectiveList) bool {
	for _, d := range directives {
		if d.Name != "skip" && d.Name != "include" {
			continue
		}
		if b, ok := d.ArgumentMap(op.variables)["if"].(bool); ok && b == (d.Name == "skip") {
			return true
		}
	}
	return false
}

// wrapResolve calls resolve converting any panic to an (internal) error
func (op *gqlOperation) wrapResolve(ctx context.Context, astField *ast.Field, parent interface{}, path ast.Path,
) (value interface{}, err error) {
	path = append(path[:len(path):len(path)], ast.PathName(astField.Alias))
	defer func() {
		if recoverValue := recover(); recoverValue != nil {
			op.log.WithField("field", astField.Name).Errorf("resolver panic: %v", recoverValue)
			value, err = nil, op.fieldError(fmt.Errorf("Internal error: panic %v", recoverValue), astField, path)
		}
	}()
	if err = ctx.Err(); err != nil {
		return nil, op.fieldError(err, astField, path)
	}
	return op.resolve(ctx, astField, parent, path)
}

// resolve finds the value of a field of parent, then converts it to its JSON form, resolving any sub-selections
func (op *gqlOperation) resolve(ctx context.Context, astField *ast.Field, parent interface{}, path ast.Path,
) (interface{}, error) {
	if astField.Name == "__typename" { // __typename is a special introspection field (see GraphQL spec)
		return astField.ObjectDefinition.Name, nil
	}

	v, err := op.resolveField(ctx, astField, parent)
	if err != nil {
		return nil, op.fieldError(err, astField, path)
	}

	switch value := v.(type) {
	case nil:
		return nil, nil
	case []relay.Edge[store.Todo]:
		return completeList(ctx, op, astField, value, path)
	case []store.Todo:
		return completeList(ctx, op, astField, value, path)
	case []typeRef:
		return completeList(ctx, op, astField, value, path)
	case []*ast.FieldDefinition:
		return completeList(ctx, op, astField, value, path)
	case []inputValue:
		return completeList(ctx, op, astField, value, path)
	case []*ast.EnumValueDefinition:
		return completeList(ctx, op, astField, value, path)
	case []*ast.DirectiveDefinition:
		return completeList(ctx, op, astField, value, path)
	case scalar.Marshaler:
		s, err := value.MarshalGQL()
		if err != nil {
			return nil, op.fieldError(fmt.Errorf("%w marshaling custom scalar", err), astField, path)
		}
		return s, nil
	}
	if len(astField.SelectionSet) > 0 {
		return op.GetSelections(ctx, astField.SelectionSet, v, path)
	}
	return v, nil // Int, String or Boolean
}

// completeList resolves the sub-selections of each element of a list of objects
func completeList[T any](ctx context.Context, op *gqlOperation, astField *ast.Field, list []T, path ast.Path,
) ([]interface{}, error) {
	results := make([]interface{}, 0, len(list)) // to distinguish empty slice from nil slice
	for i, elt := range list {
		value, err := op.GetSelections(ctx, astField.SelectionSet, elt, append(path[:len(path):len(path)], ast.PathIndex(i)))
		if err != nil {
			return nil, err
		}
		results = append(results, value)
	}
	return results, nil
}

// fieldError converts an error from resolving a field into a GraphQL error (unless it already is one)
func (op *gqlOperation) fieldError(err error, astField *ast.Field, path ast.Path) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}
	gqlErr = asGQLError(err)
	gqlErr.Path = path
	if astField.Position != nil {
		gqlErr.Locations = []gqlerror.Location{{Line: astField.Position.Line, Column: astField.Position.Column}}
	}
	var se *storeError
	if errors.As(err, &se) {
		op.log.WithError(se.err).WithField("path", path.String()).Error("store failure")
		gqlErr.Message = "Internal error: store failure"
	}
	return gqlErr
}
