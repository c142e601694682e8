package handler

// resolve.go finds the value of each field - dispatched on the schema.Field of (parent type, field name)

import (
	"context"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/andrewwphillips/todoql/internal/relay"
	"github.com/andrewwphillips/todoql/internal/schema"
	"github.com/andrewwphillips/todoql/internal/store"
)

type todoConnection = relay.Connection[store.Todo]

// resolveField returns the (Go) value of a field of parent.  Objects are returned as values that a
// later call can be passed as the parent of their own fields.
func (op *gqlOperation) resolveField(ctx context.Context, astField *ast.Field, parent interface{}) (interface{}, error) {
	f, ok := schema.Lookup(astField.ObjectDefinition.Name, astField.Name)
	if !ok {
		return nil, fmt.Errorf("no resolver for %s.%s", astField.ObjectDefinition.Name, astField.Name)
	}
	args := astField.ArgumentMap(op.variables)
	if f.IsIntrospection() {
		return op.introspect(f, args, parent)
	}

	switch f {
	case schema.QueryListTodos:
		p, err := paginationArgs(args)
		if err != nil {
			return nil, err
		}
		return relay.Resolve(ctx, p, op.listTodos, op.totalTodos, op.selects(astField.SelectionSet, schema.ConnectionTotalCount))

	case schema.MutationAddTodo:
		description, err := stringArg(args, "description")
		if err != nil {
			return nil, err
		}
		id, err := op.repo.Add(ctx, description)
		if err != nil {
			return nil, &storeError{err}
		}
		return id, nil
	case schema.MutationCompleteTodo:
		id, err := idArg(args, "id")
		if err != nil {
			return nil, err
		}
		done, err := boolArg(args, "done")
		if err != nil {
			return nil, err
		}
		return storeResult(op.repo.Complete(ctx, id, done))
	case schema.MutationRemoveTodo:
		id, err := idArg(args, "id")
		if err != nil {
			return nil, err
		}
		return storeResult(op.repo.Remove(ctx, id))
	case schema.MutationEditTodo:
		id, err := idArg(args, "id")
		if err != nil {
			return nil, err
		}
		description, err := stringArg(args, "description")
		if err != nil {
			return nil, err
		}
		return storeResult(op.repo.Edit(ctx, id, description))
	case schema.MutationToggleAll:
		done, err := boolArg(args, "done")
		if err != nil {
			return nil, err
		}
		return storeResult(op.repo.ToggleAll(ctx, done))
	case schema.MutationClearCompleted:
		return storeResult(op.repo.ClearCompleted(ctx))

	case schema.TodoID:
		return parent.(store.Todo).ID, nil
	case schema.TodoDescription:
		return parent.(store.Todo).Description, nil
	case schema.TodoDone:
		return parent.(store.Todo).Done, nil
	case schema.TodoCreatedAt:
		return parent.(store.Todo).CreatedAt, nil

	case schema.ConnectionEdges:
		return parent.(*todoConnection).Edges, nil
	case schema.ConnectionNodes:
		return parent.(*todoConnection).Nodes(), nil
	case schema.ConnectionTotalCount:
		return parent.(*todoConnection).TotalCount, nil
	case schema.ConnectionPageInfo:
		return parent.(*todoConnection).PageInfo, nil

	case schema.EdgeNode:
		return parent.(relay.Edge[store.Todo]).Node, nil
	case schema.EdgeCursor:
		return parent.(relay.Edge[store.Todo]).Cursor, nil

	case schema.PageInfoHasPreviousPage:
		return parent.(relay.PageInfo).HasPreviousPage, nil
	case schema.PageInfoHasNextPage:
		return parent.(relay.PageInfo).HasNextPage, nil
	case schema.PageInfoStartCursor:
		return optionalCursor(parent.(relay.PageInfo).StartCursor), nil
	case schema.PageInfoEndCursor:
		return optionalCursor(parent.(relay.PageInfo).EndCursor), nil
	}
	return nil, fmt.Errorf("field %s is not implemented", f)
}

func (op *gqlOperation) listTodos(ctx context.Context, p relay.Pagination) ([]store.Todo, error) {
	todos, err := op.repo.List(ctx, p)
	if err != nil {
		return nil, &storeError{err}
	}
	return todos, nil
}

func (op *gqlOperation) totalTodos(ctx context.Context) (int, error) {
	n, err := op.repo.Total(ctx)
	if err != nil {
		return 0, &storeError{err}
	}
	return n, nil
}

// selects says whether the selection set (after fragments and directives) asks for the field
func (op *gqlOperation) selects(set ast.SelectionSet, want schema.Field) bool {
	for _, astField := range op.collectFields(set) {
		if astField.ObjectDefinition == nil {
			continue
		}
		if f, ok := schema.Lookup(astField.ObjectDefinition.Name, astField.Name); ok && f == want {
			return true
		}
	}
	return false
}

// storeResult adapts the (bool, error) returned by the repository mutations
func storeResult(ok bool, err error) (interface{}, error) {
	if err != nil {
		return nil, &storeError{err}
	}
	return ok, nil
}

// optionalCursor converts a nil *Cursor into a nil interface (so it's encoded as JSON null)
func optionalCursor(c *relay.Cursor) interface{} {
	if c == nil {
		return nil
	}
	return *c
}
