package store

// todo.go has the Todo record and its repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andrewwphillips/todoql/internal/relay"
	"github.com/andrewwphillips/todoql/internal/scalar"
	"github.com/sirupsen/logrus"
)

type (
	// Todo is a row of the todos table
	Todo struct {
		ID          scalar.ID
		Description string
		Done        bool
		CreatedAt   scalar.Timestamp
	}

	// TodoRepo runs the todo queries and mutations - each is a single statement
	TodoRepo struct {
		db        *DB
		lookahead bool
		now       func() time.Time
		log       logrus.FieldLogger
	}
)

// Cursor gives the position of the todo in the (id, created_at) ordering
func (t Todo) Cursor() relay.Cursor {
	return relay.NewCursor(t.ID, t.CreatedAt)
}

// NewTodoRepo creates a repository using the shared pool
func NewTodoRepo(db *DB, options ...func(*TodoRepo)) *TodoRepo {
	r := &TodoRepo{db: db, now: time.Now, log: db.log}
	for _, option := range options {
		option(r)
	}
	return r
}

// Lookahead makes List fetch one row more than the page size, so that hasNextPage (or hasPreviousPage)
// can tell whether more rows exist.  It is off by default, whence the flags can only be set if the
// store returns more rows than were asked for, which it never does.
func Lookahead(on bool) func(*TodoRepo) {
	return func(r *TodoRepo) {
		r.lookahead = on
	}
}

// Clock replaces the function used to get the creation time of new todos
func Clock(now func() time.Time) func(*TodoRepo) {
	return func(r *TodoRepo) {
		r.now = now
	}
}

// List returns one page of todos as described by p (which should have been validated)
func (r *TodoRepo) List(ctx context.Context, p relay.Pagination) ([]Todo, error) {
	query, args := listQuery(p, r.lookahead)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.WithError(err).WithField("sql", query).Error("list todos failed")
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []Todo{} // not sized from p.Limit() which the client controls
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.Description, &t.Done, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Total counts all todos regardless of pagination
func (r *TodoRepo) Total(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return total, nil
}

// Get returns a single todo or ErrNotFound
func (r *TodoRepo) Get(ctx context.Context, id scalar.ID) (Todo, error) {
	var t Todo
	err := r.db.QueryRowContext(ctx, selectTodos+`WHERE id = ?`, int64(id)).
		Scan(&t.ID, &t.Description, &t.Done, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, fmt.Errorf("get todo %d: %w", id, err)
	}
	return t, nil
}

// Add inserts a new (not done) todo and returns its ID
func (r *TodoRepo) Add(ctx context.Context, description string) (scalar.ID, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO todos (description, created_at) VALUES (?, ?)`,
		description, r.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("add todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add todo: %w", err)
	}
	return scalar.ID(id), nil
}

// Complete sets the done flag of a todo - returns false if there is no such todo
func (r *TodoRepo) Complete(ctx context.Context, id scalar.ID, done bool) (bool, error) {
	return r.exec(ctx, "complete todo", `UPDATE todos SET done = ? WHERE id = ?`, done, int64(id))
}

// Edit replaces the description of a todo
func (r *TodoRepo) Edit(ctx context.Context, id scalar.ID, description string) (bool, error) {
	return r.exec(ctx, "edit todo", `UPDATE todos SET description = ? WHERE id = ?`, description, int64(id))
}

// Remove deletes a todo
func (r *TodoRepo) Remove(ctx context.Context, id scalar.ID) (bool, error) {
	return r.exec(ctx, "remove todo", `DELETE FROM todos WHERE id = ?`, int64(id))
}

// ToggleAll sets the done flag of every todo - returns false if none needed changing
func (r *TodoRepo) ToggleAll(ctx context.Context, done bool) (bool, error) {
	return r.exec(ctx, "toggle all", `UPDATE todos SET done = ? WHERE done <> ?`, done, done)
}

// ClearCompleted deletes the todos that are done - returns false if there were none
func (r *TodoRepo) ClearCompleted(ctx context.Context) (bool, error) {
	return r.exec(ctx, "clear completed", `DELETE FROM todos WHERE done = ?`, true)
}

// exec runs a statement and reports whether any rows were affected
func (r *TodoRepo) exec(ctx context.Context, what, query string, args ...interface{}) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", what, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", what, err)
	}
	return n > 0, nil
}
