package store

// query.go translates pagination arguments into a keyset query

import (
	"strings"

	"github.com/andrewwphillips/todoql/internal/relay"
)

const selectTodos = `SELECT id, description, done, created_at FROM todos `

// listQuery returns the SQL and arguments to fetch one page of todos.
//   - after:  rows after the cursor in ascending (id, created_at) order
//   - before: rows before the cursor in descending order
//   - else:   all rows, ascending (or descending for a bare "last")
//
// If both cursors are given only after is used.  The limit is p.Limit(), plus one if lookahead is on.
func listQuery(p relay.Pagination, lookahead bool) (string, []interface{}) {
	var query strings.Builder
	args := make([]interface{}, 0, 3)

	query.WriteString(selectTodos)
	if p.After != nil {
		query.WriteString(`WHERE (id, created_at) > (?, ?) `)
		args = append(args, int64(p.After.ID), int64(p.After.CreatedAt))
	} else if p.Before != nil {
		query.WriteString(`WHERE (id, created_at) < (?, ?) `)
		args = append(args, int64(p.Before.ID), int64(p.Before.CreatedAt))
	}
	if p.Backward() {
		query.WriteString(`ORDER BY id DESC, created_at DESC `)
	} else {
		query.WriteString(`ORDER BY id ASC, created_at ASC `)
	}

	limit := p.Limit()
	if lookahead {
		limit++
	}
	query.WriteString(`LIMIT ?`)
	args = append(args, limit)
	return query.String(), args
}
