package relay

// connection.go builds a connection (edges + page info) from a page of records

import (
	"context"
	"fmt"
)

type (
	// Node is a record that can appear in a connection
	Node interface {
		Cursor() Cursor
	}

	// Connection is the result of a paginated query
	Connection[N Node] struct {
		Edges      []Edge[N]
		PageInfo   PageInfo
		TotalCount int
	}

	// Edge pairs a record with its cursor
	Edge[N Node] struct {
		Node   N
		Cursor Cursor
	}

	// PageInfo has the page metadata - cursors are nil for an empty page
	PageInfo struct {
		HasPreviousPage bool
		HasNextPage     bool
		StartCursor     *Cursor
		EndCursor       *Cursor
	}
)

// Build makes a connection from the records returned by the store.  The page flags are decided
// from the number of records before they are truncated to p.Limit(); if neither first nor last
// was given both flags are false.
func Build[N Node](p Pagination, totalCount int, records []N) *Connection[N] {
	n := len(records)
	r := &Connection[N]{TotalCount: totalCount}
	r.PageInfo.HasNextPage = p.First != nil && n > *p.First
	r.PageInfo.HasPreviousPage = p.Last != nil && n > *p.Last

	if limit := p.Limit(); n > limit {
		n = limit
	}
	r.Edges = make([]Edge[N], 0, n)
	for _, record := range records[:n] {
		r.Edges = append(r.Edges, Edge[N]{Node: record, Cursor: record.Cursor()})
	}
	if n > 0 {
		start, end := r.Edges[0].Cursor, r.Edges[n-1].Cursor
		r.PageInfo.StartCursor, r.PageInfo.EndCursor = &start, &end
	}
	return r
}

// Nodes returns the records without the edge wrappers
func (c *Connection[N]) Nodes() []N {
	r := make([]N, len(c.Edges))
	for i, edge := range c.Edges {
		r[i] = edge.Node
	}
	return r
}

// Resolve validates the arguments then loads a page and (only if wantTotal) the total count.
// Nothing is loaded if the arguments are invalid and any load error fails the whole thing.
func Resolve[N Node](ctx context.Context, p Pagination,
	load func(context.Context, Pagination) ([]N, error),
	total func(context.Context) (int, error),
	wantTotal bool,
) (*Connection[N], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	records, err := load(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%w loading page", err)
	}
	var count int
	if wantTotal {
		if count, err = total(ctx); err != nil {
			return nil, fmt.Errorf("%w getting total count", err)
		}
	}
	return Build(p, count, records), nil
}
