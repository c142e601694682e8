package schema

// load.go parses the embedded SDL and formats a schema back to SDL (for dumping to a file)

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// SDL is the GraphQL schema of the todo API
//
//go:embed todo.graphql
var SDL string

// Load parses SDL and checks that every field in it has a resolver (and vice versa)
func Load() (*ast.Schema, error) {
	s, gqlErr := gqlparser.LoadSchema(&ast.Source{Name: "todo.graphql", Input: SDL})
	if gqlErr != nil {
		return nil, fmt.Errorf("loading schema: %w", gqlErr)
	}
	if err := Check(s); err != nil {
		return nil, err
	}
	return s, nil
}

// MustLoad is the same as Load but panics on error
func MustLoad() *ast.Schema {
	s, err := Load()
	if err != nil {
		panic(err)
	}
	return s
}

// Format returns the schema as SDL text
func Format(s *ast.Schema) string {
	var b strings.Builder
	formatter.NewFormatter(&b).FormatSchema(s)
	return b.String()
}
