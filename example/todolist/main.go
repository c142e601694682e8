package main

// todolist runs the todo service in-process with an in-memory database seeded with a few todos.
// Try it with a GraphQL client (or the websocket protocol graphql-transport-ws) at http://localhost:8080/graphql

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/andrewwphillips/todoql"
	"github.com/andrewwphillips/todoql/internal/config"
)

var seed = []string{"Buy milk", "Walk the dog", "Write the report", "Book flights"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := &config.Config{
		Database:   config.Database{URL: "sqlite:file:todolist?mode=memory&cache=shared", MaxOpenConns: 1},
		Pagination: config.Pagination{Lookahead: true},
		Server:     config.Server{Addr: "localhost:8080"},
	}
	app, err := todoql.New(ctx, cfg, todoql.Logger(logrus.StandardLogger()))
	if err != nil {
		log.Fatalln(err)
	}
	defer app.Close()

	for _, desc := range seed {
		req := fmt.Sprintf(`{"query": "mutation($d: String!) { addTodo(description: $d) }", "variables": {"d": %q}}`, desc)
		if _, err := app.Command(ctx, []byte(req)); err != nil {
			log.Fatalln(err)
		}
	}
	// Mark the first one done
	if _, err := app.Command(ctx, []byte(`{"query": "mutation { completeTodo(id: \"AAAAAAAAAAE\", done: true) }"}`)); err != nil {
		log.Fatalln(err)
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		log.Fatalln(err)
	}
	if err := app.Serve(ctx, ln); err != nil {
		log.Fatalln(err)
	}
}
