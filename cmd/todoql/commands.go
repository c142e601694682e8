package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/andrewwphillips/todoql"
	"github.com/andrewwphillips/todoql/internal/config"
	"github.com/andrewwphillips/todoql/internal/logging"
	"github.com/andrewwphillips/todoql/internal/schema"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "todoql",
	Short: "GraphQL API for a todo list stored in SQLite",
	Long: `todoql serves a GraphQL API (queries with Relay-style cursor pagination and
mutations) for a todo list stored in a local SQLite database.

The database is given by database.url in the config file or the DATABASE_URL
environment variable (which may be set in a .env file).`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve GraphQL (HTTP and websocket) at /graphql and metrics at /metrics",
	RunE:  runServe,
}

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Execute one GraphQL request read from stdin and write the JSON response to stdout",
	Long: `Execute one GraphQL request and write the JSON response to stdout.

The request is JSON: {"query": "...", "variables": {...}, "operationName": "..."}
and is read from stdin unless --query is given.  If the request fails the error
response is still written to stdout but the exit status is non-zero.

Example usage:
  echo '{"query": "{ listTodos { totalCount } }"}' | todoql exec
  todoql exec --query 'mutation { addTodo(description: "milk") }'`,
	Args: cobra.NoArgs,
	RunE: runExec,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Write the GraphQL schema (SDL)",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

var (
	serveAddr   string
	execQuery   string
	schemaOut   string
	errExecFail = errors.New("request failed")
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default is ./todoql.yaml or $HOME/.todoql/todoql.yaml)")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (overrides server.addr)")
	execCmd.Flags().StringVarP(&execQuery, "query", "q", "", "GraphQL query (instead of a JSON request on stdin)")
	schemaCmd.Flags().StringVarP(&schemaOut, "output", "o", "", "file to write the schema to (default is stdout)")

	rootCmd.AddCommand(serveCmd, execCmd, schemaCmd)
}

// setup loads the config and creates the logger and app
func setup(ctx context.Context) (*config.Config, *logrus.Logger, *todoql.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, nil, err
	}
	app, err := todoql.New(ctx, cfg, todoql.Logger(log))
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, app, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log, app, err := setup(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	if cfg.Auth.Secret != "" {
		token, err := app.Token("shell")
		if err != nil {
			return err
		}
		// the shell reads the token from the first line of stdout
		fmt.Fprintln(cmd.OutOrStdout(), token)
	}
	log.WithField("url", "http://"+ln.Addr().String()+"/graphql").Info("serving GraphQL")
	return app.Serve(ctx, ln)
}

func runExec(cmd *cobra.Command, _ []string) error {
	body := []byte(nil)
	if execQuery != "" {
		body = []byte(fmt.Sprintf(`{"query": %q}`, execQuery))
	} else {
		var err error
		if body, err = io.ReadAll(cmd.InOrStdin()); err != nil {
			return fmt.Errorf("reading request: %w", err)
		}
	}

	_, _, app, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer app.Close()

	out, err := app.Command(cmd.Context(), body)
	var cmdErr *todoql.CommandError
	if errors.As(err, &cmdErr) {
		fmt.Fprintln(cmd.OutOrStdout(), string(cmdErr.JSON))
		return errExecFail
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runSchema(cmd *cobra.Command, _ []string) error {
	s, err := schema.Load()
	if err != nil {
		return err
	}
	sdl := schema.Format(s)
	if schemaOut == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), sdl)
		return err
	}
	return os.WriteFile(schemaOut, []byte(sdl), 0o644)
}
