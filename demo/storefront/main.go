package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/isobit/cli"
	"github.com/joho/godotenv"

	"github.com/saturnines/storefront-graphql/pkg/config"
	"github.com/saturnines/storefront-graphql/pkg/jsonvalue"
	"github.com/saturnines/storefront-graphql/pkg/storefront"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, ".env file not loaded:", err)
	}

	err := cli.New("storefront", &Storefront{
		Config: "demo/storefront/storefront.yaml",
		Query:  "demo/storefront/products.graphql",
	}).
		Parse().
		Run()

	if err != nil && err != cli.ErrHelp {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type Storefront struct {
	Config    string   `cli:"short=c,placeholder=FILE,help=YAML client config"`
	Query     string   `cli:"short=q,placeholder=FILE,help=file holding the GraphQL query"`
	Variables []string `cli:"short=v,name=var,append,placeholder=KEY=VAL,nodefault,help=query variable; JSON values are decoded; may be passed multiple times"`
	Output    string   `cli:"short=o,placeholder=FILE,help=write the response here instead of stdout"`
}

func (cmd Storefront) Run() error {
	cfg, err := config.NewDefaultLoader().Load(cmd.Config)
	if err != nil {
		return err
	}
	logger := newLogger(string(cfg.Logging.Level), string(cfg.Logging.Format), os.Stderr)

	query, err := os.ReadFile(cmd.Query)
	if err != nil {
		return fmt.Errorf("read query: %w", err)
	}

	vars, err := parseVariables(cmd.Variables)
	if err != nil {
		return cli.UsageErrorf("%s", err)
	}

	client, err := storefront.NewBuilderFromConfig(cfg).WithLogger(logger).Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running query", "endpoint", client.Config().Endpoint, "variables", len(vars))
	resp, err := client.ExecuteQuery(ctx, string(query), vars)
	if err != nil {
		return err
	}

	gqlErrs, err := storefront.ResponseErrors(resp)
	if err != nil {
		return err
	}
	for _, e := range gqlErrs {
		logger.Warn("graphql error", "error", e.Error())
	}

	var out io.Writer = os.Stdout
	if cmd.Output != "" {
		f, err := os.Create(cmd.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	body, _ := resp.MarshalJSON()
	_, err = fmt.Fprintln(out, string(body))
	return err
}

// parseVariables turns KEY=VAL pairs into query variables. Values that parse
// as JSON keep their type; anything else is sent as a string.
func parseVariables(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q, expected KEY=VAL", pair)
		}
		if v, err := jsonvalue.Parse([]byte(value)); err == nil {
			vars[key] = v
		} else {
			vars[key] = value
		}
	}
	return vars, nil
}

// newLogger creates a slog.Logger for the configured level and format.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}
