package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"graphql-user-service/cmd/api/app"
	"graphql-user-service/cmd/api/server"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "user-service",
		Short:        "GraphQL user directory service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config-path", defaultConfigPath(),
		"directory containing app.env")

	withApp := func(run func(ctx context.Context, a *app.App) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.Sync() }()

			ctx, stop := server.WithSignal(cmd.Context(), a.Logger)
			defer stop()
			return run(ctx, a)
		}
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the GraphQL HTTP server and the gRPC health server",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app.App) error {
			return a.Serve(ctx)
		}),
	}

	migrate := &cobra.Command{
		Use:       "migrate [up|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "status"},
	}
	migrate.RunE = func(cmd *cobra.Command, args []string) error {
		statusOnly := len(args) == 1 && args[0] == "status"
		return withApp(func(ctx context.Context, a *app.App) error {
			return a.Migrate(ctx, statusOnly)
		})(cmd, args)
	}

	root.AddCommand(serve, migrate)
	return root
}
