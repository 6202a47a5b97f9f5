package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkoller/domainmap/internal/server"
	"github.com/mkoller/domainmap/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	listen   string
	mongoURI string
	leafDeps bool
	noCache  bool
}

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the domainmap HTTP API server",
		Long: `Run the HTTP API server.

Datasets are uploaded as workbook JSON and held in memory, or persisted in
MongoDB when a connection URI is configured. Focus sessions are in-memory.

Examples:
  domainmap serve
  domainmap serve --listen :9090 --mongo mongodb://localhost:27017`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", c.Config.Server.Listen, "listen address")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", c.Config.Server.MongoURI, "MongoDB URI for the dataset store (in-memory if empty)")
	cmd.Flags().BoolVar(&opts.leafDeps, "leaf-deps", c.Config.Resolve.LeafDeps, "match dependency labels against leaf nodes only")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	datasets, err := c.newDatasetStore(ctx, opts.mongoURI)
	if err != nil {
		return err
	}
	defer datasets.Close(context.Background())

	srv := server.New(runner, datasets, nil, c.Logger)
	srv.LeafDeps = opts.leafDeps

	httpSrv := &http.Server{
		Addr:         opts.listen,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// newDatasetStore selects the dataset store backend. An empty URI means
// in-memory.
func (c *CLI) newDatasetStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	c.Logger.Info("using mongodb dataset store")
	return store.NewMongoStore(ctx, mongoURI)
}
