package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gitscape/internal/config"
	"github.com/matzehuels/gitscape/internal/server"
	"github.com/matzehuels/gitscape/pkg/session"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		configPath string
		backend    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP session API",
		Long:  `Starts the HTTP server the interactive UI talks to. Sessions live in the configured backend (memory, file, or redis) and expire after the configured TTL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if backend != "" {
				cfg.Session.Backend = backend
			}

			store, closeStore, err := openStore(ctx, cfg.Session)
			if err != nil {
				return err
			}
			defer closeStore()

			manager := session.NewManager(store, cfg.Session.TTL())
			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.New(manager, logger).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			// Periodic cleanup keeps file and memory backends from
			// accumulating expired sessions.
			go func() {
				ticker := time.NewTicker(time.Hour)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if err := store.Cleanup(ctx); err != nil {
							logger.Warn("session cleanup failed", "error", err)
						}
					}
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", cfg.Server.Addr, "backend", cfg.Session.Backend)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path")
	cmd.Flags().StringVar(&backend, "backend", "", "session backend: memory, file, or redis (overrides config)")

	return cmd
}

// openStore builds the session store named by the config and returns it
// along with a close function for backends that hold connections.
func openStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case "", "memory":
		return session.NewMemoryStore(), noop, nil
	case "file":
		store, err := session.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case "redis":
		store, err := session.NewRedisStore(ctx, session.RedisConfig{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, noop, errors.New("unknown session backend: " + cfg.Backend)
	}
}
