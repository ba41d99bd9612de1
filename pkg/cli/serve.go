package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockrr/pkg/metrics"
)

var (
	serveAddr   string
	serveNoSeed bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve cached resources over HTTP",
	Long: `Start an HTTP server in front of the cache.

Routes:
  GET  /resources/{id}   resource cached under id, created once with a random checksum
  POST /resources/{id}   merge a JSON object or array body into the resource
  GET  /sequence/{id}    First, Second and Third resource in rotation
  GET  /cached           cached ids and when they were written
  GET  /versions         snapshot timestamps (needs versioning)
  GET  /versions/{ts}    one snapshot
  GET  /metrics          Prometheus metrics

Resources declared in the config file are seeded before the server starts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mt := metrics.New()
		sess, err := openSession(ctx, mt)
		if err != nil {
			return err
		}
		defer sess.Close()

		if !serveNoSeed {
			if _, err := seedAll(ctx, sess); err != nil {
				return err
			}
		}

		srv := &http.Server{
			Addr:              cfg.Serve.Addr,
			Handler:           newServer(sess.Mockrr, mt, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errc := make(chan error, 1)
		go func() {
			errc <- srv.ListenAndServe()
		}()
		fmt.Fprintf(cmd.ErrOrStderr(), "mockrr listening on %s\n", cfg.Serve.Addr)

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :4280)")
	serveCmd.Flags().BoolVar(&serveNoSeed, "no-seed", false, "Do not seed configured resources on start")
	rootCmd.AddCommand(serveCmd)
}
