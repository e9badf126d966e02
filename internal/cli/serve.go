package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/hoops-draft-client/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <draft>",
		Short: "Join a draft and expose it over local HTTP",
		Long: `Join a draft and serve its reconciled state, player search and
commands on a local HTTP address for a UI process:

  GET  /healthz
  GET  /state      view, affordances and the previewed player's verdict
  GET  /players    search, narrowed to the constraint when only-eligible is on
  POST /commands   {"type": "roll"}, {"type": "make_pick", "player_id": 9}, ...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d, err := a.deps()
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, d.Close()) }()

			s, err := a.openSession(ctx, d, args[0])
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, s.Close()) }()

			if cmd.Flags().Changed("addr") {
				a.cfg.HTTPAddr = addr
			}
			srv := &http.Server{
				Addr: a.cfg.HTTPAddr,
				Handler: httpapi.SetupRoutes(httpapi.Deps{
					Session:  s,
					Checker:  d.checker,
					Searcher: d.api,
					Logger:   a.logger.Named("http"),
				}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.logger.Info("listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			g.Go(func() error {
				for {
					select {
					case <-gctx.Done():
						return nil
					case v := <-s.Views():
						a.logger.Debug("view", zap.String("summary", describeView(v)))
					}
				}
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (env: DRAFT_HTTP_ADDR)")

	return cmd
}
