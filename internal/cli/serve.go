package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/S0me0neR0man/homebox/internal/server"
	"github.com/S0me0neR0man/homebox/internal/token"
	"github.com/S0me0neR0man/homebox/internal/webserver"
)

// NewServeCommand creates the serve command
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and gRPC interfaces until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *RootOptions) (err error) {
	e, err := open(cmd, opts, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()
	sugar := e.logger.Sugar()

	key, created, err := webserver.LoadOrCreateKey(e.cfg.Auth.CookieStorage)
	if err != nil {
		return err
	}
	if created {
		sugar.Warnw("unable to read cookie key, generated a new one", "path", e.cfg.Auth.CookieStorage)
	}

	gate := token.NewGate(e.stash, e.logger)
	ws := webserver.NewWebServer(e.stash, gate, webserver.NewSealer(key), webserver.Options{
		Address:       e.cfg.Server.Address,
		Password:      e.cfg.Auth.Password,
		MaxImageBytes: e.cfg.Server.MaxImageBytes,
	}, e.logger)
	gs := server.NewGRPCServer(e.stash, gate, e.cfg.Auth.Password, e.cfg.Server.GRPCAddress, e.logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ws.Start(gctx)
	})
	g.Go(func() error {
		return gs.Start(gctx)
	})

	// a failing listener cancels gctx, which stops the other server too
	err = g.Wait()
	ws.Wait()
	gs.Wait()
	if err != nil {
		return err
	}
	sugar.Infow("homebox stopped")
	return nil
}
