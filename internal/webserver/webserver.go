// Package webserver serves the browser facing HTTP routes: cookie login
// and the image upload, download and delete endpoints.
package webserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/S0me0neR0man/homebox/internal/stashdb"
	"github.com/S0me0neR0man/homebox/internal/token"
)

const (
	CookieName   = "homebox"
	cookieMaxAge = 24 * time.Hour

	shutdownTimeout = 5 * time.Second
)

type Options struct {
	Address       string
	Password      string
	MaxImageBytes int64
}

type WebServer struct {
	stash  *stashdb.Stash
	gate   *token.Gate
	sealer *Sealer
	opts   Options
	sugar  *zap.SugaredLogger
	router *httprouter.Router

	// concurrent downloads of one image share a single store read
	fetchSFG singleflight.Group

	wg sync.WaitGroup
}

func NewWebServer(stash *stashdb.Stash, gate *token.Gate, sealer *Sealer, opts Options, logger *zap.Logger) *WebServer {
	ws := &WebServer{
		stash:  stash,
		gate:   gate,
		sealer: sealer,
		opts:   opts,
		sugar:  logger.Sugar(),
		router: httprouter.New(),
	}

	ws.router.POST("/login", ws.login)
	ws.router.POST("/logout", ws.logout)

	ws.router.GET("/image/container/:cid", ws.authorized(ws.fetchContainerImage))
	ws.router.POST("/image/container/:cid", ws.authorized(ws.uploadContainerImage))
	ws.router.DELETE("/image/container/:cid", ws.authorized(ws.deleteContainerImage))

	ws.router.GET("/image/container/:cid/item/:iid", ws.authorized(ws.fetchItemImage))
	ws.router.POST("/image/container/:cid/item/:iid", ws.authorized(ws.uploadItemImage))
	ws.router.DELETE("/image/container/:cid/item/:iid", ws.authorized(ws.deleteItemImage))

	ws.router.PanicHandler = ws.panicHandler
	return ws
}

func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

// Start listens on the configured address and serves until ctx is done
func (ws *WebServer) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", ws.opts.Address)
	if err != nil {
		return err
	}
	return ws.Serve(ctx, lis)
}

func (ws *WebServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           ws.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ws.sugar.Infow("webserver start", "address", lis.Addr().String())

	ws.wg.Add(1)
	go ws.gracefulStop(ctx, srv)

	err := srv.Serve(lis)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (ws *WebServer) gracefulStop(ctx context.Context, srv *http.Server) {
	defer ws.wg.Done()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		ws.sugar.Warnw("webserver shutdown", "error", err)
	}
	ws.sugar.Infow("webserver stopped")
}

func (ws *WebServer) Wait() {
	ws.wg.Wait()
}

func (ws *WebServer) checkPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(ws.opts.Password)) == 1
}

func (ws *WebServer) panicHandler(w http.ResponseWriter, r *http.Request, v any) {
	ws.sugar.Errorw("handler panic", "path", r.URL.Path, "panic", v)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
