package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neoshop/internal/cart"
	"neoshop/internal/config"
	"neoshop/internal/db"
	"neoshop/internal/logger"
	"neoshop/internal/metrics"
	"neoshop/internal/middleware"
	"neoshop/internal/notify"
	"neoshop/internal/order"
	"neoshop/internal/product"
	"neoshop/internal/storage"
	"neoshop/internal/storefront"
	"neoshop/internal/transport/httpapi"
	"neoshop/internal/utils"

	"go.uber.org/zap"
)

var (
	openStoreFunc   = db.OpenStore
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStoreFunc(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := metrics.NewRegistry()

	source := product.NewSource(cfg.CatalogSource)
	session := newSession(cfg, store, source)
	defer session.Cart().Subscribe(reg.ObserveCart)()
	if err := session.Start(ctx); err != nil {
		// keep serving; catalog routes answer 503 until a reload succeeds
		log.Warn("starting with catalog unavailable", zap.Error(err))
	}

	if fs, ok := source.(*product.FileSource); ok {
		w, err := product.NewWatcher(fs.Path, session.Catalog())
		if err != nil {
			return err
		}
		w.OnReload = reg.ObserveReload
		if err := w.Start(session.Context(ctx)); err != nil {
			return err
		}
		defer w.Stop()
	}

	limiter := middleware.NewRateLimiter()
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newServer(cfg, session, limiter, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("🚀 storefront API running", zap.String("addr", "http://localhost:"+cfg.AppPort))

	errCh := make(chan error, 1)
	go func() { errCh <- startServerFunc(srv) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newSession(cfg *config.Config, store storage.Store, source product.Source) *storefront.Session {
	notifier := &notify.Log{}
	return storefront.New(
		product.NewCatalog(source, product.NewEngine(cfg.CollationLang)),
		cart.NewStore(cart.NewRepository(store)),
		order.NewService(order.NewRepository(store)),
		notifier,
		storefront.WithProcessingDelay(cfg.CheckoutDelay),
	)
}

// newServer wraps the routes in the middleware chain, outermost first:
// request id, access log, metrics, CORS, rate limit.
func newServer(cfg *config.Config, session *storefront.Session, limiter *middleware.RateLimiter, reg *metrics.Registry) http.Handler {
	api := httpapi.NewHandler(session, utils.NewMoneyFormatter("es-AR", "ARS"))
	router := setupRouter(api, reg)

	var h http.Handler = router
	h = limiter.Middleware(h)
	h = middleware.CORS(cfg.CORSOrigin)(h)
	h = reg.Middleware(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h
}

func setupRouter(api *httpapi.Handler, reg *metrics.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", reg)
	api.Register(mux)

	return mux
}
