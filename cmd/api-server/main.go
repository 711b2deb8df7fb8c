package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardhub/internal/api"
	"cardhub/internal/auth"
	"cardhub/internal/buildevents"
	"cardhub/internal/config"
	"cardhub/internal/logging"
	"cardhub/internal/pipeline"
	"cardhub/internal/provider"
	"cardhub/internal/writer"
	"cardhub/pkg/database"
	"cardhub/pkg/models"
)

func main() {
	var (
		configPath = flag.String("config", "cardhub.yaml", "path to YAML config")
		listenAddr = flag.String("listen", "", "bind address (overrides config)")
		verbose    = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *verbose {
		cfg.Verbose = true
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer logger.Sync()

	db := database.MustOpen(database.Config{Path: cfg.DBPath})
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := buildevents.NewHub()
	router.GET("/ws", buildevents.WSHandler(hub, logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.DBPath})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	tokenSvc := auth.TokenService{
		Secret:   []byte(cfg.AdminSecret),
		Issuer:   "cardhub",
		Duration: time.Hour,
	}

	builder := &rebuilder{cfg: cfg, db: db, hub: hub, logger: logger}
	repo := api.NewRepo(db)
	handler := api.NewHandler(repo, tokenSvc, cfg.AdminPasswordHash, builder, logger)
	handler.RegisterRoutes(router)

	httpSrv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("api server listening", zap.String("addr", cfg.ListenAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")
}

// rebuilder runs the build pipeline on demand from the admin endpoint,
// pushing progress over the websocket hub. Only one rebuild runs at a
// time.
type rebuilder struct {
	mu     sync.Mutex
	cfg    config.Config
	db     *sql.DB
	hub    *buildevents.Hub
	logger *zap.Logger
}

func (r *rebuilder) Rebuild(setCodes []string) error {
	if !r.mu.TryLock() {
		return errors.New("rebuild already running")
	}
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	r.hub.BroadcastJSON(buildevents.Started())

	err := r.run(ctx, setCodes)
	if err != nil {
		r.hub.BroadcastJSON(buildevents.Failed(err))
		return err
	}
	r.hub.BroadcastJSON(buildevents.Finished())
	return nil
}

func (r *rebuilder) run(ctx context.Context, setCodes []string) error {
	loader := provider.NewLoader(r.cfg.InputDir, r.logger)

	raws, err := loader.RawPrintings(ctx)
	if err != nil {
		return err
	}
	raws = filterSets(raws, setCodes)

	aux := loader.Aux(ctx)
	aux.UUIDCache, err = provider.LoadUUIDCache(ctx, r.db)
	if err != nil {
		return err
	}

	result := pipeline.Build(raws, aux, r.logger)

	jw := writer.NewJSONWriter(r.cfg.OutputDir, r.cfg.PrettyJSON, r.logger)
	if err := jw.WriteSets(ctx, result); err != nil {
		return err
	}
	if err := jw.WriteMappings(result); err != nil {
		return err
	}

	if err := writer.SaveToDatabase(ctx, r.db, result); err != nil {
		return err
	}
	if err := provider.SaveUUIDCache(ctx, r.db, result.NewCacheEntries); err != nil {
		return err
	}

	for _, code := range result.SetCodes() {
		r.hub.BroadcastJSON(buildevents.SetBuilt(
			code,
			len(result.CardsBySet[code]),
			len(result.TokensBySet[code]),
		))
	}
	return nil
}

func filterSets(raws []models.RawPrinting, sets []string) []models.RawPrinting {
	if len(sets) == 0 {
		return raws
	}
	want := make(map[string]bool, len(sets))
	for _, s := range sets {
		want[strings.ToUpper(s)] = true
	}
	out := raws[:0]
	for _, r := range raws {
		if want[strings.ToUpper(r.SetCode)] {
			out = append(out, r)
		}
	}
	return out
}
