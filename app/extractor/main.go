package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/laoyouxiaoyue/AI-Travel-Planner/controllers"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/cache"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/config"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/db/mysql"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/keywords"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/infrastructures/log"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/extract"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/recorder"
	"github.com/laoyouxiaoyue/AI-Travel-Planner/models/thirdpart/minimax"
	prom "github.com/laoyouxiaoyue/AI-Travel-Planner/observe/prometheus"
)

var extractorHealthGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "aitravel",
	Subsystem: "extractor",
	Name:      "health_status",
	Help:      "Health status of the extractor service (1=healthy).",
})

func main() {
	log.InitLogFileBySvrName("extractor")
	cfg := config.GetInstance()
	logger := log.GetInstance().Sugar
	defer log.Sync()

	logger.Infof("Extractor service starting, PID=%d", os.Getpid())

	prom.MustRegisterAll()
	extractorHealthGauge.Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	local := extract.NewLocalResolver(extract.LocalOptions{
		DefaultTripDays: cfg.Extract.DefaultTripDays,
		FewPeople:       cfg.Extract.FewPeople,
		Places:          newPlaceFinder(cfg),
	})

	remote, closeCache := newRemote(cfg)
	defer closeCache()

	coord := extract.NewCoordinator(remote, local, time.Duration(cfg.Extract.RemoteTimeoutMs)*time.Millisecond)

	vcOpts := []controllers.VoiceOption{controllers.WithRemoteFactory(controllers.MiniMaxRemoteFactory)}

	var writer *recorder.Writer
	db, err := mysql.Open()
	switch {
	case errors.Is(err, mysql.ErrNotConfigured):
		logger.Info("MySQL not configured, extraction audit disabled")
	case err != nil:
		logger.Fatalf("failed to open mysql: %v", err)
	default:
		logger.Info("MySQL connected")
		repo := recorder.NewRepo(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Fatalf("failed to migrate extraction_records: %v", err)
		}
		writer = recorder.NewWriter(repo, recorder.WriterOptions{})
		vcOpts = append(vcOpts, controllers.WithAuditSink(writer))

		stopPoolStats := recorder.StartPoolStatsReporter(ctx, db, 10*time.Second)
		defer stopPoolStats()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	controllers.NewVoiceController(coord, vcOpts...).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Services.Extractor.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server exited: %v", err)
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, stopping http server...")
	extractorHealthGauge.Set(0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown http server: %v", err)
	}

	if writer != nil {
		writer.Close()
		logger.Info("Audit writer flushed")
	}
}

// newPlaceFinder 可选的 gse 地名识别兜底，加载失败只告警
func newPlaceFinder(cfg *config.TravelConfig) keywords.PlaceFinder {
	if !cfg.Extract.EnablePlaceTagger {
		return nil
	}
	pt, err := keywords.NewPlaceTagger(cfg.Extract.PlaceDicts, cfg.Extract.ExtraPlaces...)
	if err != nil {
		log.Warnf("place tagger disabled: %v", err)
		return nil
	}
	return pt
}

// newRemote 构造默认远程推理，配置不全时只走本地
func newRemote(cfg *config.TravelConfig) (extract.RemoteResolver, func()) {
	noop := func() {}
	if cfg.Extract.DisableRemote {
		log.Infof("remote extract disabled by config")
		return nil, noop
	}

	client, err := minimax.NewClient()
	if err != nil {
		log.Warnf("remote extract unavailable, local only: %v", err)
		return nil, noop
	}
	llm, err := extract.NewLLMResolver(client)
	if err != nil {
		log.Warnf("remote extract unavailable, local only: %v", err)
		return nil, noop
	}

	if cfg.Extract.CacheRedis == "" {
		return llm, noop
	}
	c, err := cache.NewFromConfig(cfg.Extract.CacheRedis)
	if err != nil {
		log.Warnf("result cache disabled: %v", err)
		return llm, noop
	}
	ttl := time.Duration(cfg.Extract.CacheTTLSeconds) * time.Second
	return extract.NewCachedResolver(llm, c, ttl), func() { _ = c.Close() }
}
