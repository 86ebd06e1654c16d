package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "importhub/api/swagger" // swagger docs
	"importhub/internal/cache"
	"importhub/internal/config"
	"importhub/internal/database"
	"importhub/internal/handler"
	"importhub/internal/logger"
	"importhub/internal/metrics"
	"importhub/internal/middleware"
	"importhub/internal/repository"
	"importhub/internal/service"
	"importhub/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           ImportHub Pricing API
// @version         1.0
// @description     Multi-channel pricing: cost breakdowns, rate tables and channel comparison.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		if cfg.GinMode == gin.ReleaseMode {
			log.Fatal("JWT_SECRET is required in release mode")
		}
		log.Warn("JWT_SECRET not set, using development secret")
		secret = []byte("default_super_secret_key")
	}

	db, err := database.NewConnection(cfg, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}

	pricingCfg, err := config.NewPricingConfigHolder(log, cfg.PricingConfigPaths...)
	if err != nil {
		log.Fatal("invalid pricing config", zap.Error(err))
	}

	rateCache := cache.NewNopRateCache()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable, rate cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			rateCache = cache.NewRedisRateCache(rdb, cfg.RateCacheTTL, log)
			log.Info("rate cache enabled", zap.String("addr", cfg.RedisAddr))
		}
		cancel()
		defer func() { _ = rdb.Close() }()
	}

	metrics.Init()

	done := make(chan struct{})
	wsHub := websocket.NewHub(log)
	go wsHub.Run(done)

	// Repository -> Service -> Handler
	productRepo := repository.NewProductRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	logRepo := repository.NewCalculationLogRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)
	freightRepo := repository.NewFreightRateRepository(db)
	commissionRepo := repository.NewCommissionRateRepository(db)
	txManager := repository.NewTransactionManager(db)

	rateService := service.NewRateService(freightRepo, commissionRepo, rateCache, log)
	pricingService := service.NewPricingService(productRepo, channelRepo, settingsRepo, logRepo, rateService, pricingCfg, wsHub, log)
	rateTableService := service.NewRateTableService(freightRepo, commissionRepo, auditRepo, txManager, rateCache, log)
	catalogService := service.NewCatalogService(productRepo, channelRepo, auditRepo, txManager, log)
	settingsService := service.NewSettingsService(settingsRepo, auditRepo, log)
	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(statisticsRepo)

	auth := middleware.NewAuth(secret)
	pricingHandler := handler.NewPricingHandler(pricingService, auth)
	rateTableHandler := handler.NewRateTableHandler(rateTableService, auth)
	catalogHandler := handler.NewCatalogHandler(catalogService, auth)
	settingsHandler := handler.NewSettingsHandler(settingsService, auth)
	auditHandler := handler.NewAuditHandler(auditService, auth)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService, auth)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Request-Id"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, auth.Secret())
	})

	pricingHandler.RegisterRoutes(router.Group(""))
	rateTableHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))
	settingsHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	close(done)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
