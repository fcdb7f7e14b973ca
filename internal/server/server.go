package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storelens/storelens/internal/cache"
	"github.com/storelens/storelens/internal/clock"
	"github.com/storelens/storelens/internal/config"
	"github.com/storelens/storelens/internal/insights"
	insightsdomain "github.com/storelens/storelens/internal/insights/domain"
	"github.com/storelens/storelens/internal/observability"
	"github.com/storelens/storelens/internal/report"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	insights.Module,
	report.Module,
	cache.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(httpMetrics.Handler()))

	return r
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	analysis    *config.AnalysisConfigHolder
	insightsSvc insightsdomain.Service
	reportSvc   *report.Service
	respCache   *cache.ResponseCache
	clock       clock.Clock
	log         *zap.Logger
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Analysis    *config.AnalysisConfigHolder
	InsightsSvc insightsdomain.Service
	ReportSvc   *report.Service
	RespCache   *cache.ResponseCache `optional:"true"`
	Clock       clock.Clock
	Log         *zap.Logger
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		analysis:    p.Analysis,
		insightsSvc: p.InsightsSvc,
		reportSvc:   p.ReportSvc,
		respCache:   p.RespCache,
		clock:       p.Clock,
		log:         p.Log.Named("server"),
	}
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.GET("/overview", s.GetOverview)
	api.GET("/revenue/trend", s.GetRevenueTrend)
	api.GET("/revenue/growth", s.GetYoYGrowth)
	api.GET("/revenue/monthly", s.GetMoMGrowth)
	api.GET("/categories", s.GetTopCategories)
	api.GET("/geography", s.GetGeography)
	api.GET("/delivery", s.GetDelivery)
	api.GET("/reviews", s.GetReviews)
	api.GET("/orders/stats", s.GetOrderStats)
	api.GET("/dataset", s.GetDatasetInfo)
	api.GET("/reports/summary.xlsx", s.GetSummaryXLSX)
	api.GET("/reports/summary.pdf", s.GetSummaryPDF)
}

func registerRoutes(s *Server) {
	s.RegisterAPIRoutes()
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
