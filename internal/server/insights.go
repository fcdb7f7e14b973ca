package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storelens/storelens/internal/cache"
	datasetdomain "github.com/storelens/storelens/internal/dataset/domain"
	insightsdomain "github.com/storelens/storelens/internal/insights/domain"
)

const jsonContentType = "application/json; charset=utf-8"

// respondCached serves the operation from the response cache when possible.
// Keys carry the dataset fingerprint, so a re-ingested dataset never serves
// stale entries.
func (s *Server) respondCached(c *gin.Context, operation string, keyParts []string, compute func() (any, error)) {
	key := cache.Key(s.insightsSvc.DatasetInfo(c.Request.Context()).Fingerprint, operation, keyParts...)

	if payload, ok := s.respCache.Get(c.Request.Context(), key); ok {
		c.Data(http.StatusOK, jsonContentType, payload)
		return
	}

	resp, err := compute()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.respCache.Set(c.Request.Context(), key, payload)
	c.Data(http.StatusOK, jsonContentType, payload)
}

// windowKey keeps nanosecond precision: a date-only window ends just before
// midnight and must never share a key with a second-precision RFC3339 bound.
func windowKey(window insightsdomain.Window) []string {
	return []string{
		window.Start.UTC().Format("20060102T150405.000000000"),
		window.End.UTC().Format("20060102T150405.000000000"),
	}
}

func (s *Server) GetOverview(c *gin.Context) {
	window, err := s.parseWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	compare, err := parseCompare(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	keyParts := append(windowKey(window), strconv.FormatBool(compare))
	s.respondCached(c, "overview", keyParts, func() (any, error) {
		return s.insightsSvc.Overview(c.Request.Context(), insightsdomain.OverviewRequest{
			Window:  window,
			Compare: compare,
		})
	})
}

func (s *Server) GetRevenueTrend(c *gin.Context) {
	window, err := s.parseWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	compare, err := parseCompare(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	granularity, err := parseGranularity(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	keyParts := append(windowKey(window), string(granularity), strconv.FormatBool(compare))
	s.respondCached(c, "revenue_trend", keyParts, func() (any, error) {
		return s.insightsSvc.RevenueTrend(c.Request.Context(), insightsdomain.TrendRequest{
			Window:      window,
			Granularity: granularity,
			Compare:     compare,
		})
	})
}

func (s *Server) GetTopCategories(c *gin.Context) {
	window, err := s.parseWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	topN, err := parseOptionalInt(c.Query("top_n"))
	if err != nil {
		AbortWithError(c, newValidationError("top_n", "invalid_int", "top_n must be an integer"))
		return
	}
	req := insightsdomain.RankingRequest{Window: window}
	if topN != nil {
		if *topN <= 0 {
			AbortWithError(c, newValidationError("top_n", "invalid_int", "top_n must be positive"))
			return
		}
		req.TopN = *topN
	}

	keyParts := append(windowKey(window), fmt.Sprintf("top%d", req.TopN))
	s.respondCached(c, "categories", keyParts, func() (any, error) {
		return s.insightsSvc.TopCategories(c.Request.Context(), req)
	})
}

func (s *Server) GetGeography(c *gin.Context) {
	window, err := s.parseWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.respondCached(c, "geography", windowKey(window), func() (any, error) {
		return s.insightsSvc.RevenueByState(c.Request.Context(), window)
	})
}

func (s *Server) GetDelivery(c *gin.Context) {
	window, err := s.parseWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.respondCached(c, "delivery", windowKey(window), func() (any, error) {
		return s.insightsSvc.DeliveryPerformance(c.Request.Context(), insightsdomain.DeliveryRequest{Window: window})
	})
}

func (s *Server) GetReviews(c *gin.Context) {
	window, err := s.parseWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.respondCached(c, "reviews", windowKey(window), func() (any, error) {
		return s.insightsSvc.ReviewBreakdown(c.Request.Context(), window)
	})
}

func (s *Server) GetOrderStats(c *gin.Context) {
	window, err := s.parseWindow(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.respondCached(c, "order_stats", windowKey(window), func() (any, error) {
		return s.insightsSvc.OrderStats(c.Request.Context(), window)
	})
}

func (s *Server) GetYoYGrowth(c *gin.Context) {
	currentYear, err := parseYear(c, "year")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	previousYear := currentYear - 1
	if raw := c.Query("previous_year"); raw != "" {
		if previousYear, err = parseYear(c, "previous_year"); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	metric := insightsdomain.Metric(c.DefaultQuery("metric", string(insightsdomain.MetricRevenue)))

	resp, err := s.insightsSvc.YoYGrowth(c.Request.Context(), insightsdomain.YoYRequest{
		CurrentYear:  currentYear,
		PreviousYear: previousYear,
		Metric:       metric,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetMoMGrowth(c *gin.Context) {
	year, err := parseYear(c, "year")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	smoothing, err := parseOptionalBool(c.Query("smoothing"))
	if err != nil {
		AbortWithError(c, newValidationError("smoothing", "invalid_bool", "smoothing must be true or false"))
		return
	}

	resp, err := s.insightsSvc.MoMGrowth(c.Request.Context(), insightsdomain.MoMRequest{
		Year:      year,
		Smoothing: smoothing != nil && *smoothing,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type datasetResponse struct {
	insightsdomain.DatasetInfoResponse
	MergeStats datasetdomain.MergeStats `json:"merge_stats"`
}

func (s *Server) GetDatasetInfo(c *gin.Context) {
	info := s.insightsSvc.DatasetInfo(c.Request.Context())
	c.JSON(http.StatusOK, datasetResponse{
		DatasetInfoResponse: info,
		MergeStats:          s.insightsSvc.MergeStats(),
	})
}
