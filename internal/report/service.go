package report

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	insights "github.com/storelens/storelens/internal/insights/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Report is one rendered export ready for download.
type Report struct {
	ID          string
	Filename    string
	ContentType string
	Payload     []byte
}

type summaryData struct {
	window     insights.Window
	overview   insights.OverviewResponse
	categories insights.CategoryRankingResponse
	states     insights.GeographyResponse
	delivery   insights.DeliveryResponse
	reviews    insights.ReviewsResponse
}

type Params struct {
	fx.In

	Insights insights.Service
	GenID    *snowflake.Node
	Log      *zap.Logger
}

// Service renders windowed summary exports from the metrics service.
type Service struct {
	insights insights.Service
	genID    *snowflake.Node
	log      *zap.Logger
}

func NewService(p Params) *Service {
	return &Service{
		insights: p.Insights,
		genID:    p.GenID,
		log:      p.Log.Named("report"),
	}
}

func (s *Service) collect(ctx context.Context, window insights.Window) (summaryData, error) {
	data := summaryData{window: window}
	var err error

	if data.overview, err = s.insights.Overview(ctx, insights.OverviewRequest{Window: window, Compare: true}); err != nil {
		return summaryData{}, err
	}
	if data.categories, err = s.insights.TopCategories(ctx, insights.RankingRequest{Window: window}); err != nil {
		return summaryData{}, err
	}
	if data.states, err = s.insights.RevenueByState(ctx, window); err != nil {
		return summaryData{}, err
	}
	if data.delivery, err = s.insights.DeliveryPerformance(ctx, insights.DeliveryRequest{Window: window}); err != nil {
		return summaryData{}, err
	}
	if data.reviews, err = s.insights.ReviewBreakdown(ctx, window); err != nil {
		return summaryData{}, err
	}

	return data, nil
}

// SummaryXLSX renders the windowed summary as a workbook.
func (s *Service) SummaryXLSX(ctx context.Context, window insights.Window) (*Report, error) {
	data, err := s.collect(ctx, window)
	if err != nil {
		return nil, err
	}

	payload, err := renderXLSX(data)
	if err != nil {
		return nil, err
	}

	id := s.genID.Generate().String()
	s.log.Info("summary report generated",
		zap.String("report_id", id),
		zap.String("format", "xlsx"),
	)
	return &Report{
		ID:          id,
		Filename:    fmt.Sprintf("summary_%s.xlsx", window.Start.Format("2006-01-02")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Payload:     payload,
	}, nil
}

// SummaryPDF renders the windowed summary as a document.
func (s *Service) SummaryPDF(ctx context.Context, window insights.Window) (*Report, error) {
	data, err := s.collect(ctx, window)
	if err != nil {
		return nil, err
	}

	payload, err := renderPDF(data)
	if err != nil {
		return nil, err
	}

	id := s.genID.Generate().String()
	s.log.Info("summary report generated",
		zap.String("report_id", id),
		zap.String("format", "pdf"),
	)
	return &Report{
		ID:          id,
		Filename:    fmt.Sprintf("summary_%s.pdf", window.Start.Format("2006-01-02")),
		ContentType: "application/pdf",
		Payload:     payload,
	}, nil
}

func formatMoney(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *value)
}

func formatCount(value *int64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *value)
}

func formatPct(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *value*100)
}

func windowLabel(window insights.Window) string {
	return window.Start.Format("2006-01-02") + " to " + window.End.Format("2006-01-02")
}
