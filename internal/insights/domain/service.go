package domain

import (
	"context"

	datasetdomain "github.com/storelens/storelens/internal/dataset/domain"
)

// Service computes windowed business metrics over one immutable sales row
// collection. Every operation is a pure function of (rows, request): for
// fixed inputs the output is identical across calls, so independent callers
// may query different windows concurrently without locking.
type Service interface {
	Overview(ctx context.Context, req OverviewRequest) (OverviewResponse, error)
	RevenueTrend(ctx context.Context, req TrendRequest) (TrendResponse, error)
	TopCategories(ctx context.Context, req RankingRequest) (CategoryRankingResponse, error)
	RevenueByState(ctx context.Context, window Window) (GeographyResponse, error)
	DeliveryPerformance(ctx context.Context, req DeliveryRequest) (DeliveryResponse, error)
	ReviewBreakdown(ctx context.Context, window Window) (ReviewsResponse, error)
	OrderStats(ctx context.Context, window Window) (OrderStatsResponse, error)
	YoYGrowth(ctx context.Context, req YoYRequest) (GrowthResponse, error)
	MoMGrowth(ctx context.Context, req MoMRequest) (MoMResponse, error)
	DatasetInfo(ctx context.Context) DatasetInfoResponse

	// MergeStats exposes the exclusion accounting of the underlying merge.
	MergeStats() datasetdomain.MergeStats
}
