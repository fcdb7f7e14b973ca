package domain

import (
	"errors"
	"time"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

type Metric string

const (
	MetricRevenue       Metric = "revenue"
	MetricOrders        Metric = "orders"
	MetricAvgOrderValue Metric = "avg_order_value"
)

var (
	// ErrInvalidWindow covers start after end and comparison windows whose
	// duration differs from the primary window. Never auto-corrected.
	ErrInvalidWindow = errors.New("invalid_window")
	ErrUnknownMetric = errors.New("unknown_metric")
)

// Window is an inclusive date range over purchase timestamps.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Valid() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && !w.Start.After(w.End)
}

// Days returns the inclusive day span of the window.
func (w Window) Days() int {
	if !w.Valid() {
		return 0
	}
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Previous derives the equal-length window immediately preceding this one.
// The derived end is the instant just before this window's start, so the two
// periods are adjacent with no gap and no overlap.
func (w Window) Previous() Window {
	length := w.End.Sub(w.Start)
	end := w.Start.Add(-time.Nanosecond)
	return Window{Start: end.Add(-length), End: end}
}

type OverviewRequest struct {
	Window  Window
	Compare bool
	// CompareWindow overrides the derived previous period. Its day span must
	// equal the primary window's.
	CompareWindow *Window
}

// OverviewResponse carries the KPI block. Nil pointers are the explicit
// "no data" / "not applicable" sentinels; a zero behind a non-nil pointer is
// a legitimate zero.
type OverviewResponse struct {
	Revenue         *float64 `json:"revenue,omitempty"`
	OrderCount      *int64   `json:"order_count,omitempty"`
	AvgOrderValue   *float64 `json:"avg_order_value,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	OrderGrowth     *float64 `json:"order_growth,omitempty"`
	AOVGrowth       *float64 `json:"aov_growth,omitempty"`
	PreviousRevenue *float64 `json:"previous_revenue,omitempty"`
	HasData         bool     `json:"has_data"`
}

type TrendRequest struct {
	Window      Window
	Granularity Granularity
	Compare     bool
}

type SeriesPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

type TrendResponse struct {
	Series        []SeriesPoint `json:"series"`
	CompareSeries []SeriesPoint `json:"compare_series,omitempty"`
	HasData       bool          `json:"has_data"`
}

type RankingRequest struct {
	Window Window
	TopN   int
}

// UncategorizedBucket groups rows whose product has no category. Such rows
// are never dropped from the ranking.
const UncategorizedBucket = "uncategorized"

type CategoryStat struct {
	Category     string  `json:"category"`
	Revenue      float64 `json:"revenue"`
	ItemsSold    int64   `json:"items_sold"`
	AvgPrice     float64 `json:"avg_price"`
	OrderCount   int64   `json:"order_count"`
	ProductCount int64   `json:"product_count"`
	RevenueShare float64 `json:"revenue_share"`
}

type CategoryRankingResponse struct {
	Categories []CategoryStat `json:"categories"`
	HasData    bool           `json:"has_data"`
}

type StateStat struct {
	State         string  `json:"state"`
	Revenue       float64 `json:"revenue"`
	OrderCount    int64   `json:"order_count"`
	CustomerCount int64   `json:"customer_count"`
	AvgOrderValue float64 `json:"avg_order_value"`
	RevenueShare  float64 `json:"revenue_share"`
}

// GeographyResponse reports revenue per state. Rows without a state are
// excluded from the aggregate and surfaced in ExcludedRows instead of being
// attributed to an unknown location.
type GeographyResponse struct {
	States       []StateStat `json:"states"`
	ExcludedRows int64       `json:"excluded_rows"`
	HasData      bool        `json:"has_data"`
}

// BucketBoundary configures one delivery-time bucket. MaxDays nil means
// open-ended.
type BucketBoundary struct {
	Label   string `json:"label" mapstructure:"label"`
	MinDays int    `json:"min_days" mapstructure:"minDays"`
	MaxDays *int   `json:"max_days,omitempty" mapstructure:"maxDays"`
}

type DeliveryRequest struct {
	Window Window
	// Buckets overrides the configured boundaries; empty uses the defaults.
	Buckets []BucketBoundary
}

type DeliveryBucket struct {
	Label          string   `json:"label"`
	Count          int64    `json:"count"`
	AvgReviewScore *float64 `json:"avg_review_score,omitempty"`
}

type DeliveryStats struct {
	AvgDays    *float64 `json:"avg_days,omitempty"`
	MedianDays *float64 `json:"median_days,omitempty"`
	MinDays    *int     `json:"min_days,omitempty"`
	MaxDays    *int     `json:"max_days,omitempty"`
	OnTimeRate *float64 `json:"on_time_rate,omitempty"`
}

type DeliveryResponse struct {
	Buckets            []DeliveryBucket `json:"buckets"`
	Stats              DeliveryStats    `json:"stats"`
	ExcludedNoDuration int64            `json:"excluded_no_duration"`
	ExcludedNoReview   int64            `json:"excluded_no_review"`
	// ExcludedNoBucket counts reviewed rows whose duration fell in a gap
	// between non-contiguous custom bucket boundaries.
	ExcludedNoBucket int64 `json:"excluded_no_bucket"`
	HasData          bool  `json:"has_data"`
}

type ScoreCount struct {
	Score int   `json:"score"`
	Count int64 `json:"count"`
}

type ReviewsResponse struct {
	AvgScore            *float64     `json:"avg_score,omitempty"`
	MedianScore         *float64     `json:"median_score,omitempty"`
	ReviewedOrders      int64        `json:"reviewed_orders"`
	Distribution        []ScoreCount `json:"distribution"`
	PctFiveStar         *float64     `json:"pct_five_star,omitempty"`
	PctFourPlus         *float64     `json:"pct_four_plus,omitempty"`
	PctTwoMinus         *float64     `json:"pct_two_minus,omitempty"`
	DeliveryCorrelation *float64     `json:"delivery_correlation,omitempty"`
	HasData             bool         `json:"has_data"`
}

type YoYRequest struct {
	CurrentYear  int
	PreviousYear int
	Metric       Metric
}

type GrowthResponse struct {
	Metric         Metric   `json:"metric"`
	CurrentYear    int      `json:"current_year"`
	PreviousYear   int      `json:"previous_year"`
	CurrentValue   float64  `json:"current_value"`
	PreviousValue  float64  `json:"previous_value"`
	AbsoluteChange float64  `json:"absolute_change"`
	// GrowthRate is nil when the baseline is zero; never infinity.
	GrowthRate *float64 `json:"growth_rate,omitempty"`
}

type MoMRequest struct {
	Year      int
	Smoothing bool
}

type MonthStat struct {
	Month         int      `json:"month"`
	Revenue       float64  `json:"revenue"`
	OrderCount    int64    `json:"order_count"`
	AvgOrderValue *float64 `json:"avg_order_value,omitempty"`
	RevenueGrowth *float64 `json:"revenue_growth,omitempty"`
	OrderGrowth   *float64 `json:"order_growth,omitempty"`
	RevenueMA3    *float64 `json:"revenue_ma3,omitempty"`
}

type MoMResponse struct {
	Year    int         `json:"year"`
	Months  []MonthStat `json:"months"`
	HasData bool        `json:"has_data"`
}

type DatasetInfoResponse struct {
	RowCount       int64      `json:"row_count"`
	OrderCount     int64      `json:"order_count"`
	MinPurchaseAt  *time.Time `json:"min_purchase_at,omitempty"`
	MaxPurchaseAt  *time.Time `json:"max_purchase_at,omitempty"`
	SpanDays       int64      `json:"span_days"`
	UniqueMonths   int64      `json:"unique_months"`
	Years          []int      `json:"years"`
	TotalPayments  float64    `json:"total_payments"`
	PaymentCount   int64      `json:"payment_count"`
	Fingerprint    string     `json:"fingerprint"`
	HasData        bool       `json:"has_data"`
}

type OrderStatsResponse struct {
	OrderCount        int64    `json:"order_count"`
	TotalRevenue      float64  `json:"total_revenue"`
	AvgOrderValue     *float64 `json:"avg_order_value,omitempty"`
	MedianOrderValue  *float64 `json:"median_order_value,omitempty"`
	MinOrderValue     *float64 `json:"min_order_value,omitempty"`
	MaxOrderValue     *float64 `json:"max_order_value,omitempty"`
	AvgItemsPerOrder  *float64 `json:"avg_items_per_order,omitempty"`
	AvgUniqueProducts *float64 `json:"avg_unique_products,omitempty"`
	HasData           bool     `json:"has_data"`
}
