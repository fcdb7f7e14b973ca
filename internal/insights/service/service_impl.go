package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/storelens/storelens/internal/config"
	datasetdomain "github.com/storelens/storelens/internal/dataset/domain"
	"github.com/storelens/storelens/internal/dataset/merge"
	insights "github.com/storelens/storelens/internal/insights/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Snapshot *datasetdomain.Snapshot
	Log      *zap.Logger
	Analysis *config.AnalysisConfigHolder `optional:"true"`
}

// Service computes every metric from the snapshot it was constructed with.
// The snapshot is never mutated; re-querying with a different window never
// re-merges.
type Service struct {
	snapshot *datasetdomain.Snapshot
	log      *zap.Logger
	analysis *config.AnalysisConfigHolder
}

func NewService(p Params) insights.Service {
	return &Service{
		snapshot: p.Snapshot,
		log:      p.Log.Named("insights.service"),
		analysis: p.Analysis,
	}
}

func (s *Service) MergeStats() datasetdomain.MergeStats {
	return s.snapshot.Stats
}

func (s *Service) Overview(ctx context.Context, req insights.OverviewRequest) (insights.OverviewResponse, error) {
	if !req.Window.Valid() {
		return insights.OverviewResponse{}, insights.ErrInvalidWindow
	}

	current := merge.FilterWindow(s.snapshot.Rows, req.Window.Start, req.Window.End)

	revenue := totalRevenue(current)
	orderCount := int64(distinctOrders(current))

	resp := insights.OverviewResponse{
		Revenue:    &revenue,
		OrderCount: &orderCount,
		HasData:    len(current) > 0,
	}
	if orderCount > 0 {
		aov := revenue / float64(orderCount)
		resp.AvgOrderValue = &aov
	}

	if !req.Compare && req.CompareWindow == nil {
		return resp, nil
	}

	previousWindow, err := resolveCompareWindow(req.Window, req.CompareWindow)
	if err != nil {
		return insights.OverviewResponse{}, err
	}

	previous := merge.FilterWindow(s.snapshot.Rows, previousWindow.Start, previousWindow.End)
	prevRevenue := totalRevenue(previous)
	prevOrders := int64(distinctOrders(previous))

	resp.PreviousRevenue = &prevRevenue
	resp.RevenueGrowth = growthRate(revenue, prevRevenue)
	resp.OrderGrowth = growthRate(float64(orderCount), float64(prevOrders))
	if orderCount > 0 && prevOrders > 0 {
		resp.AOVGrowth = growthRate(revenue/float64(orderCount), prevRevenue/float64(prevOrders))
	}

	return resp, nil
}

func (s *Service) RevenueTrend(ctx context.Context, req insights.TrendRequest) (insights.TrendResponse, error) {
	if !req.Window.Valid() {
		return insights.TrendResponse{}, insights.ErrInvalidWindow
	}
	granularity := req.Granularity
	if granularity == "" {
		granularity = insights.GranularityMonth
	}

	current := merge.FilterWindow(s.snapshot.Rows, req.Window.Start, req.Window.End)
	resp := insights.TrendResponse{
		Series:  buildSeries(current, req.Window, granularity),
		HasData: len(current) > 0,
	}

	if req.Compare {
		previousWindow := req.Window.Previous()
		previous := merge.FilterWindow(s.snapshot.Rows, previousWindow.Start, previousWindow.End)
		resp.CompareSeries = buildSeries(previous, previousWindow, granularity)
	}

	return resp, nil
}

func (s *Service) TopCategories(ctx context.Context, req insights.RankingRequest) (insights.CategoryRankingResponse, error) {
	if !req.Window.Valid() {
		return insights.CategoryRankingResponse{}, insights.ErrInvalidWindow
	}
	topN := req.TopN
	if topN <= 0 {
		topN = s.defaultTopN()
	}

	rows := merge.FilterWindow(s.snapshot.Extended, req.Window.Start, req.Window.End)
	if len(rows) == 0 {
		return insights.CategoryRankingResponse{Categories: []insights.CategoryStat{}}, nil
	}

	type acc struct {
		revenue  float64
		items    int64
		orders   map[string]struct{}
		products map[string]struct{}
	}
	byCategory := make(map[string]*acc)
	var categories []string
	var grandTotal float64

	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = insights.UncategorizedBucket
		}
		bucket, ok := byCategory[category]
		if !ok {
			bucket = &acc{
				orders:   make(map[string]struct{}),
				products: make(map[string]struct{}),
			}
			byCategory[category] = bucket
			categories = append(categories, category)
		}
		bucket.revenue += row.Price
		bucket.items++
		bucket.orders[row.OrderID] = struct{}{}
		bucket.products[row.ProductID] = struct{}{}
		grandTotal += row.Price
	}

	stats := make([]insights.CategoryStat, 0, len(categories))
	for _, category := range categories {
		bucket := byCategory[category]
		stat := insights.CategoryStat{
			Category:     category,
			Revenue:      bucket.revenue,
			ItemsSold:    bucket.items,
			OrderCount:   int64(len(bucket.orders)),
			ProductCount: int64(len(bucket.products)),
		}
		if bucket.items > 0 {
			stat.AvgPrice = bucket.revenue / float64(bucket.items)
		}
		if grandTotal > 0 {
			stat.RevenueShare = bucket.revenue / grandTotal * 100
		}
		stats = append(stats, stat)
	}

	// Revenue descending, category name ascending on ties: reproducible
	// chart and test output.
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Revenue != stats[j].Revenue {
			return stats[i].Revenue > stats[j].Revenue
		}
		return stats[i].Category < stats[j].Category
	})
	if len(stats) > topN {
		stats = stats[:topN]
	}

	return insights.CategoryRankingResponse{Categories: stats, HasData: true}, nil
}

func (s *Service) RevenueByState(ctx context.Context, window insights.Window) (insights.GeographyResponse, error) {
	if !window.Valid() {
		return insights.GeographyResponse{}, insights.ErrInvalidWindow
	}

	rows := merge.FilterWindow(s.snapshot.Rows, window.Start, window.End)

	type acc struct {
		revenue   float64
		orders    map[string]struct{}
		customers map[string]struct{}
	}
	byState := make(map[string]*acc)
	var states []string
	var excluded int64
	var grandTotal float64

	for _, row := range rows {
		if row.CustomerState == "" {
			excluded++
			continue
		}
		bucket, ok := byState[row.CustomerState]
		if !ok {
			bucket = &acc{
				orders:    make(map[string]struct{}),
				customers: make(map[string]struct{}),
			}
			byState[row.CustomerState] = bucket
			states = append(states, row.CustomerState)
		}
		bucket.revenue += row.Price
		bucket.orders[row.OrderID] = struct{}{}
		bucket.customers[row.CustomerID] = struct{}{}
		grandTotal += row.Price
	}

	stats := make([]insights.StateStat, 0, len(states))
	for _, state := range states {
		bucket := byState[state]
		stat := insights.StateStat{
			State:         state,
			Revenue:       bucket.revenue,
			OrderCount:    int64(len(bucket.orders)),
			CustomerCount: int64(len(bucket.customers)),
		}
		if len(bucket.orders) > 0 {
			stat.AvgOrderValue = bucket.revenue / float64(len(bucket.orders))
		}
		if grandTotal > 0 {
			stat.RevenueShare = bucket.revenue / grandTotal * 100
		}
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Revenue != stats[j].Revenue {
			return stats[i].Revenue > stats[j].Revenue
		}
		return stats[i].State < stats[j].State
	})

	return insights.GeographyResponse{
		States:       stats,
		ExcludedRows: excluded,
		HasData:      len(stats) > 0,
	}, nil
}

func (s *Service) DeliveryPerformance(ctx context.Context, req insights.DeliveryRequest) (insights.DeliveryResponse, error) {
	if !req.Window.Valid() {
		return insights.DeliveryResponse{}, insights.ErrInvalidWindow
	}

	boundaries := req.Buckets
	if len(boundaries) == 0 {
		boundaries = s.defaultBuckets()
	}

	rows := merge.FilterWindow(s.snapshot.Rows, req.Window.Start, req.Window.End)

	var durations []int
	var excludedNoDuration, excludedNoReview, excludedNoBucket int64
	var onTimeTotal, onTimeHits int64

	type bucketAcc struct {
		count      int64
		scoreSum   float64
		scoreCount int64
	}
	accs := make([]bucketAcc, len(boundaries))

	for _, row := range rows {
		if row.DeliveryDays == nil {
			excludedNoDuration++
			continue
		}
		durations = append(durations, *row.DeliveryDays)

		if row.DeliveredAt != nil && row.EstimatedDeliveryAt != nil {
			onTimeTotal++
			if !row.DeliveredAt.After(*row.EstimatedDeliveryAt) {
				onTimeHits++
			}
		}

		if row.ReviewScore == nil {
			excludedNoReview++
			continue
		}
		bucketed := false
		for i, bucket := range boundaries {
			if *row.DeliveryDays < bucket.MinDays {
				continue
			}
			if bucket.MaxDays != nil && *row.DeliveryDays > *bucket.MaxDays {
				continue
			}
			accs[i].count++
			accs[i].scoreSum += float64(*row.ReviewScore)
			accs[i].scoreCount++
			bucketed = true
			break
		}
		// Custom boundaries may leave gaps; a miss is counted, never
		// silently dropped.
		if !bucketed {
			excludedNoBucket++
		}
	}

	buckets := make([]insights.DeliveryBucket, len(boundaries))
	for i, boundary := range boundaries {
		buckets[i] = insights.DeliveryBucket{
			Label: boundary.Label,
			Count: accs[i].count,
		}
		if accs[i].scoreCount > 0 {
			avg := accs[i].scoreSum / float64(accs[i].scoreCount)
			buckets[i].AvgReviewScore = &avg
		}
	}

	resp := insights.DeliveryResponse{
		Buckets:            buckets,
		ExcludedNoDuration: excludedNoDuration,
		ExcludedNoReview:   excludedNoReview,
		ExcludedNoBucket:   excludedNoBucket,
		HasData:            len(durations) > 0,
	}

	if len(durations) > 0 {
		sort.Ints(durations)
		avg := meanInts(durations)
		median := medianInts(durations)
		min := durations[0]
		max := durations[len(durations)-1]
		resp.Stats.AvgDays = &avg
		resp.Stats.MedianDays = &median
		resp.Stats.MinDays = &min
		resp.Stats.MaxDays = &max
	}
	if onTimeTotal > 0 {
		rate := float64(onTimeHits) / float64(onTimeTotal) * 100
		resp.Stats.OnTimeRate = &rate
	}

	return resp, nil
}

func (s *Service) ReviewBreakdown(ctx context.Context, window insights.Window) (insights.ReviewsResponse, error) {
	if !window.Valid() {
		return insights.ReviewsResponse{}, insights.ErrInvalidWindow
	}

	rows := merge.FilterWindow(s.snapshot.Rows, window.Start, window.End)

	// One review per order; rows are canonical so the first occurrence per
	// order is stable.
	seen := make(map[string]struct{})
	var scores []int
	var delivery []float64
	var scoresWithDelivery []float64
	counts := make(map[int]int64)

	for _, row := range rows {
		if row.ReviewScore == nil {
			continue
		}
		if _, dup := seen[row.OrderID]; dup {
			continue
		}
		seen[row.OrderID] = struct{}{}
		scores = append(scores, *row.ReviewScore)
		counts[*row.ReviewScore]++
		if row.DeliveryDays != nil {
			delivery = append(delivery, float64(*row.DeliveryDays))
			scoresWithDelivery = append(scoresWithDelivery, float64(*row.ReviewScore))
		}
	}

	resp := insights.ReviewsResponse{
		ReviewedOrders: int64(len(scores)),
		Distribution:   make([]insights.ScoreCount, 0, 5),
		HasData:        len(scores) > 0,
	}
	for score := 1; score <= 5; score++ {
		if count, ok := counts[score]; ok {
			resp.Distribution = append(resp.Distribution, insights.ScoreCount{Score: score, Count: count})
		}
	}
	if len(scores) == 0 {
		return resp, nil
	}

	sorted := make([]int, len(scores))
	copy(sorted, scores)
	sort.Ints(sorted)

	avg := meanInts(sorted)
	median := medianInts(sorted)
	resp.AvgScore = &avg
	resp.MedianScore = &median

	total := float64(len(scores))
	var five, fourPlus, twoMinus float64
	for _, score := range scores {
		if score == 5 {
			five++
		}
		if score >= 4 {
			fourPlus++
		}
		if score <= 2 {
			twoMinus++
		}
	}
	pctFive := five / total * 100
	pctFourPlus := fourPlus / total * 100
	pctTwoMinus := twoMinus / total * 100
	resp.PctFiveStar = &pctFive
	resp.PctFourPlus = &pctFourPlus
	resp.PctTwoMinus = &pctTwoMinus

	if corr, ok := pearson(delivery, scoresWithDelivery); ok {
		resp.DeliveryCorrelation = &corr
	}

	return resp, nil
}

func (s *Service) OrderStats(ctx context.Context, window insights.Window) (insights.OrderStatsResponse, error) {
	if !window.Valid() {
		return insights.OrderStatsResponse{}, insights.ErrInvalidWindow
	}

	rows := merge.FilterWindow(s.snapshot.Rows, window.Start, window.End)

	type acc struct {
		value    float64
		items    int64
		products map[string]struct{}
	}
	byOrder := make(map[string]*acc)
	var orderIDs []string

	for _, row := range rows {
		bucket, ok := byOrder[row.OrderID]
		if !ok {
			bucket = &acc{products: make(map[string]struct{})}
			byOrder[row.OrderID] = bucket
			orderIDs = append(orderIDs, row.OrderID)
		}
		bucket.value += row.Price
		bucket.items++
		bucket.products[row.ProductID] = struct{}{}
	}

	resp := insights.OrderStatsResponse{
		OrderCount: int64(len(orderIDs)),
		HasData:    len(orderIDs) > 0,
	}
	if len(orderIDs) == 0 {
		return resp, nil
	}

	values := make([]float64, 0, len(orderIDs))
	var totalItems, totalProducts int64
	for _, id := range orderIDs {
		bucket := byOrder[id]
		values = append(values, bucket.value)
		totalItems += bucket.items
		totalProducts += int64(len(bucket.products))
		resp.TotalRevenue += bucket.value
	}
	sort.Float64s(values)

	avg := resp.TotalRevenue / float64(len(values))
	median := medianFloats(values)
	min := values[0]
	max := values[len(values)-1]
	avgItems := float64(totalItems) / float64(len(values))
	avgProducts := float64(totalProducts) / float64(len(values))

	resp.AvgOrderValue = &avg
	resp.MedianOrderValue = &median
	resp.MinOrderValue = &min
	resp.MaxOrderValue = &max
	resp.AvgItemsPerOrder = &avgItems
	resp.AvgUniqueProducts = &avgProducts

	return resp, nil
}

func (s *Service) YoYGrowth(ctx context.Context, req insights.YoYRequest) (insights.GrowthResponse, error) {
	metric := req.Metric
	if metric == "" {
		metric = insights.MetricRevenue
	}

	currentValue, err := s.yearMetric(req.CurrentYear, metric)
	if err != nil {
		return insights.GrowthResponse{}, err
	}
	previousValue, err := s.yearMetric(req.PreviousYear, metric)
	if err != nil {
		return insights.GrowthResponse{}, err
	}

	return insights.GrowthResponse{
		Metric:         metric,
		CurrentYear:    req.CurrentYear,
		PreviousYear:   req.PreviousYear,
		CurrentValue:   currentValue,
		PreviousValue:  previousValue,
		AbsoluteChange: currentValue - previousValue,
		GrowthRate:     growthRate(currentValue, previousValue),
	}, nil
}

func (s *Service) MoMGrowth(ctx context.Context, req insights.MoMRequest) (insights.MoMResponse, error) {
	yearWindow := insights.Window{
		Start: time.Date(req.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(req.Year, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	rows := merge.FilterWindow(s.snapshot.Rows, yearWindow.Start, yearWindow.End)

	type acc struct {
		revenue float64
		orders  map[string]struct{}
	}
	byMonth := make(map[int]*acc)
	for _, row := range rows {
		month := int(row.PurchasedAt.Month())
		bucket, ok := byMonth[month]
		if !ok {
			bucket = &acc{orders: make(map[string]struct{})}
			byMonth[month] = bucket
		}
		bucket.revenue += row.Price
		bucket.orders[row.OrderID] = struct{}{}
	}

	months := make([]int, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Ints(months)

	resp := insights.MoMResponse{
		Year:    req.Year,
		Months:  make([]insights.MonthStat, 0, len(months)),
		HasData: len(months) > 0,
	}

	var window []float64
	for i, month := range months {
		bucket := byMonth[month]
		stat := insights.MonthStat{
			Month:      month,
			Revenue:    bucket.revenue,
			OrderCount: int64(len(bucket.orders)),
		}
		if len(bucket.orders) > 0 {
			aov := bucket.revenue / float64(len(bucket.orders))
			stat.AvgOrderValue = &aov
		}
		if i > 0 {
			prev := byMonth[months[i-1]]
			stat.RevenueGrowth = growthRate(bucket.revenue, prev.revenue)
			stat.OrderGrowth = growthRate(float64(len(bucket.orders)), float64(len(prev.orders)))
		}

		if req.Smoothing {
			window = append(window, bucket.revenue)
			if len(window) > 3 {
				window = window[1:]
			}
			if len(window) == 3 {
				ma := (window[0] + window[1] + window[2]) / 3
				stat.RevenueMA3 = &ma
			}
		}

		resp.Months = append(resp.Months, stat)
	}

	return resp, nil
}

func (s *Service) DatasetInfo(ctx context.Context) insights.DatasetInfoResponse {
	resp := insights.DatasetInfoResponse{
		RowCount:      int64(len(s.snapshot.Rows)),
		OrderCount:    int64(distinctOrders(s.snapshot.Rows)),
		TotalPayments: s.snapshot.TotalPayments,
		PaymentCount:  int64(s.snapshot.PaymentCount),
		Fingerprint:   s.snapshot.Fingerprint,
		HasData:       len(s.snapshot.Rows) > 0,
	}
	if len(s.snapshot.Rows) == 0 {
		return resp
	}

	min := s.snapshot.Rows[0].PurchasedAt
	max := s.snapshot.Rows[0].PurchasedAt
	monthSet := make(map[string]struct{})
	yearSet := make(map[int]struct{})
	for _, row := range s.snapshot.Rows {
		if row.PurchasedAt.Before(min) {
			min = row.PurchasedAt
		}
		if row.PurchasedAt.After(max) {
			max = row.PurchasedAt
		}
		monthSet[row.PurchasedAt.Format("2006-01")] = struct{}{}
		yearSet[row.PurchasedAt.Year()] = struct{}{}
	}

	years := make([]int, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Ints(years)

	resp.MinPurchaseAt = &min
	resp.MaxPurchaseAt = &max
	resp.SpanDays = int64(max.Sub(min).Hours() / 24)
	resp.UniqueMonths = int64(len(monthSet))
	resp.Years = years

	return resp
}

func (s *Service) yearMetric(year int, metric insights.Metric) (float64, error) {
	window := insights.Window{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	rows := merge.FilterWindow(s.snapshot.Rows, window.Start, window.End)

	switch metric {
	case insights.MetricRevenue:
		return totalRevenue(rows), nil
	case insights.MetricOrders:
		return float64(distinctOrders(rows)), nil
	case insights.MetricAvgOrderValue:
		orders := distinctOrders(rows)
		if orders == 0 {
			return 0, nil
		}
		return totalRevenue(rows) / float64(orders), nil
	default:
		return 0, insights.ErrUnknownMetric
	}
}

func (s *Service) defaultBuckets() []insights.BucketBoundary {
	cfg := config.DefaultAnalysisConfig()
	if s.analysis != nil {
		cfg = s.analysis.Get()
	}
	buckets := make([]insights.BucketBoundary, 0, len(cfg.DeliveryBuckets))
	for _, bucket := range cfg.DeliveryBuckets {
		buckets = append(buckets, insights.BucketBoundary{
			Label:   bucket.Label,
			MinDays: bucket.MinDays,
			MaxDays: bucket.MaxDays,
		})
	}
	return buckets
}

func (s *Service) defaultTopN() int {
	if s.analysis != nil {
		return s.analysis.Get().TopCategories
	}
	return config.DefaultAnalysisConfig().TopCategories
}

func resolveCompareWindow(primary insights.Window, override *insights.Window) (insights.Window, error) {
	if override == nil {
		return primary.Previous(), nil
	}
	if !override.Valid() || override.Days() != primary.Days() {
		return insights.Window{}, insights.ErrInvalidWindow
	}
	return *override, nil
}

func totalRevenue(rows []datasetdomain.SalesRow) float64 {
	var total float64
	for _, row := range rows {
		total += row.Price
	}
	return total
}

func distinctOrders(rows []datasetdomain.SalesRow) int {
	orders := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		orders[row.OrderID] = struct{}{}
	}
	return len(orders)
}

// growthRate returns (current-previous)/previous, or nil when the baseline
// is zero. Never infinity, never a clamped value.
func growthRate(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	rate := (current - previous) / previous
	return &rate
}

func buildSeries(rows []datasetdomain.SalesRow, window insights.Window, granularity insights.Granularity) []insights.SeriesPoint {
	layout := "2006-01"
	if granularity == insights.GranularityDay {
		layout = "2006-01-02"
	}

	totals := make(map[string]float64)
	for _, row := range rows {
		totals[row.PurchasedAt.Format(layout)] += row.Price
	}

	var points []insights.SeriesPoint
	for _, period := range periodLabels(window, granularity, layout) {
		points = append(points, insights.SeriesPoint{
			Period: period,
			Value:  totals[period],
		})
	}
	return points
}

// periodLabels emits the continuous run of period labels covering the
// window, so sparse data still yields a gap-free series.
func periodLabels(window insights.Window, granularity insights.Granularity, layout string) []string {
	var labels []string
	if granularity == insights.GranularityDay {
		cursor := time.Date(window.Start.Year(), window.Start.Month(), window.Start.Day(), 0, 0, 0, 0, time.UTC)
		end := time.Date(window.End.Year(), window.End.Month(), window.End.Day(), 0, 0, 0, 0, time.UTC)
		for !cursor.After(end) {
			labels = append(labels, cursor.Format(layout))
			cursor = cursor.AddDate(0, 0, 1)
		}
		return labels
	}

	cursor := time.Date(window.Start.Year(), window.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(window.End.Year(), window.End.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		labels = append(labels, cursor.Format(layout))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return labels
}

func meanInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// medianInts expects sorted input.
func medianInts(values []int) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return float64(values[n/2])
	}
	return (float64(values[n/2-1]) + float64(values[n/2])) / 2
}

// medianFloats expects sorted input.
func medianFloats(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}

// pearson returns the correlation coefficient of two equal-length samples,
// or false when it is undefined (fewer than two pairs or zero variance).
func pearson(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}
