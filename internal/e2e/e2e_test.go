package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storelens/storelens/internal/clock"
	"github.com/storelens/storelens/internal/config"
	"github.com/storelens/storelens/internal/dataset/merge"
	"github.com/storelens/storelens/internal/dataset/source/csvsource"
	insightssvc "github.com/storelens/storelens/internal/insights/service"
	"github.com/storelens/storelens/internal/observability"
	"github.com/storelens/storelens/internal/report"
	"github.com/storelens/storelens/internal/server"
)

func writeCSV(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

// writeDataset lays out a small but complete set of the six CSV files:
// three delivered orders across two months, one shipped order that must
// be excluded, reviews for two of them, and payments for all.
func writeDataset(t *testing.T, dir string) {
	t.Helper()
	writeCSV(t, dir, "orders_dataset.csv",
		"order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date,order_estimated_delivery_date",
		"o1,c1,delivered,2024-05-10 09:00:00,2024-05-15 09:00:00,2024-05-20 09:00:00",
		"o2,c2,delivered,2024-06-05 12:00:00,2024-06-18 12:00:00,2024-06-15 12:00:00",
		"o3,c1,delivered,2024-06-20 15:00:00,2024-06-24 15:00:00,2024-06-28 15:00:00",
		"o4,c2,shipped,2024-06-21 10:00:00,,",
	)
	writeCSV(t, dir, "order_items_dataset.csv",
		"order_id,order_item_id,product_id,price,freight_value",
		"o1,1,p1,100.00,10.00",
		"o2,1,p2,40.00,4.00",
		"o2,2,p1,60.00,6.00",
		"o3,1,p1,150.00,15.00",
	)
	writeCSV(t, dir, "products_dataset.csv",
		"product_id,product_category_name",
		"p1,electronics",
		"p2,books",
	)
	writeCSV(t, dir, "customers_dataset.csv",
		"customer_id,customer_state,customer_city",
		"c1,sp,sao paulo",
		"c2,RJ,rio de janeiro",
	)
	writeCSV(t, dir, "order_reviews_dataset.csv",
		"review_id,order_id,review_score,review_creation_date",
		"r1,o1,5,2024-05-16 00:00:00",
		"r2,o2,2,2024-06-19 00:00:00",
	)
	writeCSV(t, dir, "order_payments_dataset.csv",
		"order_id,payment_value",
		"o1,110.00",
		"o2,110.00",
		"o3,165.00",
	)
}

type testEnv struct {
	srv *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	writeDataset(t, dir)

	log := zap.NewNop()

	src := csvsource.New(dir, log)
	raw, err := src.Fetch(context.Background())
	require.NoError(t, err)

	snap, err := merge.NewMerger(merge.Params{Log: log}).Merge(raw)
	require.NoError(t, err)

	analysis := config.NewStaticAnalysisConfigHolder(config.DefaultAnalysisConfig())

	svc := insightssvc.NewService(insightssvc.Params{
		Snapshot: snap,
		Log:      log,
		Analysis: analysis,
	})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	reportSvc := report.NewService(report.Params{Insights: svc, GenID: node, Log: log})

	engine := server.NewEngine(log, observability.NewHTTPMetrics())
	s := server.NewServer(server.ServerParams{
		Gin:         engine,
		Cfg:         config.Config{},
		Analysis:    analysis,
		InsightsSvc: svc,
		ReportSvc:   reportSvc,
		Clock:       clock.NewFakeClock(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)),
		Log:         log,
	})
	s.RegisterAPIRoutes()

	ts := httptest.NewServer(engine)
	t.Cleanup(ts.Close)
	return &testEnv{srv: ts}
}

func (e *testEnv) getJSON(t *testing.T, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(e.srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), "body: %s", body)
	}
	return resp
}

func TestPipeline_OverviewFromCSV(t *testing.T) {
	env := newTestEnv(t)

	var got struct {
		Revenue       float64  `json:"revenue"`
		OrderCount    int64    `json:"order_count"`
		AvgOrderValue *float64 `json:"avg_order_value"`
	}
	resp := env.getJSON(t, "/api/v1/overview?start=2024-05-01&end=2024-06-30", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// o4 is shipped, never delivered; the remaining three orders sum to 350.
	assert.InDelta(t, 350.0, got.Revenue, 1e-9)
	assert.Equal(t, int64(3), got.OrderCount)
	require.NotNil(t, got.AvgOrderValue)
	assert.InDelta(t, 350.0/3.0, *got.AvgOrderValue, 1e-9)
}

func TestPipeline_WindowFiltersRows(t *testing.T) {
	env := newTestEnv(t)

	var got struct {
		Revenue    float64 `json:"revenue"`
		OrderCount int64   `json:"order_count"`
	}
	resp := env.getJSON(t, "/api/v1/overview?start=2024-06-01&end=2024-06-30", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 250.0, got.Revenue, 1e-9)
	assert.Equal(t, int64(2), got.OrderCount)
}

func TestPipeline_CategoriesAndGeography(t *testing.T) {
	env := newTestEnv(t)

	var cats struct {
		Categories []struct {
			Category string  `json:"category"`
			Revenue  float64 `json:"revenue"`
		} `json:"categories"`
	}
	resp := env.getJSON(t, "/api/v1/categories?start=2024-05-01&end=2024-06-30", &cats)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, cats.Categories)
	assert.Equal(t, "electronics", cats.Categories[0].Category)
	assert.InDelta(t, 310.0, cats.Categories[0].Revenue, 1e-9)

	var geo struct {
		States []struct {
			State   string  `json:"state"`
			Revenue float64 `json:"revenue"`
		} `json:"states"`
	}
	resp = env.getJSON(t, "/api/v1/geography?start=2024-05-01&end=2024-06-30", &geo)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, geo.States, 2)
	assert.Equal(t, "SP", geo.States[0].State)
}

func TestPipeline_DeliveryAndReviews(t *testing.T) {
	env := newTestEnv(t)

	var del struct {
		Stats struct {
			OnTimeRate *float64 `json:"on_time_rate"`
		} `json:"stats"`
	}
	resp := env.getJSON(t, "/api/v1/delivery?start=2024-05-01&end=2024-06-30", &del)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// o1 and o3 on time, o2 late.
	require.NotNil(t, del.Stats.OnTimeRate)
	assert.InDelta(t, 100.0*2.0/3.0, *del.Stats.OnTimeRate, 1e-6)

	var rev struct {
		ReviewedOrders int64    `json:"reviewed_orders"`
		AvgScore       *float64 `json:"avg_score"`
	}
	resp = env.getJSON(t, "/api/v1/reviews?start=2024-05-01&end=2024-06-30", &rev)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), rev.ReviewedOrders)
	require.NotNil(t, rev.AvgScore)
	assert.InDelta(t, 3.5, *rev.AvgScore, 1e-9)
}

func TestPipeline_DatasetInfoReportsMerge(t *testing.T) {
	env := newTestEnv(t)

	var got struct {
		RowCount   int `json:"row_count"`
		MergeStats struct {
			NonDeliveredExcluded int `json:"non_delivered_excluded"`
		} `json:"merge_stats"`
	}
	resp := env.getJSON(t, "/api/v1/dataset", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, got.RowCount)
	assert.Equal(t, 1, got.MergeStats.NonDeliveredExcluded)
}

func TestPipeline_SummaryExport(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.srv.URL + "/api/v1/reports/summary.xlsx?start=2024-05-01&end=2024-06-30")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}

func TestPipeline_InvalidWindowRejected(t *testing.T) {
	env := newTestEnv(t)

	var got struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	resp := env.getJSON(t, fmt.Sprintf("/api/v1/overview?start=%s&end=%s", "2024-06-30", "2024-06-01"), &got)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
