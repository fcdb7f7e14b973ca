package merge

import (
	"testing"
	"time"

	"github.com/storelens/storelens/internal/dataset/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ordersTable(rows ...[]string) domain.RawTable {
	return domain.RawTable{
		Name: "orders",
		Columns: []string{
			"order_id", "customer_id", "order_status",
			"order_purchase_timestamp", "order_delivered_customer_date",
			"order_estimated_delivery_date",
		},
		Rows: rows,
	}
}

func itemsTable(rows ...[]string) domain.RawTable {
	return domain.RawTable{
		Name:    "order_items",
		Columns: []string{"order_id", "product_id", "price", "freight_value"},
		Rows:    rows,
	}
}

func productsTable(rows ...[]string) domain.RawTable {
	return domain.RawTable{
		Name:    "products",
		Columns: []string{"product_id", "product_category_name"},
		Rows:    rows,
	}
}

func customersTable(rows ...[]string) domain.RawTable {
	return domain.RawTable{
		Name:    "customers",
		Columns: []string{"customer_id", "customer_state", "customer_city"},
		Rows:    rows,
	}
}

func reviewsTable(rows ...[]string) domain.RawTable {
	return domain.RawTable{
		Name:    "order_reviews",
		Columns: []string{"review_id", "order_id", "review_score", "review_creation_date"},
		Rows:    rows,
	}
}

func paymentsTable(rows ...[]string) domain.RawTable {
	return domain.RawTable{
		Name:    "order_payments",
		Columns: []string{"order_id", "payment_value"},
		Rows:    rows,
	}
}

func testTables() domain.RawTables {
	return domain.RawTables{
		Orders: ordersTable(
			[]string{"o1", "c1", "delivered", "2024-06-01 10:00:00", "2024-06-06 10:00:00", "2024-06-08 10:00:00"},
			[]string{"o2", "c2", "delivered", "2024-06-02 10:00:00", "2024-06-12 10:00:00", "2024-06-10 10:00:00"},
			[]string{"o3", "c1", "shipped", "2024-06-03 10:00:00", "", ""},
		),
		Items: itemsTable(
			[]string{"o1", "p1", "100.00", "10.00"},
			[]string{"o2", "p2", "50.00", "5.00"},
			[]string{"o2", "p1", "25.00", "2.50"},
		),
		Products: productsTable(
			[]string{"p1", "electronics"},
			[]string{"p2", "books"},
		),
		Customers: customersTable(
			[]string{"c1", "sp", "sao paulo"},
			[]string{"c2", "RJ", "rio de janeiro"},
		),
		Reviews: reviewsTable(
			[]string{"r1", "o1", "5", "2024-06-07 00:00:00"},
		),
		Payments: paymentsTable(
			[]string{"o1", "110.00"},
			[]string{"o2", "82.50"},
		),
	}
}

func newTestMerger() *Merger {
	return NewMerger(Params{Log: zap.NewNop()})
}

func TestMerge_DeliveredOnlyInnerJoin(t *testing.T) {
	snap, err := newTestMerger().Merge(testTables())
	require.NoError(t, err)

	// o3 is shipped, never delivered: no row for it.
	require.Len(t, snap.Rows, 3)
	assert.Equal(t, 1, snap.Stats.NonDeliveredExcluded)

	assert.Equal(t, "o1", snap.Rows[0].OrderID)
	assert.Equal(t, "o2", snap.Rows[1].OrderID)
	assert.Equal(t, "p1", snap.Rows[1].ProductID)
	assert.Equal(t, "o2", snap.Rows[2].OrderID)
	assert.Equal(t, "p2", snap.Rows[2].ProductID)
}

func TestMerge_CaseInsensitiveStatus(t *testing.T) {
	tables := testTables()
	tables.Orders.Rows[0][2] = "DELIVERED"
	tables.Orders.Rows[1][2] = " Delivered "

	snap, err := newTestMerger().Merge(tables)
	require.NoError(t, err)

	require.Len(t, snap.Rows, 3)
}

func TestMerge_CustomerAndReviewLeftJoins(t *testing.T) {
	snap, err := newTestMerger().Merge(testTables())
	require.NoError(t, err)

	// Customer state is normalized to upper case.
	assert.Equal(t, "SP", snap.Rows[0].CustomerState)
	assert.Equal(t, "sao paulo", snap.Rows[0].CustomerCity)

	require.NotNil(t, snap.Rows[0].ReviewScore)
	assert.Equal(t, 5, *snap.Rows[0].ReviewScore)
	// o2 has no review; the row survives with no score.
	assert.Nil(t, snap.Rows[1].ReviewScore)
}

func TestMerge_DeliveryDays(t *testing.T) {
	snap, err := newTestMerger().Merge(testTables())
	require.NoError(t, err)

	require.NotNil(t, snap.Rows[0].DeliveryDays)
	assert.Equal(t, 5, *snap.Rows[0].DeliveryDays)
	require.NotNil(t, snap.Rows[1].DeliveryDays)
	assert.Equal(t, 10, *snap.Rows[1].DeliveryDays)
}

func TestMerge_DeliveredBeforePurchaseExcluded(t *testing.T) {
	tables := testTables()
	tables.Orders.Rows[0][4] = "2024-05-01 10:00:00"

	snap, err := newTestMerger().Merge(tables)
	require.NoError(t, err)

	require.Len(t, snap.Rows, 2)
	for _, row := range snap.Rows {
		assert.NotEqual(t, "o1", row.OrderID)
	}
	assert.Equal(t, 1, snap.Stats.NegativeDeliveryDays)
}

func TestMerge_MissingDeliveredDateKeptWithoutDuration(t *testing.T) {
	tables := testTables()
	tables.Orders.Rows[0][4] = ""

	snap, err := newTestMerger().Merge(tables)
	require.NoError(t, err)

	require.Len(t, snap.Rows, 3)
	assert.Nil(t, snap.Rows[0].DeliveryDays)
}

func TestMerge_MissingPurchaseTimestampExcluded(t *testing.T) {
	tables := testTables()
	tables.Orders.Rows[0][3] = ""

	snap, err := newTestMerger().Merge(tables)
	require.NoError(t, err)

	require.Len(t, snap.Rows, 2)
	assert.Equal(t, 1, snap.Stats.MissingPurchaseDate)
}

func TestMerge_DuplicateOrdersKeepFirst(t *testing.T) {
	tables := testTables()
	tables.Orders.Rows = append(tables.Orders.Rows,
		[]string{"o1", "c9", "delivered", "2024-06-20 10:00:00", "2024-06-25 10:00:00", ""},
	)

	snap, err := newTestMerger().Merge(tables)
	require.NoError(t, err)

	assert.Equal(t, 1, snap.Stats.DuplicateOrders)
	assert.Equal(t, "c1", snap.Rows[0].CustomerID)
}

func TestMerge_OrphanAccounting(t *testing.T) {
	tables := testTables()
	// Item referencing a nonexistent order.
	tables.Items.Rows = append(tables.Items.Rows, []string{"o99", "p1", "10.00", "1.00"})
	// Delivered order with no items.
	tables.Orders.Rows = append(tables.Orders.Rows,
		[]string{"o4", "c2", "delivered", "2024-06-04 10:00:00", "2024-06-09 10:00:00", ""},
	)

	snap, err := newTestMerger().Merge(tables)
	require.NoError(t, err)

	require.Len(t, snap.Rows, 3)
	assert.Equal(t, 1, snap.Stats.ItemsWithoutOrder)
	assert.Equal(t, 1, snap.Stats.OrdersWithoutItems)
}

func TestMerge_NegativeAmountsExcluded(t *testing.T) {
	tables := testTables()
	tables.Items.Rows = append(tables.Items.Rows, []string{"o1", "p2", "-5.00", "1.00"})
	tables.Payments.Rows = append(tables.Payments.Rows, []string{"o1", "-1.00"})

	snap, err := newTestMerger().Merge(tables)
	require.NoError(t, err)

	require.Len(t, snap.Rows, 3)
	assert.Equal(t, 2, snap.Stats.NegativeAmounts)
	assert.InDelta(t, 192.50, snap.TotalPayments, 1e-9)
	assert.Equal(t, 2, snap.PaymentCount)
}

func TestMerge_InvalidReviewScoreExcluded(t *testing.T) {
	tables := testTables()
	tables.Reviews.Rows = append(tables.Reviews.Rows,
		[]string{"r2", "o2", "9", "2024-06-13 00:00:00"},
		[]string{"r3", "o2", "abc", "2024-06-13 00:00:00"},
	)

	snap, err := newTestMerger().Merge(tables)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Stats.InvalidReviewScores)
	assert.Nil(t, snap.Rows[1].ReviewScore)
}

func TestMerge_MostRecentReviewWins(t *testing.T) {
	tables := testTables()
	tables.Reviews.Rows = append(tables.Reviews.Rows,
		[]string{"r2", "o1", "2", "2024-06-09 00:00:00"},
	)

	snap, err := newTestMerger().Merge(tables)
	require.NoError(t, err)

	require.NotNil(t, snap.Rows[0].ReviewScore)
	assert.Equal(t, 2, *snap.Rows[0].ReviewScore)
}

func TestMerge_ReviewCreationTieBreaksOnID(t *testing.T) {
	tables := testTables()
	tables.Reviews = reviewsTable(
		[]string{"r1", "o1", "5", "2024-06-07 00:00:00"},
		[]string{"r2", "o1", "2", "2024-06-07 00:00:00"},
	)

	snap, err := newTestMerger().Merge(tables)
	require.NoError(t, err)

	require.NotNil(t, snap.Rows[0].ReviewScore)
	assert.Equal(t, 2, *snap.Rows[0].ReviewScore)
}

func TestMerge_MissingRequiredColumn(t *testing.T) {
	tables := testTables()
	tables.Orders.Columns = []string{"order_id", "customer_id", "order_status"}

	_, err := newTestMerger().Merge(tables)
	require.Error(t, err)

	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "orders", schemaErr.Table)
	assert.Equal(t, "order_purchase_timestamp", schemaErr.Field)
}

func TestMerge_ExtendedRowsCarryCategory(t *testing.T) {
	snap, err := newTestMerger().Merge(testTables())
	require.NoError(t, err)

	assert.Empty(t, snap.Rows[0].Category)
	assert.Equal(t, "electronics", snap.Extended[0].Category)
	assert.Equal(t, "books", snap.Extended[2].Category)
}

func TestMerge_DeterministicAcrossInputOrder(t *testing.T) {
	shuffled := testTables()
	shuffled.Items = itemsTable(
		[]string{"o2", "p1", "25.00", "2.50"},
		[]string{"o1", "p1", "100.00", "10.00"},
		[]string{"o2", "p2", "50.00", "5.00"},
	)

	first, err := newTestMerger().Merge(testTables())
	require.NoError(t, err)
	second, err := newTestMerger().Merge(shuffled)
	require.NoError(t, err)

	require.Len(t, second.Rows, len(first.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].OrderID, second.Rows[i].OrderID)
		assert.Equal(t, first.Rows[i].ProductID, second.Rows[i].ProductID)
	}
}

func TestFingerprint_StableAndContentSensitive(t *testing.T) {
	a := Fingerprint(testTables())
	b := Fingerprint(testTables())
	assert.Equal(t, a, b)

	changed := testTables()
	changed.Items.Rows[0][2] = "101.00"
	assert.NotEqual(t, a, Fingerprint(changed))
}

func TestFilterWindow_InclusiveBounds(t *testing.T) {
	rows := []domain.SalesRow{
		{OrderID: "o1", PurchasedAt: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{OrderID: "o2", PurchasedAt: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)},
		{OrderID: "o3", PurchasedAt: time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)},
		{OrderID: "o4", PurchasedAt: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)},
	}

	filtered := FilterWindow(rows,
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
	)

	require.Len(t, filtered, 3)
	assert.Equal(t, "o1", filtered[0].OrderID)
	assert.Equal(t, "o3", filtered[2].OrderID)
}
