package csvsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/storelens/storelens/internal/dataset/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeAll(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, "orders_dataset.csv",
		"order_id,order_status,order_purchase_timestamp\no1,delivered,2024-06-01 10:00:00\n")
	writeFile(t, dir, "order_items_dataset.csv",
		"order_id,product_id,price,freight_value\no1,p1,10.00,1.00\n")
	writeFile(t, dir, "products_dataset.csv",
		"product_id,product_category_name\np1,books\n")
	writeFile(t, dir, "customers_dataset.csv",
		"customer_id,customer_state\nc1,SP\n")
	writeFile(t, dir, "order_reviews_dataset.csv",
		"review_id,order_id,review_score\nr1,o1,5\n")
	writeFile(t, dir, "order_payments_dataset.csv",
		"order_id,payment_value\no1,11.00\n")
}

func TestFetch_ReadsAllSixTables(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)

	tables, err := New(dir, zap.NewNop()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"order_id", "order_status", "order_purchase_timestamp"}, tables.Orders.Columns)
	require.Len(t, tables.Orders.Rows, 1)
	assert.Equal(t, "o1", tables.Orders.Rows[0][0])
	assert.Equal(t, "order_items", tables.Items.Name)
	assert.Len(t, tables.Payments.Rows, 1)
}

func TestFetch_RaggedRowsAreKept(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)
	writeFile(t, dir, "orders_dataset.csv",
		"order_id,order_status,order_purchase_timestamp\no1,delivered\n")

	tables, err := New(dir, zap.NewNop()).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, tables.Orders.Rows, 1)
	assert.Len(t, tables.Orders.Rows[0], 2)
}

func TestFetch_MissingFileFails(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "order_reviews_dataset.csv")))

	_, err := New(dir, zap.NewNop()).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "order_reviews_dataset.csv")
}

func TestFetch_EmptyFileFails(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)
	writeFile(t, dir, "products_dataset.csv", "")

	_, err := New(dir, zap.NewNop()).Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrEmptySource)
}

func TestFetch_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeAll(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(dir, zap.NewNop()).Fetch(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
