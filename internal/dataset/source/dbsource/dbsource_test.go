package dbsource

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE orders (order_id TEXT, order_status TEXT, order_purchase_timestamp TEXT)`,
		`CREATE TABLE order_items (order_id TEXT, product_id TEXT, price TEXT, freight_value TEXT)`,
		`CREATE TABLE products (product_id TEXT, product_category_name TEXT)`,
		`CREATE TABLE customers (customer_id TEXT, customer_state TEXT)`,
		`CREATE TABLE order_reviews (review_id TEXT, order_id TEXT, review_score TEXT)`,
		`CREATE TABLE order_payments (order_id TEXT, payment_value TEXT)`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestFetch_ReadsAllSixTables(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec(
		`INSERT INTO orders VALUES ('o1', 'delivered', '2024-06-01 10:00:00')`).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO order_items VALUES ('o1', 'p1', '10.00', '1.00')`).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO products VALUES ('p1', 'books')`).Error)

	tables, err := New(db, zap.NewNop()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"order_id", "order_status", "order_purchase_timestamp"}, tables.Orders.Columns)
	require.Len(t, tables.Orders.Rows, 1)
	assert.Equal(t, []string{"o1", "delivered", "2024-06-01 10:00:00"}, tables.Orders.Rows[0])
	assert.Len(t, tables.Items.Rows, 1)
	assert.Empty(t, tables.Customers.Rows)
	assert.Empty(t, tables.Payments.Rows)
}

func TestFetch_NullColumnsBecomeEmptyStrings(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec(
		`INSERT INTO orders VALUES ('o1', NULL, NULL)`).Error)

	tables, err := New(db, zap.NewNop()).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, tables.Orders.Rows, 1)
	assert.Equal(t, []string{"o1", "", ""}, tables.Orders.Rows[0])
}

func TestFetch_MissingTableFails(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Exec(`DROP TABLE order_payments`).Error)

	_, err := New(db, zap.NewNop()).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_payments")
}
