package seed

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// EnsureDemoDataset inserts a small sample of the six tables so a fresh
// db-backend install has something to analyze. It is a no-op when the
// orders table already holds rows.
func EnsureDemoDataset(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("orders").Count(&count).Error; err != nil {
			return fmt.Errorf("count orders: %w", err)
		}
		if count > 0 {
			return nil
		}

		orders := []map[string]any{
			{
				"order_id":                      "demo-order-1",
				"customer_id":                   "demo-customer-1",
				"order_status":                  "delivered",
				"order_purchase_timestamp":      "2024-01-10 09:15:00",
				"order_delivered_customer_date": "2024-01-17 14:00:00",
				"order_estimated_delivery_date": "2024-01-20 00:00:00",
			},
			{
				"order_id":                      "demo-order-2",
				"customer_id":                   "demo-customer-2",
				"order_status":                  "delivered",
				"order_purchase_timestamp":      "2024-02-03 18:40:00",
				"order_delivered_customer_date": "2024-02-15 11:30:00",
				"order_estimated_delivery_date": "2024-02-12 00:00:00",
			},
			{
				"order_id":                 "demo-order-3",
				"customer_id":              "demo-customer-1",
				"order_status":             "shipped",
				"order_purchase_timestamp": "2024-02-20 08:05:00",
			},
		}
		items := []map[string]any{
			{"order_id": "demo-order-1", "order_item_id": "1", "product_id": "demo-product-1", "price": "129.90", "freight_value": "12.50"},
			{"order_id": "demo-order-2", "order_item_id": "1", "product_id": "demo-product-2", "price": "45.00", "freight_value": "8.00"},
			{"order_id": "demo-order-2", "order_item_id": "2", "product_id": "demo-product-1", "price": "129.90", "freight_value": "12.50"},
			{"order_id": "demo-order-3", "order_item_id": "1", "product_id": "demo-product-2", "price": "45.00", "freight_value": "8.00"},
		}
		products := []map[string]any{
			{"product_id": "demo-product-1", "product_category_name": "electronics"},
			{"product_id": "demo-product-2", "product_category_name": "books"},
		}
		customers := []map[string]any{
			{"customer_id": "demo-customer-1", "customer_unique_id": "demo-unique-1", "customer_city": "sao paulo", "customer_state": "SP"},
			{"customer_id": "demo-customer-2", "customer_unique_id": "demo-unique-2", "customer_city": "rio de janeiro", "customer_state": "RJ"},
		}
		reviews := []map[string]any{
			{"review_id": "demo-review-1", "order_id": "demo-order-1", "review_score": "5", "review_creation_date": "2024-01-18 00:00:00"},
			{"review_id": "demo-review-2", "order_id": "demo-order-2", "review_score": "2", "review_creation_date": "2024-02-16 00:00:00"},
		}
		payments := []map[string]any{
			{"order_id": "demo-order-1", "payment_sequential": "1", "payment_type": "credit_card", "payment_installments": "1", "payment_value": "142.40"},
			{"order_id": "demo-order-2", "payment_sequential": "1", "payment_type": "boleto", "payment_installments": "1", "payment_value": "195.40"},
		}

		for table, rows := range map[string][]map[string]any{
			"orders":         orders,
			"order_items":    items,
			"products":       products,
			"customers":      customers,
			"order_reviews":  reviews,
			"order_payments": payments,
		} {
			for _, row := range rows {
				if err := tx.Table(table).Create(row).Error; err != nil {
					return fmt.Errorf("seed %s: %w", table, err)
				}
			}
		}
		return nil
	})
}
