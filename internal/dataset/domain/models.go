package domain

import (
	"time"
)

// OrderStatusDelivered is the only status eligible for analysis. The match is
// case-insensitive and not configurable per call.
const OrderStatusDelivered = "delivered"

type Order struct {
	ID                  string
	CustomerID          string
	Status              string
	PurchasedAt         time.Time
	DeliveredAt         *time.Time
	EstimatedDeliveryAt *time.Time
}

type OrderItem struct {
	OrderID      string
	ProductID    string
	Price        float64
	FreightValue float64
}

type Product struct {
	ID       string
	Category string
}

type Customer struct {
	ID    string
	State string
	City  string
}

type OrderReview struct {
	ID        string
	OrderID   string
	Score     int
	CreatedAt time.Time
}

type OrderPayment struct {
	OrderID string
	Value   float64
}

// SalesRow is one (order, order item) pair joined with its customer and, when
// present, the order's review. Category is only populated by the extended
// product join. DeliveryDays is nil unless both timestamps exist and the
// delivered timestamp is not before the purchase timestamp.
type SalesRow struct {
	OrderID             string     `json:"order_id"`
	CustomerID          string     `json:"customer_id"`
	CustomerState       string     `json:"customer_state,omitempty"`
	CustomerCity        string     `json:"customer_city,omitempty"`
	ProductID           string     `json:"product_id"`
	Category            string     `json:"category,omitempty"`
	Price               float64    `json:"price"`
	FreightValue        float64    `json:"freight_value"`
	PurchasedAt         time.Time  `json:"purchased_at"`
	DeliveredAt         *time.Time `json:"delivered_at,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"estimated_delivery_at,omitempty"`
	ReviewScore         *int       `json:"review_score,omitempty"`
	DeliveryDays        *int       `json:"delivery_days,omitempty"`
}

// MergeStats records every row-level anomaly recovered during a merge. Bad
// rows are excluded and counted, never fatal.
type MergeStats struct {
	MissingPurchaseDate   int `json:"missing_purchase_date"`
	UnparsableRows        int `json:"unparsable_rows"`
	NegativeAmounts       int `json:"negative_amounts"`
	NegativeDeliveryDays  int `json:"negative_delivery_days"`
	OrdersWithoutItems    int `json:"orders_without_items"`
	DuplicateOrders       int `json:"duplicate_orders"`
	ItemsWithoutOrder     int `json:"items_without_order"`
	CustomersUnmatched    int `json:"customers_unmatched"`
	NonDeliveredExcluded  int `json:"non_delivered_excluded"`
	InvalidReviewScores   int `json:"invalid_review_scores"`
}

func (s MergeStats) Add(other MergeStats) MergeStats {
	s.MissingPurchaseDate += other.MissingPurchaseDate
	s.UnparsableRows += other.UnparsableRows
	s.NegativeAmounts += other.NegativeAmounts
	s.NegativeDeliveryDays += other.NegativeDeliveryDays
	s.OrdersWithoutItems += other.OrdersWithoutItems
	s.DuplicateOrders += other.DuplicateOrders
	s.ItemsWithoutOrder += other.ItemsWithoutOrder
	s.CustomersUnmatched += other.CustomersUnmatched
	s.NonDeliveredExcluded += other.NonDeliveredExcluded
	s.InvalidReviewScores += other.InvalidReviewScores
	return s
}

// Tables holds the six validated source tables of one analysis session.
type Tables struct {
	Orders    []Order
	Items     []OrderItem
	Products  []Product
	Customers []Customer
	Reviews   []OrderReview
	Payments  []OrderPayment

	Stats MergeStats
}

// Snapshot is an immutable merged dataset. Rows carry customer and review
// context, Extended additionally carries the product category. The insights
// service treats both slices as read-only for the life of the snapshot.
type Snapshot struct {
	Rows        []SalesRow
	Extended    []SalesRow
	Stats       MergeStats
	Fingerprint string

	// Payment volume is tracked separately from revenue and never summed
	// into it.
	TotalPayments float64
	PaymentCount  int
}
