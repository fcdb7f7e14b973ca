package merge

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/storelens/storelens/internal/dataset/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Column names of the six source tables. Sources deliver raw string cells;
// every coercion happens here so the schema contract lives in one place.
const (
	colOrderID           = "order_id"
	colCustomerID        = "customer_id"
	colOrderStatus       = "order_status"
	colPurchaseTimestamp = "order_purchase_timestamp"
	colDeliveredDate     = "order_delivered_customer_date"
	colEstimatedDate     = "order_estimated_delivery_date"
	colProductID         = "product_id"
	colPrice             = "price"
	colFreightValue      = "freight_value"
	colCategoryName      = "product_category_name"
	colCustomerState     = "customer_state"
	colCustomerCity      = "customer_city"
	colReviewID          = "review_id"
	colReviewScore       = "review_score"
	colReviewCreated     = "review_creation_date"
	colPaymentValue      = "payment_value"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type Params struct {
	fx.In

	Log *zap.Logger
}

// Merger turns raw tables into a deterministic Snapshot. It is stateless
// between invocations; no row is mutated after creation.
type Merger struct {
	log *zap.Logger
}

func NewMerger(p Params) *Merger {
	return &Merger{log: p.Log.Named("dataset.merge")}
}

// Merge runs the full pipeline: Load, FilterDelivered, JoinSales and
// WithProducts, returning the immutable snapshot the insights service is
// built on.
func (m *Merger) Merge(raw domain.RawTables) (*domain.Snapshot, error) {
	tables, err := m.Load(raw)
	if err != nil {
		return nil, err
	}

	delivered, excluded := FilterDelivered(tables.Orders)
	tables.Stats.NonDeliveredExcluded = excluded

	knownOrders := make(map[string]struct{}, len(tables.Orders))
	for _, order := range tables.Orders {
		knownOrders[order.ID] = struct{}{}
	}
	for _, item := range tables.Items {
		if _, ok := knownOrders[item.OrderID]; !ok {
			tables.Stats.ItemsWithoutOrder++
		}
	}

	rows, stats := m.JoinSales(delivered, tables.Items, tables.Customers, tables.Reviews)
	stats = tables.Stats.Add(stats)

	snapshot := &domain.Snapshot{
		Rows:        rows,
		Extended:    WithProducts(rows, tables.Products),
		Stats:       stats,
		Fingerprint: Fingerprint(raw),
	}
	for _, payment := range tables.Payments {
		snapshot.TotalPayments += payment.Value
		snapshot.PaymentCount++
	}

	m.log.Info("dataset merged",
		zap.Int("sales_rows", len(snapshot.Rows)),
		zap.Int("delivered_orders", len(delivered)),
		zap.Int("non_delivered_excluded", stats.NonDeliveredExcluded),
		zap.Int("orders_without_items", stats.OrdersWithoutItems),
		zap.String("fingerprint", snapshot.Fingerprint),
	)

	return snapshot, nil
}

// Load validates the six raw tables and coerces every field. A missing
// required column is a SchemaError and aborts the load; a malformed row is
// excluded and counted.
func (m *Merger) Load(raw domain.RawTables) (*domain.Tables, error) {
	tables := &domain.Tables{}

	orders, stats, err := loadOrders(raw.Orders)
	if err != nil {
		return nil, err
	}
	tables.Orders = orders
	tables.Stats = tables.Stats.Add(stats)

	items, stats, err := loadItems(raw.Items)
	if err != nil {
		return nil, err
	}
	tables.Items = items
	tables.Stats = tables.Stats.Add(stats)

	products, err := loadProducts(raw.Products)
	if err != nil {
		return nil, err
	}
	tables.Products = products

	customers, err := loadCustomers(raw.Customers)
	if err != nil {
		return nil, err
	}
	tables.Customers = customers

	reviews, stats, err := loadReviews(raw.Reviews)
	if err != nil {
		return nil, err
	}
	tables.Reviews = reviews
	tables.Stats = tables.Stats.Add(stats)

	payments, stats, err := loadPayments(raw.Payments)
	if err != nil {
		return nil, err
	}
	tables.Payments = payments
	tables.Stats = tables.Stats.Add(stats)

	return tables, nil
}

// FilterDelivered retains only orders whose status is the canonical delivered
// value. Fixed business policy, case-insensitive.
func FilterDelivered(orders []domain.Order) ([]domain.Order, int) {
	kept := make([]domain.Order, 0, len(orders))
	excluded := 0
	for _, order := range orders {
		if strings.EqualFold(strings.TrimSpace(order.Status), domain.OrderStatusDelivered) {
			kept = append(kept, order)
			continue
		}
		excluded++
	}
	return kept, excluded
}

// JoinSales joins delivered orders with their items (inner), customers (left)
// and at most one review per order (left, most recent review wins). Output
// order is canonical: order ID ascending, then product ID, preserving item
// input order within ties.
func (m *Merger) JoinSales(
	orders []domain.Order,
	items []domain.OrderItem,
	customers []domain.Customer,
	reviews []domain.OrderReview,
) ([]domain.SalesRow, domain.MergeStats) {
	var stats domain.MergeStats

	orderByID := make(map[string]domain.Order, len(orders))
	for _, order := range orders {
		orderByID[order.ID] = order
	}

	customerByID := make(map[string]domain.Customer, len(customers))
	for _, customer := range customers {
		customerByID[customer.ID] = customer
	}

	reviewByOrder := latestReviewPerOrder(reviews)

	rows := make([]domain.SalesRow, 0, len(items))
	matchedOrders := make(map[string]struct{}, len(orders))

	for _, item := range items {
		order, ok := orderByID[item.OrderID]
		if !ok {
			continue
		}
		matchedOrders[item.OrderID] = struct{}{}

		row := domain.SalesRow{
			OrderID:             order.ID,
			CustomerID:          order.CustomerID,
			ProductID:           item.ProductID,
			Price:               item.Price,
			FreightValue:        item.FreightValue,
			PurchasedAt:         order.PurchasedAt,
			DeliveredAt:         order.DeliveredAt,
			EstimatedDeliveryAt: order.EstimatedDeliveryAt,
		}

		if customer, ok := customerByID[order.CustomerID]; ok {
			row.CustomerState = customer.State
			row.CustomerCity = customer.City
		} else {
			stats.CustomersUnmatched++
		}

		if review, ok := reviewByOrder[order.ID]; ok {
			score := review.Score
			row.ReviewScore = &score
		}

		if order.DeliveredAt != nil {
			if order.DeliveredAt.Before(order.PurchasedAt) {
				stats.NegativeDeliveryDays++
				continue
			}
			days := int(order.DeliveredAt.Sub(order.PurchasedAt).Hours() / 24)
			row.DeliveryDays = &days
		}

		rows = append(rows, row)
	}

	for _, order := range orders {
		if _, ok := matchedOrders[order.ID]; !ok {
			stats.OrdersWithoutItems++
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].OrderID != rows[j].OrderID {
			return rows[i].OrderID < rows[j].OrderID
		}
		return rows[i].ProductID < rows[j].ProductID
	})

	return rows, stats
}

// WithProducts left-joins the product category onto sales rows. Opt-in:
// callers that only need revenue or delivery metrics keep the base rows.
func WithProducts(rows []domain.SalesRow, products []domain.Product) []domain.SalesRow {
	categoryByID := make(map[string]string, len(products))
	for _, product := range products {
		categoryByID[product.ID] = product.Category
	}

	extended := make([]domain.SalesRow, len(rows))
	copy(extended, rows)
	for i := range extended {
		extended[i].Category = categoryByID[extended[i].ProductID]
	}
	return extended
}

// FilterWindow is the single temporal filtering point for every metric:
// inclusive bounds on the purchase timestamp.
func FilterWindow(rows []domain.SalesRow, start, end time.Time) []domain.SalesRow {
	filtered := make([]domain.SalesRow, 0, len(rows))
	for _, row := range rows {
		if row.PurchasedAt.Before(start) || row.PurchasedAt.After(end) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

// latestReviewPerOrder resolves multiple reviews for one order to the most
// recently created one; creation-date ties break on review ID descending so
// the choice never depends on input order.
func latestReviewPerOrder(reviews []domain.OrderReview) map[string]domain.OrderReview {
	byOrder := make(map[string]domain.OrderReview, len(reviews))
	for _, review := range reviews {
		current, ok := byOrder[review.OrderID]
		if !ok {
			byOrder[review.OrderID] = review
			continue
		}
		if review.CreatedAt.After(current.CreatedAt) ||
			(review.CreatedAt.Equal(current.CreatedAt) && review.ID > current.ID) {
			byOrder[review.OrderID] = review
		}
	}
	return byOrder
}

func loadOrders(raw domain.RawTable) ([]domain.Order, domain.MergeStats, error) {
	var stats domain.MergeStats

	idIdx, err := requireColumn(raw, "orders", colOrderID)
	if err != nil {
		return nil, stats, err
	}
	customerIdx, err := requireColumn(raw, "orders", colCustomerID)
	if err != nil {
		return nil, stats, err
	}
	statusIdx, err := requireColumn(raw, "orders", colOrderStatus)
	if err != nil {
		return nil, stats, err
	}
	purchasedIdx, err := requireColumn(raw, "orders", colPurchaseTimestamp)
	if err != nil {
		return nil, stats, err
	}
	deliveredIdx, err := requireColumn(raw, "orders", colDeliveredDate)
	if err != nil {
		return nil, stats, err
	}
	estimatedIdx := raw.Column(colEstimatedDate)

	orders := make([]domain.Order, 0, len(raw.Rows))
	seen := make(map[string]struct{}, len(raw.Rows))

	for _, cells := range raw.Rows {
		id := cell(cells, idIdx)
		if id == "" {
			stats.UnparsableRows++
			continue
		}
		if _, dup := seen[id]; dup {
			stats.DuplicateOrders++
			continue
		}

		purchasedAt, ok := parseTimestamp(cell(cells, purchasedIdx))
		if !ok {
			// An absent purchase timestamp disqualifies the order; it is
			// never null-filled to an arbitrary date.
			stats.MissingPurchaseDate++
			continue
		}

		order := domain.Order{
			ID:          id,
			CustomerID:  cell(cells, customerIdx),
			Status:      cell(cells, statusIdx),
			PurchasedAt: purchasedAt,
		}
		if deliveredAt, ok := parseTimestamp(cell(cells, deliveredIdx)); ok {
			order.DeliveredAt = &deliveredAt
		}
		if estimatedIdx >= 0 {
			if estimatedAt, ok := parseTimestamp(cell(cells, estimatedIdx)); ok {
				order.EstimatedDeliveryAt = &estimatedAt
			}
		}

		seen[id] = struct{}{}
		orders = append(orders, order)
	}

	return orders, stats, nil
}

func loadItems(raw domain.RawTable) ([]domain.OrderItem, domain.MergeStats, error) {
	var stats domain.MergeStats

	orderIdx, err := requireColumn(raw, "order_items", colOrderID)
	if err != nil {
		return nil, stats, err
	}
	productIdx, err := requireColumn(raw, "order_items", colProductID)
	if err != nil {
		return nil, stats, err
	}
	priceIdx, err := requireColumn(raw, "order_items", colPrice)
	if err != nil {
		return nil, stats, err
	}
	freightIdx, err := requireColumn(raw, "order_items", colFreightValue)
	if err != nil {
		return nil, stats, err
	}

	items := make([]domain.OrderItem, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		orderID := cell(cells, orderIdx)
		if orderID == "" {
			stats.UnparsableRows++
			continue
		}
		price, ok := parseDecimal(cell(cells, priceIdx))
		if !ok {
			stats.UnparsableRows++
			continue
		}
		freight, ok := parseDecimal(cell(cells, freightIdx))
		if !ok {
			stats.UnparsableRows++
			continue
		}
		if price < 0 || freight < 0 {
			stats.NegativeAmounts++
			continue
		}
		items = append(items, domain.OrderItem{
			OrderID:      orderID,
			ProductID:    cell(cells, productIdx),
			Price:        price,
			FreightValue: freight,
		})
	}

	return items, stats, nil
}

func loadProducts(raw domain.RawTable) ([]domain.Product, error) {
	idIdx, err := requireColumn(raw, "products", colProductID)
	if err != nil {
		return nil, err
	}
	categoryIdx, err := requireColumn(raw, "products", colCategoryName)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		id := cell(cells, idIdx)
		if id == "" {
			continue
		}
		products = append(products, domain.Product{
			ID:       id,
			Category: cell(cells, categoryIdx),
		})
	}
	return products, nil
}

func loadCustomers(raw domain.RawTable) ([]domain.Customer, error) {
	idIdx, err := requireColumn(raw, "customers", colCustomerID)
	if err != nil {
		return nil, err
	}
	stateIdx, err := requireColumn(raw, "customers", colCustomerState)
	if err != nil {
		return nil, err
	}
	cityIdx, err := requireColumn(raw, "customers", colCustomerCity)
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		id := cell(cells, idIdx)
		if id == "" {
			continue
		}
		customers = append(customers, domain.Customer{
			ID:    id,
			State: strings.ToUpper(cell(cells, stateIdx)),
			City:  cell(cells, cityIdx),
		})
	}
	return customers, nil
}

func loadReviews(raw domain.RawTable) ([]domain.OrderReview, domain.MergeStats, error) {
	var stats domain.MergeStats

	orderIdx, err := requireColumn(raw, "order_reviews", colOrderID)
	if err != nil {
		return nil, stats, err
	}
	scoreIdx, err := requireColumn(raw, "order_reviews", colReviewScore)
	if err != nil {
		return nil, stats, err
	}
	idIdx := raw.Column(colReviewID)
	createdIdx := raw.Column(colReviewCreated)

	reviews := make([]domain.OrderReview, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		orderID := cell(cells, orderIdx)
		if orderID == "" {
			stats.UnparsableRows++
			continue
		}
		score, err := strconv.Atoi(cell(cells, scoreIdx))
		if err != nil || score < 1 || score > 5 {
			stats.InvalidReviewScores++
			continue
		}
		review := domain.OrderReview{
			OrderID: orderID,
			Score:   score,
		}
		if idIdx >= 0 {
			review.ID = cell(cells, idIdx)
		}
		if createdIdx >= 0 {
			if createdAt, ok := parseTimestamp(cell(cells, createdIdx)); ok {
				review.CreatedAt = createdAt
			}
		}
		reviews = append(reviews, review)
	}

	return reviews, stats, nil
}

func loadPayments(raw domain.RawTable) ([]domain.OrderPayment, domain.MergeStats, error) {
	var stats domain.MergeStats

	orderIdx, err := requireColumn(raw, "order_payments", colOrderID)
	if err != nil {
		return nil, stats, err
	}
	valueIdx, err := requireColumn(raw, "order_payments", colPaymentValue)
	if err != nil {
		return nil, stats, err
	}

	payments := make([]domain.OrderPayment, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		orderID := cell(cells, orderIdx)
		if orderID == "" {
			stats.UnparsableRows++
			continue
		}
		value, ok := parseDecimal(cell(cells, valueIdx))
		if !ok {
			stats.UnparsableRows++
			continue
		}
		if value < 0 {
			stats.NegativeAmounts++
			continue
		}
		payments = append(payments, domain.OrderPayment{
			OrderID: orderID,
			Value:   value,
		})
	}

	return payments, stats, nil
}

func requireColumn(raw domain.RawTable, table, name string) (int, error) {
	idx := raw.Column(name)
	if idx < 0 {
		return -1, domain.NewSchemaError(table, name, "")
	}
	return idx, nil
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseDecimal(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
