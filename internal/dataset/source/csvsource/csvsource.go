package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/storelens/storelens/internal/dataset/domain"
	"go.uber.org/zap"
)

const (
	ordersFile    = "orders_dataset.csv"
	itemsFile     = "order_items_dataset.csv"
	productsFile  = "products_dataset.csv"
	customersFile = "customers_dataset.csv"
	reviewsFile   = "order_reviews_dataset.csv"
	paymentsFile  = "order_payments_dataset.csv"
)

// Source reads the six dataset CSV files from a directory. The first record
// of each file is the header; all validation happens in the merger.
type Source struct {
	dir string
	log *zap.Logger
}

func New(dir string, log *zap.Logger) *Source {
	return &Source{dir: dir, log: log.Named("dataset.csvsource")}
}

func (s *Source) Fetch(ctx context.Context) (domain.RawTables, error) {
	var tables domain.RawTables
	var err error

	if tables.Orders, err = s.readTable(ctx, "orders", ordersFile); err != nil {
		return domain.RawTables{}, err
	}
	if tables.Items, err = s.readTable(ctx, "order_items", itemsFile); err != nil {
		return domain.RawTables{}, err
	}
	if tables.Products, err = s.readTable(ctx, "products", productsFile); err != nil {
		return domain.RawTables{}, err
	}
	if tables.Customers, err = s.readTable(ctx, "customers", customersFile); err != nil {
		return domain.RawTables{}, err
	}
	if tables.Reviews, err = s.readTable(ctx, "order_reviews", reviewsFile); err != nil {
		return domain.RawTables{}, err
	}
	if tables.Payments, err = s.readTable(ctx, "order_payments", paymentsFile); err != nil {
		return domain.RawTables{}, err
	}

	return tables, nil
}

func (s *Source) readTable(ctx context.Context, name, filename string) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}

	path := filepath.Join(s.dir, filename)
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Some exports carry ragged rows; the merger treats missing cells as
	// empty rather than failing the whole file.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if len(records) == 0 {
		return domain.RawTable{}, fmt.Errorf("%s: %w", filename, domain.ErrEmptySource)
	}

	table := domain.RawTable{
		Name:    name,
		Columns: records[0],
		Rows:    records[1:],
	}
	s.log.Debug("table loaded",
		zap.String("table", name),
		zap.Int("rows", len(table.Rows)),
	)
	return table, nil
}
