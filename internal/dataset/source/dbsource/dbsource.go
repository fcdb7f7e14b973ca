package dbsource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/storelens/storelens/internal/dataset/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Source loads the six dataset tables from a relational database. Every
// column comes back as text; the merger owns coercion, so one query per
// table is all this needs.
type Source struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Source {
	return &Source{db: db, log: log.Named("dataset.dbsource")}
}

func (s *Source) Fetch(ctx context.Context) (domain.RawTables, error) {
	var tables domain.RawTables
	var err error

	if tables.Orders, err = s.readTable(ctx, "orders"); err != nil {
		return domain.RawTables{}, err
	}
	if tables.Items, err = s.readTable(ctx, "order_items"); err != nil {
		return domain.RawTables{}, err
	}
	if tables.Products, err = s.readTable(ctx, "products"); err != nil {
		return domain.RawTables{}, err
	}
	if tables.Customers, err = s.readTable(ctx, "customers"); err != nil {
		return domain.RawTables{}, err
	}
	if tables.Reviews, err = s.readTable(ctx, "order_reviews"); err != nil {
		return domain.RawTables{}, err
	}
	if tables.Payments, err = s.readTable(ctx, "order_payments"); err != nil {
		return domain.RawTables{}, err
	}

	return tables, nil
}

func (s *Source) readTable(ctx context.Context, name string) (domain.RawTable, error) {
	rows, err := s.db.WithContext(ctx).Table(name).Rows()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("columns %s: %w", name, err)
	}

	table := domain.RawTable{Name: name, Columns: columns}
	values := make([]sql.NullString, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return domain.RawTable{}, fmt.Errorf("scan %s: %w", name, err)
		}
		record := make([]string, len(columns))
		for i, value := range values {
			if value.Valid {
				record[i] = value.String
			}
		}
		table.Rows = append(table.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return domain.RawTable{}, fmt.Errorf("iterate %s: %w", name, err)
	}

	s.log.Debug("table loaded",
		zap.String("table", name),
		zap.Int("rows", len(table.Rows)),
	)
	return table, nil
}
