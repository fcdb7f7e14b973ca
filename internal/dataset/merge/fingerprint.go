package merge

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/storelens/storelens/internal/dataset/domain"
)

// Fingerprint produces a stable content hash of the raw tables. Identical
// inputs always hash identically, which makes it usable as a cache key for
// derived results (the cache itself lives with the caller, not here).
func Fingerprint(raw domain.RawTables) string {
	h := sha256.New()
	for _, table := range []domain.RawTable{
		raw.Orders,
		raw.Items,
		raw.Products,
		raw.Customers,
		raw.Reviews,
		raw.Payments,
	} {
		h.Write([]byte(table.Name))
		h.Write([]byte{0})
		for _, col := range table.Columns {
			h.Write([]byte(col))
			h.Write([]byte{1})
		}
		for _, row := range table.Rows {
			for _, value := range row {
				h.Write([]byte(value))
				h.Write([]byte{2})
			}
			h.Write([]byte{3})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
