package data

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/udislau/ppe-agents/internal/model"
)

// LoadGridCosts reads the hourly grid price pairs. Expected columns:
// hour, purchase, sale (header required). Decimal commas are accepted.
func LoadGridCosts(path string) ([]model.GridPrice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}
	cols, err := columnIndex(records[0], "hour", "purchase", "sale")
	if err != nil {
		return nil, err
	}

	costs := make([]model.GridPrice, 0, len(records)-1)
	for i, rec := range records[1:] {
		purchase, err := parseDecimal(rec[cols["purchase"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: purchase: %w", i+2, err)
		}
		sale, err := parseDecimal(rec[cols["sale"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: sale: %w", i+2, err)
		}
		costs = append(costs, model.GridPrice{Purchase: purchase, Sale: sale})
	}
	return costs, nil
}
