package sim

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteHistoryCSV writes one row per step. Column names are stable; they are
// the contract for downstream plotting and reporting.
func WriteHistoryCSV(path string, history []StepRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"step",
		"label",
		"total_consumption",
		"total_production",
		"traded_energy",
		"avg_trade_price",
		"grid_purchase",
		"grid_sale",
		"unserved_demand",
		"storage_level",
		"tokens_minted",
		"tokens_burned",
		"community_fund",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range history {
		row := []string{
			strconv.Itoa(r.Step),
			r.Label,
			fmtFloat(r.TotalConsumption),
			fmtFloat(r.TotalProduction),
			fmtFloat(r.TradedEnergy),
			fmtFloat(r.AvgTradePrice),
			fmtFloat(r.GridPurchase),
			fmtFloat(r.GridSale),
			fmtFloat(r.UnservedDemand),
			fmtFloat(r.StorageLevel),
			fmtFloat(r.TokensMinted),
			fmtFloat(r.TokensBurned),
			fmtFloat(r.CommunityFund),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
