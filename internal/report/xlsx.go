package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

func renderXLSX(data summaryData) ([]byte, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", summarySheet)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	row := 1
	writeRow := func(values []interface{}, styled bool) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return err
		}
		if styled {
			end, err := excelize.CoordinatesToCellName(len(values), row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(summarySheet, cell, end, bold); err != nil {
				return err
			}
		}
		row++
		return nil
	}
	blank := func() { row++ }

	if err := writeRow([]interface{}{"Sales summary", windowLabel(data.window)}, true); err != nil {
		return nil, err
	}
	blank()

	if err := writeRow([]interface{}{"Revenue", formatMoney(data.overview.Revenue)}, false); err != nil {
		return nil, err
	}
	if err := writeRow([]interface{}{"Orders", formatCount(data.overview.OrderCount)}, false); err != nil {
		return nil, err
	}
	if err := writeRow([]interface{}{"Avg order value", formatMoney(data.overview.AvgOrderValue)}, false); err != nil {
		return nil, err
	}
	if err := writeRow([]interface{}{"Revenue growth", formatPct(data.overview.RevenueGrowth)}, false); err != nil {
		return nil, err
	}
	blank()

	if err := writeRow([]interface{}{"Category", "Revenue", "Items", "Orders", "Share %"}, true); err != nil {
		return nil, err
	}
	for _, cat := range data.categories.Categories {
		values := []interface{}{
			cat.Category,
			cat.Revenue,
			cat.ItemsSold,
			cat.OrderCount,
			fmt.Sprintf("%.1f", cat.RevenueShare),
		}
		if err := writeRow(values, false); err != nil {
			return nil, err
		}
	}
	blank()

	if err := writeRow([]interface{}{"State", "Revenue", "Orders", "Customers"}, true); err != nil {
		return nil, err
	}
	for _, state := range data.states.States {
		values := []interface{}{
			state.State,
			state.Revenue,
			state.OrderCount,
			state.CustomerCount,
		}
		if err := writeRow(values, false); err != nil {
			return nil, err
		}
	}
	blank()

	if err := writeRow([]interface{}{"Delivery bucket", "Orders", "Avg review"}, true); err != nil {
		return nil, err
	}
	for _, bucket := range data.delivery.Buckets {
		score := "n/a"
		if bucket.AvgReviewScore != nil {
			score = fmt.Sprintf("%.2f", *bucket.AvgReviewScore)
		}
		if err := writeRow([]interface{}{bucket.Label, bucket.Count, score}, false); err != nil {
			return nil, err
		}
	}
	blank()

	if err := writeRow([]interface{}{"Reviewed orders", data.reviews.ReviewedOrders}, false); err != nil {
		return nil, err
	}
	avgScore := "n/a"
	if data.reviews.AvgScore != nil {
		avgScore = fmt.Sprintf("%.2f", *data.reviews.AvgScore)
	}
	if err := writeRow([]interface{}{"Avg review score", avgScore}, false); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "B", "E", 16); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
