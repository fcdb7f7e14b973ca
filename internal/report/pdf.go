package report

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func renderPDF(data summaryData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Sales summary", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, windowLabel(data.window), props.Text{
			Size:  10,
			Align: align.Right,
			Top:   6,
		}),
	)

	m.AddRow(28,
		col.New(6).Add(
			text.New("Revenue: "+formatMoney(data.overview.Revenue), props.Text{Top: 0}),
			text.New("Orders: "+formatCount(data.overview.OrderCount), props.Text{Top: 5}),
			text.New("Avg order value: "+formatMoney(data.overview.AvgOrderValue), props.Text{Top: 10}),
			text.New("Revenue growth: "+formatPct(data.overview.RevenueGrowth), props.Text{Top: 15}),
		),
		col.New(6).Add(
			text.New("Reviewed orders: "+fmt.Sprintf("%d", data.reviews.ReviewedOrders), props.Text{Top: 0}),
			text.New("Avg review score: "+formatScore(data.reviews.AvgScore), props.Text{Top: 5}),
			text.New("On-time rate: "+formatRate(data.delivery.Stats.OnTimeRate), props.Text{Top: 10}),
		),
	)

	m.AddRow(12,
		text.NewCol(12, "Top categories", props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}),
	)
	m.AddRow(8,
		text.NewCol(5, "Category", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Revenue", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Orders", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Share", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, cat := range data.categories.Categories {
		m.AddRow(7,
			text.NewCol(5, cat.Category, props.Text{Size: 9}),
			text.NewCol(3, fmt.Sprintf("%.2f", cat.Revenue), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%d", cat.OrderCount), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.1f%%", cat.RevenueShare), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		text.NewCol(12, "Revenue by state", props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}),
	)
	m.AddRow(8,
		text.NewCol(4, "State", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Revenue", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(4, "Orders", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, state := range data.states.States {
		m.AddRow(7,
			text.NewCol(4, state.State, props.Text{Size: 9}),
			text.NewCol(4, fmt.Sprintf("%.2f", state.Revenue), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(4, fmt.Sprintf("%d", state.OrderCount), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		text.NewCol(12, "Delivery performance", props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}),
	)
	for _, bucket := range data.delivery.Buckets {
		m.AddRow(7,
			text.NewCol(4, bucket.Label, props.Text{Size: 9}),
			text.NewCol(4, fmt.Sprintf("%d orders", bucket.Count), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(4, "avg review "+formatScore(bucket.AvgReviewScore), props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func formatScore(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *value)
}

func formatRate(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *value)
}
