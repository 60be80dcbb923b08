// Package render prints derived order pages as terminal tables.
package render

import (
	"fmt"
	"io"
	"strconv"

	"order-dashboard/internal/models"
	"order-dashboard/internal/view"

	"github.com/olekukonko/tablewriter"
)

// Page writes one derived page with a selection marker column and a count
// line underneath
func Page(w io.Writer, res view.Result, selected []string) error {
	marked := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		marked[id] = struct{}{}
	}

	table := tablewriter.NewWriter(w)
	table.Header("Sel", "Order", "Customer", "Date", "Status", "Items", "Total")
	for _, o := range res.Orders {
		mark := ""
		if _, ok := marked[o.ID]; ok {
			mark = "x"
		}
		if err := table.Append([]string{
			mark,
			o.ID,
			o.CustomerName,
			o.OrderDate.Format("2006-01-02"),
			string(o.Status),
			strconv.Itoa(len(o.Items)),
			o.Total.StringFixed(2),
		}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, err := fmt.Fprintf(w, "%d orders, page %d of %d, %d selected, %d filters active\n",
		res.Total, res.Page+1, max(res.Pages, 1), len(selected), res.ActiveFilters)
	return err
}

// StatusSummary writes one row per status with its order count
func StatusSummary(w io.Writer, orders []models.Order) error {
	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, o := range orders {
		counts[o.Status]++
	}

	table := tablewriter.NewWriter(w)
	table.Header("Status", "Orders")
	for _, s := range models.AllStatuses {
		if err := table.Append([]string{string(s), strconv.Itoa(counts[s])}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	return table.Render()
}
