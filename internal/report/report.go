// Package report derives event aggregates from the sales ledger and
// inventory snapshots and writes the exportable summary.
package report

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jerseystand/event-sales/internal/core/domain"
)

// Summary holds the revenue aggregates for a ledger. ByPaymentMethod always
// carries every method in the closed set, so its values sum to TotalRevenue.
type Summary struct {
	TotalRevenue    decimal.Decimal
	TotalSales      int
	ByPaymentMethod map[domain.PaymentMethod]decimal.Decimal
}

// Aggregate sums final prices over all records, in total and per payment
// method. An empty ledger yields zero totals.
func Aggregate(records iter.Seq[domain.SaleRecord]) Summary {
	s := Summary{
		TotalRevenue:    decimal.Zero,
		ByPaymentMethod: make(map[domain.PaymentMethod]decimal.Decimal, 6),
	}
	for _, m := range domain.PaymentMethods() {
		s.ByPaymentMethod[m] = decimal.Zero
	}
	for r := range records {
		s.TotalRevenue = s.TotalRevenue.Add(r.FinalPrice)
		s.ByPaymentMethod[r.PaymentMethod] = s.ByPaymentMethod[r.PaymentMethod].Add(r.FinalPrice)
		s.TotalSales++
	}
	return s
}

// InventoryDelta returns sold counts per item id: initial remaining minus
// current remaining. Items absent from the current snapshot count as fully
// sold.
func InventoryDelta(initial, current []domain.InventoryItem) map[string]int {
	remaining := make(map[string]int, len(current))
	for _, item := range current {
		remaining[item.ID] = item.Remaining
	}
	delta := make(map[string]int, len(initial))
	for _, item := range initial {
		delta[item.ID] = item.Remaining - remaining[item.ID]
	}
	return delta
}

// TotalSold sums the inventory delta.
func TotalSold(initial, current []domain.InventoryItem) int {
	total := 0
	for _, sold := range InventoryDelta(initial, current) {
		total += sold
	}
	return total
}

// WriteCSV writes the event report: event summary, payment breakdown,
// inventory tracking, then one row per sale. Fields are comma-joined with
// no escaping, matching the tracker's historical export format; an event or
// category name containing a comma will shift columns (known limitation,
// kept as is).
func WriteCSV(w io.Writer, info domain.EventInfo, initial, current []domain.InventoryItem, records []domain.SaleRecord, exportedAt time.Time) error {
	summary := Aggregate(slices.Values(records))

	var b strings.Builder

	b.WriteString("EVENT SUMMARY\n")
	fmt.Fprintf(&b, "Event Name,%s\n", info.Name)
	fmt.Fprintf(&b, "Event Date,%s\n", formatDate(info.Date))
	fmt.Fprintf(&b, "Start Time,%s\n", formatClock(info.StartTime))
	fmt.Fprintf(&b, "Export Time,%s\n", formatClock(exportedAt))
	fmt.Fprintf(&b, "Total Revenue,$%s\n", summary.TotalRevenue.StringFixed(2))
	fmt.Fprintf(&b, "Total Items Sold,%d\n", TotalSold(initial, current))
	fmt.Fprintf(&b, "Total Transactions,%d\n\n", len(records))

	b.WriteString("PAYMENT BREAKDOWN\n")
	b.WriteString("Payment Method,Amount\n")
	for _, m := range domain.PaymentMethods() {
		fmt.Fprintf(&b, "%s,$%s\n", m, summary.ByPaymentMethod[m].StringFixed(2))
	}
	b.WriteString("\n")

	b.WriteString("INVENTORY TRACKING\n")
	b.WriteString("Category,Size,Initial Count,Remaining Count,Sold Count\n")
	delta := InventoryDelta(initial, current)
	for _, item := range initial {
		remaining := item.Remaining - delta[item.ID]
		fmt.Fprintf(&b, "%s,%s,%d,%d,%d\n", item.Category, item.Size, item.Remaining, remaining, delta[item.ID])
	}
	b.WriteString("\n")

	b.WriteString("SALES DETAILS\n")
	b.WriteString("Time,Category,Jersey,Size,Original Price,Discount Type,Discount Value,Final Price,Payment Method\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s,%s,%s,%s,$%s,%s,%s,$%s,%s\n",
			formatClock(r.Timestamp),
			r.Category,
			r.Design,
			r.Size,
			originalPrice(r).StringFixed(2),
			discountLabel(r.Discount),
			r.Discount.Value.String(),
			r.FinalPrice.StringFixed(2),
			r.PaymentMethod)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Filename builds the download name from the event name and date.
func Filename(info domain.EventInfo) string {
	slug := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			return c
		case c >= 'A' && c <= 'Z':
			return c + ('a' - 'A')
		default:
			return '-'
		}
	}, info.Name)
	if slug == "" {
		slug = "untitled-event"
	}
	return fmt.Sprintf("%s-%s-sales-report.csv", slug, info.Date)
}

// originalPrice mirrors the export's original-price column: the recorded
// unit price when a discount applied, otherwise the final price.
func originalPrice(r domain.SaleRecord) decimal.Decimal {
	if r.Discount.Type != domain.DiscountNone && r.Discount.Type != "" {
		return r.UnitPriceAtSale
	}
	return r.FinalPrice
}

func discountLabel(d domain.DiscountSpec) string {
	if d.Type == domain.DiscountNone || d.Type == "" {
		return "None"
	}
	return string(d.Type)
}

func formatDate(date string) string {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Format("1/2/2006")
	}
	return date
}

func formatClock(t time.Time) string {
	return t.Local().Format("1/2/2006, 3:04:05 PM")
}
