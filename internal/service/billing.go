package service

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/config"
	"github.com/tavola-pos/api/internal/model"
)

var hundred = decimal.NewFromInt(100)

// LineTotal is price × quantity for one order line.
func LineTotal(item model.OrderItem) decimal.Decimal {
	return item.MenuItem.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Subtotal sums the line totals.
func Subtotal(items []model.OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(LineTotal(it))
	}
	return sum
}

// DiscountedTotal is subtotal × (1 − pct/100). The result is not rounded.
func DiscountedTotal(subtotal, pct decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(hundred.Sub(pct)).Div(hundred)
}

// ClampDiscount limits pct to [0, max]; max itself is limited to [0, 100].
func ClampDiscount(pct, max decimal.Decimal) decimal.Decimal {
	if max.GreaterThan(hundred) {
		max = hundred
	}
	if max.IsNegative() {
		max = decimal.Zero
	}
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(max) {
		return max
	}
	return pct
}

// recalculate derives Subtotal and Total from Items and Discount.
func recalculate(o *model.Order) {
	o.Subtotal = Subtotal(o.Items)
	o.Total = DiscountedTotal(o.Subtotal, o.Discount)
}

// DiscountAmount is what the discount took off the subtotal.
func DiscountAmount(o model.Order) decimal.Decimal {
	return o.Subtotal.Sub(o.Total)
}

// Money formats an amount with exactly two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// BillLine is one printed line of a bill.
type BillLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// Bill is a finalized order prepared for display or printing. Every amount
// is already formatted with two decimals.
type Bill struct {
	Title          string     `json:"title"`
	GSTNumber      string     `json:"gst_number,omitempty"`
	Currency       string     `json:"currency"`
	OrderID        string     `json:"order_id"`
	TableNumber    int        `json:"table_number"`
	CustomerName   string     `json:"customer_name,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	Lines          []BillLine `json:"lines"`
	Subtotal       string     `json:"subtotal"`
	DiscountPct    string     `json:"discount_percentage"`
	DiscountAmount string     `json:"discount_amount"`
	Total          string     `json:"total"`
}

// BuildBill recomputes every amount from the order lines.
func BuildBill(o model.Order, cfg config.AppConfig) Bill {
	lines := make([]BillLine, len(o.Items))
	for i, it := range o.Items {
		lines[i] = BillLine{
			Name:      it.MenuItem.Name,
			Quantity:  it.Quantity,
			UnitPrice: Money(it.MenuItem.Price),
			LineTotal: Money(LineTotal(it)),
		}
	}

	subtotal := Subtotal(o.Items)
	total := DiscountedTotal(subtotal, o.Discount)

	return Bill{
		Title:          cfg.Title,
		GSTNumber:      cfg.GSTNumber,
		Currency:       cfg.Currency,
		OrderID:        o.ID,
		TableNumber:    o.TableNumber,
		CustomerName:   o.CustomerName,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
		Lines:          lines,
		Subtotal:       Money(subtotal),
		DiscountPct:    o.Discount.String(),
		DiscountAmount: Money(subtotal.Sub(total)),
		Total:          Money(total),
	}
}

// RenderText writes a plain-text receipt.
func (b Bill) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "%s\t\n", b.Title)
	if b.GSTNumber != "" {
		fmt.Fprintf(tw, "GST %s\t\n", b.GSTNumber)
	}
	fmt.Fprintf(tw, "Order %s\t\n", shortID(b.OrderID))
	fmt.Fprintf(tw, "Table %d\t\n", b.TableNumber)
	if b.CustomerName != "" {
		fmt.Fprintf(tw, "Customer %s\t\n", b.CustomerName)
	}
	fmt.Fprintf(tw, "%s\t\n", b.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(tw, strings.Repeat("-", 32)+"\t")

	for _, l := range b.Lines {
		fmt.Fprintf(tw, "%d x %s\t%s%s\t\n", l.Quantity, l.Name, b.Currency, l.LineTotal)
	}

	fmt.Fprintln(tw, strings.Repeat("-", 32)+"\t")
	fmt.Fprintf(tw, "Subtotal\t%s%s\t\n", b.Currency, b.Subtotal)
	if b.DiscountAmount != "0.00" {
		fmt.Fprintf(tw, "Discount (%s%%)\t-%s%s\t\n", b.DiscountPct, b.Currency, b.DiscountAmount)
	}
	fmt.Fprintf(tw, "Total\t%s%s\t\n", b.Currency, b.Total)

	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
