package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/model"
)

// DailySales aggregates archived orders per calendar day.
type DailySales struct {
	Date          string          `json:"date"`
	OrderCount    int64           `json:"order_count"`
	GrossRevenue  decimal.Decimal `json:"gross_revenue"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	NetRevenue    decimal.Decimal `json:"net_revenue"`
}

// ItemSales aggregates archived order lines per menu item.
type ItemSales struct {
	MenuItemID   string          `json:"menu_item_id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DailySalesReport groups archived orders with archive time in [from, to)
// by day in loc, oldest first.
func (s *Restaurant) DailySalesReport(from, to time.Time, loc *time.Location) ([]DailySales, error) {
	orders, err := s.archivedBetween(from, to)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	byDay := map[string]*DailySales{}
	for _, o := range orders {
		day := archivedAt(o).In(loc).Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			d = &DailySales{Date: day}
			byDay[day] = d
		}
		d.OrderCount++
		d.GrossRevenue = d.GrossRevenue.Add(o.Subtotal)
		d.TotalDiscount = d.TotalDiscount.Add(DiscountAmount(o))
		d.NetRevenue = d.NetRevenue.Add(o.Total)
	}

	out := make([]DailySales, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ItemSalesReport ranks menu items sold in archived orders within [from, to)
// by quantity, then revenue. Revenue is before the order discount.
func (s *Restaurant) ItemSalesReport(from, to time.Time) ([]ItemSales, error) {
	orders, err := s.archivedBetween(from, to)
	if err != nil {
		return nil, err
	}

	byItem := map[string]*ItemSales{}
	for _, o := range orders {
		for _, it := range o.Items {
			r, ok := byItem[it.MenuItem.ID]
			if !ok {
				r = &ItemSales{
					MenuItemID: it.MenuItem.ID,
					Name:       it.MenuItem.Name,
					Category:   it.MenuItem.Category,
				}
				byItem[it.MenuItem.ID] = r
			}
			r.QuantitySold += int64(it.Quantity)
			r.Revenue = r.Revenue.Add(LineTotal(it))
		}
	}

	out := make([]ItemSales, 0, len(byItem))
	for _, r := range byItem {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantitySold != out[j].QuantitySold {
			return out[i].QuantitySold > out[j].QuantitySold
		}
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Restaurant) archivedBetween(from, to time.Time) ([]model.Order, error) {
	if !from.Before(to) {
		return nil, ErrInvalidRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Order
	for _, o := range s.book.archived {
		at := archivedAt(o)
		if at.Before(from) || !at.Before(to) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func archivedAt(o model.Order) time.Time {
	if o.ArchivedAt != nil {
		return *o.ArchivedAt
	}
	return o.CreatedAt
}
