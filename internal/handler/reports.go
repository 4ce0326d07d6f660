package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tavola-pos/api/internal/service"
)

// ReportsStore is the part of the restaurant service the report handlers
// need.
type ReportsStore interface {
	DailySalesReport(from, to time.Time, loc *time.Location) ([]service.DailySales, error)
	ItemSalesReport(from, to time.Time) ([]service.ItemSales, error)
}

// ReportsHandler handles sales report endpoints.
type ReportsHandler struct {
	store ReportsStore
	loc   *time.Location
}

// NewReportsHandler creates a ReportsHandler that buckets days in loc.
func NewReportsHandler(store ReportsStore, loc *time.Location) *ReportsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportsHandler{store: store, loc: loc}
}

// RegisterRoutes registers report endpoints.
// Expected to be mounted at /reports inside a manager-only group
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/daily-sales", h.DailySales)
	r.Get("/item-sales", h.ItemSales)
}

type dailySalesResponse struct {
	Date          string `json:"date"`
	OrderCount    int64  `json:"order_count"`
	GrossRevenue  string `json:"gross_revenue"`
	TotalDiscount string `json:"total_discount"`
	NetRevenue    string `json:"net_revenue"`
}

type itemSalesResponse struct {
	MenuItemID   string `json:"menu_item_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	QuantitySold int64  `json:"quantity_sold"`
	Revenue      string `json:"revenue"`
}

// DailySales returns per-day totals of archived orders.
func (h *ReportsHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.store.DailySalesReport(from, to, h.loc)
	if err != nil {
		writeServiceError(w, "daily sales", err)
		return
	}

	resp := make([]dailySalesResponse, len(rows))
	for i, row := range rows {
		resp[i] = dailySalesResponse{
			Date:          row.Date,
			OrderCount:    row.OrderCount,
			GrossRevenue:  service.Money(row.GrossRevenue),
			TotalDiscount: service.Money(row.TotalDiscount),
			NetRevenue:    service.Money(row.NetRevenue),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ItemSales returns menu items ranked by quantity sold.
func (h *ReportsHandler) ItemSales(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := h.store.ItemSalesReport(from, to)
	if err != nil {
		writeServiceError(w, "item sales", err)
		return
	}

	resp := make([]itemSalesResponse, len(rows))
	for i, row := range rows {
		resp[i] = itemSalesResponse{
			MenuItemID:   row.MenuItemID,
			Name:         row.Name,
			Category:     row.Category,
			QuantitySold: row.QuantitySold,
			Revenue:      service.Money(row.Revenue),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseDateRange reads start_date and end_date (YYYY-MM-DD, inclusive) and
// returns [start, end+1day). Defaults to the last 30 days.
func (h *ReportsHandler) parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	const layout = "2006-01-02"

	now := time.Now().In(h.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
	start := today.AddDate(0, 0, -30)
	end := today.AddDate(0, 0, 1)

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.ParseInLocation(layout, s, h.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		start = t
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.ParseInLocation(layout, s, h.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format: %w", err)
		}
		end = t.AddDate(0, 0, 1)
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must be before end_date")
	}
	return start, end, nil
}
