package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/service"
)

// OrderStore is the part of the restaurant service the order handlers need.
type OrderStore interface {
	Board() ([]service.BoardColumn, uint64)
	Reload(ctx context.Context, seen uint64) (uint64, error)
	SubmitOrder(ctx context.Context, req service.SubmitOrderRequest) (model.Order, error)
	Order(id string) (model.Order, error)
	ArchivedOrders() []model.Order
	AdvanceOrder(ctx context.Context, id string) (model.Order, error)
	ApplyDiscount(ctx context.Context, id string, pct decimal.Decimal) (model.Order, error)
	ArchiveOrder(ctx context.Context, id string) (service.ArchiveResult, error)
	Bill(id string) (service.Bill, error)
}

// OrderHandler handles the order board endpoints.
type OrderHandler struct {
	store OrderStore
}

func NewOrderHandler(store OrderStore) *OrderHandler {
	return &OrderHandler{store: store}
}

// RegisterRoutes registers order endpoints.
// Expected to be mounted at /orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Board)
	r.Post("/", h.Create)
	r.Get("/archive", h.Archived)
	r.Post("/reload", h.Reload)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/advance", h.Advance)
		r.Post("/discount", h.Discount)
		r.Post("/archive", h.Archive)
		r.Get("/bill", h.Bill)
	})
}

// --- Request / Response types ---

type orderLineRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type createOrderRequest struct {
	TableNumber  int                `json:"table_number"`
	CustomerID   string             `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	Items        []orderLineRequest `json:"items"`
}

type discountRequest struct {
	Percentage *decimal.Decimal `json:"percentage"`
}

type reloadRequest struct {
	Version uint64 `json:"version"`
}

type boardResponse struct {
	Version uint64                `json:"version"`
	Columns []service.BoardColumn `json:"columns"`
}

type archiveResponse struct {
	Order        model.Order     `json:"order"`
	Customer     *model.Customer `json:"customer,omitempty"`
	PointsEarned int64           `json:"points_earned"`
	Table        *model.Table    `json:"table,omitempty"`
}

// --- Handlers ---

// Board returns active orders grouped by status, with the state version a
// client passes back to /orders/reload.
func (h *OrderHandler) Board(w http.ResponseWriter, r *http.Request) {
	cols, version := h.store.Board()
	writeJSON(w, http.StatusOK, boardResponse{Version: version, Columns: cols})
}

// Create builds and submits a new order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	lines := make([]service.OrderLine, len(req.Items))
	for i, it := range req.Items {
		lines[i] = service.OrderLine{MenuItemID: it.MenuItemID, Quantity: it.Quantity}
	}

	order, err := h.store.SubmitOrder(r.Context(), service.SubmitOrderRequest{
		TableNumber:  req.TableNumber,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Items:        lines,
	})
	if err != nil {
		writeServiceError(w, "create order", err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Archived(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ArchivedOrders())
}

// Reload re-reads persisted state unless the caller's version is stale.
func (h *OrderHandler) Reload(w http.ResponseWriter, r *http.Request) {
	var req reloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, err := h.store.Reload(r.Context(), req.Version); err != nil {
		writeServiceError(w, "reload", err)
		return
	}
	h.Board(w, r)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.Order(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Advance moves the order one step along received, preparing, ready, served.
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.AdvanceOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "advance order", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Discount sets the order discount percentage. Out-of-range values are
// clamped, not rejected.
func (h *OrderHandler) Discount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": service.ErrInvalidDiscount.Error()})
		return
	}
	if req.Percentage == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "percentage is required"})
		return
	}

	order, err := h.store.ApplyDiscount(r.Context(), chi.URLParam(r, "id"), *req.Percentage)
	if err != nil {
		writeServiceError(w, "discount order", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Archive finalizes the order: frees the table and credits loyalty points.
func (h *OrderHandler) Archive(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.ArchiveOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "archive order", err)
		return
	}
	writeJSON(w, http.StatusOK, archiveResponse{
		Order:        res.Order,
		Customer:     res.Customer,
		PointsEarned: res.PointsEarned,
		Table:        res.Table,
	})
}

// Bill returns the bill as JSON, or as a plain-text receipt with
// ?format=text.
func (h *OrderHandler) Bill(w http.ResponseWriter, r *http.Request) {
	bill, err := h.store.Bill(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "bill order", err)
		return
	}

	if r.URL.Query().Get("format") != "text" {
		writeJSON(w, http.StatusOK, bill)
		return
	}

	var buf bytes.Buffer
	if err := bill.RenderText(&buf); err != nil {
		log.Printf("ERROR: render bill: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
