package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tavola-pos/api/internal/enum"
	mw "github.com/tavola-pos/api/internal/middleware"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/service"
)

// TableStore is the part of the restaurant service the table handlers need.
type TableStore interface {
	Tables() []model.Table
	Table(id int) (model.Table, error)
	CreateTable(ctx context.Context, t model.Table) (model.Table, error)
	UpdateTable(ctx context.Context, id int, upd service.TableUpdate) (model.Table, error)
	DeleteTable(ctx context.Context, id int) error
}

// TableHandler handles dining table endpoints.
type TableHandler struct {
	store TableStore
}

func NewTableHandler(store TableStore) *TableHandler {
	return &TableHandler{store: store}
}

// RegisterRoutes registers table endpoints. Any staff member can change a
// table's status; adding and removing tables is for managers.
// Expected to be mounted at /tables
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	manager := mw.RequireRole(enum.StaffRoleManager)

	r.Get("/", h.List)
	r.With(manager).Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
		r.With(manager).Delete("/", h.Delete)
	})
}

type createTableRequest struct {
	ID       int    `json:"id"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
	OrderID  string `json:"order_id"`
}

type updateTableRequest struct {
	Status   *string `json:"status"`
	Capacity *int    `json:"capacity"`
	OrderID  *string `json:"order_id"`
}

func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Tables())
}

func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := tableIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}
	t, err := h.store.Table(id)
	if err != nil {
		writeServiceError(w, "get table", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	t, err := h.store.CreateTable(r.Context(), model.Table{
		ID:       req.ID,
		Capacity: req.Capacity,
		Status:   req.Status,
		OrderID:  req.OrderID,
	})
	if err != nil {
		writeServiceError(w, "create table", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// Update changes status, capacity or linked order. Omitted fields are kept.
func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := tableIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}

	var req updateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	t, err := h.store.UpdateTable(r.Context(), id, service.TableUpdate{
		Status:   req.Status,
		Capacity: req.Capacity,
		OrderID:  req.OrderID,
	})
	if err != nil {
		writeServiceError(w, "update table", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := tableIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table ID"})
		return
	}
	if err := h.store.DeleteTable(r.Context(), id); err != nil {
		writeServiceError(w, "delete table", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
