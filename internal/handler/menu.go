package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/enum"
	mw "github.com/tavola-pos/api/internal/middleware"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/service"
)

// MenuStore is the part of the restaurant service the menu handlers need.
type MenuStore interface {
	MenuItems(ctx context.Context, category string) ([]model.MenuItem, error)
	MenuItem(ctx context.Context, id string) (model.MenuItem, error)
	CreateMenuItem(ctx context.Context, in service.MenuItemInput) (model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, in service.MenuItemInput) (model.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
}

// MenuHandler handles menu CRUD endpoints.
type MenuHandler struct {
	store MenuStore
}

func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers menu endpoints. Writes are limited to managers.
// Expected to be mounted at /menu
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	manager := mw.RequireRole(enum.StaffRoleManager)

	r.Get("/", h.List)
	r.With(manager).Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.With(manager).Put("/", h.Update)
		r.With(manager).Delete("/", h.Delete)
	})
}

type menuItemRequest struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
}

func (req menuItemRequest) input() (service.MenuItemInput, bool) {
	if req.Price == nil {
		return service.MenuItemInput{}, false
	}
	return service.MenuItemInput{
		Name:        req.Name,
		Price:       *req.Price,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
	}, true
}

// List returns the menu, optionally filtered with ?category=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !enum.IsCategory(category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
		return
	}

	items, err := h.store.MenuItems(r.Context(), category)
	if err != nil {
		writeServiceError(w, "list menu", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.MenuItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	in, ok := req.input()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price is required"})
		return
	}

	item, err := h.store.CreateMenuItem(r.Context(), in)
	if err != nil {
		writeServiceError(w, "create menu item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	in, ok := req.input()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price is required"})
		return
	}

	item, err := h.store.UpdateMenuItem(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, "update menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteMenuItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "delete menu item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
