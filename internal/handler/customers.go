package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/service"
)

// CustomerStore is the part of the restaurant service the customer handlers
// need.
type CustomerStore interface {
	Customers(search string) []model.Customer
	Customer(id string) (model.Customer, error)
	CreateCustomer(ctx context.Context, in service.CustomerInput) (model.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in service.CustomerInput) (model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	CustomerOrders(id string) ([]model.Order, error)
}

// CustomerHandler handles customer CRUD endpoints.
type CustomerHandler struct {
	store CustomerStore
}

func NewCustomerHandler(store CustomerStore) *CustomerHandler {
	return &CustomerHandler{store: store}
}

// RegisterRoutes registers customer CRUD endpoints.
// Expected to be mounted at /customers
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Get("/orders", h.Orders)
	})
}

// customerRequest has no loyalty field: points are earned, never edited.
type customerRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
}

func (req customerRequest) input() service.CustomerInput {
	return service.CustomerInput{Name: req.Name, Email: req.Email, Phone: req.Phone, Avatar: req.Avatar}
}

// List returns customers, optionally filtered with ?search=.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Customers(r.URL.Query().Get("search")))
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Customer(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get customer", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c, err := h.store.CreateCustomer(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, "create customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c, err := h.store.UpdateCustomer(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeServiceError(w, "update customer", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCustomer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Orders returns the customer's active and archived orders.
func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.CustomerOrders(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "customer orders", err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
