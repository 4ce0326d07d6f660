package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/service"
)

// StaffStore is the part of the restaurant service the staff handlers need.
type StaffStore interface {
	Staff(ctx context.Context) ([]model.StaffMember, error)
	StaffMember(ctx context.Context, id string) (model.StaffMember, error)
	CreateStaff(ctx context.Context, in service.StaffInput) (model.StaffMember, error)
	UpdateStaff(ctx context.Context, id string, in service.StaffInput) (model.StaffMember, error)
	DeleteStaff(ctx context.Context, id string) error
}

// StaffHandler handles staff CRUD endpoints.
type StaffHandler struct {
	store StaffStore
}

func NewStaffHandler(store StaffStore) *StaffHandler {
	return &StaffHandler{store: store}
}

// RegisterRoutes registers staff CRUD endpoints.
// Expected to be mounted at /staff inside a manager-only group
func (h *StaffHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type staffRequest struct {
	Name     string           `json:"name"`
	Role     string           `json:"role"`
	Email    string           `json:"email"`
	Phone    string           `json:"phone"`
	Shift    string           `json:"shift"`
	Avatar   string           `json:"avatar"`
	Salary   *decimal.Decimal `json:"salary"`
	Password string           `json:"password"`
}

func (req staffRequest) input() service.StaffInput {
	return service.StaffInput{
		Name:     req.Name,
		Role:     req.Role,
		Email:    req.Email,
		Phone:    req.Phone,
		Shift:    req.Shift,
		Avatar:   req.Avatar,
		Salary:   req.Salary,
		Password: req.Password,
	}
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	staff, err := h.store.Staff(r.Context())
	if err != nil {
		writeServiceError(w, "list staff", err)
		return
	}
	writeJSON(w, http.StatusOK, staff)
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.StaffMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get staff", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	m, err := h.store.CreateStaff(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, "create staff", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// Update replaces the staff member's fields. An empty password keeps the
// current one.
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	m, err := h.store.UpdateStaff(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeServiceError(w, "update staff", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteStaff(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "delete staff", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
