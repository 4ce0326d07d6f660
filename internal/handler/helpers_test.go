package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/auth"
	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/middleware"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/service"
	"github.com/tavola-pos/api/internal/store"
)

const testSecret = "test-secret"

var (
	margherita = model.MenuItem{ID: "pizza", Name: "Margherita", Price: decimal.RequireFromString("5.99"), Category: enum.CategoryMainCourses}
	tiramisu   = model.MenuItem{ID: "tiramisu", Name: "Tiramisu", Price: decimal.RequireFromString("15.99"), Category: enum.CategoryDesserts}
)

// newRestaurant returns a loaded service over a seeded in-memory store.
func newRestaurant(t *testing.T) (*service.Restaurant, *store.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	if err := mem.SaveMenuItems(ctx, []model.MenuItem{margherita, tiramisu}); err != nil {
		t.Fatal(err)
	}
	if err := mem.SaveTables(ctx, []model.Table{
		{ID: 1, Status: enum.TableStatusAvailable, Capacity: 2},
		{ID: 2, Status: enum.TableStatusAvailable, Capacity: 4},
	}); err != nil {
		t.Fatal(err)
	}
	if err := mem.SaveCustomers(ctx, []model.Customer{
		{ID: "cust-1", Name: "Ada", Email: "ada@example.com", Phone: "555-0101"},
	}); err != nil {
		t.Fatal(err)
	}
	r := service.NewRestaurant(mem, nil)
	t.Cleanup(r.Close)
	if err := r.Load(ctx); err != nil {
		t.Fatalf("load restaurant: %v", err)
	}
	return r, mem
}

// authedRouter mounts register under prefix behind the JWT middleware.
func authedRouter(prefix string, register func(chi.Router)) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testSecret))
		r.Route(prefix, register)
	})
	return r
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, "staff-"+role, role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, router http.Handler, method, path, role string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, role))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, router, "POST", path, "", body)
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeInto(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v; body: %s", err, rr.Body.String())
	}
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}
