package handler_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/handler"
	"github.com/tavola-pos/api/internal/model"
	"github.com/tavola-pos/api/internal/service"
)

func ordersRouter(store handler.OrderStore) chi.Router {
	return authedRouter("/orders", handler.NewOrderHandler(store).RegisterRoutes)
}

func createOrder(t *testing.T, r http.Handler) model.Order {
	t.Helper()
	rr := doRequest(t, r, "POST", "/orders", enum.StaffRoleWaiter, map[string]interface{}{
		"table_number": 2,
		"customer_id":  "cust-1",
		"items": []map[string]interface{}{
			{"menu_item_id": "pizza", "quantity": 2},
			{"menu_item_id": "tiramisu", "quantity": 1},
		},
	})
	expectStatus(t, rr, http.StatusCreated)
	var o model.Order
	decodeInto(t, rr, &o)
	return o
}

func TestOrders_RequireAuth(t *testing.T) {
	svc, _ := newRestaurant(t)
	rr := doRequest(t, ordersRouter(svc), "GET", "/orders", "", nil)
	expectStatus(t, rr, http.StatusUnauthorized)
}

func TestOrders_CreateAndBoard(t *testing.T) {
	svc, _ := newRestaurant(t)
	r := ordersRouter(svc)

	o := createOrder(t, r)
	if o.Status != enum.OrderStatusReceived {
		t.Errorf("status = %q", o.Status)
	}
	if !o.Subtotal.Equal(decimal.RequireFromString("27.97")) {
		t.Errorf("subtotal = %s, want 27.97", o.Subtotal)
	}
	if o.CustomerName != "Ada" {
		t.Errorf("customer name = %q", o.CustomerName)
	}

	rr := doRequest(t, r, "GET", "/orders", enum.StaffRoleChef, nil)
	expectStatus(t, rr, http.StatusOK)
	var board struct {
		Version uint64                `json:"version"`
		Columns []service.BoardColumn `json:"columns"`
	}
	decodeInto(t, rr, &board)
	if len(board.Columns) != 4 {
		t.Fatalf("columns = %d, want 4", len(board.Columns))
	}
	if board.Columns[0].Status != enum.OrderStatusReceived || len(board.Columns[0].Orders) != 1 {
		t.Errorf("received column = %+v", board.Columns[0])
	}
	if board.Version == 0 {
		t.Error("missing version")
	}
}

func TestOrders_CreateValidation(t *testing.T) {
	svc, _ := newRestaurant(t)
	r := ordersRouter(svc)

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty order", map[string]interface{}{"table_number": 1, "items": []interface{}{}}},
		{"missing table", map[string]interface{}{"items": []map[string]interface{}{{"menu_item_id": "pizza", "quantity": 1}}}},
		{"unknown table", map[string]interface{}{"table_number": 9, "items": []map[string]interface{}{{"menu_item_id": "pizza", "quantity": 1}}}},
		{"unknown item", map[string]interface{}{"table_number": 1, "items": []map[string]interface{}{{"menu_item_id": "sushi", "quantity": 1}}}},
		{"bad quantity", map[string]interface{}{"table_number": 1, "items": []map[string]interface{}{{"menu_item_id": "pizza", "quantity": 0}}}},
		{"malformed", "not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, r, "POST", "/orders", enum.StaffRoleWaiter, tt.body)
			expectStatus(t, rr, http.StatusBadRequest)
		})
	}
	if len(svc.ActiveOrders()) != 0 {
		t.Error("rejected orders reached the board")
	}
}

func TestOrders_Lifecycle(t *testing.T) {
	svc, _ := newRestaurant(t)
	r := ordersRouter(svc)
	o := createOrder(t, r)

	for _, want := range []string{enum.OrderStatusPreparing, enum.OrderStatusReady, enum.OrderStatusServed} {
		rr := doRequest(t, r, "POST", "/orders/"+o.ID+"/advance", enum.StaffRoleChef, nil)
		expectStatus(t, rr, http.StatusOK)
		if got := decodeResponse(t, rr)["status"]; got != want {
			t.Fatalf("status = %v, want %s", got, want)
		}
	}
	rr := doRequest(t, r, "POST", "/orders/"+o.ID+"/advance", enum.StaffRoleChef, nil)
	expectStatus(t, rr, http.StatusConflict)

	rr = doRequest(t, r, "POST", "/orders/"+o.ID+"/discount", enum.StaffRoleWaiter, map[string]interface{}{"percentage": 10})
	expectStatus(t, rr, http.StatusOK)
	var discounted model.Order
	decodeInto(t, rr, &discounted)
	if !discounted.Total.Equal(decimal.RequireFromString("25.173")) {
		t.Errorf("total = %s, want 25.173", discounted.Total)
	}

	rr = doRequest(t, r, "GET", "/orders/"+o.ID+"/bill", enum.StaffRoleWaiter, nil)
	expectStatus(t, rr, http.StatusOK)
	bill := decodeResponse(t, rr)
	if bill["total"] != "25.17" || bill["subtotal"] != "27.97" {
		t.Errorf("bill = %v", bill)
	}

	rr = doRequest(t, r, "GET", "/orders/"+o.ID+"/bill?format=text", enum.StaffRoleWaiter, nil)
	expectStatus(t, rr, http.StatusOK)
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "$25.17") {
		t.Errorf("receipt:\n%s", rr.Body.String())
	}

	rr = doRequest(t, r, "POST", "/orders/"+o.ID+"/archive", enum.StaffRoleWaiter, nil)
	expectStatus(t, rr, http.StatusOK)
	var archived struct {
		Order        model.Order     `json:"order"`
		Customer     *model.Customer `json:"customer"`
		PointsEarned int64           `json:"points_earned"`
		Table        *model.Table    `json:"table"`
	}
	decodeInto(t, rr, &archived)
	if archived.Order.Status != enum.OrderStatusArchived || archived.PointsEarned != 2 {
		t.Errorf("archive = %+v", archived)
	}
	if archived.Table == nil || archived.Table.Status != enum.TableStatusAvailable {
		t.Errorf("table = %+v", archived.Table)
	}

	rr = doRequest(t, r, "POST", "/orders/"+o.ID+"/archive", enum.StaffRoleWaiter, nil)
	expectStatus(t, rr, http.StatusConflict)

	rr = doRequest(t, r, "GET", "/orders/archive", enum.StaffRoleManager, nil)
	expectStatus(t, rr, http.StatusOK)
	var history []model.Order
	decodeInto(t, rr, &history)
	if len(history) != 1 {
		t.Errorf("archive size = %d, want 1", len(history))
	}
}

func TestOrders_DiscountValidation(t *testing.T) {
	svc, _ := newRestaurant(t)
	r := ordersRouter(svc)
	o := createOrder(t, r)

	rr := doRequest(t, r, "POST", "/orders/"+o.ID+"/discount", enum.StaffRoleWaiter, map[string]interface{}{})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, r, "POST", "/orders/"+o.ID+"/discount", enum.StaffRoleWaiter, map[string]interface{}{"percentage": "ten"})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, r, "POST", "/orders/"+o.ID+"/discount", enum.StaffRoleWaiter, map[string]interface{}{"percentage": 150})
	expectStatus(t, rr, http.StatusOK)
	var got model.Order
	decodeInto(t, rr, &got)
	if !got.Discount.Equal(decimal.NewFromInt(100)) || !got.Total.IsZero() {
		t.Errorf("clamped order = %+v", got)
	}
}

func TestOrders_NotFound(t *testing.T) {
	svc, _ := newRestaurant(t)
	r := ordersRouter(svc)

	for _, path := range []string{"/orders/missing", "/orders/missing/bill"} {
		rr := doRequest(t, r, "GET", path, enum.StaffRoleWaiter, nil)
		expectStatus(t, rr, http.StatusNotFound)
	}
	rr := doRequest(t, r, "POST", "/orders/missing/advance", enum.StaffRoleChef, nil)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestOrders_Reload(t *testing.T) {
	svc, _ := newRestaurant(t)
	r := ordersRouter(svc)
	stale := svc.Version()
	createOrder(t, r)

	rr := doRequest(t, r, "POST", "/orders/reload", enum.StaffRoleWaiter, map[string]interface{}{"version": stale})
	expectStatus(t, rr, http.StatusConflict)

	rr = doRequest(t, r, "POST", "/orders/reload", enum.StaffRoleWaiter, map[string]interface{}{"version": svc.Version()})
	expectStatus(t, rr, http.StatusOK)
}

// --- Mock store for collaborator failures ---

type failingOrderStore struct {
	handler.OrderStore
	err error
}

func (s failingOrderStore) ArchiveOrder(context.Context, string) (service.ArchiveResult, error) {
	return service.ArchiveResult{}, s.err
}

func TestOrders_ArchivePersistenceFailure(t *testing.T) {
	svc, _ := newRestaurant(t)
	store := failingOrderStore{
		OrderStore: svc,
		err:        &service.ExternalServiceError{Service: "persistence", Err: errors.New("connection reset")},
	}
	rr := doRequest(t, ordersRouter(store), "POST", "/orders/any/archive", enum.StaffRoleWaiter, nil)
	expectStatus(t, rr, http.StatusBadGateway)
	if !strings.Contains(rr.Body.String(), "persistence service unavailable") {
		t.Errorf("body = %s", rr.Body.String())
	}
}
