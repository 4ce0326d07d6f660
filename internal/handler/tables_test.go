package handler_test

import (
	"net/http"
	"testing"

	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/handler"
	"github.com/tavola-pos/api/internal/model"
)

func TestTables_ListAndGet(t *testing.T) {
	svc, _ := newRestaurant(t)
	r := authedRouter("/tables", handler.NewTableHandler(svc).RegisterRoutes)

	rr := doRequest(t, r, "GET", "/tables", enum.StaffRoleBusboy, nil)
	expectStatus(t, rr, http.StatusOK)
	var tables []model.Table
	decodeInto(t, rr, &tables)
	if len(tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(tables))
	}

	rr = doRequest(t, r, "GET", "/tables/2", enum.StaffRoleBusboy, nil)
	expectStatus(t, rr, http.StatusOK)

	rr = doRequest(t, r, "GET", "/tables/abc", enum.StaffRoleBusboy, nil)
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, r, "GET", "/tables/99", enum.StaffRoleBusboy, nil)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestTables_UpdateStatus(t *testing.T) {
	svc, _ := newRestaurant(t)
	r := authedRouter("/tables", handler.NewTableHandler(svc).RegisterRoutes)

	rr := doRequest(t, r, "PATCH", "/tables/1", enum.StaffRoleWaiter, map[string]interface{}{"status": enum.TableStatusReserved})
	expectStatus(t, rr, http.StatusOK)
	var got model.Table
	decodeInto(t, rr, &got)
	if got.Status != enum.TableStatusReserved || got.Capacity != 2 {
		t.Errorf("table = %+v", got)
	}

	rr = doRequest(t, r, "PATCH", "/tables/1", enum.StaffRoleWaiter, map[string]interface{}{"status": "dirty"})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, r, "PATCH", "/tables/1", enum.StaffRoleWaiter, map[string]interface{}{
		"status": enum.TableStatusAvailable, "order_id": "some-order",
	})
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestTables_AvailableClearsOrder(t *testing.T) {
	svc, _ := newRestaurant(t)
	orders := ordersRouter(svc)
	o := createOrder(t, orders)

	r := authedRouter("/tables", handler.NewTableHandler(svc).RegisterRoutes)
	rr := doRequest(t, r, "GET", "/tables/2", enum.StaffRoleWaiter, nil)
	var occupied model.Table
	decodeInto(t, rr, &occupied)
	if occupied.Status != enum.TableStatusOccupied || occupied.OrderID != o.ID {
		t.Fatalf("table after order = %+v", occupied)
	}

	rr = doRequest(t, r, "PATCH", "/tables/2", enum.StaffRoleWaiter, map[string]interface{}{"status": enum.TableStatusAvailable})
	expectStatus(t, rr, http.StatusOK)
	var freed model.Table
	decodeInto(t, rr, &freed)
	if freed.OrderID != "" {
		t.Errorf("order id kept on available table: %q", freed.OrderID)
	}
}

func TestTables_ManagerOnlyCreateDelete(t *testing.T) {
	svc, _ := newRestaurant(t)
	r := authedRouter("/tables", handler.NewTableHandler(svc).RegisterRoutes)

	rr := doRequest(t, r, "POST", "/tables", enum.StaffRoleWaiter, map[string]interface{}{"id": 3, "capacity": 6})
	expectStatus(t, rr, http.StatusForbidden)

	rr = doRequest(t, r, "POST", "/tables", enum.StaffRoleManager, map[string]interface{}{"id": 3, "capacity": 6})
	expectStatus(t, rr, http.StatusCreated)
	var created model.Table
	decodeInto(t, rr, &created)
	if created.Status != enum.TableStatusAvailable {
		t.Errorf("new table status = %q", created.Status)
	}

	rr = doRequest(t, r, "POST", "/tables", enum.StaffRoleManager, map[string]interface{}{"id": 3, "capacity": 6})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, r, "POST", "/tables", enum.StaffRoleManager, map[string]interface{}{"id": 4, "capacity": 0})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, r, "DELETE", "/tables/3", enum.StaffRoleWaiter, nil)
	expectStatus(t, rr, http.StatusForbidden)

	rr = doRequest(t, r, "DELETE", "/tables/3", enum.StaffRoleManager, nil)
	expectStatus(t, rr, http.StatusNoContent)
}

func TestTables_DeleteWithActiveOrder(t *testing.T) {
	svc, _ := newRestaurant(t)
	createOrder(t, ordersRouter(svc))

	r := authedRouter("/tables", handler.NewTableHandler(svc).RegisterRoutes)
	rr := doRequest(t, r, "DELETE", "/tables/2", enum.StaffRoleManager, nil)
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestTables_LinkOrderFromOtherTable(t *testing.T) {
	svc, _ := newRestaurant(t)
	o := createOrder(t, ordersRouter(svc))

	r := authedRouter("/tables", handler.NewTableHandler(svc).RegisterRoutes)
	rr := doRequest(t, r, "PATCH", "/tables/1", enum.StaffRoleWaiter, map[string]interface{}{
		"status": enum.TableStatusOccupied, "order_id": o.ID,
	})
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, r, "GET", "/tables/1", enum.StaffRoleWaiter, nil)
	var untouched model.Table
	decodeInto(t, rr, &untouched)
	if untouched.Status != enum.TableStatusAvailable || untouched.OrderID != "" {
		t.Errorf("table 1 after rejected link = %+v", untouched)
	}

	rr = doRequest(t, r, "PATCH", "/tables/2", enum.StaffRoleWaiter, map[string]interface{}{
		"status": enum.TableStatusReserved, "order_id": o.ID,
	})
	expectStatus(t, rr, http.StatusOK)
}
