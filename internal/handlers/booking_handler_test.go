package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "github.com/klmalviya77/trimtime-queue-master/internal/domain/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
)

func TestJoinQueueFirstInLine(t *testing.T) {
	freshDB()
	router := setupRouter(testDB)

	owner, _ := seedUser(t, "owner1@test.com", models.RoleBarber)
	shop := seedShop(t, owner.ID, "first-in-line", nil)
	_, token := seedUser(t, "cust1@test.com", models.RoleCustomer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/me/bookings",
		map[string]uint{"shop_id": shop.ID}, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["status"] != string(domain.StatusWaiting) {
		t.Errorf("expected status waiting, got %v", resp["status"])
	}
	if resp["queue_position"] != float64(1) {
		t.Errorf("expected position 1, got %v", resp["queue_position"])
	}
	if resp["estimated_wait_min"] != float64(0) {
		t.Errorf("expected wait 0, got %v", resp["estimated_wait_min"])
	}
}

func TestJoinQueueSequentialWaits(t *testing.T) {
	freshDB()
	router := setupRouter(testDB)

	owner, _ := seedUser(t, "owner2@test.com", models.RoleBarber)
	shop := seedShop(t, owner.ID, "sequential", nil) // avg 30 min

	for i, want := range []struct {
		position float64
		wait     float64
	}{
		{1, 0}, {2, 30}, {3, 60},
	} {
		_, token := seedUser(t, fmt.Sprintf("seq%d@test.com", i), models.RoleCustomer)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, authRequest("POST", "/api/me/bookings",
			map[string]uint{"shop_id": shop.ID}, token))

		if w.Code != http.StatusCreated {
			t.Fatalf("join %d: expected status 201, got %d: %s", i, w.Code, w.Body.String())
		}

		resp := parseResponse(w)
		if resp["queue_position"] != want.position {
			t.Errorf("join %d: expected position %v, got %v", i, want.position, resp["queue_position"])
		}
		if resp["estimated_wait_min"] != want.wait {
			t.Errorf("join %d: expected wait %v, got %v", i, want.wait, resp["estimated_wait_min"])
		}
	}
}

func TestJoinQueueTwiceConflicts(t *testing.T) {
	freshDB()
	router := setupRouter(testDB)

	owner, _ := seedUser(t, "owner3@test.com", models.RoleBarber)
	shop := seedShop(t, owner.ID, "twice", nil)
	_, token := seedUser(t, "eager@test.com", models.RoleCustomer)

	body := map[string]uint{"shop_id": shop.ID}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/me/bookings", body, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("first join: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/me/bookings", body, token))
	if w.Code != http.StatusConflict {
		t.Fatalf("second join: expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["error_code"] != "already_in_queue" {
		t.Errorf("expected already_in_queue, got %v", resp["error_code"])
	}
}

func TestJoinQueueFull(t *testing.T) {
	freshDB()
	router := setupRouter(testDB)

	owner, _ := seedUser(t, "owner4@test.com", models.RoleBarber)
	shop := seedShop(t, owner.ID, "full", func(s *models.Shop) {
		s.CapacityLimit = 1
	})

	_, token1 := seedUser(t, "lucky@test.com", models.RoleCustomer)
	_, token2 := seedUser(t, "unlucky@test.com", models.RoleCustomer)

	body := map[string]uint{"shop_id": shop.ID}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/me/bookings", body, token1))
	if w.Code != http.StatusCreated {
		t.Fatalf("first join: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/me/bookings", body, token2))
	if w.Code != http.StatusConflict {
		t.Fatalf("second join: expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["error_code"] != "queue_full" {
		t.Errorf("expected queue_full, got %v", resp["error_code"])
	}
}

func TestJoinInactiveShop(t *testing.T) {
	freshDB()
	router := setupRouter(testDB)

	owner, _ := seedUser(t, "owner5@test.com", models.RoleBarber)
	shop := seedShop(t, owner.ID, "closed", nil)
	deactivateShop(t, shop.ID)

	_, token := seedUser(t, "late@test.com", models.RoleCustomer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/me/bookings",
		map[string]uint{"shop_id": shop.ID}, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["error_code"] != "shop_inactive" {
		t.Errorf("expected shop_inactive, got %v", resp["error_code"])
	}
}

func TestJoinUnknownShop(t *testing.T) {
	freshDB()
	router := setupRouter(testDB)
	_, token := seedUser(t, "lost@test.com", models.RoleCustomer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/me/bookings",
		map[string]uint{"shop_id": 99999}, token))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListMyBookings(t *testing.T) {
	freshDB()
	router := setupRouter(testDB)

	owner, _ := seedUser(t, "owner6@test.com", models.RoleBarber)
	shop := seedShop(t, owner.ID, "mine", nil)
	customer, token := seedUser(t, "lister@test.com", models.RoleCustomer)
	other, _ := seedUser(t, "other@test.com", models.RoleCustomer)

	now := time.Now()
	seedBooking(t, shop.ID, customer.ID, string(domain.StatusCompleted), now.Add(-2*time.Hour))
	seedBooking(t, shop.ID, customer.ID, string(domain.StatusWaiting), now)
	seedBooking(t, shop.ID, other.ID, string(domain.StatusWaiting), now)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/me/bookings", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := parseResponseArray(w); len(got) != 2 {
		t.Errorf("expected 2 bookings, got %d", len(got))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/me/bookings?status=waiting", nil, token))

	if got := parseResponseArray(w); len(got) != 1 {
		t.Errorf("expected 1 waiting booking, got %d", len(got))
	}
}

func TestCancelBookingShiftsQueue(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)

	owner, _ := seedUser(t, "owner7@test.com", models.RoleBarber)
	shop := seedShop(t, owner.ID, "shifting", nil)

	_, tokenA := seedUser(t, "shift-a@test.com", models.RoleCustomer)
	_, tokenB := seedUser(t, "shift-b@test.com", models.RoleCustomer)

	body := map[string]uint{"shop_id": shop.ID}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/me/bookings", body, tokenA))
	first := parseResponse(w)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/me/bookings", body, tokenB))
	second := parseResponse(w)

	// First in line leaves; second must move up with zero wait.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest(
		"PATCH",
		fmt.Sprintf("/api/me/bookings/%v/cancel", first["id"]),
		nil, tokenA,
	))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["status"] != string(domain.StatusCancelled) {
		t.Errorf("expected status cancelled, got %v", resp["status"])
	}

	var remaining models.Booking
	if err := db.First(&remaining, uint(second["id"].(float64))).Error; err != nil {
		t.Fatalf("remaining booking not found: %v", err)
	}
	if remaining.QueuePosition != 1 || remaining.EstimatedWaitMin != 0 {
		t.Errorf("expected position 1 wait 0, got position %d wait %d",
			remaining.QueuePosition, remaining.EstimatedWaitMin)
	}
}

func TestCancelNonWaitingBooking(t *testing.T) {
	freshDB()
	router := setupRouter(testDB)

	owner, _ := seedUser(t, "owner8@test.com", models.RoleBarber)
	shop := seedShop(t, owner.ID, "done-deal", nil)
	customer, token := seedUser(t, "regretful@test.com", models.RoleCustomer)

	booking := seedBooking(t, shop.ID, customer.ID, string(domain.StatusCompleted), time.Now())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest(
		"PATCH",
		fmt.Sprintf("/api/me/bookings/%d/cancel", booking.ID),
		nil, token,
	))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["error_code"] != "invalid_state" {
		t.Errorf("expected invalid_state, got %v", resp["error_code"])
	}
}

func TestCancelSomeoneElsesBooking(t *testing.T) {
	freshDB()
	router := setupRouter(testDB)

	owner, _ := seedUser(t, "owner9@test.com", models.RoleBarber)
	shop := seedShop(t, owner.ID, "not-yours", nil)
	victim, _ := seedUser(t, "victim@test.com", models.RoleCustomer)
	_, token := seedUser(t, "intruder@test.com", models.RoleCustomer)

	booking := seedBooking(t, shop.ID, victim.ID, string(domain.StatusWaiting), time.Now())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest(
		"PATCH",
		fmt.Sprintf("/api/me/bookings/%d/cancel", booking.ID),
		nil, token,
	))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}
