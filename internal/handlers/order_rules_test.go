package handlers

import (
	"errors"
	"strings"
	"testing"

	"gopts/internal/models"
)

func TestValidateBookingQuantity(t *testing.T) {
	t.Run("below moq", func(t *testing.T) {
		err := validateBookingQuantity(10, 100, 5)
		var moqErr belowMOQError
		if !errors.As(err, &moqErr) {
			t.Fatalf("expected belowMOQError, got %v", err)
		}
		if moqErr.MOQ != 10 || moqErr.Requested != 5 {
			t.Errorf("unexpected fields: %+v", moqErr)
		}
		if !strings.Contains(moqErr.Error(), "10") {
			t.Errorf("message should name the MOQ: %q", moqErr.Error())
		}
	})

	t.Run("above stock", func(t *testing.T) {
		err := validateBookingQuantity(10, 20, 25)
		var stockErr outOfStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("expected outOfStockError, got %v", err)
		}
		if stockErr.Available != 20 || stockErr.Requested != 25 {
			t.Errorf("unexpected fields: %+v", stockErr)
		}
	})

	t.Run("zero and negative", func(t *testing.T) {
		if err := validateBookingQuantity(1, 10, 0); !errors.Is(err, errInvalidQuantity) {
			t.Errorf("zero quantity: got %v", err)
		}
		if err := validateBookingQuantity(1, 10, -3); !errors.Is(err, errInvalidQuantity) {
			t.Errorf("negative quantity: got %v", err)
		}
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		if err := validateBookingQuantity(10, 20, 10); err != nil {
			t.Errorf("requested == moq should pass: %v", err)
		}
		if err := validateBookingQuantity(10, 20, 20); err != nil {
			t.Errorf("requested == stock should pass: %v", err)
		}
	})
}

func TestCanCancelOrder(t *testing.T) {
	order := models.Order{UserID: "uid-1", Status: models.OrderPending}

	if err := canCancelOrder(order, "uid-1"); err != nil {
		t.Errorf("owner canceling pending order: %v", err)
	}
	if err := canCancelOrder(order, "uid-2"); !errors.Is(err, errNotOrderOwner) {
		t.Errorf("non-owner: got %v", err)
	}

	order.Status = models.OrderApproved
	if err := canCancelOrder(order, "uid-1"); !errors.Is(err, errOrderNotPending) {
		t.Errorf("approved order: got %v", err)
	}
}

func TestCanManageOrder(t *testing.T) {
	order := models.Order{ManagerEmail: "m@factory.com"}

	cases := []struct {
		name string
		user models.User
		want bool
	}{
		{"owning manager", models.User{Role: models.RoleManager, Email: "m@factory.com"}, true},
		{"other manager", models.User{Role: models.RoleManager, Email: "other@factory.com"}, false},
		{"admin", models.User{Role: models.RoleAdmin, Email: "root@site.com"}, true},
		{"buyer with matching email", models.User{Role: models.RoleBuyer, Email: "m@factory.com"}, false},
	}
	for _, tc := range cases {
		if got := canManageOrder(order, tc.user); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTrackingStatuses(t *testing.T) {
	for _, status := range trackingStatuses {
		if !isValidTrackingStatus(status) {
			t.Errorf("%q should be valid", status)
		}
	}
	if isValidTrackingStatus("Delivered") {
		t.Error("statuses are matched exactly, including punctuation")
	}
	if isValidTrackingStatus("") {
		t.Error("empty status should be invalid")
	}

	if !trackingCompletesOrder("Delivered!") {
		t.Error("Delivered! is the terminal status")
	}
	if trackingCompletesOrder("Shipped!") {
		t.Error("Shipped! must not complete the order")
	}
}

func TestNewTrackingID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := newTrackingID()
		if !strings.HasPrefix(id, "TRK-") {
			t.Fatalf("missing prefix: %q", id)
		}
		if len(id) != len("TRK-")+10 {
			t.Fatalf("unexpected length: %q", id)
		}
		if id != strings.ToUpper(id) {
			t.Fatalf("not uppercase: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %q", id)
		}
		seen[id] = true
	}
}

func TestBuyerName(t *testing.T) {
	req := createOrderRequest{UserName: "Jamal Uddin"}
	if got := req.buyerName(); got != "Jamal Uddin" {
		t.Errorf("userName wins: got %q", got)
	}

	req = createOrderRequest{FirstName: " Ayesha ", LastName: "Khan"}
	if got := req.buyerName(); got != "Ayesha Khan" {
		t.Errorf("first+last fallback: got %q", got)
	}

	req = createOrderRequest{}
	if got := req.buyerName(); got != "" {
		t.Errorf("empty request: got %q", got)
	}
}
