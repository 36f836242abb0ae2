package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gopts/internal/middleware"
	"gopts/internal/models"
)

func jsonRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

func managerOrderContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPatch, "/api/orders/manager/x", body)
	c.Params = gin.Params{{Key: "id", Value: primitive.NewObjectID().Hex()}}
	c.Set(middleware.CtxUser, models.User{
		UID:   "mgr-1",
		Email: "m@factory.com",
		Role:  models.RoleManager,
	})
	return c, w
}

// Rejection without a reason must fail before any order is touched; the
// handler validates the body ahead of the database lookup.
func TestRejectOrderRequiresReason(t *testing.T) {
	t.Run("missing reason", func(t *testing.T) {
		c, w := managerOrderContext(t, `{}`)

		RejectOrder(nil, nil)(c)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got %d, want 400", w.Code)
		}
	})

	t.Run("whitespace reason", func(t *testing.T) {
		c, w := managerOrderContext(t, `{"reason": "   "}`)

		RejectOrder(nil, nil)(c)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got %d, want 400", w.Code)
		}
		if !strings.Contains(w.Body.String(), "reason") {
			t.Errorf("error should name the missing reason: %s", w.Body.String())
		}
	})
}

func TestAddTrackingValidation(t *testing.T) {
	t.Run("status outside the vocabulary", func(t *testing.T) {
		c, w := managerOrderContext(t, `{"status": "Teleported!", "location": "Dhaka"}`)

		AddTracking(nil, nil)(c)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got %d, want 400", w.Code)
		}
		if !strings.Contains(w.Body.String(), "invalid tracking status") {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("missing location", func(t *testing.T) {
		c, w := managerOrderContext(t, `{"status": "Shipped!"}`)

		AddTracking(nil, nil)(c)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got %d, want 400", w.Code)
		}
	})
}
