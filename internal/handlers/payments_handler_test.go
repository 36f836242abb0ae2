package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"gopts/internal/middleware"
	"gopts/internal/models"
)

func TestCreatePaymentSessionGuards(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(t, http.MethodPost, "/api/payments/create-session", `{"trackingId": "TRK-AAAA000000"}`)

		CreatePaymentSession(nil, nil)(c)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got %d, want 401", w.Code)
		}
	})

	t.Run("suspended buyer", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(t, http.MethodPost, "/api/payments/create-session", `{"trackingId": "TRK-AAAA000000"}`)
		c.Set(middleware.CtxUser, models.User{
			UID:  "buyer-1",
			Role: models.RoleBuyer,
			Suspend: models.SuspendInfo{
				IsSuspended: true,
				Reason:      "chargeback abuse",
			},
		})

		CreatePaymentSession(nil, nil)(c)

		if w.Code != http.StatusForbidden {
			t.Fatalf("got %d, want 403", w.Code)
		}
		if !containsAll(w.Body.String(), "account suspended", "chargeback abuse") {
			t.Errorf("response should carry the suspension reason: %s", w.Body.String())
		}
	})

	t.Run("missing trackingId", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(t, http.MethodPost, "/api/payments/create-session", `{}`)
		c.Set(middleware.CtxUser, models.User{UID: "buyer-2", Role: models.RoleBuyer})

		CreatePaymentSession(nil, nil)(c)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got %d, want 400", w.Code)
		}
	})
}
