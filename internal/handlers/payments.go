package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gopts/internal/events"
	"gopts/internal/middleware"
	"gopts/internal/models"
	"gopts/internal/payments"
)

type createSessionRequest struct {
	TrackingID string `json:"trackingId" binding:"required"`
}

/*
POST /api/payments/create-session
Creates a checkout session for an unpaid PayFirst order owned by the caller
and returns the hosted payment page URL.
*/
func CreatePaymentSession(db *mongo.Database, gateway *payments.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/payments/create-session"
		defer handlePanic(c, route)

		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if rejectSuspended(c, user) {
			return
		}

		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		var order models.Order
		err := db.Collection("orders").
			FindOne(ctx, bson.M{"trackingId": strings.TrimSpace(req.TrackingID)}).
			Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if order.UserID != user.UID && user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if order.PaymentOption != models.PaymentPayFirst {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order does not require prepayment"})
			return
		}
		if order.PaymentStatus == models.PaymentPaid {
			c.JSON(http.StatusConflict, gin.H{"error": "order already paid"})
			return
		}

		session, err := gateway.CreateSession(ctx, payments.CreateSessionParams{
			TrackingID:  order.TrackingID,
			ProductName: order.ProductName,
			Amount:      order.TotalPrice,
			Currency:    "usd",
			BuyerEmail:  order.UserEmail,
		})
		if err != nil {
			log.Println("[PAYMENT] [ERROR] create session:", err)
			respondWithError(c, http.StatusBadGateway, route, "payment gateway unavailable")
			return
		}

		log.Println("[PAYMENT] [INFO] session created for:", order.TrackingID)
		c.JSON(http.StatusOK, gin.H{"url": session.URL})
	}
}

/*
PATCH /api/payments/payment-success?session_id=...
Called after the gateway redirects back. The session is re-verified with the
gateway before the order is marked paid, so a forged redirect cannot flip
paymentStatus. Confirming an already paid order is a no-op success.
*/
func PaymentSuccess(db *mongo.Database, gateway *payments.Gateway, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /api/payments/payment-success"
		defer handlePanic(c, route)

		sessionID := strings.TrimSpace(c.Query("session_id"))
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		verification, err := gateway.VerifySession(ctx, sessionID)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] verify session:", err)
			respondWithError(c, http.StatusBadGateway, route, "could not verify payment session")
			return
		}
		if !verification.Paid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment not completed"})
			return
		}

		var order models.Order
		err = db.Collection("orders").
			FindOne(ctx, bson.M{"trackingId": verification.TrackingID}).
			Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if order.PaymentStatus == models.PaymentPaid {
			c.JSON(http.StatusOK, gin.H{"message": "payment already recorded"})
			return
		}

		res, err := db.Collection("orders").UpdateOne(
			ctx,
			bson.M{"_id": order.ID, "paymentStatus": models.PaymentUnpaid},
			bson.M{"$set": bson.M{
				"paymentStatus": models.PaymentPaid,
				"transactionId": verification.TransactionID,
			}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			// a concurrent confirmation won the race
			c.JSON(http.StatusOK, gin.H{"message": "payment already recorded"})
			return
		}

		publishOrderEvent(publisher, events.OrderPaid, order, models.PaymentPaid)

		log.Println("[PAYMENT] [INFO] payment recorded:", order.TrackingID, "txn:", verification.TransactionID)
		c.JSON(http.StatusOK, gin.H{"message": "payment recorded", "transactionId": verification.TransactionID})
	}
}
