package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gopts/internal/events"
	"gopts/internal/middleware"
	"gopts/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type createOrderRequest struct {
	ProductID       string `json:"productId" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required"`
	UserName        string `json:"userName"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ContactNumber   string `json:"contactNumber" binding:"required"`
	DeliveryAddress string `json:"deliveryAddress" binding:"required"`
	AdditionalNotes string `json:"additionalNotes"`
}

func (r createOrderRequest) buyerName() string {
	if name := strings.TrimSpace(r.UserName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

/* =========================
   CREATE ORDER (BOOKING)
========================= */

// CreateOrder books a product for the calling buyer. Price, total, manager
// and tracking id are computed server-side; the stock decrement happens in
// the same transaction as the insert so concurrent bookings cannot oversell.
func CreateOrder(db *mongo.Database, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if rejectSuspended(c, user) {
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		if req.buyerName() == "" {
			respondWithError(c, http.StatusBadRequest, route, "buyer name is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		order := models.Order{
			TrackingID:      newTrackingID(),
			UserID:          user.UID,
			UserName:        req.buyerName(),
			UserEmail:       user.Email,
			ProductID:       productID,
			Quantity:        req.Quantity,
			Status:          models.OrderPending,
			PaymentStatus:   models.PaymentUnpaid,
			ContactNumber:   strings.TrimSpace(req.ContactNumber),
			DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
			AdditionalNotes: strings.TrimSpace(req.AdditionalNotes),
			TrackingLogs:    []models.TrackingLog{},
			CreatedAt:       time.Now(),
		}

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			var product models.Product
			err := db.Collection("products").FindOne(sessCtx, bson.M{"_id": productID}).Decode(&product)
			if err == mongo.ErrNoDocuments {
				return nil, productNotFoundError{ProductID: productID}
			}
			if err != nil {
				return nil, err
			}

			if err := validateBookingQuantity(product.MOQ, product.Quantity, req.Quantity); err != nil {
				return nil, err
			}

			order.ProductName = product.Name
			order.Price = product.Price
			order.TotalPrice = product.Price * float64(req.Quantity)
			order.PaymentOption = product.PaymentOption
			order.ManagerEmail = product.ManagerEmail

			// $gte guard: another booking may have drained stock since the read
			res, err := db.Collection("products").UpdateOne(
				sessCtx,
				bson.M{
					"_id":      productID,
					"quantity": bson.M{"$gte": req.Quantity},
				},
				bson.M{"$inc": bson.M{"quantity": -req.Quantity}},
			)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, outOfStockError{Available: product.Quantity, Requested: req.Quantity}
			}

			insertRes, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := insertRes.InsertedID.(primitive.ObjectID); ok {
				order.ID = id
			}
			return nil, nil
		})
		if err != nil {
			var moqErr belowMOQError
			if errors.As(err, &moqErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     moqErr.Error(),
					"moq":       moqErr.MOQ,
					"requested": moqErr.Requested,
				})
				return
			}
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     stockErr.Error(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			if errors.Is(err, errInvalidQuantity) {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		publishOrderEvent(publisher, events.OrderCreated, order, "")

		log.Println("[ORDER] [INFO] order created:", order.TrackingID, "for user:", user.UID)
		c.JSON(http.StatusCreated, order)
	}
}

/* =========================
   USER ORDERS
========================= */

// GetUserOrders lists a buyer's own orders, newest first. Admins may inspect
// any user's orders.
func GetUserOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		uid := strings.TrimSpace(c.Param("uid"))
		if uid == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uid"})
			return
		}
		if uid != user.UID && user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": uid}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

/* =========================
   CANCEL (BUYER)
========================= */

// CancelOrder cancels a pending order owned by the caller. The record is kept
// with status canceled and the reserved stock is restored.
func CancelOrder(db *mongo.Database, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/orders/:id"

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var order models.Order
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			err := db.Collection("orders").FindOne(sessCtx, bson.M{"_id": orderID}).Decode(&order)
			if err != nil {
				return nil, err
			}

			if err := canCancelOrder(order, user.UID); err != nil {
				return nil, err
			}

			now := time.Now()
			_, err = db.Collection("orders").UpdateByID(sessCtx, orderID, bson.M{
				"$set": bson.M{
					"status":     models.OrderCanceled,
					"canceledAt": now,
				},
			})
			if err != nil {
				return nil, err
			}

			_, err = db.Collection("products").UpdateByID(sessCtx, order.ProductID, bson.M{
				"$inc": bson.M{"quantity": order.Quantity},
			})
			return nil, err
		})
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			if errors.Is(err, errNotOrderOwner) || errors.Is(err, errOrderNotPending) {
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		publishOrderEvent(publisher, events.OrderCanceled, order, "")

		log.Println("[ORDER] [INFO] order canceled:", order.TrackingID)
		c.JSON(http.StatusOK, gin.H{"message": "order canceled"})
	}
}

/* =========================
   PUBLIC TRACKING
========================= */

// TrackOrder is the unauthenticated lookup by tracking id. Logs are returned
// in insertion order; the client renders them as-is.
func TrackOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/public/track/:trackingId"
		defer handlePanic(c, route)

		trackingID := strings.TrimSpace(c.Param("trackingId"))
		if trackingID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "trackingId required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		var order models.Order
		err := db.Collection("orders").FindOne(ctx, bson.M{"trackingId": trackingID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

/* =========================
   HELPERS
========================= */

func publishOrderEvent(publisher events.Publisher, eventType string, order models.Order, status string) {
	if publisher == nil {
		return
	}
	err := publisher.Publish(events.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID.Hex(),
		TrackingID: order.TrackingID,
		Status:     status,
		OccurredAt: time.Now(),
	})
	if err != nil {
		log.Println("[EVENTS] [ERROR] publish failed:", err)
	}
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}
