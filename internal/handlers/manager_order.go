package handlers

import (
	"context"
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

type rejectOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type addTrackingRequest struct {
	Status   string `json:"status" binding:"required"`
	Location string `json:"location" binding:"required"`
	Note     string `json:"note"`
}

// GetManagerOrders lists orders in the given status scoped to the calling
// manager's products. Admins see every order in that status.
func GetManagerOrders(db *mongo.Database, status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		filter := bson.M{"status": status}
		if user.Role != models.RoleAdmin {
			filter["managerEmail"] = user.Email
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, filter, opts)
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

// GetManagerOrderDetails returns a single order owned by the calling manager.
func GetManagerOrderDetails(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if !canManageOrder(order, user) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// ApproveOrder moves a pending order to approved. Approving an already
// approved order is a no-op success so double-clicks stay harmless.
func ApproveOrder(db *mongo.Database, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /api/orders/manager/:id/approve"

		order, user, ok := loadManagedOrder(c, db)
		if !ok {
			return
		}

		if order.Status == models.OrderApproved {
			c.JSON(http.StatusOK, gin.H{"message": "order already approved"})
			return
		}
		if order.Status != models.OrderPending {
			c.JSON(http.StatusConflict, gin.H{"error": "only pending orders can be approved"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		now := time.Now()
		res, err := db.Collection("orders").UpdateOne(
			ctx,
			bson.M{"_id": order.ID, "status": models.OrderPending},
			bson.M{"$set": bson.M{
				"status":     models.OrderApproved,
				"approvedAt": now,
			}},
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "order is no longer pending"})
			return
		}

		publishOrderEvent(publisher, events.OrderApproved, order, models.OrderApproved)

		log.Println("[ORDER] [INFO] order approved:", order.TrackingID, "by:", user.Email)
		c.JSON(http.StatusOK, gin.H{"message": "order approved"})
	}
}

// RejectOrder moves a pending order to rejected and restores the reserved
// stock. A non-empty reason is mandatory.
func RejectOrder(db *mongo.Database, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /api/orders/manager/:id/reject"

		var req rejectOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rejection reason is required"})
			return
		}

		order, user, ok := loadManagedOrder(c, db)
		if !ok {
			return
		}

		if order.Status != models.OrderPending {
			c.JSON(http.StatusConflict, gin.H{"error": "only pending orders can be rejected"})
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

		now := time.Now()
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			res, err := db.Collection("orders").UpdateOne(
				sessCtx,
				bson.M{"_id": order.ID, "status": models.OrderPending},
				bson.M{"$set": bson.M{
					"status":       models.OrderRejected,
					"rejectReason": reason,
					"rejectedAt":   now,
				}},
			)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, mongo.ErrNoDocuments
			}

			_, err = db.Collection("products").UpdateByID(sessCtx, order.ProductID, bson.M{
				"$inc": bson.M{"quantity": order.Quantity},
			})
			return nil, err
		})
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusConflict, gin.H{"error": "order is no longer pending"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		publishOrderEvent(publisher, events.OrderRejected, order, models.OrderRejected)

		log.Println("[ORDER] [INFO] order rejected:", order.TrackingID, "by:", user.Email)
		c.JSON(http.StatusOK, gin.H{"message": "order rejected"})
	}
}

// AddTracking appends a production/shipment log entry to an approved order.
// The terminal status completes the order.
func AddTracking(db *mongo.Database, publisher events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/manager/:id/tracking"

		var req addTrackingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status := strings.TrimSpace(req.Status)
		if !isValidTrackingStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tracking status", "allowed": trackingStatuses})
			return
		}
		if strings.TrimSpace(req.Location) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "location is required"})
			return
		}

		order, user, ok := loadManagedOrder(c, db)
		if !ok {
			return
		}

		if order.Status != models.OrderApproved {
			c.JSON(http.StatusConflict, gin.H{"error": "tracking can only be added to approved orders"})
			return
		}

		entry := models.TrackingLog{
			Status:   status,
			Location: strings.TrimSpace(req.Location),
			Note:     strings.TrimSpace(req.Note),
			By: models.TrackingActor{
				Role:  user.Role,
				Email: user.Email,
			},
			CreatedAt: time.Now(),
		}

		update := bson.M{"$push": bson.M{"trackingLogs": entry}}
		if trackingCompletesOrder(status) {
			update["$set"] = bson.M{"status": models.OrderCompleted}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		res, err := db.Collection("orders").UpdateOne(
			ctx,
			bson.M{"_id": order.ID, "status": models.OrderApproved},
			update,
		)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "order is no longer approved"})
			return
		}

		publishOrderEvent(publisher, events.OrderTrackingAdded, order, status)
		if trackingCompletesOrder(status) {
			publishOrderEvent(publisher, events.OrderCompleted, order, models.OrderCompleted)
		}

		log.Println("[ORDER] [INFO] tracking added:", order.TrackingID, "status:", status)
		c.JSON(http.StatusCreated, gin.H{"message": "tracking log added", "log": entry})
	}
}

// loadManagedOrder fetches the order from the :id param and enforces that the
// caller owns it (or is an admin). On failure it writes the response itself.
func loadManagedOrder(c *gin.Context, db *mongo.Database) (models.Order, models.User, bool) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return models.Order{}, models.User{}, false
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return models.Order{}, models.User{}, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
	defer cancel()

	var order models.Order
	err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return models.Order{}, models.User{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return models.Order{}, models.User{}, false
	}

	if !canManageOrder(order, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return models.Order{}, models.User{}, false
	}

	return order, user, true
}
