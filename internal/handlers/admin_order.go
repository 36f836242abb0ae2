package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gopts/internal/models"
)

// buildOrderFilter translates the admin list query into a bson filter. The
// status select on the dashboard mixes order statuses and payment statuses,
// so payment values filter paymentStatus instead. Search matches tracking id
// or buyer email.
func buildOrderFilter(status, search string) bson.M {
	filter := bson.M{}

	switch status = strings.TrimSpace(status); status {
	case "":
	case models.PaymentPaid, models.PaymentUnpaid:
		filter["paymentStatus"] = status
	default:
		filter["status"] = status
	}

	if search = strings.TrimSpace(search); search != "" {
		filter["$or"] = []bson.M{
			{"trackingId": bson.M{"$regex": search, "$options": "i"}},
			{"userEmail": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	return filter
}

// GetOrders is the admin listing: paginated, filterable by status and free
// text search, newest first. Responds {orders, total}.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filter := buildOrderFilter(c.Query("status"), c.Query("search"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		total, err := db.Collection("orders").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("orders").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": orders,
			"total":  total,
		})
	}
}

// GetOrder returns a single order by id for the admin order-details view.
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
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

		c.JSON(http.StatusOK, order)
	}
}
