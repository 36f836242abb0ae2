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

	"gopts/internal/middleware"
	"gopts/internal/models"
)

type createUserRequest struct {
	UID      string `json:"uid" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	PhotoURL string `json:"photoURL"`
	Role     string `json:"role"`
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type updateStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Reason   string `json:"reason"`
	Feedback string `json:"feedback"`
}

/*
POST /api/users
Provisions the profile document for an authenticated identity. The client
calls this right after sign-in when the profile probe 404s, so a duplicate
uid answers 409 and the client treats it as already provisioned.
*/
func CreateUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		tokenUID := c.GetString(middleware.CtxUID)
		if tokenUID != "" && tokenUID != strings.TrimSpace(req.UID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "uid does not match token"})
			return
		}

		role := models.RoleBuyer
		if req.Role != "" {
			parsed, err := models.ParseRole(req.Role)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			// role escalation happens through the admin route only
			if parsed == models.RoleAdmin {
				c.JSON(http.StatusForbidden, gin.H{"error": "cannot self-assign admin role"})
				return
			}
			role = parsed
		}

		status := models.StatusActive
		if role == models.RoleManager {
			status = models.StatusPending
		}

		now := time.Now()
		user := models.User{
			UID:       strings.TrimSpace(req.UID),
			Name:      strings.TrimSpace(req.Name),
			Email:     strings.ToLower(strings.TrimSpace(req.Email)),
			PhotoURL:  strings.TrimSpace(req.PhotoURL),
			Role:      role,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		res, err := db.Collection("users").InsertOne(ctx, user)
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			user.ID = id
		}

		log.Println("[USER] [INFO] user provisioned:", user.UID, "role:", user.Role)
		c.JSON(http.StatusCreated, user)
	}
}

// GetUsers is the admin listing. Supports ?role=, ?status= and ?search= on
// name or email. Responds {users, total}.
func GetUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filter := bson.M{}
		if role := strings.TrimSpace(c.Query("role")); role != "" {
			parsed, err := models.ParseRole(role)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			filter["role"] = parsed
		}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			filter["status"] = status
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"email": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		total, err := db.Collection("users").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := db.Collection("users").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"users": users,
			"total": total,
		})
	}
}

// GetUser looks up a profile by ObjectID hex or, failing that, by uid. The
// client probes this after sign-in and provisions on 404.
func GetUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		filter := bson.M{"uid": id}
		if objID, err := primitive.ObjectIDFromHex(id); err == nil {
			filter = bson.M{"_id": objID}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, filter).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// GetUserRole answers the role lookup the client uses for routing. Unknown
// emails resolve to buyer so a fresh account still gets a dashboard.
func GetUserRole(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(strings.TrimSpace(c.Param("id")))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusOK, gin.H{"role": models.RoleBuyer})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"role": user.Role})
	}
}

// UpdateUserRole is the admin role change.
func UpdateUserRole(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /api/users/:id/role"

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updateRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		role, err := models.ParseRole(req.Role)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"role":      role,
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		log.Println("[USER] [INFO] role updated:", userID.Hex(), "->", role)
		c.JSON(http.StatusOK, gin.H{"message": "role updated", "role": role})
	}
}

/*
PATCH /api/users/:id/status
Admin activation and suspension. Suspending requires a reason; feedback is an
optional note shown to the user. Admins cannot change their own status, which
keeps at least one usable admin account around.
*/
func UpdateUserStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /api/users/:id/status"

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		caller, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if caller.ID == userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot change your own status"})
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status := strings.TrimSpace(req.Status)
		switch status {
		case models.StatusActive, models.StatusPending, models.StatusSuspended:
		default:
			respondWithError(c, http.StatusBadRequest, route, "invalid status")
			return
		}

		suspend := models.SuspendInfo{}
		if status == models.StatusSuspended {
			reason := strings.TrimSpace(req.Reason)
			if reason == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "suspension reason is required"})
				return
			}
			suspend = models.SuspendInfo{
				IsSuspended: true,
				Reason:      reason,
				Feedback:    strings.TrimSpace(req.Feedback),
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout())
		defer cancel()

		res, err := db.Collection("users").UpdateByID(ctx, userID, bson.M{
			"$set": bson.M{
				"status":    status,
				"suspend":   suspend,
				"updatedAt": time.Now(),
			},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		log.Println("[USER] [INFO] status updated:", userID.Hex(), "->", status, "by:", caller.Email)
		c.JSON(http.StatusOK, gin.H{"message": "status updated", "status": status})
	}
}

// GetMyStatus lets a signed-in user check whether their account is active or
// suspended, and why.
func GetMyStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  user.Status,
			"suspend": user.Suspend,
		})
	}
}
