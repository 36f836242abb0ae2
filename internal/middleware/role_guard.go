package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gopts/internal/models"
)

// Context keys set by RoleGuard.
const (
	CtxRole = "role"
	CtxUser = "user"
)

// RoleGuard resolves the caller's account from the users collection and
// rejects the request unless its role is in the allow-list. An empty
// allow-list only requires that the account exists. The resolved user is
// stored in the context for ownership and suspension checks.
func RoleGuard(db *mongo.Database, allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(CtxEmail)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account not registered"})
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] role lookup failed:", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if !roleAllowed(user.Role, allowedRoles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set(CtxRole, user.Role)
		c.Set(CtxUser, user)
		c.Next()
	}
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// CurrentUser returns the account resolved by RoleGuard.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, ok := c.Get(CtxUser)
	if !ok {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
