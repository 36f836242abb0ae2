package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUID   = "uid"
	CtxEmail = "email"
)

// Auth validates the bearer token issued by the identity provider and injects
// uid and email into the context. It does not touch the database; role
// resolution is a separate concern (see RoleGuard).
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, email, err := identityFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(CtxUID, uid)
		c.Set(CtxEmail, email)
		c.Next()
	}
}

func identityFromHeader(header, secret string) (uid, email string, err error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return "", "", errors.New("missing token")
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "", errors.New("invalid token format")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid token claims")
	}

	uid, _ = claims["uid"].(string)
	if strings.TrimSpace(uid) == "" {
		// some providers put the subject id in "sub"
		uid, _ = claims["sub"].(string)
	}
	if strings.TrimSpace(uid) == "" {
		return "", "", errors.New("uid claim missing")
	}

	email, _ = claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return "", "", errors.New("email claim missing")
	}

	return uid, strings.ToLower(strings.TrimSpace(email)), nil
}
