package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"routebook/internal/utils"
	"routebook/pkg/logger"
)

const (
	ContextUserID = "user_id"

	// accessTokenParam carries the token for browser websocket handshakes,
	// which cannot set an Authorization header.
	accessTokenParam = "access_token"
)

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// AuthRequired validates an HMAC-signed JWT and sets the owner id on the
// gin context and on the request context.
func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token required")
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}))
		if err != nil || !token.Valid {
			utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_TOKEN", utils.ErrInvalidToken)
			return
		}

		if strings.TrimSpace(claims.UserID) == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token has no user id")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID))

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query(accessTokenParam)
		return token, token != ""
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return "", false
	}
	return tokenString, true
}

// OwnerID returns the authenticated user id, or "" outside AuthRequired.
func OwnerID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// IssueToken signs a token for userID. Used by tooling and tests.
func IssueToken(secret, userID string, claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{UserID: userID, RegisteredClaims: claims})
	return token.SignedString([]byte(secret))
}
