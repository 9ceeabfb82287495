package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// Claims is the verified caller identity carried by API bearer tokens.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Middleware verifies bearer tokens against the configured secret and
// stores the caller identity on the request context. An empty secret
// disables enforcement; requests then carry no identity.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid bearer token"})
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// Identity returns the verified caller name, or nil when identity is
// not enforced.
func Identity(c *gin.Context) *string {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*Claims)
	if !ok || claims.Username == "" {
		return nil
	}
	return &claims.Username
}
