package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"sampatti/internal/config"
	"sampatti/internal/models"
	"sampatti/internal/services"
)

// Token types carried in the token_type claim. Nominee tokens are scoped to
// emergency reads and are never accepted on user routes (and vice versa).
const (
	TokenTypeUser    = "user"
	TokenTypeNominee = "nominee"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID      string `json:"user_id,omitempty"`
	NomineeID   string `json:"nominee_id,omitempty"`
	AccessLevel string `json:"access_level,omitempty"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateUserToken generates a signed bearer token for a user. Lifetime
// comes from configuration (default 24h). Validity is purely a function of
// signature and expiry; there is no server-side revocation.
func GenerateUserToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:    user.ID,
		TokenType: TokenTypeUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Get().UserTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "sampatti-api",
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// GenerateNomineeToken generates a short-lived token scoped to emergency
// reads. The subject is the nominee, not the owner, so the token cannot be
// escalated to general account access.
func GenerateNomineeToken(nominee *models.Nominee) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		NomineeID:   nominee.ID,
		AccessLevel: nominee.AccessLevel,
		TokenType:   TokenTypeNominee,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Get().NomineeTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "sampatti-api",
			Subject:   nominee.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// parseToken validates a token string and returns its claims.
func parseToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware verifies the user JWT and sets the user in the context.
// On every authenticated request the user's active status is re-checked and
// the last-activity timestamp is touched; a valid token for a non-active
// account is rejected.
func AuthMiddleware(users services.UserServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Authorization header is required"}})
			return
		}

		claims, err := parseToken(tokenString)
		if err != nil || claims.TokenType != TokenTypeUser {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Invalid or expired token"}})
			return
		}

		user, err := users.GetUserByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Invalid or expired token"}})
			return
		}

		if user.Status != models.StatusActive {
			c.AbortWithStatusJSON(http.StatusForbidden,
				gin.H{"error": gin.H{"code": "ACCOUNT_INACTIVE", "message": "Account is not active"}})
			return
		}

		users.TouchActivity(user.ID)

		c.Set("userID", user.ID)
		c.Set("email", user.Email)
		c.Set("role", user.Role)
		c.Next()
	}
}

// NomineeAuthMiddleware verifies a nominee emergency token and sets the
// nominee identity and access level in the context.
func NomineeAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Authorization header is required"}})
			return
		}

		claims, err := parseToken(tokenString)
		if err != nil || claims.TokenType != TokenTypeNominee {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "Invalid or expired token"}})
			return
		}

		c.Set("nomineeID", claims.NomineeID)
		c.Set("accessLevel", claims.AccessLevel)
		c.Next()
	}
}
