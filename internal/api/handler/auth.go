package handler

import (
	"errors"
	"hostelcare/portal/internal/config"
	"hostelcare/portal/internal/models"
	"hostelcare/portal/internal/storage"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	claimsKey = "claims"
	issuer    = "hostelcare-devserver"
)

// Claims identify the caller. Subject is the student or admin id.
type Claims struct {
	Role       models.Role `json:"role"`
	Name       string      `json:"name,omitempty"`
	RollNumber string      `json:"roll,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for the given identity.
func GenerateToken(secret []byte, subject string, role models.Role, name, roll string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:       role,
		Name:       name,
		RollNumber: roll,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates tokenString and returns its claims.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || (claims.Role != models.RoleAdmin && claims.Role != models.RoleStudent) {
		return nil, errors.New("token has no usable identity")
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	// browsers cannot set headers on websocket upgrades
	return c.Query("token")
}

// AuthRequired rejects requests without a valid bearer token.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization token missing"})
			return
		}
		claims, err := ParseToken(h.Secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token or expired"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after AuthRequired.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claimsFrom(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return &Claims{}
}

// recipient is the notification mailbox of the caller.
func recipient(claims *Claims) string {
	if claims.Role == models.RoleAdmin {
		return storage.AdminRecipient
	}
	return claims.Subject
}

// DevToken mints a token for local development:
// GET /auth/dev-token?role=student&sub=...&name=...&roll=...
func (h *Handler) DevToken(c *gin.Context) {
	role := models.Role(c.DefaultQuery("role", string(models.RoleStudent)))
	if role != models.RoleAdmin && role != models.RoleStudent {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "role must be admin or student"})
		return
	}
	sub := c.Query("sub")
	if sub == "" {
		sub = uuid.New().String()
	}

	token, err := GenerateToken(h.Secret, sub, role, c.Query("name"), c.Query("roll"), config.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"token": token, "sub": sub, "role": role}})
}
