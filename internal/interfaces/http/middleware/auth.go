// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/pkg/auth"
)

// AuthMiddleware creates JWT authentication middleware for cashiers
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Store cashier information in context
		c.Set("cashier_id", claims.CashierID)
		c.Set("cashier_name", claims.CashierName)
		c.Set("cashier_email", claims.Email)
		c.Set("is_manager", claims.IsManager)
		c.Set("token_claims", claims)

		c.Next()
	}
}

// ManagerMiddleware ensures the cashier has manager rights
func ManagerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isManager, exists := c.Get("is_manager")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !isManager.(bool) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Manager access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetCashierIDFromContext extracts the cashier id from gin context
func GetCashierIDFromContext(c *gin.Context) (string, bool) {
	cashierID, exists := c.Get("cashier_id")
	if !exists {
		return "", false
	}
	return cashierID.(string), true
}

// GetCashierNameFromContext extracts the cashier name from gin context
func GetCashierNameFromContext(c *gin.Context) (string, bool) {
	name, exists := c.Get("cashier_name")
	if !exists {
		return "", false
	}
	return name.(string), true
}
