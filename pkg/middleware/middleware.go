package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/happycrm/crm/pkg/constant"
	"github.com/happycrm/crm/pkg/state"
)

func ClaimIp() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("CurrentIP", c.ClientIP())
		c.Set(state.CurrentUserIP, c.ClientIP())
		c.Next()
	}
}

// CheckAuth validates the Bearer token and claims the operator id into the
// request context for the monitor handlers.
func CheckAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID, err := parseBearer(c.GetHeader("Authorization"))
		if err != "" {
			c.JSON(401, gin.H{"error": err})
			c.Abort()
			return
		}

		c.Set(state.CurrentUserId, operatorID)
		c.Next()
	}
}

func parseBearer(authHeader string) (uint, string) {
	if authHeader == "" {
		return 0, "Token is required"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "Invalid/Malformed auth token"
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("SECRET")), nil
	})
	if err != nil || !token.Valid {
		return 0, constant.UNAUTHORIZED_ACCESS
	}

	if exp, ok := claims["exp"].(float64); !ok || float64(time.Now().Unix()) > exp {
		return 0, "Token expired"
	}

	operatorID, ok := claims["id"].(float64)
	if !ok {
		return 0, constant.UNAUTHORIZED_ACCESS
	}
	return uint(operatorID), ""
}
