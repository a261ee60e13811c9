package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/happycrm/crm/pkg/constant"
	"github.com/happycrm/crm/pkg/domains/auth"
	"github.com/happycrm/crm/pkg/dtos"
)

func AuthRoutes(r *gin.RouterGroup, s auth.Service) {
	r.POST("/register", register(s))
	r.POST("/login", login(s))
}

func register(s auth.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.DTOForOperatorCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}

		token, err := s.Register(c, req)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		c.JSON(201, gin.H{
			"message": fmt.Sprintf(constant.CREATED, "Operator"),
			"token":   token,
		})
	}
}

func login(s auth.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.DTOForOperatorLogin
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}

		token, err := s.Login(c, req)
		if err != nil {
			// Same response for unknown email and wrong password
			c.JSON(401, gin.H{"error": constant.UNAUTHORIZED_ACCESS})
			return
		}

		c.JSON(200, gin.H{"token": token})
	}
}
