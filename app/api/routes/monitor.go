package routes

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/happycrm/crm/pkg/constant"
	"github.com/happycrm/crm/pkg/domains/monitor"
	"github.com/happycrm/crm/pkg/middleware"
	"github.com/happycrm/crm/pkg/state"
)

func MonitorRoutes(r *gin.RouterGroup, s monitor.Service) {
	authGroup := r.Group("", middleware.CheckAuth())
	{
		authGroup.GET("/messages", messagesByLead(s))
		authGroup.GET("/webhook-logs", webhookLogs(s))
		authGroup.GET("/webhook-errors", webhookErrors(s))
		authGroup.GET("/notifications", notifications(s))
	}
}

func pageNumber(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		return 1
	}
	return page
}

func messagesByLead(s monitor.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		leadID, err := strconv.ParseUint(c.Query("lead_id"), 10, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": constant.INVALID_REQUEST})
			return
		}

		messages, totalPages, err := s.MessagesByLead(c, uint(leadID), pageNumber(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"messages":    messages,
			"total_pages": totalPages,
		})
	}
}

func webhookLogs(s monitor.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		logs, totalPages, err := s.WebhookLogs(c, pageNumber(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"logs":        logs,
			"total_pages": totalPages,
		})
	}
}

func webhookErrors(s monitor.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		webhookErrs, totalPages, err := s.WebhookErrors(c, pageNumber(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"errors":      webhookErrs,
			"total_pages": totalPages,
		})
	}
}

func notifications(s monitor.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		userID := state.CurrentUser(c)
		if userID == 0 {
			c.JSON(401, gin.H{"error": constant.UNAUTHORIZED_ACCESS})
			return
		}

		items, totalPages, err := s.Notifications(c, userID, pageNumber(c))
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"notifications": items,
			"total_pages":   totalPages,
		})
	}
}
