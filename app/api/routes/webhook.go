package routes

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/happycrm/crm/pkg/constant"
	"github.com/happycrm/crm/pkg/domains/webhook"
	"github.com/happycrm/crm/pkg/dtos"
)

// maxWebhookBody caps delivery payloads at 1 MB; Meta batches up to 1000
// updates per notification, well under this.
const maxWebhookBody = 1 << 20

// requestDeadline keeps the whole pipeline inside Meta's ack window.
const requestDeadline = 5 * time.Second

func WebhookRoutes(r *gin.RouterGroup, s webhook.Service, verifier *webhook.SignatureVerifier) {
	r.GET("/whatsapp", verify(s))
	r.POST("/whatsapp", receive(s, verifier))
}

func verify(s webhook.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		mode := c.Query("hub.mode")
		token := c.Query("hub.verify_token")
		challenge := c.Query("hub.challenge")

		echo, ok := s.VerifyHandshake(mode, token, challenge)
		if !ok {
			c.String(403, "Forbidden")
			return
		}

		c.String(200, echo)
	}
}

func receive(s webhook.Service, verifier *webhook.SignatureVerifier) func(c *gin.Context) {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.JSON(400, gin.H{"error": constant.INVALID_PAYLOAD})
			return
		}

		if _, ok := verifier.Authorize(body, c.GetHeader(webhook.SignatureHeader)); !ok {
			c.JSON(401, gin.H{"error": constant.INVALID_SIGNATURE})
			return
		}

		var payload dtos.WebhookPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			c.JSON(400, gin.H{"error": constant.INVALID_PAYLOAD})
			return
		}

		// Internal failures must not leak into the response code: Meta
		// retries anything that is not a 200.
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestDeadline)
		defer cancel()
		s.ProcessPayload(ctx, payload, body, c.ClientIP())

		c.String(200, constant.WEBHOOK_ACK)
	}
}
