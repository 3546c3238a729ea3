package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/audiojones/admin-api/internal/helpers"
	"github.com/audiojones/admin-api/internal/models"
	"github.com/audiojones/admin-api/internal/services"
	"github.com/gin-gonic/gin"
)

// WhopWebhook receives payment events from the commerce platform. The
// signature is verified over the raw body before any parsing; a verified
// request that resolves to nothing still returns 200 so the provider stops
// retrying. Only infrastructure failures return 500.
func WhopWebhook(ws *services.WebhookService, webhookSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("failed to read request body"))
			return
		}

		signature := c.GetHeader("X-Whop-Signature")
		if err := helpers.VerifyWebhookSignature(body, signature, webhookSecret); err != nil {
			c.JSON(http.StatusUnauthorized, helpers.ErrorResponse("invalid webhook signature"))
			return
		}

		var payload services.WhopPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("malformed webhook payload"))
			return
		}
		if err := models.Validate.Struct(&payload); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("webhook payload missing event type"))
			return
		}

		if err := ws.HandlePaymentEvent(c.Request.Context(), &payload); err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse("failed to process webhook"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
