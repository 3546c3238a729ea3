package handlers

import (
	"net/http"

	"github.com/audiojones/admin-api/internal/helpers"
	"github.com/audiojones/admin-api/internal/services"
	"github.com/gin-gonic/gin"
)

func DashboardStats(ds *services.DashboardService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := ds.GetStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(stats, ""))
	}
}
