package handlers

import (
	"errors"
	"net/http"

	"github.com/audiojones/admin-api/internal/helpers"
	"github.com/audiojones/admin-api/internal/models"
	"github.com/audiojones/admin-api/internal/services"
	"github.com/gin-gonic/gin"
)

func ListServices(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := cs.ListServices(c.Request.Context(), c.Param("tenantId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.ListResponse(items, 0, len(items)))
	}
}

func GetService(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("serviceId")
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("service ID is required"))
			return
		}

		service, err := cs.GetService(c.Request.Context(), id)
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("service not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(service, ""))
	}
}

func UpdateService(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("serviceId")
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("service ID is required"))
			return
		}

		var input services.ServiceUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		claims := currentClaims(c)
		adminID := ""
		if claims != nil {
			adminID = claims.UserID
		}

		service, err := cs.UpdateService(c.Request.Context(), id, input, adminID)
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("service not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(service, "service updated"))
	}
}

// SyncService refreshes a service's pricing from its linked commerce product.
func SyncService(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("serviceId")
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("service ID is required"))
			return
		}

		claims := currentClaims(c)
		adminID := ""
		if claims != nil {
			adminID = claims.UserID
		}

		service, err := cs.SyncWhopProduct(c.Request.Context(), id, adminID)
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("service not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(service, "service synced"))
	}
}
