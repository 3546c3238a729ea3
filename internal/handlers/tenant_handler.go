package handlers

import (
	"errors"
	"net/http"

	"github.com/audiojones/admin-api/internal/helpers"
	"github.com/audiojones/admin-api/internal/models"
	"github.com/audiojones/admin-api/internal/services"
	"github.com/gin-gonic/gin"
)

func ListTenants(ts *services.TenantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenants, err := ts.ListTenants(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.ListResponse(tenants, 0, len(tenants)))
	}
}

func GetTenant(ts *services.TenantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("tenantId")
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("tenant ID is required"))
			return
		}

		tenant, err := ts.GetTenant(c.Request.Context(), id)
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("tenant not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(tenant, ""))
	}
}

func UpdateTenant(ts *services.TenantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("tenantId")
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("tenant ID is required"))
			return
		}

		var input services.TenantUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		claims := currentClaims(c)
		adminID := ""
		if claims != nil {
			adminID = claims.UserID
		}

		tenant, err := ts.UpdateTenant(c.Request.Context(), id, input, adminID)
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("tenant not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(tenant, "tenant updated"))
	}
}
