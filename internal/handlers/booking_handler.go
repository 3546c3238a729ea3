package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/audiojones/admin-api/internal/helpers"
	"github.com/audiojones/admin-api/internal/models"
	"github.com/audiojones/admin-api/internal/services"
	"github.com/gin-gonic/gin"
)

func ListBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Empty on the cross-tenant overview route
		filter := models.BookingFilter{
			TenantID: c.Param("tenantId"),
		}

		if status := c.Query("status"); status != "" {
			parsed, err := models.ParseBookingStatus(status)
			if err != nil {
				c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
				return
			}
			filter.Status = parsed
		}

		if limitStr := c.Query("limit"); limitStr != "" {
			limit, err := strconv.ParseInt(limitStr, 10, 64)
			if err != nil || limit < 0 {
				c.JSON(http.StatusBadRequest, helpers.ErrorResponse("limit must be a non-negative integer"))
				return
			}
			filter.Limit = limit
		}

		bookings, err := bs.ListBookings(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.ListResponse(bookings, int(filter.Limit), len(bookings)))
	}
}

func GetBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("bookingId")
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("booking ID is required"))
			return
		}

		booking, err := bs.GetBooking(c.Request.Context(), c.Param("tenantId"), id)
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, helpers.ErrorResponse("booking not found"))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(booking, ""))
	}
}

// UpdateBookingStatus is the single admin-side write path for booking state.
// Illegal transitions return 400 with the allowed set; a write lost to a
// concurrent update returns 409 so the client re-reads and retries.
func UpdateBookingStatus(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("bookingId")
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("booking ID is required"))
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
			Note   string `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		newStatus, err := models.ParseBookingStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		claims := currentClaims(c)
		adminID := ""
		if claims != nil {
			adminID = claims.UserID
		}

		booking, err := bs.UpdateStatus(c.Request.Context(), c.Param("tenantId"), id, newStatus, req.Note, adminID)
		if err != nil {
			var illegal *models.IllegalTransitionError
			switch {
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, helpers.ErrorResponse("booking not found"))
			case errors.As(err, &illegal):
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   illegal.Error(),
					"allowed": illegal.Allowed,
				})
			case errors.Is(err, models.ErrVersionConflict):
				c.JSON(http.StatusConflict, helpers.ErrorResponse("booking was modified concurrently, re-read and retry"))
			default:
				c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(err.Error()))
			}
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(booking, "booking status updated"))
	}
}

func currentClaims(c *gin.Context) *helpers.EnhancedClaims {
	value, exists := c.Get("user")
	if !exists {
		return nil
	}
	claims, ok := value.(*helpers.EnhancedClaims)
	if !ok {
		return nil
	}
	return claims
}
