package api

import (
	"net/http"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/avershin/flightledger/internal/service/auth"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service auth.AuthUseCase
}

type updatePreferencesRequest struct {
	Preferences string `json:"preferences"`
}

type profileResponse struct {
	Username    string               `json:"username"`
	Preferences string               `json:"preferences"`
	Bookings    []domain.FlightCount `json:"bookings_by_flight"`
	Coupons     []domain.CouponUsage `json:"coupon_usage"`
}

func NewProfileHandler(service auth.AuthUseCase) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.get)
	router.PUT("/preferences", h.updatePreferences)
	router.DELETE("/", h.deleteAccount)
}

func (h *ProfileHandler) get(c *gin.Context) {
	user, stats, err := h.service.Profile(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		Username:    user.Username,
		Preferences: user.Preferences,
		Bookings:    stats.Bookings,
		Coupons:     stats.Coupons,
	})
}

func (h *ProfileHandler) updatePreferences(c *gin.Context) {
	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdatePreferences(c.Request.Context(), currentUser(c), req.Preferences); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "preferences updated"})
}

func (h *ProfileHandler) deleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Request.Context(), currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
