package api

import (
	"net/http"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/avershin/flightledger/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type searchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.POST("/search", h.search)
	router.GET("/recommendations", h.recommendations)
}

func (h *FlightHandler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.service.Search(c.Request.Context(), currentUser(c), req.Origin, req.Destination, req.DepartureDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *FlightHandler) recommendations(c *gin.Context) {
	recs := h.service.Recommendations(c.Request.Context(), currentUser(c))
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	c.JSON(http.StatusOK, recs)
}
