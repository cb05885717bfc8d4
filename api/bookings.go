package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avershin/flightledger/internal/domain"
	"github.com/avershin/flightledger/internal/service/ledger"
	"github.com/avershin/flightledger/internal/service/status"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	ledger ledger.LedgerUseCase
	status status.StatusUseCase
}

type createBookingRequest struct {
	FlightID string `json:"flight_id"`
}

type bookingResponse struct {
	ID            int64   `json:"id"`
	Reference     string  `json:"reference"`
	FlightID      string  `json:"flight_id"`
	Price         float64 `json:"price"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flight_number"`
	Cancelled     bool    `json:"cancelled"`
	CreatedAt     string  `json:"created_at"`
}

type trackedBookingResponse struct {
	bookingResponse
	LiveStatus string `json:"live_status"`
}

const noLiveData = "no live data"

func NewBookingHandler(ledgerSvc ledger.LedgerUseCase, statusSvc status.StatusUseCase) *BookingHandler {
	return &BookingHandler{ledger: ledgerSvc, status: statusSvc}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/savings", h.savings)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.ledger.CreateBooking(c.Request.Context(), currentUser(c), req.FlightID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) list(c *gin.Context) {
	tracked, err := h.status.WithLive(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]trackedBookingResponse, 0, len(tracked))
	for _, t := range tracked {
		item := trackedBookingResponse{bookingResponse: toBookingResponse(&t.Booking), LiveStatus: noLiveData}
		if t.Live != nil {
			item.LiveStatus = t.Live.Status
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.ledger.GetBooking(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.ledger.CancelBooking(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

func (h *BookingHandler) savings(c *gin.Context) {
	savings, err := h.ledger.ComputeSavings(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"savings": savings})
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		Reference:     b.Reference,
		FlightID:      b.FlightID,
		Price:         b.Price,
		Origin:        b.Origin,
		Destination:   b.Destination,
		DepartureTime: b.DepartureTime,
		ArrivalTime:   b.ArrivalTime,
		Airline:       b.Airline,
		FlightNumber:  b.FlightNumber,
		Cancelled:     b.Cancelled,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}
