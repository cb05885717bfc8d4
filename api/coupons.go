package api

import (
	"net/http"

	"github.com/avershin/flightledger/internal/service/ledger"
	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	service ledger.LedgerUseCase
}

type addCouponRequest struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

type couponResponse struct {
	ID       int64   `json:"id"`
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
}

func NewCouponHandler(service ledger.LedgerUseCase) *CouponHandler {
	return &CouponHandler{service: service}
}

func (h *CouponHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.add)
	router.GET("/", h.list)
}

func (h *CouponHandler) add(c *gin.Context) {
	var req addCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon, err := h.service.AddCoupon(c.Request.Context(), currentUser(c), req.Code, req.Discount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, couponResponse{ID: coupon.ID, Code: coupon.Code, Discount: coupon.Discount})
}

func (h *CouponHandler) list(c *gin.Context) {
	coupons, err := h.service.ListCoupons(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]couponResponse, 0, len(coupons))
	for _, coupon := range coupons {
		out = append(out, couponResponse{ID: coupon.ID, Code: coupon.Code, Discount: coupon.Discount})
	}
	c.JSON(http.StatusOK, out)
}
