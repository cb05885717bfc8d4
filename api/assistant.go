package api

import (
	"net/http"

	"github.com/avershin/flightledger/internal/service/assistant"
	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	service assistant.AssistantUseCase
}

type chatRequest struct {
	Message string `json:"message"`
}

func NewAssistantHandler(service assistant.AssistantUseCase) *AssistantHandler {
	return &AssistantHandler{service: service}
}

func (h *AssistantHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.chat)
}

func (h *AssistantHandler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.service.Reply(c.Request.Context(), currentUser(c), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}
