package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindmate-app/planner-api/internal/dto"
	appErrors "github.com/mindmate-app/planner-api/pkg/errors"
	"github.com/mindmate-app/planner-api/pkg/response"
)

type chatResponder interface {
	Reply(ctx context.Context, message string) dto.ChatResponse
}

// ChatHandler exposes the companion chat endpoint.
type ChatHandler struct {
	service chatResponder
}

// NewChatHandler constructs the handler.
func NewChatHandler(svc chatResponder) *ChatHandler {
	return &ChatHandler{service: svc}
}

// Reply godoc
// @Summary Send a chat message to the wellness companion
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body dto.ChatRequest true "Chat payload"
// @Success 200 {object} response.Envelope
// @Router /chat [post]
func (h *ChatHandler) Reply(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "message cannot be empty"))
		return
	}
	reply := h.service.Reply(c.Request.Context(), req.Message)
	response.JSON(c, http.StatusOK, reply, nil)
}
