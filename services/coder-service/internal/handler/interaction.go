package handler

import (
	"net/http"

	"ai-coder/services/coder-service/internal/application"
	"ai-coder/services/coder-service/internal/application/dto"
	"ai-coder/services/coder-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type InteractionHandler struct {
	interactions *application.InteractionService
}

func NewInteractionHandler(interactions *application.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

func (h *InteractionHandler) Create(c *gin.Context) {
	var req dto.CreateInteractionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.interactions.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List accepts an optional ?session_id= filter.
func (h *InteractionHandler) List(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.interactions.List(c.Request.Context(), middleware.UserID(c), c.Query("session_id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InteractionHandler) Get(c *gin.Context) {
	resp, err := h.interactions.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InteractionHandler) Delete(c *gin.Context) {
	if err := h.interactions.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
