package handler

import (
	"net/http"

	"ai-coder/services/coder-service/internal/application"
	"ai-coder/services/coder-service/internal/application/dto"

	"github.com/gin-gonic/gin"
)

type CodeHandler struct {
	code *application.CodeService
}

func NewCodeHandler(code *application.CodeService) *CodeHandler {
	return &CodeHandler{code: code}
}

func (h *CodeHandler) Run(c *gin.Context) {
	var req dto.CodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.code.Run(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CodeHandler) Format(c *gin.Context) {
	var req dto.CodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.code.Format(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
