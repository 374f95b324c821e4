package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"ai-coder/services/coder-service/internal/application"
	"ai-coder/services/coder-service/internal/application/dto"
	"ai-coder/services/coder-service/internal/export"
	"ai-coder/services/coder-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessions *application.SessionService
}

func NewSessionHandler(sessions *application.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Workspace(c *gin.Context) {
	resp, err := h.sessions.Workspace(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.sessions.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SessionHandler) List(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.sessions.List(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) Get(c *gin.Context) {
	resp, err := h.sessions.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) Update(c *gin.Context) {
	var req dto.UpdateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.sessions.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export renders the session with ?format=json|yaml|markdown as an attachment.
func (h *SessionHandler) Export(c *gin.Context) {
	exporter, err := export.NewExporter(c.DefaultQuery("format", "json"))
	if err != nil {
		respondError(c, err)
		return
	}
	session, err := h.sessions.Load(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(export.NewDocument(session), &buf); err != nil {
		respondError(c, fmt.Errorf("export session: %w", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="session-%s.%s"`, session.ID, exporter.Extension()))
	c.Data(http.StatusOK, exporter.ContentType(), buf.Bytes())
}
