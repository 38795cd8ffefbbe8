package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"notesapi/internal/application"
	"notesapi/pkg/response"
	"notesapi/pkg/validation"
)

type NoteHandler struct {
	Svc    *application.NoteService
	Logger *logrus.Logger
}

func NewNoteHandler(svc *application.NoteService, logger *logrus.Logger) *NoteHandler {
	return &NoteHandler{Svc: svc, Logger: logger}
}

type createNoteRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1"`
}

type updateNoteRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content *string `json:"content" binding:"omitempty,min=1"`
}

// Create POST /notes
func (h *NoteHandler) Create(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}
	ownerID := c.GetString("userID")
	n, err := h.Svc.Create(c.Request.Context(), ownerID, req.Title, req.Content)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", ownerID).Error("note create failed")
		response.Error[any](c, storeFailureStatus(err), "failed to create note", nil)
		return
	}
	response.Success(c, http.StatusCreated, publicNote(n), "note created", nil)
}

// List GET /notes?q=&page=&limit=
func (h *NoteHandler) List(c *gin.Context) {
	ownerID := c.GetString("userID")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	q := c.Query("q")

	notes, page, limit, err := h.Svc.List(c.Request.Context(), ownerID, q, page, limit)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", ownerID).Error("note list failed")
		response.Error[any](c, storeFailureStatus(err), "failed to list notes", nil)
		return
	}
	response.Success(c, http.StatusOK, publicNotes(notes), "notes",
		gin.H{"page": page, "limit": limit, "count": len(notes)})
}

// Search GET /notes/search?q=&limit=
func (h *NoteHandler) Search(c *gin.Context) {
	ownerID := c.GetString("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	q := c.Query("q")

	hits, err := h.Svc.Search(c.Request.Context(), ownerID, q, limit)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", ownerID).Error("note search failed")
		response.Error[any](c, storeFailureStatus(err), "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// Get GET /notes/:id
func (h *NoteHandler) Get(c *gin.Context) {
	ownerID := c.GetString("userID")
	n, err := h.Svc.Get(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrNoteNotFound) {
			response.Error[any](c, http.StatusNotFound, "note not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", ownerID).Error("note get failed")
		response.Error[any](c, storeFailureStatus(err), "failed to load note", nil)
		return
	}
	response.Success(c, http.StatusOK, publicNote(n), "note", nil)
}

// Update PUT /notes/:id
func (h *NoteHandler) Update(c *gin.Context) {
	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", validation.ToDetails(err))
		return
	}
	ownerID := c.GetString("userID")
	n, err := h.Svc.Update(c.Request.Context(), ownerID, c.Param("id"),
		application.UpdateNoteInput{Title: req.Title, Content: req.Content})
	if err != nil {
		if errors.Is(err, application.ErrNoteNotFound) {
			response.Error[any](c, http.StatusNotFound, "note not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", ownerID).Error("note update failed")
		response.Error[any](c, storeFailureStatus(err), "failed to update note", nil)
		return
	}
	response.Success(c, http.StatusOK, publicNote(n), "note updated", nil)
}

// Delete DELETE /notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	ownerID := c.GetString("userID")
	if err := h.Svc.Delete(c.Request.Context(), ownerID, c.Param("id")); err != nil {
		if errors.Is(err, application.ErrNoteNotFound) {
			response.Error[any](c, http.StatusNotFound, "note not found", nil)
			return
		}
		h.Logger.WithError(err).WithField("user_id", ownerID).Error("note delete failed")
		response.Error[any](c, storeFailureStatus(err), "failed to delete note", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "note deleted", nil)
}

// Stats GET /notes/stats/summary
func (h *NoteHandler) Stats(c *gin.Context) {
	ownerID := c.GetString("userID")
	stats, err := h.Svc.Stats(c.Request.Context(), ownerID)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", ownerID).Error("note stats failed")
		response.Error[any](c, storeFailureStatus(err), "failed to load stats", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"total": stats.Total, "recent": stats.Recent}, "stats", nil)
}
