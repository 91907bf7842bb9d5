package handler

import (
	activityapp "github.com/foresy/backend/internal/application/activity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EntryHandler handles activity entry endpoints
type EntryHandler struct {
	BaseHandler
	entryService *activityapp.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService *activityapp.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// Create adds an entry to a report
func (h *EntryHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	var req activityapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.entryService.Create(c.Request.Context(), reportID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// Update changes an entry's fields
func (h *EntryHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	var req activityapp.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.entryService.Update(c.Request.Context(), entryID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Destroy soft deletes an entry
func (h *EntryHandler) Destroy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	result, err := h.entryService.Destroy(c.Request.Context(), entryID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// List returns a report's active entries
func (h *EntryHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	var req activityapp.ListEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.entryService.List(c.Request.Context(), reportID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
