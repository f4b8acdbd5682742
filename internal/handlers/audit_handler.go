package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/services"
)

// AuditHandler exposes the read-only audit trail to employees.
type AuditHandler struct {
	auditService services.AuditServicer
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService services.AuditServicer) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListByEntity retrieves one entity's mutation history
func (h *AuditHandler) ListByEntity(c *gin.Context) {
	entityName := c.Param("entity")
	entityID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.auditService.FindByEntity(entityName, entityID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// List retrieves audit records matching the query filters
func (h *AuditHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.AuditFilter{
		EntityName: c.Query("entity_name"),
		EntityID:   c.Query("entity_id"),
		Actor:      c.Query("actor"),
	}
	if operation := c.Query("operation"); operation != "" {
		value := models.OperationType(operation)
		filter.Operation = &value
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from timestamp"))
			return
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to timestamp"))
			return
		}
		filter.To = &parsed
	}

	result, err := h.auditService.FindByFilters(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
