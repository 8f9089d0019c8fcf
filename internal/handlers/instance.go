package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peakform/peakform-backend/internal/logger"
	"github.com/peakform/peakform-backend/internal/repos"
	"github.com/peakform/peakform-backend/internal/services"
	"github.com/peakform/peakform-backend/internal/types"
)

type InstanceHandler struct {
	log             *logger.Logger
	instanceService services.InstanceService
}

func NewInstanceHandler(log *logger.Logger, isvc services.InstanceService) *InstanceHandler {
	return &InstanceHandler{
		log:             log.With("handler", "InstanceHandler"),
		instanceService: isvc,
	}
}

// GET /api/preps/:id/instances?category=&from=&to=
func (h *InstanceHandler) ListInstances(c *gin.Context) {
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_prep_id", err)
		return
	}

	var filter repos.InstanceFilter
	if raw := c.Query("category"); raw != "" {
		category := types.ProtocolType(raw)
		if err := category.Validate(); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_category", err)
			return
		}
		filter.Category = &category
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_from", err)
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_to", err)
			return
		}
		filter.To = &to
	}

	instances, err := h.instanceService.List(c.Request.Context(), nil, prepID, filter)
	if err != nil {
		h.log.Error("ListInstances failed", "error", err, "prep_id", prepID)
		RespondServiceError(c, "load_instances_failed", err)
		return
	}
	RespondOK(c, gin.H{"instances": instances})
}

type completeInstanceRequest struct {
	Completed bool    `json:"completed"`
	Notes     *string `json:"notes,omitempty"`
}

// PUT /api/instances/:id/completed
func (h *InstanceHandler) CompleteInstance(c *gin.Context) {
	instanceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_instance_id", err)
		return
	}
	var req completeInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	instance, err := h.instanceService.MarkCompleted(c.Request.Context(), nil, instanceID, req.Completed, req.Notes)
	if err != nil {
		RespondServiceError(c, "complete_instance_failed", err)
		return
	}
	RespondOK(c, gin.H{"instance": instance})
}
