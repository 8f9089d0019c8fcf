package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peakform/peakform-backend/internal/logger"
	"github.com/peakform/peakform-backend/internal/services"
	"github.com/peakform/peakform-backend/internal/types"
)

type ProtocolHandler struct {
	log              *logger.Logger
	protocolService  services.ProtocolService
	executionService services.ExecutionService
}

func NewProtocolHandler(log *logger.Logger, psvc services.ProtocolService, esvc services.ExecutionService) *ProtocolHandler {
	return &ProtocolHandler{
		log:              log.With("handler", "ProtocolHandler"),
		protocolService:  psvc,
		executionService: esvc,
	}
}

type createProtocolRequest struct {
	Type     types.ProtocolType `json:"type"`
	Schedule types.Schedule     `json:"schedule"`
}

// POST /api/preps/:id/protocols
func (h *ProtocolHandler) CreateProtocol(c *gin.Context) {
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_prep_id", err)
		return
	}
	var req createProtocolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	protocol, err := h.protocolService.Create(c.Request.Context(), nil, prepID, req.Type, req.Schedule)
	if err != nil {
		RespondServiceError(c, "create_protocol_failed", err)
		return
	}
	RespondOK(c, gin.H{"protocol": protocol})
}

// GET /api/preps/:id/protocols
func (h *ProtocolHandler) ListProtocols(c *gin.Context) {
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_prep_id", err)
		return
	}
	protocols, err := h.protocolService.ListForPrep(c.Request.Context(), nil, prepID)
	if err != nil {
		h.log.Error("ListProtocols failed", "error", err, "prep_id", prepID)
		RespondServiceError(c, "load_protocols_failed", err)
		return
	}
	RespondOK(c, gin.H{"protocols": protocols})
}

// GET /api/protocols/:id
func (h *ProtocolHandler) GetProtocol(c *gin.Context) {
	protocolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_protocol_id", err)
		return
	}
	protocol, err := h.protocolService.Get(c.Request.Context(), nil, protocolID)
	if err != nil {
		RespondServiceError(c, "load_protocol_failed", err)
		return
	}
	RespondOK(c, gin.H{"protocol": protocol})
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// PUT /api/protocols/:id/active
func (h *ProtocolHandler) SetActive(c *gin.Context) {
	protocolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_protocol_id", err)
		return
	}
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.protocolService.SetActive(c.Request.Context(), nil, protocolID, req.Active); err != nil {
		RespondServiceError(c, "set_active_failed", err)
		return
	}
	RespondOK(c, gin.H{"protocol_id": protocolID, "active": req.Active})
}

// DELETE /api/protocols/:id
func (h *ProtocolHandler) DeleteProtocol(c *gin.Context) {
	protocolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_protocol_id", err)
		return
	}
	if err := h.protocolService.Delete(c.Request.Context(), nil, protocolID); err != nil {
		RespondServiceError(c, "delete_protocol_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

type executeRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to today
}

// POST /api/protocols/:id/execute
func (h *ProtocolHandler) ExecuteProtocol(c *gin.Context) {
	protocolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_protocol_id", err)
		return
	}
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	date := time.Now().UTC()
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_date", err)
			return
		}
	}
	result, err := h.executionService.Execute(c.Request.Context(), protocolID, date)
	if err != nil {
		RespondServiceError(c, "execute_protocol_failed", err)
		return
	}
	RespondOK(c, result)
}
