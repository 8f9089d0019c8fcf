package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peakform/peakform-backend/internal/logger"
	"github.com/peakform/peakform-backend/internal/services"
)

type ComplianceHandler struct {
	log               *logger.Logger
	complianceService services.ComplianceService
}

func NewComplianceHandler(log *logger.Logger, csvc services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{
		log:               log.With("handler", "ComplianceHandler"),
		complianceService: csvc,
	}
}

// GET /api/preps/:id/compliance?from=&to=
// Defaults to the trailing 7 days when no window is given.
func (h *ComplianceHandler) GetCompliance(c *gin.Context) {
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_prep_id", err)
		return
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -6)
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_from", err)
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_to", err)
			return
		}
	}
	if to.Before(from) {
		RespondError(c, http.StatusBadRequest, "invalid_window", fmt.Errorf("to precedes from"))
		return
	}

	report, err := h.complianceService.Compute(c.Request.Context(), nil, prepID, from, to)
	if err != nil {
		h.log.Error("GetCompliance failed", "error", err, "prep_id", prepID)
		RespondServiceError(c, "compute_compliance_failed", err)
		return
	}
	RespondOK(c, report)
}
