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

type PrepHandler struct {
	log         *logger.Logger
	prepService services.ContestPrepService
}

func NewPrepHandler(log *logger.Logger, prepService services.ContestPrepService) *PrepHandler {
	return &PrepHandler{
		log:         log.With("handler", "PrepHandler"),
		prepService: prepService,
	}
}

type createPrepRequest struct {
	Name        string                  `json:"name"`
	ContestDate *string                 `json:"contest_date,omitempty"` // YYYY-MM-DD
	MacroPlan   *types.MacroPlan        `json:"macro_plan,omitempty"`
	Supplements []types.SupplementEntry `json:"supplements,omitempty"`
	CardioPlan  *types.CardioPlan       `json:"cardio_plan,omitempty"`
}

// POST /api/preps
func (h *PrepHandler) CreatePrep(c *gin.Context) {
	var req createPrepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	input := services.CreatePrepInput{
		Name:        req.Name,
		MacroPlan:   req.MacroPlan,
		Supplements: req.Supplements,
		CardioPlan:  req.CardioPlan,
	}
	if req.ContestDate != nil {
		d, err := time.Parse("2006-01-02", *req.ContestDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_contest_date", err)
			return
		}
		input.ContestDate = &d
	}
	prep, err := h.prepService.Create(c.Request.Context(), nil, input)
	if err != nil {
		RespondServiceError(c, "create_prep_failed", err)
		return
	}
	RespondOK(c, gin.H{"prep": prep})
}

// GET /api/preps
func (h *PrepHandler) ListPreps(c *gin.Context) {
	preps, err := h.prepService.List(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListPreps failed", "error", err)
		RespondServiceError(c, "load_preps_failed", err)
		return
	}
	RespondOK(c, gin.H{"preps": preps})
}

// GET /api/preps/:id
func (h *PrepHandler) GetPrep(c *gin.Context) {
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_prep_id", err)
		return
	}
	prep, err := h.prepService.Get(c.Request.Context(), nil, prepID)
	if err != nil {
		RespondServiceError(c, "load_prep_failed", err)
		return
	}
	RespondOK(c, gin.H{"prep": prep})
}

type updatePlansRequest struct {
	MacroPlan   *types.MacroPlan        `json:"macro_plan,omitempty"`
	Supplements []types.SupplementEntry `json:"supplements,omitempty"`
	CardioPlan  *types.CardioPlan       `json:"cardio_plan,omitempty"`
}

// PUT /api/preps/:id/plans
func (h *PrepHandler) UpdatePlans(c *gin.Context) {
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_prep_id", err)
		return
	}
	var req updatePlansRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	prep, err := h.prepService.UpdatePlans(c.Request.Context(), nil, prepID, services.UpdatePlansInput{
		MacroPlan:   req.MacroPlan,
		Supplements: req.Supplements,
		CardioPlan:  req.CardioPlan,
	})
	if err != nil {
		RespondServiceError(c, "update_plans_failed", err)
		return
	}
	RespondOK(c, gin.H{"prep": prep})
}
