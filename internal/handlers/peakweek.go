package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/peakform/peakform-backend/internal/logger"
	"github.com/peakform/peakform-backend/internal/services"
)

type PeakWeekHandler struct {
	log             *logger.Logger
	peakWeekService services.PeakWeekService
}

func NewPeakWeekHandler(log *logger.Logger, pwsvc services.PeakWeekService) *PeakWeekHandler {
	return &PeakWeekHandler{
		log:             log.With("handler", "PeakWeekHandler"),
		peakWeekService: pwsvc,
	}
}

type setContestDateRequest struct {
	ContestDate string `json:"contest_date"` // YYYY-MM-DD
}

// PUT /api/preps/:id/contest-date
func (h *PeakWeekHandler) SetContestDate(c *gin.Context) {
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_prep_id", err)
		return
	}
	var req setContestDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	contestDate, err := time.Parse("2006-01-02", req.ContestDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_contest_date", err)
		return
	}
	days, err := h.peakWeekService.SetContestDate(c.Request.Context(), nil, prepID, contestDate)
	if err != nil {
		RespondServiceError(c, "set_contest_date_failed", err)
		return
	}
	RespondOK(c, gin.H{"days": days})
}

// GET /api/preps/:id/peak-week
func (h *PeakWeekHandler) GetPeakWeek(c *gin.Context) {
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_prep_id", err)
		return
	}
	days, err := h.peakWeekService.Get(c.Request.Context(), nil, prepID)
	if err != nil {
		RespondServiceError(c, "load_peak_week_failed", err)
		return
	}
	RespondOK(c, gin.H{"days": days})
}

type observationRequest struct {
	Weight       *float64 `json:"weight,omitempty"`
	Energy       *int     `json:"energy,omitempty"`
	Fullness     *int     `json:"fullness,omitempty"`
	Vascularity  *int     `json:"vascularity,omitempty"`
	Conditioning *int     `json:"conditioning,omitempty"`
	Photos       []string `json:"photos,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	Completed    *bool    `json:"completed,omitempty"`
}

// PUT /api/preps/:id/peak-week/:day
func (h *PeakWeekHandler) RecordObservation(c *gin.Context) {
	prepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_prep_id", err)
		return
	}
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_day", err)
		return
	}
	var req observationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	row, err := h.peakWeekService.RecordObservation(c.Request.Context(), nil, prepID, day, services.RecordObservationInput{
		Weight:       req.Weight,
		Energy:       req.Energy,
		Fullness:     req.Fullness,
		Vascularity:  req.Vascularity,
		Conditioning: req.Conditioning,
		Photos:       req.Photos,
		Notes:        req.Notes,
		Completed:    req.Completed,
	})
	if err != nil {
		RespondServiceError(c, "record_observation_failed", err)
		return
	}
	RespondOK(c, gin.H{"day": row})
}
