package handler

import (
	"net/http"

	"github.com/stridelab/metronome/internal/service"
)

type ConvertHandler struct{}

func NewConvertHandler() *ConvertHandler {
	return &ConvertHandler{}
}

type bpmRequest struct {
	PaceValue       float64 `json:"pace_value"`
	PaceUnit        string  `json:"pace_unit"`
	RunType         string  `json:"run_type"`
	BaselineCadence *int    `json:"baseline_cadence"`
	TargetCadence   *int    `json:"target_cadence"`
}

func (h *ConvertHandler) PaceToBPM(w http.ResponseWriter, r *http.Request) {
	req := bpmRequest{
		PaceUnit: "min_per_km",
		RunType:  "easy",
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.PaceValue <= 0 {
		respondError(w, http.StatusBadRequest, "pace_value must be greater than zero")
		return
	}
	if req.PaceUnit == "" {
		req.PaceUnit = "min_per_km"
	}
	if req.RunType == "" {
		req.RunType = "easy"
	}

	bpm := service.PaceToBPM(req.PaceValue, req.PaceUnit, req.RunType, req.BaselineCadence, req.TargetCadence)
	respondJSON(w, http.StatusOK, map[string]int{"bpm": bpm})
}
