package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"hotel-housekeeping/internal/models"
	"hotel-housekeeping/internal/repository"
)

// HousekeepersHandler Housekeeper Registry 的 HTTP 入口
type HousekeepersHandler struct {
	repo   repository.HousekeepersRepo
	logger *zap.Logger
}

func NewHousekeepersHandler(repo repository.HousekeepersRepo, logger *zap.Logger) *HousekeepersHandler {
	return &HousekeepersHandler{repo: repo, logger: logger}
}

func (h *HousekeepersHandler) GetByFloor(w http.ResponseWriter, r *http.Request, floorStr string) {
	floor, err := strconv.Atoi(floorStr)
	if err != nil || floor <= 0 {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid floor."))
		return
	}

	hk, err := h.repo.GetByFloor(r.Context(), floor)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail(http.StatusNotFound, "No housekeeper assigned for this floor."))
			return
		}
		h.logger.Error("Failed to get housekeeper", zap.Int("floor", floor), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error retrieving housekeeper."))
		return
	}
	writeJSON(w, http.StatusOK, Ok(http.StatusOK, hk))
}

type createHousekeeperRequest struct {
	Name  string `json:"name"`
	Floor int    `json:"floor"`
}

func (h *HousekeepersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createHousekeeperRequest
	if err := readBodyJSON(r, 1<<16, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid JSON body."))
		return
	}
	if body.Name == "" || body.Floor <= 0 {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Name and floor are required."))
		return
	}

	hk, err := h.repo.Create(r.Context(), body.Name, body.Floor)
	if err != nil {
		h.logger.Error("Failed to create housekeeper", zap.Int("floor", body.Floor), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error creating housekeeper."))
		return
	}
	writeJSON(w, http.StatusCreated, Ok(http.StatusCreated, hk))
}

func (h *HousekeepersHandler) List(w http.ResponseWriter, r *http.Request) {
	housekeepers, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list housekeepers", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error retrieving housekeepers."))
		return
	}
	if housekeepers == nil {
		housekeepers = []models.Housekeeper{}
	}
	writeJSON(w, http.StatusOK, Ok(http.StatusOK, map[string]any{"housekeepers": housekeepers}))
}
