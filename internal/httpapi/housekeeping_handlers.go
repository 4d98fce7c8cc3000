package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"hotel-housekeeping/internal/service"
)

// CleaningOrchestrator 编排器接口（便于替身测试）
type CleaningOrchestrator interface {
	AssignCleaning(ctx context.Context, roomID string, floor *int) (*service.Assignment, error)
	CancelCleaning(ctx context.Context, cycleID string) (int, error)
}

// HousekeepingHandler 编排器的 HTTP 入口
type HousekeepingHandler struct {
	orch   CleaningOrchestrator
	logger *zap.Logger
}

func NewHousekeepingHandler(orch CleaningOrchestrator, logger *zap.Logger) *HousekeepingHandler {
	return &HousekeepingHandler{orch: orch, logger: logger}
}

type assignRequest struct {
	RoomID string `json:"room_id"`
	Floor  *int   `json:"floor,omitempty"`
}

func (h *HousekeepingHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var body assignRequest
	if err := readBodyJSON(r, 1<<16, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid JSON body."))
		return
	}

	result, err := h.orch.AssignCleaning(r.Context(), body.RoomID, body.Floor)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, OkMessage(
		http.StatusCreated,
		fmt.Sprintf("Room %s marked for cleaning and assigned to housekeeper %s", result.RoomID, result.HousekeeperID),
		result,
	))
}

func (h *HousekeepingHandler) Cancel(w http.ResponseWriter, r *http.Request, cycleID string) {
	cancelled, err := h.orch.CancelCleaning(r.Context(), cycleID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(http.StatusOK, map[string]any{
		"cycle_id":  cycleID,
		"cancelled": cancelled,
	}))
}

// writeError 错误分类到 HTTP 状态的映射
func (h *HousekeepingHandler) writeError(w http.ResponseWriter, err error) {
	var (
		vErr   *service.ValidationError
		nfErr  *service.NotFoundError
		cErr   *service.ConflictError
		depErr *service.DependencyError
	)
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, vErr.Error()))
	case errors.As(err, &nfErr):
		writeJSON(w, http.StatusNotFound, Fail(http.StatusNotFound, nfErr.Error()))
	case errors.As(err, &cErr):
		writeJSON(w, http.StatusConflict, Fail(http.StatusConflict, cErr.Error()))
	case errors.As(err, &depErr):
		h.logger.Error("Housekeeping dependency failure", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, depErr.Error()))
	default:
		h.logger.Error("Unexpected housekeeping failure", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Unexpected error during housekeeping."))
	}
}
