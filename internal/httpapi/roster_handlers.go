package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"hotel-housekeeping/internal/models"
	"hotel-housekeeping/internal/repository"
)

// RosterHandler Roster Ledger 的 HTTP 入口
type RosterHandler struct {
	repo   repository.RosterRepo
	logger *zap.Logger
}

func NewRosterHandler(repo repository.RosterRepo, logger *zap.Logger) *RosterHandler {
	return &RosterHandler{repo: repo, logger: logger}
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

func (h *RosterHandler) ByDate(w http.ResponseWriter, r *http.Request, date string) {
	if !validDate(date) {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD."))
		return
	}

	entries, err := h.repo.EntriesFor(r.Context(), date)
	if err != nil {
		h.logger.Error("Failed to query roster", zap.String("date", date), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error retrieving roster."))
		return
	}
	if len(entries) == 0 {
		writeJSON(w, http.StatusNotFound, Fail(http.StatusNotFound, "No roster found for the provided date."))
		return
	}
	writeJSON(w, http.StatusOK, Ok(http.StatusOK, map[string]any{
		"date":   date,
		"roster": entries,
	}))
}

func (h *RosterHandler) Add(w http.ResponseWriter, r *http.Request) {
	var entry models.RosterEntry
	if err := readBodyJSON(r, 1<<16, &entry); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid JSON body."))
		return
	}
	if entry.RoomID == "" || entry.HousekeeperID == "" || entry.Floor <= 0 || !validDate(entry.Date) {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "date, floor, room_id and housekeeper_id are required."))
		return
	}
	entry.Completed = false

	alreadyExists, err := h.repo.Insert(r.Context(), entry)
	if err != nil {
		h.logger.Error("Failed to insert roster entry",
			zap.String("date", entry.Date),
			zap.String("room_id", entry.RoomID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error creating roster entry."))
		return
	}

	// 主键已存在：幂等成功而不是报错
	if alreadyExists {
		writeJSON(w, http.StatusOK, OkMessage(http.StatusOK, "Roster entry already exists.", map[string]any{
			"already_exists": true,
		}))
		return
	}
	writeJSON(w, http.StatusCreated, OkMessage(http.StatusCreated, "Roster entry created successfully.", map[string]any{
		"already_exists": false,
		"entry":          entry,
	}))
}

type setCompletedRequest struct {
	Completed *bool `json:"completed"`
}

func (h *RosterHandler) SetCompleted(w http.ResponseWriter, r *http.Request, date, roomID string) {
	if !validDate(date) {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD."))
		return
	}
	var body setCompletedRequest
	if err := readBodyJSON(r, 1<<16, &body); err != nil || body.Completed == nil {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "completed is required."))
		return
	}

	if err := h.repo.SetCompleted(r.Context(), date, roomID, *body.Completed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail(http.StatusNotFound, "Roster entry not found."))
			return
		}
		h.logger.Error("Failed to update roster entry",
			zap.String("date", date),
			zap.String("room_id", roomID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error updating roster entry."))
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(http.StatusOK, "Roster entry updated successfully.", nil))
}

func (h *RosterHandler) Delete(w http.ResponseWriter, r *http.Request, date, roomID string) {
	if !validDate(date) {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD."))
		return
	}

	if err := h.repo.Delete(r.Context(), date, roomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail(http.StatusNotFound, "Roster entry not found."))
			return
		}
		h.logger.Error("Failed to delete roster entry",
			zap.String("date", date),
			zap.String("room_id", roomID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error deleting roster entry."))
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(http.StatusOK, "Roster entry deleted successfully.", nil))
}

// Export 导出某天排班为 xlsx
func (h *RosterHandler) Export(w http.ResponseWriter, r *http.Request, date string) {
	if !validDate(date) {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD."))
		return
	}

	entries, err := h.repo.EntriesFor(r.Context(), date)
	if err != nil {
		h.logger.Error("Failed to query roster for export", zap.String("date", date), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error retrieving roster."))
		return
	}

	data, err := GenerateRosterExport(date, entries)
	if err != nil {
		h.logger.Error("Failed to generate roster export", zap.String("date", date), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error generating export."))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="roster-%s.xlsx"`, date))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
