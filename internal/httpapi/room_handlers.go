package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"hotel-housekeeping/internal/models"
	"hotel-housekeeping/internal/repository"
)

// RoomsHandler Room Registry 的 HTTP 入口
type RoomsHandler struct {
	repo   repository.RoomsRepo
	logger *zap.Logger
}

func NewRoomsHandler(repo repository.RoomsRepo, logger *zap.Logger) *RoomsHandler {
	return &RoomsHandler{repo: repo, logger: logger}
}

func (h *RoomsHandler) Get(w http.ResponseWriter, r *http.Request, roomID string) {
	room, err := h.repo.GetRoom(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Fail(http.StatusNotFound, "Room not found."))
			return
		}
		h.logger.Error("Failed to get room", zap.String("room_id", roomID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error retrieving room."))
		return
	}
	writeJSON(w, http.StatusOK, Ok(http.StatusOK, room))
}

func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.repo.ListRooms(r.Context())
	if err != nil {
		h.logger.Error("Failed to list rooms", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error retrieving rooms."))
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	writeJSON(w, http.StatusOK, Ok(http.StatusOK, map[string]any{"rooms": rooms}))
}

type createRoomRequest struct {
	RoomID   string `json:"room_id"`
	Floor    int    `json:"floor"`
	RoomType string `json:"room_type"`
}

func (h *RoomsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createRoomRequest
	if err := readBodyJSON(r, 1<<16, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid JSON body."))
		return
	}
	if body.RoomID == "" || body.Floor <= 0 {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "room_id and floor are required."))
		return
	}

	room := models.Room{
		RoomID:   body.RoomID,
		Floor:    body.Floor,
		RoomType: body.RoomType,
		Status:   models.StatusVacant,
	}
	if err := h.repo.CreateRoom(r.Context(), room); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeJSON(w, http.StatusConflict, Fail(http.StatusConflict, "Room already exists."))
			return
		}
		h.logger.Error("Failed to create room", zap.String("room_id", body.RoomID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error creating room."))
		return
	}
	writeJSON(w, http.StatusCreated, Ok(http.StatusCreated, room))
}

type updateStatusRequest struct {
	Status          string `json:"status"`
	ExpectedVersion *int64 `json:"expected_version"`
}

func (h *RoomsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, roomID string) {
	var body updateStatusRequest
	if err := readBodyJSON(r, 1<<16, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid JSON body."))
		return
	}
	if !models.IsValidStatus(body.Status) {
		writeJSON(w, http.StatusBadRequest, Fail(http.StatusBadRequest, "Invalid or missing status."))
		return
	}

	room, err := h.repo.UpdateStatus(r.Context(), roomID, body.Status, body.ExpectedVersion)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeJSON(w, http.StatusNotFound, Fail(http.StatusNotFound, "Room not found."))
		case errors.Is(err, repository.ErrVersionConflict):
			writeJSON(w, http.StatusConflict, Fail(http.StatusConflict, "status version conflict"))
		default:
			h.logger.Error("Failed to update room status",
				zap.String("room_id", roomID),
				zap.String("status", body.Status),
				zap.Error(err),
			)
			writeJSON(w, http.StatusInternalServerError, Fail(http.StatusInternalServerError, "Error updating room status."))
		}
		return
	}
	writeJSON(w, http.StatusOK, OkMessage(http.StatusOK, "Room status updated successfully.", room))
}
