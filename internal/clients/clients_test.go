package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotel-housekeeping/internal/models"
)

func envelopeHandler(t *testing.T, status int, env Envelope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(env))
	}
}

func TestRoomClient_GetRoom(t *testing.T) {
	room := models.Room{RoomID: "501", Floor: 5, Status: models.StatusVacant, StatusVersion: 2}
	data, _ := json.Marshal(room)

	srv := httptest.NewServer(envelopeHandler(t, http.StatusOK, Envelope{Code: 200, Data: data}))
	defer srv.Close()

	c := NewRoomClient(srv.URL, time.Second, zap.NewNop())
	got, err := c.GetRoom(context.Background(), "501")

	require.NoError(t, err)
	assert.Equal(t, "501", got.RoomID)
	assert.Equal(t, 5, got.Floor)
	assert.Equal(t, int64(2), got.StatusVersion)
}

func TestRoomClient_GetRoom_NotFound(t *testing.T) {
	srv := httptest.NewServer(envelopeHandler(t, http.StatusNotFound, Envelope{Code: 404, Message: "Room not found."}))
	defer srv.Close()

	c := NewRoomClient(srv.URL, time.Second, zap.NewNop())
	got, err := c.GetRoom(context.Background(), "999")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, got)
}

func TestRoomClient_UpdateStatus_StaleVersion(t *testing.T) {
	var received updateStatusRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(Envelope{Code: 409, Message: "status version conflict"})
	}))
	defer srv.Close()

	c := NewRoomClient(srv.URL, time.Second, zap.NewNop())
	v := int64(3)
	err := c.UpdateStatus(context.Background(), "501", models.StatusCompleted, &v)

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, models.StatusCompleted, received.Status)
	require.NotNil(t, received.ExpectedVersion)
	assert.Equal(t, int64(3), *received.ExpectedVersion)
}

func TestRosterClient_EntriesFor_EmptyOn404(t *testing.T) {
	srv := httptest.NewServer(envelopeHandler(t, http.StatusNotFound, Envelope{Code: 404, Message: "No roster found for the provided date."}))
	defer srv.Close()

	c := NewRosterClient(srv.URL, time.Second, zap.NewNop())
	entries, err := c.EntriesFor(context.Background(), "2026-08-29")

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRosterClient_Add_ConflictIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(envelopeHandler(t, http.StatusConflict, Envelope{Code: 409, Message: "duplicate key"}))
	defer srv.Close()

	c := NewRosterClient(srv.URL, time.Second, zap.NewNop())
	alreadyExists, err := c.Add(context.Background(), models.RosterEntry{
		Date: "2026-08-29", Floor: 5, RoomID: "501", HousekeeperID: "hk-1",
	})

	require.NoError(t, err)
	assert.True(t, alreadyExists)
}

func TestBookingClient_HasActiveBooking(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		env     Envelope
		want    bool
		wantErr bool
	}{
		{"active booking", http.StatusOK, Envelope{Code: 200, Data: json.RawMessage(`{"booking_id":"b1"}`)}, true, false},
		{"no booking", http.StatusNotFound, Envelope{Code: 404, Message: "no active booking"}, false, false},
		{"dependency failure", http.StatusInternalServerError, Envelope{Code: 500, Message: "db down"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(envelopeHandler(t, tt.status, tt.env))
			defer srv.Close()

			c := NewBookingClient(srv.URL, time.Second, zap.NewNop())
			got, err := c.HasActiveBooking(context.Background(), "501")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCall_TransportError(t *testing.T) {
	// 端口未监听 => 传输错误
	c := NewBookingClient("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop())
	_, err := c.HasActiveBooking(context.Background(), "501")
	assert.Error(t, err)
}

func TestCall_PlainStatusFallback(t *testing.T) {
	// 服务只回纯 JSON（无 code 字段）时回退到 HTTP 状态码
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"booking_id":"b1"}}`))
	}))
	defer srv.Close()

	c := NewBookingClient(srv.URL, time.Second, zap.NewNop())
	got, err := c.HasActiveBooking(context.Background(), "501")

	require.NoError(t, err)
	assert.True(t, got)
}
