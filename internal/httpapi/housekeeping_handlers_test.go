package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"hotel-housekeeping/internal/service"
)

type fakeOrchestrator struct {
	result    *service.Assignment
	err       error
	cancelled int

	gotRoomID string
	gotFloor  *int
}

func (f *fakeOrchestrator) AssignCleaning(_ context.Context, roomID string, floor *int) (*service.Assignment, error) {
	f.gotRoomID = roomID
	f.gotFloor = floor
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeOrchestrator) CancelCleaning(_ context.Context, cycleID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.cancelled, nil
}

func newHousekeepingRouter(orch CleaningOrchestrator) *Router {
	logger := zap.NewNop()
	router := NewRouter(logger)
	router.RegisterHousekeepingRoutes(NewHousekeepingHandler(orch, logger))
	return router
}

func TestAssign_Success(t *testing.T) {
	orch := &fakeOrchestrator{result: &service.Assignment{
		RoomID: "501", HousekeeperID: "hk-1", CycleID: "cycle-1",
	}}
	router := newHousekeepingRouter(orch)

	req := httptest.NewRequest(http.MethodPost, "/housekeeping", strings.NewReader(`{"room_id":"501"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"code":201`) {
		t.Fatalf("expected envelope code=201, got: %s", body)
	}
	if !strings.Contains(body, `"housekeeper_id":"hk-1"`) {
		t.Fatalf("expected housekeeper id in data, got: %s", body)
	}
	if orch.gotRoomID != "501" {
		t.Fatalf("expected room_id forwarded, got %q", orch.gotRoomID)
	}
	if orch.gotFloor != nil {
		t.Fatalf("expected nil floor when not supplied, got %v", *orch.gotFloor)
	}
}

func TestAssign_ForwardsExplicitFloor(t *testing.T) {
	orch := &fakeOrchestrator{result: &service.Assignment{RoomID: "A-12", HousekeeperID: "hk-1", CycleID: "c1"}}
	router := newHousekeepingRouter(orch)

	req := httptest.NewRequest(http.MethodPost, "/housekeeping", strings.NewReader(`{"room_id":"A-12","floor":3}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if orch.gotFloor == nil || *orch.gotFloor != 3 {
		t.Fatalf("expected floor=3 forwarded, got %v", orch.gotFloor)
	}
}

func TestAssign_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &service.ValidationError{Reason: "room_id is required"}, http.StatusBadRequest},
		{"not found", &service.NotFoundError{Resource: "room", ID: "999"}, http.StatusNotFound},
		{"floor mismatch", &service.ConflictError{Reason: "room floor mismatch"}, http.StatusConflict},
		{"dependency", &service.DependencyError{Op: "room status update"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newHousekeepingRouter(&fakeOrchestrator{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/housekeeping", strings.NewReader(`{"room_id":"501"}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), `"message"`) {
				t.Fatalf("expected error message in envelope, got: %s", w.Body.String())
			}
		})
	}
}

func TestAssign_MethodNotAllowed(t *testing.T) {
	router := newHousekeepingRouter(&fakeOrchestrator{})

	req := httptest.NewRequest(http.MethodGet, "/housekeeping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestCancel_Success(t *testing.T) {
	router := newHousekeepingRouter(&fakeOrchestrator{cancelled: 2})

	req := httptest.NewRequest(http.MethodDelete, "/housekeeping/cycle-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"cancelled":2`) {
		t.Fatalf("expected cancelled count, got: %s", w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	router := newHousekeepingRouter(&fakeOrchestrator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Fatalf("expected health payload, got: %s", w.Body.String())
	}
}
