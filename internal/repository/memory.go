package repository

import (
	"context"
	"sort"
	"sync"

	"hotel-housekeeping/internal/models"

	"github.com/google/uuid"
)

// MemoryRoomsRepo: 用于 DB 未就绪时的联测（hotel-registry 启动时回退到内存仓库）
type MemoryRoomsRepo struct {
	mu    sync.RWMutex
	rooms map[string]models.Room
}

func NewMemoryRoomsRepo() *MemoryRoomsRepo {
	return &MemoryRoomsRepo{rooms: map[string]models.Room{}}
}

func (r *MemoryRoomsRepo) GetRoom(_ context.Context, roomID string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return &room, nil
}

func (r *MemoryRoomsRepo) ListRooms(_ context.Context) ([]models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomID < out[j].RoomID })
	return out, nil
}

func (r *MemoryRoomsRepo) CreateRoom(_ context.Context, room models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.RoomID]; ok {
		return ErrDuplicate
	}
	if room.Status == "" {
		room.Status = models.StatusVacant
	}
	room.StatusVersion = 0
	r.rooms[room.RoomID] = room
	return nil
}

func (r *MemoryRoomsRepo) UpdateStatus(_ context.Context, roomID, status string, expectedVersion *int64) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	if expectedVersion != nil && room.StatusVersion != *expectedVersion {
		return nil, ErrVersionConflict
	}
	room.Status = status
	room.StatusVersion++
	r.rooms[roomID] = room
	return &room, nil
}

// MemoryHousekeepersRepo 内存实现（清洁工）
type MemoryHousekeepersRepo struct {
	mu           sync.RWMutex
	housekeepers []models.Housekeeper // 保留创建顺序，GetByFloor 取最早的
}

func NewMemoryHousekeepersRepo() *MemoryHousekeepersRepo {
	return &MemoryHousekeepersRepo{}
}

func (r *MemoryHousekeepersRepo) GetByFloor(_ context.Context, floor int) (*models.Housekeeper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, hk := range r.housekeepers {
		if hk.Floor == floor {
			out := hk
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryHousekeepersRepo) Create(_ context.Context, name string, floor int) (*models.Housekeeper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	hk := models.Housekeeper{
		HousekeeperID: uuid.NewString(),
		Name:          name,
		Floor:         floor,
	}
	r.housekeepers = append(r.housekeepers, hk)
	return &hk, nil
}

func (r *MemoryHousekeepersRepo) List(_ context.Context) ([]models.Housekeeper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Housekeeper, len(r.housekeepers))
	copy(out, r.housekeepers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Floor < out[j].Floor })
	return out, nil
}

// MemoryRosterRepo 内存实现（排班）
type MemoryRosterRepo struct {
	mu      sync.RWMutex
	entries map[rosterKey]models.RosterEntry
}

type rosterKey struct {
	date   string
	floor  int
	roomID string
}

func NewMemoryRosterRepo() *MemoryRosterRepo {
	return &MemoryRosterRepo{entries: map[rosterKey]models.RosterEntry{}}
}

func (r *MemoryRosterRepo) EntriesFor(_ context.Context, date string) ([]models.RosterEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.RosterEntry
	for k, e := range r.entries {
		if k.date == date {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Floor != out[j].Floor {
			return out[i].Floor < out[j].Floor
		}
		return out[i].RoomID < out[j].RoomID
	})
	return out, nil
}

func (r *MemoryRosterRepo) Insert(_ context.Context, entry models.RosterEntry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rosterKey{date: entry.Date, floor: entry.Floor, roomID: entry.RoomID}
	if _, ok := r.entries[key]; ok {
		return true, nil
	}
	r.entries[key] = entry
	return false, nil
}

func (r *MemoryRosterRepo) Delete(_ context.Context, date, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k := range r.entries {
		if k.date == date && k.roomID == roomID {
			delete(r.entries, k)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRosterRepo) SetCompleted(_ context.Context, date, roomID string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, e := range r.entries {
		if k.date == date && k.roomID == roomID {
			e.Completed = completed
			r.entries[k] = e
			return nil
		}
	}
	return ErrNotFound
}
