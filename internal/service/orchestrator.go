package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hotel-housekeeping/internal/clients"
	"hotel-housekeeping/internal/models"
)

// 协作服务网关。编排器只依赖这些小接口，HTTP 客户端与测试替身都能实现。

type RoomGateway interface {
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	UpdateStatus(ctx context.Context, roomID, status string, expectedVersion *int64) error
}

type HousekeeperGateway interface {
	GetByFloor(ctx context.Context, floor int) (*models.Housekeeper, error)
	Create(ctx context.Context, name string, floor int) (*models.Housekeeper, error)
}

type RosterGateway interface {
	EntriesFor(ctx context.Context, date string) ([]models.RosterEntry, error)
	Add(ctx context.Context, entry models.RosterEntry) (alreadyExists bool, err error)
}

type BookingGateway interface {
	HasActiveBooking(ctx context.Context, roomID string) (bool, error)
}

type TaskQueue interface {
	Enqueue(ctx context.Context, task models.CleaningTask) error
	CancelCycle(ctx context.Context, cycleID string) (int, error)
}

// Assignment AssignCleaning 的成功结果
type Assignment struct {
	RoomID        string `json:"room_id"`
	HousekeeperID string `json:"housekeeper_id"`
	CycleID       string `json:"cycle_id"`
}

// Orchestrator 清洁编排核心：解析楼层、复用或补员清洁工、落排班、
// 把房间置为 CLEANING，再把两段延迟任务交给调度器。
type Orchestrator struct {
	rooms        RoomGateway
	housekeepers HousekeeperGateway
	roster       RosterGateway
	bookings     BookingGateway
	tasks        TaskQueue
	floors       FloorResolver

	cleaningDuration time.Duration
	settleDelay      time.Duration

	logger *zap.Logger
	now    func() time.Time
}

func NewOrchestrator(
	rooms RoomGateway,
	housekeepers HousekeeperGateway,
	roster RosterGateway,
	bookings BookingGateway,
	tasks TaskQueue,
	floors FloorResolver,
	cleaningDuration time.Duration,
	settleDelay time.Duration,
	logger *zap.Logger,
) *Orchestrator {
	if floors == nil {
		floors = LeadingDigitResolver{}
	}
	return &Orchestrator{
		rooms:            rooms,
		housekeepers:     housekeepers,
		roster:           roster,
		bookings:         bookings,
		tasks:            tasks,
		floors:           floors,
		cleaningDuration: cleaningDuration,
		settleDelay:      settleDelay,
		logger:           logger,
		now:              time.Now,
	}
}

// AssignCleaning 同步阶段。成功即表示房间已置为 CLEANING 并排好延迟
// 任务；延迟工作流的结局对调用方不可见。
func (o *Orchestrator) AssignCleaning(ctx context.Context, roomID string, floorArg *int) (*Assignment, error) {
	if roomID == "" {
		return nil, &ValidationError{Reason: "room_id is required"}
	}

	today := o.now().Format("2006-01-02")

	floor, err := o.resolveFloor(roomID, floorArg)
	if err != nil {
		return nil, err
	}

	housekeeperID, err := o.resolveHousekeeper(ctx, today, floor)
	if err != nil {
		return nil, err
	}

	// 一致性硬前提：推导/指定的楼层必须与房间权威楼层一致
	room, err := o.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, &NotFoundError{Resource: "room", ID: roomID}
		}
		return nil, &DependencyError{Op: "room lookup", Err: err}
	}
	if room.Floor != floor {
		return nil, &ConflictError{
			Reason: fmt.Sprintf("room floor mismatch: expected floor %d, but got %d", floor, room.Floor),
		}
	}

	// 排班写入是尽力而为：记账失败不能挡清洁
	alreadyExists, err := o.roster.Add(ctx, models.RosterEntry{
		Date:          today,
		Floor:         floor,
		RoomID:        roomID,
		HousekeeperID: housekeeperID,
		Completed:     false,
	})
	if err != nil {
		o.logger.Warn("Failed to insert roster entry, continuing",
			zap.String("room_id", roomID),
			zap.String("date", today),
			zap.Error(err),
		)
	} else if alreadyExists {
		o.logger.Info("Roster entry already exists, reusing",
			zap.String("room_id", roomID),
			zap.String("date", today),
		)
	}

	// 强制副作用：CLEANING 写入失败则整个操作失败
	expected := room.StatusVersion
	if err := o.rooms.UpdateStatus(ctx, roomID, models.StatusCleaning, &expected); err != nil {
		if errors.Is(err, clients.ErrConflict) {
			return nil, &ConflictError{Reason: "room status changed concurrently"}
		}
		return nil, &DependencyError{Op: "room status update", Err: err}
	}

	cycleID, err := o.scheduleCompletion(ctx, roomID, room.StatusVersion+1)
	if err != nil {
		// 房间已是 CLEANING；无法排任务时让失败可见而不是留一个
		// 永远停在 CLEANING 的房间
		return nil, &DependencyError{Op: "schedule completion", Err: err}
	}

	o.logger.Info("Room marked for cleaning",
		zap.String("room_id", roomID),
		zap.String("housekeeper_id", housekeeperID),
		zap.String("cycle_id", cycleID),
		zap.Int("floor", floor),
	)
	return &Assignment{RoomID: roomID, HousekeeperID: housekeeperID, CycleID: cycleID}, nil
}

// CancelCleaning 取消一个清洁周期尚未执行的阶段
func (o *Orchestrator) CancelCleaning(ctx context.Context, cycleID string) (int, error) {
	if cycleID == "" {
		return 0, &ValidationError{Reason: "cycle_id is required"}
	}
	cancelled, err := o.tasks.CancelCycle(ctx, cycleID)
	if err != nil {
		return 0, &DependencyError{Op: "cancel cycle", Err: err}
	}
	return cancelled, nil
}

func (o *Orchestrator) resolveFloor(roomID string, floorArg *int) (int, error) {
	if floorArg != nil {
		if *floorArg <= 0 {
			return 0, &ValidationError{Reason: "floor must be positive"}
		}
		return *floorArg, nil
	}
	floor, err := o.floors.FloorOf(roomID)
	if err != nil {
		return 0, &ValidationError{Reason: err.Error()}
	}
	return floor, nil
}

// resolveHousekeeper 优先复用当天该楼层已有的排班（“一层一天一人”），
// 其次查清洁工登记处，最后自动补员。
func (o *Orchestrator) resolveHousekeeper(ctx context.Context, today string, floor int) (string, error) {
	entries, err := o.roster.EntriesFor(ctx, today)
	if err != nil {
		o.logger.Warn("Failed to read roster, falling back to housekeeper registry",
			zap.String("date", today),
			zap.Error(err),
		)
	}
	for _, entry := range entries {
		if entry.Floor == floor {
			o.logger.Info("Reusing housekeeper from roster",
				zap.String("housekeeper_id", entry.HousekeeperID),
				zap.Int("floor", floor),
			)
			return entry.HousekeeperID, nil
		}
	}

	hk, err := o.housekeepers.GetByFloor(ctx, floor)
	if err == nil {
		return hk.HousekeeperID, nil
	}
	if !errors.Is(err, clients.ErrNotFound) {
		o.logger.Warn("Housekeeper lookup failed, attempting auto-provision",
			zap.Int("floor", floor),
			zap.Error(err),
		)
	}

	created, err := o.housekeepers.Create(ctx, fmt.Sprintf("Auto-HK-Floor-%d", floor), floor)
	if err != nil {
		return "", &DependencyError{Op: "housekeeper auto-provision", Err: err}
	}
	return created.HousekeeperID, nil
}

// scheduleCompletion 持久化两段延迟任务：
// stage 1（清洁时长后）CLEANING -> COMPLETED
// stage 2（再过结算延迟）COMPLETED -> OCCUPIED/VACANT
func (o *Orchestrator) scheduleCompletion(ctx context.Context, roomID string, versionAfterCleaning int64) (string, error) {
	cycleID := uuid.NewString()
	now := o.now()

	stage1 := models.CleaningTask{
		TaskID:          uuid.NewString(),
		CycleID:         cycleID,
		RoomID:          roomID,
		Stage:           models.StageComplete,
		DueAt:           now.Add(o.cleaningDuration),
		ExpectedVersion: versionAfterCleaning,
	}
	stage2 := models.CleaningTask{
		TaskID:          uuid.NewString(),
		CycleID:         cycleID,
		RoomID:          roomID,
		Stage:           models.StageResolve,
		DueAt:           now.Add(o.cleaningDuration + o.settleDelay),
		ExpectedVersion: versionAfterCleaning + 1,
	}

	if err := o.tasks.Enqueue(ctx, stage1); err != nil {
		return "", err
	}
	if err := o.tasks.Enqueue(ctx, stage2); err != nil {
		return "", err
	}
	return cycleID, nil
}

// HandleTask 延迟任务入口（调度器回调）。这里的失败只记日志：
// 此时已经没有调用方可以上报。处理函数幂等，可承受重复投递。
func (o *Orchestrator) HandleTask(ctx context.Context, task models.CleaningTask) {
	switch task.Stage {
	case models.StageComplete:
		o.handleStageComplete(ctx, task)
	case models.StageResolve:
		o.handleStageResolve(ctx, task)
	default:
		o.logger.Error("Unknown cleaning task stage",
			zap.String("task_id", task.TaskID),
			zap.Int("stage", task.Stage),
		)
	}
}

func (o *Orchestrator) handleStageComplete(ctx context.Context, task models.CleaningTask) {
	err := o.rooms.UpdateStatus(ctx, task.RoomID, models.StatusCompleted, &task.ExpectedVersion)
	if err != nil {
		if errors.Is(err, clients.ErrConflict) {
			o.logger.Warn("Room status changed outside cleaning cycle, skipping COMPLETED write",
				zap.String("room_id", task.RoomID),
				zap.String("cycle_id", task.CycleID),
			)
			return
		}
		o.logger.Error("Failed to set COMPLETED status",
			zap.String("room_id", task.RoomID),
			zap.Error(err),
		)
		return
	}
	o.logger.Info("Cleaning completed",
		zap.String("room_id", task.RoomID),
		zap.String("cycle_id", task.CycleID),
	)
}

// handleStageResolve 发出最终写入。归属判定按周期而不是按阶段链：
// 版本停在 ExpectedVersion-1 说明 stage 1 的 COMPLETED 写入没成功
// （房间还在 CLEANING），最终写入照样要发，否则房间永远停在 CLEANING；
// 版本越过窗口、或状态已被周期外改走，才视为失去归属。
func (o *Orchestrator) handleStageResolve(ctx context.Context, task models.CleaningTask) {
	room, err := o.rooms.GetRoom(ctx, task.RoomID)
	if err != nil {
		o.logger.Error("Room lookup failed, final status not resolved",
			zap.String("room_id", task.RoomID),
			zap.Error(err),
		)
		return
	}
	if !cycleOwnsRoom(room, task) {
		o.logger.Warn("Room status changed outside cleaning cycle, skipping final write",
			zap.String("room_id", task.RoomID),
			zap.String("cycle_id", task.CycleID),
			zap.String("status", room.Status),
			zap.Int64("status_version", room.StatusVersion),
		)
		return
	}

	hasBooking, err := o.bookings.HasActiveBooking(ctx, task.RoomID)
	if err != nil {
		o.logger.Error("Booking lookup failed, final status not resolved",
			zap.String("room_id", task.RoomID),
			zap.Error(err),
		)
		return
	}

	finalStatus := models.StatusVacant
	if hasBooking {
		finalStatus = models.StatusOccupied
	}

	expected := room.StatusVersion
	err = o.rooms.UpdateStatus(ctx, task.RoomID, finalStatus, &expected)
	if err != nil {
		if errors.Is(err, clients.ErrConflict) {
			o.logger.Warn("Room status changed outside cleaning cycle, skipping final write",
				zap.String("room_id", task.RoomID),
				zap.String("cycle_id", task.CycleID),
			)
			return
		}
		o.logger.Error("Failed to set final status",
			zap.String("room_id", task.RoomID),
			zap.String("status", finalStatus),
			zap.Error(err),
		)
		return
	}
	o.logger.Info("Cleaning cycle resolved",
		zap.String("room_id", task.RoomID),
		zap.String("final_status", finalStatus),
		zap.String("cycle_id", task.CycleID),
	)
}

// cycleOwnsRoom 房间是否仍属于该任务的清洁周期。
// 版本窗口为 [ExpectedVersion-1, ExpectedVersion]，且状态必须还是
// 周期内状态（CLEANING 或 COMPLETED）。
func cycleOwnsRoom(room *models.Room, task models.CleaningTask) bool {
	if room.StatusVersion != task.ExpectedVersion && room.StatusVersion != task.ExpectedVersion-1 {
		return false
	}
	return room.Status == models.StatusCleaning || room.Status == models.StatusCompleted
}
