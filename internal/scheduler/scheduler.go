// Package scheduler 提供清洁周期延迟任务的持久化调度。
// 任务以 JSON 形式写入 Redis sorted set，score 为到期时间（unix 秒）；
// 轮询循环读出到期任务分发给处理函数，处理函数返回后才 ZRem 移除。
// 处理中途崩溃的任务会在下次轮询重新投递：至少执行一次，处理函数
// 必须幂等。
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"hotel-housekeeping/internal/models"
)

const defaultQueueKey = "housekeeping:cleaning-tasks"

// TaskHandler 处理到期任务。必须幂等：任务可能被重复投递。
type TaskHandler func(ctx context.Context, task models.CleaningTask)

// Scheduler Redis 延迟任务调度器
type Scheduler struct {
	redisClient *redis.Client
	logger      *zap.Logger
	queueKey    string
	pollEvery   time.Duration

	// now 可注入，测试用
	now func() time.Time
}

func NewScheduler(redisClient *redis.Client, pollEvery time.Duration, logger *zap.Logger) *Scheduler {
	if pollEvery <= 0 {
		pollEvery = 500 * time.Millisecond
	}
	return &Scheduler{
		redisClient: redisClient,
		logger:      logger,
		queueKey:    defaultQueueKey,
		pollEvery:   pollEvery,
		now:         time.Now,
	}
}

// Enqueue 持久化一个延迟任务
func (s *Scheduler) Enqueue(ctx context.Context, task models.CleaningTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = s.redisClient.ZAdd(ctx, s.queueKey, &redis.Z{
		Score:  float64(task.DueAt.Unix()),
		Member: string(payload),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	s.logger.Info("Cleaning task scheduled",
		zap.String("task_id", task.TaskID),
		zap.String("cycle_id", task.CycleID),
		zap.String("room_id", task.RoomID),
		zap.Int("stage", task.Stage),
		zap.Time("due_at", task.DueAt),
	)
	return nil
}

// CancelCycle 移除某个清洁周期的全部未执行任务，返回移除数量
func (s *Scheduler) CancelCycle(ctx context.Context, cycleID string) (int, error) {
	members, err := s.redisClient.ZRange(ctx, s.queueKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read task queue: %w", err)
	}

	cancelled := 0
	for _, member := range members {
		var task models.CleaningTask
		if err := json.Unmarshal([]byte(member), &task); err != nil {
			continue
		}
		if task.CycleID != cycleID {
			continue
		}
		removed, err := s.redisClient.ZRem(ctx, s.queueKey, member).Result()
		if err != nil {
			return cancelled, fmt.Errorf("failed to remove task: %w", err)
		}
		if removed > 0 {
			cancelled++
			s.logger.Info("Cleaning task cancelled",
				zap.String("task_id", task.TaskID),
				zap.String("cycle_id", cycleID),
				zap.Int("stage", task.Stage),
			)
		}
	}
	return cancelled, nil
}

// Run 启动轮询循环，直到 ctx 取消。Redis 出错时指数退避。
func (s *Scheduler) Run(ctx context.Context, handler TaskHandler) {
	s.logger.Info("Task scheduler started",
		zap.String("queue", s.queueKey),
		zap.Duration("poll_interval", s.pollEvery),
	)

	backoffDuration := time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Task scheduler stopped")
			return
		case <-time.After(s.pollEvery):
			if err := s.DispatchDue(ctx, handler); err != nil {
				s.logger.Error("Failed to dispatch due tasks",
					zap.Error(err),
					zap.Duration("backoff", backoffDuration),
				)
				select {
				case <-ctx.Done():
					return
				case <-time.After(backoffDuration):
					backoffDuration *= 2
					if backoffDuration > maxBackoff {
						backoffDuration = maxBackoff
					}
				}
			} else {
				backoffDuration = time.Second
			}
		}
	}
}

// DispatchDue 执行全部到期任务。任务在处理函数返回之后才移除，
// 处理中途进程崩溃的任务下次轮询会重新投递。
func (s *Scheduler) DispatchDue(ctx context.Context, handler TaskHandler) error {
	members, err := s.dueMembers(ctx)
	if err != nil {
		return err
	}
	for _, member := range members {
		var task models.CleaningTask
		if err := json.Unmarshal([]byte(member), &task); err != nil {
			// 坏载荷直接清掉，避免毒化轮询
			s.logger.Error("Dropping malformed task payload", zap.Error(err))
			s.redisClient.ZRem(ctx, s.queueKey, member)
			continue
		}
		handler(ctx, task)
		if err := s.redisClient.ZRem(ctx, s.queueKey, member).Err(); err != nil {
			return fmt.Errorf("failed to remove handled task: %w", err)
		}
	}
	return nil
}

// DueTasks 查看当前到期的任务（不移除），按到期时间排序
func (s *Scheduler) DueTasks(ctx context.Context) ([]models.CleaningTask, error) {
	members, err := s.dueMembers(ctx)
	if err != nil {
		return nil, err
	}
	var due []models.CleaningTask
	for _, member := range members {
		var task models.CleaningTask
		if err := json.Unmarshal([]byte(member), &task); err != nil {
			s.logger.Error("Skipping malformed task payload", zap.Error(err))
			continue
		}
		due = append(due, task)
	}
	return due, nil
}

func (s *Scheduler) dueMembers(ctx context.Context) ([]string, error) {
	max := strconv.FormatInt(s.now().Unix(), 10)
	members, err := s.redisClient.ZRangeByScore(ctx, s.queueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}
	return members, nil
}
