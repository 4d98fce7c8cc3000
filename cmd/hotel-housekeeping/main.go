package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"hotel-housekeeping/internal/clients"
	"hotel-housekeeping/internal/config"
	"hotel-housekeeping/internal/httpapi"
	"hotel-housekeeping/internal/logger"
	"hotel-housekeeping/internal/scheduler"
	"hotel-housekeeping/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "hotel-housekeeping")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis is required for the task scheduler", zap.Error(err))
	}

	timeout := cfg.Collaborator.Timeout
	roomClient := clients.NewRoomClient(cfg.Collaborator.RoomURL, timeout, log)
	housekeeperClient := clients.NewHousekeeperClient(cfg.Collaborator.HousekeeperURL, timeout, log)
	rosterClient := clients.NewRosterClient(cfg.Collaborator.RosterURL, timeout, log)
	bookingClient := clients.NewBookingClient(cfg.Collaborator.BookingURL, timeout, log)

	sched := scheduler.NewScheduler(redisClient, cfg.Cleaning.PollInterval, log)

	orch := service.NewOrchestrator(
		roomClient,
		housekeeperClient,
		rosterClient,
		bookingClient,
		sched,
		service.LeadingDigitResolver{},
		cfg.Cleaning.Duration,
		cfg.Cleaning.SettleDelay,
		log,
	)

	router := httpapi.NewRouter(log)
	router.RegisterHousekeepingRoutes(httpapi.NewHousekeepingHandler(orch, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 延迟任务消费循环（清洁周期 stage 1/2）
	go sched.Run(ctx, orch.HandleTask)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case err := <-errCh:
		log.Error("HTTP server exited", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
}
