package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"hotel-housekeeping/internal/config"
	"hotel-housekeeping/internal/database"
	"hotel-housekeeping/internal/httpapi"
	"hotel-housekeeping/internal/logger"
	"hotel-housekeeping/internal/models"
	"hotel-housekeeping/internal/repository"
	"hotel-housekeeping/internal/service"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "hotel-registry")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var (
		db           *sql.DB
		rooms        repository.RoomsRepo
		housekeepers repository.HousekeepersRepo
		roster       repository.RosterRepo
	)
	if cfg.DBEnabled {
		if d, derr := database.NewPostgresDB(&cfg.Database); derr == nil {
			db = d
			log.Info("DB enabled for hotel-registry")
		} else {
			log.Warn("DB enabled but connection failed, falling back to in-memory repos", zap.Error(derr))
		}
	}
	if db != nil {
		rooms = repository.NewPostgresRoomsRepo(db, log)
		housekeepers = repository.NewPostgresHousekeepersRepo(db, log)
		roster = repository.NewPostgresRosterRepo(db, log)
	} else {
		// DB 未就绪：内存仓库支持联测，预置几间房避免空页面
		memRooms := repository.NewMemoryRoomsRepo()
		if os.Getenv("SEED_ROOMS") != "false" {
			for _, room := range []models.Room{
				{RoomID: "101", Floor: 1, RoomType: "single"},
				{RoomID: "102", Floor: 1, RoomType: "double"},
				{RoomID: "501", Floor: 5, RoomType: "double"},
			} {
				_ = memRooms.CreateRoom(context.Background(), room)
			}
		}
		rooms = memRooms
		housekeepers = repository.NewMemoryHousekeepersRepo()
		roster = repository.NewMemoryRosterRepo()
	}

	router := httpapi.NewRouter(log)
	router.RegisterRoomRoutes(httpapi.NewRoomsHandler(rooms, log))
	router.RegisterHousekeeperRoutes(httpapi.NewHousekeepersHandler(housekeepers, log))
	router.RegisterRosterRoutes(httpapi.NewRosterHandler(roster, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("HTTP server exited", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if db != nil {
		_ = database.Close(db)
	}
}
