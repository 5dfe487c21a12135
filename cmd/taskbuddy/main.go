package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskbuddy/internal/bot"
	"taskbuddy/internal/config"
	"taskbuddy/internal/repository"
	"taskbuddy/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	logRepo := repository.NewLogRepository(db)

	taskSvc := service.NewTaskService(taskRepo, projectRepo)
	projectSvc := service.NewProjectService(projectRepo)
	statsSvc := service.NewStatsService(logRepo)
	reminderSvc := service.NewReminderService(taskRepo, 64)

	telegramBot, err := bot.New(cfg.TelegramToken, userRepo, taskSvc, projectSvc, statsSvc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	go telegramBot.DispatchReminders(ctx, reminderSvc.Reminders())

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.ReminderInterval(), func() {
		jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := reminderSvc.Scan(jobCtx, time.Now()); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("reminder scan: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule reminders: %v", err)
	}
	if cfg.DailyAgendaTime != "" {
		if _, err := scheduler.ScheduleDaily(cfg.DailyAgendaTime, func() {
			jobCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := telegramBot.SendDailyAgenda(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("daily agenda: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule agenda: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.StartupAnnouncement != "" {
		if err := telegramBot.Broadcast(ctx, cfg.StartupAnnouncement); err != nil {
			log.Printf("broadcast: %v", err)
		}
	}

	log.Println("Taskbuddy bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
