package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shiftline/shiftline-backend-go/internal/config"
	appHTTP "github.com/shiftline/shiftline-backend-go/internal/handler/http"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/cron"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/database"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/jwt"
	"github.com/shiftline/shiftline-backend-go/internal/repository/postgresql"
	notificationService "github.com/shiftline/shiftline-backend-go/internal/service/notification"
	sweepService "github.com/shiftline/shiftline-backend-go/internal/service/sweep"
	timeclockService "github.com/shiftline/shiftline-backend-go/internal/service/timeclock"
	timesheetService "github.com/shiftline/shiftline-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	eventRepo := postgresql.NewClockEventRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	notificationSvc := notificationService.NewNotificationService(notificationRepo, notificationService.Config{})
	timeclockSvc := timeclockService.NewTimeclockService(db, eventRepo, settingsRepo, locationRepo, userRepo, notificationSvc)
	timesheetSvc := timesheetService.NewTimesheetService(timesheetRepo, eventRepo, settingsRepo, userRepo, notificationSvc)
	sweepSvc := sweepService.NewSweepService(settingsRepo, eventRepo, timeclockSvc)

	timeclockHandler := appHTTP.NewTimeclockHandler(timeclockSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notificationSvc)
	sweepHandler := appHTTP.NewSweepHandler(sweepSvc, cfg.Sweep.Token)

	scheduler := cron.NewScheduler()
	cron.NewTimeclockJobs(sweepSvc, cfg.Sweep.Interval).RegisterJobs(scheduler)
	scheduler.Start(context.Background())
	defer scheduler.Stop()
	defer notificationSvc.Stop()

	router := appHTTP.NewRouter(
		jwtService,
		timeclockHandler,
		timesheetHandler,
		notificationHandler,
		sweepHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	if err := server.Close(); err != nil {
		fmt.Println("Server shutdown error:", err)
	}
}
