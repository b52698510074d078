package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"habitTrackerAPI/handlers"
	"habitTrackerAPI/internal/config"
	"habitTrackerAPI/internal/migration"
	"habitTrackerAPI/internal/notification"
	"habitTrackerAPI/internal/workers"
	"habitTrackerAPI/middleware"
	"habitTrackerAPI/services"

	_ "net/http/pprof"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	clerk.SetKey(cfg.ClerkSecretKey)
	log.Println("Clerk initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := connectDB(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	migrateCtx, cancelMigrate := context.WithTimeout(ctx, 30*time.Second)
	applied, err := migration.NewRunner(dbPool).Apply(migrateCtx)
	cancelMigrate()
	if err != nil {
		log.Fatal("Failed to apply migrations: ", err)
	}
	log.Printf("Migrations: %d applied", applied)

	middleware.InitPrometheus(prometheus.DefaultRegisterer)

	curve, err := cfg.LevelCurve()
	if err != nil {
		log.Fatal(err)
	}
	game := services.Gamification{
		Curve:               curve,
		PointsPerCompletion: cfg.PointsPerCompletion,
		StreakWindowDays:    cfg.StreakWindowDays,
		StreakMilestones:    cfg.StreakMilestones,
	}

	// Live sync
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	hub := services.NewEventHub()
	go hub.Run(hubCtx)

	// Push notifications
	notificationService := services.NewNotificationService(dbPool)
	var pushProvider services.PushNotificationProvider = services.LogPushProvider{}
	fcmService, err := notification.NewFCMService(ctx, cfg.FCMCredentialsFile)
	if err != nil {
		log.Printf("Warning: Could not initialize FCM, pushes will only be logged: %v", err)
	} else {
		pushProvider = fcmService
		log.Println("FCM Push Provider initialized successfully")
	}
	dispatcher := services.NewNotificationDispatcher(notificationService, pushProvider, 5)
	defer dispatcher.Stop()
	notificationService.SetDispatcher(dispatcher)

	statsService := services.NewStatsService(dbPool, game, hub, notificationService)
	goalService := services.NewGoalService(dbPool, statsService, game, hub, notificationService)
	habitService := services.NewHabitService(dbPool, statsService, goalService, game, hub, notificationService)
	analyticsService := services.NewAnalyticsService(dbPool)
	userService := services.NewUserService(dbPool, statsService)

	if cfg.ReminderHour >= 0 {
		reminders := workers.NewReminderWorker(habitService, notificationService, cfg.ReminderHour, cfg.DefaultTimezone)
		reminders.Start(ctx, workers.DefaultReminderInterval)
		log.Printf("Habit reminders scheduled for %02d:00 local time", cfg.ReminderHour)
	}

	loc := cfg.DefaultTimezone
	habitHandler := handlers.NewHabitHandler(habitService, loc)
	goalHandler := handlers.NewGoalHandler(goalService, loc)
	statsHandler := handlers.NewStatsHandler(statsService, loc)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, loc)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	eventsHandler := handlers.NewEventsHandler(hub)
	webhookHandler := handlers.NewWebhookHandler(userService, cfg.ClerkWebhookSecret)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rateLimiter.Cleanup(ctx)

	r := mux.NewRouter()
	r.Use(rateLimiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(cfg.PprofSecret)(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := dbPool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "habitTracker-api"}`))
	}).Methods("GET")

	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.ClerkAuthMiddleware)

	api.HandleFunc("/habits", habitHandler.GetHabits).Methods("GET")
	api.HandleFunc("/habits", habitHandler.CreateHabit).Methods("POST")
	api.HandleFunc("/habits/today", habitHandler.GetTodayHabits).Methods("GET")
	api.HandleFunc("/habits/{id}", habitHandler.UpdateHabit).Methods("PUT")
	api.HandleFunc("/habits/{id}", habitHandler.DeleteHabit).Methods("DELETE")
	api.HandleFunc("/habits/{id}/toggle", habitHandler.ToggleCompletion).Methods("POST")

	api.HandleFunc("/completions", habitHandler.GetCompletionsForDate).Methods("GET")
	api.HandleFunc("/completions/history", habitHandler.GetCompletionHistory).Methods("GET")

	api.HandleFunc("/stats", statsHandler.GetOverview).Methods("GET")
	api.HandleFunc("/stats/level", statsHandler.GetLevel).Methods("GET")
	api.HandleFunc("/stats/points", statsHandler.IncrementPoints).Methods("POST")
	api.HandleFunc("/stats/{period}", analyticsHandler.GetDaysStat).Methods("GET")

	api.HandleFunc("/calendar/days", analyticsHandler.GetCalendarDays).Methods("GET")
	api.HandleFunc("/calendar/week", analyticsHandler.GetWeek).Methods("GET")
	api.HandleFunc("/calendar/month", analyticsHandler.GetMonth).Methods("GET")
	api.HandleFunc("/calendar/year", analyticsHandler.GetYear).Methods("GET")

	api.HandleFunc("/goals", goalHandler.GetGoals).Methods("GET")
	api.HandleFunc("/goals", goalHandler.CreateGoal).Methods("POST")
	api.HandleFunc("/goals/emoji", goalHandler.PreviewEmoji).Methods("GET")
	api.HandleFunc("/goals/criteria", goalHandler.GetCriteria).Methods("GET")
	api.HandleFunc("/goals/{id}", goalHandler.UpdateGoal).Methods("PUT")
	api.HandleFunc("/goals/{id}", goalHandler.DeleteGoal).Methods("DELETE")

	api.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")
	api.HandleFunc("/notifications/register-device", notificationHandler.UnregisterDevice).Methods("DELETE")
	api.HandleFunc("/notifications/test", notificationHandler.SendTestNotification).Methods("POST")

	api.HandleFunc("/events/ws", eventsHandler.Connect).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret", handlers.TimezoneHeader}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	cancelHub()

	log.Println("Server shutdown complete")
}

func connectDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = min(5, cfg.DBMaxConns)
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("Successfully connected to PostgreSQL")
	return pool, nil
}
