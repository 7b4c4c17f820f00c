package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"telecare/config"
	"telecare/cron"
	"telecare/database"
	"telecare/database/repository"
	"telecare/handlers"
	"telecare/middleware"
	"telecare/routes"
	"telecare/services/appointment"
	"telecare/services/doctor"
	"telecare/services/notification"
	"telecare/services/patient"
	"telecare/services/signaling"
	"telecare/services/storage"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	defer database.CloseDB()
	db := database.DB()

	utils.InitCache()
	utils.InitAuthCache()
	utils.InitOTPCache()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	location, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		logger.Warn("main: unknown clinic timezone, using UTC", zap.String("timezone", cfg.ClinicTimezone), zap.Error(err))
		location = time.UTC
	}

	// repositories.
	patients := repository.NewMongoPatientRepo(db)
	doctors := repository.NewMongoDoctorRepo(db)
	appointments := repository.NewMongoAppointmentRepo(db)

	// shared infrastructure.
	revoker := utils.NewRedisTokenRevoker(utils.GetAuthCacheClient())
	otpManager := utils.NewRedisOTPManager(utils.GetOTPCacheClient(), cfg.OTPTTL)
	smsSender := notification.NewSMSSender(cfg)

	queueClient := asynq.NewClient(cron.QueueRedisOpt())
	defer queueClient.Close()
	inspector := asynq.NewInspector(cron.QueueRedisOpt())
	defer inspector.Close()

	notifier, err := notification.NewDefaultNotificationService(queueClient, inspector, cfg.AppointmentReminderLead, location)
	if err != nil {
		logger.Fatal("main: failed to initialize notifications", zap.Error(err))
	}

	// services.
	patientService := &patient.DefaultPatientService{
		Repo:        patients,
		OTP:         otpManager,
		SMS:         smsSender,
		Revoker:     revoker,
		TokenTTL:    cfg.TokenTTL,
		CountryCode: cfg.DefaultCountryCode,
	}

	doctorService := &doctor.DefaultDoctorService{
		Repo:     doctors,
		Revoker:  revoker,
		TokenTTL: cfg.TokenTTL,
	}
	if cloudinaryStorage, err := storage.NewCloudinaryStorage(cfg); err != nil {
		logger.Warn("main: profile picture uploads disabled", zap.Error(err))
	} else {
		doctorService.Storage = cloudinaryStorage
	}

	appointmentService := &appointment.DefaultAppointmentService{
		Repo:     appointments,
		Doctors:  doctors,
		Patients: patients,
		Notifier: notifier,
		Location: location,
	}

	// signaling relay.
	var bus signaling.Bus = signaling.NewMemoryBus()
	if cfg.SignalingBackend == "redis" {
		redisBus, err := signaling.NewRedisBus(rootCtx, utils.GetCacheClient())
		if err != nil {
			logger.Fatal("main: failed to subscribe to signaling channel", zap.Error(err))
		}
		bus = redisBus
	}
	defer bus.Close()
	hub := signaling.NewHub(bus)

	worker := cron.InitNotificationWorker(smsSender)

	utils.StartHealthMonitor(rootCtx, 30*time.Second,
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient(), utils.GetOTPCacheClient()},
		database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(utils.RequestLogger())
	router.Use(middleware.Metrics())

	auth := &middleware.Authenticator{Patients: patients, Doctors: doctors, Revoker: revoker}
	signalingHandler := handlers.NewSignalingHandler(hub, auth, appointmentService, signaling.ConnOptions{
		MaxMessageBytes: cfg.SignalingMaxMessageBytes,
	}, cfg.SignalingRequireAuth, cfg.ClientURL)
	signalingHandler.ShutdownCtx = rootCtx

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:        auth,
		Patient:     handlers.NewPatientHandler(patientService, cfg.TokenTTL),
		Doctor:      handlers.NewDoctorHandler(doctorService, appointmentService, cfg.TokenTTL),
		Appointment: handlers.NewAppointmentHandler(appointmentService),
		Signaling:   signalingHandler,
		RateLimiter: middleware.NewRateLimiter(cfg.MaxRequestsPerMin),
	}
	go handlerBundle.RateLimiter.RunCleanup(rootCtx, time.Minute)

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle, cfg.ClientURL)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	// Ends open signaling connections and background loops.
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()

	logger.Info("main: server stopped gracefully")
}
