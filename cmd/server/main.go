// Package main runs the team coordination HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teamsync/backend/config"
	"github.com/teamsync/backend/internal/announcements"
	"github.com/teamsync/backend/internal/auth"
	"github.com/teamsync/backend/internal/calendar"
	"github.com/teamsync/backend/internal/events"
	"github.com/teamsync/backend/internal/groups"
	"github.com/teamsync/backend/internal/messages"
	"github.com/teamsync/backend/internal/middleware"
	"github.com/teamsync/backend/internal/notifications"
	"github.com/teamsync/backend/internal/realtime"
	"github.com/teamsync/backend/internal/users"
	"github.com/teamsync/backend/internal/workouts"
	"github.com/teamsync/backend/pkg/database"
	"github.com/teamsync/backend/pkg/queue"
	"github.com/teamsync/backend/pkg/redis"
	"github.com/teamsync/backend/pkg/response"
	"github.com/teamsync/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			AvatarsBucket:        cfg.AWS.AvatarsBucket,
			AttachmentsBucket:    cfg.AWS.AttachmentsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Users and friends
	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, authRepo, s3Client, logger)

	// Groups
	groupRepo := groups.NewRepository(pool)
	groupHandler := groups.NewHandler(groupRepo, authRepo)

	// Events and RSVPs
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, groupRepo, hub, jobQueue, logger)

	// Workouts
	workoutRepo := workouts.NewRepository(pool)
	workoutHandler := workouts.NewHandler(workoutRepo, eventRepo)

	// Aggregated calendar
	calendarStore := calendar.NewPGStore(authRepo, groupRepo, eventRepo, workoutRepo)
	calendarHandler := calendar.NewHandler(calendarStore, logger)

	// Group chat
	messageRepo := messages.NewRepository(pool)
	messageHandler := messages.NewHandler(messageRepo, hub, s3Client, logger)

	// Announcements
	announcementRepo := announcements.NewRepository(pool)
	announcementHandler := announcements.NewHandler(announcementRepo, groupRepo, hub, jobQueue, logger)

	// Notification feed
	notifRepo := notifications.NewRepository(pool)
	notifHandler := notifications.NewHandler(notifRepo, logger)

	jwtValidate := func(token string) (string, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", err
		}
		return claims.UserID.String(), nil
	}
	isMember := func(channelID, userID uuid.UUID) bool {
		role, err := groupRepo.MemberRole(context.Background(), channelID, userID)
		return err == nil && role != ""
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users and friends
		api.GET("/users/me", userHandler.Me)
		api.PATCH("/users/me", userHandler.UpdateMe)
		api.POST("/users/me/avatar", userHandler.UploadAvatar)
		api.GET("/users/:id", userHandler.GetByID)
		api.GET("/friends", userHandler.ListFriends)
		api.POST("/friends", userHandler.AddFriend)
		api.DELETE("/friends/:id", userHandler.RemoveFriend)

		// Groups
		api.POST("/groups", groupHandler.Create)
		api.GET("/groups", groupHandler.List)
		api.POST("/groups/join", groupHandler.Join)
		api.GET("/groups/:id", groups.RequireMembership(groupRepo), groupHandler.GetByID)
		api.GET("/groups/:id/members", groups.RequireMembership(groupRepo), groupHandler.ListMembers)
		api.PATCH("/groups/:id/members/:userId", groups.RequireManager(groupRepo), groupHandler.UpdateMemberRole)
		api.DELETE("/groups/:id/members/:userId", groups.RequireMembership(groupRepo), groupHandler.RemoveMember)

		// Group events
		api.GET("/groups/:id/events", groups.RequireMembership(groupRepo), eventHandler.ListForGroup)

		// Events and RSVPs
		api.POST("/events", eventHandler.Create)
		api.GET("/events", eventHandler.ListMine)
		api.GET("/events/:id", eventHandler.GetByID)
		api.PATCH("/events/:id", eventHandler.Update)
		api.DELETE("/events/:id", eventHandler.Delete)
		api.PUT("/events/:id/rsvp", eventHandler.SetRSVP)
		api.GET("/events/:id/rsvps", eventHandler.ListRSVPs)

		// Workouts
		api.POST("/events/:id/workouts", workoutHandler.Create)
		api.GET("/events/:id/workouts", workoutHandler.ListForEvent)
		api.GET("/workouts/:id", workoutHandler.GetByID)
		api.POST("/workouts/:id/logs", workoutHandler.Log)
		api.GET("/workouts/:id/logs", workoutHandler.ListLogs)

		// Aggregated calendar
		api.GET("/calendar", calendarHandler.Get)

		// Group chat
		api.POST("/groups/:id/messages", groups.RequireMembership(groupRepo), messageHandler.Create)
		api.GET("/groups/:id/messages", groups.RequireMembership(groupRepo), messageHandler.List)
		api.POST("/groups/:id/messages/:messageID/attachment", groups.RequireMembership(groupRepo), messageHandler.UploadAttachment)
		api.GET("/groups/:id/messages/:messageID/attachment", groups.RequireMembership(groupRepo), messageHandler.DownloadAttachment)

		// Announcements
		api.POST("/groups/:id/announcements", groups.RequireManager(groupRepo), announcementHandler.Create)
		api.GET("/groups/:id/announcements", groups.RequireMembership(groupRepo), announcementHandler.List)

		// Notification feed
		api.GET("/notifications", notifHandler.List)
		api.DELETE("/notifications/:id", notifHandler.MarkRead)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate, isMember))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
