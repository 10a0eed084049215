package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pankaj3399/time-track-sub001/config"
	"github.com/pankaj3399/time-track-sub001/handler"
	"github.com/pankaj3399/time-track-sub001/middleware"
	"github.com/pankaj3399/time-track-sub001/model"
	"github.com/pankaj3399/time-track-sub001/repository"
	"github.com/pankaj3399/time-track-sub001/services"
	"github.com/pankaj3399/time-track-sub001/usecase"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const maxRequestBody = 1 << 20

type app struct {
	cfg     *config.Config
	mongo   *mongo.Client
	redis   *redis.Client
	sweeper *services.SessionSweeper

	// tokens stays a nil interface without Redis so AuthMiddleware skips
	// the blacklist instead of calling a nil client.
	tokens middleware.TokenChecker

	auth     *handler.AuthHandler
	events   *handler.EventHandler
	goals    *handler.GoalHandler
	habits   *handler.HabitHandler
	settings *handler.SettingsHandler
	stats    *handler.StatsHandler
	health   *handler.HealthHandler
	authSvc  *usecase.AuthService
}

func newApp(ctx context.Context, cfg *config.Config, client *mongo.Client) (*app, error) {
	db := client.Database(cfg.Database.DatabaseName)
	if err := repository.SetupIndexes(ctx, db, cfg.Collections); err != nil {
		return nil, err
	}
	repos := repository.NewRepositories(db, cfg.Collections)

	a := &app{cfg: cfg, mongo: client}

	var (
		revoker usecase.TokenRevoker
		cache   usecase.SettingsCache
	)
	if cfg.RedisURL != "" {
		rdb, err := services.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
		blacklist := services.NewTokenBlacklist(rdb)
		revoker, a.tokens = blacklist, blacklist
		cache = services.NewSettingsCache(rdb, cfg.SettingsCacheTTL)
	} else {
		utils.Logger.Warn().Msg("REDIS_URL not set: token revocation and settings cache disabled")
	}

	eventSvc := usecase.NewEventService(repos.Events)
	goalSvc := usecase.NewGoalService(repos.Goals)
	habitSvc := usecase.NewHabitService(repos.Habits)
	settingSvc := usecase.NewSettingService(repos.Settings, cache)
	a.authSvc = usecase.NewAuthService(repos.Users, repos.Sessions, revoker, cfg.SessionDuration(),
		repos.Events, repos.Goals, repos.Habits, repos.Settings)

	a.auth = handler.NewAuthHandler(a.authSvc)
	a.events = handler.NewEventHandler(eventSvc)
	a.goals = handler.NewGoalHandler(goalSvc)
	a.habits = handler.NewHabitHandler(habitSvc)
	a.settings = handler.NewSettingsHandler(settingSvc)
	a.stats = handler.NewStatsHandler(usecase.NewStatsService(a.authSvc, eventSvc, goalSvc, habitSvc))
	a.health = handler.NewHealthHandler(version, a.healthChecks())

	a.sweeper = services.NewSessionSweeper(repos.Sessions, model.SessionIdleTimeout)
	if err := a.sweeper.Start(cfg.SessionSweepCron); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) healthChecks() map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error {
			return a.mongo.Ping(ctx, readpref.Primary())
		},
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (a *app) close() {
	a.sweeper.Stop()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			utils.Logger.Error().Err(err).Msg("redis close failed")
		}
	}
}

func (a *app) router() *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestTracingMiddleware(),
		middleware.RequestLogger(),
		middleware.EnhancedRecoveryMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(a.cfg.AllowedOrigins),
		middleware.SecurityHeaders(),
		middleware.RequestSizeLimiter(maxRequestBody),
	)

	router.GET("/health", middleware.CacheControlMiddleware("no-store"), a.health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", a.auth.Register)
			auth.POST("/login", a.auth.Login)
			auth.POST("/refresh", a.auth.Refresh)
		}
	}

	protected := router.Group("/api")
	protected.Use(
		middleware.AuthMiddleware(a.tokens),
		middleware.SessionMiddleware(a.authSvc),
		middleware.CacheControlMiddleware("no-store"),
	)
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", a.auth.Profile)
			user.POST("/logout", a.auth.Logout)
			user.DELETE("/delete", a.auth.DeleteAccount)
			user.GET("/stats", a.stats.GetUserStats)
			user.POST("/2fa/setup", a.auth.SetupTwoFactor)
			user.POST("/2fa/enable", a.auth.EnableTwoFactor)
			user.POST("/2fa/disable", a.auth.DisableTwoFactor)
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", a.auth.ActiveSessions)
			sessions.POST("/logout-all", a.auth.LogoutAll)
		}

		events := protected.Group("/events")
		{
			events.GET("", a.events.ListEvents)
			events.GET("/occurrences", a.events.Occurrences)
			events.GET("/export.ics", a.events.ExportICS)
			events.GET("/:id", a.events.GetEvent)
			events.POST("", a.events.CreateEvent)
			events.PUT("/:id", a.events.UpdateEvent)
			events.DELETE("/:id", a.events.DeleteEvent)
		}

		goals := protected.Group("/goals")
		{
			goals.GET("", a.goals.ListGoals)
			goals.GET("/timeline", a.goals.Timeline)
			goals.GET("/:id", a.goals.GetGoal)
			goals.GET("/:id/board", a.goals.Board)
			goals.POST("", a.goals.CreateGoal)
			goals.PUT("/:id", a.goals.UpdateGoal)
			goals.DELETE("/:id", a.goals.DeleteGoal)
			goals.PUT("/:id/subtasks/status", a.goals.BulkUpdateSubtaskStatus)
			goals.PUT("/:id/subtasks/:subtaskId/status", a.goals.UpdateSubtaskStatus)
		}

		habits := protected.Group("/habits")
		{
			habits.GET("", a.habits.ListHabits)
			habits.GET("/:id", a.habits.GetHabit)
			habits.POST("", a.habits.CreateHabit)
			habits.PUT("/:id", a.habits.UpdateHabit)
			habits.DELETE("/:id", a.habits.DeleteHabit)
			habits.POST("/:id/completions", a.habits.LogCompletion)
			habits.DELETE("/:id/completions/:date", a.habits.RemoveCompletion)
			habits.GET("/:id/streak", a.habits.Streak)
			habits.GET("/:id/memos", a.habits.ListMemos)
			habits.POST("/:id/memos", a.habits.AddMemo)
			habits.PUT("/:id/memos/:memoId", a.habits.UpdateMemo)
			habits.DELETE("/:id/memos/:memoId", a.habits.DeleteMemo)
		}

		settings := protected.Group("/settings")
		{
			settings.GET("", a.settings.ListSettings)
			settings.POST("", a.settings.CreateSetting)
			settings.PUT("/:id", a.settings.UpdateSetting)
			settings.POST("/:id/toggle", a.settings.ToggleSetting)
			settings.DELETE("/:id", a.settings.DeleteSetting)
		}
	}

	return router
}

// serve runs the router until SIGINT or SIGTERM, then drains in-flight
// requests for up to ten seconds.
func serve(cfg *config.Config, router http.Handler) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Logger.Info().Str("addr", srv.Addr).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	select {
	case err := <-errCh:
		return err
	case sig := <-signalChan:
		utils.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	utils.Logger.Info().Msg("server shutdown complete")
	return nil
}
