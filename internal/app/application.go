// Package app assembles the chatbot backend: upstream clients, domain
// services, the cache and the lifecycle manager.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sandol-project/kakao-bot-service/internal/app/services/classroom"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/meals"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/notices"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/statics"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/users"
	"github.com/sandol-project/kakao-bot-service/internal/app/storage"
	"github.com/sandol-project/kakao-bot-service/internal/app/storage/memory"
	"github.com/sandol-project/kakao-bot-service/internal/app/system"
	"github.com/sandol-project/kakao-bot-service/internal/cache"
	"github.com/sandol-project/kakao-bot-service/internal/config"
	"github.com/sandol-project/kakao-bot-service/internal/upstream"
	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

// Stores encapsulates persistence dependencies. A nil store defaults to
// the in-memory implementation.
type Stores struct {
	Users storage.UserStore
}

// Application ties the domain services together and manages their
// lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Users     *users.Service
	Meals     *meals.Service
	Notices   *notices.Service
	Statics   *statics.Service
	Classroom *classroom.Service
}

// accountBootstrap creates the shared service account when the
// application starts.
type accountBootstrap struct {
	users *users.Service
}

func (b accountBootstrap) Name() string { return "service-account-bootstrap" }

func (b accountBootstrap) Start(ctx context.Context) error {
	return b.users.EnsureServiceAccount(ctx)
}

func (b accountBootstrap) Stop(context.Context) error { return nil }

// New builds a fully initialised application from configuration. ctx only
// bounds construction (the Redis connection check); it does not control
// the application's lifetime.
func New(ctx context.Context, cfg *config.Config, stores Stores, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}
	if stores.Users == nil {
		stores.Users = memory.New()
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}

	userClient, err := upstream.New("user", httpClient, cfg.Upstream.UserServiceURL, log)
	if err != nil {
		return nil, fmt.Errorf("user service client: %w", err)
	}
	mealClient, err := upstream.New("meal", httpClient, cfg.Upstream.MealServiceURL, log)
	if err != nil {
		return nil, fmt.Errorf("meal service client: %w", err)
	}
	staticClient, err := upstream.New("static-info", httpClient, cfg.Upstream.StaticInfoServiceURL, log)
	if err != nil {
		return nil, fmt.Errorf("static info service client: %w", err)
	}
	noticeClient, err := upstream.New("notice", httpClient, cfg.Upstream.NoticeServiceURL, log)
	if err != nil {
		return nil, fmt.Errorf("notice service client: %w", err)
	}
	classroomClient, err := upstream.New("classroom-timetable", httpClient, cfg.Upstream.ClassroomTimetableServiceURL, log)
	if err != nil {
		return nil, fmt.Errorf("classroom timetable service client: %w", err)
	}

	var store cache.Cache
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store = redisCache
		log.Info("using redis cache")
	} else {
		store = cache.NewMemory()
		log.Info("REDIS_URL not set; using in-process cache")
	}

	loc := cfg.Location()

	userService := users.New(stores.Users, userClient, cfg.ServiceID, cfg.Debug, log)
	mealService := meals.New(mealClient, loc, log)
	noticeService := notices.New(noticeClient, store, cfg.Cache.TTL, cfg.ServiceID, log)
	staticService := statics.New(staticClient, store, cfg.Cache.TTL, cfg.ServiceID, log)
	classroomService := classroom.New(classroomClient, loc, store, cfg.Cache.TTL, cfg.ServiceID, log)

	manager := system.NewManager()
	if err := manager.Register(accountBootstrap{users: userService}); err != nil {
		return nil, fmt.Errorf("register account bootstrap: %w", err)
	}

	warmer := notices.NewWarmer(noticeService, cfg.Cache.WarmSchedule, cfg.Cache.WarmOnStartup, log)
	if err := manager.Register(warmer); err != nil {
		return nil, fmt.Errorf("register %s: %w", warmer.Name(), err)
	}

	return &Application{
		manager:   manager,
		log:       log,
		Users:     userService,
		Meals:     mealService,
		Notices:   noticeService,
		Statics:   staticService,
		Classroom: classroomService,
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before
// Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
