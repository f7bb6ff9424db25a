package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sandol-project/kakao-bot-service/internal/app/system"
	"github.com/sandol-project/kakao-bot-service/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ServiceID: 4,
		Timezone:  "UTC",
		Upstream: config.UpstreamConfig{
			UserServiceURL:               "http://user-service:8000",
			MealServiceURL:               "http://meal-service:8000",
			StaticInfoServiceURL:         "http://static-info-service:8000",
			NoticeServiceURL:             "http://notice-service:8000",
			ClassroomTimetableServiceURL: "http://classroom-timetable-service:8000",
		},
		Cache: config.CacheConfig{
			TTL:          time.Minute,
			WarmSchedule: "@every 10m",
		},
	}
}

func TestNewWiresAllServices(t *testing.T) {
	application, err := New(context.Background(), testConfig(), Stores{}, nil)
	require.NoError(t, err)

	require.NotNil(t, application.Users)
	require.NotNil(t, application.Meals)
	require.NotNil(t, application.Notices)
	require.NotNil(t, application.Statics)
	require.NotNil(t, application.Classroom)
}

func TestStartCreatesServiceAccount(t *testing.T) {
	ctx := context.Background()
	application, err := New(ctx, testConfig(), Stores{}, nil)
	require.NoError(t, err)

	require.NoError(t, application.Start(ctx))
	defer func() { require.NoError(t, application.Stop(ctx)) }()

	account, err := application.Users.GetByID(ctx, 4)
	require.NoError(t, err)
	require.True(t, account.IsService())
}

func TestNewRejectsInvalidUpstreamURL(t *testing.T) {
	cfg := testConfig()
	cfg.Upstream.MealServiceURL = ""

	_, err := New(context.Background(), cfg, Stores{}, nil)
	require.Error(t, err)
}

func TestAttachRejectsDuplicateName(t *testing.T) {
	application, err := New(context.Background(), testConfig(), Stores{}, nil)
	require.NoError(t, err)

	require.NoError(t, application.Attach(system.NoopService{ServiceName: "extra"}))
	require.Error(t, application.Attach(system.NoopService{ServiceName: "extra"}))
}
