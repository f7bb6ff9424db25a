package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/meal"
	"github.com/sandol-project/kakao-bot-service/internal/app/domain/notice"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/classroom"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/meals"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/notices"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/statics"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/users"
	"github.com/sandol-project/kakao-bot-service/internal/app/storage/memory"
	"github.com/sandol-project/kakao-bot-service/internal/upstream"
)

const samplePayload = `{
	"intent": {"id": "block-1", "name": "블록"},
	"userRequest": {
		"timezone": "Asia/Seoul",
		"utterance": "학식",
		"user": {
			"id": "kakao-user-1",
			"type": "botUserKey",
			"properties": {"plusfriendUserKey": "pf-1", "appUserId": "app-1"}
		}
	},
	"action": {"params": {}, "detailParams": {}, "clientExtra": {}}
}`

// newTestHandler wires every service against one fake upstream server.
func newTestHandler(t *testing.T, upstreamHandler http.Handler) (*Handler, func()) {
	t.Helper()
	srv := httptest.NewServer(upstreamHandler)

	newClient := func(name string) *upstream.Client {
		client, err := upstream.New(name, srv.Client(), srv.URL, nil)
		require.NoError(t, err)
		return client
	}

	store := memory.New()
	userSvc := users.New(store, newClient("user"), 4, false, nil)

	handler := New(Services{
		Users:     userSvc,
		Meals:     meals.New(newClient("meal"), time.UTC, nil),
		Notices:   notices.New(newClient("notice"), nil, time.Minute, 4, nil),
		Statics:   statics.New(newClient("static-info"), nil, time.Minute, 4, nil),
		Classroom: classroom.New(newClient("classroom-timetable"), time.UTC, nil, 0, 4, nil),
	}, nil)
	return handler, srv.Close
}

func postSkill(t *testing.T, router http.Handler, path, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestRootAndHealth(t *testing.T) {
	handler, closeSrv := newTestHandler(t, http.NotFoundHandler())
	defer closeSrv()
	router := handler.Router("")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Hello Sandol")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetIDEchoesKakaoID(t *testing.T) {
	handler, closeSrv := newTestHandler(t, http.NotFoundHandler())
	defer closeSrv()
	router := handler.Router("")

	rec := postSkill(t, router, "/get_id", samplePayload)
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	require.Equal(t, "2.0", envelope["version"])
	require.Contains(t, rec.Body.String(), "kakao-user-1")
}

func TestMealViewCreatesAccountAndRenders(t *testing.T) {
	now := time.Now().UTC()
	handler, closeSrv := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/meals/latest", r.URL.Path)
		require.NotEmpty(t, r.Header.Get(upstream.UserIDHeader))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []meal.Meal{
				{RestaurantName: "산돌식당", Type: meal.Lunch, Menu: []string{"김치찌개"}, UpdatedAt: now},
			},
		})
	}))
	defer closeSrv()
	router := handler.Router("")

	rec := postSkill(t, router, "/meal/view", samplePayload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "산돌식당(점심)")
}

func TestSkillFailureStillAnswers200WithErrorCard(t *testing.T) {
	handler, closeSrv := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer closeSrv()
	router := handler.Router("")

	rec := postSkill(t, router, "/meal/view", samplePayload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "오류 발생")
	require.Contains(t, rec.Body.String(), "죄송합니다. 서버 오류가 발생했습니다.")
}

func TestSkillRejectsPayloadWithoutUser(t *testing.T) {
	handler, closeSrv := newTestHandler(t, http.NotFoundHandler())
	defer closeSrv()
	router := handler.Router("")

	rec := postSkill(t, router, "/notice/list", `{"userRequest": {"user": {"id": ""}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "오류 발생")
}

func TestNoticeListRoute(t *testing.T) {
	handler, closeSrv := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/notice", r.URL.Path)
		_ = json.NewEncoder(w).Encode(notice.Page{
			Items: []notice.Notice{{ID: 1, Title: "공지", Author: "학사팀", URL: "https://x", CreatedAt: time.Now()}},
			Total: 1, Page: 1, Size: 20,
		})
	}))
	defer closeSrv()
	router := handler.Router("")

	rec := postSkill(t, router, "/notice/list", samplePayload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "공지사항")
}

func TestMealRegisterInvalidMealType(t *testing.T) {
	handler, closeSrv := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []meal.Restaurant{{ID: 1, Name: "산돌식당"}},
		})
	}))
	defer closeSrv()
	router := handler.Router("")

	rec := postSkill(t, router, "/meal/register/breakfast", samplePayload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "오류 발생")
}

func TestBasePathRouting(t *testing.T) {
	handler, closeSrv := newTestHandler(t, http.NotFoundHandler())
	defer closeSrv()
	router := handler.Router("/kakao-bot")

	rec := postSkill(t, router, "/kakao-bot/get_id", samplePayload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "kakao-user-1")

	// Without the prefix the route does not exist.
	rec = postSkill(t, router, "/get_id", samplePayload)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClassroomEmptyTimeRoute(t *testing.T) {
	handler, closeSrv := newTestHandler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"building": "A동", "empty_classrooms": []string{"103호"}},
		})
	}))
	defer closeSrv()
	router := handler.Router("")

	payload := `{
		"userRequest": {"user": {"id": "kakao-user-1"}},
		"action": {"detailParams": {
			"day": {"value": "월요일"},
			"start_time": {"value": "09:00"},
			"end_time": {"value": "10:00"}
		}}
	}`
	rec := postSkill(t, router, "/classroom/empty/time", payload)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "A동")
}
