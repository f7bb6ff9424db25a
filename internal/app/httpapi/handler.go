// Package httpapi wires the skill endpoints Open Builder calls into the
// domain services.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/meal"
	"github.com/sandol-project/kakao-bot-service/internal/app/domain/user"
	"github.com/sandol-project/kakao-bot-service/internal/app/metrics"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/classroom"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/meals"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/notices"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/statics"
	"github.com/sandol-project/kakao-bot-service/internal/app/services/users"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

// Services bundles the domain services the handler dispatches to.
type Services struct {
	Users     *users.Service
	Meals     *meals.Service
	Notices   *notices.Service
	Statics   *statics.Service
	Classroom *classroom.Service
}

// Handler serves the skill webhook surface.
type Handler struct {
	services Services
	log      *logger.Logger
}

// New constructs the handler.
func New(services Services, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	return &Handler{services: services, log: log}
}

// Router builds the route table under basePath ("" or "/kakao-bot") and
// applies the given middleware to every route.
func (h *Handler) Router(basePath string, middleware ...mux.MiddlewareFunc) *mux.Router {
	root := mux.NewRouter()
	router := root
	if basePath != "" && basePath != "/" {
		router = root.PathPrefix(basePath).Subrouter()
	}
	for _, mw := range middleware {
		router.Use(mw)
	}

	router.HandleFunc("/", h.root).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	router.HandleFunc("/get_id", h.skill("get_id", h.getID)).Methods(http.MethodPost)

	router.HandleFunc("/meal/view", h.userSkill("meal_view", func(ctx context.Context, p *kakao.Payload, u user.User) (*kakao.Response, error) {
		return h.services.Meals.View(ctx, p, u.ID)
	})).Methods(http.MethodPost)
	router.HandleFunc("/meal/restaurant", h.userSkill("meal_restaurant", func(ctx context.Context, p *kakao.Payload, u user.User) (*kakao.Response, error) {
		return h.services.Meals.RestaurantInfo(ctx, p, u.ID)
	})).Methods(http.MethodPost)
	router.HandleFunc("/meal/register/{meal_type}", h.mealRegister).Methods(http.MethodPost)
	router.HandleFunc("/meal/submit", h.userSkill("meal_submit", func(ctx context.Context, p *kakao.Payload, u user.User) (*kakao.Response, error) {
		return h.services.Meals.Submit(ctx, p, u.ID)
	})).Methods(http.MethodPost)

	router.HandleFunc("/notice/list", h.skill("notice_list", h.services.Notices.List)).Methods(http.MethodPost)

	router.HandleFunc("/statics/info", h.skill("statics_info", h.services.Statics.Info)).Methods(http.MethodPost)
	router.HandleFunc("/statics/unit_info", h.skill("statics_unit_info", h.services.Statics.UnitInfo)).Methods(http.MethodPost)
	router.HandleFunc("/statics/shuttle_info", h.skill("statics_shuttle_info", h.services.Statics.ShuttleInfo)).Methods(http.MethodPost)

	router.HandleFunc("/classroom/empty/time", h.skill("classroom_empty_time", h.services.Classroom.EmptyByTime)).Methods(http.MethodPost)
	router.HandleFunc("/classroom/empty/now", h.skill("classroom_empty_now", h.services.Classroom.EmptyNow)).Methods(http.MethodPost)

	return root
}

func (h *Handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"test": "Hello Sandol"})
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) getID(_ context.Context, p *kakao.Payload) (*kakao.Response, error) {
	id := p.UserID()
	if id == "" {
		id = "No ID"
	}
	return kakao.Text(id), nil
}

func (h *Handler) mealRegister(w http.ResponseWriter, r *http.Request) {
	mealType := meal.Type(mux.Vars(r)["meal_type"])
	endpoint := "meal_register_" + string(mealType)
	h.userSkill(endpoint, func(ctx context.Context, p *kakao.Payload, u user.User) (*kakao.Response, error) {
		return h.services.Meals.Register(ctx, p, u.ID, mealType)
	})(w, r)
}

// skill wraps a payload-only handler. Skill endpoints always answer
// HTTP 200; failures render the error card instead.
func (h *Handler) skill(endpoint string, fn func(context.Context, *kakao.Payload) (*kakao.Response, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := kakao.ParsePayload(r.Body)
		if err != nil {
			h.writeFailure(w, endpoint, err)
			return
		}
		resp, err := fn(r.Context(), p)
		if err != nil {
			h.writeFailure(w, endpoint, err)
			return
		}
		metrics.RecordSkillResponse(endpoint, "ok")
		writeJSON(w, http.StatusOK, resp)
	}
}

// userSkill additionally resolves the chat user to an account before
// dispatching.
func (h *Handler) userSkill(endpoint string, fn func(context.Context, *kakao.Payload, user.User) (*kakao.Response, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := kakao.ParsePayload(r.Body)
		if err != nil {
			h.writeFailure(w, endpoint, err)
			return
		}
		kakaoID, plusfriendKey, appUserID := p.Identity()
		account, err := h.services.Users.GetOrCreate(r.Context(), kakaoID, plusfriendKey, appUserID)
		if err != nil {
			h.writeFailure(w, endpoint, err)
			return
		}
		resp, err := fn(r.Context(), p, account)
		if err != nil {
			h.writeFailure(w, endpoint, err)
			return
		}
		metrics.RecordSkillResponse(endpoint, "ok")
		writeJSON(w, http.StatusOK, resp)
	}
}

// writeFailure renders a failure as an HTTP 200 error card. A kakao.Error
// carries its own user-facing message; anything else gets the generic
// card and a server-side log line.
func (h *Handler) writeFailure(w http.ResponseWriter, endpoint string, err error) {
	metrics.RecordSkillResponse(endpoint, "error")

	var userErr *kakao.Error
	if errors.As(err, &userErr) {
		writeJSON(w, http.StatusOK, userErr.Response())
		return
	}

	h.log.WithError(err).WithField("endpoint", endpoint).Error("skill request failed")
	writeJSON(w, http.StatusOK, kakao.NewResponse().AddComponent(kakao.ErrorCard("")))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
