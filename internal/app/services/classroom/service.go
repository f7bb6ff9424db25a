// Package classroom implements the empty-classroom skill, backed by the
// classroom-timetable service.
package classroom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/classroom"
	"github.com/sandol-project/kakao-bot-service/internal/cache"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
	"github.com/sandol-project/kakao-bot-service/internal/platform/kst"
	"github.com/sandol-project/kakao-bot-service/internal/upstream"
	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

// Service answers the empty-classroom skill blocks. Lookups run as the
// service account.
type Service struct {
	client    *upstream.Client
	loc       *time.Location
	cache     cache.Cache
	ttl       time.Duration
	serviceID int64
	now       func() time.Time
	log       *logger.Logger
}

// New constructs the classroom service. loc is the campus timezone used to
// resolve "now". A nil cache disables caching.
func New(client *upstream.Client, loc *time.Location, c cache.Cache, ttl time.Duration, serviceID int64, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.NewDefault("classroom")
	}
	return &Service{
		client:    client,
		loc:       loc,
		cache:     c,
		ttl:       ttl,
		serviceID: serviceID,
		now:       time.Now,
		log:       log,
	}
}

// SearchByTime returns buildings with rooms free for the whole window.
// day is a full Korean weekday name ("월요일"); times are "HH:MM".
func (s *Service) SearchByTime(ctx context.Context, day, startTime, endTime string) ([]classroom.BuildingAvailability, error) {
	key := fmt.Sprintf("classroom:%s:%s:%s", day, startTime, endTime)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached []classroom.BuildingAvailability
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			_ = s.cache.Delete(ctx, key)
		}
	}

	query := url.Values{
		"day":        []string{day},
		"start_time": []string{startTime},
		"end_time":   []string{endTime},
	}
	var out []classroom.BuildingAvailability
	if err := s.client.GetJSON(ctx, s.serviceID, "/classrooms/available/time", query, &out); err != nil {
		return nil, fmt.Errorf("search empty classrooms: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
				s.log.WithError(err).WithField("key", key).Warn("cache classroom lookup")
			}
		}
	}
	return out, nil
}

// EmptyByTime answers the time-window block. Params day, start_time and
// end_time must all be present.
func (s *Service) EmptyByTime(ctx context.Context, p *kakao.Payload) (*kakao.Response, error) {
	day := p.Param("day")
	startTime := p.Param("start_time")
	endTime := p.Param("end_time")
	if day == "" || startTime == "" || endTime == "" {
		return kakao.Text("빈 강의실 조회에 필요한 파라미터가 부족합니다."), nil
	}

	available, err := s.SearchByTime(ctx, day, startTime, endTime)
	if err != nil {
		return nil, err
	}
	return availabilityResponse(available, s.log), nil
}

// EmptyNow answers the "현재 빈 강의실" block using a one-minute window
// starting at the current campus time.
func (s *Service) EmptyNow(ctx context.Context, _ *kakao.Payload) (*kakao.Response, error) {
	now := s.now().In(s.loc)
	day := kst.Weekday(now.Weekday()) + "요일"
	startTime := now.Format("15:04")
	endTime := now.Add(time.Minute).Format("15:04")

	available, err := s.SearchByTime(ctx, day, startTime, endTime)
	if err != nil {
		return nil, err
	}
	return availabilityResponse(available, s.log), nil
}

func availabilityResponse(available []classroom.BuildingAvailability, log *logger.Logger) *kakao.Response {
	resp := kakao.NewResponse()
	for _, component := range AvailabilityComponents(available, log) {
		resp.AddComponent(component)
	}
	return resp
}
