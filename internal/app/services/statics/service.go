// Package statics implements the organization-info and shuttle-bus skill
// blocks, backed by the static-info service.
package statics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/statics"
	"github.com/sandol-project/kakao-bot-service/internal/cache"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
	"github.com/sandol-project/kakao-bot-service/internal/upstream"
	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

// defaultOrganization is looked up when the utterance names no
// organization.
const defaultOrganization = "대표연락처"

const shuttleCacheKey = "statics:shuttle"

// Service answers the statics skill blocks. Lookups run as the service
// account since the data is public.
type Service struct {
	client    *upstream.Client
	cache     cache.Cache
	ttl       time.Duration
	serviceID int64
	log       *logger.Logger
}

// New constructs the statics service. A nil cache disables caching.
func New(client *upstream.Client, c cache.Cache, ttl time.Duration, serviceID int64, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("statics")
	}
	return &Service{
		client:    client,
		cache:     c,
		ttl:       ttl,
		serviceID: serviceID,
		log:       log,
	}
}

// SearchOrganization resolves an organization by name. A nil node with nil
// error means the name decoded to nothing usable.
func (s *Service) SearchOrganization(ctx context.Context, name string) (*statics.Node, error) {
	key := "statics:org:" + name
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			if node, err := statics.ParseNode(raw); err == nil {
				return &node, nil
			}
			_ = s.cache.Delete(ctx, key)
		}
	}

	raw, err := s.client.GetRaw(ctx, s.serviceID, "/organization/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("search organization %q: %w", name, err)
	}
	node, err := statics.ParseNode(raw)
	if err != nil {
		s.log.WithError(err).WithField("organization", name).Warn("organization parse failed")
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			s.log.WithError(err).Warn("organization cache write failed")
		}
	}
	return &node, nil
}

// FetchShuttleImages returns the shuttle timetable image URLs.
func (s *Service) FetchShuttleImages(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, shuttleCacheKey); err == nil {
			var urls []string
			if err := json.Unmarshal(raw, &urls); err == nil {
				return urls, nil
			}
			_ = s.cache.Delete(ctx, shuttleCacheKey)
		}
	}

	var out struct {
		ImageURLs []string `json:"image_urls"`
	}
	if err := s.client.GetJSON(ctx, s.serviceID, "/bus/images", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch shuttle images: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(out.ImageURLs); err == nil {
			if err := s.cache.Set(ctx, shuttleCacheKey, raw, s.ttl); err != nil {
				s.log.WithError(err).Warn("shuttle cache write failed")
			}
		}
	}
	return out.ImageURLs, nil
}

// Info answers the "정보 검색" block: groups render their member list,
// units their contact card.
func (s *Service) Info(ctx context.Context, p *kakao.Payload) (*kakao.Response, error) {
	name := p.Param("organization")
	if name == "" {
		name = defaultOrganization
	}

	node, err := s.SearchOrganization(ctx, name)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return kakao.Text("해당 조직을 찾을 수 없습니다."), nil
	}

	if node.IsGroup() {
		return kakao.NewResponse().AddComponent(GroupList(*node.Group)), nil
	}
	return kakao.NewResponse().AddComponent(UnitCard(*node.Unit)), nil
}

// UnitInfo answers the "조직 정보" block reached from a group list row. The
// unit's fields ride in clientExtra, so no upstream call is needed.
func (s *Service) UnitInfo(_ context.Context, p *kakao.Payload) (*kakao.Response, error) {
	unit := statics.Unit{
		Name:  p.ClientExtraString("name"),
		Phone: p.ClientExtraString("phone"),
		URL:   p.ClientExtraString("url"),
	}
	if unit.Name == "" {
		return kakao.Text("해당 조직을 찾을 수 없습니다."), nil
	}
	return kakao.NewResponse().AddComponent(UnitCard(unit)), nil
}

// ShuttleInfo answers the "셔틀버스 정보" block with the timetable images,
// newest first.
func (s *Service) ShuttleInfo(ctx context.Context, _ *kakao.Payload) (*kakao.Response, error) {
	images, err := s.FetchShuttleImages(ctx)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return kakao.Text("셔틀버스 정보가 없습니다."), nil
	}

	resp := kakao.NewResponse()
	for i := len(images) - 1; i >= 0; i-- {
		resp.AddComponent(kakao.SimpleImage{ImageURL: images[i], AltText: "셔틀버스 정보 사진"})
	}
	return resp, nil
}
