// Package notices implements the campus and dormitory notice skill,
// backed by the notice service with a warmed cache in front.
package notices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/notice"
	"github.com/sandol-project/kakao-bot-service/internal/cache"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
	"github.com/sandol-project/kakao-bot-service/internal/upstream"
	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

const (
	// listPageSize caps how many notices a single skill reply covers.
	listPageSize = 20
	// authorSearchPageSize is the page size used while walking pages
	// during an author search.
	authorSearchPageSize = 50

	campusCacheKey = "notices:campus"
	dormCacheKey   = "notices:dormitory"
)

// Service answers the notice skill blocks.
type Service struct {
	client    *upstream.Client
	cache     cache.Cache
	ttl       time.Duration
	serviceID int64
	log       *logger.Logger
}

// New constructs the notice service. Fetches run as the service account
// since notices are public. A nil cache disables caching.
func New(client *upstream.Client, c cache.Cache, ttl time.Duration, serviceID int64, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("notices")
	}
	return &Service{
		client:    client,
		cache:     c,
		ttl:       ttl,
		serviceID: serviceID,
		log:       log,
	}
}

func noticePath(dormitory bool) string {
	if dormitory {
		return "/dormitory-notice"
	}
	return "/notice"
}

// FetchPage returns one page of notices, newest first, from the campus or
// dormitory board.
func (s *Service) FetchPage(ctx context.Context, page, size int, dormitory bool) (notice.Page, error) {
	query := url.Values{
		"page": []string{strconv.Itoa(page)},
		"size": []string{strconv.Itoa(size)},
	}
	var out notice.Page
	if err := s.client.GetJSON(ctx, s.serviceID, noticePath(dormitory), query, &out); err != nil {
		return notice.Page{}, fmt.Errorf("fetch notices: %w", err)
	}
	return out, nil
}

// FetchByAuthor walks pages until it has collected `limit` notices whose
// author contains the given name, or the board runs out.
func (s *Service) FetchByAuthor(ctx context.Context, author string, limit int, dormitory bool) ([]notice.Notice, error) {
	var matched []notice.Notice
	for page := 1; len(matched) < limit; page++ {
		result, err := s.FetchPage(ctx, page, authorSearchPageSize, dormitory)
		if err != nil {
			return nil, err
		}
		for _, n := range result.Items {
			if strings.Contains(n.Author, author) {
				matched = append(matched, n)
			}
		}
		if len(result.Items) < authorSearchPageSize {
			break
		}
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// firstPage returns the first page of a board, consulting the cache first.
func (s *Service) firstPage(ctx context.Context, dormitory bool) ([]notice.Notice, error) {
	key := campusCacheKey
	if dormitory {
		key = dormCacheKey
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var items []notice.Notice
			if err := json.Unmarshal(raw, &items); err == nil {
				return items, nil
			}
			s.log.WithField("key", key).Warn("dropping undecodable cache entry")
			_ = s.cache.Delete(ctx, key)
		}
	}

	result, err := s.FetchPage(ctx, 1, listPageSize, dormitory)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, result.Items)
	return result.Items, nil
}

func (s *Service) store(ctx context.Context, key string, items []notice.Notice) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("notice cache write failed")
	}
}

// Warm refreshes both boards in the cache. Used by the cache warmer and at
// startup.
func (s *Service) Warm(ctx context.Context) error {
	for _, dormitory := range []bool{false, true} {
		result, err := s.FetchPage(ctx, 1, listPageSize, dormitory)
		if err != nil {
			return err
		}
		key := campusCacheKey
		if dormitory {
			key = dormCacheKey
		}
		s.store(ctx, key, result.Items)
	}
	return nil
}

// List answers the "공지사항" block. Optional payload params: "author"
// filters by author name; clientExtra "dormitory" switches boards.
func (s *Service) List(ctx context.Context, p *kakao.Payload) (*kakao.Response, error) {
	dormitory := p.ClientExtraString("dormitory") == "true" || p.Param("dormitory") == "true"
	author := p.Param("author")

	var items []notice.Notice
	var err error
	if author != "" {
		items, err = s.FetchByAuthor(ctx, author, listPageSize, dormitory)
	} else {
		items, err = s.firstPage(ctx, dormitory)
	}
	if err != nil {
		return nil, err
	}

	return kakao.NewResponse().
		AddComponent(NoticeComponent(items, author != "", dormitory)), nil
}
