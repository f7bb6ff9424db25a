// Package memory implements the storage interfaces with in-process maps.
// It is safe for concurrent use and is primarily intended for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/user"
	"github.com/sandol-project/kakao-bot-service/internal/app/storage"
)

// Store is the in-memory implementation of storage.UserStore.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]user.User

	byKakaoID    map[string]int64
	byPlusfriend map[string]int64
	byAppUserID  map[string]int64
}

var _ storage.UserStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:       1,
		users:        make(map[int64]user.User),
		byKakaoID:    make(map[string]int64),
		byPlusfriend: make(map[string]int64),
		byAppUserID:  make(map[string]int64),
	}
}

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		for {
			if _, taken := s.users[s.nextID]; !taken {
				break
			}
			s.nextID++
		}
		u.ID = s.nextID
		s.nextID++
	} else if _, exists := s.users[u.ID]; exists {
		return user.User{}, fmt.Errorf("user %d already exists", u.ID)
	}

	if u.KakaoID == "" {
		return user.User{}, fmt.Errorf("kakao_id is required")
	}
	if _, exists := s.byKakaoID[u.KakaoID]; exists {
		return user.User{}, fmt.Errorf("kakao_id %s already registered", u.KakaoID)
	}

	s.users[u.ID] = u
	s.index(u)
	return u, nil
}

func (s *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[u.ID]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}

	s.unindex(original)
	s.users[u.ID] = u
	s.index(u)
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByKakaoID(_ context.Context, kakaoID string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byIndex(s.byKakaoID, kakaoID)
}

func (s *Store) GetUserByPlusfriendKey(_ context.Context, key string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byIndex(s.byPlusfriend, key)
}

func (s *Store) GetUserByAppUserID(_ context.Context, appUserID string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byIndex(s.byAppUserID, appUserID)
}

func (s *Store) byIndex(index map[string]int64, key string) (user.User, error) {
	if key == "" {
		return user.User{}, storage.ErrNotFound
	}
	id, ok := index[key]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) index(u user.User) {
	s.byKakaoID[u.KakaoID] = u.ID
	if u.PlusfriendUserKey != "" {
		s.byPlusfriend[u.PlusfriendUserKey] = u.ID
	}
	if u.AppUserID != "" {
		s.byAppUserID[u.AppUserID] = u.ID
	}
}

func (s *Store) unindex(u user.User) {
	delete(s.byKakaoID, u.KakaoID)
	if u.PlusfriendUserKey != "" {
		delete(s.byPlusfriend, u.PlusfriendUserKey)
	}
	if u.AppUserID != "" {
		delete(s.byAppUserID, u.AppUserID)
	}
}
