// Package users resolves Kakao identities to chatbot accounts and checks
// admin permissions against the user service.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/user"
	"github.com/sandol-project/kakao-bot-service/internal/app/storage"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
	"github.com/sandol-project/kakao-bot-service/internal/upstream"
	"github.com/sandol-project/kakao-bot-service/pkg/logger"
)

// ErrNotAdmin is wrapped in the kakao error returned to non-admin callers
// of admin-only blocks.
var ErrNotAdmin = errors.New("관리자 권한이 없습니다.")

// Service manages chatbot accounts.
type Service struct {
	store      storage.UserStore
	userClient *upstream.Client
	serviceID  int64
	debug      bool
	log        *logger.Logger
}

// New constructs the user service. userClient may be nil when the user
// service is unreachable, in which case global-admin checks fail closed.
func New(store storage.UserStore, userClient *upstream.Client, serviceID int64, debug bool, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	return &Service{
		store:      store,
		userClient: userClient,
		serviceID:  serviceID,
		debug:      debug,
		log:        log,
	}
}

// ServiceID returns the account id used for unattended upstream calls.
func (s *Service) ServiceID() int64 { return s.serviceID }

// GetOrCreate resolves the Kakao identity triple to a chatbot account,
// searching by plusfriend key first, then app user id, then kakao id.
// Missing accounts are created and stale identity columns are backfilled
// from the payload.
func (s *Service) GetOrCreate(ctx context.Context, kakaoID, plusfriendKey, appUserID string) (user.User, error) {
	if kakaoID == "" {
		return user.User{}, errors.New("kakao id required")
	}

	found, err := s.search(ctx, kakaoID, plusfriendKey, appUserID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return user.User{}, err
	}
	if errors.Is(err, storage.ErrNotFound) {
		created, createErr := s.store.CreateUser(ctx, user.User{
			KakaoID:           kakaoID,
			PlusfriendUserKey: plusfriendKey,
			AppUserID:         appUserID,
		})
		if createErr != nil {
			return user.User{}, fmt.Errorf("create user: %w", createErr)
		}
		s.log.WithField("user_id", created.ID).Info("created chatbot account")
		return created, nil
	}

	return s.backfill(ctx, found, kakaoID, plusfriendKey, appUserID)
}

func (s *Service) search(ctx context.Context, kakaoID, plusfriendKey, appUserID string) (user.User, error) {
	if plusfriendKey != "" {
		if u, err := s.store.GetUserByPlusfriendKey(ctx, plusfriendKey); err == nil {
			return u, nil
		} else if !errors.Is(err, storage.ErrNotFound) {
			return user.User{}, err
		}
	}
	if appUserID != "" {
		if u, err := s.store.GetUserByAppUserID(ctx, appUserID); err == nil {
			return u, nil
		} else if !errors.Is(err, storage.ErrNotFound) {
			return user.User{}, err
		}
	}
	return s.store.GetUserByKakaoID(ctx, kakaoID)
}

// backfill refreshes identity columns that changed since the account was
// created. The kakao id always follows the payload; the other keys are
// only filled in, never cleared.
func (s *Service) backfill(ctx context.Context, u user.User, kakaoID, plusfriendKey, appUserID string) (user.User, error) {
	if u.KakaoID == kakaoID && u.PlusfriendUserKey == plusfriendKey && u.AppUserID == appUserID {
		return u, nil
	}
	u.KakaoID = kakaoID
	if plusfriendKey != "" {
		u.PlusfriendUserKey = plusfriendKey
	}
	if appUserID != "" {
		u.AppUserID = appUserID
	}
	updated, err := s.store.UpdateUser(ctx, u)
	if err != nil {
		return user.User{}, fmt.Errorf("backfill user ids: %w", err)
	}
	return updated, nil
}

// GetByID returns the account with the given internal id.
func (s *Service) GetByID(ctx context.Context, id int64) (user.User, error) {
	return s.store.GetUser(ctx, id)
}

// EnsureServiceAccount creates the service account used for unattended
// upstream calls if it does not exist. Runs once at startup.
func (s *Service) EnsureServiceAccount(ctx context.Context) error {
	_, err := s.store.GetUser(ctx, s.serviceID)
	if err == nil {
		s.log.Info("service account already exists")
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	_, err = s.store.CreateUser(ctx, user.User{
		ID:                s.serviceID,
		KakaoID:           user.ServiceKakaoID,
		PlusfriendUserKey: user.ServiceKakaoID,
		AppUserID:         user.ServiceKakaoID,
		KakaoAdmin:        true,
	})
	if err != nil {
		// A concurrent replica may have won the race.
		if _, getErr := s.store.GetUser(ctx, s.serviceID); getErr == nil {
			s.log.Warn("duplicate service account detected")
			return nil
		}
		return fmt.Errorf("create service account: %w", err)
	}
	s.log.Info("service account created")
	return nil
}

// IsGlobalAdmin asks the user service whether the account holds global
// admin rights. In debug mode only user 1 is treated as admin.
func (s *Service) IsGlobalAdmin(ctx context.Context, userID int64) (bool, error) {
	if s.debug {
		return userID == 1, nil
	}
	if s.userClient == nil {
		return false, errors.New("user service not configured")
	}
	var out struct {
		IsGlobalAdmin bool `json:"is_global_admin"`
	}
	path := fmt.Sprintf("/api/users/%d/is_global_admin/", userID)
	if err := s.userClient.GetJSON(ctx, userID, path, nil, &out); err != nil {
		return false, err
	}
	return out.IsGlobalAdmin, nil
}

// CheckAdmin returns nil when the account may use admin-only blocks. The
// kakao admin flag short-circuits; otherwise the user service is asked.
// Non-admins get a user-facing kakao error.
func (s *Service) CheckAdmin(ctx context.Context, u user.User) error {
	if u.KakaoAdmin {
		return nil
	}
	isAdmin, err := s.IsGlobalAdmin(ctx, u.ID)
	if err != nil {
		s.log.WithError(err).Warn("global admin check failed")
		return err
	}
	if !isAdmin {
		return kakao.NewError(ErrNotAdmin.Error())
	}
	return nil
}
