// Package storage defines the persistence interfaces for the chatbot
// backend. Implementations live in the memory and postgres subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/user"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// UserStore persists chatbot user identities.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id int64) (user.User, error)
	GetUserByKakaoID(ctx context.Context, kakaoID string) (user.User, error)
	GetUserByPlusfriendKey(ctx context.Context, key string) (user.User, error)
	GetUserByAppUserID(ctx context.Context, appUserID string) (user.User, error)
}
