// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/user"
	"github.com/sandol-project/kakao-bot-service/internal/app/storage"
)

// Store implements storage.UserStore over a PostgreSQL database.
type Store struct {
	db *sqlx.DB
}

var _ storage.UserStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type userRow struct {
	ID                int64          `db:"id"`
	KakaoID           string         `db:"kakao_id"`
	PlusfriendUserKey sql.NullString `db:"plusfriend_user_key"`
	AppUserID         sql.NullString `db:"app_user_id"`
	KakaoAdmin        bool           `db:"kakao_admin"`
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:                r.ID,
		KakaoID:           r.KakaoID,
		PlusfriendUserKey: r.PlusfriendUserKey.String,
		AppUserID:         r.AppUserID.String,
		KakaoAdmin:        r.KakaoAdmin,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.KakaoID == "" {
		return user.User{}, fmt.Errorf("kakao_id is required")
	}

	var row userRow
	var err error
	if u.ID != 0 {
		// Explicit ids are used for the bootstrap service account.
		err = s.db.GetContext(ctx, &row, `
			INSERT INTO users (id, kakao_id, plusfriend_user_key, app_user_id, kakao_admin)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, kakao_id, plusfriend_user_key, app_user_id, kakao_admin
		`, u.ID, u.KakaoID, nullable(u.PlusfriendUserKey), nullable(u.AppUserID), u.KakaoAdmin)
		if err == nil {
			// Keep the identity sequence ahead of explicitly inserted ids.
			_, err = s.db.ExecContext(ctx, `
				SELECT setval(pg_get_serial_sequence('users', 'id'), (SELECT MAX(id) FROM users))
			`)
		}
	} else {
		err = s.db.GetContext(ctx, &row, `
			INSERT INTO users (kakao_id, plusfriend_user_key, app_user_id, kakao_admin)
			VALUES ($1, $2, $3, $4)
			RETURNING id, kakao_id, plusfriend_user_key, app_user_id, kakao_admin
		`, u.KakaoID, nullable(u.PlusfriendUserKey), nullable(u.AppUserID), u.KakaoAdmin)
	}
	if err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return row.toDomain(), nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET kakao_id = $2, plusfriend_user_key = $3, app_user_id = $4, kakao_admin = $5
		WHERE id = $1
	`, u.ID, u.KakaoID, nullable(u.PlusfriendUserKey), nullable(u.AppUserID), u.KakaoAdmin)
	if err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return user.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (user.User, error) {
	return s.getBy(ctx, `WHERE id = $1`, id)
}

func (s *Store) GetUserByKakaoID(ctx context.Context, kakaoID string) (user.User, error) {
	if kakaoID == "" {
		return user.User{}, storage.ErrNotFound
	}
	return s.getBy(ctx, `WHERE kakao_id = $1`, kakaoID)
}

func (s *Store) GetUserByPlusfriendKey(ctx context.Context, key string) (user.User, error) {
	if key == "" {
		return user.User{}, storage.ErrNotFound
	}
	return s.getBy(ctx, `WHERE plusfriend_user_key = $1`, key)
}

func (s *Store) GetUserByAppUserID(ctx context.Context, appUserID string) (user.User, error) {
	if appUserID == "" {
		return user.User{}, storage.ErrNotFound
	}
	return s.getBy(ctx, `WHERE app_user_id = $1`, appUserID)
}

func (s *Store) getBy(ctx context.Context, where string, arg interface{}) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, kakao_id, plusfriend_user_key, app_user_id, kakao_admin
		FROM users
	`+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, storage.ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("select user: %w", err)
	}
	return row.toDomain(), nil
}
