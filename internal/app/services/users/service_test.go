package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandol-project/kakao-bot-service/internal/app/domain/user"
	"github.com/sandol-project/kakao-bot-service/internal/app/storage/memory"
	"github.com/sandol-project/kakao-bot-service/internal/kakao"
	"github.com/sandol-project/kakao-bot-service/internal/upstream"
)

func TestGetOrCreateCreatesMissingAccount(t *testing.T) {
	store := memory.New()
	svc := New(store, nil, 4, false, nil)

	created, err := svc.GetOrCreate(context.Background(), "kakao-1", "pf-1", "app-1")
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "kakao-1", created.KakaoID)
	require.Equal(t, "pf-1", created.PlusfriendUserKey)
	require.Equal(t, "app-1", created.AppUserID)
	require.False(t, created.KakaoAdmin)
}

func TestGetOrCreatePrefersPlusfriendKey(t *testing.T) {
	store := memory.New()
	svc := New(store, nil, 4, false, nil)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "old-kakao", "pf-1", "")
	require.NoError(t, err)

	// Same plusfriend key with a rotated kakao id resolves to the same
	// account and refreshes the kakao id column.
	second, err := svc.GetOrCreate(ctx, "new-kakao", "pf-1", "app-1")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "new-kakao", second.KakaoID)
	require.Equal(t, "app-1", second.AppUserID)
}

func TestGetOrCreateBackfillNeverClearsKeys(t *testing.T) {
	store := memory.New()
	svc := New(store, nil, 4, false, nil)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "kakao-1", "pf-1", "app-1")
	require.NoError(t, err)

	// A payload without the optional keys must not erase them.
	second, err := svc.GetOrCreate(ctx, "kakao-1", "", "")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "pf-1", second.PlusfriendUserKey)
	require.Equal(t, "app-1", second.AppUserID)
}

func TestGetOrCreateRequiresKakaoID(t *testing.T) {
	svc := New(memory.New(), nil, 4, false, nil)
	_, err := svc.GetOrCreate(context.Background(), "", "pf", "app")
	require.Error(t, err)
}

func TestEnsureServiceAccount(t *testing.T) {
	store := memory.New()
	svc := New(store, nil, 4, false, nil)
	ctx := context.Background()

	require.NoError(t, svc.EnsureServiceAccount(ctx))

	account, err := store.GetUser(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, user.ServiceKakaoID, account.KakaoID)
	require.True(t, account.KakaoAdmin)
	require.True(t, account.IsService())

	// Idempotent on restart.
	require.NoError(t, svc.EnsureServiceAccount(ctx))
}

func TestIsGlobalAdminDebugMode(t *testing.T) {
	svc := New(memory.New(), nil, 4, true, nil)

	isAdmin, err := svc.IsGlobalAdmin(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, isAdmin)

	isAdmin, err = svc.IsGlobalAdmin(context.Background(), 2)
	require.NoError(t, err)
	require.False(t, isAdmin)
}

func TestCheckAdminViaUserService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/7/is_global_admin/":
			w.Write([]byte(`{"is_global_admin": true}`))
		default:
			w.Write([]byte(`{"is_global_admin": false}`))
		}
	}))
	defer srv.Close()

	client, err := upstream.New("user", srv.Client(), srv.URL, nil)
	require.NoError(t, err)
	svc := New(memory.New(), client, 4, false, nil)
	ctx := context.Background()

	require.NoError(t, svc.CheckAdmin(ctx, user.User{ID: 9, KakaoAdmin: true}))
	require.NoError(t, svc.CheckAdmin(ctx, user.User{ID: 7}))

	err = svc.CheckAdmin(ctx, user.User{ID: 8})
	var kerr *kakao.Error
	require.ErrorAs(t, err, &kerr)
	require.Equal(t, "관리자 권한이 없습니다.", kerr.Message)
}
