package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetJSONSetsUserHeader(t *testing.T) {
	var gotHeader string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get(UserIDHeader)
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "산돌이"})
	}))
	defer srv.Close()

	client, err := New("user", srv.Client(), srv.URL, nil)
	require.NoError(t, err)

	var out struct {
		Name string `json:"name"`
	}
	query := url.Values{"page": []string{"2"}}
	require.NoError(t, client.GetJSON(context.Background(), 42, "/users", query, &out))
	require.Equal(t, "42", gotHeader)
	require.Equal(t, "2", gotQuery.Get("page"))
	require.Equal(t, "산돌이", out.Name)
}

func TestGetJSONOmitsHeaderForServiceCalls(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header[UserIDHeader]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := New("meal", srv.Client(), srv.URL, nil)
	require.NoError(t, err)
	require.NoError(t, client.GetJSON(context.Background(), 0, "/meals", nil, nil))
	require.False(t, sawHeader)
}

func TestPostJSONEncodesBody(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 7}`))
	}))
	defer srv.Close()

	client, err := New("meal", srv.Client(), srv.URL, nil)
	require.NoError(t, err)

	var out struct {
		ID int `json:"id"`
	}
	err = client.PostJSON(context.Background(), 3, "/meals", map[string]string{"menu": "김치찌개"}, &out)
	require.NoError(t, err)
	require.Equal(t, "김치찌개", gotBody["menu"])
	require.Equal(t, 7, out.ID)
}

func TestStatusErrorOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such restaurant", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := New("meal", srv.Client(), srv.URL, nil)
	require.NoError(t, err)

	err = client.GetJSON(context.Background(), 1, "/restaurants/none", nil, nil)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.Status)
	require.Equal(t, "meal", statusErr.Service)
}

func TestNewRejectsEmptyBaseURL(t *testing.T) {
	_, err := New("user", nil, "  ", nil)
	require.Error(t, err)
}

func TestBasePathPreserved(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := New("notice", srv.Client(), srv.URL+"/api/v1/", nil)
	require.NoError(t, err)
	require.NoError(t, client.GetJSON(context.Background(), 1, "/notice", nil, nil))
	require.Equal(t, "/api/v1/notice", gotPath)
}
