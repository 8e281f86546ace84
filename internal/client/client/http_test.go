package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/tracker/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(srv.URL+"/api", 0, StaticToken("tok"))
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_InvalidURL(t *testing.T) {
	_, err := NewHTTPClient("not a url", 0, nil)
	require.Error(t, err)
	_, err = NewHTTPClient("/relative", 0, nil)
	require.Error(t, err)
}

func TestDo_SendsJSONAndToken(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tasks/sync", r.URL.Path)
		assert.Equal(t, "a b", r.URL.Query().Get("since"))
		assert.Equal(t, "Bearer tok", r.Header.Get(common.AuthorizationHeaderName))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"tasks":[1,2]}`, string(b))
		_, _ = w.Write([]byte(`{"syncedIds":["x"]}`))
	})

	var out SyncResponse[TaskDTO]
	err := c.Do(context.Background(), http.MethodPost, "tasks/sync", url.Values{"since": {"a b"}},
		map[string]any{"tasks": []int{1, 2}}, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, out.SyncedIDs)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(common.AuthorizationHeaderName))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(srv.URL, 0, nil)
	require.NoError(t, err)
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "health", nil, nil, nil))
}

func TestDo_StatusErrors(t *testing.T) {
	cases := []struct {
		code         int
		unauthorized bool
		clientErr    bool
	}{
		{http.StatusBadRequest, false, true},
		{http.StatusUnauthorized, true, true},
		{http.StatusForbidden, true, true},
		{http.StatusInternalServerError, false, false},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.code), func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tc.code)
			})
			err := c.Do(context.Background(), http.MethodGet, "goals", nil, nil, nil)

			se, ok := AsStatus(err)
			require.True(t, ok)
			assert.Equal(t, tc.code, se.Code)
			assert.Equal(t, "nope", se.Body)
			assert.Equal(t, tc.clientErr, se.IsClientError())
			assert.Equal(t, tc.unauthorized, errors.Is(err, ErrUnauthorized))
			assert.False(t, errors.Is(err, ErrUnavailable))
		})
	}
}

func TestDo_ConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewHTTPClient(base, time.Second, nil)
	require.NoError(t, err)

	err = c.Do(context.Background(), http.MethodGet, "tasks", nil, nil, nil)
	require.ErrorIs(t, err, ErrUnavailable)
	_, isStatus := AsStatus(err)
	assert.False(t, isStatus)
}

func TestDo_UndecodableBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	var out TasksResponse
	err := c.Do(context.Background(), http.MethodGet, "tasks", nil, nil, &out)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnavailable))
	_, isStatus := AsStatus(err)
	assert.False(t, isStatus)
}

func TestPing(t *testing.T) {
	healthy := true
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	require.NoError(t, c.Ping(context.Background()))

	healthy = false
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestLogin(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"accessToken":"jwt","user":{"id":"u1","email":"a@b.c"}}`))
	})

	resp, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.AccessToken)
	assert.Equal(t, "u1", resp.User.ID)

	_, err = c.Login(context.Background(), "a@b.c", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_EmptyToken(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":"u1"}}`))
	})
	_, err := c.Login(context.Background(), "a", "b")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
