package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second)
	require.NoError(t, err)
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestEnvelopeUnwrap(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"products": []map[string]any{
					{"id": "p1", "name": "Kopi", "price": 15000, "stock": 10, "isActive": true},
				},
				"pagination": map[string]any{"page": 1, "limit": 10, "total": 1, "pages": 1},
			},
		})
	}))

	page, err := c.ListProducts(context.Background(), ProductQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Kopi", page.Products[0].Name)
	assert.Equal(t, 1, page.Pagination.Total)
}

func TestServerMessageWins(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "stock must not be negative"})
	}))

	_, err := c.AdjustStock(context.Background(), "p1", -1, "")
	require.Error(t, err)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindServer, re.Kind)
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, "stock must not be negative", re.Message)
}

func TestGenericFallbackWithoutServerMessage(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.ProductStats(context.Background())
	require.Error(t, err)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, genericFailure, re.Message)
}

func TestNetworkFailureKind(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)
	srv.Close()

	_, err = c.ProductStats(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err), "want a network error, got %v", err)
}

func TestUnauthorizedHookFiresOnce(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "session expired"})
	}))

	var hookCalls int32
	c.SetUnauthorizedHook(func() { atomic.AddInt32(&hookCalls, 1) })

	// Several calls fail in the same window; the teardown runs once.
	_, err := c.ProductStats(context.Background())
	assert.True(t, IsAuth(err))
	_, _ = c.ListProducts(context.Background(), ProductQuery{})
	_ = c.DeleteProduct(context.Background(), "p1")

	assert.Equal(t, int32(1), atomic.LoadInt32(&hookCalls))
}

func TestReauthorizedReArmsLatch(t *testing.T) {
	unauthorized := int32(1)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/login" {
			writeJSON(w, http.StatusOK, map[string]any{
				"data": map[string]any{"user": map[string]any{"id": "u1", "username": "budi"}},
			})
			return
		}
		if atomic.LoadInt32(&unauthorized) == 1 {
			writeJSON(w, http.StatusUnauthorized, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{}})
	}))

	var hookCalls int32
	c.SetUnauthorizedHook(func() { atomic.AddInt32(&hookCalls, 1) })

	_, _ = c.ProductStats(context.Background())
	require.Equal(t, int32(1), atomic.LoadInt32(&hookCalls))

	// Login re-arms the latch, so the next expiry triggers teardown again.
	_, err := c.Login(context.Background(), "budi", "secret")
	require.NoError(t, err)

	_, _ = c.ProductStats(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&hookCalls))
}

func TestLoginFailureSkipsHook(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "invalid credentials"})
	}))

	var hookCalls int32
	c.SetUnauthorizedHook(func() { atomic.AddInt32(&hookCalls, 1) })

	// A rejected login is a normal outcome, not a session teardown.
	_, err := c.Login(context.Background(), "budi", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Zero(t, atomic.LoadInt32(&hookCalls))

	_ = c.ResetPassword(context.Background(), "expired-token", "newpass")
	assert.Zero(t, atomic.LoadInt32(&hookCalls))
}

func TestPublicViewSuppressesHook(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, nil)
	}))

	var hookCalls int32
	c.SetUnauthorizedHook(func() { atomic.AddInt32(&hookCalls, 1) })
	c.SetPublicView(true)

	_, _ = c.ProductStats(context.Background())
	assert.Zero(t, atomic.LoadInt32(&hookCalls))

	c.SetPublicView(false)
	_, _ = c.ProductStats(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hookCalls))
}

func TestClientIDHeaderStable(t *testing.T) {
	var ids []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Client-Id"))
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{}})
	}))

	_, _ = c.ProductStats(context.Background())
	_, _ = c.ProductStats(context.Background())

	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, ids[0], ids[1])
}

func TestCookieRoundTrip(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/login" {
			http.SetCookie(w, &http.Cookie{Name: "auth", Value: "token-123", Path: "/"})
			writeJSON(w, http.StatusOK, map[string]any{
				"data": map[string]any{"user": map[string]any{"id": "u1", "username": "budi"}},
			})
			return
		}
		ck, err := r.Cookie("auth")
		if err != nil || ck.Value != "token-123" {
			writeJSON(w, http.StatusUnauthorized, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"id": "u1", "username": "budi"},
		})
	}))

	user, err := c.Login(context.Background(), "budi", "secret")
	require.NoError(t, err)
	assert.Equal(t, "budi", user.Username)

	// A second client restored from persisted cookies talks straight away.
	restored, err := New(srv.URL, time.Second)
	require.NoError(t, err)
	restored.RestoreCookies(c.Cookies())

	me, err := restored.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "budi", me.Username)
}

func TestQueryEncoding(t *testing.T) {
	var got string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"products": []any{}, "pagination": map[string]any{"page": 1}},
		})
	}))

	active := true
	_, err := c.ListProducts(context.Background(), ProductQuery{
		Page:      2,
		Limit:     10,
		Search:    "kopi susu",
		IsActive:  &active,
		SortBy:    "price",
		SortOrder: "asc",
	})
	require.NoError(t, err)

	q, err := url.ParseQuery(got)
	require.NoError(t, err)
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "kopi susu", q.Get("search"))
	assert.Equal(t, "true", q.Get("isActive"))
	assert.Equal(t, "price", q.Get("sortBy"))
	assert.Equal(t, "asc", q.Get("sortOrder"))
}
