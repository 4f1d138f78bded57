package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pharmacy-be/internal/auth"
	"pharmacy-be/internal/handler"
	"pharmacy-be/internal/idempotency"
	"pharmacy-be/internal/middleware"
	"pharmacy-be/internal/negotiation"
	"pharmacy-be/internal/order"
	"pharmacy-be/internal/user"

	"github.com/stretchr/testify/assert"
)

type stubNegotiation struct {
	negotiation.Service
	calls int
}

func (s *stubNegotiation) Accept(ctx context.Context, in negotiation.AcceptInput) (*order.OrderItem, error) {
	s.calls++
	if !in.Actor.Authenticated() {
		return nil, negotiation.ErrUnauthenticated
	}
	return &order.OrderItem{ID: in.OrderItemID, StoreStatus: order.StatusAccepted}, nil
}

type memStore struct {
	data  map[string]*idempotency.Response
	locks map[string]bool
}

func (m *memStore) Get(_ context.Context, key string) (*idempotency.Response, error) {
	return m.data[key], nil
}

func (m *memStore) Set(_ context.Context, key string, resp *idempotency.Response, _ time.Duration) error {
	m.data[key] = resp
	return nil
}

func (m *memStore) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	if m.locks[key] {
		return false, nil
	}
	m.locks[key] = true
	return true, nil
}

func (m *memStore) Release(_ context.Context, key string) error {
	delete(m.locks, key)
	return nil
}

func newTestRouter(neg negotiation.Service) (http.Handler, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	var (
		orders order.Service
		users  user.Service
	)
	return setupRouter(routerDeps{
		handler:    handler.New(orders, neg, users),
		tokens:     tokens,
		limiter:    middleware.NewRateLimiter(""),
		idem:       &memStore{data: map[string]*idempotency.Response{}, locks: map[string]bool{}},
		corsOrigin: "http://localhost:3000",
	}), tokens
}

func TestSetupRouter(t *testing.T) {
	neg := &stubNegotiation{}
	router, tokens := newTestRouter(neg)

	t.Run("Health Check", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/health", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "ok")
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Metrics", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/metrics", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "pharmacy_")
	})

	t.Run("Anonymous accept", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/order-items/1/accept", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Rejected token is counted", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/orders/5", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		req, _ = http.NewRequest("GET", "/metrics", nil)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Contains(t, rr.Body.String(),
			`pharmacy_http_requests_total{method="GET",path="/orders/{id}",status="401"} 1`)
	})

	t.Run("Idempotent accept", func(t *testing.T) {
		token, err := tokens.Generate(42, "store@example.com", []string{"ROLE_STORE"})
		assert.NoError(t, err)
		before := neg.calls

		for i := 0; i < 2; i++ {
			req, _ := http.NewRequest("POST", "/order-items/1/accept", strings.NewReader(`{}`))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set(idempotency.Header, "abc")
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
		}

		assert.Equal(t, before+1, neg.calls)
	})
}
