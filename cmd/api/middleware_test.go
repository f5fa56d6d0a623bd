package main

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"storeadmin/internal/domain/stores"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthTokenMiddleware(t *testing.T) {
	ta := newTestApplication(t)

	t.Run("missing token", func(t *testing.T) {
		rr := ta.do(t, http.MethodGet, "/v1/stores", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := ta.do(t, http.MethodGet, "/v1/stores", nil, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		ta.stores.On("ListByUser", mock.Anything, testUserID).Return([]*stores.Store{}, nil).Once()
		rr := ta.do(t, http.MethodGet, "/v1/stores", nil, ta.token(t, testUserID))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestStoreOwnerMiddleware(t *testing.T) {
	ta := newTestApplication(t)
	tok := ta.token(t, testUserID)

	t.Run("invalid store id", func(t *testing.T) {
		rr := ta.do(t, http.MethodGet, "/v1/stores/nope/orders", nil, tok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "store id is required", decodeError(t, rr).Message)
	})

	t.Run("someone else's store", func(t *testing.T) {
		storeID := uuid.New()
		ta.stores.On("GetForUser", mock.Anything, storeID, testUserID).Return(nil, stores.ErrNotFound).Once()

		rr := ta.do(t, http.MethodDelete, "/v1/stores/"+storeID.String(), nil, tok)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "store does not belong to user", decodeError(t, rr).Message)
		ta.stores.AssertNotCalled(t, "Delete", mock.Anything, storeID)
	})
}

func TestBasicAuthMiddleware(t *testing.T) {
	ta := newTestApplication(t)

	rr := ta.do(t, http.MethodGet, "/v1/health", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "Basic")

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:wrong")))
	rr = httptest.NewRecorder()
	ta.mount().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Right credentials reach the handler, which has no database here.
	req = httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:secret")))
	rr = httptest.NewRecorder()
	ta.mount().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRateLimiterMiddleware(t *testing.T) {
	ta := newTestApplication(t)
	ta.config.rateLimiter.Enabled = true
	storeID := uuid.New()
	ta.colors.On("List", mock.Anything, storeID).Return(nil, nil)

	h := ta.mount()
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/stores/"+storeID.String()+"/colors", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		last = httptest.NewRecorder()
		h.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}
