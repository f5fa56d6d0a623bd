package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"storeadmin/internal/auth"
	"storeadmin/internal/cache"
	"storeadmin/internal/domain/storage"
	"storeadmin/internal/domain/stores"
	"storeadmin/internal/payments"
	"storeadmin/internal/ratelimiter"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testUserID = "user_2abc"

type testApp struct {
	*application
	stores     *storesMock
	billboards *billboardsMock
	categories *categoriesMock
	colors     *colorsMock
	products   *productsMock
	orders     *ordersMock
	overview   *overviewMock
	mediaStore *mediaMock
	publisher  *publisherMock
	jwt        *auth.JWTAuthenticator
}

func newTestApplication(t *testing.T) *testApp {
	t.Helper()

	ta := &testApp{
		stores:     &storesMock{},
		billboards: &billboardsMock{},
		categories: &categoriesMock{},
		colors:     &colorsMock{},
		products:   &productsMock{},
		orders:     &ordersMock{},
		overview:   &overviewMock{},
		mediaStore: newMediaMock(),
		publisher:  &publisherMock{},
		jwt:        auth.NewJWTAuthenticator("test-secret", "storeadmin", "storeadmin-test"),
	}

	cfg := config{
		env:         "test",
		frontendURL: "http://localhost:3000",
		auth: authConfig{
			basic: basicConfig{user: "admin", pass: "secret"},
		},
		payments: paymentsConfig{currency: "usd"},
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: 2,
			TimeFrame:            time.Minute,
		},
	}

	ta.application = &application{
		config: cfg,
		store: &storage.Container{
			Stores:     ta.stores,
			Billboards: ta.billboards,
			Categories: ta.categories,
			Colors:     ta.colors,
			Products:   ta.products,
			Orders:     ta.orders,
			Overview:   ta.overview,
		},
		logger:        zap.NewNop().Sugar(),
		media:         ta.mediaStore,
		cache:         cache.NewWithClient(nil, time.Minute),
		events:        ta.publisher,
		payments:      payments.NewPaymentManager(),
		authenticator: ta.jwt,
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(cfg.rateLimiter.RequestsPerTimeFrame, cfg.rateLimiter.TimeFrame),
	}
	return ta
}

// withRedis backs the app cache with an in-memory Redis server.
func (ta *testApp) withRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	ta.cache = cache.NewWithClient(client, time.Minute)
	return mr
}

func (ta *testApp) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := ta.jwt.GenerateToken(userID, time.Hour)
	require.NoError(t, err)
	return tok
}

// ownStore makes testUserID the owner of a new store.
func (ta *testApp) ownStore() *stores.Store {
	s := &stores.Store{ID: uuid.New(), UserID: testUserID, Name: "Main"}
	ta.stores.On("GetForUser", mock.Anything, s.ID, testUserID).Return(s, nil)
	return s
}

func (ta *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ta.mount().ServeHTTP(rr, req)
	return rr
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	return e
}

// decodeData unwraps {"data": ...} into dst.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	env := struct {
		Data any `json:"data"`
	}{Data: dst}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
}
