package main

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storeadmin/internal/domain/overview"
	"storeadmin/internal/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func multipartImage(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "upload.bin")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	ta := newTestApplication(t)
	store := ta.ownStore()
	tok := ta.token(t, testUserID)
	path := "/v1/stores/" + store.ID.String() + "/uploads"

	post := func(body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()
		ta.mount().ServeHTTP(rr, req)
		return rr
	}

	t.Run("not an image", func(t *testing.T) {
		body, ct := multipartImage(t, "image", []byte("hello, plain text"))
		rr := post(body, ct)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr).Message, "unsupported image type")
	})

	t.Run("wrong field", func(t *testing.T) {
		body, ct := multipartImage(t, "file", []byte("\x89PNG\r\n\x1a\n"))
		rr := post(body, ct)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "image is required", decodeError(t, rr).Message)
	})

	t.Run("png goes to the store folder", func(t *testing.T) {
		png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
		asset := &media.Asset{URL: "https://res.cloudinary.com/demo/image/upload/x.png", PublicID: media.StorePrefix(store.ID) + "x"}
		ta.mediaStore.On("Upload", mock.Anything, mock.Anything, media.StoreFolder(store.ID)).Return(asset, nil).Once()

		body, ct := multipartImage(t, "image", png)
		rr := post(body, ct)
		require.Equal(t, http.StatusCreated, rr.Code)

		var got media.Asset
		decodeData(t, rr, &got)
		assert.Equal(t, asset.PublicID, got.PublicID)
	})
}

func TestOverview(t *testing.T) {
	ta := newTestApplication(t)
	store := ta.ownStore()
	tok := ta.token(t, testUserID)
	path := "/v1/stores/" + store.ID.String() + "/overview"

	t.Run("defaults to the current year", func(t *testing.T) {
		ta.overview.On("Get", mock.Anything, store.ID, time.Now().UTC().Year()).Return(&overview.Overview{
			TotalRevenueCents: 1500,
			SalesCount:        2,
			MonthlyRevenue:    overview.MonthlySeries(map[int]int64{3: 1500}),
		}, nil).Once()

		rr := ta.do(t, http.MethodGet, path, nil, tok)
		require.Equal(t, http.StatusOK, rr.Code)

		var got overview.Overview
		decodeData(t, rr, &got)
		assert.Equal(t, int64(1500), got.TotalRevenueCents)
		assert.Len(t, got.MonthlyRevenue, 12)
	})

	t.Run("explicit year", func(t *testing.T) {
		ta.overview.On("Get", mock.Anything, store.ID, 2024).Return(&overview.Overview{}, nil).Once()
		rr := ta.do(t, http.MethodGet, path+"?year=2024", nil, tok)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("bad year", func(t *testing.T) {
		rr := ta.do(t, http.MethodGet, path+"?year=24", nil, tok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
