package adminclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListCategoriesUnwrapsData(t *testing.T) {
	storeID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/stores/"+storeID.String()+"/categories", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"` + uuid.NewString() + `","name":"Shoes"},{"id":"` + uuid.NewString() + `","name":"Hats"}]}`))
	}))
	defer srv.Close()

	list, err := New(srv.URL+"/v1/", "").ListCategories(context.Background(), storeID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Shoes", list[0].Name)
	assert.Equal(t, "Hats", list[1].Name)
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL, "tok").DeleteStore(context.Background(), uuid.New())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "api: status 502", apiErr.Error())
}

func TestClient_WithHTTPClient(t *testing.T) {
	h := &http.Client{}
	c := New("http://example.com", "", WithHTTPClient(h))
	assert.Same(t, h, c.httpClient)
}
