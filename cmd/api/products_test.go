package main

import (
	"net/http"
	"testing"
	"time"

	"storeadmin/internal/domain/products"
	"storeadmin/internal/domain/stores"
	"storeadmin/internal/events"
	"storeadmin/internal/media"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func cloudinaryURL(publicID string) string {
	return "https://res.cloudinary.com/demo/image/upload/v1/" + publicID + ".jpg"
}

func productInput(storeID uuid.UUID) products.ProductInput {
	prefix := media.StorePrefix(storeID)
	return products.ProductInput{
		Name:       "Runner",
		PriceCents: 4999,
		CategoryID: uuid.New(),
		Images: []products.ImageInput{
			{URL: cloudinaryURL(prefix + "a"), PublicID: prefix + "a"},
		},
		Variations: []products.VariationInput{
			{SizeID: uuid.New(), ColorID: uuid.New(), Quantity: 3},
		},
	}
}

func waitPurged(t *testing.T, m *mediaMock) []string {
	t.Helper()
	select {
	case ids := <-m.purged:
		return ids
	case <-time.After(2 * time.Second):
		t.Fatal("media purge was not called")
		return nil
	}
}

func TestListProducts(t *testing.T) {
	ta := newTestApplication(t)
	storeID := uuid.New()
	path := "/v1/stores/" + storeID.String() + "/products"

	t.Run("public list hides archived and applies filters", func(t *testing.T) {
		categoryID := uuid.New()
		featured := true
		ta.products.On("List", mock.Anything, storeID, products.ListFilter{
			CategoryID: &categoryID,
			IsFeatured: &featured,
			Limit:      10,
			Offset:     10,
		}).Return([]*products.ProductCard{{Product: products.Product{Name: "Runner"}}}, 11, nil).Once()

		rr := ta.do(t, http.MethodGet, path+"?category_id="+categoryID.String()+"&is_featured=true&limit=10&page=2", nil, "")
		require.Equal(t, http.StatusOK, rr.Code)

		var got ProductListResponse
		decodeData(t, rr, &got)
		require.Len(t, got.Products, 1)
		assert.Equal(t, 11, got.Pagination.Total)
		assert.Equal(t, 2, got.Pagination.TotalPages)
		assert.True(t, got.Pagination.HasPrev)
		assert.False(t, got.Pagination.HasNext)
	})

	t.Run("bad filter", func(t *testing.T) {
		rr := ta.do(t, http.MethodGet, path+"?color_id=red", nil, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "color_id must be a valid id", decodeError(t, rr).Message)
	})

	t.Run("archived needs a token", func(t *testing.T) {
		rr := ta.do(t, http.MethodGet, path+"?include_archived=true", nil, "")
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("archived needs ownership", func(t *testing.T) {
		ta.stores.On("GetForUser", mock.Anything, storeID, "intruder").Return(nil, stores.ErrNotFound).Once()
		rr := ta.do(t, http.MethodGet, path+"?include_archived=true", nil, ta.token(t, "intruder"))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("owner sees archived", func(t *testing.T) {
		ta.stores.On("GetForUser", mock.Anything, storeID, testUserID).Return(&stores.Store{ID: storeID}, nil).Once()
		ta.products.On("List", mock.Anything, storeID, mock.MatchedBy(func(f products.ListFilter) bool {
			return f.IncludeArchived && f.Limit == 20 && f.Offset == 0
		})).Return([]*products.ProductCard{}, 0, nil).Once()

		rr := ta.do(t, http.MethodGet, path+"?include_archived=true", nil, ta.token(t, testUserID))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestGetProduct_NotFound(t *testing.T) {
	ta := newTestApplication(t)
	storeID, id := uuid.New(), uuid.New()
	ta.products.On("GetDetail", mock.Anything, storeID, id).Return(nil, products.ErrNotFound).Once()

	rr := ta.do(t, http.MethodGet, "/v1/stores/"+storeID.String()+"/products/"+id.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateProduct_RejectsForeignImages(t *testing.T) {
	ta := newTestApplication(t)
	store := ta.ownStore()

	in := productInput(store.ID)
	in.Images[0].PublicID = media.StorePrefix(uuid.New()) + "stolen"

	rr := ta.do(t, http.MethodPost, "/v1/stores/"+store.ID.String()+"/products", in, ta.token(t, testUserID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	ta.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProduct_RejectsMismatchedImageURL(t *testing.T) {
	ta := newTestApplication(t)
	store := ta.ownStore()

	in := productInput(store.ID)
	in.Images[0].URL = cloudinaryURL(media.StorePrefix(store.ID) + "other")

	rr := ta.do(t, http.MethodPost, "/v1/stores/"+store.ID.String()+"/products", in, ta.token(t, testUserID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr).Message, "does not match")
}

func TestCreateProduct_RequiresImages(t *testing.T) {
	ta := newTestApplication(t)
	store := ta.ownStore()

	in := productInput(store.ID)
	in.Images = nil

	rr := ta.do(t, http.MethodPost, "/v1/stores/"+store.ID.String()+"/products", in, ta.token(t, testUserID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateProduct(t *testing.T) {
	ta := newTestApplication(t)
	store := ta.ownStore()
	tok := ta.token(t, testUserID)
	id := uuid.New()
	path := "/v1/stores/" + store.ID.String() + "/products/" + id.String()
	prefix := media.StorePrefix(store.ID)

	t.Run("variation used by an undelivered order", func(t *testing.T) {
		in := productInput(store.ID)
		ta.products.On("Update", mock.Anything, store.ID, id, in, []products.ImageInput(nil), prefix).
			Return(nil, products.ErrVariationInUse).Once()

		rr := ta.do(t, http.MethodPatch, path, ProductUpdatePayload{Product: in}, tok)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, decodeError(t, rr).Message, "used in an order")
	})

	t.Run("unknown variation", func(t *testing.T) {
		in := productInput(store.ID)
		ta.products.On("Update", mock.Anything, store.ID, id, in, []products.ImageInput(nil), prefix).
			Return(nil, products.ErrUnknownVariation).Once()

		rr := ta.do(t, http.MethodPatch, path, ProductUpdatePayload{Product: in}, tok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		in := productInput(store.ID)
		ta.products.On("Update", mock.Anything, store.ID, id, in, []products.ImageInput(nil), prefix).
			Return(nil, products.ErrNotFound).Once()

		rr := ta.do(t, http.MethodPatch, path, ProductUpdatePayload{Product: in}, tok)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("purges stale images and publishes", func(t *testing.T) {
		in := productInput(store.ID)
		deleted := []products.ImageInput{{URL: cloudinaryURL(prefix + "old"), PublicID: prefix + "old"}}
		detail := &products.ProductDetail{Product: products.Product{ID: id, StoreID: store.ID, Name: in.Name}}

		ta.products.On("Update", mock.Anything, store.ID, id, in, deleted, prefix).Return(&products.UpdateResult{
			Product:        detail,
			Plan:           &products.VariationPlan{},
			PurgePublicIDs: []string{prefix + "old"},
		}, nil).Once()
		ta.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
			return e.Type == events.ProductUpdated && e.StoreID == store.ID
		})).Return(nil).Once()

		rr := ta.do(t, http.MethodPatch, path, ProductUpdatePayload{Product: in, DeletedImages: deleted}, tok)
		require.Equal(t, http.StatusOK, rr.Code)

		var got products.ProductDetail
		decodeData(t, rr, &got)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, []string{prefix + "old"}, waitPurged(t, ta.mediaStore))
		ta.publisher.AssertExpectations(t)
	})
}

func TestDeleteProduct(t *testing.T) {
	ta := newTestApplication(t)
	store := ta.ownStore()
	tok := ta.token(t, testUserID)
	prefix := media.StorePrefix(store.ID)

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		ta.products.On("Delete", mock.Anything, store.ID, id).Return(nil, nil, products.ErrNotFound).Once()

		rr := ta.do(t, http.MethodDelete, "/v1/stores/"+store.ID.String()+"/products/"+id.String(), nil, tok)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("deletes and purges images", func(t *testing.T) {
		id := uuid.New()
		ta.products.On("Delete", mock.Anything, store.ID, id).
			Return(&products.Product{ID: id, StoreID: store.ID}, []string{prefix + "a", prefix + "b"}, nil).Once()
		ta.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
			return e.Type == events.ProductDeleted
		})).Return(nil).Once()

		rr := ta.do(t, http.MethodDelete, "/v1/stores/"+store.ID.String()+"/products/"+id.String(), nil, tok)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, []string{prefix + "a", prefix + "b"}, waitPurged(t, ta.mediaStore))
	})
}
