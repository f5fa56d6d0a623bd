package main

import (
	"net/http"
	"testing"

	"storeadmin/internal/cache"
	"storeadmin/internal/domain/billboards"
	"storeadmin/internal/domain/stores"
	"storeadmin/internal/events"
	"storeadmin/internal/media"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateStore(t *testing.T) {
	ta := newTestApplication(t)
	tok := ta.token(t, testUserID)

	t.Run("name is required", func(t *testing.T) {
		rr := ta.do(t, http.MethodPost, "/v1/stores", map[string]string{"name": ""}, tok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("owned by the caller", func(t *testing.T) {
		created := &stores.Store{ID: uuid.New(), UserID: testUserID, Name: "Main"}
		ta.stores.On("Create", mock.Anything, testUserID, "Main").Return(created, nil).Once()

		rr := ta.do(t, http.MethodPost, "/v1/stores", map[string]string{"name": "Main"}, tok)
		require.Equal(t, http.StatusCreated, rr.Code)

		var got stores.Store
		decodeData(t, rr, &got)
		assert.Equal(t, created.ID, got.ID)
	})
}

func TestRenameStore(t *testing.T) {
	ta := newTestApplication(t)
	store := ta.ownStore()

	ta.stores.On("Rename", mock.Anything, store.ID, "Outlet").
		Return(&stores.Store{ID: store.ID, Name: "Outlet"}, nil).Once()

	rr := ta.do(t, http.MethodPatch, "/v1/stores/"+store.ID.String(), map[string]string{"name": "Outlet"}, ta.token(t, testUserID))
	require.Equal(t, http.StatusOK, rr.Code)

	var got stores.Store
	decodeData(t, rr, &got)
	assert.Equal(t, "Outlet", got.Name)
}

func TestDeleteStore(t *testing.T) {
	ta := newTestApplication(t)
	store := ta.ownStore()
	tok := ta.token(t, testUserID)
	path := "/v1/stores/" + store.ID.String()

	t.Run("open orders", func(t *testing.T) {
		ta.stores.On("Delete", mock.Anything, store.ID).Return(nil, stores.ErrHasOpenOrders).Once()

		rr := ta.do(t, http.MethodDelete, path, nil, tok)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("deleted and media purged", func(t *testing.T) {
		ids := []string{media.StorePrefix(store.ID) + "banner"}
		ta.stores.On("Delete", mock.Anything, store.ID).Return(ids, nil).Once()
		ta.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.Event) bool {
			return e.Type == events.StoreDeleted && e.StoreID == store.ID
		})).Return(nil).Once()

		rr := ta.do(t, http.MethodDelete, path, nil, tok)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, ids, waitPurged(t, ta.mediaStore))
	})
}

func TestDeleteStore_DropsCachedEntries(t *testing.T) {
	ta := newTestApplication(t)
	mr := ta.withRedis(t)
	store := ta.ownStore()
	other := uuid.New()

	require.NoError(t, mr.Set(cache.CategoriesKey(store.ID), "[]"))
	require.NoError(t, mr.Set(cache.ProductKey(store.ID, uuid.New()), "{}"))
	require.NoError(t, mr.Set(cache.ProductKey(other, uuid.New()), "{}"))

	ta.stores.On("Delete", mock.Anything, store.ID).Return([]string(nil), nil).Once()
	ta.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	rr := ta.do(t, http.MethodDelete, "/v1/stores/"+store.ID.String(), nil, ta.token(t, testUserID))
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Len(t, mr.Keys(), 1)
}

func TestBillboards(t *testing.T) {
	ta := newTestApplication(t)
	store := ta.ownStore()
	tok := ta.token(t, testUserID)
	prefix := media.StorePrefix(store.ID)

	t.Run("image from another store", func(t *testing.T) {
		rr := ta.do(t, http.MethodPost, "/v1/stores/"+store.ID.String()+"/billboards", BillboardPayload{
			Label:         "Sale",
			ImageURL:      cloudinaryURL(media.StorePrefix(uuid.New()) + "x"),
			ImagePublicID: media.StorePrefix(uuid.New()) + "x",
		}, tok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		ta.billboards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("replacing the image purges the old one", func(t *testing.T) {
		id := uuid.New()
		ta.billboards.On("Get", mock.Anything, store.ID, id).
			Return(&billboards.Billboard{ID: id, StoreID: store.ID, ImagePublicID: prefix + "old"}, nil).Once()
		ta.billboards.On("Update", mock.Anything, mock.Anything).
			Return(&billboards.Billboard{ID: id, StoreID: store.ID, Label: "Sale", ImagePublicID: prefix + "new"}, nil).Once()

		rr := ta.do(t, http.MethodPatch, "/v1/stores/"+store.ID.String()+"/billboards/"+id.String(), BillboardPayload{
			Label:         "Sale",
			ImageURL:      cloudinaryURL(prefix + "new"),
			ImagePublicID: prefix + "new",
		}, tok)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{prefix + "old"}, waitPurged(t, ta.mediaStore))
	})

	t.Run("in use", func(t *testing.T) {
		id := uuid.New()
		ta.billboards.On("Delete", mock.Anything, store.ID, id).Return(nil, billboards.ErrInUse).Once()

		rr := ta.do(t, http.MethodDelete, "/v1/stores/"+store.ID.String()+"/billboards/"+id.String(), nil, tok)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}
