package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storeadmin/internal/cache"
	"storeadmin/internal/domain/billboards"
	"storeadmin/internal/media"

	"github.com/google/uuid"
)

type BillboardPayload struct {
	Label         string `json:"label" validate:"required,min=1,max=100" example:"Summer sale"`
	ImageURL      string `json:"image_url" validate:"required,url"`
	ImagePublicID string `json:"image_public_id" validate:"required,max=255"`
}

// ownedPublicID reports whether publicID lives in the store's media folder.
func ownedPublicID(storeID uuid.UUID, publicID string) bool {
	return strings.HasPrefix(publicID, media.StorePrefix(storeID))
}

func (app *application) readBillboardPayload(w http.ResponseWriter, r *http.Request, storeID uuid.UUID) (*BillboardPayload, bool) {
	var payload BillboardPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}
	if !ownedPublicID(storeID, payload.ImagePublicID) {
		app.badRequestResponse(w, r, fmt.Errorf("image does not belong to this store"))
		return nil, false
	}
	if !media.MatchesURL(payload.ImageURL, payload.ImagePublicID) {
		app.badRequestResponse(w, r, fmt.Errorf("image url does not match public id"))
		return nil, false
	}
	return &payload, true
}

// listBillboardsHandler godoc
//
//	@Summary	List billboards
//	@Tags		billboards
//	@Produce	json
//	@Param		storeID	path		string	true	"Store ID"
//	@Success	200		{object}	envelope{data=[]billboards.Billboard}
//	@Failure	400		{object}	error
//	@Router		/stores/{storeID}/billboards [get]
func (app *application) listBillboardsHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.store.Billboards.List(r.Context(), storeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// getBillboardHandler godoc
//
//	@Summary	Get a billboard
//	@Tags		billboards
//	@Produce	json
//	@Param		storeID		path		string	true	"Store ID"
//	@Param		billboardID	path		string	true	"Billboard ID"
//	@Success	200			{object}	envelope{data=billboards.Billboard}
//	@Failure	404			{object}	error
//	@Router		/stores/{storeID}/billboards/{billboardID} [get]
func (app *application) getBillboardHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	id, err := uuidParam(r, "billboardID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	b, err := app.store.Billboards.Get(r.Context(), storeID, id)
	if err != nil {
		if errors.Is(err, billboards.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, b)
}

// createBillboardHandler godoc
//
//	@Summary	Create a billboard
//	@Tags		billboards
//	@Accept		json
//	@Produce	json
//	@Param		storeID	path		string				true	"Store ID"
//	@Param		body	body		BillboardPayload	true	"Billboard"
//	@Success	201		{object}	envelope{data=billboards.Billboard}
//	@Failure	400		{object}	error
//	@Failure	403		{object}	error
//	@Router		/stores/{storeID}/billboards [post]
//	@Security	ApiKeyAuth
func (app *application) createBillboardHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)

	payload, ok := app.readBillboardPayload(w, r, store.ID)
	if !ok {
		return
	}

	b, err := app.store.Billboards.Create(r.Context(), &billboards.Billboard{
		StoreID:       store.ID,
		Label:         strings.TrimSpace(payload.Label),
		ImageURL:      payload.ImageURL,
		ImagePublicID: payload.ImagePublicID,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, b)
}

// updateBillboardHandler godoc
//
//	@Summary		Update a billboard
//	@Description	Replacing the image removes the previous one from the CDN.
//	@Tags			billboards
//	@Accept			json
//	@Produce		json
//	@Param			storeID		path		string				true	"Store ID"
//	@Param			billboardID	path		string				true	"Billboard ID"
//	@Param			body		body		BillboardPayload	true	"Billboard"
//	@Success		200			{object}	envelope{data=billboards.Billboard}
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Router			/stores/{storeID}/billboards/{billboardID} [patch]
//	@Security		ApiKeyAuth
func (app *application) updateBillboardHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	ctx := r.Context()

	id, err := uuidParam(r, "billboardID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload, ok := app.readBillboardPayload(w, r, store.ID)
	if !ok {
		return
	}

	old, err := app.store.Billboards.Get(ctx, store.ID, id)
	if err != nil {
		if errors.Is(err, billboards.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	updated, err := app.store.Billboards.Update(ctx, &billboards.Billboard{
		ID:            id,
		StoreID:       store.ID,
		Label:         strings.TrimSpace(payload.Label),
		ImageURL:      payload.ImageURL,
		ImagePublicID: payload.ImagePublicID,
	})
	if err != nil {
		if errors.Is(err, billboards.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if old.ImagePublicID != updated.ImagePublicID {
		app.purgeMedia([]string{old.ImagePublicID})
	}
	// Category payloads embed the billboard label.
	app.invalidate(ctx, cache.CategoriesKey(store.ID))

	app.jsonResponse(w, http.StatusOK, updated)
}

// deleteBillboardHandler godoc
//
//	@Summary	Delete a billboard
//	@Tags		billboards
//	@Param		storeID		path	string	true	"Store ID"
//	@Param		billboardID	path	string	true	"Billboard ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Failure	409	{object}	error	"Used by categories"
//	@Router		/stores/{storeID}/billboards/{billboardID} [delete]
//	@Security	ApiKeyAuth
func (app *application) deleteBillboardHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)

	id, err := uuidParam(r, "billboardID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	deleted, err := app.store.Billboards.Delete(r.Context(), store.ID, id)
	if err != nil {
		switch {
		case errors.Is(err, billboards.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, billboards.ErrInUse):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.purgeMedia([]string{deleted.ImagePublicID})
	w.WriteHeader(http.StatusNoContent)
}
