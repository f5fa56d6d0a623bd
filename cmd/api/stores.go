package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storeadmin/internal/cache"
	"storeadmin/internal/domain/stores"
	"storeadmin/internal/events"
)

type StorePayload struct {
	Name string `json:"name" validate:"required,min=1,max=100" example:"Main street shop"`
}

// createStoreHandler godoc
//
//	@Summary		Create a store
//	@Description	Creates a store owned by the authenticated user.
//	@Tags			stores
//	@Accept			json
//	@Produce		json
//	@Param			body	body		StorePayload	true	"Store"
//	@Success		201		{object}	envelope{data=stores.Store}
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Router			/stores [post]
//	@Security		ApiKeyAuth
func (app *application) createStoreHandler(w http.ResponseWriter, r *http.Request) {
	var payload StorePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		app.badRequestResponse(w, r, fmt.Errorf("name is required"))
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	store, err := app.store.Stores.Create(r.Context(), getUserIDFromContext(r), payload.Name)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, store)
}

// listMyStoresHandler godoc
//
//	@Summary	List my stores
//	@Tags		stores
//	@Produce	json
//	@Success	200	{object}	envelope{data=[]stores.Store}
//	@Failure	401	{object}	error
//	@Router		/stores [get]
//	@Security	ApiKeyAuth
func (app *application) listMyStoresHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.store.Stores.ListByUser(r.Context(), getUserIDFromContext(r))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// getStoreHandler godoc
//
//	@Summary	Get a store
//	@Tags		stores
//	@Produce	json
//	@Param		storeID	path		string	true	"Store ID"
//	@Success	200		{object}	envelope{data=stores.Store}
//	@Failure	403		{object}	error
//	@Router		/stores/{storeID} [get]
//	@Security	ApiKeyAuth
func (app *application) getStoreHandler(w http.ResponseWriter, r *http.Request) {
	app.jsonResponse(w, http.StatusOK, getStoreFromContext(r))
}

// updateStoreHandler godoc
//
//	@Summary	Rename a store
//	@Tags		stores
//	@Accept		json
//	@Produce	json
//	@Param		storeID	path		string			true	"Store ID"
//	@Param		body	body		StorePayload	true	"Store"
//	@Success	200		{object}	envelope{data=stores.Store}
//	@Failure	400		{object}	error
//	@Failure	403		{object}	error
//	@Router		/stores/{storeID} [patch]
//	@Security	ApiKeyAuth
func (app *application) updateStoreHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)

	var payload StorePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		app.badRequestResponse(w, r, fmt.Errorf("name is required"))
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updated, err := app.store.Stores.Rename(r.Context(), store.ID, payload.Name)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, updated)
}

// deleteStoreHandler godoc
//
//	@Summary		Delete a store
//	@Description	Removes the store with its whole catalog. Refused while paid orders are waiting for delivery.
//	@Tags			stores
//	@Param			storeID	path	string	true	"Store ID"
//	@Success		204
//	@Failure		403	{object}	error
//	@Failure		409	{object}	error
//	@Router			/stores/{storeID} [delete]
//	@Security		ApiKeyAuth
func (app *application) deleteStoreHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	ctx := r.Context()

	publicIDs, err := app.store.Stores.Delete(ctx, store.ID)
	if err != nil {
		switch {
		case errors.Is(err, stores.ErrHasOpenOrders):
			app.conflictResponse(w, r, err)
		case errors.Is(err, stores.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.purgeMedia(publicIDs)
	app.invalidatePattern(ctx, cache.StorePattern(store.ID))
	app.publish(ctx, events.NewEvent(events.StoreDeleted, store.ID, getUserIDFromContext(r), store))

	w.WriteHeader(http.StatusNoContent)
}
