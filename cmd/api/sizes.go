package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storeadmin/internal/cache"
	"storeadmin/internal/domain/sizes"
)

type SizePayload struct {
	Name  string `json:"name" validate:"max=50" example:"Large"`
	Value string `json:"value" validate:"max=20" example:"L"`
}

func (p *SizePayload) check() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Value = strings.TrimSpace(p.Value)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Value == "" {
		return fmt.Errorf("value is required")
	}
	return Validate.Struct(p)
}

// createSizeHandler godoc
//
//	@Summary	Create a size
//	@Tags		sizes
//	@Accept		json
//	@Produce	json
//	@Param		storeID	path		string		true	"Store ID"
//	@Param		body	body		SizePayload	true	"Size"
//	@Success	201		{object}	envelope{data=sizes.Size}
//	@Failure	400		{object}	error
//	@Router		/stores/{storeID}/sizes [post]
//	@Security	ApiKeyAuth
func (app *application) createSizeHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)

	var payload SizePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := payload.check(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	s, err := app.store.Sizes.Create(r.Context(), &sizes.Size{StoreID: store.ID, Name: payload.Name, Value: payload.Value})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, s)
}

// listSizesHandler godoc
//
//	@Summary	List sizes
//	@Tags		sizes
//	@Produce	json
//	@Param		storeID	path		string	true	"Store ID"
//	@Success	200		{object}	envelope{data=[]sizes.Size}
//	@Router		/stores/{storeID}/sizes [get]
func (app *application) listSizesHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("store id is required"))
		return
	}
	list, err := app.store.Sizes.List(r.Context(), storeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// getSizeHandler godoc
//
//	@Summary	Get a size
//	@Tags		sizes
//	@Produce	json
//	@Param		storeID	path		string	true	"Store ID"
//	@Param		sizeID	path		string	true	"Size ID"
//	@Success	200		{object}	envelope{data=sizes.Size}
//	@Failure	404		{object}	error
//	@Router		/stores/{storeID}/sizes/{sizeID} [get]
func (app *application) getSizeHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	id, err := uuidParam(r, "sizeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	s, err := app.store.Sizes.Get(r.Context(), storeID, id)
	if err != nil {
		if errors.Is(err, sizes.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, s)
}

// updateSizeHandler godoc
//
//	@Summary	Update a size
//	@Tags		sizes
//	@Accept		json
//	@Produce	json
//	@Param		storeID	path		string		true	"Store ID"
//	@Param		sizeID	path		string		true	"Size ID"
//	@Param		body	body		SizePayload	true	"Size"
//	@Success	200		{object}	envelope{data=sizes.Size}
//	@Failure	404		{object}	error
//	@Router		/stores/{storeID}/sizes/{sizeID} [patch]
//	@Security	ApiKeyAuth
func (app *application) updateSizeHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	id, err := uuidParam(r, "sizeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload SizePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := payload.check(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	s, err := app.store.Sizes.Update(r.Context(), &sizes.Size{ID: id, StoreID: store.ID, Name: payload.Name, Value: payload.Value})
	if err != nil {
		if errors.Is(err, sizes.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	// Product details embed size and color names and values.
	app.invalidatePattern(r.Context(), cache.ProductsPattern(store.ID))
	app.jsonResponse(w, http.StatusOK, s)
}

// deleteSizeHandler godoc
//
//	@Summary	Delete a size
//	@Tags		sizes
//	@Param		storeID	path	string	true	"Store ID"
//	@Param		sizeID	path	string	true	"Size ID"
//	@Success	204
//	@Failure	409	{object}	error	"Used by product variations"
//	@Router		/stores/{storeID}/sizes/{sizeID} [delete]
//	@Security	ApiKeyAuth
func (app *application) deleteSizeHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	id, err := uuidParam(r, "sizeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Sizes.Delete(r.Context(), store.ID, id); err != nil {
		switch {
		case errors.Is(err, sizes.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, sizes.ErrInUse):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	app.invalidatePattern(r.Context(), cache.ProductsPattern(store.ID))
	w.WriteHeader(http.StatusNoContent)
}
