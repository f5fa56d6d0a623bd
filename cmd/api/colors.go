package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storeadmin/internal/cache"
	"storeadmin/internal/domain/colors"
)

type ColorPayload struct {
	Name  string `json:"name" validate:"max=50" example:"Navy"`
	Value string `json:"value" validate:"rgbhex" example:"#1F2A44"`
}

func (p *ColorPayload) check() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Value = strings.TrimSpace(p.Value)
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Value == "" {
		return fmt.Errorf("value is required")
	}
	if err := Validate.Var(p.Value, "rgbhex"); err != nil {
		return fmt.Errorf("value must be a hex color like #1F2A44")
	}
	return Validate.Struct(p)
}

// createColorHandler godoc
//
//	@Summary	Create a color
//	@Tags		colors
//	@Accept		json
//	@Produce	json
//	@Param		storeID	path		string		true	"Store ID"
//	@Param		body	body		ColorPayload	true	"Color"
//	@Success	201		{object}	envelope{data=colors.Color}
//	@Failure	400		{object}	error
//	@Router		/stores/{storeID}/colors [post]
//	@Security	ApiKeyAuth
func (app *application) createColorHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)

	var payload ColorPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := payload.check(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	s, err := app.store.Colors.Create(r.Context(), &colors.Color{StoreID: store.ID, Name: payload.Name, Value: payload.Value})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusCreated, s)
}

// listColorsHandler godoc
//
//	@Summary	List colors
//	@Tags		colors
//	@Produce	json
//	@Param		storeID	path		string	true	"Store ID"
//	@Success	200		{object}	envelope{data=[]colors.Color}
//	@Router		/stores/{storeID}/colors [get]
func (app *application) listColorsHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("store id is required"))
		return
	}
	list, err := app.store.Colors.List(r.Context(), storeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// getColorHandler godoc
//
//	@Summary	Get a color
//	@Tags		colors
//	@Produce	json
//	@Param		storeID	path		string	true	"Store ID"
//	@Param		colorID	path		string	true	"Color ID"
//	@Success	200		{object}	envelope{data=colors.Color}
//	@Failure	404		{object}	error
//	@Router		/stores/{storeID}/colors/{colorID} [get]
func (app *application) getColorHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	id, err := uuidParam(r, "colorID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	s, err := app.store.Colors.Get(r.Context(), storeID, id)
	if err != nil {
		if errors.Is(err, colors.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, s)
}

// updateColorHandler godoc
//
//	@Summary	Update a color
//	@Tags		colors
//	@Accept		json
//	@Produce	json
//	@Param		storeID	path		string		true	"Store ID"
//	@Param		colorID	path		string		true	"Color ID"
//	@Param		body	body		ColorPayload	true	"Color"
//	@Success	200		{object}	envelope{data=colors.Color}
//	@Failure	404		{object}	error
//	@Router		/stores/{storeID}/colors/{colorID} [patch]
//	@Security	ApiKeyAuth
func (app *application) updateColorHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	id, err := uuidParam(r, "colorID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ColorPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := payload.check(); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	s, err := app.store.Colors.Update(r.Context(), &colors.Color{ID: id, StoreID: store.ID, Name: payload.Name, Value: payload.Value})
	if err != nil {
		if errors.Is(err, colors.ErrNotFound) {
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

// deleteColorHandler godoc
//
//	@Summary	Delete a color
//	@Tags		colors
//	@Param		storeID	path	string	true	"Store ID"
//	@Param		colorID	path	string	true	"Color ID"
//	@Success	204
//	@Failure	409	{object}	error	"Used by product variations"
//	@Router		/stores/{storeID}/colors/{colorID} [delete]
//	@Security	ApiKeyAuth
func (app *application) deleteColorHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	id, err := uuidParam(r, "colorID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Colors.Delete(r.Context(), store.ID, id); err != nil {
		switch {
		case errors.Is(err, colors.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, colors.ErrInUse):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}
	app.invalidatePattern(r.Context(), cache.ProductsPattern(store.ID))
	w.WriteHeader(http.StatusNoContent)
}
