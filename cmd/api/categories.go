package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storeadmin/internal/cache"
	"storeadmin/internal/domain/categories"
	"storeadmin/internal/events"

	"github.com/google/uuid"
)

type CategoryPayload struct {
	Name        string `json:"name" validate:"max=100" example:"Shoes"`
	BillboardID string `json:"billboard_id" example:"7b0c5b1e-3c55-4f6e-9a57-7f2f8c2f1c11"`
}

// parse checks the payload and returns the billboard id. The messages match
// what the dashboard shows next to the form fields.
func (p *CategoryPayload) parse() (uuid.UUID, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.BillboardID = strings.TrimSpace(p.BillboardID)

	if p.Name == "" {
		return uuid.Nil, fmt.Errorf("name is required")
	}
	if p.BillboardID == "" {
		return uuid.Nil, fmt.Errorf("billboard id is required")
	}
	if err := Validate.Struct(p); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(p.BillboardID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid billboard id")
	}
	return id, nil
}

// createCategoryHandler godoc
//
//	@Summary		Create a category
//	@Description	Creates a category in the store. The billboard must belong to the same store.
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			storeID	path		string			true	"Store ID"
//	@Param			body	body		CategoryPayload	true	"Category"
//	@Success		201		{object}	envelope{data=categories.Category}
//	@Failure		400		{object}	error
//	@Failure		401		{object}	error
//	@Failure		403		{object}	error
//	@Router			/stores/{storeID}/categories [post]
//	@Security		ApiKeyAuth
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	ctx := r.Context()

	var payload CategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	billboardID, err := payload.parse()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category, err := app.store.Categories.Create(ctx, &categories.Category{
		StoreID:     store.ID,
		BillboardID: billboardID,
		Name:        payload.Name,
	})
	if err != nil {
		if errors.Is(err, categories.ErrBillboardNotFound) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.invalidate(ctx, cache.CategoriesKey(store.ID))
	app.publish(ctx, events.NewEvent(events.CategoryCreated, store.ID, getUserIDFromContext(r), category))

	app.jsonResponse(w, http.StatusCreated, category)
}

// listCategoriesHandler godoc
//
//	@Summary	List categories
//	@Tags		categories
//	@Produce	json
//	@Param		storeID	path		string	true	"Store ID"
//	@Success	200		{object}	envelope{data=[]categories.Category}
//	@Failure	400		{object}	error	"Store id is required"
//	@Router		/stores/{storeID}/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("store id is required"))
		return
	}
	ctx := r.Context()
	key := cache.CategoriesKey(storeID)

	var cached []*categories.Category
	if found, err := app.cache.GetJSON(ctx, key, &cached); err != nil {
		app.logger.Warnw("cache read", "key", key, "error", err)
	} else if found {
		app.jsonResponse(w, http.StatusOK, cached)
		return
	}

	list, err := app.store.Categories.List(ctx, storeID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.cache.SetJSON(ctx, key, list); err != nil {
		app.logger.Warnw("cache write", "key", key, "error", err)
	}
	app.jsonResponse(w, http.StatusOK, list)
}

// getCategoryHandler godoc
//
//	@Summary	Get a category
//	@Tags		categories
//	@Produce	json
//	@Param		storeID		path		string	true	"Store ID"
//	@Param		categoryID	path		string	true	"Category ID"
//	@Success	200			{object}	envelope{data=categories.Category}
//	@Failure	404			{object}	error
//	@Router		/stores/{storeID}/categories/{categoryID} [get]
func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	id, err := uuidParam(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	c, err := app.store.Categories.Get(r.Context(), storeID, id)
	if err != nil {
		if errors.Is(err, categories.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, c)
}

// updateCategoryHandler godoc
//
//	@Summary	Update a category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		storeID		path		string			true	"Store ID"
//	@Param		categoryID	path		string			true	"Category ID"
//	@Param		body		body		CategoryPayload	true	"Category"
//	@Success	200			{object}	envelope{data=categories.Category}
//	@Failure	400			{object}	error
//	@Failure	404			{object}	error
//	@Router		/stores/{storeID}/categories/{categoryID} [patch]
//	@Security	ApiKeyAuth
func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	ctx := r.Context()

	id, err := uuidParam(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	billboardID, err := payload.parse()
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updated, err := app.store.Categories.Update(ctx, &categories.Category{
		ID:          id,
		StoreID:     store.ID,
		BillboardID: billboardID,
		Name:        payload.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, categories.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, categories.ErrBillboardNotFound):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.invalidate(ctx, cache.CategoriesKey(store.ID))
	// Product details embed the category name.
	app.invalidatePattern(ctx, cache.ProductsPattern(store.ID))
	app.publish(ctx, events.NewEvent(events.CategoryUpdated, store.ID, getUserIDFromContext(r), updated))

	app.jsonResponse(w, http.StatusOK, updated)
}

// deleteCategoryHandler godoc
//
//	@Summary	Delete a category
//	@Tags		categories
//	@Param		storeID		path	string	true	"Store ID"
//	@Param		categoryID	path	string	true	"Category ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Failure	409	{object}	error	"Used by products"
//	@Router		/stores/{storeID}/categories/{categoryID} [delete]
//	@Security	ApiKeyAuth
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	ctx := r.Context()

	id, err := uuidParam(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Categories.Delete(ctx, store.ID, id); err != nil {
		switch {
		case errors.Is(err, categories.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, categories.ErrInUse):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.invalidate(ctx, cache.CategoriesKey(store.ID))
	app.invalidatePattern(ctx, cache.ProductsPattern(store.ID))
	app.publish(ctx, events.NewEvent(events.CategoryDeleted, store.ID, getUserIDFromContext(r),
		map[string]string{"id": id.String()}))

	w.WriteHeader(http.StatusNoContent)
}
