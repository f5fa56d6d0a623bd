package main

import (
	"errors"
	"fmt"
	"net/http"

	"storeadmin/internal/cache"
	"storeadmin/internal/domain/products"
	"storeadmin/internal/domain/stores"
	"storeadmin/internal/events"
	"storeadmin/internal/media"
	"storeadmin/internal/params"

	"github.com/google/uuid"
)

type ProductUpdatePayload struct {
	Product       products.ProductInput `json:"product"`
	DeletedImages []products.ImageInput `json:"deleted_images"`
}

type ProductListResponse struct {
	Products   []*products.ProductCard `json:"products"`
	Pagination params.Pagination      `json:"pagination"`
}

// checkProductImages rejects images that were not uploaded into the store's folder.
func checkProductImages(storeID uuid.UUID, imgs []products.ImageInput) error {
	for _, img := range imgs {
		if !ownedPublicID(storeID, img.PublicID) {
			return fmt.Errorf("image %q does not belong to this store", img.PublicID)
		}
		if !media.MatchesURL(img.URL, img.PublicID) {
			return fmt.Errorf("image url does not match public id %q", img.PublicID)
		}
	}
	return nil
}

func (app *application) productWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, products.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, products.ErrCategoryNotFound),
		errors.Is(err, products.ErrOptionNotFound),
		errors.Is(err, products.ErrUnknownVariation),
		errors.Is(err, products.ErrDuplicateVariation):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, products.ErrVariationInUse):
		app.conflictResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}

// ownerOf reports whether the optional bearer token on r belongs to the
// owner of storeID.
func (app *application) ownerOf(r *http.Request, storeID uuid.UUID) (bool, error) {
	userID, err := app.bearerUserID(r)
	if err != nil {
		return false, nil
	}
	if _, err := app.store.Stores.GetForUser(r.Context(), storeID, userID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// listProductsHandler godoc
//
//	@Summary		List products
//	@Description	Archived products are only listed for the store owner with include_archived=true.
//	@Tags			products
//	@Produce		json
//	@Param			storeID				path		string	true	"Store ID"
//	@Param			category_id			query		string	false	"Category ID"
//	@Param			color_id			query		string	false	"Color ID"
//	@Param			size_id				query		string	false	"Size ID"
//	@Param			is_featured			query		bool	false	"Only featured products"
//	@Param			include_archived	query		bool	false	"Owner only"
//	@Param			page				query		int		false	"Page"
//	@Param			limit				query		int		false	"Page size"
//	@Success		200					{object}	envelope{data=ProductListResponse}
//	@Failure		400					{object}	error
//	@Failure		403					{object}	error
//	@Router			/stores/{storeID}/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("store id is required"))
		return
	}

	q := r.URL.Query()
	var f products.ListFilter
	if f.CategoryID, err = params.OptionalUUID(q, "category_id"); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if f.ColorID, err = params.OptionalUUID(q, "color_id"); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if f.SizeID, err = params.OptionalUUID(q, "size_id"); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if f.IsFeatured, err = params.OptionalBool(q, "is_featured"); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	archived, err := params.OptionalBool(q, "include_archived")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if archived != nil && *archived {
		owner, err := app.ownerOf(r, storeID)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		if !owner {
			app.forbiddenResponse(w, r, "store does not belong to user")
			return
		}
		f.IncludeArchived = true
	}

	p := params.ParsePagination(q)
	f.Limit, f.Offset = p.Limit, p.Offset

	list, total, err := app.store.Products.List(r.Context(), storeID, f)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, ProductListResponse{Products: list, Pagination: p})
}

// getProductHandler godoc
//
//	@Summary	Get a product
//	@Tags		products
//	@Produce	json
//	@Param		storeID		path		string	true	"Store ID"
//	@Param		productID	path		string	true	"Product ID"
//	@Success	200			{object}	envelope{data=products.ProductDetail}
//	@Failure	404			{object}	error
//	@Router		/stores/{storeID}/products/{productID} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	id, err := uuidParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	ctx := r.Context()
	key := cache.ProductKey(storeID, id)

	var cached products.ProductDetail
	if found, err := app.cache.GetJSON(ctx, key, &cached); err != nil {
		app.logger.Warnw("cache read", "key", key, "error", err)
	} else if found {
		app.jsonResponse(w, http.StatusOK, &cached)
		return
	}

	detail, err := app.store.Products.GetDetail(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.cache.SetJSON(ctx, key, detail); err != nil {
		app.logger.Warnw("cache write", "key", key, "error", err)
	}
	app.jsonResponse(w, http.StatusOK, detail)
}

// createProductHandler godoc
//
//	@Summary	Create a product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		storeID	path		string					true	"Store ID"
//	@Param		body	body		products.ProductInput	true	"Product"
//	@Success	201		{object}	envelope{data=products.ProductDetail}
//	@Failure	400		{object}	error
//	@Router		/stores/{storeID}/products [post]
//	@Security	ApiKeyAuth
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	ctx := r.Context()

	var in products.ProductInput
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := checkProductImages(store.ID, in.Images); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.store.Products.Create(ctx, store.ID, in)
	if err != nil {
		app.productWriteError(w, r, err)
		return
	}

	app.publish(ctx, events.NewEvent(events.ProductCreated, store.ID, getUserIDFromContext(r), detail))
	app.jsonResponse(w, http.StatusCreated, detail)
}

// updateProductHandler godoc
//
//	@Summary		Update a product
//	@Description	Replaces the images and reconciles the variations. Variations referenced by undelivered orders cannot be removed; such a request fails with 409 Conflict where older clients saw 400 with code P2014.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			storeID		path		string					true	"Store ID"
//	@Param			productID	path		string					true	"Product ID"
//	@Param			body		body		ProductUpdatePayload	true	"Product"
//	@Success		200			{object}	envelope{data=products.ProductDetail}
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Failure		409			{object}	error	"Variation used by an undelivered order (formerly 400 P2014)"
//	@Router			/stores/{storeID}/products/{productID} [patch]
//	@Security		ApiKeyAuth
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	ctx := r.Context()

	id, err := uuidParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload ProductUpdatePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload.Product); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := checkProductImages(store.ID, payload.Product.Images); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	res, err := app.store.Products.Update(ctx, store.ID, id, payload.Product, payload.DeletedImages, media.StorePrefix(store.ID))
	if err != nil {
		app.productWriteError(w, r, err)
		return
	}

	app.logger.Infow("product updated",
		"product_id", id,
		"variations_created", len(res.Plan.Create),
		"variations_disconnected", len(res.Plan.Disconnect),
		"variations_deleted", len(res.Plan.Delete),
		"images_purged", len(res.PurgePublicIDs),
	)

	app.purgeMedia(res.PurgePublicIDs)
	app.invalidate(ctx, cache.ProductKey(store.ID, id))
	app.publish(ctx, events.NewEvent(events.ProductUpdated, store.ID, getUserIDFromContext(r), res.Product))

	app.jsonResponse(w, http.StatusOK, res.Product)
}

// deleteProductHandler godoc
//
//	@Summary	Delete a product
//	@Tags		products
//	@Param		storeID		path	string	true	"Store ID"
//	@Param		productID	path	string	true	"Product ID"
//	@Success	204
//	@Failure	404	{object}	error
//	@Failure	409	{object}	error	"Variation used by an undelivered order"
//	@Router		/stores/{storeID}/products/{productID} [delete]
//	@Security	ApiKeyAuth
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	ctx := r.Context()

	id, err := uuidParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	deleted, publicIDs, err := app.store.Products.Delete(ctx, store.ID, id)
	if err != nil {
		app.productWriteError(w, r, err)
		return
	}

	app.purgeMedia(publicIDs)
	app.invalidate(ctx, cache.ProductKey(store.ID, id))
	app.publish(ctx, events.NewEvent(events.ProductDeleted, store.ID, getUserIDFromContext(r), deleted))

	w.WriteHeader(http.StatusNoContent)
}
