package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"storeadmin/internal/media"

	"github.com/gabriel-vasile/mimetype"
)

const maxUploadBytes = 8 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// uploadImageHandler godoc
//
//	@Summary		Upload an image
//	@Description	Stores a JPEG, PNG or WebP image of at most 8 MB in the store's media folder.
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			storeID	path		string	true	"Store ID"
//	@Param			image	formData	file	true	"Image"
//	@Success		201		{object}	envelope{data=media.Asset}
//	@Failure		400		{object}	error
//	@Router			/stores/{storeID}/uploads [post]
//	@Security		ApiKeyAuth
func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)

	if app.media == nil {
		app.serviceUnavailableResponse(w, r, fmt.Errorf("media storage is not configured"))
		return
	}

	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("image is required"))
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		app.badRequestResponse(w, r, fmt.Errorf("image must be at most 8 MB"))
		return
	}

	head := make([]byte, 3072)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		app.badRequestResponse(w, r, err)
		return
	}
	mt := mimetype.Detect(head[:n])
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		app.badRequestResponse(w, r, fmt.Errorf("unsupported image type %s", mt.String()))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	asset, err := app.media.Upload(r.Context(), file, media.StoreFolder(store.ID))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("image uploaded", "store_id", store.ID, "public_id", asset.PublicID, "type", mt.String(), "bytes", header.Size)
	app.jsonResponse(w, http.StatusCreated, asset)
}
