package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// overviewHandler godoc
//
//	@Summary		Dashboard overview
//	@Description	Revenue, sales count, stock count and monthly revenue for a year.
//	@Tags			overview
//	@Produce		json
//	@Param			storeID	path		string	true	"Store ID"
//	@Param			year	query		int		false	"Year, defaults to the current one"
//	@Success		200		{object}	envelope{data=overview.Overview}
//	@Failure		400		{object}	error
//	@Router			/stores/{storeID}/overview [get]
//	@Security		ApiKeyAuth
func (app *application) overviewHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)

	year := time.Now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 9999 {
			app.badRequestResponse(w, r, fmt.Errorf("year must be a four digit year"))
			return
		}
		year = y
	}

	o, err := app.store.Overview.Get(r.Context(), store.ID, year)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, o)
}
