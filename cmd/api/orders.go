package main

import (
	"errors"
	"net/http"

	"storeadmin/internal/domain/orders"
	"storeadmin/internal/params"
)

type OrderListResponse struct {
	Orders     []orders.Order    `json:"orders"`
	Pagination params.Pagination `json:"pagination"`
}

type DeliveredPayload struct {
	Delivered *bool `json:"delivered" validate:"required"`
}

// listOrdersHandler godoc
//
//	@Summary	List orders
//	@Tags		orders
//	@Produce	json
//	@Param		storeID		path		string	true	"Store ID"
//	@Param		is_paid		query		bool	false	"Paid filter"
//	@Param		delivered	query		bool	false	"Delivered filter"
//	@Param		page		query		int		false	"Page"
//	@Param		limit		query		int		false	"Page size"
//	@Success	200			{object}	envelope{data=OrderListResponse}
//	@Failure	400			{object}	error
//	@Router		/stores/{storeID}/orders [get]
//	@Security	ApiKeyAuth
func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	q := r.URL.Query()

	var (
		f   orders.ListFilter
		err error
	)
	if f.IsPaid, err = params.OptionalBool(q, "is_paid"); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if f.Delivered, err = params.OptionalBool(q, "delivered"); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p := params.ParsePagination(q)
	f.Limit, f.Offset = p.Limit, p.Offset

	list, total, err := app.store.Orders.List(r.Context(), store.ID, f)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, OrderListResponse{Orders: list, Pagination: p})
}

// getOrderHandler godoc
//
//	@Summary	Get an order with its items
//	@Tags		orders
//	@Produce	json
//	@Param		storeID	path		string	true	"Store ID"
//	@Param		orderID	path		string	true	"Order ID"
//	@Success	200		{object}	envelope{data=orders.OrderDetail}
//	@Failure	404		{object}	error
//	@Router		/stores/{storeID}/orders/{orderID} [get]
//	@Security	ApiKeyAuth
func (app *application) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	id, err := uuidParam(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.store.Orders.GetDetail(r.Context(), store.ID, id)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, detail)
}

// setOrderDeliveredHandler godoc
//
//	@Summary	Mark an order delivered or not delivered
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		storeID	path		string				true	"Store ID"
//	@Param		orderID	path		string				true	"Order ID"
//	@Param		body	body		DeliveredPayload	true	"Delivery state"
//	@Success	200		{object}	envelope{data=orders.Order}
//	@Failure	400		{object}	error
//	@Failure	404		{object}	error
//	@Router		/stores/{storeID}/orders/{orderID}/delivered [patch]
//	@Security	ApiKeyAuth
func (app *application) setOrderDeliveredHandler(w http.ResponseWriter, r *http.Request) {
	store := getStoreFromContext(r)
	id, err := uuidParam(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload DeliveredPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	o, err := app.store.Orders.SetDelivered(r.Context(), store.ID, id, *payload.Delivered)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("order delivery updated", "order_id", id, "delivered", o.Delivered)
	app.jsonResponse(w, http.StatusOK, o)
}
