package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storeadmin/internal/cache"
	"storeadmin/internal/domain/orders"
	"storeadmin/internal/events"
	"storeadmin/internal/mailer"
	"storeadmin/internal/payments"

	"github.com/google/uuid"
)

type CheckoutResponse struct {
	URL     string    `json:"url"`
	OrderID uuid.UUID `json:"order_id"`
	Code    string    `json:"code"`
}

// checkoutHandler godoc
//
//	@Summary		Start a checkout
//	@Description	Creates an unpaid order for the requested variations and opens a Stripe Checkout session.
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			storeID	path		string					true	"Store ID"
//	@Param			body	body		orders.CheckoutInput	true	"Cart"
//	@Success		201		{object}	envelope{data=CheckoutResponse}
//	@Failure		400		{object}	error
//	@Failure		409		{object}	error	"Not enough stock"
//	@Failure		503		{object}	error	"Payments not configured"
//	@Router			/stores/{storeID}/checkout [post]
func (app *application) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	if !app.payments.Has(payments.Stripe) {
		app.serviceUnavailableResponse(w, r, fmt.Errorf("payments are not configured"))
		return
	}

	storeID, err := uuidParam(r, "storeID")
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("store id is required"))
		return
	}
	ctx := r.Context()

	var in orders.CheckoutInput
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.store.Orders.CreateCheckout(ctx, storeID, in)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrVariationUnavailable):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, orders.ErrInsufficientStock):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	lines := make([]payments.LineItem, 0, len(detail.Items))
	for _, it := range detail.Items {
		lines = append(lines, payments.LineItem{
			Name:            lineName(it),
			UnitAmountCents: it.UnitPriceCents,
			Quantity:        int64(it.Quantity),
		})
	}

	frontend := strings.TrimRight(app.config.frontendURL, "/")
	resp, err := app.payments.InitiatePayment(ctx, payments.Stripe, payments.PaymentRequest{
		OrderID:    detail.Order.ID,
		StoreID:    storeID,
		Currency:   app.config.payments.currency,
		Lines:      lines,
		SuccessURL: frontend + "/cart?success=1",
		CancelURL:  frontend + "/cart?canceled=1",
	})
	if err != nil {
		if delErr := app.store.Orders.DeleteUnpaid(ctx, storeID, detail.Order.ID); delErr != nil {
			app.logger.Errorw("remove order after failed checkout", "order_id", detail.Order.ID, "error", delErr)
		}
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("checkout started",
		"store_id", storeID,
		"order_id", detail.Order.ID,
		"code", detail.Order.Code,
		"session_id", resp.SessionID,
	)

	app.jsonResponse(w, http.StatusCreated, CheckoutResponse{
		URL:     resp.PaymentURL,
		OrderID: detail.Order.ID,
		Code:    detail.Order.Code,
	})
}

// itemOptions is the "size, color" label of an order item.
func itemOptions(it orders.OrderItem) string {
	var opts []string
	if it.Size != nil {
		opts = append(opts, *it.Size)
	}
	if it.Color != nil {
		opts = append(opts, *it.Color)
	}
	return strings.Join(opts, ", ")
}

func lineName(it orders.OrderItem) string {
	if opts := itemOptions(it); opts != "" {
		return fmt.Sprintf("%s (%s)", it.ProductName, opts)
	}
	return it.ProductName
}

// stripeWebhookHandler godoc
//
//	@Summary		Stripe webhook
//	@Description	Verifies the Stripe-Signature header. Orders are marked paid once Stripe reports the payment as paid
//	@Description	(checkout.session.completed with payment_status paid, or checkout.session.async_payment_succeeded).
//	@Description	Delayed payments flag the order as awaiting payment until they settle or fail.
//	@Tags			checkout
//	@Accept			json
//	@Success		200
//	@Failure		400	{object}	error	"Invalid signature"
//	@Router			/webhooks/stripe [post]
func (app *application) stripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if !app.payments.Has(payments.Stripe) {
		app.serviceUnavailableResponse(w, r, fmt.Errorf("payments are not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 65536)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	evt, err := app.payments.ParseWebhook(payments.Stripe, payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	ctx := r.Context()

	switch {
	case evt.Ignored != "":
		app.logger.Warnw("webhook ignored", "event_id", evt.ID, "type", evt.Type, "reason", evt.Ignored)
		w.WriteHeader(http.StatusOK)
		return
	case evt.Pending, evt.Failed:
		// A pending order survives the abandoned checkout sweep until its
		// payment settles; a failed one is left for the sweep.
		err := app.store.Orders.SetAwaitingPayment(ctx, evt.OrderID, evt.Pending)
		switch {
		case errors.Is(err, orders.ErrNotFound):
			app.logger.Warnw("webhook ignored", "event_id", evt.ID, "order_id", evt.OrderID, "reason", err)
		case err != nil:
			app.internalServerError(w, r, err)
			return
		default:
			app.logger.Infow("order awaiting payment", "event_id", evt.ID, "order_id", evt.OrderID, "awaiting", evt.Pending)
		}
		w.WriteHeader(http.StatusOK)
		return
	case !evt.Completed:
		w.WriteHeader(http.StatusOK)
		return
	}

	paid, err := app.store.Orders.MarkPaid(ctx, evt.OrderID, evt.Phone, evt.Address)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound), errors.Is(err, orders.ErrAlreadyPaid):
			// Acknowledge so Stripe stops retrying.
			app.logger.Warnw("webhook ignored", "event_id", evt.ID, "order_id", evt.OrderID, "reason", err)
			w.WriteHeader(http.StatusOK)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logger.Infow("order paid", "event_id", evt.ID, "order_id", paid.ID, "code", paid.Code)

	detail, err := app.store.Orders.GetDetail(ctx, paid.StoreID, paid.ID)
	if err != nil {
		app.logger.Warnw("load paid order", "order_id", paid.ID, "error", err)
	} else {
		// Stock changed for every ordered product.
		keys := make([]string, 0, len(detail.Items))
		for _, it := range detail.Items {
			if it.ProductID != nil {
				keys = append(keys, cache.ProductKey(paid.StoreID, *it.ProductID))
			}
		}
		app.invalidate(ctx, keys...)

		if app.mailer != nil && evt.Email != "" {
			data := orderConfirmation(evt, detail, app.config.payments.currency)
			app.background(func() {
				if err := app.mailer.Send(mailer.OrderConfirmationTemplate, evt.Name, evt.Email, data); err != nil {
					app.logger.Errorw("send order confirmation", "order_id", paid.ID, "error", err)
					return
				}
				app.logger.Infow("order confirmation sent", "order_id", paid.ID)
			})
		}
	}

	app.publish(ctx, events.NewEvent(events.OrderPaid, paid.StoreID, "", paid))
	w.WriteHeader(http.StatusOK)
}

func orderConfirmation(evt *payments.WebhookEvent, detail *orders.OrderDetail, currency string) mailer.OrderConfirmation {
	data := mailer.OrderConfirmation{
		Name:       evt.Name,
		Code:       detail.Order.Code,
		Currency:   currency,
		Address:    evt.Address,
		TotalCents: detail.Order.TotalCents,
	}
	for _, it := range detail.Items {
		data.Items = append(data.Items, mailer.OrderLine{
			ProductName:     it.ProductName,
			Options:         itemOptions(it),
			Quantity:        it.Quantity,
			TotalPriceCents: it.TotalPriceCents,
		})
	}
	return data
}
