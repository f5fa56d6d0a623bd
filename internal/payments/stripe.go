package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	Stripe = "stripe"

	metaOrderID = "order_id"
	metaStoreID = "store_id"

	eventCheckoutCompleted = "checkout.session.completed"
	eventAsyncSucceeded    = "checkout.session.async_payment_succeeded"
	eventAsyncFailed       = "checkout.session.async_payment_failed"
)

type StripeAdapter struct {
	sessions      session.Client
	webhookSecret string
}

func NewStripeAdapter(secretKey, webhookSecret string) *StripeAdapter {
	return &StripeAdapter{
		sessions:      session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		webhookSecret: webhookSecret,
	}
}

// InitiatePayment opens a hosted Checkout session collecting phone and
// billing address. The order id travels in the session metadata.
func (s *StripeAdapter) InitiatePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error) {
	if len(req.Lines) == 0 {
		return PaymentResponse{}, errors.New("stripe: no line items")
	}
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Lines))
	for _, l := range req.Lines {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(l.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(l.Name),
				},
			},
			Quantity: stripe.Int64(l.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:                items,
		SuccessURL:               stripe.String(req.SuccessURL),
		CancelURL:                stripe.String(req.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		ExpiresAt: stripe.Int64(time.Now().Add(SessionTTL).Unix()),
		Metadata: map[string]string{
			metaOrderID: req.OrderID.String(),
			metaStoreID: req.StoreID.String(),
		},
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String("checkout-" + req.OrderID.String())

	sess, err := s.sessions.New(params)
	if err != nil {
		return PaymentResponse{}, fmt.Errorf("stripe checkout session: %w", err)
	}
	return PaymentResponse{PaymentURL: sess.URL, SessionID: sess.ID}, nil
}

func (s *StripeAdapter) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	switch event.Type {
	case eventCheckoutCompleted, eventAsyncSucceeded, eventAsyncFailed:
	default:
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("stripe: decode checkout session: %w", err)
	}

	// Retrying a session without an order cannot succeed, so it is acknowledged.
	orderID, err := uuid.Parse(sess.Metadata[metaOrderID])
	if err != nil {
		out.Ignored = fmt.Sprintf("session %s has no valid order id", sess.ID)
		return out, nil
	}
	out.OrderID = orderID

	switch {
	case event.Type == eventAsyncFailed:
		out.Failed = true
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		out.Completed = true
	default:
		// Delayed methods complete checkout with payment_status "unpaid".
		out.Pending = true
	}

	if cd := sess.CustomerDetails; cd != nil {
		out.Name = cd.Name
		out.Email = cd.Email
		out.Phone = cd.Phone
		out.Address = FormatAddress(cd.Address)
	}
	return out, nil
}

// FormatAddress joins the non-empty address parts with ", ".
func FormatAddress(a *stripe.Address) string {
	if a == nil {
		return ""
	}
	parts := []string{a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
