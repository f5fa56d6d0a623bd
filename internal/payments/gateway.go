package payments

import (
	"context"
	"errors"
)

var ErrInvalidSignature = errors.New("webhook signature verification failed")

// PaymentGateway defines a common interface for all payment providers
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (PaymentResponse, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
