package payments

import (
	"context"
	"fmt"
)

type PaymentManager struct {
	gateways map[string]PaymentGateway
}

func NewPaymentManager() *PaymentManager {
	return &PaymentManager{gateways: make(map[string]PaymentGateway)}
}

func (m *PaymentManager) RegisterGateway(name string, gateway PaymentGateway) {
	m.gateways[name] = gateway
}

func (m *PaymentManager) Has(name string) bool {
	_, ok := m.gateways[name]
	return ok
}

func (m *PaymentManager) InitiatePayment(ctx context.Context, method string, req PaymentRequest) (PaymentResponse, error) {
	gateway, ok := m.gateways[method]
	if !ok {
		return PaymentResponse{}, fmt.Errorf("gateway not registered: %s", method)
	}
	return gateway.InitiatePayment(ctx, req)
}

func (m *PaymentManager) ParseWebhook(method string, payload []byte, signature string) (*WebhookEvent, error) {
	gateway, ok := m.gateways[method]
	if !ok {
		return nil, fmt.Errorf("gateway not registered: %s", method)
	}
	return gateway.ParseWebhook(payload, signature)
}
