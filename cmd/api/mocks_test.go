package main

import (
	"context"
	"io"
	"time"

	"storeadmin/internal/domain/billboards"
	"storeadmin/internal/domain/categories"
	"storeadmin/internal/domain/colors"
	"storeadmin/internal/domain/orders"
	"storeadmin/internal/domain/overview"
	"storeadmin/internal/domain/products"
	"storeadmin/internal/domain/stores"
	"storeadmin/internal/events"
	"storeadmin/internal/media"
	"storeadmin/internal/payments"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type storesMock struct{ mock.Mock }

func (m *storesMock) Create(ctx context.Context, userID, name string) (*stores.Store, error) {
	args := m.Called(ctx, userID, name)
	s, _ := args.Get(0).(*stores.Store)
	return s, args.Error(1)
}

func (m *storesMock) GetByID(ctx context.Context, id uuid.UUID) (*stores.Store, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*stores.Store)
	return s, args.Error(1)
}

func (m *storesMock) GetForUser(ctx context.Context, id uuid.UUID, userID string) (*stores.Store, error) {
	args := m.Called(ctx, id, userID)
	s, _ := args.Get(0).(*stores.Store)
	return s, args.Error(1)
}

func (m *storesMock) ListByUser(ctx context.Context, userID string) ([]*stores.Store, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]*stores.Store)
	return s, args.Error(1)
}

func (m *storesMock) Rename(ctx context.Context, id uuid.UUID, name string) (*stores.Store, error) {
	args := m.Called(ctx, id, name)
	s, _ := args.Get(0).(*stores.Store)
	return s, args.Error(1)
}

func (m *storesMock) Delete(ctx context.Context, id uuid.UUID) ([]string, error) {
	args := m.Called(ctx, id)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type billboardsMock struct{ mock.Mock }

func (m *billboardsMock) Create(ctx context.Context, b *billboards.Billboard) (*billboards.Billboard, error) {
	args := m.Called(ctx, b)
	out, _ := args.Get(0).(*billboards.Billboard)
	return out, args.Error(1)
}

func (m *billboardsMock) Get(ctx context.Context, storeID, id uuid.UUID) (*billboards.Billboard, error) {
	args := m.Called(ctx, storeID, id)
	out, _ := args.Get(0).(*billboards.Billboard)
	return out, args.Error(1)
}

func (m *billboardsMock) List(ctx context.Context, storeID uuid.UUID) ([]*billboards.Billboard, error) {
	args := m.Called(ctx, storeID)
	out, _ := args.Get(0).([]*billboards.Billboard)
	return out, args.Error(1)
}

func (m *billboardsMock) Update(ctx context.Context, b *billboards.Billboard) (*billboards.Billboard, error) {
	args := m.Called(ctx, b)
	out, _ := args.Get(0).(*billboards.Billboard)
	return out, args.Error(1)
}

func (m *billboardsMock) Delete(ctx context.Context, storeID, id uuid.UUID) (*billboards.Billboard, error) {
	args := m.Called(ctx, storeID, id)
	out, _ := args.Get(0).(*billboards.Billboard)
	return out, args.Error(1)
}

type categoriesMock struct{ mock.Mock }

func (m *categoriesMock) Create(ctx context.Context, c *categories.Category) (*categories.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(*categories.Category)
	return out, args.Error(1)
}

func (m *categoriesMock) Get(ctx context.Context, storeID, id uuid.UUID) (*categories.Category, error) {
	args := m.Called(ctx, storeID, id)
	out, _ := args.Get(0).(*categories.Category)
	return out, args.Error(1)
}

func (m *categoriesMock) List(ctx context.Context, storeID uuid.UUID) ([]*categories.Category, error) {
	args := m.Called(ctx, storeID)
	out, _ := args.Get(0).([]*categories.Category)
	return out, args.Error(1)
}

func (m *categoriesMock) Update(ctx context.Context, c *categories.Category) (*categories.Category, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(*categories.Category)
	return out, args.Error(1)
}

func (m *categoriesMock) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return m.Called(ctx, storeID, id).Error(0)
}

type colorsMock struct{ mock.Mock }

func (m *colorsMock) Create(ctx context.Context, c *colors.Color) (*colors.Color, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(*colors.Color)
	return out, args.Error(1)
}

func (m *colorsMock) Get(ctx context.Context, storeID, id uuid.UUID) (*colors.Color, error) {
	args := m.Called(ctx, storeID, id)
	out, _ := args.Get(0).(*colors.Color)
	return out, args.Error(1)
}

func (m *colorsMock) List(ctx context.Context, storeID uuid.UUID) ([]*colors.Color, error) {
	args := m.Called(ctx, storeID)
	out, _ := args.Get(0).([]*colors.Color)
	return out, args.Error(1)
}

func (m *colorsMock) Update(ctx context.Context, c *colors.Color) (*colors.Color, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(*colors.Color)
	return out, args.Error(1)
}

func (m *colorsMock) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return m.Called(ctx, storeID, id).Error(0)
}

type productsMock struct{ mock.Mock }

func (m *productsMock) Create(ctx context.Context, storeID uuid.UUID, in products.ProductInput) (*products.ProductDetail, error) {
	args := m.Called(ctx, storeID, in)
	out, _ := args.Get(0).(*products.ProductDetail)
	return out, args.Error(1)
}

func (m *productsMock) GetDetail(ctx context.Context, storeID, id uuid.UUID) (*products.ProductDetail, error) {
	args := m.Called(ctx, storeID, id)
	out, _ := args.Get(0).(*products.ProductDetail)
	return out, args.Error(1)
}

func (m *productsMock) List(ctx context.Context, storeID uuid.UUID, f products.ListFilter) ([]*products.ProductCard, int, error) {
	args := m.Called(ctx, storeID, f)
	out, _ := args.Get(0).([]*products.ProductCard)
	return out, args.Int(1), args.Error(2)
}

func (m *productsMock) Update(ctx context.Context, storeID, id uuid.UUID, in products.ProductInput, deleted []products.ImageInput, mediaPrefix string) (*products.UpdateResult, error) {
	args := m.Called(ctx, storeID, id, in, deleted, mediaPrefix)
	out, _ := args.Get(0).(*products.UpdateResult)
	return out, args.Error(1)
}

func (m *productsMock) Delete(ctx context.Context, storeID, id uuid.UUID) (*products.Product, []string, error) {
	args := m.Called(ctx, storeID, id)
	out, _ := args.Get(0).(*products.Product)
	ids, _ := args.Get(1).([]string)
	return out, ids, args.Error(2)
}

type ordersMock struct{ mock.Mock }

func (m *ordersMock) CreateCheckout(ctx context.Context, storeID uuid.UUID, in orders.CheckoutInput) (*orders.OrderDetail, error) {
	args := m.Called(ctx, storeID, in)
	out, _ := args.Get(0).(*orders.OrderDetail)
	return out, args.Error(1)
}

func (m *ordersMock) DeleteUnpaid(ctx context.Context, storeID, id uuid.UUID) error {
	return m.Called(ctx, storeID, id).Error(0)
}

func (m *ordersMock) DeleteAbandoned(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ordersMock) SetAwaitingPayment(ctx context.Context, id uuid.UUID, awaiting bool) error {
	return m.Called(ctx, id, awaiting).Error(0)
}

func (m *ordersMock) MarkPaid(ctx context.Context, id uuid.UUID, phone, address string) (*orders.Order, error) {
	args := m.Called(ctx, id, phone, address)
	out, _ := args.Get(0).(*orders.Order)
	return out, args.Error(1)
}

func (m *ordersMock) List(ctx context.Context, storeID uuid.UUID, f orders.ListFilter) ([]orders.Order, int, error) {
	args := m.Called(ctx, storeID, f)
	out, _ := args.Get(0).([]orders.Order)
	return out, args.Int(1), args.Error(2)
}

func (m *ordersMock) GetDetail(ctx context.Context, storeID, id uuid.UUID) (*orders.OrderDetail, error) {
	args := m.Called(ctx, storeID, id)
	out, _ := args.Get(0).(*orders.OrderDetail)
	return out, args.Error(1)
}

func (m *ordersMock) SetDelivered(ctx context.Context, storeID, id uuid.UUID, delivered bool) (*orders.Order, error) {
	args := m.Called(ctx, storeID, id, delivered)
	out, _ := args.Get(0).(*orders.Order)
	return out, args.Error(1)
}

type overviewMock struct{ mock.Mock }

func (m *overviewMock) Get(ctx context.Context, storeID uuid.UUID, year int) (*overview.Overview, error) {
	args := m.Called(ctx, storeID, year)
	out, _ := args.Get(0).(*overview.Overview)
	return out, args.Error(1)
}

// mediaMock reports purged IDs on purged so tests can wait for the
// background delete.
type mediaMock struct {
	mock.Mock
	purged chan []string
}

func newMediaMock() *mediaMock {
	return &mediaMock{purged: make(chan []string, 4)}
}

func (m *mediaMock) Upload(ctx context.Context, r io.Reader, folder string) (*media.Asset, error) {
	args := m.Called(ctx, r, folder)
	out, _ := args.Get(0).(*media.Asset)
	return out, args.Error(1)
}

func (m *mediaMock) Delete(_ context.Context, publicIDs []string) error {
	m.purged <- publicIDs
	return nil
}

type sentMail struct {
	template string
	name     string
	email    string
	data     any
}

type mailerMock struct {
	sent chan sentMail
}

func newMailerMock() *mailerMock {
	return &mailerMock{sent: make(chan sentMail, 4)}
}

func (m *mailerMock) Send(templateFile, name, email string, data any) error {
	m.sent <- sentMail{template: templateFile, name: name, email: email, data: data}
	return nil
}

type publisherMock struct{ mock.Mock }

func (m *publisherMock) Publish(ctx context.Context, e events.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *publisherMock) Close() {}

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) InitiatePayment(ctx context.Context, req payments.PaymentRequest) (payments.PaymentResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(payments.PaymentResponse), args.Error(1)
}

func (m *gatewayMock) ParseWebhook(payload []byte, signature string) (*payments.WebhookEvent, error) {
	args := m.Called(payload, signature)
	out, _ := args.Get(0).(*payments.WebhookEvent)
	return out, args.Error(1)
}
