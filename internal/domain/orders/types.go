package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = errors.New("order not found")
	ErrVariationUnavailable = errors.New("product variation is not available in this store")
	ErrInsufficientStock    = errors.New("not enough stock for product variation")
	ErrAlreadyPaid          = errors.New("order is already paid")
)

type Order struct {
	ID      uuid.UUID `json:"id"`
	StoreID uuid.UUID `json:"store_id"`
	Seq     int64     `json:"-"`
	Code    string    `json:"code"`
	IsPaid  bool      `json:"is_paid"`
	// AwaitingPayment is set while a delayed payment method settles.
	AwaitingPayment bool      `json:"awaiting_payment"`
	Delivered       bool      `json:"delivered"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	TotalCents      int64     `json:"total_cents"`
	ItemCount       int       `json:"item_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OrderItem is a snapshot of what was bought. ProductID and
// ProductVariationID become nil when the catalog rows are removed.
type OrderItem struct {
	ID                 uuid.UUID  `json:"id"`
	OrderID            uuid.UUID  `json:"order_id"`
	ProductID          *uuid.UUID `json:"product_id,omitempty"`
	ProductVariationID *uuid.UUID `json:"product_variation_id,omitempty"`
	ProductName        string     `json:"product_name"`
	Size               *string    `json:"size,omitempty"`
	Color              *string    `json:"color,omitempty"`
	Quantity           int        `json:"quantity"`
	UnitPriceCents     int64      `json:"unit_price_cents"`
	TotalPriceCents    int64      `json:"total_price_cents"`
}

type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

type CheckoutLine struct {
	VariationID uuid.UUID `json:"variation_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"gt=0,lte=100"`
}

type CheckoutInput struct {
	Items []CheckoutLine `json:"items" validate:"required,min=1,dive"`
}

type ListFilter struct {
	IsPaid    *bool
	Delivered *bool
	Limit     int
	Offset    int
}

type Store interface {
	// Storefront
	CreateCheckout(ctx context.Context, storeID uuid.UUID, in CheckoutInput) (*OrderDetail, error)
	DeleteUnpaid(ctx context.Context, storeID, id uuid.UUID) error
	// DeleteAbandoned removes unpaid orders created before cutoff.
	DeleteAbandoned(ctx context.Context, cutoff time.Time) (int64, error)

	// Payment provider callbacks
	SetAwaitingPayment(ctx context.Context, id uuid.UUID, awaiting bool) error
	MarkPaid(ctx context.Context, id uuid.UUID, phone, address string) (*Order, error)

	// Owner
	List(ctx context.Context, storeID uuid.UUID, f ListFilter) ([]Order, int, error)
	GetDetail(ctx context.Context, storeID, id uuid.UUID) (*OrderDetail, error)
	SetDelivered(ctx context.Context, storeID, id uuid.UUID, delivered bool) (*Order, error)
}
