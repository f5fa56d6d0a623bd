package payments

import (
	"time"

	"github.com/google/uuid"
)

// SessionTTL is how long a hosted payment page stays usable. Unpaid orders
// older than that can no longer complete.
const SessionTTL = 6 * time.Hour

type LineItem struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
}

type PaymentRequest struct {
	OrderID    uuid.UUID
	StoreID    uuid.UUID
	Currency   string
	Lines      []LineItem
	SuccessURL string
	CancelURL  string
}

type PaymentResponse struct {
	PaymentURL string
	SessionID  string
}

// WebhookEvent is the provider-neutral view of a verified callback.
// Completed means the money has arrived. Pending means checkout finished with
// a payment method that settles later, Failed that such a payment did not
// settle. All three are false for events this system does not act on.
type WebhookEvent struct {
	ID        string
	Type      string
	Completed bool
	Pending   bool
	Failed    bool
	// Ignored says why a checkout event was not acted on.
	Ignored   string
	OrderID   uuid.UUID
	Name      string
	Email     string
	Phone     string
	Address   string
}
