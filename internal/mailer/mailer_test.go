package mailer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/mail.v2"
)

func confirmation() OrderConfirmation {
	return OrderConfirmation{
		Name:     "Ada",
		Code:     "ORD-8K2M4PQX",
		Currency: "usd",
		Address:  "1 Main St, Springfield",
		Items: []OrderLine{
			{ProductName: "Runner", Options: "L, Navy", Quantity: 2, TotalPriceCents: 9998},
			{ProductName: "Socks <3-pack>", Quantity: 1, TotalPriceCents: 1200},
		},
		TotalCents: 11198,
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "0.00", Money(0))
	assert.Equal(t, "0.05", Money(5))
	assert.Equal(t, "49.99", Money(4999))
	assert.Equal(t, "-1.50", Money(-150))
}

func TestRender_OrderConfirmation(t *testing.T) {
	r, err := Render(OrderConfirmationTemplate, confirmation())
	require.NoError(t, err)

	assert.Equal(t, "Your order ORD-8K2M4PQX is confirmed", r.Subject)
	assert.Contains(t, r.PlainBody, "Hi Ada,")
	assert.Contains(t, r.PlainBody, "- Runner (L, Navy) x2: 99.98 USD")
	assert.Contains(t, r.PlainBody, "Total: 111.98 USD")

	// The HTML part escapes product names.
	assert.Contains(t, r.HTMLBody, "Socks &lt;3-pack&gt;")
	assert.NotContains(t, r.HTMLBody, "<3-pack>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render("missing.tmpl", nil)
	assert.Error(t, err)
}

func TestSMTPMailer_Send(t *testing.T) {
	var sent []*mail.Message
	m := NewSMTP("localhost", 1025, "", "", "orders@example.com")
	m.retryWait = 0
	m.send = func(msgs ...*mail.Message) error {
		sent = append(sent, msgs...)
		return nil
	}

	require.NoError(t, m.Send(OrderConfirmationTemplate, "Ada", "ada@example.com", confirmation()))
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"Your order ORD-8K2M4PQX is confirmed"}, sent[0].GetHeader("Subject"))
	assert.Contains(t, sent[0].GetHeader("To")[0], "ada@example.com")
	assert.Contains(t, sent[0].GetHeader("From")[0], "orders@example.com")
}

func TestSMTPMailer_SendRetries(t *testing.T) {
	attempts := 0
	m := NewSMTP("localhost", 1025, "", "", "orders@example.com")
	m.retryWait = 0
	m.send = func(...*mail.Message) error {
		attempts++
		return errors.New("connection refused")
	}

	err := m.Send(OrderConfirmationTemplate, "Ada", "ada@example.com", confirmation())
	require.Error(t, err)
	assert.Equal(t, maxRetries, attempts)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPMailer_SendBackoff(t *testing.T) {
	var waits []time.Duration
	m := NewSMTP("localhost", 1025, "", "", "orders@example.com")
	m.retryWait = time.Second
	m.sleep = func(d time.Duration) { waits = append(waits, d) }
	m.send = func(...*mail.Message) error { return errors.New("connection refused") }

	require.Error(t, m.Send(OrderConfirmationTemplate, "Ada", "ada@example.com", confirmation()))

	// No wait after the final attempt.
	require.Len(t, waits, maxRetries-1)
	for i, d := range waits {
		assert.Equal(t, time.Second*time.Duration(1<<i), d)
	}
}

func TestSMTPMailer_SendRecovers(t *testing.T) {
	attempts := 0
	var waits []time.Duration
	m := NewSMTP("localhost", 1025, "", "", "orders@example.com")
	m.sleep = func(d time.Duration) { waits = append(waits, d) }
	m.send = func(...*mail.Message) error {
		attempts++
		if attempts < 2 {
			return errors.New("connection reset")
		}
		return nil
	}

	require.NoError(t, m.Send(OrderConfirmationTemplate, "Ada", "ada@example.com", confirmation()))
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []time.Duration{time.Second}, waits)
}
