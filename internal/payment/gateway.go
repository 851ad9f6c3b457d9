// Package payment wraps the external payment provider behind a small
// gateway interface.
package payment

import "context"

// CheckoutSession is the provider-neutral view of a checkout session.
type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url,omitempty"`
	PaymentStatus string `json:"paymentStatus"`
	PayerName     string `json:"payerName,omitempty"`
	PayerEmail    string `json:"payerEmail,omitempty"`
	AmountCents   int64  `json:"amountCents"`
}

// Paid reports whether the session has been settled by the provider.
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == "paid"
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, amountCents int64, label string) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
