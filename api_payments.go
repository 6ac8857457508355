package safestreet

import (
	"context"
	"time"
)

// PaymentDetails is a client's payout destination for footage rewards.
type PaymentDetails struct {
	ID            string    `json:"id"`
	Method        string    `json:"method"`
	AccountName   string    `json:"accountName"`
	AccountNumber string    `json:"accountNumber"`
	BankName      string    `json:"bankName,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PaymentDetailsInput is the create/update payload for a payout destination.
type PaymentDetailsInput struct {
	Method        string `json:"method"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName,omitempty"`
}

// PaymentDetails fetches the caller's payout destination. A 404 from the
// backend surfaces as an [APIError]; the caller decides whether an absent
// record is an error.
func (c *Client) PaymentDetails(ctx context.Context) (*PaymentDetails, error) {
	var payload struct {
		PaymentDetails *PaymentDetails `json:"paymentDetails"`
	}
	if err := c.get(ctx, "/payment-details", nil, &payload); err != nil {
		return nil, err
	}
	return payload.PaymentDetails, nil
}

// SavePaymentDetails creates or replaces the caller's payout destination.
func (c *Client) SavePaymentDetails(ctx context.Context, input PaymentDetailsInput) (*PaymentDetails, error) {
	var payload struct {
		PaymentDetails *PaymentDetails `json:"paymentDetails"`
	}
	if err := c.post(ctx, "/payment-details", input, &payload); err != nil {
		return nil, err
	}
	return payload.PaymentDetails, nil
}

// DeletePaymentDetails removes the caller's payout destination.
func (c *Client) DeletePaymentDetails(ctx context.Context) error {
	return c.del(ctx, "/payment-details", nil)
}
