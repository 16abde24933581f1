package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Receipt is the result of a charge.
type Receipt struct {
	ID      string
	OrderID string
	Amount  float64
	Method  string
	PaidAt  time.Time
}

// Simulator stands in for the payment gateway. Every charge succeeds
// immediately and yields a synthetic receipt.
type Simulator struct{}

// NewSimulator creates new Simulator instance
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Charge records a simulated payment for the order.
func (s *Simulator) Charge(_ context.Context, orderID string, amount float64) (*Receipt, error) {
	return &Receipt{
		ID:      uuid.NewString(),
		OrderID: orderID,
		Amount:  amount,
		Method:  "simulated",
		PaidAt:  time.Now().UTC(),
	}, nil
}
