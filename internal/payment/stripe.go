// Package payment wraps the external payment gateway. It is a read-only
// status oracle here: nothing in this repository initiates charges, and the
// admission transaction never touches this package.
package payment

import (
	"context"

	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeGateway{
		api: api,
	}
}

// PaymentSucceeded reports whether the given payment intent has succeeded.
func (g *StripeGateway) PaymentSucceeded(_ context.Context, paymentIntentID string) (bool, error) {
	intent, err := g.api.PaymentIntents.Get(paymentIntentID, nil)
	if err != nil {
		return false, err
	}

	return intent.Status == stripe.PaymentIntentStatusSucceeded, nil
}
