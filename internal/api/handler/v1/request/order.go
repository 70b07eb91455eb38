package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ConfirmOrderRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

func (req *ConfirmOrderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PaymentIntentID, validation.Required, validation.Length(1, 255)),
	)
}
