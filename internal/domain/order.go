package domain

import "time"

type OrderStatus string

const (
	OrderStatusPendente    OrderStatus = "pendente"
	OrderStatusPago        OrderStatus = "pago"
	OrderStatusCancelado   OrderStatus = "cancelado"
	OrderStatusReembolsado OrderStatus = "reembolsado"
	OrderStatusExpirado    OrderStatus = "expirado"
)

const PaymentMethodGratuito = "gratuito"

// Order is one purchase transaction for one athlete against one event.
// ExpiresAt, when set, is the hard payment deadline enforced by the reaper.
type Order struct {
	ID              uint        `json:"id"`
	EventID         uint        `json:"event_id"`
	AthleteID       uint        `json:"athlete_id"`
	TotalAmount     int64       `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentIntentID string      `json:"payment_intent_id,omitempty"`
	ExpiresAt       *time.Time  `json:"expires_at"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Expired reports whether the order is still pending past its deadline.
func (o Order) Expired(now time.Time) bool {
	return o.Status == OrderStatusPendente && o.ExpiresAt != nil && o.ExpiresAt.Before(now)
}

type RegistrationStatus string

const (
	RegistrationStatusPendente   RegistrationStatus = "pendente"
	RegistrationStatusConfirmada RegistrationStatus = "confirmada"
	RegistrationStatusCancelada  RegistrationStatus = "cancelada"
	RegistrationStatusNoShow     RegistrationStatus = "no_show"
)

// Registration is one athlete's claim on one modality slot within one batch.
// BatchID is always the batch the admission transaction actually locked,
// never a value supplied by the caller.
type Registration struct {
	ID         uint               `json:"id"`
	OrderID    uint               `json:"order_id"`
	EventID    uint               `json:"event_id"`
	ModalityID uint               `json:"modality_id"`
	BatchID    uint               `json:"batch_id"`
	AthleteID  uint               `json:"athlete_id"`
	Status     RegistrationStatus `json:"status"`
	ShirtSize  string             `json:"shirt_size,omitempty"`
	TeamName   string             `json:"team_name,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
