package domain

import "time"

type BatchStatus string

const (
	BatchStatusFuture BatchStatus = "future"
	BatchStatusActive BatchStatus = "active"
	BatchStatusClosed BatchStatus = "closed"
)

// RegistrationBatch is a time-boxed pricing batch ("lote"). A batch with a nil
// ModalityID applies event-wide across all modalities. Within one (event,
// modality-or-nil) scope at most one batch is ativo at any instant; the
// admission transaction and the rollover engine enforce that operationally.
type RegistrationBatch struct {
	ID               uint        `json:"id"`
	EventID          uint        `json:"event_id"`
	ModalityID       *uint       `json:"modality_id"`
	Name             string      `json:"name"`
	Ordem            int         `json:"ordem"`
	QuantidadeMaxima *int        `json:"quantidade_maxima"` // nil = unlimited
	QuantidadeUsada  int         `json:"quantidade_usada"`
	Status           BatchStatus `json:"status"`
	Ativo            bool        `json:"ativo"`
	StartsAt         time.Time   `json:"starts_at"`
	EndsAt           *time.Time  `json:"ends_at"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Activate marks the batch active. The future, active, closed state machine
// is one-directional, so activating a closed batch is a no-op.
func (b *RegistrationBatch) Activate() {
	if b.Status == BatchStatusClosed {
		return
	}
	b.Ativo = true
	b.Status = BatchStatusActive
}
