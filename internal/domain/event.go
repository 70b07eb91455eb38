package domain

import "time"

type Event struct {
	ID                      uint      `json:"id"`
	Name                    string    `json:"name"`
	Location                string    `json:"location"`
	Date                    time.Time `json:"date"`
	CapacityTotal           int       `json:"capacity_total"`
	CapacityOccupied        int       `json:"capacity_occupied"`
	AllowMultipleModalities bool      `json:"allow_multiple_modalities"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Full reports whether the event has no remaining slots.
func (e Event) Full() bool {
	return e.CapacityOccupied >= e.CapacityTotal
}

type Modality struct {
	ID               uint      `json:"id"`
	EventID          uint      `json:"event_id"`
	Name             string    `json:"name"`
	CapacityTotal    *int      `json:"capacity_total"` // nil = unlimited
	CapacityOccupied int       `json:"capacity_occupied"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Full reports whether the modality has a finite limit and has reached it.
func (m Modality) Full() bool {
	return m.CapacityTotal != nil && m.CapacityOccupied >= *m.CapacityTotal
}

// Price is the amount charged for a (modality, batch) pair, in cents.
type Price struct {
	ID         uint  `json:"id"`
	ModalityID uint  `json:"modality_id"`
	BatchID    uint  `json:"batch_id"`
	Amount     int64 `json:"amount"`
}
