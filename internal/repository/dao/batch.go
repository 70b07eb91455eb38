package dao

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	batchStatusFuture = "future"
	batchStatusActive = "active"
	batchStatusClosed = "closed"
)

// RegistrationBatch is a pricing batch ("lote"). ModalityID nil means the
// batch applies event-wide across all modalities of its event.
type RegistrationBatch struct {
	ID               uint   `gorm:"primaryKey"`
	EventID          uint   `gorm:"not null;index"`
	ModalityID       *uint  `gorm:"index"`
	Name             string `gorm:"not null"`
	Ordem            int    `gorm:"not null"`
	QuantidadeMaxima *int
	QuantidadeUsada  int       `gorm:"not null;default:0"`
	Status           string    `gorm:"not null;default:future"`
	Ativo            bool      `gorm:"not null;default:false"`
	StartsAt         time.Time `gorm:"not null"`
	EndsAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (RegistrationBatch) TableName() string {
	return "registration_batches"
}

// exhausted reports whether the batch has a finite maximum and used it up.
func (b RegistrationBatch) exhausted() bool {
	return b.QuantidadeMaxima != nil && b.QuantidadeUsada >= *b.QuantidadeMaxima
}

// rolloverBatch closes the given batch and activates its successor, inside
// the caller's transaction so that "close old / open new" is atomic with
// respect to concurrent admissions. The state machine is one-directional:
// a closed batch never reactivates, so there is no path back from closed.
func rolloverBatch(tx *gorm.DB, batch *RegistrationBatch) error {
	result := tx.Model(&RegistrationBatch{}).
		Where("id = ?", batch.ID).
		Updates(map[string]interface{}{"ativo": false, "status": batchStatusClosed})
	if result.Error != nil {
		return fmt.Errorf("close batch -> %w", result.Error)
	}

	// Successor scope: same event, strictly greater ordem, and the same
	// modality scope as the closing batch (event-wide batches only hand
	// over to event-wide batches).
	query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("event_id = ? AND ordem > ?", batch.EventID, batch.Ordem)
	if batch.ModalityID == nil {
		query = query.Where("modality_id IS NULL")
	} else {
		query = query.Where("modality_id = ?", *batch.ModalityID)
	}

	var next RegistrationBatch
	err := query.
		Where("status = ? OR (ativo = ? AND status <> ?)", batchStatusFuture, false, batchStatusClosed).
		Order("ordem ASC").
		First(&next).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No further batches in this scope; admissions will be
			// rejected until an operator configures a new one.
			return nil
		}

		return fmt.Errorf("find next batch -> %w", err)
	}

	result = tx.Model(&RegistrationBatch{}).
		Where("id = ?", next.ID).
		Updates(map[string]interface{}{"ativo": true, "status": batchStatusActive})
	if result.Error != nil {
		return fmt.Errorf("activate batch %v -> %w", next.ID, result.Error)
	}

	return nil
}
