package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openrace/corrida-api/internal/domain"
)

// AdmissionDAO owns the only two code paths that mutate the capacity
// counters: Admit (+1 at each level) and ReleaseCapacity (-1, floored at 0).
type AdmissionDAO struct {
	db *gorm.DB
}

func NewAdmissionDAO(db *gorm.DB) *AdmissionDAO {
	return &AdmissionDAO{
		db: db,
	}
}

// Admit attempts to create exactly one Order+Registration pair for the
// request, or fails with one of the domain.AdmissionError sentinels with no
// partial effect on any counter.
//
// All checks and writes happen under row locks acquired in a fixed order,
// Event then Modality then Batch, on every call path. Concurrent admissions
// for the same event serialize at the event lock, which is what makes the
// read-check-increment sequence safe.
func (d *AdmissionDAO) Admit(ctx context.Context, req domain.AdmissionRequest, pendingTTL time.Duration) (Order, Registration, error) {
	var (
		order        Order
		registration Registration
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		forUpdate := clause.Locking{Strength: "UPDATE"}

		var event Event
		if err := tx.Clauses(forUpdate).First(&event, req.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrEventNotFound
			}

			return fmt.Errorf("lock event -> %w", err)
		}
		if event.CapacityOccupied >= event.CapacityTotal {
			return domain.ErrEventFull
		}

		var modality Modality
		if err := tx.Clauses(forUpdate).Where("event_id = ?", req.EventID).First(&modality, req.ModalityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrModalityNotFound
			}

			return fmt.Errorf("lock modality -> %w", err)
		}
		if modality.CapacityTotal != nil && modality.CapacityOccupied >= *modality.CapacityTotal {
			return domain.ErrModalityFull
		}

		// The caller's notion of "which batch" is never trusted. The
		// authoritative batch is whatever this locked query finds: active,
		// in scope (this modality or event-wide), inside its validity
		// window, lowest ordem first.
		var batch RegistrationBatch
		err := tx.Clauses(forUpdate).
			Where("event_id = ? AND ativo = ?", req.EventID, true).
			Where("modality_id = ? OR modality_id IS NULL", req.ModalityID).
			Where("starts_at <= ?", now).
			Where("ends_at IS NULL OR ends_at > ?", now).
			Order("ordem ASC").
			First(&batch).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBatchSoldOut
			}

			return fmt.Errorf("lock batch -> %w", err)
		}

		amount := req.DefaultAmount
		var price Price
		err = tx.Where("modality_id = ? AND batch_id = ?", req.ModalityID, batch.ID).First(&price).Error
		if err == nil {
			amount = price.Amount
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("resolve price -> %w", err)
		}

		// Pre-insert exhaustion check. Rolling over here lets the caller's
		// retry find the successor batch; this attempt is still rejected.
		if batch.exhausted() {
			if err = rolloverBatch(tx, &batch); err != nil {
				return fmt.Errorf("rollover exhausted batch -> %w", err)
			}

			return domain.ErrBatchSoldOut
		}

		dupQuery := tx.Model(&Registration{}).
			Where("athlete_id = ? AND status <> ?", req.AthleteID, registrationStatusCancelada)
		if event.AllowMultipleModalities {
			dupQuery = dupQuery.Where("modality_id = ?", req.ModalityID)
		} else {
			dupQuery = dupQuery.Where("event_id = ?", req.EventID)
		}
		var duplicates int64
		if err = dupQuery.Count(&duplicates).Error; err != nil {
			return fmt.Errorf("check duplicate -> %w", err)
		}
		if duplicates > 0 {
			return domain.ErrAlreadyRegistered
		}

		order = Order{
			EventID:     req.EventID,
			AthleteID:   req.AthleteID,
			TotalAmount: amount,
			Status:      orderStatusPendente,
		}
		registration = Registration{
			EventID:    req.EventID,
			ModalityID: req.ModalityID,
			BatchID:    batch.ID, // always the locked batch, never caller input
			AthleteID:  req.AthleteID,
			Status:     registrationStatusPendente,
			ShirtSize:  req.ShirtSize,
			TeamName:   req.TeamName,
		}
		if amount == 0 {
			order.Status = orderStatusPago
			order.PaymentMethod = paymentMethodGratuito
			registration.Status = registrationStatusConfirmada
		} else {
			deadline := now.Add(pendingTTL)
			order.ExpiresAt = &deadline
		}

		if err = tx.Create(&order).Error; err != nil {
			return fmt.Errorf("insert order -> %w", err)
		}
		registration.OrderID = order.ID
		if err = tx.Create(&registration).Error; err != nil {
			return fmt.Errorf("insert registration -> %w", err)
		}

		if err = tx.Model(&Event{}).Where("id = ?", event.ID).
			UpdateColumn("capacity_occupied", gorm.Expr("capacity_occupied + 1")).Error; err != nil {
			return fmt.Errorf("increment event counter -> %w", err)
		}
		if err = tx.Model(&Modality{}).Where("id = ?", modality.ID).
			UpdateColumn("capacity_occupied", gorm.Expr("capacity_occupied + 1")).Error; err != nil {
			return fmt.Errorf("increment modality counter -> %w", err)
		}
		if err = tx.Model(&RegistrationBatch{}).Where("id = ?", batch.ID).
			UpdateColumn("quantidade_usada", gorm.Expr("quantidade_usada + 1")).Error; err != nil {
			return fmt.Errorf("increment batch counter -> %w", err)
		}

		// Post-increment re-read. This, not the pre-insert check, is what
		// activates the successor when a successful admission fills the
		// batch; collapsing the two would delay rollover by one request.
		var fresh RegistrationBatch
		if err = tx.First(&fresh, batch.ID).Error; err != nil {
			return fmt.Errorf("reread batch -> %w", err)
		}
		if fresh.exhausted() {
			if err = rolloverBatch(tx, &fresh); err != nil {
				return fmt.Errorf("rollover filled batch -> %w", err)
			}
		}

		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			pgErr.Code == pgerrcode.UniqueViolation &&
			strings.Contains(pgErr.Message, "uniq_registrations_athlete_modality_active") {
			return Order{}, Registration{}, domain.ErrAlreadyRegistered
		}

		return Order{}, Registration{}, err
	}

	return order, registration, nil
}

// ReleaseCapacity is the exact symmetric inverse of Admit's increments: one
// slot back at each provided level, floored at zero so prior drift can never
// push a counter negative. Runs in its own short transaction.
func (d *AdmissionDAO) ReleaseCapacity(ctx context.Context, eventID uint, modalityID, batchID *uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return releaseCounters(tx, eventID, modalityID, batchID)
	})
}

func releaseCounters(tx *gorm.DB, eventID uint, modalityID, batchID *uint) error {
	result := tx.Model(&Event{}).Where("id = ?", eventID).
		UpdateColumn("capacity_occupied", gorm.Expr("GREATEST(capacity_occupied - 1, 0)"))
	if result.Error != nil {
		return fmt.Errorf("decrement event counter -> %w", result.Error)
	}

	if modalityID != nil {
		result = tx.Model(&Modality{}).Where("id = ?", *modalityID).
			UpdateColumn("capacity_occupied", gorm.Expr("GREATEST(capacity_occupied - 1, 0)"))
		if result.Error != nil {
			return fmt.Errorf("decrement modality counter -> %w", result.Error)
		}
	}

	if batchID != nil {
		result = tx.Model(&RegistrationBatch{}).Where("id = ?", *batchID).
			UpdateColumn("quantidade_usada", gorm.Expr("GREATEST(quantidade_usada - 1, 0)"))
		if result.Error != nil {
			return fmt.Errorf("decrement batch counter -> %w", result.Error)
		}
	}

	return nil
}
