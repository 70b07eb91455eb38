package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotPending = errors.New("order is not pending")
)

const (
	orderStatusPendente  = "pendente"
	orderStatusPago      = "pago"
	orderStatusCancelado = "cancelado"
	orderStatusExpirado  = "expirado"

	registrationStatusPendente   = "pendente"
	registrationStatusConfirmada = "confirmada"
	registrationStatusCancelada  = "cancelada"

	paymentMethodGratuito = "gratuito"
)

type Order struct {
	ID              uint   `gorm:"primaryKey"`
	EventID         uint   `gorm:"not null;index"`
	AthleteID       uint   `gorm:"not null;index"`
	TotalAmount     int64  `gorm:"not null"`
	Status          string `gorm:"not null;index"`
	PaymentMethod   string
	PaymentIntentID string
	ExpiresAt       *time.Time `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Registration struct {
	ID         uint   `gorm:"primaryKey"`
	OrderID    uint   `gorm:"not null;index"`
	EventID    uint   `gorm:"not null;index"`
	ModalityID uint   `gorm:"not null"`
	BatchID    uint   `gorm:"not null"`
	AthleteID  uint   `gorm:"not null"`
	Status     string `gorm:"not null"`
	ShirtSize  string
	TeamName   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

func (d *OrderDAO) FindByID(ctx context.Context, id uint) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).First(&order, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

// FindExpiredPending returns pending orders past their payment deadline,
// skipping rows currently locked by another transaction so that concurrent
// reaper replicas never block on, or double-process, the same order.
func (d *OrderDAO) FindExpiredPending(ctx context.Context) ([]Order, error) {
	var orders []Order

	result := d.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", orderStatusPendente, time.Now().UTC()).
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// Expire cancels one abandoned order and releases its reserved capacity, in
// its own transaction so one order's failure cannot abort a whole sweep.
// Returns how many slots were released. An order that was paid, cancelled,
// or grabbed by another reaper in the meantime is skipped silently.
func (d *OrderDAO) Expire(ctx context.Context, orderID uint) (int, error) {
	released := 0

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			First(&order, orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}

			return fmt.Errorf("lock order -> %w", err)
		}
		if order.Status != orderStatusPendente {
			return nil
		}

		count, err := cancelPendingRegistrations(tx, order.ID)
		if err != nil {
			return err
		}
		released = count

		result := tx.Model(&Order{}).Where("id = ?", order.ID).
			UpdateColumn("status", orderStatusExpirado)
		if result.Error != nil {
			return fmt.Errorf("expire order -> %w", result.Error)
		}

		return nil
	})
	if err != nil {
		released = 0
	}

	return released, err
}

// Cancel releases a pending or paid order's capacity through the same release
// path the reaper uses. Refund handling for paid orders is out of band.
func (d *OrderDAO) Cancel(ctx context.Context, orderID uint) (int, error) {
	released := 0

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}

			return fmt.Errorf("lock order -> %w", err)
		}
		if order.Status != orderStatusPendente && order.Status != orderStatusPago {
			return ErrOrderNotPending
		}

		count, err := cancelActiveRegistrations(tx, order.ID)
		if err != nil {
			return err
		}
		released = count

		result := tx.Model(&Order{}).Where("id = ?", order.ID).
			UpdateColumn("status", orderStatusCancelado)
		if result.Error != nil {
			return fmt.Errorf("cancel order -> %w", result.Error)
		}

		return nil
	})
	if err != nil {
		released = 0
	}

	return released, err
}

// MarkPaid transitions a pending order to pago and confirms its pending
// registrations. Counters do not move; the slots were reserved at admission.
func (d *OrderDAO) MarkPaid(ctx context.Context, orderID uint, paymentIntentID, paymentMethod string) (Order, error) {
	var order Order

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}

			return fmt.Errorf("lock order -> %w", err)
		}
		if order.Status != orderStatusPendente {
			return ErrOrderNotPending
		}

		result := tx.Model(&Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":            orderStatusPago,
				"payment_intent_id": paymentIntentID,
				"payment_method":    paymentMethod,
			})
		if result.Error != nil {
			return fmt.Errorf("mark order paid -> %w", result.Error)
		}

		result = tx.Model(&Registration{}).
			Where("order_id = ? AND status = ?", order.ID, registrationStatusPendente).
			UpdateColumn("status", registrationStatusConfirmada)
		if result.Error != nil {
			return fmt.Errorf("confirm registrations -> %w", result.Error)
		}

		order.Status = orderStatusPago
		order.PaymentIntentID = paymentIntentID
		order.PaymentMethod = paymentMethod

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (d *OrderDAO) FindRegistrationsByEvent(ctx context.Context, eventID uint) ([]Registration, error) {
	var registrations []Registration

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&registrations)
	if result.Error != nil {
		return nil, result.Error
	}

	return registrations, nil
}

// cancelPendingRegistrations locks an order's pendente registrations, gives
// each slot back at every level it was taken from, and marks them cancelada.
func cancelPendingRegistrations(tx *gorm.DB, orderID uint) (int, error) {
	return cancelRegistrations(tx, orderID, []string{registrationStatusPendente})
}

func cancelActiveRegistrations(tx *gorm.DB, orderID uint) (int, error) {
	return cancelRegistrations(tx, orderID, []string{registrationStatusPendente, registrationStatusConfirmada})
}

func cancelRegistrations(tx *gorm.DB, orderID uint, statuses []string) (int, error) {
	var registrations []Registration
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND status IN ?", orderID, statuses).
		Find(&registrations).Error
	if err != nil {
		return 0, fmt.Errorf("lock registrations -> %w", err)
	}

	released := 0
	for _, registration := range registrations {
		modalityID := registration.ModalityID
		batchID := registration.BatchID
		if err = releaseCounters(tx, registration.EventID, &modalityID, &batchID); err != nil {
			return 0, err
		}

		result := tx.Model(&Registration{}).Where("id = ?", registration.ID).
			UpdateColumn("status", registrationStatusCancelada)
		if result.Error != nil {
			return 0, fmt.Errorf("cancel registration -> %w", result.Error)
		}

		released++
	}

	return released, nil
}
