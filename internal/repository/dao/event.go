package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrModalityNotFound = errors.New("modality not found")
)

type Event struct {
	ID                      uint      `gorm:"primaryKey"`
	Name                    string    `gorm:"not null"`
	Location                string    `gorm:"not null"`
	Date                    time.Time `gorm:"not null"`
	CapacityTotal           int       `gorm:"not null"`
	CapacityOccupied        int       `gorm:"not null;default:0"`
	AllowMultipleModalities bool      `gorm:"not null;default:false"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

type Modality struct {
	ID               uint   `gorm:"primaryKey"`
	EventID          uint   `gorm:"not null;index"`
	Name             string `gorm:"not null"`
	CapacityTotal    *int
	CapacityOccupied int `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Price struct {
	ID         uint  `gorm:"primaryKey"`
	ModalityID uint  `gorm:"not null;uniqueIndex:uniq_prices_modality_batch"`
	BatchID    uint  `gorm:"not null;uniqueIndex:uniq_prices_modality_batch"`
	Amount     int64 `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Order("date ASC").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) InsertModality(ctx context.Context, modality Modality) (Modality, error) {
	if err := d.ensureEventExists(ctx, modality.EventID); err != nil {
		return Modality{}, err
	}

	result := d.db.WithContext(ctx).Create(&modality)
	if result.Error != nil {
		return Modality{}, result.Error
	}

	return modality, nil
}

func (d *EventDAO) FindModalityByID(ctx context.Context, id uint) (Modality, error) {
	var modality Modality

	result := d.db.WithContext(ctx).First(&modality, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Modality{}, ErrModalityNotFound
		}

		return Modality{}, result.Error
	}

	return modality, nil
}

func (d *EventDAO) InsertBatch(ctx context.Context, batch RegistrationBatch) (RegistrationBatch, error) {
	if err := d.ensureEventExists(ctx, batch.EventID); err != nil {
		return RegistrationBatch{}, err
	}

	result := d.db.WithContext(ctx).Create(&batch)
	if result.Error != nil {
		return RegistrationBatch{}, result.Error
	}

	return batch, nil
}

func (d *EventDAO) InsertPrice(ctx context.Context, price Price) (Price, error) {
	result := d.db.WithContext(ctx).Create(&price)
	if result.Error != nil {
		return Price{}, result.Error
	}

	return price, nil
}

func (d *EventDAO) ensureEventExists(ctx context.Context, eventID uint) error {
	var count int64
	result := d.db.WithContext(ctx).Model(&Event{}).Where("id = ?", eventID).Count(&count)
	if result.Error != nil {
		return result.Error
	}
	if count == 0 {
		return ErrEventNotFound
	}

	return nil
}
