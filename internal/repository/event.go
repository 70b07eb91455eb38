package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/openrace/corrida-api/internal/domain"
	"github.com/openrace/corrida-api/internal/repository/dao"
)

var (
	ErrEventNotFound    = dao.ErrEventNotFound
	ErrModalityNotFound = dao.ErrModalityNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context) ([]dao.Event, error)
	InsertModality(ctx context.Context, modality dao.Modality) (dao.Modality, error)
	FindModalityByID(ctx context.Context, id uint) (dao.Modality, error)
	InsertBatch(ctx context.Context, batch dao.RegistrationBatch) (dao.RegistrationBatch, error)
	InsertPrice(ctx context.Context, price dao.Price) (dao.Price, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventDomainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDAOToDomain(created), nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventDAOToDomain(event), nil
}

func (r *EventRepository) GetAll(ctx context.Context) ([]domain.Event, error) {
	events, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	result := make([]domain.Event, len(events))
	for i, event := range events {
		result[i] = eventDAOToDomain(event)
	}

	return result, nil
}

func (r *EventRepository) CreateModality(ctx context.Context, modality domain.Modality) (domain.Modality, error) {
	created, err := r.dao.InsertModality(ctx, dao.Modality{
		EventID:       modality.EventID,
		Name:          modality.Name,
		CapacityTotal: modality.CapacityTotal,
	})
	if err != nil {
		if errors.Is(err, dao.ErrEventNotFound) {
			return domain.Modality{}, ErrEventNotFound
		}

		return domain.Modality{}, fmt.Errorf("r.dao.InsertModality -> %w", err)
	}

	return modalityDAOToDomain(created), nil
}

func (r *EventRepository) GetModalityByID(ctx context.Context, id uint) (domain.Modality, error) {
	modality, err := r.dao.FindModalityByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrModalityNotFound) {
			return domain.Modality{}, ErrModalityNotFound
		}

		return domain.Modality{}, fmt.Errorf("r.dao.FindModalityByID -> %w", err)
	}

	return modalityDAOToDomain(modality), nil
}

func (r *EventRepository) CreateBatch(ctx context.Context, batch domain.RegistrationBatch) (domain.RegistrationBatch, error) {
	created, err := r.dao.InsertBatch(ctx, batchDomainToDAO(batch))
	if err != nil {
		if errors.Is(err, dao.ErrEventNotFound) {
			return domain.RegistrationBatch{}, ErrEventNotFound
		}

		return domain.RegistrationBatch{}, fmt.Errorf("r.dao.InsertBatch -> %w", err)
	}

	return batchDAOToDomain(created), nil
}

func (r *EventRepository) CreatePrice(ctx context.Context, price domain.Price) (domain.Price, error) {
	created, err := r.dao.InsertPrice(ctx, dao.Price{
		ModalityID: price.ModalityID,
		BatchID:    price.BatchID,
		Amount:     price.Amount,
	})
	if err != nil {
		return domain.Price{}, fmt.Errorf("r.dao.InsertPrice -> %w", err)
	}

	return domain.Price{
		ID:         created.ID,
		ModalityID: created.ModalityID,
		BatchID:    created.BatchID,
		Amount:     created.Amount,
	}, nil
}

func eventDomainToDAO(event domain.Event) dao.Event {
	return dao.Event{
		ID:                      event.ID,
		Name:                    event.Name,
		Location:                event.Location,
		Date:                    event.Date,
		CapacityTotal:           event.CapacityTotal,
		CapacityOccupied:        event.CapacityOccupied,
		AllowMultipleModalities: event.AllowMultipleModalities,
	}
}

func eventDAOToDomain(event dao.Event) domain.Event {
	return domain.Event{
		ID:                      event.ID,
		Name:                    event.Name,
		Location:                event.Location,
		Date:                    event.Date,
		CapacityTotal:           event.CapacityTotal,
		CapacityOccupied:        event.CapacityOccupied,
		AllowMultipleModalities: event.AllowMultipleModalities,
		CreatedAt:               event.CreatedAt,
		UpdatedAt:               event.UpdatedAt,
	}
}

func modalityDAOToDomain(modality dao.Modality) domain.Modality {
	return domain.Modality{
		ID:               modality.ID,
		EventID:          modality.EventID,
		Name:             modality.Name,
		CapacityTotal:    modality.CapacityTotal,
		CapacityOccupied: modality.CapacityOccupied,
		CreatedAt:        modality.CreatedAt,
		UpdatedAt:        modality.UpdatedAt,
	}
}

func batchDomainToDAO(batch domain.RegistrationBatch) dao.RegistrationBatch {
	return dao.RegistrationBatch{
		ID:               batch.ID,
		EventID:          batch.EventID,
		ModalityID:       batch.ModalityID,
		Name:             batch.Name,
		Ordem:            batch.Ordem,
		QuantidadeMaxima: batch.QuantidadeMaxima,
		QuantidadeUsada:  batch.QuantidadeUsada,
		Status:           string(batch.Status),
		Ativo:            batch.Ativo,
		StartsAt:         batch.StartsAt,
		EndsAt:           batch.EndsAt,
	}
}

func batchDAOToDomain(batch dao.RegistrationBatch) domain.RegistrationBatch {
	return domain.RegistrationBatch{
		ID:               batch.ID,
		EventID:          batch.EventID,
		ModalityID:       batch.ModalityID,
		Name:             batch.Name,
		Ordem:            batch.Ordem,
		QuantidadeMaxima: batch.QuantidadeMaxima,
		QuantidadeUsada:  batch.QuantidadeUsada,
		Status:           domain.BatchStatus(batch.Status),
		Ativo:            batch.Ativo,
		StartsAt:         batch.StartsAt,
		EndsAt:           batch.EndsAt,
		CreatedAt:        batch.CreatedAt,
		UpdatedAt:        batch.UpdatedAt,
	}
}
