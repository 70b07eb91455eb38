package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openrace/corrida-api/internal/domain"
	"github.com/openrace/corrida-api/internal/repository"
)

var (
	ErrEventNotFound    = repository.ErrEventNotFound
	ErrModalityNotFound = repository.ErrModalityNotFound
	ErrInvalidEvent     = errors.New("invalid event")
	ErrInvalidBatch     = errors.New("invalid batch")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id uint) (domain.Event, error)
	GetAll(ctx context.Context) ([]domain.Event, error)
	CreateModality(ctx context.Context, modality domain.Modality) (domain.Modality, error)
	GetModalityByID(ctx context.Context, id uint) (domain.Modality, error)
	CreateBatch(ctx context.Context, batch domain.RegistrationBatch) (domain.RegistrationBatch, error)
	CreatePrice(ctx context.Context, price domain.Price) (domain.Price, error)
}

// EventService covers the thin admin CRUD surface around the admission core:
// events, modalities, batches and prices are created here, but their
// occupancy counters are only ever touched by the admission transaction and
// the release primitive.
type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" || event.CapacityTotal <= 0 {
		return domain.Event{}, ErrInvalidEvent
	}
	event.CapacityOccupied = 0

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) GetEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) CreateModality(ctx context.Context, modality domain.Modality) (domain.Modality, error) {
	modality.Name = strings.TrimSpace(modality.Name)
	if modality.Name == "" || modality.EventID == 0 {
		return domain.Modality{}, ErrInvalidEvent
	}
	modality.CapacityOccupied = 0

	created, err := s.repo.CreateModality(ctx, modality)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.Modality{}, ErrEventNotFound
		}

		return domain.Modality{}, fmt.Errorf("s.repo.CreateModality -> %w", err)
	}

	return created, nil
}

func (s *EventService) CreateBatch(ctx context.Context, batch domain.RegistrationBatch) (domain.RegistrationBatch, error) {
	if batch.EventID == 0 || batch.Ordem <= 0 {
		return domain.RegistrationBatch{}, ErrInvalidBatch
	}
	if batch.EndsAt != nil && !batch.EndsAt.After(batch.StartsAt) {
		return domain.RegistrationBatch{}, ErrInvalidBatch
	}
	if batch.Status == "" {
		batch.Status = domain.BatchStatusFuture
	}
	batch.QuantidadeUsada = 0

	created, err := s.repo.CreateBatch(ctx, batch)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return domain.RegistrationBatch{}, ErrEventNotFound
		}

		return domain.RegistrationBatch{}, fmt.Errorf("s.repo.CreateBatch -> %w", err)
	}

	return created, nil
}

func (s *EventService) CreatePrice(ctx context.Context, price domain.Price) (domain.Price, error) {
	if price.ModalityID == 0 || price.BatchID == 0 || price.Amount < 0 {
		return domain.Price{}, ErrInvalidEvent
	}

	if _, err := s.repo.GetModalityByID(ctx, price.ModalityID); err != nil {
		if errors.Is(err, ErrModalityNotFound) {
			return domain.Price{}, ErrModalityNotFound
		}

		return domain.Price{}, fmt.Errorf("s.repo.GetModalityByID -> %w", err)
	}

	created, err := s.repo.CreatePrice(ctx, price)
	if err != nil {
		return domain.Price{}, fmt.Errorf("s.repo.CreatePrice -> %w", err)
	}

	return created, nil
}
