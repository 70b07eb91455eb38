package service

import (
	"context"
	"fmt"
	"time"

	"github.com/openrace/corrida-api/internal/domain"
)

type AdmissionRepository interface {
	AdmitRegistration(ctx context.Context, req domain.AdmissionRequest, pendingTTL time.Duration) (domain.AdmissionResult, error)
	ReleaseCapacity(ctx context.Context, eventID uint, modalityID, batchID *uint) error
}

// AdmissionService is the public entry point for consuming capacity. All
// locking and counter movement happens in the repository's single admission
// transaction; this layer validates inputs and keeps the rejection codes
// intact on the way out.
type AdmissionService struct {
	repo       AdmissionRepository
	pendingTTL time.Duration
}

func NewAdmissionService(repo AdmissionRepository, pendingTTL time.Duration) *AdmissionService {
	return &AdmissionService{
		repo:       repo,
		pendingTTL: pendingTTL,
	}
}

func (s *AdmissionService) AdmitRegistration(ctx context.Context, req domain.AdmissionRequest) (domain.AdmissionResult, error) {
	if req.EventID == 0 {
		return domain.AdmissionResult{}, domain.ErrEventNotFound
	}
	if req.ModalityID == 0 || req.AthleteID == 0 {
		return domain.AdmissionResult{}, domain.ErrModalityNotFound
	}
	if req.DefaultAmount < 0 {
		req.DefaultAmount = 0
	}

	result, err := s.repo.AdmitRegistration(ctx, req, s.pendingTTL)
	if err != nil {
		if _, ok := domain.AsAdmissionError(err); ok {
			return domain.AdmissionResult{}, err
		}

		return domain.AdmissionResult{}, fmt.Errorf("s.repo.AdmitRegistration -> %w", err)
	}

	return result, nil
}

// ReleaseCapacity gives one slot back at each provided level. It exists for
// cancellation flows outside the reaper; it is never called on the admission
// path.
func (s *AdmissionService) ReleaseCapacity(ctx context.Context, eventID uint, modalityID, batchID *uint) error {
	if eventID == 0 {
		return domain.ErrEventNotFound
	}

	if err := s.repo.ReleaseCapacity(ctx, eventID, modalityID, batchID); err != nil {
		return fmt.Errorf("s.repo.ReleaseCapacity -> %w", err)
	}

	return nil
}
