package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/openrace/corrida-api/internal/domain"
	"github.com/openrace/corrida-api/internal/repository/dao"
)

type AdmissionDAO interface {
	Admit(ctx context.Context, req domain.AdmissionRequest, pendingTTL time.Duration) (dao.Order, dao.Registration, error)
	ReleaseCapacity(ctx context.Context, eventID uint, modalityID, batchID *uint) error
}

type AdmissionRepository struct {
	dao AdmissionDAO
}

func NewAdmissionRepository(dao AdmissionDAO) *AdmissionRepository {
	return &AdmissionRepository{
		dao: dao,
	}
}

func (r *AdmissionRepository) AdmitRegistration(ctx context.Context, req domain.AdmissionRequest, pendingTTL time.Duration) (domain.AdmissionResult, error) {
	order, registration, err := r.dao.Admit(ctx, req, pendingTTL)
	if err != nil {
		// Admission rejections pass through untouched so callers can switch
		// on the closed code set.
		if _, ok := domain.AsAdmissionError(err); ok {
			return domain.AdmissionResult{}, err
		}

		return domain.AdmissionResult{}, fmt.Errorf("r.dao.Admit -> %w", err)
	}

	return domain.AdmissionResult{
		Order:        orderDAOToDomain(order),
		Registration: registrationDAOToDomain(registration),
	}, nil
}

func (r *AdmissionRepository) ReleaseCapacity(ctx context.Context, eventID uint, modalityID, batchID *uint) error {
	if err := r.dao.ReleaseCapacity(ctx, eventID, modalityID, batchID); err != nil {
		return fmt.Errorf("r.dao.ReleaseCapacity -> %w", err)
	}

	return nil
}

func orderDAOToDomain(order dao.Order) domain.Order {
	return domain.Order{
		ID:              order.ID,
		EventID:         order.EventID,
		AthleteID:       order.AthleteID,
		TotalAmount:     order.TotalAmount,
		Status:          domain.OrderStatus(order.Status),
		PaymentMethod:   order.PaymentMethod,
		PaymentIntentID: order.PaymentIntentID,
		ExpiresAt:       order.ExpiresAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func registrationDAOToDomain(registration dao.Registration) domain.Registration {
	return domain.Registration{
		ID:         registration.ID,
		OrderID:    registration.OrderID,
		EventID:    registration.EventID,
		ModalityID: registration.ModalityID,
		BatchID:    registration.BatchID,
		AthleteID:  registration.AthleteID,
		Status:     domain.RegistrationStatus(registration.Status),
		ShirtSize:  registration.ShirtSize,
		TeamName:   registration.TeamName,
		CreatedAt:  registration.CreatedAt,
		UpdatedAt:  registration.UpdatedAt,
	}
}
