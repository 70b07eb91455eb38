package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/openrace/corrida-api/internal/domain"
	"github.com/openrace/corrida-api/internal/repository/dao"
)

var (
	ErrOrderNotFound   = dao.ErrOrderNotFound
	ErrOrderNotPending = dao.ErrOrderNotPending
)

type OrderDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Order, error)
	FindExpiredPending(ctx context.Context) ([]dao.Order, error)
	Expire(ctx context.Context, orderID uint) (int, error)
	Cancel(ctx context.Context, orderID uint) (int, error)
	MarkPaid(ctx context.Context, orderID uint, paymentIntentID, paymentMethod string) (dao.Order, error)
	FindRegistrationsByEvent(ctx context.Context, eventID uint) ([]dao.Registration, error)
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (domain.Order, error) {
	order, err := r.dao.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrOrderNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}

		return domain.Order{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return orderDAOToDomain(order), nil
}

func (r *OrderRepository) FindExpiredPendingOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := r.dao.FindExpiredPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindExpiredPending -> %w", err)
	}

	result := make([]domain.Order, len(orders))
	for i, order := range orders {
		result[i] = orderDAOToDomain(order)
	}

	return result, nil
}

func (r *OrderRepository) ExpireOrder(ctx context.Context, orderID uint) (int, error) {
	released, err := r.dao.Expire(ctx, orderID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Expire -> %w", err)
	}

	return released, nil
}

func (r *OrderRepository) CancelOrder(ctx context.Context, orderID uint) (int, error) {
	released, err := r.dao.Cancel(ctx, orderID)
	if err != nil {
		if errors.Is(err, dao.ErrOrderNotFound) || errors.Is(err, dao.ErrOrderNotPending) {
			return 0, err
		}

		return 0, fmt.Errorf("r.dao.Cancel -> %w", err)
	}

	return released, nil
}

func (r *OrderRepository) MarkOrderPaid(ctx context.Context, orderID uint, paymentIntentID, paymentMethod string) (domain.Order, error) {
	order, err := r.dao.MarkPaid(ctx, orderID, paymentIntentID, paymentMethod)
	if err != nil {
		if errors.Is(err, dao.ErrOrderNotFound) || errors.Is(err, dao.ErrOrderNotPending) {
			return domain.Order{}, err
		}

		return domain.Order{}, fmt.Errorf("r.dao.MarkPaid -> %w", err)
	}

	return orderDAOToDomain(order), nil
}

func (r *OrderRepository) FindRegistrationsByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	registrations, err := r.dao.FindRegistrationsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRegistrationsByEvent -> %w", err)
	}

	result := make([]domain.Registration, len(registrations))
	for i, registration := range registrations {
		result[i] = registrationDAOToDomain(registration)
	}

	return result, nil
}
