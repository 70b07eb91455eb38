package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openrace/corrida-api/internal/domain"
	"github.com/openrace/corrida-api/internal/repository"
)

var (
	ErrOrderNotFound       = repository.ErrOrderNotFound
	ErrOrderNotPending     = repository.ErrOrderNotPending
	ErrPaymentNotConfirmed = errors.New("payment not confirmed by gateway")
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Order, error)
	CancelOrder(ctx context.Context, orderID uint) (int, error)
	MarkOrderPaid(ctx context.Context, orderID uint, paymentIntentID, paymentMethod string) (domain.Order, error)
	FindRegistrationsByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error)
}

// PaymentGateway is the opaque payment status oracle. The admission
// transaction never calls it; only this confirmation flow does.
type PaymentGateway interface {
	PaymentSucceeded(ctx context.Context, paymentIntentID string) (bool, error)
}

type OrderService struct {
	repo    OrderRepository
	gateway PaymentGateway
}

func NewOrderService(repo OrderRepository, gateway PaymentGateway) *OrderService {
	return &OrderService{
		repo:    repo,
		gateway: gateway,
	}
}

// ConfirmPayment transitions a pending order to pago once the gateway
// reports the payment intent as succeeded. Capacity counters do not move;
// the slots were reserved at admission time.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID uint, paymentIntentID string) (domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}

		return domain.Order{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if order.Status != domain.OrderStatusPendente {
		return domain.Order{}, ErrOrderNotPending
	}

	succeeded, err := s.gateway.PaymentSucceeded(ctx, paymentIntentID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.gateway.PaymentSucceeded -> %w", err)
	}
	if !succeeded {
		return domain.Order{}, ErrPaymentNotConfirmed
	}

	paid, err := s.repo.MarkOrderPaid(ctx, orderID, paymentIntentID, "cartao")
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrOrderNotPending) {
			return domain.Order{}, err
		}

		return domain.Order{}, fmt.Errorf("s.repo.MarkOrderPaid -> %w", err)
	}

	return paid, nil
}

// CancelOrder cancels an order's registrations and releases their slots
// through the same release path the reaper uses. Returns slots released.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) (int, error) {
	released, err := s.repo.CancelOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrOrderNotPending) {
			return 0, err
		}

		return 0, fmt.Errorf("s.repo.CancelOrder -> %w", err)
	}

	return released, nil
}

func (s *OrderService) GetRegistrationsByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error) {
	registrations, err := s.repo.FindRegistrationsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRegistrationsByEvent -> %w", err)
	}

	return registrations, nil
}
