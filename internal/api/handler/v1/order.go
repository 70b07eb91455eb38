package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openrace/corrida-api/internal/api/handler/v1/request"
	"github.com/openrace/corrida-api/internal/api/handler/v1/response"
	"github.com/openrace/corrida-api/internal/domain"
	"github.com/openrace/corrida-api/internal/service"
)

type OrderService interface {
	ConfirmPayment(ctx context.Context, orderID uint, paymentIntentID string) (domain.Order, error)
	CancelOrder(ctx context.Context, orderID uint) (int, error)
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{
		svc: svc,
	}
}

// HandleConfirmOrder godoc
// @Summary      Confirm an order's payment
// @Description  Verifies the payment intent with the gateway and transitions the order from pendente to pago.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        orderID  path      int  true  "order ID"
// @Param        input    body      request.ConfirmOrderRequest  true  "payment reference"
// @Success      200      {object}  domain.Order
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID}/confirm [post]
func (h *OrderHandler) HandleConfirmOrder(ctx *gin.Context) {
	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid order ID: %w", err)))
		return
	}

	var input request.ConfirmOrderRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.ConfirmPayment(ctx.Request.Context(), uint(orderID), input.PaymentIntentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
		case errors.Is(err, service.ErrOrderNotPending):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrPaymentNotConfirmed):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(err))
		default:
			err = fmt.Errorf("HandleConfirmOrder -> h.svc.ConfirmPayment -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleCancelOrder godoc
// @Summary      Cancel an order
// @Description  Cancels the order's registrations and releases their slots back to every capacity level.
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int  true  "order ID"
// @Success      200      {object}  map[string]int
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID}/cancel [post]
func (h *OrderHandler) HandleCancelOrder(ctx *gin.Context) {
	orderID, err := strconv.ParseUint(ctx.Param("orderID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid order ID: %w", err)))
		return
	}

	released, err := h.svc.CancelOrder(ctx.Request.Context(), uint(orderID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
		case errors.Is(err, service.ErrOrderNotPending):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("HandleCancelOrder -> h.svc.CancelOrder -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"released": released})
}
