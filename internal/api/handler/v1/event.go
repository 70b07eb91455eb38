package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openrace/corrida-api/internal/api/handler/v1/request"
	"github.com/openrace/corrida-api/internal/api/handler/v1/response"
	"github.com/openrace/corrida-api/internal/domain"
	"github.com/openrace/corrida-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	GetEvents(ctx context.Context) ([]domain.Event, error)
	CreateModality(ctx context.Context, modality domain.Modality) (domain.Modality, error)
	CreateBatch(ctx context.Context, batch domain.RegistrationBatch) (domain.RegistrationBatch, error)
	CreatePrice(ctx context.Context, price domain.Price) (domain.Price, error)
}

type RegistrationLister interface {
	GetRegistrationsByEvent(ctx context.Context, eventID uint) ([]domain.Registration, error)
}

type EventHandler struct {
	svc    EventService
	orders RegistrationLister
}

func NewEventHandler(svc EventService, orders RegistrationLister) *EventHandler {
	return &EventHandler{
		svc:    svc,
		orders: orders,
	}
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateEventRequest  true  "event details"
// @Success      201    {object}  domain.Event
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /events [post]
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	var input request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	date, err := time.Parse("02/01/2006", input.Date)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format, expected DD/MM/YYYY: %w", err)))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Name:                    input.Name,
		Location:                input.Location,
		Date:                    date,
		CapacityTotal:           input.CapacityTotal,
		AllowMultipleModalities: input.AllowMultipleModalities,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidEvent) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleGetEvents godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleGetEvents(ctx *gin.Context) {
	events, err := h.svc.GetEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleGetEvents -> h.svc.GetEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get one event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateModality godoc
// @Summary      Add a modality to an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Param        input    body      request.CreateModalityRequest  true  "modality details"
// @Success      201      {object}  domain.Modality
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/modalities [post]
func (h *EventHandler) HandleCreateModality(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		return
	}

	var input request.CreateModalityRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	modality, err := h.svc.CreateModality(ctx.Request.Context(), domain.Modality{
		EventID:       eventID,
		Name:          input.Name,
		CapacityTotal: input.CapacityTotal,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}
		if errors.Is(err, service.ErrInvalidEvent) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleCreateModality -> h.svc.CreateModality -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, modality)
}

// HandleCreateBatch godoc
// @Summary      Add a registration batch to an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Param        input    body      request.CreateBatchRequest  true  "batch details"
// @Success      201      {object}  domain.RegistrationBatch
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/batches [post]
func (h *EventHandler) HandleCreateBatch(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		return
	}

	var input request.CreateBatchRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	startsAt, err := time.Parse(time.RFC3339, input.StartsAt)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid starts_at: %w", err)))
		return
	}
	var endsAt *time.Time
	if input.EndsAt != "" {
		parsed, err := time.Parse(time.RFC3339, input.EndsAt)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid ends_at: %w", err)))
			return
		}
		endsAt = &parsed
	}

	batch := domain.RegistrationBatch{
		EventID:          eventID,
		ModalityID:       input.ModalityID,
		Name:             input.Name,
		Ordem:            input.Ordem,
		QuantidadeMaxima: input.QuantidadeMaxima,
		StartsAt:         startsAt,
		EndsAt:           endsAt,
	}
	if input.Ativo {
		batch.Activate()
	}

	created, err := h.svc.CreateBatch(ctx.Request.Context(), batch)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}
		if errors.Is(err, service.ErrInvalidBatch) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleCreateBatch -> h.svc.CreateBatch -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleCreatePrice godoc
// @Summary      Set the price for a (modality, batch) pair
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        modalityID  path      int  true  "modality ID"
// @Param        input       body      request.CreatePriceRequest  true  "price in cents"
// @Success      201         {object}  domain.Price
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /modalities/{modalityID}/prices [post]
func (h *EventHandler) HandleCreatePrice(ctx *gin.Context) {
	modalityID, err := parseIDParam(ctx, "modalityID")
	if err != nil {
		return
	}

	var input request.CreatePriceRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	price, err := h.svc.CreatePrice(ctx.Request.Context(), domain.Price{
		ModalityID: modalityID,
		BatchID:    input.BatchID,
		Amount:     input.Amount,
	})
	if err != nil {
		if errors.Is(err, service.ErrModalityNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("modality", "ID", modalityID))
			return
		}
		if errors.Is(err, service.ErrInvalidEvent) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("HandleCreatePrice -> h.svc.CreatePrice -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, price)
}

// HandleGetRegistrations godoc
// @Summary      List an event's registrations
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Success      200      {array}   domain.Registration
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registrations [get]
func (h *EventHandler) HandleGetRegistrations(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		return
	}

	registrations, err := h.orders.GetRegistrationsByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("HandleGetRegistrations -> h.orders.GetRegistrationsByEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, registrations)
}

// parseIDParam reads a positive integer path parameter, rendering a 400 and
// returning a non-nil error when it is malformed.
func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || value == 0 {
		err = fmt.Errorf("invalid %v", name)
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return 0, err
	}

	return uint(value), nil
}
