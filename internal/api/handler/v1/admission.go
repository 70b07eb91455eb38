package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openrace/corrida-api/internal/api/handler/v1/request"
	"github.com/openrace/corrida-api/internal/api/handler/v1/response"
	"github.com/openrace/corrida-api/internal/domain"
)

type AdmissionService interface {
	AdmitRegistration(ctx context.Context, req domain.AdmissionRequest) (domain.AdmissionResult, error)
}

type SweepRunner interface {
	RunExpirationSweep(ctx context.Context) (domain.SweepResult, error)
}

type AdmissionHandler struct {
	svc    AdmissionService
	sweeps SweepRunner
}

func NewAdmissionHandler(svc AdmissionService, sweeps SweepRunner) *AdmissionHandler {
	return &AdmissionHandler{
		svc:    svc,
		sweeps: sweeps,
	}
}

// HandleAdmitRegistration godoc
// @Summary      Register an athlete for an event modality
// @Description  Attempts to consume one slot at each capacity level and creates the order/registration pair. The pricing batch is always resolved server-side.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        eventID  path      int  true  "event ID"
// @Param        input    body      request.AdmitRegistrationRequest  true  "registration details"
// @Success      201      {object}  domain.AdmissionResult
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registrations [post]
func (h *AdmissionHandler) HandleAdmitRegistration(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err)))
		return
	}

	var input request.AdmitRegistrationRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.AdmitRegistration(ctx.Request.Context(), domain.AdmissionRequest{
		EventID:       uint(eventID),
		ModalityID:    input.ModalityID,
		AthleteID:     input.AthleteID,
		ShirtSize:     input.ShirtSize,
		TeamName:      input.TeamName,
		DefaultAmount: input.DefaultAmount,
	})
	if err != nil {
		renderAdmissionErr(ctx, eventID, input.ModalityID, err)
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// renderAdmissionErr maps the closed rejection set to HTTP statuses:
// not-found codes to 404, capacity/policy/state conflicts to 409,
// everything else to 500.
func renderAdmissionErr(ctx *gin.Context, eventID uint64, modalityID uint, err error) {
	admErr, ok := domain.AsAdmissionError(err)
	if !ok {
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("HandleAdmitRegistration -> %w", err)))
		return
	}

	switch admErr.Code {
	case domain.CodeEventNotFound:
		response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
	case domain.CodeModalityNotFound:
		response.RenderErr(ctx, response.ErrNotFound("modality", "ID", modalityID))
	case domain.CodeEventFull, domain.CodeModalityFull, domain.CodeBatchSoldOut, domain.CodeAlreadyRegistered:
		response.RenderErr(ctx, response.ErrConflict(admErr))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(admErr))
	}
}

// HandleRunExpirationSweep godoc
// @Summary      Run one expiration sweep
// @Description  Synchronously expires pending orders past their payment deadline and releases their slots. The same pass runs periodically in the background.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  domain.SweepResult
// @Failure      500  {object}  response.Err
// @Router       /admin/expiration-sweep [post]
func (h *AdmissionHandler) HandleRunExpirationSweep(ctx *gin.Context) {
	result, err := h.sweeps.RunExpirationSweep(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleRunExpirationSweep -> h.sweeps.RunExpirationSweep -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}
