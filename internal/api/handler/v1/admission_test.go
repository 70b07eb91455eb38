package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/openrace/corrida-api/internal/domain"
)

type stubAdmissionService struct {
	result domain.AdmissionResult
	err    error
}

func (s *stubAdmissionService) AdmitRegistration(_ context.Context, _ domain.AdmissionRequest) (domain.AdmissionResult, error) {
	return s.result, s.err
}

func admitRequest(t *testing.T, svc AdmissionService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewAdmissionHandler(svc, nil)
	router.POST("/events/:eventID/registrations", handler.HandleAdmitRegistration)

	req := httptest.NewRequest(http.MethodPost, "/events/5/registrations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestHandleAdmitRegistration_Created(t *testing.T) {
	svc := &stubAdmissionService{
		result: domain.AdmissionResult{
			Order:        domain.Order{ID: 1, EventID: 5, AthleteID: 3},
			Registration: domain.Registration{ID: 1, EventID: 5, ModalityID: 7, AthleteID: 3},
		},
	}

	w := admitRequest(t, svc, `{"modality_id": 7, "athlete_id": 3}`)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandleAdmitRegistration_ModalityNotFound(t *testing.T) {
	svc := &stubAdmissionService{err: domain.ErrModalityNotFound}

	w := admitRequest(t, svc, `{"modality_id": 7, "athlete_id": 3}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	// The 404 names the modality the caller asked for, not the event.
	assert.Contains(t, w.Body.String(), "modality not found by ID (7)")
}

func TestHandleAdmitRegistration_ConflictCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "event full", err: domain.ErrEventFull},
		{name: "modality full", err: domain.ErrModalityFull},
		{name: "batch sold out", err: domain.ErrBatchSoldOut},
		{name: "already registered", err: domain.ErrAlreadyRegistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := admitRequest(t, &stubAdmissionService{err: tt.err}, `{"modality_id": 7, "athlete_id": 3}`)

			assert.Equal(t, http.StatusConflict, w.Code)
		})
	}
}

func TestHandleAdmitRegistration_BadBody(t *testing.T) {
	w := admitRequest(t, &stubAdmissionService{}, `{"athlete_id": 3}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
