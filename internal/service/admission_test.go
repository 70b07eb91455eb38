package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrace/corrida-api/internal/domain"
)

// fakeAdmissionRepo mimics the repository contract: every attempt either
// consumes one slot under the lock or fails atomically with a typed
// rejection, exactly like the database transaction does.
type fakeAdmissionRepo struct {
	mu       sync.Mutex
	capacity int
	occupied int

	admitErr error
	released int
}

func (f *fakeAdmissionRepo) AdmitRegistration(_ context.Context, req domain.AdmissionRequest, _ time.Duration) (domain.AdmissionResult, error) {
	if f.admitErr != nil {
		return domain.AdmissionResult{}, f.admitErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.occupied >= f.capacity {
		return domain.AdmissionResult{}, domain.ErrEventFull
	}
	f.occupied++

	return domain.AdmissionResult{
		Order:        domain.Order{ID: uint(f.occupied), EventID: req.EventID, AthleteID: req.AthleteID},
		Registration: domain.Registration{ID: uint(f.occupied), EventID: req.EventID, ModalityID: req.ModalityID},
	}, nil
}

func (f *fakeAdmissionRepo) ReleaseCapacity(_ context.Context, _ uint, _, _ *uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.occupied > 0 {
		f.occupied--
	}
	f.released++

	return nil
}

func TestAdmissionService_AdmitRegistration_Validation(t *testing.T) {
	svc := NewAdmissionService(&fakeAdmissionRepo{capacity: 1}, 30*time.Minute)

	_, err := svc.AdmitRegistration(context.Background(), domain.AdmissionRequest{
		ModalityID: 1, AthleteID: 1,
	})
	admErr, ok := domain.AsAdmissionError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeEventNotFound, admErr.Code)

	_, err = svc.AdmitRegistration(context.Background(), domain.AdmissionRequest{
		EventID: 1, AthleteID: 1,
	})
	admErr, ok = domain.AsAdmissionError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeModalityNotFound, admErr.Code)
}

func TestAdmissionService_AdmitRegistration_PassesRejectionsThrough(t *testing.T) {
	repo := &fakeAdmissionRepo{admitErr: domain.ErrBatchSoldOut}
	svc := NewAdmissionService(repo, 30*time.Minute)

	_, err := svc.AdmitRegistration(context.Background(), domain.AdmissionRequest{
		EventID: 1, ModalityID: 1, AthleteID: 1,
	})
	// Rejections must come back unwrapped so callers can switch on the code.
	assert.Equal(t, domain.ErrBatchSoldOut, err)
}

func TestAdmissionService_AdmitRegistration_WrapsInternalErrors(t *testing.T) {
	repoErr := errors.New("connection reset")
	svc := NewAdmissionService(&fakeAdmissionRepo{admitErr: repoErr}, 30*time.Minute)

	_, err := svc.AdmitRegistration(context.Background(), domain.AdmissionRequest{
		EventID: 1, ModalityID: 1, AthleteID: 1,
	})
	require.Error(t, err)
	_, ok := domain.AsAdmissionError(err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, repoErr)
}

func TestAdmissionService_NoOversellForCapacityOne(t *testing.T) {
	repo := &fakeAdmissionRepo{capacity: 1}
	svc := NewAdmissionService(repo, 30*time.Minute)

	const attempts = 20
	var wg sync.WaitGroup
	wg.Add(attempts)

	var successCount, fullCount int64
	for i := 0; i < attempts; i++ {
		athleteID := uint(i + 1)
		go func() {
			defer wg.Done()
			_, err := svc.AdmitRegistration(context.Background(), domain.AdmissionRequest{
				EventID: 1, ModalityID: 1, AthleteID: athleteID,
			})
			if err == nil {
				atomic.AddInt64(&successCount, 1)
				return
			}
			if admErr, ok := domain.AsAdmissionError(err); ok && admErr.Code == domain.CodeEventFull {
				atomic.AddInt64(&fullCount, 1)
				return
			}
			t.Errorf("unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), successCount)
	assert.Equal(t, int64(attempts-1), fullCount)
	assert.Equal(t, 1, repo.occupied)
}

func TestAdmissionService_ReleaseIsSymmetric(t *testing.T) {
	repo := &fakeAdmissionRepo{capacity: 2}
	svc := NewAdmissionService(repo, 30*time.Minute)

	result, err := svc.AdmitRegistration(context.Background(), domain.AdmissionRequest{
		EventID: 1, ModalityID: 3, AthleteID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, 1, repo.occupied)

	modalityID := result.Registration.ModalityID
	batchID := result.Registration.BatchID
	err = svc.ReleaseCapacity(context.Background(), result.Order.EventID, &modalityID, &batchID)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.occupied)
}

func TestAdmissionService_ReleaseCapacity_RequiresEvent(t *testing.T) {
	svc := NewAdmissionService(&fakeAdmissionRepo{capacity: 1}, 30*time.Minute)

	err := svc.ReleaseCapacity(context.Background(), 0, nil, nil)
	admErr, ok := domain.AsAdmissionError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeEventNotFound, admErr.Code)
}
