package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openrace/corrida-api/internal/domain"
)

// setupTestDB boots a throwaway postgres container. Row locking and the
// partial unique index only behave like production on a real postgres, so
// these tests skip instead of faking when docker is unavailable.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=corrida_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=corrida_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	pool.MaxWait = 60 * time.Second
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if openErr != nil {
			return openErr
		}
		sqlDB, pingErr := db.DB()
		if pingErr != nil {
			return pingErr
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)
	require.NoError(t, InitTables(db))

	return db
}

func seedEvent(t *testing.T, db *gorm.DB, capacity int, allowMultiple bool) Event {
	t.Helper()

	event := Event{
		Name:                    "Corrida de Teste",
		Location:                "Parque Central",
		Date:                    time.Now().UTC().AddDate(0, 1, 0),
		CapacityTotal:           capacity,
		AllowMultipleModalities: allowMultiple,
	}
	require.NoError(t, db.Create(&event).Error)

	return event
}

func seedModality(t *testing.T, db *gorm.DB, eventID uint, name string) Modality {
	t.Helper()

	modality := Modality{
		EventID: eventID,
		Name:    name,
	}
	require.NoError(t, db.Create(&modality).Error)

	return modality
}

func seedBatch(t *testing.T, db *gorm.DB, batch RegistrationBatch) RegistrationBatch {
	t.Helper()

	if batch.Name == "" {
		batch.Name = fmt.Sprintf("Lote %v", batch.Ordem)
	}
	if batch.StartsAt.IsZero() {
		batch.StartsAt = time.Now().UTC().Add(-time.Hour)
	}
	require.NoError(t, db.Create(&batch).Error)

	return batch
}

func intPtr(n int) *int {
	return &n
}

func reloadBatch(t *testing.T, db *gorm.DB, id uint) RegistrationBatch {
	t.Helper()

	var batch RegistrationBatch
	require.NoError(t, db.First(&batch, id).Error)

	return batch
}

func TestAdmissionDAO_Admit_FillsBatchAndActivatesSuccessor(t *testing.T) {
	db := setupTestDB(t)
	admissionDAO := NewAdmissionDAO(db)
	ctx := context.Background()

	event := seedEvent(t, db, 10, false)
	modality := seedModality(t, db, event.ID, "5km")
	first := seedBatch(t, db, RegistrationBatch{
		EventID:          event.ID,
		ModalityID:       &modality.ID,
		Ordem:            1,
		QuantidadeMaxima: intPtr(1),
		Status:           batchStatusActive,
		Ativo:            true,
	})
	second := seedBatch(t, db, RegistrationBatch{
		EventID:          event.ID,
		ModalityID:       &modality.ID,
		Ordem:            2,
		QuantidadeMaxima: intPtr(2),
		Status:           batchStatusFuture,
		Ativo:            false,
	})

	order, registration, err := admissionDAO.Admit(ctx, domain.AdmissionRequest{
		EventID:       event.ID,
		ModalityID:    modality.ID,
		AthleteID:     1,
		DefaultAmount: 5000,
	}, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, first.ID, registration.BatchID)
	assert.Equal(t, orderStatusPendente, order.Status)
	require.NotNil(t, order.ExpiresAt)

	// The filling admission closes the batch and hands over to the successor.
	closed := reloadBatch(t, db, first.ID)
	assert.Equal(t, batchStatusClosed, closed.Status)
	assert.False(t, closed.Ativo)
	assert.Equal(t, 1, closed.QuantidadeUsada)

	activated := reloadBatch(t, db, second.ID)
	assert.Equal(t, batchStatusActive, activated.Status)
	assert.True(t, activated.Ativo)

	_, registration, err = admissionDAO.Admit(ctx, domain.AdmissionRequest{
		EventID:       event.ID,
		ModalityID:    modality.ID,
		AthleteID:     2,
		DefaultAmount: 5000,
	}, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, second.ID, registration.BatchID)

	var freshEvent Event
	require.NoError(t, db.First(&freshEvent, event.ID).Error)
	assert.Equal(t, 2, freshEvent.CapacityOccupied)
}

func TestAdmissionDAO_Admit_SameAthleteRejectedAcrossModalities(t *testing.T) {
	db := setupTestDB(t)
	admissionDAO := NewAdmissionDAO(db)
	ctx := context.Background()

	event := seedEvent(t, db, 10, false)
	run5k := seedModality(t, db, event.ID, "5km")
	run10k := seedModality(t, db, event.ID, "10km")
	seedBatch(t, db, RegistrationBatch{
		EventID: event.ID,
		Ordem:   1,
		Status:  batchStatusActive,
		Ativo:   true,
	})

	_, _, err := admissionDAO.Admit(ctx, domain.AdmissionRequest{
		EventID:       event.ID,
		ModalityID:    run5k.ID,
		AthleteID:     7,
		DefaultAmount: 5000,
	}, 30*time.Minute)
	require.NoError(t, err)

	// allow_multiple_modalities is off, so the same athlete is rejected
	// event-wide even on a different modality.
	_, _, err = admissionDAO.Admit(ctx, domain.AdmissionRequest{
		EventID:       event.ID,
		ModalityID:    run10k.ID,
		AthleteID:     7,
		DefaultAmount: 5000,
	}, 30*time.Minute)
	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	admErr, ok := domain.AsAdmissionError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeAlreadyRegistered, admErr.Code)

	var count int64
	require.NoError(t, db.Model(&Registration{}).Where("athlete_id = ?", 7).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAdmissionDAO_ExpiryReleasesSlotsButBatchStaysClosed(t *testing.T) {
	db := setupTestDB(t)
	admissionDAO := NewAdmissionDAO(db)
	orderDAO := NewOrderDAO(db)
	ctx := context.Background()

	event := seedEvent(t, db, 10, false)
	modality := seedModality(t, db, event.ID, "5km")
	batch := seedBatch(t, db, RegistrationBatch{
		EventID:          event.ID,
		ModalityID:       &modality.ID,
		Ordem:            1,
		QuantidadeMaxima: intPtr(2),
		Status:           batchStatusActive,
		Ativo:            true,
	})

	firstOrder, _, err := admissionDAO.Admit(ctx, domain.AdmissionRequest{
		EventID:       event.ID,
		ModalityID:    modality.ID,
		AthleteID:     1,
		DefaultAmount: 5000,
	}, 30*time.Minute)
	require.NoError(t, err)

	_, _, err = admissionDAO.Admit(ctx, domain.AdmissionRequest{
		EventID:       event.ID,
		ModalityID:    modality.ID,
		AthleteID:     2,
		DefaultAmount: 5000,
	}, 30*time.Minute)
	require.NoError(t, err)

	// The second admission fills the batch; with no successor it just closes.
	filled := reloadBatch(t, db, batch.ID)
	assert.Equal(t, batchStatusClosed, filled.Status)
	assert.False(t, filled.Ativo)
	assert.Equal(t, 2, filled.QuantidadeUsada)

	_, _, err = admissionDAO.Admit(ctx, domain.AdmissionRequest{
		EventID:       event.ID,
		ModalityID:    modality.ID,
		AthleteID:     3,
		DefaultAmount: 5000,
	}, 30*time.Minute)
	require.ErrorIs(t, err, domain.ErrBatchSoldOut)

	// Push the first order past its deadline and run one reaper pass over it.
	past := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.Model(&Order{}).Where("id = ?", firstOrder.ID).
		UpdateColumn("expires_at", past).Error)

	expired, err := orderDAO.FindExpiredPending(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, firstOrder.ID, expired[0].ID)

	released, err := orderDAO.Expire(ctx, firstOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	var freshEvent Event
	require.NoError(t, db.First(&freshEvent, event.ID).Error)
	assert.Equal(t, 1, freshEvent.CapacityOccupied)

	var freshModality Modality
	require.NoError(t, db.First(&freshModality, modality.ID).Error)
	assert.Equal(t, 1, freshModality.CapacityOccupied)

	// Release gives the slot back but never reopens the batch; admissions
	// against this scope stay rejected until an operator adds a new batch.
	afterRelease := reloadBatch(t, db, batch.ID)
	assert.Equal(t, batchStatusClosed, afterRelease.Status)
	assert.False(t, afterRelease.Ativo)
	assert.Equal(t, 1, afterRelease.QuantidadeUsada)

	_, _, err = admissionDAO.Admit(ctx, domain.AdmissionRequest{
		EventID:       event.ID,
		ModalityID:    modality.ID,
		AthleteID:     4,
		DefaultAmount: 5000,
	}, 30*time.Minute)
	require.ErrorIs(t, err, domain.ErrBatchSoldOut)

	var expiredOrder Order
	require.NoError(t, db.First(&expiredOrder, firstOrder.ID).Error)
	assert.Equal(t, orderStatusExpirado, expiredOrder.Status)

	var cancelled Registration
	require.NoError(t, db.Where("order_id = ?", firstOrder.ID).First(&cancelled).Error)
	assert.Equal(t, registrationStatusCancelada, cancelled.Status)
}
