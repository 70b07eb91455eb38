package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrder_Expired(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{
			name:  "pending past deadline",
			order: Order{Status: OrderStatusPendente, ExpiresAt: &past},
			want:  true,
		},
		{
			name:  "pending before deadline",
			order: Order{Status: OrderStatusPendente, ExpiresAt: &future},
			want:  false,
		},
		{
			name:  "pending without deadline",
			order: Order{Status: OrderStatusPendente, ExpiresAt: nil},
			want:  false,
		},
		{
			name:  "paid order never expires",
			order: Order{Status: OrderStatusPago, ExpiresAt: &past},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.order.Expired(now))
		})
	}
}

func TestAsAdmissionError(t *testing.T) {
	admErr, ok := AsAdmissionError(ErrEventFull)
	assert.True(t, ok)
	assert.Equal(t, CodeEventFull, admErr.Code)

	wrapped := fmt.Errorf("s.repo.AdmitRegistration -> %w", ErrAlreadyRegistered)
	admErr, ok = AsAdmissionError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeAlreadyRegistered, admErr.Code)

	_, ok = AsAdmissionError(errors.New("connection reset"))
	assert.False(t, ok)
}
