package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmitRegistrationRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     AdmitRegistrationRequest
		wantErr bool
	}{
		{
			name: "valid",
			req: AdmitRegistrationRequest{
				ModalityID:    1,
				AthleteID:     42,
				ShirtSize:     "M",
				TeamName:      "Corrida Club",
				DefaultAmount: 15000,
			},
			wantErr: false,
		},
		{
			name: "valid without optionals",
			req: AdmitRegistrationRequest{
				ModalityID: 1,
				AthleteID:  42,
			},
			wantErr: false,
		},
		{
			name: "missing modality",
			req: AdmitRegistrationRequest{
				AthleteID: 42,
			},
			wantErr: true,
		},
		{
			name: "missing athlete",
			req: AdmitRegistrationRequest{
				ModalityID: 1,
			},
			wantErr: true,
		},
		{
			name: "negative default amount",
			req: AdmitRegistrationRequest{
				ModalityID:    1,
				AthleteID:     42,
				DefaultAmount: -100,
			},
			wantErr: true,
		},
		{
			name: "shirt size too long",
			req: AdmitRegistrationRequest{
				ModalityID: 1,
				AthleteID:  42,
				ShirtSize:  "EXTRA-EXTRA-LARGE",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
