package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// AdmitRegistrationRequest deliberately carries no batch id. The batch is
// re-derived from locked server state inside the admission transaction; a
// client-supplied batch id would never be trusted anyway.
type AdmitRegistrationRequest struct {
	ModalityID uint   `json:"modality_id" binding:"required"`
	AthleteID  uint   `json:"athlete_id" binding:"required"`
	ShirtSize  string `json:"shirt_size"`
	TeamName   string `json:"team_name"`

	// DefaultAmount is the fallback unit price in cents, applied only when
	// no price row exists for the resolved (modality, batch) pair.
	DefaultAmount int64 `json:"default_amount"`
}

func (req *AdmitRegistrationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ModalityID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.AthleteID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.ShirtSize, validation.Length(0, 10)),
		validation.Field(&req.TeamName, validation.Length(0, 100)),
		validation.Field(&req.DefaultAmount, validation.Min(int64(0))),
	)
}
