package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Name                    string `json:"name" binding:"required"`
	Location                string `json:"location" binding:"required"`
	Date                    string `json:"date" binding:"required" format:"DD/MM/YYYY"`
	CapacityTotal           int    `json:"capacity_total" binding:"required,min=1"`
	AllowMultipleModalities bool   `json:"allow_multiple_modalities"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Location, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Date, validation.Required),
		validation.Field(&req.CapacityTotal, validation.Required, validation.Min(1)),
	)
}

type CreateModalityRequest struct {
	Name          string `json:"name" binding:"required"`
	CapacityTotal *int   `json:"capacity_total"` // null = unlimited
}

func (req *CreateModalityRequest) Validate() error {
	fields := []*validation.FieldRules{
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	}
	if req.CapacityTotal != nil {
		fields = append(fields, validation.Field(&req.CapacityTotal, validation.Min(1)))
	}

	return validation.ValidateStruct(req, fields...)
}

type CreateBatchRequest struct {
	ModalityID       *uint  `json:"modality_id"` // null = event-wide batch
	Name             string `json:"name" binding:"required"`
	Ordem            int    `json:"ordem" binding:"required,min=1"`
	QuantidadeMaxima *int   `json:"quantidade_maxima"` // null = unlimited
	StartsAt         string `json:"starts_at" binding:"required" format:"RFC3339"`
	EndsAt           string `json:"ends_at" format:"RFC3339"`
	Ativo            bool   `json:"ativo"`
}

func (req *CreateBatchRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Ordem, validation.Required, validation.Min(1)),
		validation.Field(&req.StartsAt, validation.Required),
	)
}

type CreatePriceRequest struct {
	BatchID uint  `json:"batch_id" binding:"required"`
	Amount  int64 `json:"amount" binding:"required,min=0"`
}

func (req *CreatePriceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BatchID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Amount, validation.Min(int64(0))),
	)
}
