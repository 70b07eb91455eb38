package domain

import "errors"

// AdmissionCode enumerates every way an admission attempt can be rejected.
// The set is closed; callers switch on it instead of matching error strings.
type AdmissionCode string

const (
	CodeEventNotFound     AdmissionCode = "EVENT_NOT_FOUND"
	CodeEventFull         AdmissionCode = "EVENT_FULL"
	CodeModalityNotFound  AdmissionCode = "MODALITY_NOT_FOUND"
	CodeModalityFull      AdmissionCode = "MODALITY_FULL"
	CodeBatchSoldOut      AdmissionCode = "LOT_SOLD_OUT_OR_CHANGED"
	CodeAlreadyRegistered AdmissionCode = "JA_INSCRITO"
	CodeInternal          AdmissionCode = "INTERNAL_ERROR"
)

// AdmissionError is a typed rejection. Domain rejections are returned, never
// panicked, and always after the whole admission transaction rolled back.
type AdmissionError struct {
	Code    AdmissionCode
	Message string
}

func (e *AdmissionError) Error() string {
	return string(e.Code) + ": " + e.Message
}

var (
	ErrEventNotFound     = &AdmissionError{Code: CodeEventNotFound, Message: "event not found"}
	ErrEventFull         = &AdmissionError{Code: CodeEventFull, Message: "event has no remaining capacity"}
	ErrModalityNotFound  = &AdmissionError{Code: CodeModalityNotFound, Message: "modality not found"}
	ErrModalityFull      = &AdmissionError{Code: CodeModalityFull, Message: "modality has no remaining capacity"}
	ErrBatchSoldOut      = &AdmissionError{Code: CodeBatchSoldOut, Message: "registration batch sold out or changed, retry"}
	ErrAlreadyRegistered = &AdmissionError{Code: CodeAlreadyRegistered, Message: "athlete already registered"}
)

// AsAdmissionError unwraps err into the closed rejection set, if it belongs.
func AsAdmissionError(err error) (*AdmissionError, bool) {
	var admErr *AdmissionError
	if errors.As(err, &admErr) {
		return admErr, true
	}
	return nil, false
}

// AdmissionRequest carries everything the admission transaction needs.
// It deliberately has no batch id field: the authoritative batch is always
// re-derived from locked server state.
type AdmissionRequest struct {
	EventID    uint
	ModalityID uint
	AthleteID  uint
	ShirtSize  string
	TeamName   string

	// DefaultAmount is the fallback unit price (cents) used only when no
	// Price row exists for the resolved (modality, batch) pair.
	DefaultAmount int64
}

// AdmissionResult is the committed Order+Registration pair.
type AdmissionResult struct {
	Order        Order        `json:"order"`
	Registration Registration `json:"registration"`
}

// SweepResult aggregates one expiration reaper pass.
type SweepResult struct {
	Processed int `json:"processed"`
	Released  int `json:"released"`
	Errors    int `json:"errors"`
}
