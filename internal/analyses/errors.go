package analyses

import (
	"errors"

	"logit-backend/internal/employees"
	"logit-backend/internal/llm"
	"logit-backend/internal/timesheets"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeDecode     = "DECODE_ERROR"
	ErrorCodeNotFound   = "NOT_FOUND"
	ErrorCodeExtraction = "LLM_EXTRACTION"
	ErrorCodeMalformed  = "LLM_MALFORMED_PAYLOAD"
	ErrorCodeLLMTimeout = "LLM_TIMEOUT"
	ErrorCodeStorage    = "STORAGE_ERROR"
	ErrorCodeInternal   = "INTERNAL_ERROR"
)

// StageError records which pipeline stage failed. It unwraps to the cause.
type StageError struct {
	Stage    string
	UploadID string
	Err      error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ErrorCode classifies err for metrics and responses.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return ErrorCodeValidation
	case errors.Is(err, timesheets.ErrDecode):
		return ErrorCodeDecode
	case errors.Is(err, ErrNotFound), errors.Is(err, employees.ErrNotFound):
		return ErrorCodeNotFound
	case errors.Is(err, llm.ErrExtraction):
		return ErrorCodeExtraction
	case errors.Is(err, llm.ErrMalformedPayload):
		return ErrorCodeMalformed
	case errors.Is(err, llm.ErrTimeout):
		return ErrorCodeLLMTimeout
	case errors.Is(err, ErrStorage):
		return ErrorCodeStorage
	default:
		return ErrorCodeInternal
	}
}
