package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrClassification = errors.New("classification failed")
	// ErrClassificationParse also matches ErrClassification.
	ErrClassificationParse = fmt.Errorf("%w: classifier output is not a JSON array of category keys", ErrClassification)
	ErrUnknownCategory     = errors.New("unknown category")
	ErrExtraction          = errors.New("extraction failed")
	ErrResponseParse       = errors.New("model response violates the output contract")
)

// Stage is a state of the ask pipeline.
type Stage string

const (
	StageValidatingInput Stage = "validating_input"
	StageClassifying     Stage = "classifying"
	StageFormatting      Stage = "formatting"
	StageSelectingModel  Stage = "selecting_model"
	StageBuildingPrompt  Stage = "building_prompt"
	StageExtracting      Stage = "extracting"
	StageParsingResponse Stage = "parsing_response"
	StageDone            Stage = "done"
	StageFailed          Stage = "failed"
)

// StageError is the terminal failure of a request, tagged with the stage that
// was running when it failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// InvalidRequestError names the required request fields that were missing.
type InvalidRequestError struct {
	Missing []string
}

func (e *InvalidRequestError) Error() string {
	return strings.Join(e.Missing, " and ") + verb(len(e.Missing)) + " required"
}

func (e *InvalidRequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func verb(n int) string {
	if n > 1 {
		return " are"
	}
	return " is"
}

// ErrorKind returns the wire name of the failure kind carried by err.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrClassificationParse):
		return "classification_parse_error"
	case errors.Is(err, ErrClassification):
		return "classification_error"
	case errors.Is(err, ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, ErrExtraction):
		return "extraction_error"
	case errors.Is(err, ErrResponseParse):
		return "response_parse_error"
	default:
		return "internal_error"
	}
}
