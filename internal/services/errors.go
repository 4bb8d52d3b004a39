package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSaveFailed        = errors.New("save failed")
	ErrImageLimitReached = errors.New("daily image limit reached")
	ErrInvalidPIN        = errors.New("invalid parent PIN")
	ErrEmptyPrompt       = errors.New("empty prompt")
	ErrPaymentInvalid    = errors.New("payment details invalid")
	ErrInvalidActivity   = errors.New("unknown activity type")
	ErrStepNotFound      = errors.New("roadmap step not found")
	ErrCardOutOfRange    = errors.New("card index out of range")
	ErrInvalidCardStatus = errors.New("unknown card status")
	ErrNoActiveState     = errors.New("no active state")
	ErrStreamInProgress  = errors.New("a response is already streaming")
	ErrPremiumRequired   = errors.New("premium is required")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrInvalidScore      = errors.New("invalid quiz score")
)

// PaymentError lists the form fields that failed validation.
type PaymentError struct {
	Fields map[string]string
}

func (e *PaymentError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "payment details invalid: " + strings.Join(parts, "; ")
}

func (e *PaymentError) Is(target error) bool {
	return target == ErrPaymentInvalid
}
