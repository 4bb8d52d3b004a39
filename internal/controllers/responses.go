package controllers

import (
	"errors"
	"net/http"
	"studymate/internal/ai"
	"studymate/internal/providers"
	"studymate/internal/services"
	"studymate/internal/storage"

	json "github.com/goccy/go-json"
)

// Image uploads travel as data uris inside the json body.
const maxRequestBodySize = 10 << 20 // 10 MB

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadRequest
	}
	return nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrMessageNotFound),
		errors.Is(err, services.ErrNoActiveState),
		errors.Is(err, services.ErrStepNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, services.ErrEmptyPrompt),
		errors.Is(err, services.ErrPaymentInvalid),
		errors.Is(err, services.ErrInvalidActivity),
		errors.Is(err, services.ErrCardOutOfRange),
		errors.Is(err, services.ErrInvalidCardStatus),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, ai.ErrBadImage):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidPIN):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrImageLimitReached),
		errors.Is(err, services.ErrPremiumRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrStreamInProgress):
		return http.StatusConflict
	case errors.Is(err, services.ErrSaveFailed),
		errors.Is(err, storage.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, ai.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status code and writes it as a JSON body.
// Server side failures are logged, client mistakes are not.
func writeError(w http.ResponseWriter, logger providers.Logger, r *http.Request, err error) {
	status := statusOf(err)
	resp := errorResponse{Error: err.Error()}

	var pe *services.PaymentError
	if errors.As(err, &pe) {
		resp.Fields = pe.Fields
	}
	if status >= http.StatusInternalServerError {
		logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		if status == http.StatusInternalServerError {
			resp.Error = "Internal Server Error"
		}
	}
	writeJSON(w, status, resp)
}
