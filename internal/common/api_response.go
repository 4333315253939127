package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tacticalops/clanhub/internal/apperr"
	"tacticalops/clanhub/internal/constants"
	"tacticalops/clanhub/internal/logging"
	"tacticalops/clanhub/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	msg := message
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      msg,
		ResponseTime: GetResponseTime(initTime),
	}

	writeJSON(w, code, response)
}

// RespondAppError maps a domain error to its HTTP status and attaches
// {code, field, message}. Unknown errors become 500 without leaking details.
func RespondAppError(w http.ResponseWriter, initTime time.Time, err error) {
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		logging.Error("Unhandled error", "error", err.Error())
		RespondError(w, initTime, nil, "internal server error", http.StatusInternalServerError)
		return
	}

	code := StatusForKind(domainErr.Kind)
	if code >= http.StatusInternalServerError {
		logging.Error("Backend failure", "error", err.Error())
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      domainErr.Error(),
		ResponseTime: GetResponseTime(initTime),
		Error: &dtos.ErrorDetail{
			Code:    string(domainErr.Kind),
			Field:   domainErr.Field,
			Message: domainErr.Message,
		},
	}
	writeJSON(w, code, response)
}

func StatusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindNotAuthorized:
		return http.StatusForbidden
	case apperr.KindAlreadyInClan, apperr.KindLeaderCannotLeave:
		return http.StatusConflict
	case apperr.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}
