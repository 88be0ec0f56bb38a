package api

import (
	"net/http"

	aerrors "github.com/Aman-CERP/motiva/internal/errors"
)

// statusForError maps an internal error to the HTTP status the API
// layer reports, grounded on crates/motiva/src/api/errors.rs's
// AppError -> ApiError conversion table (SPEC_FULL.md §7/§12).
func statusForError(err error) int {
	ae, ok := err.(*aerrors.AmanError)
	if !ok {
		return http.StatusInternalServerError
	}

	switch ae.Code {
	case aerrors.ErrCodeUnknownSchema, aerrors.ErrCodeNotMatchable, aerrors.ErrCodeInvalidQuery:
		return http.StatusBadRequest
	case aerrors.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case aerrors.ErrCodeEntityNotFound:
		return http.StatusNotFound
	case aerrors.ErrCodeRequestTimeout:
		return http.StatusRequestTimeout
	case aerrors.ErrCodeIndexUnavailable, aerrors.ErrCodeIndexQueryFailed, aerrors.ErrCodeInternal:
		return http.StatusInternalServerError
	}

	switch ae.Category {
	case aerrors.CategoryValidation:
		return http.StatusUnprocessableEntity
	case aerrors.CategorySchema:
		return http.StatusBadRequest
	case aerrors.CategoryAuth:
		return http.StatusUnauthorized
	case aerrors.CategoryTimeout:
		return http.StatusRequestTimeout
	case aerrors.CategoryIndex:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape written for a request-terminating error.
type errorBody struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	body := errorBody{Error: err.Error()}
	if ae, ok := err.(*aerrors.AmanError); ok {
		body.Code = ae.Code
		body.Details = ae.Details
	}
	writeJSON(w, status, body)
}
