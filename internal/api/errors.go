package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/annalhq/arcane/internal/metrics"
	"github.com/annalhq/arcane/internal/store"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeStoreError maps store sentinel errors to HTTP statuses and
// machine-readable codes. Validation failures and bad references are the
// caller's fault; everything else is a storage problem and surfaces as
// 503 so clients can distinguish "you sent garbage" from "try again".
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
	case errors.Is(err, store.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_REFERENCE")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
	case errors.Is(err, store.ErrTagExists):
		writeError(w, http.StatusConflict, err.Error(), "TAG_EXISTS")
	case errors.Is(err, store.ErrStorageUnavailable):
		metrics.StorageErrors.Inc()
		logrus.WithError(err).Error("storage unavailable")
		writeError(w, http.StatusServiceUnavailable, "storage unavailable", "STORAGE")
	default:
		metrics.StorageErrors.Inc()
		logrus.WithError(err).Error("unexpected store error")
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}
