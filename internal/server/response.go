package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adit9852/ChurnAI-Dashboard/internal/dataset"
	"github.com/adit9852/ChurnAI-Dashboard/internal/model"
)

type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, map[string]any{
		"status": "success",
		"data":   data,
	})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// writeDomainError maps domain errors onto HTTP statuses: configuration and
// model-fitting problems are unprocessable requests, malformed data is a bad
// request, anything else is internal. Errors never take the process down;
// they end the current request only.
func writeDomainError(w http.ResponseWriter, err error) {
	var schemaErr *dataset.SchemaError
	var parseErr *dataset.ParseError
	var fitErr *model.FitError
	var dimErr *model.DimensionError
	switch {
	case errors.As(err, &schemaErr):
		writeError(w, http.StatusUnprocessableEntity, "SCHEMA_MISMATCH", schemaErr.Error())
	case errors.As(err, &parseErr):
		writeError(w, http.StatusBadRequest, "MALFORMED_DATA", parseErr.Error())
	case errors.As(err, &fitErr):
		writeError(w, http.StatusUnprocessableEntity, "MODEL_FIT", fitErr.Error())
	case errors.As(err, &dimErr):
		writeError(w, http.StatusUnprocessableEntity, "SCHEMA_MISMATCH", dimErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
