package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// searchErrorMessage is the only failure body the search endpoint emits.
const searchErrorMessage = "error"

func writeJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.ErrorContext(r.Context(), "write response failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func writeSearchError(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	writeJSON(w, r, logger, http.StatusBadRequest, ErrorResponse{Message: searchErrorMessage})
}
