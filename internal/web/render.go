package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hpungsan/recase/internal/errors"
)

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes {"error": {code, message, status}}. INTERNAL errors are
// logged with their details and returned with a generic message.
func renderError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	rErr, ok := errors.As(err)
	if !ok {
		rErr = errors.NewInternal(err)
	}

	errorObj := map[string]any{
		"code":    string(rErr.Code),
		"message": rErr.Message,
		"status":  rErr.Status,
	}
	if rErr.Code == errors.ErrInternal {
		logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	} else if rErr.Details != nil {
		errorObj["details"] = rErr.Details
	}

	renderJSON(w, rErr.Status, map[string]any{"error": errorObj})
}

// decodeBody reads a JSON request body into v. An empty body leaves v unchanged.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
