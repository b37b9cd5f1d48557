package handlers

import (
	"context"
	"delivery-pricing-service/internal/domain"
	"delivery-pricing-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v",
			obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func writeFieldError(w http.ResponseWriter, r *http.Request, status int, field, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg, "field": field})
}

// allowMethods answers 405 with an Allow header unless r uses one of methods.
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeJSON reads exactly one JSON object into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// respondDomainError maps typed errors to statuses. Anything else is logged and
// answered with fallbackStatus and a generic message.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error, fallbackStatus int, op string) {
	var (
		invalid  domain.InvalidInputError
		cfgErr   domain.ConfigurationError
		valErr   domain.ValidationError
		notFound domain.NotFoundError
	)

	switch {
	case errors.As(err, &invalid):
		writeFieldError(w, r, http.StatusBadRequest, invalid.Field, invalid.Error())
	case errors.As(err, &valErr):
		writeFieldError(w, r, http.StatusBadRequest, valErr.Field, valErr.Error())
	case errors.As(err, &cfgErr):
		writeFieldError(w, r, http.StatusUnprocessableEntity, cfgErr.Field, cfgErr.Error())
	case errors.As(err, &notFound):
		writeError(w, r, http.StatusNotFound, notFound.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("req_id=%s %s timed out: %v", obs.RequestID(r.Context()), op, err)
		writeError(w, r, http.StatusGatewayTimeout, "upstream timeout")
	default:
		log.Printf("req_id=%s %s failed: %v", obs.RequestID(r.Context()), op, err)
		msg := "internal server error"
		if fallbackStatus == http.StatusBadGateway {
			msg = "upstream service unavailable"
		}
		writeError(w, r, fallbackStatus, msg)
	}
}
