package handlers

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gamertype/portrait-api/internal/models"
)

var (
	apiErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portrait_api_errors_total",
		Help: "Error responses by code",
	}, []string{"code"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portrait_rate_limited_total",
		Help: "Analyze requests rejected by the per-IP limit",
	})
)

// Health check endpoint
// @Summary Liveness
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
// @Summary Readiness
// @Description Reports the shared cache tier and whether any LLM provider is usable
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	available := 0
	for _, p := range h.providers.List() {
		if p.Available {
			available++
		}
	}

	// Check all dependencies
	checks := map[string]bool{
		"cache":     h.cache.Ping(ctx) == nil,
		"providers": available > 0,
	}

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warnw("Failed to write response", "error", err)
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, code models.ErrorCode, message string, retryable bool) {
	apiErrors.WithLabelValues(string(code)).Inc()
	h.jsonResponse(w, code.HTTPStatus(), models.ErrorResponse{
		Error:     true,
		Code:      code,
		Message:   message,
		Retryable: retryable,
	})
}

// writeError renders err through the domain taxonomy. Anything without a
// code is an internal error and its detail stays in the log.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if apiErr, ok := models.AsAPIError(err); ok {
		if apiErr.Code == models.ErrInternal || apiErr.Transient {
			h.logger.Warnw("Request failed", "path", r.URL.Path, "code", apiErr.Code, "error", err)
		}
		h.errorResponse(w, apiErr.Code, apiErr.Message, apiErr.Transient)
		return
	}
	if errors.Is(err, r.Context().Err()) && r.Context().Err() != nil {
		h.logger.Debugw("Client went away", "path", r.URL.Path)
		return
	}
	h.logger.Errorw("Unhandled error", "path", r.URL.Path, "error", err)
	h.errorResponse(w, models.ErrInternal, "Internal error", false)
}

// decodeBody reads a size-limited JSON body into dst and validates it.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.errorResponse(w, models.ErrInvalidInput, "Invalid JSON body", false)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.errorResponse(w, models.ErrInvalidInput, validationMessage(err), false)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Invalid request"
	}
	fe := fieldErrs[0]
	return "Invalid field " + strings.ToLower(fe.Field()) + ": " + fe.Tag()
}

// clientIP is the first X-Forwarded-For hop, else the socket peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
