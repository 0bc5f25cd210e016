package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gamertype/portrait-api/internal/cache"
	"github.com/gamertype/portrait-api/internal/i18n"
	"github.com/gamertype/portrait-api/internal/logic"
	"github.com/gamertype/portrait-api/internal/models"
)

// Analyze handles POST /api/analyze
// @Summary Analyze a Steam profile
// @Description Resolves the input, builds the profile and generates the portrait. A cached portrait for the same locale is reused.
// @Tags Analysis
// @Accept json
// @Produce json
// @Param body body models.AnalyzeRequest true "Profile URL, vanity name or SteamID64"
// @Success 200 {object} models.AnalyzeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if !h.allow(r) {
		rateLimited.Inc()
		h.errorResponse(w, models.ErrRateLimited, "Too many requests, try again later", false)
		return
	}

	var req models.AnalyzeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	locale := req.Locale
	if locale == "" {
		locale = i18n.FromRequest(r)
	}

	resp, err := h.analysis.Analyze(r.Context(), logic.AnalyzeParams{
		Input:    req.Input,
		Locale:   locale,
		Provider: req.Provider,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, resp)
}

// allow counts the request against the caller's hourly window. A counter
// failure lets the request through.
func (h *Handler) allow(r *http.Request) bool {
	if h.rateLimitPerHour <= 0 {
		return true
	}
	ip := clientIP(r)
	n, err := h.cache.Incr(r.Context(), cache.RateLimitKey(ip), cache.RateLimitTTL)
	if err != nil {
		h.logger.Warnw("Rate counter unavailable", "ip", ip, "error", err)
		return true
	}
	return n <= int64(h.rateLimitPerHour)
}

// GetResult handles GET /api/result/{steamId}
// @Summary Get a generated portrait
// @Tags Analysis
// @Produce json
// @Param steamId path string true "SteamID64"
// @Param locale query string false "ru or en"
// @Success 200 {object} models.AnalysisResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/result/{steamId} [get]
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	steamID := chi.URLParam(r, "steamId")
	if err := h.validator.Var(steamID, "required,numeric,len=17"); err != nil {
		h.errorResponse(w, models.ErrInvalidInput, "Invalid SteamID64", false)
		return
	}
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = i18n.FromRequest(r)
	}

	result, err := h.analysis.Result(r.Context(), steamID, locale)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, result)
}

// ListProviders handles GET /api/providers
// @Summary List LLM providers
// @Tags Analysis
// @Produce json
// @Success 200 {object} map[string][]models.ProviderInfo
// @Router /api/providers [get]
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string][]models.ProviderInfo{
		"providers": h.providers.List(),
	})
}
