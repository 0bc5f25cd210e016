package handlers

import (
	"crypto/subtle"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/gamertype/portrait-api/internal/i18n"
	"github.com/gamertype/portrait-api/internal/models"
	"github.com/gamertype/portrait-api/internal/telegram"
)

// WebhookSecretHeader carries the secret registered with setWebhook
const WebhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// CreateGate handles POST /api/gate/create
// @Summary Issue an unlock token
// @Description Creates a pending token and returns the bot deep link that confirms it
// @Tags Gate
// @Accept json
// @Produce json
// @Param body body models.GateCreateRequest true "Player and locale"
// @Success 200 {object} models.GateCreateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.GateCreateResponse
// @Router /api/gate/create [post]
func (h *Handler) CreateGate(w http.ResponseWriter, r *http.Request) {
	var req models.GateCreateRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	locale := req.Locale
	if locale == "" {
		locale = i18n.FromRequest(r)
	}

	tok, err := h.gate.Issue(r.Context(), req.SteamID64, locale)
	if err != nil {
		h.logger.Errorw("Failed to issue gate token", "steam_id", req.SteamID64, "error", err)
		h.jsonResponse(w, http.StatusServiceUnavailable, models.GateCreateResponse{
			BotLink: telegram.BotLink(h.botUsername, ""),
			Error:   true,
		})
		return
	}

	h.jsonResponse(w, http.StatusOK, models.GateCreateResponse{
		Token:   tok.Token,
		BotLink: telegram.BotLink(h.botUsername, tok.Token),
	})
}

// GateStatus handles GET /api/gate/status
// @Summary Poll an unlock token
// @Description Unknown or missing tokens read as expired. degraded is set when the status is a fail-open answer.
// @Tags Gate
// @Produce json
// @Param token query string false "Gate token"
// @Success 200 {object} models.GateStatusResponse
// @Router /api/gate/status [get]
func (h *Handler) GateStatus(w http.ResponseWriter, r *http.Request) {
	status, degraded := h.gate.Status(r.Context(), r.URL.Query().Get("token"))
	h.jsonResponse(w, http.StatusOK, models.GateStatusResponse{Status: status, Degraded: degraded})
}

// TelegramWebhook handles POST /api/telegram/webhook
// @Summary Bot update webhook
// @Description Always answers 200 once the secret matches so the platform does not redeliver
// @Tags Gate
// @Accept json
// @Param X-Telegram-Bot-Api-Secret-Token header string false "Webhook secret"
// @Success 200
// @Failure 401
// @Router /api/telegram/webhook [post]
func (h *Handler) TelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret != "" {
		got := r.Header.Get(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	var upd telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.logger.Warnw("Undecodable bot update", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	h.bot.HandleUpdate(r.Context(), upd)
	w.WriteHeader(http.StatusOK)
}
