package telegram

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/gamertype/portrait-api/internal/gate"
	"github.com/gamertype/portrait-api/internal/i18n"
	"github.com/gamertype/portrait-api/internal/models"
)

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot"`
	FirstName    string `json:"first_name"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Sender delivers a text reply
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Confirmer unlocks a gate token after a membership check
type Confirmer interface {
	Confirm(ctx context.Context, token string, userID, chatID int64) (gate.Outcome, *models.GateToken, error)
}

type BotConfig struct {
	Sender     Sender
	Gate       Confirmer
	ChannelURL string
	Logger     *zap.Logger
}

// Bot handles incoming updates. Only /start <token> is acted on.
type Bot struct {
	config BotConfig
	logger *zap.SugaredLogger
}

func NewBot(cfg BotConfig) *Bot {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Bot{config: cfg, logger: cfg.Logger.Sugar()}
}

// StartToken extracts the payload of a /start or /start@bot command.
func StartToken(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	if cmd != "/start" || len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

// HandleUpdate never fails the webhook; problems become a localized reply.
func (b *Bot) HandleUpdate(ctx context.Context, upd Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil {
		return
	}
	token, ok := StartToken(msg.Text)
	if !ok {
		return
	}

	locale := i18n.Normalize(msg.From.LanguageCode)
	outcome, tok, err := b.config.Gate.Confirm(ctx, token, msg.From.ID, msg.Chat.ID)
	if tok != nil {
		locale = tok.Locale
	}

	var reply i18n.BotMessage
	switch {
	case err != nil:
		b.logger.Warnw("Gate confirmation failed", "token", token, "user_id", msg.From.ID, "error", err)
		reply = i18n.BotError
	case outcome == gate.OutcomeExpired:
		reply = i18n.BotExpired
	case outcome == gate.OutcomeNotSubscribed:
		reply = i18n.BotNotSubscribed
	default:
		reply = i18n.BotUnlocked
	}

	text := i18n.BotReply(locale, reply, b.config.ChannelURL)
	if err := b.config.Sender.SendMessage(ctx, msg.Chat.ID, text); err != nil {
		b.logger.Warnw("Failed to send bot reply", "chat_id", msg.Chat.ID, "error", err)
	}
}
