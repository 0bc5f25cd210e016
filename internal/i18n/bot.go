package i18n

import "fmt"

// BotMessage identifies a bot reply
type BotMessage int

const (
	BotUnlocked BotMessage = iota
	BotNotSubscribed
	BotExpired
	BotError
)

var botMessages = map[string]map[BotMessage]string{
	Russian: {
		BotUnlocked:      "Портрет открыт! Вернись на сайт, он уже обновился.",
		BotNotSubscribed: "Сначала подпишись на канал, а потом нажми /start снова:\n%s",
		BotExpired:       "Ссылка устарела. Открой портрет на сайте заново.",
		BotError:         "Что-то пошло не так. Попробуй ещё раз.",
	},
	English: {
		BotUnlocked:      "Portrait unlocked! Go back to the site, it's already updated.",
		BotNotSubscribed: "Subscribe to the channel first, then press /start again:\n%s",
		BotExpired:       "This link has expired. Open your portrait on the site again.",
		BotError:         "Something went wrong. Please try again.",
	},
}

// BotReply renders msg in locale. channelURL fills the subscribe prompt.
func BotReply(locale string, msg BotMessage, channelURL string) string {
	catalog, ok := botMessages[Normalize(locale)]
	if !ok {
		catalog = botMessages[Default()]
	}
	text := catalog[msg]
	if msg == BotNotSubscribed {
		return fmt.Sprintf(text, channelURL)
	}
	return text
}
