package services

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Telegram caps a message at 4096 characters and a bot at roughly 30
// sends per second overall.
const (
	maxMessageChunk = 4096
	sendsPerSecond  = 30
)

// Sender is the single outbound path to Telegram: it throttles sends to
// stay under the API flood limit and splits over-long texts.
type Sender struct {
	api     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

func NewSender(api *tgbotapi.BotAPI) *Sender {
	return &Sender{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(sendsPerSecond), sendsPerSecond),
	}
}

func (s *Sender) Send(chatID int64, text string) error {
	return s.SendWithMarkup(chatID, text, nil)
}

// SendWithMarkup sends text in order, chunked at the Telegram limit. The
// keyboard markup goes on the last chunk so it lands under the visible
// end of the message.
func (s *Sender) SendWithMarkup(chatID int64, text string, markup interface{}) error {
	chunks := SplitMessage(text, maxMessageChunk)
	for i, chunk := range chunks {
		if err := s.limiter.Wait(context.Background()); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, chunk)
		if markup != nil && i == len(chunks)-1 {
			msg.ReplyMarkup = markup
		}
		if _, err := s.api.Send(msg); err != nil {
			return err
		}
	}
	return nil
}

// SplitMessage cuts text into rune-safe chunks of at most limit runes.
func SplitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
