package bot

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"VIP-Telegram-bot/internal/admin"
	"VIP-Telegram-bot/internal/security"
	"VIP-Telegram-bot/internal/services"
)

// Bot binds the Telegram API to the security guard and the business
// handlers. One instance per process.
type Bot struct {
	api      *tgbotapi.BotAPI
	sender   *services.Sender
	guard    *security.Guard
	sessions *services.SessionTracker
	admins   *admin.Handlers
}

func New(api *tgbotapi.BotAPI, sender *services.Sender, guard *security.Guard, sessions *services.SessionTracker, admins *admin.Handlers) *Bot {
	return &Bot{
		api:      api,
		sender:   sender,
		guard:    guard,
		sessions: sessions,
		admins:   admins,
	}
}

// StartPolling запускает long polling; webhook-режим использует тот же
// ProcessUpdate через services.TelegramWebhookHandler.
func (b *Bot) StartPolling() {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		b.ProcessUpdate(update)
	}
}
