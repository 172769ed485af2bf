package logger

import (
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var (
	botInstance *tgbotapi.BotAPI
	alertChatID int64
	once        sync.Once
)

// InitNotifier wires critical-alert delivery to the primary admin chat.
// Safe to call more than once; only the first call takes effect.
func InitNotifier(bot *tgbotapi.BotAPI, chatID int64) {
	once.Do(func() {
		botInstance = bot
		alertChatID = chatID
	})
}

// NotifyAdmin sends a critical alert to the admin chat. Delivery failures
// are logged and swallowed: alerting must never take the bot down.
func NotifyAdmin(msg string) {
	if botInstance == nil || alertChatID == 0 {
		return
	}
	if _, err := botInstance.Send(tgbotapi.NewMessage(alertChatID, "[ALERT] "+msg)); err != nil {
		log.Error("admin alert delivery failed", zap.Error(err))
	}
}

// NotifyOnPanic recovers a panic, logs it and alerts the admin. Use with
// defer at the top of handlers that must not crash the process.
func NotifyOnPanic(context string) {
	if r := recover(); r != nil {
		log.Error("panic recovered", zap.String("context", context), zap.Any("panic", r))
		NotifyAdmin(fmt.Sprintf("Panic in %s: %v", context, r))
	}
}
