package services

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"VIP-Telegram-bot/internal/logger"
)

// checkWebhookSecret сверяет заголовок X-Telegram-Bot-Api-Secret-Token
func checkWebhookSecret(secret, header string) bool {
	if secret == "" || header == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(header)) == 1
}

// TelegramWebhookHandler принимает апдейты от Telegram в webhook-режиме и
// передаёт их в тот же обработчик, что и polling.
func TelegramWebhookHandler(secret string, dispatch func(tgbotapi.Update)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer logger.NotifyOnPanic("TelegramWebhookHandler")
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !checkWebhookSecret(secret, r.Header.Get("X-Telegram-Bot-Api-Secret-Token")) {
			logger.NotifyAdmin("Telegram webhook called with an invalid secret token")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.Body.Close()
		var update tgbotapi.Update
		if err := json.Unmarshal(body, &update); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		dispatch(update)
		// Telegram повторяет доставку на любой не-2xx ответ
		w.WriteHeader(http.StatusOK)
	}
}
