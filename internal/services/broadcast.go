package services

import (
	"strconv"

	"go.uber.org/zap"

	"VIP-Telegram-bot/internal/db"
	"VIP-Telegram-bot/internal/logger"
)

// BroadcastToAllUsers отправляет текст всем пользователям бота через
// общий троттлинг Sender. Возвращает число доставленных и ошибок.
func BroadcastToAllUsers(sender *Sender, text string) (sent, failed int) {
	for _, tgID := range db.AllUserChatIDs() {
		chatID, err := strconv.ParseInt(tgID, 10, 64)
		if err != nil {
			failed++
			continue
		}
		if err := sender.Send(chatID, text); err != nil {
			// Пользователь мог заблокировать бота — продолжаем рассылку
			logger.Error("broadcast delivery failed", zap.String("telegram_id", tgID), zap.Error(err))
			failed++
			continue
		}
		sent++
	}
	logger.Info("broadcast finished", zap.Int("sent", sent), zap.Int("failed", failed))
	return sent, failed
}
