package services

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"VIP-Telegram-bot/internal/db"
	"VIP-Telegram-bot/internal/logger"
)

// NotifyExpiringSubscriptions предупреждает пользователей о подписках,
// истекающих в ближайшие daysBefore дней. Запускается кроном раз в сутки.
func NotifyExpiringSubscriptions(sender *Sender, daysBefore int) {
	for _, sub := range db.ExpiringSubscriptions(daysBefore) {
		var user db.BotUser
		if err := db.DB.First(&user, sub.UserID).Error; err != nil {
			logger.Error("expiring notice: user lookup failed", zap.Uint("sub_id", sub.ID), zap.Error(err))
			continue
		}
		chatID, err := strconv.ParseInt(user.TelegramID, 10, 64)
		if err != nil {
			continue
		}
		text := fmt.Sprintf("⏳ Your VIP subscription expires in %d days. Renew with /vip to keep your access.", daysBefore)
		if err := sender.Send(chatID, text); err != nil {
			logger.Error("expiring notice delivery failed", zap.String("telegram_id", user.TelegramID), zap.Error(err))
			continue
		}
		db.MarkSubscriptionNotified(sub.ID)
	}
}

// DeactivateExpiredSubscriptions отключает истёкшие подписки и сообщает админу.
func DeactivateExpiredSubscriptions() {
	n, err := db.DeactivateExpiredSubscriptions()
	if err != nil {
		logger.NotifyAdmin("Failed to deactivate expired subscriptions: " + err.Error())
		return
	}
	if n > 0 {
		logger.Info("expired subscriptions deactivated", zap.Int64("count", n))
	}
}
