package services

import (
	"fmt"
	"time"

	"VIP-Telegram-bot/internal/db"
	"VIP-Telegram-bot/internal/security"
)

// DailyStatsReport шлёт админу сводку за сутки: пользователи, платежи,
// статистика защиты.
func DailyStatsReport(sender *Sender, chatID int64, guard *security.Guard, sessions *SessionTracker) {
	now := time.Now()
	st := guard.Stats()
	text := fmt.Sprintf(
		"📊 Daily report\n\n"+
			"👥 Users: %d (VIP: %d)\n"+
			"📦 Active subscriptions: %d\n"+
			"💰 Revenue today: %.2f\n\n"+
			"🛡️ Security events: %d\n"+
			"🚫 Blocked requests: %d\n"+
			"⚠️ Suspicious users: %d\n"+
			"💾 Live sessions: %d",
		db.CountUsers(), db.CountVIPUsers(),
		db.CountActiveSubscriptions(),
		db.SumPayments(now.Truncate(24*time.Hour), now),
		st.TotalEvents,
		st.BlockedRequests,
		len(st.SuspiciousUsers),
		sessions.Count(),
	)
	sender.Send(chatID, text)
}
