package admin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"VIP-Telegram-bot/config"
	"VIP-Telegram-bot/internal/db"
	"VIP-Telegram-bot/internal/logger"
	"VIP-Telegram-bot/internal/security"
	"VIP-Telegram-bot/internal/services"
)

// Handlers обрабатывает админские команды и callback-и. Зависимости
// передаются явно из main.
type Handlers struct {
	API      *tgbotapi.BotAPI
	Sender   *services.Sender
	Guard    *security.Guard
	Sessions *services.SessionTracker
}

// HandleCommand обрабатывает админскую команду. Возвращает false, если
// команда не админская или отправитель не админ.
func (h *Handlers) HandleCommand(update tgbotapi.Update) bool {
	if update.Message == nil || update.Message.From == nil || !IsAdmin(update.Message.From.ID) {
		return false
	}
	chatID := update.Message.Chat.ID
	cmd := update.Message.Command()
	args := update.Message.CommandArguments()

	switch cmd {
	case "admin":
		h.handleDashboard(chatID)
	case "admin_stats":
		h.handleStats(chatID)
	case "admin_security":
		h.handleSecurity(chatID)
	case "admin_payments":
		h.handlePayments(chatID)
	case "admin_broadcast":
		h.handleBroadcast(chatID, args)
	case "admin_maintenance":
		h.handleMaintenance(chatID, args)
	case "admin_setting":
		h.handleSetting(chatID, args)
	case "admin_backup":
		go AutoBackupDatabase(config.AppCfg.DatabaseURL)
		h.Sender.Send(chatID, "💾 Backup started.")
	default:
		return false
	}
	logger.LogAdminAction(update.Message.From.ID, cmd, update.Message.Text)
	return true
}

func (h *Handlers) handleDashboard(chatID int64) {
	h.Sender.Send(chatID, "🔐 Admin commands:\n\n"+
		"/admin_stats — users, subscriptions, revenue\n"+
		"/admin_security — anti-spam counters\n"+
		"/admin_payments — pending payments\n"+
		"/admin_broadcast <text> — message all users\n"+
		"/admin_maintenance on|off — maintenance mode\n"+
		"/admin_setting <key> <value> — bot setting\n"+
		"/admin_backup — database backup")
}

func (h *Handlers) handleStats(chatID int64) {
	now := time.Now()
	text := fmt.Sprintf(
		"📊 Stats\n\n"+
			"👥 Users: %d (VIP: %d)\n"+
			"📦 Active subscriptions: %d\n"+
			"💰 Revenue: today %.2f, 30 days %.2f\n"+
			"💾 Live sessions: %d",
		db.CountUsers(), db.CountVIPUsers(),
		db.CountActiveSubscriptions(),
		db.SumPayments(now.Truncate(24*time.Hour), now),
		db.SumPayments(now.AddDate(0, 0, -30), now),
		h.Sessions.Count())
	h.Sender.Send(chatID, text)
}

func (h *Handlers) handleSecurity(chatID int64) {
	st := h.Guard.Stats()
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛡️ Security\n\n")
	fmt.Fprintf(&sb, "Events logged: %d\n", st.TotalEvents)
	fmt.Fprintf(&sb, "Blocked requests: %d\n", st.BlockedRequests)
	fmt.Fprintf(&sb, "Store entries: %d\n", st.StoreEntries)
	fmt.Fprintf(&sb, "Last cleanup: %s\n", st.LastCleanup.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Suspicious users: %d\n", len(st.SuspiciousUsers))
	for _, u := range st.SuspiciousUsers {
		fmt.Fprintf(&sb, "  • %s\n", u)
	}
	h.Sender.Send(chatID, sb.String())
}

func (h *Handlers) handlePayments(chatID int64) {
	pays := db.PendingPayments(10)
	if len(pays) == 0 {
		h.Sender.Send(chatID, "✅ No pending payments.")
		return
	}
	for _, p := range pays {
		text := fmt.Sprintf("💳 Payment #%d\nUser: %d\nPlan: %d\nAmount: %d %s\nRef: %s",
			p.ID, p.UserID, p.PlanID, p.Amount, p.Currency, p.ReferenceID)
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Approve", fmt.Sprintf("payment_approve_%d", p.ID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ Reject", fmt.Sprintf("payment_reject_%d", p.ID)),
			),
		)
		h.Sender.SendWithMarkup(chatID, text, keyboard)
	}
}

func (h *Handlers) handleBroadcast(chatID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		h.Sender.Send(chatID, "Usage: /admin_broadcast <message>")
		return
	}
	sent, failed := services.BroadcastToAllUsers(h.Sender, text)
	h.Sender.Send(chatID, fmt.Sprintf("📣 Broadcast done: sent %d, failed %d.", sent, failed))
}

func (h *Handlers) handleMaintenance(chatID int64, arg string) {
	switch strings.TrimSpace(arg) {
	case "on":
		db.SetSetting("maintenance_mode", "true")
		h.Sender.Send(chatID, "🔧 Maintenance mode ON.")
	case "off":
		db.SetSetting("maintenance_mode", "false")
		h.Sender.Send(chatID, "✅ Maintenance mode OFF.")
	default:
		h.Sender.Send(chatID, "Usage: /admin_maintenance on|off")
	}
}

func (h *Handlers) handleSetting(chatID int64, args string) {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(parts) != 2 {
		h.Sender.Send(chatID, "Usage: /admin_setting <key> <value>")
		return
	}
	if err := db.SetSetting(parts[0], parts[1]); err != nil {
		h.Sender.Send(chatID, "❌ Failed to save setting: "+err.Error())
		return
	}
	h.Sender.Send(chatID, fmt.Sprintf("✅ %s = %s", parts[0], parts[1]))
}

// HandleCallback обрабатывает approve/reject по платежам. Возвращает
// false для неадминских callback-ов.
func (h *Handlers) HandleCallback(update tgbotapi.Update) bool {
	cq := update.CallbackQuery
	if cq == nil || !IsAdmin(cq.From.ID) {
		return false
	}
	data := cq.Data
	var approve bool
	var idStr string
	switch {
	case strings.HasPrefix(data, "payment_approve_"):
		approve = true
		idStr = strings.TrimPrefix(data, "payment_approve_")
	case strings.HasPrefix(data, "payment_reject_"):
		idStr = strings.TrimPrefix(data, "payment_reject_")
	default:
		return false
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		h.API.Request(tgbotapi.NewCallback(cq.ID, "Bad payment id"))
		return true
	}

	var pay db.Payment
	if err := db.DB.First(&pay, uint(id)).Error; err != nil {
		h.API.Request(tgbotapi.NewCallback(cq.ID, "Payment not found"))
		return true
	}

	if approve {
		if err := db.CompletePayment(pay.ID); err != nil {
			logger.NotifyAdmin("Payment approval failed: " + err.Error())
			h.API.Request(tgbotapi.NewCallback(cq.ID, "Approval failed"))
			return true
		}
		h.API.Request(tgbotapi.NewCallback(cq.ID, "Payment approved"))
		h.notifyPaymentDecision(pay, "🎉 Your payment is confirmed! VIP access is now active.")
	} else {
		if err := db.RejectPayment(pay.ID); err != nil {
			h.API.Request(tgbotapi.NewCallback(cq.ID, "Rejection failed"))
			return true
		}
		h.API.Request(tgbotapi.NewCallback(cq.ID, "Payment rejected"))
		h.notifyPaymentDecision(pay, "❌ Your payment was rejected. Contact support if this is a mistake.")
	}
	logger.LogAdminAction(cq.From.ID, "payment_decision", data)
	return true
}

func (h *Handlers) notifyPaymentDecision(pay db.Payment, text string) {
	var user db.BotUser
	if err := db.DB.First(&user, pay.UserID).Error; err != nil {
		return
	}
	if chatID, err := strconv.ParseInt(user.TelegramID, 10, 64); err == nil {
		h.Sender.Send(chatID, text)
	}
}
