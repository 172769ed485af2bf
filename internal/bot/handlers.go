package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"VIP-Telegram-bot/internal/admin"
	"VIP-Telegram-bot/internal/db"
	"VIP-Telegram-bot/internal/logger"
	"VIP-Telegram-bot/internal/security"
)

// ProcessUpdate прогоняет апдейт через защиту и передаёт его в
// бизнес-обработчики. Единая точка входа для polling и webhook.
func (b *Bot) ProcessUpdate(update tgbotapi.Update) {
	defer logger.NotifyOnPanic("ProcessUpdate")

	var from *tgbotapi.User
	var chatID int64
	switch {
	case update.Message != nil && update.Message.From != nil:
		from = update.Message.From
		chatID = update.Message.Chat.ID
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
	}
	if from == nil {
		return
	}

	userID := strconv.FormatInt(from.ID, 10)
	isUserAdmin := admin.IsAdmin(from.ID)

	messageText := ""
	if update.Message != nil {
		messageText = update.Message.Text
	} else if update.CallbackQuery != nil {
		messageText = update.CallbackQuery.Data
	}

	// Защита идёт строго до любой бизнес-логики.
	res := b.guard.Check(security.Request{
		UserID:      userID,
		IsAdmin:     isUserAdmin,
		MessageText: messageText,
		Command:     commandOf(messageText),
	})
	if !res.Allowed {
		if chatID != 0 {
			b.sender.Send(chatID, res.Message)
		}
		return
	}

	if _, err := db.UpsertUser(userID, from.FirstName, from.UserName); err != nil {
		logger.Error("user upsert failed", zap.String("telegram_id", userID), zap.Error(err))
	}
	b.sessions.Touch(userID)

	if db.GetSetting("maintenance_mode") == "true" && !isUserAdmin {
		b.sender.Send(chatID, "🔧 The bot is under maintenance. We'll be back soon!")
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallback(update, chatID)
		return
	}
	if update.Message == nil {
		return
	}

	if update.Message.IsCommand() {
		if b.admins.HandleCommand(update) {
			return
		}
		b.handleCommand(update, chatID, isUserAdmin)
		return
	}

	// Обычный текст вне сценариев — показываем меню.
	if strings.TrimSpace(update.Message.Text) != "" {
		b.sendMenuHint(chatID, isUserAdmin)
	}
}

// commandOf выделяет ведущую команду ("/start@bot arg" -> "/start").
func commandOf(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.SplitN(text, " ", 2)[0]
	return strings.SplitN(cmd, "@", 2)[0]
}

func (b *Bot) handleCommand(update tgbotapi.Update, chatID int64, isUserAdmin bool) {
	switch update.Message.Command() {
	case "start":
		b.handleStart(update, chatID, isUserAdmin)
	case "help":
		b.sender.Send(chatID, db.GetContent("help_message",
			"Commands:\n/vip — VIP plans\n/packages — education packages\n/promo <code> — apply a promo code\n/myplan — your subscriptions\n/support — contact support"))
	case "vip":
		b.handleVIP(chatID)
	case "packages":
		b.handlePackages(chatID)
	case "promo":
		b.handlePromo(update, chatID)
	case "myplan":
		b.handleMyPlan(update, chatID)
	case "support":
		b.sender.Send(chatID, db.GetContent("support_message",
			"🛟 Support: @vip_support — we usually reply within a few hours."))
	default:
		b.sender.Send(chatID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleStart(update tgbotapi.Update, chatID int64, isUserAdmin bool) {
	welcome := db.GetContent("welcome_message",
		"👋 Welcome, %s!\n\nThis bot manages VIP channel access.\nUse /vip to see the plans or /help for all commands.")
	if strings.Contains(welcome, "%s") {
		welcome = fmt.Sprintf(welcome, update.Message.From.FirstName)
	}
	b.sender.SendWithMarkup(chatID, welcome, GetReplyKeyboard(isUserAdmin))
}

func (b *Bot) handleVIP(chatID int64) {
	plans := db.GetActivePlans()
	if len(plans) == 0 {
		b.sender.Send(chatID, "No VIP plans are available right now. Check back later.")
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	var sb strings.Builder
	sb.WriteString("💎 VIP plans:\n\n")
	for _, p := range plans {
		term := fmt.Sprintf("%d mo", p.DurationMonths)
		if p.IsLifetime {
			term = "lifetime"
		}
		fmt.Fprintf(&sb, "• %s — %d %s (%s)\n", p.Name, p.Price, p.Currency, term)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s — %d %s", p.Name, p.Price, p.Currency),
				fmt.Sprintf("buy_plan_%d", p.ID)),
		))
	}
	b.sender.SendWithMarkup(chatID, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) handlePackages(chatID int64) {
	pkgs := db.GetActivePackages()
	if len(pkgs) == 0 {
		b.sender.Send(chatID, "No education packages are available right now.")
		return
	}
	var sb strings.Builder
	sb.WriteString("📚 Education packages:\n\n")
	for _, p := range pkgs {
		fmt.Fprintf(&sb, "• %s — %d %s\n  %s\n", p.Name, p.Price, p.Currency, p.Summary)
	}
	b.sender.Send(chatID, sb.String())
}

func (b *Bot) handlePromo(update tgbotapi.Update, chatID int64) {
	code := strings.TrimSpace(update.Message.CommandArguments())
	if code == "" {
		b.sender.Send(chatID, "Usage: /promo <code>")
		return
	}
	user, err := db.FindUserByTelegramID(strconv.FormatInt(update.Message.From.ID, 10))
	if err != nil {
		b.sender.Send(chatID, "Please /start first.")
		return
	}
	promo, err := db.FindPromo(code)
	if err != nil || !promo.ValidAt(nowUnix()) {
		b.sender.Send(chatID, "❌ This promo code is invalid or expired.")
		return
	}

	var pay db.Payment
	err = db.DB.Where("user_id = ? AND status = ?", user.ID, "pending").
		Order("created_at desc").First(&pay).Error
	if err != nil {
		b.sender.Send(chatID, "Pick a plan with /vip first, then apply the promo code.")
		return
	}
	if pay.PromoCode != "" {
		b.sender.Send(chatID, "A promo code is already applied to your pending payment.")
		return
	}

	discounted := promo.DiscountedPrice(pay.Amount)
	err = db.DB.Model(&pay).Updates(map[string]interface{}{
		"amount":     discounted,
		"promo_code": promo.Code,
	}).Error
	if err != nil {
		b.sender.Send(chatID, "❌ Could not apply the promo code, try again.")
		return
	}
	db.IncrementPromoUse(promo.ID)
	b.sender.Send(chatID, fmt.Sprintf("✅ Promo %s applied: %d%% off. New amount: %d %s.",
		promo.Code, promo.DiscountPercent, discounted, pay.Currency))
}

func (b *Bot) handleMyPlan(update tgbotapi.Update, chatID int64) {
	user, err := db.FindUserByTelegramID(strconv.FormatInt(update.Message.From.ID, 10))
	if err != nil {
		b.sender.Send(chatID, "Please /start first.")
		return
	}
	subs := db.ActiveSubscriptionsForUser(user.ID)
	if len(subs) == 0 {
		b.sender.Send(chatID, "You have no active subscription. See /vip.")
		return
	}
	var sb strings.Builder
	sb.WriteString("📦 Your subscriptions:\n\n")
	for _, s := range subs {
		plan, _ := db.GetPlan(s.PlanID)
		if s.ExpiresAt == nil {
			fmt.Fprintf(&sb, "• %s — lifetime\n", plan.Name)
		} else {
			fmt.Fprintf(&sb, "• %s — until %s\n", plan.Name, formatUnixDate(*s.ExpiresAt))
		}
	}
	b.sender.Send(chatID, sb.String())
}

func (b *Bot) handleCallback(update tgbotapi.Update, chatID int64) {
	if b.admins.HandleCallback(update) {
		return
	}
	cq := update.CallbackQuery
	data := cq.Data

	if strings.HasPrefix(data, "buy_plan_") {
		planID, err := strconv.ParseUint(strings.TrimPrefix(data, "buy_plan_"), 10, 32)
		if err != nil {
			b.api.Request(tgbotapi.NewCallback(cq.ID, "Bad plan"))
			return
		}
		b.startPurchase(cq, chatID, uint(planID))
		return
	}
	b.api.Request(tgbotapi.NewCallback(cq.ID, ""))
}

// startPurchase создаёт pending-платёж и отправляет реквизиты перевода.
// Подтверждение делает админ после проверки чека.
func (b *Bot) startPurchase(cq *tgbotapi.CallbackQuery, chatID int64, planID uint) {
	plan, err := db.GetPlan(planID)
	if err != nil || !plan.IsActive {
		b.api.Request(tgbotapi.NewCallback(cq.ID, "Plan not found"))
		return
	}
	user, err := db.FindUserByTelegramID(strconv.FormatInt(cq.From.ID, 10))
	if err != nil {
		b.api.Request(tgbotapi.NewCallback(cq.ID, "Please /start first"))
		return
	}

	pay := db.Payment{
		UserID:      user.ID,
		PlanID:      plan.ID,
		ReferenceID: uuid.NewString(),
		Amount:      plan.Price,
		Currency:    plan.Currency,
		Status:      "pending",
	}
	if err := db.CreatePayment(&pay); err != nil {
		logger.Error("payment creation failed", zap.Uint("plan_id", plan.ID), zap.Error(err))
		b.api.Request(tgbotapi.NewCallback(cq.ID, "Payment failed, try again"))
		return
	}

	instructions := db.GetContent("payment_instructions",
		"💳 To activate %s:\n\n1. Transfer %d %s to the account pinned in the channel.\n2. Put this reference in the transfer note: %s\n3. Send the receipt to support.\n\nAn admin will confirm your payment shortly. Have a promo code? Apply it now with /promo <code>.")
	b.sender.Send(chatID, fmt.Sprintf(instructions, plan.Name, pay.Amount, pay.Currency, pay.ReferenceID))
	b.api.Request(tgbotapi.NewCallback(cq.ID, "Payment created"))

	logger.NotifyAdmin(fmt.Sprintf("New pending payment #%d: user %s, plan %s, %d %s",
		pay.ID, user.TelegramID, plan.Name, pay.Amount, pay.Currency))
}

func (b *Bot) sendMenuHint(chatID int64, isUserAdmin bool) {
	b.sender.SendWithMarkup(chatID,
		"Use the menu below or /help for the command list.",
		GetReplyKeyboard(isUserAdmin))
}
