package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"VIP-Telegram-bot/config"
	"VIP-Telegram-bot/internal/admin"
	"VIP-Telegram-bot/internal/bot"
	"VIP-Telegram-bot/internal/db"
	"VIP-Telegram-bot/internal/logger"
	"VIP-Telegram-bot/internal/security"
	"VIP-Telegram-bot/internal/services"
)

func main() {
	config.LoadConfig()
	db.InitDB()

	botAPI, err := tgbotapi.NewBotAPI(config.AppCfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	logger.InitNotifier(botAPI, config.PrimaryAdminID())

	guard := security.NewGuard(config.AppCfg.Security, logger.Zap())
	sender := services.NewSender(botAPI)
	sessions := services.NewSessionTracker()

	admins := &admin.Handlers{
		API:      botAPI,
		Sender:   sender,
		Guard:    guard,
		Sessions: sessions,
	}
	b := bot.New(botAPI, sender, guard, sessions, admins)

	startCron(sender, guard, sessions)
	go startHTTP(guard, sessions, b)

	logger.Info("bot started", zap.String("mode", runMode()))
	if config.AppCfg.WebhookSecret != "" {
		// Апдейты приходят через /telegram/webhook; процесс просто живёт.
		select {}
	}
	b.StartPolling()
}

func runMode() string {
	if config.AppCfg.WebhookSecret != "" {
		return "webhook"
	}
	return "polling"
}

// startCron регистрирует фоновые задачи: уведомления об истечении,
// деактивацию подписок, ежедневный отчёт, бэкап и чистку сессий.
func startCron(sender *services.Sender, guard *security.Guard, sessions *services.SessionTracker) {
	c := cron.New()

	c.AddFunc("@every 10m", func() {
		if removed := sessions.Sweep(30 * time.Minute); removed > 0 {
			logger.Info("idle sessions swept", zap.Int("removed", removed))
		}
	})
	c.AddFunc("0 10 * * *", func() {
		services.NotifyExpiringSubscriptions(sender, 3)
	})
	c.AddFunc("30 3 * * *", func() {
		services.DeactivateExpiredSubscriptions()
	})
	c.AddFunc("0 9 * * *", func() {
		services.DailyStatsReport(sender, config.PrimaryAdminID(), guard, sessions)
	})
	c.AddFunc("0 3 * * *", func() {
		admin.AutoBackupDatabase(config.AppCfg.DatabaseURL)
	})

	c.Start()
}

// startHTTP поднимает веб-сервер: админский дашборд, /metrics и,
// если задан секрет, webhook-эндпоинт Telegram.
func startHTTP(guard *security.Guard, sessions *services.SessionTracker, b *bot.Bot) {
	dash := &admin.Dashboard{
		Guard:        guard,
		Sessions:     sessions,
		User:         config.AppCfg.DashboardUser,
		PasswordHash: config.AppCfg.DashboardPasswordHash,
	}

	r := chi.NewRouter()
	r.Mount("/", dash.Routes())
	if config.AppCfg.WebhookSecret != "" {
		r.Post("/telegram/webhook",
			services.TelegramWebhookHandler(config.AppCfg.WebhookSecret, b.ProcessUpdate))
	}

	logger.Info("http server listening", zap.String("addr", config.AppCfg.DashboardAddr))
	if err := http.ListenAndServe(config.AppCfg.DashboardAddr, r); err != nil {
		logger.Error("http server stopped", zap.Error(err))
		logger.NotifyAdmin("HTTP server stopped: " + err.Error())
	}
}
