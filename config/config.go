package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"VIP-Telegram-bot/internal/security"
)

type AppConfig struct {
	BotToken              string
	AdminTelegramIDs      []int64
	DatabaseURL           string
	DashboardAddr         string
	DashboardUser         string
	DashboardPasswordHash string // bcrypt hash; empty disables the authed API
	WebhookSecret         string // X-Telegram-Bot-Api-Secret-Token; empty keeps polling mode
	Security              security.Config
}

var AppCfg AppConfig

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, relying on environment variables")
	}

	AppCfg.BotToken = os.Getenv("BOT_TOKEN")
	AppCfg.DatabaseURL = os.Getenv("DATABASE_URL")
	AppCfg.DashboardAddr = getEnv("DASHBOARD_ADDR", ":8080")
	AppCfg.DashboardUser = getEnv("DASHBOARD_USER", "admin")
	AppCfg.DashboardPasswordHash = os.Getenv("DASHBOARD_PASSWORD_HASH")
	AppCfg.WebhookSecret = os.Getenv("TELEGRAM_WEBHOOK_SECRET")
	AppCfg.AdminTelegramIDs = parseAdminIDs(os.Getenv("ADMIN_TELEGRAM_IDS"))
	AppCfg.Security = loadSecurityConfig()

	if AppCfg.BotToken == "" || len(AppCfg.AdminTelegramIDs) == 0 || AppCfg.DatabaseURL == "" {
		log.Fatal("Critical environment variables are missing. Bot will exit.")
	}
}

// PrimaryAdminID is the chat that receives alerts and reports.
func PrimaryAdminID() int64 {
	if len(AppCfg.AdminTelegramIDs) == 0 {
		return 0
	}
	return AppCfg.AdminTelegramIDs[0]
}

func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Fatalf("Invalid admin Telegram ID %q: %v", part, err)
		}
		ids = append(ids, id)
	}
	return ids
}

// loadSecurityConfig applies env overrides on top of the defaults. The
// thresholds are tunable configuration, not hard-coded business law.
func loadSecurityConfig() security.Config {
	cfg := security.DefaultConfig()
	cfg.MaxRequestsPerMinute = getEnvInt("SECURITY_MAX_PER_MINUTE", cfg.MaxRequestsPerMinute)
	cfg.MaxRequestsPerHour = getEnvInt("SECURITY_MAX_PER_HOUR", cfg.MaxRequestsPerHour)
	cfg.MaxIdenticalMessages = getEnvInt("SECURITY_MAX_IDENTICAL", cfg.MaxIdenticalMessages)
	cfg.MaxCommandsPerMinute = getEnvInt("SECURITY_MAX_COMMANDS", cfg.MaxCommandsPerMinute)
	cfg.SuspiciousThreshold = getEnvInt("SECURITY_SUSPICIOUS_THRESHOLD", cfg.SuspiciousThreshold)
	cfg.AdminRateMultiplier = getEnvInt("SECURITY_ADMIN_MULTIPLIER", cfg.AdminRateMultiplier)
	cfg.MaxMessageLength = getEnvInt("SECURITY_MAX_MESSAGE_LENGTH", cfg.MaxMessageLength)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return n
}
