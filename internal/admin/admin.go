package admin

import "VIP-Telegram-bot/config"

// IsAdmin проверяет Telegram ID по списку админов из конфигурации.
func IsAdmin(userID int64) bool {
	for _, id := range config.AppCfg.AdminTelegramIDs {
		if id == userID {
			return true
		}
	}
	return false
}
