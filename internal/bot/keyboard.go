package bot

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// GetReplyKeyboard возвращает постоянное меню; админам добавляется ряд
// служебных команд.
func GetReplyKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{
			tgbotapi.NewKeyboardButton("/vip"),
			tgbotapi.NewKeyboardButton("/packages"),
		},
		{
			tgbotapi.NewKeyboardButton("/myplan"),
			tgbotapi.NewKeyboardButton("/support"),
		},
	}
	if isAdmin {
		rows = append(rows, []tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton("/admin"),
			tgbotapi.NewKeyboardButton("/admin_stats"),
		})
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func nowUnix() int64 { return time.Now().Unix() }

func formatUnixDate(ts int64) string {
	return time.Unix(ts, 0).Format("02.01.2006")
}
