package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestCheckWebhookSecret(t *testing.T) {
	tests := []struct {
		desc   string
		secret string
		header string
		want   bool
	}{
		{"valid", "s3cret", "s3cret", true},
		{"wrong header", "s3cret", "nope", false},
		{"empty header", "s3cret", "", false},
		{"no secret configured", "", "anything", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		if got := checkWebhookSecret(tt.secret, tt.header); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestTelegramWebhookHandler(t *testing.T) {
	var dispatched *tgbotapi.Update
	h := TelegramWebhookHandler("s3cret", func(u tgbotapi.Update) {
		dispatched = &u
	})

	body := `{"update_id":7,"message":{"message_id":1,"text":"hi","chat":{"id":42},"from":{"id":42,"first_name":"T"}}}`

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "s3cret")
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if dispatched == nil || dispatched.UpdateID != 7 || dispatched.Message.Text != "hi" {
		t.Fatalf("update not dispatched correctly: %+v", dispatched)
	}

	// Wrong secret: rejected, not dispatched.
	dispatched = nil
	req = httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(body))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "wrong")
	rec = httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if dispatched != nil {
		t.Fatal("update dispatched despite invalid secret")
	}

	// GET is not a webhook delivery.
	req = httptest.NewRequest(http.MethodGet, "/telegram/webhook", nil)
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
