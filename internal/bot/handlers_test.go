package bot

import "testing"

func TestCommandOf(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"/start", "/start"},
		{"/start@vip_bot", "/start"},
		{"/promo SUMMER25", "/promo"},
		{"/promo@vip_bot SUMMER25", "/promo"},
		{"hello", ""},
		{"", ""},
		{"not /a command", ""},
	}
	for _, c := range cases {
		if got := commandOf(c.text); got != c.want {
			t.Errorf("commandOf(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestReplyKeyboardAdminRow(t *testing.T) {
	user := GetReplyKeyboard(false)
	admin := GetReplyKeyboard(true)
	if len(admin.Keyboard) != len(user.Keyboard)+1 {
		t.Fatalf("admin keyboard has %d rows, user has %d; want exactly one extra row",
			len(admin.Keyboard), len(user.Keyboard))
	}
	if !admin.ResizeKeyboard {
		t.Error("keyboard should request resize")
	}
}
