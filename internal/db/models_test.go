package db

import (
	"testing"
	"time"
)

func TestPromotionValidAt(t *testing.T) {
	now := time.Now().Unix()
	base := Promotion{
		Code:            "VIP50",
		DiscountPercent: 50,
		ValidFrom:       now - 3600,
		ValidUntil:      now + 3600,
		MaxUses:         10,
		UsedCount:       3,
		IsActive:        true,
	}

	tests := []struct {
		desc   string
		mutate func(*Promotion)
		want   bool
	}{
		{"valid", func(p *Promotion) {}, true},
		{"inactive", func(p *Promotion) { p.IsActive = false }, false},
		{"not started", func(p *Promotion) { p.ValidFrom = now + 100 }, false},
		{"expired", func(p *Promotion) { p.ValidUntil = now - 100 }, false},
		{"used up", func(p *Promotion) { p.UsedCount = 10 }, false},
		{"unlimited uses", func(p *Promotion) { p.MaxUses = 0; p.UsedCount = 9999 }, true},
	}

	for _, tt := range tests {
		p := base
		tt.mutate(&p)
		if got := p.ValidAt(now); got != tt.want {
			t.Errorf("%s: ValidAt = %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestPromotionDiscountedPrice(t *testing.T) {
	p := Promotion{DiscountPercent: 25}
	if got := p.DiscountedPrice(200); got != 150 {
		t.Errorf("DiscountedPrice(200) = %d, want 150", got)
	}
	p.DiscountPercent = 0
	if got := p.DiscountedPrice(200); got != 200 {
		t.Errorf("zero discount changed the price: %d", got)
	}
}

func TestSubscriptionExpiresWithin(t *testing.T) {
	now := time.Now().Unix()
	in2d := now + 2*24*60*60
	in10d := now + 10*24*60*60
	past := now - 60

	tests := []struct {
		desc string
		sub  UserSubscription
		want bool
	}{
		{"expires in 2 days", UserSubscription{IsActive: true, ExpiresAt: &in2d}, true},
		{"expires in 10 days", UserSubscription{IsActive: true, ExpiresAt: &in10d}, false},
		{"already expired", UserSubscription{IsActive: true, ExpiresAt: &past}, false},
		{"lifetime", UserSubscription{IsActive: true, ExpiresAt: nil}, false},
		{"inactive", UserSubscription{IsActive: false, ExpiresAt: &in2d}, false},
	}
	for _, tt := range tests {
		if got := tt.sub.ExpiresWithin(now, 3); got != tt.want {
			t.Errorf("%s: ExpiresWithin = %v, want %v", tt.desc, got, tt.want)
		}
	}
}
