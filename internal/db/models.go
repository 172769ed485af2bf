package db

type BotUser struct {
	ID         uint   `gorm:"primaryKey"`
	TelegramID string `gorm:"uniqueIndex"`
	FirstName  string
	Username   string
	IsVIP      bool `gorm:"default:false"`
	CreatedAt  int64
	LastSeenAt int64
}

type SubscriptionPlan struct {
	ID             uint `gorm:"primaryKey"`
	Name           string
	Price          int
	Currency       string `gorm:"default:USD"`
	DurationMonths int
	IsLifetime     bool `gorm:"default:false"`
	IsActive       bool `gorm:"default:true"`
}

type UserSubscription struct {
	ID               uint `gorm:"primaryKey"`
	UserID           uint
	PlanID           uint
	PaymentID        *uint
	ActivatedAt      int64
	ExpiresAt        *int64 // nil для lifetime-подписок
	IsActive         bool   `gorm:"default:true"`
	NotifiedExpiring bool   `gorm:"default:false"`
}

type Payment struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	PlanID      uint
	ReferenceID string `gorm:"uniqueIndex"` // код перевода, показывается пользователю
	Amount      int
	Currency    string
	Status      string `gorm:"default:pending"` // pending | completed | rejected
	PromoCode   string
	CreatedAt   int64
	DecidedAt   *int64
}

type Promotion struct {
	ID              uint   `gorm:"primaryKey"`
	Code            string `gorm:"uniqueIndex"`
	DiscountPercent int
	ValidFrom       int64
	ValidUntil      int64
	MaxUses         int // 0 = без ограничения
	UsedCount       int
	IsActive        bool `gorm:"default:true"`
}

type EducationPackage struct {
	ID       uint `gorm:"primaryKey"`
	Name     string
	Price    int
	Currency string `gorm:"default:USD"`
	Summary  string
	IsActive bool `gorm:"default:true"`
}

type BotContent struct {
	ID           uint   `gorm:"primaryKey"`
	ContentKey   string `gorm:"uniqueIndex"`
	ContentValue string
}

type BotSetting struct {
	ID           uint   `gorm:"primaryKey"`
	SettingKey   string `gorm:"uniqueIndex"`
	SettingValue string
}

// ValidAt проверяет, действует ли промокод в момент now (unix seconds).
func (p Promotion) ValidAt(now int64) bool {
	if !p.IsActive {
		return false
	}
	if now < p.ValidFrom || now > p.ValidUntil {
		return false
	}
	if p.MaxUses > 0 && p.UsedCount >= p.MaxUses {
		return false
	}
	return true
}

// DiscountedPrice применяет скидку промокода к цене.
func (p Promotion) DiscountedPrice(price int) int {
	if p.DiscountPercent <= 0 {
		return price
	}
	return price * (100 - p.DiscountPercent) / 100
}

// ExpiresWithin сообщает, истекает ли подписка в ближайшие days дней.
func (s UserSubscription) ExpiresWithin(now int64, days int) bool {
	if !s.IsActive || s.ExpiresAt == nil {
		return false
	}
	return *s.ExpiresAt > now && *s.ExpiresAt <= now+int64(days)*24*60*60
}
