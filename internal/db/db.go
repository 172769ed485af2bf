package db

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db
	db.AutoMigrate(&BotUser{}, &SubscriptionPlan{}, &UserSubscription{}, &Payment{},
		&Promotion{}, &EducationPackage{}, &BotContent{}, &BotSetting{})
}

// UpsertUser создаёт/обновляет пользователя при любом апдейте
func UpsertUser(telegramID, firstName, username string) (BotUser, error) {
	now := time.Now().Unix()
	var user BotUser
	err := DB.Where("telegram_id = ?", telegramID).First(&user).Error
	if err != nil {
		user = BotUser{TelegramID: telegramID, FirstName: firstName, Username: username, CreatedAt: now, LastSeenAt: now}
		return user, DB.Create(&user).Error
	}
	return user, DB.Model(&user).Updates(map[string]interface{}{
		"first_name":   firstName,
		"username":     username,
		"last_seen_at": now,
	}).Error
}

func FindUserByTelegramID(telegramID string) (BotUser, error) {
	var user BotUser
	err := DB.Where("telegram_id = ?", telegramID).First(&user).Error
	return user, err
}

// --- Тарифы и пакеты ---

func GetActivePlans() []SubscriptionPlan {
	var plans []SubscriptionPlan
	DB.Where("is_active = true").Order("price").Find(&plans)
	return plans
}

func GetPlan(id uint) (SubscriptionPlan, error) {
	var plan SubscriptionPlan
	err := DB.First(&plan, id).Error
	return plan, err
}

func GetActivePackages() []EducationPackage {
	var pkgs []EducationPackage
	DB.Where("is_active = true").Order("price").Find(&pkgs)
	return pkgs
}

// --- Платежи ---

func CreatePayment(pay *Payment) error {
	pay.CreatedAt = time.Now().Unix()
	return DB.Create(pay).Error
}

func FindPaymentByReference(referenceID string) (Payment, error) {
	var pay Payment
	err := DB.Where("reference_id = ?", referenceID).First(&pay).Error
	return pay, err
}

func PendingPayments(limit int) []Payment {
	var pays []Payment
	DB.Where("status = ?", "pending").Order("created_at").Limit(limit).Find(&pays)
	return pays
}

// CompletePayment подтверждает платёж и активирует подписку в одной транзакции.
func CompletePayment(paymentID uint) error {
	now := time.Now().Unix()
	return DB.Transaction(func(tx *gorm.DB) error {
		var pay Payment
		if err := tx.First(&pay, paymentID).Error; err != nil {
			return err
		}
		if err := tx.Model(&pay).Updates(map[string]interface{}{"status": "completed", "decided_at": now}).Error; err != nil {
			return err
		}
		var plan SubscriptionPlan
		if err := tx.First(&plan, pay.PlanID).Error; err != nil {
			return err
		}
		sub := UserSubscription{
			UserID:      pay.UserID,
			PlanID:      plan.ID,
			PaymentID:   &pay.ID,
			ActivatedAt: now,
			IsActive:    true,
		}
		if !plan.IsLifetime {
			expires := time.Unix(now, 0).AddDate(0, plan.DurationMonths, 0).Unix()
			sub.ExpiresAt = &expires
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		return tx.Model(&BotUser{}).Where("id = ?", pay.UserID).Update("is_vip", true).Error
	})
}

func RejectPayment(paymentID uint) error {
	now := time.Now().Unix()
	return DB.Model(&Payment{}).Where("id = ?", paymentID).
		Updates(map[string]interface{}{"status": "rejected", "decided_at": now}).Error
}

func GetPayments(from, to time.Time) []Payment {
	var pays []Payment
	DB.Where("created_at >= ? AND created_at <= ?", from.Unix(), to.Unix()).Find(&pays)
	return pays
}

func SumPayments(from, to time.Time) float64 {
	var sum int64
	DB.Model(&Payment{}).Where("status = ? AND created_at >= ? AND created_at <= ?", "completed", from.Unix(), to.Unix()).
		Select("coalesce(sum(amount), 0)").Scan(&sum)
	return float64(sum)
}

// --- Промокоды ---

func FindPromo(code string) (Promotion, error) {
	var promo Promotion
	err := DB.Where("code = ?", code).First(&promo).Error
	return promo, err
}

func IncrementPromoUse(promoID uint) error {
	return DB.Model(&Promotion{}).Where("id = ?", promoID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error
}

// --- Подписки ---

func CountUsers() int {
	var count int64
	DB.Model(&BotUser{}).Count(&count)
	return int(count)
}

func CountVIPUsers() int {
	var count int64
	DB.Model(&BotUser{}).Where("is_vip = true").Count(&count)
	return int(count)
}

func CountActiveSubscriptions() int {
	var count int64
	DB.Model(&UserSubscription{}).Where("is_active = true").Count(&count)
	return int(count)
}

func ActiveSubscriptionsForUser(userID uint) []UserSubscription {
	var subs []UserSubscription
	DB.Where("user_id = ? AND is_active = true", userID).Find(&subs)
	return subs
}

// ExpiringSubscriptions возвращает активные подписки, истекающие в ближайшие
// daysBefore дней, о которых пользователь ещё не уведомлён.
func ExpiringSubscriptions(daysBefore int) []UserSubscription {
	now := time.Now().Unix()
	soon := now + int64(daysBefore)*24*60*60
	var subs []UserSubscription
	DB.Where("is_active = true AND notified_expiring = false AND expires_at IS NOT NULL AND expires_at > ? AND expires_at <= ?", now, soon).Find(&subs)
	return subs
}

func MarkSubscriptionNotified(subID uint) error {
	return DB.Model(&UserSubscription{}).Where("id = ?", subID).Update("notified_expiring", true).Error
}

// DeactivateExpiredSubscriptions снимает VIP с истёкших подписок.
func DeactivateExpiredSubscriptions() (int64, error) {
	now := time.Now().Unix()
	res := DB.Model(&UserSubscription{}).
		Where("is_active = true AND expires_at IS NOT NULL AND expires_at < ?", now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func AllUserChatIDs() []string {
	var ids []string
	DB.Model(&BotUser{}).Pluck("telegram_id", &ids)
	return ids
}

// --- Контент и настройки ---

func GetContent(key, fallback string) string {
	var c BotContent
	if err := DB.Where("content_key = ?", key).First(&c).Error; err != nil {
		return fallback
	}
	return c.ContentValue
}

func GetSetting(key string) string {
	var s BotSetting
	if err := DB.Where("setting_key = ?", key).First(&s).Error; err != nil {
		return ""
	}
	return s.SettingValue
}

func SetSetting(key, value string) error {
	var s BotSetting
	err := DB.Where("setting_key = ?", key).First(&s).Error
	if err != nil {
		return DB.Create(&BotSetting{SettingKey: key, SettingValue: value}).Error
	}
	return DB.Model(&s).Update("setting_value", value).Error
}
