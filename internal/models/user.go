package models

import "time"

// User - клиент салона/магазина. Создается при первом контакте с ботом.
type User struct {
	UserID        int64     `db:"user_id" json:"user_id"`
	Username      string    `db:"username" json:"username"`
	FirstName     string    `db:"first_name" json:"first_name"`
	Phone         string    `db:"phone" json:"phone"`
	Birthday      string    `db:"birthday" json:"birthday,omitempty"`
	BonusPoints   int       `db:"bonus_points" json:"bonus_points"`
	ReferralCode  string    `db:"referral_code" json:"referral_code"`
	ReferredBy    int64     `db:"referred_by" json:"referred_by,omitempty"`
	ProfileFilled bool      `db:"profile_filled" json:"profile_filled"`
	UTMSource     string    `db:"utm_source" json:"utm_source,omitempty"`
	UTMMedium     string    `db:"utm_medium" json:"utm_medium,omitempty"`
	UTMCampaign   string    `db:"utm_campaign" json:"utm_campaign,omitempty"`
	UTMContent    string    `db:"utm_content" json:"utm_content,omitempty"`
	UTMTerm       string    `db:"utm_term" json:"utm_term,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ProfileUpdate - частичное обновление профиля: применяются только
// заполненные поля, одной валидируемой операцией.
type ProfileUpdate struct {
	FirstName *string
	Phone     *string
	Birthday  *string
}

// Empty сообщает, что обновлять нечего.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.Phone == nil && p.Birthday == nil
}

// LoyaltyTransaction - неизменяемая запись движения бонусных баллов.
// Баланс пользователя всегда равен сумме его транзакций.
type LoyaltyTransaction struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Points      int       `db:"points" json:"points"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ConsentRecord - запись согласия на обработку персональных данных.
// Журнал только пополняется: запись добавляется при каждом вводе телефона.
type ConsentRecord struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	UserName    string    `db:"user_name" json:"user_name"`
	Phone       string    `db:"phone" json:"phone"`
	ConsentType string    `db:"consent_type" json:"consent_type"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Типы согласий, как они пишутся в журнал.
const (
	ConsentManualPhoneInput = "manual_phone_input"
	ConsentContactShare     = "contact_share_button"
)

// Address - сохраненный адрес доставки пользователя.
type Address struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	Address   string `db:"address" json:"address"`
	IsDefault bool   `db:"is_default" json:"is_default"`
}
