package models

import "time"

// Типы вознаграждения реферальной программы.
const (
	ReferralRewardTypeFixed   = "fixed"
	ReferralRewardTypePercent = "percent"
)

// ReferralSettings - настройки реферальной программы. Хранятся одной
// строкой и правятся из админки.
type ReferralSettings struct {
	Enabled               bool   `db:"enabled" json:"enabled"`
	RewardType            string `db:"reward_type" json:"reward_type"`
	RewardAmount          int    `db:"reward_amount" json:"reward_amount"`
	RewardPercent         int    `db:"reward_percent" json:"reward_percent"`
	MinOrderAmount        int    `db:"min_order_amount" json:"min_order_amount"`
	MaxRewardAmount       int    `db:"max_reward_amount" json:"max_reward_amount"`
	RewardOnFirstOrderOnly bool  `db:"reward_on_first_order_only" json:"reward_on_first_order_only"`
	AutoApprove           bool   `db:"auto_approve" json:"auto_approve"`
}

// RewardStatus - статус реферального вознаграждения.
type RewardStatus string

const (
	RewardStatusPending  RewardStatus = "pending"
	RewardStatusApproved RewardStatus = "approved"
	RewardStatusRejected RewardStatus = "rejected"
)

// ReferralReward - вознаграждение пригласившему за заказ приглашенного.
// PaidAt заполняется только при фактическом начислении баллов.
type ReferralReward struct {
	ID                 int64        `db:"id" json:"id"`
	ReferrerUserID     int64        `db:"referrer_user_id" json:"referrer_user_id"`
	ReferredUserID     int64        `db:"referred_user_id" json:"referred_user_id"`
	RewardType         string       `db:"reward_type" json:"reward_type"`
	RewardAmount       int          `db:"reward_amount" json:"reward_amount"`
	TriggerOrderID     int64        `db:"trigger_order_id" json:"trigger_order_id"`
	TriggerOrderAmount int          `db:"trigger_order_amount" json:"trigger_order_amount"`
	Status             RewardStatus `db:"status" json:"status"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	PaidAt             *time.Time   `db:"paid_at" json:"paid_at,omitempty"`
}

// UTMCampaign - рекламная кампания с накопительными счетчиками.
type UTMCampaign struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	UTMSource     string    `db:"utm_source" json:"utm_source"`
	UTMMedium     string    `db:"utm_medium" json:"utm_medium"`
	UTMCampaign   string    `db:"utm_campaign" json:"utm_campaign"`
	UTMContent    string    `db:"utm_content" json:"utm_content"`
	UTMTerm       string    `db:"utm_term" json:"utm_term"`
	GeneratedLink string    `db:"generated_link" json:"generated_link"`
	Clicks        int       `db:"clicks" json:"clicks"`
	Registrations int       `db:"registrations" json:"registrations"`
	Conversions   int       `db:"conversions" json:"conversions"`
	Revenue       int       `db:"revenue" json:"revenue"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// UTMParams - метки атрибуции, разобранные из start-параметра.
type UTMParams struct {
	Source   string `json:"utm_source"`
	Medium   string `json:"utm_medium"`
	Campaign string `json:"utm_campaign"`
	Content  string `json:"utm_content"`
	Term     string `json:"utm_term"`
}

// Empty сообщает, что меток нет.
func (u UTMParams) Empty() bool {
	return u.Source == ""
}
