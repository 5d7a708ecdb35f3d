package database

import (
	"testing"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/stretchr/testify/assert"
)

// В режиме "только первый заказ" дорогу новому вознаграждению закрывает
// лишь активное: после отклоненного следующий заказ награждает заново.
func TestRewardBlocksNew(t *testing.T) {
	assert.True(t, rewardBlocksNew(models.RewardStatusPending))
	assert.True(t, rewardBlocksNew(models.RewardStatusApproved))
	assert.False(t, rewardBlocksNew(models.RewardStatusRejected))
}

func TestRewardAmount(t *testing.T) {
	base := models.ReferralSettings{
		Enabled:        true,
		RewardType:     models.ReferralRewardTypeFixed,
		RewardAmount:   250,
		MinOrderAmount: 1000,
	}

	tests := []struct {
		name        string
		settings    func(models.ReferralSettings) models.ReferralSettings
		orderAmount int
		want        int
	}{
		{
			name:        "фиксированная награда",
			settings:    func(s models.ReferralSettings) models.ReferralSettings { return s },
			orderAmount: 3500,
			want:        250,
		},
		{
			name: "программа выключена",
			settings: func(s models.ReferralSettings) models.ReferralSettings {
				s.Enabled = false
				return s
			},
			orderAmount: 3500,
			want:        0,
		},
		{
			name:        "заказ ниже минимума",
			settings:    func(s models.ReferralSettings) models.ReferralSettings { return s },
			orderAmount: 999,
			want:        0,
		},
		{
			name:        "заказ ровно на минимум",
			settings:    func(s models.ReferralSettings) models.ReferralSettings { return s },
			orderAmount: 1000,
			want:        250,
		},
		{
			name: "процент от заказа",
			settings: func(s models.ReferralSettings) models.ReferralSettings {
				s.RewardType = models.ReferralRewardTypePercent
				s.RewardPercent = 10
				return s
			},
			orderAmount: 3500,
			want:        350,
		},
		{
			name: "процент усекается вниз",
			settings: func(s models.ReferralSettings) models.ReferralSettings {
				s.RewardType = models.ReferralRewardTypePercent
				s.RewardPercent = 7
				return s
			},
			orderAmount: 1999,
			want:        139,
		},
		{
			name: "процент упирается в потолок",
			settings: func(s models.ReferralSettings) models.ReferralSettings {
				s.RewardType = models.ReferralRewardTypePercent
				s.RewardPercent = 10
				s.MaxRewardAmount = 300
				return s
			},
			orderAmount: 5000,
			want:        300,
		},
		{
			name: "нулевой потолок не ограничивает",
			settings: func(s models.ReferralSettings) models.ReferralSettings {
				s.RewardType = models.ReferralRewardTypePercent
				s.RewardPercent = 10
				s.MaxRewardAmount = 0
				return s
			},
			orderAmount: 5000,
			want:        500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewardAmount(tt.settings(base), tt.orderAmount))
		})
	}
}
