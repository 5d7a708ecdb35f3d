package database

import (
	"database/sql"
	"errors"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SubscriptionRepository читает подписки пользователей. Продажей и
// продлением подписок занимается отдельный контур, бот видит только
// действующие привилегии.
type SubscriptionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSubscriptionRepository создает новый репозиторий подписок
func NewSubscriptionRepository(db *sqlx.DB, logger *zap.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// Active возвращает действующую подписку пользователя или nil.
// Дата сравнивается в формате YYYY-MM-DD, так что строкового
// сравнения достаточно.
func (r *SubscriptionRepository) Active(userID int64, today string) (*models.Subscription, error) {
	var sub models.Subscription
	query := `
        SELECT id, user_id, plan_name, service_discount_percent, flower_discount_percent,
            monthly_flowers_included, flowers_used_this_month,
            monthly_service_included, service_used_this_month, end_date
        FROM subscriptions
        WHERE user_id = $1 AND end_date >= $2
        ORDER BY end_date DESC
        LIMIT 1
    `

	err := r.db.Get(&sub, query, userID, today)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Ошибка при получении подписки",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, err
	}

	return &sub, nil
}
