package database

import (
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Статусы отложенного запроса отзыва.
const (
	FeedbackStatusScheduled = "scheduled"
	FeedbackStatusSent      = "sent"
)

// FeedbackRepository - очередь отложенных запросов отзыва.
type FeedbackRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewFeedbackRepository создает новый репозиторий запросов отзыва
func NewFeedbackRepository(db *sqlx.DB, logger *zap.Logger) *FeedbackRepository {
	return &FeedbackRepository{
		db:     db,
		logger: logger,
	}
}

// Schedule планирует запрос отзыва на указанную дату.
func (r *FeedbackRepository) Schedule(userID int64, orderType string, orderID int64, at time.Time) error {
	query := `
        INSERT INTO feedback_requests (user_id, order_type, order_id, scheduled_date)
        VALUES ($1, $2, $3, $4)
    `

	if _, err := r.db.Exec(query, userID, orderType, orderID, at); err != nil {
		r.logger.Error("Ошибка при планировании запроса отзыва",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("order_id", orderID),
		)
		return err
	}

	return nil
}

// Due возвращает запросы, срок которых наступил.
func (r *FeedbackRepository) Due(now time.Time) ([]models.FeedbackRequest, error) {
	var requests []models.FeedbackRequest
	query := `
        SELECT id, user_id, order_type, order_id, scheduled_date, status
        FROM feedback_requests
        WHERE status = $1 AND scheduled_date <= $2
        ORDER BY scheduled_date
    `

	if err := r.db.Select(&requests, query, FeedbackStatusScheduled, now); err != nil {
		r.logger.Error("Ошибка при получении запросов отзыва", zap.Error(err))
		return nil, err
	}

	return requests, nil
}

// MarkSent отмечает запрос отправленным, чтобы он не ушел повторно.
func (r *FeedbackRepository) MarkSent(id int64) error {
	result, err := r.db.Exec(`UPDATE feedback_requests SET status = $1 WHERE id = $2`, FeedbackStatusSent, id)
	if err != nil {
		r.logger.Error("Ошибка при отметке запроса отзыва", zap.Error(err), zap.Int64("request_id", id))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
