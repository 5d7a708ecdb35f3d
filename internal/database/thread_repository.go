package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ThreadRepository - соответствие пользователей топикам админ-группы.
type ThreadRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewThreadRepository создает новый репозиторий топиков
func NewThreadRepository(db *sqlx.DB, logger *zap.Logger) *ThreadRepository {
	return &ThreadRepository{
		db:     db,
		logger: logger,
	}
}

const threadColumns = `user_id, thread_id, user_name, created_at, last_client_message_at, nudge_sent`

// Get возвращает топик пользователя.
func (r *ThreadRepository) Get(userID int64) (models.AdminThread, error) {
	var thread models.AdminThread
	query := `SELECT ` + threadColumns + ` FROM admin_threads WHERE user_id = $1`

	err := r.db.Get(&thread, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AdminThread{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении топика",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return models.AdminThread{}, err
	}

	return thread, nil
}

// Save сохраняет соответствие пользователь-топик. Повторный вызов
// обновляет имя и номер топика (топик мог быть пересоздан).
func (r *ThreadRepository) Save(thread models.AdminThread) error {
	query := `
        INSERT INTO admin_threads (user_id, thread_id, user_name)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET
            thread_id = EXCLUDED.thread_id,
            user_name = EXCLUDED.user_name
    `

	if _, err := r.db.Exec(query, thread.UserID, thread.ThreadID, thread.UserName); err != nil {
		r.logger.Error("Ошибка при сохранении топика",
			zap.Error(err),
			zap.Int64("user_id", thread.UserID),
		)
		return err
	}

	return nil
}

// TouchClientMessage фиксирует время последнего сообщения клиента и
// взводит напоминание заново.
func (r *ThreadRepository) TouchClientMessage(userID int64, at time.Time) error {
	query := `
        UPDATE admin_threads
        SET last_client_message_at = $1, nudge_sent = FALSE
        WHERE user_id = $2
    `

	if _, err := r.db.Exec(query, at, userID); err != nil {
		r.logger.Error("Ошибка при обновлении времени сообщения",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return err
	}

	return nil
}

// Stale возвращает топики, где клиент ждет ответа дольше порога
// и напоминание еще не отправлялось.
func (r *ThreadRepository) Stale(cutoff time.Time) ([]models.AdminThread, error) {
	var threads []models.AdminThread
	query := `
        SELECT ` + threadColumns + `
        FROM admin_threads
        WHERE NOT nudge_sent AND last_client_message_at <= $1
        ORDER BY last_client_message_at
    `

	if err := r.db.Select(&threads, query, cutoff); err != nil {
		r.logger.Error("Ошибка при поиске топиков без ответа", zap.Error(err))
		return nil, err
	}

	return threads, nil
}

// MarkNudgeSent отмечает, что напоминание по топику отправлено.
func (r *ThreadRepository) MarkNudgeSent(userID int64) error {
	query := `UPDATE admin_threads SET nudge_sent = TRUE WHERE user_id = $1`

	if _, err := r.db.Exec(query, userID); err != nil {
		r.logger.Error("Ошибка при отметке напоминания",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return err
	}

	return nil
}
