package database

import (
	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ConsentRepository - журнал согласий на обработку персональных данных.
// Журнал только пополняется, записи не правятся и не удаляются.
type ConsentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewConsentRepository создает новый репозиторий журнала согласий
func NewConsentRepository(db *sqlx.DB, logger *zap.Logger) *ConsentRepository {
	return &ConsentRepository{
		db:     db,
		logger: logger,
	}
}

// Append добавляет запись согласия. Пишется при каждом вводе телефона,
// даже если телефон не изменился.
func (r *ConsentRepository) Append(record models.ConsentRecord) error {
	query := `
        INSERT INTO consent_log (user_id, user_name, phone, consent_type)
        VALUES ($1, $2, $3, $4)
    `

	_, err := r.db.Exec(query, record.UserID, record.UserName, record.Phone, record.ConsentType)
	if err != nil {
		r.logger.Error("Ошибка при записи согласия",
			zap.Error(err),
			zap.Int64("user_id", record.UserID),
		)
		return err
	}

	return nil
}

// ByUser возвращает записи согласий пользователя, новые сверху.
func (r *ConsentRepository) ByUser(userID int64) ([]models.ConsentRecord, error) {
	var records []models.ConsentRecord
	query := `
        SELECT id, user_id, user_name, phone, consent_type, created_at
        FROM consent_log
        WHERE user_id = $1
        ORDER BY created_at DESC
    `

	if err := r.db.Select(&records, query, userID); err != nil {
		r.logger.Error("Ошибка при получении журнала согласий",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, err
	}

	return records, nil
}
