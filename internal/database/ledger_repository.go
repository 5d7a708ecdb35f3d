package database

import (
	"database/sql"
	"errors"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// LedgerRepository ведет бонусный счет: неизменяемый журнал транзакций
// плюс денормализованный баланс в users. Баланс всегда равен сумме
// транзакций пользователя, потому что оба меняются только вместе,
// в одной транзакции базы.
type LedgerRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewLedgerRepository создает новый репозиторий бонусного счета
func NewLedgerRepository(db *sqlx.DB, logger *zap.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:     db,
		logger: logger,
	}
}

// creditInTx начисляет баллы внутри открытой транзакции.
func creditInTx(tx *sqlx.Tx, userID int64, points int, description string) error {
	query := `INSERT INTO loyalty_transactions (user_id, points, description) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(query, userID, points, description); err != nil {
		return err
	}

	_, err := tx.Exec(`UPDATE users SET bonus_points = bonus_points + $1 WHERE user_id = $2`, points, userID)
	return err
}

// debitInTx списывает баллы внутри открытой транзакции. Баланс читается
// с блокировкой строки, поэтому два конкурентных списания не могут
// пройти по одному и тому же остатку.
func debitInTx(tx *sqlx.Tx, userID int64, points int, description string) error {
	var balance int
	err := tx.Get(&balance, `SELECT bonus_points FROM users WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if balance < points {
		return ErrInsufficientBonus
	}

	query := `INSERT INTO loyalty_transactions (user_id, points, description) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(query, userID, -points, description); err != nil {
		return err
	}

	_, err = tx.Exec(`UPDATE users SET bonus_points = bonus_points - $1 WHERE user_id = $2`, points, userID)
	return err
}

// Credit начисляет баллы пользователю.
func (r *LedgerRepository) Credit(userID int64, points int, description string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := creditInTx(tx, userID, points, description); err != nil {
		r.logger.Error("Ошибка при начислении баллов",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int("points", points),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.logger.Info("Начислены бонусные баллы",
		zap.Int64("user_id", userID),
		zap.Int("points", points),
		zap.String("description", description),
	)
	return nil
}

// Debit списывает баллы. При нехватке возвращает ErrInsufficientBonus,
// не меняя ни журнал, ни баланс.
func (r *LedgerRepository) Debit(userID int64, points int, description string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := debitInTx(tx, userID, points, description); err != nil {
		if !errors.Is(err, ErrInsufficientBonus) {
			r.logger.Error("Ошибка при списании баллов",
				zap.Error(err),
				zap.Int64("user_id", userID),
				zap.Int("points", points),
			)
		}
		return err
	}

	return tx.Commit()
}

// Balance возвращает текущий бонусный баланс.
func (r *LedgerRepository) Balance(userID int64) (int, error) {
	var balance int
	err := r.db.Get(&balance, `SELECT bonus_points FROM users WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		r.logger.Error("Ошибка при получении баланса",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return 0, err
	}

	return balance, nil
}

// Transactions возвращает последние движения по счету, новые сверху.
func (r *LedgerRepository) Transactions(userID int64, limit int) ([]models.LoyaltyTransaction, error) {
	var transactions []models.LoyaltyTransaction
	query := `
        SELECT id, user_id, points, description, created_at
        FROM loyalty_transactions
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `

	if err := r.db.Select(&transactions, query, userID, limit); err != nil {
		r.logger.Error("Ошибка при получении истории баллов",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, err
	}

	return transactions, nil
}
