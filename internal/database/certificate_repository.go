package database

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CertificateRepository - подарочные сертификаты.
type CertificateRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewCertificateRepository создает новый репозиторий сертификатов
func NewCertificateRepository(db *sqlx.DB, logger *zap.Logger) *CertificateRepository {
	return &CertificateRepository{
		db:     db,
		logger: logger,
	}
}

const certificateColumns = `id, code, amount, buyer_user_id, recipient, status, used_by, created_at, used_at`

// Create выпускает сертификат с кодом формата CERT-XXXX-XXXX.
func (r *CertificateRepository) Create(buyerID int64, amount int, recipient string) (models.Certificate, error) {
	code := r.generateUniqueCode()

	query := `
        INSERT INTO certificates (code, amount, buyer_user_id, recipient)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + certificateColumns

	var cert models.Certificate
	err := r.db.Get(&cert, query, code, amount, buyerID, recipient)
	if err != nil {
		r.logger.Error("Ошибка при выпуске сертификата",
			zap.Error(err),
			zap.Int64("buyer_user_id", buyerID),
		)
		return models.Certificate{}, err
	}

	r.logger.Info("Выпущен подарочный сертификат",
		zap.String("code", cert.Code),
		zap.Int("amount", amount),
		zap.Int64("buyer_user_id", buyerID),
	)
	return cert, nil
}

func (r *CertificateRepository) generateUniqueCode() string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	segment := func() string {
		b := strings.Builder{}
		for i := 0; i < 4; i++ {
			b.WriteByte(charset[rand.Intn(len(charset))])
		}
		return b.String()
	}

	for attempts := 0; attempts < 10; attempts++ {
		code := fmt.Sprintf("CERT-%s-%s", segment(), segment())

		var count int
		err := r.db.Get(&count, `SELECT COUNT(*) FROM certificates WHERE code = $1`, code)
		if err != nil {
			r.logger.Error("Ошибка проверки уникальности кода сертификата", zap.Error(err))
			continue
		}

		if count == 0 {
			return code
		}
	}

	return fmt.Sprintf("CERT-%s-%04d", segment(), rand.Intn(10000))
}

// GetByCode возвращает сертификат по коду.
func (r *CertificateRepository) GetByCode(code string) (models.Certificate, error) {
	var cert models.Certificate
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE code = $1`

	err := r.db.Get(&cert, query, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Certificate{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении сертификата", zap.Error(err))
		return models.Certificate{}, err
	}

	return cert, nil
}

// Redeem погашает сертификат. Повторное погашение не проходит:
// статус проверяется под блокировкой строки.
func (r *CertificateRepository) Redeem(code string, userID int64) (models.Certificate, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return models.Certificate{}, err
	}
	defer tx.Rollback()

	var cert models.Certificate
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE code = $1 FOR UPDATE`
	err = tx.Get(&cert, query, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Certificate{}, ErrNotFound
		}
		return models.Certificate{}, err
	}

	if cert.Status != models.CertificateStatusActive {
		return models.Certificate{}, ErrNotFound
	}

	update := `
        UPDATE certificates
        SET status = 'used', used_by = $1, used_at = now()
        WHERE id = $2
        RETURNING ` + certificateColumns
	if err := tx.Get(&cert, update, userID, cert.ID); err != nil {
		r.logger.Error("Ошибка при погашении сертификата",
			zap.Error(err),
			zap.String("code", cert.Code),
		)
		return models.Certificate{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Certificate{}, err
	}

	r.logger.Info("Сертификат погашен",
		zap.String("code", cert.Code),
		zap.Int64("used_by", userID),
	)
	return cert, nil
}
