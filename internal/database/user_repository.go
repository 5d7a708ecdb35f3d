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

// UserRepository представляет репозиторий для работы с пользователями
type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *sqlx.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `user_id, username, first_name, phone, birthday, bonus_points,
	referral_code, referred_by, profile_filled,
	utm_source, utm_medium, utm_campaign, utm_content, utm_term, created_at`

// Register создает пользователя при первом контакте. Повторный вызов
// только освежает username и имя; реферальная привязка, метки и код
// назначаются один раз и больше не меняются. Возвращает пользователя и
// признак того, что запись создана только что.
func (r *UserRepository) Register(user models.User) (models.User, bool, error) {
	existing, err := r.GetUser(user.UserID)
	if err == nil {
		query := `UPDATE users SET username = $1, first_name = $2 WHERE user_id = $3`
		if _, err := r.db.Exec(query, user.Username, user.FirstName, user.UserID); err != nil {
			r.logger.Error("Ошибка при обновлении пользователя",
				zap.Error(err),
				zap.Int64("user_id", user.UserID),
			)
			return models.User{}, false, err
		}
		existing.Username = user.Username
		existing.FirstName = user.FirstName
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, false, err
	}

	user.ReferralCode = r.generateUniqueReferralCode()

	query := `
        INSERT INTO users (user_id, username, first_name, referral_code, referred_by,
            utm_source, utm_medium, utm_campaign, utm_content, utm_term)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + userColumns

	var created models.User
	err = r.db.Get(&created, query,
		user.UserID, user.Username, user.FirstName, user.ReferralCode, user.ReferredBy,
		user.UTMSource, user.UTMMedium, user.UTMCampaign, user.UTMContent, user.UTMTerm,
	)
	if err != nil {
		r.logger.Error("Ошибка при создании пользователя",
			zap.Error(err),
			zap.Int64("user_id", user.UserID),
		)
		return models.User{}, false, err
	}

	r.logger.Info("Зарегистрирован новый пользователь",
		zap.Int64("user_id", created.UserID),
		zap.String("referral_code", created.ReferralCode),
	)
	return created, true, nil
}

// Реферальный код: "REF" и шесть символов. При коллизии пробуем снова.
func (r *UserRepository) generateUniqueReferralCode() string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const codeLength = 6

	for attempts := 0; attempts < 10; attempts++ {
		result := strings.Builder{}
		result.WriteString("REF")
		for i := 0; i < codeLength; i++ {
			result.WriteByte(charset[rand.Intn(len(charset))])
		}
		code := result.String()

		var count int
		err := r.db.Get(&count, "SELECT COUNT(*) FROM users WHERE referral_code = $1", code)
		if err != nil {
			r.logger.Error("Ошибка проверки уникальности кода", zap.Error(err))
			continue
		}

		if count == 0 {
			return code
		}
	}

	// Сюда попадаем только при фантастическом невезении.
	return fmt.Sprintf("REF%06d", rand.Intn(1000000))
}

func (r *UserRepository) GetUser(userID int64) (models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	err := r.db.Get(&user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении пользователя",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return models.User{}, err
	}

	return user, nil
}

func (r *UserRepository) GetUserByReferralCode(referralCode string) (models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`

	err := r.db.Get(&user, query, referralCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении пользователя по реферальному коду",
			zap.Error(err),
			zap.String("referral_code", referralCode),
		)
		return models.User{}, err
	}

	return user, nil
}

// UpdatePhone сохраняет телефон и пересчитывает признак заполненности
// профиля. Телефон передается уже нормализованным.
func (r *UserRepository) UpdatePhone(userID int64, phone string) error {
	query := `
        UPDATE users
        SET phone = $1,
            profile_filled = (first_name <> '' AND $1 <> '')
        WHERE user_id = $2
    `

	if _, err := r.db.Exec(query, phone, userID); err != nil {
		r.logger.Error("Ошибка при сохранении телефона",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return err
	}

	return nil
}

// ApplyProfileUpdate применяет частичное обновление профиля одной
// операцией: меняются только переданные поля.
func (r *UserRepository) ApplyProfileUpdate(userID int64, update models.ProfileUpdate) error {
	if update.Empty() {
		return nil
	}

	set := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)

	if update.FirstName != nil {
		args = append(args, *update.FirstName)
		set = append(set, fmt.Sprintf("first_name = $%d", len(args)))
	}
	if update.Phone != nil {
		args = append(args, *update.Phone)
		set = append(set, fmt.Sprintf("phone = $%d", len(args)))
	}
	if update.Birthday != nil {
		args = append(args, *update.Birthday)
		set = append(set, fmt.Sprintf("birthday = $%d", len(args)))
	}

	args = append(args, userID)
	query := fmt.Sprintf(`
        UPDATE users
        SET %s, profile_filled = (first_name <> '' AND phone <> '')
        WHERE user_id = $%d
    `, strings.Join(set, ", "), len(args))

	if _, err := r.db.Exec(query, args...); err != nil {
		r.logger.Error("Ошибка при обновлении профиля",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return err
	}

	return nil
}

// SaveAddress сохраняет адрес доставки. Адрес по умолчанию у
// пользователя один: прежний сбрасывается.
func (r *UserRepository) SaveAddress(userID int64, address string, isDefault bool) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if isDefault {
		if _, err := tx.Exec(`UPDATE addresses SET is_default = FALSE WHERE user_id = $1`, userID); err != nil {
			return err
		}
	}

	query := `INSERT INTO addresses (user_id, address, is_default) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(query, userID, address, isDefault); err != nil {
		r.logger.Error("Ошибка при сохранении адреса",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return err
	}

	return tx.Commit()
}

func (r *UserRepository) GetAddresses(userID int64) ([]models.Address, error) {
	var addresses []models.Address
	query := `
        SELECT id, user_id, address, is_default
        FROM addresses
        WHERE user_id = $1
        ORDER BY is_default DESC, id DESC
    `

	if err := r.db.Select(&addresses, query, userID); err != nil {
		r.logger.Error("Ошибка при получении адресов",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, err
	}

	return addresses, nil
}
