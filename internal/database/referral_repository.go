package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ReferralRepository - настройки реферальной программы и вознаграждения.
type ReferralRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewReferralRepository создает новый репозиторий реферальной программы
func NewReferralRepository(db *sqlx.DB, logger *zap.Logger) *ReferralRepository {
	return &ReferralRepository{
		db:     db,
		logger: logger,
	}
}

const referralSettingsColumns = `enabled, reward_type, reward_amount, reward_percent,
	min_order_amount, max_reward_amount, reward_on_first_order_only, auto_approve`

// GetSettings возвращает действующие настройки программы.
func (r *ReferralRepository) GetSettings() (models.ReferralSettings, error) {
	var settings models.ReferralSettings
	query := `SELECT ` + referralSettingsColumns + ` FROM referral_settings WHERE id = 1`

	if err := r.db.Get(&settings, query); err != nil {
		r.logger.Error("Ошибка при получении настроек реферальной программы", zap.Error(err))
		return models.ReferralSettings{}, err
	}

	return settings, nil
}

// UpdateSettings перезаписывает настройки программы.
func (r *ReferralRepository) UpdateSettings(settings models.ReferralSettings) error {
	query := `
        UPDATE referral_settings
        SET enabled = $1, reward_type = $2, reward_amount = $3, reward_percent = $4,
            min_order_amount = $5, max_reward_amount = $6,
            reward_on_first_order_only = $7, auto_approve = $8
        WHERE id = 1
    `

	_, err := r.db.Exec(query,
		settings.Enabled, settings.RewardType, settings.RewardAmount, settings.RewardPercent,
		settings.MinOrderAmount, settings.MaxRewardAmount,
		settings.RewardOnFirstOrderOnly, settings.AutoApprove,
	)
	if err != nil {
		r.logger.Error("Ошибка при сохранении настроек реферальной программы", zap.Error(err))
		return err
	}

	return nil
}

// Award создает вознаграждение пригласившему за заказ приглашенного.
// Возвращает nil без ошибки, когда по правилам программы вознаграждения
// не положено: программа выключена, заказ меньше минимума или за этого
// приглашенного уже награждали. Проверка "только за первый заказ"
// выполняется под блокировкой строки пользователя, чтобы два
// одновременных заказа не породили два вознаграждения.
// rewardBlocksNew сообщает, закрывает ли существующее вознаграждение
// дорогу новому в режиме "только первый заказ". Отклоненное не в счет:
// следующий заказ приглашенного может наградить реферера заново.
func rewardBlocksNew(status models.RewardStatus) bool {
	return status == models.RewardStatusPending || status == models.RewardStatusApproved
}

// rewardAmount считает размер бонуса по текущим настройкам программы.
// Ноль означает, что начислять нечего.
func rewardAmount(settings models.ReferralSettings, orderAmount int) int {
	if !settings.Enabled || orderAmount < settings.MinOrderAmount {
		return 0
	}

	amount := settings.RewardAmount
	if settings.RewardType == models.ReferralRewardTypePercent {
		amount = orderAmount * settings.RewardPercent / 100
		if settings.MaxRewardAmount > 0 && amount > settings.MaxRewardAmount {
			amount = settings.MaxRewardAmount
		}
	}
	return amount
}

func (r *ReferralRepository) Award(referrerID, referredID, orderID int64, orderAmount int) (*models.ReferralReward, error) {
	settings, err := r.GetSettings()
	if err != nil {
		return nil, err
	}

	amount := rewardAmount(settings, orderAmount)
	if amount <= 0 {
		return nil, nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if settings.RewardOnFirstOrderOnly {
		var dummy int64
		err := tx.Get(&dummy, `SELECT user_id FROM users WHERE user_id = $1 FOR UPDATE`, referredID)
		if err != nil {
			return nil, err
		}

		var statuses []models.RewardStatus
		err = tx.Select(&statuses, `SELECT status FROM referral_rewards WHERE referred_user_id = $1`, referredID)
		if err != nil {
			return nil, err
		}
		for _, status := range statuses {
			if rewardBlocksNew(status) {
				return nil, nil
			}
		}
	}

	var reward models.ReferralReward
	query := `
        INSERT INTO referral_rewards
            (referrer_user_id, referred_user_id, reward_type, reward_amount,
             trigger_order_id, trigger_order_amount)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, referrer_user_id, referred_user_id, reward_type, reward_amount,
            trigger_order_id, trigger_order_amount, status, created_at, paid_at
    `
	err = tx.Get(&reward, query,
		referrerID, referredID, settings.RewardType, amount, orderID, orderAmount,
	)
	if err != nil {
		r.logger.Error("Ошибка при создании вознаграждения",
			zap.Error(err),
			zap.Int64("referrer_user_id", referrerID),
			zap.Int64("referred_user_id", referredID),
		)
		return nil, err
	}

	if settings.AutoApprove {
		if err := approveRewardInTx(tx, &reward); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	r.logger.Info("Создано реферальное вознаграждение",
		zap.Int64("reward_id", reward.ID),
		zap.Int64("referrer_user_id", referrerID),
		zap.Int("amount", amount),
		zap.String("status", string(reward.Status)),
	)
	return &reward, nil
}

// Баллы начисляются только здесь: pending-вознаграждение баланса не трогает.
func approveRewardInTx(tx *sqlx.Tx, reward *models.ReferralReward) error {
	description := fmt.Sprintf("Вознаграждение за приглашенного друга (заказ #%d)", reward.TriggerOrderID)
	if err := creditInTx(tx, reward.ReferrerUserID, reward.RewardAmount, description); err != nil {
		return err
	}

	query := `
        UPDATE referral_rewards
        SET status = 'approved', paid_at = now()
        WHERE id = $1
        RETURNING status, paid_at
    `
	return tx.QueryRowx(query, reward.ID).Scan(&reward.Status, &reward.PaidAt)
}

// ApproveReward одобряет вознаграждение и начисляет баллы пригласившему.
func (r *ReferralRepository) ApproveReward(rewardID int64) (models.ReferralReward, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return models.ReferralReward{}, err
	}
	defer tx.Rollback()

	reward, err := lockPendingReward(tx, rewardID)
	if err != nil {
		return models.ReferralReward{}, err
	}

	if err := approveRewardInTx(tx, &reward); err != nil {
		r.logger.Error("Ошибка при одобрении вознаграждения",
			zap.Error(err),
			zap.Int64("reward_id", rewardID),
		)
		return models.ReferralReward{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.ReferralReward{}, err
	}

	r.logger.Info("Вознаграждение одобрено",
		zap.Int64("reward_id", reward.ID),
		zap.Int64("referrer_user_id", reward.ReferrerUserID),
		zap.Int("amount", reward.RewardAmount),
	)
	return reward, nil
}

// RejectReward отклоняет вознаграждение. Баллы не начислялись и не начислятся.
func (r *ReferralRepository) RejectReward(rewardID int64) (models.ReferralReward, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return models.ReferralReward{}, err
	}
	defer tx.Rollback()

	reward, err := lockPendingReward(tx, rewardID)
	if err != nil {
		return models.ReferralReward{}, err
	}

	query := `UPDATE referral_rewards SET status = 'rejected' WHERE id = $1`
	if _, err := tx.Exec(query, rewardID); err != nil {
		r.logger.Error("Ошибка при отклонении вознаграждения",
			zap.Error(err),
			zap.Int64("reward_id", rewardID),
		)
		return models.ReferralReward{}, err
	}
	reward.Status = models.RewardStatusRejected

	if err := tx.Commit(); err != nil {
		return models.ReferralReward{}, err
	}

	return reward, nil
}

func lockPendingReward(tx *sqlx.Tx, rewardID int64) (models.ReferralReward, error) {
	var reward models.ReferralReward
	query := `
        SELECT id, referrer_user_id, referred_user_id, reward_type, reward_amount,
            trigger_order_id, trigger_order_amount, status, created_at, paid_at
        FROM referral_rewards
        WHERE id = $1
        FOR UPDATE
    `

	err := tx.Get(&reward, query, rewardID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ReferralReward{}, ErrNotFound
		}
		return models.ReferralReward{}, err
	}

	if reward.Status != models.RewardStatusPending {
		return models.ReferralReward{}, ErrRewardAlreadyResolved
	}

	return reward, nil
}

// PendingRewards возвращает вознаграждения, ждущие решения администратора.
func (r *ReferralRepository) PendingRewards() ([]models.ReferralReward, error) {
	var rewards []models.ReferralReward
	query := `
        SELECT id, referrer_user_id, referred_user_id, reward_type, reward_amount,
            trigger_order_id, trigger_order_amount, status, created_at, paid_at
        FROM referral_rewards
        WHERE status = 'pending'
        ORDER BY created_at
    `

	if err := r.db.Select(&rewards, query); err != nil {
		r.logger.Error("Ошибка при получении списка вознаграждений", zap.Error(err))
		return nil, err
	}

	return rewards, nil
}

// ReferralCount возвращает, сколько пользователей пришло по коду пригласившего.
func (r *ReferralRepository) ReferralCount(referrerID int64) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM users WHERE referred_by = $1`, referrerID)
	if err != nil {
		r.logger.Error("Ошибка при подсчете приглашенных",
			zap.Error(err),
			zap.Int64("referrer_user_id", referrerID),
		)
		return 0, err
	}

	return count, nil
}
