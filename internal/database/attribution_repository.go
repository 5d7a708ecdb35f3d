package database

import (
	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// AttributionRepository - рекламные кампании и их накопительные счетчики.
// Счетчики только растут; потерянный инкремент не критичен, поэтому
// обновления идут без блокировок, одним UPDATE.
type AttributionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewAttributionRepository создает новый репозиторий атрибуции
func NewAttributionRepository(db *sqlx.DB, logger *zap.Logger) *AttributionRepository {
	return &AttributionRepository{
		db:     db,
		logger: logger,
	}
}

const campaignColumns = `id, name, utm_source, utm_medium, utm_campaign, utm_content, utm_term,
	generated_link, clicks, registrations, conversions, revenue, active, created_at`

// CreateCampaign регистрирует кампанию с готовой deep-link ссылкой.
func (r *AttributionRepository) CreateCampaign(campaign models.UTMCampaign) (int64, error) {
	query := `
        INSERT INTO utm_campaigns
            (name, utm_source, utm_medium, utm_campaign, utm_content, utm_term, generated_link)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `

	var id int64
	err := r.db.Get(&id, query,
		campaign.Name, campaign.UTMSource, campaign.UTMMedium, campaign.UTMCampaign,
		campaign.UTMContent, campaign.UTMTerm, campaign.GeneratedLink,
	)
	if err != nil {
		r.logger.Error("Ошибка при создании кампании", zap.Error(err), zap.String("name", campaign.Name))
		return 0, err
	}

	return id, nil
}

// ListCampaigns возвращает кампании со счетчиками, новые сверху.
func (r *AttributionRepository) ListCampaigns() ([]models.UTMCampaign, error) {
	var campaigns []models.UTMCampaign
	query := `SELECT ` + campaignColumns + ` FROM utm_campaigns ORDER BY created_at DESC`

	if err := r.db.Select(&campaigns, query); err != nil {
		r.logger.Error("Ошибка при получении списка кампаний", zap.Error(err))
		return nil, err
	}

	return campaigns, nil
}

// RecordClick увеличивает счетчик переходов по меткам.
func (r *AttributionRepository) RecordClick(utm models.UTMParams) error {
	return r.bump(utm, `clicks = clicks + 1`, nil)
}

// RecordRegistration увеличивает счетчик регистраций по меткам.
func (r *AttributionRepository) RecordRegistration(utm models.UTMParams) error {
	return r.bump(utm, `registrations = registrations + 1`, nil)
}

// RecordConversion увеличивает счетчик заказов и накопленную выручку.
func (r *AttributionRepository) RecordConversion(utm models.UTMParams, amount int) error {
	return r.bump(utm, `conversions = conversions + 1, revenue = revenue + $4`, []interface{}{amount})
}

// Кампания определяется тройкой source/medium/campaign.
func (r *AttributionRepository) bump(utm models.UTMParams, set string, extra []interface{}) error {
	if utm.Empty() {
		return nil
	}

	args := []interface{}{utm.Source, utm.Medium, utm.Campaign}
	args = append(args, extra...)

	query := `
        UPDATE utm_campaigns
        SET ` + set + `
        WHERE utm_source = $1 AND utm_medium = $2 AND utm_campaign = $3 AND active
    `

	if _, err := r.db.Exec(query, args...); err != nil {
		r.logger.Error("Ошибка при обновлении счетчиков кампании",
			zap.Error(err),
			zap.String("utm_source", utm.Source),
			zap.String("utm_campaign", utm.Campaign),
		)
		return err
	}

	return nil
}
