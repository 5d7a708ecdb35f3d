// Package payments - интеграция с платежным провайдером.
package payments

import (
	"fmt"

	"github.com/Vital7472/beauty-salon-bot/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Provider создает платежи и возвращает ссылку на оплату.
type Provider interface {
	CreatePayment(amount int, description string) (string, error)
}

// LinkProvider формирует платежные ссылки на стороне кассы по базовому
// URL. Ключ идемпотентности входит в ссылку: повторная отправка того же
// платежа не создаст дубль на стороне провайдера.
type LinkProvider struct {
	baseURL   string
	returnURL string
	logger    *zap.Logger
}

// NewLinkProvider создает провайдера платежных ссылок. Если касса не
// настроена, возвращает nil - онлайн-оплата будет недоступна.
func NewLinkProvider(cfg config.Payments, logger *zap.Logger) *LinkProvider {
	if cfg.BaseURL == "" {
		logger.Warn("Платежный провайдер не настроен, онлайн-оплата недоступна")
		return nil
	}

	return &LinkProvider{
		baseURL:   cfg.BaseURL,
		returnURL: cfg.ReturnURL,
		logger:    logger,
	}
}

func (p *LinkProvider) CreatePayment(amount int, description string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("некорректная сумма платежа: %d", amount)
	}

	idempotencyKey := uuid.NewString()

	link := fmt.Sprintf("%s/pay?amount=%d&key=%s", p.baseURL, amount, idempotencyKey)
	if p.returnURL != "" {
		link += "&return_url=" + p.returnURL
	}

	p.logger.Info("Создана платежная ссылка",
		zap.Int("amount", amount),
		zap.String("description", description),
		zap.String("idempotency_key", idempotencyKey),
	)
	return link, nil
}
