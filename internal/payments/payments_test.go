package payments

import (
	"testing"

	"github.com/Vital7472/beauty-salon-bot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLinkProviderUnconfigured(t *testing.T) {
	provider := NewLinkProvider(config.Payments{}, zap.NewNop())
	assert.Nil(t, provider)
}

func TestCreatePaymentBuildsLink(t *testing.T) {
	provider := NewLinkProvider(config.Payments{
		BaseURL:   "https://pay.example.com",
		ReturnURL: "https://t.me/testbot",
	}, zap.NewNop())
	require.NotNil(t, provider)

	link, err := provider.CreatePayment(3500, "Запись в салон #1")
	require.NoError(t, err)

	assert.Contains(t, link, "https://pay.example.com/pay?amount=3500")
	assert.Contains(t, link, "return_url=https://t.me/testbot")

	// Ключ идемпотентности уникален для каждого платежа
	other, err := provider.CreatePayment(3500, "Запись в салон #1")
	require.NoError(t, err)
	assert.NotEqual(t, link, other)
}

func TestCreatePaymentRejectsBadAmount(t *testing.T) {
	provider := NewLinkProvider(config.Payments{BaseURL: "https://pay.example.com"}, zap.NewNop())

	_, err := provider.CreatePayment(0, "пусто")
	assert.Error(t, err)

	_, err = provider.CreatePayment(-100, "минус")
	assert.Error(t, err)
}
