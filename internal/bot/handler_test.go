package bot

import (
	"context"
	"testing"

	"github.com/Vital7472/beauty-salon-bot/internal/config"
	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv собирает сервис бота на фейковых хранилищах.
type testEnv struct {
	service       *Service
	telegram      *fakeTelegram
	sessions      *fakeSessions
	users         *fakeUsers
	catalog       *fakeCatalog
	orders        *fakeOrders
	ledger        *fakeLedger
	referrals     *fakeReferrals
	certificates  *fakeCertificates
	consents      *fakeConsents
	attribution   *fakeAttribution
	feedback      *fakeFeedback
	subscriptions *fakeSubscriptions
	threads       *fakeThreads
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Telegram: config.Telegram{
			BotUsername: "beauty_test_bot",
			AdminID:     900,
		},
		Business: config.Business{
			Timezone:               "UTC",
			FreeDeliveryThreshold:  3000,
			DeliveryCost:           300,
			BonusPercent:           5,
			BonusThreshold:         3000,
			MaxBonusPaymentPercent: 50,
			SignupReferralBonus:    500,
		},
		Feedback: config.Feedback{Enabled: true, DelayDays: 1},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		telegram:      &fakeTelegram{},
		sessions:      newFakeSessions(),
		users:         newFakeUsers(),
		catalog:       &fakeCatalog{},
		orders:        &fakeOrders{},
		ledger:        newFakeLedger(),
		referrals:     &fakeReferrals{},
		certificates:  &fakeCertificates{},
		consents:      &fakeConsents{},
		attribution:   &fakeAttribution{},
		feedback:      &fakeFeedback{},
		subscriptions: &fakeSubscriptions{},
		threads:       newFakeThreads(),
	}

	service, err := NewService(Deps{
		Telegram:      env.telegram,
		Sessions:      env.sessions,
		Users:         env.users,
		Catalog:       env.catalog,
		Orders:        env.orders,
		Ledger:        env.ledger,
		Referrals:     env.referrals,
		Certificates:  env.certificates,
		Consents:      env.consents,
		Attribution:   env.attribution,
		Feedback:      env.feedback,
		Subscriptions: env.subscriptions,
		Threads:       env.threads,
	}, testConfig(), zap.NewNop())
	require.NoError(t, err)

	env.service = service
	return env
}

func TestParseStartParam(t *testing.T) {
	tests := []struct {
		name     string
		param    string
		wantUTM  models.UTMParams
		wantCode string
	}{
		{
			name: "empty",
		},
		{
			name:     "referral code",
			param:    "REFAB12CD",
			wantUTM:  models.UTMParams{Source: "referral", Content: "REFAB12CD"},
			wantCode: "REFAB12CD",
		},
		{
			name:    "full utm",
			param:   "utm_vk__cpc__spring__banner1__flowers",
			wantUTM: models.UTMParams{Source: "vk", Medium: "cpc", Campaign: "spring", Content: "banner1", Term: "flowers"},
		},
		{
			name:    "partial utm",
			param:   "utm_instagram__stories",
			wantUTM: models.UTMParams{Source: "instagram", Medium: "stories"},
		},
		{
			name:  "unknown param",
			param: "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			utm, code := parseStartParam(tt.param)
			assert.Equal(t, tt.wantUTM, utm)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestStartRegistersNewUser(t *testing.T) {
	env := newTestEnv(t)

	err := env.service.HandleMessage(context.Background(), models.IncomingMessage{
		ChatID:    100,
		Text:      "/start",
		FirstName: "Анна",
	})
	require.NoError(t, err)

	user, err := env.users.GetUser(100)
	require.NoError(t, err)
	assert.Equal(t, "Анна", user.FirstName)
	assert.NotEmpty(t, user.ReferralCode)

	assert.Contains(t, env.telegram.lastTo(100), "Добро пожаловать")
	assert.Empty(t, env.attribution.clicks)
}

func TestStartWithReferralLinkAwardsBothSides(t *testing.T) {
	env := newTestEnv(t)

	// Реферер уже зарегистрирован
	referrer, _, err := env.users.Register(models.User{UserID: 1, FirstName: "Мария"})
	require.NoError(t, err)

	err = env.service.HandleMessage(context.Background(), models.IncomingMessage{
		ChatID:    100,
		Text:      "/start " + referrer.ReferralCode,
		FirstName: "Анна",
	})
	require.NoError(t, err)

	user, err := env.users.GetUser(100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ReferredBy)

	// Приветственные бонусы обеим сторонам
	assert.Equal(t, 500, env.ledger.balances[1])
	assert.Equal(t, 500, env.ledger.balances[100])

	// Переход и регистрация учтены как источник referral
	require.Len(t, env.attribution.clicks, 1)
	assert.Equal(t, "referral", env.attribution.clicks[0].Source)
	require.Len(t, env.attribution.registrations, 1)
}

func TestStartWithUnknownReferralCode(t *testing.T) {
	env := newTestEnv(t)

	err := env.service.HandleMessage(context.Background(), models.IncomingMessage{
		ChatID:    100,
		Text:      "/start REFZZZZZZ",
		FirstName: "Анна",
	})
	require.NoError(t, err)

	// Регистрация проходит, но без реферера и без бонусов
	user, err := env.users.GetUser(100)
	require.NoError(t, err)
	assert.Zero(t, user.ReferredBy)
	assert.Zero(t, env.ledger.balances[100])
}

func TestRepeatedStartDoesNotAwardAgain(t *testing.T) {
	env := newTestEnv(t)

	referrer, _, err := env.users.Register(models.User{UserID: 1, FirstName: "Мария"})
	require.NoError(t, err)

	message := models.IncomingMessage{
		ChatID:    100,
		Text:      "/start " + referrer.ReferralCode,
		FirstName: "Анна",
	}

	require.NoError(t, env.service.HandleMessage(context.Background(), message))
	require.NoError(t, env.service.HandleMessage(context.Background(), message))

	assert.Equal(t, 500, env.ledger.balances[1])
	assert.Equal(t, 500, env.ledger.balances[100])
	assert.Len(t, env.attribution.registrations, 1)
}

func TestStartWithUTMRecordsClick(t *testing.T) {
	env := newTestEnv(t)

	err := env.service.HandleMessage(context.Background(), models.IncomingMessage{
		ChatID:    100,
		Text:      "/start utm_vk__cpc__spring",
		FirstName: "Анна",
	})
	require.NoError(t, err)

	require.Len(t, env.attribution.clicks, 1)
	assert.Equal(t, "vk", env.attribution.clicks[0].Source)
	assert.Equal(t, "spring", env.attribution.clicks[0].Campaign)

	user, err := env.users.GetUser(100)
	require.NoError(t, err)
	assert.Equal(t, "vk", user.UTMSource)
}

func TestStartAbortsActiveSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.sessions.Put(ctx, &models.Session{
		UserID: 100,
		Flow:   models.FlowSalon,
		Step:   models.StepSalonDate,
	}))

	err := env.service.HandleMessage(ctx, models.IncomingMessage{ChatID: 100, Text: "/start"})
	require.NoError(t, err)

	session, err := env.sessions.Get(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestFreeTextOutsideFlowGoesToAdmins(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.users.Register(models.User{UserID: 100, FirstName: "Анна"})
	require.NoError(t, err)

	err = env.service.HandleMessage(context.Background(), models.IncomingMessage{
		ChatID:    100,
		Text:      "Подскажите, работаете ли вы в воскресенье?",
		FirstName: "Анна",
	})
	require.NoError(t, err)

	// Группа не настроена - сообщение ушло администратору напрямую
	assert.Contains(t, env.telegram.lastTo(900), "работаете ли вы в воскресенье")
	assert.Contains(t, env.telegram.lastTo(100), "передано администратору")
}

func TestSharedContactOutsideFlowSavesPhone(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.users.Register(models.User{UserID: 100, FirstName: "Анна"})
	require.NoError(t, err)

	err = env.service.HandleMessage(context.Background(), models.IncomingMessage{
		ChatID:       100,
		FirstName:    "Анна",
		ContactPhone: "+79991234567",
	})
	require.NoError(t, err)

	assert.Equal(t, "+7 (999) 123-45-67", env.users.phones[100])

	// Каждая передача номера пишется в журнал согласий
	require.Len(t, env.consents.records, 1)
	assert.Equal(t, models.ConsentContactShare, env.consents.records[0].ConsentType)
}

func TestStaleCallbackAfterFlowEnds(t *testing.T) {
	env := newTestEnv(t)

	err := env.service.HandleCallback(context.Background(), models.CallbackQuery{
		UserID: 100,
		Data:   "confirm",
	})
	require.NoError(t, err)

	assert.Contains(t, env.telegram.lastTo(100), "уже завершен")
}
