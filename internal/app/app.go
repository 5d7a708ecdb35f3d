package app

import (
	"github.com/Vital7472/beauty-salon-bot/internal/api"
	"github.com/Vital7472/beauty-salon-bot/internal/bot"
	"github.com/Vital7472/beauty-salon-bot/internal/config"
	"github.com/Vital7472/beauty-salon-bot/internal/database"
	"github.com/Vital7472/beauty-salon-bot/internal/logger"
	"github.com/Vital7472/beauty-salon-bot/internal/payments"
	"github.com/Vital7472/beauty-salon-bot/internal/session"
	"github.com/Vital7472/beauty-salon-bot/internal/telegram"

	"go.uber.org/zap"
)

func Run(configPath string, runMigrations, rollbackMigrations, verbose bool) error {
	// Загружаем конфигурацию
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}

	// Инициализируем логгер
	logger, err := logger.New(cfg.Logger)
	if err != nil {
		zap.L().Error("не удалось создать логгер", zap.Error(err))
		return err
	}
	defer logger.Sync()

	// Подключаемся к базе данных
	db, err := database.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Error("не удалось подключиться к базе данных", zap.Error(err))
		return err
	}
	defer db.Close()

	// Применяем или откатываем миграции
	if rollbackMigrations {
		return database.Rollback(db, logger)
	}
	if runMigrations {
		if err := database.Migrate(db, logger); err != nil {
			return err
		}
	}

	// Хранилище сессий диалогов
	sessions, err := session.NewStore(cfg.Redis, logger)
	if err != nil {
		logger.Error("не удалось подключиться к Redis", zap.Error(err))
		return err
	}
	defer sessions.Close()

	// Инициализируем репозитории
	userRepo := database.NewUserRepository(db, logger)
	catalogRepo := database.NewCatalogRepository(db, logger)
	orderRepo := database.NewOrderRepository(db, logger)
	ledgerRepo := database.NewLedgerRepository(db, logger)
	referralRepo := database.NewReferralRepository(db, logger)
	certificateRepo := database.NewCertificateRepository(db, logger)
	consentRepo := database.NewConsentRepository(db, logger)
	attributionRepo := database.NewAttributionRepository(db, logger)
	feedbackRepo := database.NewFeedbackRepository(db, logger)
	subscriptionRepo := database.NewSubscriptionRepository(db, logger)
	threadRepo := database.NewThreadRepository(db, logger)

	// Инициализируем Telegram клиент
	tgClient, err := telegram.NewTelegramClient(cfg.Telegram.Token, logger)
	if err != nil {
		logger.Error("не удалось создать Telegram клиент", zap.Error(err))
		return err
	}

	// Платежный провайдер опционален: без него заказы оплачиваются на месте
	var paymentProvider bot.PaymentProvider
	if provider := payments.NewLinkProvider(cfg.Payments, logger); provider != nil {
		paymentProvider = provider
	}

	// Инициализируем основной сервис бота
	botService, err := bot.NewService(bot.Deps{
		Telegram:      tgClient,
		Sessions:      sessions,
		Users:         userRepo,
		Catalog:       catalogRepo,
		Orders:        orderRepo,
		Ledger:        ledgerRepo,
		Referrals:     referralRepo,
		Certificates:  certificateRepo,
		Consents:      consentRepo,
		Attribution:   attributionRepo,
		Feedback:      feedbackRepo,
		Subscriptions: subscriptionRepo,
		Threads:       threadRepo,
		Payments:      paymentProvider,
	}, cfg, logger)
	if err != nil {
		logger.Error("не удалось создать сервис бота", zap.Error(err))
		return err
	}

	// Инициализируем HTTP-сервер админки
	adminServer := api.NewAdminServer(
		cfg.API,
		tgClient,
		userRepo,
		orderRepo,
		ledgerRepo,
		referralRepo,
		catalogRepo,
		attributionRepo,
		certificateRepo,
		logger,
	)
	go func() {
		if err := adminServer.Start(); err != nil {
			logger.Error("админ-сервер остановлен", zap.Error(err))
		}
	}()

	// Инициализируем сервис напоминаний администраторам
	reminderService := bot.NewReminderService(threadRepo, tgClient, cfg, logger)
	reminderService.Start()

	// Инициализируем сервис запросов отзыва
	feedbackService := bot.NewFeedbackService(feedbackRepo, tgClient, cfg, logger)
	feedbackService.Start()

	// Запускаем бота
	if err := botService.Start(); err != nil {
		logger.Error("ошибка запуска бота", zap.Error(err))
		return err
	}

	return nil
}
