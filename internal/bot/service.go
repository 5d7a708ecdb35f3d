package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/config"
	"github.com/Vital7472/beauty-salon-bot/internal/models"
	"github.com/Vital7472/beauty-salon-bot/internal/pricing"

	"go.uber.org/zap"
)

type callbackHandler func(ctx context.Context, session *models.Session, callback models.CallbackQuery) error

type textHandler func(ctx context.Context, session *models.Session, message models.IncomingMessage) error

// Service - основной сервис бота
type Service struct {
	telegram TelegramClient
	logger   *zap.Logger
	cfg      *config.AppConfig
	rules    pricing.Rules
	location *time.Location

	sessions      SessionStore
	users         UserStorage
	catalog       CatalogStorage
	orders        OrderStorage
	ledger        LedgerStorage
	referrals     ReferralStorage
	certificates  CertificateStorage
	consents      ConsentStorage
	attribution   AttributionStorage
	feedback      FeedbackStorage
	subscriptions SubscriptionStorage
	threads       ThreadStorage
	payments      PaymentProvider

	locks *userLocks

	// Таблицы диспетчеризации по шагу сценария. Callback-данные несут
	// только выбор пользователя, маршрутизация идет по шагу из сессии.
	callbackSteps map[models.Step]callbackHandler
	textSteps     map[models.Step]textHandler
}

// Deps - зависимости сервиса бота.
type Deps struct {
	Telegram      TelegramClient
	Sessions      SessionStore
	Users         UserStorage
	Catalog       CatalogStorage
	Orders        OrderStorage
	Ledger        LedgerStorage
	Referrals     ReferralStorage
	Certificates  CertificateStorage
	Consents      ConsentStorage
	Attribution   AttributionStorage
	Feedback      FeedbackStorage
	Subscriptions SubscriptionStorage
	Threads       ThreadStorage
	Payments      PaymentProvider
}

// NewService - создает новый экземпляр основного сервиса бота
func NewService(deps Deps, cfg *config.AppConfig, logger *zap.Logger) (*Service, error) {
	location, err := time.LoadLocation(cfg.Business.Timezone)
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить часовой пояс %q: %w", cfg.Business.Timezone, err)
	}

	s := &Service{
		telegram: deps.Telegram,
		logger:   logger,
		cfg:      cfg,
		rules: pricing.Rules{
			FreeDeliveryThreshold:  cfg.Business.FreeDeliveryThreshold,
			DeliveryCost:           cfg.Business.DeliveryCost,
			BonusPercent:           cfg.Business.BonusPercent,
			BonusThreshold:         cfg.Business.BonusThreshold,
			MaxBonusPaymentPercent: cfg.Business.MaxBonusPaymentPercent,
		},
		location:      location,
		sessions:      deps.Sessions,
		users:         deps.Users,
		catalog:       deps.Catalog,
		orders:        deps.Orders,
		ledger:        deps.Ledger,
		referrals:     deps.Referrals,
		certificates:  deps.Certificates,
		consents:      deps.Consents,
		attribution:   deps.Attribution,
		feedback:      deps.Feedback,
		subscriptions: deps.Subscriptions,
		threads:       deps.Threads,
		payments:      deps.Payments,
		locks:         newUserLocks(),
	}

	s.callbackSteps = map[models.Step]callbackHandler{
		models.StepSalonCategory: s.salonCategoryChosen,
		models.StepSalonService:  s.salonServiceChosen,
		models.StepSalonDate:     s.salonDateChosen,
		models.StepSalonTime:     s.salonTimeChosen,
		models.StepSalonComment:  s.salonCommentSkipped,
		models.StepSalonPayment:  s.salonPaymentChosen,
		models.StepSalonConfirm:  s.salonConfirmed,

		models.StepFlowersCategory:     s.flowersCategoryChosen,
		models.StepFlowersItem:         s.flowersItemAction,
		models.StepFlowersCart:         s.flowersCartAction,
		models.StepFlowersDeliveryType: s.flowersDeliveryTypeChosen,
		models.StepFlowersAddress:      s.flowersAddressChosen,
		models.StepFlowersTime:         s.flowersTimeChosen,
		models.StepFlowersAnonymous:    s.flowersAnonymousChosen,
		models.StepFlowersCard:         s.flowersCardSkipped,
		models.StepFlowersPayment:      s.flowersPaymentChosen,
		models.StepFlowersConfirm:      s.flowersConfirmed,

		models.StepCertAmount:  s.certAmountChosen,
		models.StepCertConfirm: s.certConfirmed,
	}

	s.textSteps = map[models.Step]textHandler{
		models.StepSalonPhone:   s.salonPhoneEntered,
		models.StepSalonComment: s.salonCommentEntered,

		models.StepFlowersAddressInput: s.flowersAddressEntered,
		models.StepFlowersDateInput:    s.flowersDateEntered,
		models.StepFlowersTimeInput:    s.flowersTimeEntered,
		models.StepFlowersCard:         s.flowersCardEntered,
		models.StepFlowersRecipient:    s.flowersRecipientEntered,
		models.StepFlowersBonusInput:   s.flowersBonusEntered,

		models.StepCertAmountInput: s.certAmountEntered,
		models.StepCertRecipient:   s.certRecipientEntered,
	}

	return s, nil
}

// Start - запускает обработку сообщений и callback-запросов
func (s *Service) Start() error {
	messagesChan, callbacksChan, err := s.telegram.StartBot()
	if err != nil {
		s.logger.Error("ошибка при запуске бота",
			zap.Error(err),
		)
		return err
	}

	// Обрабатываем callback-запросы (нажатия на кнопки) в отдельной горутине
	go func() {
		for callback := range callbacksChan {
			go s.processCallback(callback)
		}
	}()

	// Обрабатываем сообщения от пользователей
	for message := range messagesChan {
		go s.processMessage(message)
	}

	return nil
}

// Обновления одного пользователя обрабатываются строго по одному.
func (s *Service) processMessage(message models.IncomingMessage) {
	unlock := s.locks.acquire(message.ChatID)
	defer unlock()

	s.logger.Info("получено сообщение",
		zap.Int64("chat_id", message.ChatID),
		zap.String("text", message.Text),
	)

	ctx := context.Background()
	if err := s.HandleMessage(ctx, message); err != nil {
		s.logger.Error("ошибка при обработке сообщения",
			zap.Error(err),
			zap.Int64("chat_id", message.ChatID),
		)
		s.sendError(message.ChatID)
	}
}

func (s *Service) processCallback(callback models.CallbackQuery) {
	unlock := s.locks.acquire(callback.UserID)
	defer unlock()

	s.logger.Info("получен callback-запрос",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.UserID),
	)

	ctx := context.Background()
	if err := s.HandleCallback(ctx, callback); err != nil {
		s.logger.Error("ошибка при обработке callback-запроса",
			zap.Error(err),
			zap.Int64("user_id", callback.UserID),
			zap.String("data", callback.Data),
		)
		s.sendError(callback.ChatID)
	}
}

// Ошибка пользователю показывается одинаково, детали остаются в логах.
func (s *Service) sendError(chatID int64) {
	msg := "Произошла ошибка. Попробуйте позже или напишите администратору."
	if err := s.telegram.SendMessage(chatID, msg); err != nil {
		s.logger.Error("не удалось отправить сообщение об ошибке",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
	}
}
