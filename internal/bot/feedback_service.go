package bot

import (
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/config"

	"go.uber.org/zap"
)

// FeedbackService отправляет отложенные просьбы оставить отзыв.
type FeedbackService struct {
	feedback    FeedbackStorage
	telegram    TelegramClient
	logger      *zap.Logger
	reviewLinks map[string]string
	checkPeriod time.Duration
	enabled     bool
}

// NewFeedbackService создает новый сервис запросов отзыва
func NewFeedbackService(
	feedback FeedbackStorage,
	telegram TelegramClient,
	cfg *config.AppConfig,
	logger *zap.Logger,
) *FeedbackService {
	return &FeedbackService{
		feedback:    feedback,
		telegram:    telegram,
		logger:      logger,
		reviewLinks: cfg.Business.ReviewLinks,
		checkPeriod: time.Duration(cfg.Feedback.CheckPeriodMinutes) * time.Minute,
		enabled:     cfg.Feedback.Enabled,
	}
}

// Start запускает сервис запросов отзыва
func (s *FeedbackService) Start() {
	if !s.enabled {
		s.logger.Info("Сервис запросов отзыва выключен")
		return
	}

	s.logger.Info("Запуск сервиса запросов отзыва")
	go s.feedbackLoop()
}

func (s *FeedbackService) feedbackLoop() {
	ticker := time.NewTicker(s.checkPeriod)
	defer ticker.Stop()

	for range ticker.C {
		s.sendDueRequests()
	}
}

func (s *FeedbackService) sendDueRequests() {
	requests, err := s.feedback.Due(time.Now())
	if err != nil {
		s.logger.Error("Ошибка при получении запросов отзыва", zap.Error(err))
		return
	}

	for _, request := range requests {
		text := "🌸 Спасибо, что были у нас! Поделитесь, пожалуйста, впечатлениями - это очень помогает."
		for name, link := range s.reviewLinks {
			text += "\n• " + name + ": " + link
		}

		if err := s.telegram.SendMessage(request.UserID, text); err != nil {
			s.logger.Error("Ошибка при отправке запроса отзыва",
				zap.Error(err),
				zap.Int64("user_id", request.UserID),
				zap.Int64("request_id", request.ID),
			)
			continue
		}

		if err := s.feedback.MarkSent(request.ID); err != nil {
			s.logger.Error("Ошибка при отметке запроса отзыва",
				zap.Error(err),
				zap.Int64("request_id", request.ID),
			)
			continue
		}

		s.logger.Info("Запрос отзыва отправлен",
			zap.Int64("user_id", request.UserID),
			zap.Int64("request_id", request.ID),
		)
	}
}
