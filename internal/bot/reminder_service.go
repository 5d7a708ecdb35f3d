package bot

import (
	"fmt"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/config"

	"go.uber.org/zap"
)

// ReminderService напоминает администраторам о топиках, в которых
// клиент ждет ответа дольше порога.
type ReminderService struct {
	threads     ThreadStorage
	telegram    TelegramClient
	logger      *zap.Logger
	groupID     int64
	adminID     int64
	checkPeriod time.Duration // период проверки топиков
	nudgeAfter  time.Duration // порог ожидания ответа клиентом
}

// NewReminderService создает новый сервис напоминаний
func NewReminderService(
	threads ThreadStorage,
	telegram TelegramClient,
	cfg *config.AppConfig,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		threads:     threads,
		telegram:    telegram,
		logger:      logger,
		groupID:     cfg.Telegram.AdminGroupID,
		adminID:     cfg.Telegram.AdminID,
		checkPeriod: time.Duration(cfg.Reminders.CheckPeriodMinutes) * time.Minute,
		nudgeAfter:  time.Duration(cfg.Reminders.AdminNudgeMinutes) * time.Minute,
	}
}

// Start запускает сервис напоминаний
func (s *ReminderService) Start() {
	s.logger.Info("Запуск сервиса напоминаний администраторам")
	go s.reminderLoop()
}

func (s *ReminderService) reminderLoop() {
	ticker := time.NewTicker(s.checkPeriod)
	defer ticker.Stop()

	for range ticker.C {
		s.checkAndNudge()
	}
}

func (s *ReminderService) checkAndNudge() {
	s.logger.Debug("Проверка топиков без ответа")

	threads, err := s.threads.Stale(time.Now().Add(-s.nudgeAfter))
	if err != nil {
		s.logger.Error("Ошибка при поиске топиков без ответа", zap.Error(err))
		return
	}

	if len(threads) == 0 {
		return
	}

	s.logger.Info("Найдены топики без ответа", zap.Int("count", len(threads)))

	for _, thread := range threads {
		s.sendNudge(thread.UserID, thread.ThreadID, thread.UserName)
	}
}

// Напоминание пишется в сам топик; если группы нет - администратору.
func (s *ReminderService) sendNudge(userID int64, threadID int, userName string) {
	text := fmt.Sprintf("⏰ Клиент %s ждет ответа. Пожалуйста, загляните в диалог.", userName)

	var err error
	if s.groupID != 0 {
		err = s.telegram.SendToThread(s.groupID, threadID, text)
	} else {
		err = s.telegram.SendMessage(s.adminID, text)
	}
	if err != nil {
		s.logger.Error("Ошибка при отправке напоминания",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return
	}

	if err := s.threads.MarkNudgeSent(userID); err != nil {
		s.logger.Error("Ошибка при отметке напоминания",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return
	}

	s.logger.Info("Напоминание отправлено",
		zap.Int64("user_id", userID),
		zap.Int("thread_id", threadID),
	)
}
