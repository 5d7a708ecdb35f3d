package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/database"
	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"go.uber.org/zap"
)

// postToUserThread отправляет сообщение в топик пользователя в
// админ-группе, создавая топик при первом обращении. Если группа не
// настроена, сообщение уходит администратору в личку.
func (s *Service) postToUserThread(userID int64, userName, text string, fromClient bool) error {
	groupID := s.cfg.Telegram.AdminGroupID
	if groupID == 0 {
		if s.cfg.Telegram.AdminID == 0 {
			return fmt.Errorf("админ-группа и администратор не настроены")
		}
		return s.telegram.SendMessage(s.cfg.Telegram.AdminID, text)
	}

	thread, err := s.threads.Get(userID)
	if errors.Is(err, database.ErrNotFound) {
		thread, err = s.createUserThread(userID, userName)
	}
	if err != nil {
		return err
	}

	if err := s.telegram.SendToThread(groupID, thread.ThreadID, text); err != nil {
		// Топик могли удалить руками - пробуем пересоздать один раз
		s.logger.Warn("не удалось отправить в топик, пересоздаем",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int("thread_id", thread.ThreadID),
		)

		thread, err = s.createUserThread(userID, userName)
		if err != nil {
			return err
		}
		if err := s.telegram.SendToThread(groupID, thread.ThreadID, text); err != nil {
			return err
		}
	}

	if fromClient {
		if err := s.threads.TouchClientMessage(userID, time.Now()); err != nil {
			s.logger.Error("ошибка при обновлении времени сообщения",
				zap.Error(err),
				zap.Int64("user_id", userID),
			)
		}
	}

	return nil
}

func (s *Service) createUserThread(userID int64, userName string) (models.AdminThread, error) {
	if userName == "" {
		userName = fmt.Sprintf("Клиент %d", userID)
	}

	threadID, err := s.telegram.CreateForumTopic(s.cfg.Telegram.AdminGroupID, userName)
	if err != nil {
		return models.AdminThread{}, err
	}

	thread := models.AdminThread{
		UserID:   userID,
		ThreadID: threadID,
		UserName: userName,
	}
	if err := s.threads.Save(thread); err != nil {
		return models.AdminThread{}, err
	}

	return thread, nil
}
