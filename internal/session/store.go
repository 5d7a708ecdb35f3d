// Package session хранит переходное состояние диалогов в Redis.
// Сессии переживают перезапуск бота: пользователь продолжает сценарий
// с того же шага.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/config"
	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Брошенные сессии вычищаются сами по TTL.
const sessionTTL = 7 * 24 * time.Hour

// Store - хранилище сессий поверх Redis.
type Store struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewStore подключается к Redis и проверяет соединение.
func NewStore(cfg config.Redis, logger *zap.Logger) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Ошибка подключения к Redis", zap.Error(err))
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	logger.Info("Успешное подключение к Redis")
	return &Store{rdb: rdb, logger: logger}, nil
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

// Get возвращает сессию пользователя либо nil, если диалог не начат.
func (s *Store) Get(ctx context.Context, userID int64) (*models.Session, error) {
	data, err := s.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		s.logger.Error("Ошибка при чтении сессии",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, err
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Нечитаемая сессия бесполезна: забываем ее и начинаем заново.
		s.logger.Warn("Сессия повреждена, удаляем",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		s.rdb.Del(ctx, sessionKey(userID))
		return nil, nil
	}

	return &session, nil
}

// Put сохраняет сессию, продлевая ее TTL.
func (s *Store) Put(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать сессию: %w", err)
	}

	if err := s.rdb.Set(ctx, sessionKey(session.UserID), data, sessionTTL).Err(); err != nil {
		s.logger.Error("Ошибка при сохранении сессии",
			zap.Error(err),
			zap.Int64("user_id", session.UserID),
		)
		return err
	}

	return nil
}

// Delete уничтожает сессию: диалог завершен или отменен.
func (s *Store) Delete(ctx context.Context, userID int64) error {
	if err := s.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		s.logger.Error("Ошибка при удалении сессии",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return err
	}

	return nil
}

// Close закрывает соединение с Redis.
func (s *Store) Close() error {
	return s.rdb.Close()
}
