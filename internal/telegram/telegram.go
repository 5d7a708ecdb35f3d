package telegram

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type TelegramClient struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
}

func NewTelegramClient(token string, logger *zap.Logger) (*TelegramClient, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать Telegram-клиент: %w", err)
	}

	logger.Info("Telegram-клиент авторизован", zap.String("username", bot.Self.UserName))
	return &TelegramClient{
		bot:    bot,
		logger: logger,
	}, nil
}

func (t *TelegramClient) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramClient) SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramClient) SendMessageWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := t.bot.Send(msg)
	return err
}

// SendPhotoWithInlineKeyboard отправляет карточку товара с фото.
func (t *TelegramClient) SendPhotoWithInlineKeyboard(chatID int64, photoURL, caption string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	msg.Caption = caption
	msg.ReplyMarkup = keyboard
	_, err := t.bot.Send(msg)
	return err
}

// RemoveKeyboard убирает reply-клавиатуру (например, кнопку контакта).
func (t *TelegramClient) RemoveKeyboard(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramClient) EditMessageText(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	editMsg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	editMsg.ReplyMarkup = &keyboard

	_, err := t.bot.Send(editMsg)
	return err
}

// CreateForumTopic создает топик в супергруппе администраторов.
// Библиотека этот метод Bot API еще не знает, поэтому зовем его напрямую.
func (t *TelegramClient) CreateForumTopic(groupID int64, name string) (int, error) {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", groupID)
	params.AddNonEmpty("name", name)

	resp, err := t.bot.MakeRequest("createForumTopic", params)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать топик: %w", err)
	}

	var topic struct {
		MessageThreadID int `json:"message_thread_id"`
	}
	if err := json.Unmarshal(resp.Result, &topic); err != nil {
		return 0, fmt.Errorf("не удалось разобрать ответ createForumTopic: %w", err)
	}

	t.logger.Info("Создан топик в админ-группе",
		zap.Int("thread_id", topic.MessageThreadID),
		zap.String("name", name),
	)
	return topic.MessageThreadID, nil
}

// SendToThread отправляет сообщение в топик админ-группы.
func (t *TelegramClient) SendToThread(groupID int64, threadID int, text string) error {
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", groupID)
	params.AddNonZero("message_thread_id", threadID)
	params.AddNonEmpty("text", text)

	_, err := t.bot.MakeRequest("sendMessage", params)
	return err
}

// Единый метод обработки обновлений
func (t *TelegramClient) StartBot() (chan models.IncomingMessage, chan models.CallbackQuery, error) {
	// Удаляем вебхук перед запуском Long Polling
	_, err := t.bot.Request(tgbotapi.DeleteWebhookConfig{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to delete webhook: %w", err)
	}

	// Пауза для стабилизации соединения
	time.Sleep(1 * time.Second)

	// Создаем каналы для обычных сообщений и callback-запросов
	messages := make(chan models.IncomingMessage)
	callbackQueries := make(chan models.CallbackQuery)

	// Настраиваем получение обновлений
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)

	// Запускаем горутину для обработки обновлений
	go func() {
		for update := range updates {
			// Обработка обычных сообщений
			if update.Message != nil && update.Message.From != nil {
				incoming := models.IncomingMessage{
					ChatID:    update.Message.Chat.ID,
					Text:      update.Message.Text,
					Username:  update.Message.From.UserName,
					FirstName: update.Message.From.FirstName,
				}

				if update.Message.Contact != nil {
					incoming.ContactPhone = update.Message.Contact.PhoneNumber
				}

				messages <- incoming
			}

			// Обработка callback-запросов (нажатий на инлайн-кнопки)
			if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
				userName := update.CallbackQuery.From.FirstName
				if update.CallbackQuery.From.LastName != "" {
					userName += " " + update.CallbackQuery.From.LastName
				}

				callbackQueries <- models.CallbackQuery{
					ID:        update.CallbackQuery.ID,
					UserID:    update.CallbackQuery.From.ID,
					UserName:  userName,
					UserLogin: update.CallbackQuery.From.UserName,
					MessageID: update.CallbackQuery.Message.MessageID,
					ChatID:    update.CallbackQuery.Message.Chat.ID,
					Data:      update.CallbackQuery.Data,
				}

				// Отправляем ответ на callback, чтобы убрать индикатор загрузки у кнопки
				callbackCfg := tgbotapi.NewCallback(update.CallbackQuery.ID, "")
				if _, err := t.bot.Request(callbackCfg); err != nil {
					t.logger.Warn("Не удалось ответить на callback",
						zap.Error(err),
						zap.String("callback_id", update.CallbackQuery.ID),
					)
				}
			}
		}
	}()

	return messages, callbackQueries, nil
}
