package bot

import (
	"context"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramClient - интерфейс для взаимодействия с Telegram API
type TelegramClient interface {
	// Базовые методы отправки сообщений
	SendMessage(chatID int64, text string) error
	SendMessageWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) error
	SendMessageWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error
	SendPhotoWithInlineKeyboard(chatID int64, photoURL, caption string, keyboard tgbotapi.InlineKeyboardMarkup) error
	RemoveKeyboard(chatID int64, text string) error
	EditMessageText(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) error

	// Методы для работы с топиками админ-группы
	CreateForumTopic(groupID int64, name string) (int, error)
	SendToThread(groupID int64, threadID int, text string) error

	// Метод для получения обновлений
	StartBot() (chan models.IncomingMessage, chan models.CallbackQuery, error)
}

// SessionStore - хранилище диалоговых сессий.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*models.Session, error)
	Put(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, userID int64) error
}

// UserStorage - пользователи и их адреса.
type UserStorage interface {
	Register(user models.User) (models.User, bool, error)
	GetUser(userID int64) (models.User, error)
	GetUserByReferralCode(code string) (models.User, error)
	UpdatePhone(userID int64, phone string) error
	SaveAddress(userID int64, address string, isDefault bool) error
	GetAddresses(userID int64) ([]models.Address, error)
}

// CatalogStorage - каталог услуг и товаров.
type CatalogStorage interface {
	ServiceCategories() ([]string, error)
	ServicesByCategory(category string) ([]models.Service, error)
	GetService(id int64) (models.Service, error)
	ProductCategories() ([]string, error)
	ProductsByCategory(category string) ([]models.Product, error)
	GetProduct(id int64) (models.Product, error)
}

// OrderStorage - записи в салон и заказы цветов.
type OrderStorage interface {
	CreateAppointment(appt models.SalonAppointment) (int64, error)
	CreateFlowerOrder(order models.FlowerOrder) (int64, error)
	GetAppointment(id int64) (models.SalonAppointment, error)
	GetFlowerOrder(id int64) (models.FlowerOrder, error)
	UserAppointments(userID int64, limit int) ([]models.SalonAppointment, error)
	UserFlowerOrders(userID int64, limit int) ([]models.FlowerOrder, error)
}

// LedgerStorage - бонусный счет.
type LedgerStorage interface {
	Credit(userID int64, points int, description string) error
	Balance(userID int64) (int, error)
	Transactions(userID int64, limit int) ([]models.LoyaltyTransaction, error)
}

// ReferralStorage - реферальная программа.
type ReferralStorage interface {
	GetSettings() (models.ReferralSettings, error)
	Award(referrerID, referredID, orderID int64, orderAmount int) (*models.ReferralReward, error)
	ReferralCount(referrerID int64) (int, error)
}

// CertificateStorage - подарочные сертификаты.
type CertificateStorage interface {
	Create(buyerID int64, amount int, recipient string) (models.Certificate, error)
}

// ConsentStorage - журнал согласий.
type ConsentStorage interface {
	Append(record models.ConsentRecord) error
}

// AttributionStorage - счетчики рекламных кампаний.
type AttributionStorage interface {
	RecordClick(utm models.UTMParams) error
	RecordRegistration(utm models.UTMParams) error
	RecordConversion(utm models.UTMParams, amount int) error
}

// FeedbackStorage - очередь запросов отзыва.
type FeedbackStorage interface {
	Schedule(userID int64, orderType string, orderID int64, at time.Time) error
	Due(now time.Time) ([]models.FeedbackRequest, error)
	MarkSent(id int64) error
}

// SubscriptionStorage - подписки пользователей.
type SubscriptionStorage interface {
	Active(userID int64, today string) (*models.Subscription, error)
}

// ThreadStorage - топики пользователей в админ-группе.
type ThreadStorage interface {
	Get(userID int64) (models.AdminThread, error)
	Save(thread models.AdminThread) error
	TouchClientMessage(userID int64, at time.Time) error
	Stale(cutoff time.Time) ([]models.AdminThread, error)
	MarkNudgeSent(userID int64) error
}

// PaymentProvider - внешний платежный провайдер.
type PaymentProvider interface {
	CreatePayment(amount int, description string) (string, error)
}
