package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/database"
	"github.com/Vital7472/beauty-salon-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Фейки хранилищ для тестов сценариев. Поведение повторяет контракты
// боевых репозиториев, состояние живет в памяти.

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeTelegram struct {
	sent      []sentMessage
	threadMsg []sentMessage
	topicSeq  int
}

func (f *fakeTelegram) record(chatID int64, text string) error {
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (f *fakeTelegram) SendMessage(chatID int64, text string) error { return f.record(chatID, text) }
func (f *fakeTelegram) SendMessageWithKeyboard(chatID int64, text string, _ tgbotapi.ReplyKeyboardMarkup) error {
	return f.record(chatID, text)
}
func (f *fakeTelegram) SendMessageWithInlineKeyboard(chatID int64, text string, _ tgbotapi.InlineKeyboardMarkup) error {
	return f.record(chatID, text)
}
func (f *fakeTelegram) SendPhotoWithInlineKeyboard(chatID int64, _, caption string, _ tgbotapi.InlineKeyboardMarkup) error {
	return f.record(chatID, caption)
}
func (f *fakeTelegram) RemoveKeyboard(chatID int64, text string) error {
	return f.record(chatID, text)
}
func (f *fakeTelegram) EditMessageText(chatID int64, _ int, text string, _ tgbotapi.InlineKeyboardMarkup) error {
	return f.record(chatID, text)
}

func (f *fakeTelegram) CreateForumTopic(int64, string) (int, error) {
	f.topicSeq++
	return f.topicSeq, nil
}

func (f *fakeTelegram) SendToThread(groupID int64, _ int, text string) error {
	f.threadMsg = append(f.threadMsg, sentMessage{ChatID: groupID, Text: text})
	return nil
}

func (f *fakeTelegram) StartBot() (chan models.IncomingMessage, chan models.CallbackQuery, error) {
	return nil, nil, nil
}

// lastTo возвращает последнее сообщение пользователю.
func (f *fakeTelegram) lastTo(chatID int64) string {
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].ChatID == chatID {
			return f.sent[i].Text
		}
	}
	return ""
}

type fakeSessions struct {
	store map[int64]*models.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{store: make(map[int64]*models.Session)}
}

func (f *fakeSessions) Get(_ context.Context, userID int64) (*models.Session, error) {
	session, ok := f.store[userID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessions) Put(_ context.Context, session *models.Session) error {
	copied := *session
	f.store[session.UserID] = &copied
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, userID int64) error {
	delete(f.store, userID)
	return nil
}

type fakeUsers struct {
	users     map[int64]models.User
	addresses map[int64][]models.Address
	phones    map[int64]string
	refSeq    int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:     make(map[int64]models.User),
		addresses: make(map[int64][]models.Address),
		phones:    make(map[int64]string),
	}
}

func (f *fakeUsers) Register(user models.User) (models.User, bool, error) {
	if existing, ok := f.users[user.UserID]; ok {
		existing.Username = user.Username
		existing.FirstName = user.FirstName
		f.users[user.UserID] = existing
		return existing, false, nil
	}

	f.refSeq++
	user.ReferralCode = fmt.Sprintf("REFTST%03d", f.refSeq)
	user.CreatedAt = time.Now()
	f.users[user.UserID] = user
	return user, true, nil
}

func (f *fakeUsers) GetUser(userID int64) (models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return models.User{}, database.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) GetUserByReferralCode(code string) (models.User, error) {
	for _, user := range f.users {
		if user.ReferralCode == code {
			return user, nil
		}
	}
	return models.User{}, database.ErrNotFound
}

func (f *fakeUsers) UpdatePhone(userID int64, phone string) error {
	f.phones[userID] = phone
	if user, ok := f.users[userID]; ok {
		user.Phone = phone
		f.users[userID] = user
	}
	return nil
}

func (f *fakeUsers) SaveAddress(userID int64, address string, isDefault bool) error {
	f.addresses[userID] = append(f.addresses[userID], models.Address{
		ID:        int64(len(f.addresses[userID]) + 1),
		UserID:    userID,
		Address:   address,
		IsDefault: isDefault,
	})
	return nil
}

func (f *fakeUsers) GetAddresses(userID int64) ([]models.Address, error) {
	return f.addresses[userID], nil
}

type fakeCatalog struct {
	services []models.Service
	products []models.Product
}

func (f *fakeCatalog) ServiceCategories() ([]string, error) {
	seen := map[string]bool{}
	var categories []string
	for _, service := range f.services {
		if !seen[service.Category] {
			seen[service.Category] = true
			categories = append(categories, service.Category)
		}
	}
	return categories, nil
}

func (f *fakeCatalog) ServicesByCategory(category string) ([]models.Service, error) {
	var result []models.Service
	for _, service := range f.services {
		if service.Category == category {
			result = append(result, service)
		}
	}
	return result, nil
}

func (f *fakeCatalog) GetService(id int64) (models.Service, error) {
	for _, service := range f.services {
		if service.ID == id {
			return service, nil
		}
	}
	return models.Service{}, database.ErrNotFound
}

func (f *fakeCatalog) ProductCategories() ([]string, error) {
	seen := map[string]bool{}
	var categories []string
	for _, product := range f.products {
		if !seen[product.Category] {
			seen[product.Category] = true
			categories = append(categories, product.Category)
		}
	}
	return categories, nil
}

func (f *fakeCatalog) ProductsByCategory(category string) ([]models.Product, error) {
	var result []models.Product
	for _, product := range f.products {
		if product.Category == category && product.Active && product.InStock {
			result = append(result, product)
		}
	}
	return result, nil
}

func (f *fakeCatalog) GetProduct(id int64) (models.Product, error) {
	for _, product := range f.products {
		if product.ID == id {
			return product, nil
		}
	}
	return models.Product{}, database.ErrNotFound
}

type fakeOrders struct {
	appointments []models.SalonAppointment
	flowerOrders []models.FlowerOrder

	// failInsufficientOnce заставляет следующий CreateFlowerOrder
	// отклонить заказ из-за нехватки бонусов.
	failInsufficientOnce bool
}

func (f *fakeOrders) CreateAppointment(appt models.SalonAppointment) (int64, error) {
	appt.ID = int64(len(f.appointments) + 1)
	appt.Status = models.AppointmentStatusPending
	f.appointments = append(f.appointments, appt)
	return appt.ID, nil
}

func (f *fakeOrders) CreateFlowerOrder(order models.FlowerOrder) (int64, error) {
	if f.failInsufficientOnce {
		f.failInsufficientOnce = false
		return 0, database.ErrInsufficientBonus
	}
	order.ID = int64(len(f.flowerOrders) + 1)
	order.Status = models.FlowerOrderStatusNew
	f.flowerOrders = append(f.flowerOrders, order)
	return order.ID, nil
}

func (f *fakeOrders) GetAppointment(id int64) (models.SalonAppointment, error) {
	for _, appt := range f.appointments {
		if appt.ID == id {
			return appt, nil
		}
	}
	return models.SalonAppointment{}, database.ErrNotFound
}

func (f *fakeOrders) GetFlowerOrder(id int64) (models.FlowerOrder, error) {
	for _, order := range f.flowerOrders {
		if order.ID == id {
			return order, nil
		}
	}
	return models.FlowerOrder{}, database.ErrNotFound
}

func (f *fakeOrders) UserAppointments(userID int64, limit int) ([]models.SalonAppointment, error) {
	var result []models.SalonAppointment
	for _, appt := range f.appointments {
		if appt.UserID == userID && len(result) < limit {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (f *fakeOrders) UserFlowerOrders(userID int64, limit int) ([]models.FlowerOrder, error) {
	var result []models.FlowerOrder
	for _, order := range f.flowerOrders {
		if order.UserID == userID && len(result) < limit {
			result = append(result, order)
		}
	}
	return result, nil
}

type fakeLedger struct {
	balances     map[int64]int
	transactions []models.LoyaltyTransaction
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[int64]int)}
}

func (f *fakeLedger) Credit(userID int64, points int, description string) error {
	f.balances[userID] += points
	f.transactions = append(f.transactions, models.LoyaltyTransaction{
		ID:          int64(len(f.transactions) + 1),
		UserID:      userID,
		Points:      points,
		Description: description,
	})
	return nil
}

func (f *fakeLedger) Balance(userID int64) (int, error) {
	return f.balances[userID], nil
}

func (f *fakeLedger) Transactions(userID int64, limit int) ([]models.LoyaltyTransaction, error) {
	var result []models.LoyaltyTransaction
	for i := len(f.transactions) - 1; i >= 0 && len(result) < limit; i-- {
		if f.transactions[i].UserID == userID {
			result = append(result, f.transactions[i])
		}
	}
	return result, nil
}

type awardCall struct {
	ReferrerID  int64
	ReferredID  int64
	OrderID     int64
	OrderAmount int
}

type fakeReferrals struct {
	settings models.ReferralSettings
	awards   []awardCall
	reward   *models.ReferralReward
}

func (f *fakeReferrals) GetSettings() (models.ReferralSettings, error) {
	return f.settings, nil
}

func (f *fakeReferrals) Award(referrerID, referredID, orderID int64, orderAmount int) (*models.ReferralReward, error) {
	f.awards = append(f.awards, awardCall{referrerID, referredID, orderID, orderAmount})
	return f.reward, nil
}

func (f *fakeReferrals) ReferralCount(int64) (int, error) {
	return len(f.awards), nil
}

type fakeCertificates struct {
	created []models.Certificate
}

func (f *fakeCertificates) Create(buyerID int64, amount int, recipient string) (models.Certificate, error) {
	cert := models.Certificate{
		ID:        int64(len(f.created) + 1),
		Code:      fmt.Sprintf("CERT-TEST-%04d", len(f.created)+1),
		Amount:    amount,
		BuyerID:   buyerID,
		Recipient: recipient,
		Status:    models.CertificateStatusActive,
	}
	f.created = append(f.created, cert)
	return cert, nil
}

type fakeConsents struct {
	records []models.ConsentRecord
}

func (f *fakeConsents) Append(record models.ConsentRecord) error {
	f.records = append(f.records, record)
	return nil
}

type conversion struct {
	UTM    models.UTMParams
	Amount int
}

type fakeAttribution struct {
	clicks        []models.UTMParams
	registrations []models.UTMParams
	conversions   []conversion
}

func (f *fakeAttribution) RecordClick(utm models.UTMParams) error {
	f.clicks = append(f.clicks, utm)
	return nil
}

func (f *fakeAttribution) RecordRegistration(utm models.UTMParams) error {
	f.registrations = append(f.registrations, utm)
	return nil
}

func (f *fakeAttribution) RecordConversion(utm models.UTMParams, amount int) error {
	f.conversions = append(f.conversions, conversion{UTM: utm, Amount: amount})
	return nil
}

type scheduledFeedback struct {
	UserID    int64
	OrderType string
	OrderID   int64
	At        time.Time
}

type fakeFeedback struct {
	scheduled []scheduledFeedback
}

func (f *fakeFeedback) Schedule(userID int64, orderType string, orderID int64, at time.Time) error {
	f.scheduled = append(f.scheduled, scheduledFeedback{userID, orderType, orderID, at})
	return nil
}

func (f *fakeFeedback) Due(time.Time) ([]models.FeedbackRequest, error) {
	return nil, nil
}

func (f *fakeFeedback) MarkSent(int64) error { return nil }

type fakeSubscriptions struct {
	sub *models.Subscription
}

func (f *fakeSubscriptions) Active(int64, string) (*models.Subscription, error) {
	return f.sub, nil
}

type fakeThreads struct {
	threads map[int64]models.AdminThread
}

func newFakeThreads() *fakeThreads {
	return &fakeThreads{threads: make(map[int64]models.AdminThread)}
}

func (f *fakeThreads) Get(userID int64) (models.AdminThread, error) {
	thread, ok := f.threads[userID]
	if !ok {
		return models.AdminThread{}, database.ErrNotFound
	}
	return thread, nil
}

func (f *fakeThreads) Save(thread models.AdminThread) error {
	f.threads[thread.UserID] = thread
	return nil
}

func (f *fakeThreads) TouchClientMessage(userID int64, at time.Time) error {
	if thread, ok := f.threads[userID]; ok {
		thread.LastClientMessageAt = at
		thread.NudgeSent = false
		f.threads[userID] = thread
	}
	return nil
}

func (f *fakeThreads) Stale(time.Time) ([]models.AdminThread, error) { return nil, nil }

func (f *fakeThreads) MarkNudgeSent(userID int64) error {
	if thread, ok := f.threads[userID]; ok {
		thread.NudgeSent = true
		f.threads[userID] = thread
	}
	return nil
}

type fakePayments struct {
	link string
	err  error
}

func (f *fakePayments) CreatePayment(int, string) (string, error) {
	return f.link, f.err
}
