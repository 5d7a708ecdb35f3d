package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/models"
	"github.com/Vital7472/beauty-salon-bot/internal/pricing"
	"github.com/Vital7472/beauty-salon-bot/internal/utils"

	"go.uber.org/zap"
)

// startSalonFlow - вход в сценарий записи в салон.
func (s *Service) startSalonFlow(ctx context.Context, callback models.CallbackQuery) error {
	categories, err := s.catalog.ServiceCategories()
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return s.telegram.SendMessage(callback.UserID, "Каталог услуг пока пуст, загляните позже 🌸")
	}

	session := &models.Session{
		UserID: callback.UserID,
		Flow:   models.FlowSalon,
		Step:   models.StepSalonCategory,
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
		"💇‍♀️ Выберите категорию услуг:", categoriesKeyboard("cat", categories))
}

func (s *Service) salonCategoryChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	category, ok := strings.CutPrefix(callback.Data, "cat:")
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите категорию кнопкой выше.")
	}

	services, err := s.catalog.ServicesByCategory(category)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		return s.telegram.SendMessage(callback.UserID, "В этой категории пока нет услуг.")
	}

	session.Salon.Category = category
	session.Step = models.StepSalonService
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
		fmt.Sprintf("Категория «%s». Выберите услугу:", category), servicesKeyboard(services))
}

func (s *Service) salonServiceChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	raw, ok := strings.CutPrefix(callback.Data, "service:")
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите услугу кнопкой выше.")
	}

	serviceID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("некорректный идентификатор услуги %q: %w", raw, err)
	}

	service, err := s.catalog.GetService(serviceID)
	if err != nil {
		return err
	}

	// Снимок услуги: смена цены в каталоге не влияет на начатую запись
	session.Salon.Service = &service
	session.Step = models.StepSalonDate
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	text := fmt.Sprintf("«%s», %s", service.Name, utils.FormatPrice(service.Price))
	if priced := s.priceService(callback.UserID, service.Price); priced.DiscountPercent > 0 {
		text += fmt.Sprintf("\n💎 По подписке «%s»: %s (скидка %d%%)",
			priced.PlanName, utils.FormatPrice(priced.FinalPrice), priced.DiscountPercent)
	}
	text += "\n\n📅 Выберите дату:"

	return s.telegram.SendMessageWithInlineKeyboard(callback.UserID, text,
		calendarKeyboard(time.Now(), s.location))
}

func (s *Service) salonDateChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	date, ok := strings.CutPrefix(callback.Data, "date:")
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите дату кнопкой выше.")
	}

	// Кнопка могла остаться в старом сообщении
	if date < time.Now().In(s.location).Format("2006-01-02") {
		return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
			"Эта дата уже прошла. Выберите другую:", calendarKeyboard(time.Now(), s.location))
	}

	session.Salon.Date = date
	session.Step = models.StepSalonTime
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
		fmt.Sprintf("📅 %s. Выберите время:", utils.FormatDate(date)), timeSlotsKeyboard())
}

func (s *Service) salonTimeChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	slot, ok := strings.CutPrefix(callback.Data, "time:")
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите время кнопкой выше.")
	}

	session.Salon.TimeSlot = slot

	// Сохраненный телефон спрашивать заново не нужно
	user, err := s.users.GetUser(callback.UserID)
	if err == nil && user.Phone != "" {
		session.Salon.Phone = user.Phone
		session.Step = models.StepSalonComment
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
			"💬 Комментарий к записи (или пропустите):", skipCommentKeyboard())
	}

	session.Step = models.StepSalonPhone
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithKeyboard(callback.UserID,
		"📱 Оставьте номер телефона: поделитесь контактом или введите вручную.\n"+
			"Отправляя номер, вы соглашаетесь на обработку персональных данных.",
		contactKeyboard())
}

func (s *Service) salonPhoneEntered(ctx context.Context, session *models.Session, message models.IncomingMessage) error {
	var phone string
	var consentType string

	if message.ContactPhone != "" {
		phone = utils.FormatPhone(message.ContactPhone)
		consentType = models.ConsentContactShare
	} else {
		if !utils.ValidatePhone(message.Text) {
			return s.telegram.SendMessage(message.ChatID,
				"Не похоже на номер телефона. Пример: +7 999 123-45-67")
		}
		phone = utils.FormatPhone(message.Text)
		consentType = models.ConsentManualPhoneInput
	}

	if err := s.users.UpdatePhone(message.ChatID, phone); err != nil {
		return err
	}
	s.appendConsent(message.ChatID, message.FirstName, phone, consentType)

	session.Salon.Phone = phone
	session.Step = models.StepSalonComment
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	if err := s.telegram.RemoveKeyboard(message.ChatID, fmt.Sprintf("✅ Номер %s сохранен.", phone)); err != nil {
		return err
	}
	return s.telegram.SendMessageWithInlineKeyboard(message.ChatID,
		"💬 Комментарий к записи (или пропустите):", skipCommentKeyboard())
}

func (s *Service) salonCommentEntered(ctx context.Context, session *models.Session, message models.IncomingMessage) error {
	session.Salon.Comment = strings.TrimSpace(message.Text)
	return s.salonAskPayment(ctx, session)
}

func (s *Service) salonCommentSkipped(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	if callback.Data != "skip" {
		return s.telegram.SendMessage(callback.UserID, "Введите комментарий или нажмите «Пропустить».")
	}
	return s.salonAskPayment(ctx, session)
}

func (s *Service) salonAskPayment(ctx context.Context, session *models.Session) error {
	session.Step = models.StepSalonPayment
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(session.UserID,
		"💳 Как вам удобнее оплатить?", paymentKeyboard())
}

func (s *Service) salonPaymentChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	choice, ok := strings.CutPrefix(callback.Data, "pay:")
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите способ оплаты кнопкой выше.")
	}

	session.Salon.PaymentOnline = choice == "online"
	session.Step = models.StepSalonConfirm
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
		s.salonSummary(session), confirmKeyboard())
}

func (s *Service) salonSummary(session *models.Session) string {
	service := session.Salon.Service

	var b strings.Builder
	b.WriteString("📋 Проверьте запись:\n\n")
	fmt.Fprintf(&b, "💇‍♀️ Услуга: %s\n", service.Name)
	fmt.Fprintf(&b, "📅 Дата: %s\n", utils.FormatDate(session.Salon.Date))
	fmt.Fprintf(&b, "🕐 Время: %s\n", session.Salon.TimeSlot)
	fmt.Fprintf(&b, "📱 Телефон: %s\n", session.Salon.Phone)
	if session.Salon.Comment != "" {
		fmt.Fprintf(&b, "💬 Комментарий: %s\n", session.Salon.Comment)
	}

	priced := s.priceService(session.UserID, service.Price)
	if priced.DiscountPercent > 0 {
		fmt.Fprintf(&b, "\n💰 Стоимость: %s", utils.FormatPrice(priced.FinalPrice))
		fmt.Fprintf(&b, " (скидка %d%% по подписке «%s»)\n", priced.DiscountPercent, priced.PlanName)
	} else {
		fmt.Fprintf(&b, "\n💰 Стоимость: %s\n", utils.FormatPrice(service.Price))
	}

	if session.Salon.PaymentOnline {
		b.WriteString("💳 Оплата: онлайн\n")
	} else {
		b.WriteString("💵 Оплата: на месте\n")
	}

	return b.String()
}

func (s *Service) salonConfirmed(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	if callback.Data != "confirm" {
		return s.telegram.SendMessage(callback.UserID, "Нажмите «Подтвердить» или «Отменить».")
	}

	return s.finalizeAppointment(ctx, session, callback)
}

// priceService считает цену услуги с учетом подписки пользователя.
func (s *Service) priceService(userID int64, basePrice int) pricing.ItemPrice {
	sub, err := s.subscriptions.Active(userID, time.Now().In(s.location).Format("2006-01-02"))
	if err != nil {
		s.logger.Error("ошибка при получении подписки",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		sub = nil
	}
	return s.rules.PriceItem(sub, basePrice, models.ItemClassService)
}

func (s *Service) appendConsent(userID int64, name, phone, consentType string) {
	err := s.consents.Append(models.ConsentRecord{
		UserID:      userID,
		UserName:    name,
		Phone:       phone,
		ConsentType: consentType,
	})
	if err != nil {
		s.logger.Error("ошибка при записи согласия",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
	}
}
