package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vital7472/beauty-salon-bot/internal/models"
	"github.com/Vital7472/beauty-salon-bot/internal/utils"

	"go.uber.org/zap"
)

const helpMessage = `📖 ПОМОЩЬ

🔹 /start - Главное меню
🔹 /menu - Вернуться в меню
🔹 /help - Эта справка

💇‍♀️ САЛОН КРАСОТЫ:
Выберите услугу, дату и время.
Администратор свяжется для уточнения.

💐 ЦВЕТЫ:
Выберите букет или закажите индивидуальный.
Доставка БЕСПЛАТНО от 3000₽.

🎁 БОНУСЫ:
Получайте 5% бонусами от покупок.
Оплачивайте до 50% бонусами.

👥 РЕФЕРАЛЬНАЯ ПРОГРАММА:
Пригласите друга - получите бонусы!

❓ Вопросы? Напишите администратору!`

// HandleMessage - основной обработчик входящих сообщений
func (s *Service) HandleMessage(ctx context.Context, message models.IncomingMessage) error {
	// Обработка команды /start
	if strings.HasPrefix(message.Text, "/start") {
		return s.handleStart(ctx, message)
	}

	if message.Text == "/menu" {
		return s.backToMainMenu(ctx, message.ChatID)
	}

	if message.Text == "/help" {
		return s.telegram.SendMessage(message.ChatID, helpMessage)
	}

	session, err := s.sessions.Get(ctx, message.ChatID)
	if err != nil {
		return err
	}

	// Нативный контакт вне шага телефона тоже сохраняем: согласие
	// пишется при каждой передаче номера.
	if message.ContactPhone != "" && (session == nil || session.Step != models.StepSalonPhone) {
		return s.saveSharedContact(message)
	}

	// Диспетчеризация текста по шагу сценария
	if session != nil {
		if handler, ok := s.textSteps[session.Step]; ok {
			return handler(ctx, session, message)
		}
		// На шаге ждут нажатия кнопки, а пришел текст
		return s.telegram.SendMessage(message.ChatID, "Пожалуйста, воспользуйтесь кнопками выше 👆")
	}

	// Вне сценария сообщение уходит администраторам в топик клиента
	return s.relayToAdmins(message)
}

// HandleCallback - основной обработчик нажатий на inline-кнопки
func (s *Service) HandleCallback(ctx context.Context, callback models.CallbackQuery) error {
	// Глобальные кнопки работают на любом шаге
	switch callback.Data {
	case "main_menu":
		return s.backToMainMenu(ctx, callback.UserID)
	case "salon_booking":
		return s.startSalonFlow(ctx, callback)
	case "flowers_shop":
		return s.startFlowersFlow(ctx, callback)
	case "buy_certificate":
		return s.startCertificateFlow(ctx, callback)
	case "profile":
		return s.showProfile(callback.UserID)
	case "my_bonuses":
		return s.showBonuses(callback.UserID)
	case "referral_program":
		return s.showReferralProgram(callback.UserID)
	case "my_orders":
		return s.showOrders(callback.UserID)
	case "contact_support":
		return s.telegram.SendMessage(callback.UserID,
			"💬 Напишите ваш вопрос одним сообщением - администратор ответит здесь же.")
	}

	session, err := s.sessions.Get(ctx, callback.UserID)
	if err != nil {
		return err
	}
	if session == nil {
		// Кнопка из старого сообщения, сценарий уже завершен
		return s.telegram.SendMessage(callback.UserID, "Этот диалог уже завершен. Откройте меню: /menu")
	}

	handler, ok := s.callbackSteps[session.Step]
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, ответьте сообщением на вопрос выше.")
	}

	return handler(ctx, session, callback)
}

// handleStart - регистрация и обработка deep-link параметров
func (s *Service) handleStart(ctx context.Context, message models.IncomingMessage) error {
	// Начатый сценарий обрывается без заказа
	if err := s.sessions.Delete(ctx, message.ChatID); err != nil {
		return err
	}

	startParam := ""
	parts := strings.Fields(message.Text)
	if len(parts) > 1 {
		startParam = parts[1]
	}

	utm, referralCode := parseStartParam(startParam)

	var referrerID int64
	if referralCode != "" {
		referrer, err := s.users.GetUserByReferralCode(referralCode)
		if err == nil {
			referrerID = referrer.UserID
		} else {
			s.logger.Warn("Реферальный код не найден",
				zap.String("referral_code", referralCode),
				zap.Int64("user_id", message.ChatID),
			)
		}
	}

	if !utm.Empty() {
		if err := s.attribution.RecordClick(utm); err != nil {
			s.logger.Error("ошибка при учете перехода", zap.Error(err))
		}
	}

	user, created, err := s.users.Register(models.User{
		UserID:      message.ChatID,
		Username:    message.Username,
		FirstName:   message.FirstName,
		ReferredBy:  referrerID,
		UTMSource:   utm.Source,
		UTMMedium:   utm.Medium,
		UTMCampaign: utm.Campaign,
		UTMContent:  utm.Content,
		UTMTerm:     utm.Term,
	})
	if err != nil {
		return err
	}

	if created {
		if !utm.Empty() {
			if err := s.attribution.RecordRegistration(utm); err != nil {
				s.logger.Error("ошибка при учете регистрации", zap.Error(err))
			}
		}

		// Приветственные бонусы обеим сторонам реферальной ссылки
		if referrerID != 0 && s.cfg.Business.SignupReferralBonus > 0 {
			s.awardSignupBonuses(referrerID, user)
		}
	}

	name := user.FirstName
	if name == "" {
		name = "гость"
	}

	welcome := fmt.Sprintf(`🌸 Добро пожаловать, %s!

Я помогу вам:
• Записаться в салон красоты
• Заказать букет с доставкой
• Купить подарочный сертификат
• И многое другое!

Выберите действие:`, name)

	return s.telegram.SendMessageWithInlineKeyboard(message.ChatID, welcome, mainMenuKeyboard())
}

func (s *Service) awardSignupBonuses(referrerID int64, newUser models.User) {
	bonus := s.cfg.Business.SignupReferralBonus

	description := fmt.Sprintf("Реферальная программа: пригласил пользователя %s", newUser.FirstName)
	if err := s.ledger.Credit(referrerID, bonus, description); err != nil {
		s.logger.Error("ошибка при начислении бонусов рефереру",
			zap.Error(err),
			zap.Int64("referrer_user_id", referrerID),
		)
	} else {
		text := fmt.Sprintf("🎉 Ваш друг %s зарегистрировался по вашей ссылке!\n+%d бонусов на ваш счёт!",
			newUser.FirstName, bonus)
		if err := s.telegram.SendMessage(referrerID, text); err != nil {
			s.logger.Error("ошибка отправки уведомления рефереру",
				zap.Error(err),
				zap.Int64("referrer_user_id", referrerID),
			)
		}
	}

	if err := s.ledger.Credit(newUser.UserID, bonus, "Регистрация по реферальной ссылке"); err != nil {
		s.logger.Error("ошибка при начислении бонусов новому пользователю",
			zap.Error(err),
			zap.Int64("user_id", newUser.UserID),
		)
	}
}

// parseStartParam разбирает deep-link параметр: реферальный код
// (REF......) или UTM-метки (utm_source__medium__campaign__content__term).
func parseStartParam(param string) (models.UTMParams, string) {
	if param == "" {
		return models.UTMParams{}, ""
	}

	if strings.HasPrefix(param, "REF") {
		return models.UTMParams{
			Source:  "referral",
			Content: param,
		}, param
	}

	if strings.HasPrefix(param, "utm_") {
		var utm models.UTMParams
		parts := strings.Split(strings.TrimPrefix(param, "utm_"), "__")

		fields := []*string{&utm.Source, &utm.Medium, &utm.Campaign, &utm.Content, &utm.Term}
		for i, field := range fields {
			if i < len(parts) {
				*field = parts[i]
			}
		}
		return utm, ""
	}

	return models.UTMParams{}, ""
}

// backToMainMenu сбрасывает сценарий без оформления заказа.
func (s *Service) backToMainMenu(ctx context.Context, userID int64) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(userID, "🌸 Главное меню:", mainMenuKeyboard())
}

// saveSharedContact сохраняет номер из нативного контакта.
func (s *Service) saveSharedContact(message models.IncomingMessage) error {
	phone := utils.FormatPhone(message.ContactPhone)

	if err := s.users.UpdatePhone(message.ChatID, phone); err != nil {
		return err
	}
	s.appendConsent(message.ChatID, message.FirstName, phone, models.ConsentContactShare)

	return s.telegram.RemoveKeyboard(message.ChatID, fmt.Sprintf("✅ Номер %s сохранен.", phone))
}

// relayToAdmins пересылает свободное сообщение клиента в его топик.
func (s *Service) relayToAdmins(message models.IncomingMessage) error {
	name := message.FirstName
	if message.Username != "" {
		name = fmt.Sprintf("%s (@%s)", name, message.Username)
	}

	text := fmt.Sprintf("💬 %s:\n%s", name, message.Text)
	if err := s.postToUserThread(message.ChatID, name, text, true); err != nil {
		return err
	}

	return s.telegram.SendMessage(message.ChatID, "✉️ Сообщение передано администратору, ответим в ближайшее время!")
}
