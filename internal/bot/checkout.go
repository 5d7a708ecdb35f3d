package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/database"
	"github.com/Vital7472/beauty-salon-bot/internal/models"
	"github.com/Vital7472/beauty-salon-bot/internal/utils"

	"go.uber.org/zap"
)

// finalizeAppointment - терминальный переход сценария записи.
// Запись сохраняется, сессия уничтожается, затем выполняются побочные
// эффекты - каждый в своей границе ошибок, заказ они не откатывают.
func (s *Service) finalizeAppointment(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	service := session.Salon.Service
	priced := s.priceService(session.UserID, service.Price)

	appointmentID, err := s.orders.CreateAppointment(models.SalonAppointment{
		UserID:          session.UserID,
		UserName:        callback.UserName,
		Phone:           session.Salon.Phone,
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		Price:           priced.FinalPrice,
		AppointmentDate: session.Salon.Date,
		TimeSlot:        session.Salon.TimeSlot,
		Comment:         session.Salon.Comment,
	})
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, session.UserID); err != nil {
		s.logger.Error("ошибка при удалении сессии", zap.Error(err), zap.Int64("user_id", session.UserID))
	}

	confirmation := fmt.Sprintf(
		"✅ Вы записаны!\n\n💇‍♀️ %s\n📅 %s в %s\n\nАдминистратор подтвердит запись в ближайшее время.",
		service.Name, utils.FormatDate(session.Salon.Date), session.Salon.TimeSlot)
	if err := s.telegram.SendMessage(session.UserID, confirmation); err != nil {
		s.logger.Error("ошибка при отправке подтверждения", zap.Error(err), zap.Int64("user_id", session.UserID))
	}

	if session.Salon.PaymentOnline {
		s.sendPaymentLink(session.UserID, priced.FinalPrice,
			fmt.Sprintf("Запись в салон #%d: %s", appointmentID, service.Name))
	}

	effects := orderSideEffects{
		UserID:      session.UserID,
		UserName:    callback.UserName,
		OrderID:     appointmentID,
		OrderType:   models.FeedbackOrderTypeAppointment,
		MoneyAmount: priced.FinalPrice,
		EarnAmount:  priced.FinalPrice,
		AdminText: fmt.Sprintf(
			"📝 НОВАЯ ЗАПИСЬ #%d\n\n👤 %s\n📱 %s\n💇‍♀️ %s\n📅 %s в %s\n💰 %s\n💬 %s",
			appointmentID, callback.UserName, session.Salon.Phone, service.Name,
			utils.FormatDate(session.Salon.Date), session.Salon.TimeSlot,
			utils.FormatPrice(priced.FinalPrice), session.Salon.Comment),
	}

	if user, err := s.users.GetUser(session.UserID); err == nil {
		effects.ReferrerID = user.ReferredBy
		effects.UTM = models.UTMParams{
			Source:   user.UTMSource,
			Medium:   user.UTMMedium,
			Campaign: user.UTMCampaign,
			Content:  user.UTMContent,
			Term:     user.UTMTerm,
		}
	}

	s.runOrderSideEffects(effects)

	return nil
}

// finalizeFlowerOrder - терминальный переход сценария заказа цветов.
// Списание бонусов и вставка заказа - одна транзакция в хранилище:
// при нехватке баллов заказа не появляется и сценарий возвращается
// к выбору бонусов.
func (s *Service) finalizeFlowerOrder(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	deliveryFee := s.deliveryFee(session)
	totals := s.flowersTotals(session, deliveryFee)
	totalAfterBonus := totals.FinalTotal - session.Flowers.BonusToUse

	items := make([]models.OrderItem, 0, len(session.Flowers.Cart))
	for _, item := range session.Flowers.Cart {
		items = append(items, models.OrderItem(item))
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать состав заказа: %w", err)
	}

	user, err := s.users.GetUser(session.UserID)
	if err != nil {
		return err
	}

	orderID, err := s.orders.CreateFlowerOrder(models.FlowerOrder{
		UserID:          session.UserID,
		UserName:        callback.UserName,
		Phone:           user.Phone,
		Items:           string(itemsJSON),
		TotalAmount:     totalAfterBonus,
		BonusUsed:       session.Flowers.BonusToUse,
		DeliveryType:    session.Flowers.DeliveryType,
		DeliveryAddress: session.Flowers.DeliveryAddress,
		DeliveryTime: fmt.Sprintf("%s %s",
			utils.FormatDate(session.Flowers.DeliveryDate), session.Flowers.DeliveryTime),
		Anonymous:      session.Flowers.Anonymous,
		CardText:       session.Flowers.CardText,
		RecipientName:  session.Flowers.RecipientName,
		RecipientPhone: session.Flowers.RecipientPhone,
	})
	if err != nil {
		if errors.Is(err, database.ErrInsufficientBonus) {
			if err := s.telegram.SendMessage(session.UserID,
				"😔 Бонусов на балансе уже не хватает. Выберите сумму заново."); err != nil {
				return err
			}
			return s.flowersOfferBonus(ctx, session)
		}
		return err
	}

	if err := s.sessions.Delete(ctx, session.UserID); err != nil {
		s.logger.Error("ошибка при удалении сессии", zap.Error(err), zap.Int64("user_id", session.UserID))
	}

	confirmation := fmt.Sprintf(
		"✅ Заказ #%d оформлен!\n\n💰 К оплате: %s\n\nАдминистратор свяжется с вами для подтверждения.",
		orderID, utils.FormatPrice(totalAfterBonus))
	if err := s.telegram.SendMessage(session.UserID, confirmation); err != nil {
		s.logger.Error("ошибка при отправке подтверждения", zap.Error(err), zap.Int64("user_id", session.UserID))
	}

	s.runOrderSideEffects(orderSideEffects{
		UserID:      session.UserID,
		UserName:    callback.UserName,
		OrderID:     orderID,
		OrderType:   models.FeedbackOrderTypeFlowerOrder,
		MoneyAmount: totalAfterBonus,
		EarnAmount:  totals.FinalTotal,
		UTM: models.UTMParams{
			Source:   user.UTMSource,
			Medium:   user.UTMMedium,
			Campaign: user.UTMCampaign,
			Content:  user.UTMContent,
			Term:     user.UTMTerm,
		},
		ReferrerID: user.ReferredBy,
		AdminText:  s.flowerOrderAdminText(orderID, callback.UserName, user.Phone, session, totalAfterBonus),
	})

	return nil
}

func (s *Service) flowerOrderAdminText(orderID int64, userName, phone string, session *models.Session, total int) string {
	text := fmt.Sprintf("💐 НОВЫЙ ЗАКАЗ #%d\n\n👤 %s\n📱 %s\n", orderID, userName, phone)
	for _, item := range session.Flowers.Cart {
		text += fmt.Sprintf("• %s ×%d\n", item.Name, item.Quantity)
	}

	if session.Flowers.DeliveryType == models.DeliveryTypeCourier {
		text += fmt.Sprintf("🚚 Доставка: %s\n", session.Flowers.DeliveryAddress)
		if session.Flowers.RecipientName != "" {
			text += fmt.Sprintf("👤 Получатель: %s, %s\n", session.Flowers.RecipientName, session.Flowers.RecipientPhone)
		}
	} else {
		text += "🏪 Самовывоз\n"
	}
	text += fmt.Sprintf("🕐 %s %s\n", utils.FormatDate(session.Flowers.DeliveryDate), session.Flowers.DeliveryTime)

	if session.Flowers.Anonymous {
		text += "🎭 Анонимно\n"
	}
	if session.Flowers.CardText != "" {
		text += fmt.Sprintf("💌 Открытка: %s\n", session.Flowers.CardText)
	}
	if session.Flowers.BonusToUse > 0 {
		text += fmt.Sprintf("💎 Бонусами: %d\n", session.Flowers.BonusToUse)
	}

	text += fmt.Sprintf("\n💰 К оплате: %s", utils.FormatPrice(total))
	return text
}

// finalizeCertificate - терминальный переход сценария сертификата.
func (s *Service) finalizeCertificate(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	cert, err := s.certificates.Create(session.UserID, session.Cert.Amount, session.Cert.Recipient)
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, session.UserID); err != nil {
		s.logger.Error("ошибка при удалении сессии", zap.Error(err), zap.Int64("user_id", session.UserID))
	}

	confirmation := fmt.Sprintf(
		"🎁 Сертификат на %s готов!\n\nКод: %s\n\nНазовите код администратору при визите или покажите это сообщение.",
		utils.FormatPrice(cert.Amount), cert.Code)
	if err := s.telegram.SendMessage(session.UserID, confirmation); err != nil {
		s.logger.Error("ошибка при отправке сертификата", zap.Error(err), zap.Int64("user_id", session.UserID))
	}

	s.sendPaymentLink(session.UserID, cert.Amount, fmt.Sprintf("Подарочный сертификат %s", cert.Code))

	name := callback.UserName
	adminText := fmt.Sprintf("🎁 КУПЛЕН СЕРТИФИКАТ\n\n👤 %s\n💰 %s\nКод: %s",
		name, utils.FormatPrice(cert.Amount), cert.Code)
	if err := s.postToUserThread(session.UserID, name, adminText, false); err != nil {
		s.logger.Error("ошибка при уведомлении администраторов", zap.Error(err), zap.Int64("user_id", session.UserID))
	}

	return nil
}

// orderSideEffects - что нужно сделать после фиксации заказа.
// MoneyAmount - фактически оплаченная сумма, она идет в реферальную
// программу и в конверсию кампании. EarnAmount - сумма заказа до
// списания бонусов: начисление считается от нее, иначе оплата бонусами
// лишала бы заказ кэшбэка.
type orderSideEffects struct {
	UserID      int64
	UserName    string
	OrderID     int64
	OrderType   string
	MoneyAmount int
	EarnAmount  int
	UTM         models.UTMParams
	ReferrerID  int64
	AdminText   string
}

// runOrderSideEffects выполняет побочные эффекты терминального перехода.
// Заказ уже зафиксирован: любая ошибка здесь логируется и не влияет
// ни на заказ, ни на остальные эффекты.
func (s *Service) runOrderSideEffects(effects orderSideEffects) {
	// Начисление бонусов за заказ
	if earned := s.rules.BonusEarn(effects.EarnAmount); earned > 0 {
		description := fmt.Sprintf("Начисление %d%% за заказ #%d", s.rules.BonusPercent, effects.OrderID)
		if err := s.ledger.Credit(effects.UserID, earned, description); err != nil {
			s.logger.Error("ошибка при начислении бонусов за заказ",
				zap.Error(err),
				zap.Int64("user_id", effects.UserID),
				zap.Int64("order_id", effects.OrderID),
			)
		} else {
			text := fmt.Sprintf("💎 +%d бонусов за заказ! Спасибо, что вы с нами.", earned)
			if err := s.telegram.SendMessage(effects.UserID, text); err != nil {
				s.logger.Warn("не удалось уведомить о начислении", zap.Error(err))
			}
		}
	}

	// Реферальное вознаграждение пригласившему
	if effects.ReferrerID != 0 {
		reward, err := s.referrals.Award(effects.ReferrerID, effects.UserID, effects.OrderID, effects.MoneyAmount)
		if err != nil {
			s.logger.Error("ошибка при создании реферального вознаграждения",
				zap.Error(err),
				zap.Int64("user_id", effects.UserID),
				zap.Int64("order_id", effects.OrderID),
			)
		} else if reward != nil && reward.Status == models.RewardStatusApproved {
			text := fmt.Sprintf("🎉 Ваш друг сделал заказ! +%d бонусов на ваш счёт.", reward.RewardAmount)
			if err := s.telegram.SendMessage(effects.ReferrerID, text); err != nil {
				s.logger.Warn("не удалось уведомить реферера", zap.Error(err))
			}
		}
	}

	// Отложенный запрос отзыва
	if s.cfg.Feedback.Enabled {
		at := time.Now().In(s.location).AddDate(0, 0, s.cfg.Feedback.DelayDays)
		if err := s.feedback.Schedule(effects.UserID, effects.OrderType, effects.OrderID, at); err != nil {
			s.logger.Error("ошибка при планировании запроса отзыва",
				zap.Error(err),
				zap.Int64("order_id", effects.OrderID),
			)
		}
	}

	// Конверсия рекламной кампании
	if !effects.UTM.Empty() {
		if err := s.attribution.RecordConversion(effects.UTM, effects.MoneyAmount); err != nil {
			s.logger.Error("ошибка при учете конверсии",
				zap.Error(err),
				zap.Int64("order_id", effects.OrderID),
			)
		}
	}

	// Уведомление администраторов в топик клиента
	if effects.AdminText != "" {
		if err := s.postToUserThread(effects.UserID, effects.UserName, effects.AdminText, false); err != nil {
			s.logger.Error("ошибка при уведомлении администраторов",
				zap.Error(err),
				zap.Int64("user_id", effects.UserID),
			)
		}
	}
}

// sendPaymentLink отправляет ссылку на онлайн-оплату. Провайдер может
// быть недоступен - тогда оплата останется на месте.
func (s *Service) sendPaymentLink(userID int64, amount int, description string) {
	if s.payments == nil {
		return
	}

	link, err := s.payments.CreatePayment(amount, description)
	if err != nil {
		s.logger.Error("ошибка при создании платежа",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		if err := s.telegram.SendMessage(userID,
			"💳 Онлайн-оплата сейчас недоступна, можно оплатить на месте."); err != nil {
			s.logger.Warn("не удалось отправить сообщение об оплате", zap.Error(err))
		}
		return
	}

	text := fmt.Sprintf("💳 Ссылка на оплату %s:\n%s", utils.FormatPrice(amount), link)
	if err := s.telegram.SendMessage(userID, text); err != nil {
		s.logger.Error("ошибка при отправке ссылки на оплату",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
	}
}
