package bot

import (
	"fmt"
	"strings"

	"github.com/Vital7472/beauty-salon-bot/internal/models"
	"github.com/Vital7472/beauty-salon-bot/internal/utils"
)

func (s *Service) showProfile(userID int64) error {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("👤 Ваш профиль:\n\n")
	fmt.Fprintf(&b, "Имя: %s\n", orDash(user.FirstName))
	fmt.Fprintf(&b, "Телефон: %s\n", orDash(user.Phone))
	fmt.Fprintf(&b, "💎 Бонусов: %d\n", user.BonusPoints)
	fmt.Fprintf(&b, "Реферальный код: %s\n", user.ReferralCode)

	return s.telegram.SendMessageWithInlineKeyboard(userID, b.String(), mainMenuKeyboard())
}

func (s *Service) showBonuses(userID int64) error {
	balance, err := s.ledger.Balance(userID)
	if err != nil {
		return err
	}

	transactions, err := s.ledger.Transactions(userID, 10)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💎 На балансе: %d бонусов\n", balance)
	fmt.Fprintf(&b, "1 бонус = 1 ₽, можно оплатить до %d%% заказа.\n", s.rules.MaxBonusPaymentPercent)

	if len(transactions) > 0 {
		b.WriteString("\nПоследние операции:\n")
		for _, tx := range transactions {
			sign := "+"
			if tx.Points < 0 {
				sign = ""
			}
			fmt.Fprintf(&b, "%s%d - %s\n", sign, tx.Points, tx.Description)
		}
	}

	return s.telegram.SendMessage(userID, b.String())
}

func (s *Service) showReferralProgram(userID int64) error {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return err
	}

	count, err := s.referrals.ReferralCount(userID)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("https://t.me/%s?start=%s", s.cfg.Telegram.BotUsername, user.ReferralCode)

	text := fmt.Sprintf(`👥 Приглашайте друзей и получайте бонусы!

Ваша ссылка:
%s

Приглашено друзей: %d

За регистрацию друга вы оба получите по %d бонусов, а за его заказы вам начислятся вознаграждения.`,
		link, count, s.cfg.Business.SignupReferralBonus)

	return s.telegram.SendMessage(userID, text)
}

func (s *Service) showOrders(userID int64) error {
	appointments, err := s.orders.UserAppointments(userID, 5)
	if err != nil {
		return err
	}
	flowerOrders, err := s.orders.UserFlowerOrders(userID, 5)
	if err != nil {
		return err
	}

	if len(appointments) == 0 && len(flowerOrders) == 0 {
		return s.telegram.SendMessage(userID, "📦 У вас пока нет заказов. Самое время что-нибудь выбрать!")
	}

	var b strings.Builder
	b.WriteString("📦 Ваши заказы:\n")

	if len(appointments) > 0 {
		b.WriteString("\n💇‍♀️ Записи в салон:\n")
		for _, appt := range appointments {
			fmt.Fprintf(&b, "• #%d %s, %s %s - %s\n",
				appt.ID, appt.ServiceName, utils.FormatDate(appt.AppointmentDate),
				appt.TimeSlot, appointmentStatusLabel(appt.Status))
		}
	}

	if len(flowerOrders) > 0 {
		b.WriteString("\n💐 Заказы цветов:\n")
		for _, order := range flowerOrders {
			fmt.Fprintf(&b, "• #%d на %s - %s\n",
				order.ID, utils.FormatPrice(order.TotalAmount), flowerStatusLabel(order.Status))
		}
	}

	return s.telegram.SendMessage(userID, b.String())
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func appointmentStatusLabel(status models.AppointmentStatus) string {
	switch status {
	case models.AppointmentStatusPending:
		return "ждет подтверждения"
	case models.AppointmentStatusConfirmed:
		return "подтверждена"
	case models.AppointmentStatusCompleted:
		return "выполнена"
	case models.AppointmentStatusCancelled:
		return "отменена"
	}
	return string(status)
}

func flowerStatusLabel(status models.FlowerOrderStatus) string {
	switch status {
	case models.FlowerOrderStatusNew:
		return "новый"
	case models.FlowerOrderStatusAccepted:
		return "принят"
	case models.FlowerOrderStatusDelivering:
		return "доставляется"
	case models.FlowerOrderStatusDelivered:
		return "доставлен"
	case models.FlowerOrderStatusCancelled:
		return "отменен"
	}
	return string(status)
}
