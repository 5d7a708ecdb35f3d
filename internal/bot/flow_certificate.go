package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Vital7472/beauty-salon-bot/internal/models"
	"github.com/Vital7472/beauty-salon-bot/internal/utils"
)

const (
	certMinAmount = 1000
	certMaxAmount = 50000
)

// startCertificateFlow - вход в сценарий покупки сертификата.
func (s *Service) startCertificateFlow(ctx context.Context, callback models.CallbackQuery) error {
	session := &models.Session{
		UserID: callback.UserID,
		Flow:   models.FlowCertificate,
		Step:   models.StepCertAmount,
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
		"🎁 Подарочный сертификат действует на все услуги салона и букеты.\n\nВыберите номинал:",
		certAmountKeyboard())
}

func (s *Service) certAmountChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	raw, ok := strings.CutPrefix(callback.Data, "amount:")
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите номинал кнопкой выше.")
	}

	if raw == "custom" {
		session.Step = models.StepCertAmountInput
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.telegram.SendMessage(callback.UserID,
			fmt.Sprintf("Введите сумму от %s до %s:",
				utils.FormatPrice(certMinAmount), utils.FormatPrice(certMaxAmount)))
	}

	amount, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("некорректный номинал %q: %w", raw, err)
	}

	session.Cert.Amount = amount
	return s.certAskRecipient(ctx, session)
}

func (s *Service) certAmountEntered(ctx context.Context, session *models.Session, message models.IncomingMessage) error {
	amount, err := strconv.Atoi(strings.TrimSpace(message.Text))
	if err != nil || amount < certMinAmount || amount > certMaxAmount {
		return s.telegram.SendMessage(message.ChatID,
			fmt.Sprintf("Введите целую сумму от %s до %s.",
				utils.FormatPrice(certMinAmount), utils.FormatPrice(certMaxAmount)))
	}

	session.Cert.Amount = amount
	return s.certAskRecipient(ctx, session)
}

func (s *Service) certAskRecipient(ctx context.Context, session *models.Session) error {
	session.Step = models.StepCertRecipient
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessage(session.UserID,
		"👤 Кому подарок? Введите имя получателя (или «-», если сертификат для вас):")
}

func (s *Service) certRecipientEntered(ctx context.Context, session *models.Session, message models.IncomingMessage) error {
	recipient := strings.TrimSpace(message.Text)
	if recipient == "-" {
		recipient = ""
	}

	session.Cert.Recipient = recipient
	session.Step = models.StepCertConfirm
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("📋 Проверьте заказ:\n\n")
	fmt.Fprintf(&b, "🎁 Сертификат на %s\n", utils.FormatPrice(session.Cert.Amount))
	if session.Cert.Recipient != "" {
		fmt.Fprintf(&b, "👤 Получатель: %s\n", session.Cert.Recipient)
	}

	return s.telegram.SendMessageWithInlineKeyboard(message.ChatID, b.String(), confirmKeyboard())
}

func (s *Service) certConfirmed(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	if callback.Data != "confirm" {
		return s.telegram.SendMessage(callback.UserID, "Нажмите «Подтвердить» или «Отменить».")
	}

	return s.finalizeCertificate(ctx, session, callback)
}
