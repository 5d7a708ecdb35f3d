package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Vital7472/beauty-salon-bot/internal/models"
	"github.com/Vital7472/beauty-salon-bot/internal/pricing"
	"github.com/Vital7472/beauty-salon-bot/internal/utils"

	"go.uber.org/zap"
)

// startFlowersFlow - вход в сценарий заказа цветов.
func (s *Service) startFlowersFlow(ctx context.Context, callback models.CallbackQuery) error {
	categories, err := s.catalog.ProductCategories()
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return s.telegram.SendMessage(callback.UserID, "Витрина пока пуста, загляните позже 💐")
	}

	session := &models.Session{
		UserID: callback.UserID,
		Flow:   models.FlowFlowers,
		Step:   models.StepFlowersCategory,
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	text := fmt.Sprintf("💐 Выберите категорию:\n\n🚚 Доставка %s, бесплатно от %s",
		utils.FormatPrice(s.rules.DeliveryCost), utils.FormatPrice(s.rules.FreeDeliveryThreshold))
	return s.telegram.SendMessageWithInlineKeyboard(callback.UserID, text,
		categoriesKeyboard("fcat", categories))
}

func (s *Service) flowersCategoryChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	category, ok := strings.CutPrefix(callback.Data, "fcat:")
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите категорию кнопкой выше.")
	}

	products, err := s.catalog.ProductsByCategory(category)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return s.telegram.SendMessage(callback.UserID, "В этой категории сейчас нет товаров в наличии.")
	}

	session.Flowers.Category = category
	session.Step = models.StepFlowersItem
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	for _, product := range products {
		quantity := 0
		if item := session.Flowers.CartFind(product.ID); item != nil {
			quantity = item.Quantity
		}

		caption := fmt.Sprintf("%s\n%s", product.Name, utils.FormatPrice(product.Price))
		if product.Description != "" {
			caption += "\n" + product.Description
		}

		keyboard := productKeyboard(product, quantity)
		if product.PhotoURL != "" {
			if err := s.telegram.SendPhotoWithInlineKeyboard(callback.UserID, product.PhotoURL, caption, keyboard); err != nil {
				s.logger.Warn("не удалось отправить фото товара, отправляем текстом",
					zap.Error(err),
					zap.Int64("product_id", product.ID),
				)
				if err := s.telegram.SendMessageWithInlineKeyboard(callback.UserID, caption, keyboard); err != nil {
					return err
				}
			}
			continue
		}

		if err := s.telegram.SendMessageWithInlineKeyboard(callback.UserID, caption, keyboard); err != nil {
			return err
		}
	}

	return nil
}

// flowersItemAction - кнопки на карточках товаров.
func (s *Service) flowersItemAction(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	switch {
	case strings.HasPrefix(callback.Data, "add:"):
		return s.flowersCartAdd(ctx, session, callback)
	case strings.HasPrefix(callback.Data, "dec:"):
		return s.flowersCartDec(ctx, session, callback)
	case callback.Data == "cart":
		return s.showCart(ctx, session)
	case callback.Data == "noop":
		return nil
	}
	return s.telegram.SendMessage(callback.UserID, "Пожалуйста, воспользуйтесь кнопками на карточках товаров.")
}

func (s *Service) flowersCartAdd(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	raw := strings.TrimPrefix(callback.Data, "add:")
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("некорректный идентификатор товара %q: %w", raw, err)
	}

	// Цена фиксируется при добавлении в корзину
	product, err := s.catalog.GetProduct(productID)
	if err != nil {
		return err
	}

	quantity := session.Flowers.CartAdd(product)
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessage(callback.UserID,
		fmt.Sprintf("➕ %s: %d шт. В корзине товаров на %s.",
			product.Name, quantity, utils.FormatPrice(session.Flowers.CartSubtotal())))
}

func (s *Service) flowersCartDec(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	raw := strings.TrimPrefix(callback.Data, "dec:")
	productID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("некорректный идентификатор товара %q: %w", raw, err)
	}

	session.Flowers.CartDecrement(productID)
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	if len(session.Flowers.Cart) == 0 {
		return s.telegram.SendMessage(callback.UserID, "Корзина пуста.")
	}
	return s.telegram.SendMessage(callback.UserID,
		fmt.Sprintf("➖ Убрали. В корзине товаров на %s.", utils.FormatPrice(session.Flowers.CartSubtotal())))
}

func (s *Service) showCart(ctx context.Context, session *models.Session) error {
	if len(session.Flowers.Cart) == 0 {
		return s.telegram.SendMessage(session.UserID, "🛒 Корзина пуста. Добавьте что-нибудь из каталога!")
	}

	session.Step = models.StepFlowersCart
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(session.UserID, s.cartText(session),
		cartKeyboard(session.Flowers.Cart))
}

func (s *Service) cartText(session *models.Session) string {
	totals := s.flowersTotals(session, 0)

	var b strings.Builder
	b.WriteString("🛒 Ваша корзина:\n\n")
	for _, line := range totals.Lines {
		fmt.Fprintf(&b, "• %s ×%d - %s\n", line.Name, line.Quantity,
			utils.FormatPrice(line.Price*line.Quantity))
	}
	fmt.Fprintf(&b, "\nИтого: %s", utils.FormatPrice(totals.Subtotal))
	if totals.TotalDiscount > 0 {
		fmt.Fprintf(&b, "\n💎 Скидка по подписке «%s»: -%s", totals.PlanName, utils.FormatPrice(totals.TotalDiscount))
	}
	return b.String()
}

// flowersCartAction - кнопки в корзине. Состав меняется прямо в
// сообщении корзины, без новых сообщений.
func (s *Service) flowersCartAction(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	switch {
	case strings.HasPrefix(callback.Data, "add:"):
		raw := strings.TrimPrefix(callback.Data, "add:")
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("некорректный идентификатор товара %q: %w", raw, err)
		}
		product, err := s.catalog.GetProduct(productID)
		if err != nil {
			return err
		}
		session.Flowers.CartAdd(product)
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.refreshCartMessage(callback, session)
	case strings.HasPrefix(callback.Data, "dec:"):
		raw := strings.TrimPrefix(callback.Data, "dec:")
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("некорректный идентификатор товара %q: %w", raw, err)
		}
		session.Flowers.CartDecrement(productID)
		if len(session.Flowers.Cart) == 0 {
			session.Step = models.StepFlowersItem
			if err := s.sessions.Put(ctx, session); err != nil {
				return err
			}
			return s.telegram.SendMessage(callback.UserID, "🛒 Корзина пуста. Добавьте что-нибудь из каталога!")
		}
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.refreshCartMessage(callback, session)
	case callback.Data == "clear":
		session.Flowers.Cart = nil
		session.Step = models.StepFlowersItem
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.telegram.SendMessage(callback.UserID, "🗑 Корзина очищена.")
	case callback.Data == "continue":
		session.Step = models.StepFlowersCategory
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		categories, err := s.catalog.ProductCategories()
		if err != nil {
			return err
		}
		return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
			"💐 Выберите категорию:", categoriesKeyboard("fcat", categories))
	case callback.Data == "checkout":
		if len(session.Flowers.Cart) == 0 {
			return s.telegram.SendMessage(callback.UserID, "🛒 Корзина пуста.")
		}
		session.Step = models.StepFlowersDeliveryType
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
			"🚚 Доставка или самовывоз?", deliveryTypeKeyboard())
	}
	return s.telegram.SendMessage(callback.UserID, "Пожалуйста, воспользуйтесь кнопками корзины.")
}

func (s *Service) refreshCartMessage(callback models.CallbackQuery, session *models.Session) error {
	return s.telegram.EditMessageText(callback.ChatID, callback.MessageID,
		s.cartText(session), cartKeyboard(session.Flowers.Cart))
}

func (s *Service) flowersDeliveryTypeChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	choice, ok := strings.CutPrefix(callback.Data, "delivery:")
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите способ получения кнопкой выше.")
	}

	switch choice {
	case models.DeliveryTypeCourier:
		session.Flowers.DeliveryType = models.DeliveryTypeCourier

		addresses, err := s.users.GetAddresses(callback.UserID)
		if err != nil {
			return err
		}

		if len(addresses) == 0 {
			session.Step = models.StepFlowersAddressInput
			if err := s.sessions.Put(ctx, session); err != nil {
				return err
			}
			return s.telegram.SendMessage(callback.UserID, "📍 Введите адрес доставки:")
		}

		session.Step = models.StepFlowersAddress
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
			"📍 Выберите адрес или введите новый:", addressesKeyboard(addresses))

	case models.DeliveryTypePickup:
		session.Flowers.DeliveryType = models.DeliveryTypePickup
		return s.flowersAskTime(ctx, session)
	}

	return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите способ получения кнопкой выше.")
}

func (s *Service) flowersAddressChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	raw, ok := strings.CutPrefix(callback.Data, "addr:")
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите адрес кнопкой выше.")
	}

	if raw == "new" {
		session.Step = models.StepFlowersAddressInput
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.telegram.SendMessage(callback.UserID, "📍 Введите адрес доставки:")
	}

	addressID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("некорректный идентификатор адреса %q: %w", raw, err)
	}

	addresses, err := s.users.GetAddresses(callback.UserID)
	if err != nil {
		return err
	}
	for _, address := range addresses {
		if address.ID == addressID {
			session.Flowers.DeliveryAddress = address.Address
			return s.flowersAskTime(ctx, session)
		}
	}

	return s.telegram.SendMessage(callback.UserID, "Адрес не найден, введите его текстом.")
}

func (s *Service) flowersAddressEntered(ctx context.Context, session *models.Session, message models.IncomingMessage) error {
	address := strings.TrimSpace(message.Text)
	if utf8.RuneCountInString(address) < 10 {
		return s.telegram.SendMessage(message.ChatID,
			"Адрес слишком короткий. Укажите полный адрес: улицу, дом и квартиру.")
	}

	session.Flowers.DeliveryAddress = address
	if err := s.users.SaveAddress(message.ChatID, address, true); err != nil {
		s.logger.Error("ошибка при сохранении адреса",
			zap.Error(err),
			zap.Int64("user_id", message.ChatID),
		)
	}

	return s.flowersAskTime(ctx, session)
}

func (s *Service) flowersAskTime(ctx context.Context, session *models.Session) error {
	session.Step = models.StepFlowersTime
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(session.UserID,
		"🕐 Когда доставить заказ?", deliveryTimeKeyboard())
}

func (s *Service) flowersTimeChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	choice, ok := strings.CutPrefix(callback.Data, "dtime:")
	if !ok {
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите время кнопкой выше.")
	}

	switch choice {
	case "asap":
		session.Flowers.DeliveryDate = time.Now().In(s.location).Format("2006-01-02")
		session.Flowers.DeliveryTime = "Как можно скорее"
		return s.flowersAskAnonymous(ctx, session)
	case "custom":
		session.Step = models.StepFlowersDateInput
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.telegram.SendMessage(callback.UserID, "📅 Введите дату доставки, например 25.12.2026:")
	}

	return s.telegram.SendMessage(callback.UserID, "Пожалуйста, выберите время кнопкой выше.")
}

func (s *Service) flowersDateEntered(ctx context.Context, session *models.Session, message models.IncomingMessage) error {
	date, ok := parseFlexibleDate(strings.TrimSpace(message.Text))
	if !ok {
		return s.telegram.SendMessage(message.ChatID, "Не понял дату. Формат: 25.12.2026")
	}
	if date < time.Now().In(s.location).Format("2006-01-02") {
		return s.telegram.SendMessage(message.ChatID, "Эта дата уже прошла. Укажите будущую дату.")
	}

	session.Flowers.DeliveryDate = date
	session.Step = models.StepFlowersTimeInput
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessage(message.ChatID, "🕐 Введите время, например 14:00 или 14:00-16:00:")
}

func (s *Service) flowersTimeEntered(ctx context.Context, session *models.Session, message models.IncomingMessage) error {
	text := strings.TrimSpace(message.Text)
	if !utils.ValidateTimeText(text) {
		return s.telegram.SendMessage(message.ChatID, "Не понял время. Формат: 14:00 или 14:00-16:00")
	}

	session.Flowers.DeliveryTime = text
	return s.flowersAskAnonymous(ctx, session)
}

func (s *Service) flowersAskAnonymous(ctx context.Context, session *models.Session) error {
	session.Step = models.StepFlowersAnonymous
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(session.UserID,
		"🎭 Доставить анонимно?", yesNoKeyboard("anon:yes", "anon:no"))
}

func (s *Service) flowersAnonymousChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	switch callback.Data {
	case "anon:yes":
		session.Flowers.Anonymous = true
	case "anon:no":
		session.Flowers.Anonymous = false
	default:
		return s.telegram.SendMessage(callback.UserID, "Пожалуйста, ответьте кнопкой выше.")
	}

	session.Step = models.StepFlowersCard
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(callback.UserID,
		"💌 Текст открытки (или пропустите):", skipCommentKeyboard())
}

func (s *Service) flowersCardEntered(ctx context.Context, session *models.Session, message models.IncomingMessage) error {
	card := strings.TrimSpace(message.Text)
	if utf8.RuneCountInString(card) > 200 {
		return s.telegram.SendMessage(message.ChatID,
			"Текст слишком длинный, максимум 200 символов. Попробуйте сократить.")
	}

	session.Flowers.CardText = card
	return s.flowersAfterCard(ctx, session)
}

func (s *Service) flowersCardSkipped(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	if callback.Data != "skip" {
		return s.telegram.SendMessage(callback.UserID, "Введите текст открытки или нажмите «Пропустить».")
	}
	return s.flowersAfterCard(ctx, session)
}

func (s *Service) flowersAfterCard(ctx context.Context, session *models.Session) error {
	// Получатель нужен только курьеру
	if session.Flowers.DeliveryType == models.DeliveryTypeCourier {
		session.Step = models.StepFlowersRecipient
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.telegram.SendMessage(session.UserID,
			"👤 Кто примет заказ? Введите имя и телефон получателя, например:\nАнна, +7 999 123-45-67")
	}

	return s.flowersOfferBonus(ctx, session)
}

func (s *Service) flowersRecipientEntered(ctx context.Context, session *models.Session, message models.IncomingMessage) error {
	name, phone, ok := parseRecipient(message.Text)
	if !ok {
		return s.telegram.SendMessage(message.ChatID,
			"Не понял. Введите имя и телефон через запятую, например:\nАнна, +7 999 123-45-67")
	}

	session.Flowers.RecipientName = name
	session.Flowers.RecipientPhone = phone
	return s.flowersOfferBonus(ctx, session)
}

// flowersOfferBonus предлагает списать бонусы, если они есть.
// Лимит списания пересчитывается от текущего содержимого корзины.
func (s *Service) flowersOfferBonus(ctx context.Context, session *models.Session) error {
	session.Flowers.BonusToUse = 0

	balance, err := s.ledger.Balance(session.UserID)
	if err != nil {
		s.logger.Error("ошибка при получении баланса",
			zap.Error(err),
			zap.Int64("user_id", session.UserID),
		)
		balance = 0
	}

	totals := s.flowersTotals(session, s.deliveryFee(session))
	cap := s.rules.BonusCap(balance, totals.FinalTotal)

	if cap <= 0 {
		return s.flowersShowSummary(ctx, session)
	}

	session.Step = models.StepFlowersPayment
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	text := fmt.Sprintf("💎 У вас %d бонусов. Бонусами можно оплатить до %d%% заказа - сейчас это %d бонусов.",
		balance, s.rules.MaxBonusPaymentPercent, cap)
	return s.telegram.SendMessageWithInlineKeyboard(session.UserID, text, bonusKeyboard(cap))
}

func (s *Service) flowersPaymentChosen(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	switch callback.Data {
	case "bonus:max":
		cap, err := s.flowersBonusCap(session)
		if err != nil {
			return err
		}
		session.Flowers.BonusToUse = cap
		return s.flowersShowSummary(ctx, session)
	case "bonus:use":
		session.Step = models.StepFlowersBonusInput
		if err := s.sessions.Put(ctx, session); err != nil {
			return err
		}
		return s.telegram.SendMessage(callback.UserID,
			"Сколько бонусов списать? Введите число или «все», чтобы использовать максимум:")
	case "bonus:skip":
		return s.flowersShowSummary(ctx, session)
	}
	return s.telegram.SendMessage(callback.UserID, "Пожалуйста, ответьте кнопкой выше.")
}

// flowersBonusCap пересчитывает лимит списания от текущей корзины.
func (s *Service) flowersBonusCap(session *models.Session) (int, error) {
	balance, err := s.ledger.Balance(session.UserID)
	if err != nil {
		return 0, err
	}

	totals := s.flowersTotals(session, s.deliveryFee(session))
	return s.rules.BonusCap(balance, totals.FinalTotal), nil
}

func (s *Service) flowersBonusEntered(ctx context.Context, session *models.Session, message models.IncomingMessage) error {
	cap, err := s.flowersBonusCap(session)
	if err != nil {
		return err
	}

	text := strings.ToLower(strings.TrimSpace(message.Text))
	switch text {
	case "все", "всё", "все бонусы":
		session.Flowers.BonusToUse = cap
		return s.flowersShowSummary(ctx, session)
	}

	amount, err := strconv.Atoi(text)
	if err != nil || amount < 0 {
		return s.telegram.SendMessage(message.ChatID,
			"Введите целое число бонусов, например 300, или «все».")
	}
	if amount > cap {
		return s.telegram.SendMessage(message.ChatID,
			fmt.Sprintf("Сейчас можно списать не больше %d бонусов. Введите другое число:", cap))
	}

	session.Flowers.BonusToUse = amount
	return s.flowersShowSummary(ctx, session)
}

func (s *Service) flowersShowSummary(ctx context.Context, session *models.Session) error {
	session.Step = models.StepFlowersConfirm
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	return s.telegram.SendMessageWithInlineKeyboard(session.UserID,
		s.flowersSummary(session), confirmKeyboard())
}

func (s *Service) flowersSummary(session *models.Session) string {
	deliveryFee := s.deliveryFee(session)
	totals := s.flowersTotals(session, deliveryFee)

	var b strings.Builder
	b.WriteString("📋 Проверьте заказ:\n\n")
	for _, line := range totals.Lines {
		fmt.Fprintf(&b, "• %s ×%d - %s\n", line.Name, line.Quantity,
			utils.FormatPrice(line.Price*line.Quantity))
	}

	fmt.Fprintf(&b, "\nСумма: %s\n", utils.FormatPrice(totals.Subtotal))
	if totals.TotalDiscount > 0 {
		fmt.Fprintf(&b, "💎 Скидка по подписке «%s»: -%s\n", totals.PlanName, utils.FormatPrice(totals.TotalDiscount))
	}

	if session.Flowers.DeliveryType == models.DeliveryTypeCourier {
		if deliveryFee == 0 {
			b.WriteString("🚚 Доставка: бесплатно\n")
		} else {
			fmt.Fprintf(&b, "🚚 Доставка: %s\n", utils.FormatPrice(deliveryFee))
		}
		fmt.Fprintf(&b, "📍 Адрес: %s\n", session.Flowers.DeliveryAddress)
		if session.Flowers.RecipientName != "" {
			fmt.Fprintf(&b, "👤 Получатель: %s, %s\n", session.Flowers.RecipientName, session.Flowers.RecipientPhone)
		}
	} else {
		b.WriteString("🏪 Самовывоз\n")
	}

	fmt.Fprintf(&b, "🕐 Время: %s %s\n", utils.FormatDate(session.Flowers.DeliveryDate), session.Flowers.DeliveryTime)
	if session.Flowers.Anonymous {
		b.WriteString("🎭 Анонимная доставка\n")
	}
	if session.Flowers.CardText != "" {
		fmt.Fprintf(&b, "💌 Открытка: %s\n", session.Flowers.CardText)
	}

	total := totals.FinalTotal
	if session.Flowers.BonusToUse > 0 {
		fmt.Fprintf(&b, "💎 Бонусами: -%d\n", session.Flowers.BonusToUse)
		total -= session.Flowers.BonusToUse
	}
	fmt.Fprintf(&b, "\n💰 К оплате: %s", utils.FormatPrice(total))

	return b.String()
}

func (s *Service) flowersConfirmed(ctx context.Context, session *models.Session, callback models.CallbackQuery) error {
	if callback.Data != "confirm" {
		return s.telegram.SendMessage(callback.UserID, "Нажмите «Подтвердить» или «Отменить».")
	}

	return s.finalizeFlowerOrder(ctx, session, callback)
}

// deliveryFee считает стоимость доставки. Порог бесплатной доставки
// сверяется с суммой корзины до скидок.
func (s *Service) deliveryFee(session *models.Session) int {
	if session.Flowers.DeliveryType != models.DeliveryTypeCourier {
		return 0
	}
	return s.rules.DeliveryFee(session.Flowers.CartSubtotal())
}

// flowersTotals пересчитывает корзину с учетом подписки пользователя.
func (s *Service) flowersTotals(session *models.Session, deliveryFee int) pricing.CartTotal {
	sub, err := s.subscriptions.Active(session.UserID, time.Now().In(s.location).Format("2006-01-02"))
	if err != nil {
		s.logger.Error("ошибка при получении подписки",
			zap.Error(err),
			zap.Int64("user_id", session.UserID),
		)
		sub = nil
	}

	lines := make([]pricing.Line, 0, len(session.Flowers.Cart))
	for _, item := range session.Flowers.Cart {
		lines = append(lines, pricing.Line{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Class:    models.ItemClassFlower,
		})
	}

	return s.rules.PriceCart(sub, lines, deliveryFee)
}

// parseFlexibleDate принимает дату в привычном и в ISO формате.
func parseFlexibleDate(text string) (string, bool) {
	for _, layout := range []string{"02.01.2006", "2006-01-02"} {
		if dt, err := time.Parse(layout, text); err == nil {
			return dt.Format("2006-01-02"), true
		}
	}
	return "", false
}

// parseRecipient разбирает строку "Имя, телефон".
func parseRecipient(text string) (string, string, bool) {
	parts := strings.SplitN(text, ",", 2)
	if len(parts) != 2 {
		return "", "", false
	}

	name := strings.TrimSpace(parts[0])
	phone := strings.TrimSpace(parts[1])
	if name == "" || !utils.ValidatePhone(phone) {
		return "", "", false
	}

	return name, utils.FormatPhone(phone), true
}
