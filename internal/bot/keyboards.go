package bot

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Vital7472/beauty-salon-bot/internal/models"
	"github.com/Vital7472/beauty-salon-bot/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Слоты записи в салон. Рабочий день с 10 до 19.
var salonTimeSlots = []string{
	"10:00", "11:00", "12:00", "13:00", "14:00",
	"15:00", "16:00", "17:00", "18:00", "19:00",
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💇‍♀️ Записаться в салон", "salon_booking"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💐 Заказать цветы", "flowers_shop"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎁 Купить сертификат", "buy_certificate"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Мой профиль", "profile"),
			tgbotapi.NewInlineKeyboardButtonData("💎 Мои бонусы", "my_bonuses"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📦 Мои заказы", "my_orders"),
			tgbotapi.NewInlineKeyboardButtonData("👥 Пригласить друга", "referral_program"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Написать администратору", "contact_support"),
		),
	)
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Главное меню", "main_menu"),
	)
}

// categoriesKeyboard - по кнопке на категорию, значение в callback.
func categoriesKeyboard(prefix string, categories []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories)+1)
	for _, category := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(category, prefix+":"+category),
		))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func servicesKeyboard(services []models.Service) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(services)+1)
	for _, service := range services {
		label := fmt.Sprintf("%s - %s", service.Name, utils.FormatPrice(service.Price))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "service:"+strconv.FormatInt(service.ID, 10)),
		))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// calendarKeyboard - ближайшие две недели, прошедшие даты не показываются.
// "Сегодня" остается доступной до конца дня в часовом поясе салона.
func calendarKeyboard(now time.Time, location *time.Location) tgbotapi.InlineKeyboardMarkup {
	today := now.In(location)

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 8)
	row := make([]tgbotapi.InlineKeyboardButton, 0, 2)

	for day := 0; day < 14; day++ {
		date := today.AddDate(0, 0, day)
		value := date.Format("2006-01-02")

		label := utils.FormatDate(value)
		if day == 0 {
			label = "Сегодня"
		}

		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "date:"+value))
		if len(row) == 2 {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, 2)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func timeSlotsKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 6)
	row := make([]tgbotapi.InlineKeyboardButton, 0, 3)

	for _, slot := range salonTimeSlots {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(slot, "time:"+slot))
		if len(row) == 3 {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, 3)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func skipCommentKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➡️ Пропустить", "skip"),
		),
		backRow(),
	)
}

func paymentKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Оплатить онлайн", "pay:online"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💵 Оплата на месте", "pay:offline"),
		),
		backRow(),
	)
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", "confirm"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", "main_menu"),
		),
	)
}

func productKeyboard(product models.Product, quantity int) tgbotapi.InlineKeyboardMarkup {
	id := strconv.FormatInt(product.ID, 10)

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", "dec:"+id),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d шт", quantity), "noop"),
			tgbotapi.NewInlineKeyboardButtonData("➕", "add:"+id),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Корзина", "cart"),
		),
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cartKeyboard(cart []models.CartItem) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(cart)+3)

	for _, item := range cart {
		id := strconv.FormatInt(item.ProductID, 10)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", "dec:"+id),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s ×%d", item.Name, item.Quantity), "noop"),
			tgbotapi.NewInlineKeyboardButtonData("➕", "add:"+id),
		))
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Оформить заказ", "checkout"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛍 Продолжить покупки", "continue"),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Очистить", "clear"),
		),
		backRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func deliveryTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚗 Доставка", "delivery:delivery"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏪 Самовывоз", "delivery:pickup"),
		),
		backRow(),
	)
}

// addressesKeyboard предлагает сохраненные адреса и ввод нового.
func addressesKeyboard(addresses []models.Address) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(addresses)+2)
	for _, address := range addresses {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📍 "+address.Address, "addr:"+strconv.FormatInt(address.ID, 10)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Новый адрес", "addr:new"),
		),
		backRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func deliveryTimeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 Как можно скорее", "dtime:asap"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗓 Выбрать дату и время", "dtime:custom"),
		),
		backRow(),
	)
}

func yesNoKeyboard(yesData, noData string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Да", yesData),
			tgbotapi.NewInlineKeyboardButtonData("Нет", noData),
		),
		backRow(),
	)
}

// bonusKeyboard предлагается, когда на балансе есть баллы.
func bonusKeyboard(cap int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("🎁 Списать все %d бонусов", cap), "bonus:max"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💎 Частично бонусами", "bonus:use"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➡️ Не списывать", "bonus:skip"),
		),
		backRow(),
	)
}

// contactKeyboard - reply-клавиатура с кнопкой "Поделиться номером".
func contactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	button := tgbotapi.NewKeyboardButtonContact("📱 Поделиться номером")
	keyboard := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(button))
	keyboard.OneTimeKeyboard = true
	keyboard.ResizeKeyboard = true
	return keyboard
}

var certificateAmounts = []int{2000, 3000, 5000}

func certAmountKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(certificateAmounts))
	for _, amount := range certificateAmounts {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			utils.FormatPrice(amount), "amount:"+strconv.Itoa(amount)))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Другая сумма", "amount:custom"),
		),
		backRow(),
	)
}
