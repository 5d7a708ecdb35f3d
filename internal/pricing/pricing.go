// Package pricing считает цены с учетом привилегий подписки,
// стоимость доставки и лимиты оплаты бонусами.
package pricing

import (
	"github.com/Vital7472/beauty-salon-bot/internal/models"
)

// Rules - действующие бизнес-правила. Передаются из конфигурации.
type Rules struct {
	FreeDeliveryThreshold  int
	DeliveryCost           int
	BonusPercent           int
	BonusThreshold         int
	MaxBonusPaymentPercent int
}

// ItemPrice - результат расчета цены одной позиции.
type ItemPrice struct {
	BasePrice       int
	FinalPrice      int
	DiscountPercent int
	DiscountAmount  int
	PlanName        string
}

// Line - строка корзины для расчета.
type Line struct {
	Name     string
	Price    int
	Quantity int
	Class    models.ItemClass
}

// PricedLine - строка корзины с примененной скидкой.
type PricedLine struct {
	Line
	FinalPrice      int
	DiscountPercent int
	LineDiscount    int
}

// CartTotal - итоги корзины. Subtotal считается по базовым ценам.
type CartTotal struct {
	Subtotal      int
	TotalDiscount int
	DeliveryFee   int
	FinalTotal    int
	Lines         []PricedLine
	PlanName      string
}

// PriceItem применяет к базовой цене процент скидки подписки для класса
// позиции. Процентная арифметика целочисленная, с усечением.
func (r Rules) PriceItem(sub *models.Subscription, basePrice int, class models.ItemClass) ItemPrice {
	result := ItemPrice{
		BasePrice:  basePrice,
		FinalPrice: basePrice,
	}

	percent := sub.DiscountPercent(class)
	if percent <= 0 {
		return result
	}

	discount := basePrice * percent / 100
	result.FinalPrice = basePrice - discount
	result.DiscountPercent = percent
	result.DiscountAmount = discount
	result.PlanName = sub.PlanName
	return result
}

// DeliveryFee возвращает стоимость доставки по порогу бесплатной доставки.
// Порог сверяется с суммой ДО скидок: так заведено в действующих правилах,
// хотя лимит бонусов ниже считается уже от суммы со скидкой.
func (r Rules) DeliveryFee(preDiscountSubtotal int) int {
	if preDiscountSubtotal >= r.FreeDeliveryThreshold {
		return 0
	}
	return r.DeliveryCost
}

// PriceCart считает итоги корзины: сумма по базовым ценам, суммарная
// скидка, доставка и итог. Без скрытого состояния - повторный вызов на
// той же корзине дает тот же результат.
func (r Rules) PriceCart(sub *models.Subscription, lines []Line, deliveryFee int) CartTotal {
	total := CartTotal{
		DeliveryFee: deliveryFee,
		Lines:       make([]PricedLine, 0, len(lines)),
	}

	for _, line := range lines {
		item := r.PriceItem(sub, line.Price, line.Class)

		total.Subtotal += line.Price * line.Quantity
		total.TotalDiscount += item.DiscountAmount * line.Quantity

		total.Lines = append(total.Lines, PricedLine{
			Line:            line,
			FinalPrice:      item.FinalPrice,
			DiscountPercent: item.DiscountPercent,
			LineDiscount:    item.DiscountAmount * line.Quantity,
		})

		if item.PlanName != "" {
			total.PlanName = item.PlanName
		}
	}

	total.FinalTotal = total.Subtotal - total.TotalDiscount + deliveryFee
	return total
}

// BonusCap возвращает, сколько бонусов можно потратить на заказ:
// не больше баланса и не больше доли от итоговой суммы. Лимит зависит
// от итога, поэтому пересчитывается при каждом изменении корзины.
func (r Rules) BonusCap(balance, finalTotal int) int {
	cap := finalTotal * r.MaxBonusPaymentPercent / 100
	if balance < cap {
		return balance
	}
	return cap
}

// BonusEarn возвращает начисление за заказ: процент от суммы, если заказ
// дотягивает до порога начисления, иначе ноль.
func (r Rules) BonusEarn(total int) int {
	if total < r.BonusThreshold {
		return 0
	}
	return total * r.BonusPercent / 100
}
