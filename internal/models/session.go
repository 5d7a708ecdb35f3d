package models

import "time"

// Flow - один из диалоговых сценариев бота.
type Flow string

const (
	FlowSalon       Flow = "salon"
	FlowFlowers     Flow = "flowers"
	FlowCertificate Flow = "certificate"
)

// Step - идентификатор шага сценария. Шаг хранится в сессии и
// диспетчеризуется через таблицу обработчиков, а не разбором строк.
type Step string

const (
	// Запись в салон.
	StepSalonCategory Step = "salon_category"
	StepSalonService  Step = "salon_service"
	StepSalonDate     Step = "salon_date"
	StepSalonTime     Step = "salon_time"
	StepSalonPhone    Step = "salon_phone"
	StepSalonComment  Step = "salon_comment"
	StepSalonPayment  Step = "salon_payment"
	StepSalonConfirm  Step = "salon_confirm"

	// Заказ цветов.
	StepFlowersCategory     Step = "flowers_category"
	StepFlowersItem         Step = "flowers_item"
	StepFlowersCart         Step = "flowers_cart"
	StepFlowersDeliveryType Step = "flowers_delivery_type"
	StepFlowersAddress      Step = "flowers_address"
	StepFlowersAddressInput Step = "flowers_address_input"
	StepFlowersTime         Step = "flowers_time"
	StepFlowersDateInput    Step = "flowers_date_input"
	StepFlowersTimeInput    Step = "flowers_time_input"
	StepFlowersAnonymous    Step = "flowers_anonymous"
	StepFlowersCard         Step = "flowers_card"
	StepFlowersRecipient    Step = "flowers_recipient"
	StepFlowersPayment      Step = "flowers_payment"
	StepFlowersBonusInput   Step = "flowers_bonus_input"
	StepFlowersConfirm      Step = "flowers_confirm"

	// Покупка сертификата.
	StepCertAmount      Step = "cert_amount"
	StepCertAmountInput Step = "cert_amount_input"
	StepCertRecipient   Step = "cert_recipient"
	StepCertConfirm     Step = "cert_confirm"
)

// CartItem - строка корзины. Цена фиксируется в момент добавления,
// количество всегда >= 1: строка с нулевым количеством удаляется.
type CartItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
}

// SalonSelections - накопленный выбор сценария записи в салон.
type SalonSelections struct {
	Category      string   `json:"category,omitempty"`
	Service       *Service `json:"service,omitempty"`
	Date          string   `json:"date,omitempty"`
	TimeSlot      string   `json:"time_slot,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Comment       string   `json:"comment,omitempty"`
	PaymentOnline bool     `json:"payment_online,omitempty"`
}

// FlowerSelections - накопленный выбор сценария заказа цветов.
type FlowerSelections struct {
	Category        string     `json:"category,omitempty"`
	Cart            []CartItem `json:"cart,omitempty"`
	DeliveryType    string     `json:"delivery_type,omitempty"`
	DeliveryAddress string     `json:"delivery_address,omitempty"`
	DeliveryDate    string     `json:"delivery_date,omitempty"`
	DeliveryTime    string     `json:"delivery_time,omitempty"`
	Anonymous       bool       `json:"anonymous,omitempty"`
	CardText        string     `json:"card_text,omitempty"`
	RecipientName   string     `json:"recipient_name,omitempty"`
	RecipientPhone  string     `json:"recipient_phone,omitempty"`
	BonusToUse      int        `json:"bonus_to_use,omitempty"`
}

// CertSelections - накопленный выбор сценария покупки сертификата.
type CertSelections struct {
	Amount    int    `json:"amount,omitempty"`
	Recipient string `json:"recipient,omitempty"`
}

// Session - переходное состояние одного диалога пользователя.
// Живет в хранилище сессий, переживает перезапуск процесса и
// уничтожается при завершении, отмене или выходе в главное меню.
type Session struct {
	UserID    int64            `json:"user_id"`
	Flow      Flow             `json:"flow"`
	Step      Step             `json:"step"`
	Salon     SalonSelections  `json:"salon,omitempty"`
	Flowers   FlowerSelections `json:"flowers,omitempty"`
	Cert      CertSelections   `json:"cert,omitempty"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// CartFind возвращает строку корзины по товару, либо nil.
func (f *FlowerSelections) CartFind(productID int64) *CartItem {
	for i := range f.Cart {
		if f.Cart[i].ProductID == productID {
			return &f.Cart[i]
		}
	}
	return nil
}

// CartAdd добавляет единицу товара, создавая строку при необходимости.
func (f *FlowerSelections) CartAdd(p Product) int {
	if item := f.CartFind(p.ID); item != nil {
		item.Quantity++
		return item.Quantity
	}
	f.Cart = append(f.Cart, CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	})
	return 1
}

// CartDecrement убирает единицу товара. Строка с последней единицей
// удаляется целиком - количество 0 не наблюдаемо.
func (f *FlowerSelections) CartDecrement(productID int64) {
	for i := range f.Cart {
		if f.Cart[i].ProductID != productID {
			continue
		}
		if f.Cart[i].Quantity > 1 {
			f.Cart[i].Quantity--
		} else {
			f.Cart = append(f.Cart[:i], f.Cart[i+1:]...)
		}
		return
	}
}

// CartRemove удаляет строку корзины целиком.
func (f *FlowerSelections) CartRemove(productID int64) {
	for i := range f.Cart {
		if f.Cart[i].ProductID == productID {
			f.Cart = append(f.Cart[:i], f.Cart[i+1:]...)
			return
		}
	}
}

// CartCount возвращает суммарное количество единиц в корзине.
func (f *FlowerSelections) CartCount() int {
	total := 0
	for _, item := range f.Cart {
		total += item.Quantity
	}
	return total
}

// CartSubtotal возвращает сумму корзины без скидок и доставки.
func (f *FlowerSelections) CartSubtotal() int {
	total := 0
	for _, item := range f.Cart {
		total += item.Price * item.Quantity
	}
	return total
}
