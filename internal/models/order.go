package models

import "time"

// AppointmentStatus - статус записи в салон.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// FlowerOrderStatus - статус заказа цветов.
type FlowerOrderStatus string

const (
	FlowerOrderStatusNew        FlowerOrderStatus = "new"
	FlowerOrderStatusAccepted   FlowerOrderStatus = "accepted"
	FlowerOrderStatusDelivering FlowerOrderStatus = "delivering"
	FlowerOrderStatusDelivered  FlowerOrderStatus = "delivered"
	FlowerOrderStatusCancelled  FlowerOrderStatus = "cancelled"
)

// SalonAppointment - запись в салон. Имя и телефон клиента денормализованы
// на момент записи. Запись не удаляется, меняется только статус.
type SalonAppointment struct {
	ID              int64             `db:"id" json:"id"`
	UserID          int64             `db:"user_id" json:"user_id"`
	UserName        string            `db:"user_name" json:"user_name"`
	Phone           string            `db:"phone" json:"phone"`
	ServiceID       int64             `db:"service_id" json:"service_id"`
	ServiceName     string            `db:"service_name" json:"service_name"`
	Price           int               `db:"price" json:"price"`
	AppointmentDate string            `db:"appointment_date" json:"appointment_date"`
	TimeSlot        string            `db:"time_slot" json:"time_slot"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Prepaid         bool              `db:"prepaid" json:"prepaid"`
	Comment         string            `db:"comment" json:"comment"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
}

// OrderItem - строка заказа цветов. Цена фиксируется в момент добавления
// в корзину и при оформлении из каталога не перечитывается.
type OrderItem struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Типы получения заказа цветов.
const (
	DeliveryTypePickup  = "pickup"
	DeliveryTypeCourier = "delivery"
)

// FlowerOrder - заказ цветов. TotalAmount хранится уже за вычетом
// использованных бонусов, как сумма к оплате.
type FlowerOrder struct {
	ID              int64             `db:"id" json:"id"`
	UserID          int64             `db:"user_id" json:"user_id"`
	UserName        string            `db:"user_name" json:"user_name"`
	Phone           string            `db:"phone" json:"phone"`
	Items           string            `db:"items" json:"items"`
	TotalAmount     int               `db:"total_amount" json:"total_amount"`
	BonusUsed       int               `db:"bonus_used" json:"bonus_used"`
	DeliveryType    string            `db:"delivery_type" json:"delivery_type"`
	DeliveryAddress string            `db:"delivery_address" json:"delivery_address"`
	DeliveryTime    string            `db:"delivery_time" json:"delivery_time"`
	Anonymous       bool              `db:"anonymous" json:"anonymous"`
	CardText        string            `db:"card_text" json:"card_text"`
	RecipientName   string            `db:"recipient_name" json:"recipient_name"`
	RecipientPhone  string            `db:"recipient_phone" json:"recipient_phone"`
	Status          FlowerOrderStatus `db:"status" json:"status"`
	Paid            bool              `db:"paid" json:"paid"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
}

// CertificateStatus - статус подарочного сертификата.
type CertificateStatus string

const (
	CertificateStatusActive CertificateStatus = "active"
	CertificateStatusUsed   CertificateStatus = "used"
)

// Certificate - подарочный сертификат с кодом формата CERT-XXXX-XXXX.
type Certificate struct {
	ID        int64             `db:"id" json:"id"`
	Code      string            `db:"code" json:"code"`
	Amount    int               `db:"amount" json:"amount"`
	BuyerID   int64             `db:"buyer_user_id" json:"buyer_user_id"`
	Recipient string            `db:"recipient" json:"recipient"`
	Status    CertificateStatus `db:"status" json:"status"`
	UsedBy    int64             `db:"used_by" json:"used_by,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UsedAt    *time.Time        `db:"used_at" json:"used_at,omitempty"`
}

// Типы заказов для планирования запросов отзыва.
const (
	FeedbackOrderTypeAppointment = "appointment"
	FeedbackOrderTypeFlowerOrder = "flower_order"
)

// FeedbackRequest - отложенный запрос отзыва после выполненного заказа.
type FeedbackRequest struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	OrderType     string    `db:"order_type" json:"order_type"`
	OrderID       int64     `db:"order_id" json:"order_id"`
	ScheduledDate time.Time `db:"scheduled_date" json:"scheduled_date"`
	Status        string    `db:"status" json:"status"`
}
