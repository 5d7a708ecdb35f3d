package models

// Service - услуга салона красоты.
type Service struct {
	ID              int64  `db:"id" json:"id"`
	Category        string `db:"category" json:"category"`
	Name            string `db:"name" json:"name"`
	Price           int    `db:"price" json:"price"`
	Description     string `db:"description" json:"description"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes"`
	Active          bool   `db:"active" json:"active"`
}

// Product - товар цветочного магазина.
type Product struct {
	ID          int64  `db:"id" json:"id"`
	Category    string `db:"category" json:"category"`
	Name        string `db:"name" json:"name"`
	Price       int    `db:"price" json:"price"`
	PhotoURL    string `db:"photo_url" json:"photo_url"`
	Description string `db:"description" json:"description"`
	Active      bool   `db:"active" json:"active"`
	InStock     bool   `db:"in_stock" json:"in_stock"`
}

// ItemClass - класс позиции для расчета скидки по подписке.
type ItemClass string

const (
	ItemClassService ItemClass = "service"
	ItemClassFlower  ItemClass = "flower"
)

// Subscription - активная подписка пользователя. Ядро бота ее только читает.
type Subscription struct {
	ID                     int64  `db:"id" json:"id"`
	UserID                 int64  `db:"user_id" json:"user_id"`
	PlanName               string `db:"plan_name" json:"plan_name"`
	ServiceDiscountPercent int    `db:"service_discount_percent" json:"service_discount_percent"`
	FlowerDiscountPercent  int    `db:"flower_discount_percent" json:"flower_discount_percent"`
	MonthlyFlowersIncluded int    `db:"monthly_flowers_included" json:"monthly_flowers_included"`
	FlowersUsedThisMonth   int    `db:"flowers_used_this_month" json:"flowers_used_this_month"`
	MonthlyServiceIncluded bool   `db:"monthly_service_included" json:"monthly_service_included"`
	ServiceUsedThisMonth   bool   `db:"service_used_this_month" json:"service_used_this_month"`
	EndDate                string `db:"end_date" json:"end_date"`
}

// DiscountPercent возвращает процент скидки для класса позиции.
func (s *Subscription) DiscountPercent(class ItemClass) int {
	if s == nil {
		return 0
	}
	switch class {
	case ItemClassService:
		return s.ServiceDiscountPercent
	case ItemClassFlower:
		return s.FlowerDiscountPercent
	}
	return 0
}
