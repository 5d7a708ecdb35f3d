package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// OrderRepository - записи в салон и заказы цветов.
type OrderRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *sqlx.DB, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// Разрешенные переходы статусов. Отмена возможна из любого
// нетерминального статуса, терминальные статусы не меняются.
var appointmentTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.AppointmentStatusPending:   {models.AppointmentStatusConfirmed, models.AppointmentStatusCancelled},
	models.AppointmentStatusConfirmed: {models.AppointmentStatusCompleted, models.AppointmentStatusCancelled},
}

var flowerOrderTransitions = map[models.FlowerOrderStatus][]models.FlowerOrderStatus{
	models.FlowerOrderStatusNew:        {models.FlowerOrderStatusAccepted, models.FlowerOrderStatusCancelled},
	models.FlowerOrderStatusAccepted:   {models.FlowerOrderStatusDelivering, models.FlowerOrderStatusCancelled},
	models.FlowerOrderStatusDelivering: {models.FlowerOrderStatusDelivered, models.FlowerOrderStatusCancelled},
}

const appointmentColumns = `id, user_id, user_name, phone, service_id, service_name, price,
	appointment_date, time_slot, status, prepaid, comment, created_at`

const flowerOrderColumns = `id, user_id, user_name, phone, items, total_amount, bonus_used,
	delivery_type, delivery_address, delivery_time, anonymous, card_text,
	recipient_name, recipient_phone, status, paid, created_at`

// CreateAppointment сохраняет запись в салон со статусом pending.
func (r *OrderRepository) CreateAppointment(appt models.SalonAppointment) (int64, error) {
	query := `
        INSERT INTO salon_appointments
            (user_id, user_name, phone, service_id, service_name, price,
             appointment_date, time_slot, prepaid, comment)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `

	var id int64
	err := r.db.Get(&id, query,
		appt.UserID, appt.UserName, appt.Phone, appt.ServiceID, appt.ServiceName,
		appt.Price, appt.AppointmentDate, appt.TimeSlot, appt.Prepaid, appt.Comment,
	)
	if err != nil {
		r.logger.Error("Ошибка при создании записи в салон",
			zap.Error(err),
			zap.Int64("user_id", appt.UserID),
		)
		return 0, err
	}

	r.logger.Info("Создана запись в салон",
		zap.Int64("appointment_id", id),
		zap.Int64("user_id", appt.UserID),
		zap.String("service", appt.ServiceName),
	)
	return id, nil
}

// CreateFlowerOrder сохраняет заказ цветов. Списание бонусов и вставка
// заказа идут в одной транзакции: если баллов не хватает, заказ не
// появляется вовсе, а наружу уходит ErrInsufficientBonus.
func (r *OrderRepository) CreateFlowerOrder(order models.FlowerOrder) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if order.BonusUsed > 0 {
		if err := debitInTx(tx, order.UserID, order.BonusUsed, "Оплата заказа цветов бонусами"); err != nil {
			if !errors.Is(err, ErrInsufficientBonus) {
				r.logger.Error("Ошибка при списании бонусов за заказ",
					zap.Error(err),
					zap.Int64("user_id", order.UserID),
					zap.Int("bonus_used", order.BonusUsed),
				)
			}
			return 0, err
		}
	}

	query := `
        INSERT INTO flower_orders
            (user_id, user_name, phone, items, total_amount, bonus_used,
             delivery_type, delivery_address, delivery_time, anonymous, card_text,
             recipient_name, recipient_phone, paid)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id
    `

	var id int64
	err = tx.Get(&id, query,
		order.UserID, order.UserName, order.Phone, order.Items, order.TotalAmount,
		order.BonusUsed, order.DeliveryType, order.DeliveryAddress, order.DeliveryTime,
		order.Anonymous, order.CardText, order.RecipientName, order.RecipientPhone, order.Paid,
	)
	if err != nil {
		r.logger.Error("Ошибка при создании заказа цветов",
			zap.Error(err),
			zap.Int64("user_id", order.UserID),
		)
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	r.logger.Info("Создан заказ цветов",
		zap.Int64("order_id", id),
		zap.Int64("user_id", order.UserID),
		zap.Int("total_amount", order.TotalAmount),
		zap.Int("bonus_used", order.BonusUsed),
	)
	return id, nil
}

func (r *OrderRepository) GetAppointment(id int64) (models.SalonAppointment, error) {
	var appt models.SalonAppointment
	query := `SELECT ` + appointmentColumns + ` FROM salon_appointments WHERE id = $1`

	err := r.db.Get(&appt, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SalonAppointment{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении записи", zap.Error(err), zap.Int64("appointment_id", id))
		return models.SalonAppointment{}, err
	}

	return appt, nil
}

func (r *OrderRepository) GetFlowerOrder(id int64) (models.FlowerOrder, error) {
	var order models.FlowerOrder
	query := `SELECT ` + flowerOrderColumns + ` FROM flower_orders WHERE id = $1`

	err := r.db.Get(&order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FlowerOrder{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении заказа", zap.Error(err), zap.Int64("order_id", id))
		return models.FlowerOrder{}, err
	}

	return order, nil
}

// ListAppointments возвращает записи, при непустом статусе - с фильтром.
func (r *OrderRepository) ListAppointments(status models.AppointmentStatus) ([]models.SalonAppointment, error) {
	var appts []models.SalonAppointment

	if status == "" {
		query := `SELECT ` + appointmentColumns + ` FROM salon_appointments ORDER BY created_at DESC`
		if err := r.db.Select(&appts, query); err != nil {
			r.logger.Error("Ошибка при получении списка записей", zap.Error(err))
			return nil, err
		}
		return appts, nil
	}

	query := `SELECT ` + appointmentColumns + ` FROM salon_appointments WHERE status = $1 ORDER BY created_at DESC`
	if err := r.db.Select(&appts, query, status); err != nil {
		r.logger.Error("Ошибка при получении списка записей", zap.Error(err))
		return nil, err
	}
	return appts, nil
}

// ListFlowerOrders возвращает заказы, при непустом статусе - с фильтром.
func (r *OrderRepository) ListFlowerOrders(status models.FlowerOrderStatus) ([]models.FlowerOrder, error) {
	var orders []models.FlowerOrder

	if status == "" {
		query := `SELECT ` + flowerOrderColumns + ` FROM flower_orders ORDER BY created_at DESC`
		if err := r.db.Select(&orders, query); err != nil {
			r.logger.Error("Ошибка при получении списка заказов", zap.Error(err))
			return nil, err
		}
		return orders, nil
	}

	query := `SELECT ` + flowerOrderColumns + ` FROM flower_orders WHERE status = $1 ORDER BY created_at DESC`
	if err := r.db.Select(&orders, query, status); err != nil {
		r.logger.Error("Ошибка при получении списка заказов", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// UserAppointments возвращает записи пользователя, новые сверху.
func (r *OrderRepository) UserAppointments(userID int64, limit int) ([]models.SalonAppointment, error) {
	var appts []models.SalonAppointment
	query := `SELECT ` + appointmentColumns + ` FROM salon_appointments WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	if err := r.db.Select(&appts, query, userID, limit); err != nil {
		r.logger.Error("Ошибка при получении записей пользователя",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, err
	}
	return appts, nil
}

// UserFlowerOrders возвращает заказы пользователя, новые сверху.
func (r *OrderRepository) UserFlowerOrders(userID int64, limit int) ([]models.FlowerOrder, error) {
	var orders []models.FlowerOrder
	query := `SELECT ` + flowerOrderColumns + ` FROM flower_orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	if err := r.db.Select(&orders, query, userID, limit); err != nil {
		r.logger.Error("Ошибка при получении заказов пользователя",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, err
	}
	return orders, nil
}

// UpdateAppointmentStatus переводит запись в новый статус, проверяя
// переход по жизненному циклу под блокировкой строки.
func (r *OrderRepository) UpdateAppointmentStatus(id int64, to models.AppointmentStatus) (models.SalonAppointment, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return models.SalonAppointment{}, err
	}
	defer tx.Rollback()

	var current models.AppointmentStatus
	err = tx.Get(&current, `SELECT status FROM salon_appointments WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SalonAppointment{}, ErrNotFound
		}
		return models.SalonAppointment{}, err
	}

	if !transitionAllowed(appointmentTransitions[current], to) {
		return models.SalonAppointment{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, to)
	}

	var appt models.SalonAppointment
	query := `UPDATE salon_appointments SET status = $1 WHERE id = $2 RETURNING ` + appointmentColumns
	if err := tx.Get(&appt, query, to, id); err != nil {
		r.logger.Error("Ошибка при смене статуса записи",
			zap.Error(err),
			zap.Int64("appointment_id", id),
		)
		return models.SalonAppointment{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.SalonAppointment{}, err
	}

	r.logger.Info("Статус записи изменен",
		zap.Int64("appointment_id", id),
		zap.String("from", string(current)),
		zap.String("to", string(to)),
	)
	return appt, nil
}

// UpdateFlowerOrderStatus переводит заказ в новый статус, проверяя
// переход по жизненному циклу под блокировкой строки.
func (r *OrderRepository) UpdateFlowerOrderStatus(id int64, to models.FlowerOrderStatus) (models.FlowerOrder, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return models.FlowerOrder{}, err
	}
	defer tx.Rollback()

	var current models.FlowerOrderStatus
	err = tx.Get(&current, `SELECT status FROM flower_orders WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FlowerOrder{}, ErrNotFound
		}
		return models.FlowerOrder{}, err
	}

	if !transitionAllowed(flowerOrderTransitions[current], to) {
		return models.FlowerOrder{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, to)
	}

	var order models.FlowerOrder
	query := `UPDATE flower_orders SET status = $1 WHERE id = $2 RETURNING ` + flowerOrderColumns
	if err := tx.Get(&order, query, to, id); err != nil {
		r.logger.Error("Ошибка при смене статуса заказа",
			zap.Error(err),
			zap.Int64("order_id", id),
		)
		return models.FlowerOrder{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.FlowerOrder{}, err
	}

	r.logger.Info("Статус заказа изменен",
		zap.Int64("order_id", id),
		zap.String("from", string(current)),
		zap.String("to", string(to)),
	)
	return order, nil
}

func transitionAllowed[T comparable](allowed []T, to T) bool {
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// MarkFlowerOrderPaid отмечает заказ оплаченным.
func (r *OrderRepository) MarkFlowerOrderPaid(id int64) error {
	result, err := r.db.Exec(`UPDATE flower_orders SET paid = TRUE WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Ошибка при отметке оплаты", zap.Error(err), zap.Int64("order_id", id))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
