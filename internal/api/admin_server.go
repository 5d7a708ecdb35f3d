// Package api - HTTP-интерфейс для администраторов: просмотр заказов,
// смена статусов, управление вознаграждениями и каталогом.
package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Vital7472/beauty-salon-bot/internal/config"
	"github.com/Vital7472/beauty-salon-bot/internal/database"
	"github.com/Vital7472/beauty-salon-bot/internal/models"
	"github.com/Vital7472/beauty-salon-bot/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Notifier шлет уведомления пользователям о смене статуса заказа.
type Notifier interface {
	SendMessage(chatID int64, text string) error
}

// AdminServer - HTTP-сервер админки.
type AdminServer struct {
	cfg      config.API
	logger   *zap.Logger
	notifier Notifier

	users        *database.UserRepository
	orders       *database.OrderRepository
	ledger       *database.LedgerRepository
	referrals    *database.ReferralRepository
	catalog      *database.CatalogRepository
	attribution  *database.AttributionRepository
	certificates *database.CertificateRepository
}

// NewAdminServer создает новый админ-сервер
func NewAdminServer(
	cfg config.API,
	notifier Notifier,
	users *database.UserRepository,
	orders *database.OrderRepository,
	ledger *database.LedgerRepository,
	referrals *database.ReferralRepository,
	catalog *database.CatalogRepository,
	attribution *database.AttributionRepository,
	certificates *database.CertificateRepository,
	logger *zap.Logger,
) *AdminServer {
	return &AdminServer{
		cfg:          cfg,
		logger:       logger,
		notifier:     notifier,
		users:        users,
		orders:       orders,
		ledger:       ledger,
		referrals:    referrals,
		catalog:      catalog,
		attribution:  attribution,
		certificates: certificates,
	}
}

// Start запускает HTTP-сервер. Блокирует до остановки.
func (s *AdminServer) Start() error {
	router := chi.NewRouter()
	router.Use(s.authMiddleware)

	router.Route("/api", func(r chi.Router) {
		r.Get("/appointments", s.listAppointments)
		r.Post("/appointments/{id}/status", s.updateAppointmentStatus)

		r.Get("/orders", s.listFlowerOrders)
		r.Post("/orders/{id}/status", s.updateFlowerOrderStatus)
		r.Post("/orders/{id}/paid", s.markOrderPaid)

		r.Get("/users/{id}", s.getUser)

		r.Get("/rewards/pending", s.pendingRewards)
		r.Post("/rewards/{id}/approve", s.approveReward)
		r.Post("/rewards/{id}/reject", s.rejectReward)

		r.Get("/referral-settings", s.getReferralSettings)
		r.Put("/referral-settings", s.updateReferralSettings)

		r.Get("/campaigns", s.listCampaigns)
		r.Post("/campaigns", s.createCampaign)

		r.Post("/services", s.createService)
		r.Post("/products", s.createProduct)
		r.Post("/products/{id}/stock", s.setProductStock)

		r.Post("/certificates/{code}/redeem", s.redeemCertificate)
	})

	s.logger.Info("Запуск админ-сервера", zap.String("addr", s.cfg.Addr))
	return http.ListenAndServe(s.cfg.Addr, router)
}

// Доступ только по заранее выданному токену в X-Admin-Token.
func (s *AdminServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminToken == "" {
			s.writeError(w, http.StatusServiceUnavailable, "админ-токен не настроен")
			return
		}

		token := r.Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AdminToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "неверный токен")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *AdminServer) listAppointments(w http.ResponseWriter, r *http.Request) {
	status := models.AppointmentStatus(r.URL.Query().Get("status"))

	appointments, err := s.orders.ListAppointments(status)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "не удалось получить записи")
		return
	}

	s.writeJSON(w, http.StatusOK, appointments)
}

func (s *AdminServer) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	var body struct {
		Status models.AppointmentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	appointment, err := s.orders.UpdateAppointmentStatus(id, body.Status)
	if err != nil {
		s.writeTransitionError(w, err)
		return
	}

	// Уведомление клиенту не влияет на результат операции
	if text := appointmentStatusMessage(appointment); text != "" {
		if err := s.notifier.SendMessage(appointment.UserID, text); err != nil {
			s.logger.Error("не удалось уведомить клиента о статусе записи",
				zap.Error(err),
				zap.Int64("appointment_id", appointment.ID),
			)
		}
	}

	s.writeJSON(w, http.StatusOK, appointment)
}

func (s *AdminServer) listFlowerOrders(w http.ResponseWriter, r *http.Request) {
	status := models.FlowerOrderStatus(r.URL.Query().Get("status"))

	orders, err := s.orders.ListFlowerOrders(status)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "не удалось получить заказы")
		return
	}

	s.writeJSON(w, http.StatusOK, orders)
}

func (s *AdminServer) updateFlowerOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	var body struct {
		Status models.FlowerOrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	order, err := s.orders.UpdateFlowerOrderStatus(id, body.Status)
	if err != nil {
		s.writeTransitionError(w, err)
		return
	}

	if text := flowerStatusMessage(order); text != "" {
		if err := s.notifier.SendMessage(order.UserID, text); err != nil {
			s.logger.Error("не удалось уведомить клиента о статусе заказа",
				zap.Error(err),
				zap.Int64("order_id", order.ID),
			)
		}
	}

	s.writeJSON(w, http.StatusOK, order)
}

func (s *AdminServer) markOrderPaid(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	if err := s.orders.MarkFlowerOrderPaid(id); err != nil {
		s.writeTransitionError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

func (s *AdminServer) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	user, err := s.users.GetUser(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "пользователь не найден")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "не удалось получить пользователя")
		return
	}

	transactions, err := s.ledger.Transactions(id, 50)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "не удалось получить историю баллов")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"transactions": transactions,
	})
}

func (s *AdminServer) pendingRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := s.referrals.PendingRewards()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "не удалось получить вознаграждения")
		return
	}

	s.writeJSON(w, http.StatusOK, rewards)
}

func (s *AdminServer) approveReward(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	reward, err := s.referrals.ApproveReward(id)
	if err != nil {
		s.writeTransitionError(w, err)
		return
	}

	text := fmt.Sprintf("🎉 Вам начислено %d бонусов за приглашенного друга!", reward.RewardAmount)
	if err := s.notifier.SendMessage(reward.ReferrerUserID, text); err != nil {
		s.logger.Error("не удалось уведомить реферера",
			zap.Error(err),
			zap.Int64("reward_id", reward.ID),
		)
	}

	s.writeJSON(w, http.StatusOK, reward)
}

func (s *AdminServer) rejectReward(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	reward, err := s.referrals.RejectReward(id)
	if err != nil {
		s.writeTransitionError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, reward)
}

func (s *AdminServer) getReferralSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.referrals.GetSettings()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "не удалось получить настройки")
		return
	}

	s.writeJSON(w, http.StatusOK, settings)
}

func (s *AdminServer) updateReferralSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.ReferralSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	if err := s.referrals.UpdateSettings(settings); err != nil {
		s.writeError(w, http.StatusInternalServerError, "не удалось сохранить настройки")
		return
	}

	s.writeJSON(w, http.StatusOK, settings)
}

func (s *AdminServer) listCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.attribution.ListCampaigns()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "не удалось получить кампании")
		return
	}

	s.writeJSON(w, http.StatusOK, campaigns)
}

func (s *AdminServer) createCampaign(w http.ResponseWriter, r *http.Request) {
	var campaign models.UTMCampaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	id, err := s.attribution.CreateCampaign(campaign)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "не удалось создать кампанию")
		return
	}
	campaign.ID = id

	s.writeJSON(w, http.StatusCreated, campaign)
}

func (s *AdminServer) createService(w http.ResponseWriter, r *http.Request) {
	var service models.Service
	if err := json.NewDecoder(r.Body).Decode(&service); err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	id, err := s.catalog.CreateService(service)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "не удалось создать услугу")
		return
	}
	service.ID = id

	s.writeJSON(w, http.StatusCreated, service)
}

func (s *AdminServer) createProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	id, err := s.catalog.CreateProduct(product)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "не удалось создать товар")
		return
	}
	product.ID = id

	s.writeJSON(w, http.StatusCreated, product)
}

func (s *AdminServer) setProductStock(w http.ResponseWriter, r *http.Request) {
	id, err := s.pathID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	var body struct {
		InStock bool `json:"in_stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	if err := s.catalog.SetProductStock(id, body.InStock); err != nil {
		s.writeTransitionError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

func (s *AdminServer) redeemCertificate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var body struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	cert, err := s.certificates.Redeem(code, body.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "сертификат не найден или уже погашен")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "не удалось погасить сертификат")
		return
	}

	s.writeJSON(w, http.StatusOK, cert)
}

func (s *AdminServer) pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (s *AdminServer) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("не удалось записать ответ", zap.Error(err))
	}
}

func (s *AdminServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *AdminServer) writeTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "запись не найдена")
	case errors.Is(err, database.ErrInvalidTransition):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrRewardAlreadyResolved):
		s.writeError(w, http.StatusConflict, "вознаграждение уже обработано")
	default:
		s.writeError(w, http.StatusInternalServerError, "внутренняя ошибка")
	}
}

// Шаблоны уведомлений клиенту о смене статуса.

func appointmentStatusMessage(appt models.SalonAppointment) string {
	switch appt.Status {
	case models.AppointmentStatusConfirmed:
		return fmt.Sprintf("✅ Ваша запись на «%s» %s в %s подтверждена. Ждем вас!",
			appt.ServiceName, utils.FormatDate(appt.AppointmentDate), appt.TimeSlot)
	case models.AppointmentStatusCompleted:
		return "🌸 Спасибо за визит! Будем рады видеть вас снова."
	case models.AppointmentStatusCancelled:
		return fmt.Sprintf("❌ Ваша запись на «%s» %s отменена. Напишите нам, если это ошибка.",
			appt.ServiceName, utils.FormatDate(appt.AppointmentDate))
	}
	return ""
}

func flowerStatusMessage(order models.FlowerOrder) string {
	switch order.Status {
	case models.FlowerOrderStatusAccepted:
		return fmt.Sprintf("✅ Заказ #%d принят в работу!", order.ID)
	case models.FlowerOrderStatusDelivering:
		return fmt.Sprintf("🚚 Заказ #%d передан курьеру.", order.ID)
	case models.FlowerOrderStatusDelivered:
		return fmt.Sprintf("💐 Заказ #%d доставлен. Спасибо, что выбрали нас!", order.ID)
	case models.FlowerOrderStatusCancelled:
		return fmt.Sprintf("❌ Заказ #%d отменен. Напишите нам, если это ошибка.", order.ID)
	}
	return ""
}
