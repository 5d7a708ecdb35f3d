package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vital7472/beauty-salon-bot/internal/config"
	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testServer(token string) *AdminServer {
	return &AdminServer{
		cfg:    config.API{Addr: ":0", AdminToken: token},
		logger: zap.NewNop(),
	}
}

func TestAuthMiddleware(t *testing.T) {
	server := testServer("secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := server.authMiddleware(next)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"valid token", "secret", http.StatusNoContent},
		{"wrong token", "guess", http.StatusUnauthorized},
		{"missing token", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.token != "" {
				req.Header.Set("X-Admin-Token", tt.token)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

// Без настроенного токена API закрыт целиком, а не открыт.
func TestAuthMiddlewareWithoutConfiguredToken(t *testing.T) {
	server := testServer("")

	handler := server.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAppointmentStatusMessage(t *testing.T) {
	appt := models.SalonAppointment{
		ID:              7,
		UserID:          100,
		ServiceName:     "Маникюр",
		AppointmentDate: "2026-09-15",
		TimeSlot:        "12:00",
	}

	appt.Status = models.AppointmentStatusConfirmed
	text := appointmentStatusMessage(appt)
	assert.Contains(t, text, "Маникюр")
	assert.Contains(t, text, "15 сентября 2026")
	assert.Contains(t, text, "12:00")

	appt.Status = models.AppointmentStatusCancelled
	assert.Contains(t, appointmentStatusMessage(appt), "отменена")

	// Для pending уведомления нет
	appt.Status = models.AppointmentStatusPending
	assert.Empty(t, appointmentStatusMessage(appt))
}

func TestFlowerStatusMessage(t *testing.T) {
	order := models.FlowerOrder{ID: 12, UserID: 100}

	order.Status = models.FlowerOrderStatusAccepted
	assert.Contains(t, flowerStatusMessage(order), "#12")

	order.Status = models.FlowerOrderStatusDelivering
	assert.Contains(t, flowerStatusMessage(order), "курьеру")

	order.Status = models.FlowerOrderStatusDelivered
	assert.Contains(t, flowerStatusMessage(order), "доставлен")

	order.Status = models.FlowerOrderStatusNew
	assert.Empty(t, flowerStatusMessage(order))
}
