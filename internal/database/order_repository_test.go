package database

import (
	"testing"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.AppointmentStatus
		to      models.AppointmentStatus
		allowed bool
	}{
		{"pending to confirmed", models.AppointmentStatusPending, models.AppointmentStatusConfirmed, true},
		{"pending to cancelled", models.AppointmentStatusPending, models.AppointmentStatusCancelled, true},
		{"pending to completed", models.AppointmentStatusPending, models.AppointmentStatusCompleted, false},
		{"confirmed to completed", models.AppointmentStatusConfirmed, models.AppointmentStatusCompleted, true},
		{"confirmed to cancelled", models.AppointmentStatusConfirmed, models.AppointmentStatusCancelled, true},
		{"confirmed to pending", models.AppointmentStatusConfirmed, models.AppointmentStatusPending, false},
		{"completed is terminal", models.AppointmentStatusCompleted, models.AppointmentStatusCancelled, false},
		{"cancelled is terminal", models.AppointmentStatusCancelled, models.AppointmentStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transitionAllowed(appointmentTransitions[tt.from], tt.to)
			assert.Equal(t, tt.allowed, got)
		})
	}
}

func TestFlowerOrderTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.FlowerOrderStatus
		to      models.FlowerOrderStatus
		allowed bool
	}{
		{"new to accepted", models.FlowerOrderStatusNew, models.FlowerOrderStatusAccepted, true},
		{"new to cancelled", models.FlowerOrderStatusNew, models.FlowerOrderStatusCancelled, true},
		{"new to delivered", models.FlowerOrderStatusNew, models.FlowerOrderStatusDelivered, false},
		{"accepted to delivering", models.FlowerOrderStatusAccepted, models.FlowerOrderStatusDelivering, true},
		{"delivering to delivered", models.FlowerOrderStatusDelivering, models.FlowerOrderStatusDelivered, true},
		{"delivering to cancelled", models.FlowerOrderStatusDelivering, models.FlowerOrderStatusCancelled, true},
		{"delivered is terminal", models.FlowerOrderStatusDelivered, models.FlowerOrderStatusCancelled, false},
		{"cancelled is terminal", models.FlowerOrderStatusCancelled, models.FlowerOrderStatusAccepted, false},
		{"no backward step", models.FlowerOrderStatusDelivering, models.FlowerOrderStatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transitionAllowed(flowerOrderTransitions[tt.from], tt.to)
			assert.Equal(t, tt.allowed, got)
		})
	}
}
