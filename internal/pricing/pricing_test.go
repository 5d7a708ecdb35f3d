package pricing

import (
	"testing"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/stretchr/testify/assert"
)

func testRules() Rules {
	return Rules{
		FreeDeliveryThreshold:  3000,
		DeliveryCost:           300,
		BonusPercent:           5,
		BonusThreshold:         3000,
		MaxBonusPaymentPercent: 50,
	}
}

func TestPriceItemWithoutSubscription(t *testing.T) {
	rules := testRules()

	priced := rules.PriceItem(nil, 2500, models.ItemClassService)

	assert.Equal(t, 2500, priced.BasePrice)
	assert.Equal(t, 2500, priced.FinalPrice)
	assert.Equal(t, 0, priced.DiscountPercent)
	assert.Empty(t, priced.PlanName)
}

func TestPriceItemAppliesClassDiscount(t *testing.T) {
	rules := testRules()
	sub := &models.Subscription{
		PlanName:               "Премиум",
		ServiceDiscountPercent: 15,
		FlowerDiscountPercent:  10,
	}

	service := rules.PriceItem(sub, 2000, models.ItemClassService)
	assert.Equal(t, 1700, service.FinalPrice)
	assert.Equal(t, 15, service.DiscountPercent)
	assert.Equal(t, 300, service.DiscountAmount)
	assert.Equal(t, "Премиум", service.PlanName)

	flower := rules.PriceItem(sub, 2000, models.ItemClassFlower)
	assert.Equal(t, 1800, flower.FinalPrice)
	assert.Equal(t, 10, flower.DiscountPercent)
}

func TestPriceItemTruncatesDiscount(t *testing.T) {
	rules := testRules()
	sub := &models.Subscription{PlanName: "Базовый", FlowerDiscountPercent: 7}

	// 1999 * 7 / 100 = 139.93, усечение до 139
	priced := rules.PriceItem(sub, 1999, models.ItemClassFlower)
	assert.Equal(t, 139, priced.DiscountAmount)
	assert.Equal(t, 1860, priced.FinalPrice)
}

func TestDeliveryFee(t *testing.T) {
	rules := testRules()

	tests := []struct {
		name     string
		subtotal int
		want     int
	}{
		{"below threshold", 2999, 300},
		{"at threshold", 3000, 0},
		{"above threshold", 5000, 0},
		{"empty cart", 0, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.DeliveryFee(tt.subtotal))
		})
	}
}

// Порог бесплатной доставки сверяется с суммой до скидок: корзина на
// 3000 со скидкой подписки все равно едет бесплатно.
func TestFreeDeliveryUsesPreDiscountSubtotal(t *testing.T) {
	rules := testRules()
	sub := &models.Subscription{PlanName: "Премиум", FlowerDiscountPercent: 20}

	lines := []Line{{Name: "Букет", Price: 1500, Quantity: 2, Class: models.ItemClassFlower}}

	subtotal := 0
	for _, line := range lines {
		subtotal += line.Price * line.Quantity
	}
	fee := rules.DeliveryFee(subtotal)
	assert.Equal(t, 0, fee)

	totals := rules.PriceCart(sub, lines, fee)
	assert.Equal(t, 3000, totals.Subtotal)
	assert.Equal(t, 600, totals.TotalDiscount)
	assert.Equal(t, 2400, totals.FinalTotal)
}

func TestPriceCartTotals(t *testing.T) {
	rules := testRules()

	lines := []Line{
		{Name: "Розы", Price: 1200, Quantity: 2, Class: models.ItemClassFlower},
		{Name: "Тюльпаны", Price: 500, Quantity: 1, Class: models.ItemClassFlower},
	}

	totals := rules.PriceCart(nil, lines, 300)

	assert.Equal(t, 2900, totals.Subtotal)
	assert.Equal(t, 0, totals.TotalDiscount)
	assert.Equal(t, 300, totals.DeliveryFee)
	assert.Equal(t, 3200, totals.FinalTotal)
	assert.Len(t, totals.Lines, 2)
}

func TestPriceCartWithSubscription(t *testing.T) {
	rules := testRules()
	sub := &models.Subscription{PlanName: "Цветочный", FlowerDiscountPercent: 10}

	lines := []Line{
		{Name: "Розы", Price: 1000, Quantity: 3, Class: models.ItemClassFlower},
	}

	totals := rules.PriceCart(sub, lines, 0)

	assert.Equal(t, 3000, totals.Subtotal)
	assert.Equal(t, 300, totals.TotalDiscount)
	assert.Equal(t, 2700, totals.FinalTotal)
	assert.Equal(t, "Цветочный", totals.PlanName)
	assert.Equal(t, 900, totals.Lines[0].FinalPrice)
}

func TestBonusCap(t *testing.T) {
	rules := testRules()

	tests := []struct {
		name    string
		balance int
		total   int
		want    int
	}{
		{"balance below cap", 300, 2000, 300},
		{"balance above cap", 5000, 2000, 1000},
		{"zero balance", 0, 2000, 0},
		{"cap truncates", 100, 333, 100},
		{"zero total", 500, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.BonusCap(tt.balance, tt.total))
		})
	}
}

func TestBonusEarn(t *testing.T) {
	rules := testRules()

	tests := []struct {
		name  string
		total int
		want  int
	}{
		{"below threshold", 2999, 0},
		{"at threshold", 3000, 150},
		{"above threshold", 4567, 228},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.BonusEarn(tt.total))
		})
	}
}
