package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProduct(id int64, name string, price int) Product {
	return Product{ID: id, Name: name, Price: price, Active: true, InStock: true}
}

func TestCartAdd(t *testing.T) {
	var f FlowerSelections

	quantity := f.CartAdd(testProduct(1, "Розы", 1200))
	assert.Equal(t, 1, quantity)

	quantity = f.CartAdd(testProduct(1, "Розы", 1200))
	assert.Equal(t, 2, quantity)

	f.CartAdd(testProduct(2, "Тюльпаны", 500))

	assert.Len(t, f.Cart, 2)
	assert.Equal(t, 3, f.CartCount())
	assert.Equal(t, 2900, f.CartSubtotal())
}

// Цена в корзине фиксируется при добавлении: повторное добавление того же
// товара с новой ценой каталога увеличивает количество по старой цене.
func TestCartAddKeepsSnapshotPrice(t *testing.T) {
	var f FlowerSelections

	f.CartAdd(testProduct(1, "Розы", 1200))
	f.CartAdd(testProduct(1, "Розы", 1500))

	assert.Len(t, f.Cart, 1)
	assert.Equal(t, 1200, f.Cart[0].Price)
	assert.Equal(t, 2400, f.CartSubtotal())
}

func TestCartDecrementRemovesLastUnit(t *testing.T) {
	var f FlowerSelections

	f.CartAdd(testProduct(1, "Розы", 1200))
	f.CartAdd(testProduct(1, "Розы", 1200))

	f.CartDecrement(1)
	assert.Equal(t, 1, f.Cart[0].Quantity)

	// Последняя единица удаляет строку целиком
	f.CartDecrement(1)
	assert.Empty(t, f.Cart)

	// Декремент несуществующего товара ничего не ломает
	f.CartDecrement(99)
	assert.Empty(t, f.Cart)
}

func TestCartRemove(t *testing.T) {
	var f FlowerSelections

	f.CartAdd(testProduct(1, "Розы", 1200))
	f.CartAdd(testProduct(2, "Тюльпаны", 500))

	f.CartRemove(1)

	assert.Len(t, f.Cart, 1)
	assert.Equal(t, int64(2), f.Cart[0].ProductID)
}

func TestCartFind(t *testing.T) {
	var f FlowerSelections
	f.CartAdd(testProduct(1, "Розы", 1200))

	assert.NotNil(t, f.CartFind(1))
	assert.Nil(t, f.CartFind(2))
}

func TestSubscriptionDiscountPercent(t *testing.T) {
	var nilSub *Subscription
	assert.Equal(t, 0, nilSub.DiscountPercent(ItemClassService))

	sub := &Subscription{ServiceDiscountPercent: 15, FlowerDiscountPercent: 10}
	assert.Equal(t, 15, sub.DiscountPercent(ItemClassService))
	assert.Equal(t, 10, sub.DiscountPercent(ItemClassFlower))
	assert.Equal(t, 0, sub.DiscountPercent(ItemClass("unknown")))
}
