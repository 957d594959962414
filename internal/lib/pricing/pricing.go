// Package pricing содержит чистые функции расчёта сумм заказа:
// стоимость позиций, доставка, налог и итог. Суммы всегда считаются
// на сервере по каталожному снапшоту, клиентские значения не принимаются.
package pricing

import (
	"math"

	"github.com/magabrotheeeer/storefront/internal/models"
)

const (
	// TaxRate — ставка налога от стоимости позиций.
	TaxRate = 0.08
	// ShippingFlat — фиксированная стоимость доставки.
	ShippingFlat = 10.0
	// FreeShippingOver — порог стоимости позиций для бесплатной доставки.
	FreeShippingOver = 100.0
)

// ItemsTotal возвращает суммарную стоимость позиций заказа.
func ItemsTotal(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return round2(total)
}

// ShippingFor возвращает стоимость доставки: доставка бесплатна,
// если стоимость позиций превышает FreeShippingOver.
func ShippingFor(itemsTotal float64) float64 {
	if itemsTotal > FreeShippingOver {
		return 0
	}
	return ShippingFlat
}

// TaxFor возвращает налог от стоимости позиций, округлённый до центов.
func TaxFor(itemsTotal float64) float64 {
	return round2(itemsTotal * TaxRate)
}

// Totals считает все четыре суммы заказа по снапшоту позиций.
func Totals(items []models.OrderItem) (itemsPrice, taxPrice, shippingPrice, totalPrice float64) {
	itemsPrice = ItemsTotal(items)
	taxPrice = TaxFor(itemsPrice)
	shippingPrice = ShippingFor(itemsPrice)
	totalPrice = round2(itemsPrice + taxPrice + shippingPrice)
	return itemsPrice, taxPrice, shippingPrice, totalPrice
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
