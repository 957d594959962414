package models

import "time"

// Order представляет заказ пользователя: снапшот позиций на момент
// оформления, адрес доставки, способ оплаты и вычисленные суммы.
// Поля IsPaid и IsDelivered — независимые флаги, а не машина состояний.
type Order struct {
	UID             string          `json:"uid"`      // Уникальный идентификатор заказа
	UserUID         string          `json:"user_uid"` // UID владельца заказа
	UserName        string          `json:"user_name,omitempty"`
	UserEmail       string          `json:"user_email,omitempty"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentResult   *PaymentResult  `json:"payment_result,omitempty"`
	ItemsPrice      float64         `json:"items_price"`
	TaxPrice        float64         `json:"tax_price"`
	ShippingPrice   float64         `json:"shipping_price"`
	TotalPrice      float64         `json:"total_price"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem — позиция заказа. Название, изображение и цена —
// неизменяемый снапшот из каталога на момент оформления:
// последующие изменения товара не влияют на исторические заказы.
type OrderItem struct {
	ProductUID string  `json:"product_uid"`
	Name       string  `json:"name"`
	ImageURL   string  `json:"image_url"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// ShippingAddress — адрес доставки заказа, все поля обязательны.
type ShippingAddress struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// PaymentResult — подтверждение оплаты, присланное клиентом.
// Сохраняется дословно, шлюз не опрашивается.
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// DummyOrder используется для приёма данных из JSON-запроса на оформление
// заказа. Клиентские цены не принимаются: суммы пересчитываются на сервере
// по каталожному снапшоту в момент оформления.
type DummyOrder struct {
	Items           []DummyOrderItem `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddress  `json:"shipping_address" validate:"required"`
	PaymentMethod   string           `json:"payment_method" validate:"required"`
}

// DummyOrderItem — позиция корзины из JSON-запроса.
type DummyOrderItem struct {
	ProductUID string `json:"product_uid" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}
