// Package services содержит бизнес-логику оформления и сопровождения заказов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/storefront/internal/models"
)

var (
	// ErrEmptyOrder — попытка оформить заказ без позиций.
	ErrEmptyOrder = errors.New("no order items")
	// ErrAccessDenied — заказ принадлежит другому пользователю,
	// а вызывающий не администратор.
	ErrAccessDenied = errors.New("access denied")
)

// OrderRepository определяет методы для работы с заказами в хранилище.
type OrderRepository interface {
	// CreateOrder атомарно резервирует остатки и сохраняет заказ.
	CreateOrder(ctx context.Context, order models.Order) (*models.Order, error)
	// GetOrder возвращает заказ с позициями и данными владельца.
	GetOrder(ctx context.Context, orderUID string) (*models.Order, error)
	// ListOrdersByUser возвращает заказы пользователя.
	ListOrdersByUser(ctx context.Context, userUID string) ([]*models.Order, error)
	// ListAllOrders возвращает все заказы с пагинацией.
	ListAllOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	// MarkOrderPaid помечает заказ оплаченным.
	MarkOrderPaid(ctx context.Context, orderUID string, result models.PaymentResult) (*models.Order, error)
	// MarkOrderDelivered помечает заказ доставленным.
	MarkOrderDelivered(ctx context.Context, orderUID string) (*models.Order, error)
}

// EventPublisher публикует события жизненного цикла заказа.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// ProductCache инвалидирует кешированные карточки товаров.
// Оформление заказа уменьшает остатки, поэтому кеш каждой позиции
// сбрасывается, иначе каталог до истечения TTL отдает проданный остаток.
type ProductCache interface {
	Invalidate(key string) error
}

// OrderService реализует бизнес-логику заказов: оформление,
// выборку с проверкой владельца, отметки оплаты и доставки.
type OrderService struct {
	repo   OrderRepository
	events EventPublisher // nil — публикация событий выключена
	cache  ProductCache   // nil — кеш карточек не используется
	log    *slog.Logger
}

// NewOrderService создает новый экземпляр OrderService.
func NewOrderService(repo OrderRepository, events EventPublisher, cache ProductCache, log *slog.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		events: events,
		cache:  cache,
		log:    log,
	}
}

// OrderEvent — полезная нагрузка события заказа.
type OrderEvent struct {
	OrderUID   string  `json:"order_uid"`
	UserUID    string  `json:"user_uid"`
	TotalPrice float64 `json:"total_price"`
}

func (s *OrderService) publish(routingKey string, order *models.Order) {
	if s.events == nil {
		return
	}
	event := OrderEvent{
		OrderUID:   order.UID,
		UserUID:    order.UserUID,
		TotalPrice: order.TotalPrice,
	}
	if err := s.events.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish order event",
			slog.String("routing_key", routingKey),
			slog.String("order_uid", order.UID),
			slog.Any("err", err))
	}
}

// invalidateProducts сбрасывает кеш карточек заказанных товаров:
// их остатки только что изменились в хранилище.
func (s *OrderService) invalidateProducts(items []models.OrderItem) {
	if s.cache == nil {
		return
	}
	for _, item := range items {
		key := fmt.Sprintf("product:%s", item.ProductUID)
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate product cache",
				slog.String("key", key), slog.Any("err", err))
		}
	}
}

// Place оформляет заказ пользователя. Позиции, адрес и способ оплаты
// берутся из запроса, цены пересчитываются сервером по каталожному
// снапшоту внутри транзакции хранилища. Пустая корзина отклоняется.
func (s *OrderService) Place(ctx context.Context, userUID string, req models.DummyOrder) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductUID: item.ProductUID,
			Quantity:   item.Quantity,
		})
	}
	order := models.Order{
		UserUID:         userUID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}

	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	s.log.Info("placed new order",
		slog.String("uid", created.UID),
		slog.Int("items", len(created.Items)))

	s.invalidateProducts(created.Items)
	s.publish("order.created", created)
	return created, nil
}

// Get возвращает заказ по UID. Доступен только владельцу и администратору.
func (s *OrderService) Get(ctx context.Context, orderUID, callerUID, role string) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderUID)
	if err != nil {
		return nil, err
	}
	if order.UserUID != callerUID && role != "admin" {
		return nil, ErrAccessDenied
	}
	return order, nil
}

// ListMy возвращает заказы вызывающего пользователя.
func (s *OrderService) ListMy(ctx context.Context, callerUID string) ([]*models.Order, error) {
	return s.repo.ListOrdersByUser(ctx, callerUID)
}

// ListAll возвращает все заказы с пагинацией (административная операция).
func (s *OrderService) ListAll(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	return s.repo.ListAllOrders(ctx, limit, offset)
}

// MarkPaid помечает заказ оплаченным по утверждению клиента: присланный
// результат оплаты сохраняется дословно, платежный шлюз не опрашивается.
// Доступно владельцу заказа и администратору.
func (s *OrderService) MarkPaid(ctx context.Context, orderUID, callerUID, role string, result models.PaymentResult) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderUID)
	if err != nil {
		return nil, err
	}
	if order.UserUID != callerUID && role != "admin" {
		return nil, ErrAccessDenied
	}
	paid, err := s.repo.MarkOrderPaid(ctx, orderUID, result)
	if err != nil {
		return nil, err
	}
	s.publish("order.paid", paid)
	return paid, nil
}

// MarkDelivered помечает заказ доставленным. Роль admin проверяется
// middleware маршрута; флаг is_paid не является предусловием.
func (s *OrderService) MarkDelivered(ctx context.Context, orderUID string) (*models.Order, error) {
	return s.repo.MarkOrderDelivered(ctx, orderUID)
}
