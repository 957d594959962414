package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/lib/pricing"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// CreateOrder оформляет заказ атомарно: в одной транзакции резервирует
// остатки по каждой позиции условным декрементом и вставляет заказ
// со снапшотом названия, изображения и цены из каталожной строки.
// Любая неудача откатывает транзакцию целиком — частичных списаний
// остатков не бывает, и конкурентные заказы не могут увести остаток
// в минус: декремент выполняется одним UPDATE с проверкой остатка.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	decrement := `UPDATE products
			  SET count_in_stock = count_in_stock - $2, updated_at = now()
			  WHERE uid = $1 AND count_in_stock >= $2
			  RETURNING name, image_url, price`
	for i := range order.Items {
		item := &order.Items[i]
		row := tx.QueryRowContext(ctx, decrement, item.ProductUID, item.Quantity)
		if err := row.Scan(&item.Name, &item.ImageURL, &item.Price); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			// Ноль строк: товара нет либо остатка не хватает
			var name string
			var available int
			lookupErr := tx.QueryRowContext(ctx,
				`SELECT name, count_in_stock FROM products WHERE uid = $1`,
				item.ProductUID).Scan(&name, &available)
			if errors.Is(lookupErr, sql.ErrNoRows) {
				return nil, fmt.Errorf("%s: product %s: %w", op, item.ProductUID, ErrNotFound)
			}
			if lookupErr != nil {
				return nil, fmt.Errorf("%s: %w", op, lookupErr)
			}
			return nil, fmt.Errorf("%s: %w", op, &InsufficientStockError{
				ProductName: name,
				Available:   available,
			})
		}
	}

	order.ItemsPrice, order.TaxPrice, order.ShippingPrice, order.TotalPrice = pricing.Totals(order.Items)

	insertOrder := `INSERT INTO orders (user_uid, address, city, postal_code, country,
			      payment_method, items_price, tax_price, shipping_price, total_price)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING uid, created_at, updated_at`
	if err := tx.QueryRowContext(ctx, insertOrder,
		order.UserUID, order.ShippingAddress.Address, order.ShippingAddress.City,
		order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
		order.PaymentMethod, order.ItemsPrice, order.TaxPrice,
		order.ShippingPrice, order.TotalPrice).
		Scan(&order.UID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	insertItem := `INSERT INTO order_items (order_uid, product_uid, name, image_url, price, quantity)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			order.UID, item.ProductUID, item.Name, item.ImageURL, item.Price, item.Quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &order, nil
}

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var paymentID, paymentStatus, paymentUpdateTime, paymentEmail sql.NullString
	var paidAt, deliveredAt sql.NullTime
	if err := row.Scan(&o.UID, &o.UserUID,
		&o.ShippingAddress.Address, &o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.PaymentMethod, &paymentID, &paymentStatus, &paymentUpdateTime, &paymentEmail,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.IsPaid, &paidAt, &o.IsDelivered, &deliveredAt,
		&o.CreatedAt, &o.UpdatedAt, &o.UserName, &o.UserEmail); err != nil {
		return nil, err
	}
	if paymentID.Valid || paymentStatus.Valid {
		o.PaymentResult = &models.PaymentResult{
			ID:           paymentID.String,
			Status:       paymentStatus.String,
			UpdateTime:   paymentUpdateTime.String,
			EmailAddress: paymentEmail.String,
		}
	}
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}
	return &o, nil
}

const orderColumns = `o.uid, o.user_uid, o.address, o.city, o.postal_code, o.country,
			      o.payment_method, o.payment_id, o.payment_status, o.payment_update_time, o.payment_email,
			      o.items_price, o.tax_price, o.shipping_price, o.total_price,
			      o.is_paid, o.paid_at, o.is_delivered, o.delivered_at,
			      o.created_at, o.updated_at, u.name, u.email`

// GetOrder возвращает заказ по UID с позициями и данными владельца.
func (s *Storage) GetOrder(ctx context.Context, orderUID string) (*models.Order, error) {
	const op = "storage.GetOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + `
			  FROM orders o
			  JOIN users u ON o.user_uid = u.uid
			  WHERE o.uid = $1`
	order, err := scanOrder(s.DB.QueryRowContext(ctx, query, orderUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.Items, err = s.loadOrderItems(ctx, order.UID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (s *Storage) loadOrderItems(ctx context.Context, orderUID string) ([]models.OrderItem, error) {
	query := `SELECT product_uid, name, image_url, price, quantity
			  FROM order_items
			  WHERE order_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, orderUID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductUID, &item.Name, &item.ImageURL,
			&item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Storage) listOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	for _, order := range result {
		if order.Items, err = s.loadOrderItems(ctx, order.UID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ListOrdersByUser возвращает все заказы пользователя, новые первыми.
func (s *Storage) ListOrdersByUser(ctx context.Context, userUID string) ([]*models.Order, error) {
	const op = "storage.ListOrdersByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + `
			  FROM orders o
			  JOIN users u ON o.user_uid = u.uid
			  WHERE o.user_uid = $1
			  ORDER BY o.created_at DESC`
	result, err := s.listOrders(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllOrders возвращает список всех заказов с пагинацией.
func (s *Storage) ListAllOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListAllOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + `
			  FROM orders o
			  JOIN users u ON o.user_uid = u.uid
			  ORDER BY o.created_at DESC
			  LIMIT $1 OFFSET $2`
	result, err := s.listOrders(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkOrderPaid помечает заказ оплаченным и сохраняет присланное
// клиентом подтверждение оплаты дословно.
func (s *Storage) MarkOrderPaid(ctx context.Context, orderUID string, result models.PaymentResult) (*models.Order, error) {
	const op = "storage.MarkOrderPaid"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders
			  SET is_paid = true, paid_at = now(), updated_at = now(),
			      payment_id = $1, payment_status = $2, payment_update_time = $3, payment_email = $4
			  WHERE uid = $5`
	res, err := s.DB.ExecContext(ctx, query,
		result.ID, result.Status, result.UpdateTime, result.EmailAddress, orderUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return s.GetOrder(ctx, orderUID)
}

// MarkOrderDelivered помечает заказ доставленным.
func (s *Storage) MarkOrderDelivered(ctx context.Context, orderUID string) (*models.Order, error) {
	const op = "storage.MarkOrderDelivered"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders
			  SET is_delivered = true, delivered_at = now(), updated_at = now()
			  WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, orderUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return s.GetOrder(ctx, orderUID)
}
