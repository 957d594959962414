package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// CreateProduct вставляет новый товар и возвращает его с заполненным UID.
// При повторяющемся названии возвращает ErrAlreadyExists.
func (s *Storage) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO products (name, description, price, image_url, category,
			      count_in_stock, rating, reviews_count, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid, created_at, updated_at`
	if err := s.DB.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.ImageURL, product.Category,
		product.CountInStock, product.Rating, product.ReviewsCount, product.CreatedBy).
		Scan(&product.UID, &product.CreatedAt, &product.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &product, nil
}

// GetProduct возвращает товар по его UID.
func (s *Storage) GetProduct(ctx context.Context, productUID string) (*models.Product, error) {
	const op = "storage.GetProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, price, image_url, category,
			      count_in_stock, rating, reviews_count, created_by, created_at, updated_at
			  FROM products
			  WHERE uid = $1`
	p := &models.Product{}
	row := s.DB.QueryRowContext(ctx, query, productUID)
	if err := row.Scan(&p.UID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category,
		&p.CountInStock, &p.Rating, &p.ReviewsCount, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdateProduct обновляет данные товара по его UID.
func (s *Storage) UpdateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET name = $1, description = $2, price = $3, image_url = $4, category = $5,
			      count_in_stock = $6, rating = $7, reviews_count = $8, updated_at = now()
			  WHERE uid = $9
			  RETURNING uid, name, description, price, image_url, category,
			      count_in_stock, rating, reviews_count, created_by, created_at, updated_at`
	p := &models.Product{}
	row := s.DB.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.ImageURL, product.Category,
		product.CountInStock, product.Rating, product.ReviewsCount, product.UID)
	if err := row.Scan(&p.UID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category,
		&p.CountInStock, &p.Rating, &p.ReviewsCount, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// RemoveProduct удаляет товар по UID, возвращает ErrNotFound при отсутствии.
func (s *Storage) RemoveProduct(ctx context.Context, productUID string) error {
	const op = "storage.RemoveProduct"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM products WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, productUID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrConflict)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// buildProductFilter собирает WHERE-условия листинга и аргументы запроса.
func buildProductFilter(filter models.ProductFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.Category != "" && filter.Category != "All" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func productOrderBy(sortBy string) string {
	switch sortBy {
	case "price-asc":
		return " ORDER BY price ASC"
	case "price-desc":
		return " ORDER BY price DESC"
	default:
		return " ORDER BY created_at DESC"
	}
}

// CountProducts возвращает количество товаров, подходящих под фильтр.
func (s *Storage) CountProducts(ctx context.Context, filter models.ProductFilter) (int, error) {
	const op = "storage.CountProducts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := buildProductFilter(filter)
	var count int
	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListProducts возвращает страницу товаров под фильтр с сортировкой.
func (s *Storage) ListProducts(ctx context.Context, filter models.ProductFilter, limit, offset int) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := buildProductFilter(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT uid, name, description, price, image_url, category,
			      count_in_stock, rating, reviews_count, created_by, created_at, updated_at
			  FROM products%s%s
			  LIMIT $%d OFFSET $%d`, where, productOrderBy(filter.SortBy), len(args)-1, len(args))
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.UID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Category,
			&p.CountInStock, &p.Rating, &p.ReviewsCount, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
