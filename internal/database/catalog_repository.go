package database

import (
	"database/sql"
	"errors"

	"github.com/Vital7472/beauty-salon-bot/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CatalogRepository - каталог услуг салона и товаров магазина.
// Бот каталог только читает; позиции правятся через админ-API.
type CatalogRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewCatalogRepository создает новый репозиторий каталога
func NewCatalogRepository(db *sqlx.DB, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:     db,
		logger: logger,
	}
}

// ServiceCategories возвращает категории активных услуг.
func (r *CatalogRepository) ServiceCategories() ([]string, error) {
	var categories []string
	query := `SELECT DISTINCT category FROM services WHERE active ORDER BY category`

	if err := r.db.Select(&categories, query); err != nil {
		r.logger.Error("Ошибка при получении категорий услуг", zap.Error(err))
		return nil, err
	}

	return categories, nil
}

// ServicesByCategory возвращает активные услуги категории.
func (r *CatalogRepository) ServicesByCategory(category string) ([]models.Service, error) {
	var services []models.Service
	query := `
        SELECT id, category, name, price, description, duration_minutes, active
        FROM services
        WHERE category = $1 AND active
        ORDER BY name
    `

	if err := r.db.Select(&services, query, category); err != nil {
		r.logger.Error("Ошибка при получении услуг",
			zap.Error(err),
			zap.String("category", category),
		)
		return nil, err
	}

	return services, nil
}

// GetService возвращает услугу, в том числе неактивную: снимок в уже
// начатой сессии должен разрешаться всегда.
func (r *CatalogRepository) GetService(id int64) (models.Service, error) {
	var service models.Service
	query := `SELECT id, category, name, price, description, duration_minutes, active FROM services WHERE id = $1`

	err := r.db.Get(&service, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Service{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении услуги", zap.Error(err), zap.Int64("service_id", id))
		return models.Service{}, err
	}

	return service, nil
}

// ProductCategories возвращает категории товаров в наличии.
func (r *CatalogRepository) ProductCategories() ([]string, error) {
	var categories []string
	query := `SELECT DISTINCT category FROM products WHERE active AND in_stock ORDER BY category`

	if err := r.db.Select(&categories, query); err != nil {
		r.logger.Error("Ошибка при получении категорий товаров", zap.Error(err))
		return nil, err
	}

	return categories, nil
}

// ProductsByCategory возвращает товары категории в наличии.
func (r *CatalogRepository) ProductsByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	query := `
        SELECT id, category, name, price, photo_url, description, active, in_stock
        FROM products
        WHERE category = $1 AND active AND in_stock
        ORDER BY name
    `

	if err := r.db.Select(&products, query, category); err != nil {
		r.logger.Error("Ошибка при получении товаров",
			zap.Error(err),
			zap.String("category", category),
		)
		return nil, err
	}

	return products, nil
}

func (r *CatalogRepository) GetProduct(id int64) (models.Product, error) {
	var product models.Product
	query := `SELECT id, category, name, price, photo_url, description, active, in_stock FROM products WHERE id = $1`

	err := r.db.Get(&product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, ErrNotFound
		}
		r.logger.Error("Ошибка при получении товара", zap.Error(err), zap.Int64("product_id", id))
		return models.Product{}, err
	}

	return product, nil
}

// CreateService добавляет услугу в каталог.
func (r *CatalogRepository) CreateService(service models.Service) (int64, error) {
	query := `
        INSERT INTO services (category, name, price, description, duration_minutes, active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `

	var id int64
	err := r.db.Get(&id, query,
		service.Category, service.Name, service.Price,
		service.Description, service.DurationMinutes, service.Active,
	)
	if err != nil {
		r.logger.Error("Ошибка при добавлении услуги", zap.Error(err), zap.String("name", service.Name))
		return 0, err
	}

	return id, nil
}

// CreateProduct добавляет товар в каталог.
func (r *CatalogRepository) CreateProduct(product models.Product) (int64, error) {
	query := `
        INSERT INTO products (category, name, price, photo_url, description, active, in_stock)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `

	var id int64
	err := r.db.Get(&id, query,
		product.Category, product.Name, product.Price, product.PhotoURL,
		product.Description, product.Active, product.InStock,
	)
	if err != nil {
		r.logger.Error("Ошибка при добавлении товара", zap.Error(err), zap.String("name", product.Name))
		return 0, err
	}

	return id, nil
}

// SetProductStock отмечает наличие товара.
func (r *CatalogRepository) SetProductStock(id int64, inStock bool) error {
	result, err := r.db.Exec(`UPDATE products SET in_stock = $1 WHERE id = $2`, inStock, id)
	if err != nil {
		r.logger.Error("Ошибка при изменении наличия", zap.Error(err), zap.Int64("product_id", id))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
