package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

const productColumns = `id, created_at, updated_at, category_id, name, description, currency,
	cost_price, sell_price, image_url, is_available, product_type, api_linked, api_details`

type ProductRepository struct {
	db uow.DBTX
}

func NewProductRepository(db uow.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// List возвращает страницу продуктов по фильтру и общее число подходящих строк.
// Поиск идет по подстроке в имени и описании.
func (r *ProductRepository) List(ctx context.Context, filter repoargs.ProductFilter) ([]domain.Product, uint, error) {
	where := ` WHERE ($1 = 0 OR category_id = $1)
		AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')`

	var total uint
	countErr := r.db.QueryRow(ctx, `SELECT count(*) FROM products`+where, filter.CategoryID, filter.Search).
		Scan(&total)
	if countErr != nil {
		return nil, 0, convertErr(countErr, "counting products")
	}

	offset := (filter.Page - 1) * filter.PerPage
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+` FROM products`+where+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		filter.CategoryID, filter.Search, filter.PerPage, offset)
	if err != nil {
		return nil, 0, convertErr(err, "listing products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, 0, convertErr(scanErr, "listing products")
		}
		products = append(products, *p)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, convertErr(rowsErr, "listing products")
	}
	return products, total, nil
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY id`, categoryID)
	if err != nil {
		return nil, convertErr(err, "listing products of category %d", categoryID)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing products of category %d", categoryID)
		}
		products = append(products, *p)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing products of category %d", categoryID)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "finding product %d", id)
	}
	return product, nil
}

// Create создает продукт. Несуществующая категория вернется как domain.ErrReferenceConstraint.
func (r *ProductRepository) Create(ctx context.Context, args repoargs.UpsertProduct) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO products (category_id, name, description, currency, cost_price, sell_price,
			image_url, is_available, product_type, api_linked, api_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+productColumns,
		args.CategoryID, args.Name, args.Description, args.Currency, args.CostPrice, args.SellPrice,
		args.ImageURL, args.IsAvailable, args.ProductType, args.APILinked, args.APIDetails)

	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "creating product %s", args.Name)
	}
	return product, nil
}

func (r *ProductRepository) Update(ctx context.Context, id int64, args repoargs.UpsertProduct) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE products SET category_id = $2, name = $3, description = $4, currency = $5,
			cost_price = $6, sell_price = $7, image_url = $8, is_available = $9,
			product_type = $10, api_linked = $11, api_details = $12, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id, args.CategoryID, args.Name, args.Description, args.Currency, args.CostPrice,
		args.SellPrice, args.ImageURL, args.IsAvailable, args.ProductType, args.APILinked, args.APIDetails)

	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "updating product %d", id)
	}
	return product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting product %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting product %d", id)
	}
	return nil
}

// ToggleAvailability инвертирует флаг доступности и возвращает обновленный продукт.
func (r *ProductRepository) ToggleAvailability(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE products SET is_available = NOT is_available, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns, id)

	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "toggling availability of product %d", id)
	}
	return product, nil
}

func (r *ProductRepository) CountOrders(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM orders WHERE product_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, convertErr(err, "counting orders of product %d", id)
	}
	return count, nil
}

func (r *ProductRepository) CustomOptions(ctx context.Context, productID int64) ([]domain.ProductCustomOption, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, option_name, option_values
		FROM product_custom_options WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, convertErr(err, "listing custom options of product %d", productID)
	}
	defer rows.Close()

	var options []domain.ProductCustomOption
	for rows.Next() {
		var o domain.ProductCustomOption
		if scanErr := rows.Scan(&o.ID, &o.ProductID, &o.OptionName, &o.OptionValues); scanErr != nil {
			return nil, convertErr(scanErr, "listing custom options of product %d", productID)
		}
		options = append(options, o)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing custom options of product %d", productID)
	}
	return options, nil
}

// ReplaceCustomOptions удаляет старые опции продукта и вставляет новые.
func (r *ProductRepository) ReplaceCustomOptions(
	ctx context.Context,
	productID int64,
	options []repoargs.CreateCustomOption,
) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM product_custom_options WHERE product_id = $1`, productID); err != nil {
		return convertErr(err, "replacing custom options of product %d", productID)
	}
	for _, option := range options {
		_, err := r.db.Exec(ctx, `
			INSERT INTO product_custom_options (product_id, option_name, option_values)
			VALUES ($1, $2, $3)`,
			productID, option.OptionName, option.OptionValues)
		if err != nil {
			return convertErr(err, "replacing custom options of product %d", productID)
		}
	}
	return nil
}

func (r *ProductRepository) Inventory(ctx context.Context, productID int64) (*domain.ProductInventory, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, product_id, quantity FROM product_inventory WHERE product_id = $1`, productID)

	var inv domain.ProductInventory
	if err := row.Scan(&inv.ID, &inv.ProductID, &inv.Quantity); err != nil {
		return nil, convertErr(err, "finding inventory of product %d", productID)
	}
	return &inv, nil
}

func (r *ProductRepository) SetInventory(ctx context.Context, productID int64, quantity int32) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO product_inventory (product_id, quantity)
		VALUES ($1, $2)
		ON CONFLICT (product_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
		productID, quantity)
	if err != nil {
		return convertErr(err, "setting inventory of product %d", productID)
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var productType string
	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.CategoryID, &p.Name, &p.Description, &p.Currency,
		&p.CostPrice, &p.SellPrice, &p.ImageURL, &p.IsAvailable, &productType, &p.APILinked, &p.APIDetails,
	)
	if err != nil {
		return nil, err
	}
	p.ProductType = domain.ProductType(productType)
	return &p, nil
}
