package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

const categoryColumns = `id, created_at, updated_at, name, description, image_url`

type CategoryRepository struct {
	db uow.DBTX
}

func NewCategoryRepository(db uow.DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) All(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id`)
	if err != nil {
		return nil, convertErr(err, "listing categories")
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing categories")
		}
		categories = append(categories, *c)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing categories")
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	category, err := scanCategory(row)
	if err != nil {
		return nil, convertErr(err, "finding category %d", id)
	}
	return category, nil
}

// Create создает категорию. Имя уникально, конфликт вернется как domain.ErrDuplicateKey.
func (r *CategoryRepository) Create(ctx context.Context, args repoargs.UpsertCategory) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, description, image_url)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		args.Name, args.Description, args.ImageURL)

	category, err := scanCategory(row)
	if err != nil {
		return nil, convertErr(err, "creating category %s", args.Name)
	}
	return category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, args repoargs.UpsertCategory) (*domain.Category, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE categories SET name = $2, description = $3, image_url = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+categoryColumns,
		id, args.Name, args.Description, args.ImageURL)

	category, err := scanCategory(row)
	if err != nil {
		return nil, convertErr(err, "updating category %d", id)
	}
	return category, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting category %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting category %d", id)
	}
	return nil
}

// CountProducts возвращает число продуктов в категории. Используется для запрета
// удаления непустых категорий.
func (r *CategoryRepository) CountProducts(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM products WHERE category_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, convertErr(err, "counting products of category %d", id)
	}
	return count, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.Description, &c.ImageURL); err != nil {
		return nil, err
	}
	return &c, nil
}
