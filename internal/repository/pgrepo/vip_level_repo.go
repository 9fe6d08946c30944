package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

const vipLevelColumns = `id, name, min_spent, discount_percentage`

type VIPLevelRepository struct {
	db uow.DBTX
}

func NewVIPLevelRepository(db uow.DBTX) *VIPLevelRepository {
	return &VIPLevelRepository{db: db}
}

// All возвращает уровни в порядке возрастания id (порог растет вместе с id).
func (r *VIPLevelRepository) All(ctx context.Context) ([]domain.VIPLevel, error) {
	rows, err := r.db.Query(ctx, `SELECT `+vipLevelColumns+` FROM vip_levels ORDER BY id`)
	if err != nil {
		return nil, convertErr(err, "listing vip levels")
	}
	defer rows.Close()

	levels, scanErr := scanVIPLevels(rows)
	if scanErr != nil {
		return nil, convertErr(scanErr, "listing vip levels")
	}
	return levels, nil
}

func (r *VIPLevelRepository) FindByID(ctx context.Context, id int64) (*domain.VIPLevel, error) {
	row := r.db.QueryRow(ctx, `SELECT `+vipLevelColumns+` FROM vip_levels WHERE id = $1`, id)
	level, err := scanVIPLevel(row)
	if err != nil {
		return nil, convertErr(err, "finding vip level %d", id)
	}
	return level, nil
}

// HighestForSpent возвращает самый высокий уровень, чей порог не превышает spent.
// Уровень с нулевым порогом существует всегда, поэтому ErrRecordNotFound возможен
// только для пустой таблицы.
func (r *VIPLevelRepository) HighestForSpent(ctx context.Context, spent decimal.Decimal) (*domain.VIPLevel, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+vipLevelColumns+` FROM vip_levels
		WHERE min_spent <= $1
		ORDER BY id DESC
		LIMIT 1`, spent)

	level, err := scanVIPLevel(row)
	if err != nil {
		return nil, convertErr(err, "finding highest vip level for spent %s", spent)
	}
	return level, nil
}

// NextAfter возвращает следующий уровень после id либо domain.ErrRecordNotFound,
// если id уже максимальный.
func (r *VIPLevelRepository) NextAfter(ctx context.Context, id int64) (*domain.VIPLevel, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+vipLevelColumns+` FROM vip_levels
		WHERE id > $1
		ORDER BY id
		LIMIT 1`, id)

	level, err := scanVIPLevel(row)
	if err != nil {
		return nil, convertErr(err, "finding vip level after %d", id)
	}
	return level, nil
}

func scanVIPLevel(row pgx.Row) (*domain.VIPLevel, error) {
	var l domain.VIPLevel
	if err := row.Scan(&l.ID, &l.Name, &l.MinSpent, &l.DiscountPercentage); err != nil {
		return nil, err
	}
	return &l, nil
}

func scanVIPLevels(rows pgx.Rows) ([]domain.VIPLevel, error) {
	var levels []domain.VIPLevel
	for rows.Next() {
		var l domain.VIPLevel
		if err := rows.Scan(&l.ID, &l.Name, &l.MinSpent, &l.DiscountPercentage); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}
