package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

const orderColumns = `id, created_at, updated_at, user_id, product_id, quantity, total_price,
	status, order_details`

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, product_id, quantity, total_price, order_details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+orderColumns,
		args.UserID, args.ProductID, args.Quantity, args.TotalPrice, args.OrderDetails)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order for user %d", args.UserID)
	}
	return order, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order %d", id)
	}
	return order, nil
}

func (r *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "listing orders of user %d", userID)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing orders of user %d", userID)
		}
		orders = append(orders, *o)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing orders of user %d", userID)
	}
	return orders, nil
}

// UpdateStatus переводит заказ из статуса from в to. Если заказ уже не в статусе from,
// вернется domain.ErrRecordNotFound: каждый переход выполняется лишь единожды.
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	from, to domain.OrderStatusType,
) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE orders SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING `+orderColumns,
		id, string(from), string(to))

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "updating status of order %d", id)
	}
	return order, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(
		&o.ID, &o.CreatedAt, &o.UpdatedAt, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalPrice,
		&status, &o.OrderDetails,
	)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatusType(status)
	return &o, nil
}
