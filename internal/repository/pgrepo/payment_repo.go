package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

const paymentMethodColumns = `id, created_at, updated_at, name, details, is_active`

const paymentTransactionColumns = `id, created_at, updated_at, user_id, method_id, amount,
	status, proof_image_url`

type PaymentMethodRepository struct {
	db uow.DBTX
}

func NewPaymentMethodRepository(db uow.DBTX) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// Active возвращает только активные способы оплаты.
func (r *PaymentMethodRepository) Active(ctx context.Context) ([]domain.PaymentMethod, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentMethodColumns+` FROM payment_methods WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, convertErr(err, "listing active payment methods")
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		if scanErr := rows.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.Name, &m.Details, &m.IsActive); scanErr != nil {
			return nil, convertErr(scanErr, "listing active payment methods")
		}
		methods = append(methods, m)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing active payment methods")
	}
	return methods, nil
}

func (r *PaymentMethodRepository) FindByID(ctx context.Context, id int64) (*domain.PaymentMethod, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentMethodColumns+` FROM payment_methods WHERE id = $1`, id)

	var m domain.PaymentMethod
	if err := row.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.Name, &m.Details, &m.IsActive); err != nil {
		return nil, convertErr(err, "finding payment method %d", id)
	}
	return &m, nil
}

type PaymentTransactionRepository struct {
	db uow.DBTX
}

func NewPaymentTransactionRepository(db uow.DBTX) *PaymentTransactionRepository {
	return &PaymentTransactionRepository{db: db}
}

func (r *PaymentTransactionRepository) Create(
	ctx context.Context,
	args repoargs.CreatePaymentTransaction,
) (*domain.PaymentTransaction, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO payment_transactions (user_id, method_id, amount, proof_image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+paymentTransactionColumns,
		args.UserID, args.MethodID, args.Amount, args.ProofImageURL)

	transaction, err := scanPaymentTransaction(row)
	if err != nil {
		return nil, convertErr(err, "creating payment transaction for user %d", args.UserID)
	}
	return transaction, nil
}

func (r *PaymentTransactionRepository) FindByID(ctx context.Context, id int64) (*domain.PaymentTransaction, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+paymentTransactionColumns+` FROM payment_transactions WHERE id = $1`, id)

	transaction, err := scanPaymentTransaction(row)
	if err != nil {
		return nil, convertErr(err, "finding payment transaction %d", id)
	}
	return transaction, nil
}

func (r *PaymentTransactionRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.PaymentTransaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentTransactionColumns+` FROM payment_transactions
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "listing payment transactions of user %d", userID)
	}
	defer rows.Close()

	var transactions []domain.PaymentTransaction
	for rows.Next() {
		t, scanErr := scanPaymentTransaction(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing payment transactions of user %d", userID)
		}
		transactions = append(transactions, *t)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing payment transactions of user %d", userID)
	}
	return transactions, nil
}

// UpdateStatus переводит транзакцию из from в to. Если транзакция уже не в статусе
// from, вернется domain.ErrRecordNotFound: перевод статуса выполняется лишь единожды.
func (r *PaymentTransactionRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	from, to domain.TransactionStatusType,
) (*domain.PaymentTransaction, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE payment_transactions SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING `+paymentTransactionColumns,
		id, string(from), string(to))

	transaction, err := scanPaymentTransaction(row)
	if err != nil {
		return nil, convertErr(err, "updating status of payment transaction %d", id)
	}
	return transaction, nil
}

func scanPaymentTransaction(row pgx.Row) (*domain.PaymentTransaction, error) {
	var t domain.PaymentTransaction
	var status string
	err := row.Scan(
		&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.UserID, &t.MethodID, &t.Amount,
		&status, &t.ProofImageURL,
	)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TransactionStatusType(status)
	return &t, nil
}
