package pgrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

const userColumns = `id, created_at, updated_at, username, email, encrypted_password,
	balance, total_spent, vip_level_id, status`

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create создает юзера. При конфликте email или username возвращает domain.ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, encrypted_password, vip_level_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		args.Username, args.Email, args.EncryptedPassword, args.VIPLevelID)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user %s", args.Email)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

// FindByEmail ищет юзера по точному (чувствительному к регистру) совпадению email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by email %s", email)
	}
	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username %s", username)
	}
	return user, nil
}

func (r *UserRepository) UpdateUsername(ctx context.Context, id int64, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users SET username = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, username)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "updating username of user %d", id)
	}
	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, encryptedPassword string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET encrypted_password = $2, updated_at = now()
		WHERE id = $1`,
		id, encryptedPassword)
	if err != nil {
		return convertErr(err, "updating password of user %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating password of user %d", id)
	}
	return nil
}

// AddBalance атомарно пополняет баланс юзера. Инкремент вычисляется на стороне
// базы, поэтому конкурентные пополнения не теряют друг друга.
func (r *UserRepository) AddBalance(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users SET balance = balance + $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, amount)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "adding balance of user %d", id)
	}
	return user, nil
}

// ChargeBalance атомарно списывает amount с баланса. Если средств недостаточно,
// возвращает domain.ErrNotEnoughBalance и не изменяет запись.
func (r *UserRepository) ChargeBalance(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users SET balance = balance - $2, updated_at = now()
		WHERE id = $1 AND balance >= $2
		RETURNING `+userColumns,
		id, amount)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotEnoughBalance
		}
		return nil, convertErr(err, "charging balance of user %d", id)
	}
	return user, nil
}

// AddSpent атомарно увеличивает total_spent. Накопитель никогда не уменьшается.
func (r *UserRepository) AddSpent(ctx context.Context, id int64, amount decimal.Decimal) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users SET total_spent = total_spent + $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, amount)

	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "adding total_spent of user %d", id)
	}
	return user, nil
}

func (r *UserRepository) SetVIPLevel(ctx context.Context, id int64, levelID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET vip_level_id = $2, updated_at = now()
		WHERE id = $1`,
		id, levelID)
	if err != nil {
		return convertErr(err, "setting vip level of user %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "setting vip level of user %d", id)
	}
	return nil
}

func (r *UserRepository) SetStatus(ctx context.Context, id int64, status domain.UserStatusType) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET status = $2, updated_at = now()
		WHERE id = $1`,
		id, string(status))
	if err != nil {
		return convertErr(err, "setting status of user %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "setting status of user %d", id)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var status string
	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Username, &u.Email, &u.EncryptedPassword,
		&u.Balance, &u.TotalSpent, &u.VIPLevelID, &status,
	)
	if err != nil {
		return nil, err
	}
	u.Status = domain.UserStatusType(status)
	return &u, nil
}
