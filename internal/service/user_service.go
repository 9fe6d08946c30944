package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/internal/transport/api/tokens"
	"github.com/fsdevblog/topup-store/pkg/uow"
)

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	vipRepo        VIPLevelRepository
	psswd          PasswordHasher
	jwtTokenSecret []byte
}

func NewUserService(u uow.UOW, jwtTokenSecret []byte, hasher PasswordHasher) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	vipRepo, vipRepoErr := uow.GetRepositoryAs[VIPLevelRepository](u, uow.RepositoryName(repoargs.VIPLevelRepoName))
	if vipRepoErr != nil {
		return nil, vipRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		vipRepo:        vipRepo,
		psswd:          hasher,
		jwtTokenSecret: jwtTokenSecret,
	}, nil
}

type RegisterUserArgs struct {
	Username string
	Email    string
	Password string
}

// Register создает юзера с нулевым балансом, нулевым total_spent и стартовым VIP
// уровнем. Занятый email возвращается как ErrDuplicateKey раньше проверки занятого
// юзернейма. При любой ошибке юзер не сохраняется.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, error) {
	password, hashErr := s.psswd.HashPassword(args.Password)
	if hashErr != nil {
		return nil, fmt.Errorf("registering user: %s", hashErr.Error())
	}

	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		vipRepo, vipRepoErr := uow.GetAs[VIPLevelRepository](tx, uow.RepositoryName(repoargs.VIPLevelRepoName))
		if vipRepoErr != nil {
			return vipRepoErr //nolint:wrapcheck
		}

		// Порядок проверок важен: сначала email, затем юзернейм.
		if err := s.checkTaken(c, userRepo, args); err != nil {
			return err
		}

		defaultLevel, levelErr := vipRepo.HighestForSpent(c, decimal.Zero)
		if levelErr != nil {
			return levelErr //nolint:wrapcheck
		}

		var userErr error
		user, userErr = userRepo.Create(c, repoargs.CreateUser{
			Username:          args.Username,
			Email:             args.Email,
			EncryptedPassword: password,
			VIPLevelID:        defaultLevel.ID,
		})
		return userErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("registering user: %w", txErr)
	}
	return user, nil
}

func (s *UserService) checkTaken(ctx context.Context, userRepo UserRepository, args RegisterUserArgs) error {
	if _, err := userRepo.FindByEmail(ctx, args.Email); err == nil {
		return fmt.Errorf("email taken: %w", domain.ErrDuplicateKey)
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return err //nolint:wrapcheck
	}

	if _, err := userRepo.FindByUsername(ctx, args.Username); err == nil {
		return fmt.Errorf("username taken: %w", domain.ErrDuplicateKey)
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return err //nolint:wrapcheck
	}
	return nil
}

type LoginUserArgs struct {
	Email    string
	Password string
}

// Login аутентифицирует юзера по паре email/пароль и выдает jwt токен.
// Возвращает ErrRecordNotFound для неизвестного email, ErrPasswordMissMatch для
// неверного пароля (транспорт обязан отдавать оба случая одинаково) и
// ErrAccountBanned для забаненного аккаунта.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindByEmail(ctx, args.Email)
	if findErr != nil {
		return nil, "", fmt.Errorf("login user: %w", findErr)
	}

	if !s.psswd.ComparePassword(args.Password, user.EncryptedPassword) {
		return nil, "", fmt.Errorf("login user: %w", domain.ErrPasswordMissMatch)
	}

	if user.Status == domain.UserStatusBanned {
		return nil, "", fmt.Errorf("login user: %w", domain.ErrAccountBanned)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, user.Email, tokens.TokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("login user: %s", tokenErr.Error())
	}
	return user, token, nil
}

// FindByID возвращает юзера по id. Используется при верификации токена: токен может
// пережить сам аккаунт.
func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

type ChangePasswordArgs struct {
	Email           string
	CurrentPassword string
	NewPassword     string
}

func (s *UserService) ChangePassword(ctx context.Context, args ChangePasswordArgs) error {
	user, findErr := s.userRepo.FindByEmail(ctx, args.Email)
	if findErr != nil {
		return fmt.Errorf("changing password: %w", findErr)
	}

	if !s.psswd.ComparePassword(args.CurrentPassword, user.EncryptedPassword) {
		return fmt.Errorf("changing password: %w", domain.ErrPasswordMissMatch)
	}

	password, hashErr := s.psswd.HashPassword(args.NewPassword)
	if hashErr != nil {
		return fmt.Errorf("changing password: %s", hashErr.Error())
	}

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		return userRepo.UpdatePassword(c, user.ID, password) //nolint:wrapcheck
	})
	if txErr != nil {
		return fmt.Errorf("changing password: %w", txErr)
	}
	return nil
}

// UpdateUsername меняет юзернейм. Единственное поле профиля доступное для правки.
func (s *UserService) UpdateUsername(ctx context.Context, userID int64, username string) (*domain.User, error) {
	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		var updErr error
		user, updErr = userRepo.UpdateUsername(c, userID, username)
		return updErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating username: %w", txErr)
	}
	return user, nil
}

// Profile содержит юзера вместе с его текущим VIP уровнем, следующим уровнем и
// прогрессом до него. NextVIP равен nil на максимальном уровне, тогда Progress
// не имеет смысла.
type Profile struct {
	User     *domain.User
	VIPInfo  *domain.VIPLevel
	NextVIP  *domain.VIPLevel
	Progress float64
}

// GetProfile собирает профиль юзера. Прогресс до следующего уровня считается как
// min(total_spent / next.min_spent, 1).
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, userErr := s.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("getting profile: %w", userErr)
	}

	vipInfo, vipErr := s.vipRepo.FindByID(ctx, user.VIPLevelID)
	if vipErr != nil && !errors.Is(vipErr, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("getting profile: %w", vipErr)
	}

	profile := &Profile{
		User:    user,
		VIPInfo: vipInfo,
	}

	nextVIP, nextErr := s.vipRepo.NextAfter(ctx, user.VIPLevelID)
	if nextErr != nil {
		if errors.Is(nextErr, domain.ErrRecordNotFound) {
			return profile, nil
		}
		return nil, fmt.Errorf("getting profile: %w", nextErr)
	}

	profile.NextVIP = nextVIP
	progress := user.TotalSpent.Div(nextVIP.MinSpent)
	if progress.GreaterThan(decimal.NewFromInt(1)) {
		progress = decimal.NewFromInt(1)
	}
	profile.Progress = progress.InexactFloat64()
	return profile, nil
}
