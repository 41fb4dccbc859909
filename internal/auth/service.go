package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgauth "github.com/Anuragcr07/pharmacare-backend/pkg/auth"
	"github.com/Anuragcr07/pharmacare-backend/pkg/config"
	"github.com/Anuragcr07/pharmacare-backend/pkg/db/models"
	pkgerrors "github.com/Anuragcr07/pharmacare-backend/pkg/errors"
	"github.com/Anuragcr07/pharmacare-backend/pkg/logger"
	"github.com/Anuragcr07/pharmacare-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	MarkVerified(ctx context.Context, userID uuid.UUID) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// TxUserStore is the slice of the repository signup uses inside its transaction.
type TxUserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	CreatePharmacy(ctx context.Context, pharmacy *models.Pharmacy) (*models.Pharmacy, error)
	AttachPharmacy(ctx context.Context, userID, pharmacyID uuid.UUID) error
}

// TxStoreFactory adapts a concrete repository into per-tx handles.
type TxStoreFactory func(tx *gorm.DB) TxUserStore

// Service handles signup, login and email verification.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	VerifyEmail(ctx context.Context, token string) (*UserDTO, error)
}

// SignupInput holds the validated registration payload.
type SignupInput struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	PharmacyName string
	Phone        *string
	Address      *string
}

// LoginInput holds the validated login payload.
type LoginInput struct {
	Email    string
	Password string
}

// UserDTO is the public shape of an account.
type UserDTO struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	PharmacyID *uuid.UUID `json:"pharmacy_id,omitempty"`
	Verified   bool       `json:"verified"`
}

// AuthResult bundles the minted token with its account.
type AuthResult struct {
	Token             string  `json:"token"`
	VerificationToken *string `json:"verification_token,omitempty"`
	User              UserDTO `json:"user"`
}

type service struct {
	tx        txRunner
	repo      userStore
	repoForTx TxStoreFactory
	jwtCfg    config.JWTConfig
	pwCfg     config.PasswordConfig
	logg      *logger.Logger
	now       func() time.Time
}

// NewService constructs an auth service instance.
func NewService(tx txRunner, repo userStore, repoForTx TxStoreFactory, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if repoForTx == nil {
		return nil, fmt.Errorf("user repository factory required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{tx: tx, repo: repo, repoForTx: repoForTx, jwtCfg: jwtCfg, pwCfg: pwCfg, logg: logg, now: time.Now}, nil
}

// Signup creates the owner account and its pharmacy in one transaction, then
// mints an access token and an email verification token.
func (s *service) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if strings.TrimSpace(input.PharmacyName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy name required")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoForTx(tx)

		created, err := repo.CreateUser(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(input.FirstName),
			LastName:     strings.TrimSpace(input.LastName),
		})
		if err != nil {
			if isUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		pharmacy, err := repo.CreatePharmacy(ctx, &models.Pharmacy{
			Name:    strings.TrimSpace(input.PharmacyName),
			OwnerID: created.ID,
			Phone:   input.Phone,
			Address: input.Address,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pharmacy")
		}

		if err := repo.AttachPharmacy(ctx, created.ID, pharmacy.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach pharmacy")
		}

		created.PharmacyID = &pharmacy.ID
		user = created
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "signup transaction failed")
	}

	result, err := s.mintResult(user)
	if err != nil {
		return nil, err
	}

	verification, err := pkgauth.MintVerificationToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:     user.ID,
		PharmacyID: user.PharmacyID,
		Role:       pkgauth.RoleOwner,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint verification token")
	}
	result.VerificationToken = &verification

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "auth.signup.completed")
	}
	return result, nil
}

// Login checks credentials and mints an access token. Unknown emails and bad
// passwords return the same error so the endpoint cannot be used to probe
// for accounts.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	invalid := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, invalid
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, invalid
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, s.now()); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "auth.login.touch_failed")
	}

	return s.mintResult(user)
}

// VerifyEmail consumes a purpose-scoped verification token.
func (s *service) VerifyEmail(ctx context.Context, token string) (*UserDTO, error) {
	claims, err := pkgauth.ParseToken(s.jwtCfg, strings.TrimSpace(token), pkgauth.PurposeVerification)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid verification token")
	}

	user, err := s.repo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	if !user.Verified {
		if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark verified")
		}
		user.Verified = true
	}

	dto := toUserDTO(user)
	return &dto, nil
}

func (s *service) mintResult(user *models.User) (*AuthResult, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:     user.ID,
		PharmacyID: user.PharmacyID,
		Role:       pkgauth.RoleOwner,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &AuthResult{Token: token, User: toUserDTO(user)}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}

func toUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		PharmacyID: user.PharmacyID,
		Verified:   user.Verified,
	}
}
