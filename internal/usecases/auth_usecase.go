package usecases

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/domain/repositories"
	"agrichain.backend/pkg/crypto"
	"agrichain.backend/pkg/jwt"
	"agrichain.backend/pkg/logger"
	"agrichain.backend/pkg/metrics"
	"agrichain.backend/pkg/utils"
)

// ForgotPasswordMessage is the response body for every forgot-password request.
const ForgotPasswordMessage = "If an account exists for that email, a reset link has been sent"

var (
	checkPassword      = crypto.CheckPassword
	generateResetToken = crypto.GenerateResetToken
	newSessionID       = utils.NewSessionID
)

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}

// AuthConfig holds the lifetimes and links the auth flow depends on.
type AuthConfig struct {
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	PublicBaseURL string
}

// AuthResult is returned after a session has been started.
type AuthResult struct {
	User      *entities.User
	Token     string
	ExpiresAt time.Time
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	farmerRepo repositories.FarmerRepository
	resetRepo  repositories.PasswordResetRepository
	sessions   repositories.SessionStore
	uow        repositories.UnitOfWork
	tokens     *jwt.SessionTokenService
	mailer     Mailer
	cfg        AuthConfig
	now        func() time.Time
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	farmerRepo repositories.FarmerRepository,
	resetRepo repositories.PasswordResetRepository,
	sessions repositories.SessionStore,
	uow repositories.UnitOfWork,
	tokens *jwt.SessionTokenService,
	mailer Mailer,
	cfg AuthConfig,
) *AuthUsecase {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &AuthUsecase{
		userRepo:   userRepo,
		farmerRepo: farmerRepo,
		resetRepo:  resetRepo,
		sessions:   sessions,
		uow:        uow,
		tokens:     tokens,
		mailer:     mailer,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Register creates the account, plus a farm profile for farmers, and logs the user in.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.CreateUserInput) (result *AuthResult, err error) {
	defer func() { metrics.RecordAuth("register", err) }()

	if err := input.Normalize(); err != nil {
		return nil, asValidation(err)
	}

	var user *entities.User
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		created, err := createUser(txCtx, u.userRepo, input)
		if err != nil {
			return err
		}
		if created.Role == entities.UserRoleFarmer {
			farmer := &entities.Farmer{UserID: created.ID, FarmName: input.FarmName}
			if err := u.farmerRepo.Create(txCtx, farmer); err != nil {
				return err
			}
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.startSession(ctx, user)
}

// Login checks credentials. Unknown users and wrong passwords fail the same way.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (result *AuthResult, err error) {
	defer func() { metrics.RecordAuth("login", err) }()

	user, err := u.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials()
		}
		return nil, err
	}
	if !checkPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.InvalidCredentials()
	}

	return u.startSession(ctx, user)
}

// Logout drops the session behind token. It never fails for a missing or
// malformed token.
func (u *AuthUsecase) Logout(ctx context.Context, token string) (err error) {
	defer func() { metrics.RecordAuth("logout", err) }()

	if token == "" {
		return nil
	}
	claims, err := u.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return u.sessions.Delete(ctx, claims.SessionID)
}

// ResolveSession maps a cookie token to a live session.
func (u *AuthUsecase) ResolveSession(ctx context.Context, token string) (*entities.Session, error) {
	if token == "" {
		return nil, domainerrors.Unauthenticated("Not authenticated")
	}
	claims, err := u.tokens.Parse(token)
	if err != nil {
		return nil, domainerrors.Unauthenticated("Not authenticated")
	}
	session, err := u.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthenticated("Not authenticated")
		}
		return nil, err
	}
	return session, nil
}

// CurrentUser loads the user a session belongs to.
func (u *AuthUsecase) CurrentUser(ctx context.Context, session *entities.Session) (*entities.User, error) {
	if session == nil {
		return nil, domainerrors.Unauthenticated("Not authenticated")
	}
	user, err := u.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.Unauthenticated("Not authenticated")
		}
		return nil, err
	}
	return user, nil
}

// ForgotPassword issues a reset token when the email is known. The caller
// always sees success so account existence is not revealed.
func (u *AuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	err := u.issueResetToken(ctx, email)
	metrics.RecordAuth("forgot_password", err)
	if err != nil {
		logger.Error(ctx, "Failed to issue password reset token", zap.Error(err))
	}
	return nil
}

func (u *AuthUsecase) issueResetToken(ctx context.Context, email string) error {
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}

	raw, err := generateResetToken()
	if err != nil {
		return err
	}
	now := u.now().UTC()
	token := &entities.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: crypto.HashToken(raw),
		ExpiresAt: now.Add(u.cfg.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := u.resetRepo.Create(ctx, token); err != nil {
		return err
	}

	link := strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/reset-password?token=" + url.QueryEscape(raw)
	return u.mailer.SendPasswordReset(ctx, user.Email, link)
}

// ResetPassword redeems a reset token and replaces the password hash.
func (u *AuthUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) (err error) {
	defer func() { metrics.RecordAuth("reset_password", err) }()

	now := u.now().UTC()
	token, err := u.resetRepo.GetActiveByHash(ctx, crypto.HashToken(input.Token), now)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.BadRequest("Invalid or expired token")
		}
		return err
	}

	hash, err := hashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		// Claiming first makes a concurrent redeem of the same token fail
		// before the password is touched.
		if err := u.resetRepo.MarkUsed(txCtx, token.ID, now); err != nil {
			return err
		}
		return u.userRepo.UpdatePassword(txCtx, token.UserID, hash)
	})
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.BadRequest("Invalid or expired token")
	}
	return err
}

func (u *AuthUsecase) startSession(ctx context.Context, user *entities.User) (*AuthResult, error) {
	now := u.now().UTC()
	session := &entities.Session{
		ID:        newSessionID(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(u.cfg.SessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := u.tokens.Sign(session.ID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}
