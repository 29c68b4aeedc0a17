package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

// Constants for common error messages
const (
	errUserNotFound   = "user not found"
	errTokenNotFound  = "token not found"
	errInternalServer = "internal server error"
)

// ErrInvalidCredentials is returned for any login failure so the response
// never reveals which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserUsecase implements the IUserUseCase interface.
type UserUsecase struct {
	userRepo      contract.IUserRepository
	tokenRepo     contract.ITokenRepository
	hasher        contract.IHasher
	jwtService    JWTService
	logger        usecasecontract.IAppLogger
	config        usecasecontract.IConfigProvider
	validator     usecasecontract.IValidator
	uuidGenerator contract.IUUIDGenerator
}

// NewUserUsecase creates a new UserUsecase instance.
func NewUserUsecase(
	userRepo contract.IUserRepository,
	tokenRepo contract.ITokenRepository,
	hasher contract.IHasher,
	jwtService JWTService,
	logger usecasecontract.IAppLogger,
	cfg usecasecontract.IConfigProvider,
	validator usecasecontract.IValidator,
	uuidGenerator contract.IUUIDGenerator,
) *UserUsecase {
	return &UserUsecase{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		hasher:        hasher,
		jwtService:    jwtService,
		logger:        logger,
		config:        cfg,
		validator:     validator,
		uuidGenerator: uuidGenerator,
	}
}

// check if UserUsecase implements the IUserUseCase
var _ usecasecontract.IUserUseCase = (*UserUsecase)(nil)

// Register handles local user registration.
func (uc *UserUsecase) Register(ctx context.Context, name, email, password string, role entity.UserRole) (*entity.User, error) {
	if err := uc.validator.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email format: %w", err)
	}
	if err := uc.validator.ValidatePasswordStrength(password); err != nil {
		return nil, fmt.Errorf("weak password: %w", err)
	}
	if role != entity.UserRoleStudent && role != entity.UserRoleEducator {
		role = entity.DefaultRole()
	}

	existing, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, contract.ErrUserNotFound) {
		uc.logger.Errorf("failed to check for existing user by email: %v", err)
		return nil, errors.New(errInternalServer)
	}
	if existing != nil {
		return nil, fmt.Errorf("user with email %s already exists", email)
	}

	hashedPassword, err := uc.hasher.HashPassword(password)
	if err != nil {
		uc.logger.Errorf("failed to hash password: %v", err)
		return nil, errors.New(errInternalServer)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uc.uuidGenerator.NewUUID(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		AuthProvider: entity.AuthProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.CreateUser(ctx, user); err != nil {
		uc.logger.Errorf("failed to create user: %v", err)
		return nil, errors.New(errInternalServer)
	}
	return user, nil
}

// Login authenticates a local user and issues an access/refresh token pair.
// Google-provider users carry no password and are rejected here.
func (uc *UserUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, string, error) {
	user, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if user.AuthProvider != entity.AuthProviderLocal {
		return nil, "", "", fmt.Errorf("account uses %s sign-in", user.AuthProvider)
	}
	if err := uc.hasher.ComparePasswordHash(password, user.PasswordHash); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := uc.issueTokenPair(ctx, user)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

// LoginWithOAuth logs in a Google-authenticated user, creating the account
// on first sight. OAuth accounts have no password.
func (uc *UserUsecase) LoginWithOAuth(ctx context.Context, name, email string, photoURL *string) (*entity.User, string, string, error) {
	user, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, contract.ErrUserNotFound) {
			uc.logger.Errorf("failed to look up oauth user: %v", err)
			return nil, "", "", errors.New(errInternalServer)
		}
		now := time.Now()
		user = &entity.User{
			ID:           uc.uuidGenerator.NewUUID(),
			Name:         name,
			Email:        email,
			Role:         entity.DefaultRole(),
			AuthProvider: entity.AuthProviderGoogle,
			PhotoURL:     photoURL,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := uc.userRepo.CreateUser(ctx, user); err != nil {
			uc.logger.Errorf("failed to create oauth user: %v", err)
			return nil, "", "", errors.New(errInternalServer)
		}
	}

	accessToken, refreshToken, err := uc.issueTokenPair(ctx, user)
	if err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

// Authenticate resolves an access token to its user, used by the auth middleware.
func (uc *UserUsecase) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := uc.jwtService.ParseAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	user, err := uc.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.New(errUserNotFound)
	}
	return user, nil
}

// RefreshToken rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (uc *UserUsecase) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := uc.jwtService.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid refresh token: %w", err)
	}

	stored, err := uc.tokenRepo.GetTokenByHash(ctx, uc.hasher.HashString(refreshToken))
	if err != nil {
		return "", "", errors.New(errTokenNotFound)
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return "", "", errors.New("refresh token expired or revoked")
	}

	user, err := uc.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", "", errors.New(errUserNotFound)
	}

	if err := uc.tokenRepo.RevokeToken(ctx, stored.ID); err != nil {
		uc.logger.Errorf("failed to revoke rotated refresh token: %v", err)
	}

	return uc.issueTokenPair(ctx, user)
}

// Logout invalidates the presented refresh token. An unknown token is not an
// error; logout is idempotent.
func (uc *UserUsecase) Logout(ctx context.Context, refreshToken string) error {
	stored, err := uc.tokenRepo.GetTokenByHash(ctx, uc.hasher.HashString(refreshToken))
	if err != nil {
		return nil
	}
	if err := uc.tokenRepo.RevokeToken(ctx, stored.ID); err != nil {
		uc.logger.Errorf("failed to revoke refresh token on logout: %v", err)
		return errors.New(errInternalServer)
	}
	return nil
}

// GetUserByID fetches a user's public profile.
func (uc *UserUsecase) GetUserByID(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.New(errUserNotFound)
	}
	return user, nil
}

// UpdateProfile applies profile field updates for the user themself.
func (uc *UserUsecase) UpdateProfile(ctx context.Context, userID string, updates map[string]interface{}) (*entity.User, error) {
	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.New(errUserNotFound)
	}
	if name, ok := updates["name"].(string); ok && name != "" {
		user.Name = name
	}
	if description, ok := updates["description"].(string); ok {
		user.Description = &description
	}
	if photoURL, ok := updates["photo_url"].(string); ok {
		user.PhotoURL = &photoURL
	}
	updated, err := uc.userRepo.UpdateUser(ctx, user)
	if err != nil {
		uc.logger.Errorf("failed to update profile: %v", err)
		return nil, errors.New(errInternalServer)
	}
	return updated, nil
}

func (uc *UserUsecase) issueTokenPair(ctx context.Context, user *entity.User) (string, string, error) {
	accessToken, err := uc.jwtService.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		uc.logger.Errorf("failed to generate access token: %v", err)
		return "", "", errors.New(errInternalServer)
	}
	refreshToken, err := uc.jwtService.GenerateRefreshToken(user.ID)
	if err != nil {
		uc.logger.Errorf("failed to generate refresh token: %v", err)
		return "", "", errors.New(errInternalServer)
	}

	now := time.Now()
	token := &entity.Token{
		ID:        uc.uuidGenerator.NewUUID(),
		UserID:    user.ID,
		TokenType: entity.TokenTypeRefresh,
		TokenHash: uc.hasher.HashString(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(uc.config.GetRefreshTokenExpiry()),
	}
	if err := uc.tokenRepo.CreateToken(ctx, token); err != nil {
		uc.logger.Errorf("failed to persist refresh token: %v", err)
		return "", "", errors.New(errInternalServer)
	}
	return accessToken, refreshToken, nil
}
