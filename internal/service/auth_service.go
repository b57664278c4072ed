package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/internal/repository"
	"github.com/kindredapp/kindred/pkg/auth"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// AuthService handles account registration and sessions
type AuthService struct {
	userRepo       *repository.UserRepository
	profileRepo    *repository.ProfileRepository
	jwtManager     *auth.JWTManager
	rdb            *redis.Client
	googleClientID string
}

func NewAuthService(
	userRepo *repository.UserRepository,
	profileRepo *repository.ProfileRepository,
	jwtManager *auth.JWTManager,
	rdb *redis.Client,
	googleClientID string,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		jwtManager:     jwtManager,
		rdb:            rdb,
		googleClientID: googleClientID,
	}
}

// Register creates a new email/password account and returns a session token
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.LoginResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Email:        req.Email,
		Password:     string(hashedPassword),
		AuthProvider: model.AuthProviderEmail,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.New("failed to create user")
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &model.LoginResponse{Token: token, User: user.ToResponse()}, nil
}

// Login authenticates with email and password
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.AuthProvider == model.AuthProviderGoogle {
		return nil, ErrGoogleAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	// Sign-in counts as activity for discovery ranking; no profile yet is fine
	if err := s.profileRepo.TouchLastActive(ctx, user.ID); err != nil {
		log.Printf("⚠️  Failed to touch last active for %s: %v", user.ID, err)
	}

	return &model.LoginResponse{Token: token, User: user.ToResponse()}, nil
}

// LoginWithGoogle validates a Google ID token and signs the user in,
// creating the account on first login.
func (s *AuthService) LoginWithGoogle(ctx context.Context, req model.GoogleLoginRequest) (*model.LoginResponse, error) {
	payload, err := idtoken.Validate(ctx, req.IDToken, s.googleClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google token: %w", err)
	}

	email, ok := payload.Claims["email"].(string)
	if !ok {
		return nil, errors.New("email not found in token")
	}

	user, err := s.userRepo.GetOrCreateGoogleUser(ctx, payload.Subject, email)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.profileRepo.TouchLastActive(ctx, user.ID); err != nil {
		log.Printf("⚠️  Failed to touch last active for %s: %v", user.ID, err)
	}

	return &model.LoginResponse{Token: token, User: user.ToResponse()}, nil
}

// Logout clears the push token and blacklists the session token in Redis
// for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, tokenString string) error {
	if err := s.profileRepo.SetPushToken(ctx, userID, ""); err != nil {
		log.Printf("⚠️  Failed to clear push token for %s: %v", userID, err)
	}

	claims, err := s.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return err
	}

	expiresIn := time.Until(claims.ExpiresAt.Time)
	if expiresIn <= 0 {
		return nil
	}

	return s.rdb.Set(ctx, "blacklist:"+tokenString, "revoked", expiresIn).Err()
}

// GetAccount returns the authenticated user's account record
func (s *AuthService) GetAccount(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}
