package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/dto"
	"github.com/contactdeck/contactdeck/internal/repository"
	"github.com/contactdeck/contactdeck/pkg/telemetry"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrSessionNotFound    = errors.New("session not found")
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	JWTSecret          string
	JWTIssuer          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BcryptCost         int
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register registers a new user
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login authenticates a user
	Login(ctx context.Context, req *dto.LoginRequest, userAgent, ip string) (*dto.AuthResponse, error)
	// RefreshToken rotates the refresh token and issues a new access token
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	// Logout invalidates the session holding the given refresh token
	Logout(ctx context.Context, refreshToken string) error
	// LogoutAll revokes every session for a user and returns the count
	LogoutAll(ctx context.Context, userID string) (int64, error)
	// ValidateToken validates an access token and returns claims
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	// GetUser retrieves user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// UpdateProfile updates user profile
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error)
}

// authService implements AuthService
type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config *AuthServiceConfig,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.AccessTokenExpiry == 0 {
		config.AccessTokenExpiry = 15 * time.Minute
	}
	if config.RefreshTokenExpiry == 0 {
		config.RefreshTokenExpiry = 7 * 24 * time.Hour
	}
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Register registers a new user
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.register")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if exists {
		span.SetStatus(codes.Error, "user already exists")
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Role:         domain.RoleEditor,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	tokenPair, err := s.generateTokenPair(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")

	// New users get tokens but no stored session; the first login creates one.
	return &dto.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
		User:         s.toUserResponse(user),
	}, nil
}

// Login authenticates a user
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, userAgent, ip string) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.login")
	defer span.End()

	span.SetAttributes(attribute.String("email", req.Email))

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		span.SetStatus(codes.Error, "user inactive")
		return nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		span.SetStatus(codes.Error, "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := s.generateTokenPair(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	session := &domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    time.Now().Add(s.config.RefreshTokenExpiry),
		CreatedAt:    time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", user.ID))
	span.SetStatus(codes.Ok, "")

	return &dto.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
		User:         s.toUserResponse(user),
	}, nil
}

// RefreshToken rotates the refresh token and issues a new access token.
// The presented token's session row is replaced, so a refresh token can
// be used exactly once.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.refresh_token")
	defer span.End()

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if session == nil {
		span.SetStatus(codes.Error, "session not found")
		return nil, ErrSessionNotFound
	}

	span.SetAttributes(attribute.String("user_id", session.UserID))

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		span.SetStatus(codes.Error, "token expired")
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		span.SetStatus(codes.Error, "user inactive")
		return nil, ErrUserInactive
	}

	tokenPair, err := s.generateTokenPair(user)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// Delete old session first, then store the rotated one.
	_ = s.sessionRepo.Delete(ctx, session.ID)

	session.ID = uuid.New().String()
	session.RefreshToken = tokenPair.RefreshToken
	session.ExpiresAt = time.Now().Add(s.config.RefreshTokenExpiry)
	session.CreatedAt = time.Now()
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
		User:         s.toUserResponse(user),
	}, nil
}

// Logout invalidates the session holding the given refresh token. An
// unknown token is not an error; the session is simply already gone.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout")
	defer span.End()

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if session == nil {
		span.SetStatus(codes.Ok, "already logged out")
		return nil
	}

	span.SetAttributes(attribute.String("user_id", session.UserID))

	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// LogoutAll revokes every session for a user and returns how many were
// deleted.
func (s *authService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.logout_all")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	revoked, err := s.sessionRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("sessions_revoked", revoked))
	span.SetStatus(codes.Ok, "")
	return revoked, nil
}

// ValidateToken validates an access token and returns claims
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.validate_token")
	defer span.End()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		span.RecordError(err)
		if errors.Is(err, jwt.ErrTokenExpired) {
			span.SetStatus(codes.Error, "token expired")
			return nil, ErrTokenExpired
		}
		span.SetStatus(codes.Error, "invalid token")
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		span.SetStatus(codes.Error, "invalid token")
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		span.SetStatus(codes.Error, "invalid claims")
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		span.SetStatus(codes.Error, "invalid claims")
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	span.SetAttributes(attribute.String("user_id", userID))
	span.SetStatus(codes.Ok, "")

	return &domain.Claims{
		UserID: userID,
		Email:  email,
		Role:   domain.Role(role),
	}, nil
}

// GetUser retrieves user by ID
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.get_user")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", id))

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// UpdateProfile updates user profile
func (s *authService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.auth.update_profile")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if user == nil {
		span.SetStatus(codes.Error, "user not found")
		return nil, ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return user, nil
}

// generateTokenPair generates access and refresh tokens
func (s *authService) generateTokenPair(user *domain.User) (*domain.TokenPair, error) {
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     user.ID,
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"iss":     s.config.JWTIssuer,
		"exp":     time.Now().Add(s.config.AccessTokenExpiry).Unix(),
		"iat":     time.Now().Unix(),
	})

	accessTokenString, err := accessToken.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	refreshTokenBytes := make([]byte, 32)
	if _, err := rand.Read(refreshTokenBytes); err != nil {
		return nil, err
	}
	refreshTokenString := base64.URLEncoding.EncodeToString(refreshTokenBytes)

	return &domain.TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

// toUserResponse converts User to UserResponse
func (s *authService) toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
