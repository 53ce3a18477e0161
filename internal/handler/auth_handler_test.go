package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/dto"
	"github.com/contactdeck/contactdeck/internal/service"
)

// stubAuthService implements service.AuthService with overridable
// function fields.
type stubAuthService struct {
	registerFn      func(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	loginFn         func(ctx context.Context, req *dto.LoginRequest, userAgent, ip string) (*dto.AuthResponse, error)
	refreshFn       func(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	logoutFn        func(ctx context.Context, refreshToken string) error
	logoutAllFn     func(ctx context.Context, userID string) (int64, error)
	validateFn      func(ctx context.Context, token string) (*domain.Claims, error)
	getUserFn       func(ctx context.Context, id string) (*domain.User, error)
	updateProfileFn func(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	return s.registerFn(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, req *dto.LoginRequest, userAgent, ip string) (*dto.AuthResponse, error) {
	return s.loginFn(ctx, req, userAgent, ip)
}

func (s *stubAuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.logoutFn(ctx, refreshToken)
}

func (s *stubAuthService) LogoutAll(ctx context.Context, userID string) (int64, error) {
	return s.logoutAllFn(ctx, userID)
}

func (s *stubAuthService) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	return s.validateFn(ctx, token)
}

func (s *stubAuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, req)
}

// authTestRouter wires the auth routes with a middleware that injects a
// fixed user identity, standing in for the real bearer middleware.
func authTestRouter(svc service.AuthService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(svc)

	router := gin.New()
	auth := router.Group("/api/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.RefreshToken)
	auth.POST("/logout", h.Logout)

	protected := auth.Group("")
	protected.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	protected.POST("/logout-all", h.LogoutAll)
	protected.GET("/me", h.Me)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuthHandlerRefreshToken(t *testing.T) {
	t.Run("success returns a rotated pair", func(t *testing.T) {
		svc := &stubAuthService{
			refreshFn: func(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
				assert.Equal(t, "old-refresh", refreshToken)
				return &dto.AuthResponse{
					AccessToken:  "new-access",
					RefreshToken: "new-refresh",
					ExpiresIn:    900,
				}, nil
			},
		}
		router := authTestRouter(svc, "")

		w := doJSON(t, router, http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": "old-refresh"})
		require.Equal(t, http.StatusOK, w.Code)

		env := decodeEnvelope(t, w)
		require.True(t, env.Success)

		var auth dto.AuthResponse
		require.NoError(t, json.Unmarshal(env.Data, &auth))
		assert.Equal(t, "new-access", auth.AccessToken)
		assert.Equal(t, "new-refresh", auth.RefreshToken)
	})

	t.Run("unknown session is 401", func(t *testing.T) {
		svc := &stubAuthService{
			refreshFn: func(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
				return nil, service.ErrSessionNotFound
			},
		}
		router := authTestRouter(svc, "")

		w := doJSON(t, router, http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": "unknown"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
	})

	t.Run("expired session is 401", func(t *testing.T) {
		svc := &stubAuthService{
			refreshFn: func(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
				return nil, service.ErrTokenExpired
			},
		}
		router := authTestRouter(svc, "")

		w := doJSON(t, router, http.MethodPost, "/api/auth/refresh", gin.H{"refresh_token": "stale"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "TOKEN_EXPIRED", env.Error.Code)
	})

	t.Run("missing token is 400", func(t *testing.T) {
		router := authTestRouter(&stubAuthService{}, "")
		w := doJSON(t, router, http.MethodPost, "/api/auth/refresh", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandlerLogout(t *testing.T) {
	t.Run("unknown token still succeeds", func(t *testing.T) {
		svc := &stubAuthService{
			logoutFn: func(ctx context.Context, refreshToken string) error {
				// The service treats unknown tokens as success.
				return nil
			},
		}
		router := authTestRouter(svc, "")

		w := doJSON(t, router, http.MethodPost, "/api/auth/logout", gin.H{"refresh_token": "whatever"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeEnvelope(t, w).Success)
	})
}

func TestAuthHandlerLogoutAll(t *testing.T) {
	t.Run("reports the revoked session count", func(t *testing.T) {
		svc := &stubAuthService{
			logoutAllFn: func(ctx context.Context, userID string) (int64, error) {
				assert.Equal(t, "user-1", userID)
				return 3, nil
			},
		}
		router := authTestRouter(svc, "user-1")

		w := doJSON(t, router, http.MethodPost, "/api/auth/logout-all", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var result dto.LogoutAllResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
		assert.Equal(t, 3, result.Revoked)
		assert.Equal(t, "Revoked 3 active sessions", result.Message)
	})

	t.Run("unauthenticated request is 401", func(t *testing.T) {
		router := authTestRouter(&stubAuthService{}, "")
		w := doJSON(t, router, http.MethodPost, "/api/auth/logout-all", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Run("weak password is rejected before the service", func(t *testing.T) {
		router := authTestRouter(&stubAuthService{}, "")
		w := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "new@example.com",
			"password": "alllowercase1!",
			"name":     "New User",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "WEAK_PASSWORD", env.Error.Code)
	})

	t.Run("duplicate email is 409", func(t *testing.T) {
		svc := &stubAuthService{
			registerFn: func(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
				return nil, service.ErrUserAlreadyExists
			},
		}
		router := authTestRouter(svc, "")

		w := doJSON(t, router, http.MethodPost, "/api/auth/register", gin.H{
			"email":    "taken@example.com",
			"password": "Sup3rSecret!",
			"name":     "New User",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Run("invalid credentials are 401", func(t *testing.T) {
		svc := &stubAuthService{
			loginFn: func(ctx context.Context, req *dto.LoginRequest, userAgent, ip string) (*dto.AuthResponse, error) {
				return nil, service.ErrInvalidCredentials
			},
		}
		router := authTestRouter(svc, "")

		w := doJSON(t, router, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "user@example.com",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
	})
}

func TestAuthHandlerMe(t *testing.T) {
	svc := &stubAuthService{
		getUserFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{
				ID:        id,
				Email:     "user@example.com",
				Name:      "User One",
				Role:      domain.RoleEditor,
				CreatedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	router := authTestRouter(svc, "user-1")

	w := doJSON(t, router, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &user))
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "editor", user.Role)
}
