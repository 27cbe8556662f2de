package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"story-time-client/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Authenticator выполняет один аутентифицированный HTTP запрос.
// Реализация обязана прозрачно обновлять учетные данные; если обновить их
// невозможно, возвращается *APIError (таксономия "Authentication error").
type Authenticator interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TokenSource выдает и обновляет access токен.
type TokenSource interface {
	// Token возвращает текущий access токен.
	Token(ctx context.Context) (string, error)
	// Refresh получает новый access токен и возвращает его.
	Refresh(ctx context.Context) (string, error)
}

// StaticTokenSource - источник с фиксированным токеном (из окружения).
// Refresh для него невозможен.
type StaticTokenSource struct {
	AccessToken string
}

func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s.AccessToken == "" {
		return "", models.ErrNoToken
	}
	return s.AccessToken, nil
}

func (s *StaticTokenSource) Refresh(ctx context.Context) (string, error) {
	// Статический токен обновить нечем
	return "", models.ErrTokenExpired
}

// Compile-time check to ensure implementation satisfies the interface.
var _ Authenticator = (*BearerAuthenticator)(nil)

// BearerAuthenticator подставляет Bearer токен в запросы.
// Перед запросом заглядывает в exp claim токена (подпись клиент проверить
// не может - секрета у него нет) и заранее обновляет истекший токен.
// На 401 обновляет токен и повторяет клонированный запрос один раз.
type BearerAuthenticator struct {
	tokens     TokenSource
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.RWMutex
	token string // кэш текущего токена
	now   func() time.Time
}

// NewBearerAuthenticator создает аутентификатор поверх источника токенов.
func NewBearerAuthenticator(tokens TokenSource, timeout time.Duration, logger *zap.Logger) (*BearerAuthenticator, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token source cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BearerAuthenticator{
		tokens: tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("BearerAuthenticator"),
		now:    time.Now,
	}, nil
}

// Do выполняет запрос, при необходимости обновляя токен.
func (a *BearerAuthenticator) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	token, err := a.currentToken(ctx)
	if err != nil {
		a.logger.Warn("Failed to obtain access token", zap.Error(err))
		return nil, &APIError{Message: "authentication required: " + err.Error(), Status: http.StatusUnauthorized, Code: "auth_failed"}
	}

	// Истекший токен обновляем до запроса, не дожидаясь 401
	if expired, ok := a.tokenExpired(token); ok && expired {
		a.logger.Debug("Access token expired, refreshing before request")
		token, err = a.refresh(ctx)
		if err != nil {
			return nil, &APIError{Message: "token refresh failed: " + err.Error(), Status: http.StatusUnauthorized, Code: "refresh_failed"}
		}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	a.logger.Debug("Executing authenticated request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("tokenSnippet", tokenSnippet(token)))
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	// Если получили 401, пробуем обновить токен и повторить запрос один раз
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close() // Закрываем тело первого ответа

		newToken, err := a.refresh(ctx)
		if err != nil {
			a.logger.Warn("Token refresh after 401 failed", zap.Error(err))
			return nil, &APIError{Message: "token refresh failed: " + err.Error(), Status: http.StatusUnauthorized, Code: "refresh_failed"}
		}

		newReq := req.Clone(ctx)
		newReq.Header.Set("Authorization", "Bearer "+newToken)
		return a.httpClient.Do(newReq)
	}

	return resp, nil
}

// currentToken возвращает кэшированный токен или запрашивает его у источника.
func (a *BearerAuthenticator) currentToken(ctx context.Context) (string, error) {
	a.mu.RLock()
	token := a.token
	a.mu.RUnlock()
	if token != "" {
		return token, nil
	}

	token, err := a.tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	a.setToken(token)
	return token, nil
}

func (a *BearerAuthenticator) refresh(ctx context.Context) (string, error) {
	token, err := a.tokens.Refresh(ctx)
	if err != nil {
		return "", err
	}
	a.setToken(token)
	return token, nil
}

func (a *BearerAuthenticator) setToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// tokenExpired проверяет exp claim без верификации подписи.
// Второе значение false, если токен не похож на JWT - тогда полагаемся на 401.
func (a *BearerAuthenticator) tokenExpired(token string) (bool, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false, false
	}
	if claims.ExpiresAt == nil {
		return false, false
	}
	return claims.ExpiresAt.Before(a.now()), true
}

// tokenSnippet возвращает безопасную для логгирования часть токена.
func tokenSnippet(token string) string {
	limit := 15
	if len(token) > limit {
		return token[:limit] + "..."
	}
	return token
}
