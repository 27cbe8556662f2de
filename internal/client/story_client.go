package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"story-time-client/internal/models"

	"go.uber.org/zap"
)

// StoryAPI - типизированные операции над бэкендом историй.
// Каждая операция возвращает конверт Result и НИКОГДА не возвращает ошибку
// наружу: любой сбой превращается в Fail с сообщением для пользователя.
type StoryAPI interface {
	CreateStory(ctx context.Context, req models.CreateStoryRequest) Result[models.GenerateStoryResponse]
	ListStories(ctx context.Context, params models.ListStoriesParams) Result[models.StoryListResponse]
	GetStory(ctx context.Context, id string) Result[models.Story]
	UpdateStory(ctx context.Context, id string, req models.UpdateStoryRequest) Result[models.Story]
	DeleteStory(ctx context.Context, id string) Result[struct{}]
	RegenerateStory(ctx context.Context, id string, req models.RegenerateStoryRequest) Result[models.RegenerateResponse]
	GenerateAudioPreview(ctx context.Context, id string, req models.GenerateAudioRequest) Result[models.AudioResponse]
	GenerateFullAudio(ctx context.Context, id string, req models.GenerateAudioRequest) Result[models.AudioResponse]
}

// Compile-time check to ensure implementation satisfies the interface.
var _ StoryAPI = (*Client)(nil)

// Client - HTTP реализация StoryAPI.
type Client struct {
	baseURL string // корень API историй, например "https://api.example.com/stories"
	auth    Authenticator
	logger  *zap.Logger
}

// New создает клиент API историй.
// baseURL - корень /stories, auth выполняет аутентифицированные запросы.
func New(baseURL string, auth Authenticator, logger *zap.Logger) (*Client, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL for story API: %w", err)
	}
	if auth == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		auth:    auth,
		logger:  logger.Named("StoryClient"),
	}, nil
}

// CreateStory создает новую историю генерацией по tone/style/prompt.
func (c *Client) CreateStory(ctx context.Context, req models.CreateStoryRequest) Result[models.GenerateStoryResponse] {
	var resp models.GenerateStoryResponse
	if err := c.doRequest(ctx, http.MethodPost, "", req, &resp); err != nil {
		return failFrom[models.GenerateStoryResponse](err, "Story creation failed")
	}
	return OK(resp)
}

// ListStories возвращает страницу историй пользователя с фильтрацией.
func (c *Client) ListStories(ctx context.Context, params models.ListStoriesParams) Result[models.StoryListResponse] {
	query := buildListQuery(params)
	path := ""
	if query != "" {
		path = "?" + query
	}

	var resp models.StoryListResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return failFrom[models.StoryListResponse](err, "Failed to fetch stories")
	}
	return OK(resp)
}

// GetStory возвращает одну историю по ID.
func (c *Client) GetStory(ctx context.Context, id string) Result[models.Story] {
	var resp models.Story
	if err := c.doRequest(ctx, http.MethodGet, "/"+id, nil, &resp); err != nil {
		return failFrom[models.Story](err, "Failed to fetch story")
	}
	return OK(resp)
}

// UpdateStory частично обновляет историю: сервер мержит только переданные поля.
func (c *Client) UpdateStory(ctx context.Context, id string, req models.UpdateStoryRequest) Result[models.Story] {
	var resp models.Story
	if err := c.doRequest(ctx, http.MethodPut, "/"+id, req, &resp); err != nil {
		return failFrom[models.Story](err, "Story update failed")
	}
	return OK(resp)
}

// DeleteStory удаляет историю. Необратимо.
func (c *Client) DeleteStory(ctx context.Context, id string) Result[struct{}] {
	if err := c.doRequest(ctx, http.MethodDelete, "/"+id, nil, nil); err != nil {
		return failFrom[struct{}](err, "Story deletion failed")
	}
	return OK(struct{}{})
}

// RegenerateStory запрашивает вариант-кандидат текста истории.
// Сохраненную историю запрос не мутирует.
func (c *Client) RegenerateStory(ctx context.Context, id string, req models.RegenerateStoryRequest) Result[models.RegenerateResponse] {
	var resp models.RegenerateResponse
	if err := c.doRequest(ctx, http.MethodPost, "/"+id+"/regenerate", req, &resp); err != nil {
		return failFrom[models.RegenerateResponse](err, "Story regeneration failed")
	}
	return OK(resp)
}

// GenerateAudioPreview генерирует бесплатное 30-секундное аудио-превью.
func (c *Client) GenerateAudioPreview(ctx context.Context, id string, req models.GenerateAudioRequest) Result[models.AudioResponse] {
	var resp models.AudioResponse
	if err := c.doRequest(ctx, http.MethodPost, "/"+id+"/audio/preview", req, &resp); err != nil {
		return failFrom[models.AudioResponse](err, "Audio preview generation failed")
	}
	return OK(resp)
}

// GenerateFullAudio генерирует полное аудио. Платная операция: вызывающий
// обязан получить явное подтверждение пользователя ДО вызова (см. workshop).
func (c *Client) GenerateFullAudio(ctx context.Context, id string, req models.GenerateAudioRequest) Result[models.AudioResponse] {
	var resp models.AudioResponse
	if err := c.doRequest(ctx, http.MethodPost, "/"+id+"/audio/full", req, &resp); err != nil {
		return failFrom[models.AudioResponse](err, "Full audio generation failed")
	}
	return OK(resp)
}

// buildListQuery собирает query string из заданных параметров.
// Нулевые значения опускаются, а не отправляются пустыми.
func buildListQuery(params models.ListStoriesParams) string {
	values := url.Values{}
	if params.Page > 0 {
		values.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Status != "" {
		values.Set("status", string(params.Status))
	}
	if params.Tone != "" {
		values.Set("tone", params.Tone)
	}
	if params.Style != "" {
		values.Set("style", params.Style)
	}
	if params.SortBy != "" {
		values.Set("sortBy", params.SortBy)
	}
	if params.SortOrder != "" {
		values.Set("sortOrder", string(params.SortOrder))
	}
	return values.Encode()
}
