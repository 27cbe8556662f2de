package stubserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"story-time-client/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fullAudioCost - цена полного аудио, которую возвращает стаб.
const fullAudioCost = 2.99

// Handler - gin-обработчики стаба API историй.
type Handler struct {
	store  *Store
	logger *zap.Logger
	// Искусственная задержка "генерации" для реалистичности локальной разработки
	latency time.Duration
}

// NewHandler создает обработчики поверх хранилища.
func NewHandler(store *Store, latency time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:   store,
		logger:  logger.Named("StubHandler"),
		latency: latency,
	}
}

// NewRouter собирает gin-роутер стаба с middleware и маршрутами /stories.
func NewRouter(h *Handler, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(zapLoggingMiddleware(log))
	// Локальная разработка: пускаем веб-клиентов с других портов
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	stories := router.Group("/stories")
	stories.Use(bearerAuthMiddleware())
	{
		stories.POST("", h.createStory)
		stories.GET("", h.listStories)
		stories.GET("/:id", h.getStory)
		stories.PUT("/:id", h.updateStory)
		stories.DELETE("/:id", h.deleteStory)
		stories.POST("/:id/regenerate", h.regenerateStory)
		stories.POST("/:id/audio/preview", h.audioPreview)
		stories.POST("/:id/audio/full", h.audioFull)
	}

	return router
}

type createStoryBody struct {
	Tone      string `json:"tone" binding:"required"`
	Style     string `json:"style" binding:"required"`
	Prompt    string `json:"prompt" binding:"required"`
	ChildName string `json:"childName"`
}

func (h *Handler) createStory(c *gin.Context) {
	var body createStoryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("Invalid create story request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "tone, style and prompt are required"})
		return
	}

	started := time.Now()
	h.simulateWork()

	req := models.CreateStoryRequest{Tone: body.Tone, Style: body.Style, Prompt: body.Prompt, ChildName: body.ChildName}
	title, content := synthesizeStory(req)

	story := h.store.Create(models.Story{
		Title:     title,
		Content:   content,
		Tone:      body.Tone,
		Style:     body.Style,
		ChildName: body.ChildName,
		Status:    models.StatusReady,
		WordCount: models.CountWords(content),
	})

	c.JSON(http.StatusCreated, models.GenerateStoryResponse{
		ID:               story.ID,
		Title:            story.Title,
		Content:          story.Content,
		Tone:             story.Tone,
		Style:            story.Style,
		ChildName:        story.ChildName,
		WordCount:        story.WordCount,
		GenerationID:     uuid.NewString(),
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	})
}

func (h *Handler) listStories(c *gin.Context) {
	params := models.ListStoriesParams{
		Status:    models.StoryStatus(c.Query("status")),
		Tone:      c.Query("tone"),
		Style:     c.Query("style"),
		SortBy:    c.Query("sortBy"),
		SortOrder: models.SortOrder(c.Query("sortOrder")),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		params.Limit = limit
	}

	c.JSON(http.StatusOK, h.store.List(params))
}

func (h *Handler) getStory(c *gin.Context) {
	story, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "story not found"})
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *Handler) updateStory(c *gin.Context) {
	var req models.UpdateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid update body"})
		return
	}
	if req.Status != nil && !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("unknown status %q", *req.Status)})
		return
	}

	story, ok := h.store.Update(c.Param("id"), req)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "story not found"})
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *Handler) deleteStory(c *gin.Context) {
	if !h.store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"message": "story not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type regenerateBody struct {
	RegenerateOption models.RegenerateOption `json:"regenerateOption" binding:"required"`
	Section          string                  `json:"section"`
}

func (h *Handler) regenerateStory(c *gin.Context) {
	story, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "story not found"})
		return
	}

	var body regenerateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "regenerateOption is required"})
		return
	}
	if !body.RegenerateOption.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("unknown regenerate option %q", body.RegenerateOption)})
		return
	}

	started := time.Now()
	h.simulateWork()

	// Вариант не сохраняется: применять его или нет - решение клиента
	c.JSON(http.StatusOK, models.RegenerateResponse{
		GenerationID:     uuid.NewString(),
		Variant:          synthesizeVariant(story.Content, body.RegenerateOption),
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	})
}

func (h *Handler) audioPreview(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.store.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "story not found"})
		return
	}

	started := time.Now()
	h.simulateWork()

	// Каждый вызов выдает новый URL превью
	url := fmt.Sprintf("https://audio.story-time.local/preview/%s/%s.mp3", id, uuid.NewString())
	h.store.SetAudio(id, url, "")

	c.JSON(http.StatusOK, models.AudioResponse{
		AudioURL:         url,
		Duration:         30,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
	})
}

func (h *Handler) audioFull(c *gin.Context) {
	id := c.Param("id")
	story, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "story not found"})
		return
	}

	started := time.Now()
	h.simulateWork()

	url := fmt.Sprintf("https://audio.story-time.local/full/%s/%s.mp3", id, uuid.NewString())
	h.store.SetAudio(id, "", url)

	// Длительность зависит от объема текста: ~150 слов в минуту
	duration := float64(story.WordCount) / 150 * 60
	if duration < 60 {
		duration = 60
	}

	c.JSON(http.StatusOK, models.AudioResponse{
		AudioURL:         url,
		Duration:         duration,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
		Cost:             fullAudioCost,
	})
}

// simulateWork имитирует время генерации.
func (h *Handler) simulateWork() {
	if h.latency > 0 {
		time.Sleep(h.latency)
	}
}
