package models

import (
	"time"
)

// StoryStatus представляет статус жизненного цикла истории.
type StoryStatus string

// Возможные статусы истории. Переходы наблюдаются клиентом только вперед:
// draft -> ready (генерация завершена), ready -> audio_ready (куплено полное аудио).
const (
	StatusDraft      StoryStatus = "draft"       // Черновик, доступен для редактирования
	StatusReady      StoryStatus = "ready"       // История сгенерирована и готова
	StatusAudioReady StoryStatus = "audio_ready" // Полное аудио сгенерировано и оплачено
	StatusPublished  StoryStatus = "published"   // Опубликована
)

// IsValid проверяет, что статус входит в известный словарь.
func (s StoryStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusReady, StatusAudioReady, StatusPublished:
		return true
	}
	return false
}

// Story представляет детскую историю — центральную сущность клиента.
// ID присваивается бэкендом при создании. WordCount пересчитывается бэкендом
// и не должен считаться достоверным после локальных правок до ресинка.
// AudioFullURL присутствует только при Status == audio_ready.
type Story struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Content         string      `json:"content,omitempty"`
	Tone            string      `json:"tone"`
	Style           string      `json:"style"`
	ChildName       string      `json:"childName,omitempty"`
	Status          StoryStatus `json:"status"`
	WordCount       int         `json:"wordCount"`
	AudioPreviewURL string      `json:"audioPreviewUrl,omitempty"`
	AudioFullURL    string      `json:"audioFullUrl,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// CreateStoryRequest - тело запроса POST /stories.
type CreateStoryRequest struct {
	Tone      string `json:"tone"`
	Style     string `json:"style"`
	Prompt    string `json:"prompt"`
	ChildName string `json:"childName,omitempty"`
}

// UpdateStoryRequest - тело запроса PUT /stories/{id}.
// Все поля опциональны: сервер мержит только переданные поля.
type UpdateStoryRequest struct {
	Title     *string      `json:"title,omitempty"`
	Content   *string      `json:"content,omitempty"`
	Tone      *string      `json:"tone,omitempty"`
	Style     *string      `json:"style,omitempty"`
	ChildName *string      `json:"childName,omitempty"`
	Status    *StoryStatus `json:"status,omitempty"`
}

// RegenerateOption определяет направление регенерации текста истории.
type RegenerateOption string

const (
	RegenerateShorter     RegenerateOption = "shorter"
	RegenerateBedtime     RegenerateOption = "bedtime"
	RegenerateAdventurous RegenerateOption = "adventurous"
	RegenerateFunny       RegenerateOption = "funny"
	RegenerateGentle      RegenerateOption = "gentle"
)

// IsValid проверяет, что опция регенерации известна.
func (o RegenerateOption) IsValid() bool {
	switch o {
	case RegenerateShorter, RegenerateBedtime, RegenerateAdventurous, RegenerateFunny, RegenerateGentle:
		return true
	}
	return false
}

// RegenerateStoryRequest - тело запроса POST /stories/{id}/regenerate.
type RegenerateStoryRequest struct {
	RegenerateOption RegenerateOption `json:"regenerateOption"`
	Section          string           `json:"section,omitempty"`
}

// VoiceType определяет тип голоса для озвучки.
type VoiceType string

const (
	VoiceMale   VoiceType = "male"
	VoiceFemale VoiceType = "female"
	VoiceChild  VoiceType = "child"
)

// GenerateAudioRequest - тело запросов POST /stories/{id}/audio/preview и /audio/full.
type GenerateAudioRequest struct {
	VoiceType              VoiceType `json:"voiceType,omitempty"`
	Speed                  float64   `json:"speed,omitempty"`
	IncludeBackgroundMusic bool      `json:"includeBackgroundMusic,omitempty"`
}

// SortOrder - направление сортировки списка историй.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListStoriesParams - параметры GET /stories.
// Нулевые значения не попадают в query (отсутствующий параметр, а не пустой).
type ListStoriesParams struct {
	Page      int
	Limit     int
	Status    StoryStatus
	Tone      string
	Style     string
	SortBy    string // createdAt | updatedAt | title
	SortOrder SortOrder
}

// GenerateStoryResponse - результат успешного создания истории.
// Эндпоинт создания не возвращает createdAt/updatedAt: их синтезирует клиент.
type GenerateStoryResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Content          string `json:"content"`
	Tone             string `json:"tone"`
	Style            string `json:"style"`
	ChildName        string `json:"childName,omitempty"`
	WordCount        int    `json:"wordCount"`
	GenerationID     string `json:"generationId"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

// Pagination - блок пагинации в ответе списка.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// StoryListResponse - результат GET /stories.
type StoryListResponse struct {
	Stories    []Story    `json:"stories"`
	Pagination Pagination `json:"pagination"`
}

// RegenerateResponse - результат регенерации: кандидат-вариант текста.
// Сохраненную историю запрос НЕ мутирует, применение варианта - решение пользователя.
type RegenerateResponse struct {
	GenerationID     string `json:"generationId"`
	Variant          string `json:"variant"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

// AudioResponse - результат генерации аудио.
// Cost заполняется только для полного (платного) аудио.
type AudioResponse struct {
	AudioURL         string  `json:"audioUrl"`
	Duration         float64 `json:"duration"`
	ProcessingTimeMs int64   `json:"processingTimeMs"`
	Cost             float64 `json:"cost,omitempty"`
}
