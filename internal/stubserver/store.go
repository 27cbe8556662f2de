package stubserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"story-time-client/internal/models"

	"github.com/google/uuid"
)

// Store - потокобезопасное in-memory хранилище историй стаба.
// Никакой БД: стаб живет в памяти процесса и умирает вместе с ним.
type Store struct {
	mu      sync.RWMutex
	stories map[string]models.Story
}

// NewStore создает пустое хранилище.
func NewStore() *Store {
	return &Store{stories: make(map[string]models.Story)}
}

// Create сохраняет новую историю, присваивая ей ID и таймстемпы.
func (s *Store) Create(story models.Story) models.Story {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	story.ID = uuid.NewString()
	story.CreatedAt = now
	story.UpdatedAt = now
	s.stories[story.ID] = story
	return story
}

// Get возвращает историю по ID.
func (s *Store) Get(id string) (models.Story, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	story, ok := s.stories[id]
	return story, ok
}

// Update мержит переданные поля в историю и пересчитывает wordCount.
func (s *Store) Update(id string, req models.UpdateStoryRequest) (models.Story, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	story, ok := s.stories[id]
	if !ok {
		return models.Story{}, false
	}
	if req.Title != nil {
		story.Title = *req.Title
	}
	if req.Content != nil {
		story.Content = *req.Content
		story.WordCount = models.CountWords(*req.Content)
	}
	if req.Tone != nil {
		story.Tone = *req.Tone
	}
	if req.Style != nil {
		story.Style = *req.Style
	}
	if req.ChildName != nil {
		story.ChildName = *req.ChildName
	}
	if req.Status != nil {
		story.Status = *req.Status
	}
	story.UpdatedAt = time.Now().UTC()
	s.stories[id] = story
	return story, true
}

// SetAudio проставляет аудио-поля истории.
func (s *Store) SetAudio(id, previewURL, fullURL string) (models.Story, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	story, ok := s.stories[id]
	if !ok {
		return models.Story{}, false
	}
	if previewURL != "" {
		story.AudioPreviewURL = previewURL
	}
	if fullURL != "" {
		story.AudioFullURL = fullURL
		story.Status = models.StatusAudioReady
	}
	story.UpdatedAt = time.Now().UTC()
	s.stories[id] = story
	return story, true
}

// Delete удаляет историю. Возвращает false, если ее не было.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stories[id]; !ok {
		return false
	}
	delete(s.stories, id)
	return true
}

// List возвращает отфильтрованную, отсортированную страницу историй.
func (s *Store) List(params models.ListStoriesParams) models.StoryListResponse {
	s.mu.RLock()
	filtered := make([]models.Story, 0, len(s.stories))
	for _, story := range s.stories {
		if params.Status != "" && story.Status != params.Status {
			continue
		}
		if params.Tone != "" && story.Tone != params.Tone {
			continue
		}
		if params.Style != "" && story.Style != params.Style {
			continue
		}
		filtered = append(filtered, story)
	}
	s.mu.RUnlock()

	sortStories(filtered, params.SortBy, params.SortOrder)

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = 10
	}

	total := len(filtered)
	pages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return models.StoryListResponse{
		Stories: filtered[start:end],
		Pagination: models.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}
}

// sortStories сортирует на месте. По умолчанию - новые сверху.
func sortStories(stories []models.Story, sortBy string, order models.SortOrder) {
	less := func(a, b models.Story) bool {
		switch sortBy {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	asc := order == models.SortAsc
	sort.SliceStable(stories, func(i, j int) bool {
		if asc {
			return less(stories[i], stories[j])
		}
		return less(stories[j], stories[i])
	})
}
