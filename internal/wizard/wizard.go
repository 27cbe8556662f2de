// Package wizard реализует линейный трехшаговый мастер создания истории:
// выбор тона и жанра -> детали промпта -> генерация.
package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"story-time-client/internal/client"
	"story-time-client/internal/models"

	"go.uber.org/zap"
)

// Step - номер шага мастера.
type Step int

const (
	StepStyleSelect Step = 1 // Выбор тона и жанра
	StepDetails     Step = 2 // Промпт и имя ребенка
	StepGenerate    Step = 3 // Подтверждение и генерация
)

// minPromptLength - нижняя граница длины промпта (строго больше).
const minPromptLength = 10

// Form - переходное состояние формы мастера.
// Живет только на время флоу и отбрасывается при завершении или отмене.
type Form struct {
	Tone        string
	Style       string
	PromptInput string
	ChildName   string
}

// Wizard - машина состояний мастера создания истории.
// Владеет формой и текущим шагом; генерацию выполняет через StoryAPI.
type Wizard struct {
	mu         sync.Mutex
	step       Step
	form       Form
	generating bool
	completed  bool
	result     *models.Story

	api    client.StoryAPI
	logger *zap.Logger
	now    func() time.Time
}

// New создает мастер на первом шаге.
func New(api client.StoryAPI, logger *zap.Logger) *Wizard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wizard{
		step:   StepStyleSelect,
		api:    api,
		logger: logger.Named("Wizard"),
		now:    time.Now,
	}
}

// Step возвращает текущий шаг.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Form возвращает копию текущей формы.
func (w *Wizard) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// IsGenerating сообщает, идет ли генерация (вложенное под-состояние шага 3).
func (w *Wizard) IsGenerating() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generating
}

// Completed сообщает, завершен ли мастер, и возвращает созданную историю.
func (w *Wizard) Completed() (*models.Story, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result, w.completed
}

// SetTone задает тон истории.
func (w *Wizard) SetTone(tone string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.Tone = tone
}

// SetStyle задает жанр истории.
func (w *Wizard) SetStyle(style string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.Style = style
}

// SetPrompt задает текст промпта.
func (w *Wizard) SetPrompt(prompt string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.PromptInput = prompt
}

// SetChildName задает опциональное имя ребенка.
func (w *Wizard) SetChildName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.ChildName = name
}

// CanProceed проверяет гард перехода вперед с текущего шага.
// Нарушение гарда не ошибка: UI просто держит кнопку "дальше" неактивной.
func (w *Wizard) CanProceed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canProceedLocked()
}

func (w *Wizard) canProceedLocked() bool {
	switch w.step {
	case StepStyleSelect:
		return w.form.Tone != "" && w.form.Style != ""
	case StepDetails:
		// Строго больше 10 символов после trim
		return len(strings.TrimSpace(w.form.PromptInput)) > minPromptLength
	default:
		return false
	}
}

// Next переводит мастер на следующий шаг, если гард выполнен.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step >= StepGenerate {
		return models.ErrStepGuardFailed
	}
	if !w.canProceedLocked() {
		return models.ErrStepGuardFailed
	}
	w.step++
	return nil
}

// Back возвращает мастер на предыдущий шаг.
// Во время генерации переход назад запрещен: генерация не отменяется.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generating {
		return models.ErrGenerationInProgress
	}
	if w.step > StepStyleSelect {
		w.step--
	}
	return nil
}

// Generate запускает генерацию истории (шаг 3, явное подтверждение
// пользователя). На успехе мастер завершает работу и возвращает историю со
// статусом ready; createdAt/updatedAt синтезируются клиентом, так как эндпоинт
// создания их не возвращает. На ошибке состояние остается на шаге 3 и
// допускается повторная попытка - автоматических ретраев нет.
func (w *Wizard) Generate(ctx context.Context) (*models.Story, error) {
	w.mu.Lock()
	if w.step != StepGenerate {
		w.mu.Unlock()
		return nil, models.ErrStepGuardFailed
	}
	if w.generating {
		w.mu.Unlock()
		return nil, models.ErrGenerationInProgress
	}
	w.generating = true
	req := models.CreateStoryRequest{
		Tone:      w.form.Tone,
		Style:     w.form.Style,
		Prompt:    w.form.PromptInput,
		ChildName: w.form.ChildName,
	}
	w.mu.Unlock()

	log := w.logger.With(zap.String("tone", req.Tone), zap.String("style", req.Style))
	log.Info("Starting story generation")

	res := w.api.CreateStory(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()

	data, ok := res.Data()
	if !ok {
		// Сбрасываем флаг и остаемся на шаге 3 для повторной попытки
		w.generating = false
		log.Warn("Story generation failed", zap.String("error", res.Err()))
		return nil, &GenerationError{Message: res.Err()}
	}

	now := w.now()
	story := &models.Story{
		ID:        data.ID,
		Title:     data.Title,
		Content:   data.Content,
		Tone:      data.Tone,
		Style:     data.Style,
		ChildName: data.ChildName,
		Status:    models.StatusReady,
		WordCount: data.WordCount,
		CreatedAt: now,
		UpdatedAt: now,
	}

	w.generating = false
	w.completed = true
	w.result = story
	log.Info("Story generated", zap.String("storyID", story.ID), zap.Int("wordCount", story.WordCount))
	return story, nil
}

// GenerationError - ошибка генерации с сообщением для пользователя.
type GenerationError struct {
	Message string
}

func (e *GenerationError) Error() string {
	if e.Message == "" {
		return "story generation failed"
	}
	return e.Message
}
