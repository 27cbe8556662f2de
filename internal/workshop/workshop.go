// Package workshop реализует сессию редактирования готовой истории:
// живое редактирование текста с debounce-автосохранением, регенерация
// вариантов и платная генерация полного аудио.
package workshop

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"story-time-client/internal/client"
	"story-time-client/internal/models"

	"go.uber.org/zap"
)

// DefaultDebounce - окно бездействия перед автосохранением.
const DefaultDebounce = 2 * time.Second

// fullAudioPrice - цена полного аудио в долларах.
const fullAudioPrice = 2.99

// Confirmation описывает блокирующий запрос подтверждения пользователю.
type Confirmation struct {
	Title   string
	Message string
}

// ConfirmFunc показывает подтверждение и возвращает решение пользователя.
// true - подтверждено. Для платных и разрушающих операций вызов обязателен.
type ConfirmFunc func(ctx context.Context, c Confirmation) bool

// Session - сессия мастерской для одной истории.
// История принадлежит сессии по значению: между экранами данные передаются
// сериализованными, общего кэша нет. Две открытые сессии одной истории могут
// разойтись до ручного обновления - это принятое ограничение дизайна.
type Session struct {
	mu sync.Mutex

	story     models.Story
	buffer    string // текущий редактируемый текст
	lastSaved string // последняя УСПЕШНО сохраненная версия (не серверная)

	saveTimer    *time.Timer
	saveInFlight bool
	savePending  bool // ровно один отложенный досейв, если правка пришла во время сохранения

	regenerating bool
	regenOption  models.RegenerateOption
	variants     []string // история вариантов за сессию
	selected     string   // выбранный (не примененный) вариант

	generatingAudio bool
	closed          bool

	debounce time.Duration
	api      client.StoryAPI
	confirm  ConfirmFunc
	logger   *zap.Logger

	// OnSave вызывается после каждого успешного автосохранения (опционально).
	OnSave func(models.Story)
}

// NewSession создает сессию мастерской.
// confirm обязателен: без него невозможны revert и покупка аудио.
func NewSession(story models.Story, api client.StoryAPI, confirm ConfirmFunc, debounce time.Duration, logger *zap.Logger) (*Session, error) {
	if api == nil {
		return nil, fmt.Errorf("story API cannot be nil")
	}
	if confirm == nil {
		return nil, fmt.Errorf("confirm func cannot be nil")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		story:     story,
		buffer:    story.Content,
		lastSaved: story.Content,
		debounce:  debounce,
		api:       api,
		confirm:   confirm,
		logger:    logger.Named("Workshop").With(zap.String("storyID", story.ID)),
	}, nil
}

// Story возвращает копию текущего состояния истории.
func (s *Session) Story() models.Story {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.story
}

// Buffer возвращает текущий редактируемый текст.
func (s *Session) Buffer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// Dirty сообщает о несохраненных правках.
// Автосохранение деградирует молча, поэтому UI может показывать индикатор.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer != s.lastSaved
}

// IsAutoSaving сообщает, выполняется ли сохранение прямо сейчас.
func (s *Session) IsAutoSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveInFlight
}

// SetContent обновляет буфер и перевзводит debounce-таймер автосохранения.
// Новая правка внутри окна отменяет и переназначает отложенное сохранение.
func (s *Session) SetContent(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.buffer = text
	s.scheduleSaveLocked()
}

func (s *Session) scheduleSaveLocked() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.debounce, s.autoSave)
}

// autoSave срабатывает по истечении debounce-окна.
// Инвариант коалесценции: в полете не больше одного сохранения; правка,
// пришедшая во время полета, ставит ровно один досейв АКТУАЛЬНОГО буфера,
// чтобы устаревший запрос не перезаписал более новый.
func (s *Session) autoSave() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	// Нечего сохранять: текст не менялся или пуст
	if s.buffer == s.lastSaved || strings.TrimSpace(s.buffer) == "" {
		s.mu.Unlock()
		return
	}
	if s.saveInFlight {
		s.savePending = true
		s.mu.Unlock()
		return
	}
	s.saveInFlight = true
	snapshot := s.buffer
	storyID := s.story.ID
	s.mu.Unlock()

	go s.doSave(storyID, snapshot)
}

func (s *Session) doSave(storyID, snapshot string) {
	res := s.api.UpdateStory(context.Background(), storyID, models.UpdateStoryRequest{
		Content: models.StringPtr(snapshot),
	})

	s.mu.Lock()
	if s.closed {
		// Экран ушел - результат игнорируем
		s.mu.Unlock()
		return
	}
	s.saveInFlight = false

	var saved *models.Story
	if updated, ok := res.Data(); ok {
		s.lastSaved = snapshot
		// Принимаем серверные поля (updatedAt, пересчитанный wordCount)
		s.story = updated
		s.story.Content = snapshot
		storyCopy := s.story
		saved = &storyCopy
		s.logger.Debug("Auto-save succeeded", zap.Int("wordCount", updated.WordCount))
	} else {
		// Политика silent-degrade: локальные правки не теряются,
		// ошибка не блокирует пользователя
		s.logger.Warn("Auto-save failed", zap.String("error", res.Err()))
	}

	// Если за время полета буфер успел измениться - ровно один досейв
	fireAgain := s.savePending && s.buffer != s.lastSaved
	s.savePending = false
	onSave := s.OnSave
	s.mu.Unlock()

	if saved != nil && onSave != nil {
		onSave(*saved)
	}
	if fireAgain {
		s.autoSave()
	}
}

// Flush немедленно сохраняет несохраненные правки, минуя debounce.
// Используется CLI перед выходом.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.ErrSessionClosed
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	if s.buffer == s.lastSaved {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.buffer
	storyID := s.story.ID
	s.mu.Unlock()

	res := s.api.UpdateStory(ctx, storyID, models.UpdateStoryRequest{
		Content: models.StringPtr(snapshot),
	})
	data, ok := res.Data()
	if !ok {
		return fmt.Errorf("flush failed: %s", res.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.ErrSessionClosed
	}
	s.lastSaved = snapshot
	s.story = data
	s.story.Content = snapshot
	return nil
}

// Revert отбрасывает несохраненные правки после явного подтверждения
// (разрушающее действие) и возвращает буфер к последней УСПЕШНО сохраненной
// версии - именно ее отслеживает сессия, а не серверную.
func (s *Session) Revert(ctx context.Context) bool {
	confirmed := s.confirm(ctx, Confirmation{
		Title:   "Revert Changes",
		Message: "Are you sure you want to revert to the last saved version?",
	})
	if !confirmed {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.buffer = s.lastSaved
	return true
}

// IsRegenerating сообщает, идет ли регенерация, и какая опция активна.
func (s *Session) IsRegenerating() (bool, models.RegenerateOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regenerating, s.regenOption
}

// Variants возвращает историю вариантов этой сессии.
func (s *Session) Variants() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.variants))
	copy(out, s.variants)
	return out
}

// SelectedVariant возвращает выбранный (не примененный) вариант.
func (s *Session) SelectedVariant() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != ""
}

// Regenerate запрашивает вариант-кандидат текста. Single-flight: пока запрос
// в полете, повторные вызовы отклоняются. Успешный вариант становится
// выбранным (прежний невыбранный замещается - варианты не мержатся);
// на ошибке вариант не ставится.
func (s *Session) Regenerate(ctx context.Context, option models.RegenerateOption) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", models.ErrSessionClosed
	}
	if s.regenerating {
		s.mu.Unlock()
		return "", models.ErrRegenerationInProgress
	}
	if !option.IsValid() {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: unknown regenerate option %q", models.ErrInvalidInput, option)
	}
	s.regenerating = true
	s.regenOption = option
	storyID := s.story.ID
	s.mu.Unlock()

	log := s.logger.With(zap.String("option", string(option)))
	log.Info("Requesting story regeneration")

	res := s.api.RegenerateStory(ctx, storyID, models.RegenerateStoryRequest{
		RegenerateOption: option,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerating = false
	s.regenOption = ""
	if s.closed {
		return "", models.ErrSessionClosed
	}

	data, ok := res.Data()
	if !ok {
		log.Warn("Regeneration failed", zap.String("error", res.Err()))
		return "", fmt.Errorf("regeneration failed: %s", res.Err())
	}

	s.variants = append(s.variants, data.Variant)
	s.selected = data.Variant
	log.Info("Variant generated", zap.String("generationID", data.GenerationID), zap.Int64("processingTimeMs", data.ProcessingTimeMs))
	return data.Variant, nil
}

// ApplyVariant копирует выбранный вариант в живой буфер (дальше сработает
// обычное debounce-автосохранение) и очищает слот выбранного.
func (s *Session) ApplyVariant() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.ErrSessionClosed
	}
	if s.selected == "" {
		return models.ErrNoVariantSelected
	}
	s.buffer = s.selected
	s.selected = ""
	s.scheduleSaveLocked()
	return nil
}

// DiscardVariant очищает выбранный вариант, не трогая буфер.
func (s *Session) DiscardVariant() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// GenerateAudioPreview генерирует бесплатное аудио-превью.
// Каждый вызов может вернуть новый URL превью.
func (s *Session) GenerateAudioPreview(ctx context.Context, req models.GenerateAudioRequest) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", models.ErrSessionClosed
	}
	if s.generatingAudio {
		s.mu.Unlock()
		return "", models.ErrGenerationInProgress
	}
	s.generatingAudio = true
	storyID := s.story.ID
	s.mu.Unlock()

	res := s.api.GenerateAudioPreview(ctx, storyID, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generatingAudio = false
	if s.closed {
		return "", models.ErrSessionClosed
	}

	data, ok := res.Data()
	if !ok {
		s.logger.Warn("Audio preview generation failed", zap.String("error", res.Err()))
		return "", fmt.Errorf("audio preview failed: %s", res.Err())
	}

	s.story.AudioPreviewURL = data.AudioURL
	return data.AudioURL, nil
}

// PurchaseFullAudio выполняет двухфазную платную генерацию полного аудио:
// (1) блокирующее подтверждение с ценой и составом услуги, (2) только после
// явного согласия - сетевой вызов. Операция необратима и имеет реальный
// денежный побочный эффект, поэтому без фазы (1) вызова быть не может.
// На успехе статус переходит в audio_ready; на ошибке статус не меняется.
func (s *Session) PurchaseFullAudio(ctx context.Context, req models.GenerateAudioRequest) (*models.AudioResponse, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, models.ErrSessionClosed
	}
	storyID := s.story.ID
	s.mu.Unlock()

	confirmed := s.confirm(ctx, Confirmation{
		Title: "Generate Full Audio",
		Message: fmt.Sprintf(
			"You'll be charged $%.2f to generate the full audio story. This includes professional narration and download rights.\n\n"+
				"- Full story narration (~5-8 minutes)\n"+
				"- High-quality MP3 download\n"+
				"- Professional voice acting\n"+
				"- Background music & sound effects", fullAudioPrice),
	})
	if !confirmed {
		s.logger.Info("Full audio purchase declined by user")
		return nil, models.ErrPurchaseDeclined
	}

	res := s.api.GenerateFullAudio(ctx, storyID, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, models.ErrSessionClosed
	}

	data, ok := res.Data()
	if !ok {
		// Денежная операция: статус истории остается прежним
		s.logger.Error("Full audio generation failed", zap.String("error", res.Err()))
		return nil, fmt.Errorf("full audio generation failed: %s", res.Err())
	}

	s.story.Status = models.StatusAudioReady
	s.story.AudioFullURL = data.AudioURL
	s.story.Content = s.buffer
	s.logger.Info("Full audio generated", zap.String("audioUrl", data.AudioURL), zap.Float64("cost", data.Cost))
	return &data, nil
}

// Close помечает сессию закрытой (экран ушел). Запросы в полете не
// отменяются - их поздние результаты просто игнорируются.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
}
