// Package progress реализует симулятор воспринимаемого прогресса генерации.
// Реальная длительность генерации неизвестна, поэтому прогресс двигается
// случайными инкрементами со случайным интервалом и упирается в 95% до тех
// пор, пока вызывающий не подтвердит завершение через Complete().
package progress

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// generationSteps - подписи этапов, ротация каждые stepPeriod.
var generationSteps = []string{
	"Initializing...",
	"Crafting characters...",
	"Building world...",
	"Weaving plot threads...",
	"Adding magical touches...",
	"Developing dialogue...",
	"Creating atmosphere...",
	"Polishing details...",
	"Enhancing emotions...",
	"Finalizing adventure...",
	"Reviewing story...",
	"Almost ready...",
}

// progressCap - потолок до подтверждения завершения.
const progressCap = 95.0

// Config позволяет подменить стратегию симуляции.
// В проде используются случайные значения, в тестах - детерминированные.
type Config struct {
	// Increment возвращает очередной прирост прогресса в процентах
	Increment func() float64
	// Interval возвращает паузу до следующего прироста
	Interval func() time.Duration
	// StepPeriod - период смены подписи этапа
	StepPeriod time.Duration
}

// Simulator управляет симуляцией прогресса одной генерации.
type Simulator struct {
	mu       sync.Mutex
	running  bool
	progress float64
	stepIdx  int
	stopCh   chan struct{}
	cfg      Config
}

// New создает симулятор с настройками по умолчанию:
// инкремент 1-8%, интервал 800-2000мс, смена этапа каждые 5с.
func New() *Simulator {
	return NewWithConfig(Config{})
}

// NewWithConfig создает симулятор с переопределенной стратегией.
func NewWithConfig(cfg Config) *Simulator {
	if cfg.Increment == nil {
		cfg.Increment = func() float64 { return rand.Float64()*7 + 1 }
	}
	if cfg.Interval == nil {
		cfg.Interval = func() time.Duration {
			return 800*time.Millisecond + time.Duration(rand.Int63n(1200))*time.Millisecond
		}
	}
	if cfg.StepPeriod <= 0 {
		cfg.StepPeriod = 5 * time.Second
	}
	return &Simulator{cfg: cfg}
}

// Start запускает симуляцию. Повторный Start во время работы игнорируется.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.progress = 0
	s.stepIdx = 0
	s.stopCh = make(chan struct{})
	go s.run(s.stopCh)
	log.Debug().Msg("Generation progress simulation started")
}

// run крутит цикл инкрементов и ротацию подписей до остановки.
func (s *Simulator) run(stopCh chan struct{}) {
	stepTicker := time.NewTicker(s.cfg.StepPeriod)
	defer stepTicker.Stop()

	timer := time.NewTimer(s.cfg.Interval())
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-stepTicker.C:
			s.mu.Lock()
			s.stepIdx = (s.stepIdx + 1) % len(generationSteps)
			s.mu.Unlock()
		case <-timer.C:
			s.mu.Lock()
			next := s.progress + s.cfg.Increment()
			if next > progressCap {
				next = progressCap
			}
			s.progress = next
			s.mu.Unlock()
			timer.Reset(s.cfg.Interval())
		}
	}
}

// Stop останавливает симуляцию и сбрасывает прогресс (отмена флоу).
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
	s.progress = 0
	s.stepIdx = 0
}

// Complete останавливает симуляцию и защелкивает прогресс на 100%.
// Вызывается, когда реальная операция завершилась.
func (s *Simulator) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		close(s.stopCh)
		s.running = false
	}
	s.progress = 100
	log.Debug().Msg("Generation progress snapped to 100%")
}

// Progress возвращает текущее значение прогресса в процентах.
func (s *Simulator) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// StepCaption возвращает подпись текущего этапа.
func (s *Simulator) StepCaption() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return generationSteps[s.stepIdx]
}

// Running сообщает, идет ли симуляция.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
