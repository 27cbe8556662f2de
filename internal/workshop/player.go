package workshop

import (
	"sync"
	"time"
)

// defaultTick - период тика симуляции воспроизведения.
const defaultTick = 100 * time.Millisecond

// playerStep - прирост прогресса за тик, в процентах.
const playerStep = 2

// Player - локальная симуляция воспроизведения аудио-превью.
// Это НЕ настоящее декодирование: прогресс двигается фиксированным шагом по
// тикам до 100%, затем сбрасывается. Пауза останавливает тик.
type Player struct {
	mu       sync.Mutex
	playing  bool
	progress int
	stopCh   chan struct{}
	tick     time.Duration
}

// NewPlayer создает плеер со стандартным тиком.
func NewPlayer() *Player {
	return NewPlayerWithTick(defaultTick)
}

// NewPlayerWithTick создает плеер с заданным тиком (для тестов).
func NewPlayerWithTick(tick time.Duration) *Player {
	if tick <= 0 {
		tick = defaultTick
	}
	return &Player{tick: tick}
}

// Toggle переключает воспроизведение/паузу.
func (p *Player) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		p.pauseLocked()
		return
	}
	p.playing = true
	p.stopCh = make(chan struct{})
	go p.run(p.stopCh)
}

func (p *Player) run(stopCh chan struct{}) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.progress += playerStep
			if p.progress >= 100 {
				// Дошли до конца: останавливаемся и сбрасываемся в начало
				p.progress = 0
				p.pauseLocked()
				p.mu.Unlock()
				return
			}
			p.mu.Unlock()
		}
	}
}

func (p *Player) pauseLocked() {
	if p.stopCh != nil {
		close(p.stopCh)
		p.stopCh = nil
	}
	p.playing = false
}

// Playing сообщает, идет ли воспроизведение.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Progress возвращает прогресс воспроизведения в процентах.
func (p *Player) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// Stop останавливает воспроизведение и сбрасывает прогресс.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = 0
	p.pauseLocked()
}
