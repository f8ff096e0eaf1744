package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Saver writes model snapshots to a Store.
// With a zero debounce every request saves before returning. Otherwise
// requests are coalesced by a background goroutine and written after the
// debounce elapses; Close flushes whatever is still pending.
type Saver struct {
	store       Store
	frequencies func() map[string]int
	models      func() ModelState
	debounce    time.Duration

	mu            sync.Mutex
	pendingFreq   bool
	pendingModels bool
	closed        bool

	kick chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSaver creates a saver that pulls snapshots from the given functions.
func NewSaver(st Store, frequencies func() map[string]int, models func() ModelState, debounce time.Duration) *Saver {
	s := &Saver{
		store:       st,
		frequencies: frequencies,
		models:      models,
		debounce:    debounce,
		kick:        make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	if debounce > 0 {
		s.wg.Add(1)
		go s.loop()
	}
	return s
}

// SaveFrequencies requests a save of the word-frequency table.
func (s *Saver) SaveFrequencies() {
	s.request(true, false)
}

// SaveModels requests a save of the n-gram and sentence state.
func (s *Saver) SaveModels() {
	s.request(false, true)
}

func (s *Saver) request(freq, models bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pendingFreq = s.pendingFreq || freq
	s.pendingModels = s.pendingModels || models
	s.mu.Unlock()

	if s.debounce <= 0 {
		s.Flush()
		return
	}
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Flush writes every pending snapshot now. Errors are logged, not returned:
// the in-memory models stay authoritative and the next save reconciles.
func (s *Saver) Flush() {
	s.mu.Lock()
	freq, models := s.pendingFreq, s.pendingModels
	s.pendingFreq, s.pendingModels = false, false
	s.mu.Unlock()

	ctx := context.Background()
	if freq && s.frequencies != nil {
		if err := s.store.SaveFrequencies(ctx, s.frequencies()); err != nil {
			log.Errorf("Failed to save word frequencies: %v", err)
		}
	}
	if models && s.models != nil {
		if err := s.store.SaveModels(ctx, s.models()); err != nil {
			log.Errorf("Failed to save models: %v", err)
		}
	}
}

func (s *Saver) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.kick:
			select {
			case <-time.After(s.debounce):
			case <-s.done:
				s.Flush()
				return
			}
			s.Flush()
		case <-s.done:
			s.Flush()
			return
		}
	}
}

// Close stops the background worker, flushes pending saves and closes the store.
func (s *Saver) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.debounce > 0 {
		close(s.done)
		s.wg.Wait()
	} else {
		s.Flush()
	}
	return s.store.Close()
}
