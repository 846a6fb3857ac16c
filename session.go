package dashbin

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Byte values tapped from the data-sent-to-process stream.
const (
	byteTab   = 9
	byteEnter = 13
)

// SessionConfig wires a Session to its collaborators. Screen and Store are
// required; callbacks are optional and skipped when nil.
type SessionConfig struct {
	Screen  ScreenReader
	Store   *Store
	Metrics CellMetrics

	// RefreshDelay overrides the default suggestion debounce.
	RefreshDelay time.Duration

	// OnSuggestion hands a computed ghost-text suffix and its placement to
	// the rendering collaborator.
	OnSuggestion func(suffix string, geo Geometry)

	// OnClear tells the rendering collaborator to drop the overlay.
	OnClear func()

	// SendInput forwards an accepted suffix to the terminal as if typed.
	SendInput func(text string)

	Logger *zap.Logger
}

// Session binds one terminal to the shelf. It taps the input byte stream for
// submit and accept keys, defers suggestion recomputation behind a
// single-slot timer so bursts coalesce, and serializes every recomputation
// on one mutex so two repaints never race on the same screen snapshot.
// Every failure on this path degrades to "no suggestion"; nothing here
// blocks input or returns an error.
type Session struct {
	mu  sync.Mutex
	cfg SessionConfig
	deb *Debouncer
	ext Extractor

	// current overlay state, guarded by mu
	suffix string
	active bool
}

// NewSession creates a session around the given collaborators.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Session{
		cfg: cfg,
		deb: NewDebouncer(cfg.RefreshDelay),
		ext: Extractor{Screen: cfg.Screen},
	}
}

// HandleOutput notes that the terminal produced output and schedules a
// debounced refresh.
func (s *Session) HandleOutput() {
	s.deb.Schedule(s.Refresh)
}

// HandleInput taps bytes on their way to the child process. A carriage
// return captures the submitted line into the store; Tab accepts the current
// suggestion by sending its suffix as if typed. It returns true when the Tab
// was consumed and should not reach the process. Every byte schedules a
// refresh so the overlay tracks the cursor.
func (s *Session) HandleInput(data []byte) bool {
	consumed := false
	for _, b := range data {
		switch b {
		case byteEnter:
			s.captureSubmission()
		case byteTab:
			if s.acceptSuggestion() {
				consumed = true
			}
		}
	}
	s.deb.Schedule(s.Refresh)
	return consumed
}

// Refresh recomputes the inline suggestion from the current screen state:
// cursor-bounded extraction, recency prefix match, then placement. Any miss
// clears the overlay.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	query, ok := s.ext.Extract(true)
	if !ok {
		s.clearInternal()
		return
	}
	suggestion, ok := s.cfg.Store.Suggest(query)
	if !ok {
		s.clearInternal()
		return
	}
	suggRunes := []rune(suggestion)
	queryLen := len([]rune(query))
	if queryLen >= len(suggRunes) {
		// Already fully typed; nothing to ghost.
		s.clearInternal()
		return
	}
	suffix := string(suggRunes[queryLen:])

	cur := s.cfg.Screen.Cursor()
	cols, rows := s.cfg.Screen.Size()
	geo, ok := PlaceSuggestion(suffix, cur, s.cfg.Screen.ScrollBase(), s.cfg.Screen.DisplayOffset(), cols, rows, s.cfg.Metrics)
	if !ok {
		s.clearInternal()
		return
	}

	s.suffix = suffix
	s.active = true
	if s.cfg.OnSuggestion != nil {
		s.cfg.OnSuggestion(suffix, geo)
	}
}

// Invalidate drops the current overlay and schedules a fresh computation.
// Call it on resize or layout change; geometry is never reused across
// either.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.clearInternal()
	s.mu.Unlock()
	s.deb.Schedule(s.Refresh)
}

// SetMetrics updates the per-cell pixel metrics and invalidates the overlay.
func (s *Session) SetMetrics(m CellMetrics) {
	s.mu.Lock()
	s.cfg.Metrics = m
	s.clearInternal()
	s.mu.Unlock()
	s.deb.Schedule(s.Refresh)
}

// Close stops the pending refresh timer.
func (s *Session) Close() {
	s.deb.Stop()
}

func (s *Session) captureSubmission() {
	s.mu.Lock()
	s.clearInternal()
	s.mu.Unlock()
	if cmd, ok := s.ext.Extract(false); ok {
		s.cfg.Store.Add(cmd)
	}
}

func (s *Session) acceptSuggestion() bool {
	s.mu.Lock()
	if !s.active || s.suffix == "" {
		s.mu.Unlock()
		return false
	}
	suffix := s.suffix
	s.clearInternal()
	s.mu.Unlock()
	if s.cfg.SendInput != nil {
		s.cfg.SendInput(suffix)
	}
	return true
}

// clearInternal drops the overlay state. Callers hold mu.
func (s *Session) clearInternal() {
	wasActive := s.active
	s.suffix = ""
	s.active = false
	if wasActive && s.cfg.OnClear != nil {
		s.cfg.OnClear()
	}
}
