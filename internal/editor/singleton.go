package editor

import (
	"context"
	"reflect"
	"sync"

	"github.com/folio-dev/folio/pkg/logger"
	"go.uber.org/zap"
)

// Cloneable values can hand out deep copies of themselves
type Cloneable[T any] interface {
	Clone() T
}

// Status describes a draft for rendering
type Status struct {
	Loaded   bool
	LoadErr  error
	InFlight bool
	Dirty    bool
	Unsynced bool
}

// Singleton is the draft of a one-record section such as Home or Skills.
// Every save transmits the whole draft.
type Singleton[T Cloneable[T]] struct {
	name string

	mu       sync.Mutex
	draft    T
	saved    T
	loaded   bool
	loadErr  error
	inFlight bool
	unsynced bool
}

// NewSingleton creates a draft holding initial until Load succeeds
func NewSingleton[T Cloneable[T]](name string, initial T) *Singleton[T] {
	return &Singleton[T]{
		name:  name,
		draft: initial.Clone(),
		saved: initial.Clone(),
	}
}

// Load fetches the section and replaces both draft and saved snapshot.
// A failed fetch is logged and leaves the current draft in place.
func (s *Singleton[T]) Load(ctx context.Context, fetch func(ctx context.Context) (T, error)) error {
	v, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.loadErr = err
	if err != nil {
		logger.Warn("Failed to load section, keeping current draft",
			zap.String("section", s.name),
			zap.Error(err))
		return err
	}

	s.draft = v.Clone()
	s.saved = v.Clone()
	s.unsynced = false
	return nil
}

// Loaded reports whether Load has run at least once
func (s *Singleton[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Draft returns a copy of the working draft
func (s *Singleton[T]) Draft() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Saved returns a copy of the last state known to be persisted
func (s *Singleton[T]) Saved() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved.Clone()
}

// Update applies a local edit to the draft. Nothing is sent.
func (s *Singleton[T]) Update(fn func(draft *T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return ErrInFlight
	}

	next := s.draft.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.draft = next
	return nil
}

// Submit validates the draft and hands a copy of it to persist. On success the
// value persist returns becomes both draft and saved snapshot. On failure the
// draft keeps the owner's edits and is marked unsynced.
func (s *Singleton[T]) Submit(ctx context.Context, persist func(ctx context.Context, draft T) (T, error)) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrInFlight
	}
	if err := Validate(s.draft); err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := s.draft.Clone()
	s.inFlight = true
	s.mu.Unlock()

	stored, err := persist(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		s.unsynced = true
		return err
	}

	s.draft = stored.Clone()
	s.saved = stored.Clone()
	s.unsynced = false
	return nil
}

// Revert throws away local edits
func (s *Singleton[T]) Revert() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return ErrInFlight
	}
	s.draft = s.saved.Clone()
	s.unsynced = false
	return nil
}

// Status reports the draft's state
func (s *Singleton[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Loaded:   s.loaded,
		LoadErr:  s.loadErr,
		InFlight: s.inFlight,
		Dirty:    !reflect.DeepEqual(s.draft, s.saved),
		Unsynced: s.unsynced,
	}
}
