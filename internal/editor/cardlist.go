package editor

import (
	"context"
	"reflect"
	"sync"

	"github.com/folio-dev/folio/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Card is a list row with an optional server-issued id
type Card[T any] interface {
	Cloneable[T]
	CardID() string
}

// RowState is the lifecycle of a list row
type RowState int

const (
	// RowNew has no server id yet; saving it creates it
	RowNew RowState = iota
	// RowSaved carries a server id; saving it updates it
	RowSaved
	// RowDeleted has been removed from the collection
	RowDeleted
)

func (s RowState) String() string {
	switch s {
	case RowNew:
		return "new"
	case RowSaved:
		return "saved"
	case RowDeleted:
		return "deleted"
	}
	return "unknown"
}

// Row is a snapshot of one list row for rendering
type Row[T any] struct {
	Key      string
	Value    T
	State    RowState
	InFlight bool
	Dirty    bool
	Unsynced bool
	Editing  bool
}

// CardOps are the calls a list needs to persist rows
type CardOps[T any] struct {
	// Prepare runs before create/update, e.g. to upload a pending image and
	// substitute its URL. Its result is kept in the draft even if the save fails.
	Prepare func(ctx context.Context, draft T) (T, error)
	// Create POSTs a new row and returns it with its id
	Create func(ctx context.Context, draft T) (T, error)
	// Update PUTs an existing row
	Update func(ctx context.Context, draft T) error
}

type row[T Card[T]] struct {
	key      string
	draft    T
	saved    T
	state    RowState
	inFlight bool
	unsynced bool
}

func (r *row[T]) id() string {
	if r.state != RowSaved {
		return ""
	}
	return r.saved.CardID()
}

func (r *row[T]) snapshot(editing bool) Row[T] {
	return Row[T]{
		Key:      r.key,
		Value:    r.draft.Clone(),
		State:    r.state,
		InFlight: r.inFlight,
		Dirty:    r.state == RowNew || !reflect.DeepEqual(r.draft, r.saved),
		Unsynced: r.unsynced,
		Editing:  editing,
	}
}

// CardList is an ordered, batch-edited collection of rows. Rows are
// addressed by a local key that stays stable across create, so a row keeps
// its key after the server assigns an id.
type CardList[T Card[T]] struct {
	name  string
	blank func() T

	mu         sync.Mutex
	rows       []*row[T]
	loaded     bool
	loadErr    error
	editingKey string
}

// NewCardList creates an empty list; blank builds the template for Add
func NewCardList[T Card[T]](name string, blank func() T) *CardList[T] {
	return &CardList[T]{name: name, blank: blank}
}

// Load replaces the list with the server's rows. A failed fetch is logged
// and leaves the current rows in place.
func (l *CardList[T]) Load(ctx context.Context, fetch func(ctx context.Context) ([]T, error)) error {
	items, err := fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.loaded = true
	l.loadErr = err
	if err != nil {
		logger.Warn("Failed to load list, keeping current rows",
			zap.String("section", l.name),
			zap.Error(err))
		return err
	}

	l.reset(items)
	return nil
}

// Reset replaces all rows with persisted items
func (l *CardList[T]) Reset(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset(items)
}

func (l *CardList[T]) reset(items []T) {
	l.rows = make([]*row[T], 0, len(items))
	for _, item := range items {
		state := RowSaved
		if item.CardID() == "" {
			state = RowNew
		}
		l.rows = append(l.rows, &row[T]{
			key:   uuid.NewString(),
			draft: item.Clone(),
			saved: item.Clone(),
			state: state,
		})
	}
	l.editingKey = ""
}

// Loaded reports whether Load has run at least once
func (l *CardList[T]) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// LoadErr returns the error of the last Load, if any
func (l *CardList[T]) LoadErr() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadErr
}

// Rows returns render snapshots in list order
func (l *CardList[T]) Rows() []Row[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Row[T], 0, len(l.rows))
	for _, r := range l.rows {
		out = append(out, r.snapshot(r.key == l.editingKey))
	}
	return out
}

// Values returns the drafts in list order
func (l *CardList[T]) Values() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]T, 0, len(l.rows))
	for _, r := range l.rows {
		out = append(out, r.draft.Clone())
	}
	return out
}

// SavedValues returns the last persisted value of every row the server
// knows about, in list order
func (l *CardList[T]) SavedValues() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]T, 0, len(l.rows))
	for _, r := range l.rows {
		if r.state == RowSaved {
			out = append(out, r.saved.Clone())
		}
	}
	return out
}

// Get returns the row under key
func (l *CardList[T]) Get(key string) (Row[T], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, r := l.find(key)
	if r == nil {
		return Row[T]{}, false
	}
	return r.snapshot(r.key == l.editingKey), true
}

// Len returns the number of rows
func (l *CardList[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

// Add appends a blank template row locally and returns its key
func (l *CardList[T]) Add() string {
	return l.Append(l.blank())
}

// Append adds an unsaved row holding v
func (l *CardList[T]) Append(v T) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := uuid.NewString()
	l.rows = append(l.rows, &row[T]{
		key:   key,
		draft: v.Clone(),
		saved: l.blank(),
		state: RowNew,
	})
	return key
}

// AppendSaved adds a row that already exists on the server, e.g. one
// returned by a dedicated create endpoint.
func (l *CardList[T]) AppendSaved(v T) (string, error) {
	if v.CardID() == "" {
		return "", ErrMissingID
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := uuid.NewString()
	l.rows = append(l.rows, &row[T]{
		key:   key,
		draft: v.Clone(),
		saved: v.Clone(),
		state: RowSaved,
	})
	return key, nil
}

// Edit applies a local change to one row. Nothing is sent.
func (l *CardList[T]) Edit(key string, fn func(draft *T) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, r := l.find(key)
	if r == nil {
		return ErrRowNotFound
	}
	if r.inFlight {
		return ErrInFlight
	}

	next := r.draft.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	r.draft = next
	return nil
}

// Save persists one row: rows without an id are created and the placeholder
// is replaced by the server's row, rows with an id are updated in place.
// Invalid drafts are rejected before any call is made.
func (l *CardList[T]) Save(ctx context.Context, key string, ops CardOps[T]) error {
	l.mu.Lock()
	_, r := l.find(key)
	if r == nil {
		l.mu.Unlock()
		return ErrRowNotFound
	}
	if r.inFlight {
		l.mu.Unlock()
		return ErrInFlight
	}
	if err := Validate(r.draft); err != nil {
		l.mu.Unlock()
		return err
	}
	draft := r.draft.Clone()
	id := r.id()
	r.inFlight = true
	l.mu.Unlock()

	err := l.persist(ctx, r, draft, id, ops)

	l.mu.Lock()
	defer l.mu.Unlock()
	r.inFlight = false
	if err != nil {
		r.unsynced = true
		return err
	}
	r.unsynced = false
	if l.editingKey == key {
		l.editingKey = ""
	}
	return nil
}

func (l *CardList[T]) persist(ctx context.Context, r *row[T], draft T, id string, ops CardOps[T]) error {
	if ops.Prepare != nil {
		prepared, err := ops.Prepare(ctx, draft)
		if err != nil {
			return err
		}
		draft = prepared

		l.mu.Lock()
		r.draft = prepared.Clone()
		l.mu.Unlock()
	}

	if id == "" {
		created, err := ops.Create(ctx, draft)
		if err != nil {
			return err
		}
		if created.CardID() == "" {
			return ErrMissingID
		}

		l.mu.Lock()
		r.draft = created.Clone()
		r.saved = created.Clone()
		r.state = RowSaved
		l.mu.Unlock()
		return nil
	}

	if err := ops.Update(ctx, draft); err != nil {
		return err
	}

	l.mu.Lock()
	r.saved = draft.Clone()
	l.mu.Unlock()
	return nil
}

// Delete removes a row. Rows without an id are dropped locally with no call;
// rows with an id are removed only after remove succeeds.
func (l *CardList[T]) Delete(ctx context.Context, key string, remove func(ctx context.Context, id string) error) error {
	l.mu.Lock()
	i, r := l.find(key)
	if r == nil {
		l.mu.Unlock()
		return ErrRowNotFound
	}
	if r.inFlight {
		l.mu.Unlock()
		return ErrInFlight
	}

	id := r.id()
	if id == "" {
		l.splice(i, r)
		l.mu.Unlock()
		return nil
	}
	r.inFlight = true
	l.mu.Unlock()

	err := remove(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	r.inFlight = false
	if err != nil {
		return err
	}

	if i, cur := l.find(key); cur != nil {
		l.splice(i, cur)
	}
	return nil
}

func (l *CardList[T]) splice(i int, r *row[T]) {
	r.state = RowDeleted
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
	if l.editingKey == r.key {
		l.editingKey = ""
	}
}

// Revert discards local edits of a row; an unsaved row is removed
func (l *CardList[T]) Revert(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, r := l.find(key)
	if r == nil {
		return ErrRowNotFound
	}
	if r.inFlight {
		return ErrInFlight
	}

	if r.state == RowNew {
		l.splice(i, r)
		return nil
	}
	r.draft = r.saved.Clone()
	r.unsynced = false
	return nil
}

// BeginEdit marks key as the row being edited. A previous edit is cancelled.
func (l *CardList[T]) BeginEdit(key string) error {
	l.mu.Lock()
	prev := l.editingKey
	_, r := l.find(key)
	l.mu.Unlock()

	if r == nil {
		return ErrRowNotFound
	}
	if prev != "" && prev != key {
		if err := l.CancelEdit(); err != nil {
			return err
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.editingKey = key
	return nil
}

// BeginNew appends a blank row and starts editing it
func (l *CardList[T]) BeginNew() (string, error) {
	if err := l.CancelEdit(); err != nil {
		return "", err
	}
	key := l.Add()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.editingKey = key
	return key, nil
}

// CancelEdit reverts the row being edited and clears the pointer
func (l *CardList[T]) CancelEdit() error {
	l.mu.Lock()
	key := l.editingKey
	l.mu.Unlock()

	if key == "" {
		return nil
	}
	if err := l.Revert(key); err != nil && err != ErrRowNotFound {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.editingKey = ""
	return nil
}

// EditingKey returns the key of the row being edited, or ""
func (l *CardList[T]) EditingKey() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.editingKey
}

func (l *CardList[T]) find(key string) (int, *row[T]) {
	for i, r := range l.rows {
		if r.key == key {
			return i, r
		}
	}
	return -1, nil
}
