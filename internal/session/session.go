// Package session holds the state of one questionnaire administration.
//
// A Session is owned by its caller; there is no process-wide state. It is not
// safe for concurrent use.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"neopir/internal/inventory"
	"neopir/internal/scoring"
)

// Session tracks answers, the cursor position and the final result.
type Session struct {
	ID        string
	StartedAt time.Time
	UpdatedAt time.Time
	Inventory *inventory.Inventory
	Responses scoring.Responses
	Cursor    int
	Completed bool
	Result    *scoring.Result

	now func() time.Time
}

// Option customizes a new Session.
type Option func(*Session)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithID sets an explicit id instead of a generated UUID.
func WithID(id string) Option {
	return func(s *Session) { s.ID = id }
}

// New starts a fresh session over inv.
func New(inv *inventory.Inventory, opts ...Option) *Session {
	s := &Session{
		Inventory: inv,
		Responses: make(scoring.Responses),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.StartedAt = s.now()
	s.UpdatedAt = s.StartedAt
	return s
}

// Restore rebuilds a session from persisted state.
func Restore(inv *inventory.Inventory, id string, startedAt, updatedAt time.Time, responses scoring.Responses, cursor int, completed bool) (*Session, error) {
	if err := scoring.Validate(inv, responses); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	s := &Session{
		ID:        id,
		StartedAt: startedAt,
		UpdatedAt: updatedAt,
		Inventory: inv,
		Responses: responses.Clone(),
		Cursor:    clampCursor(cursor, inv.Len()),
		now:       func() time.Time { return time.Now().UTC() },
	}
	if completed {
		if _, err := s.Finalize(); err != nil {
			return nil, fmt.Errorf("restore session %s: %w", id, err)
		}
		s.UpdatedAt = updatedAt
	}
	return s, nil
}

// Current returns the item at the cursor.
func (s *Session) Current() (inventory.Item, bool) {
	return s.Inventory.ItemAt(s.Cursor)
}

// Next advances the cursor and reports whether it moved.
func (s *Session) Next() bool {
	if s.Cursor >= s.Inventory.Len()-1 {
		return false
	}
	s.Cursor++
	return true
}

// Previous moves the cursor back and reports whether it moved.
func (s *Session) Previous() bool {
	if s.Cursor <= 0 {
		return false
	}
	s.Cursor--
	return true
}

// Seek moves the cursor to the item with the given id.
func (s *Session) Seek(itemID string) error {
	idx := s.Inventory.IndexOf(itemID)
	if idx < 0 {
		return fmt.Errorf("%w: %q", scoring.ErrUnknownItem, itemID)
	}
	s.Cursor = idx
	return nil
}

// Answer records value for itemID. Answering a finalized session reopens it.
func (s *Session) Answer(itemID string, value int) error {
	if _, ok := s.Inventory.Item(itemID); !ok {
		return fmt.Errorf("%w: %q", scoring.ErrUnknownItem, itemID)
	}
	if !s.Inventory.Scale.Contains(value) {
		return fmt.Errorf("%w: %s=%d (want %d..%d)", scoring.ErrInvalidValue, itemID, value, s.Inventory.Scale.Min, s.Inventory.Scale.Max)
	}
	s.Responses[itemID] = value
	s.Completed = false
	s.Result = nil
	s.touch()
	return nil
}

// AnswerCurrent answers the item at the cursor and advances.
func (s *Session) AnswerCurrent(value int) error {
	item, ok := s.Current()
	if !ok {
		return fmt.Errorf("cursor %d out of range", s.Cursor)
	}
	if err := s.Answer(item.ID, value); err != nil {
		return err
	}
	s.Next()
	return nil
}

// Answered returns the number of answered items.
func (s *Session) Answered() int {
	return len(s.Responses)
}

// Missing lists unanswered item ids in presentation order.
func (s *Session) Missing() []string {
	return scoring.Missing(s.Inventory, s.Responses)
}

// FirstUnanswered returns the position of the first unanswered item, or -1.
func (s *Session) FirstUnanswered() int {
	missing := s.Missing()
	if len(missing) == 0 {
		return -1
	}
	return s.Inventory.IndexOf(missing[0])
}

// Progress returns the answered fraction in 0..1.
func (s *Session) Progress() float64 {
	total := s.Inventory.Len()
	if total == 0 {
		return 0
	}
	return float64(s.Answered()) / float64(total)
}

// Finalize scores a complete session. It fails with scoring.ErrIncomplete
// when any item is unanswered. Repeated calls return the same result.
func (s *Session) Finalize() (*scoring.Result, error) {
	if s.Completed && s.Result != nil {
		return s.Result, nil
	}
	if err := scoring.RequireComplete(s.Inventory, s.Responses); err != nil {
		return nil, err
	}
	res := scoring.Evaluate(s.Inventory, s.Responses)
	s.Result = &res
	s.Completed = true
	s.touch()
	return s.Result, nil
}

// Reset clears answers, cursor and result for a retake. The id is kept.
func (s *Session) Reset() {
	s.Responses = make(scoring.Responses)
	s.Cursor = 0
	s.Completed = false
	s.Result = nil
	s.touch()
}

func (s *Session) touch() {
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	s.UpdatedAt = s.now()
}

func clampCursor(cursor, n int) int {
	if cursor < 0 || n == 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
