package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/pkg/log"
)

const DefaultCapacity = 1000

var (
	ErrInvalid   = errors.New("invalid message")
	ErrDuplicate = errors.New("duplicate message")
	ErrStale     = errors.New("message is not from the current day")
)

type buffer struct {
	mu      sync.Mutex
	msgs    []core.Message
	ids     map[string]struct{}
	removed bool
}

// Store keeps an ordered, bounded buffer of messages per conversation.
// Each conversation has its own lock; the map lock is only held to find
// or drop a buffer.
type Store struct {
	mu       sync.RWMutex
	buffers  map[string]*buffer
	capacity int
	now      func() time.Time
	loc      *time.Location
	journal  core.Journal
}

type Option func(*Store)

func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithJournal mirrors every accepted message, trim and purge.
func WithJournal(j core.Journal) Option {
	return func(s *Store) { s.journal = j }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		buffers:  make(map[string]*buffer),
		capacity: DefaultCapacity,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Location() *time.Location { return s.loc }
func (s *Store) Capacity() int            { return s.capacity }
func (s *Store) Now() time.Time           { return s.now() }

// lockBuffer returns the locked buffer for chatID, creating it if asked.
func (s *Store) lockBuffer(chatID string, create bool) *buffer {
	for {
		s.mu.RLock()
		b, ok := s.buffers[chatID]
		s.mu.RUnlock()

		if !ok {
			if !create {
				return nil
			}
			s.mu.Lock()
			if b, ok = s.buffers[chatID]; !ok {
				b = &buffer{ids: make(map[string]struct{})}
				s.buffers[chatID] = b
			}
			s.mu.Unlock()
		}

		b.mu.Lock()
		if !b.removed {
			return b
		}
		// dropped by a purge between lookup and lock
		b.mu.Unlock()
	}
}

// AddMessage appends msg to the chat's buffer. Duplicates, messages
// from another day and malformed input are rejected with ErrDuplicate,
// ErrStale or ErrInvalid; callers log and drop them.
func (s *Store) AddMessage(ctx context.Context, chatID string, msg core.Message) error {
	if strings.TrimSpace(chatID) == "" || msg.ID == "" {
		return ErrInvalid
	}
	if msg.ChatID != "" && msg.ChatID != chatID {
		return fmt.Errorf("%w: chat id mismatch", ErrInvalid)
	}
	msg.ChatID = chatID

	if !core.SameDay(time.UnixMilli(msg.Timestamp), s.now(), s.loc) {
		return ErrStale
	}

	b := s.lockBuffer(chatID, true)
	defer b.mu.Unlock()

	if _, ok := b.ids[msg.ID]; ok {
		return ErrDuplicate
	}

	b.msgs = append(b.msgs, msg)
	b.ids[msg.ID] = struct{}{}

	if s.journal != nil {
		if err := s.journal.Append(ctx, chatID, msg); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("chat_id", chatID).Msg("journal append failed")
		}
	}

	if over := len(b.msgs) - s.capacity; over > 0 {
		for _, m := range b.msgs[:over] {
			delete(b.ids, m.ID)
		}
		b.msgs = append(b.msgs[:0:0], b.msgs[over:]...)

		if s.journal != nil {
			if err := s.journal.Trim(ctx, chatID, s.capacity); err != nil {
				log.FromCtx(ctx).Warn().Err(err).Str("chat_id", chatID).Msg("journal trim failed")
			}
		}
	}
	return nil
}

// GetMessages returns a copy of the chat's messages. With a date key
// (DD/MM/YYYY) the result is limited to that day and ordered by
// timestamp; without one it is in insertion order.
func (s *Store) GetMessages(chatID, dateKey string) []core.Message {
	b := s.lockBuffer(chatID, false)
	if b == nil {
		return []core.Message{}
	}

	out := make([]core.Message, 0, len(b.msgs))
	for _, m := range b.msgs {
		if dateKey == "" || core.DateKey(m.Timestamp, s.loc) == dateKey {
			out = append(out, m)
		}
	}
	b.mu.Unlock()

	if dateKey != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Timestamp < out[j].Timestamp
		})
	}
	return out
}

// PurgeOlderThan drops messages older than now-d from every chat and
// removes chats left empty. It returns the number of messages removed.
func (s *Store) PurgeOlderThan(ctx context.Context, d time.Duration) int {
	cutoff := s.now().Add(-d).UnixMilli()
	removed := 0

	for _, chatID := range s.Chats() {
		b := s.lockBuffer(chatID, false)
		if b == nil {
			continue
		}

		kept := b.msgs[:0:0]
		for _, m := range b.msgs {
			if m.Timestamp < cutoff {
				delete(b.ids, m.ID)
				removed++
				continue
			}
			kept = append(kept, m)
		}
		b.msgs = kept

		if len(b.msgs) == 0 {
			b.removed = true
			s.mu.Lock()
			delete(s.buffers, chatID)
			s.mu.Unlock()
		}
		b.mu.Unlock()
	}

	if s.journal != nil {
		if err := s.journal.PurgeBefore(ctx, cutoff); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("journal purge failed")
		}
	}
	return removed
}

// Restore loads buffers from the journal, keeping the newest capacity
// messages per chat in their original insertion order.
func (s *Store) Restore(ctx context.Context) (int, error) {
	if s.journal == nil {
		return 0, nil
	}
	loaded, err := s.journal.Load(ctx, s.capacity)
	if err != nil {
		return 0, fmt.Errorf("load journal: %w", err)
	}

	total := 0
	for chatID, msgs := range loaded {
		b := s.lockBuffer(chatID, true)
		for _, m := range msgs {
			if _, ok := b.ids[m.ID]; ok {
				continue
			}
			b.msgs = append(b.msgs, m)
			b.ids[m.ID] = struct{}{}
			total++
		}
		if over := len(b.msgs) - s.capacity; over > 0 {
			for _, m := range b.msgs[:over] {
				delete(b.ids, m.ID)
			}
			b.msgs = append(b.msgs[:0:0], b.msgs[over:]...)
		}
		b.mu.Unlock()
	}
	return total, nil
}

// Chats lists conversations that currently hold messages, sorted.
func (s *Store) Chats() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.buffers))
	for id := range s.buffers {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (s *Store) Len(chatID string) int {
	b := s.lockBuffer(chatID, false)
	if b == nil {
		return 0
	}
	defer b.mu.Unlock()
	return len(b.msgs)
}
