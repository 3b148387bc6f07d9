package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/aalvaropc/monoledger/internal/console"
	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/ledger"
	"github.com/aalvaropc/monoledger/internal/ports"
)

// Session is a restored ledger bound to the snapshot it was loaded from.
type Session struct {
	ID        string
	CardSet   string
	CreatedAt time.Time

	Ledger  *ledger.Ledger
	Console *console.Console
}

// Snapshot captures the session's current state under its stored identity.
func (s *Session) Snapshot() domain.SessionSnapshot {
	snap := s.Ledger.Snapshot()
	snap.ID = s.ID
	snap.CardSet = s.CardSet
	snap.CreatedAt = s.CreatedAt
	return snap
}

// Sessions opens and saves sessions through a SessionStore.
type Sessions struct {
	store    ports.SessionStore
	defaults domain.DefaultsConfig
	log      *slog.Logger
}

type SessionsOption func(*Sessions)

func WithSessionLogger(log *slog.Logger) SessionsOption {
	return func(s *Sessions) {
		if log != nil {
			s.log = log
		}
	}
}

func NewSessions(store ports.SessionStore, defaults domain.DefaultsConfig, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		store:    store,
		defaults: defaults,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open restores the session with the given ID, or the latest one when id is empty.
func (s *Sessions) Open(id string) (*Session, error) {
	var (
		snap domain.SessionSnapshot
		err  error
	)
	if id == "" {
		snap, err = s.store.LatestSession()
	} else {
		snap, err = s.store.LoadSession(id)
	}
	if err != nil {
		return nil, err
	}

	l, err := ledger.Restore(snap, s.defaults, ledger.WithLogger(s.log))
	if err != nil {
		return nil, err
	}

	s.log.Info("session.opened", "id", snap.ID, "card_set", snap.CardSet, "players", len(snap.Players))
	return s.bind(snap.ID, snap.CardSet, snap.CreatedAt, l), nil
}

// Create starts a fresh session over cards; it is not stored until Save.
func (s *Sessions) Create(cardSet string, cards []domain.CardRecord) (*Session, error) {
	l, err := ledger.New(s.defaults, cards, ledger.WithLogger(s.log))
	if err != nil {
		return nil, err
	}
	return s.bind("", cardSet, time.Now().UTC(), l), nil
}

func (s *Sessions) bind(id, cardSet string, createdAt time.Time, l *ledger.Ledger) *Session {
	return &Session{
		ID:        id,
		CardSet:   cardSet,
		CreatedAt: createdAt,
		Ledger:    l,
		Console:   console.New(l, console.WithLogger(s.log)),
	}
}

// Save stores the session and records the ID assigned on first save.
func (s *Sessions) Save(sess *Session) error {
	id, err := s.SaveSnapshot(sess.Snapshot())
	if err != nil {
		return err
	}
	if sess.ID == "" {
		sess.ID = id
	}
	return nil
}

// SaveSnapshot stores a snapshot taken earlier, so callers can save off the
// goroutine that owns the ledger.
func (s *Sessions) SaveSnapshot(snap domain.SessionSnapshot) (string, error) {
	id, err := s.store.SaveSession(snap)
	if err != nil {
		s.log.Error("session.save.failed", "id", snap.ID, "err", err.Error())
		return "", err
	}
	s.log.Info("session.saved", "id", id, "players", len(snap.Players))
	return id, nil
}

func (s *Sessions) List() ([]domain.SessionRef, error) {
	return s.store.ListSessions()
}
