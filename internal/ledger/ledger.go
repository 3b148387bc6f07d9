// Package ledger keeps the players and properties of one game session.
//
// Ledger is the only code allowed to mutate domain.Player and domain.Property
// records. The owner↔properties association is stored on both sides and is
// updated exclusively by attach and detach, so a property always belongs to
// exactly one player or to the bank. Every operation validates all of its
// preconditions before the first mutation; a failed call leaves the ledger
// untouched.
//
// Ledger is not safe for concurrent use.
package ledger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/aalvaropc/monoledger/internal/domain"
)

type Ledger struct {
	players    map[domain.PlayerID]*domain.Player
	order      []domain.PlayerID
	nextPlayer domain.PlayerID

	props     map[domain.PropertyID]*domain.Property
	propOrder []domain.PropertyID

	cards    []domain.CardRecord
	defaults domain.DefaultsConfig

	sinks []domain.EventSink
	log   *slog.Logger
}

type Option func(*Ledger)

// WithEventSink adds an observer notified of every change.
func WithEventSink(s domain.EventSink) Option {
	return func(l *Ledger) { l.Subscribe(s) }
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// New builds a ledger over the given card set. Player money and the fuzzy
// lookup threshold come from defaults.
func New(defaults domain.DefaultsConfig, cards []domain.CardRecord, opts ...Option) (*Ledger, error) {
	props, err := domain.BuildProperties(cards)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		players:    map[domain.PlayerID]*domain.Player{},
		nextPlayer: 1,
		props:      make(map[domain.PropertyID]*domain.Property, len(props)),
		propOrder:  make([]domain.PropertyID, 0, len(props)),
		cards:      append([]domain.CardRecord(nil), cards...),
		defaults:   defaults,
		log:        slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for i := range props {
		p := props[i]
		l.props[p.ID] = &p
		l.propOrder = append(l.propOrder, p.ID)
	}

	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Defaults returns the defaults the ledger was built with.
func (l *Ledger) Defaults() domain.DefaultsConfig {
	return l.defaults
}

// Cards returns a copy of the card records the ledger was built from.
func (l *Ledger) Cards() []domain.CardRecord {
	return append([]domain.CardRecord(nil), l.cards...)
}

func (l *Ledger) player(op string, id domain.PlayerID) (*domain.Player, error) {
	p, ok := l.players[id]
	if !ok {
		return nil, domain.Errorf(op, domain.KindNotFound, "player %d does not exist", id)
	}
	return p, nil
}

func (l *Ledger) property(op string, id domain.PropertyID) (*domain.Property, error) {
	p, ok := l.props[id]
	if !ok {
		return nil, domain.Errorf(op, domain.KindNotFound, "property %d does not exist", id)
	}
	return p, nil
}

// owner returns the owner of p or a PropertyNotOwned error.
func (l *Ledger) owner(op string, p *domain.Property) (*domain.Player, error) {
	if !p.Owned() {
		return nil, domain.Errorf(op, domain.KindPropertyNotOwned,
			"%s requires this property to be owned", p.Name)
	}
	return l.player(op, p.Owner)
}

func (l *Ledger) nameTaken(name string, except domain.PlayerID) bool {
	for _, id := range l.order {
		if id != except && strings.EqualFold(l.players[id].Name, name) {
			return true
		}
	}
	return false
}

// applyMoney is the single place money changes.
func (l *Ledger) applyMoney(p *domain.Player, delta int) {
	p.Money += delta
	p.History = append(p.History, p.Money)

	l.publish(domain.Event{Type: domain.EventMoneyChanged, Player: p.ID, Money: p.Money})
	l.publish(domain.Event{Type: domain.EventBankruptCheck, Player: p.ID, Money: p.Money, Bankrupt: p.Bankrupt()})
}

// attach moves p to owner, detaching it from any previous owner first.
func (l *Ledger) attach(p *domain.Property, owner *domain.Player) {
	if p.Owned() {
		l.detach(p)
	}
	p.Owner = owner.ID
	owner.Properties = append(owner.Properties, p.ID)
	l.publish(domain.Event{Type: domain.EventPropertyChanged, Player: owner.ID, Property: p.ID})
}

// detach returns p to the bank. Mortgage and houses are left as they are.
func (l *Ledger) detach(p *domain.Property) {
	if prev, ok := l.players[p.Owner]; ok {
		prev.Properties, _ = prev.WithoutProperty(p.ID)
	}
	from := p.Owner
	p.Owner = domain.NoPlayer
	l.publish(domain.Event{Type: domain.EventPropertyChanged, Player: from, Property: p.ID})
}

// Subscribe adds an observer. Observers are called synchronously, in
// subscription order, after each change.
func (l *Ledger) Subscribe(s domain.EventSink) {
	if s != nil {
		l.sinks = append(l.sinks, s)
	}
}

func (l *Ledger) publish(e domain.Event) {
	for _, s := range l.sinks {
		s.Publish(e)
	}
}
