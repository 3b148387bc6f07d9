package ledger

import (
	"github.com/aalvaropc/monoledger/internal/domain"
)

// Snapshot captures the ledger state. Session metadata (ID, card set name,
// timestamps) is left for the caller to fill in.
func (l *Ledger) Snapshot() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		MinPropSimilarity: l.defaults.MinPropSimilarity,
		Cards:             l.Cards(),
		Players:           l.Players(),
		Properties:        make([]domain.PropertyState, 0, len(l.propOrder)),
	}
	for _, id := range l.propOrder {
		p := l.props[id]
		snap.Properties = append(snap.Properties, domain.PropertyState{
			Name:         p.Name,
			Owner:        p.Owner,
			Mortgaged:    p.Mortgaged,
			Houses:       p.Houses(),
			TimesStepped: p.TimesStepped,
			SteppedPrice: p.SteppedPrice,
		})
	}
	return snap
}

// Restore rebuilds a ledger from a snapshot. Property ownership is taken
// from the property states; a player list that disagrees with them is
// rejected.
func Restore(snap domain.SessionSnapshot, defaults domain.DefaultsConfig, opts ...Option) (*Ledger, error) {
	const op = "ledger.restore"

	if snap.MinPropSimilarity > 0 {
		defaults.MinPropSimilarity = snap.MinPropSimilarity
	}
	l, err := New(defaults, snap.Cards, opts...)
	if err != nil {
		return nil, err
	}

	for _, sp := range snap.Players {
		if sp.ID == domain.NoPlayer {
			return nil, domain.Errorf(op, domain.KindUnexpectedValue, "player %s has no id", sp.Name)
		}
		if _, dup := l.players[sp.ID]; dup {
			return nil, domain.Errorf(op, domain.KindUnexpectedValue, "duplicate player id %d", sp.ID)
		}
		if l.nameTaken(sp.Name, domain.NoPlayer) {
			return nil, domain.Errorf(op, domain.KindUnexpectedValue, "duplicate player name %s", sp.Name)
		}

		p := sp.Clone()
		if n := len(p.History); n == 0 || p.History[n-1] != p.Money {
			p.History = append(p.History, p.Money)
		}
		p.Properties = []domain.PropertyID{}

		l.players[p.ID] = &p
		l.order = append(l.order, p.ID)
		if p.ID >= l.nextPlayer {
			l.nextPlayer = p.ID + 1
		}
	}

	byName := make(map[string]*domain.Property, len(l.props))
	for _, p := range l.props {
		byName[p.Name] = p
	}
	for _, st := range snap.Properties {
		p, ok := byName[st.Name]
		if !ok {
			return nil, domain.Errorf(op, domain.KindUnexpectedValue, "unknown property %s", st.Name)
		}
		if st.Owner != domain.NoPlayer {
			if _, ok := l.players[st.Owner]; !ok {
				return nil, domain.Errorf(op, domain.KindUnexpectedValue,
					"property %s is owned by unknown player %d", st.Name, st.Owner)
			}
		}
		if st.Houses < 0 || st.Houses > domain.MaxHouses {
			return nil, domain.Errorf(op, domain.KindUnexpectedValue,
				"property %s has %d houses", st.Name, st.Houses)
		}
		if st.Houses > 0 && p.Type != domain.TypeStandard {
			return nil, domain.Errorf(op, domain.KindUnexpectedValue,
				"property %s is a %s and cannot have houses", st.Name, p.Type)
		}
		if st.Owner == domain.NoPlayer && (st.Mortgaged || st.Houses > 0) {
			return nil, domain.Errorf(op, domain.KindUnexpectedValue,
				"property %s is with the bank but mortgaged or built on", st.Name)
		}

		p.Owner = st.Owner
		p.Mortgaged = st.Mortgaged
		p.TimesStepped = st.TimesStepped
		p.SteppedPrice = st.SteppedPrice
		if p.Street != nil {
			p.Street.Houses = st.Houses
		}
	}

	// Rebuild each player's set in its saved order, then append anything the
	// saved list missed.
	for _, sp := range snap.Players {
		owner := l.players[sp.ID]
		for _, pid := range sp.Properties {
			p, ok := l.props[pid]
			if !ok || p.Owner != owner.ID {
				return nil, domain.Errorf(op, domain.KindUnexpectedValue,
					"player %s lists property %d it does not own", owner.Name, pid)
			}
			if owner.Owns(pid) {
				continue
			}
			owner.Properties = append(owner.Properties, pid)
		}
	}
	for _, id := range l.propOrder {
		p := l.props[id]
		if !p.Owned() {
			continue
		}
		owner := l.players[p.Owner]
		if !owner.Owns(id) {
			owner.Properties = append(owner.Properties, id)
		}
	}
	for _, id := range l.propOrder {
		p := l.props[id]
		if p.Street != nil && p.Street.Houses > 0 && !l.hasColourSet(p) {
			return nil, domain.Errorf(op, domain.KindUnexpectedValue,
				"property %s has houses without its colour set", p.Name)
		}
	}

	return l, nil
}
