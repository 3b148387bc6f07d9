package ledger

import (
	"github.com/aalvaropc/monoledger/internal/domain"
)

// street returns the standard property behind id, with its owner.
func (l *Ledger) street(op string, id domain.PropertyID) (*domain.Property, *domain.Player, error) {
	p, err := l.property(op, id)
	if err != nil {
		return nil, nil, err
	}
	if p.Type != domain.TypeStandard {
		return nil, nil, domain.Errorf(op, domain.KindUnexpectedValue,
			"%s is a %s, only standard properties have houses", p.Name, p.Type)
	}
	owner, err := l.owner(op, p)
	if err != nil {
		return nil, nil, err
	}
	return p, owner, nil
}

// AddHouse builds n houses; the owner needs the full colour set and pays n × house price.
func (l *Ledger) AddHouse(id domain.PropertyID, n int) error {
	const op = "ledger.addhouse"

	p, owner, err := l.street(op, id)
	if err != nil {
		return err
	}
	if n < 1 {
		return domain.Errorf(op, domain.KindUnexpectedValue, "number of houses must be at least 1, got %d", n)
	}
	if !l.hasColourSet(p) {
		return domain.Errorf(op, domain.KindLimitReached, "you cannot have any houses without a colour set")
	}
	if p.Street.Houses+n > domain.MaxHouses {
		return domain.Errorf(op, domain.KindLimitReached,
			"adding too many houses, you can add at most %d houses", domain.MaxHouses-p.Street.Houses)
	}

	p.Street.Houses += n
	l.publish(domain.Event{Type: domain.EventPropertyChanged, Player: owner.ID, Property: p.ID})
	l.applyMoney(owner, -n*p.Street.HousePrice)
	return nil
}

// SellHouse removes n houses and credits the owner half the house price for
// each, rounded down.
func (l *Ledger) SellHouse(id domain.PropertyID, n int) error {
	const op = "ledger.sellhouse"

	p, owner, err := l.street(op, id)
	if err != nil {
		return err
	}
	if n < 1 {
		return domain.Errorf(op, domain.KindUnexpectedValue, "number of houses must be at least 1, got %d", n)
	}
	if p.Street.Houses-n < 0 {
		return domain.Errorf(op, domain.KindLimitReached,
			"selling too many houses, you can sell at most %d houses", p.Street.Houses)
	}

	p.Street.Houses -= n
	l.publish(domain.Event{Type: domain.EventPropertyChanged, Player: owner.ID, Property: p.ID})
	l.applyMoney(owner, n*p.Street.HousePrice/2)
	return nil
}

// HasColourSet reports whether the owner of a standard property holds every
// property of its colour.
func (l *Ledger) HasColourSet(id domain.PropertyID) (bool, error) {
	p, _, err := l.street("ledger.hascolourset", id)
	if err != nil {
		return false, err
	}
	return l.hasColourSet(p), nil
}

func (l *Ledger) hasColourSet(p *domain.Property) bool {
	owner, ok := l.players[p.Owner]
	if !ok {
		return false
	}
	count := 0
	for _, pid := range owner.Properties {
		other := l.props[pid]
		if other.Type == domain.TypeStandard && other.Street.Group.Colour == p.Street.Group.Colour {
			count++
		}
	}
	return count == p.Street.Group.Count
}

// ownedOfType counts the properties of type t held by owner.
func (l *Ledger) ownedOfType(owner *domain.Player, t domain.PropertyType) int {
	n := 0
	for _, pid := range owner.Properties {
		if l.props[pid].Type == t {
			n++
		}
	}
	return n
}
