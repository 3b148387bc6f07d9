package ledger

import (
	"github.com/aalvaropc/monoledger/internal/domain"
)

// Step charges stepper the rent for landing on a property and records the
// visit. diceRoll is only used by utilities.
//
// No rent is due, and nothing changes, when the property belongs to the
// bank, is mortgaged, or its owner is in jail.
func (l *Ledger) Step(id domain.PropertyID, stepper domain.PlayerID, diceRoll int) (int, error) {
	const op = "ledger.step"

	p, err := l.property(op, id)
	if err != nil {
		return 0, err
	}
	payer, err := l.player(op, stepper)
	if err != nil {
		return 0, err
	}
	owner, err := l.owner(op, p)
	if err != nil {
		return 0, err
	}
	if p.Mortgaged {
		return 0, domain.Errorf(op, domain.KindNoPaymentNeeded, "%s is mortgaged", p.Name)
	}
	if owner.InJail {
		return 0, domain.Errorf(op, domain.KindNoPaymentNeeded, "the owner of %s is in jail", p.Name)
	}

	rent, err := l.rentFor(op, p, owner, diceRoll)
	if err != nil {
		return 0, err
	}

	l.applyMoney(payer, -rent)
	l.applyMoney(owner, rent)
	p.TimesStepped++
	p.SteppedPrice += rent
	l.publish(domain.Event{Type: domain.EventPropertyChanged, Player: owner.ID, Property: p.ID})

	l.log.Info("ledger.step",
		"property", p.Name,
		"stepper", payer.Name,
		"owner", owner.Name,
		"rent", rent,
	)
	return rent, nil
}

func (l *Ledger) rentFor(op string, p *domain.Property, owner *domain.Player, diceRoll int) (int, error) {
	var (
		rent int
		err  error
	)

	switch p.Type {
	case domain.TypeStandard:
		key := domain.RentKey(p.Street.Houses)
		if p.Street.Houses == 0 && l.hasColourSet(p) {
			key = domain.RentColourSet
		}
		rent, err = p.Street.RentFor(key)

	case domain.TypeRailroad:
		rent, err = p.Railroad.RentFor(l.ownedOfType(owner, domain.TypeRailroad))

	case domain.TypeUtility:
		if diceRoll < 1 {
			return 0, domain.Errorf(op, domain.KindUnexpectedValue, "a dice roll of at least 1 is required, got %d", diceRoll)
		}
		var m int
		m, err = p.Utility.MultiplierFor(l.ownedOfType(owner, domain.TypeUtility))
		rent = m * diceRoll

	default:
		return 0, domain.Errorf(op, domain.KindUnexpectedValue, "unknown property type %q", p.Type)
	}

	if err != nil {
		return 0, err
	}
	return rent, nil
}
