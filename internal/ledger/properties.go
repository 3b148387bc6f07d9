package ledger

import (
	"github.com/aalvaropc/monoledger/internal/domain"
)

func (l *Ledger) Property(id domain.PropertyID) (domain.Property, error) {
	p, err := l.property("ledger.property", id)
	if err != nil {
		return domain.Property{}, err
	}
	return p.Clone(), nil
}

// Properties returns every property in card-set order.
func (l *Ledger) Properties() []domain.Property {
	out := make([]domain.Property, 0, len(l.propOrder))
	for _, id := range l.propOrder {
		out = append(out, l.props[id].Clone())
	}
	return out
}

// Mortgage flags an owned property as mortgaged and pays its owner the mortgage price.
func (l *Ledger) Mortgage(id domain.PropertyID) error {
	const op = "ledger.mortgage"

	p, err := l.property(op, id)
	if err != nil {
		return err
	}
	owner, err := l.owner(op, p)
	if err != nil {
		return err
	}
	if p.Mortgaged {
		return domain.Errorf(op, domain.KindAlreadyChosen, "%s is already mortgaged", p.Name)
	}

	p.Mortgaged = true
	l.publish(domain.Event{Type: domain.EventPropertyChanged, Player: owner.ID, Property: p.ID})
	l.applyMoney(owner, p.MortgagePrice)
	return nil
}

// Unmortgage clears the flag and charges the owner the unmortgage price.
// The owner's money may go negative.
func (l *Ledger) Unmortgage(id domain.PropertyID) error {
	const op = "ledger.unmortgage"

	p, err := l.property(op, id)
	if err != nil {
		return err
	}
	owner, err := l.owner(op, p)
	if err != nil {
		return err
	}
	if !p.Mortgaged {
		return domain.Errorf(op, domain.KindAlreadyChosen, "%s is not mortgaged", p.Name)
	}

	p.Mortgaged = false
	l.publish(domain.Event{Type: domain.EventPropertyChanged, Player: owner.ID, Property: p.ID})
	l.applyMoney(owner, -p.UnmortgagePrice)
	return nil
}

// Buy sells a bank property to player at its listed price.
func (l *Ledger) Buy(id domain.PropertyID, player domain.PlayerID) error {
	p, err := l.property("ledger.buy", id)
	if err != nil {
		return err
	}
	return l.buy("ledger.buy", id, player, p.Price)
}

// AuctionBuy sells a bank property to player for the winning bid.
func (l *Ledger) AuctionBuy(id domain.PropertyID, player domain.PlayerID, amount int) error {
	if amount < 0 {
		return domain.Errorf("ledger.auctionbuy", domain.KindUnexpectedValue, "bid must not be negative, got %d", amount)
	}
	return l.buy("ledger.auctionbuy", id, player, amount)
}

func (l *Ledger) buy(op string, id domain.PropertyID, player domain.PlayerID, amount int) error {
	p, err := l.property(op, id)
	if err != nil {
		return err
	}
	buyer, err := l.player(op, player)
	if err != nil {
		return err
	}
	if p.Owned() {
		return domain.Errorf(op, domain.KindPropertyAlreadyOwned,
			"%s is already owned by %s, do you mean to transfer the property?", p.Name, l.ownerName(p))
	}

	l.attach(p, buyer)
	l.applyMoney(buyer, -amount)

	l.log.Debug("ledger.property.bought", "property", p.Name, "player", buyer.Name, "amount", amount)
	return nil
}

// Transfer moves an owned property to another player. No money changes hands.
func (l *Ledger) Transfer(id domain.PropertyID, to domain.PlayerID) error {
	const op = "ledger.transfer"

	p, err := l.property(op, id)
	if err != nil {
		return err
	}
	if _, err := l.owner(op, p); err != nil {
		return err
	}
	dst, err := l.player(op, to)
	if err != nil {
		return err
	}
	if p.Owner == dst.ID {
		return nil
	}
	l.attach(p, dst)
	return nil
}

// OwnerName returns the owner's name, or "None" for bank properties.
func (l *Ledger) OwnerName(id domain.PropertyID) (string, error) {
	p, err := l.property("ledger.ownername", id)
	if err != nil {
		return "", err
	}
	return l.ownerName(p), nil
}

func (l *Ledger) ownerName(p *domain.Property) string {
	if owner, ok := l.players[p.Owner]; ok {
		return owner.Name
	}
	return domain.NoOwnerName
}

// StepAverage is the rent collected per step on an owned property.
func (l *Ledger) StepAverage(id domain.PropertyID) (float64, error) {
	const op = "ledger.stepaverage"

	p, err := l.property(op, id)
	if err != nil {
		return 0, err
	}
	if _, err := l.owner(op, p); err != nil {
		return 0, err
	}
	return p.StepAverage(), nil
}
