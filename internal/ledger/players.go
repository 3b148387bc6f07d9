package ledger

import (
	"strconv"
	"strings"

	"github.com/aalvaropc/monoledger/internal/domain"
)

// AddPlayer registers a new player with the configured starting money.
// Names are unique, compared case-insensitively.
func (l *Ledger) AddPlayer(name string) (domain.Player, error) {
	const op = "ledger.addplayer"

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Player{}, domain.Errorf(op, domain.KindUnexpectedValue, "player name is required")
	}
	if l.nameTaken(name, domain.NoPlayer) {
		return domain.Player{}, domain.Errorf(op, domain.KindAlreadyChosen, "player %s already exists", name)
	}

	p := &domain.Player{
		ID:         l.nextPlayer,
		Name:       name,
		Money:      l.defaults.Money,
		GoMoney:    l.defaults.GoMoney,
		History:    []int{l.defaults.Money},
		Properties: []domain.PropertyID{},
	}
	l.nextPlayer++
	l.players[p.ID] = p
	l.order = append(l.order, p.ID)

	l.log.Debug("ledger.player.added", "player", p.Name, "money", p.Money)
	return p.Clone(), nil
}

// AddPlayers registers several players at once. Every name is checked
// against the session and against the others before any player is added.
func (l *Ledger) AddPlayers(names ...string) ([]domain.Player, error) {
	const op = "ledger.addplayers"

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, domain.Errorf(op, domain.KindUnexpectedValue, "player name is required")
		}
		key := strings.ToLower(name)
		if seen[key] || l.nameTaken(name, domain.NoPlayer) {
			return nil, domain.Errorf(op, domain.KindAlreadyChosen, "player %s already exists", name)
		}
		seen[key] = true
	}

	added := make([]domain.Player, 0, len(names))
	for _, name := range names {
		p, err := l.AddPlayer(name)
		if err != nil {
			return added, err
		}
		added = append(added, p)
	}
	return added, nil
}

// RemovePlayer drops a player from the session. Its properties go back to
// the bank unmortgaged and without houses.
func (l *Ledger) RemovePlayer(id domain.PlayerID) error {
	p, err := l.player("ledger.removeplayer", id)
	if err != nil {
		return err
	}

	for _, pid := range append([]domain.PropertyID(nil), p.Properties...) {
		prop := l.props[pid]
		prop.Mortgaged = false
		if prop.Street != nil {
			prop.Street.Houses = 0
		}
		l.detach(prop)
	}

	delete(l.players, id)
	for i, oid := range l.order {
		if oid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}

	l.log.Debug("ledger.player.removed", "player", p.Name)
	return nil
}

func (l *Ledger) Player(id domain.PlayerID) (domain.Player, error) {
	p, err := l.player("ledger.player", id)
	if err != nil {
		return domain.Player{}, err
	}
	return p.Clone(), nil
}

// Players returns every player in the order they joined.
func (l *Ledger) Players() []domain.Player {
	out := make([]domain.Player, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.players[id].Clone())
	}
	return out
}

// PlayerByName finds a player by exact, case-insensitive name.
func (l *Ledger) PlayerByName(name string) (domain.Player, error) {
	name = strings.TrimSpace(name)
	for _, id := range l.order {
		if strings.EqualFold(l.players[id].Name, name) {
			return l.players[id].Clone(), nil
		}
	}
	return domain.Player{}, domain.Errorf("ledger.playerbyname", domain.KindNotFound, "couldn't find player %s", name)
}

func (l *Ledger) AddMoney(id domain.PlayerID, amount int) error {
	p, err := l.player("ledger.addmoney", id)
	if err != nil {
		return err
	}
	l.applyMoney(p, amount)
	return nil
}

func (l *Ledger) SubtractMoney(id domain.PlayerID, amount int) error {
	p, err := l.player("ledger.subtractmoney", id)
	if err != nil {
		return err
	}
	l.applyMoney(p, -amount)
	return nil
}

// AddGoMoney pays the player's pass-go reward.
func (l *Ledger) AddGoMoney(id domain.PlayerID) error {
	p, err := l.player("ledger.addgomoney", id)
	if err != nil {
		return err
	}
	l.applyMoney(p, p.GoMoney)
	return nil
}

// TransferMoney debits from and credits to by amount.
func (l *Ledger) TransferMoney(from, to domain.PlayerID, amount int) error {
	const op = "ledger.transfermoney"

	src, err := l.player(op, from)
	if err != nil {
		return err
	}
	dst, err := l.player(op, to)
	if err != nil {
		return err
	}
	l.applyMoney(src, -amount)
	l.applyMoney(dst, amount)
	return nil
}

func (l *Ledger) Jail(id domain.PlayerID) error {
	return l.setJail("ledger.jail", id, true)
}

func (l *Ledger) Unjail(id domain.PlayerID) error {
	return l.setJail("ledger.unjail", id, false)
}

func (l *Ledger) setJail(op string, id domain.PlayerID, jailed bool) error {
	p, err := l.player(op, id)
	if err != nil {
		return err
	}
	if p.InJail == jailed {
		if jailed {
			return domain.Errorf(op, domain.KindAlreadyChosen, "%s is already jailed", p.Name)
		}
		return domain.Errorf(op, domain.KindAlreadyChosen, "%s is not in jail", p.Name)
	}

	p.InJail = jailed
	l.publish(domain.Event{Type: domain.EventJailChanged, Player: p.ID, InJail: jailed})
	return nil
}

func (l *Ledger) IgnoreBankrupt(id domain.PlayerID) error {
	return l.setBankruptIgnored("ledger.ignorebankrupt", id, true)
}

func (l *Ledger) UnignoreBankrupt(id domain.PlayerID) error {
	return l.setBankruptIgnored("ledger.unignorebankrupt", id, false)
}

func (l *Ledger) setBankruptIgnored(op string, id domain.PlayerID, ignored bool) error {
	p, err := l.player(op, id)
	if err != nil {
		return err
	}
	if p.BankruptIgnored == ignored {
		if ignored {
			return domain.Errorf(op, domain.KindAlreadyChosen, "bankruptcy is already being ignored for %s", p.Name)
		}
		return domain.Errorf(op, domain.KindAlreadyChosen, "bankruptcy is not being ignored for %s", p.Name)
	}
	p.BankruptIgnored = ignored
	return nil
}

// CheckBankrupt reports money <= 0, unless bankruptcy is ignored for the player.
func (l *Ledger) CheckBankrupt(id domain.PlayerID) (bool, error) {
	p, err := l.player("ledger.checkbankrupt", id)
	if err != nil {
		return false, err
	}
	return p.Bankrupt(), nil
}

// ChangeName renames a player. The name_changed event is published before
// the record changes so observers can re-key by the old name.
func (l *Ledger) ChangeName(id domain.PlayerID, newName string) error {
	const op = "ledger.changename"

	p, err := l.player(op, id)
	if err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.Errorf(op, domain.KindUnexpectedValue, "player name is required")
	}
	if l.nameTaken(newName, id) {
		return domain.Errorf(op, domain.KindAlreadyChosen, "player %s already exists", newName)
	}

	l.publish(domain.Event{Type: domain.EventNameChanged, Player: p.ID, OldName: p.Name, NewName: newName})
	p.Name = newName
	return nil
}

// NetWorth is money plus the valuation of every owned property.
func (l *Ledger) NetWorth(id domain.PlayerID) (int, error) {
	p, err := l.player("ledger.networth", id)
	if err != nil {
		return 0, err
	}
	return l.netWorth(p), nil
}

func (l *Ledger) netWorth(p *domain.Player) int {
	worth := p.Money
	for _, pid := range p.Properties {
		worth += l.props[pid].Valuation()
	}
	return worth
}

// TransferAllProperties moves every property of from to to, in order.
func (l *Ledger) TransferAllProperties(from, to domain.PlayerID) error {
	const op = "ledger.transferallproperties"

	src, err := l.player(op, from)
	if err != nil {
		return err
	}
	dst, err := l.player(op, to)
	if err != nil {
		return err
	}
	if src.ID == dst.ID {
		return nil
	}

	for _, pid := range append([]domain.PropertyID(nil), src.Properties...) {
		l.attach(l.props[pid], dst)
	}
	src.Properties = []domain.PropertyID{}
	return nil
}

// AddProperty gives prop to player without any payment.
func (l *Ledger) AddProperty(player domain.PlayerID, prop domain.PropertyID) error {
	const op = "ledger.addproperty"

	p, err := l.player(op, player)
	if err != nil {
		return err
	}
	pr, err := l.property(op, prop)
	if err != nil {
		return err
	}
	if pr.Owner == p.ID {
		return nil
	}
	l.attach(pr, p)
	return nil
}

// RemoveProperty returns prop to the bank; player must hold it.
func (l *Ledger) RemoveProperty(player domain.PlayerID, prop domain.PropertyID) error {
	const op = "ledger.removeproperty"

	p, err := l.player(op, player)
	if err != nil {
		return err
	}
	pr, err := l.property(op, prop)
	if err != nil {
		return err
	}
	if !p.Owns(pr.ID) {
		return domain.Errorf(op, domain.KindNotFound, "couldn't find property %s in property list", pr.Name)
	}
	l.detach(pr)
	return nil
}

// PropertyList formats the player's properties for display:
// "Name (Mortgaged): houses", or ["None"] when the player holds nothing.
func (l *Ledger) PropertyList(id domain.PlayerID) ([]string, error) {
	p, err := l.player("ledger.propertylist", id)
	if err != nil {
		return nil, err
	}
	if len(p.Properties) == 0 {
		return []string{domain.NoOwnerName}, nil
	}

	out := make([]string, 0, len(p.Properties))
	for _, pid := range p.Properties {
		pr := l.props[pid]
		s := pr.Name
		if pr.Mortgaged {
			s += " (Mortgaged)"
		}
		if pr.Type == domain.TypeStandard {
			s += ": " + strconv.Itoa(pr.Street.Houses)
		}
		out = append(out, s)
	}
	return out, nil
}
