package domain

// Player is a participant's account: money, jail status and the properties it holds.
// The ledger owns the live record; everything handed out is a Clone.
type Player struct {
	ID      PlayerID `json:"id"`
	Name    string   `json:"name"`
	Money   int      `json:"money"`
	GoMoney int      `json:"go_money"`

	InJail          bool `json:"in_jail"`
	BankruptIgnored bool `json:"bankrupt_ignored"`

	// History holds every money balance, oldest first. The last entry equals Money.
	History []int `json:"history"`

	// Properties is an ordered set; order only matters for display.
	Properties []PropertyID `json:"properties"`
}

// Bankrupt reports money <= 0 unless the operator chose to ignore bankruptcy.
func (p Player) Bankrupt() bool {
	if p.BankruptIgnored {
		return false
	}
	return p.Money <= 0
}

// Owns reports whether id is in the player's property set.
func (p Player) Owns(id PropertyID) bool {
	return p.indexOf(id) >= 0
}

func (p Player) indexOf(id PropertyID) int {
	for i, pid := range p.Properties {
		if pid == id {
			return i
		}
	}
	return -1
}

// WithoutProperty returns the property set minus id, preserving order.
func (p Player) WithoutProperty(id PropertyID) ([]PropertyID, bool) {
	i := p.indexOf(id)
	if i < 0 {
		return p.Properties, false
	}
	out := make([]PropertyID, 0, len(p.Properties)-1)
	out = append(out, p.Properties[:i]...)
	out = append(out, p.Properties[i+1:]...)
	return out, true
}

func (p Player) Clone() Player {
	out := p
	out.History = append([]int(nil), p.History...)
	out.Properties = append([]PropertyID(nil), p.Properties...)
	return out
}
