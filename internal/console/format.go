package console

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/monoledger/internal/domain"
)

// historyTail caps the number of balances printed by stats.
const historyTail = 10

func (r *run) printPlayer(p domain.Player) {
	var flags []string
	if p.InJail {
		flags = append(flags, "in jail")
	}
	if p.BankruptIgnored {
		flags = append(flags, "bankruptcy ignored")
	} else if p.Bankrupt() {
		flags = append(flags, "BANKRUPT")
	}

	line := fmt.Sprintf("%s: %s", p.Name, r.formatMoney(p.Money))
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ", ") + "]"
	}
	fmt.Fprintln(r.out, line)

	props, err := r.ledger.PropertyList(p.ID)
	if err != nil {
		return
	}
	fmt.Fprintf(r.out, "  properties: %s\n", strings.Join(props, ", "))
}

func (r *run) printMoney(id domain.PlayerID) error {
	p, err := r.ledger.Player(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s now has %s\n", p.Name, r.formatMoney(p.Money))
	return nil
}

func (c *Console) formatHistory(history []int) string {
	start := 0
	if len(history) > historyTail {
		start = len(history) - historyTail
	}

	parts := make([]string, 0, historyTail+1)
	if start > 0 {
		parts = append(parts, "…")
	}
	for _, m := range history[start:] {
		parts = append(parts, c.formatMoney(m))
	}
	return strings.Join(parts, " → ")
}

func houseCount(n int) string {
	switch n {
	case 0:
		return "no houses"
	case 1:
		return "1 house"
	case domain.MaxHouses:
		return "a hotel"
	default:
		return fmt.Sprintf("%d houses", n)
	}
}
