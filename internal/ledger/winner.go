package ledger

import (
	"github.com/aalvaropc/monoledger/internal/domain"
)

// PlayerWorth pairs a player name with its net worth.
type PlayerWorth struct {
	Name     string
	NetWorth int
}

// Standing is the outcome of a winner decision. Winners holds every player
// sharing the top net worth, in join order; Tie is set when there is more
// than one.
type Standing struct {
	Winners  []string
	NetWorth int
	Tie      bool
}

// NetWorths lists every player's net worth in join order.
func (l *Ledger) NetWorths() []PlayerWorth {
	out := make([]PlayerWorth, 0, len(l.order))
	for _, id := range l.order {
		p := l.players[id]
		out = append(out, PlayerWorth{Name: p.Name, NetWorth: l.netWorth(p)})
	}
	return out
}

// Winner decides the current winner by net worth.
func (l *Ledger) Winner() (Standing, error) {
	return DecideWinner(l.NetWorths())
}

func DecideWinner(worths []PlayerWorth) (Standing, error) {
	if len(worths) == 0 {
		return Standing{}, domain.Errorf("ledger.winner", domain.KindNotFound, "there are no players")
	}

	top := worths[0].NetWorth
	for _, w := range worths[1:] {
		if w.NetWorth > top {
			top = w.NetWorth
		}
	}

	s := Standing{NetWorth: top}
	for _, w := range worths {
		if w.NetWorth == top {
			s.Winners = append(s.Winners, w.Name)
		}
	}
	s.Tie = len(s.Winners) > 1
	return s, nil
}
