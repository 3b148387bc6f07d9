package ledger

import (
	"github.com/aalvaropc/monoledger/internal/domain"
)

// TransferProperty hands prop from one player to another, as in a trade.
// from must be the current owner.
func (l *Ledger) TransferProperty(from, to domain.PlayerID, prop domain.PropertyID) error {
	const op = "ledger.transferproperty"

	src, err := l.player(op, from)
	if err != nil {
		return err
	}
	dst, err := l.player(op, to)
	if err != nil {
		return err
	}
	p, err := l.property(op, prop)
	if err != nil {
		return err
	}
	if p.Owner != src.ID {
		return domain.Errorf(op, domain.KindNotAuthorized,
			"player %s does not own the property %s and is trying to transfer it", src.Name, p.Name)
	}
	if src.ID == dst.ID {
		return nil
	}

	l.attach(p, dst)
	l.log.Debug("ledger.property.transferred", "property", p.Name, "from", src.Name, "to", dst.Name)
	return nil
}
