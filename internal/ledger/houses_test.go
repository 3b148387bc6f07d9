package ledger

import (
	"strings"
	"testing"

	"github.com/aalvaropc/monoledger/internal/domain"
)

func TestAddHouse_RequiresColourSet(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	b := mustAddPlayer(t, l, "Bob")

	assertKind(t, l.AddHouse(boardwalk, 1), domain.KindPropertyNotOwned)

	mustBuy(t, l, boardwalk, a)
	assertKind(t, l.AddHouse(boardwalk, 1), domain.KindLimitReached)

	// Set split across two owners still blocks building.
	mustBuy(t, l, parkPlace, b)
	assertKind(t, l.AddHouse(boardwalk, 1), domain.KindLimitReached)
	assertKind(t, l.AddHouse(parkPlace, 1), domain.KindLimitReached)

	if err := l.TransferProperty(b, a, parkPlace); err != nil {
		t.Fatalf("TransferProperty error: %v", err)
	}
	if ok, _ := l.HasColourSet(boardwalk); !ok {
		t.Fatalf("expected Ann to hold the dark blue set")
	}
	if err := l.AddHouse(boardwalk, 1); err != nil {
		t.Fatalf("AddHouse error: %v", err)
	}
}

func TestAddHouse_Capacity(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	mustBuy(t, l, oddLane, a)
	before := money(t, l, a)

	if err := l.AddHouse(oddLane, 3); err != nil {
		t.Fatalf("AddHouse error: %v", err)
	}
	if got := before - money(t, l, a); got != 3*75 {
		t.Fatalf("expected to pay 225, paid %d", got)
	}

	err := l.AddHouse(oddLane, 3)
	assertKind(t, err, domain.KindLimitReached)
	if !strings.Contains(err.Error(), "at most 2") {
		t.Fatalf("expected remaining capacity in message, got %v", err)
	}

	if err := l.AddHouse(oddLane, 2); err != nil {
		t.Fatalf("AddHouse to hotel error: %v", err)
	}
	if h := mustProperty(t, l, oddLane).Houses(); h != domain.MaxHouses {
		t.Fatalf("expected hotel, got %d houses", h)
	}

	assertKind(t, l.AddHouse(oddLane, 0), domain.KindUnexpectedValue)
}

func TestSellHouse_FloorsHalfPrice(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	mustBuy(t, l, oddLane, a)
	_ = l.AddHouse(oddLane, 3)

	err := l.SellHouse(oddLane, 4)
	assertKind(t, err, domain.KindLimitReached)
	if !strings.Contains(err.Error(), "at most 3") {
		t.Fatalf("expected sellable count in message, got %v", err)
	}

	before := money(t, l, a)
	if err := l.SellHouse(oddLane, 1); err != nil {
		t.Fatalf("SellHouse error: %v", err)
	}
	if got := money(t, l, a) - before; got != 37 {
		t.Fatalf("expected floor(75/2)=37, got %d", got)
	}

	before = money(t, l, a)
	if err := l.SellHouse(oddLane, 2); err != nil {
		t.Fatalf("SellHouse error: %v", err)
	}
	if got := money(t, l, a) - before; got != 75 {
		t.Fatalf("expected floor(2*75/2)=75, got %d", got)
	}
	if h := mustProperty(t, l, oddLane).Houses(); h != 0 {
		t.Fatalf("expected 0 houses, got %d", h)
	}
}

func TestHouses_OnlyOnStandardProperties(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	mustBuy(t, l, reading, a)

	assertKind(t, l.AddHouse(reading, 1), domain.KindUnexpectedValue)
	assertKind(t, l.SellHouse(reading, 1), domain.KindUnexpectedValue)
	_, err := l.HasColourSet(electric)
	assertKind(t, err, domain.KindUnexpectedValue)
}
