package ledger

import (
	"reflect"
	"testing"

	"github.com/aalvaropc/monoledger/internal/domain"
)

func TestAddPlayer_StartsWithDefaults(t *testing.T) {
	l := newTestLedger(t)

	p, err := l.AddPlayer("  Ann ")
	if err != nil {
		t.Fatalf("AddPlayer error: %v", err)
	}
	if p.Name != "Ann" || p.Money != 1500 || p.GoMoney != 200 {
		t.Fatalf("unexpected player: %+v", p)
	}
	if !reflect.DeepEqual(p.History, []int{1500}) {
		t.Fatalf("expected history [1500], got %v", p.History)
	}
}

func TestAddPlayer_RejectsDuplicateAndEmptyNames(t *testing.T) {
	l := newTestLedger(t)
	mustAddPlayer(t, l, "Ann")

	_, err := l.AddPlayer("ANN")
	assertKind(t, err, domain.KindAlreadyChosen)

	_, err = l.AddPlayer("   ")
	assertKind(t, err, domain.KindUnexpectedValue)

	if len(l.Players()) != 1 {
		t.Fatalf("expected 1 player, got %d", len(l.Players()))
	}
}

func TestAddPlayers_ValidatesBeforeAdding(t *testing.T) {
	l := newTestLedger(t)
	mustAddPlayer(t, l, "Ann")

	_, err := l.AddPlayers("Zed", "zed")
	assertKind(t, err, domain.KindAlreadyChosen)
	_, err = l.AddPlayers("Zed", "ann")
	assertKind(t, err, domain.KindAlreadyChosen)
	_, err = l.AddPlayers("Zed", " ")
	assertKind(t, err, domain.KindUnexpectedValue)

	if len(l.Players()) != 1 {
		t.Fatalf("expected failed batches to add nobody, got %d players", len(l.Players()))
	}

	added, err := l.AddPlayers("Zed", "Bob")
	if err != nil {
		t.Fatalf("AddPlayers error: %v", err)
	}
	if len(added) != 2 || added[0].Name != "Zed" || added[1].Name != "Bob" {
		t.Fatalf("unexpected players: %+v", added)
	}
}

func TestMoney_HistoryEndsWithBalance(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	b := mustAddPlayer(t, l, "Bob")

	steps := []func() error{
		func() error { return l.AddMoney(a, 300) },
		func() error { return l.SubtractMoney(a, 2000) },
		func() error { return l.AddGoMoney(a) },
		func() error { return l.TransferMoney(a, b, 75) },
		func() error { return l.SubtractMoney(a, 0) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		for _, p := range l.Players() {
			if last := p.History[len(p.History)-1]; last != p.Money {
				t.Fatalf("step %d: %s money=%d but history ends with %d", i, p.Name, p.Money, last)
			}
		}
	}

	p, _ := l.Player(a)
	want := []int{1500, 1800, -200, 0, -75, -75}
	if !reflect.DeepEqual(p.History, want) {
		t.Fatalf("expected history %v, got %v", want, p.History)
	}
	if money(t, l, b) != 1575 {
		t.Fatalf("expected Bob to receive 75, got %d", money(t, l, b))
	}
}

func TestMoney_PublishesMoneyThenBankruptCheck(t *testing.T) {
	rec := &domain.EventRecorder{}
	l := newTestLedger(t, WithEventSink(rec))
	a := mustAddPlayer(t, l, "Ann")

	if err := l.SubtractMoney(a, 1500); err != nil {
		t.Fatalf("SubtractMoney error: %v", err)
	}

	events := rec.Drain()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %+v", events)
	}
	if events[0].Type != domain.EventMoneyChanged || events[0].Money != 0 {
		t.Fatalf("expected money_changed(0) first, got %+v", events[0])
	}
	if events[1].Type != domain.EventBankruptCheck || !events[1].Bankrupt {
		t.Fatalf("expected bankrupt_check(true) second, got %+v", events[1])
	}
}

func TestJail_GuardsRedundantToggles(t *testing.T) {
	rec := &domain.EventRecorder{}
	l := newTestLedger(t, WithEventSink(rec))
	a := mustAddPlayer(t, l, "Ann")

	assertKind(t, l.Unjail(a), domain.KindAlreadyChosen)

	if err := l.Jail(a); err != nil {
		t.Fatalf("Jail error: %v", err)
	}
	assertKind(t, l.Jail(a), domain.KindAlreadyChosen)

	if err := l.Unjail(a); err != nil {
		t.Fatalf("Unjail error: %v", err)
	}

	events := rec.Drain()
	if len(events) != 2 || events[0].Type != domain.EventJailChanged || !events[0].InJail || events[1].InJail {
		t.Fatalf("expected jail_changed(true), jail_changed(false), got %+v", events)
	}
}

func TestIgnoreBankrupt(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	_ = l.SubtractMoney(a, 1600)

	if bankrupt, _ := l.CheckBankrupt(a); !bankrupt {
		t.Fatalf("expected bankrupt at -100")
	}

	assertKind(t, l.UnignoreBankrupt(a), domain.KindAlreadyChosen)
	if err := l.IgnoreBankrupt(a); err != nil {
		t.Fatalf("IgnoreBankrupt error: %v", err)
	}
	assertKind(t, l.IgnoreBankrupt(a), domain.KindAlreadyChosen)

	if bankrupt, _ := l.CheckBankrupt(a); bankrupt {
		t.Fatalf("expected bankruptcy to be ignored")
	}

	if err := l.UnignoreBankrupt(a); err != nil {
		t.Fatalf("UnignoreBankrupt error: %v", err)
	}
	if bankrupt, _ := l.CheckBankrupt(a); !bankrupt {
		t.Fatalf("expected bankrupt again")
	}
}

func TestChangeName_PublishesBeforeMutating(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	mustAddPlayer(t, l, "Bob")

	var (
		seen  string
		first domain.Event
		count int
	)
	l.Subscribe(domain.EventSinkFunc(func(e domain.Event) {
		if e.Type != domain.EventNameChanged {
			return
		}
		count++
		if count > 1 {
			return
		}
		p, _ := l.Player(e.Player)
		seen = p.Name
		first = e
	}))

	if err := l.ChangeName(a, "Anne"); err != nil {
		t.Fatalf("ChangeName error: %v", err)
	}
	if count != 1 || first.OldName != "Ann" || first.NewName != "Anne" {
		t.Fatalf("unexpected event %+v (count=%d)", first, count)
	}
	if seen != "Ann" {
		t.Fatalf("expected observer to see the old name, saw %q", seen)
	}
	if p, _ := l.Player(a); p.Name != "Anne" {
		t.Fatalf("expected name Anne, got %s", p.Name)
	}

	assertKind(t, l.ChangeName(a, "bob"), domain.KindAlreadyChosen)
	if err := l.ChangeName(a, "ANNE"); err != nil {
		t.Fatalf("expected case-only rename of self to succeed, got %v", err)
	}
}

func TestNetWorth(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")

	mustBuy(t, l, parkPlace, a)
	mustBuy(t, l, boardwalk, a)
	mustBuy(t, l, reading, a)
	if err := l.AddHouse(boardwalk, 2); err != nil {
		t.Fatalf("AddHouse error: %v", err)
	}
	if err := l.Mortgage(reading); err != nil {
		t.Fatalf("Mortgage error: %v", err)
	}

	// 1500 - 350 - 400 - 200 - 400 + 100 = 250 cash
	// + 350 + (400 + 2*200) + (200 - 110)
	got, err := l.NetWorth(a)
	if err != nil {
		t.Fatalf("NetWorth error: %v", err)
	}
	if want := 250 + 350 + 800 + 90; got != want {
		t.Fatalf("expected net worth %d, got %d", want, got)
	}
}

func TestAddAndRemoveProperty(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	b := mustAddPlayer(t, l, "Bob")

	if err := l.AddProperty(a, boardwalk); err != nil {
		t.Fatalf("AddProperty error: %v", err)
	}
	if money(t, l, a) != 1500 {
		t.Fatalf("expected no payment on AddProperty")
	}

	// Taking it for b detaches it from a.
	if err := l.AddProperty(b, boardwalk); err != nil {
		t.Fatalf("AddProperty error: %v", err)
	}
	assertConsistent(t, l)
	if p, _ := l.Player(a); p.Owns(boardwalk) {
		t.Fatalf("expected Ann to lose Boardwalk")
	}

	assertKind(t, l.RemoveProperty(a, boardwalk), domain.KindNotFound)

	if err := l.RemoveProperty(b, boardwalk); err != nil {
		t.Fatalf("RemoveProperty error: %v", err)
	}
	if mustProperty(t, l, boardwalk).Owned() {
		t.Fatalf("expected Boardwalk back with the bank")
	}
	assertConsistent(t, l)
}

func TestTransferAllProperties(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	b := mustAddPlayer(t, l, "Bob")

	mustBuy(t, l, baltic, b)
	for _, id := range []domain.PropertyID{boardwalk, reading, electric} {
		mustBuy(t, l, id, a)
	}

	if err := l.TransferAllProperties(a, b); err != nil {
		t.Fatalf("TransferAllProperties error: %v", err)
	}

	pa, _ := l.Player(a)
	pb, _ := l.Player(b)
	if len(pa.Properties) != 0 {
		t.Fatalf("expected Ann to hold nothing, got %v", pa.Properties)
	}
	want := []domain.PropertyID{baltic, boardwalk, reading, electric}
	if !reflect.DeepEqual(pb.Properties, want) {
		t.Fatalf("expected %v, got %v", want, pb.Properties)
	}
	assertConsistent(t, l)
}

func TestRemovePlayer_ReturnsPropertiesToBank(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	b := mustAddPlayer(t, l, "Bob")

	mustBuy(t, l, oddLane, a)
	if err := l.AddHouse(oddLane, 3); err != nil {
		t.Fatalf("AddHouse error: %v", err)
	}
	mustBuy(t, l, reading, a)
	_ = l.Mortgage(reading)

	if err := l.RemovePlayer(a); err != nil {
		t.Fatalf("RemovePlayer error: %v", err)
	}

	if _, err := l.Player(a); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected removed player to be gone, got %v", err)
	}
	players := l.Players()
	if len(players) != 1 || players[0].ID != b {
		t.Fatalf("expected only Bob left, got %+v", players)
	}

	odd := mustProperty(t, l, oddLane)
	rr := mustProperty(t, l, reading)
	if odd.Owned() || odd.Houses() != 0 || rr.Owned() || rr.Mortgaged {
		t.Fatalf("expected clean bank properties, got %+v / %+v", odd, rr)
	}

	// IDs are not reused.
	c := mustAddPlayer(t, l, "Cid")
	if c == a {
		t.Fatalf("expected a fresh id, got %d again", c)
	}
}

func TestPropertyList(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")

	got, _ := l.PropertyList(a)
	if !reflect.DeepEqual(got, []string{"None"}) {
		t.Fatalf("expected [None], got %v", got)
	}

	mustBuy(t, l, oddLane, a)
	_ = l.AddHouse(oddLane, 2)
	mustBuy(t, l, reading, a)
	_ = l.Mortgage(reading)
	mustBuy(t, l, boardwalk, a)
	_ = l.Mortgage(boardwalk)

	got, _ = l.PropertyList(a)
	want := []string{"Odd Lane: 2", "Reading Railroad (Mortgaged)", "Boardwalk (Mortgaged): 0"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPlayerByName(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")

	p, err := l.PlayerByName("ann")
	if err != nil || p.ID != a {
		t.Fatalf("expected Ann, got %+v err=%v", p, err)
	}
	_, err = l.PlayerByName("Zed")
	assertKind(t, err, domain.KindNotFound)
}
