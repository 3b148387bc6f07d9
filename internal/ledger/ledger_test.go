package ledger

import (
	"testing"

	"github.com/aalvaropc/monoledger/internal/domain"
)

func streetCard(name, colour string, count int, price, house int, rents ...int) domain.CardRecord {
	return domain.CardRecord{
		Type: "normal",
		Name: name,
		Prices: map[string]int{
			"property": price, "mortgage": price / 2, "unmortgage": price/2 + price/20, "buy_house": house,
			"rent": rents[0], "street": rents[1], "1": rents[2], "2": rents[3], "3": rents[4], "4": rents[5], "hotel": rents[6],
		},
		Group: &domain.ColourGroup{Colour: colour, Count: count},
	}
}

func railroadCard(name string) domain.CardRecord {
	return domain.CardRecord{
		Type:   "railroad",
		Name:   name,
		Prices: map[string]int{"property": 200, "mortgage": 100, "unmortgage": 110, "1": 25, "2": 50, "3": 100, "4": 200},
	}
}

func utilityCard(name string) domain.CardRecord {
	return domain.CardRecord{
		Type:   "utility",
		Name:   name,
		Prices: map[string]int{"property": 150, "mortgage": 75, "unmortgage": 83, "1": 4, "2": 10},
	}
}

// testCards returns a reduced board. IDs follow the order below.
func testCards() []domain.CardRecord {
	return []domain.CardRecord{
		streetCard("Mediterranean Avenue", "brown", 2, 60, 50, 2, 4, 10, 30, 90, 160, 250),
		streetCard("Baltic Avenue", "brown", 2, 60, 50, 4, 8, 20, 60, 180, 320, 450),
		streetCard("Park Place", "dark blue", 2, 350, 200, 35, 70, 175, 500, 1100, 1300, 1500),
		streetCard("Boardwalk", "dark blue", 2, 400, 200, 50, 100, 200, 600, 1400, 1700, 2000),
		railroadCard("Reading Railroad"),
		railroadCard("Pennsylvania Railroad"),
		railroadCard("B. & O. Railroad"),
		railroadCard("Short Line"),
		utilityCard("Electric Company"),
		utilityCard("Water Works"),
		streetCard("Odd Lane", "teal", 1, 100, 75, 6, 12, 30, 90, 270, 400, 550),
	}
}

const (
	mediterranean domain.PropertyID = iota + 1
	baltic
	parkPlace
	boardwalk
	reading
	pennsylvania
	bAndO
	shortLine
	electric
	waterWorks
	oddLane
)

func testDefaults() domain.DefaultsConfig {
	return domain.DefaultConfig().Defaults
}

func newTestLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()
	l, err := New(testDefaults(), testCards(), opts...)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return l
}

func mustAddPlayer(t *testing.T, l *Ledger, name string) domain.PlayerID {
	t.Helper()
	p, err := l.AddPlayer(name)
	if err != nil {
		t.Fatalf("AddPlayer(%s) error: %v", name, err)
	}
	return p.ID
}

func mustBuy(t *testing.T, l *Ledger, prop domain.PropertyID, player domain.PlayerID) {
	t.Helper()
	if err := l.Buy(prop, player); err != nil {
		t.Fatalf("Buy(%d, %d) error: %v", prop, player, err)
	}
}

func money(t *testing.T, l *Ledger, id domain.PlayerID) int {
	t.Helper()
	p, err := l.Player(id)
	if err != nil {
		t.Fatalf("Player(%d) error: %v", id, err)
	}
	return p.Money
}

func mustProperty(t *testing.T, l *Ledger, id domain.PropertyID) domain.Property {
	t.Helper()
	p, err := l.Property(id)
	if err != nil {
		t.Fatalf("Property(%d) error: %v", id, err)
	}
	return p
}

func assertKind(t *testing.T, err error, kind domain.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !domain.IsKind(err, kind) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
}

// assertConsistent checks both sides of the owner↔properties association.
func assertConsistent(t *testing.T, l *Ledger) {
	t.Helper()

	owners := map[domain.PropertyID]domain.PlayerID{}
	for _, p := range l.Players() {
		for _, pid := range p.Properties {
			if prev, dup := owners[pid]; dup {
				t.Fatalf("property %d held by players %d and %d", pid, prev, p.ID)
			}
			owners[pid] = p.ID
		}
	}
	for _, prop := range l.Properties() {
		if got := owners[prop.ID]; got != prop.Owner {
			t.Fatalf("property %s: owner=%d but held by %d", prop.Name, prop.Owner, got)
		}
	}
}

func TestNew_RejectsBadCards(t *testing.T) {
	cards := append(testCards(), domain.CardRecord{Type: "chance", Name: "Go To Jail", Prices: map[string]int{}})
	_, err := New(testDefaults(), cards)
	assertKind(t, err, domain.KindUnexpectedValue)
}

func TestNew_AssignsIDsInCardOrder(t *testing.T) {
	l := newTestLedger(t)

	props := l.Properties()
	if len(props) != 11 {
		t.Fatalf("expected 11 properties, got %d", len(props))
	}
	if props[boardwalk-1].Name != "Boardwalk" || props[boardwalk-1].ID != boardwalk {
		t.Fatalf("unexpected property at boardwalk slot: %+v", props[boardwalk-1])
	}
	for _, p := range props {
		if p.Owned() {
			t.Fatalf("expected %s to start unowned", p.Name)
		}
	}
}

func TestCallersGetCopies(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddPlayer(t, l, "Ann")
	mustBuy(t, l, boardwalk, a)

	p, _ := l.Player(a)
	p.Money = 1
	p.Properties[0] = parkPlace

	prop := mustProperty(t, l, boardwalk)
	prop.Street.Houses = 5

	if money(t, l, a) != 1100 {
		t.Fatalf("expected ledger money untouched")
	}
	if mustProperty(t, l, boardwalk).Houses() != 0 {
		t.Fatalf("expected ledger houses untouched")
	}
	assertConsistent(t, l)
}
