package ledger

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aalvaropc/monoledger/internal/domain"
)

// PropertyInfo renders the property card: prices, rent table, owner and state.
// Amounts carry thousands separators.
func (l *Ledger) PropertyInfo(id domain.PropertyID) (string, error) {
	p, err := l.property("ledger.propertyinfo", id)
	if err != nil {
		return "", err
	}

	var (
		b   strings.Builder
		out = message.NewPrinter(language.English)
	)
	line := func(format string, args ...any) {
		b.WriteString(out.Sprintf(format, args...))
		b.WriteByte('\n')
	}

	line("Property Name: %s", p.Name)
	line("Owner: %s", l.ownerName(p))
	line("Price: %d", p.Price)

	switch p.Type {
	case domain.TypeStandard:
		s := p.Street
		line("Price per House: %d", s.HousePrice)
		line("Rent: %d", s.Rent[domain.RentBase])
		line("Set Rent: %d", s.Rent[domain.RentColourSet])
		line("1 House: %d", s.Rent[domain.RentOneHouse])
		line("2 Houses: %d", s.Rent[domain.RentTwoHouses])
		line("3 Houses: %d", s.Rent[domain.RentThreeHouses])
		line("4 Houses: %d", s.Rent[domain.RentFourHouses])
		line("Hotel: %d", s.Rent[domain.RentHotel])

	case domain.TypeRailroad:
		line("1 Railroad: %d", p.Railroad.Rent[1])
		line("2 Railroads: %d", p.Railroad.Rent[2])
		line("3 Railroads: %d", p.Railroad.Rent[3])
		line("4 Railroads: %d", p.Railroad.Rent[4])

	case domain.TypeUtility:
		line("Multiplier for 1 Utility: %d", p.Utility.Multiplier[1])
		line("Multiplier for 2 Utilities: %d", p.Utility.Multiplier[2])
	}

	line("Mortgage Price: %d", p.MortgagePrice)
	line("Unmortgage Price: %d", p.UnmortgagePrice)

	if p.Type == domain.TypeStandard {
		line("Colour Set: %s", cases.Title(language.English).String(p.Street.Group.Colour))
	}
	line("Mortgaged: %t", p.Mortgaged)
	if p.Type == domain.TypeStandard {
		line("Houses (5 is a hotel): %d", p.Street.Houses)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// PropertyStats renders the step statistics of an owned property.
func (l *Ledger) PropertyStats(id domain.PropertyID) (string, error) {
	avg, err := l.StepAverage(id)
	if err != nil {
		return "", err
	}
	p := l.props[id]

	out := message.NewPrinter(language.English)
	return out.Sprintf("%s: stepped %d times, earned %d, average %.2f per step",
		p.Name, p.TimesStepped, p.SteppedPrice, avg), nil
}
