package domain

import (
	"fmt"
	"strings"
)

// Price keys understood in a card record's "prices" mapping.
const (
	PriceProperty   = "property"
	PriceMortgage   = "mortgage"
	PriceUnmortgage = "unmortgage"
	PriceBuyHouse   = "buy_house"
	PriceRent       = "rent"
	PriceStreet     = "street"
	PriceHotel      = "hotel"
)

// CardRecord is one flat entry of a card set, as handed over by a loader.
type CardRecord struct {
	Type   string         `json:"type"`
	Name   string         `json:"name"`
	Prices map[string]int `json:"prices"`
	Group  *ColourGroup   `json:"group,omitempty"`
}

// CardSetRef is a lightweight reference to a card set file on disk.
type CardSetRef struct {
	Name string
	Path string
}

// BuildProperties sorts card records into property variants.
// IDs are assigned in record order starting at 1.
func BuildProperties(records []CardRecord) ([]Property, error) {
	out := make([]Property, 0, len(records))
	seen := make(map[string]int, len(records))

	for i, rec := range records {
		key := strings.ToLower(strings.TrimSpace(rec.Name))
		if prev, ok := seen[key]; ok && key != "" {
			return nil, Errorf("cardset.build", KindUnexpectedValue,
				"records[%d]: duplicate property name %q (first seen at records[%d])", i, rec.Name, prev)
		}
		seen[key] = i

		p, err := BuildProperty(PropertyID(i+1), rec)
		if err != nil {
			return nil, &OpError{
				Op:   "cardset.build",
				Kind: KindOf(err),
				Err:  fmt.Errorf("records[%d]: %w", i, err),
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// BuildProperty turns a single record into a property of the variant named by its type.
func BuildProperty(id PropertyID, rec CardRecord) (Property, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return Property{}, unexpected("property name is required")
	}

	var (
		prices = priceReader{name: name, prices: rec.Prices}
		p      = Property{
			ID:              id,
			Name:            name,
			Owner:           NoPlayer,
			Price:           prices.get(PriceProperty),
			MortgagePrice:   prices.get(PriceMortgage),
			UnmortgagePrice: prices.get(PriceUnmortgage),
		}
	)

	switch PropertyType(strings.ToLower(strings.TrimSpace(rec.Type))) {
	case TypeStandard:
		if rec.Group == nil {
			return Property{}, unexpected("property %q of type normal requires a group", name)
		}
		if rec.Group.Count < 1 {
			return Property{}, unexpected("property %q: group count must be at least 1", name)
		}
		p.Type = TypeStandard
		p.Street = &StreetTerms{
			HousePrice: prices.get(PriceBuyHouse),
			Rent: map[RentKey]int{
				RentBase:        prices.get(PriceRent),
				RentColourSet:   prices.get(PriceStreet),
				RentOneHouse:    prices.get("1"),
				RentTwoHouses:   prices.get("2"),
				RentThreeHouses: prices.get("3"),
				RentFourHouses:  prices.get("4"),
				RentHotel:       prices.get(PriceHotel),
			},
			Group: ColourGroup{
				Colour: strings.ToLower(strings.TrimSpace(rec.Group.Colour)),
				Count:  rec.Group.Count,
			},
		}

	case TypeRailroad:
		p.Type = TypeRailroad
		p.Railroad = &RailroadTerms{Rent: map[int]int{
			1: prices.get("1"),
			2: prices.get("2"),
			3: prices.get("3"),
			4: prices.get("4"),
		}}

	case TypeUtility:
		p.Type = TypeUtility
		p.Utility = &UtilityTerms{Multiplier: map[int]int{
			1: prices.get("1"),
			2: prices.get("2"),
		}}

	default:
		return Property{}, unexpected("unknown property type %q loaded from card set file", rec.Type)
	}

	if prices.err != nil {
		return Property{}, prices.err
	}
	return p, nil
}

// priceReader records the first missing key instead of failing each lookup.
type priceReader struct {
	name   string
	prices map[string]int
	err    error
}

func (r *priceReader) get(key string) int {
	v, ok := r.prices[key]
	if !ok && r.err == nil {
		r.err = unexpected("property %q is missing price %q", r.name, key)
	}
	return v
}

func unexpected(format string, args ...any) error {
	return Errorf("cardset.build", KindUnexpectedValue, format, args...)
}
