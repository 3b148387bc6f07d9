package domain

import "fmt"

// PlayerID identifies a player inside a ledger. The zero value means "no player".
type PlayerID int

// NoPlayer marks an unowned property.
const NoPlayer PlayerID = 0

// PropertyID identifies a property inside a ledger.
type PropertyID int

// PropertyType tags the variant of a Property. Values match the card-set "type" field.
type PropertyType string

const (
	TypeStandard PropertyType = "normal"
	TypeRailroad PropertyType = "railroad"
	TypeUtility  PropertyType = "utility"
)

// MaxHouses is the house count that represents a hotel.
const MaxHouses = 5

// NoOwnerName is displayed for properties that belong to the bank.
const NoOwnerName = "None"

// RentKey indexes a standard property's rent table.
// RentBase..RentHotel equal the number of houses built.
type RentKey int

const (
	RentBase RentKey = iota
	RentOneHouse
	RentTwoHouses
	RentThreeHouses
	RentFourHouses
	RentHotel
	RentColourSet
)

func (k RentKey) String() string {
	switch k {
	case RentBase:
		return "base"
	case RentColourSet:
		return "colour set"
	case RentHotel:
		return "hotel"
	default:
		return fmt.Sprintf("%d houses", int(k))
	}
}

// ColourGroup describes the colour set a standard property belongs to.
type ColourGroup struct {
	Colour string `json:"colour"`
	Count  int    `json:"count"`
}

// StreetTerms is the payload of a standard property.
type StreetTerms struct {
	HousePrice int             `json:"house_price"`
	Rent       map[RentKey]int `json:"rent"`
	Group      ColourGroup     `json:"group"`
	Houses     int             `json:"houses"`
}

// RentFor looks up the rent table. Keys outside the table are a NotFound error.
func (s *StreetTerms) RentFor(key RentKey) (int, error) {
	rent, ok := s.Rent[key]
	if !ok {
		return 0, Errorf("property.rent", KindNotFound,
			"could not find rent for %s (base, colour set, 1-4 houses, hotel)", key)
	}
	return rent, nil
}

// RailroadTerms is the payload of a railroad; Rent is keyed by railroads owned.
type RailroadTerms struct {
	Rent map[int]int `json:"rent"`
}

func (r *RailroadTerms) RentFor(railroads int) (int, error) {
	rent, ok := r.Rent[railroads]
	if !ok {
		return 0, Errorf("property.rent", KindNotFound,
			"could not find rent for %d railroads (1-4 railroads)", railroads)
	}
	return rent, nil
}

// UtilityTerms is the payload of a utility; Multiplier is keyed by utilities owned.
type UtilityTerms struct {
	Multiplier map[int]int `json:"multiplier"`
}

func (u *UtilityTerms) MultiplierFor(utilities int) (int, error) {
	m, ok := u.Multiplier[utilities]
	if !ok {
		return 0, Errorf("property.rent", KindNotFound,
			"could not find multiplier for %d utilities (1-2 utilities)", utilities)
	}
	return m, nil
}

// Property is a tagged variant: the shared record plus exactly one payload
// selected by Type.
type Property struct {
	ID   PropertyID   `json:"id"`
	Name string       `json:"name"`
	Type PropertyType `json:"type"`

	Owner PlayerID `json:"owner"`

	Price           int  `json:"price"`
	MortgagePrice   int  `json:"mortgage_price"`
	UnmortgagePrice int  `json:"unmortgage_price"`
	Mortgaged       bool `json:"mortgaged"`

	TimesStepped int `json:"times_stepped"`
	SteppedPrice int `json:"stepped_price"`

	Street   *StreetTerms   `json:"street,omitempty"`
	Railroad *RailroadTerms `json:"railroad,omitempty"`
	Utility  *UtilityTerms  `json:"utility,omitempty"`
}

// Owned reports whether a player holds the property.
func (p Property) Owned() bool {
	return p.Owner != NoPlayer
}

// Houses returns the number of houses on a standard property, 0 otherwise.
func (p Property) Houses() int {
	if p.Type == TypeStandard && p.Street != nil {
		return p.Street.Houses
	}
	return 0
}

// StepAverage is the mean rent collected per step; 0 before the first step.
func (p Property) StepAverage() float64 {
	if p.TimesStepped == 0 {
		return 0
	}
	return float64(p.SteppedPrice) / float64(p.TimesStepped)
}

// Valuation is the property's contribution to its owner's net worth:
// price, net of the redemption cost when mortgaged, plus built houses.
func (p Property) Valuation() int {
	v := p.Price
	if p.Mortgaged {
		v -= p.UnmortgagePrice
	}
	if p.Type == TypeStandard && p.Street != nil {
		v += p.Street.Houses * p.Street.HousePrice
	}
	return v
}

// Clone returns a deep copy so callers never alias ledger-owned tables.
func (p Property) Clone() Property {
	out := p
	if p.Street != nil {
		s := *p.Street
		s.Rent = make(map[RentKey]int, len(p.Street.Rent))
		for k, v := range p.Street.Rent {
			s.Rent[k] = v
		}
		out.Street = &s
	}
	if p.Railroad != nil {
		r := RailroadTerms{Rent: make(map[int]int, len(p.Railroad.Rent))}
		for k, v := range p.Railroad.Rent {
			r.Rent[k] = v
		}
		out.Railroad = &r
	}
	if p.Utility != nil {
		u := UtilityTerms{Multiplier: make(map[int]int, len(p.Utility.Multiplier))}
		for k, v := range p.Utility.Multiplier {
			u.Multiplier[k] = v
		}
		out.Utility = &u
	}
	return out
}
