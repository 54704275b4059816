package judge

import (
	"fmt"
	"strings"

	"bullbear-qa/internal/types"
)

// Band assigns Rating to every score >= Min not claimed by a higher band.
type Band struct {
	Min    int
	Rating types.Rating
}

// Scheme is an ordered, exhaustive set of rating bands, highest Min first.
// The last band must start at 0.
type Scheme struct {
	Name  string
	Bands []Band
}

const (
	SchemeThreeTier = "three_tier"
	SchemeFiveTier  = "five_tier"
)

// Rating thresholds.
var (
	ThreeTier = Scheme{
		Name: SchemeThreeTier,
		Bands: []Band{
			{Min: 70, Rating: types.RatingBuy},
			{Min: 40, Rating: types.RatingHold},
			{Min: 0, Rating: types.RatingSell},
		},
	}
	FiveTier = Scheme{
		Name: SchemeFiveTier,
		Bands: []Band{
			{Min: 80, Rating: types.RatingStrongBuy},
			{Min: 60, Rating: types.RatingBuy},
			{Min: 40, Rating: types.RatingHold},
			{Min: 20, Rating: types.RatingSell},
			{Min: 0, Rating: types.RatingStrongSell},
		},
	}
)

// SchemeByName resolves a configured scheme name.
func SchemeByName(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SchemeThreeTier:
		return ThreeTier, nil
	case SchemeFiveTier:
		return FiveTier, nil
	}
	return Scheme{}, fmt.Errorf("unknown rating scheme %q", name)
}

// Rate maps a score in [0,100] to a rating.
func (s Scheme) Rate(score int) types.Rating {
	for _, b := range s.Bands {
		if score >= b.Min {
			return b.Rating
		}
	}
	return s.Bands[len(s.Bands)-1].Rating
}
