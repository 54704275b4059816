package types

// Dimension is one axis of the investment score.
type Dimension string

const (
	DimensionFundamental Dimension = "fundamental"
	DimensionTechnical   Dimension = "technical"
	DimensionSentiment   Dimension = "sentiment"
)

func Dimensions() []Dimension {
	return []Dimension{DimensionFundamental, DimensionTechnical, DimensionSentiment}
}

// Rating is the discrete recommendation derived from a score.
type Rating string

const (
	RatingStrongBuy  Rating = "Strong Buy"
	RatingBuy        Rating = "Buy"
	RatingHold       Rating = "Hold"
	RatingSell       Rating = "Sell"
	RatingStrongSell Rating = "Strong Sell"
)

// Action maps a rating to a trade direction. ok is false for Hold.
func (r Rating) Action() (Action, bool) {
	switch r {
	case RatingStrongBuy, RatingBuy:
		return ActionBuy, true
	case RatingSell, RatingStrongSell:
		return ActionSell, true
	}
	return "", false
}

// InvestmentScore is the judge's quantified verdict. Breakdown holds the
// signed contribution (dimension score minus the neutral baseline) of every
// dimension that had evidence.
type InvestmentScore struct {
	Score     int               `json:"score"`
	Rating    Rating            `json:"rating"`
	Breakdown map[Dimension]int `json:"breakdown"`
}

// Has reports whether the dimension had evidence.
func (s InvestmentScore) Has(d Dimension) bool {
	_, ok := s.Breakdown[d]
	return ok
}
