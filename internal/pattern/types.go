// Package pattern detects level-relative candle patterns: bounces, retests,
// hidden limit participants and pressure buildups, plus a few supporting
// shape and volatility detectors.
package pattern

// PatternType represents a detected pattern type.
type PatternType string

const (
	// Level window patterns
	PatternBounce           PatternType = "level_bounce"
	PatternRetestNear       PatternType = "retest_near"
	PatternRetestFar        PatternType = "retest_far"
	PatternLimitParticipant PatternType = "limit_participant"
	PatternPressureBuildup  PatternType = "pressure_buildup"

	// Single candle and volatility patterns
	PatternHammer           PatternType = "hammer"
	PatternSmallBarApproach PatternType = "small_bar_approach"
	PatternAtrSpike         PatternType = "atr_spike"
	PatternTrend            PatternType = "hhll_trend"

	// talib-cdl-go shapes on the candle that meets the level
	PatternDoji            PatternType = "doji"
	PatternDojiStar        PatternType = "doji_star"
	PatternEveningStar     PatternType = "evening_star"
	PatternPiercing        PatternType = "piercing"
	PatternMatchingLow     PatternType = "matching_low"
	PatternThreeInside     PatternType = "three_inside"
	PatternThreeOutside    PatternType = "three_outside"
	PatternThreeLineStrike PatternType = "three_line_strike"
	PatternAdvanceBlock    PatternType = "advance_block"
	PatternBeltHold        PatternType = "belt_hold"
	PatternClosingMarubozu PatternType = "closing_marubozu"
	PatternTwoCrows        PatternType = "two_crows"
	PatternStickSandwich   PatternType = "stick_sandwich"
)

// Direction represents the pattern direction.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Side is the participant a pattern points at.
type Side string

const (
	SideBuyer  Side = "buyer"  // Limit player on lows
	SideSeller Side = "seller" // Limit player on highs
)

// Direction maps a side to the price direction it defends.
func (s Side) Direction() Direction {
	switch s {
	case SideBuyer:
		return DirectionBullish
	case SideSeller:
		return DirectionBearish
	default:
		return DirectionNeutral
	}
}

// PatternNames maps pattern types to display names.
var PatternNames = map[PatternType]string{
	PatternBounce:           "Level Bounce",
	PatternRetestNear:       "Near Retest",
	PatternRetestFar:        "Far Retest",
	PatternLimitParticipant: "Limit Participant",
	PatternPressureBuildup:  "Pressure Buildup",

	PatternHammer:           "Hammer",
	PatternSmallBarApproach: "Small Bar Approach",
	PatternAtrSpike:         "ATR Spike",
	PatternTrend:            "HH/LL Trend",

	PatternDoji:            "Doji",
	PatternDojiStar:        "Doji Star",
	PatternEveningStar:     "Evening Star",
	PatternPiercing:        "Piercing",
	PatternMatchingLow:     "Matching Low",
	PatternThreeInside:     "Three Inside",
	PatternThreeOutside:    "Three Outside",
	PatternThreeLineStrike: "Three Line Strike",
	PatternAdvanceBlock:    "Advance Block",
	PatternBeltHold:        "Belt Hold",
	PatternClosingMarubozu: "Closing Marubozu",
	PatternTwoCrows:        "Two Crows",
	PatternStickSandwich:   "Stick Sandwich",
}
