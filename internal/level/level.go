// Package level classifies how a single candle sits relative to a price level.
package level

import (
	"fmt"

	"example.com/level-pattern-monitor/internal/kline"
)

// Position is one of the seven mutually exclusive candle/level states.
type Position int

const (
	Below        Position = iota // whole candle under the level
	TouchesBelow                 // high == level
	Above                        // whole candle over the level
	TouchesAbove                 // low == level
	BodyBelow                    // level inside the upper wick
	BodyAbove                    // level inside the lower wick
	BodyCrosses                  // level inside the body
)

var positionNames = [...]string{
	Below:        "below",
	TouchesBelow: "touches_below",
	Above:        "above",
	TouchesAbove: "touches_above",
	BodyBelow:    "body_below",
	BodyAbove:    "body_above",
	BodyCrosses:  "body_crosses",
}

func (p Position) String() string {
	if p < 0 || int(p) >= len(positionNames) {
		return "unknown"
	}
	return positionNames[p]
}

// Crossing is the classification of one candle against one level.
// Distance is the wick-to-level gap for Below and Above, zero otherwise.
type Crossing struct {
	Position Position
	Distance float64
}

// Classify returns the state of c relative to lvl.
// High and low are checked before the body so a wick-only touch is never
// reported as a body cross. Touch equality is exact.
func Classify(c kline.Candle, lvl float64) Crossing {
	high := c.HighPrice()
	if high < lvl {
		return Crossing{Position: Below, Distance: lvl - high}
	}
	if high == lvl {
		return Crossing{Position: TouchesBelow}
	}

	low := c.LowPrice()
	if lvl < low {
		return Crossing{Position: Above, Distance: low - lvl}
	}
	if lvl == low {
		return Crossing{Position: TouchesAbove}
	}

	open, close := c.OpenPrice(), c.ClosePrice()
	if lvl < open && lvl < close {
		return Crossing{Position: BodyAbove}
	}
	if lvl > open && lvl > close {
		return Crossing{Position: BodyBelow}
	}
	return Crossing{Position: BodyCrosses}
}

// IsTouch reports an exact wick touch from either side.
func (c Crossing) IsTouch() bool {
	return c.Position == TouchesBelow || c.Position == TouchesAbove
}

// IsCross is the negation of IsTouch.
func (c Crossing) IsCross() bool {
	return !c.IsTouch()
}

func (c Crossing) IsAboveOrTouchesAbove() bool {
	return c.Position == Above || c.Position == TouchesAbove
}

func (c Crossing) IsBelowOrTouchesBelow() bool {
	return c.Position == Below || c.Position == TouchesBelow
}

func (c Crossing) String() string {
	if c.Position == Below || c.Position == Above {
		return fmt.Sprintf("%s(%g)", c.Position, c.Distance)
	}
	return c.Position.String()
}
