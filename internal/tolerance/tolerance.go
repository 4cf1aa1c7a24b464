// Package tolerance converts percent bands and point counts into price distances.
package tolerance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Mode selects how a Tolerance turns into a distance.
type Mode string

const (
	ModePercent Mode = "percent" // fraction of the reference price
	ModePoints  Mode = "points"  // point count at a decimal precision
)

// Tolerance is either a fraction of a reference price or an absolute
// distance of Points * 10^-Digits.
type Tolerance struct {
	Mode     Mode    `json:"mode"`
	Fraction float64 `json:"fraction,omitempty"`
	Digits   int32   `json:"digits,omitempty"`
	Points   int64   `json:"points,omitempty"`
}

// Percent returns a band of fraction*reference on each side (0.02 = 2%).
func Percent(fraction float64) Tolerance {
	return Tolerance{Mode: ModePercent, Fraction: fraction}
}

// Points returns an absolute band of points at the given decimal precision.
// Points(2, 5) is 0.05.
func Points(digits int32, points int64) Tolerance {
	return Tolerance{Mode: ModePoints, Digits: digits, Points: points}
}

// Distance returns the allowed absolute distance around ref.
func (t Tolerance) Distance(ref float64) float64 {
	if t.Mode == ModePoints {
		return PointsDistance(t.Digits, t.Points)
	}
	return ref * t.Fraction
}

// Bounds returns the inclusive [lower, upper] band around ref.
func (t Tolerance) Bounds(ref float64) (lower, upper float64) {
	if t.Mode == ModePoints {
		d := PointsDistance(t.Digits, t.Points)
		return ref - d, ref + d
	}
	return ref * (1 - t.Fraction), ref * (1 + t.Fraction)
}

// Contains reports whether price lies inside the band around ref.
// Non-finite bounds compare false, so degenerate references never match.
func (t Tolerance) Contains(ref, price float64) bool {
	lower, upper := t.Bounds(ref)
	return InRange(price, lower, upper)
}

// Validate checks that the tolerance is usable.
func (t Tolerance) Validate() error {
	switch t.Mode {
	case ModePercent:
		if t.Fraction < 0 {
			return fmt.Errorf("tolerance: negative fraction %v", t.Fraction)
		}
	case ModePoints:
		if t.Digits < 0 || t.Points < 0 {
			return fmt.Errorf("tolerance: invalid points %d at %d digits", t.Points, t.Digits)
		}
	default:
		return fmt.Errorf("tolerance: unknown mode %q", t.Mode)
	}
	return nil
}

func (t Tolerance) String() string {
	if t.Mode == ModePoints {
		return fmt.Sprintf("%d points @%d digits", t.Points, t.Digits)
	}
	return decimal.NewFromFloat(t.Fraction).Mul(decimal.NewFromInt(100)).String() + "%"
}

// InRange reports lower <= v <= upper.
func InRange(v, lower, upper float64) bool {
	return v >= lower && v <= upper
}

// PointSize returns 10^-digits.
func PointSize(digits int32) float64 {
	f, _ := decimal.New(1, -digits).Float64()
	return f
}

// PointsDistance returns points * 10^-digits computed in decimal so that
// e.g. 5 points at 2 digits is exactly 0.05 rather than 0.05000000000000001.
func PointsDistance(digits int32, points int64) float64 {
	f, _ := decimal.New(points, -digits).Float64()
	return f
}

// RoundToPrecision rounds v half away from zero to the given number of decimals.
func RoundToPrecision(v float64, digits int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(digits).Float64()
	return f
}
