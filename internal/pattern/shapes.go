package pattern

import (
	"fmt"
	"math"

	talibcdl "github.com/iwat/talib-cdl-go"

	"example.com/level-pattern-monitor/internal/kline"
	"example.com/level-pattern-monitor/internal/level"
)

// shape is one talib-cdl-go recognizer. An empty direction means the
// sign of the result decides it.
type shape struct {
	pattern   PatternType
	direction Direction
	recognize func(talibcdl.SimpleSeries) []int
}

var shapes = []shape{
	{PatternDoji, DirectionNeutral, func(s talibcdl.SimpleSeries) []int { return talibcdl.Doji(s) }},
	{PatternDojiStar, "", func(s talibcdl.SimpleSeries) []int { return talibcdl.DojiStar(s) }},
	{PatternEveningStar, DirectionBearish, func(s talibcdl.SimpleSeries) []int { return talibcdl.EveningStar(s, 0.3) }},
	{PatternPiercing, DirectionBullish, func(s talibcdl.SimpleSeries) []int { return talibcdl.Piercing(s) }},
	{PatternMatchingLow, DirectionBullish, func(s talibcdl.SimpleSeries) []int { return talibcdl.MatchingLow(s) }},
	{PatternThreeInside, "", func(s talibcdl.SimpleSeries) []int { return talibcdl.ThreeInside(s) }},
	{PatternThreeOutside, "", func(s talibcdl.SimpleSeries) []int { return talibcdl.ThreeOutside(s) }},
	{PatternThreeLineStrike, "", func(s talibcdl.SimpleSeries) []int { return talibcdl.ThreeLineStrike(s) }},
	{PatternAdvanceBlock, DirectionBearish, func(s talibcdl.SimpleSeries) []int { return talibcdl.AdvanceBlock(s) }},
	{PatternBeltHold, "", func(s talibcdl.SimpleSeries) []int { return talibcdl.BeltHold(s) }},
	{PatternClosingMarubozu, "", func(s talibcdl.SimpleSeries) []int { return talibcdl.ClosingMarubozu(s) }},
	{PatternTwoCrows, DirectionBearish, func(s talibcdl.SimpleSeries) []int { return talibcdl.TwoCrows(s) }},
	{PatternStickSandwich, DirectionBullish, func(s talibcdl.SimpleSeries) []int { return talibcdl.StickSandwich(s) }},
}

// ShapeDetector runs the talib-cdl-go recognizers on the candle that
// reaches the level and reports the first shape that fires.
type ShapeDetector struct{}

// NewShapeDetector creates a new candlestick shape detector.
func NewShapeDetector() *ShapeDetector {
	return &ShapeDetector{}
}

func (d *ShapeDetector) Name() string { return "candle_shape" }

// toSeries converts candles to talib-cdl-go SimpleSeries format, oldest first.
func toSeries(series kline.Series) talibcdl.SimpleSeries {
	n := series.Len()
	s := talibcdl.SimpleSeries{
		Opens:  make([]float64, n),
		Highs:  make([]float64, n),
		Lows:   make([]float64, n),
		Closes: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		c := series.At(i)
		s.Opens[i] = c.OpenPrice()
		s.Highs[i] = c.HighPrice()
		s.Lows[i] = c.LowPrice()
		s.Closes[i] = c.ClosePrice()
	}
	return s
}

// Match requires at least three candles and a last candle that is not
// entirely above or below the level.
func (d *ShapeDetector) Match(series kline.Series, lvl float64) (Detection, bool) {
	n := series.Len()
	if n < 3 || math.IsNaN(lvl) || math.IsInf(lvl, 0) {
		return Detection{}, false
	}

	last := series.At(n - 1)
	switch level.Classify(last, lvl).Position {
	case level.Below, level.Above:
		return Detection{}, false
	}

	s := toSeries(series)
	lastIdx := n - 1
	for _, sh := range shapes {
		results := sh.recognize(s)
		if len(results) <= lastIdx || results[lastIdx] == 0 {
			continue
		}
		r := results[lastIdx]

		dir := sh.direction
		if dir == "" {
			dir = DirectionBullish
			if r < 0 {
				dir = DirectionBearish
			}
		}

		return Detection{
			Pattern:     sh.pattern,
			Direction:   dir,
			Level:       lvl,
			TimeKey:     ptrInt64(last.TimeKey()),
			Confidence:  ptrFloat(math.Min(float64(absInt(r))/100, 1)),
			Description: fmt.Sprintf("%s at level %.2f", PatternNames[sh.pattern], lvl),
		}, true
	}
	return Detection{}, false
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
