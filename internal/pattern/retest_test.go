package pattern

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"example.com/level-pattern-monitor/internal/kline"
	"example.com/level-pattern-monitor/internal/tolerance"
)

// Level 100 with the default 2% band covers [98, 102].
func touchFromBelow(key int) kline.Kline { return bar(key, 97, 99.5, 96, 97.5) }
func touchFromAbove(key int) kline.Kline { return bar(key, 103, 104, 101, 103.5) }
func awayFromLevel(key int) kline.Kline  { return bar(key, 90, 92, 88, 91) }

// retestSeries places touches at the given minute offsets and fills the
// rest of [0, n) with candles away from the level.
func retestSeries(t *testing.T, n int, touches map[int]func(int) kline.Kline) kline.Series {
	klines := make([]kline.Kline, n)
	for i := range klines {
		if mk, ok := touches[i]; ok {
			klines[i] = mk(i)
		} else {
			klines[i] = awayFromLevel(i)
		}
	}
	return mustSeries(t, klines...)
}

func TestRetestDetector_Detect(t *testing.T) {
	tests := []struct {
		name      string
		series    func(t *testing.T) kline.Series
		wantOK    bool
		wantGrade RetestGrade
		wantDir   BumpDirection
		wantKey   int64
	}{
		{
			name: "near retest from below",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 3, map[int]func(int) kline.Kline{0: touchFromBelow, 2: touchFromBelow})
			},
			wantOK:    true,
			wantGrade: RetestNear,
			wantDir:   BumpFromBelow,
			wantKey:   keyOf(0),
		},
		{
			name: "near retest from above",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 6, map[int]func(int) kline.Kline{1: touchFromAbove, 5: touchFromAbove})
			},
			wantOK:    true,
			wantGrade: RetestNear,
			wantDir:   BumpFromAbove,
			wantKey:   keyOf(1),
		},
		{
			name: "far retest",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 13, map[int]func(int) kline.Kline{0: touchFromBelow, 12: touchFromBelow})
			},
			wantOK:    true,
			wantGrade: RetestFar,
			wantDir:   BumpFromBelow,
			wantKey:   keyOf(0),
		},
		{
			name: "second touch on last near offset",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 11, map[int]func(int) kline.Kline{0: touchFromBelow, 10: touchFromBelow})
			},
			wantOK:    true,
			wantGrade: RetestNear,
			wantDir:   BumpFromBelow,
			wantKey:   keyOf(0),
		},
		{
			name: "second touch on first far offset",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 12, map[int]func(int) kline.Kline{0: touchFromBelow, 11: touchFromBelow})
			},
			wantOK:    true,
			wantGrade: RetestFar,
			wantDir:   BumpFromBelow,
			wantKey:   keyOf(0),
		},
		{
			name: "second touch on last far offset",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 31, map[int]func(int) kline.Kline{0: touchFromBelow, 30: touchFromBelow})
			},
			wantOK:    true,
			wantGrade: RetestFar,
			wantDir:   BumpFromBelow,
			wantKey:   keyOf(0),
		},
		{
			name: "earlier touch outside far window",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 32, map[int]func(int) kline.Kline{0: touchFromBelow, 31: touchFromBelow})
			},
		},
		{
			name: "latest candle away from level",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 4, map[int]func(int) kline.Kline{0: touchFromBelow, 2: touchFromBelow})
			},
		},
		{
			name: "level still contested",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 5, map[int]func(int) kline.Kline{0: touchFromBelow, 3: touchFromBelow, 4: touchFromBelow})
			},
		},
		{
			name: "touches from opposite sides",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 3, map[int]func(int) kline.Kline{0: touchFromAbove, 2: touchFromBelow})
			},
		},
		{
			name: "single touch",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 8, map[int]func(int) kline.Kline{7: touchFromBelow})
			},
		},
		{
			name: "below minimum depth",
			series: func(t *testing.T) kline.Series {
				return retestSeries(t, 2, map[int]func(int) kline.Kline{1: touchFromBelow})
			},
		},
	}

	detector := NewRetestDetector(DefaultRetestConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detector.Detect(tt.series(t), 100)
			if ok != tt.wantOK {
				t.Fatalf("Detect() ok = %v, want %v (got %+v)", ok, tt.wantOK, got)
			}
			if !ok {
				return
			}
			if got.Grade != tt.wantGrade {
				t.Errorf("Grade = %v, want %v", got.Grade, tt.wantGrade)
			}
			if got.Direction != tt.wantDir {
				t.Errorf("Direction = %v, want %v", got.Direction, tt.wantDir)
			}
			if got.TimeKey != tt.wantKey {
				t.Errorf("TimeKey = %d, want %d", got.TimeKey, tt.wantKey)
			}
		})
	}
}

func TestRetestDetector_Match(t *testing.T) {
	detector := NewRetestDetector(DefaultRetestConfig())

	near := retestSeries(t, 3, map[int]func(int) kline.Kline{0: touchFromBelow, 2: touchFromBelow})
	d, ok := detector.Match(near, 100)
	if !ok {
		t.Fatal("Expected near retest match")
	}
	if d.Pattern != PatternRetestNear || d.Direction != DirectionBullish {
		t.Errorf("Match() = %v/%v, want %v/%v", d.Pattern, d.Direction, PatternRetestNear, DirectionBullish)
	}

	far := retestSeries(t, 13, map[int]func(int) kline.Kline{0: touchFromAbove, 12: touchFromAbove})
	d, ok = detector.Match(far, 100)
	if !ok {
		t.Fatal("Expected far retest match")
	}
	if d.Pattern != PatternRetestFar || d.Direction != DirectionBearish {
		t.Errorf("Match() = %v/%v, want %v/%v", d.Pattern, d.Direction, PatternRetestFar, DirectionBearish)
	}
}

func TestRetestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  RetestConfig
		wantErr bool
	}{
		{"default", DefaultRetestConfig(), false},
		{"negative tolerance", RetestConfig{Tolerance: -0.1, NearPeriod: 10, FarPeriod: 30}, true},
		{"far inside near", RetestConfig{Tolerance: 0.02, NearPeriod: 10, FarPeriod: 5}, true},
		{"zero near period", RetestConfig{Tolerance: 0.02, NearPeriod: 0, FarPeriod: 30}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// Property test: identical inputs give identical results
func TestProperty_RetestIsPure(t *testing.T) {
	properties := gopter.NewProperties(nil)
	detector := NewRetestDetector(DefaultRetestConfig())

	properties.Property("two calls agree", prop.ForAll(
		func(s kline.Series, lvl float64) bool {
			d1, ok1 := detector.Match(s, lvl)
			d2, ok2 := detector.Match(s, lvl)
			return ok1 == ok2 && reflect.DeepEqual(d1, d2)
		},
		genSeries(15),
		gen.Float64Range(95, 105),
	))

	// Property test: a touch on the second most recent candle always fails
	properties.Property("contested level never matches", prop.ForAll(
		func(s kline.Series, lvl float64) bool {
			prev := s.At(s.Len() - 2)
			_, hit := bumpedIntoLevel(prev, lvl, tolerance.Percent(DefaultRetestConfig().Tolerance))
			if !hit {
				return true
			}
			_, ok := detector.Detect(s, lvl)
			return !ok
		},
		genSeries(15),
		gen.Float64Range(95, 105),
	))

	properties.TestingRun(t)
}
