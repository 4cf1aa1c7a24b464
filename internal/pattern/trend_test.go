package pattern

import (
	"testing"

	"example.com/level-pattern-monitor/internal/kline"
)

func TestTrendDetector_DetectTrend(t *testing.T) {
	rising := make([]kline.Kline, 10)
	falling := make([]kline.Kline, 10)
	choppy := make([]kline.Kline, 10)
	for i := range rising {
		f := float64(i)
		rising[i] = bar(i, 100+f, 101+f, 99+f, 100.5+f)
		falling[i] = bar(i, 100-f, 101-f, 99-f, 99.5-f)
		wobble := float64(i % 2)
		choppy[i] = bar(i, 100, 101+wobble, 99+wobble, 100)
	}

	tests := []struct {
		name   string
		klines []kline.Kline
		want   TrendDirection
		wantOK bool
	}{
		{"higher highs", rising, TrendUp, true},
		{"lower lows", falling, TrendDown, true},
		{"alternating", choppy, TrendSideways, true},
		{"single candle", rising[:1], "", false},
	}

	detector := NewTrendDetector(DefaultTrendConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detector.DetectTrend(mustSeries(t, tt.klines...))
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DetectTrend() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTrendDetector_PeriodLimitsWindow(t *testing.T) {
	// Falling for 10 candles, then rising for the last 4.
	klines := make([]kline.Kline, 14)
	for i := 0; i < 10; i++ {
		f := float64(i)
		klines[i] = bar(i, 100-f, 101-f, 99-f, 99.5-f)
	}
	for i := 10; i < 14; i++ {
		f := float64(i - 10)
		klines[i] = bar(i, 92+f, 95+f, 91+f, 94+f)
	}
	s := mustSeries(t, klines...)

	got, _ := NewTrendDetector(TrendConfig{MinConfirmationRatio: 0.6, Period: 4}).DetectTrend(s)
	if got != TrendUp {
		t.Errorf("DetectTrend(period 4) = %v, want up", got)
	}
	got, _ = NewTrendDetector(TrendConfig{MinConfirmationRatio: 0.6, Period: 0}).DetectTrend(s)
	if got != TrendDown {
		t.Errorf("DetectTrend(all) = %v, want down", got)
	}
}

func TestTrendDetector_Match(t *testing.T) {
	falling := make([]kline.Kline, 5)
	for i := range falling {
		f := float64(i)
		falling[i] = bar(i, 100-f, 101-f, 99-f, 99.5-f)
	}

	d, ok := NewTrendDetector(DefaultTrendConfig()).Match(mustSeries(t, falling...), 95)
	if !ok {
		t.Fatal("Expected trend match")
	}
	if d.Direction != DirectionBearish || d.Pattern != PatternTrend {
		t.Errorf("Match() = %v/%v, want %v/bearish", d.Pattern, d.Direction, PatternTrend)
	}
}

func TestTrendConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  TrendConfig
		wantErr bool
	}{
		{"default", DefaultTrendConfig(), false},
		{"zero ratio", TrendConfig{MinConfirmationRatio: 0, Period: 10}, true},
		{"ratio above one", TrendConfig{MinConfirmationRatio: 1.2, Period: 10}, true},
		{"negative period", TrendConfig{MinConfirmationRatio: 0.6, Period: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
