package kline

import (
	"testing"
	"time"
)

func TestKline_Body(t *testing.T) {
	tests := []struct {
		name     string
		open     float64
		close    float64
		expected float64
	}{
		{"bullish", 100.0, 110.0, 10.0},
		{"bearish", 110.0, 100.0, 10.0},
		{"doji", 100.0, 100.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Kline{Open: tt.open, Close: tt.close}
			if got := Body(k); got != tt.expected {
				t.Errorf("Body() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKline_UpperShadow(t *testing.T) {
	tests := []struct {
		name     string
		open     float64
		high     float64
		close    float64
		expected float64
	}{
		{"bullish", 100.0, 115.0, 110.0, 5.0},
		{"bearish", 110.0, 115.0, 100.0, 5.0},
		{"no upper shadow bullish", 100.0, 110.0, 110.0, 0.0},
		{"no upper shadow bearish", 110.0, 110.0, 100.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Kline{Open: tt.open, High: tt.high, Close: tt.close}
			if got := UpperShadow(k); got != tt.expected {
				t.Errorf("UpperShadow() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKline_LowerShadow(t *testing.T) {
	tests := []struct {
		name     string
		open     float64
		low      float64
		close    float64
		expected float64
	}{
		{"bullish", 100.0, 95.0, 110.0, 5.0},
		{"bearish", 110.0, 95.0, 100.0, 5.0},
		{"no lower shadow bullish", 100.0, 100.0, 110.0, 0.0},
		{"no lower shadow bearish", 110.0, 100.0, 100.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Kline{Open: tt.open, Low: tt.low, Close: tt.close}
			if got := LowerShadow(k); got != tt.expected {
				t.Errorf("LowerShadow() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKline_Direction(t *testing.T) {
	tests := []struct {
		name    string
		open    float64
		close   float64
		bullish bool
		bearish bool
	}{
		{"bullish", 100.0, 110.0, true, false},
		{"bearish", 110.0, 100.0, false, true},
		{"doji", 100.0, 100.0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Kline{Open: tt.open, Close: tt.close}
			if got := IsBullish(k); got != tt.bullish {
				t.Errorf("IsBullish() = %v, want %v", got, tt.bullish)
			}
			if got := IsBearish(k); got != tt.bearish {
				t.Errorf("IsBearish() = %v, want %v", got, tt.bearish)
			}
		})
	}
}

func TestKline_TimeKey(t *testing.T) {
	openTime := time.Date(2024, 1, 1, 10, 5, 0, 0, time.UTC)
	k := Kline{OpenTime: openTime}

	if got := k.TimeKey(); got != openTime.UnixMilli() {
		t.Errorf("TimeKey() = %v, want %v", got, openTime.UnixMilli())
	}
}
