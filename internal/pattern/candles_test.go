package pattern

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"example.com/level-pattern-monitor/internal/kline"
)

var baseTime = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// bar builds a one-minute kline; key is the minute offset from baseTime.
func bar(key int, open, high, low, close float64) kline.Kline {
	return kline.Kline{
		Symbol:   "BTCUSDT",
		Open:     open,
		High:     high,
		Low:      low,
		Close:    close,
		OpenTime: baseTime.Add(time.Duration(key) * time.Minute),
	}
}

func mustSeries(t *testing.T, klines ...kline.Kline) kline.Series {
	t.Helper()
	s, err := kline.NewSeries(klines)
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}
	return s
}

func keyOf(minute int) int64 {
	return baseTime.Add(time.Duration(minute) * time.Minute).UnixMilli()
}

// genSeries generates a valid series of n candles drifting around 100.
func genSeries(n int) gopter.Gen {
	return gen.SliceOfN(n, gen.Float64Range(90, 110)).Map(func(closes []float64) kline.Series {
		klines := make([]kline.Kline, len(closes))
		prev := 100.0
		for i, c := range closes {
			high, low := prev, c
			if c > prev {
				high, low = c, prev
			}
			klines[i] = bar(i, prev, high+0.5, low-0.5, c)
			prev = c
		}
		s, _ := kline.NewSeries(klines)
		return s
	})
}
